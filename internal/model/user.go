package model

import (
	"strings"
	"time"
)

// User is a best-effort profile projection. It is informational only and never
// gates authorization.
type User struct {
	UserID    string    `json:"userId" dynamodbav:"userId"`
	Email     string    `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Name      string    `json:"name" dynamodbav:"name"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	// IsDefault marks a synthesized projection for a user with no stored row.
	IsDefault bool `json:"isDefault,omitempty" dynamodbav:"-"`
}

// DefaultUser synthesizes a projection for an id with no stored record. When
// the id looks like an email, the display name is its local part.
func DefaultUser(userID string) *User {
	name := userID
	if at := strings.Index(userID, "@"); at > 0 {
		name = userID[:at]
	}
	u := &User{
		UserID:    userID,
		Name:      name,
		IsDefault: true,
	}
	if strings.Contains(userID, "@") {
		u.Email = userID
	}
	return u
}
