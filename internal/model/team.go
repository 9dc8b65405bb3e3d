package model

import "time"

// Role represents a member's role within a team.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is valid.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// Team is a tenant boundary. AdminID is the creator's normalized identity and
// is immutable, as is CreatedAt.
type Team struct {
	TeamID    string    `json:"teamId" dynamodbav:"teamId"`
	Name      string    `json:"name" dynamodbav:"name"`
	AdminID   string    `json:"adminId" dynamodbav:"adminId"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
}

// TeamWithRole is the Team shape returned to a caller, augmented with the
// caller's own role in that team.
type TeamWithRole struct {
	Team
	UserRole Role `json:"userRole"`
}

// Membership links a user to a team. Exactly one row exists per (team, user)
// pair; rows are never mutated after creation.
type Membership struct {
	TeamID   string    `json:"teamId" dynamodbav:"teamId"`
	UserID   string    `json:"userId" dynamodbav:"userId"`
	Role     Role      `json:"role" dynamodbav:"role"`
	JoinedAt time.Time `json:"joinedAt" dynamodbav:"joinedAt"`
	// AddedBy is the inviter's id; empty for the self-created admin membership.
	AddedBy string `json:"addedBy,omitempty" dynamodbav:"addedBy,omitempty"`
}
