// Package identity derives one stable user identifier from an identity
// provider's claims bag.
//
// Membership rows are keyed by whatever string Normalize produced when the
// user first appeared, so every component that derives "the same user" must go
// through this exact function. Changing the candidate order is a breaking
// change to stored data.
package identity

import (
	"strings"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/apperr"
)

// candidateClaims is the canonical priority order. Subject id first, then
// username variants, then email.
var candidateClaims = []string{
	"sub",
	"username",
	"cognito:username",
	"email",
}

// Claims is the raw claims bag handed to the core by the entry point. Values
// may be strings or anything else a token decoder produces; only non-empty
// strings are usable.
type Claims map[string]any

// Normalize returns the first present, non-empty, trimmed string among the
// candidate claims, or an AuthorizationError when no usable identifier exists.
func Normalize(claims Claims) (string, error) {
	for _, key := range candidateClaims {
		raw, ok := claims[key]
		if !ok {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s, nil
		}
	}
	return "", apperr.Authorization("identity undeterminable")
}
