// Package authz enforces team-scoped access control. Every operation that
// targets a team resolves the caller's membership row here before touching
// anything else; a wrong answer in this package leaks data across tenants.
package authz

import (
	"context"
	"errors"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/model"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/port/outbound"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/apperr"
)

// Authorizer answers membership and role questions for a team.
type Authorizer struct {
	members outbound.MembershipStorePort
}

// NewAuthorizer creates a new authorizer.
func NewAuthorizer(members outbound.MembershipStorePort) *Authorizer {
	return &Authorizer{members: members}
}

// RequireMember returns the caller's membership in the team, or an
// AuthorizationError when none exists.
func (a *Authorizer) RequireMember(ctx context.Context, teamID, callerID string) (*model.Membership, error) {
	m, err := a.members.Find(ctx, teamID, callerID)
	if err != nil {
		if errors.Is(err, outbound.ErrItemNotFound) {
			return nil, apperr.Authorization("you are not a member of this team")
		}
		return nil, apperr.Internal("failed to check team membership", err)
	}
	return m, nil
}

// RequireAdmin returns the caller's membership when it carries the admin
// role, or an AuthorizationError naming the required role.
func (a *Authorizer) RequireAdmin(ctx context.Context, teamID, callerID string) (*model.Membership, error) {
	m, err := a.RequireMember(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	if m.Role != model.RoleAdmin {
		return nil, apperr.Authorization("this operation requires the admin role")
	}
	return m, nil
}

// IsMember reports whether the given user has any membership in the team.
// Lookup failures other than absence propagate as internal errors.
func (a *Authorizer) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	_, err := a.members.Find(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, outbound.ErrItemNotFound) {
			return false, nil
		}
		return false, apperr.Internal("failed to check team membership", err)
	}
	return true, nil
}
