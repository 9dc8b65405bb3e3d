// Package user implements the read-only user projection lookup.
package user

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/model"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/port/outbound"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/apperr"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/validate"
)

// Domain implements the user domain logic.
type Domain struct {
	users  outbound.UserStorePort
	logger *zap.Logger
}

// NewDomain creates a new user domain.
func NewDomain(users outbound.UserStorePort, logger *zap.Logger) *Domain {
	return &Domain{users: users, logger: logger}
}

// GetUser returns the stored projection for the id, or a synthesized default
// when none exists. The projection is informational only; absence is not an
// error and never gates anything.
func (d *Domain) GetUser(ctx context.Context, userID string) (*model.User, error) {
	if err := validate.NonEmpty(userID, "userId"); err != nil {
		return nil, err
	}

	u, err := d.users.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, outbound.ErrItemNotFound) {
			return model.DefaultUser(userID), nil
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return u, nil
}
