// Package outbound defines the ports the domain layer depends on. Adapters
// under internal/adapter implement them.
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/model"
)

// Store-level sentinel errors. Adapters translate their engine's failures into
// these; the domain layer decides which application error kind each one means
// at a given call site.
var (
	// ErrItemNotFound is returned by lookups for a missing key.
	ErrItemNotFound = errors.New("item not found")
	// ErrConditionFailed is returned when a conditional or transactional
	// write's precondition did not hold.
	ErrConditionFailed = errors.New("condition failed")
)

// TeamStorePort defines team persistence operations.
type TeamStorePort interface {
	// CreateWithAdmin writes the team and its creator's admin membership as a
	// single all-or-nothing transaction. Each item carries a must-not-exist
	// precondition; a failed precondition surfaces as ErrConditionFailed with
	// neither item committed.
	CreateWithAdmin(ctx context.Context, team *model.Team, admin *model.Membership) error

	// FindByID retrieves a team by ID.
	FindByID(ctx context.Context, teamID string) (*model.Team, error)
}

// MembershipStorePort defines membership persistence operations.
type MembershipStorePort interface {
	// Add writes a new membership, failing with ErrConditionFailed when a row
	// for (team, user) already exists.
	Add(ctx context.Context, m *model.Membership) error

	// Find retrieves the membership for (team, user).
	Find(ctx context.Context, teamID, userID string) (*model.Membership, error)

	// FindByTeam lists all memberships of a team.
	FindByTeam(ctx context.Context, teamID string) ([]*model.Membership, error)

	// FindByUser lists all memberships of a user across teams, via the
	// userId secondary index.
	FindByUser(ctx context.Context, userID string) ([]*model.Membership, error)
}

// TaskStorePort defines task persistence operations.
type TaskStorePort interface {
	// Create writes a new task, failing with ErrConditionFailed when the key
	// already exists.
	Create(ctx context.Context, task *model.Task) error

	// Find retrieves a task by (team, task) key.
	Find(ctx context.Context, teamID, taskID string) (*model.Task, error)

	// FindByTeam lists all tasks in a team's partition.
	FindByTeam(ctx context.Context, teamID string) ([]*model.Task, error)

	// Update applies the non-nil fields plus the audit fields to an existing
	// task. Fails with ErrConditionFailed when the task no longer exists.
	Update(ctx context.Context, teamID, taskID string, fields TaskUpdate) (*model.Task, error)

	// Delete removes a task by key.
	Delete(ctx context.Context, teamID, taskID string) error
}

// TaskUpdate carries the fields of a conditional task update. Nil fields are
// left untouched. UpdatedAt/UpdatedBy are always set.
type TaskUpdate struct {
	Title       *string
	Description *string
	AssignedTo  *string
	Deadline    *string
	Priority    *model.TaskPriority
	Status      *model.TaskStatus
	UpdatedAt   time.Time
	UpdatedBy   string
}

// UserStorePort defines user projection lookups.
type UserStorePort interface {
	// Find retrieves a user projection by id.
	Find(ctx context.Context, userID string) (*model.User, error)
}
