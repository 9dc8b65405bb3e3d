// Package handler is the single entry point of the core. It re-derives the
// caller's identity from the claims bag, routes by operation name to a domain
// operation, and normalizes every failure into the four-kind error taxonomy
// before it reaches the caller.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/domain/task"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/domain/team"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/domain/user"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/identity"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/model"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/apperr"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/utils/metrics"
)

// Operation names accepted by Handle.
const (
	OpCreateTeam        = "createTeam"
	OpAddMember         = "addMember"
	OpCreateTask        = "createTask"
	OpUpdateTask        = "updateTask"
	OpUpdateTaskDetails = "updateTaskDetails"
	OpDeleteTask        = "deleteTask"
	OpListTeams         = "listTeams"
	OpListTasks         = "listTasks"
	OpSearchTasks       = "searchTasks"
	OpListMembers       = "listMembers"
	OpGetUser           = "getUser"
)

// Request is the operation-name/arguments/identity record the entry point
// accepts. The transport has already verified the token; the claims bag is
// trusted input here.
type Request struct {
	Operation string          `json:"operation"`
	Arguments json.RawMessage `json:"arguments"`
	Identity  identity.Claims `json:"identity"`
}

// Handler routes requests to domain operations.
type Handler struct {
	teams   *team.Domain
	tasks   *task.Domain
	users   *user.Domain
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New creates a new handler.
func New(teams *team.Domain, tasks *task.Domain, users *user.Domain, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{teams: teams, tasks: tasks, users: users, metrics: m, logger: logger}
}

// Handle executes one request and returns the operation's shaped result.
// Errors outside the taxonomy are logged with full context and wrapped as
// InternalError; taxonomy errors pass through with their kind preserved.
func (h *Handler) Handle(ctx context.Context, req Request) (result any, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("operation panicked",
				zap.String("operation", req.Operation),
				zap.Any("panic", r),
			)
			err = apperr.Internal("", fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			err = h.normalize(req, err)
		}
		h.observe(req.Operation, time.Since(start), err)
	}()

	callerID, err := identity.Normalize(req.Identity)
	if err != nil {
		return nil, err
	}

	h.logger.Info("handling operation",
		zap.String("operation", req.Operation),
		zap.String("caller_id", callerID),
	)

	switch req.Operation {
	case OpCreateTeam:
		var args struct {
			Name string `json:"name"`
		}
		if err := h.decode(req.Arguments, &args); err != nil {
			return nil, err
		}
		return h.teams.CreateTeam(ctx, callerID, args.Name)

	case OpAddMember:
		var args struct {
			TeamID string `json:"teamId"`
			Email  string `json:"email"`
		}
		if err := h.decode(req.Arguments, &args); err != nil {
			return nil, err
		}
		return h.teams.AddMember(ctx, callerID, args.TeamID, args.Email)

	case OpCreateTask:
		var args struct {
			TeamID      string             `json:"teamId"`
			Title       string             `json:"title"`
			Description string             `json:"description"`
			AssignedTo  string             `json:"assignedTo"`
			Priority    model.TaskPriority `json:"priority"`
			Deadline    string             `json:"deadline"`
		}
		if err := h.decode(req.Arguments, &args); err != nil {
			return nil, err
		}
		return h.tasks.CreateTask(ctx, callerID, task.CreateTaskInput{
			TeamID:      args.TeamID,
			Title:       args.Title,
			Description: args.Description,
			AssignedTo:  args.AssignedTo,
			Priority:    args.Priority,
			Deadline:    args.Deadline,
		})

	case OpUpdateTask:
		var args struct {
			TeamID string           `json:"teamId"`
			TaskID string           `json:"taskId"`
			Status model.TaskStatus `json:"status"`
		}
		if err := h.decode(req.Arguments, &args); err != nil {
			return nil, err
		}
		return h.tasks.UpdateStatus(ctx, callerID, args.TeamID, args.TaskID, args.Status)

	case OpUpdateTaskDetails:
		var args struct {
			TeamID string `json:"teamId"`
			TaskID string `json:"taskId"`
			model.TaskPatch
		}
		if err := h.decode(req.Arguments, &args); err != nil {
			return nil, err
		}
		return h.tasks.UpdateDetails(ctx, callerID, args.TeamID, args.TaskID, args.TaskPatch)

	case OpDeleteTask:
		var args struct {
			TeamID string `json:"teamId"`
			TaskID string `json:"taskId"`
		}
		if err := h.decode(req.Arguments, &args); err != nil {
			return nil, err
		}
		ok, err := h.tasks.DeleteTask(ctx, callerID, args.TeamID, args.TaskID)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"success": ok}, nil

	case OpListTeams:
		return h.teams.ListTeams(ctx, callerID)

	case OpListTasks:
		var args struct {
			TeamID string `json:"teamId"`
		}
		if err := h.decode(req.Arguments, &args); err != nil {
			return nil, err
		}
		return h.tasks.ListTasks(ctx, callerID, args.TeamID)

	case OpSearchTasks:
		var args struct {
			TeamID     string `json:"teamId"`
			SearchTerm string `json:"searchTerm"`
		}
		if err := h.decode(req.Arguments, &args); err != nil {
			return nil, err
		}
		return h.tasks.SearchTasks(ctx, callerID, args.TeamID, args.SearchTerm)

	case OpListMembers:
		var args struct {
			TeamID string `json:"teamId"`
		}
		if err := h.decode(req.Arguments, &args); err != nil {
			return nil, err
		}
		return h.teams.ListMembers(ctx, callerID, args.TeamID)

	case OpGetUser:
		var args struct {
			UserID string `json:"userId"`
		}
		if err := h.decode(req.Arguments, &args); err != nil {
			return nil, err
		}
		return h.users.GetUser(ctx, args.UserID)

	default:
		return nil, apperr.Validation("unknown operation %q", req.Operation)
	}
}

func (h *Handler) decode(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		return apperr.Validation("arguments are required")
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return apperr.Validation("malformed arguments: %v", err)
	}
	return nil
}

// normalize keeps taxonomy errors intact and wraps everything else, logging
// the cause that must not leak to the caller.
func (h *Handler) normalize(req Request, err error) error {
	appErr := apperr.Normalize(err)
	if appErr.Kind == apperr.KindInternal {
		h.logger.Error("operation failed",
			zap.String("operation", req.Operation),
			zap.Error(err),
		)
	}
	return appErr
}

func (h *Handler) observe(operation string, elapsed time.Duration, err error) {
	if h.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(apperr.KindOf(err))
	}
	h.metrics.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	h.metrics.OperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
