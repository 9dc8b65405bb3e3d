// Package task implements the task operations: creation, status transitions,
// partial detail edits, deletion, and the member-scoped list/search reads.
package task

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/domain/authz"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/model"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/notify"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/port/outbound"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/apperr"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/validate"
)

// Field bounds.
const (
	titleMinLen       = 1
	titleMaxLen       = 200
	descriptionMinLen = 1
	descriptionMaxLen = 1000
)

// Domain implements the task domain logic.
type Domain struct {
	tasks      outbound.TaskStorePort
	authorizer *authz.Authorizer
	dispatcher *notify.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewDomain creates a new task domain.
func NewDomain(
	tasks outbound.TaskStorePort,
	authorizer *authz.Authorizer,
	dispatcher *notify.Dispatcher,
	logger *zap.Logger,
) *Domain {
	return &Domain{
		tasks:      tasks,
		authorizer: authorizer,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateTaskInput carries the createTask arguments. Priority and Deadline are
// optional; AssignedTo is optional and must reference a team member when set.
type CreateTaskInput struct {
	TeamID      string
	Title       string
	Description string
	AssignedTo  string
	Priority    model.TaskPriority
	Deadline    string
}

// CreateTask creates a task in a team. Admin-only.
func (d *Domain) CreateTask(ctx context.Context, callerID string, in CreateTaskInput) (*model.Task, error) {
	if err := validate.NonEmpty(in.TeamID, "teamId"); err != nil {
		return nil, err
	}
	if err := validate.NonEmpty(in.Title, "title"); err != nil {
		return nil, err
	}
	if err := validate.Length(in.Title, "title", titleMinLen, titleMaxLen); err != nil {
		return nil, err
	}
	if err := validate.NonEmpty(in.Description, "description"); err != nil {
		return nil, err
	}
	if err := validate.Length(in.Description, "description", descriptionMinLen, descriptionMaxLen); err != nil {
		return nil, err
	}
	if in.Priority != "" {
		if err := validate.OneOf(in.Priority, "priority", model.PriorityLow, model.PriorityMedium, model.PriorityHigh); err != nil {
			return nil, err
		}
	}
	if in.Deadline != "" {
		if err := validate.FutureDate(in.Deadline, "deadline", d.now()); err != nil {
			return nil, err
		}
	}

	if _, err := d.authorizer.RequireAdmin(ctx, in.TeamID, callerID); err != nil {
		return nil, err
	}

	if in.AssignedTo != "" {
		if err := d.requireAssignable(ctx, in.TeamID, in.AssignedTo); err != nil {
			return nil, err
		}
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	now := d.now().UTC()
	task := &model.Task{
		TeamID:      in.TeamID,
		TaskID:      uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		AssignedTo:  in.AssignedTo,
		Status:      model.StatusNotStarted,
		Priority:    priority,
		Deadline:    in.Deadline,
		CreatedBy:   callerID,
		CreatedAt:   now,
		UpdatedAt:   now,
		UpdatedBy:   callerID,
	}

	if err := d.tasks.Create(ctx, task); err != nil {
		if errors.Is(err, outbound.ErrConditionFailed) {
			return nil, apperr.Validation("a task with this id already exists")
		}
		return nil, apperr.Internal("failed to create task", err)
	}

	d.logger.Info("task created",
		zap.String("team_id", task.TeamID),
		zap.String("task_id", task.TaskID),
		zap.String("created_by", callerID),
	)

	if task.AssignedTo != "" && task.AssignedTo != callerID {
		d.dispatcher.Send(ctx,
			"New task assigned",
			fmt.Sprintf("You have been assigned the task %q.", task.Title),
			task.AssignedTo,
			map[string]string{"teamId": task.TeamID, "taskId": task.TaskID},
		)
	}

	return task, nil
}

// UpdateStatus transitions a task's status. The current assignee or any team
// admin may call it. Setting the current status again is a deliberate no-op:
// no write, no timestamp bump, no notification.
func (d *Domain) UpdateStatus(ctx context.Context, callerID, teamID, taskID string, status model.TaskStatus) (*model.Task, error) {
	if err := validate.NonEmpty(teamID, "teamId"); err != nil {
		return nil, err
	}
	if err := validate.NonEmpty(taskID, "taskId"); err != nil {
		return nil, err
	}

	task, err := d.fetch(ctx, teamID, taskID)
	if err != nil {
		return nil, err
	}

	if task.AssignedTo != callerID {
		if _, err := d.authorizer.RequireAdmin(ctx, teamID, callerID); err != nil {
			if apperr.IsAuthorization(err) {
				return nil, apperr.Authorization("only the assignee or a team admin can update the task status")
			}
			return nil, err
		}
	}

	if err := validate.OneOf(status, "status", model.StatusNotStarted, model.StatusInProgress, model.StatusCompleted); err != nil {
		return nil, err
	}

	if status == task.Status {
		return task, nil
	}

	updated, err := d.tasks.Update(ctx, teamID, taskID, outbound.TaskUpdate{
		Status:    &status,
		UpdatedAt: d.now().UTC(),
		UpdatedBy: callerID,
	})
	if err != nil {
		if errors.Is(err, outbound.ErrConditionFailed) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, apperr.Internal("failed to update task status", err)
	}

	d.logger.Info("task status updated",
		zap.String("team_id", teamID),
		zap.String("task_id", taskID),
		zap.String("from", string(task.Status)),
		zap.String("to", string(status)),
		zap.String("updated_by", callerID),
	)

	d.dispatcher.SendAll(ctx,
		"Task status updated",
		fmt.Sprintf("Task %q moved from %s to %s.", task.Title, task.Status, status),
		[]string{task.CreatedBy, task.AssignedTo},
		callerID,
		map[string]string{"teamId": teamID, "taskId": taskID},
	)

	return updated, nil
}

// UpdateDetails applies a partial edit to a task. Admin-only. Only supplied
// fields are validated and written; a deadline on edit needs only to parse,
// so admins can correct one that has already lapsed. An empty patch returns
// the task unchanged. Detail edits do not notify.
func (d *Domain) UpdateDetails(ctx context.Context, callerID, teamID, taskID string, patch model.TaskPatch) (*model.Task, error) {
	if err := validate.NonEmpty(teamID, "teamId"); err != nil {
		return nil, err
	}
	if err := validate.NonEmpty(taskID, "taskId"); err != nil {
		return nil, err
	}

	task, err := d.fetch(ctx, teamID, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := d.authorizer.RequireAdmin(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return task, nil
	}

	update := outbound.TaskUpdate{
		UpdatedAt: d.now().UTC(),
		UpdatedBy: callerID,
	}
	if patch.Title != nil {
		if err := validate.NonEmpty(*patch.Title, "title"); err != nil {
			return nil, err
		}
		if err := validate.Length(*patch.Title, "title", titleMinLen, titleMaxLen); err != nil {
			return nil, err
		}
		title := strings.TrimSpace(*patch.Title)
		update.Title = &title
	}
	if patch.Description != nil {
		if err := validate.NonEmpty(*patch.Description, "description"); err != nil {
			return nil, err
		}
		if err := validate.Length(*patch.Description, "description", descriptionMinLen, descriptionMaxLen); err != nil {
			return nil, err
		}
		description := strings.TrimSpace(*patch.Description)
		update.Description = &description
	}
	if patch.AssignedTo != nil {
		if *patch.AssignedTo != "" {
			if err := d.requireAssignable(ctx, teamID, *patch.AssignedTo); err != nil {
				return nil, err
			}
		}
		update.AssignedTo = patch.AssignedTo
	}
	if patch.Deadline != nil {
		if *patch.Deadline != "" {
			if _, _, err := validate.ParseDate(*patch.Deadline, "deadline"); err != nil {
				return nil, err
			}
		}
		update.Deadline = patch.Deadline
	}
	if patch.Priority != nil {
		if err := validate.OneOf(*patch.Priority, "priority", model.PriorityLow, model.PriorityMedium, model.PriorityHigh); err != nil {
			return nil, err
		}
		update.Priority = patch.Priority
	}

	updated, err := d.tasks.Update(ctx, teamID, taskID, update)
	if err != nil {
		if errors.Is(err, outbound.ErrConditionFailed) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, apperr.Internal("failed to update task", err)
	}

	d.logger.Info("task details updated",
		zap.String("team_id", teamID),
		zap.String("task_id", taskID),
		zap.String("updated_by", callerID),
	)

	return updated, nil
}

// DeleteTask removes a task. Admin-only; the role check runs before the task
// fetch so non-admins learn nothing about task existence.
func (d *Domain) DeleteTask(ctx context.Context, callerID, teamID, taskID string) (bool, error) {
	if err := validate.NonEmpty(teamID, "teamId"); err != nil {
		return false, err
	}
	if err := validate.NonEmpty(taskID, "taskId"); err != nil {
		return false, err
	}

	if _, err := d.authorizer.RequireAdmin(ctx, teamID, callerID); err != nil {
		return false, err
	}

	task, err := d.fetch(ctx, teamID, taskID)
	if err != nil {
		return false, err
	}

	if err := d.tasks.Delete(ctx, teamID, taskID); err != nil {
		return false, apperr.Internal("failed to delete task", err)
	}

	d.logger.Info("task deleted",
		zap.String("team_id", teamID),
		zap.String("task_id", taskID),
		zap.String("deleted_by", callerID),
	)

	if task.AssignedTo != "" && task.AssignedTo != callerID {
		d.dispatcher.Send(ctx,
			"Task deleted",
			fmt.Sprintf("Task %q assigned to you was deleted.", task.Title),
			task.AssignedTo,
			map[string]string{"teamId": teamID, "taskId": taskID},
		)
	}

	return true, nil
}

// ListTasks lists a team's tasks, filtered by the caller's visibility and
// sorted by priority then recency. Any member may call it.
func (d *Domain) ListTasks(ctx context.Context, callerID, teamID string) ([]*model.Task, error) {
	if err := validate.NonEmpty(teamID, "teamId"); err != nil {
		return nil, err
	}
	membership, err := d.authorizer.RequireMember(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}

	tasks, err := d.tasks.FindByTeam(ctx, teamID)
	if err != nil {
		return nil, apperr.Internal("failed to list tasks", err)
	}

	tasks = visibleTo(tasks, membership)
	sortByPriority(tasks)
	return tasks, nil
}

// SearchTasks filters a team's visible tasks by a case-insensitive substring
// across title, description, assignee, status, and priority. Title matches
// rank above matches on any other field.
func (d *Domain) SearchTasks(ctx context.Context, callerID, teamID, term string) ([]*model.Task, error) {
	if err := validate.NonEmpty(teamID, "teamId"); err != nil {
		return nil, err
	}
	if err := validate.NonEmpty(term, "searchTerm"); err != nil {
		return nil, err
	}
	membership, err := d.authorizer.RequireMember(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}

	tasks, err := d.tasks.FindByTeam(ctx, teamID)
	if err != nil {
		return nil, apperr.Internal("failed to search tasks", err)
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	matched := make([]*model.Task, 0, len(tasks))
	for _, t := range visibleTo(tasks, membership) {
		if matchesTerm(t, needle) {
			matched = append(matched, t)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		ti := titleMatches(matched[i], needle)
		tj := titleMatches(matched[j], needle)
		if ti != tj {
			return ti
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

// fetch loads a task, translating absence into NotFoundError.
func (d *Domain) fetch(ctx context.Context, teamID, taskID string) (*model.Task, error) {
	task, err := d.tasks.Find(ctx, teamID, taskID)
	if err != nil {
		if errors.Is(err, outbound.ErrItemNotFound) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, apperr.Internal("failed to load task", err)
	}
	return task, nil
}

// requireAssignable rejects an assignee with no membership in the team. This
// is about the caller's input, not their rights, so it is a ValidationError.
func (d *Domain) requireAssignable(ctx context.Context, teamID, assignee string) error {
	ok, err := d.authorizer.IsMember(ctx, teamID, assignee)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation("cannot assign task to a user who is not a team member")
	}
	return nil
}

// visibleTo applies the member visibility policy: admins see everything;
// members see their own tasks plus unassigned ones, which stay visible to all
// so they can be claimed.
func visibleTo(tasks []*model.Task, membership *model.Membership) []*model.Task {
	if membership.Role == model.RoleAdmin {
		return tasks
	}
	visible := make([]*model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.AssignedTo == "" || t.AssignedTo == membership.UserID {
			visible = append(visible, t)
		}
	}
	return visible
}

// sortByPriority orders tasks by priority rank descending, newest first
// within a rank.
func sortByPriority(tasks []*model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ri, rj := tasks[i].Priority.Rank(), tasks[j].Priority.Rank()
		if ri != rj {
			return ri > rj
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

func matchesTerm(t *model.Task, needle string) bool {
	if titleMatches(t, needle) {
		return true
	}
	for _, field := range []string{t.Description, t.AssignedTo, string(t.Status), string(t.Priority)} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func titleMatches(t *model.Task, needle string) bool {
	return strings.Contains(strings.ToLower(t.Title), needle)
}
