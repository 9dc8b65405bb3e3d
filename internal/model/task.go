package model

import "time"

// TaskStatus represents a task's workflow state.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "Not Started"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

// IsValid checks if the status is valid.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// TaskPriority represents a task's priority.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// IsValid checks if the priority is valid.
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank returns the sort weight of the priority. Unknown or absent priorities
// weigh the same as Medium.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// Task is a unit of work within a team. AssignedTo, when non-empty, must
// reference a Membership of the same team. Deadline is an ISO-8601 date or
// timestamp kept as supplied; empty means no deadline.
type Task struct {
	TeamID      string       `json:"teamId" dynamodbav:"teamId"`
	TaskID      string       `json:"taskId" dynamodbav:"taskId"`
	Title       string       `json:"title" dynamodbav:"title"`
	Description string       `json:"description" dynamodbav:"description"`
	AssignedTo  string       `json:"assignedTo,omitempty" dynamodbav:"assignedTo,omitempty"`
	Status      TaskStatus   `json:"status" dynamodbav:"status"`
	Priority    TaskPriority `json:"priority" dynamodbav:"priority"`
	Deadline    string       `json:"deadline,omitempty" dynamodbav:"deadline,omitempty"`
	CreatedBy   string       `json:"createdBy" dynamodbav:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt" dynamodbav:"updatedAt"`
	UpdatedBy   string       `json:"updatedBy" dynamodbav:"updatedBy"`
}

// TaskPatch carries the fields of a partial task update. A nil field was not
// supplied and must be left untouched; presence is meaningful even for empty
// strings, which validation then rejects.
type TaskPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	AssignedTo  *string       `json:"assignedTo,omitempty"`
	Deadline    *string       `json:"deadline,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
}

// IsEmpty reports whether no field was supplied.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.AssignedTo == nil &&
		p.Deadline == nil && p.Priority == nil
}
