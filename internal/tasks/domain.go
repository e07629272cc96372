package tasks

import "time"

// Status tracks a warehouse task through its lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether the status is known.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Priority orders tasks in work queues.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether the priority is known.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task is a unit of warehouse work, optionally tied to a picking.
type Task struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	AssignedTo       *int64     `json:"assigned_to"`
	RelatedPickingID *int64     `json:"related_picking_id"`
	Status           Status     `json:"status"`
	Priority         Priority   `json:"priority"`
	DueDate          *time.Time `json:"due_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	AssigneeLoginID  string `json:"assignee_login_id,omitempty"`
	PickingReference string `json:"picking_reference,omitempty"`
}
