package models

import "time"

// JobAction - действие над работой, о котором публикуется событие.
type JobAction string

const (
	ActionCreated   JobAction = "created"
	ActionApplied   JobAction = "applied"
	ActionAssigned  JobAction = "assigned"
	ActionStarted   JobAction = "started"
	ActionCompleted JobAction = "completed"
	ActionInvoiced  JobAction = "invoiced"
	ActionPaid      JobAction = "paid"
	ActionUpdated   JobAction = "updated"
	ActionDeleted   JobAction = "deleted"
)

// JobEvent - событие жизненного цикла работы.
type JobEvent struct {
	Action     JobAction `json:"action"`
	JobID      string    `json:"jobId"`
	Status     JobStatus `json:"status,omitempty"`
	AssignedTo string    `json:"assignedTo,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
