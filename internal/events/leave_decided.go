package events

import "time"

const (
	LeaveSubmittedTopic = "leave.request.submitted.v1"
	LeaveDecidedTopic   = "leave.request.decided.v1"
)

// LeaveSubmittedEvent notifies admins a new request is awaiting a decision.
type LeaveSubmittedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id"`
	UserID         string    `json:"user_id"`
	RequesterEmail string    `json:"requester_email"`
	RequesterName  string    `json:"requester_name"`
	LeaveType      string    `json:"leave_type"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// LeaveDecidedEvent fans out decision notifications. Delivery is best-effort:
// the status transition has already committed by the time this is published.
type LeaveDecidedEvent struct {
	EventType       string    `json:"event_type"`
	RequestID       string    `json:"request_id"`
	UserID          string    `json:"user_id"`
	RequesterEmail  string    `json:"requester_email"`
	RequesterName   string    `json:"requester_name"`
	LeaveType       string    `json:"leave_type"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	Status          string    `json:"status"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	DecidedBy       string    `json:"decided_by"`
	OccurredAt      time.Time `json:"occurred_at"`
}
