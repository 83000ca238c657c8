package events

import "time"

const ToilDecidedTopic = "toil.entry.decided.v1"

// ToilDecidedEvent carries the accrual decision plus the balance snapshot
// taken inside the approval transaction.
type ToilDecidedEvent struct {
	EventType       string    `json:"event_type"`
	EntryID         string    `json:"entry_id"`
	UserID          string    `json:"user_id"`
	RequesterEmail  string    `json:"requester_email"`
	RequesterName   string    `json:"requester_name"`
	Scenario        string    `json:"scenario"`
	Hours           float64   `json:"hours"`
	PreviousBalance float64   `json:"previous_balance"`
	NewBalance      float64   `json:"new_balance"`
	Status          string    `json:"status"`
	Reason          string    `json:"reason,omitempty"`
	DecidedBy       string    `json:"decided_by"`
	OccurredAt      time.Time `json:"occurred_at"`
}
