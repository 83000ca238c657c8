package toil

type CreateToilEntryRequest struct {
	// UserID lets an admin file an entry on someone's behalf; defaults to
	// the requester.
	UserID     string   `json:"user_id" binding:"omitempty,uuid"`
	Date       string   `json:"date" binding:"required"`
	Scenario   string   `json:"scenario" binding:"required,oneof=LOCAL_SHOW WORKING_DAY_PANEL OVERNIGHT_DAY_OFF OVERNIGHT_WORKING_DAY"`
	ReturnTime string   `json:"return_time"`
	Hours      *float64 `json:"hours" binding:"omitempty,gte=0"`
	Reason     string   `json:"reason"`
}

type RejectToilEntryRequest struct {
	Reason string `json:"reason"`
}

type ToilEntryResponse struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	Date            string   `json:"date"`
	Scenario        string   `json:"scenario"`
	Hours           float64  `json:"hours"`
	Reason          string   `json:"reason,omitempty"`
	Status          string   `json:"status"`
	ApprovedBy      *string  `json:"approved_by,omitempty"`
	ApprovedAt      *string  `json:"approved_at,omitempty"`
	PreviousBalance *float64 `json:"previous_balance,omitempty"`
	NewBalance      *float64 `json:"new_balance,omitempty"`
	RejectionReason *string  `json:"rejection_reason,omitempty"`
	CreatedBy       string   `json:"created_by"`
}
