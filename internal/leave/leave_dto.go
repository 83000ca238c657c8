package leave

type CreateLeaveRequest struct {
	// LeaveType defaults to ANNUAL when omitted.
	LeaveType  string `json:"leave_type" binding:"omitempty,oneof=ANNUAL TOIL SICK"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason"`
	Scenario   string `json:"scenario" binding:"omitempty,oneof=LOCAL_SHOW WORKING_DAY_PANEL OVERNIGHT_DAY_OFF OVERNIGHT_WORKING_DAY"`
	ReturnTime string `json:"return_time"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type BulkRejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type LeaveResponse struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	LeaveType       string   `json:"leave_type"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	Reason          string   `json:"reason,omitempty"`
	WorkingDays     int      `json:"working_days"`
	Hours           *float64 `json:"hours,omitempty"`
	Scenario        *string  `json:"scenario,omitempty"`
	Status          string   `json:"status"`
	DecidedBy       *string  `json:"decided_by,omitempty"`
	DecidedAt       *string  `json:"decided_at,omitempty"`
	RejectionReason *string  `json:"rejection_reason,omitempty"`
}

type BulkRejectResponse struct {
	Rejected int `json:"rejected"`
}

// BalanceBreakdown is one leave type's view: the entitlement counter, what
// approved requests have consumed this year, what is still pending, and what
// is left. Remaining deliberately excludes pending.
type BalanceBreakdown struct {
	Total     float64 `json:"total"`
	Used      float64 `json:"used"`
	Pending   float64 `json:"pending"`
	Remaining float64 `json:"remaining"`
	Unit      string  `json:"unit"`
}

// BalancesResponse omits sections for disabled leave types entirely rather
// than zeroing them.
type BalancesResponse struct {
	UserID string            `json:"user_id"`
	Year   int               `json:"year"`
	Annual BalanceBreakdown  `json:"annual"`
	Toil   *BalanceBreakdown `json:"toil,omitempty"`
	Sick   *BalanceBreakdown `json:"sick,omitempty"`
}
