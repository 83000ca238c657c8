package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeAnnual = "ANNUAL"
	TypeToil   = "TOIL"
	TypeSick   = "SICK"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// LeaveRequest spans StartDate..EndDate inclusive. Annual and sick requests
// cost working days; TOIL requests cost the hours cached in Hours.
type LeaveRequest struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_user"`

	// LeaveType may be empty on rows that predate typed leave; read it
	// through NormalizedType.
	LeaveType string    `gorm:"type:varchar(20)"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Reason    string    `gorm:"type:text"`

	// Hours is the TOIL cost computed at submission; nil for day-based types.
	Hours    *float64 `gorm:"type:numeric(5,2)"`
	Scenario *string  `gorm:"type:varchar(40)"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`
	DecidedBy       *uuid.UUID `gorm:"type:uuid"`
	DecidedAt       *time.Time
	RejectionReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}

// NormalizedType treats a missing type as annual leave. Legacy rows were
// written before leave types existed and were all annual by definition.
func (r LeaveRequest) NormalizedType() string {
	if r.LeaveType == "" {
		return TypeAnnual
	}
	return r.LeaveType
}

// IsTerminal reports whether the request has left PENDING. Every terminal
// status is final; there are no second transitions.
func (r LeaveRequest) IsTerminal() bool {
	return r.Status != StatusPending
}

// Cost is the amount the request consumes in its type's unit: working days
// for annual and sick, hours for TOIL.
func (r LeaveRequest) Cost() float64 {
	if r.NormalizedType() == TypeToil {
		if r.Hours == nil {
			return 0
		}
		return *r.Hours
	}
	return float64(WorkingDays(r.StartDate, r.EndDate))
}
