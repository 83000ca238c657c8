package toil

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// ToilEntry accrues TOIL hours: approval increments the owner's balance.
// This is the opposite direction from a TOIL-type leave request, which
// consumes hours; the two are deliberately separate record types.
type ToilEntry struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_toil_entries_user"`

	Date     time.Time `gorm:"type:date;not null"`
	Scenario string    `gorm:"type:varchar(40);not null"`
	Hours    float64   `gorm:"type:numeric(5,2);not null"`
	Reason   string    `gorm:"type:text"`

	Status     string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time

	// Balance snapshot taken inside the approval transaction, for audit.
	PreviousBalance *float64 `gorm:"type:numeric(7,2)"`
	NewBalance      *float64 `gorm:"type:numeric(7,2)"`

	RejectionReason *string   `gorm:"type:text"`
	CreatedBy       uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_toil_entries_deleted_at"`
}
