package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
	RoleOwner = "OWNER"
)

// Statutory defaults applied at account creation. Annual and sick are day
// counters; TOIL is an hour counter that only toil entry approval increments.
const (
	DefaultAnnualLeaveDays = 32.0
	DefaultSickLeaveDays   = 3.0
	DefaultToilHours       = 0.0
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email"`
	Name         string    `gorm:"type:varchar(255);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'USER'"`

	// Entitlement counters. "Used" amounts are always derived from approved
	// request history; these are never decremented by the rules engine.
	AnnualLeaveBalance float64 `gorm:"type:numeric(6,2);not null;default:32"`
	SickLeaveBalance   float64 `gorm:"type:numeric(6,2);not null;default:3"`
	ToilBalanceHours   float64 `gorm:"type:numeric(7,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_users_deleted_at"`
}
