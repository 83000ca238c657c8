package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAllByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	Update(ctx context.Context, r *LeaveRequest) error

	// FindByUserYearAndStatus returns the user's requests whose start date
	// falls in the given calendar year with the given status.
	FindByUserYearAndStatus(ctx context.Context, userID string, year int, status string) ([]LeaveRequest, error)

	// FindAllByStatus returns every request in the given status, oldest first.
	FindAllByStatus(ctx context.Context, status string) ([]LeaveRequest, error)

	// RejectAllPending flips every PENDING request to REJECTED in one
	// statement and reports how many rows it touched.
	RejectAllPending(ctx context.Context, decidedBy uuid.UUID, reason string, decidedAt time.Time) (int64, error)

	// HasOverlappingLeave reports whether any of the users has a pending or
	// approved request overlapping the inclusive span start..end.
	HasOverlappingLeave(ctx context.Context, userIDs []string, start, end time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn returns a gorm handle bound to the caller's transaction when one is
// attached, so every statement commits or rolls back with it.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, req *LeaveRequest) error {
	return r.conn(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.conn(ctx).First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	err := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	err := r.conn(ctx).
		Order("start_date DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) Update(ctx context.Context, req *LeaveRequest) error {
	return r.conn(ctx).Save(req).Error
}

func (r *repository) FindByUserYearAndStatus(ctx context.Context, userID string, year int, status string) ([]LeaveRequest, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var reqs []LeaveRequest
	err := r.conn(ctx).
		Where("user_id = ? AND status = ? AND start_date >= ? AND start_date < ?",
			userID, status, from, to).
		Order("start_date").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) FindAllByStatus(ctx context.Context, status string) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	err := r.conn(ctx).
		Where("status = ?", status).
		Order("created_at").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) RejectAllPending(ctx context.Context, decidedBy uuid.UUID, reason string, decidedAt time.Time) (int64, error) {
	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("status = ?", StatusPending).
		Updates(map[string]any{
			"status":           StatusRejected,
			"decided_by":       decidedBy,
			"decided_at":       decidedAt,
			"rejection_reason": reason,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) HasOverlappingLeave(ctx context.Context, userIDs []string, start, end time.Time) (bool, error) {
	if len(userIDs) == 0 {
		return false, nil
	}

	var count int64
	err := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("user_id IN ? AND status IN ? AND start_date <= ? AND end_date >= ?",
			userIDs, []string{StatusPending, StatusApproved}, end, start).
		Count(&count).Error
	return count > 0, err
}
