package toil

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *ToilEntry) error
	FindByID(ctx context.Context, id string) (*ToilEntry, error)
	FindAllByUser(ctx context.Context, userID string) ([]ToilEntry, error)
	FindAll(ctx context.Context) ([]ToilEntry, error)
	Update(ctx context.Context, e *ToilEntry) error
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

func (r *repository) Create(ctx context.Context, e *ToilEntry) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*ToilEntry, error) {
	var e ToilEntry
	err := r.conn(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]ToilEntry, error) {
	var entries []ToilEntry
	err := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindAll(ctx context.Context) ([]ToilEntry, error) {
	var entries []ToilEntry
	err := r.conn(ctx).
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) Update(ctx context.Context, e *ToilEntry) error {
	return r.conn(ctx).Save(e).Error
}
