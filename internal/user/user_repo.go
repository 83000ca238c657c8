package user

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	SetBalance(ctx context.Context, id, column string, value float64) error
	SetToilBalance(ctx context.Context, id string, hours float64) error
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

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.conn(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.conn(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.conn(ctx).First(&u, "email = ?", email).Error
	return &u, err
}

func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	var users []User
	err := r.conn(ctx).Order("name").Find(&users).Error
	return users, err
}

// SetBalance writes one balance column directly. Only the administrative
// correction path uses this; column names are whitelisted in the service.
func (r *repository) SetBalance(ctx context.Context, id, column string, value float64) error {
	return r.conn(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update(column, value).Error
}

func (r *repository) SetToilBalance(ctx context.Context, id string, hours float64) error {
	return r.conn(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("toil_balance_hours", hours).Error
}
