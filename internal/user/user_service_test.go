package user_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/bootstrap"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/user"
	usererrors "github.com/undiescoverd/leave-tracker-app-sub003/internal/user/errors"
)

type fakeUserRepository struct {
	createFn     func(ctx context.Context, u *user.User) error
	findByIDFn   func(ctx context.Context, id string) (*user.User, error)
	setBalanceFn func(ctx context.Context, id, column string, value float64) error
}

func (f *fakeUserRepository) WithTx(tx *sql.Tx) user.Repository { return f }

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindAll(ctx context.Context) ([]user.User, error) { return nil, nil }

func (f *fakeUserRepository) SetBalance(ctx context.Context, id, column string, value float64) error {
	if f.setBalanceFn != nil {
		return f.setBalanceFn(ctx, id, column, value)
	}
	return nil
}

func (f *fakeUserRepository) SetToilBalance(ctx context.Context, id string, hours float64) error {
	return nil
}

type fakeAuditLogger struct {
	entries []bootstrap.AuditLog
}

func (f *fakeAuditLogger) Log(ctx context.Context, entry bootstrap.AuditLog) {
	f.entries = append(f.entries, entry)
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("success applies statutory defaults", func(t *testing.T) {
		repo := &fakeUserRepository{}
		svc := user.NewService(repo, &fakeAuditLogger{})

		var created *user.User
		repo.createFn = func(ctx context.Context, u *user.User) error {
			u.ID = uuid.New()
			created = u
			return nil
		}

		resp, err := svc.Create(ctx, actorID, user.CreateUserRequest{
			Email:    "New.Hire@Example.com",
			Name:     "New Hire",
			Password: "s3cret-pass",
		})

		assert.NoError(t, err)
		assert.Equal(t, "new.hire@example.com", created.Email)
		assert.Equal(t, user.RoleUser, created.Role)
		assert.Equal(t, user.DefaultAnnualLeaveDays, resp.AnnualLeaveBalance)
		assert.Equal(t, user.DefaultSickLeaveDays, resp.SickLeaveBalance)
		assert.Equal(t, user.DefaultToilHours, resp.ToilBalanceHours)

		// the stored hash must verify against the plaintext
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret-pass")))
	})

	t.Run("negative duplicate email", func(t *testing.T) {
		repo := &fakeUserRepository{}
		svc := user.NewService(repo, &fakeAuditLogger{})

		repo.createFn = func(ctx context.Context, u *user.User) error {
			return &pgconn.PgError{Code: "23505"}
		}

		_, err := svc.Create(ctx, actorID, user.CreateUserRequest{
			Email:    "taken@example.com",
			Name:     "Dup",
			Password: "s3cret-pass",
		})

		assert.ErrorIs(t, err, usererrors.ErrEmailTaken)
	})
}

func TestUserService_AdjustBalance(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	targetID := uuid.New().String()

	existing := func() *user.User {
		return &user.User{
			ID:                 uuid.MustParse(targetID),
			Email:              "carol@example.com",
			Name:               "Carol",
			Role:               user.RoleUser,
			AnnualLeaveBalance: 32,
			SickLeaveBalance:   3,
			ToilBalanceHours:   5,
		}
	}

	t.Run("success annual correction is audit logged", func(t *testing.T) {
		repo := &fakeUserRepository{}
		audit := &fakeAuditLogger{}
		svc := user.NewService(repo, audit)

		repo.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return existing(), nil
		}

		var column string
		var value float64
		repo.setBalanceFn = func(ctx context.Context, id, col string, v float64) error {
			column, value = col, v
			return nil
		}

		resp, err := svc.AdjustBalance(ctx, actorID, targetID, user.AdjustBalanceRequest{
			BalanceType: "annual",
			Value:       30,
			Reason:      "Carried over too much from last year",
		})

		assert.NoError(t, err)
		assert.Equal(t, "annual_leave_balance", column)
		assert.Equal(t, 30.0, value)
		assert.Equal(t, 30.0, resp.AnnualLeaveBalance)

		assert.Len(t, audit.entries, 1)
		assert.Equal(t, "BALANCE_CORRECTION", audit.entries[0].Action)
		assert.Equal(t, actorID, audit.entries[0].ActorID)
		assert.Equal(t, 32.0, audit.entries[0].Meta["previous"])
		assert.Equal(t, 30.0, audit.entries[0].Meta["new"])
	})

	t.Run("negative toil balance below zero", func(t *testing.T) {
		repo := &fakeUserRepository{}
		svc := user.NewService(repo, &fakeAuditLogger{})

		_, err := svc.AdjustBalance(ctx, actorID, targetID, user.AdjustBalanceRequest{
			BalanceType: "toil",
			Value:       -2,
			Reason:      "typo",
		})

		assert.ErrorIs(t, err, usererrors.ErrNegativeToilBalance)
	})

	t.Run("negative unknown user", func(t *testing.T) {
		repo := &fakeUserRepository{}
		svc := user.NewService(repo, &fakeAuditLogger{})

		repo.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := svc.AdjustBalance(ctx, actorID, targetID, user.AdjustBalanceRequest{
			BalanceType: "sick",
			Value:       5,
			Reason:      "loyalty bump",
		})

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})

	t.Run("negative repo write error", func(t *testing.T) {
		repo := &fakeUserRepository{}
		svc := user.NewService(repo, &fakeAuditLogger{})

		repo.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return existing(), nil
		}
		repo.setBalanceFn = func(ctx context.Context, id, col string, v float64) error {
			return errors.New("db error")
		}

		_, err := svc.AdjustBalance(ctx, actorID, targetID, user.AdjustBalanceRequest{
			BalanceType: "annual",
			Value:       28,
			Reason:      "correction",
		})

		assert.Error(t, err)
	})
}
