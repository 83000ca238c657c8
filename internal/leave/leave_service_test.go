package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/bootstrap"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/config"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/events"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/leave"
	leaveerrors "github.com/undiescoverd/leave-tracker-app-sub003/internal/leave/errors"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/messaging/kafka"
	toilerrors "github.com/undiescoverd/leave-tracker-app-sub003/internal/toil/errors"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/user"
)

type fakeLeaveRepository struct {
	withTxFn                  func(tx *sql.Tx) leave.Repository
	createFn                  func(ctx context.Context, r *leave.LeaveRequest) error
	findByIDFn                func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	findAllByUserFn           func(ctx context.Context, userID string) ([]leave.LeaveRequest, error)
	findAllFn                 func(ctx context.Context) ([]leave.LeaveRequest, error)
	updateFn                  func(ctx context.Context, r *leave.LeaveRequest) error
	findByUserYearAndStatusFn func(ctx context.Context, userID string, year int, status string) ([]leave.LeaveRequest, error)
	findAllByStatusFn         func(ctx context.Context, status string) ([]leave.LeaveRequest, error)
	rejectAllPendingFn        func(ctx context.Context, decidedBy uuid.UUID, reason string, decidedAt time.Time) (int64, error)
	hasOverlappingLeaveFn     func(ctx context.Context, userIDs []string, start, end time.Time) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, r *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, errors.New("not stubbed")
}

func (f *fakeLeaveRepository) FindAllByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	if f.findAllByUserFn != nil {
		return f.findAllByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, r *leave.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, r)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByUserYearAndStatus(ctx context.Context, userID string, year int, status string) ([]leave.LeaveRequest, error) {
	if f.findByUserYearAndStatusFn != nil {
		return f.findByUserYearAndStatusFn(ctx, userID, year, status)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByStatus(ctx context.Context, status string) ([]leave.LeaveRequest, error) {
	if f.findAllByStatusFn != nil {
		return f.findAllByStatusFn(ctx, status)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) RejectAllPending(ctx context.Context, decidedBy uuid.UUID, reason string, decidedAt time.Time) (int64, error) {
	if f.rejectAllPendingFn != nil {
		return f.rejectAllPendingFn(ctx, decidedBy, reason, decidedAt)
	}
	return 0, nil
}

func (f *fakeLeaveRepository) HasOverlappingLeave(ctx context.Context, userIDs []string, start, end time.Time) (bool, error) {
	if f.hasOverlappingLeaveFn != nil {
		return f.hasOverlappingLeaveFn(ctx, userIDs, start, end)
	}
	return false, nil
}

type fakeUserRepository struct {
	findByIDFn       func(ctx context.Context, id string) (*user.User, error)
	setToilBalanceFn func(ctx context.Context, id string, hours float64) error
}

func (f *fakeUserRepository) WithTx(tx *sql.Tx) user.Repository { return f }

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error { return nil }

func (f *fakeUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, errors.New("not stubbed")
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, errors.New("not stubbed")
}

func (f *fakeUserRepository) FindAll(ctx context.Context) ([]user.User, error) { return nil, nil }

func (f *fakeUserRepository) SetBalance(ctx context.Context, id, column string, value float64) error {
	return nil
}

func (f *fakeUserRepository) SetToilBalance(ctx context.Context, id string, hours float64) error {
	if f.setToilBalanceFn != nil {
		return f.setToilBalanceFn(ctx, id, hours)
	}
	return nil
}

type fakeOutboxRepository struct {
	mu      sync.Mutex
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeAuditLogger struct {
	entries []bootstrap.AuditLog
}

func (f *fakeAuditLogger) Log(ctx context.Context, entry bootstrap.AuditLog) {
	f.entries = append(f.entries, entry)
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	users   *fakeUserRepository
	outbox  *fakeOutboxRepository
	audit   *fakeAuditLogger
	cfg     *config.Config
}

func setupLeaveServiceTest(t *testing.T, mutate ...func(*config.Config)) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	cfg := &config.Config{
		Features:               config.Features{ToilEnabled: true, SickEnabled: true},
		BulkRejectMinReasonLen: 10,
	}
	for _, m := range mutate {
		m(cfg)
	}

	repo := &fakeLeaveRepository{}
	users := &fakeUserRepository{}
	outbox := &fakeOutboxRepository{}
	audit := &fakeAuditLogger{}

	svc := leave.NewService(db, repo, users, outbox, nil, cfg, audit)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		users:   users,
		outbox:  outbox,
		audit:   audit,
		cfg:     cfg,
	}
}

func gormNotFound() error { return gorm.ErrRecordNotFound }

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func stubUser(id string, annual, sick, toilHours float64) func(ctx context.Context, uid string) (*user.User, error) {
	return func(ctx context.Context, uid string) (*user.User, error) {
		return &user.User{
			ID:                 uuid.MustParse(id),
			Email:              "alice@example.com",
			Name:               "Alice",
			Role:               user.RoleUser,
			AnnualLeaveBalance: annual,
			SickLeaveBalance:   sick,
			ToilBalanceHours:   toilHours,
		}, nil
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("success annual", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.users.findByIDFn = stubUser(actorID, 32, 3, 0)
		deps.repo.createFn = func(ctx context.Context, r *leave.LeaveRequest) error {
			assert.Equal(t, uuid.MustParse(actorID), r.UserID)
			assert.Equal(t, leave.TypeAnnual, r.LeaveType)
			assert.Equal(t, leave.StatusPending, r.Status)
			assert.Nil(t, r.Hours)
			return nil
		}

		resp, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-06",
			Reason:    "Family trip",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, 5, resp.WorkingDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())

		// the submitted event committed with the request
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.LeaveSubmittedTopic, deps.outbox.created[0].Topic)
	})

	t.Run("missing type defaults to annual", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.users.findByIDFn = stubUser(actorID, 32, 3, 0)

		var created *leave.LeaveRequest
		deps.repo.createFn = func(ctx context.Context, r *leave.LeaveRequest) error {
			created = r
			return nil
		}

		resp, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			StartDate: "2026-03-02",
			EndDate:   "2026-03-02",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.TypeAnnual, created.LeaveType)
		assert.Equal(t, leave.TypeAnnual, resp.LeaveType)
	})

	t.Run("negative insufficient annual balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.users.findByIDFn = stubUser(actorID, 2, 3, 0)

		created := false
		deps.repo.createFn = func(ctx context.Context, r *leave.LeaveRequest) error {
			created = true
			return nil
		}

		_, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-06",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "2.0 days remaining, 5.0 requested")
		assert.False(t, created)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("remaining accounts for approved requests", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.users.findByIDFn = stubUser(actorID, 32, 3, 0)
		deps.repo.findByUserYearAndStatusFn = func(ctx context.Context, userID string, year int, status string) ([]leave.LeaveRequest, error) {
			if status != leave.StatusApproved {
				return nil, nil
			}
			// 28 working days already approved this year
			return []leave.LeaveRequest{{
				StartDate: date(2026, time.January, 5),
				EndDate:   date(2026, time.February, 11),
				Status:    leave.StatusApproved,
			}}, nil
		}

		_, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-06",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "4.0 days remaining, 5.0 requested")
	})

	t.Run("sick leave is never balance blocked", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		// zero sick balance and prior usage, still allowed
		deps.users.findByIDFn = stubUser(actorID, 32, 0, 0)
		deps.repo.findByUserYearAndStatusFn = func(ctx context.Context, userID string, year int, status string) ([]leave.LeaveRequest, error) {
			return []leave.LeaveRequest{{
				LeaveType: leave.TypeSick,
				StartDate: date(2026, time.February, 2),
				EndDate:   date(2026, time.February, 6),
				Status:    status,
			}}, nil
		}

		resp, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveType: "SICK",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-03",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative sick disabled", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, func(c *config.Config) {
			c.Features.SickEnabled = false
		})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.users.findByIDFn = stubUser(actorID, 32, 3, 0)

		_, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveType: "SICK",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-03",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrSickDisabled)
	})

	t.Run("success toil costs scenario hours", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.users.findByIDFn = stubUser(actorID, 32, 3, 10)

		var created *leave.LeaveRequest
		deps.repo.createFn = func(ctx context.Context, r *leave.LeaveRequest) error {
			created = r
			return nil
		}

		resp, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveType:  "TOIL",
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-02",
			Scenario:   "OVERNIGHT_WORKING_DAY",
			ReturnTime: "21:30",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created.Hours)
		assert.Equal(t, 3.0, *created.Hours)
		assert.Equal(t, 3.0, *resp.Hours)
	})

	t.Run("negative toil scenario incomplete blocks request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		// fails before any transaction is opened
		created := false
		deps.repo.createFn = func(ctx context.Context, r *leave.LeaveRequest) error {
			created = true
			return nil
		}

		_, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveType:  "TOIL",
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-02",
			Scenario:   "OVERNIGHT_WORKING_DAY",
			ReturnTime: "",
		})

		assert.ErrorIs(t, err, toilerrors.ErrScenarioIncomplete)
		assert.False(t, created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative insufficient toil hours", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.users.findByIDFn = stubUser(actorID, 32, 3, 2)

		_, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveType: "TOIL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-02",
			Scenario:  "WORKING_DAY_PANEL",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "2.0 hours remaining, 4.0 requested")
	})

	t.Run("negative toil disabled", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, func(c *config.Config) {
			c.Features.ToilEnabled = false
		})
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.users.findByIDFn = stubUser(actorID, 32, 3, 10)

		_, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveType: "TOIL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-02",
			Scenario:  "WORKING_DAY_PANEL",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrToilDisabled)
	})

	t.Run("negative invalid date range", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, actorID, leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2026-03-06",
			EndDate:   "2026-03-02",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})
}

func TestLeaveService_CoverageConflict(t *testing.T) {
	ctx := context.Background()
	coverageA := uuid.New().String()
	coverageB := uuid.New().String()

	withCoverage := func(c *config.Config) {
		c.CoverageUserIDs = []string{coverageA, coverageB}
	}

	t.Run("negative overlap with other coverage user", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, withCoverage)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.users.findByIDFn = stubUser(coverageA, 32, 3, 0)
		deps.repo.hasOverlappingLeaveFn = func(ctx context.Context, userIDs []string, start, end time.Time) (bool, error) {
			// the requester is excluded from the overlap probe
			assert.Equal(t, []string{coverageB}, userIDs)
			return true, nil
		}

		_, err := deps.service.Create(ctx, coverageA, leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-03",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrCoverageConflict)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success when no overlap", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, withCoverage)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.users.findByIDFn = stubUser(coverageA, 32, 3, 0)
		deps.repo.hasOverlappingLeaveFn = func(ctx context.Context, userIDs []string, start, end time.Time) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Create(ctx, coverageA, leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-03",
		})

		assert.NoError(t, err)
	})

	t.Run("success for user outside coverage list", func(t *testing.T) {
		deps := setupLeaveServiceTest(t, withCoverage)
		defer deps.db.Close()

		outsider := uuid.New().String()
		expectTx(t, deps.sqlMock, true)
		deps.users.findByIDFn = stubUser(outsider, 32, 3, 0)
		deps.repo.hasOverlappingLeaveFn = func(ctx context.Context, userIDs []string, start, end time.Time) (bool, error) {
			t.Fatal("overlap check must not run for users outside the coverage list")
			return false, nil
		}

		_, err := deps.service.Create(ctx, outsider, leave.CreateLeaveRequest{
			LeaveType: "ANNUAL",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-03",
		})

		assert.NoError(t, err)
	})
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New().String()
	requesterID := uuid.New().String()

	pendingRequest := func() *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:        uuid.New(),
			UserID:    uuid.MustParse(requesterID),
			LeaveType: leave.TypeAnnual,
			StartDate: date(2026, time.March, 2),
			EndDate:   date(2026, time.March, 6),
			Status:    leave.StatusPending,
		}
	}

	t.Run("success approve", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		record := pendingRequest()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return record, nil
		}
		deps.users.findByIDFn = stubUser(requesterID, 32, 3, 0)

		var updated *leave.LeaveRequest
		deps.repo.updateFn = func(ctx context.Context, r *leave.LeaveRequest) error {
			updated = r
			return nil
		}

		resp, err := deps.service.Approve(ctx, adminID, record.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Equal(t, leave.StatusApproved, updated.Status)
		assert.Equal(t, adminID, updated.DecidedBy.String())
		assert.NotNil(t, updated.DecidedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())

		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, events.LeaveDecidedTopic, deps.outbox.created[0].Topic)

		assert.Len(t, deps.audit.entries, 1)
		assert.Equal(t, "LEAVE_APPROVED", deps.audit.entries[0].Action)
	})

	t.Run("success reject stores reason", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		record := pendingRequest()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return record, nil
		}
		deps.users.findByIDFn = stubUser(requesterID, 32, 3, 0)

		resp, err := deps.service.Reject(ctx, adminID, record.ID.String(), leave.RejectLeaveRequest{
			Reason: "No cover available",
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Equal(t, "No cover available", *resp.RejectionReason)
	})

	t.Run("negative already processed", func(t *testing.T) {
		for _, status := range []string{leave.StatusApproved, leave.StatusRejected, leave.StatusCancelled} {
			t.Run(status, func(t *testing.T) {
				deps := setupLeaveServiceTest(t)
				defer deps.db.Close()

				expectTx(t, deps.sqlMock, false)
				record := pendingRequest()
				record.Status = status
				deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
					return record, nil
				}

				updated := false
				deps.repo.updateFn = func(ctx context.Context, r *leave.LeaveRequest) error {
					updated = true
					return nil
				}

				_, err := deps.service.Approve(ctx, adminID, record.ID.String())

				assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
				assert.Contains(t, err.Error(), "already processed")
				assert.False(t, updated)
				assert.Empty(t, deps.outbox.created)
			})
		}
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return nil, gormNotFound()
		}

		_, err := deps.service.Approve(ctx, adminID, uuid.New().String())
		assert.ErrorIs(t, err, leaveerrors.ErrRequestNotFound)
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New().String()

	newPending := func() *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:        uuid.New(),
			UserID:    uuid.MustParse(requesterID),
			LeaveType: leave.TypeAnnual,
			StartDate: date(2026, time.March, 2),
			EndDate:   date(2026, time.March, 6),
			Status:    leave.StatusPending,
		}
	}

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		record := newPending()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return record, nil
		}

		resp, err := deps.service.Cancel(ctx, requesterID, record.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
	})

	t.Run("negative not owner", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		record := newPending()
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return record, nil
		}

		_, err := deps.service.Cancel(ctx, uuid.New().String(), record.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrNotRequestOwner)
	})

	t.Run("negative already processed", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		record := newPending()
		record.Status = leave.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return record, nil
		}

		_, err := deps.service.Cancel(ctx, requesterID, record.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyProcessed)
	})
}

func TestLeaveService_BulkRejectPending(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New().String()
	requesterID := uuid.New().String()

	pendingSet := func(n int) []leave.LeaveRequest {
		out := make([]leave.LeaveRequest, n)
		for i := range out {
			out[i] = leave.LeaveRequest{
				ID:        uuid.New(),
				UserID:    uuid.MustParse(requesterID),
				LeaveType: leave.TypeAnnual,
				StartDate: date(2026, time.March, 2),
				EndDate:   date(2026, time.March, 3),
				Status:    leave.StatusPending,
			}
		}
		return out
	}

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findAllByStatusFn = func(ctx context.Context, status string) ([]leave.LeaveRequest, error) {
			assert.Equal(t, leave.StatusPending, status)
			return pendingSet(2), nil
		}
		deps.repo.rejectAllPendingFn = func(ctx context.Context, decidedBy uuid.UUID, reason string, decidedAt time.Time) (int64, error) {
			assert.Equal(t, adminID, decidedBy.String())
			assert.Equal(t, "End of year balance cleanup", reason)
			return 2, nil
		}
		deps.users.findByIDFn = stubUser(requesterID, 32, 3, 0)

		resp, err := deps.service.BulkRejectPending(ctx, adminID, leave.BulkRejectRequest{
			Reason: "End of year balance cleanup",
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, resp.Rejected)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())

		// one decided event per rejected request
		assert.Len(t, deps.outbox.created, 2)
		for _, evt := range deps.outbox.created {
			assert.Equal(t, events.LeaveDecidedTopic, evt.Topic)
		}

		assert.Len(t, deps.audit.entries, 1)
		assert.Equal(t, "LEAVE_BULK_REJECTED", deps.audit.entries[0].Action)
	})

	t.Run("negative pending set changed mid flight", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findAllByStatusFn = func(ctx context.Context, status string) ([]leave.LeaveRequest, error) {
			return pendingSet(3), nil
		}
		deps.repo.rejectAllPendingFn = func(ctx context.Context, decidedBy uuid.UUID, reason string, decidedAt time.Time) (int64, error) {
			// one request was decided concurrently
			return 2, nil
		}

		_, err := deps.service.BulkRejectPending(ctx, adminID, leave.BulkRejectRequest{
			Reason: "End of year balance cleanup",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrPendingSetChanged)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative reason too short", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.BulkRejectPending(ctx, adminID, leave.BulkRejectRequest{
			Reason: "nope",
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 10 characters")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("nothing pending", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findAllByStatusFn = func(ctx context.Context, status string) ([]leave.LeaveRequest, error) {
			return nil, nil
		}

		resp, err := deps.service.BulkRejectPending(ctx, adminID, leave.BulkRejectRequest{
			Reason: "End of year balance cleanup",
		})

		assert.NoError(t, err)
		assert.Equal(t, 0, resp.Rejected)
	})
}
