package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/bootstrap"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/config"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/events"
	leaveerrors "github.com/undiescoverd/leave-tracker-app-sub003/internal/leave/errors"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/messaging/kafka"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/shared/contextutil"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/toil"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/user"
	usererrors "github.com/undiescoverd/leave-tracker-app-sub003/internal/user/errors"
)

type Service interface {
	Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context) ([]LeaveResponse, error)
	GetAllByUser(ctx context.Context, userID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, id string, req RejectLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actorID, id string) (LeaveResponse, error)
	BulkRejectPending(ctx context.Context, actorID string, req BulkRejectRequest) (BulkRejectResponse, error)
	GetBalances(ctx context.Context, userID string, year int) (BalancesResponse, error)
}

type service struct {
	db              *sql.DB
	repo            Repository
	users           user.Repository
	outbox          kafka.OutboxRepository
	rdb             *redis.Client
	features        config.Features
	coverageUserIDs []string
	bulkMinReason   int
	audit           bootstrap.AuditLogger
	sf              singleflight.Group
	logger          *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	cfg *config.Config,
	audit bootstrap.AuditLogger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:              db,
		repo:            repo,
		users:           users,
		outbox:          outbox,
		rdb:             rdb,
		features:        cfg.Features,
		coverageUserIDs: cfg.CoverageUserIDs,
		bulkMinReason:   cfg.BulkRejectMinReasonLen,
		audit:           audit,
		logger:          l,
	}
}

// Create validates and files a PENDING request. Validation, insert and the
// submitted event commit in one transaction so a request never exists without
// its notification and vice versa.
func (s *service) Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	leaveType := req.LeaveType
	if leaveType == "" {
		leaveType = TypeAnnual
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if start.After(end) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	// TOIL cost is fixed at submission from the travel scenario. Incomplete
	// scenario data blocks the request here rather than defaulting to zero.
	var (
		hours    *float64
		scenario *string
	)
	if leaveType == TypeToil {
		h, err := toil.ScenarioHours(req.Scenario, req.StartDate, req.ReturnTime)
		if err != nil {
			return LeaveResponse{}, err
		}
		hours = &h
		sc := req.Scenario
		scenario = &sc
	}

	requester, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, usererrors.ErrUserNotFound
		}
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.validateRequest(ctx, qtx, actorID, leaveType, start, end, hours); err != nil {
		return LeaveResponse{}, err
	}

	record := &LeaveRequest{
		UserID:    actor,
		LeaveType: leaveType,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		Hours:     hours,
		Scenario:  scenario,
		Status:    StatusPending,
	}

	if err := qtx.Create(ctx, record); err != nil {
		s.logger.Error("create leave request persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.enqueueSubmitted(ctx, tx, record, requester); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.invalidateBalances(ctx, actorID, start.Year())

	s.logger.Info("leave request created",
		zap.String("request_id", record.ID.String()),
		zap.String("user_id", actorID),
		zap.String("leave_type", leaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	return mapRequestToResponse(*record), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveResponse, error) {
	reqs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapRequestsToResponse(reqs), nil
}

func (s *service) GetAllByUser(ctx context.Context, userID string) ([]LeaveResponse, error) {
	reqs, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapRequestsToResponse(reqs), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveResponse{}, err
	}
	return mapRequestToResponse(*req), nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	return s.decide(ctx, actorID, id, StatusApproved, "")
}

func (s *service) Reject(ctx context.Context, actorID, id string, req RejectLeaveRequest) (LeaveResponse, error) {
	return s.decide(ctx, actorID, id, StatusRejected, req.Reason)
}

// decide moves a PENDING request to a terminal status. Terminal statuses are
// final: a second decision of any kind fails without touching the record.
func (s *service) decide(ctx context.Context, actorID, id, status, reason string) (LeaveResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveResponse{}, err
	}
	if record.IsTerminal() {
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	requester, err := s.users.WithTx(tx).FindByID(ctx, record.UserID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, usererrors.ErrUserNotFound
		}
		return LeaveResponse{}, err
	}

	now := time.Now().UTC()
	record.Status = status
	record.DecidedBy = &actor
	record.DecidedAt = &now
	if reason != "" {
		record.RejectionReason = &reason
	}

	if err := qtx.Update(ctx, record); err != nil {
		return LeaveResponse{}, err
	}

	if err := s.enqueueDecided(ctx, tx, record, requester, actorID); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.invalidateBalances(ctx, record.UserID.String(), record.StartDate.Year())

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:   "LEAVE_" + status,
		ActorID:  actorID,
		TargetID: record.ID.String(),
		Message:  reason,
		Meta: map[string]any{
			"user_id":    record.UserID.String(),
			"leave_type": record.NormalizedType(),
			"start_date": record.StartDate.Format("2006-01-02"),
			"end_date":   record.EndDate.Format("2006-01-02"),
		},
	})

	s.logger.Info("leave request decided",
		zap.String("request_id", record.ID.String()),
		zap.String("status", status),
		zap.String("decided_by", actorID),
	)

	return mapRequestToResponse(*record), nil
}

// Cancel lets the requester withdraw a still-pending request. CANCELLED is
// terminal like any decision.
func (s *service) Cancel(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveResponse{}, err
	}
	if record.UserID != actor {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	if record.IsTerminal() {
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	now := time.Now().UTC()
	record.Status = StatusCancelled
	record.DecidedBy = &actor
	record.DecidedAt = &now

	if err := qtx.Update(ctx, record); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.invalidateBalances(ctx, actorID, record.StartDate.Year())

	s.logger.Info("leave request cancelled",
		zap.String("request_id", record.ID.String()),
		zap.String("user_id", actorID),
	)

	return mapRequestToResponse(*record), nil
}

// BulkRejectPending rejects every pending request in one statement, guarded
// against the pending set changing between snapshot and write: if the row
// count moved, the whole operation rolls back and the caller retries.
func (s *service) BulkRejectPending(ctx context.Context, actorID string, req BulkRejectRequest) (BulkRejectResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if len(reason) < s.bulkMinReason {
		return BulkRejectResponse{}, leaveerrors.BulkReasonTooShort(s.bulkMinReason)
	}
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return BulkRejectResponse{}, leaveerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BulkRejectResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	pending, err := qtx.FindAllByStatus(ctx, StatusPending)
	if err != nil {
		return BulkRejectResponse{}, err
	}
	if len(pending) == 0 {
		return BulkRejectResponse{Rejected: 0}, nil
	}

	now := time.Now().UTC()
	affected, err := qtx.RejectAllPending(ctx, actor, reason, now)
	if err != nil {
		return BulkRejectResponse{}, err
	}
	if affected != int64(len(pending)) {
		return BulkRejectResponse{}, leaveerrors.ErrPendingSetChanged
	}

	requesters, err := s.loadRequesters(ctx, tx, pending)
	if err != nil {
		return BulkRejectResponse{}, err
	}

	for i := range pending {
		record := pending[i]
		record.Status = StatusRejected
		record.DecidedBy = &actor
		record.DecidedAt = &now
		record.RejectionReason = &reason

		requester, ok := requesters[record.UserID.String()]
		if !ok {
			continue
		}
		if err := s.enqueueDecided(ctx, tx, &record, requester, actorID); err != nil {
			return BulkRejectResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return BulkRejectResponse{}, err
	}

	for _, record := range pending {
		s.invalidateBalances(ctx, record.UserID.String(), record.StartDate.Year())
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "LEAVE_BULK_REJECTED",
		ActorID: actorID,
		Message: reason,
		Meta:    map[string]any{"count": affected},
	})

	s.logger.Info("pending leave requests bulk rejected",
		zap.Int64("count", affected),
		zap.String("decided_by", actorID),
	)

	return BulkRejectResponse{Rejected: int(affected)}, nil
}

func (s *service) loadRequesters(ctx context.Context, tx *sql.Tx, reqs []LeaveRequest) (map[string]*user.User, error) {
	out := make(map[string]*user.User)
	users := s.users.WithTx(tx)
	for _, r := range reqs {
		id := r.UserID.String()
		if _, ok := out[id]; ok {
			continue
		}
		u, err := users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		out[id] = u
	}
	return out, nil
}

func (s *service) enqueueSubmitted(ctx context.Context, tx *sql.Tx, record *LeaveRequest, requester *user.User) error {
	evt := events.LeaveSubmittedEvent{
		EventType:      "LEAVE_SUBMITTED",
		RequestID:      record.ID.String(),
		UserID:         requester.ID.String(),
		RequesterEmail: requester.Email,
		RequesterName:  requester.Name,
		LeaveType:      record.NormalizedType(),
		StartDate:      record.StartDate.Format("2006-01-02"),
		EndDate:        record.EndDate.Format("2006-01-02"),
		OccurredAt:     time.Now().UTC(),
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   record.ID.String(),
		EventType:     evt.EventType,
		Topic:         events.LeaveSubmittedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueueDecided(ctx context.Context, tx *sql.Tx, record *LeaveRequest, requester *user.User, decidedBy string) error {
	evt := events.LeaveDecidedEvent{
		EventType:      "LEAVE_DECIDED",
		RequestID:      record.ID.String(),
		UserID:         requester.ID.String(),
		RequesterEmail: requester.Email,
		RequesterName:  requester.Name,
		LeaveType:      record.NormalizedType(),
		StartDate:      record.StartDate.Format("2006-01-02"),
		EndDate:        record.EndDate.Format("2006-01-02"),
		Status:         record.Status,
		DecidedBy:      decidedBy,
		OccurredAt:     time.Now().UTC(),
	}
	if record.RejectionReason != nil {
		evt.RejectionReason = *record.RejectionReason
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   record.ID.String(),
		EventType:     evt.EventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapRequestToResponse(r LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:              r.ID.String(),
		UserID:          r.UserID.String(),
		LeaveType:       r.NormalizedType(),
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		Reason:          r.Reason,
		WorkingDays:     WorkingDays(r.StartDate, r.EndDate),
		Hours:           r.Hours,
		Scenario:        r.Scenario,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
	}
	if r.DecidedBy != nil {
		v := r.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if r.DecidedAt != nil {
		v := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapRequestsToResponse(reqs []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(reqs))
	for i, r := range reqs {
		resp[i] = mapRequestToResponse(r)
	}
	return resp
}
