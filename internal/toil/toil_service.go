package toil

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/bootstrap"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/config"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/events"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/messaging/kafka"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/shared/cachekeys"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/shared/contextutil"
	toilerrors "github.com/undiescoverd/leave-tracker-app-sub003/internal/toil/errors"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/user"
	usererrors "github.com/undiescoverd/leave-tracker-app-sub003/internal/user/errors"
)

type Service interface {
	Create(ctx context.Context, actorID string, req CreateToilEntryRequest) (ToilEntryResponse, error)
	GetAll(ctx context.Context) ([]ToilEntryResponse, error)
	GetAllByUser(ctx context.Context, userID string) ([]ToilEntryResponse, error)
	GetByID(ctx context.Context, id string) (ToilEntryResponse, error)
	Approve(ctx context.Context, actorID, id string) (ToilEntryResponse, error)
	Reject(ctx context.Context, actorID, id string, req RejectToilEntryRequest) (ToilEntryResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	users    user.Repository
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	features config.Features
	audit    bootstrap.AuditLogger
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	features config.Features,
	audit bootstrap.AuditLogger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("toil.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("toil.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		users:    users,
		outbox:   outbox,
		rdb:      rdb,
		features: features,
		audit:    audit,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateToilEntryRequest) (ToilEntryResponse, error) {
	if !s.features.ToilEnabled {
		return ToilEntryResponse{}, toilerrors.ErrToilDisabled
	}

	ownerID := req.UserID
	if ownerID == "" {
		ownerID = actorID
	}
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return ToilEntryResponse{}, toilerrors.ErrInvalidUserID
	}
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return ToilEntryResponse{}, toilerrors.ErrInvalidUserID
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return ToilEntryResponse{}, toilerrors.ErrInvalidDateFormat
	}

	// An explicit hour override wins; otherwise the hours come from the
	// scenario table. Incomplete scenario data blocks the entry.
	var hours float64
	if req.Hours != nil {
		hours = *req.Hours
	} else {
		hours, err = ScenarioHours(req.Scenario, req.Date, req.ReturnTime)
		if err != nil {
			return ToilEntryResponse{}, err
		}
	}

	if _, err := s.users.FindByID(ctx, owner.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToilEntryResponse{}, usererrors.ErrUserNotFound
		}
		return ToilEntryResponse{}, err
	}

	entry := &ToilEntry{
		UserID:    owner,
		Date:      date,
		Scenario:  req.Scenario,
		Hours:     hours,
		Reason:    req.Reason,
		Status:    StatusPending,
		CreatedBy: actor,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("create toil entry persist failed", zap.Error(err))
		return ToilEntryResponse{}, err
	}

	s.logger.Info("toil entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.String("user_id", owner.String()),
		zap.String("scenario", req.Scenario),
		zap.Float64("hours", hours),
	)

	return mapEntryToResponse(*entry), nil
}

func (s *service) GetAll(ctx context.Context) ([]ToilEntryResponse, error) {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapEntriesToResponse(entries), nil
}

func (s *service) GetAllByUser(ctx context.Context, userID string) ([]ToilEntryResponse, error) {
	entries, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapEntriesToResponse(entries), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ToilEntryResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToilEntryResponse{}, toilerrors.ErrEntryNotFound
		}
		return ToilEntryResponse{}, err
	}
	return mapEntryToResponse(*entry), nil
}

// Approve credits the entry's hours to the owner's TOIL balance. The balance
// write, the entry update and the outbox event commit in one transaction, with
// a before/after snapshot stored on the entry.
func (s *service) Approve(ctx context.Context, actorID, id string) (ToilEntryResponse, error) {
	if !s.features.ToilEnabled {
		return ToilEntryResponse{}, toilerrors.ErrToilDisabled
	}
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return ToilEntryResponse{}, toilerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ToilEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToilEntryResponse{}, toilerrors.ErrEntryNotFound
		}
		return ToilEntryResponse{}, err
	}
	if entry.Status != StatusPending {
		return ToilEntryResponse{}, toilerrors.ErrAlreadyProcessed
	}

	owner, err := s.users.WithTx(tx).FindByID(ctx, entry.UserID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToilEntryResponse{}, usererrors.ErrUserNotFound
		}
		return ToilEntryResponse{}, err
	}

	previous := owner.ToilBalanceHours
	next := previous + entry.Hours

	if err := s.users.WithTx(tx).SetToilBalance(ctx, owner.ID.String(), next); err != nil {
		return ToilEntryResponse{}, err
	}

	now := time.Now().UTC()
	entry.Status = StatusApproved
	entry.ApprovedBy = &actor
	entry.ApprovedAt = &now
	entry.PreviousBalance = &previous
	entry.NewBalance = &next

	if err := qtx.Update(ctx, entry); err != nil {
		return ToilEntryResponse{}, err
	}

	if err := s.enqueueDecided(ctx, tx, entry, owner, StatusApproved, "", actorID); err != nil {
		return ToilEntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ToilEntryResponse{}, err
	}

	s.invalidateBalances(ctx, owner.ID.String(), entry.Date.Year())

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:   "TOIL_APPROVED",
		ActorID:  actorID,
		TargetID: entry.ID.String(),
		Meta: map[string]any{
			"user_id":          owner.ID.String(),
			"hours":            entry.Hours,
			"previous_balance": previous,
			"new_balance":      next,
		},
	})

	s.logger.Info("toil entry approved",
		zap.String("entry_id", entry.ID.String()),
		zap.String("user_id", owner.ID.String()),
		zap.Float64("hours", entry.Hours),
		zap.Float64("new_balance", next),
	)

	return mapEntryToResponse(*entry), nil
}

func (s *service) Reject(ctx context.Context, actorID, id string, req RejectToilEntryRequest) (ToilEntryResponse, error) {
	if !s.features.ToilEnabled {
		return ToilEntryResponse{}, toilerrors.ErrToilDisabled
	}
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return ToilEntryResponse{}, toilerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ToilEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToilEntryResponse{}, toilerrors.ErrEntryNotFound
		}
		return ToilEntryResponse{}, err
	}
	if entry.Status != StatusPending {
		return ToilEntryResponse{}, toilerrors.ErrAlreadyProcessed
	}

	owner, err := s.users.WithTx(tx).FindByID(ctx, entry.UserID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToilEntryResponse{}, usererrors.ErrUserNotFound
		}
		return ToilEntryResponse{}, err
	}

	now := time.Now().UTC()
	entry.Status = StatusRejected
	entry.ApprovedBy = &actor
	entry.ApprovedAt = &now
	if req.Reason != "" {
		entry.RejectionReason = &req.Reason
	}

	if err := qtx.Update(ctx, entry); err != nil {
		return ToilEntryResponse{}, err
	}

	if err := s.enqueueDecided(ctx, tx, entry, owner, StatusRejected, req.Reason, actorID); err != nil {
		return ToilEntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ToilEntryResponse{}, err
	}

	s.logger.Info("toil entry rejected",
		zap.String("entry_id", entry.ID.String()),
		zap.String("user_id", owner.ID.String()),
	)

	return mapEntryToResponse(*entry), nil
}

func (s *service) enqueueDecided(ctx context.Context, tx *sql.Tx, entry *ToilEntry, owner *user.User, status, reason, decidedBy string) error {
	evt := events.ToilDecidedEvent{
		EventType:      "TOIL_DECIDED",
		EntryID:        entry.ID.String(),
		UserID:         owner.ID.String(),
		RequesterEmail: owner.Email,
		RequesterName:  owner.Name,
		Scenario:       entry.Scenario,
		Hours:          entry.Hours,
		Status:         status,
		Reason:         reason,
		DecidedBy:      decidedBy,
		OccurredAt:     time.Now().UTC(),
	}
	if entry.PreviousBalance != nil {
		evt.PreviousBalance = *entry.PreviousBalance
	}
	if entry.NewBalance != nil {
		evt.NewBalance = *entry.NewBalance
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "toil_entry",
		AggregateID:   entry.ID.String(),
		EventType:     evt.EventType,
		Topic:         events.ToilDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// invalidateBalances drops the cached balance breakdown for the entry's year
// and the current year. Best effort: a stale entry expires by TTL anyway.
func (s *service) invalidateBalances(ctx context.Context, userID string, year int) {
	if s.rdb == nil {
		return
	}
	keys := []string{cachekeys.UserBalances(userID, year)}
	if current := time.Now().Year(); current != year {
		keys = append(keys, cachekeys.UserBalances(userID, current))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("balance cache invalidation failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

func mapEntryToResponse(e ToilEntry) ToilEntryResponse {
	resp := ToilEntryResponse{
		ID:              e.ID.String(),
		UserID:          e.UserID.String(),
		Date:            e.Date.Format("2006-01-02"),
		Scenario:        e.Scenario,
		Hours:           e.Hours,
		Reason:          e.Reason,
		Status:          e.Status,
		PreviousBalance: e.PreviousBalance,
		NewBalance:      e.NewBalance,
		RejectionReason: e.RejectionReason,
		CreatedBy:       e.CreatedBy.String(),
	}
	if e.ApprovedBy != nil {
		v := e.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if e.ApprovedAt != nil {
		v := e.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapEntriesToResponse(entries []ToilEntry) []ToilEntryResponse {
	resp := make([]ToilEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapEntryToResponse(e)
	}
	return resp
}
