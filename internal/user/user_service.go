package user

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/bootstrap"
	usererrors "github.com/undiescoverd/leave-tracker-app-sub003/internal/user/errors"
)

type Service interface {
	Create(ctx context.Context, actorID string, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	AdjustBalance(ctx context.Context, actorID, id string, req AdjustBalanceRequest) (UserResponse, error)
}

type service struct {
	repo   Repository
	audit  bootstrap.AuditLogger
	logger *zap.Logger
}

func NewService(repo Repository, audit bootstrap.AuditLogger, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, audit: audit, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateUserRequest) (UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return UserResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}

	u := &User{
		Email:        strings.ToLower(req.Email),
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         role,
		// Statutory entitlements applied once at account creation.
		AnnualLeaveBalance: DefaultAnnualLeaveDays,
		SickLeaveBalance:   DefaultSickLeaveDays,
		ToilBalanceHours:   DefaultToilHours,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return UserResponse{}, usererrors.ErrEmailTaken
		}
		s.logger.Error("create user persist failed", zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
		zap.String("created_by", actorID),
	)

	return mapToResponse(*u), nil
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

// balanceColumns whitelists what the correction endpoint may touch.
var balanceColumns = map[string]string{
	"annual": "annual_leave_balance",
	"sick":   "sick_leave_balance",
	"toil":   "toil_balance_hours",
}

// AdjustBalance is the manual correction path: it sets the entitlement
// counter directly and leaves the request history untouched. Every call is
// audit-logged with the before/after values.
func (s *service) AdjustBalance(ctx context.Context, actorID, id string, req AdjustBalanceRequest) (UserResponse, error) {
	column, ok := balanceColumns[req.BalanceType]
	if !ok {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}
	if req.BalanceType == "toil" && req.Value < 0 {
		return UserResponse{}, usererrors.ErrNegativeToilBalance
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	previous := map[string]float64{
		"annual": u.AnnualLeaveBalance,
		"sick":   u.SickLeaveBalance,
		"toil":   u.ToilBalanceHours,
	}[req.BalanceType]

	if err := s.repo.SetBalance(ctx, id, column, req.Value); err != nil {
		s.logger.Error("adjust balance persist failed",
			zap.String("user_id", id),
			zap.String("balance_type", req.BalanceType),
			zap.Error(err),
		)
		return UserResponse{}, err
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:   "BALANCE_CORRECTION",
		ActorID:  actorID,
		TargetID: id,
		Message:  req.Reason,
		Meta: map[string]any{
			"balance_type": req.BalanceType,
			"previous":     previous,
			"new":          req.Value,
		},
	})

	switch req.BalanceType {
	case "annual":
		u.AnnualLeaveBalance = req.Value
	case "sick":
		u.SickLeaveBalance = req.Value
	case "toil":
		u.ToilBalanceHours = req.Value
	}

	return mapToResponse(*u), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:                 u.ID.String(),
		Email:              u.Email,
		Name:               u.Name,
		Role:               u.Role,
		AnnualLeaveBalance: u.AnnualLeaveBalance,
		SickLeaveBalance:   u.SickLeaveBalance,
		ToilBalanceHours:   u.ToilBalanceHours,
	}
}
