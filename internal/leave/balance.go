package leave

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	leaveerrors "github.com/undiescoverd/leave-tracker-app-sub003/internal/leave/errors"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/shared/cachekeys"
	usererrors "github.com/undiescoverd/leave-tracker-app-sub003/internal/user/errors"
)

const balanceCacheTTL = 60 * time.Second

// usage accumulates request costs per leave type.
type usage struct {
	annualDays float64
	toilHours  float64
	sickDays   float64
}

func sumCosts(reqs []LeaveRequest) usage {
	var u usage
	for _, r := range reqs {
		switch r.NormalizedType() {
		case TypeToil:
			u.toilHours += r.Cost()
		case TypeSick:
			u.sickDays += r.Cost()
		default:
			u.annualDays += r.Cost()
		}
	}
	return u
}

// GetBalances returns the per-type breakdown for one calendar year, cached in
// redis and deduplicated through singleflight so concurrent dashboard loads
// compute it once.
func (s *service) GetBalances(ctx context.Context, userID string, year int) (BalancesResponse, error) {
	key := cachekeys.UserBalances(userID, year)

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var resp BalancesResponse
			if err := json.Unmarshal(raw, &resp); err == nil {
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("balance cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		resp, err := s.computeBalances(ctx, s.repo, userID, year)
		if err != nil {
			return BalancesResponse{}, err
		}

		if s.rdb != nil {
			if raw, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, key, raw, balanceCacheTTL).Err(); err != nil {
					s.logger.Warn("balance cache write failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return BalancesResponse{}, err
	}
	return v.(BalancesResponse), nil
}

// computeBalances derives used and pending amounts from request history and
// pairs them with the entitlement counters. Reading is side-effect free:
// calling this any number of times never changes a balance.
func (s *service) computeBalances(ctx context.Context, repo Repository, userID string, year int) (BalancesResponse, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalancesResponse{}, usererrors.ErrUserNotFound
		}
		return BalancesResponse{}, err
	}

	approved, err := repo.FindByUserYearAndStatus(ctx, userID, year, StatusApproved)
	if err != nil {
		return BalancesResponse{}, err
	}
	pending, err := repo.FindByUserYearAndStatus(ctx, userID, year, StatusPending)
	if err != nil {
		return BalancesResponse{}, err
	}

	used := sumCosts(approved)
	open := sumCosts(pending)

	resp := BalancesResponse{
		UserID: userID,
		Year:   year,
		Annual: BalanceBreakdown{
			Total:     u.AnnualLeaveBalance,
			Used:      used.annualDays,
			Pending:   open.annualDays,
			Remaining: u.AnnualLeaveBalance - used.annualDays,
			Unit:      "days",
		},
	}

	if s.features.ToilEnabled {
		resp.Toil = &BalanceBreakdown{
			Total:     u.ToilBalanceHours,
			Used:      used.toilHours,
			Pending:   open.toilHours,
			Remaining: u.ToilBalanceHours - used.toilHours,
			Unit:      "hours",
		}
	}
	if s.features.SickEnabled {
		resp.Sick = &BalanceBreakdown{
			Total:     u.SickLeaveBalance,
			Used:      used.sickDays,
			Pending:   open.sickDays,
			Remaining: u.SickLeaveBalance - used.sickDays,
			Unit:      "days",
		}
	}

	return resp, nil
}

// remainingFor resolves one leave type's remaining amount for validation.
func (s *service) remainingFor(ctx context.Context, repo Repository, userID string, year int, leaveType string) (float64, error) {
	resp, err := s.computeBalances(ctx, repo, userID, year)
	if err != nil {
		return 0, err
	}

	switch leaveType {
	case TypeToil:
		if resp.Toil == nil {
			return 0, leaveerrors.ErrToilDisabled
		}
		return resp.Toil.Remaining, nil
	case TypeSick:
		if resp.Sick == nil {
			return 0, leaveerrors.ErrSickDisabled
		}
		return resp.Sick.Remaining, nil
	default:
		return resp.Annual.Remaining, nil
	}
}

// invalidateBalances drops the cached breakdown for the request's year and
// the current year. Best effort: stale entries expire by TTL.
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
