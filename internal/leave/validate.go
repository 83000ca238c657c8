package leave

import (
	"context"
	"time"

	leaveerrors "github.com/undiescoverd/leave-tracker-app-sub003/internal/leave/errors"
)

// validateRequest runs the submission rules in order: feature gate, balance,
// then coverage overlap. Sick leave is never balance-blocked; recording it
// matters more than the counter, which may legitimately go negative.
func (s *service) validateRequest(ctx context.Context, repo Repository, userID, leaveType string, start, end time.Time, hours *float64) error {
	year := start.Year()

	switch leaveType {
	case TypeToil:
		if !s.features.ToilEnabled {
			return leaveerrors.ErrToilDisabled
		}
		if hours == nil {
			return leaveerrors.ErrToilHoursUnknown
		}
		remaining, err := s.remainingFor(ctx, repo, userID, year, TypeToil)
		if err != nil {
			return err
		}
		if remaining < *hours {
			return leaveerrors.InsufficientBalance("TOIL", remaining, *hours, "hours")
		}

	case TypeSick:
		if !s.features.SickEnabled {
			return leaveerrors.ErrSickDisabled
		}

	default:
		requested := float64(WorkingDays(start, end))
		remaining, err := s.remainingFor(ctx, repo, userID, year, TypeAnnual)
		if err != nil {
			return err
		}
		if remaining < requested {
			return leaveerrors.InsufficientBalance("annual leave", remaining, requested, "days")
		}
	}

	return s.checkCoverage(ctx, repo, userID, start, end)
}

// checkCoverage blocks a coverage-list user's request when any other coverage
// user already has pending or approved leave overlapping the span. Users off
// the list are never checked.
func (s *service) checkCoverage(ctx context.Context, repo Repository, userID string, start, end time.Time) error {
	if !contains(s.coverageUserIDs, userID) {
		return nil
	}

	others := make([]string, 0, len(s.coverageUserIDs)-1)
	for _, id := range s.coverageUserIDs {
		if id != userID {
			others = append(others, id)
		}
	}

	overlap, err := repo.HasOverlappingLeave(ctx, others, start, end)
	if err != nil {
		return err
	}
	if overlap {
		return leaveerrors.ErrCoverageConflict
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
