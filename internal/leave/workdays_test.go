package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/leave"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkingDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"single weekday", date(2026, time.March, 2), date(2026, time.March, 2), 1},
		{"monday to friday", date(2026, time.March, 2), date(2026, time.March, 6), 5},
		{"full week spans weekend", date(2026, time.March, 2), date(2026, time.March, 9), 6},
		{"weekend only", date(2026, time.March, 7), date(2026, time.March, 8), 0},
		{"saturday", date(2026, time.March, 7), date(2026, time.March, 7), 0},
		{"friday to monday", date(2026, time.March, 6), date(2026, time.March, 9), 2},
		{"two full weeks", date(2026, time.March, 2), date(2026, time.March, 13), 10},
		{"end before start", date(2026, time.March, 6), date(2026, time.March, 2), 0},
		{"across year boundary", date(2025, time.December, 29), date(2026, time.January, 2), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, leave.WorkingDays(tt.start, tt.end))
		})
	}
}

func TestWorkingDays_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2026, time.March, 2, 23, 50, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 3, 0, 5, 0, 0, time.UTC)

	assert.Equal(t, 2, leave.WorkingDays(start, end))
}
