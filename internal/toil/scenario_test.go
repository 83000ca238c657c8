package toil_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/toil"
	toilerrors "github.com/undiescoverd/leave-tracker-app-sub003/internal/toil/errors"
)

func TestScenarioHours_FixedScenarios(t *testing.T) {
	tests := []struct {
		scenario string
		want     float64
	}{
		{toil.ScenarioLocalShow, 0},
		{toil.ScenarioWorkingDayPanel, 4},
		{toil.ScenarioOvernightDayOff, 4},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			hours, err := toil.ScenarioHours(tt.scenario, "2026-03-02", "")
			assert.NoError(t, err)
			assert.Equal(t, tt.want, hours)
		})
	}
}

func TestScenarioHours_OvernightWorkingDay(t *testing.T) {
	tests := []struct {
		returnTime string
		want       float64
	}{
		{"18:00", 0},
		{"18:59", 0},
		{"19:00", 1},
		{"19:45", 1},
		{"20:00", 2},
		{"21:00", 3},
		{"21:45", 3},
		{"22:00", 4},
		{"23:30", 4},
	}

	for _, tt := range tests {
		t.Run(tt.returnTime, func(t *testing.T) {
			hours, err := toil.ScenarioHours(toil.ScenarioOvernightWorkingDay, "2026-03-02", tt.returnTime)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, hours)
		})
	}
}

func TestScenarioHours_IncompleteInputBlocks(t *testing.T) {
	tests := []struct {
		name       string
		scenario   string
		travelDate string
		returnTime string
	}{
		{"missing scenario", "", "2026-03-02", "20:00"},
		{"missing travel date", toil.ScenarioLocalShow, "", ""},
		{"overnight without return time", toil.ScenarioOvernightWorkingDay, "2026-03-02", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := toil.ScenarioHours(tt.scenario, tt.travelDate, tt.returnTime)
			assert.ErrorIs(t, err, toilerrors.ErrScenarioIncomplete)
		})
	}
}

func TestScenarioHours_InvalidReturnTime(t *testing.T) {
	for _, rt := range []string{"nonsense", "25:00", "-1:30", "2000"} {
		t.Run(fmt.Sprintf("return time %q", rt), func(t *testing.T) {
			_, err := toil.ScenarioHours(toil.ScenarioOvernightWorkingDay, "2026-03-02", rt)
			assert.ErrorIs(t, err, toilerrors.ErrInvalidReturnTime)
		})
	}
}

func TestScenarioHours_UnknownScenario(t *testing.T) {
	_, err := toil.ScenarioHours("TELEPORT", "2026-03-02", "")
	assert.ErrorIs(t, err, toilerrors.ErrUnknownScenario)
}
