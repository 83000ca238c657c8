package toil

import (
	"strconv"
	"strings"

	toilerrors "github.com/undiescoverd/leave-tracker-app-sub003/internal/toil/errors"
)

// Travel scenarios from the TOIL agreement. The hour awards are contractual
// and fixed; they are not configuration.
const (
	ScenarioLocalShow           = "LOCAL_SHOW"
	ScenarioWorkingDayPanel     = "WORKING_DAY_PANEL"
	ScenarioOvernightDayOff     = "OVERNIGHT_DAY_OFF"
	ScenarioOvernightWorkingDay = "OVERNIGHT_WORKING_DAY"
)

func IsValidScenario(s string) bool {
	switch s {
	case ScenarioLocalShow, ScenarioWorkingDayPanel, ScenarioOvernightDayOff, ScenarioOvernightWorkingDay:
		return true
	}
	return false
}

// ScenarioHours maps a travel scenario to its TOIL hour award.
//
//	LOCAL_SHOW             -> 0
//	WORKING_DAY_PANEL      -> 4
//	OVERNIGHT_DAY_OFF      -> 4
//	OVERNIGHT_WORKING_DAY  -> 0..4 by return hour (<19:0, 19:1, 20:2, 21:3, >=22:4)
//
// Incomplete input returns ErrScenarioIncomplete, never a zero award; callers
// must block the request rather than default the hours.
func ScenarioHours(scenario, travelDate, returnTime string) (float64, error) {
	if scenario == "" || travelDate == "" {
		return 0, toilerrors.ErrScenarioIncomplete
	}

	switch scenario {
	case ScenarioLocalShow:
		return 0, nil
	case ScenarioWorkingDayPanel:
		return 4, nil
	case ScenarioOvernightDayOff:
		return 4, nil
	case ScenarioOvernightWorkingDay:
		if returnTime == "" {
			return 0, toilerrors.ErrScenarioIncomplete
		}
		hour, err := parseReturnHour(returnTime)
		if err != nil {
			return 0, err
		}
		return overnightWorkingDayHours(hour), nil
	default:
		return 0, toilerrors.ErrUnknownScenario
	}
}

// parseReturnHour reads the hour component of a 24-hour HH:MM string. Minutes
// are intentionally ignored: the agreement only has whole-hour buckets.
func parseReturnHour(returnTime string) (int, error) {
	parts := strings.SplitN(returnTime, ":", 2)
	if len(parts) != 2 {
		return 0, toilerrors.ErrInvalidReturnTime
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, toilerrors.ErrInvalidReturnTime
	}
	return hour, nil
}

func overnightWorkingDayHours(returnHour int) float64 {
	switch {
	case returnHour < 19:
		return 0
	case returnHour == 19:
		return 1
	case returnHour == 20:
		return 2
	case returnHour == 21:
		return 3
	default: // 22 or later
		return 4
	}
}
