package leave

import "time"

// WorkingDays counts Monday..Friday days in the inclusive span start..end.
// Public holidays are intentionally not modelled; the entitlement already
// accounts for them. Returns 0 when end precedes start.
func WorkingDays(start, end time.Time) int {
	start = dateOnly(start)
	end = dateOnly(end)
	if end.Before(start) {
		return 0
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
