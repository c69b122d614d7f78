// Package schedule holds the watering calendar math and the urgency policy built on it.
package schedule

import "time"

// DefaultFrequencyDays applies when a plant has no cached advice.
const DefaultFrequencyDays = 7

// NextDueDate returns lastWatered plus frequencyDays calendar days, or nil if never watered.
func NextDueDate(lastWatered *time.Time, frequencyDays int) *time.Time {
	if lastWatered == nil {
		return nil
	}
	due := lastWatered.AddDate(0, 0, frequencyDays)
	return &due
}

// DaysUntilDue is the signed calendar-day distance from now to due.
// Positive is in the future, zero is today, negative is overdue.
func DaysUntilDue(due *time.Time, now time.Time) *int {
	if due == nil {
		return nil
	}
	d := calendarDaysBetween(now, *due)
	return &d
}

// SameCalendarDay compares year/month/day of a and b in b's location.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// calendarDaysBetween counts midnights crossed going from -> to, in from's location.
// Dates are projected onto UTC so DST transitions never produce 23h or 25h days.
func calendarDaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.In(from.Location()).Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
