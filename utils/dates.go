// utils/dates.go
package utils

import (
	"math"
	"time"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// recurrenceDay maps a stored month/day into the given year. Feb 29
// clamps to Feb 28 in non-leap years so the occurrence never slides
// into March or silently skips.
func recurrenceDay(event time.Time, year int, loc *time.Location) time.Time {
	month, day := event.Month(), event.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// AdjustedEventDate returns the next occurrence of a yearly-recurring
// event date relative to now: this year's occurrence, or next year's if
// it has already passed.
func AdjustedEventDate(event, now time.Time) time.Time {
	today := BeginningOfDay(now)
	occurrence := recurrenceDay(event, now.Year(), now.Location())
	if occurrence.Before(today) {
		occurrence = recurrenceDay(event, now.Year()+1, now.Location())
	}
	return occurrence
}

// DaysBetween returns ceil((d1 - d2) / 24h). Rounding toward the later
// day keeps partial days near midnight counted as a full day, matching
// how "tomorrow" reads on a calendar.
func DaysBetween(d1, d2 time.Time) int {
	return int(math.Ceil(d1.Sub(d2).Hours() / 24))
}

// OccursOn reports whether a stored recurring date falls on the target
// calendar day, applying the same Feb 29 clamp as AdjustedEventDate.
func OccursOn(event, target time.Time) bool {
	occurrence := recurrenceDay(event, target.Year(), target.Location())
	return occurrence.Month() == target.Month() && occurrence.Day() == target.Day()
}
