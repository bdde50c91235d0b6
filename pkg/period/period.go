// Package period resolves relative time phrases ("last week", "this month")
// into absolute, inclusive calendar-day ranges. Resolution is pure and
// deterministic: the same phrase and reference instant always produce the same
// range. All arithmetic is UTC with ISO weeks (Monday first).
package period

import (
	"strings"
	"time"
)

// DayLayout is the calendar-day wire format used throughout the service.
const DayLayout = "2006-01-02"

// Range is an absolute, inclusive [From, To] calendar-day range. Both bounds
// are UTC midnights.
type Range struct {
	From time.Time
	To   time.Time
}

// FromString returns the lower bound as YYYY-MM-DD.
func (r Range) FromString() string { return r.From.Format(DayLayout) }

// ToString returns the upper bound as YYYY-MM-DD.
func (r Range) ToString() string { return r.To.Format(DayLayout) }

var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Resolve maps a free-form phrase and a reference instant to an absolute day
// range. Rules are tried in order and the first match wins:
//
//  1. "today" / "yesterday" / "day before yesterday" (suppressed when the
//     phrase also mentions "month")
//  2. "last week", narrowed to a single weekday when one is named
//  3. "this week", with the same narrowing
//  4. "last month"
//  5. "this month"
//  6. "last year"
//  7. "this year"
//  8. default: 1st of the current month through the reference day
func Resolve(phrase string, now time.Time) Range {
	p := strings.ToLower(phrase)
	today := midnight(now.UTC())
	mentionsMonth := strings.Contains(p, "month")

	// Explicit day tokens lose to month qualifiers so that "today" inside a
	// "this month" style phrase does not shadow the month range.
	if !mentionsMonth {
		switch {
		case strings.Contains(p, "day before yesterday"):
			return singleDay(today.AddDate(0, 0, -2))
		case strings.Contains(p, "yesterday"):
			return singleDay(today.AddDate(0, 0, -1))
		case strings.Contains(p, "today"):
			return singleDay(today)
		}
	}

	if strings.Contains(p, "last week") {
		monday := isoWeekStart(today).AddDate(0, 0, -7)
		return weekRange(monday, p)
	}

	if strings.Contains(p, "this week") {
		return weekRange(isoWeekStart(today), p)
	}

	if strings.Contains(p, "last month") {
		firstOfCurrent := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Range{
			From: firstOfCurrent.AddDate(0, -1, 0),
			To:   firstOfCurrent.AddDate(0, 0, -1),
		}
	}

	if mentionsMonth && strings.Contains(p, "this month") {
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Range{From: first, To: first.AddDate(0, 1, -1)}
	}

	if strings.Contains(p, "last year") {
		return yearRange(today.Year() - 1)
	}

	if strings.Contains(p, "this year") {
		return yearRange(today.Year())
	}

	return Range{
		From: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC),
		To:   today,
	}
}

// weekRange returns the Mon-Sun week starting at monday, narrowed to a single
// day when the phrase names a weekday (Monday=1 .. Sunday=7).
func weekRange(monday time.Time, phrase string) Range {
	for i, name := range weekdayNames {
		if strings.Contains(phrase, name) {
			return singleDay(monday.AddDate(0, 0, i))
		}
	}
	return Range{From: monday, To: monday.AddDate(0, 0, 6)}
}

// isoWeekStart returns the Monday of the ISO week containing day.
func isoWeekStart(day time.Time) time.Time {
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7
	}
	return day.AddDate(0, 0, -(wd - 1))
}

func yearRange(year int) Range {
	return Range{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

func singleDay(day time.Time) Range {
	return Range{From: day, To: day}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
