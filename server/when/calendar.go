package when

import (
	"time"

	scherrors "github.com/hyeonlog/naldo/server/internal/errors"
)

// Date normalizes an instant to midnight UTC, dropping the time of day.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the given month, handling leap
// years via the Gregorian rule (day 0 of the next month is the last day of
// this one).
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay clamps day to the length of the given month. A day past the end
// of the month resolves to the last valid day, never an error.
func ClampDay(year int, month time.Month, day int) int {
	if max := DaysInMonth(year, month); day > max {
		return max
	}
	return day
}

// FirstOfMonth returns the first day of the given month.
func FirstOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// LastOfMonth returns the last day of the given month.
func LastOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, DaysInMonth(year, month), 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after t, calendar-correct across
// month and year boundaries.
func AddDays(t time.Time, n int) time.Time {
	return Date(t).AddDate(0, 0, n)
}

// AddWeeks returns the date n weeks after t.
func AddWeeks(t time.Time, n int) time.Time {
	return AddDays(t, 7*n)
}

// StartOfWeek returns the Monday of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	return AddDays(t, -int(WeekdayOf(t)))
}

// WeekdayInWeek returns the given weekday within the week starting at
// weekStart (a Monday).
func WeekdayInWeek(weekStart time.Time, weekday Weekday) time.Time {
	return AddDays(weekStart, int(weekday))
}

// SameWeekdayNextWeek returns the occurrence of weekday in the week
// following the week containing t.
func SameWeekdayNextWeek(t time.Time, weekday Weekday) time.Time {
	return WeekdayInWeek(AddWeeks(StartOfWeek(t), 1), weekday)
}

// NthWeekdayOfMonth returns the date of the n-th (1-indexed) occurrence of
// weekday within the given month. Months hold at most five occurrences of
// any weekday; n past the last occurrence is an out-of-range failure.
func NthWeekdayOfMonth(year int, month time.Month, weekday Weekday, n int) (time.Time, error) {
	if n < 1 || n > 5 {
		return time.Time{}, scherrors.OutOfRangef("nth weekday index must be 1..5, got %d", n)
	}
	first := FirstOfMonth(year, month)
	offset := (int(weekday) - int(WeekdayOf(first)) + 7) % 7
	day := 1 + offset + (n-1)*7
	if day > DaysInMonth(year, month) {
		return time.Time{}, scherrors.OutOfRangef("%d-th %s does not exist in %04d-%02d", n, weekday, year, month)
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// nextMonth rolls the month forward by one, advancing the year at December.
func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}
