// Package when resolves structured "when" expressions (absolute dates or
// relative date/time tokens) into concrete calendar values against an
// explicit anchor instant. All arithmetic uses a fixed UTC reference
// timezone and Monday-based weeks.
package when

import (
	"strings"
	"time"

	scherrors "github.com/hyeonlog/naldo/server/internal/errors"
)

// Weekday represents a day of week, Monday-based (Monday == 0).
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayKoLabels = [7]string{"월", "화", "수", "목", "금", "토", "일"}

var weekdayEnLabels = [7]string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// ParseWeekday parses a weekday label in either the Korean single-character
// encoding ("월".."일") or the English three-letter encoding ("MON".."SUN",
// case-insensitive). Both encodings normalize to the same Weekday.
func ParseWeekday(label string) (Weekday, error) {
	label = strings.TrimSpace(label)
	for i, ko := range weekdayKoLabels {
		if label == ko {
			return Weekday(i), nil
		}
	}
	upper := strings.ToUpper(label)
	for i, en := range weekdayEnLabels {
		if upper == en {
			return Weekday(i), nil
		}
	}
	return 0, scherrors.InvalidTokenf("unknown weekday label: %q", label)
}

// KoreanLabel returns the Korean single-character label ("월".."일").
func (w Weekday) KoreanLabel() string {
	return weekdayKoLabels[w]
}

// String returns the English three-letter label ("MON".."SUN").
func (w Weekday) String() string {
	return weekdayEnLabels[w]
}

// WeekdayOf returns the Monday-based weekday of the given date.
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday is Sunday-based.
	return Weekday((int(t.Weekday()) + 6) % 7)
}
