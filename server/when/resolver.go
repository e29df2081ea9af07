package when

import (
	"strings"
	"time"

	scherrors "github.com/hyeonlog/naldo/server/internal/errors"
)

// DateLayout is the canonical calendar date encoding.
const DateLayout = "2006-01-02"

// Resolution is the outcome of resolving a WhenExpression: a concrete
// calendar date and an optional time of day. Time is nil when the request
// carried no time component.
type Resolution struct {
	Date time.Time // midnight UTC
	Time *string   // "HH:MM"
}

// DateString returns the resolved date as YYYY-MM-DD.
func (r *Resolution) DateString() string {
	return r.Date.Format(DateLayout)
}

// WeekdayLabel returns the Korean weekday label derived from the resolved
// date. The label is always computed from the date, never supplied.
func (r *Resolution) WeekdayLabel() string {
	return WeekdayOf(r.Date).KoreanLabel()
}

// anchorLayouts are the accepted anchor_now encodings, most specific first.
var anchorLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
}

// ParseAnchor parses an ISO-8601-style anchor timestamp. Any zone offset is
// discarded: the literal clock fields are re-read in the fixed UTC
// reference timezone, matching the naive-UTC anchor semantics.
func ParseAnchor(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range anchorLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
	}
	return time.Time{}, scherrors.InvalidTimeFormat("anchor_now must be an ISO-8601 timestamp, got " + s)
}

// Resolve turns a WhenExpression into a concrete (date, time?) against the
// given anchor instant. It is total and deterministic: the same inputs
// always produce the same resolution, and it fails only on structurally
// invalid input.
func Resolve(anchor time.Time, expr *WhenExpression) (*Resolution, error) {
	if expr == nil {
		return nil, scherrors.InvalidArgument("when expression is required")
	}

	switch strings.ToUpper(strings.TrimSpace(expr.Mode)) {
	case ModeAbsolute:
		return resolveAbsolute(expr)
	case ModeToken:
		return resolveToken(anchor, expr)
	default:
		return nil, scherrors.InvalidArgument("when.mode must be ABSOLUTE or TOKEN")
	}
}

func resolveAbsolute(expr *WhenExpression) (*Resolution, error) {
	dateStr := strings.TrimSpace(expr.Date)
	if dateStr == "" {
		return nil, scherrors.InvalidArgument("when.date is required in ABSOLUTE mode")
	}
	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return nil, scherrors.InvalidTimeFormat("date must be a valid YYYY-MM-DD, got " + dateStr)
	}

	resolution := &Resolution{Date: Date(date)}
	if timeStr := strings.TrimSpace(expr.Time); timeStr != "" {
		if err := ValidateHHMM(timeStr); err != nil {
			return nil, err
		}
		resolution.Time = &timeStr
	}
	return resolution, nil
}

func resolveToken(anchor time.Time, expr *WhenExpression) (*Resolution, error) {
	dateToken, err := ParseDateToken(expr.DateToken)
	if err != nil {
		return nil, err
	}
	timeToken, err := ParseTimeToken(expr.TimeToken)
	if err != nil {
		return nil, err
	}

	date, err := resolveDateToken(anchor, dateToken)
	if err != nil {
		return nil, err
	}
	return resolveTimeToken(anchor, date, timeToken)
}

func resolveDateToken(anchor time.Time, token *DateToken) (time.Time, error) {
	base := Date(anchor)
	year, month := anchor.Year(), anchor.Month()

	switch token.Type {
	case DateTokenThisMonth:
		day := anchor.Day()
		if token.Day != nil {
			day = ClampDay(year, month, *token.Day)
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil

	case DateTokenNextMonth:
		nextYear, next := nextMonth(year, month)
		day := anchor.Day()
		if token.Day != nil {
			day = *token.Day
		}
		day = ClampDay(nextYear, next, day)
		return time.Date(nextYear, next, day, 0, 0, 0, 0, time.UTC), nil

	case DateTokenAfterNDay:
		return AddDays(base, *token.N), nil

	case DateTokenThisWeek:
		return base, nil

	case DateTokenNextWeek:
		if token.Weekday == nil {
			return AddDays(base, 7), nil
		}
		return SameWeekdayNextWeek(base, *token.Weekday), nil

	case DateTokenAfterNWeek:
		if token.Weekday == nil {
			return AddWeeks(base, *token.N), nil
		}
		return WeekdayInWeek(AddWeeks(StartOfWeek(base), *token.N), *token.Weekday), nil

	case DateTokenWeekdayOf:
		offset := 0
		switch token.WeekAnchor {
		case WeekAnchorNext:
			offset = 1
		case WeekAnchorAfterN:
			offset = *token.N
		}
		return WeekdayInWeek(AddWeeks(StartOfWeek(base), offset), *token.Weekday), nil

	case DateTokenNthWeekdayOfMonth:
		targetYear, targetMonth := year, month
		if token.MonthAnchor == MonthAnchorNext {
			targetYear, targetMonth = nextMonth(year, month)
		}
		return NthWeekdayOfMonth(targetYear, targetMonth, *token.Weekday, *token.N)

	case DateTokenEndOfMonth:
		return LastOfMonth(year, month), nil

	case DateTokenBeginOfMonth:
		return FirstOfMonth(year, month), nil
	}

	return time.Time{}, scherrors.InvalidTokenf("unknown date_token.type: %q", token.Type)
}

// resolveTimeToken produces the resolved time of day. AFTER_N_HOUR is the
// one token that can advance the already-resolved date: the anchor's clock
// plus n hours may cross midnight, and each crossed boundary moves the date
// forward a day.
func resolveTimeToken(anchor time.Time, date time.Time, token *TimeToken) (*Resolution, error) {
	if token == nil {
		return &Resolution{Date: date}, nil
	}

	switch token.Type {
	case TimeTokenAbs, TimeTokenSlot:
		value := token.Value
		return &Resolution{Date: date, Time: &value}, nil

	case TimeTokenAfterNHour:
		totalHours := anchor.Hour() + token.N
		date = AddDays(date, totalHours/24)
		value := time.Date(0, 1, 1, totalHours%24, anchor.Minute(), 0, 0, time.UTC).Format("15:04")
		return &Resolution{Date: date, Time: &value}, nil
	}

	return nil, scherrors.InvalidTokenf("unknown time_token.type: %q", token.Type)
}
