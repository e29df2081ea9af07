package when

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	scherrors "github.com/hyeonlog/naldo/server/internal/errors"
)

// Mode selects how a WhenExpression is interpreted.
const (
	ModeAbsolute = "ABSOLUTE"
	ModeToken    = "TOKEN"
)

// DateTokenType tags a relative date token.
type DateTokenType string

const (
	DateTokenThisMonth         DateTokenType = "THIS_MONTH"
	DateTokenNextMonth         DateTokenType = "NEXT_MONTH"
	DateTokenAfterNDay         DateTokenType = "AFTER_N_DAY"
	DateTokenThisWeek          DateTokenType = "THIS_WEEK"
	DateTokenNextWeek          DateTokenType = "NEXT_WEEK"
	DateTokenAfterNWeek        DateTokenType = "AFTER_N_WEEK"
	DateTokenWeekdayOf         DateTokenType = "WEEKDAY_OF"
	DateTokenNthWeekdayOfMonth DateTokenType = "NTH_WEEKDAY_OF_MONTH"
	DateTokenEndOfMonth        DateTokenType = "END_OF_MONTH"
	DateTokenBeginOfMonth      DateTokenType = "BEGIN_OF_MONTH"
)

// TimeTokenType tags a relative time token.
type TimeTokenType string

const (
	TimeTokenAbs        TimeTokenType = "ABS"
	TimeTokenSlot       TimeTokenType = "SLOT"
	TimeTokenAfterNHour TimeTokenType = "AFTER_N_HOUR"
)

// WeekAnchor selects the base week for WEEKDAY_OF tokens.
type WeekAnchor string

const (
	WeekAnchorThis   WeekAnchor = "THIS_WEEK"
	WeekAnchorNext   WeekAnchor = "NEXT_WEEK"
	WeekAnchorAfterN WeekAnchor = "AFTER_N_WEEK"
)

// MonthAnchor selects the base month for NTH_WEEKDAY_OF_MONTH tokens.
type MonthAnchor string

const (
	MonthAnchorThis MonthAnchor = "THIS_MONTH"
	MonthAnchorNext MonthAnchor = "NEXT_MONTH"
)

// SlotTimes maps named time-of-day slots to their fixed HH:MM values.
var SlotTimes = map[string]string{
	"MORNING":   "09:00",
	"AFTERNOON": "15:00",
	"EVENING":   "19:00",
	"NIGHT":     "21:00",
}

// WhenExpression is the caller-facing "when" shape: either an absolute
// date (plus optional time) or a date token (plus optional time token).
type WhenExpression struct {
	Mode      string        `json:"mode"`
	Date      string        `json:"date,omitempty"`
	Time      string        `json:"time,omitempty"`
	DateToken *RawDateToken `json:"date_token,omitempty"`
	TimeToken *RawTimeToken `json:"time_token,omitempty"`
}

// RawDateToken is the untyped wire shape of a date token. Numeric fields
// are `any` because upstream callers are inconsistent about sending JSON
// numbers vs numeric strings.
type RawDateToken struct {
	Type    string `json:"type"`
	Day     any    `json:"day,omitempty"`
	N       any    `json:"n,omitempty"`
	Value   any    `json:"value,omitempty"`
	Weekday string `json:"weekday,omitempty"`
	Anchor  string `json:"anchor,omitempty"`
}

// RawTimeToken is the untyped wire shape of a time token. Value doubles as
// the HH:MM string for ABS and as the hour count for AFTER_N_HOUR.
type RawTimeToken struct {
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
	Slot  string `json:"slot,omitempty"`
	N     any    `json:"n,omitempty"`
}

// DateToken is the validated, typed form of a date token.
type DateToken struct {
	Type        DateTokenType
	Day         *int
	N           *int
	Weekday     *Weekday
	WeekAnchor  WeekAnchor
	MonthAnchor MonthAnchor
}

// TimeToken is the validated, typed form of a time token.
type TimeToken struct {
	Type  TimeTokenType
	Value string // HH:MM for ABS, slot value for SLOT
	N     int    // hours for AFTER_N_HOUR
}

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidateHHMM checks that s is a well-formed HH:MM between 00:00 and 23:59.
func ValidateHHMM(s string) error {
	if !hhmmPattern.MatchString(s) {
		return scherrors.InvalidTimeFormat("time must be HH:MM between 00:00 and 23:59, got " + strconv.Quote(s))
	}
	return nil
}

// asInt coerces a loosely typed JSON value to an int. Accepts JSON numbers,
// numeric strings and json.Number.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// intField normalizes the n/value alias pair: n wins when both are present.
func intField(n, value any) (*int, bool) {
	if v, ok := asInt(n); ok {
		return &v, true
	}
	if v, ok := asInt(value); ok {
		return &v, true
	}
	return nil, false
}

// ParseDateToken validates a raw date token and normalizes it into its
// typed form. All field aliasing and anchor validation happens here so
// resolution never sees an ambiguous token.
func ParseDateToken(raw *RawDateToken) (*DateToken, error) {
	if raw == nil {
		return nil, scherrors.InvalidToken("date_token is required in TOKEN mode")
	}
	tokenType := DateTokenType(strings.ToUpper(strings.TrimSpace(raw.Type)))
	if tokenType == "" {
		return nil, scherrors.InvalidToken("date_token.type is required")
	}

	token := &DateToken{Type: tokenType}
	n, hasN := intField(raw.N, raw.Value)
	if hasN {
		token.N = n
	}
	if day, ok := asInt(raw.Day); ok {
		if day < 1 {
			return nil, scherrors.OutOfRangef("date_token.day must be positive, got %d", day)
		}
		token.Day = &day
	}
	if raw.Weekday != "" {
		weekday, err := ParseWeekday(raw.Weekday)
		if err != nil {
			return nil, err
		}
		token.Weekday = &weekday
	}

	switch tokenType {
	case DateTokenThisMonth, DateTokenNextMonth, DateTokenEndOfMonth, DateTokenBeginOfMonth, DateTokenThisWeek:
		// No further structure required.
	case DateTokenAfterNDay:
		if token.N == nil {
			zero := 0
			token.N = &zero
		}
		if *token.N < 0 {
			return nil, scherrors.OutOfRangef("AFTER_N_DAY requires n >= 0, got %d", *token.N)
		}
	case DateTokenNextWeek:
		// Optional weekday only.
	case DateTokenAfterNWeek:
		if token.N == nil {
			one := 1
			token.N = &one
		}
		if *token.N < 0 {
			return nil, scherrors.OutOfRangef("AFTER_N_WEEK requires n >= 0, got %d", *token.N)
		}
	case DateTokenWeekdayOf:
		if token.Weekday == nil {
			return nil, scherrors.InvalidToken("WEEKDAY_OF requires a weekday")
		}
		anchor := WeekAnchor(strings.ToUpper(strings.TrimSpace(raw.Anchor)))
		if anchor == "" {
			anchor = WeekAnchorThis
		}
		switch anchor {
		case WeekAnchorThis, WeekAnchorNext, WeekAnchorAfterN:
			token.WeekAnchor = anchor
		default:
			return nil, scherrors.InvalidTokenf("unknown week anchor: %q", raw.Anchor)
		}
		if anchor == WeekAnchorAfterN {
			if token.N == nil {
				one := 1
				token.N = &one
			}
			if *token.N < 0 {
				return nil, scherrors.OutOfRangef("AFTER_N_WEEK anchor requires n >= 0, got %d", *token.N)
			}
		}
	case DateTokenNthWeekdayOfMonth:
		if token.N == nil {
			return nil, scherrors.InvalidToken("NTH_WEEKDAY_OF_MONTH requires n")
		}
		if token.Weekday == nil {
			return nil, scherrors.InvalidToken("NTH_WEEKDAY_OF_MONTH requires a weekday")
		}
		anchor := MonthAnchor(strings.ToUpper(strings.TrimSpace(raw.Anchor)))
		if anchor == "" {
			anchor = MonthAnchorThis
		}
		switch anchor {
		case MonthAnchorThis, MonthAnchorNext:
			token.MonthAnchor = anchor
		default:
			return nil, scherrors.InvalidTokenf("unknown month anchor: %q", raw.Anchor)
		}
	default:
		return nil, scherrors.InvalidTokenf("unknown date_token.type: %q", raw.Type)
	}

	return token, nil
}

// ParseTimeToken validates a raw time token and normalizes it into its
// typed form. A nil raw token is valid and means "no time component".
func ParseTimeToken(raw *RawTimeToken) (*TimeToken, error) {
	if raw == nil {
		return nil, nil
	}
	tokenType := TimeTokenType(strings.ToUpper(strings.TrimSpace(raw.Type)))
	if tokenType == "" {
		return nil, nil
	}

	switch tokenType {
	case TimeTokenAbs:
		value, _ := raw.Value.(string)
		if err := ValidateHHMM(strings.TrimSpace(value)); err != nil {
			return nil, err
		}
		return &TimeToken{Type: TimeTokenAbs, Value: strings.TrimSpace(value)}, nil
	case TimeTokenSlot:
		slot := strings.ToUpper(strings.TrimSpace(raw.Slot))
		value, ok := SlotTimes[slot]
		if !ok {
			return nil, scherrors.InvalidTokenf("unknown slot: %q", raw.Slot)
		}
		return &TimeToken{Type: TimeTokenSlot, Value: value}, nil
	case TimeTokenAfterNHour:
		n, ok := intField(raw.N, raw.Value)
		if !ok {
			zero := 0
			n = &zero
		}
		if *n < 0 {
			return nil, scherrors.OutOfRangef("AFTER_N_HOUR requires n >= 0, got %d", *n)
		}
		return &TimeToken{Type: TimeTokenAfterNHour, N: *n}, nil
	default:
		return nil, scherrors.InvalidTokenf("unknown time_token.type: %q", raw.Type)
	}
}
