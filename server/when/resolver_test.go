package when

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	scherrors "github.com/hyeonlog/naldo/server/internal/errors"
)

// anchorAt builds a UTC anchor instant for resolver tests.
func anchorAt(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func TestResolveDateTokens(t *testing.T) {
	// 2025-11-04 is a Tuesday.
	anchor := anchorAt(2025, time.November, 4, 10, 30)

	tests := []struct {
		name  string
		token *RawDateToken
		want  string
	}{
		{name: "this month keeps anchor day", token: &RawDateToken{Type: "THIS_MONTH"}, want: "2025-11-04"},
		{name: "this month with day", token: &RawDateToken{Type: "THIS_MONTH", Day: float64(20)}, want: "2025-11-20"},
		{name: "this month clamps day 31", token: &RawDateToken{Type: "THIS_MONTH", Day: float64(31)}, want: "2025-11-30"},
		{name: "next month with day", token: &RawDateToken{Type: "NEXT_MONTH", Day: float64(15)}, want: "2025-12-15"},
		{name: "next month defaults to anchor day", token: &RawDateToken{Type: "NEXT_MONTH"}, want: "2025-12-04"},
		{name: "after n day", token: &RawDateToken{Type: "AFTER_N_DAY", N: float64(10)}, want: "2025-11-14"},
		{name: "after zero days", token: &RawDateToken{Type: "AFTER_N_DAY", N: float64(0)}, want: "2025-11-04"},
		{name: "this week is anchor date", token: &RawDateToken{Type: "THIS_WEEK"}, want: "2025-11-04"},
		{name: "next week without weekday", token: &RawDateToken{Type: "NEXT_WEEK"}, want: "2025-11-11"},
		{name: "next week tuesday (korean)", token: &RawDateToken{Type: "NEXT_WEEK", Weekday: "화"}, want: "2025-11-11"},
		{name: "next week monday lands before anchor+7", token: &RawDateToken{Type: "NEXT_WEEK", Weekday: "월"}, want: "2025-11-10"},
		{name: "after two weeks", token: &RawDateToken{Type: "AFTER_N_WEEK", N: float64(2)}, want: "2025-11-18"},
		{name: "after two weeks friday", token: &RawDateToken{Type: "AFTER_N_WEEK", N: float64(2), Weekday: "FRI"}, want: "2025-11-21"},
		{name: "weekday_of this week", token: &RawDateToken{Type: "WEEKDAY_OF", Weekday: "금"}, want: "2025-11-07"},
		{name: "weekday_of next week", token: &RawDateToken{Type: "WEEKDAY_OF", Weekday: "금", Anchor: "NEXT_WEEK"}, want: "2025-11-14"},
		{name: "weekday_of after n week", token: &RawDateToken{Type: "WEEKDAY_OF", Weekday: "수", Anchor: "AFTER_N_WEEK", N: float64(3)}, want: "2025-11-26"},
		{name: "first monday of next month", token: &RawDateToken{Type: "NTH_WEEKDAY_OF_MONTH", N: float64(1), Weekday: "월", Anchor: "NEXT_MONTH"}, want: "2025-12-01"},
		{name: "second tuesday of this month", token: &RawDateToken{Type: "NTH_WEEKDAY_OF_MONTH", N: float64(2), Weekday: "TUE"}, want: "2025-11-11"},
		{name: "end of month", token: &RawDateToken{Type: "END_OF_MONTH"}, want: "2025-11-30"},
		{name: "begin of month", token: &RawDateToken{Type: "BEGIN_OF_MONTH"}, want: "2025-11-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(anchor, &WhenExpression{Mode: ModeToken, DateToken: tt.token})
			require.NoError(t, err)
			require.Equal(t, tt.want, res.DateString())
			require.Nil(t, res.Time)
		})
	}
}

func TestResolveEndOfMonthAnyAnchorDay(t *testing.T) {
	for day := 1; day <= 30; day++ {
		anchor := anchorAt(2025, time.November, day, 12, 0)
		res, err := Resolve(anchor, &WhenExpression{Mode: ModeToken, DateToken: &RawDateToken{Type: "END_OF_MONTH"}})
		require.NoError(t, err)
		require.Equal(t, "2025-11-30", res.DateString())
	}
}

func TestResolveMonthRollsYearForward(t *testing.T) {
	anchor := anchorAt(2025, time.December, 15, 9, 0)

	res, err := Resolve(anchor, &WhenExpression{Mode: ModeToken, DateToken: &RawDateToken{Type: "NEXT_MONTH", Day: float64(31)}})
	require.NoError(t, err)
	require.Equal(t, "2026-01-31", res.DateString())

	res, err = Resolve(anchor, &WhenExpression{Mode: ModeToken, DateToken: &RawDateToken{Type: "NTH_WEEKDAY_OF_MONTH", N: float64(1), Weekday: "목", Anchor: "NEXT_MONTH"}})
	require.NoError(t, err)
	require.Equal(t, "2026-01-01", res.DateString())
}

func TestResolveNextMonthClampsShorterMonth(t *testing.T) {
	// January 31 rolling into February clamps to the 28th (2026 is not a leap year).
	anchor := anchorAt(2026, time.January, 31, 9, 0)
	res, err := Resolve(anchor, &WhenExpression{Mode: ModeToken, DateToken: &RawDateToken{Type: "NEXT_MONTH", Day: float64(31)}})
	require.NoError(t, err)
	require.Equal(t, "2026-02-28", res.DateString())
}

func TestResolveFifthWeekdayOutOfRange(t *testing.T) {
	// November 2025 has only four Mondays.
	anchor := anchorAt(2025, time.November, 4, 9, 0)
	_, err := Resolve(anchor, &WhenExpression{
		Mode:      ModeToken,
		DateToken: &RawDateToken{Type: "NTH_WEEKDAY_OF_MONTH", N: float64(5), Weekday: "월"},
	})
	require.Error(t, err)
	require.True(t, scherrors.IsCode(err, scherrors.ErrCodeOutOfRange))
}

func TestResolveTimeTokens(t *testing.T) {
	anchor := anchorAt(2025, time.November, 4, 23, 0)

	t.Run("abs time", func(t *testing.T) {
		res, err := Resolve(anchor, &WhenExpression{
			Mode:      ModeToken,
			DateToken: &RawDateToken{Type: "THIS_WEEK"},
			TimeToken: &RawTimeToken{Type: "ABS", Value: "14:45"},
		})
		require.NoError(t, err)
		require.Equal(t, "14:45", *res.Time)
	})

	t.Run("slot evening is 19:00 regardless of date", func(t *testing.T) {
		for _, dateToken := range []*RawDateToken{
			{Type: "THIS_WEEK"},
			{Type: "END_OF_MONTH"},
			{Type: "AFTER_N_DAY", N: float64(40)},
		} {
			res, err := Resolve(anchor, &WhenExpression{
				Mode:      ModeToken,
				DateToken: dateToken,
				TimeToken: &RawTimeToken{Type: "SLOT", Slot: "EVENING"},
			})
			require.NoError(t, err)
			require.Equal(t, "19:00", *res.Time)
		}
	})

	t.Run("after n hour carries the date across midnight", func(t *testing.T) {
		res, err := Resolve(anchor, &WhenExpression{
			Mode:      ModeToken,
			DateToken: &RawDateToken{Type: "THIS_WEEK"},
			TimeToken: &RawTimeToken{Type: "AFTER_N_HOUR", N: float64(3)},
		})
		require.NoError(t, err)
		require.Equal(t, "2025-11-05", res.DateString())
		require.Equal(t, "02:00", *res.Time)
	})

	t.Run("after n hour keeps anchor minutes", func(t *testing.T) {
		res, err := Resolve(anchorAt(2025, time.November, 4, 10, 45), &WhenExpression{
			Mode:      ModeToken,
			DateToken: &RawDateToken{Type: "THIS_WEEK"},
			TimeToken: &RawTimeToken{Type: "AFTER_N_HOUR", N: float64(2)},
		})
		require.NoError(t, err)
		require.Equal(t, "2025-11-04", res.DateString())
		require.Equal(t, "12:45", *res.Time)
	})

	t.Run("after many hours crosses several days", func(t *testing.T) {
		res, err := Resolve(anchor, &WhenExpression{
			Mode:      ModeToken,
			DateToken: &RawDateToken{Type: "THIS_WEEK"},
			TimeToken: &RawTimeToken{Type: "AFTER_N_HOUR", N: float64(49)},
		})
		require.NoError(t, err)
		require.Equal(t, "2025-11-07", res.DateString())
		require.Equal(t, "00:00", *res.Time)
	})
}

func TestResolveAbsoluteMode(t *testing.T) {
	anchor := anchorAt(2025, time.November, 4, 9, 0)

	res, err := Resolve(anchor, &WhenExpression{Mode: "ABSOLUTE", Date: "2025-12-25", Time: "18:00"})
	require.NoError(t, err)
	require.Equal(t, "2025-12-25", res.DateString())
	require.Equal(t, "목", res.WeekdayLabel())
	require.Equal(t, "18:00", *res.Time)

	res, err = Resolve(anchor, &WhenExpression{Mode: "absolute", Date: "2025-12-25"})
	require.NoError(t, err)
	require.Nil(t, res.Time)

	_, err = Resolve(anchor, &WhenExpression{Mode: "ABSOLUTE", Date: "2025-02-30"})
	require.Error(t, err)
	require.True(t, scherrors.IsCode(err, scherrors.ErrCodeInvalidTimeFormat))

	_, err = Resolve(anchor, &WhenExpression{Mode: "ABSOLUTE", Date: "2025-12-25", Time: "25:99"})
	require.Error(t, err)
	require.True(t, scherrors.IsCode(err, scherrors.ErrCodeInvalidTimeFormat))

	_, err = Resolve(anchor, &WhenExpression{Mode: "ABSOLUTE"})
	require.Error(t, err)
	require.True(t, scherrors.IsCode(err, scherrors.ErrCodeInvalidArgument))
}

func TestResolveIsDeterministic(t *testing.T) {
	anchor := anchorAt(2025, time.November, 4, 23, 0)
	expr := &WhenExpression{
		Mode:      ModeToken,
		DateToken: &RawDateToken{Type: "NEXT_WEEK", Weekday: "화"},
		TimeToken: &RawTimeToken{Type: "SLOT", Slot: "MORNING"},
	}

	first, err := Resolve(anchor, expr)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Resolve(anchor, expr)
		require.NoError(t, err)
		require.Equal(t, first.DateString(), again.DateString())
		require.Equal(t, *first.Time, *again.Time)
	}
}

func TestResolveInvalidMode(t *testing.T) {
	anchor := anchorAt(2025, time.November, 4, 9, 0)
	_, err := Resolve(anchor, &WhenExpression{Mode: "RELATIVE"})
	require.Error(t, err)
	require.True(t, scherrors.IsCode(err, scherrors.ErrCodeInvalidArgument))

	_, err = Resolve(anchor, nil)
	require.Error(t, err)
}

func TestParseAnchor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-11-04T10:30:00", "2025-11-04T10:30:00Z"},
		{"2025-11-04T10:30", "2025-11-04T10:30:00Z"},
		{"2025-11-04 10:30:00", "2025-11-04T10:30:00Z"},
		{"2025-11-04", "2025-11-04T00:00:00Z"},
		// Zone offsets are stripped; the literal clock is kept.
		{"2025-11-04T10:30:00+09:00", "2025-11-04T10:30:00Z"},
		{"2025-11-04T10:30:00Z", "2025-11-04T10:30:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAnchor(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got.Format(time.RFC3339))
		})
	}

	_, err := ParseAnchor("next tuesday")
	require.Error(t, err)
	require.True(t, scherrors.IsCode(err, scherrors.ErrCodeInvalidTimeFormat))
}
