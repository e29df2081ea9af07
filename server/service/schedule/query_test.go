package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	scherrors "github.com/hyeonlog/naldo/server/internal/errors"
	"github.com/hyeonlog/naldo/server/when"
	"github.com/hyeonlog/naldo/store"
)

// seedSchedules loads the mock store with a known week of entries around
// the test anchor 2025-11-04 (Tuesday).
func seedSchedules(mock *mockStore) {
	timeAt := func(s string) *string { return &s }
	entries := []*store.Schedule{
		{Date: "2025-11-04", DayOfWeek: "화", Time: timeAt("09:00"), Content: "팀 회의"},
		{Date: "2025-11-04", DayOfWeek: "화", Content: "장보기"},
		{Date: "2025-11-05", DayOfWeek: "수", Time: timeAt("19:00"), Content: "저녁 약속"},
		{Date: "2025-11-11", DayOfWeek: "화", Time: timeAt("09:00"), Content: "팀 회의"},
		{Date: "2025-11-20", DayOfWeek: "목", Content: "치과"},
	}
	for i, entry := range entries {
		entry.ID = int64(i + 1)
		mock.schedules = append(mock.schedules, entry)
	}
	mock.nextID = int64(len(entries))
}

func TestQuerySchedulesRanges(t *testing.T) {
	svc, mock, _ := newTestService(t)
	seedSchedules(mock)
	ctx := context.Background()

	tests := []struct {
		name      string
		rng       *QueryRange
		wantCount int
	}{
		{name: "today", rng: &QueryRange{Kind: "TODAY"}, wantCount: 2},
		{name: "tomorrow", rng: &QueryRange{Kind: "TOMORROW"}, wantCount: 1},
		{name: "this week", rng: &QueryRange{Kind: "THIS_WEEK"}, wantCount: 3},
		{name: "next week", rng: &QueryRange{Kind: "NEXT_WEEK"}, wantCount: 1},
		{name: "from rel days", rng: &QueryRange{Kind: "FROM", Start: "REL_DAYS:+7"}, wantCount: 2},
		{name: "until literal date", rng: &QueryRange{Kind: "UNTIL", End: "2025-11-05"}, wantCount: 3},
		{name: "between", rng: &QueryRange{Kind: "BETWEEN", Start: "2025-11-05", End: "2025-11-11"}, wantCount: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.QuerySchedules(ctx, &QueryRequest{
				Intent:    IntentCount,
				Range:     tt.rng,
				AnchorNow: "2025-11-04T10:00:00",
			})
			require.NoError(t, err)
			require.Equal(t, tt.wantCount, result.Count)
			require.Equal(t, tt.wantCount > 0, result.Exists)
		})
	}
}

func TestQuerySchedulesTopicAndTimeFilters(t *testing.T) {
	svc, mock, _ := newTestService(t)
	seedSchedules(mock)
	ctx := context.Background()

	result, err := svc.QuerySchedules(ctx, &QueryRequest{
		Intent:    IntentList,
		Topic:     "회의",
		Range:     &QueryRange{Kind: "FROM", Start: "2025-11-01"},
		AnchorNow: "2025-11-04T10:00:00",
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	result, err = svc.QuerySchedules(ctx, &QueryRequest{
		Intent:    IntentExists,
		Range:     &QueryRange{Kind: "THIS_WEEK"},
		Time:      &when.RawTimeToken{Type: "SLOT", Slot: "EVENING"},
		AnchorNow: "2025-11-04T10:00:00",
	})
	require.NoError(t, err)
	require.True(t, result.Exists)
	require.Equal(t, 1, result.Count)
}

func TestQuerySchedulesListLimit(t *testing.T) {
	svc, mock, _ := newTestService(t)
	seedSchedules(mock)
	ctx := context.Background()

	result, err := svc.QuerySchedules(ctx, &QueryRequest{
		Intent:    IntentList,
		Range:     &QueryRange{Kind: "FROM", Start: "2025-11-01"},
		Limit:     2,
		AnchorNow: "2025-11-04T10:00:00",
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
}

func TestQuerySchedulesValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *QueryRequest
		code scherrors.ErrorCode
	}{
		{
			name: "unknown intent",
			req:  &QueryRequest{Intent: "sum", Range: &QueryRange{Kind: "TODAY"}},
			code: scherrors.ErrCodeInvalidArgument,
		},
		{
			name: "missing range",
			req:  &QueryRequest{Intent: "count"},
			code: scherrors.ErrCodeInvalidArgument,
		},
		{
			name: "unknown range kind",
			req:  &QueryRequest{Intent: "count", Range: &QueryRange{Kind: "YESTERDAY"}},
			code: scherrors.ErrCodeInvalidToken,
		},
		{
			name: "malformed endpoint",
			req:  &QueryRequest{Intent: "count", Range: &QueryRange{Kind: "FROM", Start: "11/20"}},
			code: scherrors.ErrCodeInvalidTimeFormat,
		},
		{
			name: "malformed rel days",
			req:  &QueryRequest{Intent: "count", Range: &QueryRange{Kind: "FROM", Start: "REL_DAYS:soon"}},
			code: scherrors.ErrCodeInvalidToken,
		},
		{
			name: "after n hour as filter",
			req: &QueryRequest{Intent: "count", Range: &QueryRange{Kind: "TODAY"},
				Time: &when.RawTimeToken{Type: "AFTER_N_HOUR", N: float64(2)}},
			code: scherrors.ErrCodeInvalidToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.QuerySchedules(ctx, tt.req)
			require.Error(t, err)
			require.True(t, scherrors.IsCode(err, tt.code), "got %v", err)
		})
	}
}
