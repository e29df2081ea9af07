package schedule

import (
	"context"

	"github.com/hyeonlog/naldo/server/when"
	"github.com/hyeonlog/naldo/store"
)

// Store is the interface for store operations needed by the schedule service.
type Store interface {
	CreateSchedule(ctx context.Context, create *store.Schedule) (*store.Schedule, error)
	ListSchedules(ctx context.Context, find *store.FindSchedule) ([]*store.Schedule, error)
	CountSchedules(ctx context.Context, find *store.FindSchedule) (int, error)
}

// Service is the schedule save/query pipeline.
type Service interface {
	// SaveSchedule resolves the request's when expression, suppresses
	// duplicates inside the dedup window, and appends the resolved
	// schedule. A duplicate is a recognized outcome, not an error.
	SaveSchedule(ctx context.Context, req *SaveRequest) (*SaveResult, error)

	// QuerySchedules answers exists/count/list questions over a resolved
	// date range.
	QuerySchedules(ctx context.Context, req *QueryRequest) (*QueryResult, error)
}

// SaveRequest is one save attempt.
type SaveRequest struct {
	Content string `json:"content"`
	// When describes the target date/time, either ABSOLUTE or TOKEN mode.
	When *when.WhenExpression `json:"when"`
	// AnchorNow optionally overrides the reference instant for relative
	// tokens (ISO-8601, fixed UTC reference).
	AnchorNow string `json:"anchor_now,omitempty"`
	// IdempotencyKey, when set, is used verbatim as the dedup fingerprint.
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// SaveResult reports the outcome of a save attempt. When Duplicate is set
// the request was suppressed and nothing was appended; Date/Time then carry
// the values that would have been saved.
type SaveResult struct {
	Duplicate   bool    `json:"duplicate"`
	ID          int64   `json:"id,omitempty"`
	UID         string  `json:"uid,omitempty"`
	Date        string  `json:"date"`
	DayOfWeek   string  `json:"day_of_week"`
	Time        *string `json:"time"`
	Content     string  `json:"content"`
	CreatedTs   string  `json:"created_ts,omitempty"`
	TotalCount  int     `json:"total_count,omitempty"`
	Fingerprint string  `json:"fingerprint"`
}

// Query intents.
const (
	IntentExists = "exists"
	IntentCount  = "count"
	IntentList   = "list"
)

// Query range kinds.
const (
	RangeToday    = "TODAY"
	RangeTomorrow = "TOMORROW"
	RangeThisWeek = "THIS_WEEK"
	RangeNextWeek = "NEXT_WEEK"
	RangeFrom     = "FROM"
	RangeUntil    = "UNTIL"
	RangeBetween  = "BETWEEN"
)

// QueryRange selects the date window of a query. Start/End accept
// "YYYY-MM-DD" or "REL_DAYS:+N" relative to the anchor date.
type QueryRange struct {
	Kind  string `json:"kind"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// QueryRequest asks about saved schedules.
type QueryRequest struct {
	Intent    string             `json:"intent"`
	Topic     string             `json:"topic,omitempty"`
	Range     *QueryRange        `json:"range"`
	Time      *when.RawTimeToken `json:"time,omitempty"`
	Limit     int                `json:"limit,omitempty"`
	AnchorNow string             `json:"anchor_now,omitempty"`
}

// QueryResult answers a QueryRequest. Items is populated for the list
// intent only.
type QueryResult struct {
	Intent string            `json:"intent"`
	From   *string           `json:"from,omitempty"`
	To     *string           `json:"to,omitempty"`
	Exists bool              `json:"exists"`
	Count  int               `json:"count"`
	Items  []*store.Schedule `json:"items,omitempty"`
}
