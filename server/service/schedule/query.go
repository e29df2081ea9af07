package schedule

import (
	"context"
	"strconv"
	"strings"
	"time"

	scherrors "github.com/hyeonlog/naldo/server/internal/errors"
	"github.com/hyeonlog/naldo/server/when"
	"github.com/hyeonlog/naldo/store"
)

// DefaultListLimit caps list results when the caller gives no limit.
const DefaultListLimit = 20

const relDaysPrefix = "REL_DAYS:"

func (s *service) QuerySchedules(ctx context.Context, req *QueryRequest) (*QueryResult, error) {
	if req == nil {
		return nil, scherrors.InvalidArgument("request is required")
	}
	intent := strings.ToLower(strings.TrimSpace(req.Intent))
	switch intent {
	case IntentExists, IntentCount, IntentList:
	default:
		return nil, scherrors.InvalidArgument("intent must be exists, count or list")
	}
	if req.Range == nil {
		return nil, scherrors.InvalidArgument("range is required")
	}

	anchor, err := s.anchorFor(req.AnchorNow)
	if err != nil {
		return nil, err
	}
	from, to, err := resolveRange(anchor, req.Range)
	if err != nil {
		return nil, err
	}

	find := &store.FindSchedule{DateFrom: from, DateTo: to}
	if topic := strings.TrimSpace(req.Topic); topic != "" {
		find.ContentLike = &topic
	}
	if req.Time != nil {
		timeToken, err := when.ParseTimeToken(req.Time)
		if err != nil {
			return nil, err
		}
		if timeToken != nil {
			if timeToken.Type == when.TimeTokenAfterNHour {
				return nil, scherrors.InvalidToken("AFTER_N_HOUR is not a valid query time filter")
			}
			find.Time = &timeToken.Value
		}
	}

	result := &QueryResult{Intent: intent, From: from, To: to}
	switch intent {
	case IntentList:
		limit := req.Limit
		if limit <= 0 {
			limit = DefaultListLimit
		}
		find.Limit = &limit
		items, err := s.store.ListSchedules(ctx, find)
		if err != nil {
			return nil, scherrors.StoreUnavailable("failed to list schedules", err)
		}
		result.Items = items
		result.Count = len(items)
		result.Exists = len(items) > 0
	default:
		count, err := s.store.CountSchedules(ctx, find)
		if err != nil {
			return nil, scherrors.StoreUnavailable("failed to count schedules", err)
		}
		result.Count = count
		result.Exists = count > 0
	}
	return result, nil
}

// resolveRange turns a QueryRange into an inclusive [from, to] date window.
// A nil bound means the window is open on that side.
func resolveRange(anchor time.Time, r *QueryRange) (*string, *string, error) {
	today := when.Date(anchor)

	dateStr := func(t time.Time) *string {
		v := t.Format(when.DateLayout)
		return &v
	}

	switch strings.ToUpper(strings.TrimSpace(r.Kind)) {
	case RangeToday:
		return dateStr(today), dateStr(today), nil
	case RangeTomorrow:
		tomorrow := when.AddDays(today, 1)
		return dateStr(tomorrow), dateStr(tomorrow), nil
	case RangeThisWeek:
		start := when.StartOfWeek(today)
		return dateStr(start), dateStr(when.AddDays(start, 6)), nil
	case RangeNextWeek:
		start := when.AddWeeks(when.StartOfWeek(today), 1)
		return dateStr(start), dateStr(when.AddDays(start, 6)), nil
	case RangeFrom:
		from, err := resolveEndpoint(today, r.Start)
		if err != nil {
			return nil, nil, err
		}
		return from, nil, nil
	case RangeUntil:
		to, err := resolveEndpoint(today, r.End)
		if err != nil {
			return nil, nil, err
		}
		return nil, to, nil
	case RangeBetween:
		from, err := resolveEndpoint(today, r.Start)
		if err != nil {
			return nil, nil, err
		}
		to, err := resolveEndpoint(today, r.End)
		if err != nil {
			return nil, nil, err
		}
		return from, to, nil
	default:
		return nil, nil, scherrors.InvalidTokenf("unknown range kind: %q", r.Kind)
	}
}

// resolveEndpoint parses a range endpoint: either a literal YYYY-MM-DD date
// or "REL_DAYS:+N" relative to the anchor date.
func resolveEndpoint(today time.Time, endpoint string) (*string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, scherrors.InvalidArgument("range endpoint is required")
	}

	if rest, ok := strings.CutPrefix(endpoint, relDaysPrefix); ok {
		n, err := strconv.Atoi(strings.TrimPrefix(rest, "+"))
		if err != nil {
			return nil, scherrors.InvalidTokenf("malformed REL_DAYS endpoint: %q", endpoint)
		}
		v := when.AddDays(today, n).Format(when.DateLayout)
		return &v, nil
	}

	if _, err := time.Parse(when.DateLayout, endpoint); err != nil {
		return nil, scherrors.InvalidTimeFormat("range endpoint must be YYYY-MM-DD or REL_DAYS:+N, got " + endpoint)
	}
	return &endpoint, nil
}
