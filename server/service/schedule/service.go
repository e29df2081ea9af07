// Package schedule implements the idempotent schedule save pipeline:
// resolve the "when" expression against an anchor instant, fingerprint the
// request, suppress duplicates inside a sliding window, and append the
// resolved schedule to the store.
//
// Validation failures are detected before any state mutation. The
// fingerprint check and its registration are one atomic step; the
// registration is rolled back if the append fails, so a store outage does
// not leave a false duplicate behind.
package schedule

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"

	scherrors "github.com/hyeonlog/naldo/server/internal/errors"
	"github.com/hyeonlog/naldo/server/when"
	"github.com/hyeonlog/naldo/store"
)

type service struct {
	store Store
	dedup *dedupCache

	// now is the pipeline's single clock; injected in tests.
	now func() time.Time
}

// NewService creates a new schedule service with the given dedup window.
func NewService(store Store, dedupTTL time.Duration) Service {
	return &service{
		store: store,
		dedup: newDedupCache(dedupTTL),
		now:   time.Now,
	}
}

// anchorFor returns the reference instant for a request: the caller's
// anchor_now when supplied, the current instant in UTC otherwise.
func (s *service) anchorFor(anchorNow string) (time.Time, error) {
	if strings.TrimSpace(anchorNow) == "" {
		return s.now().UTC(), nil
	}
	return when.ParseAnchor(anchorNow)
}

func (s *service) SaveSchedule(ctx context.Context, req *SaveRequest) (*SaveResult, error) {
	if req == nil {
		return nil, scherrors.InvalidArgument("request is required")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, scherrors.InvalidArgument("content must not be empty")
	}

	anchor, err := s.anchorFor(req.AnchorNow)
	if err != nil {
		return nil, err
	}
	resolution, err := when.Resolve(anchor, req.When)
	if err != nil {
		return nil, err
	}

	fingerprint := strings.TrimSpace(req.IdempotencyKey)
	if fingerprint == "" {
		fingerprint = Fingerprint(content, resolution.DateString(), resolution.Time)
	}

	if accepted := s.dedup.checkAndRegister(fingerprint, s.now()); !accepted {
		slog.Info("duplicate save suppressed",
			slog.String("fingerprint", fingerprint),
			slog.String("date", resolution.DateString()))
		return &SaveResult{
			Duplicate:   true,
			Date:        resolution.DateString(),
			DayOfWeek:   resolution.WeekdayLabel(),
			Time:        resolution.Time,
			Content:     content,
			Fingerprint: fingerprint,
		}, nil
	}

	created, err := s.store.CreateSchedule(ctx, &store.Schedule{
		UID:       shortuuid.New(),
		Date:      resolution.DateString(),
		DayOfWeek: resolution.WeekdayLabel(),
		Time:      resolution.Time,
		Content:   content,
		CreatedTs: s.now().UTC().Truncate(time.Second).Format(time.RFC3339),
	})
	if err != nil {
		// Release the fingerprint so a retry after a store outage is not
		// misreported as a duplicate.
		s.dedup.release(fingerprint)
		return nil, scherrors.StoreUnavailable("failed to append schedule", err)
	}

	totalCount, err := s.store.CountSchedules(ctx, &store.FindSchedule{})
	if err != nil {
		return nil, scherrors.StoreUnavailable("failed to count schedules", err)
	}

	slog.Info("schedule saved",
		slog.Int64("id", created.ID),
		slog.String("date", created.Date),
		slog.String("day_of_week", created.DayOfWeek))

	return &SaveResult{
		ID:          created.ID,
		UID:         created.UID,
		Date:        created.Date,
		DayOfWeek:   created.DayOfWeek,
		Time:        created.Time,
		Content:     created.Content,
		CreatedTs:   created.CreatedTs,
		TotalCount:  totalCount,
		Fingerprint: fingerprint,
	}, nil
}
