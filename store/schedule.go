package store

import (
	"context"
)

// Schedule is the object representing a saved schedule. Rows are
// append-only: once created they are never updated or deleted.
type Schedule struct {
	ID        int64   `json:"id"`
	UID       string  `json:"uid"`
	Date      string  `json:"date"`        // YYYY-MM-DD
	DayOfWeek string  `json:"day_of_week"` // Korean weekday label derived from Date
	Time      *string `json:"time"`
	Content   string  `json:"content"`
	CreatedTs string  `json:"created_ts"` // UTC ISO-8601
}

// FindSchedule is the find condition for schedule.
type FindSchedule struct {
	ID  *int64
	UID *string

	// Date range filters (inclusive, YYYY-MM-DD)
	DateFrom *string
	DateTo   *string

	// Content substring filter
	ContentLike *string

	// Exact time-of-day filter (HH:MM)
	Time *string

	// Pagination
	Limit  *int
	Offset *int
}

// CreateSchedule appends a new schedule and returns it with its
// store-assigned id.
func (s *Store) CreateSchedule(ctx context.Context, create *Schedule) (*Schedule, error) {
	return s.driver.CreateSchedule(ctx, create)
}

// ListSchedules lists schedules with filter, ordered by date then id.
func (s *Store) ListSchedules(ctx context.Context, find *FindSchedule) ([]*Schedule, error) {
	return s.driver.ListSchedules(ctx, find)
}

// GetSchedule gets a single schedule matching the find condition.
func (s *Store) GetSchedule(ctx context.Context, find *FindSchedule) (*Schedule, error) {
	list, err := s.driver.ListSchedules(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// CountSchedules counts schedules matching the find condition.
func (s *Store) CountSchedules(ctx context.Context, find *FindSchedule) (int, error) {
	return s.driver.CountSchedules(ctx, find)
}
