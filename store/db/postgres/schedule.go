package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hyeonlog/naldo/store"
)

func (d *DB) CreateSchedule(ctx context.Context, create *store.Schedule) (*store.Schedule, error) {
	fields := []string{"uid", "date", "day_of_week", "time", "content", "created_ts"}
	placeholderValues := []any{
		create.UID, create.Date, create.DayOfWeek, create.Time, create.Content, create.CreatedTs,
	}

	stmt := `INSERT INTO schedule (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	return create, nil
}

func (d *DB) ListSchedules(ctx context.Context, find *store.FindSchedule) ([]*store.Schedule, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "schedule.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "schedule.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.DateFrom; v != nil {
		where, args = append(where, "schedule.date >= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.DateTo; v != nil {
		where, args = append(where, "schedule.date <= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ContentLike; v != nil {
		where, args = append(where, "schedule.content ILIKE "+placeholder(len(args)+1)), append(args, "%"+*v+"%")
	}
	if v := find.Time; v != nil {
		where, args = append(where, "schedule.time = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, uid, date, day_of_week, time, content, created_ts
		FROM schedule
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY schedule.date ASC, schedule.id ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Schedule, 0)
	for rows.Next() {
		var schedule store.Schedule
		var timeOfDay sql.NullString

		if err := rows.Scan(
			&schedule.ID,
			&schedule.UID,
			&schedule.Date,
			&schedule.DayOfWeek,
			&timeOfDay,
			&schedule.Content,
			&schedule.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}

		if timeOfDay.Valid {
			schedule.Time = &timeOfDay.String
		}
		list = append(list, &schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}

	return list, nil
}

func (d *DB) CountSchedules(ctx context.Context, find *store.FindSchedule) (int, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.DateFrom; v != nil {
		where, args = append(where, "schedule.date >= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.DateTo; v != nil {
		where, args = append(where, "schedule.date <= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ContentLike; v != nil {
		where, args = append(where, "schedule.content ILIKE "+placeholder(len(args)+1)), append(args, "%"+*v+"%")
	}
	if v := find.Time; v != nil {
		where, args = append(where, "schedule.time = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT COUNT(*) FROM schedule WHERE ` + strings.Join(where, " AND ")

	var count int
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count schedules: %w", err)
	}
	return count, nil
}
