package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/y00281951/fst-time-nlu-sub002/store"
)

func (d *DB) UpsertHoliday(ctx context.Context, upsert *store.Holiday) (*store.Holiday, error) {
	fields := []string{"year", "festival", "start_time", "end_time"}
	args := []any{upsert.Year, upsert.Festival, upsert.StartTime, upsert.EndTime}

	stmt := `INSERT INTO holiday (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		ON CONFLICT(year, festival) DO UPDATE SET
			start_time = excluded.start_time,
			end_time = excluded.end_time`
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to upsert holiday: %w", err)
	}
	return upsert, nil
}

func (d *DB) ListHolidays(ctx context.Context, find *store.FindHoliday) ([]*store.Holiday, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.Year; v != nil {
		where, args = append(where, "year = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Festival; v != nil {
		where, args = append(where, "festival = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT year, festival, start_time, end_time
		FROM holiday
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY year, festival`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	list := []*store.Holiday{}
	for rows.Next() {
		h := &store.Holiday{}
		if err := rows.Scan(&h.Year, &h.Festival, &h.StartTime, &h.EndTime); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		list = append(list, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) DeleteHolidays(ctx context.Context, year string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM holiday WHERE year = `+placeholder(1), year); err != nil {
		return fmt.Errorf("failed to delete holidays: %w", err)
	}
	return nil
}
