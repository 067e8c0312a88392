package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/y00281951/fst-time-nlu-sub002/store"
)

func (d *DB) UpsertHoliday(ctx context.Context, upsert *store.Holiday) (*store.Holiday, error) {
	args := []any{upsert.Year, upsert.Festival, upsert.StartTime, upsert.EndTime}
	stmt := `INSERT INTO holiday (year, festival, start_time, end_time)
		VALUES (` + placeholders(len(args)) + `)
		ON CONFLICT (year, festival) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time`
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "failed to upsert holiday")
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

	rows, err := d.db.QueryContext(ctx, `SELECT year, festival, start_time, end_time
		FROM holiday
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY year, festival`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list holidays")
	}
	defer rows.Close()

	list := []*store.Holiday{}
	for rows.Next() {
		h := &store.Holiday{}
		if err := rows.Scan(&h.Year, &h.Festival, &h.StartTime, &h.EndTime); err != nil {
			return nil, errors.Wrap(err, "failed to scan holiday")
		}
		list = append(list, h)
	}
	return list, rows.Err()
}

func (d *DB) DeleteHolidays(ctx context.Context, year string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM holiday WHERE year = $1`, year); err != nil {
		return errors.Wrap(err, "failed to delete holidays")
	}
	return nil
}
