package store

import (
	"context"
	"time"

	"github.com/openclaw/availability"
	"github.com/pkg/errors"
)

func (s *Store) Name() string {
	return "local"
}

// BusyIntervals reports locally stored events overlapping the window.
// Local events are not split per calendar, the calendar ids are
// ignored.
func (s *Store) BusyIntervals(ctx context.Context, _ []string, w availability.Window) ([]availability.TimeInterval, error) {
	rows, errQuery := s.db.QueryContext(
		ctx,
		`SELECT starts_ts, ends_ts
		FROM events
		WHERE starts_ts < ? AND ends_ts > ?
		ORDER BY starts_ts ASC`,
		w.TimeMax.Unix(),
		w.TimeMin.Unix(),
	)
	if errQuery != nil {
		return nil,
			errors.Wrap(errQuery, "query busy intervals")
	}
	defer rows.Close()

	var intervals []availability.TimeInterval

	for rows.Next() {
		var startsTS, endsTS int64

		if errScan := rows.Scan(&startsTS, &endsTS); errScan != nil {
			return nil,
				errors.Wrap(errScan, "scan busy interval")
		}

		intervals = append(intervals,
			availability.TimeInterval{
				Start: time.Unix(startsTS, 0).UTC(),
				End:   time.Unix(endsTS, 0).UTC(),
			},
		)
	}

	return intervals, rows.Err()
}
