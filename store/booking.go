package store

import (
	"context"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/pkg/errors"
)

// Booking is an audit record of a slot booked through the scheduler.
// The event itself lives in the target calendar.
type Booking struct {
	ID         string `json:"id"`
	EventUID   string `json:"eventUid"`
	CalendarID string `json:"calendarId"`
	Summary    string `json:"summary"`
	StartsTS   int64  `json:"startsTs"`
	EndsTS     int64  `json:"endsTs"`
	CreatedTS  int64  `json:"createdTs"`
}

func (s *Store) LogBooking(ctx context.Context, booking *Booking) error {
	if booking == nil {
		return goerrors.ErrValidation{
			Caller: "LogBooking",
			Issue: goerrors.ErrNilInput{
				InputName: "booking",
			},
		}
	}

	if len(booking.ID) == 0 {
		return goerrors.ErrValidation{
			Caller: "LogBooking",
			Issue: goerrors.ErrNilInput{
				InputName: "booking.ID",
			},
		}
	}

	if booking.CreatedTS == 0 {
		booking.CreatedTS = time.Now().Unix()
	}

	if _, errExec := s.db.ExecContext(
		ctx,
		`INSERT INTO bookings (id, event_uid, calendar_id, summary, starts_ts, ends_ts, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		booking.ID,
		booking.EventUID,
		booking.CalendarID,
		booking.Summary,
		booking.StartsTS,
		booking.EndsTS,
		booking.CreatedTS,
	); errExec != nil {
		return errors.Wrap(errExec, "insert booking")
	}

	return nil
}

func (s *Store) FindBookings(ctx context.Context) ([]*Booking, error) {
	rows, errQuery := s.db.QueryContext(
		ctx,
		`SELECT id, event_uid, calendar_id, summary, starts_ts, ends_ts, created_ts
		FROM bookings
		ORDER BY created_ts DESC`,
	)
	if errQuery != nil {
		return nil,
			errors.Wrap(errQuery, "query bookings")
	}
	defer rows.Close()

	var bookings []*Booking

	for rows.Next() {
		var booking Booking

		if errScan := rows.Scan(
			&booking.ID,
			&booking.EventUID,
			&booking.CalendarID,
			&booking.Summary,
			&booking.StartsTS,
			&booking.EndsTS,
			&booking.CreatedTS,
		); errScan != nil {
			return nil,
				errors.Wrap(errScan, "scan booking")
		}

		bookings = append(bookings, &booking)
	}

	return bookings, rows.Err()
}
