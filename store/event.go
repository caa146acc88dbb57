package store

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
)

type Event struct {
	ID          int64  `json:"id"`
	UID         string `json:"uid"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	StartsTS    int64  `json:"startsTs"`
	EndsTS      int64  `json:"endsTs"`
	CreatedTS   int64  `json:"createdTs"`
}

func (event *Event) Starts() time.Time {
	return time.Unix(event.StartsTS, 0).UTC()
}

func (event *Event) Ends() time.Time {
	return time.Unix(event.EndsTS, 0).UTC()
}

type ParamsCreateEvent struct {
	Summary     string
	Description string
	Starts      time.Time
	Ends        time.Time
}

func (params *ParamsCreateEvent) IsValid() error {
	if len(params.Summary) == 0 {
		return goerrors.ErrValidation{
			Caller: "IsValid - ParamsCreateEvent",
			Issue: goerrors.ErrNilInput{
				InputName: "Summary",
			},
		}
	}

	if !params.Starts.Before(params.Ends) {
		return goerrors.ErrValidation{
			Caller: "IsValid - ParamsCreateEvent",
			Issue: goerrors.ErrInvalidInput{
				InputName: "Ends",
			},
		}
	}

	return nil
}

func (s *Store) CreateEvent(ctx context.Context, params *ParamsCreateEvent) (*Event, error) {
	if errValidation := params.IsValid(); errValidation != nil {
		return nil,
			errValidation
	}

	event := Event{
		UID:         shortuuid.New(),
		Summary:     params.Summary,
		Description: params.Description,
		StartsTS:    params.Starts.Unix(),
		EndsTS:      params.Ends.Unix(),
		CreatedTS:   time.Now().Unix(),
	}

	result, errExec := s.db.ExecContext(
		ctx,
		`INSERT INTO events (uid, summary, description, starts_ts, ends_ts, created_ts)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.UID,
		event.Summary,
		event.Description,
		event.StartsTS,
		event.EndsTS,
		event.CreatedTS,
	)
	if errExec != nil {
		return nil,
			errors.Wrap(errExec, "insert event")
	}

	id, errID := result.LastInsertId()
	if errID != nil {
		return nil,
			errors.Wrap(errID, "event id")
	}

	event.ID = id

	return &event, nil
}

type FindEvents struct {
	UID         *string
	StartsAfter *time.Time
	EndsBefore  *time.Time
}

func (s *Store) FindEvents(ctx context.Context, find *FindEvents) ([]*Event, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.UID; v != nil {
		where, args = append(where, "uid = ?"), append(args, *v)
	}
	if v := find.StartsAfter; v != nil {
		where, args = append(where, "starts_ts >= ?"), append(args, v.Unix())
	}
	if v := find.EndsBefore; v != nil {
		where, args = append(where, "ends_ts <= ?"), append(args, v.Unix())
	}

	rows, errQuery := s.db.QueryContext(
		ctx,
		`SELECT id, uid, summary, description, starts_ts, ends_ts, created_ts
		FROM events
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY starts_ts ASC`,
		args...,
	)
	if errQuery != nil {
		return nil,
			errors.Wrap(errQuery, "query events")
	}
	defer rows.Close()

	var events []*Event

	for rows.Next() {
		var event Event

		if errScan := rows.Scan(
			&event.ID,
			&event.UID,
			&event.Summary,
			&event.Description,
			&event.StartsTS,
			&event.EndsTS,
			&event.CreatedTS,
		); errScan != nil {
			return nil,
				errors.Wrap(errScan, "scan event")
		}

		events = append(events, &event)
	}

	return events, rows.Err()
}

func (s *Store) DeleteEvent(ctx context.Context, uid string) error {
	result, errExec := s.db.ExecContext(
		ctx,
		`DELETE FROM events WHERE uid = ?`,
		uid,
	)
	if errExec != nil {
		return errors.Wrap(errExec, "delete event")
	}

	affected, errAffected := result.RowsAffected()
	if errAffected != nil {
		return errors.Wrap(errAffected, "delete event")
	}

	if affected == 0 {
		return errors.Wrapf(ErrNotFound, "event %s", uid)
	}

	return nil
}
