package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

type Reminder struct {
	ID             int64  `json:"id"`
	Message        string `json:"message"`
	ScheduledTS    int64  `json:"scheduledTs"`
	Recurrence     string `json:"recurrence,omitempty"`
	SnoozedUntilTS int64  `json:"snoozedUntilTs,omitempty"`
	CompletedTS    int64  `json:"completedTs,omitempty"`
	CreatedTS      int64  `json:"createdTs"`
}

func (reminder *Reminder) Scheduled() time.Time {
	return time.Unix(reminder.ScheduledTS, 0).UTC()
}

func (reminder *Reminder) IsCompleted() bool {
	return reminder.CompletedTS > 0
}

func (reminder *Reminder) IsRecurring() bool {
	return len(reminder.Recurrence) > 0
}

type ReminderHistory struct {
	ID          int64  `json:"id"`
	ReminderID  int64  `json:"reminderId"`
	Message     string `json:"message"`
	CompletedTS int64  `json:"completedTs"`
}

// nextOccurrence computes the first firing after the given moment.
// Recurrence is one of the keywords daily, weekly, monthly or a
// standard five field cron expression.
func nextOccurrence(recurrence string, after time.Time) (time.Time, error) {
	switch strings.ToLower(recurrence) {
	case "daily":
		return after.AddDate(0, 0, 1), nil
	case "weekly":
		return after.AddDate(0, 0, 7), nil
	case "monthly":
		return after.AddDate(0, 1, 0), nil
	}

	schedule, errParse := cron.ParseStandard(recurrence)
	if errParse != nil {
		return time.Time{},
			errors.Wrapf(errParse, "recurrence %q", recurrence)
	}

	return schedule.Next(after), nil
}

type ParamsCreateReminder struct {
	Message    string
	Scheduled  time.Time
	Recurrence string
}

func (params *ParamsCreateReminder) IsValid() error {
	if len(params.Message) == 0 {
		return goerrors.ErrValidation{
			Caller: "IsValid - ParamsCreateReminder",
			Issue: goerrors.ErrNilInput{
				InputName: "Message",
			},
		}
	}

	if params.Scheduled.IsZero() {
		return goerrors.ErrValidation{
			Caller: "IsValid - ParamsCreateReminder",
			Issue: goerrors.ErrNilInput{
				InputName: "Scheduled",
			},
		}
	}

	if len(params.Recurrence) > 0 {
		if _, errNext := nextOccurrence(params.Recurrence, params.Scheduled); errNext != nil {
			return goerrors.ErrValidation{
				Caller: "IsValid - ParamsCreateReminder",
				Issue:  errNext,
			}
		}
	}

	return nil
}

func (s *Store) CreateReminder(ctx context.Context, params *ParamsCreateReminder) (*Reminder, error) {
	if errValidation := params.IsValid(); errValidation != nil {
		return nil,
			errValidation
	}

	reminder := Reminder{
		Message:     params.Message,
		ScheduledTS: params.Scheduled.Unix(),
		Recurrence:  params.Recurrence,
		CreatedTS:   time.Now().Unix(),
	}

	result, errExec := s.db.ExecContext(
		ctx,
		`INSERT INTO reminders (message, scheduled_ts, recurrence, created_ts)
		VALUES (?, ?, ?, ?)`,
		reminder.Message,
		reminder.ScheduledTS,
		reminder.Recurrence,
		reminder.CreatedTS,
	)
	if errExec != nil {
		return nil,
			errors.Wrap(errExec, "insert reminder")
	}

	id, errID := result.LastInsertId()
	if errID != nil {
		return nil,
			errors.Wrap(errID, "reminder id")
	}

	reminder.ID = id

	return &reminder, nil
}

type FindReminders struct {
	ID               *int64
	IncludeCompleted bool
}

func (s *Store) FindReminders(ctx context.Context, find *FindReminders) ([]*Reminder, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if !find.IncludeCompleted {
		where = append(where, "completed_ts = 0")
	}

	rows, errQuery := s.db.QueryContext(
		ctx,
		`SELECT id, message, scheduled_ts, recurrence, snoozed_until_ts, completed_ts, created_ts
		FROM reminders
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY scheduled_ts ASC`,
		args...,
	)
	if errQuery != nil {
		return nil,
			errors.Wrap(errQuery, "query reminders")
	}
	defer rows.Close()

	var reminders []*Reminder

	for rows.Next() {
		var reminder Reminder

		if errScan := rows.Scan(
			&reminder.ID,
			&reminder.Message,
			&reminder.ScheduledTS,
			&reminder.Recurrence,
			&reminder.SnoozedUntilTS,
			&reminder.CompletedTS,
			&reminder.CreatedTS,
		); errScan != nil {
			return nil,
				errors.Wrap(errScan, "scan reminder")
		}

		reminders = append(reminders, &reminder)
	}

	return reminders, rows.Err()
}

// DueReminders returns incomplete reminders whose firing moment has
// passed. A snooze overrides the scheduled moment until it expires.
func (s *Store) DueReminders(ctx context.Context, asOf time.Time) ([]*Reminder, error) {
	rows, errQuery := s.db.QueryContext(
		ctx,
		`SELECT id, message, scheduled_ts, recurrence, snoozed_until_ts, completed_ts, created_ts
		FROM reminders
		WHERE completed_ts = 0
		AND ((snoozed_until_ts = 0 AND scheduled_ts <= ?) OR (snoozed_until_ts > 0 AND snoozed_until_ts <= ?))
		ORDER BY scheduled_ts ASC`,
		asOf.Unix(),
		asOf.Unix(),
	)
	if errQuery != nil {
		return nil,
			errors.Wrap(errQuery, "query due reminders")
	}
	defer rows.Close()

	var reminders []*Reminder

	for rows.Next() {
		var reminder Reminder

		if errScan := rows.Scan(
			&reminder.ID,
			&reminder.Message,
			&reminder.ScheduledTS,
			&reminder.Recurrence,
			&reminder.SnoozedUntilTS,
			&reminder.CompletedTS,
			&reminder.CreatedTS,
		); errScan != nil {
			return nil,
				errors.Wrap(errScan, "scan reminder")
		}

		reminders = append(reminders, &reminder)
	}

	return reminders, rows.Err()
}

func (s *Store) getReminder(ctx context.Context, id int64) (*Reminder, error) {
	var reminder Reminder

	errScan := s.db.QueryRowContext(
		ctx,
		`SELECT id, message, scheduled_ts, recurrence, snoozed_until_ts, completed_ts, created_ts
		FROM reminders
		WHERE id = ?`,
		id,
	).Scan(
		&reminder.ID,
		&reminder.Message,
		&reminder.ScheduledTS,
		&reminder.Recurrence,
		&reminder.SnoozedUntilTS,
		&reminder.CompletedTS,
		&reminder.CreatedTS,
	)
	if errScan != nil {
		if errors.Is(errScan, sql.ErrNoRows) {
			return nil,
				errors.Wrapf(ErrNotFound, "reminder %d", id)
		}

		return nil,
			errors.Wrap(errScan, "get reminder")
	}

	return &reminder, nil
}

// CompleteReminder records the completion in reminder history. A
// recurring reminder is rescheduled to its next occurrence after asOf,
// a one off reminder is marked completed.
func (s *Store) CompleteReminder(ctx context.Context, id int64, asOf time.Time) (*Reminder, error) {
	reminder, errGet := s.getReminder(ctx, id)
	if errGet != nil {
		return nil,
			errGet
	}

	if reminder.IsCompleted() {
		return nil,
			goerrors.ErrValidation{
				Caller: "CompleteReminder",
				Issue:  errors.Errorf("reminder %d already completed", id),
			}
	}

	if _, errExec := s.db.ExecContext(
		ctx,
		`INSERT INTO reminder_history (reminder_id, message, completed_ts)
		VALUES (?, ?, ?)`,
		reminder.ID,
		reminder.Message,
		asOf.Unix(),
	); errExec != nil {
		return nil,
			errors.Wrap(errExec, "insert reminder history")
	}

	if !reminder.IsRecurring() {
		reminder.CompletedTS = asOf.Unix()
		reminder.SnoozedUntilTS = 0

		if _, errExec := s.db.ExecContext(
			ctx,
			`UPDATE reminders SET completed_ts = ?, snoozed_until_ts = 0 WHERE id = ?`,
			reminder.CompletedTS,
			reminder.ID,
		); errExec != nil {
			return nil,
				errors.Wrap(errExec, "complete reminder")
		}

		return reminder, nil
	}

	next := reminder.Scheduled()

	for !next.After(asOf) {
		advanced, errNext := nextOccurrence(reminder.Recurrence, next)
		if errNext != nil {
			return nil,
				errNext
		}

		next = advanced
	}

	reminder.ScheduledTS = next.Unix()
	reminder.SnoozedUntilTS = 0

	if _, errExec := s.db.ExecContext(
		ctx,
		`UPDATE reminders SET scheduled_ts = ?, snoozed_until_ts = 0 WHERE id = ?`,
		reminder.ScheduledTS,
		reminder.ID,
	); errExec != nil {
		return nil,
			errors.Wrap(errExec, "reschedule reminder")
	}

	return reminder, nil
}

func (s *Store) SnoozeReminder(ctx context.Context, id int64, duration time.Duration, asOf time.Time) (*Reminder, error) {
	if duration <= 0 {
		return nil,
			goerrors.ErrValidation{
				Caller: "SnoozeReminder",
				Issue: goerrors.ErrNegativeInput{
					InputName: "duration",
				},
			}
	}

	reminder, errGet := s.getReminder(ctx, id)
	if errGet != nil {
		return nil,
			errGet
	}

	if reminder.IsCompleted() {
		return nil,
			goerrors.ErrValidation{
				Caller: "SnoozeReminder",
				Issue:  errors.Errorf("reminder %d already completed", id),
			}
	}

	reminder.SnoozedUntilTS = asOf.Add(duration).Unix()

	if _, errExec := s.db.ExecContext(
		ctx,
		`UPDATE reminders SET snoozed_until_ts = ? WHERE id = ?`,
		reminder.SnoozedUntilTS,
		reminder.ID,
	); errExec != nil {
		return nil,
			errors.Wrap(errExec, "snooze reminder")
	}

	return reminder, nil
}

func (s *Store) DeleteReminder(ctx context.Context, id int64) error {
	result, errExec := s.db.ExecContext(
		ctx,
		`DELETE FROM reminders WHERE id = ?`,
		id,
	)
	if errExec != nil {
		return errors.Wrap(errExec, "delete reminder")
	}

	affected, errAffected := result.RowsAffected()
	if errAffected != nil {
		return errors.Wrap(errAffected, "delete reminder")
	}

	if affected == 0 {
		return errors.Wrapf(ErrNotFound, "reminder %d", id)
	}

	return nil
}

func (s *Store) FindReminderHistory(ctx context.Context, reminderID *int64) ([]*ReminderHistory, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := reminderID; v != nil {
		where, args = append(where, "reminder_id = ?"), append(args, *v)
	}

	rows, errQuery := s.db.QueryContext(
		ctx,
		`SELECT id, reminder_id, message, completed_ts
		FROM reminder_history
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY completed_ts DESC`,
		args...,
	)
	if errQuery != nil {
		return nil,
			errors.Wrap(errQuery, "query reminder history")
	}
	defer rows.Close()

	var history []*ReminderHistory

	for rows.Next() {
		var entry ReminderHistory

		if errScan := rows.Scan(
			&entry.ID,
			&entry.ReminderID,
			&entry.Message,
			&entry.CompletedTS,
		); errScan != nil {
			return nil,
				errors.Wrap(errScan, "scan reminder history")
		}

		history = append(history, &entry)
	}

	return history, rows.Err()
}
