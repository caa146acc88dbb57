// Package store keeps the local calendar: events, reminders and the
// booking audit log live in one SQLite file. The store also acts as an
// availability source, stored events block the slots they cover.
package store

import (
	"context"
	"database/sql"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// ErrNotFound marks lookups of rows that do not exist.
var ErrNotFound = errors.New("not found")

const _Schema = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	summary TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	starts_ts INTEGER NOT NULL,
	ends_ts INTEGER NOT NULL,
	created_ts INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_starts ON events (starts_ts);

CREATE TABLE IF NOT EXISTS reminders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	message TEXT NOT NULL,
	scheduled_ts INTEGER NOT NULL,
	recurrence TEXT NOT NULL DEFAULT '',
	snoozed_until_ts INTEGER NOT NULL DEFAULT 0,
	completed_ts INTEGER NOT NULL DEFAULT 0,
	created_ts INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS reminder_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reminder_id INTEGER NOT NULL,
	message TEXT NOT NULL,
	completed_ts INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bookings (
	id TEXT PRIMARY KEY,
	event_uid TEXT NOT NULL,
	calendar_id TEXT NOT NULL,
	summary TEXT NOT NULL,
	starts_ts INTEGER NOT NULL,
	ends_ts INTEGER NOT NULL,
	created_ts INTEGER NOT NULL
);
`

type Store struct {
	db *sql.DB
}

func New(dsn string) (*Store, error) {
	if len(dsn) == 0 {
		return nil,
			goerrors.ErrValidation{
				Caller: "store.New",
				Issue: goerrors.ErrNilInput{
					InputName: "dsn",
				},
			}
	}

	db, errOpen := sql.Open("sqlite", dsn)
	if errOpen != nil {
		return nil,
			errors.Wrap(errOpen, "open sqlite database")
	}

	// SQLite serializes writers, a single pooled connection avoids
	// SQLITE_BUSY under concurrent access.
	db.SetMaxOpenConns(1)

	if _, errSchema := db.Exec(_Schema); errSchema != nil {
		return nil,
			errors.Wrap(errSchema, "create schema")
	}

	return &Store{
			db: db,
		},
		nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
