package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/openclaw/availability"
	"github.com/stretchr/testify/require"
)

var _ availability.Source = (*Store)(nil)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, errNew := New(filepath.Join(t.TempDir(), "availability.db"))
	require.NoError(t, errNew)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func TestStoreEvents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	t.Run(
		"1. Create and find an event",
		func(t *testing.T) {
			event, errCreate := s.CreateEvent(ctx,
				&ParamsCreateEvent{
					Summary:     "dentist",
					Description: "bring the referral",
					Starts:      day.Add(10 * time.Hour),
					Ends:        day.Add(11 * time.Hour),
				},
			)
			require.NoError(t, errCreate)
			require.NotZero(t, event.ID)
			require.NotEmpty(t, event.UID)
			require.Equal(t, day.Add(10*time.Hour), event.Starts())

			found, errFind := s.FindEvents(ctx,
				&FindEvents{
					UID: &event.UID,
				},
			)
			require.NoError(t, errFind)
			require.Len(t, found, 1)
			require.Equal(t, event.Summary, found[0].Summary)

			fmt.Println(t.Name(), found[0])
		},
	)

	t.Run(
		"2. Validation rejects bad params",
		func(t *testing.T) {
			_, errCreate := s.CreateEvent(ctx,
				&ParamsCreateEvent{
					Summary: "",
					Starts:  day,
					Ends:    day.Add(time.Hour),
				},
			)
			require.Error(t, errCreate)

			_, errCreate = s.CreateEvent(ctx,
				&ParamsCreateEvent{
					Summary: "backwards",
					Starts:  day.Add(time.Hour),
					Ends:    day,
				},
			)
			require.Error(t, errCreate)
		},
	)

	t.Run(
		"3. Time filters narrow the result",
		func(t *testing.T) {
			_, errCreate := s.CreateEvent(ctx,
				&ParamsCreateEvent{
					Summary: "early",
					Starts:  day.Add(8 * time.Hour),
					Ends:    day.Add(9 * time.Hour),
				},
			)
			require.NoError(t, errCreate)

			_, errCreate = s.CreateEvent(ctx,
				&ParamsCreateEvent{
					Summary: "late",
					Starts:  day.Add(15 * time.Hour),
					Ends:    day.Add(16 * time.Hour),
				},
			)
			require.NoError(t, errCreate)

			startsAfter := day.Add(12 * time.Hour)

			found, errFind := s.FindEvents(ctx,
				&FindEvents{
					StartsAfter: &startsAfter,
				},
			)
			require.NoError(t, errFind)
			require.Len(t, found, 1)
			require.Equal(t, "late", found[0].Summary)

			endsBefore := day.Add(12 * time.Hour)

			found, errFind = s.FindEvents(ctx,
				&FindEvents{
					EndsBefore: &endsBefore,
				},
			)
			require.NoError(t, errFind)
			require.Len(t, found, 2)
			require.Equal(t, "early", found[0].Summary)
		},
	)

	t.Run(
		"4. Delete removes the event once",
		func(t *testing.T) {
			event, errCreate := s.CreateEvent(ctx,
				&ParamsCreateEvent{
					Summary: "disposable",
					Starts:  day.Add(20 * time.Hour),
					Ends:    day.Add(21 * time.Hour),
				},
			)
			require.NoError(t, errCreate)

			require.NoError(t, s.DeleteEvent(ctx, event.UID))

			errDelete := s.DeleteEvent(ctx, event.UID)
			require.ErrorIs(t, errDelete, ErrNotFound)
		},
	)
}

func TestStoreBusyIntervals(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	for _, params := range []*ParamsCreateEvent{
		{
			Summary: "before the window",
			Starts:  day.Add(6 * time.Hour),
			Ends:    day.Add(7 * time.Hour),
		},
		{
			Summary: "bleeding into the window",
			Starts:  day.Add(8 * time.Hour),
			Ends:    day.Add(10 * time.Hour),
		},
		{
			Summary: "inside the window",
			Starts:  day.Add(12 * time.Hour),
			Ends:    day.Add(13 * time.Hour),
		},
		{
			Summary: "after the window",
			Starts:  day.Add(19 * time.Hour),
			Ends:    day.Add(20 * time.Hour),
		},
	} {
		_, errCreate := s.CreateEvent(ctx, params)
		require.NoError(t, errCreate)
	}

	intervals, errBusy := s.BusyIntervals(ctx,
		nil,
		availability.Window{
			TimeMin: day.Add(9 * time.Hour),
			TimeMax: day.Add(18 * time.Hour),
		},
	)
	require.NoError(t, errBusy)

	require.Equal(t,
		[]availability.TimeInterval{
			{
				Start: day.Add(8 * time.Hour),
				End:   day.Add(10 * time.Hour),
			},
			{
				Start: day.Add(12 * time.Hour),
				End:   day.Add(13 * time.Hour),
			},
		},
		intervals,
	)
}

func TestStoreBookings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	t.Run(
		"1. Log and list bookings",
		func(t *testing.T) {
			require.NoError(t,
				s.LogBooking(ctx,
					&Booking{
						ID:         "booking-1",
						EventUID:   "event-1",
						CalendarID: "primary",
						Summary:    "sync",
						StartsTS:   day.Add(9 * time.Hour).Unix(),
						EndsTS:     day.Add(10 * time.Hour).Unix(),
					},
				),
			)

			bookings, errFind := s.FindBookings(ctx)
			require.NoError(t, errFind)
			require.Len(t, bookings, 1)
			require.Equal(t, "booking-1", bookings[0].ID)
			require.NotZero(t, bookings[0].CreatedTS)
		},
	)

	t.Run(
		"2. Validation rejects incomplete bookings",
		func(t *testing.T) {
			require.Error(t, s.LogBooking(ctx, nil))
			require.Error(t, s.LogBooking(ctx, &Booking{}))
		},
	)
}
