package source

import (
	"context"
	"testing"
	"time"

	"github.com/openclaw/availability"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

var (
	_ availability.Source = (*GoogleCalendar)(nil)
	_ availability.Booker = (*GoogleCalendar)(nil)
)

func TestNewGoogleCalendar(t *testing.T) {
	ctx := context.Background()

	t.Run(
		"1. Missing credentials rejected",
		func(t *testing.T) {
			_, errNew := NewGoogleCalendar(ctx, &ParamsNewGoogleCalendar{})
			require.Error(t, errNew)

			_, errNew = NewGoogleCalendar(ctx,
				&ParamsNewGoogleCalendar{
					ClientID:     "client-id",
					ClientSecret: "client-secret",
				},
			)
			require.Error(t, errNew)
		},
	)

	t.Run(
		"2. Complete credentials build a client",
		func(t *testing.T) {
			source, errNew := NewGoogleCalendar(ctx,
				&ParamsNewGoogleCalendar{
					ClientID:     "client-id",
					ClientSecret: "client-secret",
					RefreshToken: "refresh-token",
				},
			)
			require.NoError(t, errNew)
			require.Equal(t, "googlecalendar", source.Name())
		},
	)
}

func TestIntervalFromPeriod(t *testing.T) {
	tests := []struct {
		name      string
		period    *calendar.TimePeriod
		want      *availability.TimeInterval
		wantError bool
	}{
		{
			name: "1. valid period",
			period: &calendar.TimePeriod{
				Start: "2026-03-02T09:00:00Z",
				End:   "2026-03-02T10:30:00Z",
			},
			want: &availability.TimeInterval{
				Start: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
				End:   time.Date(2026, time.March, 2, 10, 30, 0, 0, time.UTC),
			},
		},
		{
			name: "2. bad start",
			period: &calendar.TimePeriod{
				Start: "yesterday",
				End:   "2026-03-02T10:30:00Z",
			},
			wantError: true,
		},
		{
			name: "3. bad end",
			period: &calendar.TimePeriod{
				Start: "2026-03-02T09:00:00Z",
				End:   "later",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errInterval := intervalFromPeriod(tt.period)

			if tt.wantError {
				if errInterval == nil {
					t.Errorf("expected error for period %+v", tt.period)
				}

				return
			}

			if errInterval != nil {
				t.Errorf("unexpected error: %v", errInterval)
			}
			if !got.Start.Equal(tt.want.Start) || !got.End.Equal(tt.want.End) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseEventTime(t *testing.T) {
	t.Run(
		"1. Timed moment",
		func(t *testing.T) {
			got := parseEventTime(
				&calendar.EventDateTime{
					DateTime: "2026-03-02T10:00:00+02:00",
				},
			)

			require.True(t,
				got.Equal(time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)),
			)
		},
	)

	t.Run(
		"2. All day moment carries only a date",
		func(t *testing.T) {
			got := parseEventTime(
				&calendar.EventDateTime{
					Date: "2026-03-02",
				},
			)

			require.True(t,
				got.Equal(time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)),
			)
		},
	)

	t.Run(
		"3. Missing or unparseable moments are zero",
		func(t *testing.T) {
			require.True(t, parseEventTime(nil).IsZero())
			require.True(t,
				parseEventTime(
					&calendar.EventDateTime{
						DateTime: "sometime",
					},
				).IsZero(),
			)
		},
	)
}

func TestEventFromItem(t *testing.T) {
	event := eventFromItem(
		&calendar.Event{
			Id:          "evt-1",
			Summary:     "architecture review",
			Description: "bring diagrams",
			Status:      "confirmed",
			Start: &calendar.EventDateTime{
				DateTime: "2026-03-02T09:00:00Z",
			},
			End: &calendar.EventDateTime{
				DateTime: "2026-03-02T10:00:00Z",
			},
		},
	)

	require.Equal(t, "evt-1", event.UID)
	require.Equal(t, "architecture review", event.Summary)
	require.Equal(t, "confirmed", event.Status)
	require.Equal(t, time.Hour, event.End.Sub(event.Start))
}
