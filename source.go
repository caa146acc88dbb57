package availability

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
	"golang.org/x/sync/errgroup"
)

// Source supplies the busy intervals of one or more calendars within a
// window. Implementations convert provider payloads to TimeInterval at
// this boundary; callers never see wire formats.
type Source interface {
	Name() string
	BusyIntervals(ctx context.Context, calendarIDs []string, w Window) ([]TimeInterval, error)
}

// Booker writes a calendar event and returns its provider UID.
type Booker interface {
	CreateEvent(ctx context.Context, calendarID string, event *Event) (string, error)
}

// Event is the provider neutral calendar event.
type Event struct {
	UID         string    `json:"uid"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Status      string    `json:"status,omitempty"`
}

// MultiSource unions the busy sets of several sources.
type MultiSource struct {
	sources []Source
}

func NewMultiSource(sources ...Source) (*MultiSource, error) {
	if len(sources) == 0 {
		return nil,
			goerrors.ErrValidation{
				Caller: "NewMultiSource",
				Issue: goerrors.ErrNilInput{
					InputName: "sources",
				},
			}
	}

	return &MultiSource{
			sources: sources,
		},
		nil
}

func (m *MultiSource) Name() string {
	return "multi"
}

// BusyIntervals queries every source concurrently. One failing source
// fails the whole query, a partial busy set would report slots that are
// not actually free.
func (m *MultiSource) BusyIntervals(ctx context.Context, calendarIDs []string, w Window) ([]TimeInterval, error) {
	group, ctxGroup := errgroup.WithContext(ctx)

	perSource := make([][]TimeInterval, len(m.sources))

	for ix, source := range m.sources {
		group.Go(
			func() error {
				intervals, errBusy := source.BusyIntervals(ctxGroup, calendarIDs, w)
				if errBusy != nil {
					return fmt.Errorf(
						"source %s: %w",
						source.Name(),
						errBusy,
					)
				}

				perSource[ix] = intervals

				return nil
			},
		)
	}

	if errWait := group.Wait(); errWait != nil {
		return nil, errWait
	}

	var busy []TimeInterval

	for _, intervals := range perSource {
		busy = append(busy, intervals...)
	}

	return busy, nil
}
