// Package availability computes bookable time slots from the busy
// intervals of one or more calendars. The core is a pure sweep over a
// normalized busy set; sources, booking and transports live in the
// subpackages and only feed or consume TimeInterval values.
package availability

import (
	"errors"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
)

var (
	// ErrInvalidWindow rejects windows whose TimeMin is not before TimeMax.
	ErrInvalidWindow = errors.New("time min must be before time max")

	// ErrInvalidDuration rejects non-positive slot durations.
	ErrInvalidDuration = errors.New("minimum duration must be positive")
)

type ParamsFindFreeSlots struct {
	Window

	Busy        []TimeInterval
	MinDuration time.Duration

	// PackGaps emits back-to-back slots until a gap is exhausted
	// instead of the first fitting slot per gap.
	PackGaps bool
}

func (params *ParamsFindFreeSlots) IsValid() error {
	if !params.TimeMin.Before(params.TimeMax) {
		return goerrors.ErrValidation{
			Caller: "IsValid - ParamsFindFreeSlots",
			Issue:  ErrInvalidWindow,
		}
	}

	if params.MinDuration <= 0 {
		return goerrors.ErrValidation{
			Caller: "IsValid - ParamsFindFreeSlots",
			Issue:  ErrInvalidDuration,
		}
	}

	return nil
}

// FindFreeSlots returns the slots of exactly MinDuration that fit the
// free gaps of the window, ordered by start time:
//   - the busy set is normalized with MergeIntervals first
//   - each gap yields its earliest fitting slot, or every back-to-back
//     slot that fits when PackGaps is set
//   - busy intervals may extend past the window, only their overlap
//     with it constrains slots
//   - an empty result with a nil error means no gap is large enough
//
// The function reads no clock and keeps no state, so concurrent calls
// are safe.
func FindFreeSlots(params *ParamsFindFreeSlots) ([]TimeInterval, error) {
	if errValidation := params.IsValid(); errValidation != nil {
		return nil,
			errValidation
	}

	var freeSlots []TimeInterval

	cursor := params.TimeMin

	for _, busy := range MergeIntervals(params.Busy) {
		if !busy.End.After(cursor) {
			continue
		}

		if !busy.Start.Before(params.TimeMax) {
			break
		}

		freeSlots = append(
			freeSlots,
			slotsInGap(cursor, busy.Start, params.MinDuration, params.PackGaps)...,
		)

		cursor = maxTime(cursor, busy.End)
	}

	freeSlots = append(
		freeSlots,
		slotsInGap(cursor, params.TimeMax, params.MinDuration, params.PackGaps)...,
	)

	return freeSlots, nil
}

func slotsInGap(from, to time.Time, duration time.Duration, pack bool) []TimeInterval {
	if to.Sub(from) < duration {
		return nil
	}

	if !pack {
		return []TimeInterval{
			{Start: from, End: from.Add(duration)},
		}
	}

	var slots []TimeInterval

	for cursor := from; !cursor.Add(duration).After(to); cursor = cursor.Add(duration) {
		slots = append(
			slots,
			TimeInterval{Start: cursor, End: cursor.Add(duration)},
		)
	}

	return slots
}
