package availability

import (
	"fmt"
	"testing"
	"time"

	goerrors "github.com/TudorHulban/go-errors"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return testDay.Add(
		time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute,
	)
}

func requireIssue(t *testing.T, err, issue error) {
	t.Helper()

	var errValidation goerrors.ErrValidation

	require.ErrorAs(t, err, &errValidation)
	require.Equal(t, issue, errValidation.Issue)
}

func TestFindFreeSlots(t *testing.T) {
	t.Run(
		"1. Single booking splits the day",

		func(t *testing.T) {
			freeSlots, errFind := FindFreeSlots(
				&ParamsFindFreeSlots{
					Window: Window{
						TimeMin: at(9, 0),
						TimeMax: at(17, 0),
					},
					Busy: []TimeInterval{
						{Start: at(10, 0), End: at(11, 0)},
					},
					MinDuration: time.Hour,
				},
			)
			require.NoError(t, errFind)
			require.Equal(
				t,
				[]TimeInterval{
					{Start: at(9, 0), End: at(10, 0)},
					{Start: at(11, 0), End: at(12, 0)},
				},
				freeSlots,
			)

			fmt.Println(
				t.Name(),
				freeSlots,
			)
		},
	)

	t.Run(
		"2. Fully booked window",

		func(t *testing.T) {
			freeSlots, errFind := FindFreeSlots(
				&ParamsFindFreeSlots{
					Window: Window{
						TimeMin: at(9, 0),
						TimeMax: at(17, 0),
					},
					Busy: []TimeInterval{
						{Start: at(9, 0), End: at(13, 0)},
						{Start: at(13, 0), End: at(17, 0)},
					},
					MinDuration: 30 * time.Minute,
				},
			)
			require.NoError(t, errFind)
			require.Empty(t, freeSlots)
		},
	)

	t.Run(
		"3. Overlapping bookings merge",

		func(t *testing.T) {
			freeSlots, errFind := FindFreeSlots(
				&ParamsFindFreeSlots{
					Window: Window{
						TimeMin: at(9, 0),
						TimeMax: at(11, 0),
					},
					Busy: []TimeInterval{
						{Start: at(9, 30), End: at(10, 15)},
						{Start: at(10, 0), End: at(10, 30)},
					},
					MinDuration: 30 * time.Minute,
				},
			)
			require.NoError(t, errFind)
			require.Equal(
				t,
				[]TimeInterval{
					{Start: at(9, 0), End: at(9, 30)},
					{Start: at(10, 30), End: at(11, 0)},
				},
				freeSlots,
			)
		},
	)

	t.Run(
		"4. Zero width window rejected",

		func(t *testing.T) {
			freeSlots, errFind := FindFreeSlots(
				&ParamsFindFreeSlots{
					Window: Window{
						TimeMin: at(9, 0),
						TimeMax: at(9, 0),
					},
					MinDuration: time.Hour,
				},
			)
			require.Nil(t, freeSlots)
			requireIssue(t, errFind, ErrInvalidWindow)
		},
	)

	t.Run(
		"5. Touching bookings leave no slot",

		func(t *testing.T) {
			freeSlots, errFind := FindFreeSlots(
				&ParamsFindFreeSlots{
					Window: Window{
						TimeMin: at(9, 0),
						TimeMax: at(10, 0),
					},
					Busy: []TimeInterval{
						{Start: at(9, 0), End: at(9, 30)},
						{Start: at(9, 30), End: at(10, 0)},
					},
					MinDuration: 30 * time.Minute,
				},
			)
			require.NoError(t, errFind)
			require.Empty(t, freeSlots)
		},
	)

	t.Run(
		"6. Open window yields the earliest slot",

		func(t *testing.T) {
			freeSlots, errFind := FindFreeSlots(
				&ParamsFindFreeSlots{
					Window: Window{
						TimeMin: at(9, 0),
						TimeMax: at(17, 0),
					},
					MinDuration: time.Hour,
				},
			)
			require.NoError(t, errFind)
			require.Equal(
				t,
				[]TimeInterval{
					{Start: at(9, 0), End: at(10, 0)},
				},
				freeSlots,
			)
		},
	)

	t.Run(
		"7. Open window packs back-to-back slots",

		func(t *testing.T) {
			freeSlots, errFind := FindFreeSlots(
				&ParamsFindFreeSlots{
					Window: Window{
						TimeMin: at(9, 0),
						TimeMax: at(17, 0),
					},
					MinDuration: time.Hour,
					PackGaps:    true,
				},
			)
			require.NoError(t, errFind)
			require.Len(t, freeSlots, 8)
			require.Equal(
				t,
				TimeInterval{Start: at(9, 0), End: at(10, 0)},
				freeSlots[0],
			)
			require.Equal(
				t,
				TimeInterval{Start: at(16, 0), End: at(17, 0)},
				freeSlots[7],
			)
		},
	)

	t.Run(
		"8. Non positive duration rejected",

		func(t *testing.T) {
			for _, duration := range []time.Duration{0, -30 * time.Minute} {
				freeSlots, errFind := FindFreeSlots(
					&ParamsFindFreeSlots{
						Window: Window{
							TimeMin: at(9, 0),
							TimeMax: at(17, 0),
						},
						MinDuration: duration,
					},
				)
				require.Nil(t, freeSlots)
				requireIssue(t, errFind, ErrInvalidDuration)
			}
		},
	)

	t.Run(
		"9. Bookings bleeding over both edges",

		func(t *testing.T) {
			freeSlots, errFind := FindFreeSlots(
				&ParamsFindFreeSlots{
					Window: Window{
						TimeMin: at(9, 0),
						TimeMax: at(17, 0),
					},
					Busy: []TimeInterval{
						{Start: at(8, 0), End: at(9, 30)},
						{Start: at(16, 30), End: at(18, 0)},
					},
					MinDuration: time.Hour,
				},
			)
			require.NoError(t, errFind)
			require.Equal(
				t,
				[]TimeInterval{
					{Start: at(9, 30), End: at(10, 30)},
				},
				freeSlots,
			)
		},
	)

	t.Run(
		"10. Window shorter than duration",

		func(t *testing.T) {
			freeSlots, errFind := FindFreeSlots(
				&ParamsFindFreeSlots{
					Window: Window{
						TimeMin: at(9, 0),
						TimeMax: at(10, 0),
					},
					MinDuration: 2 * time.Hour,
				},
			)
			require.NoError(t, errFind)
			require.Empty(t, freeSlots)
		},
	)

	t.Run(
		"11. Malformed and duplicate bookings ignored",

		func(t *testing.T) {
			freeSlots, errFind := FindFreeSlots(
				&ParamsFindFreeSlots{
					Window: Window{
						TimeMin: at(9, 0),
						TimeMax: at(17, 0),
					},
					Busy: []TimeInterval{
						{Start: at(10, 0), End: at(11, 0)},
						{Start: at(10, 0), End: at(11, 0)},
						{Start: at(14, 0), End: at(12, 0)},
						{Start: at(15, 0), End: at(15, 0)},
					},
					MinDuration: time.Hour,
				},
			)
			require.NoError(t, errFind)
			require.Equal(
				t,
				[]TimeInterval{
					{Start: at(9, 0), End: at(10, 0)},
					{Start: at(11, 0), End: at(12, 0)},
				},
				freeSlots,
			)
		},
	)
}

func TestFindFreeSlotsProperties(t *testing.T) {
	busy := []TimeInterval{
		{Start: at(12, 15), End: at(13, 45)},
		{Start: at(8, 30), End: at(9, 45)},
		{Start: at(10, 0), End: at(10, 0)},
		{Start: at(16, 0), End: at(15, 0)},
		{Start: at(12, 0), End: at(12, 30)},
	}

	busyBefore := make([]TimeInterval, len(busy))
	copy(busyBefore, busy)

	w := Window{
		TimeMin: at(9, 0),
		TimeMax: at(17, 0),
	}

	freeSlots, errFind := FindFreeSlots(
		&ParamsFindFreeSlots{
			Window:      w,
			Busy:        busy,
			MinDuration: 45 * time.Minute,
		},
	)
	require.NoError(t, errFind)
	require.NotEmpty(t, freeSlots)

	t.Run(
		"1. Input slice left untouched",

		func(t *testing.T) {
			require.Equal(t, busyBefore, busy)
		},
	)

	t.Run(
		"2. Slots stay inside the window",

		func(t *testing.T) {
			for _, slot := range freeSlots {
				require.True(t, w.Contains(&slot), slot.String())
			}
		},
	)

	t.Run(
		"3. Slots have the exact duration",

		func(t *testing.T) {
			for _, slot := range freeSlots {
				require.Equal(t, 45*time.Minute, slot.Duration())
			}
		},
	)

	t.Run(
		"4. Slots are ordered and disjoint",

		func(t *testing.T) {
			for ix := 1; ix < len(freeSlots); ix++ {
				require.False(
					t,
					freeSlots[ix].Start.Before(freeSlots[ix-1].End),
				)
			}
		},
	)

	t.Run(
		"5. Slots never overlap merged busy blocks",

		func(t *testing.T) {
			for _, slot := range freeSlots {
				for _, block := range MergeIntervals(busy) {
					overlaps := slot.Start.Before(block.End) && block.Start.Before(slot.End)

					require.False(
						t,
						overlaps,
						"slot %s overlaps busy %s",
						slot.String(),
						block.String(),
					)
				}
			}
		},
	)
}

func TestFindFreeSlotsConcurrent(t *testing.T) {
	params := ParamsFindFreeSlots{
		Window: Window{
			TimeMin: at(9, 0),
			TimeMax: at(17, 0),
		},
		Busy: []TimeInterval{
			{Start: at(10, 0), End: at(11, 0)},
			{Start: at(13, 0), End: at(14, 30)},
		},
		MinDuration: time.Hour,
	}

	expected, errFind := FindFreeSlots(&params)
	require.NoError(t, errFind)

	done := make(chan struct{})

	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()

			for range 100 {
				freeSlots, errConcurrent := FindFreeSlots(&params)
				if errConcurrent != nil || len(freeSlots) != len(expected) {
					t.Error("concurrent call diverged")

					return
				}
			}
		}()
	}

	for range 8 {
		<-done
	}
}
