package availability

import (
	"fmt"
	"sort"
	"time"
)

// TimeInterval is a pair of absolute instants with Start not after End.
// The zone attached to each instant only matters for rendering,
// comparisons always use the instant itself.
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (interval *TimeInterval) Duration() time.Duration {
	return interval.End.Sub(interval.Start)
}

func (interval *TimeInterval) IsMalformed() bool {
	return interval.Start.After(interval.End)
}

func (interval *TimeInterval) IsZeroLength() bool {
	return interval.Start.Equal(interval.End)
}

func (interval TimeInterval) String() string {
	return fmt.Sprintf(
		"[%s - %s]",
		interval.Start.Format(time.RFC3339),
		interval.End.Format(time.RFC3339),
	)
}

// Window bounds an availability search. TimeMin must be before TimeMax.
type Window struct {
	TimeMin time.Time `json:"timeMin"`
	TimeMax time.Time `json:"timeMax"`
}

func (w *Window) Contains(interval *TimeInterval) bool {
	return !interval.Start.Before(w.TimeMin) && !interval.End.After(w.TimeMax)
}

func (w Window) String() string {
	return fmt.Sprintf(
		"[%s - %s]",
		w.TimeMin.Format(time.RFC3339),
		w.TimeMax.Format(time.RFC3339),
	)
}

// DayWindow returns the window spanning the given hours of the day the
// moment falls on, in the moment's zone.
func DayWindow(moment time.Time, startHour, endHour int) Window {
	year, month, day := moment.Date()

	return Window{
		TimeMin: time.Date(year, month, day, startHour, 0, 0, 0, moment.Location()),
		TimeMax: time.Date(year, month, day, endHour, 0, 0, 0, moment.Location()),
	}
}

// MergeIntervals normalizes a busy set into the minimal ordered list of
// disjoint intervals:
//   - intervals with Start after End are dropped (malformed input)
//   - zero-length intervals are dropped (they cannot reduce availability)
//   - overlapping and touching intervals are merged into one block
//
// The input slice is left untouched.
func MergeIntervals(intervals []TimeInterval) []TimeInterval {
	candidates := make([]TimeInterval, 0, len(intervals))

	for _, interval := range intervals {
		if interval.IsMalformed() || interval.IsZeroLength() {
			continue
		}

		candidates = append(candidates, interval)
	}

	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(
		candidates,
		func(i, j int) bool {
			if candidates[i].Start.Equal(candidates[j].Start) {
				return candidates[i].End.Before(candidates[j].End)
			}

			return candidates[i].Start.Before(candidates[j].Start)
		},
	)

	merged := []TimeInterval{candidates[0]}

	for _, next := range candidates[1:] {
		accumulator := &merged[len(merged)-1]

		if next.Start.After(accumulator.End) {
			merged = append(merged, next)

			continue
		}

		accumulator.End = maxTime(accumulator.End, next.End)
	}

	return merged
}
