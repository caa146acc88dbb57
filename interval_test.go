package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMergeIntervals(t *testing.T) {
	tests := []struct {
		name     string
		input    []TimeInterval
		expected []TimeInterval
	}{
		{
			name: "1. Overlapping intervals merge",
			input: []TimeInterval{
				{Start: at(9, 0), End: at(10, 30)},
				{Start: at(10, 0), End: at(11, 0)},
			},
			expected: []TimeInterval{
				{Start: at(9, 0), End: at(11, 0)},
			},
		},
		{
			name: "2. Touching intervals merge",
			input: []TimeInterval{
				{Start: at(9, 0), End: at(10, 0)},
				{Start: at(10, 0), End: at(11, 0)},
			},
			expected: []TimeInterval{
				{Start: at(9, 0), End: at(11, 0)},
			},
		},
		{
			name: "3. Contained interval disappears",
			input: []TimeInterval{
				{Start: at(9, 0), End: at(12, 0)},
				{Start: at(10, 0), End: at(11, 0)},
			},
			expected: []TimeInterval{
				{Start: at(9, 0), End: at(12, 0)},
			},
		},
		{
			name: "4. Duplicates collapse",
			input: []TimeInterval{
				{Start: at(9, 0), End: at(10, 0)},
				{Start: at(9, 0), End: at(10, 0)},
			},
			expected: []TimeInterval{
				{Start: at(9, 0), End: at(10, 0)},
			},
		},
		{
			name: "5. Malformed intervals dropped",
			input: []TimeInterval{
				{Start: at(11, 0), End: at(10, 0)},
				{Start: at(9, 0), End: at(9, 30)},
			},
			expected: []TimeInterval{
				{Start: at(9, 0), End: at(9, 30)},
			},
		},
		{
			name: "6. Zero length intervals dropped",
			input: []TimeInterval{
				{Start: at(9, 0), End: at(9, 0)},
			},
			expected: nil,
		},
		{
			name: "7. Unordered input comes back sorted",
			input: []TimeInterval{
				{Start: at(14, 0), End: at(15, 0)},
				{Start: at(9, 0), End: at(10, 0)},
				{Start: at(11, 30), End: at(12, 0)},
			},
			expected: []TimeInterval{
				{Start: at(9, 0), End: at(10, 0)},
				{Start: at(11, 30), End: at(12, 0)},
				{Start: at(14, 0), End: at(15, 0)},
			},
		},
		{
			name:     "8. Empty input",
			input:    nil,
			expected: nil,
		},
		{
			name: "9. Equal starts keep the longest end",
			input: []TimeInterval{
				{Start: at(9, 0), End: at(10, 30)},
				{Start: at(9, 0), End: at(9, 15)},
			},
			expected: []TimeInterval{
				{Start: at(9, 0), End: at(10, 30)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name,
			func(t *testing.T) {
				require.Equal(
					t,
					tt.expected,
					MergeIntervals(tt.input),
				)
			},
		)
	}
}

func TestDayWindow(t *testing.T) {
	location, errLocation := time.LoadLocation("Europe/Bucharest")
	require.NoError(t, errLocation)

	moment := time.Date(2026, time.March, 2, 14, 22, 7, 0, location)

	w := DayWindow(moment, 9, 18)

	require.Equal(
		t,
		time.Date(2026, time.March, 2, 9, 0, 0, 0, location),
		w.TimeMin,
	)
	require.Equal(
		t,
		time.Date(2026, time.March, 2, 18, 0, 0, 0, location),
		w.TimeMax,
	)
}

func TestWindowContains(t *testing.T) {
	w := Window{
		TimeMin: at(9, 0),
		TimeMax: at(17, 0),
	}

	tests := []struct {
		name     string
		interval TimeInterval
		expected bool
	}{
		{
			name:     "1. Inside",
			interval: TimeInterval{Start: at(10, 0), End: at(11, 0)},
			expected: true,
		},
		{
			name:     "2. Matching the window exactly",
			interval: TimeInterval{Start: at(9, 0), End: at(17, 0)},
			expected: true,
		},
		{
			name:     "3. Starting before",
			interval: TimeInterval{Start: at(8, 59), End: at(10, 0)},
			expected: false,
		},
		{
			name:     "4. Ending after",
			interval: TimeInterval{Start: at(16, 0), End: at(17, 1)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name,
			func(t *testing.T) {
				if got := w.Contains(&tt.interval); got != tt.expected {
					t.Errorf(
						"expected %t, got %t for %s",
						tt.expected,
						got,
						tt.interval.String(),
					)
				}
			},
		)
	}
}
