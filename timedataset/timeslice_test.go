package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daysFrom(start time.Time, offsets ...int) TimeSlice {
	t := make(TimeSlice, 0, len(offsets))
	for _, o := range offsets {
		t = append(t, start.AddDate(0, 0, o))
	}
	return t
}

func TestBounds(t *testing.T) {
	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)

	testData := map[string]struct {
		tSlice TimeSlice
		start  time.Time
		end    time.Time
	}{
		"nil slice": {},
		"single point": {
			tSlice: daysFrom(start, 0),
			start:  start,
			end:    start,
		},
		"several points": {
			tSlice: daysFrom(start, 0, 1, 5),
			start:  start,
			end:    start.AddDate(0, 0, 5),
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.start, td.tSlice.StartTime())
			assert.Equal(t, td.end, td.tSlice.EndTime())
		})
	}
}

func TestEstimateFreq(t *testing.T) {
	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)

	testData := map[string]struct {
		tSlice   TimeSlice
		expected time.Duration
		err      error
	}{
		"nil slice": {
			err: ErrCannotInferFreq,
		},
		"single point": {
			tSlice: daysFrom(start, 0),
			err:    ErrCannotInferFreq,
		},
		"regular daily": {
			tSlice:   daysFrom(start, 0, 1, 2, 3),
			expected: day,
		},
		"most common spacing wins": {
			tSlice:   daysFrom(start, 0, 7, 14, 15, 22, 29),
			expected: 7 * day,
		},
		"tied counts pick the smaller spacing": {
			tSlice:   daysFrom(start, 0, 2, 3, 5, 6),
			expected: day,
		},
		"tied counts with the larger spacing first": {
			tSlice:   daysFrom(start, 0, 3, 4, 7, 8),
			expected: day,
		},
		"hourly tie inside a day": {
			tSlice: TimeSlice{
				start,
				start.Add(time.Hour),
				start.Add(2 * time.Hour),
				start.Add(26 * time.Hour),
				start.Add(50 * time.Hour),
			},
			expected: time.Hour,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			freq, err := td.tSlice.EstimateFreq()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, freq)
		})
	}
}
