package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnivariateDataset(t *testing.T) {
	testData := map[string]struct {
		t        []time.Time
		y        []float64
		expected *TimeDataset
		err      error
	}{
		"no training data": {
			err: ErrNoTrainingData,
		},
		"length mismatch": {
			y:   []float64{1},
			err: ErrDatasetLenMismatch,
		},
		"non increasing time": {
			t: []time.Time{
				time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			y:   []float64{1, 2},
			err: ErrNonMontonic,
		},
		"duplicate time": {
			t: []time.Time{
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			y:   []float64{1, 2},
			err: ErrNonMontonic,
		},
		"valid": {
			t: []time.Time{
				time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
			},
			y: []float64{1, 2},
			expected: &TimeDataset{
				T: []time.Time{
					time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC),
				},
				Y: []float64{1, 2},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ds, err := NewUnivariateDataset(td.t, td.y)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, ds)
		})
	}
}

func TestSplit(t *testing.T) {
	tSeries := GenerateCalendarT(10, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), FreqMonthly)
	ds, err := NewUnivariateDataset(tSeries, GenerateTrendY(10, 0, 1))
	require.NoError(t, err)

	testData := map[string]struct {
		testSize int
		train    []float64
		test     []float64
		err      error
	}{
		"zero test size": {
			testSize: 0,
			err:      ErrInvalidSplit,
		},
		"test size covers everything": {
			testSize: 10,
			err:      ErrInvalidSplit,
		},
		"valid": {
			testSize: 3,
			train:    []float64{0, 1, 2, 3, 4, 5, 6},
			test:     []float64{7, 8, 9},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			train, test, err := ds.Split(td.testSize)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.train, train.Y)
			assert.Equal(t, td.test, test.Y)
			assert.Equal(t, tSeries[7], test.T[0])
		})
	}
}

func TestTail(t *testing.T) {
	tSeries := GenerateCalendarT(5, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), FreqDaily)
	ds, err := NewUnivariateDataset(tSeries, GenerateTrendY(5, 1, 1))
	require.NoError(t, err)

	tail, err := ds.Tail(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5}, tail.Y)

	tail, err = ds.Tail(24)
	require.NoError(t, err)
	assert.Equal(t, ds.Y, tail.Y)
}

func TestIndexOf(t *testing.T) {
	tSeries := GenerateCalendarT(6, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), FreqMonthly)
	ds, err := NewUnivariateDataset(tSeries, GenerateConstY(6, 1))
	require.NoError(t, err)

	idx, exists := ds.IndexOf(tSeries[4])
	assert.True(t, exists)
	assert.Equal(t, 4, idx)

	_, exists = ds.IndexOf(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.False(t, exists)
}
