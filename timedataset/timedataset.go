package timedataset

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNonMontonic        = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrInvalidSplit       = errors.New("invalid split size for dataset")
	ErrOutOfRange         = errors.New("slice bounds out of range for dataset")
)

// TimeDataset represents a time series storing a slice of time points and values.
// Both must be of the same length and time must be strictly increasing.
type TimeDataset struct {
	T []time.Time
	Y []float64
}

// NewUnivariateDataset returns an instance of a TimeDataset given a time and value slice.
// The inputs are copied.
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			return nil, fmt.Errorf("non-monotonic at %d (%s after %s), %w", i, t[i], t[i-1], ErrNonMontonic)
		}
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	td := &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}

	return td, nil
}

// Len returns the number of observations
func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.Y)
}

// Slice returns a copy of the observations in the half open range [start, end)
func (td *TimeDataset) Slice(start, end int) (*TimeDataset, error) {
	if start < 0 || end > td.Len() || start >= end {
		return nil, fmt.Errorf("range [%d, %d) with %d observations, %w", start, end, td.Len(), ErrOutOfRange)
	}
	return NewUnivariateDataset(td.T[start:end], td.Y[start:end])
}

// Tail returns a copy of the last n observations. If n exceeds the dataset length the whole
// dataset is returned.
func (td *TimeDataset) Tail(n int) (*TimeDataset, error) {
	start := td.Len() - n
	if start < 0 {
		start = 0
	}
	return td.Slice(start, td.Len())
}

// Split separates the dataset into a training and test dataset where the test dataset holds
// the last testSize observations.
func (td *TimeDataset) Split(testSize int) (*TimeDataset, *TimeDataset, error) {
	if testSize <= 0 || testSize >= td.Len() {
		return nil, nil, fmt.Errorf("test size of %d with %d observations, %w", testSize, td.Len(), ErrInvalidSplit)
	}
	boundary := td.Len() - testSize
	train, err := td.Slice(0, boundary)
	if err != nil {
		return nil, nil, err
	}
	test, err := td.Slice(boundary, td.Len())
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

// IndexOf returns the position of the exact time point in the dataset
func (td *TimeDataset) IndexOf(t time.Time) (int, bool) {
	lo, hi := 0, td.Len()
	for lo < hi {
		mid := (lo + hi) / 2
		if td.T[mid].Before(t) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < td.Len() && td.T[lo].Equal(t) {
		return lo, true
	}
	return -1, false
}
