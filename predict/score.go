package predict

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoValidPoints  = errors.New("no points with both a prediction and an actual value")
	ErrUndefinedMAPE  = errors.New("mean absolute percent error is undefined without non-zero actuals")
)

// Scores tracks the fit scores. MAPE and MASE are NaN when undefined.
type Scores struct {
	MSE  float64 `json:"mean_squared_error"`
	MAPE float64 `json:"mean_absolute_percent_error"`
	R2   float64 `json:"r_squared"`
	MASE float64 `json:"mean_absolute_scaled_error"`
}

// NewScores calculates the fit scores given the predicted and actual input slice values.
// Points where either value is NaN are skipped.
func NewScores(predicted, actual []float64) (*Scores, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	mape, err := MAPE(predicted, actual)
	if err != nil && !errors.Is(err, ErrUndefinedMAPE) {
		return nil, fmt.Errorf("unable to compute mean absolute percent error, %w", err)
	}
	rs, err := RSquared(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}

	return &Scores{
		MSE:  mse,
		MAPE: mape,
		R2:   rs,
		MASE: math.NaN(),
	}, nil
}

func valid(predicted, actual float64) bool {
	return !math.IsNaN(actual) && !math.IsNaN(predicted)
}

// MSE computes the mean squared error over the valid points. A score of 0 means a perfect
// match with no errors.
func MSE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	mse := 0.0
	cnt := 0
	for i := 0; i < len(actual); i++ {
		if !valid(predicted[i], actual[i]) {
			continue
		}
		mse += math.Pow(actual[i]-predicted[i], 2.0)
		cnt++
	}
	if cnt == 0 {
		return math.NaN(), ErrNoValidPoints
	}
	return mse / float64(cnt), nil
}

// MAPE calculates the mean absolute percent error over the valid points with non-zero
// actuals. A score of 0 means a perfect match with no errors.
func MAPE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	mape := 0.0
	cnt := 0
	for i := 0; i < len(actual); i++ {
		if !valid(predicted[i], actual[i]) || actual[i] == 0 {
			continue
		}
		mape += math.Abs((actual[i] - predicted[i]) / actual[i])
		cnt++
	}
	if cnt == 0 {
		return math.NaN(), ErrUndefinedMAPE
	}
	return mape / float64(cnt), nil
}

// RSquared computes the r squared value between the predicted and actual where 1.0 means perfect
// fit and 0 represents no relationship
func RSquared(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	predictCopy := make([]float64, 0, len(predicted))
	actualCopy := make([]float64, 0, len(actual))
	for i := 0; i < len(predicted); i++ {
		if !valid(predicted[i], actual[i]) {
			continue
		}
		predictCopy = append(predictCopy, predicted[i])
		actualCopy = append(actualCopy, actual[i])
	}
	if len(actualCopy) == 0 {
		return math.NaN(), ErrNoValidPoints
	}
	r2 := stat.RSquaredFrom(predictCopy, actualCopy, nil)
	if math.IsNaN(r2) {
		return 1.0, nil
	}
	return r2, nil
}

// MASE scales the mean absolute error by the in-sample mean absolute error of the seasonal
// naive forecast of the reference series. NaN when the naive error is zero or undefined.
func MASE(predicted, actual, reference []float64, period int) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if period < 1 {
		period = 1
	}

	scale := 0.0
	naive := 0
	for i := period; i < len(reference); i++ {
		if math.IsNaN(reference[i]) || math.IsNaN(reference[i-period]) {
			continue
		}
		scale += math.Abs(reference[i] - reference[i-period])
		naive++
	}
	if naive == 0 || scale == 0 {
		return math.NaN(), nil
	}
	scale /= float64(naive)

	mae := 0.0
	cnt := 0
	for i := 0; i < len(actual); i++ {
		if !valid(predicted[i], actual[i]) {
			continue
		}
		mae += math.Abs(actual[i] - predicted[i])
		cnt++
	}
	if cnt == 0 {
		return math.NaN(), ErrNoValidPoints
	}
	return mae / float64(cnt) / scale, nil
}
