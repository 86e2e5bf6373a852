package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Decomposition is a classical additive decomposition y = trend + seasonal + residual. Trend
// and residual are NaN where the centered moving average is undefined.
type Decomposition struct {
	Trend    []float64 `json:"trend"`
	Seasonal []float64 `json:"seasonal"`
	Residual []float64 `json:"residual"`
	Period   int       `json:"period"`
}

// Decompose requires at least two full periods
func Decompose(y []float64, period int) (*Decomposition, error) {
	if period <= 1 {
		return nil, fmt.Errorf("period of %d, %w", period, ErrInvalidPeriod)
	}
	n := len(y)
	if n < 2*period {
		return nil, fmt.Errorf("%d observations for period %d, %w", n, period, ErrInsufficientData)
	}

	trend := movingAverageTrend(y, period)

	pattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		if math.IsNaN(trend[i]) {
			continue
		}
		pattern[i%period] += y[i] - trend[i]
		counts[i%period]++
	}
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}
	patternMean := stat.Mean(pattern, nil)
	for i := range pattern {
		pattern[i] -= patternMean
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = pattern[i%period]
		residual[i] = y[i] - trend[i] - seasonal[i]
	}

	return &Decomposition{
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
		Period:   period,
	}, nil
}

// movingAverageTrend is a centered moving average. Even periods use the 2xperiod filter with
// half weights on the ends.
func movingAverageTrend(y []float64, period int) []float64 {
	n := len(y)
	weights := make([]float64, 0, period+1)
	if period%2 == 0 {
		weights = append(weights, 0.5)
		for i := 1; i < period; i++ {
			weights = append(weights, 1)
		}
		weights = append(weights, 0.5)
	} else {
		for i := 0; i < period; i++ {
			weights = append(weights, 1)
		}
	}
	half := len(weights) / 2

	trend := make([]float64, n)
	for i := 0; i < n; i++ {
		if i-half < 0 || i+half >= n {
			trend[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j, w := range weights {
			sum += w * y[i-half+j]
		}
		trend[i] = sum / float64(period)
	}
	return trend
}

// SeasonalStrength is F_S = max(0, 1 - Var(R)/Var(S+R)) of the classical additive
// decomposition. Values near 1 indicate a strong seasonal pattern.
func SeasonalStrength(y []float64, period int) (float64, error) {
	dec, err := Decompose(y, period)
	if err != nil {
		return 0, err
	}

	resid := make([]float64, 0, len(y))
	seasonalResid := make([]float64, 0, len(y))
	for i := range dec.Residual {
		if math.IsNaN(dec.Residual[i]) {
			continue
		}
		resid = append(resid, dec.Residual[i])
		seasonalResid = append(seasonalResid, dec.Seasonal[i]+dec.Residual[i])
	}
	if len(resid) < 2 {
		return 0, nil
	}

	varSR := stat.Variance(seasonalResid, nil)
	if varSR == 0 {
		return 0, nil
	}
	return math.Max(0, 1-stat.Variance(resid, nil)/varSR), nil
}
