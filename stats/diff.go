package stats

import (
	"fmt"
)

// Diff applies d lag-1 differences. The result is d observations shorter.
func Diff(y []float64, d int) ([]float64, error) {
	return LagDiff(y, 1, d)
}

// SeasonalDiff applies bigD lag-period differences. The result is bigD*period observations
// shorter.
func SeasonalDiff(y []float64, period, bigD int) ([]float64, error) {
	if bigD > 0 && period <= 1 {
		return nil, fmt.Errorf("period of %d, %w", period, ErrInvalidPeriod)
	}
	return LagDiff(y, period, bigD)
}

// LagDiff applies times differences at the given lag. Zero differences return a copy of y
// regardless of the lag.
func LagDiff(y []float64, lag, times int) ([]float64, error) {
	if times == 0 {
		res := make([]float64, len(y))
		copy(res, y)
		return res, nil
	}
	if lag < 1 || times < 0 {
		return nil, fmt.Errorf("lag of %d applied %d times, %w", lag, times, ErrInvalidLag)
	}
	if len(y) <= lag*times {
		return nil, fmt.Errorf("%d observations for %d differences at lag %d, %w", len(y), times, lag, ErrInsufficientData)
	}
	res := make([]float64, len(y))
	copy(res, y)
	for k := 0; k < times; k++ {
		next := make([]float64, len(res)-lag)
		for i := range next {
			next[i] = res[i+lag] - res[i]
		}
		res = next
	}
	return res, nil
}

// DiffPolynomial returns the coefficients of (1-L)^d (1-L^s)^D where index i holds the
// coefficient of L^i
func DiffPolynomial(d, bigD, period int) []float64 {
	poly := []float64{1}
	for i := 0; i < d; i++ {
		poly = PolyMul(poly, []float64{1, -1})
	}
	if period > 1 {
		seasonal := make([]float64, period+1)
		seasonal[0] = 1
		seasonal[period] = -1
		for i := 0; i < bigD; i++ {
			poly = PolyMul(poly, seasonal)
		}
	}
	return poly
}

// PolyMul multiplies two polynomials in the lag operator
func PolyMul(a, b []float64) []float64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	res := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			res[i+j] += av * bv
		}
	}
	return res
}
