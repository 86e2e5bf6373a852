package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ACF returns the sample autocorrelations for lags 0 through maxLag using the biased (divide
// by n) autocovariance. maxLag is capped at len(y)-1. A constant series returns nil.
func ACF(y []float64, maxLag int) []float64 {
	n := len(y)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(y, nil)
	c0 := 0.0
	for _, v := range y {
		c0 += (v - mean) * (v - mean)
	}
	if c0 == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (y[i] - mean) * (y[i-k] - mean)
		}
		acf[k] = sum / c0
	}
	return acf
}

// PACF returns the partial autocorrelations for lags 0 through maxLag solved with the
// Durbin-Levinson recursion. Lag 0 is always 1. A constant series returns nil.
func PACF(y []float64, maxLag int) []float64 {
	acf := ACF(y, maxLag)
	if len(acf) < 2 {
		return acf
	}
	return DurbinLevinson(acf)
}

// DurbinLevinson converts autocorrelations for lags 0..k into partial autocorrelations
func DurbinLevinson(acf []float64) []float64 {
	maxLag := len(acf) - 1
	pacf := make([]float64, maxLag+1)
	pacf[0] = 1
	if maxLag < 1 {
		return pacf
	}

	prev := make([]float64, maxLag+1)
	curr := make([]float64, maxLag+1)
	prev[1] = acf[1]
	pacf[1] = acf[1]

	for k := 2; k <= maxLag; k++ {
		num := acf[k]
		den := 1.0
		for j := 1; j < k; j++ {
			num -= prev[j] * acf[k-j]
			den -= prev[j] * acf[j]
		}
		if den == 0 {
			// perfectly predictable from shorter lags, higher partials are zero
			break
		}
		curr[k] = num / den
		for j := 1; j < k; j++ {
			curr[j] = prev[j] - curr[k]*prev[k-j]
		}
		pacf[k] = curr[k]
		prev, curr = curr, prev
	}
	return pacf
}

// ConfidenceBound is the two sided white noise band z(1-alpha/2)/sqrt(n) for
// autocorrelations of n observations
func ConfidenceBound(n int, alpha float64) float64 {
	if n <= 0 {
		return math.Inf(1)
	}
	return distuv.UnitNormal.Quantile(1-alpha/2) / math.Sqrt(float64(n))
}
