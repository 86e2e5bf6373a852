package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// LjungBoxResult is the portmanteau test for residual autocorrelation up to Lags
type LjungBoxResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Lags      int     `json:"lags"`
	DOF       int     `json:"dof"`
}

// WhiteNoise reports whether no autocorrelation is detected at the significance level
func (r *LjungBoxResult) WhiteNoise(significance float64) bool {
	if r == nil {
		return false
	}
	return r.PValue >= significance
}

// DefaultLjungBoxLags is min(10, n/5), or 2*period capped at n/5 for seasonal series
func DefaultLjungBoxLags(n, period int) int {
	lags := 10
	if period > 1 {
		lags = 2 * period
	}
	return max(1, min(lags, n/5))
}

// LjungBox tests whether the NaN free residuals are white noise. fitdf is the number of
// estimated ARMA parameters subtracted from the degrees of freedom.
func LjungBox(resid []float64, lags, fitdf int) (*LjungBoxResult, error) {
	clean := make([]float64, 0, len(resid))
	for _, r := range resid {
		if !math.IsNaN(r) {
			clean = append(clean, r)
		}
	}
	n := len(clean)
	if lags < 1 {
		return nil, fmt.Errorf("%d lags, %w", lags, ErrInvalidLag)
	}
	if n < 3 {
		return nil, fmt.Errorf("%d residuals, %w", n, ErrInsufficientData)
	}
	lags = min(lags, n-1)

	acf := ACF(clean, lags)
	if acf == nil {
		// constant residuals carry no autocorrelation
		return &LjungBoxResult{PValue: 1, Lags: lags, DOF: max(1, lags-fitdf)}, nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k] / float64(n-k)
	}
	q *= float64(n) * float64(n+2)

	dof := max(1, lags-fitdf)
	chi := distuv.ChiSquared{K: float64(dof)}
	return &LjungBoxResult{
		Statistic: q,
		PValue:    chi.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}, nil
}
