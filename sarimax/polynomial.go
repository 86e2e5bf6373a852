package sarimax

import (
	"math"

	"github.com/aouyang1/go-alchemy/stats"
)

// constrain maps unconstrained values to the coefficients of a stationary autoregressive
// polynomial. Each value is squashed to a partial autocorrelation in (-1, 1) and the
// Durbin-Levinson recursion builds the coefficients from them.
func constrain(x []float64) []float64 {
	n := len(x)
	phi := make([]float64, n)
	prev := make([]float64, n)
	for k := 0; k < n; k++ {
		r := x[k] / math.Sqrt(1+x[k]*x[k])
		for i := 0; i < k; i++ {
			phi[i] = prev[i] - r*prev[k-1-i]
		}
		phi[k] = r
		copy(prev, phi)
	}
	return phi
}

// arPolynomial returns the coefficients of 1 - c_1 L^step - c_2 L^(2 step) - ...
func arPolynomial(coef []float64, step int) []float64 {
	poly := make([]float64, len(coef)*step+1)
	poly[0] = 1
	for i, c := range coef {
		poly[(i+1)*step] = -c
	}
	return poly
}

// maPolynomial returns the coefficients of 1 + c_1 L^step + c_2 L^(2 step) + ...
func maPolynomial(coef []float64, step int) []float64 {
	poly := make([]float64, len(coef)*step+1)
	poly[0] = 1
	for i, c := range coef {
		poly[(i+1)*step] = c
	}
	return poly
}

// lagCoefficients turns a polynomial in the lag operator into the coefficients applied to
// lags 1..n, negating when the polynomial is on the autoregressive side
func lagCoefficients(poly []float64, negate bool) []float64 {
	if len(poly) <= 1 {
		return nil
	}
	coef := make([]float64, len(poly)-1)
	for i := range coef {
		if negate {
			coef[i] = -poly[i+1]
		} else {
			coef[i] = poly[i+1]
		}
	}
	return coef
}

// armaCoefficients expands the multiplicative seasonal polynomials into a single ARMA with
// z_t = sum_i ar_i z_{t-i} + e_t + sum_j ma_j e_{t-j}
func armaCoefficients(ar, ma, sar, sma []float64, period int) ([]float64, []float64) {
	arPoly := arPolynomial(ar, 1)
	maPoly := maPolynomial(ma, 1)
	if period > 1 {
		arPoly = stats.PolyMul(arPoly, arPolynomial(sar, period))
		maPoly = stats.PolyMul(maPoly, maPolynomial(sma, period))
	}
	return lagCoefficients(arPoly, true), lagCoefficients(maPoly, false)
}

// cssResiduals filters z through the ARMA with zero pre-sample values
func cssResiduals(z, arFull, maFull []float64, resid []float64) float64 {
	sse := 0.0
	for t := range z {
		e := z[t] - lagDot(arFull, z, t) - lagDot(maFull, resid, t)
		resid[t] = e
		sse += e * e
	}
	return sse
}

// psiWeights returns the first n coefficients of the MA(infinity) representation of
// ma(L)/ar(L) where ar includes the differencing polynomial
func psiWeights(arPoly, maPoly []float64, n int) []float64 {
	psi := make([]float64, n)
	if n == 0 {
		return psi
	}
	psi[0] = 1
	for j := 1; j < n; j++ {
		v := 0.0
		if j < len(maPoly) {
			v = maPoly[j]
		}
		for i := 1; i <= j && i < len(arPoly); i++ {
			v -= arPoly[i] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}
