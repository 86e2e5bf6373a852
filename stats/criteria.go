package stats

import (
	"math"
)

// GaussianLogLikelihood is the concentrated log likelihood of n gaussian errors with maximum
// likelihood variance sigma2
func GaussianLogLikelihood(sigma2 float64, n int) float64 {
	nf := float64(n)
	return -nf / 2.0 * (math.Log(2*math.Pi*sigma2) + 1)
}

// AIC is the Akaike information criterion of a model with k estimated parameters
func AIC(llf float64, k int) float64 {
	return -2*llf + 2*float64(k)
}

// AICc is AIC with the small sample correction. It is +Inf when n <= k+1.
func AICc(llf float64, k, n int) float64 {
	if n-k-1 <= 0 {
		return math.Inf(1)
	}
	return AIC(llf, k) + 2*float64(k)*float64(k+1)/float64(n-k-1)
}

// BIC is the Bayesian information criterion
func BIC(llf float64, k, n int) float64 {
	return -2*llf + float64(k)*math.Log(float64(n))
}
