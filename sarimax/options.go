package sarimax

type Options struct {
	// IncludeMean estimates a constant when the order has no differencing
	IncludeMean bool `json:"include_mean"`

	// MaxEvaluations caps objective evaluations. Zero scales the cap with the number of
	// parameters.
	MaxEvaluations int `json:"max_evaluations"`

	// Tolerance is the relative objective improvement below which the optimizer is considered
	// converged
	Tolerance float64 `json:"tolerance"`

	// MinSigma2 floors the innovation variance so perfectly fit series keep a finite
	// likelihood
	MinSigma2 float64 `json:"min_sigma2"`

	SimplexSize float64 `json:"simplex_size"`
}

func NewDefaultOptions() *Options {
	return &Options{
		IncludeMean: true,
		Tolerance:   1e-8,
		MinSigma2:   1e-12,
		SimplexSize: 0.25,
	}
}

func (o *Options) maxEvaluations(k int) int {
	if o.MaxEvaluations > 0 {
		return o.MaxEvaluations
	}
	return 2000 + 1000*k
}
