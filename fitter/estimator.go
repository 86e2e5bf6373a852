package fitter

import (
	"gonum.org/v1/gonum/mat"

	"github.com/aouyang1/go-alchemy/sarimax"
)

// Estimate is the opaque result of a numerical estimator
type Estimate interface {
	// FittedValues are one step ahead predictions aligned to the training series
	FittedValues() []float64
	Residuals() []float64
	Sigma2() float64
	NumParams() int
	InformationCriterion(c sarimax.Criterion) (float64, error)
	Forecast(steps int, exog *mat.Dense, alpha float64) (*sarimax.Forecast, error)
}

// Estimator fits a seasonal ARIMA model to a series with optional regressors
type Estimator interface {
	Estimate(y []float64, order sarimax.Order, exog *mat.Dense) (Estimate, error)
}

// SARIMAX is the default Estimator backed by the sarimax package
type SARIMAX struct {
	est *sarimax.Estimator
}

func NewSARIMAX(opt *sarimax.Options) *SARIMAX {
	return &SARIMAX{est: sarimax.NewEstimator(opt)}
}

func (s *SARIMAX) Estimate(y []float64, order sarimax.Order, exog *mat.Dense) (Estimate, error) {
	model, err := s.est.Estimate(y, order, exog)
	if err != nil {
		return nil, err
	}
	return model, nil
}
