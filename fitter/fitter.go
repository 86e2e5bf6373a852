package fitter

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aouyang1/go-alchemy/exogenous"
	"github.com/aouyang1/go-alchemy/sarimax"
	"github.com/aouyang1/go-alchemy/timedataset"
)

var (
	ErrFit    = errors.New("unable to fit model")
	ErrNoData = errors.New("no data to fit")
)

// FitError carries the order that failed so the fit can be reproduced
type FitError struct {
	Order sarimax.Order
	Err   error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("unable to fit %s, %v", e.Order, e.Err)
}

func (e *FitError) Unwrap() []error {
	return []error{ErrFit, e.Err}
}

// Fitter fits seasonal ARIMA models through an Estimator. It keeps no state between fits.
type Fitter struct {
	estimator Estimator
	logger    *zap.Logger
	freq      timedataset.Frequency
}

// New returns a Fitter using the SARIMAX estimator when estimator is nil
func New(estimator Estimator, logger *zap.Logger) *Fitter {
	if estimator == nil {
		estimator = NewSARIMAX(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fitter{
		estimator: estimator,
		logger:    logger,
	}
}

// WithFrequency returns a copy of the fitter labeling models with freq instead of the
// frequency inferred from the time index
func (f *Fitter) WithFrequency(freq timedataset.Frequency) *Fitter {
	next := *f
	next.freq = freq
	return &next
}

func (f *Fitter) Logger() *zap.Logger {
	return f.logger
}

// Fit estimates the order on the dataset. quiet silences fit logging and never changes the
// result. Estimator failures are returned as *FitError.
func (f *Fitter) Fit(ds *timedataset.TimeDataset, order sarimax.Order, exog exogenous.Exogenous, quiet bool) (*FittedModel, error) {
	if ds.Len() == 0 {
		return nil, ErrNoData
	}
	if exog == nil {
		exog = exogenous.None{}
	}
	if err := exogenous.Align(exog, ds.T); err != nil {
		return nil, fmt.Errorf("unable to align exogenous regressors, %w", err)
	}

	logger := f.logger
	if quiet {
		logger = zap.NewNop()
	}

	freq, interval, err := timedataset.InferFrequency(ds.T)
	if err != nil {
		freq, interval = timedataset.FreqNone, 0
	}
	if f.freq != "" {
		freq = f.freq
	}

	x := exogenous.Matrix(exog)

	start := time.Now()
	logger.Debug("fitting model",
		zap.Stringer("order", order),
		zap.Int("observations", ds.Len()),
		zap.Strings("exogenous", exogenous.Names(exog)),
	)
	est, err := f.estimator.Estimate(ds.Y, order, x)
	if err != nil {
		logger.Debug("unable to fit model", zap.Stringer("order", order), zap.Error(err))
		return nil, &FitError{Order: order, Err: err}
	}
	logger.Debug("fit model",
		zap.Stringer("order", order),
		zap.Float64("sigma2", est.Sigma2()),
		zap.Int("params", est.NumParams()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &FittedModel{
		Order:     order,
		T:         append([]time.Time(nil), ds.T...),
		Y:         append([]float64(nil), ds.Y...),
		Frequency: freq,
		Interval:  interval,
		Exog:      exog,
		Estimate:  est,
	}, nil
}
