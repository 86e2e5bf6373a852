package alchemy

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-alchemy/autocorr"
	"github.com/aouyang1/go-alchemy/gridsearch"
	"github.com/aouyang1/go-alchemy/sarimax"
	"github.com/aouyang1/go-alchemy/stationarity"
	"github.com/aouyang1/go-alchemy/timedataset"
)

var (
	ErrInvalidOption   = errors.New("invalid option")
	ErrInvalidTestSize = errors.New("invalid test size")
)

// OutlierOptions flag residuals outside the percentile range widened by TukeyFactor times the
// inner range
type OutlierOptions struct {
	UpperPercentile float64 `json:"upper_percentile"`
	LowerPercentile float64 `json:"lower_percentile"`
	TukeyFactor     float64 `json:"tukey_factor"`
}

func NewOutlierOptions() *OutlierOptions {
	return &OutlierOptions{
		UpperPercentile: 0.9,
		LowerPercentile: 0.1,
		TukeyFactor:     1.0,
	}
}

type Options struct {
	// Frequency labels the sampling period. Empty infers it from the time index.
	Frequency timedataset.Frequency `json:"frequency"`

	// TestSize is the number of trailing observations held out for validation. Zero uses one
	// seasonal period, or a tenth of the series without seasonality, capped at a quarter of
	// the series.
	TestSize int `json:"test_size"`

	// InSampleWindow is the number of trailing training observations predicted in sample
	InSampleWindow int `json:"in_sample_window"`

	// Horizon is the number of periods forecast past the series. Zero uses one seasonal
	// period or the test size.
	Horizon int `json:"horizon"`

	// Alpha sets the 1-alpha confidence intervals
	Alpha float64 `json:"alpha"`

	GridSearch bool `json:"grid_search"`

	// SearchPadding extends every searched order range to suggested+SearchPadding-1
	SearchPadding int `json:"search_padding"`

	// Order skips the suggestion and search when set
	Order *sarimax.Order `json:"order,omitempty"`

	Stationarity *stationarity.Options `json:"stationarity"`
	Autocorr     *autocorr.Options     `json:"autocorr"`
	Estimator    *sarimax.Options      `json:"estimator"`
	Search       *gridsearch.Options   `json:"search"`
	Outliers     *OutlierOptions       `json:"outliers"`

	// Quiet silences logging of the validation fit
	Quiet bool `json:"quiet"`
}

func NewDefaultOptions() *Options {
	return &Options{
		InSampleWindow: 24,
		Alpha:          0.05,
		SearchPadding:  3,
		Stationarity:   stationarity.NewDefaultOptions(),
		Autocorr:       autocorr.NewDefaultOptions(),
		Estimator:      sarimax.NewDefaultOptions(),
		Search:         gridsearch.NewDefaultOptions(),
		Outliers:       NewOutlierOptions(),
	}
}

func (o *Options) Validate() error {
	if !(o.Alpha > 0 && o.Alpha < 1) {
		return fmt.Errorf("alpha of %g must be in (0, 1), %w", o.Alpha, ErrInvalidOption)
	}
	if o.TestSize < 0 || o.Horizon < 0 || o.InSampleWindow < 0 || o.SearchPadding < 0 {
		return fmt.Errorf("test size, horizon, in sample window and search padding must not be negative, %w", ErrInvalidOption)
	}
	if o.GridSearch && o.SearchPadding < 1 {
		return fmt.Errorf("search padding of %d would exclude the suggested order, %w", o.SearchPadding, ErrInvalidOption)
	}
	if o.Order != nil {
		if err := o.Order.Validate(); err != nil {
			return fmt.Errorf("order override, %w", err)
		}
	}
	if o.Search != nil && o.Search.Criterion != "" {
		if _, err := sarimax.ParseCriterion(string(o.Search.Criterion)); err != nil {
			return err
		}
	}
	return nil
}

func (o *Options) testSize(n, period int) (int, error) {
	size := o.TestSize
	if size == 0 {
		size = max(n/10, 1)
		if period > 1 {
			size = period
		}
		size = min(size, max(n/4, 1))
	}
	if size >= n {
		return 0, fmt.Errorf("holding out %d of %d observations, %w", size, n, ErrInvalidTestSize)
	}
	return size, nil
}

func (o *Options) horizon(period, testSize int) int {
	switch {
	case o.Horizon > 0:
		return o.Horizon
	case period > 1:
		return period
	default:
		return testSize
	}
}

func (o *Options) inSampleWindow() int {
	if o.InSampleWindow > 0 {
		return o.InSampleWindow
	}
	return 24
}

func (o *Options) criterion() sarimax.Criterion {
	if o.Search == nil || o.Search.Criterion == "" {
		return sarimax.AIC
	}
	return o.Search.Criterion
}
