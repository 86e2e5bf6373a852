package stationarity

import (
	"github.com/aouyang1/go-alchemy/stats"
	"github.com/aouyang1/go-alchemy/transform"
)

// Options configures the differencing search
type Options struct {
	// Significance is the ADF p-value below which the series is considered stationary
	Significance float64 `json:"significance"`
	MaxD         int     `json:"max_d"`
	MaxSeasonalD int     `json:"max_seasonal_d"`

	// SeasonalStrengthThreshold is the seasonal strength at or above which a seasonal
	// difference is taken
	SeasonalStrengthThreshold float64 `json:"seasonal_strength_threshold"`
	MinObservations           int     `json:"min_observations"`

	ADF *stats.ADFOptions `json:"adf"`

	// Transform is one of auto, identity or log. auto uses TransformPolicy which defaults to
	// the heuristic policy.
	Transform       string           `json:"transform"`
	TransformPolicy transform.Policy `json:"-"`
}

func NewDefaultOptions() *Options {
	return &Options{
		Significance:              0.05,
		MaxD:                      2,
		MaxSeasonalD:              1,
		SeasonalStrengthThreshold: 0.64,
		MinObservations:           10,
		ADF:                       stats.NewDefaultADFOptions(),
		Transform:                 "auto",
	}
}

func (o *Options) policy() (transform.Policy, error) {
	if o.TransformPolicy != nil {
		return o.TransformPolicy, nil
	}
	switch o.Transform {
	case "", "auto":
		return transform.DefaultPolicy(), nil
	}
	kind, err := transform.ParseKind(o.Transform)
	if err != nil {
		return nil, err
	}
	return transform.Fixed(kind), nil
}
