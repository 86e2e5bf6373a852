package stationarity

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/aouyang1/go-alchemy/stats"
	"github.com/aouyang1/go-alchemy/timedataset"
	"github.com/aouyang1/go-alchemy/transform"
)

var (
	ErrInsufficientData = errors.New("insufficient data for stationarity analysis")
	ErrNonFiniteValue   = errors.New("series contains a non-finite value")
)

// InsufficientDataError reports a series too short for the requested step
type InsufficientDataError struct {
	Step     string
	N        int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s needs at least %d observations, got %d", e.Step, e.Required, e.N)
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

// Result describes how the series was made stationary
type Result struct {
	Series *timedataset.TimeDataset `json:"-"`

	// Transformed is the series after the variance stabilizing transform
	Transformed []float64 `json:"-"`

	// Differenced is Transformed after d regular and D seasonal differences and feeds the
	// autocorrelation estimates
	Differenced []float64 `json:"-"`

	D         int            `json:"d"`
	SeasonalD int            `json:"seasonal_d"`
	Period    int            `json:"period"`
	Transform transform.Kind `json:"transform"`

	// TransformFallback is the *transform.InvalidTransformError when the requested transform
	// could not be applied
	TransformFallback error `json:"-"`

	ADF              []*stats.ADFResult `json:"adf"`
	SeasonalStrength float64            `json:"seasonal_strength"`

	Description []string `json:"description"`

	// Notes are non fatal conditions such as skipped seasonal differencing
	Notes []error `json:"-"`
}

func (r *Result) describe(format string, args ...any) {
	r.Description = append(r.Description, fmt.Sprintf(format, args...))
}

// Analyze chooses a transform and the differencing orders d and D that make the series
// stationary.
func Analyze(ds *timedataset.TimeDataset, freq timedataset.Frequency, opt *Options) (*Result, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if ds.Len() < opt.MinObservations || ds.Len() == 0 {
		return nil, &InsufficientDataError{Step: "stationarity analysis", N: ds.Len(), Required: max(opt.MinObservations, 1)}
	}
	for i, v := range ds.Y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("value %g at index %d, %w", v, i, ErrNonFiniteValue)
		}
	}

	policy, err := opt.policy()
	if err != nil {
		return nil, fmt.Errorf("unable to build transform policy, %w", err)
	}

	res := &Result{
		Series: ds,
		Period: freq.SeasonalPeriod(),
	}

	sel := transform.Select(policy, ds.Y)
	res.Transform = sel.Kind
	res.Transformed = sel.Y
	if sel.Fallback != nil {
		res.TransformFallback = sel.Fallback
		res.Notes = append(res.Notes, sel.Fallback)
		res.describe("%s transform requested but not applicable (%v), using identity", sel.Requested, sel.Fallback)
	} else if sel.Kind != transform.Identity {
		res.describe("applied %s transform to stabilize variance", sel.Kind)
	}

	current, err := res.differenceTrend(sel.Y, opt)
	if err != nil {
		return nil, err
	}
	current, err = res.differenceSeason(current, opt)
	if err != nil {
		return nil, err
	}
	res.Differenced = current
	res.describe("differencing orders d=%d D=%d with seasonal period %d", res.D, res.SeasonalD, res.Period)

	return res, nil
}

// differenceTrend takes regular differences until ADF rejects a unit root or MaxD is hit
func (r *Result) differenceTrend(y []float64, opt *Options) ([]float64, error) {
	current := y
	for {
		if stat.Variance(current, nil) == 0 {
			r.describe("series is constant after %d differences, treating as stationary", r.D)
			return current, nil
		}

		adf, err := stats.ADF(current, opt.ADF)
		switch {
		case errors.Is(err, stats.ErrInsufficientData):
			r.Notes = append(r.Notes, &InsufficientDataError{
				Step:     "unit root test",
				N:        len(current),
				Required: stats.MinADFObservations,
			})
			r.describe("too few observations to test for a unit root after %d differences", r.D)
			return current, nil
		case err != nil:
			// a perfectly fitting regression, e.g. a deterministic trend, is treated as
			// non-stationary
			r.describe("unit root test undefined after %d differences (%v)", r.D, err)
		default:
			r.ADF = append(r.ADF, adf)
			if adf.Stationary(opt.Significance) {
				r.describe("ADF statistic %.4f with p-value %.4f < %.2f, stationary after %d differences",
					adf.Statistic, adf.PValue, opt.Significance, r.D)
				return current, nil
			}
			r.describe("ADF statistic %.4f with p-value %.4f >= %.2f, unit root not rejected after %d differences",
				adf.Statistic, adf.PValue, opt.Significance, r.D)
		}

		if r.D >= opt.MaxD {
			r.describe("reached maximum of %d differences", opt.MaxD)
			return current, nil
		}
		next, err := stats.Diff(current, 1)
		if err != nil {
			if errors.Is(err, stats.ErrInsufficientData) {
				r.Notes = append(r.Notes, &InsufficientDataError{Step: "differencing", N: len(current), Required: 2})
				return current, nil
			}
			return nil, fmt.Errorf("unable to difference series, %w", err)
		}
		current = next
		r.D++
	}
}

// differenceSeason takes seasonal differences while the seasonal strength stays at or above
// the threshold
func (r *Result) differenceSeason(y []float64, opt *Options) ([]float64, error) {
	s := r.Period
	if s <= 1 {
		r.describe("no seasonal period for the sampling frequency")
		return y, nil
	}
	if len(y) < 2*s {
		note := &InsufficientDataError{Step: "seasonal differencing", N: len(y), Required: 2 * s}
		r.Notes = append(r.Notes, note)
		r.describe("skipped seasonal differencing, %v", note)
		return y, nil
	}

	current := y
	for r.SeasonalD < opt.MaxSeasonalD {
		if len(current) < 2*s {
			break
		}
		strength, err := stats.SeasonalStrength(current, s)
		if err != nil {
			return nil, fmt.Errorf("unable to compute seasonal strength, %w", err)
		}
		if r.SeasonalD == 0 {
			r.SeasonalStrength = strength
		}
		if strength < opt.SeasonalStrengthThreshold {
			r.describe("seasonal strength %.4f < %.2f at period %d, no seasonal difference needed",
				strength, opt.SeasonalStrengthThreshold, s)
			return current, nil
		}

		next, err := stats.SeasonalDiff(current, s, 1)
		if err != nil {
			return nil, fmt.Errorf("unable to seasonally difference series, %w", err)
		}
		r.describe("seasonal strength %.4f >= %.2f at period %d, seasonally differenced",
			strength, opt.SeasonalStrengthThreshold, s)
		current = next
		r.SeasonalD++
	}
	return current, nil
}
