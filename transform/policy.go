package transform

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Policy decides which transform a series should receive
type Policy interface {
	Choose(y []float64) Kind
}

// Fixed always chooses the same transform
type Fixed Kind

func (f Fixed) Choose(y []float64) Kind {
	return Kind(f)
}

type HeuristicOptions struct {
	Segments       int     `json:"segments"`
	MinSegmentLen  int     `json:"min_segment_length"`
	MinStdRatio    float64 `json:"min_std_ratio"`
	MinMeanStdCorr float64 `json:"min_mean_std_correlation"`
	MinImprovement float64 `json:"min_improvement"`
}

func NewDefaultHeuristicOptions() *HeuristicOptions {
	return &HeuristicOptions{
		Segments:       4,
		MinSegmentLen:  3,
		MinStdRatio:    2.0,
		MinMeanStdCorr: 0.6,
		MinImprovement: 0.1,
	}
}

// Heuristic chooses Log when the spread of the series grows with its level. The series is cut
// into equal segments and Log is picked only if
//   - every value is strictly positive
//   - the largest segment standard deviation is at least MinStdRatio times the smallest
//   - segment means and standard deviations correlate above MinMeanStdCorr
//   - the log series shrinks that ratio by at least MinImprovement
type Heuristic struct {
	opt *HeuristicOptions
}

func NewHeuristic(opt *HeuristicOptions) *Heuristic {
	if opt == nil {
		opt = NewDefaultHeuristicOptions()
	}
	return &Heuristic{opt: opt}
}

// DefaultPolicy returns the heuristic policy with default options
func DefaultPolicy() Policy {
	return NewHeuristic(nil)
}

func (h *Heuristic) Choose(y []float64) Kind {
	if h == nil || h.opt == nil {
		return Identity
	}
	if err := Log.Valid(y); err != nil {
		return Identity
	}

	means, stds := segmentMoments(y, h.opt.Segments, h.opt.MinSegmentLen)
	if len(stds) < 2 {
		return Identity
	}
	ratio := stdRatio(stds)
	if ratio < h.opt.MinStdRatio {
		return Identity
	}
	if corr := stat.Correlation(means, stds, nil); math.IsNaN(corr) || corr < h.opt.MinMeanStdCorr {
		return Identity
	}

	logY, err := Log.Apply(y)
	if err != nil {
		return Identity
	}
	_, logStds := segmentMoments(logY, h.opt.Segments, h.opt.MinSegmentLen)
	logRatio := stdRatio(logStds)
	if logRatio > ratio*(1-h.opt.MinImprovement) {
		return Identity
	}
	return Log
}

func segmentMoments(y []float64, segments, minLen int) ([]float64, []float64) {
	if segments < 2 {
		return nil, nil
	}
	segLen := len(y) / segments
	if segLen < minLen || segLen < 2 {
		return nil, nil
	}
	means := make([]float64, 0, segments)
	stds := make([]float64, 0, segments)
	for i := 0; i < segments; i++ {
		m, s := stat.MeanStdDev(y[i*segLen:(i+1)*segLen], nil)
		means = append(means, m)
		stds = append(stds, s)
	}
	return means, stds
}

func stdRatio(stds []float64) float64 {
	if len(stds) == 0 {
		return 1
	}
	lo := floats.Min(stds)
	hi := floats.Max(stds)
	if lo <= 0 {
		if hi <= 0 {
			return 1
		}
		return math.Inf(1)
	}
	return hi / lo
}

// Selection is the outcome of applying a policy to a series
type Selection struct {
	Requested Kind
	Kind      Kind
	Y         []float64

	// Fallback holds the *InvalidTransformError when the requested transform could not be
	// applied and Identity was used instead
	Fallback error
}

// Select applies the transform chosen by the policy. A transform that is invalid for the data
// falls back to Identity and records the reason instead of failing.
func Select(p Policy, y []float64) *Selection {
	if p == nil {
		p = DefaultPolicy()
	}
	requested := p.Choose(y)
	sel := &Selection{
		Requested: requested,
		Kind:      requested,
	}
	res, err := requested.Apply(y)
	if err != nil {
		sel.Kind = Identity
		sel.Fallback = err
		res, _ = Identity.Apply(y)
	}
	sel.Y = res
	return sel
}
