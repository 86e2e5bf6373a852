package gridsearch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aouyang1/go-alchemy/exogenous"
	"github.com/aouyang1/go-alchemy/fitter"
	"github.com/aouyang1/go-alchemy/sarimax"
	"github.com/aouyang1/go-alchemy/timedataset"
)

var (
	ErrSearchExhausted = errors.New("no candidate could be fit")
	ErrUndefinedScore  = errors.New("information criterion is undefined")
)

// SearchExhaustedError is returned when every evaluated candidate failed. LastErr is the
// failure of the latest candidate in enumeration order.
type SearchExhaustedError struct {
	Evaluated int
	LastErr   error
}

func (e *SearchExhaustedError) Error() string {
	return fmt.Sprintf("all %d evaluated candidates failed, last error: %v", e.Evaluated, e.LastErr)
}

func (e *SearchExhaustedError) Unwrap() []error {
	return []error{ErrSearchExhausted, e.LastErr}
}

type Options struct {
	Criterion sarimax.Criterion `json:"criterion"`

	// Parallelization is the number of concurrent fits. Zero uses the number of CPUs.
	Parallelization int `json:"parallelization"`

	// MaxCandidates caps the number of evaluated candidates. Zero evaluates all.
	MaxCandidates int `json:"max_candidates"`

	// Timeout caps the wall time of the search. Zero means no limit.
	Timeout time.Duration `json:"timeout"`
}

func NewDefaultOptions() *Options {
	return &Options{
		Criterion:       sarimax.AIC,
		Parallelization: runtime.NumCPU(),
	}
}

// Scored is an evaluated candidate
type Scored struct {
	Index int           `json:"index"`
	Order sarimax.Order `json:"order"`
	Score float64       `json:"score"`
	Err   error         `json:"-"`
}

// better orders by score, then by the number of ARMA terms, then by enumeration position
func (s Scored) better(o Scored) bool {
	if s.Score != o.Score {
		return s.Score < o.Score
	}
	if s.Order.Sum() != o.Order.Sum() {
		return s.Order.Sum() < o.Order.Sum()
	}
	return s.Index < o.Index
}

type Result struct {
	Best      sarimax.Order     `json:"best"`
	Score     float64           `json:"score"`
	Criterion sarimax.Criterion `json:"criterion"`
	Evaluated int               `json:"evaluated"`
	Failed    int               `json:"failed"`
	Total     int               `json:"total"`
	Truncated bool              `json:"truncated"`
	Elapsed   time.Duration     `json:"elapsed"`
}

// Search fits every candidate order on the training series and returns the one with the
// lowest information criterion. Failed fits score +Inf and are skipped. The result does not
// depend on the order in which the workers finish.
func Search(
	ctx context.Context,
	f *fitter.Fitter,
	train *timedataset.TimeDataset,
	exog exogenous.Exogenous,
	ranges Ranges,
	d, bigD, period int,
	opt *Options,
) (*Result, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if err := ranges.Validate(); err != nil {
		return nil, err
	}
	criterion := opt.Criterion
	if criterion == "" {
		criterion = sarimax.AIC
	}
	if _, err := sarimax.ParseCriterion(string(criterion)); err != nil {
		return nil, err
	}
	workers := opt.Parallelization
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	searchCtx := ctx
	if opt.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, opt.Timeout)
		defer cancel()
	}

	total := 0
	for range Candidates(ranges, d, bigD, period) {
		total++
	}

	start := time.Now()
	jobs := make(chan Candidate)
	results := make(chan Scored)

	g, gctx := errgroup.WithContext(searchCtx)
	g.Go(func() error {
		defer close(jobs)
		emitted := 0
		for cand := range Candidates(ranges, d, bigD, period) {
			if opt.MaxCandidates > 0 && emitted >= opt.MaxCandidates {
				return nil
			}
			select {
			case jobs <- cand:
				emitted++
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for cand := range jobs {
				if gctx.Err() != nil {
					continue
				}
				results <- evaluate(f, train, exog, cand, criterion)
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()

	var (
		best    Scored
		found   bool
		lastErr Scored
	)
	res := &Result{
		Criterion: criterion,
		Total:     total,
		Score:     math.Inf(1),
	}
	logger := f.Logger()
	for scored := range results {
		res.Evaluated++
		if scored.Err != nil {
			logger.Debug("candidate failed", zap.Stringer("order", scored.Order), zap.Error(scored.Err))
			res.Failed++
			if lastErr.Err == nil || scored.Index > lastErr.Index {
				lastErr = scored
			}
			continue
		}
		logger.Debug("scored candidate", zap.Stringer("order", scored.Order), zap.Float64(string(criterion), scored.Score))
		if !found || scored.better(best) {
			best = scored
			found = true
		}
	}
	res.Elapsed = time.Since(start)
	res.Truncated = res.Evaluated < total

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search cancelled after %d candidates, %w", res.Evaluated, err)
	}
	if !found {
		cause := lastErr.Err
		if cause == nil {
			cause = searchCtx.Err()
		}
		return nil, &SearchExhaustedError{Evaluated: res.Evaluated, LastErr: cause}
	}
	res.Best = best.Order
	res.Score = best.Score
	logResult(logger, res)
	return res, nil
}

func evaluate(f *fitter.Fitter, train *timedataset.TimeDataset, exog exogenous.Exogenous, cand Candidate, criterion sarimax.Criterion) Scored {
	scored := Scored{
		Index: cand.Index,
		Order: cand.Order,
		Score: math.Inf(1),
	}
	model, err := f.Fit(train, cand.Order, exog, true)
	if err != nil {
		scored.Err = err
		return scored
	}
	score, err := model.Score(criterion)
	if err != nil {
		scored.Err = err
		return scored
	}
	if math.IsNaN(score) || math.IsInf(score, 1) {
		scored.Err = fmt.Errorf("%s scored %g, %w", cand.Order, score, ErrUndefinedScore)
		return scored
	}
	scored.Score = score
	return scored
}

// logResult reports the outcome of a search
func logResult(logger *zap.Logger, res *Result) {
	logger.Info("grid search complete",
		zap.Stringer("best", res.Best),
		zap.Float64("score", res.Score),
		zap.Int("evaluated", res.Evaluated),
		zap.Int("failed", res.Failed),
		zap.Int("total", res.Total),
		zap.Bool("truncated", res.Truncated),
		zap.Duration("elapsed", res.Elapsed),
	)
}
