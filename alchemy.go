package alchemy

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/aouyang1/go-alchemy/autocorr"
	"github.com/aouyang1/go-alchemy/exogenous"
	"github.com/aouyang1/go-alchemy/fitter"
	"github.com/aouyang1/go-alchemy/gridsearch"
	"github.com/aouyang1/go-alchemy/predict"
	"github.com/aouyang1/go-alchemy/sarimax"
	"github.com/aouyang1/go-alchemy/stationarity"
	"github.com/aouyang1/go-alchemy/stats"
	"github.com/aouyang1/go-alchemy/timedataset"
)

var ErrEmptyTimeDataset = errors.New("no timedataset or uninitialized")

// Pipeline selects, validates and forecasts a seasonal ARIMA model for a series
type Pipeline struct {
	opt    *Options
	logger *zap.Logger
}

// New creates a new instance of a Pipeline using the provided options. If no options are
// provided a default is used.
func New(opt *Options, logger *zap.Logger) (*Pipeline, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := opt.Validate(); err != nil {
		return nil, fmt.Errorf("unable to initialize pipeline, %w", err)
	}
	return &Pipeline{
		opt:    opt,
		logger: logger,
	}, nil
}

// Run analyzes the series, picks an order, fits a validation model on the training slice
// and a final model on the whole series, then predicts and forecasts with them. exog may be
// nil or exogenous.None{}.
func (p *Pipeline) Run(ctx context.Context, t []time.Time, y []float64, exog exogenous.Exogenous) (*Report, error) {
	ds, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return nil, fmt.Errorf("unable to create dataset, %w", err)
	}
	if exog == nil {
		exog = exogenous.None{}
	}
	if err := exogenous.Align(exog, ds.T); err != nil {
		return nil, fmt.Errorf("unable to align exogenous regressors, %w", err)
	}

	freq := p.opt.Frequency
	if freq == "" {
		freq, _, err = timedataset.InferFrequency(ds.T)
		if err != nil {
			return nil, fmt.Errorf("unable to infer frequency, %w", err)
		}
	}
	p.logger.Info("running pipeline",
		zap.Int("observations", ds.Len()),
		zap.String("frequency", string(freq)),
		zap.Strings("exogenous", exogenous.Names(exog)),
	)

	rep := &Report{
		Frequency:    freq,
		Observations: ds.Len(),
		Exogenous:    exogenous.Names(exog),
	}

	analysis, err := stationarity.Analyze(ds, freq, p.opt.Stationarity)
	if err != nil {
		return nil, fmt.Errorf("unable to analyze stationarity, %w", err)
	}
	rep.Analysis = analysis
	for _, note := range analysis.Notes {
		rep.note("%v", note)
	}
	p.logger.Info("analyzed stationarity",
		zap.Stringer("transform", analysis.Transform),
		zap.Int("d", analysis.D),
		zap.Int("seasonal_d", analysis.SeasonalD),
		zap.Int("period", analysis.Period),
		zap.Float64("seasonal_strength", analysis.SeasonalStrength),
	)

	period := analysis.Period
	series, err := timedataset.NewUnivariateDataset(ds.T, analysis.Transformed)
	if err != nil {
		return nil, fmt.Errorf("unable to create transformed dataset, %w", err)
	}

	testSize, err := p.opt.testSize(series.Len(), period)
	if err != nil {
		return nil, err
	}
	rep.TestSize = testSize
	rep.Horizon = p.opt.horizon(period, testSize)

	train, test, err := series.Split(testSize)
	if err != nil {
		return nil, fmt.Errorf("unable to split series, %w", err)
	}
	exogTrain, exogTest, err := exogenous.Split(exog, train.Len())
	if err != nil {
		return nil, fmt.Errorf("unable to split exogenous regressors, %w", err)
	}

	order, err := p.selectOrder(ctx, rep, train, exogTrain)
	if err != nil {
		return nil, err
	}
	rep.Order = order

	f := fitter.New(fitter.NewSARIMAX(p.opt.Estimator), p.logger).WithFrequency(freq)
	rep.Validation, err = p.fitValidation(f, rep, train, order, exogTrain)
	if err != nil {
		return nil, fmt.Errorf("unable to fit validation model, %w", err)
	}
	order = rep.Validation.Order
	rep.Order = order
	rep.Final, err = f.Fit(series, order, exog, true)
	if err != nil {
		return nil, fmt.Errorf("unable to fit final model, %w", err)
	}

	window, err := train.Tail(p.opt.inSampleWindow())
	if err != nil {
		return nil, fmt.Errorf("unable to slice in sample window, %w", err)
	}
	rep.Train, err = predict.Predict(window, period, analysis.Transform, rep.Validation, exogTrain, false, p.opt.Alpha)
	if err != nil {
		return nil, fmt.Errorf("unable to predict training set, %w", err)
	}
	rep.Test, err = predict.Predict(test, period, analysis.Transform, rep.Validation, exogTest, true, p.opt.Alpha)
	if err != nil {
		return nil, fmt.Errorf("unable to predict test set, %w", err)
	}

	rep.Forecast, err = predict.Forecast(rep.Final, rep.Horizon, analysis.Transform, p.opt.Alpha)
	var unsupported *predict.ExogenousForecastUnsupportedError
	switch {
	case errors.As(err, &unsupported):
		rep.ForecastErr = unsupported
		p.logger.Warn("skipping forecast, future exogenous values are unknown", zap.Strings("covariates", unsupported.Covariates))
	case err != nil:
		return nil, fmt.Errorf("unable to forecast, %w", err)
	}

	p.diagnose(rep, ds, exog)

	crit := p.opt.criterion()
	score, err := rep.Final.Score(crit)
	if err != nil {
		rep.note("unable to score final model, %v", err)
	}
	p.logger.Info("pipeline complete",
		zap.Stringer("order", rep.Order),
		zap.String("criterion", string(crit)),
		zap.Float64("score", score),
		zap.Float64("test_mse", rep.Test.Scores.MSE),
		zap.Float64("test_mape", rep.Test.Scores.MAPE),
		zap.Int("horizon", rep.Horizon),
	)
	return rep, nil
}

// selectOrder suggests an order from the correlograms and optionally refines it with a grid
// search on the training slice. An exhausted search keeps the suggested order.
func (p *Pipeline) selectOrder(ctx context.Context, rep *Report, train *timedataset.TimeDataset, exogTrain exogenous.Exogenous) (sarimax.Order, error) {
	analysis := rep.Analysis
	period := analysis.Period

	rep.Suggestion = autocorr.Suggest(analysis.Differenced, period, p.opt.Autocorr)
	suggested := sarimax.Order{
		P:         rep.Suggestion.P,
		D:         analysis.D,
		Q:         rep.Suggestion.Q,
		SeasonalP: rep.Suggestion.SeasonalP,
		SeasonalD: analysis.SeasonalD,
		SeasonalQ: rep.Suggestion.SeasonalQ,
		Period:    period,
	}
	if period <= 1 {
		suggested.SeasonalP, suggested.SeasonalD, suggested.SeasonalQ, suggested.Period = 0, 0, 0, 0
	}
	rep.Suggested = suggested
	p.logger.Info("suggested order", zap.Stringer("order", suggested))

	if p.opt.Order != nil {
		rep.note("using order override %s", *p.opt.Order)
		return *p.opt.Order, nil
	}
	if !p.opt.GridSearch {
		return suggested, nil
	}

	pad := p.opt.SearchPadding - 1
	ranges := gridsearch.NewRanges(suggested.P+pad, suggested.Q+pad, suggested.SeasonalP+pad, suggested.SeasonalQ+pad)
	searchFitter := fitter.New(fitter.NewSARIMAX(p.opt.Estimator), p.logger).WithFrequency(rep.Frequency)
	res, err := gridsearch.Search(ctx, searchFitter, train, exogTrain, ranges, suggested.D, suggested.SeasonalD, period, p.opt.Search)
	var exhausted *gridsearch.SearchExhaustedError
	switch {
	case errors.As(err, &exhausted):
		rep.note("grid search failed, keeping suggested order: %v", exhausted)
		p.logger.Warn("grid search exhausted, keeping suggested order", zap.Error(exhausted))
		return suggested, nil
	case err != nil:
		return sarimax.Order{}, fmt.Errorf("unable to search orders, %w", err)
	}
	rep.Search = res
	if res.Truncated {
		rep.note("grid search evaluated %d of %d candidates", res.Evaluated, res.Total)
	}
	return res.Best, nil
}

// fitValidation fits the order on the training slice. A suggested or searched order that
// cannot be fit is shrunk one term at a time, seasonal terms first, until a fit succeeds.
// Order overrides are never shrunk.
func (p *Pipeline) fitValidation(f *fitter.Fitter, rep *Report, train *timedataset.TimeDataset, order sarimax.Order, exogTrain exogenous.Exogenous) (*fitter.FittedModel, error) {
	for {
		model, err := f.Fit(train, order, exogTrain, p.opt.Quiet)
		if err == nil {
			return model, nil
		}
		if p.opt.Order != nil {
			return nil, err
		}
		next, ok := shrink(order)
		if !ok {
			return nil, err
		}
		rep.note("unable to fit %s, falling back to %s: %v", order, next, err)
		p.logger.Warn("falling back to a smaller order",
			zap.Stringer("order", order),
			zap.Stringer("fallback", next),
			zap.Error(err),
		)
		order = next
	}
}

func shrink(o sarimax.Order) (sarimax.Order, bool) {
	switch {
	case o.SeasonalQ > 0:
		o.SeasonalQ--
	case o.SeasonalP > 0:
		o.SeasonalP--
	case o.Q > 0 && o.Q >= o.P:
		o.Q--
	case o.P > 0:
		o.P--
	default:
		return o, false
	}
	return o, true
}

// diagnose checks the final residuals and the regressors. Failures are recorded as notes.
func (p *Pipeline) diagnose(rep *Report, ds *timedataset.TimeDataset, exog exogenous.Exogenous) {
	resid := rep.Final.Estimate.Residuals()

	valid := 0
	for _, r := range resid {
		if !math.IsNaN(r) {
			valid++
		}
	}
	lb, err := stats.LjungBox(resid, stats.DefaultLjungBoxLags(valid, rep.Analysis.Period), rep.Order.Sum())
	if err != nil {
		rep.note("residual autocorrelation test skipped: %v", err)
	} else {
		rep.LjungBox = lb
		if !lb.WhiteNoise(p.opt.Alpha) {
			rep.note("residuals are autocorrelated (Ljung-Box p-value %.4f), consider a larger order", lb.PValue)
		}
	}

	if p.opt.Outliers != nil {
		idxs := stats.DetectOutliers(resid, p.opt.Outliers.LowerPercentile, p.opt.Outliers.UpperPercentile, p.opt.Outliers.TukeyFactor)
		for _, idx := range idxs {
			rep.Outliers = append(rep.Outliers, ds.T[idx])
		}
		if len(idxs) > 0 {
			p.logger.Warn("detected residual outliers", zap.Int("count", len(idxs)))
		}
	}

	if ex, ok := exog.(exogenous.Present); ok && len(ex.Names) > 1 {
		vif, err := stats.VarianceInflationFactor(ex.Names, ex.X)
		if err != nil {
			rep.note("variance inflation factors skipped: %v", err)
			return
		}
		rep.VIF = vif
	}
}
