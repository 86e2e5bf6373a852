package sarimax

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/aouyang1/go-alchemy/regression"
	"github.com/aouyang1/go-alchemy/stats"
)

// penalty replaces non-finite objective values so the simplex moves away from them
const penalty = 1e300

// zeroColumnTol is the largest absolute value of a differenced regressor that is still
// treated as identically zero
const zeroColumnTol = 1e-12

// Estimator fits regression models with seasonal ARIMA errors
type Estimator struct {
	opt *Options
}

func NewEstimator(opt *Options) *Estimator {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	return &Estimator{opt: opt}
}

// Estimate fits y = X*beta + u where u follows the seasonal ARIMA order. exog may be nil.
// The regression coefficients are estimated on the differenced series and the ARMA
// parameters by conditional sum of squares.
func (e *Estimator) Estimate(y []float64, order Order, exog *mat.Dense) (*Model, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("value %g at index %d, %w", v, i, ErrNonFiniteValue)
		}
	}

	n := len(y)
	kExog := 0
	if exog != nil {
		rows, cols := exog.Dims()
		if rows != n {
			return nil, fmt.Errorf("regressors have %d rows and series has %d observations, %w", rows, n, ErrExogMismatch)
		}
		kExog = cols
	}

	nd := order.burnIn()
	period := order.period()
	hasConst := e.opt.IncludeMean && nd == 0
	kARMA := order.Sum()
	if kARMA == 0 && nd == 0 && !hasConst && kExog == 0 {
		return nil, fmt.Errorf("%s, %w", order, ErrDegenerateOrder)
	}

	kRegression := kExog
	if hasConst {
		kRegression++
	}
	nEff := n - nd
	if required := kARMA + kRegression + 3; nEff < required {
		return nil, fmt.Errorf(
			"%s leaves %d observations after differencing, need at least %d, %w",
			order, nEff, required, ErrInsufficientData,
		)
	}

	wy, err := difference(y, order.D, order.SeasonalD, period)
	if err != nil {
		return nil, fmt.Errorf("unable to difference series, %w", err)
	}

	m := &Model{
		order:    order,
		n:        n,
		nd:       nd,
		period:   period,
		hasConst: hasConst,
		y:        append([]float64(nil), y...),
		beta:     make([]float64, kExog),
	}
	if exog != nil {
		m.exog = mat.DenseCopyOf(exog)
	}

	z, err := m.regress(wy, exog)
	if err != nil {
		return nil, err
	}
	m.z = z

	if err := m.fitARMA(e.opt); err != nil {
		return nil, err
	}
	return m, nil
}

func difference(y []float64, d, bigD, period int) ([]float64, error) {
	res, err := stats.SeasonalDiff(y, period, bigD)
	if err != nil {
		return nil, err
	}
	return stats.Diff(res, d)
}

// regress removes the regression on the differenced exogenous regressors and the constant.
// Regressors that vanish after differencing keep a zero coefficient.
func (m *Model) regress(wy []float64, exog *mat.Dense) ([]float64, error) {
	kExog := len(m.beta)
	if kExog == 0 && !m.hasConst {
		return wy, nil
	}

	var kept []int
	var wx *mat.Dense
	if kExog > 0 {
		cols := make([][]float64, 0, kExog)
		for j := 0; j < kExog; j++ {
			col, err := difference(mat.Col(nil, j, exog), m.order.D, m.order.SeasonalD, m.period)
			if err != nil {
				return nil, fmt.Errorf("unable to difference regressor %d, %w", j, err)
			}
			if floats.Max(col) <= zeroColumnTol && floats.Min(col) >= -zeroColumnTol {
				m.dropped = append(m.dropped, j)
				continue
			}
			kept = append(kept, j)
			cols = append(cols, col)
		}
		if len(cols) > 0 {
			wx = mat.NewDense(len(wy), len(cols), nil)
			for c, col := range cols {
				wx.SetCol(c, col)
			}
		}
	}
	if wx == nil && !m.hasConst {
		return wy, nil
	}

	ols := regression.NewOLS(&regression.OLSOptions{FitIntercept: m.hasConst})
	var design mat.Matrix
	if wx != nil {
		design = wx
	}
	if err := ols.Fit(design, wy); err != nil {
		if errors.Is(err, regression.ErrSingularMatrix) {
			return nil, fmt.Errorf("regressors are collinear after differencing, %w: %w", ErrExogMismatch, err)
		}
		return nil, fmt.Errorf("unable to fit regression, %w", err)
	}
	m.intercept = ols.Intercept()
	for c, j := range kept {
		m.beta[j] = ols.Coef()[c]
	}
	return ols.Residuals(), nil
}

// fitARMA estimates the ARMA parameters of z by minimizing the conditional sum of squares
func (m *Model) fitARMA(opt *Options) error {
	o := m.order
	k := o.Sum()
	resid := make([]float64, len(m.z))

	objective := func(x []float64) float64 {
		m.setParams(x)
		sse := cssResiduals(m.z, m.arFull, m.maFull, resid)
		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return penalty
		}
		return sse / float64(len(m.z))
	}

	x := make([]float64, k)
	if k > 0 && floats.Max(m.z) != floats.Min(m.z) {
		problem := optimize.Problem{Func: objective}
		settings := &optimize.Settings{
			FuncEvaluations: opt.maxEvaluations(k),
			Converger: &optimize.FunctionConverge{
				Absolute:   1e-12,
				Relative:   opt.Tolerance,
				Iterations: max(100, 20*k),
			},
		}
		method := &optimize.NelderMead{SimplexSize: opt.SimplexSize}
		result, err := optimize.Minimize(problem, x, settings, method)
		if err != nil {
			return fmt.Errorf("%s, %w: %w", o, ErrNotConverged, err)
		}
		switch result.Status {
		case optimize.FunctionEvaluationLimit, optimize.IterationLimit, optimize.RuntimeLimit, optimize.Failure:
			return fmt.Errorf("%s stopped with status %s after %d evaluations, %w",
				o, result.Status, result.Stats.FuncEvaluations, ErrNotConverged)
		}
		if result.F >= penalty {
			return fmt.Errorf("%s has no finite sum of squares, %w", o, ErrNotConverged)
		}
		x = result.X
	}

	m.setParams(x)
	sse := cssResiduals(m.z, m.arFull, m.maFull, resid)
	if math.IsNaN(sse) || math.IsInf(sse, 0) {
		return fmt.Errorf("%s has no finite sum of squares, %w", o, ErrNotConverged)
	}
	m.resid = resid

	nEff := len(m.z)
	m.sigma2 = math.Max(sse/float64(nEff), opt.MinSigma2)
	m.llf = stats.GaussianLogLikelihood(m.sigma2, nEff)
	m.nParams = k + len(m.beta) - len(m.dropped) + 1
	if m.hasConst {
		m.nParams++
	}
	return nil
}

// setParams maps the unconstrained parameter vector laid out as [ar, ma, seasonal ar,
// seasonal ma] to stationary and invertible coefficients
func (m *Model) setParams(x []float64) {
	o := m.order
	idx := 0
	next := func(n int) []float64 {
		v := x[idx : idx+n]
		idx += n
		return v
	}
	m.ar = constrain(next(o.P))
	m.ma = negate(constrain(next(o.Q)))
	m.sar = constrain(next(o.SeasonalP))
	m.sma = negate(constrain(next(o.SeasonalQ)))
	m.arFull, m.maFull = armaCoefficients(m.ar, m.ma, m.sar, m.sma, m.period)
}

func negate(x []float64) []float64 {
	for i := range x {
		x[i] = -x[i]
	}
	return x
}
