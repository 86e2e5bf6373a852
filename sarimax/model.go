package sarimax

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aouyang1/go-alchemy/stats"
)

// Criterion names an information criterion used to compare fitted models
type Criterion string

const (
	AIC  Criterion = "aic"
	AICc Criterion = "aicc"
	BIC  Criterion = "bic"
)

func ParseCriterion(s string) (Criterion, error) {
	switch c := Criterion(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return AIC, nil
	case AIC, AICc, BIC:
		return c, nil
	}
	return AIC, fmt.Errorf("%q, %w", s, ErrUnknownCriterion)
}

// Model is a fitted regression with seasonal ARIMA errors
type Model struct {
	order    Order
	n        int
	nd       int
	period   int
	hasConst bool

	y    []float64
	exog *mat.Dense

	beta      []float64
	dropped   []int
	intercept float64

	ar, ma, sar, sma []float64
	arFull, maFull   []float64

	z     []float64
	resid []float64

	sigma2  float64
	llf     float64
	nParams int
}

// Params are the estimated coefficients
type Params struct {
	AR         []float64 `json:"ar"`
	MA         []float64 `json:"ma"`
	SeasonalAR []float64 `json:"seasonal_ar"`
	SeasonalMA []float64 `json:"seasonal_ma"`
	Exog       []float64 `json:"exog"`
	Intercept  float64   `json:"intercept"`
	Sigma2     float64   `json:"sigma2"`
}

func (m *Model) Order() Order {
	return m.order
}

func (m *Model) Params() Params {
	return Params{
		AR:         append([]float64(nil), m.ar...),
		MA:         append([]float64(nil), m.ma...),
		SeasonalAR: append([]float64(nil), m.sar...),
		SeasonalMA: append([]float64(nil), m.sma...),
		Exog:       append([]float64(nil), m.beta...),
		Intercept:  m.intercept,
		Sigma2:     m.sigma2,
	}
}

// NumExog is the number of exogenous regressors the model was fit with
func (m *Model) NumExog() int {
	return len(m.beta)
}

// DroppedExog are the indices of regressors that were constant after differencing
func (m *Model) DroppedExog() []int {
	return append([]int(nil), m.dropped...)
}

// NObs is the number of observations after differencing
func (m *Model) NObs() int {
	return len(m.z)
}

func (m *Model) NumParams() int {
	return m.nParams
}

func (m *Model) Sigma2() float64 {
	return m.sigma2
}

func (m *Model) LogLikelihood() float64 {
	return m.llf
}

func (m *Model) AIC() float64 {
	return stats.AIC(m.llf, m.nParams)
}

func (m *Model) AICc() float64 {
	return stats.AICc(m.llf, m.nParams, m.NObs())
}

func (m *Model) BIC() float64 {
	return stats.BIC(m.llf, m.nParams, m.NObs())
}

// InformationCriterion returns the named criterion, lower is better
func (m *Model) InformationCriterion(c Criterion) (float64, error) {
	switch c {
	case AIC:
		return m.AIC(), nil
	case AICc:
		return m.AICc(), nil
	case BIC:
		return m.BIC(), nil
	}
	return math.NaN(), fmt.Errorf("%q, %w", c, ErrUnknownCriterion)
}

// Residuals are the one step ahead innovations aligned to the series. The observations
// consumed by differencing are NaN.
func (m *Model) Residuals() []float64 {
	res := make([]float64, m.n)
	for t := 0; t < m.n; t++ {
		if t < m.nd {
			res[t] = math.NaN()
			continue
		}
		res[t] = m.resid[t-m.nd]
	}
	return res
}

// FittedValues are the one step ahead predictions of the series. The observations consumed
// by differencing are NaN.
func (m *Model) FittedValues() []float64 {
	fitted := make([]float64, m.n)
	for t := 0; t < m.n; t++ {
		if t < m.nd {
			fitted[t] = math.NaN()
			continue
		}
		fitted[t] = m.y[t] - m.resid[t-m.nd]
	}
	return fitted
}

// Forecast is an out of sample forecast with symmetric gaussian intervals
type Forecast struct {
	Mean   []float64 `json:"mean"`
	Lower  []float64 `json:"lower"`
	Upper  []float64 `json:"upper"`
	StdErr []float64 `json:"std_err"`
	Alpha  float64   `json:"alpha"`
}

// Forecast predicts steps observations past the end of the series. exog must hold the future
// regressors when the model was fit with them and be nil otherwise. The intervals cover
// 1-alpha of the forecast distribution.
func (m *Model) Forecast(steps int, exog *mat.Dense, alpha float64) (*Forecast, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("got %d steps, %w", steps, ErrInvalidHorizon)
	}
	if !(alpha > 0 && alpha < 1) {
		return nil, fmt.Errorf("got %g, %w", alpha, ErrInvalidAlpha)
	}
	kExog := len(m.beta)
	switch {
	case kExog > 0 && exog == nil:
		return nil, ErrExogRequired
	case kExog == 0 && exog != nil:
		return nil, fmt.Errorf("model has no regressors, %w", ErrExogMismatch)
	case exog != nil:
		rows, cols := exog.Dims()
		if rows != steps || cols != kExog {
			return nil, fmt.Errorf("got %dx%d regressors, expected %dx%d, %w", rows, cols, steps, kExog, ErrExogMismatch)
		}
	}

	// ARMA recursion on the differenced regression errors with future innovations at zero
	nz := len(m.z)
	z := append(append([]float64(nil), m.z...), make([]float64, steps)...)
	e := append(append([]float64(nil), m.resid...), make([]float64, steps)...)
	for h := 0; h < steps; h++ {
		t := nz + h
		z[t] = lagDot(m.arFull, z, t) + lagDot(m.maFull, e, t)
	}

	// integrate the level regression errors u = y - X*beta through the differencing polynomial
	delta := stats.DiffPolynomial(m.order.D, m.order.SeasonalD, m.period)
	u := make([]float64, m.n+steps)
	for t := 0; t < m.n; t++ {
		u[t] = m.y[t] - m.regressorEffect(m.exog, t)
	}
	mean := make([]float64, steps)
	for h := 0; h < steps; h++ {
		t := m.n + h
		v := m.intercept + z[nz+h]
		for i := 1; i < len(delta); i++ {
			v -= delta[i] * u[t-i]
		}
		u[t] = v
		mean[h] = v + m.regressorEffect(exog, h)
	}

	arPoly := stats.PolyMul(arPolynomial(m.ar, 1), delta)
	maPoly := maPolynomial(m.ma, 1)
	if m.period > 1 {
		arPoly = stats.PolyMul(arPoly, arPolynomial(m.sar, m.period))
		maPoly = stats.PolyMul(maPoly, maPolynomial(m.sma, m.period))
	}
	psi := psiWeights(arPoly, maPoly, steps)

	q := distuv.UnitNormal.Quantile(1 - alpha/2)
	fc := &Forecast{
		Mean:   mean,
		Lower:  make([]float64, steps),
		Upper:  make([]float64, steps),
		StdErr: make([]float64, steps),
		Alpha:  alpha,
	}
	cum := 0.0
	for h := 0; h < steps; h++ {
		cum += psi[h] * psi[h]
		se := math.Sqrt(m.sigma2 * cum)
		fc.StdErr[h] = se
		fc.Lower[h] = mean[h] - q*se
		fc.Upper[h] = mean[h] + q*se
	}
	return fc, nil
}

func (m *Model) regressorEffect(x *mat.Dense, row int) float64 {
	if x == nil {
		return 0
	}
	v := 0.0
	for j, b := range m.beta {
		v += b * x.At(row, j)
	}
	return v
}
