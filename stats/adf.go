package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/aouyang1/go-alchemy/regression"
)

type ADFOptions struct {
	// MaxLag caps the number of lagged differences. A negative value uses
	// 12*(n/100)^(1/4).
	MaxLag int `json:"max_lag"`

	// AutoLag selects the number of lags in [0, MaxLag] minimizing AIC when true, otherwise
	// MaxLag lags are used.
	AutoLag bool `json:"auto_lag"`
}

func NewDefaultADFOptions() *ADFOptions {
	return &ADFOptions{
		MaxLag:  -1,
		AutoLag: true,
	}
}

// ADFResult is the outcome of an augmented Dickey-Fuller test with a constant
type ADFResult struct {
	Statistic      float64            `json:"statistic"`
	PValue         float64            `json:"p_value"`
	UsedLag        int                `json:"used_lag"`
	NObs           int                `json:"n_obs"`
	CriticalValues map[string]float64 `json:"critical_values"`
	ICBest         float64            `json:"ic_best"`
}

// Stationary reports whether the unit root is rejected at the significance level
func (r *ADFResult) Stationary(significance float64) bool {
	if r == nil {
		return false
	}
	return r.PValue < significance
}

// MinADFObservations is the shortest series ADF accepts
const MinADFObservations = 8

func defaultMaxLag(n int) int {
	return int(math.Ceil(12 * math.Pow(float64(n)/100.0, 0.25)))
}

// ADF tests the null hypothesis that y has a unit root. The regression is
//
//	dy_t = c + b*y_{t-1} + sum_i g_i*dy_{t-i} + e_t
//
// and the statistic is the t-value of b.
func ADF(y []float64, opt *ADFOptions) (*ADFResult, error) {
	if opt == nil {
		opt = NewDefaultADFOptions()
	}
	n := len(y)
	if n < MinADFObservations {
		return nil, fmt.Errorf("got %d observations, need at least %d, %w", n, MinADFObservations, ErrInsufficientData)
	}
	if stat.Variance(y, nil) == 0 {
		return nil, ErrConstantSeries
	}

	maxLag := opt.MaxLag
	if maxLag < 0 {
		maxLag = defaultMaxLag(n)
	}
	// keep enough observations for the constant, the lagged level and the lagged differences
	maxLag = min(maxLag, n/2-2)
	if maxLag < 0 {
		return nil, fmt.Errorf("series of %d observations is too short, %w", n, ErrInsufficientData)
	}

	dy := make([]float64, n-1)
	for i := 1; i < n; i++ {
		dy[i-1] = y[i] - y[i-1]
	}

	usedLag := maxLag
	icBest := math.NaN()
	if opt.AutoLag {
		// every candidate is fit on the same sample so AIC is comparable
		var err error
		usedLag, icBest, err = selectLag(y, dy, maxLag)
		if err != nil {
			return nil, err
		}
	}

	fit, err := adfRegression(y, dy, usedLag, usedLag)
	if err != nil {
		return nil, err
	}
	if !opt.AutoLag {
		icBest = fit.aic
	}

	return &ADFResult{
		Statistic:      fit.tStat,
		PValue:         MacKinnonP(fit.tStat),
		UsedLag:        usedLag,
		NObs:           fit.nobs,
		CriticalValues: MacKinnonCrit(fit.nobs),
		ICBest:         icBest,
	}, nil
}

func selectLag(y, dy []float64, maxLag int) (int, float64, error) {
	bestLag := -1
	bestIC := math.Inf(1)
	var lastErr error
	for lag := 0; lag <= maxLag; lag++ {
		fit, err := adfRegression(y, dy, lag, maxLag)
		if err != nil {
			lastErr = err
			continue
		}
		if fit.aic < bestIC {
			bestIC = fit.aic
			bestLag = lag
		}
	}
	if bestLag < 0 {
		return 0, math.NaN(), fmt.Errorf("unable to fit any lag up to %d, %w", maxLag, lastErr)
	}
	return bestLag, bestIC, nil
}

type adfFit struct {
	tStat float64
	aic   float64
	nobs  int
}

// adfRegression fits the ADF regression with lag lagged differences on the sample that drops
// the first skip differences.
func adfRegression(y, dy []float64, lag, skip int) (*adfFit, error) {
	nobs := len(dy) - skip
	k := lag + 2
	if nobs <= k {
		return nil, fmt.Errorf("%d observations for %d regressors, %w", nobs, k, ErrInsufficientData)
	}

	target := make([]float64, nobs)
	x := mat.NewDense(nobs, lag+1, nil)
	for i := 0; i < nobs; i++ {
		t := i + skip
		target[i] = dy[t]
		x.Set(i, 0, y[t])
		for j := 1; j <= lag; j++ {
			x.Set(i, j, dy[t-j])
		}
	}

	ols := regression.NewOLS(nil)
	if err := ols.Fit(x, target); err != nil {
		return nil, fmt.Errorf("unable to fit adf regression with %d lags, %w", lag, err)
	}

	res := ols.Residuals()
	ssr := 0.0
	for _, r := range res {
		ssr += r * r
	}
	se := ols.StdErrors()[1]
	if ssr == 0 || se == 0 || math.IsNaN(se) {
		return nil, fmt.Errorf("with %d lags, %w", lag, ErrDegenerateRegression)
	}

	llf := GaussianLogLikelihood(ssr/float64(nobs), nobs)
	return &adfFit{
		tStat: ols.Coef()[0] / se,
		aic:   AIC(llf, k),
		nobs:  nobs,
	}, nil
}
