package sarimax

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func ar1(n int, phi, mean float64, rng *rand.Rand) []float64 {
	y := make([]float64, n)
	prev := 0.0
	for i := range y {
		prev = phi*prev + rng.NormFloat64()
		y[i] = mean + prev
	}
	return y
}

func ma1(n int, theta float64, rng *rand.Rand) []float64 {
	y := make([]float64, n)
	prev := 0.0
	for i := range y {
		e := rng.NormFloat64()
		y[i] = e + theta*prev
		prev = e
	}
	return y
}

func randomWalk(n int, rng *rand.Rand) []float64 {
	y := make([]float64, n)
	for i := 1; i < n; i++ {
		y[i] = y[i-1] + rng.NormFloat64()
	}
	return y
}

func TestEstimateNonSeasonalOrders(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	walk := randomWalk(120, rng)
	level := ar1(120, 0.5, 5, rng)

	testData := map[string]struct {
		y     []float64
		order Order
	}{
		"ar without differencing":    {y: level, order: Order{P: 1}},
		"ar with a first difference": {y: walk, order: Order{P: 1, D: 1}},
		"ma with a first difference": {y: walk, order: Order{Q: 1, D: 1}},
		"unused period":              {y: level, order: Order{P: 1, Period: 12}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			model, err := NewEstimator(nil).Estimate(td.y, td.order, nil)
			require.NoError(t, err)
			assert.Len(t, model.Residuals(), len(td.y))
			assert.False(t, math.IsNaN(model.AIC()))
		})
	}
}

func TestEstimateAR1(t *testing.T) {
	rng := rand.New(rand.NewPCG(10, 20))
	y := ar1(500, 0.6, 10, rng)

	model, err := NewEstimator(nil).Estimate(y, Order{P: 1}, nil)
	require.NoError(t, err)

	// conditional least squares on an AR(1) matches the lag-1 regression slope of the sample
	slope := stat.Covariance(y[1:], y[:len(y)-1], nil) / stat.Variance(y[:len(y)-1], nil)

	params := model.Params()
	require.Len(t, params.AR, 1)
	assert.InDelta(t, slope, params.AR[0], 0.02)
	assert.InDelta(t, 0.6, params.AR[0], 0.15)
	assert.InDelta(t, 10.0, params.Intercept, 0.5)
	assert.InDelta(t, 1.0, params.Sigma2, 0.2)
	assert.Equal(t, 500, model.NObs())
	assert.Equal(t, 3, model.NumParams())

	assert.InDelta(t, -2*model.LogLikelihood()+6, model.AIC(), 1e-9)
	assert.Greater(t, model.AICc(), model.AIC())
	assert.Greater(t, model.BIC(), model.AIC())
}

func TestEstimateMA1(t *testing.T) {
	rng := rand.New(rand.NewPCG(30, 40))
	y := ma1(500, 0.5, rng)

	model, err := NewEstimator(nil).Estimate(y, Order{Q: 1}, nil)
	require.NoError(t, err)

	params := model.Params()
	require.Len(t, params.MA, 1)
	assert.InDelta(t, 0.5, params.MA[0], 0.1)
}

func TestEstimateConstant(t *testing.T) {
	y := make([]float64, 30)
	for i := range y {
		y[i] = 30
	}

	model, err := NewEstimator(nil).Estimate(y, Order{}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, model.Params().Intercept, 1e-9)
	assert.Equal(t, 1e-12, model.Sigma2())
	assert.False(t, math.IsInf(model.AIC(), 0))

	for _, v := range model.FittedValues() {
		assert.InDelta(t, 30.0, v, 1e-9)
	}

	fc, err := model.Forecast(12, nil, 0.05)
	require.NoError(t, err)
	require.Len(t, fc.Mean, 12)
	for h := range fc.Mean {
		assert.InDelta(t, 30.0, fc.Mean[h], 1e-9)
		assert.Less(t, fc.Upper[h]-fc.Lower[h], 1e-3)
	}
}

func TestEstimateRandomWalk(t *testing.T) {
	rng := rand.New(rand.NewPCG(50, 60))
	y := randomWalk(100, rng)

	model, err := NewEstimator(nil).Estimate(y, Order{D: 1}, nil)
	require.NoError(t, err)

	fitted := model.FittedValues()
	assert.True(t, math.IsNaN(fitted[0]))
	resid := model.Residuals()
	assert.True(t, math.IsNaN(resid[0]))
	for i := 1; i < len(y); i++ {
		// a random walk predicts the previous value
		assert.InDelta(t, y[i-1], fitted[i], 1e-9)
		assert.InDelta(t, y[i]-y[i-1], resid[i], 1e-9)
	}

	fc, err := model.Forecast(5, nil, 0.05)
	require.NoError(t, err)
	sigma := math.Sqrt(model.Sigma2())
	for h := range fc.Mean {
		assert.InDelta(t, y[len(y)-1], fc.Mean[h], 1e-9)
		assert.InDelta(t, sigma*math.Sqrt(float64(h+1)), fc.StdErr[h], 1e-9)
		if h > 0 {
			assert.GreaterOrEqual(t, fc.Upper[h]-fc.Lower[h], fc.Upper[h-1]-fc.Lower[h-1])
		}
	}
}

func TestEstimateSeasonalNaive(t *testing.T) {
	pattern := []float64{10, 20, 15, 5}
	rng := rand.New(rand.NewPCG(70, 80))
	y := make([]float64, 40)
	for i := range y {
		y[i] = pattern[i%4] + 0.01*rng.NormFloat64()
	}

	model, err := NewEstimator(nil).Estimate(y, Order{SeasonalD: 1, Period: 4}, nil)
	require.NoError(t, err)

	fc, err := model.Forecast(8, nil, 0.05)
	require.NoError(t, err)
	for h := 0; h < 4; h++ {
		assert.InDelta(t, y[len(y)-4+h], fc.Mean[h], 1e-9)
		assert.InDelta(t, fc.Mean[h], fc.Mean[h+4], 1e-9)
	}
}

func TestEstimateExog(t *testing.T) {
	rng := rand.New(rand.NewPCG(90, 100))
	n := 1000
	x := mat.NewDense(n, 1, nil)
	noise := ar1(n, 0.5, 0, rng)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		xi := rng.NormFloat64()
		x.Set(i, 0, xi)
		y[i] = 3 + 2*xi + noise[i]
	}

	model, err := NewEstimator(nil).Estimate(y, Order{P: 1}, x)
	require.NoError(t, err)
	assert.Equal(t, 1, model.NumExog())

	params := model.Params()
	assert.InDelta(t, 2.0, params.Exog[0], 0.15)
	assert.InDelta(t, 3.0, params.Intercept, 0.3)
	assert.InDelta(t, 0.5, params.AR[0], 0.15)

	_, err = model.Forecast(2, nil, 0.05)
	assert.ErrorIs(t, err, ErrExogRequired)

	_, err = model.Forecast(2, mat.NewDense(3, 1, nil), 0.05)
	assert.ErrorIs(t, err, ErrExogMismatch)

	future := mat.NewDense(2, 1, []float64{1, -1})
	fc, err := model.Forecast(2, future, 0.05)
	require.NoError(t, err)
	// the second step carries the regressor effect of -1 against +1 on the first step
	assert.Less(t, fc.Mean[1], fc.Mean[0])
}

func TestEstimateDropsVanishingRegressor(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 3))
	y := randomWalk(60, rng)
	x := mat.NewDense(60, 1, nil)
	for i := 0; i < 60; i++ {
		x.Set(i, 0, 1)
	}

	model, err := NewEstimator(nil).Estimate(y, Order{D: 1}, x)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, model.DroppedExog())
	assert.Equal(t, []float64{0}, model.Params().Exog)
}

func TestEstimateErrors(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	y := ar1(50, 0.3, 0, rng)

	testData := map[string]struct {
		y     []float64
		order Order
		exog  *mat.Dense
		opt   *Options
		err   error
	}{
		"invalid order": {
			y:     y,
			order: Order{SeasonalP: 1},
			err:   ErrInvalidOrder,
		},
		"degenerate order": {
			y:     y,
			order: Order{},
			opt:   &Options{IncludeMean: false},
			err:   ErrDegenerateOrder,
		},
		"insufficient data": {
			y:     y[:5],
			order: Order{P: 2, D: 1, Q: 2},
			err:   ErrInsufficientData,
		},
		"insufficient data after seasonal differencing": {
			y:     y[:14],
			order: Order{SeasonalD: 1, Period: 12},
			err:   ErrInsufficientData,
		},
		"exog rows mismatch": {
			y:     y,
			order: Order{P: 1},
			exog:  mat.NewDense(10, 1, nil),
			err:   ErrExogMismatch,
		},
		"nan": {
			y:     append([]float64{math.NaN()}, y...),
			order: Order{P: 1},
			err:   ErrNonFiniteValue,
		},
		"evaluation limit": {
			y:     y,
			order: Order{P: 2, Q: 2},
			opt: &Options{
				IncludeMean:    true,
				MaxEvaluations: 5,
				Tolerance:      1e-8,
				MinSigma2:      1e-12,
				SimplexSize:    0.25,
			},
			err: ErrNotConverged,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := NewEstimator(td.opt).Estimate(td.y, td.order, td.exog)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestForecastErrors(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	model, err := NewEstimator(nil).Estimate(ar1(50, 0.3, 0, rng), Order{P: 1}, nil)
	require.NoError(t, err)

	_, err = model.Forecast(0, nil, 0.05)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	_, err = model.Forecast(3, nil, 1.5)
	assert.ErrorIs(t, err, ErrInvalidAlpha)

	_, err = model.Forecast(3, mat.NewDense(3, 1, nil), 0.05)
	assert.ErrorIs(t, err, ErrExogMismatch)
}

func TestInformationCriterion(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 9))
	model, err := NewEstimator(nil).Estimate(ar1(60, 0.3, 0, rng), Order{P: 1}, nil)
	require.NoError(t, err)

	for _, c := range []Criterion{AIC, AICc, BIC} {
		v, err := model.InformationCriterion(c)
		require.NoError(t, err)
		assert.False(t, math.IsNaN(v))
	}
	_, err = model.InformationCriterion("hqic")
	assert.ErrorIs(t, err, ErrUnknownCriterion)

	c, err := ParseCriterion("AICc")
	require.NoError(t, err)
	assert.Equal(t, AICc, c)
	c, err = ParseCriterion("")
	require.NoError(t, err)
	assert.Equal(t, AIC, c)
	_, err = ParseCriterion("hqic")
	assert.ErrorIs(t, err, ErrUnknownCriterion)
}
