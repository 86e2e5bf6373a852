package regression

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func denseFromRows(rows [][]float64) *mat.Dense {
	x := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, row := range rows {
		x.SetRow(i, row)
	}
	return x
}

func TestOLS(t *testing.T) {
	tol := 1e-5
	testData := map[string]struct {
		x         [][]float64
		y         []float64
		opt       *OLSOptions
		intercept float64
		coef      []float64
		err       error
	}{
		"ols model intercept": {
			x: [][]float64{
				{0, 0},
				{3, 5},
				{9, 20},
				{12, 6},
				{15, 10},
			},
			y:         []float64{2, 31, 109, 62, 87},
			intercept: 2.0,
			coef:      []float64{3.0, 4.0},
		},
		"ols model no intercept": {
			x: [][]float64{
				{1, 0, 0},
				{1, 3, 5},
				{1, 9, 20},
				{1, 12, 6},
				{1, 15, 10},
			},
			y: []float64{2, 31, 109, 62, 87},
			opt: &OLSOptions{
				FitIntercept: false,
			},
			intercept: 0.0,
			coef:      []float64{2.0, 3.0, 4.0},
		},
		"intercept only": {
			y:         []float64{1, 2, 3, 4, 5},
			intercept: 3.0,
			coef:      []float64{},
		},
		"no design matrix without intercept": {
			y:   []float64{1, 2, 3},
			opt: &OLSOptions{FitIntercept: false},
			err: ErrNoDesignMatrix,
		},
		"no target": {
			x:   [][]float64{{1}},
			err: ErrNoTargetArray,
		},
		"row mismatch": {
			x:   [][]float64{{1}, {2}},
			y:   []float64{1, 2, 3},
			err: ErrTargetLenMismatch,
		},
		"too few observations": {
			x:   [][]float64{{1, 2}},
			y:   []float64{1},
			err: ErrNoDegreesOfFreedom,
		},
		"zero column": {
			x: [][]float64{
				{1, 0},
				{2, 0},
				{3, 0},
				{4, 0},
			},
			y:   []float64{1, 2, 3, 4},
			err: ErrSingularMatrix,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			var x mat.Matrix
			if td.x != nil {
				x = denseFromRows(td.x)
			}

			model := NewOLS(td.opt)
			err := model.Fit(x, td.y)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, td.intercept, model.Intercept(), tol)
			assert.InDeltaSlice(t, td.coef, model.Coef(), tol)
			assert.Len(t, model.Residuals(), len(td.y))

			if x != nil {
				pred, err := model.Predict(x)
				require.NoError(t, err)
				for i := range td.y {
					assert.InDelta(t, td.y[i]-model.Residuals()[i], pred[i], tol)
				}
			}
		})
	}
}

func TestOLSStdErrors(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{2.1, 3.9, 6.2, 7.8, 10.1, 12.2}
	x := mat.NewDense(len(xs), 1, xs)

	model := NewOLS(nil)
	require.NoError(t, model.Fit(x, y))

	res := model.Residuals()
	s2 := floats.Dot(res, res) / float64(len(y)-2)
	meanX := floats.Sum(xs) / float64(len(xs))
	sxx := 0.0
	for _, v := range xs {
		sxx += (v - meanX) * (v - meanX)
	}

	se := model.StdErrors()
	require.Len(t, se, 2)
	assert.InDelta(t, math.Sqrt(s2/sxx), se[1], 1e-9)
	assert.InDelta(t, math.Sqrt(s2*(1.0/float64(len(xs))+meanX*meanX/sxx)), se[0], 1e-9)
}

func TestOLSPredictErrors(t *testing.T) {
	model := NewOLS(nil)
	_, err := model.Predict(mat.NewDense(1, 1, []float64{1}))
	assert.ErrorIs(t, err, ErrNotFit)

	require.NoError(t, model.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), []float64{2, 4, 6}))
	_, err = model.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	assert.ErrorIs(t, err, ErrFeatureLenMismatch)

	r2, err := model.Score(mat.NewDense(3, 1, []float64{1, 2, 3}), []float64{2, 4, 6})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r2, 1e-9)
}

func BenchmarkOLS(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	m, n := 1000, 20
	x := mat.NewDense(m, n, nil)
	y := make([]float64, m)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			x.Set(i, j, rng.NormFloat64())
		}
		y[i] = rng.NormFloat64()
	}

	for i := 0; i < b.N; i++ {
		model := NewOLS(nil)
		if err := model.Fit(x, y); err != nil {
			b.Error(err)
		}
	}
}
