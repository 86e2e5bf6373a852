package fitter

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/mat"

	"github.com/aouyang1/go-alchemy/exogenous"
	"github.com/aouyang1/go-alchemy/sarimax"
	"github.com/aouyang1/go-alchemy/timedataset"
)

var errBoom = errors.New("boom")

type failingEstimator struct{}

func (failingEstimator) Estimate(y []float64, order sarimax.Order, exog *mat.Dense) (Estimate, error) {
	return nil, errBoom
}

func monthlyAR(t *testing.T, n int) *timedataset.TimeDataset {
	rng := rand.New(rand.NewPCG(2, 4))
	tSeries := timedataset.GenerateCalendarT(n, time.Date(2015, 1, 31, 0, 0, 0, 0, time.UTC), timedataset.FreqMonthly)
	ds, err := timedataset.NewUnivariateDataset(tSeries, timedataset.GenerateAR1(n, 0.5, 1, rng))
	require.NoError(t, err)
	return ds
}

func TestFit(t *testing.T) {
	ds := monthlyAR(t, 60)
	exog, err := exogenous.NewPresent(ds.T, []string{"x"}, [][]float64{timedataset.GenerateTrendY(60, 0, 1)})
	require.NoError(t, err)
	shifted, err := exogenous.NewPresent(timedataset.GenerateCalendarT(60, time.Date(2016, 1, 31, 0, 0, 0, 0, time.UTC), timedataset.FreqMonthly), []string{"x"}, [][]float64{timedataset.GenerateTrendY(60, 0, 1)})
	require.NoError(t, err)

	testData := map[string]struct {
		estimator Estimator
		order     sarimax.Order
		exog      exogenous.Exogenous
		fitErr    bool
		err       error
	}{
		"ar1": {
			order: sarimax.Order{P: 1},
			exog:  exogenous.None{},
		},
		"nil exog": {
			order: sarimax.Order{P: 1},
		},
		"with exog": {
			order: sarimax.Order{P: 1},
			exog:  exog,
		},
		"misaligned exog": {
			order: sarimax.Order{P: 1},
			exog:  shifted,
			err:   exogenous.ErrIndexMismatch,
		},
		"degenerate": {
			estimator: NewSARIMAX(&sarimax.Options{IncludeMean: false}),
			order:     sarimax.Order{},
			fitErr:    true,
			err:       sarimax.ErrDegenerateOrder,
		},
		"estimator failure": {
			estimator: failingEstimator{},
			order:     sarimax.Order{P: 2, Q: 1},
			fitErr:    true,
			err:       errBoom,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			f := New(td.estimator, nil)
			model, err := f.Fit(ds, td.order, td.exog, false)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				if td.fitErr {
					assert.ErrorIs(t, err, ErrFit)
					var fitErr *FitError
					require.ErrorAs(t, err, &fitErr)
					assert.Equal(t, td.order, fitErr.Order)
					assert.Contains(t, err.Error(), td.order.String())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.order, model.Order)
			assert.Equal(t, timedataset.FreqMonthly, model.Frequency)
			assert.Equal(t, ds.T, model.T)
			assert.Len(t, model.Estimate.FittedValues(), ds.Len())

			aic, err := model.Score(sarimax.AIC)
			require.NoError(t, err)
			assert.False(t, math.IsNaN(aic))
		})
	}
}

func TestFitQuiet(t *testing.T) {
	ds := monthlyAR(t, 40)

	core, logs := observer.New(zap.DebugLevel)
	f := New(nil, zap.New(core))

	quietModel, err := f.Fit(ds, sarimax.Order{P: 1}, exogenous.None{}, true)
	require.NoError(t, err)
	assert.Equal(t, 0, logs.Len())

	loudModel, err := f.Fit(ds, sarimax.Order{P: 1}, exogenous.None{}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, logs.Len())

	assert.Equal(t, quietModel.Estimate.FittedValues(), loudModel.Estimate.FittedValues())
	assert.Equal(t, quietModel.Estimate.Sigma2(), loudModel.Estimate.Sigma2())
}

func TestFitNoData(t *testing.T) {
	_, err := New(nil, nil).Fit(nil, sarimax.Order{P: 1}, exogenous.None{}, true)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFutureIndex(t *testing.T) {
	ds := monthlyAR(t, 24)
	model, err := New(nil, nil).Fit(ds, sarimax.Order{P: 1}, exogenous.None{}, true)
	require.NoError(t, err)

	future := model.FutureIndex(3)
	assert.Equal(t, []time.Time{
		time.Date(2017, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2017, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2017, 3, 31, 0, 0, 0, 0, time.UTC),
	}, future)

	idx, exists := model.IndexOf(ds.T[5])
	assert.True(t, exists)
	assert.Equal(t, 5, idx)

	daily := New(nil, nil).WithFrequency(timedataset.FreqDaily)
	model, err = daily.Fit(ds, sarimax.Order{P: 1}, exogenous.None{}, true)
	require.NoError(t, err)
	assert.Equal(t, timedataset.FreqDaily, model.Frequency)
}
