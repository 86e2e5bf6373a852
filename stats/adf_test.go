package stats

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMacKinnonP(t *testing.T) {
	testData := map[string]struct {
		stat     float64
		expected float64
		delta    float64
	}{
		"one percent critical value":  {stat: -3.43035, expected: 0.01, delta: 1e-3},
		"five percent critical value": {stat: -2.86154, expected: 0.05, delta: 1e-3},
		"zero":                        {stat: 0, expected: 0.9585, delta: 1e-3},
		"above max":                   {stat: 3, expected: 1.0, delta: 0},
		"below min":                   {stat: -20, expected: 0.0, delta: 0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, MacKinnonP(td.stat), td.delta)
		})
	}
}

func TestMacKinnonCrit(t *testing.T) {
	crit := MacKinnonCrit(100)
	assert.InDelta(t, -3.4975, crit["1%"], 1e-3)
	assert.InDelta(t, -2.8909, crit["5%"], 1e-3)
	assert.InDelta(t, -2.5824, crit["10%"], 1e-3)
}

func TestADF(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	noise := make([]float64, 200)
	for i := range noise {
		noise[i] = rng.NormFloat64()
	}

	trend := make([]float64, 200)
	for i := range trend {
		trend[i] = 2*float64(i) + rng.NormFloat64()
	}

	testData := map[string]struct {
		y          []float64
		opt        *ADFOptions
		stationary bool
		err        error
	}{
		"white noise": {
			y:          noise,
			stationary: true,
		},
		"white noise fixed lag": {
			y:          noise,
			opt:        &ADFOptions{MaxLag: 2, AutoLag: false},
			stationary: true,
		},
		"linear trend": {
			y:          trend,
			stationary: false,
		},
		"constant": {
			y:   []float64{3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
			err: ErrConstantSeries,
		},
		"too short": {
			y:   []float64{1, 2, 3},
			err: ErrInsufficientData,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := ADF(td.y, td.opt)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.stationary, res.Stationary(0.05))
			assert.GreaterOrEqual(t, res.PValue, 0.0)
			assert.LessOrEqual(t, res.PValue, 1.0)
			assert.Len(t, res.CriticalValues, 3)
			assert.Equal(t, len(td.y)-1-res.UsedLag, res.NObs)
			if td.opt != nil && !td.opt.AutoLag {
				assert.Equal(t, td.opt.MaxLag, res.UsedLag)
			}
		})
	}
}
