package stats

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trendSeason(n, period int) []float64 {
	y := make([]float64, n)
	for i := range y {
		y[i] = 10 + 0.5*float64(i) + 3*math.Sin(2*math.Pi*float64(i)/float64(period))
	}
	return y
}

func TestDecompose(t *testing.T) {
	testData := map[string]struct {
		n      int
		period int
		err    error
	}{
		"even period": {n: 48, period: 12},
		"odd period":  {n: 21, period: 7},
		"too short":   {n: 20, period: 12, err: ErrInsufficientData},
		"no period":   {n: 20, period: 1, err: ErrInvalidPeriod},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			y := trendSeason(td.n, td.period)
			dec, err := Decompose(y, td.period)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)

			half := td.period / 2
			assert.True(t, math.IsNaN(dec.Trend[0]))
			assert.True(t, math.IsNaN(dec.Residual[td.n-1]))
			for i := half; i < td.n-half; i++ {
				assert.InDelta(t, 10+0.5*float64(i), dec.Trend[i], 1e-9)
				assert.InDelta(t, 0.0, dec.Residual[i], 1e-9)
			}
			for i := 0; i < td.n; i++ {
				assert.InDelta(t, 3*math.Sin(2*math.Pi*float64(i)/float64(td.period)), dec.Seasonal[i], 1e-9)
			}
		})
	}
}

func TestSeasonalStrength(t *testing.T) {
	strength, err := SeasonalStrength(trendSeason(48, 12), 12)
	require.NoError(t, err)
	assert.Greater(t, strength, 0.99)

	rng := rand.New(rand.NewPCG(1, 1))
	noise := make([]float64, 240)
	for i := range noise {
		noise[i] = rng.NormFloat64()
	}
	strength, err = SeasonalStrength(noise, 12)
	require.NoError(t, err)
	assert.Less(t, strength, 0.64)
	assert.GreaterOrEqual(t, strength, 0.0)

	_, err = SeasonalStrength(noise[:10], 12)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
