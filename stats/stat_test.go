package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDetectOutliers(t *testing.T) {
	testData := map[string]struct {
		y        []float64
		expected []int
	}{
		"single outlier": {
			y:        []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100},
			expected: []int{9},
		},
		"no outliers": {
			y: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
		"constant": {
			y: []float64{1, 1, 1, 1},
		},
		"empty": {},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, DetectOutliers(td.y, 0.25, 0.75, 1.5))
		})
	}
}

func TestVarianceInflationFactor(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6}
	b := []float64{2, 1, 4, 3, 6, 5}

	x := mat.NewDense(6, 2, nil)
	x.SetCol(0, a)
	x.SetCol(1, b)
	vif, err := VarianceInflationFactor([]string{"a", "b"}, x)
	require.NoError(t, err)
	assert.InDelta(t, vif["a"], vif["b"], 1e-9)
	assert.Greater(t, vif["a"], 1.0)

	c := make([]float64, 6)
	for i := range c {
		c[i] = a[i] + b[i]
	}
	collinear := mat.NewDense(6, 3, nil)
	collinear.SetCol(0, a)
	collinear.SetCol(1, b)
	collinear.SetCol(2, c)
	vif, err = VarianceInflationFactor([]string{"a", "b", "c"}, collinear)
	require.NoError(t, err)
	assert.Greater(t, vif["c"], 1e6)

	_, err = VarianceInflationFactor([]string{"a"}, mat.NewDense(6, 1, a))
	assert.ErrorIs(t, err, ErrMinimumFeatures)
}
