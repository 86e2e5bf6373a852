package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/aouyang1/go-alchemy/regression"
)

// DetectOutliers returns the indices of values outside the percentile range widened by
// tukeyFactor times the inner range. NaN values are ignored.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := make([]float64, 0, len(y))
	for _, v := range y {
		if !math.IsNaN(v) {
			yCopy = append(yCopy, v)
		}
	}
	if len(yCopy) == 0 {
		return nil
	}
	sort.Float64s(yCopy)
	lower := stat.Quantile(lowerPerc, stat.Empirical, yCopy, nil)
	upper := stat.Quantile(upperPerc, stat.Empirical, yCopy, nil)
	innerRange := upper - lower
	if innerRange == 0 {
		return nil
	}
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if math.IsNaN(y[i]) {
			continue
		}
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}

// VarianceInflationFactor regresses every column of x on the remaining columns and returns
// 1/(1-R^2) per column. Perfectly collinear columns report +Inf.
func VarianceInflationFactor(names []string, x mat.Matrix) (map[string]float64, error) {
	m, n := x.Dims()
	if n < 2 || len(names) != n {
		return nil, ErrMinimumFeatures
	}
	if m < 2 {
		return nil, ErrFeatureLen
	}

	vif := make(map[string]float64, n)
	for j, label := range names {
		others := mat.NewDense(m, n-1, nil)
		c := 0
		for k := 0; k < n; k++ {
			if k == j {
				continue
			}
			others.SetCol(c, mat.Col(nil, k, x))
			c++
		}

		target := mat.Col(nil, j, x)
		ols := regression.NewOLS(nil)
		if err := ols.Fit(others, target); err != nil {
			vif[label] = math.Inf(1)
			continue
		}
		r2, err := ols.Score(others, target)
		if err != nil || r2 >= 1 {
			vif[label] = math.Inf(1)
			continue
		}
		vif[label] = 1 / (1 - r2)
	}
	return vif, nil
}
