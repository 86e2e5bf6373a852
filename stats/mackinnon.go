package stats

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// MacKinnon (1994, 2010) response surface coefficients for the constant only unit root test
// with a single series.
var (
	tauMaxC  = 2.74
	tauMinC  = -18.83
	tauStarC = -1.61

	tauSmallPC = []float64{2.1659, 1.4412, 3.8269e-2}
	tauLargePC = []float64{1.7339, 0.93202, -0.12745, -0.010368}

	// rows for the 1%, 5% and 10% levels
	tauCritC = [3][4]float64{
		{-3.43035, -6.5393, -16.786, -79.433},
		{-2.86154, -2.8903, -4.234, -40.040},
		{-2.56677, -1.5384, -2.809, 0},
	}
	critLevels = [3]string{"1%", "5%", "10%"}
)

// polyval evaluates c[0] + c[1]x + c[2]x^2 + ...
func polyval(c []float64, x float64) float64 {
	res := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		res = res*x + c[i]
	}
	return res
}

// MacKinnonP returns the approximate p-value of an ADF statistic from a regression with a
// constant.
func MacKinnonP(stat float64) float64 {
	switch {
	case stat > tauMaxC:
		return 1.0
	case stat < tauMinC:
		return 0.0
	case stat <= tauStarC:
		return distuv.UnitNormal.CDF(polyval(tauSmallPC, stat))
	default:
		return distuv.UnitNormal.CDF(polyval(tauLargePC, stat))
	}
}

// MacKinnonCrit returns the 1%, 5% and 10% critical values for nobs observations
func MacKinnonCrit(nobs int) map[string]float64 {
	crit := make(map[string]float64, len(critLevels))
	inv := 1.0 / float64(nobs)
	for i, level := range critLevels {
		crit[level] = polyval(tauCritC[i][:], inv)
	}
	return crit
}
