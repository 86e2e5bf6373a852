package sarimax

const unrollBatch = 4

// lagDot returns sum_i coef[i]*x[t-1-i] over the lags that exist before t. Values before the
// start of x are zero.
func lagDot(coef, x []float64, t int) float64 {
	n := min(len(coef), t)
	var sum float64
	i := 0
	for ; i+unrollBatch <= n; i += unrollBatch {
		c := coef[i : i+unrollBatch : i+unrollBatch]
		s0 := c[0] * x[t-1-i]
		s1 := c[1] * x[t-2-i]
		s2 := c[2] * x[t-3-i]
		s3 := c[3] * x[t-4-i]
		sum += s0 + s1 + s2 + s3
	}
	for ; i < n; i++ {
		sum += coef[i] * x[t-1-i]
	}
	return sum
}
