package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// singularTol is the relative size of a diagonal element of R below which the design matrix
// is treated as rank deficient
const singularTol = 1e-10

type OLSOptions struct {
	FitIntercept bool `json:"fit_intercept"`
}

func NewDefaultOLSOptions() *OLSOptions {
	return &OLSOptions{
		FitIntercept: true,
	}
}

// OLS computes ordinary least squares using QR factorization
type OLS struct {
	opt       *OLSOptions
	coef      []float64
	intercept float64
	stdErr    []float64
	residuals []float64
	fit       bool
}

func NewOLS(opt *OLSOptions) *OLS {
	if opt == nil {
		opt = NewDefaultOLSOptions()
	}
	return &OLS{
		opt: opt,
	}
}

// design prepends a column of ones when fitting an intercept. A nil x yields the intercept
// column alone with m rows.
func (o *OLS) design(x mat.Matrix, m int) mat.Matrix {
	if !o.opt.FitIntercept {
		return x
	}
	n := 0
	if x != nil {
		m, n = x.Dims()
	}
	ones := make([]float64, m)
	floats.AddConst(1.0, ones)

	withOnes := mat.NewDense(m, n+1, nil)
	withOnes.SetCol(0, ones)
	if n > 0 {
		withOnes.Slice(0, m, 1, n+1).(*mat.Dense).Copy(x)
	}
	return withOnes
}

// Fit estimates the coefficients of y against the columns of x. x may be nil when only an
// intercept is fit.
func (o *OLS) Fit(x mat.Matrix, y []float64) error {
	if o == nil || o.opt == nil {
		return ErrNoOptions
	}
	if x == nil && !o.opt.FitIntercept {
		return ErrNoDesignMatrix
	}
	if len(y) == 0 {
		return ErrNoTargetArray
	}
	m := len(y)
	if x != nil {
		if xm, _ := x.Dims(); xm != m {
			return fmt.Errorf("training data has %d rows and target has %d rows, %w", xm, m, ErrTargetLenMismatch)
		}
	}

	x = o.design(x, m)
	_, n := x.Dims()
	if m < n {
		return fmt.Errorf("%d observations for %d coefficients, %w", m, n, ErrNoDegreesOfFreedom)
	}

	qr := new(mat.QR)
	qr.Factorize(x)

	q := new(mat.Dense)
	r := new(mat.Dense)
	qr.QTo(q)
	qr.RTo(r)

	yq := new(mat.Dense)
	yq.Mul(mat.NewDense(1, m, y), q)

	maxDiag := 0.0
	for i := 0; i < n; i++ {
		maxDiag = math.Max(maxDiag, math.Abs(r.At(i, i)))
	}

	c := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		if math.Abs(r.At(i, i)) <= singularTol*maxDiag || maxDiag == 0 {
			return fmt.Errorf("column %d is linearly dependent, %w", i, ErrSingularMatrix)
		}
		c[i] = yq.At(0, i)
		for j := i + 1; j < n; j++ {
			c[i] -= c[j] * r.At(i, j)
		}
		c[i] /= r.At(i, i)
	}

	res := make([]float64, m)
	fitted := mat.NewVecDense(m, nil)
	fitted.MulVec(x, mat.NewVecDense(n, c))
	for i := 0; i < m; i++ {
		res[i] = y[i] - fitted.AtVec(i)
	}

	if o.opt.FitIntercept {
		o.intercept = c[0]
		o.coef = c[1:]
	} else {
		o.intercept = 0
		o.coef = c
	}
	o.residuals = res
	o.stdErr = stdErrors(x, res)
	o.fit = true

	return nil
}

// stdErrors are the square roots of the diagonal of sigma^2 (X'X)^-1. NaN is returned for
// every coefficient when there are no residual degrees of freedom.
func stdErrors(x mat.Matrix, res []float64) []float64 {
	m, n := x.Dims()
	se := make([]float64, n)
	if m <= n {
		floats.AddConst(math.NaN(), se)
		return se
	}
	sigma2 := floats.Dot(res, res) / float64(m-n)

	xtx := mat.NewSymDense(n, nil)
	xtx.SymOuterK(1, x.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(xtx); !ok {
		floats.AddConst(math.NaN(), se)
		return se
	}
	inv := mat.NewSymDense(n, nil)
	if err := chol.InverseTo(inv); err != nil {
		floats.AddConst(math.NaN(), se)
		return se
	}
	for i := 0; i < n; i++ {
		se[i] = math.Sqrt(sigma2 * inv.At(i, i))
	}
	return se
}

func (o *OLS) Predict(x mat.Matrix) ([]float64, error) {
	if o == nil || o.opt == nil {
		return nil, ErrNoOptions
	}
	if !o.fit {
		return nil, ErrNotFit
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}

	coef := o.coef
	if o.opt.FitIntercept {
		coef = append([]float64{o.intercept}, o.coef...)
	}
	xm, _ := x.Dims()
	x = o.design(x, xm)
	m, n := x.Dims()
	if n != len(coef) {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", n, len(coef), ErrFeatureLenMismatch)
	}

	res := mat.NewVecDense(m, nil)
	res.MulVec(x, mat.NewVecDense(n, coef))
	return res.RawVector().Data, nil
}

// Score returns the r-squared of the predictions of x against y
func (o *OLS) Score(x mat.Matrix, y []float64) (float64, error) {
	res, err := o.Predict(x)
	if err != nil {
		return 0.0, err
	}
	if len(res) != len(y) {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d rows, %w", len(res), len(y), ErrTargetLenMismatch)
	}
	return stat.RSquaredFrom(res, y, nil), nil
}

func (o *OLS) Intercept() float64 {
	return o.intercept
}

func (o *OLS) Coef() []float64 {
	c := make([]float64, len(o.coef))
	copy(c, o.coef)
	return c
}

// StdErrors returns the coefficient standard errors with the intercept first when it is fit
func (o *OLS) StdErrors() []float64 {
	se := make([]float64, len(o.stdErr))
	copy(se, o.stdErr)
	return se
}

func (o *OLS) Residuals() []float64 {
	r := make([]float64, len(o.residuals))
	copy(r, o.residuals)
	return r
}
