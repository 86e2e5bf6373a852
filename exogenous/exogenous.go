package exogenous

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoCovariates      = errors.New("no exogenous covariates")
	ErrNoCovariateName   = errors.New("no exogenous covariate name")
	ErrDuplicateName     = errors.New("duplicate exogenous covariate name")
	ErrColumnLenMismatch = errors.New("exogenous covariate has a different length than time index")
	ErrIndexMismatch     = errors.New("exogenous time index does not match target time index")
	ErrInvalidBoundary   = errors.New("invalid split boundary for exogenous covariates")
	ErrUnknownCovariate  = errors.New("unknown exogenous covariate")
)

// Exogenous is either None or Present. Callers switch on the concrete type.
type Exogenous interface {
	// Len is the number of observations covered, zero for None
	Len() int
	exogenous()
}

// None means the model is fit on the target series alone
type None struct{}

func (None) Len() int   { return 0 }
func (None) exogenous() {}

// Present holds covariates aligned to the target series. X has one row per time point and
// one column per name.
type Present struct {
	Names []string
	T     []time.Time
	X     *mat.Dense
}

func (p Present) exogenous() {}

func (p Present) Len() int {
	return len(p.T)
}

// NewPresent validates and copies the covariate columns. Column order follows names.
func NewPresent(t []time.Time, names []string, columns [][]float64) (Present, error) {
	if len(names) == 0 {
		return Present{}, ErrNoCovariates
	}
	if len(names) != len(columns) {
		return Present{}, fmt.Errorf("got %d names and %d columns, %w", len(names), len(columns), ErrColumnLenMismatch)
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			return Present{}, ErrNoCovariateName
		}
		if _, exists := seen[name]; exists {
			return Present{}, fmt.Errorf("%q, %w", name, ErrDuplicateName)
		}
		seen[name] = struct{}{}
	}
	for i, col := range columns {
		if len(col) != len(t) {
			return Present{}, fmt.Errorf(
				"covariate %q has length of %d, but time index has a length of %d, %w",
				names[i], len(col), len(t), ErrColumnLenMismatch,
			)
		}
	}
	if len(t) == 0 {
		return Present{}, fmt.Errorf("empty time index, %w", ErrColumnLenMismatch)
	}

	x := mat.NewDense(len(t), len(names), nil)
	for j, col := range columns {
		x.SetCol(j, col)
	}

	tCopy := make([]time.Time, len(t))
	copy(tCopy, t)
	nameCopy := make([]string, len(names))
	copy(nameCopy, names)

	return Present{
		Names: nameCopy,
		T:     tCopy,
		X:     x,
	}, nil
}

// Column returns a copy of the named covariate
func (p Present) Column(name string) ([]float64, error) {
	for j, n := range p.Names {
		if n == name {
			return mat.Col(nil, j, p.X), nil
		}
	}
	return nil, fmt.Errorf("%q, %w", name, ErrUnknownCovariate)
}

// Rows returns a copy of the covariates in the half open range [start, end)
func (p Present) Rows(start, end int) (Present, error) {
	if start < 0 || end > p.Len() || start >= end {
		return Present{}, fmt.Errorf("range [%d, %d) with %d observations, %w", start, end, p.Len(), ErrInvalidBoundary)
	}
	x := mat.DenseCopyOf(p.X.Slice(start, end, 0, len(p.Names)))
	tCopy := make([]time.Time, end-start)
	copy(tCopy, p.T[start:end])
	nameCopy := make([]string, len(p.Names))
	copy(nameCopy, p.Names)
	return Present{Names: nameCopy, T: tCopy, X: x}, nil
}

// Split divides the covariates into the observations before and after boundary
func (p Present) Split(boundary int) (Present, Present, error) {
	if boundary <= 0 || boundary >= p.Len() {
		return Present{}, Present{}, fmt.Errorf("boundary of %d with %d observations, %w", boundary, p.Len(), ErrInvalidBoundary)
	}
	train, err := p.Rows(0, boundary)
	if err != nil {
		return Present{}, Present{}, err
	}
	test, err := p.Rows(boundary, p.Len())
	if err != nil {
		return Present{}, Present{}, err
	}
	return train, test, nil
}

// Align verifies the covariates share the exact time index of the target
func Align(e Exogenous, t []time.Time) error {
	switch ex := e.(type) {
	case nil, None:
		return nil
	case Present:
		if ex.Len() != len(t) {
			return fmt.Errorf("covariates have %d observations and target has %d, %w", ex.Len(), len(t), ErrIndexMismatch)
		}
		for i := range t {
			if !ex.T[i].Equal(t[i]) {
				return fmt.Errorf("index %d has %s and target has %s, %w", i, ex.T[i], t[i], ErrIndexMismatch)
			}
		}
		return nil
	}
	return fmt.Errorf("unsupported exogenous type %T", e)
}

// Split divides any exogenous variant at the same boundary as the target series
func Split(e Exogenous, boundary int) (Exogenous, Exogenous, error) {
	switch ex := e.(type) {
	case nil, None:
		return None{}, None{}, nil
	case Present:
		train, test, err := ex.Split(boundary)
		if err != nil {
			return nil, nil, err
		}
		return train, test, nil
	}
	return nil, nil, fmt.Errorf("unsupported exogenous type %T", e)
}

// Matrix returns the design matrix or nil when there are no covariates
func Matrix(e Exogenous) *mat.Dense {
	if ex, ok := e.(Present); ok {
		return ex.X
	}
	return nil
}

// Names returns the covariate names or nil when there are no covariates
func Names(e Exogenous) []string {
	if ex, ok := e.(Present); ok {
		names := make([]string, len(ex.Names))
		copy(names, ex.Names)
		return names
	}
	return nil
}
