package regression

import (
	"errors"
)

var (
	ErrNoOptions          = errors.New("no initialized model options")
	ErrTargetLenMismatch  = errors.New("target length does not match target rows")
	ErrNoDesignMatrix     = errors.New("no design matrix")
	ErrNoTargetArray      = errors.New("no target array")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of model coefficients")
	ErrSingularMatrix     = errors.New("design matrix is rank deficient")
	ErrNotFit             = errors.New("model has not been fit")
	ErrNoDegreesOfFreedom = errors.New("not enough observations for the number of coefficients")
)
