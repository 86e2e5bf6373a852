package stats

import (
	"errors"
)

var (
	ErrInsufficientData     = errors.New("insufficient data")
	ErrConstantSeries       = errors.New("series has zero variance")
	ErrInvalidPeriod        = errors.New("seasonal period must be greater than 1")
	ErrInvalidLag           = errors.New("invalid number of lags")
	ErrDegenerateRegression = errors.New("regression has no residual variance")
	ErrMinimumFeatures      = errors.New("need at least 2 features to compute VIF")
	ErrFeatureLenMismatch   = errors.New("some feature length is not consistent")
	ErrFeatureLen           = errors.New("must have at least 2 points per feature")
)
