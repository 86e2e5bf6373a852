package sarimax

import (
	"errors"
)

var (
	ErrInvalidOrder     = errors.New("invalid order")
	ErrDegenerateOrder  = errors.New("order has no parameters, differencing, constant or exogenous regressors")
	ErrInsufficientData = errors.New("insufficient data for order")
	ErrNotConverged     = errors.New("optimizer did not converge")
	ErrExogMismatch     = errors.New("exogenous regressors do not match series")
	ErrExogRequired     = errors.New("model was fit with exogenous regressors, future values required")
	ErrNonFiniteValue   = errors.New("series contains a non-finite value")
	ErrInvalidHorizon   = errors.New("forecast horizon must be positive")
	ErrInvalidAlpha     = errors.New("alpha must be in (0, 1)")
	ErrUnknownCriterion = errors.New("unknown information criterion")
)
