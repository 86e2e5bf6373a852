package transform

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidTransform = errors.New("invalid transform for series")
	ErrUnknownKind      = errors.New("unknown transform kind")
)

// Kind tags the variance stabilizing transform applied to a series before differencing
type Kind int

const (
	Identity Kind = iota
	Log
)

func (k Kind) String() string {
	switch k {
	case Identity:
		return "identity"
	case Log:
		return "log"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ParseKind parses the lower case name of a transform
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "identity", "none":
		return Identity, nil
	case "log", "ln":
		return Log, nil
	}
	return Identity, fmt.Errorf("%q, %w", s, ErrUnknownKind)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// InvalidTransformError records the first observation the transform cannot be applied to
type InvalidTransformError struct {
	Kind  Kind
	Index int
	Value float64
}

func (e *InvalidTransformError) Error() string {
	return fmt.Sprintf("%s transform undefined for value %g at index %d", e.Kind, e.Value, e.Index)
}

func (e *InvalidTransformError) Unwrap() error {
	return ErrInvalidTransform
}

// Valid reports whether the transform can be applied to every value of y
func (k Kind) Valid(y []float64) error {
	switch k {
	case Identity:
		return nil
	case Log:
		for i, v := range y {
			if !(v > 0) || math.IsInf(v, 0) {
				return &InvalidTransformError{Kind: k, Index: i, Value: v}
			}
		}
		return nil
	}
	return fmt.Errorf("%s, %w", k, ErrUnknownKind)
}

// Apply returns a transformed copy of y
func (k Kind) Apply(y []float64) ([]float64, error) {
	if err := k.Valid(y); err != nil {
		return nil, err
	}
	res := make([]float64, len(y))
	switch k {
	case Identity:
		copy(res, y)
	case Log:
		for i, v := range y {
			res[i] = math.Log(v)
		}
	}
	return res, nil
}

// InverseValue maps a single value back to the original scale
func (k Kind) InverseValue(v float64) float64 {
	if k == Log {
		return math.Exp(v)
	}
	return v
}

// Inverse returns a copy of y mapped back to the original scale. NaN values stay NaN.
func (k Kind) Inverse(y []float64) []float64 {
	res := make([]float64, len(y))
	for i, v := range y {
		res[i] = k.InverseValue(v)
	}
	return res
}
