package alchemy

import (
	"math"
	"strconv"
)

// IndentExpand repeats indent growth times
func IndentExpand(indent string, growth int) string {
	indentByte := []byte(indent)
	out := make([]byte, 0, len(indent)*growth)
	for i := 0; i < growth; i++ {
		out = append(out, indentByte...)
	}
	return string(out)
}

// Float serializes NaN and infinite values as null
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func toFloats(vals []float64) []Float {
	if vals == nil {
		return nil
	}
	out := make([]Float, len(vals))
	for i, v := range vals {
		out[i] = Float(v)
	}
	return out
}

// formatFloat prints undefined values as n/a
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
