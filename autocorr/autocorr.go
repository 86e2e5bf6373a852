package autocorr

import (
	"math"

	"github.com/aouyang1/go-alchemy/stats"
)

type Options struct {
	MaxOrder         int     `json:"max_order"`
	MaxSeasonalOrder int     `json:"max_seasonal_order"`
	MaxLag           int     `json:"max_lag"`
	Alpha            float64 `json:"alpha"`
}

func NewDefaultOptions() *Options {
	return &Options{
		MaxOrder:         3,
		MaxSeasonalOrder: 2,
		MaxLag:           40,
		Alpha:            0.05,
	}
}

// Suggestion holds the suggested ARMA orders along with the correlograms they were read from
type Suggestion struct {
	P         int `json:"p"`
	Q         int `json:"q"`
	SeasonalP int `json:"seasonal_p"`
	SeasonalQ int `json:"seasonal_q"`

	MaxLag          int       `json:"max_lag"`
	ACF             []float64 `json:"acf"`
	PACF            []float64 `json:"pacf"`
	ConfidenceBound float64   `json:"confidence_bound"`
}

// Suggest reads AR orders from the PACF and MA orders from the ACF of a stationary series.
// An order is the number of consecutive lags outside the confidence band starting from the
// first lag, or the first seasonal lag for seasonal orders. Flat or very short series suggest
// zero for every order.
func Suggest(y []float64, period int, opt *Options) *Suggestion {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	n := len(y)
	sug := &Suggestion{}

	maxLag := opt.MaxLag
	if period > 1 {
		maxLag = max(maxLag, 2*period)
	}
	maxLag = min(maxLag, n/2-1)
	if maxLag < 1 {
		return sug
	}
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return sug
		}
	}

	acf := stats.ACF(y, maxLag)
	if acf == nil {
		return sug
	}
	pacf := stats.PACF(y, maxLag)

	bound := stats.ConfidenceBound(n, opt.Alpha)
	sug.MaxLag = maxLag
	sug.ACF = acf
	sug.PACF = pacf
	sug.ConfidenceBound = bound

	sug.P = leadingSignificant(pacf, 1, opt.MaxOrder, bound)
	sug.Q = leadingSignificant(acf, 1, opt.MaxOrder, bound)
	if period > 1 {
		sug.SeasonalP = leadingSignificant(pacf, period, opt.MaxSeasonalOrder, bound)
		sug.SeasonalQ = leadingSignificant(acf, period, opt.MaxSeasonalOrder, bound)
	}
	return sug
}

// leadingSignificant counts the lags step, 2*step, ... outside the band until the first one
// inside it, capped at limit
func leadingSignificant(values []float64, step, limit int, bound float64) int {
	order := 0
	for k := 1; k <= limit; k++ {
		lag := k * step
		if lag >= len(values) {
			break
		}
		if math.Abs(values[lag]) <= bound {
			break
		}
		order = k
	}
	return order
}
