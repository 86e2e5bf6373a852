package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

// GenerateCalendarT generates n time points starting at start stepped by the frequency
func GenerateCalendarT(n int, start time.Time, freq Frequency) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, freq.Step(start, i, time.Hour))
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// Scale multiplies every point by the provided value
func (s Series) Scale(val float64) Series {
	floats.Scale(val, s)
	return s
}

// Exp exponentiates every point, useful for multiplicative series
func (s Series) Exp() Series {
	for i, v := range s {
		s[i] = math.Exp(v)
	}
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateTrendY generates a linear trend of bias + slope*i
func GenerateTrendY(n int, bias, slope float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, bias+slope*float64(i))
	}
	return Series(y)
}

// GenerateSeasonalY generates a sine wave repeating every period observations
func GenerateSeasonalY(n int, amp float64, period int, phase float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, amp*math.Sin(2.0*math.Pi*float64(i)/float64(period)+phase))
	}
	return Series(y)
}

// GenerateNoise generates gaussian noise using the provided random source so that tests
// remain reproducible.
func GenerateNoise(n int, scale float64, rng *rand.Rand) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rng.NormFloat64()*scale)
	}
	return Series(y)
}

// GenerateAR1 generates a zero mean first order autoregressive process with coefficient phi
func GenerateAR1(n int, phi, scale float64, rng *rand.Rand) Series {
	y := make([]float64, n)
	prev := 0.0
	for i := 0; i < n; i++ {
		prev = phi*prev + rng.NormFloat64()*scale
		y[i] = prev
	}
	return Series(y)
}
