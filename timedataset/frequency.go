package timedataset

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownFrequency = errors.New("unknown frequency")

const day = 24 * time.Hour

// Frequency is the sampling period label of a series
type Frequency string

const (
	FreqNone      Frequency = "none"
	FreqDaily     Frequency = "daily"
	FreqWeekly    Frequency = "weekly"
	FreqMonthly   Frequency = "monthly"
	FreqQuarterly Frequency = "quarterly"
	FreqYearly    Frequency = "yearly"
)

// ParseFrequency accepts the frequency names along with the common pandas offset aliases
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "no defined frequency":
		return FreqNone, nil
	case "d", "b", "daily":
		return FreqDaily, nil
	case "w", "weekly":
		return FreqWeekly, nil
	case "m", "ms", "monthly":
		return FreqMonthly, nil
	case "q", "qs", "quarterly":
		return FreqQuarterly, nil
	case "y", "ys", "a", "as", "yearly":
		return FreqYearly, nil
	}
	return FreqNone, fmt.Errorf("%q, %w", s, ErrUnknownFrequency)
}

// SeasonalPeriod returns the candidate number of observations in one seasonal cycle. Zero
// means no seasonality is assumed.
func (f Frequency) SeasonalPeriod() int {
	switch f {
	case FreqDaily:
		return 7
	case FreqWeekly:
		return 52
	case FreqMonthly:
		return 12
	case FreqQuarterly:
		return 4
	default:
		return 0
	}
}

// Step advances t by n sampling periods. Calendar frequencies step by calendar units while
// FreqNone falls back to the provided interval.
func (f Frequency) Step(t time.Time, n int, interval time.Duration) time.Time {
	switch f {
	case FreqDaily:
		return t.AddDate(0, 0, n)
	case FreqWeekly:
		return t.AddDate(0, 0, 7*n)
	case FreqMonthly:
		return addMonths(t, n)
	case FreqQuarterly:
		return addMonths(t, 3*n)
	case FreqYearly:
		return addMonths(t, 12*n)
	default:
		return t.Add(time.Duration(n) * interval)
	}
}

// addMonths keeps month end dates on the month end and clamps days that do not exist in the
// target month.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last || isMonthEnd(t) {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func isMonthEnd(t time.Time) bool {
	return t.AddDate(0, 0, 1).Month() != t.Month()
}

// InferFrequency maps the most common spacing of the time points to a frequency label. The
// spacing is returned as well so that FreqNone series can still be stepped.
func InferFrequency(t []time.Time) (Frequency, time.Duration, error) {
	interval, err := TimeSlice(t).EstimateFreq()
	if err != nil {
		return FreqNone, 0, err
	}

	switch {
	case interval == day:
		return FreqDaily, interval, nil
	case interval == 7*day:
		return FreqWeekly, interval, nil
	case interval >= 28*day && interval <= 31*day:
		return FreqMonthly, interval, nil
	case interval >= 89*day && interval <= 92*day:
		return FreqQuarterly, interval, nil
	case interval >= 365*day && interval <= 366*day:
		return FreqYearly, interval, nil
	}
	return FreqNone, interval, nil
}
