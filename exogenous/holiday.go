package exogenous

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"

	"github.com/aouyang1/go-alchemy/timedataset"
)

var ErrNoHolidays = errors.New("no holidays provided")

// DefaultUSHolidays are the federal holidays most likely to move retail and traffic series
func DefaultUSHolidays() []*cal.Holiday {
	return []*cal.Holiday{
		us.NewYear,
		us.MemorialDay,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	}
}

// HolidayName converts a holiday name into a covariate name
func HolidayName(hol *cal.Holiday) string {
	name := strings.ToLower(hol.Name)
	name = strings.ReplaceAll(name, "'", "")
	name = strings.ReplaceAll(name, ".", "")
	return "holiday_" + strings.ReplaceAll(name, " ", "_")
}

// Holidays builds one indicator covariate per holiday. A time point is marked with 1 when the
// observed holiday falls within the sampling period starting at that time point. interval is
// only used to step series without a calendar frequency.
func Holidays(t []time.Time, freq timedataset.Frequency, interval time.Duration, holidays ...*cal.Holiday) (Present, error) {
	if len(holidays) == 0 {
		return Present{}, ErrNoHolidays
	}
	if len(t) == 0 {
		return Present{}, fmt.Errorf("empty time index, %w", ErrColumnLenMismatch)
	}

	names := make([]string, 0, len(holidays))
	columns := make([][]float64, 0, len(holidays))
	for _, hol := range holidays {
		names = append(names, HolidayName(hol))
		columns = append(columns, holidayIndicator(hol, t, freq, interval))
	}
	return NewPresent(t, names, columns)
}

func holidayIndicator(hol *cal.Holiday, t []time.Time, freq timedataset.Frequency, interval time.Duration) []float64 {
	start := t[0]
	end := freq.Step(t[len(t)-1], 1, interval)

	var observedDays []time.Time
	for year := start.Year() - 1; year <= end.Year(); year++ {
		_, observed := hol.Calc(year)
		if observed.IsZero() {
			continue
		}
		// observed dates are calendar days, rebuild them in the location of the series
		y, m, d := observed.Date()
		observedDays = append(observedDays, time.Date(y, m, d, 0, 0, 0, 0, start.Location()))
	}

	indicator := make([]float64, len(t))
	for i, ti := range t {
		next := freq.Step(ti, 1, interval)
		for _, day := range observedDays {
			if !day.Before(ti) && day.Before(next) {
				indicator[i] = 1
				break
			}
		}
	}
	return indicator
}
