package main

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aouyang1/go-alchemy/exogenous"
	"github.com/aouyang1/go-alchemy/timedataset"
)

const sample = `date,y,promo,label
2024-01-03,3,1,c
2024-01-01,1,0,a
2024-01-02,NA,1,b
2024-01-04,4,,d
`

func TestLoadCSV(t *testing.T) {
	tbl, err := LoadCSV(strings.NewReader(sample), "date", time.DateOnly)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
	}, tbl.T)

	y, err := tbl.Column("y")
	require.NoError(t, err)
	assert.Equal(t, 1.0, y[0])
	assert.True(t, math.IsNaN(y[1]))
	assert.Equal(t, 3.0, y[2])

	_, err = tbl.Column("label")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	dropped, n, err := tbl.DropMissing("y", "promo")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}, dropped.T)
	assert.Equal(t, []float64{0, 1}, dropped.Columns["promo"])

	_, _, err = tbl.DropMissing("missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestLoadCSVErrors(t *testing.T) {
	testData := map[string]struct {
		input string
		err   error
	}{
		"empty":          {input: "", err: ErrNoRows},
		"header only":    {input: "date,y\n", err: ErrNoRows},
		"no time column": {input: "ds,y\n2024-01-01,1\n", err: ErrNoTimeColumn},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(td.input), "date", time.DateOnly)
			assert.ErrorIs(t, err, td.err)
		})
	}

	_, err := LoadCSV(strings.NewReader("date,y\n01/02/2024,1\n"), "date", time.DateOnly)
	assert.Error(t, err)
}

func TestBuildExog(t *testing.T) {
	tSeries := timedataset.GenerateCalendarT(24, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), timedataset.FreqMonthly)
	promo := make([]float64, 24)
	tbl := &Table{T: tSeries, Columns: map[string][]float64{"promo": promo}}

	exog, err := buildExog(tbl, nil, false, "")
	require.NoError(t, err)
	assert.Equal(t, exogenous.None{}, exog)

	exog, err = buildExog(tbl, []string{"promo"}, true, "")
	require.NoError(t, err)
	present, ok := exog.(exogenous.Present)
	require.True(t, ok)
	assert.Equal(t, "promo", present.Names[0])
	assert.Len(t, present.Names, 1+len(exogenous.DefaultUSHolidays()))

	christmas, err := present.Column("holiday_christmas_day")
	require.NoError(t, err)
	assert.Equal(t, 1.0, christmas[11])
	assert.Equal(t, 1.0, christmas[23])

	_, err = buildExog(tbl, []string{"price"}, false, "")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{"-file", "data.csv", "-grid", "-exog", "promo, price", "-criterion", "bic", "-parallel", "2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"promo", "price"}, cfg.exogColumns())

	opt, err := cfg.options()
	require.NoError(t, err)
	assert.True(t, opt.GridSearch)
	assert.Equal(t, 2, opt.Search.Parallelization)
	assert.Equal(t, "bic", string(opt.Search.Criterion))

	cfg.freq = "fortnightly"
	_, err = cfg.options()
	assert.ErrorIs(t, err, timedataset.ErrUnknownFrequency)

	_, err = parseFlags([]string{"-grid"})
	assert.Error(t, err)
}
