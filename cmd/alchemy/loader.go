package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNoTimeColumn  = errors.New("time column not found")
	ErrUnknownColumn = errors.New("column not found")
	ErrNoRows        = errors.New("no rows in file")
)

// Table is a time indexed set of numeric columns
type Table struct {
	T       []time.Time
	Columns map[string][]float64
}

// LoadCSV reads a csv with a header row. Rows are sorted by time. Empty, NA and NaN cells
// load as NaN. Columns that are not numeric are skipped.
func LoadCSV(r io.Reader, timeCol, timeFormat string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read header, %w", err)
	}
	timeIdx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == timeCol {
			timeIdx = i
		}
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("%q, %w", timeCol, ErrNoTimeColumn)
	}

	type row struct {
		t    time.Time
		vals []string
	}
	var rows []row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read row %d, %w", len(rows)+1, err)
		}
		ts, err := time.Parse(timeFormat, strings.TrimSpace(record[timeIdx]))
		if err != nil {
			return nil, fmt.Errorf("unable to parse time at row %d, %w", len(rows)+1, err)
		}
		rows = append(rows, row{t: ts, vals: record})
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].t.Before(rows[j].t)
	})

	tbl := &Table{
		T:       make([]time.Time, len(rows)),
		Columns: make(map[string][]float64),
	}
	for i, r := range rows {
		tbl.T[i] = r.t
	}
	for c, name := range header {
		if c == timeIdx {
			continue
		}
		col := make([]float64, len(rows))
		numeric := true
		for i, r := range rows {
			v, err := parseCell(r.vals[c])
			if err != nil {
				numeric = false
				break
			}
			col[i] = v
		}
		if numeric {
			tbl.Columns[strings.TrimSpace(name)] = col
		}
	}
	return tbl, nil
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan", "null":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// Column returns the named column
func (t *Table) Column(name string) ([]float64, error) {
	col, exists := t.Columns[name]
	if !exists {
		return nil, fmt.Errorf("%q, %w", name, ErrUnknownColumn)
	}
	return col, nil
}

// DropMissing returns a copy without the rows where any of the named columns is NaN along
// with the number of dropped rows
func (t *Table) DropMissing(names ...string) (*Table, int, error) {
	cols := make([][]float64, 0, len(names))
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, 0, err
		}
		cols = append(cols, col)
	}

	keep := make([]int, 0, len(t.T))
	for i := range t.T {
		missing := false
		for _, col := range cols {
			if math.IsNaN(col[i]) {
				missing = true
				break
			}
		}
		if !missing {
			keep = append(keep, i)
		}
	}

	out := &Table{
		T:       make([]time.Time, len(keep)),
		Columns: make(map[string][]float64, len(t.Columns)),
	}
	for j, i := range keep {
		out.T[j] = t.T[i]
	}
	for name, col := range t.Columns {
		filtered := make([]float64, len(keep))
		for j, i := range keep {
			filtered[j] = col[i]
		}
		out.Columns[name] = filtered
	}
	return out, len(t.T) - len(keep), nil
}
