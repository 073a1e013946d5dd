// Package report derives read-only views of the payroll: the payroll table,
// aggregate statistics, salary ordering, chart series and salary slips.
package report

import (
	"cmp"
	"fmt"
	"io"
	"iter"
	"math"
	"slices"
	"strings"

	"github.com/felixgeelhaar/paybook/pkg/domain/payroll"
)

// Row is one line of the payroll table.
type Row struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Gross float64 `json:"gross"`
	Tax   float64 `json:"tax"`
	Net   float64 `json:"net"`
}

// NewRow derives the payroll figures for one record.
func NewRow(r payroll.Record) Row {
	gross := r.Gross()
	tax := payroll.Tax(gross)
	return Row{ID: r.ID, Name: r.Name, Gross: gross, Tax: tax, Net: gross - tax}
}

// ListView yields rows in store order. Each range over the sequence starts
// from the first record again.
func ListView(records []payroll.Record) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, r := range records {
			if !yield(NewRow(r)) {
				return
			}
		}
	}
}

// Rows collects a ListView into a slice.
func Rows(records []payroll.Record) []Row {
	return slices.Collect(ListView(records))
}

const tableRule = 60

// FormatTable writes the fixed-width payroll table.
func FormatTable(w io.Writer, rows iter.Seq[Row]) error {
	if _, err := fmt.Fprintf(w, "%-10s%-15s%-15s%-10s%-15s\n", "ID", "Name", "Gross Salary", "Tax", "Net Salary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", tableRule)); err != nil {
		return err
	}
	for row := range rows {
		if _, err := fmt.Fprintf(w, "%-10s%-15s%-15.2f%-10.2f%-15.2f\n", row.ID, row.Name, row.Gross, row.Tax, row.Net); err != nil {
			return err
		}
	}
	return nil
}

// Stats summarises gross salaries across the payroll.
type Stats struct {
	Count  int     `json:"count"`
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	StdDev float64 `json:"std_dev"`
}

// Statistics computes Stats over gross salary. The standard deviation is the
// population one. An empty payroll returns payroll.ErrEmptyCollection.
func Statistics(records []payroll.Record) (Stats, error) {
	if len(records) == 0 {
		return Stats{}, payroll.ErrEmptyCollection
	}

	s := Stats{Count: len(records), Max: math.Inf(-1), Min: math.Inf(1)}
	for _, r := range records {
		g := r.Gross()
		s.Total += g
		s.Max = max(s.Max, g)
		s.Min = min(s.Min, g)
	}
	s.Mean = s.Total / float64(s.Count)

	var sq float64
	for _, r := range records {
		d := r.Gross() - s.Mean
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / float64(s.Count))
	return s, nil
}

// SortedBySalaryDesc orders records by descending gross salary. Equal
// salaries keep their store order.
func SortedBySalaryDesc(records []payroll.Record) []payroll.Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b payroll.Record) int {
		return cmp.Compare(b.Gross(), a.Gross())
	})
	return out
}

// Series is the label/value pair list handed to chart renderers.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

func (s Series) Len() int { return len(s.Labels) }

// ChartSeries returns employee names and gross salaries as parallel slices.
func ChartSeries(records []payroll.Record) (Series, error) {
	if len(records) == 0 {
		return Series{}, payroll.ErrEmptyCollection
	}
	s := Series{
		Labels: make([]string, 0, len(records)),
		Values: make([]float64, 0, len(records)),
	}
	for _, r := range records {
		s.Labels = append(s.Labels, r.Name)
		s.Values = append(s.Values, r.Gross())
	}
	return s, nil
}
