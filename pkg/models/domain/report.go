package domain

import (
	"fmt"
	"time"
)

type ColumnType string

const (
	ColumnCategorical ColumnType = "categorical"
	ColumnNumeric     ColumnType = "numeric"
	ColumnDate        ColumnType = "date"
)

type Column struct {
	Name string
	Type ColumnType
}

type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchContains MatchType = "contains"
	MatchRegexp   MatchType = "regexp"
)

// DimensionFilter restricts a report to rows whose dimension value matches.
type DimensionFilter struct {
	Field string
	Match MatchType
	Value string
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the range length in calendar days, both ends inclusive.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Prior returns the range of equal length immediately preceding this one.
func (r DateRange) Prior() DateRange {
	days := r.Days()
	end := r.Start.AddDate(0, 0, -1)
	return DateRange{
		Start: end.AddDate(0, 0, -(days - 1)),
		End:   end,
	}
}

// ReportRequest describes one bounded query against the reporting API.
// Columns of the resulting table are Dimensions followed by Metrics,
// in request order.
type ReportRequest struct {
	Range      DateRange
	Metrics    []string
	Dimensions []string
	Filter     *DimensionFilter
}

func (r ReportRequest) Validate() error {
	if len(r.Metrics) == 0 {
		return fmt.Errorf("report request requires at least one metric")
	}
	seen := make(map[string]struct{}, len(r.Metrics))
	for _, m := range r.Metrics {
		if _, dup := seen[m]; dup {
			return fmt.Errorf("duplicate metric %q in report request", m)
		}
		seen[m] = struct{}{}
	}
	if r.Range.End.Before(r.Range.Start) {
		return fmt.Errorf("report range end %s precedes start %s",
			r.Range.End.Format("2006-01-02"), r.Range.Start.Format("2006-01-02"))
	}
	return nil
}

// Columns returns the column list a report for this request produces.
// Dimension columns named "date" carry the date type.
func (r ReportRequest) Columns() []Column {
	cols := make([]Column, 0, len(r.Dimensions)+len(r.Metrics))
	for _, d := range r.Dimensions {
		t := ColumnCategorical
		if d == "date" {
			t = ColumnDate
		}
		cols = append(cols, Column{Name: d, Type: t})
	}
	for _, m := range r.Metrics {
		cols = append(cols, Column{Name: m, Type: ColumnNumeric})
	}
	return cols
}

// RawRow is one row as returned by the reporting API: dimension values
// followed by metric values, both as strings, in request order.
type RawRow struct {
	DimensionValues []string
	MetricValues    []string
}

// RawReport is the adapter output before normalization.
type RawReport struct {
	Columns []Column
	Rows    []RawRow
}

// Value is a single typed cell. The meaningful field follows the column
// type: Text for categorical, Number for numeric, Date for date columns.
type Value struct {
	Text   string
	Number float64
	Date   time.Time
}

type Row []Value

// RowDiagnostic records a metric cell that could not be parsed and was
// coerced to zero.
type RowDiagnostic struct {
	Row    int
	Column string
	Raw    string
}

// Table is a normalized report: ordered typed columns and rows in the
// order the adapter returned them. Treated as immutable once produced.
type Table struct {
	Columns     []Column
	Rows        []Row
	Diagnostics []RowDiagnostic
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Numbers extracts a numeric column as a slice. The second return is
// false when the column does not exist.
func (t *Table) Numbers(name string) ([]float64, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx].Number
	}
	return out, true
}
