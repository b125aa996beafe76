// Package normalize converts raw report rows into typed tables. Partial
// data must still render, so unparseable metric cells never fail a report:
// they become zero and a per-row diagnostic.
package normalize

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
)

// ga4DateLayout is the 8-digit literal GA4 uses for the date dimension.
const ga4DateLayout = "20060102"

// Table builds a normalized table from adapter output. Column order
// follows the raw report's column list; no column is dropped or added.
// Row order is preserved as returned by the adapter.
func Table(raw *domain.RawReport) (*domain.Table, error) {
	dims, metrics := splitColumns(raw.Columns)

	table := &domain.Table{
		Columns: raw.Columns,
		Rows:    make([]domain.Row, 0, len(raw.Rows)),
	}

	for i, rr := range raw.Rows {
		if len(rr.DimensionValues) != dims || len(rr.MetricValues) != metrics {
			return nil, fmt.Errorf("row %d has %d+%d values, want %d dimensions and %d metrics",
				i, len(rr.DimensionValues), len(rr.MetricValues), dims, metrics)
		}

		row := make(domain.Row, 0, len(raw.Columns))
		for c, col := range raw.Columns {
			switch col.Type {
			case domain.ColumnNumeric:
				cell := rr.MetricValues[c-dims]
				n, err := parseMetric(cell)
				if err != nil {
					table.Diagnostics = append(table.Diagnostics, domain.RowDiagnostic{
						Row:    i,
						Column: col.Name,
						Raw:    cell,
					})
				}
				row = append(row, domain.Value{Number: n})
			case domain.ColumnDate:
				cell := rr.DimensionValues[c]
				d, err := time.Parse(ga4DateLayout, cell)
				if err != nil {
					table.Diagnostics = append(table.Diagnostics, domain.RowDiagnostic{
						Row:    i,
						Column: col.Name,
						Raw:    cell,
					})
				}
				row = append(row, domain.Value{Text: cell, Date: d})
			default:
				row = append(row, domain.Value{Text: rr.DimensionValues[c]})
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// splitColumns counts leading dimension columns and trailing metric
// columns. Columns always arrive as dimensions followed by metrics, in
// request order.
func splitColumns(cols []domain.Column) (dims, metrics int) {
	for _, c := range cols {
		if c.Type == domain.ColumnNumeric {
			metrics++
		} else {
			dims++
		}
	}
	return dims, metrics
}

func parseMetric(cell string) (float64, error) {
	if cell == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	return n, nil
}
