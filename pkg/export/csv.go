// Package export renders normalized tables for download: CSV, XLSX, and
// ZIP bundles of several datasets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
)

// WriteCSV writes one table: a header of column names in table order,
// then one record per row. Numeric cells use locale-invariant decimal
// points and the shortest representation that round-trips float64.
func WriteCSV(w io.Writer, table *domain.Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, c := range table.Columns {
			record[i] = formatCell(row[i], c.Type)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v domain.Value, t domain.ColumnType) string {
	switch t {
	case domain.ColumnNumeric:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case domain.ColumnDate:
		return v.Date.Format("2006-01-02")
	default:
		return v.Text
	}
}

// Filename builds the conventional export name for one dataset and range.
func Filename(dataset string, r domain.DateRange, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s",
		dataset, r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"), ext)
}
