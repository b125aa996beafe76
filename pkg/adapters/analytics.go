// Package adapters maps domain models onto API transport models.
package adapters

import (
	"github.com/gi-tools/growth-atlas/pkg/models/api"
	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/gi-tools/growth-atlas/pkg/services/analytics"
	"github.com/gi-tools/growth-atlas/pkg/services/catalog"
)

func MapProfileDomainToApi(p domain.PropertyProfile) api.Property {
	return api.Property{Name: p.Name, PropertyID: p.PropertyID}
}

func MapTableDomainToApi(t *domain.Table) api.Table {
	out := api.Table{
		Columns:  make([]api.Column, 0, len(t.Columns)),
		Rows:     make([][]any, 0, len(t.Rows)),
		RowCount: len(t.Rows),
	}
	for _, c := range t.Columns {
		out.Columns = append(out.Columns, api.Column{Name: c.Name, Type: string(c.Type)})
	}
	for _, row := range t.Rows {
		cells := make([]any, len(row))
		for i, c := range t.Columns {
			switch c.Type {
			case domain.ColumnNumeric:
				cells[i] = row[i].Number
			case domain.ColumnDate:
				cells[i] = row[i].Date.Format("2006-01-02")
			default:
				cells[i] = row[i].Text
			}
		}
		out.Rows = append(out.Rows, cells)
	}
	for _, d := range t.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, api.CellDiagnostic{
			Row:    d.Row,
			Column: d.Column,
			Raw:    d.Raw,
		})
	}
	return out
}

// MapSummaryDomainToApi renders totals in the order the metric specs
// were given, so responses are stable across calls.
func MapSummaryDomainToApi(s domain.Summary, specs []domain.MetricSpec) api.Summary {
	out := api.Summary{Totals: make([]api.MetricTotal, 0, len(specs))}
	for _, spec := range specs {
		t := s[spec.Name]
		out.Totals = append(out.Totals, api.MetricTotal{
			Metric:      spec.Name,
			Value:       t.Value,
			Approximate: t.Approximate,
		})
	}
	return out
}

func MapComparisonDomainToApi(r *analytics.ComparisonResult) api.Comparison {
	out := api.Comparison{
		CurrentRange: mapRange(r.CurrentRange),
		PriorRange:   mapRange(r.PriorRange),
		Metrics:      make([]api.PeriodComparison, 0, len(r.Metrics)),
	}
	for _, m := range r.Metrics {
		out.Metrics = append(out.Metrics, api.PeriodComparison{
			Metric:        m.Metric,
			Current:       m.Current,
			Prior:         m.Prior,
			DeltaAbsolute: m.DeltaAbsolute,
			DeltaPercent:  m.DeltaPercent,
		})
	}
	out.CurrentSeries = mapSeries(r.CurrentSeries)
	out.PriorSeries = mapSeries(r.PriorSeries)
	if r.Trend != nil {
		out.TrendDirection = string(r.Trend.Direction)
	}
	return out
}

func MapFunnelDomainToApi(f *domain.Funnel) api.Funnel {
	out := api.Funnel{
		Stages:     make([]api.FunnelStage, 0, len(f.Stages)),
		Inversions: f.Inversions,
	}
	for _, s := range f.Stages {
		out.Stages = append(out.Stages, api.FunnelStage{
			Name:       s.Name,
			Count:      s.Count,
			Conversion: s.Conversion,
		})
	}
	return out
}

func MapTopNDomainToApi(groups []domain.TopNGroup) []api.TopNGroup {
	out := make([]api.TopNGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, api.TopNGroup{Key: g.Key, Value: g.Value, Rank: g.Rank})
	}
	return out
}

func MapCatalogDomainToApi(c *catalog.Catalog) api.Catalog {
	out := api.Catalog{Dimensions: c.Dimensions()}
	for _, m := range c.Metrics() {
		out.Metrics = append(out.Metrics, api.MetricInfo{
			Name:         m.Name,
			Aggregation:  string(m.Aggregation),
			WeightMetric: m.WeightMetric,
		})
	}
	for _, ds := range c.Datasets() {
		out.Datasets = append(out.Datasets, api.DatasetInfo{
			Name:       ds.Name,
			Dimensions: ds.Dimensions,
			Metrics:    ds.Metrics,
		})
	}
	return out
}

func mapRange(r domain.DateRange) api.Range {
	return api.Range{
		Start: r.Start.Format("2006-01-02"),
		End:   r.End.Format("2006-01-02"),
	}
}

func mapSeries(points []domain.SeriesPoint) []api.SeriesPoint {
	if len(points) == 0 {
		return nil
	}
	out := make([]api.SeriesPoint, 0, len(points))
	for _, p := range points {
		out = append(out, api.SeriesPoint{Date: p.Date.Format("2006-01-02"), Value: p.Value})
	}
	return out
}
