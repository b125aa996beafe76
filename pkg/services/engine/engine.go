// Package engine computes growth KPIs from normalized report tables:
// period summaries, period-over-period deltas, funnel conversion, and
// top-N breakdowns. Every operation is a pure function over its inputs;
// identical inputs always produce identical outputs.
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
)

// Summarize totals each metric across all rows. Additive metrics are
// summed. Pre-aggregated metrics are recombined as an average weighted by
// their companion weight metric; when the weight column is missing the
// unweighted mean is used and the total is flagged approximate. An empty
// table yields zero for every metric.
func Summarize(table *domain.Table, specs []domain.MetricSpec) (domain.Summary, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("summarize requires at least one metric spec")
	}

	summary := make(domain.Summary, len(specs))
	for _, spec := range specs {
		values, ok := table.Numbers(spec.Name)
		if !ok {
			return nil, fmt.Errorf("metric %q not present in table", spec.Name)
		}

		switch spec.Aggregation {
		case domain.AggregationAdditive:
			summary[spec.Name] = domain.MetricTotal{Value: sum(values)}
		case domain.AggregationPreAggregated:
			summary[spec.Name] = recombine(table, spec, values)
		default:
			return nil, fmt.Errorf("metric %q has unknown aggregation %q", spec.Name, spec.Aggregation)
		}
	}
	return summary, nil
}

// CompareToPrior compares the same metrics across two periods of equal
// length. Both tables must carry the same metric columns and are totaled
// with the same specs. DeltaPercent is nil when the prior total is zero;
// the division is never performed.
func CompareToPrior(current, prior *domain.Table, specs []domain.MetricSpec) ([]domain.PeriodComparison, error) {
	currentTotals, err := Summarize(current, specs)
	if err != nil {
		return nil, fmt.Errorf("current period: %w", err)
	}
	priorTotals, err := Summarize(prior, specs)
	if err != nil {
		return nil, fmt.Errorf("prior period: %w", err)
	}

	out := make([]domain.PeriodComparison, 0, len(specs))
	for _, spec := range specs {
		cur := currentTotals[spec.Name].Value
		prev := priorTotals[spec.Name].Value

		cmp := domain.PeriodComparison{
			Metric:        spec.Name,
			Current:       cur,
			Prior:         prev,
			DeltaAbsolute: cur - prev,
		}
		if prev != 0 {
			pct := (cmp.DeltaAbsolute / prev) * 100
			cmp.DeltaPercent = &pct
		}
		out = append(out, cmp)
	}
	return out, nil
}

// BuildFunnel sums one metric column per stage, in caller order, and
// derives adjacent conversion ratios. A ratio is nil when the preceding
// stage's count is zero. A later stage exceeding an earlier one is
// recorded as an inversion and left in place: it points at a tracking
// problem the user must see, not data to be silently fixed.
func BuildFunnel(table *domain.Table, stages []domain.StageDef) (*domain.Funnel, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("funnel requires at least one stage")
	}

	funnel := &domain.Funnel{Stages: make([]domain.FunnelStage, 0, len(stages))}
	for i, def := range stages {
		values, ok := table.Numbers(def.Metric)
		if !ok {
			return nil, fmt.Errorf("stage %q: metric %q not present in table", def.Name, def.Metric)
		}

		stage := domain.FunnelStage{Name: def.Name, Count: sum(values)}
		if i > 0 {
			prev := funnel.Stages[i-1]
			if prev.Count != 0 {
				ratio := stage.Count / prev.Count
				stage.Conversion = &ratio
			}
			if stage.Count > prev.Count {
				funnel.Inversions = append(funnel.Inversions, stage.Name)
			}
		}
		funnel.Stages = append(funnel.Stages, stage)
	}
	return funnel, nil
}

// TopN groups rows by a dimension column, sums one metric per group, and
// returns the n largest groups sorted descending by total, ties broken by
// ascending group key. n larger than the number of distinct groups returns
// all groups.
func TopN(table *domain.Table, groupBy, metric string, n int) ([]domain.TopNGroup, error) {
	if n < 1 {
		return nil, fmt.Errorf("top-n requires n >= 1, got %d", n)
	}
	groupIdx := table.ColumnIndex(groupBy)
	if groupIdx < 0 {
		return nil, fmt.Errorf("group column %q not present in table", groupBy)
	}
	metricIdx := table.ColumnIndex(metric)
	if metricIdx < 0 {
		return nil, fmt.Errorf("metric %q not present in table", metric)
	}

	totals := make(map[string]float64)
	for _, row := range table.Rows {
		totals[groupKey(row[groupIdx], table.Columns[groupIdx].Type)] += row[metricIdx].Number
	}

	groups := make([]domain.TopNGroup, 0, len(totals))
	for key, value := range totals {
		groups = append(groups, domain.TopNGroup{Key: key, Value: value})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Value != groups[j].Value {
			return groups[i].Value > groups[j].Value
		}
		return groups[i].Key < groups[j].Key
	})

	if n < len(groups) {
		groups = groups[:n]
	}
	for i := range groups {
		groups[i].Rank = i + 1
	}
	return groups, nil
}

// DailySeries groups a metric by the table's date column and returns one
// summed point per day, ascending by date.
func DailySeries(table *domain.Table, metric string) ([]domain.SeriesPoint, error) {
	dateIdx := -1
	for i, c := range table.Columns {
		if c.Type == domain.ColumnDate {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("table has no date column")
	}
	metricIdx := table.ColumnIndex(metric)
	if metricIdx < 0 {
		return nil, fmt.Errorf("metric %q not present in table", metric)
	}

	totals := make(map[string]float64)
	for _, row := range table.Rows {
		totals[row[dateIdx].Date.Format("20060102")] += row[metricIdx].Number
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]domain.SeriesPoint, 0, len(keys))
	for _, k := range keys {
		d, err := parseDay(k)
		if err != nil {
			return nil, err
		}
		series = append(series, domain.SeriesPoint{Date: d, Value: totals[k]})
	}
	return series, nil
}

func recombine(table *domain.Table, spec domain.MetricSpec, values []float64) domain.MetricTotal {
	if spec.WeightMetric != "" {
		if weights, ok := table.Numbers(spec.WeightMetric); ok {
			var weighted, total float64
			for i, v := range values {
				weighted += v * weights[i]
				total += weights[i]
			}
			if total != 0 {
				return domain.MetricTotal{Value: weighted / total}
			}
			return domain.MetricTotal{}
		}
	}
	// No usable weight column: fall back to the arithmetic mean and mark
	// the total approximate.
	if len(values) == 0 {
		return domain.MetricTotal{}
	}
	return domain.MetricTotal{Value: sum(values) / float64(len(values)), Approximate: true}
}

func groupKey(v domain.Value, t domain.ColumnType) string {
	switch t {
	case domain.ColumnDate:
		return v.Date.Format("20060102")
	case domain.ColumnNumeric:
		return fmt.Sprintf("%g", v.Number)
	default:
		return v.Text
	}
}

func parseDay(key string) (t time.Time, err error) {
	t, err = time.Parse("20060102", key)
	if err != nil {
		err = fmt.Errorf("malformed date key %q: %w", key, err)
	}
	return t, err
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}
