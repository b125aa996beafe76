package domain

import "time"

type Aggregation string

const (
	// AggregationAdditive marks metrics whose period total is the sum of
	// row values (sessions, users, event counts, revenue).
	AggregationAdditive Aggregation = "additive"

	// AggregationPreAggregated marks ratio-like metrics the API already
	// reports at row level (bounce rate, engagement rate, average session
	// duration). Summing them is wrong; they are recombined as a weighted
	// average instead.
	AggregationPreAggregated Aggregation = "pre-aggregated"
)

// MetricSpec classifies one metric for aggregation. WeightMetric names the
// companion column used to weight a pre-aggregated metric; when absent
// from a table the engine falls back to an unweighted mean and flags the
// result approximate.
type MetricSpec struct {
	Name         string
	Aggregation  Aggregation
	WeightMetric string
}

type MetricTotal struct {
	Value       float64
	Approximate bool
}

// Summary maps metric name to its period total.
type Summary map[string]MetricTotal

// PeriodComparison is one metric compared across two equal-length periods.
// DeltaPercent is nil when the prior total is zero; it is never NaN or Inf.
type PeriodComparison struct {
	Metric        string
	Current       float64
	Prior         float64
	DeltaAbsolute float64
	DeltaPercent  *float64
}

// StageDef selects the metric column representing one funnel stage.
type StageDef struct {
	Name   string
	Metric string
}

// FunnelStage carries the summed count for a stage and the conversion
// ratio from the previous stage. Conversion is nil for the first stage and
// whenever the previous stage's count is zero.
type FunnelStage struct {
	Name       string
	Count      float64
	Conversion *float64
}

// Funnel keeps stages in caller order. Inversions lists the stages whose
// count exceeds the preceding stage; the data is surfaced, not corrected,
// since an inversion points at a tracking problem the user must see.
type Funnel struct {
	Stages     []FunnelStage
	Inversions []string
}

type TopNGroup struct {
	Key   string
	Value float64
	Rank  int
}

// SeriesPoint is one day of a metric series.
type SeriesPoint struct {
	Date  time.Time
	Value float64
}

type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendFlat    TrendDirection = "flat"
)

// TrendSummary describes the shape of a daily metric series.
type TrendSummary struct {
	Direction     TrendDirection
	Mean          float64
	StdDev        float64
	MovingAverage []float64
	// Anomalies holds indexes of points more than the configured number
	// of standard deviations away from the mean.
	Anomalies []int
}
