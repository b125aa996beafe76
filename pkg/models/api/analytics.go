package api

// Property is one registered GA4 property profile.
type Property struct {
	Name       string `json:"name"`
	PropertyID string `json:"property_id"`
}

type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type CellDiagnostic struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Raw    string `json:"raw"`
}

// Table is a normalized report rendered for transport: cells are strings
// for categorical columns, numbers for metric columns, and ISO dates for
// date columns.
type Table struct {
	Columns     []Column         `json:"columns"`
	Rows        [][]any          `json:"rows"`
	RowCount    int              `json:"row_count"`
	Diagnostics []CellDiagnostic `json:"diagnostics,omitempty"`
}

type MetricTotal struct {
	Metric      string  `json:"metric"`
	Value       float64 `json:"value"`
	Approximate bool    `json:"approximate,omitempty"`
}

type Summary struct {
	Totals []MetricTotal `json:"totals"`
}

type PeriodComparison struct {
	Metric        string   `json:"metric"`
	Current       float64  `json:"current"`
	Prior         float64  `json:"prior"`
	DeltaAbsolute float64  `json:"delta_absolute"`
	DeltaPercent  *float64 `json:"delta_percent,omitempty"`
}

type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type Comparison struct {
	CurrentRange   Range              `json:"current_range"`
	PriorRange     Range              `json:"prior_range"`
	Metrics        []PeriodComparison `json:"metrics"`
	CurrentSeries  []SeriesPoint      `json:"current_series,omitempty"`
	PriorSeries    []SeriesPoint      `json:"prior_series,omitempty"`
	TrendDirection string             `json:"trend_direction,omitempty"`
}

type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type FunnelStage struct {
	Name       string   `json:"name"`
	Count      float64  `json:"count"`
	Conversion *float64 `json:"conversion,omitempty"`
}

type Funnel struct {
	Stages     []FunnelStage `json:"stages"`
	Inversions []string      `json:"inversions,omitempty"`
}

type TopNGroup struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Rank  int     `json:"rank"`
}

// MetricInfo is one catalog entry with its aggregation classification.
type MetricInfo struct {
	Name         string `json:"name"`
	Aggregation  string `json:"aggregation"`
	WeightMetric string `json:"weight_metric,omitempty"`
}

type DatasetInfo struct {
	Name       string   `json:"name"`
	Dimensions []string `json:"dimensions"`
	Metrics    []string `json:"metrics"`
}

type Catalog struct {
	Metrics    []MetricInfo  `json:"metrics"`
	Dimensions []string      `json:"dimensions"`
	Datasets   []DatasetInfo `json:"datasets"`
}

// Error is the uniform error envelope for the HTTP API.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
