package engine

import (
	"fmt"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/montanaflynn/stats"
)

const (
	// trendWindow is the moving-average window in days.
	trendWindow = 7

	// anomalyThreshold is the z-score beyond which a point is flagged.
	anomalyThreshold = 2.0
)

// AnalyzeTrend summarizes the shape of a daily metric series: overall
// direction (second half vs first half), moving average, and z-score
// anomaly flags. Series shorter than two points come back flat with no
// anomalies.
func AnalyzeTrend(series []domain.SeriesPoint) (*domain.TrendSummary, error) {
	summary := &domain.TrendSummary{Direction: domain.TrendFlat}
	if len(series) < 2 {
		return summary, nil
	}

	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Value
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return nil, fmt.Errorf("trend mean: %w", err)
	}
	stdDev, err := stats.StandardDeviation(values)
	if err != nil {
		return nil, fmt.Errorf("trend stddev: %w", err)
	}
	summary.Mean = mean
	summary.StdDev = stdDev

	mid := len(values) / 2
	firstHalf, err := stats.Sum(values[:mid])
	if err != nil {
		return nil, fmt.Errorf("trend first half: %w", err)
	}
	secondHalf, err := stats.Sum(values[mid:])
	if err != nil {
		return nil, fmt.Errorf("trend second half: %w", err)
	}
	switch {
	case secondHalf > firstHalf:
		summary.Direction = domain.TrendRising
	case secondHalf < firstHalf:
		summary.Direction = domain.TrendFalling
	}

	summary.MovingAverage = movingAverage(values, trendWindow)

	if stdDev > 0 {
		for i, v := range values {
			if z := (v - mean) / stdDev; z > anomalyThreshold || z < -anomalyThreshold {
				summary.Anomalies = append(summary.Anomalies, i)
			}
		}
	}

	return summary, nil
}

// movingAverage is a trailing window average; early points average over
// the shorter prefix.
func movingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	var running float64
	for i, v := range values {
		running += v
		if i >= window {
			running -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = running / float64(n)
	}
	return out
}
