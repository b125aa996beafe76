package engine

import (
	"testing"
	"time"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesOf(values ...float64) []domain.SeriesPoint {
	start, _ := time.Parse("20060102", "20250601")
	out := make([]domain.SeriesPoint, len(values))
	for i, v := range values {
		out[i] = domain.SeriesPoint{Date: start.AddDate(0, 0, i), Value: v}
	}
	return out
}

func TestAnalyzeTrend_Rising(t *testing.T) {
	summary, err := AnalyzeTrend(seriesOf(10, 12, 11, 20, 25, 22))
	require.NoError(t, err)

	assert.Equal(t, domain.TrendRising, summary.Direction)
	assert.InDelta(t, 16.666666, summary.Mean, 1e-4)
	assert.Len(t, summary.MovingAverage, 6)
	assert.InDelta(t, 10.0, summary.MovingAverage[0], 1e-9)
	assert.InDelta(t, 11.0, summary.MovingAverage[1], 1e-9)
}

func TestAnalyzeTrend_Falling(t *testing.T) {
	summary, err := AnalyzeTrend(seriesOf(30, 28, 25, 12, 10, 8))
	require.NoError(t, err)
	assert.Equal(t, domain.TrendFalling, summary.Direction)
}

func TestAnalyzeTrend_ShortSeriesIsFlat(t *testing.T) {
	summary, err := AnalyzeTrend(seriesOf(42))
	require.NoError(t, err)

	assert.Equal(t, domain.TrendFlat, summary.Direction)
	assert.Empty(t, summary.Anomalies)
}

func TestAnalyzeTrend_ConstantSeriesIsFlat(t *testing.T) {
	summary, err := AnalyzeTrend(seriesOf(10, 10, 10, 10))
	require.NoError(t, err)

	assert.Equal(t, domain.TrendFlat, summary.Direction)
	assert.Empty(t, summary.Anomalies)
}

func TestAnalyzeTrend_FlagsAnomalies(t *testing.T) {
	// One spike far outside the rest of an otherwise steady series.
	values := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 100, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10}
	summary, err := AnalyzeTrend(seriesOf(values...))
	require.NoError(t, err)

	assert.Equal(t, []int{9}, summary.Anomalies)
}
