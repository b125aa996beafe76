package fixture

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/gi-tools/growth-atlas/pkg/services/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureRequest() domain.ReportRequest {
	start, _ := time.Parse("2006-01-02", "2025-06-01")
	end, _ := time.Parse("2006-01-02", "2025-06-07")
	return domain.ReportRequest{
		Range:      domain.DateRange{Start: start, End: end},
		Dimensions: []string{"date", "country"},
		Metrics:    []string{"sessions", "bounceRate"},
	}
}

func TestClient_Deterministic(t *testing.T) {
	profile := domain.PropertyProfile{Name: "demo"}
	req := fixtureRequest()

	first, err := NewClient(profile).RunReport(context.Background(), req)
	require.NoError(t, err)
	second, err := NewClient(profile).RunReport(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other, err := NewClient(domain.PropertyProfile{Name: "staging"}).RunReport(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, first.Rows, other.Rows)
}

func TestClient_ShapeFollowsRequest(t *testing.T) {
	req := fixtureRequest()

	raw, err := NewClient(domain.PropertyProfile{Name: "demo"}).RunReport(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, req.Columns(), raw.Columns)
	// 7 days, 3 segments per day for the country dimension.
	assert.Len(t, raw.Rows, 21)

	// Every row normalizes cleanly.
	table, err := normalize.Table(raw)
	require.NoError(t, err)
	assert.Empty(t, table.Diagnostics)

	for _, row := range raw.Rows {
		rate, err := strconv.ParseFloat(row.MetricValues[1], 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rate, 0.2)
		assert.LessOrEqual(t, rate, 0.8)
	}
}

func TestClient_NoDimensionsYieldsSingleRow(t *testing.T) {
	req := fixtureRequest()
	req.Dimensions = nil

	raw, err := NewClient(domain.PropertyProfile{Name: "demo"}).RunReport(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, raw.Rows, 1)
}

func TestClient_RejectsInvalidRequest(t *testing.T) {
	req := fixtureRequest()
	req.Metrics = nil

	_, err := NewClient(domain.PropertyProfile{Name: "demo"}).RunReport(context.Background(), req)
	assert.Error(t, err)
}
