package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/gi-tools/growth-atlas/pkg/services/catalog"
	"github.com/gi-tools/growth-atlas/pkg/services/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) GetProfiles(ctx context.Context) ([]domain.PropertyProfile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PropertyProfile), args.Error(1)
}

func (m *mockRegistry) GetProfile(ctx context.Context, name string) (domain.PropertyProfile, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.PropertyProfile), args.Error(1)
}

type mockClient struct {
	mock.Mock
}

func (m *mockClient) RunReport(ctx context.Context, req domain.ReportRequest) (*domain.RawReport, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawReport), args.Error(1)
}

func newTestService(t *testing.T) (*Service, *mockClient) {
	t.Helper()

	reg := new(mockRegistry)
	reg.On("GetProfile", mock.Anything, "demo").
		Return(domain.PropertyProfile{Name: "demo", PropertyID: "123"}, nil)

	client := new(mockClient)
	factory := func(_ context.Context, _ domain.PropertyProfile) (report.Client, error) {
		return client, nil
	}
	return NewService(reg, catalog.Default(), factory), client
}

func dateRange(from, to string) domain.DateRange {
	start, _ := time.Parse("2006-01-02", from)
	end, _ := time.Parse("2006-01-02", to)
	return domain.DateRange{Start: start, End: end}
}

func flatReport(req domain.ReportRequest, perRow ...[]string) *domain.RawReport {
	raw := &domain.RawReport{Columns: req.Columns()}
	for _, values := range perRow {
		raw.Rows = append(raw.Rows, domain.RawRow{MetricValues: values})
	}
	return raw
}

func TestRunQuery_ExpandsDataset(t *testing.T) {
	svc, client := newTestService(t)
	r := dateRange("2025-06-01", "2025-06-07")

	ds, err := svc.Catalog().Dataset("devices")
	require.NoError(t, err)

	expected := domain.ReportRequest{
		Range:      r,
		Metrics:    ds.Metrics,
		Dimensions: ds.Dimensions,
	}
	client.On("RunReport", mock.Anything, expected).
		Return(&domain.RawReport{Columns: expected.Columns()}, nil)

	table, err := svc.RunQuery(context.Background(), Query{
		Profile: "demo",
		Range:   r,
		Dataset: "devices",
	})
	require.NoError(t, err)
	assert.Equal(t, expected.Columns(), table.Columns)

	client.AssertExpectations(t)
}

func TestRunQuery_RejectsDatasetWithExplicitColumns(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RunQuery(context.Background(), Query{
		Profile: "demo",
		Range:   dateRange("2025-06-01", "2025-06-07"),
		Dataset: "devices",
		Metrics: []string{"sessions"},
	})
	assert.ErrorContains(t, err, "pick one")
}

func TestCompare_QueriesPriorWindow(t *testing.T) {
	svc, client := newTestService(t)
	r := dateRange("2025-06-08", "2025-06-14")

	currentReq := domain.ReportRequest{Range: r, Metrics: []string{"sessions"}}
	priorReq := domain.ReportRequest{Range: dateRange("2025-06-01", "2025-06-07"), Metrics: []string{"sessions"}}

	client.On("RunReport", mock.Anything, currentReq).
		Return(flatReport(currentReq, []string{"150"}, []string{"100"}), nil)
	client.On("RunReport", mock.Anything, priorReq).
		Return(flatReport(priorReq, []string{"200"}), nil)

	result, err := svc.Compare(context.Background(), Query{
		Profile: "demo",
		Range:   r,
		Metrics: []string{"sessions"},
	})
	require.NoError(t, err)

	assert.Equal(t, priorReq.Range, result.PriorRange)
	require.Len(t, result.Metrics, 1)

	cmp := result.Metrics[0]
	assert.Equal(t, 250.0, cmp.Current)
	assert.Equal(t, 200.0, cmp.Prior)
	require.NotNil(t, cmp.DeltaPercent)
	assert.InDelta(t, 25.0, *cmp.DeltaPercent, 1e-9)

	// No date dimension, so no series or trend.
	assert.Empty(t, result.CurrentSeries)
	assert.Nil(t, result.Trend)

	client.AssertExpectations(t)
}

func TestCompare_WithDateDimensionBuildsSeries(t *testing.T) {
	svc, client := newTestService(t)
	r := dateRange("2025-06-03", "2025-06-04")

	currentReq := domain.ReportRequest{Range: r, Metrics: []string{"sessions"}, Dimensions: []string{"date"}}
	priorReq := currentReq
	priorReq.Range = dateRange("2025-06-01", "2025-06-02")

	client.On("RunReport", mock.Anything, currentReq).Return(&domain.RawReport{
		Columns: currentReq.Columns(),
		Rows: []domain.RawRow{
			{DimensionValues: []string{"20250603"}, MetricValues: []string{"10"}},
			{DimensionValues: []string{"20250604"}, MetricValues: []string{"30"}},
		},
	}, nil)
	client.On("RunReport", mock.Anything, priorReq).Return(&domain.RawReport{
		Columns: priorReq.Columns(),
		Rows: []domain.RawRow{
			{DimensionValues: []string{"20250601"}, MetricValues: []string{"20"}},
			{DimensionValues: []string{"20250602"}, MetricValues: []string{"20"}},
		},
	}, nil)

	result, err := svc.Compare(context.Background(), Query{
		Profile:    "demo",
		Range:      r,
		Metrics:    []string{"sessions"},
		Dimensions: []string{"date"},
	})
	require.NoError(t, err)

	require.Len(t, result.CurrentSeries, 2)
	assert.Equal(t, 10.0, result.CurrentSeries[0].Value)
	assert.Equal(t, 30.0, result.CurrentSeries[1].Value)
	require.NotNil(t, result.Trend)
	assert.Equal(t, domain.TrendRising, result.Trend.Direction)
}

func TestFunnel_DedupesStageMetrics(t *testing.T) {
	svc, client := newTestService(t)
	r := dateRange("2025-06-01", "2025-06-07")

	// The acquisition funnel needs sessions, conversions, eventCount.
	expected := domain.ReportRequest{
		Range:   r,
		Metrics: []string{"sessions", "conversions", "eventCount"},
	}
	client.On("RunReport", mock.Anything, expected).
		Return(flatReport(expected, []string{"1000", "50", "60"}), nil)

	funnel, err := svc.Funnel(context.Background(), Query{Profile: "demo", Range: r}, "acquisition")
	require.NoError(t, err)

	require.Len(t, funnel.Stages, 3)
	assert.Equal(t, 1000.0, funnel.Stages[0].Count)
	assert.Equal(t, []string{"meeting"}, funnel.Inversions)

	client.AssertExpectations(t)
}

func TestFunnel_UnknownName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Funnel(context.Background(),
		Query{Profile: "demo", Range: dateRange("2025-06-01", "2025-06-07")}, "retention")
	assert.Error(t, err)
}

func TestTop(t *testing.T) {
	svc, client := newTestService(t)
	r := dateRange("2025-06-01", "2025-06-07")

	req := domain.ReportRequest{Range: r, Metrics: []string{"sessions"}, Dimensions: []string{"country"}}
	client.On("RunReport", mock.Anything, req).Return(&domain.RawReport{
		Columns: req.Columns(),
		Rows: []domain.RawRow{
			{DimensionValues: []string{"Germany"}, MetricValues: []string{"120"}},
			{DimensionValues: []string{"France"}, MetricValues: []string{"80"}},
			{DimensionValues: []string{"Spain"}, MetricValues: []string{"95"}},
		},
	}, nil)

	groups, err := svc.Top(context.Background(), Query{
		Profile:    "demo",
		Range:      r,
		Metrics:    []string{"sessions"},
		Dimensions: []string{"country"},
	}, "country", "sessions", 2)
	require.NoError(t, err)

	assert.Equal(t, []domain.TopNGroup{
		{Key: "Germany", Value: 120, Rank: 1},
		{Key: "Spain", Value: 95, Rank: 2},
	}, groups)
}

func TestClientIsCachedPerProfile(t *testing.T) {
	reg := new(mockRegistry)
	reg.On("GetProfile", mock.Anything, "demo").
		Return(domain.PropertyProfile{Name: "demo", PropertyID: "123"}, nil).Once()

	client := new(mockClient)
	calls := 0
	factory := func(_ context.Context, _ domain.PropertyProfile) (report.Client, error) {
		calls++
		return client, nil
	}
	svc := NewService(reg, catalog.Default(), factory)

	r := dateRange("2025-06-01", "2025-06-07")
	req := domain.ReportRequest{Range: r, Metrics: []string{"sessions"}}
	client.On("RunReport", mock.Anything, req).Return(flatReport(req, []string{"1"}), nil)

	q := Query{Profile: "demo", Range: r, Metrics: []string{"sessions"}}
	_, err := svc.RunQuery(context.Background(), q)
	require.NoError(t, err)
	_, err = svc.RunQuery(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	reg.AssertExpectations(t)
}
