package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(profile string, req domain.ReportRequest) (*domain.RawReport, error) {
	args := m.Called(profile, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawReport), args.Error(1)
}

func (m *mockCache) Put(profile string, req domain.ReportRequest, report *domain.RawReport) error {
	args := m.Called(profile, req, report)
	return args.Error(0)
}

func testRequest() domain.ReportRequest {
	start, _ := time.Parse("2006-01-02", "2025-06-01")
	end, _ := time.Parse("2006-01-02", "2025-06-07")
	return domain.ReportRequest{
		Range:   domain.DateRange{Start: start, End: end},
		Metrics: []string{"sessions"},
	}
}

func TestCachedClient_Hit(t *testing.T) {
	req := testRequest()
	cached := &domain.RawReport{Columns: req.Columns()}

	inner := new(mockClient)
	cache := new(mockCache)
	cache.On("Get", "demo", req).Return(cached, nil)

	client := NewCachedClient(inner, cache, "demo")
	raw, err := client.RunReport(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, cached, raw)

	inner.AssertNotCalled(t, "RunReport", mock.Anything, mock.Anything)
}

func TestCachedClient_MissFillsCache(t *testing.T) {
	req := testRequest()
	fresh := &domain.RawReport{Columns: req.Columns()}

	inner := new(mockClient)
	inner.On("RunReport", mock.Anything, req).Return(fresh, nil)
	cache := new(mockCache)
	cache.On("Get", "demo", req).Return(nil, nil)
	cache.On("Put", "demo", req, fresh).Return(nil)

	client := NewCachedClient(inner, cache, "demo")
	raw, err := client.RunReport(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, fresh, raw)

	cache.AssertExpectations(t)
}

func TestCachedClient_CacheFailureFallsThrough(t *testing.T) {
	req := testRequest()
	fresh := &domain.RawReport{Columns: req.Columns()}

	inner := new(mockClient)
	inner.On("RunReport", mock.Anything, req).Return(fresh, nil)
	cache := new(mockCache)
	cache.On("Get", "demo", req).Return(nil, errors.New("disk gone"))
	cache.On("Put", "demo", req, fresh).Return(errors.New("disk gone"))

	client := NewCachedClient(inner, cache, "demo")
	raw, err := client.RunReport(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, fresh, raw)
}

func TestCachedClient_InnerErrorPropagates(t *testing.T) {
	req := testRequest()

	inner := new(mockClient)
	inner.On("RunReport", mock.Anything, req).Return(nil, ErrQuota)
	cache := new(mockCache)
	cache.On("Get", "demo", req).Return(nil, nil)

	client := NewCachedClient(inner, cache, "demo")
	_, err := client.RunReport(context.Background(), req)
	assert.ErrorIs(t, err, ErrQuota)

	cache.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}
