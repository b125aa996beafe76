// Package analytics wires property profiles, the report client, the
// normalizer, and the aggregation engine into the operations the HTTP
// handlers and CLI commands expose.
package analytics

import (
	"context"
	"fmt"
	"sync"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/gi-tools/growth-atlas/pkg/services/catalog"
	"github.com/gi-tools/growth-atlas/pkg/services/engine"
	"github.com/gi-tools/growth-atlas/pkg/services/normalize"
	"github.com/gi-tools/growth-atlas/pkg/services/registry"
	"github.com/gi-tools/growth-atlas/pkg/services/report"
)

// Query selects a profile, a date range, and either a named dataset from
// the catalog or explicit metric and dimension lists.
type Query struct {
	Profile    string
	Range      domain.DateRange
	Dataset    string
	Metrics    []string
	Dimensions []string
	Filter     *domain.DimensionFilter
}

// ComparisonResult is a current-vs-prior period comparison plus the daily
// series behind the comparison chart.
type ComparisonResult struct {
	CurrentRange  domain.DateRange
	PriorRange    domain.DateRange
	Metrics       []domain.PeriodComparison
	CurrentSeries []domain.SeriesPoint
	PriorSeries   []domain.SeriesPoint
	Trend         *domain.TrendSummary
}

type Service struct {
	registry registry.Registry
	catalog  *catalog.Catalog
	factory  report.ClientFactory

	mu      sync.Mutex
	clients map[string]report.Client
}

func NewService(reg registry.Registry, cat *catalog.Catalog, factory report.ClientFactory) *Service {
	return &Service{
		registry: reg,
		catalog:  cat,
		factory:  factory,
		clients:  make(map[string]report.Client),
	}
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Service) Profiles(ctx context.Context) ([]domain.PropertyProfile, error) {
	return s.registry.GetProfiles(ctx)
}

// RunQuery executes one report and returns the normalized table.
func (s *Service) RunQuery(ctx context.Context, q Query) (*domain.Table, error) {
	req, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, q.Profile, req)
}

// Summary totals every metric of the query over the full range.
func (s *Service) Summary(ctx context.Context, q Query) (domain.Summary, []domain.MetricSpec, error) {
	req, err := s.resolve(q)
	if err != nil {
		return nil, nil, err
	}
	specs, err := s.catalog.Specs(req.Metrics)
	if err != nil {
		return nil, nil, err
	}

	table, err := s.fetch(ctx, q.Profile, req)
	if err != nil {
		return nil, nil, err
	}

	summary, err := engine.Summarize(table, specs)
	if err != nil {
		return nil, nil, err
	}
	return summary, specs, nil
}

// Compare runs the query against the requested range and the equal-length
// range immediately preceding it. When the query carries a date dimension
// the result includes per-day series for the first metric and a trend
// summary of the current period.
func (s *Service) Compare(ctx context.Context, q Query) (*ComparisonResult, error) {
	req, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	specs, err := s.catalog.Specs(req.Metrics)
	if err != nil {
		return nil, err
	}

	current, err := s.fetch(ctx, q.Profile, req)
	if err != nil {
		return nil, fmt.Errorf("current period: %w", err)
	}

	priorReq := req
	priorReq.Range = req.Range.Prior()
	prior, err := s.fetch(ctx, q.Profile, priorReq)
	if err != nil {
		return nil, fmt.Errorf("prior period: %w", err)
	}

	comparisons, err := engine.CompareToPrior(current, prior, specs)
	if err != nil {
		return nil, err
	}

	result := &ComparisonResult{
		CurrentRange: req.Range,
		PriorRange:   priorReq.Range,
		Metrics:      comparisons,
	}

	if hasDateColumn(current) && len(req.Metrics) > 0 {
		headline := req.Metrics[0]
		if result.CurrentSeries, err = engine.DailySeries(current, headline); err != nil {
			return nil, err
		}
		if result.PriorSeries, err = engine.DailySeries(prior, headline); err != nil {
			return nil, err
		}
		if result.Trend, err = engine.AnalyzeTrend(result.CurrentSeries); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Funnel evaluates a named funnel from the catalog over the query range.
func (s *Service) Funnel(ctx context.Context, q Query, funnelName string) (*domain.Funnel, error) {
	stages, err := s.catalog.Funnel(funnelName)
	if err != nil {
		return nil, err
	}

	// The funnel query needs exactly the stage metrics. Two stages may
	// share a metric column; request it once.
	q.Dataset = ""
	q.Metrics = nil
	seen := make(map[string]struct{}, len(stages))
	for _, st := range stages {
		if _, dup := seen[st.Metric]; dup {
			continue
		}
		seen[st.Metric] = struct{}{}
		q.Metrics = append(q.Metrics, st.Metric)
	}

	req, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	table, err := s.fetch(ctx, q.Profile, req)
	if err != nil {
		return nil, err
	}
	return engine.BuildFunnel(table, stages)
}

// Top returns the n largest groups of a dimension by a summed metric.
func (s *Service) Top(ctx context.Context, q Query, groupBy, metric string, n int) ([]domain.TopNGroup, error) {
	table, err := s.RunQuery(ctx, q)
	if err != nil {
		return nil, err
	}
	return engine.TopN(table, groupBy, metric, n)
}

// Bundle fetches several datasets for one range, keyed by dataset name,
// for multi-file export.
func (s *Service) Bundle(ctx context.Context, profile string, r domain.DateRange, datasets []string) (map[string]*domain.Table, error) {
	out := make(map[string]*domain.Table, len(datasets))
	for _, name := range datasets {
		table, err := s.RunQuery(ctx, Query{Profile: profile, Range: r, Dataset: name})
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", name, err)
		}
		out[name] = table
	}
	return out, nil
}

// resolve expands a dataset reference and validates the resulting request.
func (s *Service) resolve(q Query) (domain.ReportRequest, error) {
	metrics, dimensions := q.Metrics, q.Dimensions
	if q.Dataset != "" {
		if len(metrics) > 0 || len(dimensions) > 0 {
			return domain.ReportRequest{}, fmt.Errorf("query names dataset %q and explicit columns; pick one", q.Dataset)
		}
		ds, err := s.catalog.Dataset(q.Dataset)
		if err != nil {
			return domain.ReportRequest{}, err
		}
		metrics, dimensions = ds.Metrics, ds.Dimensions
	}

	req := domain.ReportRequest{
		Range:      q.Range,
		Metrics:    metrics,
		Dimensions: dimensions,
		Filter:     q.Filter,
	}
	if err := req.Validate(); err != nil {
		return domain.ReportRequest{}, err
	}
	return req, nil
}

func (s *Service) fetch(ctx context.Context, profile string, req domain.ReportRequest) (*domain.Table, error) {
	client, err := s.client(ctx, profile)
	if err != nil {
		return nil, err
	}

	raw, err := client.RunReport(ctx, req)
	if err != nil {
		return nil, err
	}
	return normalize.Table(raw)
}

func (s *Service) client(ctx context.Context, profile string) (report.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.clients[profile]; ok {
		return c, nil
	}

	p, err := s.registry.GetProfile(ctx, profile)
	if err != nil {
		return nil, err
	}
	c, err := s.factory(ctx, p)
	if err != nil {
		return nil, err
	}
	s.clients[profile] = c
	return c, nil
}

func hasDateColumn(t *domain.Table) bool {
	for _, c := range t.Columns {
		if c.Type == domain.ColumnDate {
			return true
		}
	}
	return false
}
