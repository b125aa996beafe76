package ga4

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/gi-tools/growth-atlas/pkg/services/report"
	"google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	readScope = "https://www.googleapis.com/auth/analytics.readonly"

	// pageSize is the GA4 Data API row limit per call.
	pageSize = 10000
)

var matchTypes = map[domain.MatchType]string{
	domain.MatchExact:    "EXACT",
	domain.MatchContains: "CONTAINS",
	domain.MatchRegexp:   "FULL_REGEXP",
}

type client struct {
	svc      *analyticsdata.Service
	property string
}

// NewClient builds a report client for one GA4 property using a
// service-account key file.
func NewClient(ctx context.Context, profile domain.PropertyProfile) (report.Client, error) {
	if profile.PropertyID == "" {
		return nil, fmt.Errorf("profile %q has no property id", profile.Name)
	}

	svc, err := analyticsdata.NewService(ctx,
		option.WithCredentialsFile(profile.CredentialsFile),
		option.WithScopes(readScope),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrAuth, err)
	}

	return &client{
		svc:      svc,
		property: "properties/" + profile.PropertyID,
	}, nil
}

func (c *client) RunReport(ctx context.Context, req domain.ReportRequest) (*domain.RawReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{{
			StartDate: req.Range.Start.Format("2006-01-02"),
			EndDate:   req.Range.End.Format("2006-01-02"),
		}},
		Limit: pageSize,
	}
	for _, d := range req.Dimensions {
		body.Dimensions = append(body.Dimensions, &analyticsdata.Dimension{Name: d})
	}
	for _, m := range req.Metrics {
		body.Metrics = append(body.Metrics, &analyticsdata.Metric{Name: m})
	}
	if req.Filter != nil {
		expr, err := filterExpression(req.Filter)
		if err != nil {
			return nil, err
		}
		body.DimensionFilter = expr
	}
	if len(req.Dimensions) > 0 {
		body.OrderBys = []*analyticsdata.OrderBy{{
			Dimension: &analyticsdata.DimensionOrderBy{DimensionName: req.Dimensions[0]},
		}}
	}

	raw := &domain.RawReport{Columns: req.Columns()}

	var offset int64
	for {
		body.Offset = offset

		resp, err := c.svc.Properties.RunReport(c.property, body).Context(ctx).Do()
		if err != nil {
			return nil, mapError(err)
		}

		for _, row := range resp.Rows {
			rr := domain.RawRow{
				DimensionValues: make([]string, 0, len(row.DimensionValues)),
				MetricValues:    make([]string, 0, len(row.MetricValues)),
			}
			for _, v := range row.DimensionValues {
				rr.DimensionValues = append(rr.DimensionValues, v.Value)
			}
			for _, v := range row.MetricValues {
				rr.MetricValues = append(rr.MetricValues, v.Value)
			}
			raw.Rows = append(raw.Rows, rr)
		}

		if len(resp.Rows) < pageSize || offset+pageSize >= resp.RowCount {
			break
		}
		offset += pageSize
	}

	return raw, nil
}

func filterExpression(f *domain.DimensionFilter) (*analyticsdata.FilterExpression, error) {
	mt, ok := matchTypes[f.Match]
	if !ok {
		return nil, fmt.Errorf("unsupported filter match type %q", f.Match)
	}
	return &analyticsdata.FilterExpression{
		Filter: &analyticsdata.Filter{
			FieldName: f.Field,
			StringFilter: &analyticsdata.StringFilter{
				MatchType: mt,
				Value:     f.Value,
			},
		},
	}, nil
}

// mapError folds Google API failures onto the report error taxonomy.
func mapError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", report.ErrAuth, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", report.ErrInvalidProperty, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", report.ErrQuota, err)
		}
		if gerr.Code >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %v", report.ErrNetwork, err)
		}
		return fmt.Errorf("run report: %w", err)
	}
	return fmt.Errorf("%w: %v", report.ErrNetwork, err)
}
