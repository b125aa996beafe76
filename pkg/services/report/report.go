package report

import (
	"context"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
)

// Client runs one bounded report query against an analytics backend and
// returns raw rows in request column order. Implementations map backend
// failures onto the package error taxonomy; callers own any retry policy.
type Client interface {
	RunReport(ctx context.Context, req domain.ReportRequest) (*domain.RawReport, error)
}

// ClientFactory builds a Client for a property profile.
type ClientFactory func(ctx context.Context, profile domain.PropertyProfile) (Client, error)
