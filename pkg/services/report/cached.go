package report

import (
	"context"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Cache is the storage contract the caching decorator needs. A cache
// failure never fails the query; the decorator falls through to the
// wrapped client.
type Cache interface {
	Get(profile string, req domain.ReportRequest) (*domain.RawReport, error)
	Put(profile string, req domain.ReportRequest, report *domain.RawReport) error
}

type cachedClient struct {
	inner   Client
	cache   Cache
	profile string
}

// NewCachedClient wraps a client with read-through caching keyed by the
// profile name and request fingerprint.
func NewCachedClient(inner Client, cache Cache, profile string) Client {
	return &cachedClient{inner: inner, cache: cache, profile: profile}
}

func (c *cachedClient) RunReport(ctx context.Context, req domain.ReportRequest) (*domain.RawReport, error) {
	logger := zerolog.Ctx(ctx)

	if cached, err := c.cache.Get(c.profile, req); err != nil {
		logger.Warn().Err(err).Msg("report cache read failed")
	} else if cached != nil {
		logger.Debug().Str("profile", c.profile).Msg("report served from cache")
		return cached, nil
	}

	raw, err := c.inner.RunReport(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(c.profile, req, raw); err != nil {
		logger.Warn().Err(err).Msg("report cache write failed")
	}
	return raw, nil
}
