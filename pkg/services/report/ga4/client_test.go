package ga4

import (
	"context"
	"errors"
	"testing"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/gi-tools/growth-atlas/pkg/services/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "unauthorized", err: &googleapi.Error{Code: 401}, expected: report.ErrAuth},
		{name: "forbidden", err: &googleapi.Error{Code: 403}, expected: report.ErrAuth},
		{name: "property not found", err: &googleapi.Error{Code: 404}, expected: report.ErrInvalidProperty},
		{name: "rate limited", err: &googleapi.Error{Code: 429}, expected: report.ErrQuota},
		{name: "server error", err: &googleapi.Error{Code: 503}, expected: report.ErrNetwork},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), expected: report.ErrNetwork},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tc.err), tc.expected)
		})
	}
}

func TestMapError_OtherClientErrorsStayPlain(t *testing.T) {
	err := mapError(&googleapi.Error{Code: 400, Message: "unknown metric"})

	assert.NotErrorIs(t, err, report.ErrAuth)
	assert.NotErrorIs(t, err, report.ErrQuota)
	assert.NotErrorIs(t, err, report.ErrInvalidProperty)
	assert.NotErrorIs(t, err, report.ErrNetwork)
	assert.ErrorContains(t, err, "unknown metric")
}

func TestFilterExpression(t *testing.T) {
	expr, err := filterExpression(&domain.DimensionFilter{
		Field: "country",
		Match: domain.MatchContains,
		Value: "Ger",
	})
	require.NoError(t, err)

	assert.Equal(t, "country", expr.Filter.FieldName)
	assert.Equal(t, "CONTAINS", expr.Filter.StringFilter.MatchType)
	assert.Equal(t, "Ger", expr.Filter.StringFilter.Value)

	_, err = filterExpression(&domain.DimensionFilter{Field: "country", Match: "fuzzy"})
	assert.Error(t, err)
}

func TestNewClient_RequiresPropertyID(t *testing.T) {
	_, err := NewClient(context.Background(), domain.PropertyProfile{Name: "demo"})
	assert.Error(t, err)
}
