package reportcache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	store, err := NewStore(Settings{
		Path: filepath.Join(t.TempDir(), "cache.db"),
		TTL:  ttl,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRequest() domain.ReportRequest {
	start, _ := time.Parse("2006-01-02", "2025-06-01")
	end, _ := time.Parse("2006-01-02", "2025-06-07")
	return domain.ReportRequest{
		Range:      domain.DateRange{Start: start, End: end},
		Metrics:    []string{"sessions"},
		Dimensions: []string{"date"},
	}
}

func TestStore_PutAndGet(t *testing.T) {
	store := testStore(t, time.Hour)
	req := testRequest()

	report := &domain.RawReport{
		Columns: req.Columns(),
		Rows: []domain.RawRow{
			{DimensionValues: []string{"20250601"}, MetricValues: []string{"120"}},
		},
	}

	require.NoError(t, store.Put("demo", req, report))

	cached, err := store.Get("demo", req)
	require.NoError(t, err)
	assert.Equal(t, report, cached)
}

func TestStore_MissReturnsNil(t *testing.T) {
	store := testStore(t, time.Hour)

	cached, err := store.Get("demo", testRequest())
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestStore_ExpiredEntryIsAMiss(t *testing.T) {
	store := testStore(t, time.Nanosecond)
	req := testRequest()

	require.NoError(t, store.Put("demo", req, &domain.RawReport{Columns: req.Columns()}))
	time.Sleep(time.Millisecond)

	cached, err := store.Get("demo", req)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestFingerprint(t *testing.T) {
	req := testRequest()

	assert.Equal(t, Fingerprint("demo", req), Fingerprint("demo", req))
	assert.NotEqual(t, Fingerprint("demo", req), Fingerprint("other", req))

	filtered := req
	filtered.Filter = &domain.DimensionFilter{
		Field: "country",
		Match: domain.MatchExact,
		Value: "Germany",
	}
	assert.NotEqual(t, Fingerprint("demo", req), Fingerprint("demo", filtered))

	reordered := req
	reordered.Metrics = []string{"totalUsers"}
	assert.NotEqual(t, Fingerprint("demo", req), Fingerprint("demo", reordered))
}
