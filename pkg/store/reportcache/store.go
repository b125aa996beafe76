// Package reportcache persists raw report responses keyed by a request
// fingerprint so repeated dashboard queries do not burn API quota. Entries
// carry a TTL; expired entries are treated as misses and overwritten on
// the next fill.
package reportcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	bolt "go.etcd.io/bbolt"
)

var bucketReports = []byte("reports") // fingerprint -> entry

type entry struct {
	StoredAt time.Time         `json:"stored_at"`
	Report   *domain.RawReport `json:"report"`
}

type Store struct {
	db  *bolt.DB
	ttl time.Duration
}

type Settings struct {
	Path string
	TTL  time.Duration
}

func NewStore(settings Settings) (*Store, error) {
	db, err := bolt.Open(settings.Path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open report cache at %s: %w", settings.Path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(bucketReports)
		return createErr
	}); err != nil {
		return nil, fmt.Errorf("create reports bucket: %w", err)
	}

	ttl := settings.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Store{db: db, ttl: ttl}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached report for a request, or nil on a miss or
// expired entry.
func (s *Store) Get(profile string, req domain.ReportRequest) (*domain.RawReport, error) {
	key := Fingerprint(profile, req)

	var cached *domain.RawReport
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketReports).Get([]byte(key))
		if data == nil {
			return nil
		}

		var e entry
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("unmarshal cached report: %w", err)
		}
		if time.Since(e.StoredAt) > s.ttl {
			return nil
		}
		cached = e.Report
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// Put stores a report under the request fingerprint.
func (s *Store) Put(profile string, req domain.ReportRequest, report *domain.RawReport) error {
	key := Fingerprint(profile, req)

	data, err := json.Marshal(entry{StoredAt: time.Now(), Report: report})
	if err != nil {
		return fmt.Errorf("marshal cached report: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketReports).Put([]byte(key), data)
	})
}

// Fingerprint derives a stable cache key from the profile name and every
// request field that affects the response.
func Fingerprint(profile string, req domain.ReportRequest) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s", profile,
		req.Range.Start.Format("20060102"), req.Range.End.Format("20060102"))
	for _, d := range req.Dimensions {
		fmt.Fprintf(h, "|d:%s", d)
	}
	for _, m := range req.Metrics {
		fmt.Fprintf(h, "|m:%s", m)
	}
	if req.Filter != nil {
		fmt.Fprintf(h, "|f:%s:%s:%s", req.Filter.Field, req.Filter.Match, req.Filter.Value)
	}
	return hex.EncodeToString(h.Sum(nil))
}
