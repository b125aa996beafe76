// Package fixture is a deterministic report source used for demos and
// tests when no GA4 property is reachable. It implements the same client
// contract as the real adapter and is selected explicitly by the caller;
// the aggregation engine never falls back to it on its own.
package fixture

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/gi-tools/growth-atlas/pkg/services/report"
)

var dimensionValues = map[string][]string{
	"country":                       {"Spain", "United States", "Germany", "Mexico", "France"},
	"deviceCategory":                {"desktop", "mobile", "tablet"},
	"sessionSource":                 {"google", "linkedin", "(direct)", "newsletter", "bing"},
	"sessionMedium":                 {"organic", "social", "(none)", "email", "cpc"},
	"sessionDefaultChannelGrouping": {"Organic Search", "Direct", "Paid Social", "Email", "Referral"},
	"eventName":                     {"page_view", "form_start", "form_submit", "calendly_click", "file_download"},
	"pagePath":                      {"/", "/blog/growth-loops", "/services/consulting", "/about/", "/contact"},
}

type client struct {
	seed int64
}

// NewClient returns a fixture source whose output is stable for a given
// profile name.
func NewClient(profile domain.PropertyProfile) report.Client {
	h := fnv.New64a()
	h.Write([]byte(profile.Name))
	return &client{seed: int64(h.Sum64())}
}

func (c *client) RunReport(_ context.Context, req domain.ReportRequest) (*domain.RawReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(c.seed ^ requestSeed(req)))
	raw := &domain.RawReport{Columns: req.Columns()}

	hasDate := false
	for _, d := range req.Dimensions {
		if d == "date" {
			hasDate = true
		}
	}

	// One row per day per synthetic segment; a plain total row when the
	// request has no dimensions.
	days := req.Range.Days()
	nonDateDims := len(req.Dimensions)
	if hasDate {
		nonDateDims--
	}
	segments := 1
	if nonDateDims > 0 {
		segments = 3
	}

	for day := 0; day < days; day++ {
		date := req.Range.Start.AddDate(0, 0, day)
		for seg := 0; seg < segments; seg++ {
			row := domain.RawRow{}
			for _, d := range req.Dimensions {
				if d == "date" {
					row.DimensionValues = append(row.DimensionValues, date.Format("20060102"))
					continue
				}
				row.DimensionValues = append(row.DimensionValues, pick(d, seg))
			}
			for _, m := range req.Metrics {
				row.MetricValues = append(row.MetricValues, metricValue(rng, m))
			}
			raw.Rows = append(raw.Rows, row)
		}
		if !hasDate {
			break
		}
	}

	return raw, nil
}

func pick(dimension string, seg int) string {
	values, ok := dimensionValues[dimension]
	if !ok {
		return fmt.Sprintf("(segment %d)", seg+1)
	}
	return values[seg%len(values)]
}

func metricValue(rng *rand.Rand, metric string) string {
	switch metric {
	case "bounceRate", "engagementRate":
		return strconv.FormatFloat(0.2+rng.Float64()*0.6, 'f', 4, 64)
	case "averageSessionDuration":
		return strconv.FormatFloat(30+rng.Float64()*240, 'f', 2, 64)
	case "totalRevenue":
		return strconv.FormatFloat(rng.Float64()*500, 'f', 2, 64)
	default:
		return strconv.Itoa(20 + rng.Intn(480))
	}
}

func requestSeed(req domain.ReportRequest) int64 {
	h := fnv.New64a()
	h.Write([]byte(req.Range.Start.Format("20060102")))
	h.Write([]byte(req.Range.End.Format("20060102")))
	for _, d := range req.Dimensions {
		h.Write([]byte(d))
	}
	for _, m := range req.Metrics {
		h.Write([]byte(m))
	}
	return int64(h.Sum64())
}
