package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gi-tools/growth-atlas/pkg/adapters"
	"github.com/gi-tools/growth-atlas/pkg/export"
	"github.com/gi-tools/growth-atlas/pkg/models/api"
	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/gi-tools/growth-atlas/pkg/services/analytics"
	"github.com/gi-tools/growth-atlas/pkg/services/report"
	"github.com/rs/zerolog"
)

const dateLayout = "2006-01-02"

type Handler struct {
	svc *analytics.Service
}

func NewHandler(svc *analytics.Service) *Handler {
	return &Handler{svc: svc}
}

type filterPayload struct {
	Field string `json:"field"`
	Match string `json:"match"`
	Value string `json:"value"`
}

type queryPayload struct {
	Profile    string         `json:"profile"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	Dataset    string         `json:"dataset,omitempty"`
	Metrics    []string       `json:"metrics,omitempty"`
	Dimensions []string       `json:"dimensions,omitempty"`
	Filter     *filterPayload `json:"filter,omitempty"`
}

type topPayload struct {
	queryPayload
	GroupBy string `json:"group_by"`
	Metric  string `json:"metric"`
	N       int    `json:"n"`
}

type funnelPayload struct {
	queryPayload
	Funnel string `json:"funnel"`
}

type exportPayload struct {
	queryPayload
	Format   string   `json:"format"`
	Datasets []string `json:"datasets,omitempty"`
}

func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profiles, err := h.svc.Profiles(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := make([]api.Property, 0, len(profiles))
	for _, p := range profiles {
		response = append(response, adapters.MapProfileDomainToApi(p))
	}
	writeJSON(w, r, response)
}

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, adapters.MapCatalogDomainToApi(h.svc.Catalog()))
}

func (h *Handler) RunQuery(w http.ResponseWriter, r *http.Request) {
	var payload queryPayload
	query, ok := h.decodeQuery(w, r, &payload, &payload)
	if !ok {
		return
	}

	table, err := h.svc.RunQuery(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, adapters.MapTableDomainToApi(table))
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	var payload queryPayload
	query, ok := h.decodeQuery(w, r, &payload, &payload)
	if !ok {
		return
	}

	summary, specs, err := h.svc.Summary(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, adapters.MapSummaryDomainToApi(summary, specs))
}

func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request) {
	var payload queryPayload
	query, ok := h.decodeQuery(w, r, &payload, &payload)
	if !ok {
		return
	}

	result, err := h.svc.Compare(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, adapters.MapComparisonDomainToApi(result))
}

func (h *Handler) GetFunnel(w http.ResponseWriter, r *http.Request) {
	var payload funnelPayload
	query, ok := h.decodeQuery(w, r, &payload, &payload.queryPayload)
	if !ok {
		return
	}
	if payload.Funnel == "" {
		writeInvalid(w, r, fmt.Errorf("funnel name is required"))
		return
	}

	funnel, err := h.svc.Funnel(r.Context(), query, payload.Funnel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, adapters.MapFunnelDomainToApi(funnel))
}

func (h *Handler) GetTop(w http.ResponseWriter, r *http.Request) {
	var payload topPayload
	query, ok := h.decodeQuery(w, r, &payload, &payload.queryPayload)
	if !ok {
		return
	}

	groups, err := h.svc.Top(r.Context(), query, payload.GroupBy, payload.Metric, payload.N)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, adapters.MapTopNDomainToApi(groups))
}

// Export streams a download: csv and xlsx for one query, zip for a bundle
// of named datasets.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var payload exportPayload
	query, ok := h.decodeQuery(w, r, &payload, &payload.queryPayload)
	if !ok {
		return
	}

	switch payload.Format {
	case "csv":
		table, err := h.svc.RunQuery(r.Context(), query)
		if err != nil {
			writeError(w, r, err)
			return
		}
		streamAttachment(w, export.Filename(datasetName(payload), query.Range, "csv"), "text/csv")
		if err := export.WriteCSV(w, table); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("csv export failed mid-stream")
		}
	case "xlsx":
		table, err := h.svc.RunQuery(r.Context(), query)
		if err != nil {
			writeError(w, r, err)
			return
		}
		streamAttachment(w, export.Filename(datasetName(payload), query.Range, "xlsx"),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := export.WriteXLSX(w, table); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("xlsx export failed mid-stream")
		}
	case "zip":
		if len(payload.Datasets) == 0 {
			writeInvalid(w, r, fmt.Errorf("zip export requires a datasets list"))
			return
		}
		tables, err := h.svc.Bundle(r.Context(), query.Profile, query.Range, payload.Datasets)
		if err != nil {
			writeError(w, r, err)
			return
		}
		entries := make([]export.Entry, 0, len(tables))
		for _, name := range payload.Datasets {
			entries = append(entries, export.Entry{Name: name, Table: tables[name]})
		}
		streamAttachment(w, export.Filename("datasets", query.Range, "zip"), "application/zip")
		if err := export.WriteZip(w, query.Range, entries); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("zip export failed mid-stream")
		}
	default:
		writeInvalid(w, r, fmt.Errorf("unsupported export format %q", payload.Format))
	}
}

// decodeQuery parses the request body into dst and converts its embedded
// query payload. On failure it writes the error response and returns
// ok=false.
func (h *Handler) decodeQuery(w http.ResponseWriter, r *http.Request, dst any, q *queryPayload) (analytics.Query, bool) {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeInvalid(w, r, fmt.Errorf("malformed request body: %w", err))
		return analytics.Query{}, false
	}

	query, err := q.toQuery()
	if err != nil {
		writeInvalid(w, r, err)
		return analytics.Query{}, false
	}
	return query, true
}

func (p *queryPayload) toQuery() (analytics.Query, error) {
	if p.Profile == "" {
		return analytics.Query{}, fmt.Errorf("profile is required")
	}
	start, err := time.Parse(dateLayout, p.StartDate)
	if err != nil {
		return analytics.Query{}, fmt.Errorf("malformed start_date %q: want YYYY-MM-DD", p.StartDate)
	}
	end, err := time.Parse(dateLayout, p.EndDate)
	if err != nil {
		return analytics.Query{}, fmt.Errorf("malformed end_date %q: want YYYY-MM-DD", p.EndDate)
	}

	query := analytics.Query{
		Profile:    p.Profile,
		Range:      domain.DateRange{Start: start, End: end},
		Dataset:    p.Dataset,
		Metrics:    p.Metrics,
		Dimensions: p.Dimensions,
	}
	if p.Filter != nil {
		query.Filter = &domain.DimensionFilter{
			Field: p.Filter.Field,
			Match: domain.MatchType(p.Filter.Match),
			Value: p.Filter.Value,
		}
	}
	return query, nil
}

func datasetName(p exportPayload) string {
	if p.Dataset != "" {
		return p.Dataset
	}
	return "report"
}

func streamAttachment(w http.ResponseWriter, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps the report client taxonomy onto HTTP statuses; anything
// unrecognized is treated as an invalid argument from the engine layer.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	var code string
	var status int
	switch {
	case errors.Is(err, report.ErrAuth):
		code, status = "auth", http.StatusBadGateway
	case errors.Is(err, report.ErrQuota):
		code, status = "quota", http.StatusTooManyRequests
	case errors.Is(err, report.ErrInvalidProperty):
		code, status = "invalid_property", http.StatusNotFound
	case errors.Is(err, report.ErrNetwork):
		code, status = "network", http.StatusBadGateway
	default:
		code, status = "invalid_argument", http.StatusBadRequest
	}

	logger.Error().Err(err).Str("code", code).Msg("request failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Error{Code: code, Message: err.Error()})
}

func writeInvalid(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Warn().Err(err).Msg("rejected request")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(api.Error{Code: "invalid_argument", Message: err.Error()})
}
