package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/de-tools/statreport/pkg/adapters"
	"github.com/de-tools/statreport/pkg/models/api"
	"github.com/de-tools/statreport/pkg/models/domain"
	"github.com/de-tools/statreport/pkg/services/document"
	"github.com/de-tools/statreport/pkg/services/stats"
)

type Handler struct {
	stats     stats.Service
	documents document.Service
}

func NewHandler(stats stats.Service, documents document.Service) *Handler {
	return &Handler{
		stats:     stats,
		documents: documents,
	}
}

func (h *Handler) ListStats(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	rows, err := h.stats.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to list stats", err)
		return
	}
	writeJSON(w, r, adapters.MapReportRowsDomainToApi(rows))
}

func (h *Handler) SearchStats(w http.ResponseWriter, r *http.Request) {
	rows, err := h.stats.Search(r.Context(), chi.URLParam(r, "query"))
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to search stats", err)
		return
	}
	writeJSON(w, r, adapters.MapReportRowsDomainToApi(rows))
}

func (h *Handler) GetStat(w http.ResponseWriter, r *http.Request) {
	row, err := h.stats.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "failed to get stat", err)
		return
	}
	writeJSON(w, r, adapters.MapReportRowDomainToApi(row))
}

func (h *Handler) StatsByCode(w http.ResponseWriter, r *http.Request) {
	rows, err := h.stats.ByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(w, r, "failed to get stats by code", err)
		return
	}
	writeJSON(w, r, adapters.MapReportRowsDomainToApi(rows))
}

func (h *Handler) ListCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.stats.Codes(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to list codes", err)
		return
	}
	writeJSON(w, r, adapters.MapStatCodesDomainToApi(codes))
}

func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.stats.Totals(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to aggregate stats", err)
		return
	}
	writeJSON(w, r, adapters.MapStatTotalsDomainToApi(totals))
}

func (h *Handler) SummaryReport(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	doc, err := h.documents.Summary(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, "failed to generate report", err)
		return
	}
	writeDocument(w, r, doc)
}

func (h *Handler) CodeReport(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documents.ByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(w, r, "failed to generate report", err)
		return
	}
	writeDocument(w, r, doc)
}

func (h *Handler) StatReport(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documents.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "failed to generate report", err)
		return
	}
	writeDocument(w, r, doc)
}

func (h *Handler) DetailsReport(w http.ResponseWriter, r *http.Request) {
	var req api.DetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	doc, err := h.documents.Details(r.Context(), req.IDs)
	if err != nil {
		writeServiceError(w, r, "failed to generate report", err)
		return
	}
	writeDocument(w, r, doc)
}

// parseFilter reads a StatFilter from the query string. "q" searches code and label; "filter" is
// accepted as its older name.
func parseFilter(r *http.Request) (domain.StatFilter, error) {
	q := r.URL.Query()
	filter := domain.StatFilter{
		Text:  q.Get("q"),
		Code:  q.Get("code"),
		Label: q.Get("label"),
	}
	if filter.Text == "" {
		filter.Text = q.Get("filter")
	}

	bounds := []struct {
		param string
		dst   **float64
	}{
		{"headcount_min", &filter.HeadcountMin},
		{"headcount_max", &filter.HeadcountMax},
		{"tax_min", &filter.TaxMin},
		{"tax_max", &filter.TaxMax},
		{"weight_min", &filter.WeightMin},
		{"weight_max", &filter.WeightMax},
		{"pay_fund_min", &filter.PayFundMin},
		{"pay_fund_max", &filter.PayFundMax},
		{"avg_salary_min", &filter.AvgSalaryMin},
		{"avg_salary_max", &filter.AvgSalaryMax},
	}
	for _, b := range bounds {
		raw := q.Get(b.param)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.StatFilter{}, fmt.Errorf("invalid '%s' value: expected a number", b.param)
		}
		*b.dst = &v
	}
	return filter, nil
}

func writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, stats.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "stat record not found", err)
	case errors.Is(err, document.ErrNoIDs):
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
	default:
		writeError(w, r, http.StatusInternalServerError, msg, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	logger := zerolog.Ctx(r.Context())

	resp := api.ErrorResponse{Message: msg}
	if err != nil {
		resp.Error = err.Error()
		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).Msg(msg)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Msg("failed to encode error response")
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

// writeDocument sends a fully rendered document as a download.
func writeDocument(w http.ResponseWriter, r *http.Request, doc *domain.Document) {
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	if _, err := w.Write(doc.Data); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("document", doc.Name).
			Msg("failed to write document")
	}
}
