package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/de-tools/profit-atlas/pkg/adapters"
	"github.com/de-tools/profit-atlas/pkg/models/api"
	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/de-tools/profit-atlas/pkg/services/profitability"
	"github.com/de-tools/profit-atlas/pkg/store/workbook"
	"github.com/rs/zerolog"
)

const allYears = "all"

// Service is the part of the profitability service the handler needs.
type Service interface {
	Table(ctx context.Context) (domain.DerivedTable, error)
	BuildReport(table domain.DerivedTable, year *int) *domain.Report
}

type Handler struct {
	svc         Service
	exporter    *workbook.Exporter
	exportSheet string
}

func NewHandler(svc Service, exporter *workbook.Exporter, exportSheet string) *Handler {
	if exportSheet == "" {
		exportSheet = workbook.DefaultExportSheet
	}
	return &Handler{
		svc:         svc,
		exporter:    exporter,
		exportSheet: exportSheet,
	}
}

func (h *Handler) ListYears(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	table, err := h.svc.Table(ctx)
	if err != nil && !isLoadError(err) {
		h.writeError(w, r, err)
		return
	}
	if err != nil {
		logger.Warn().Err(err).Msg("sources unavailable, listing no years")
	}

	h.writeJSON(w, r, http.StatusOK, api.Years{
		Years:  nonNil(profitability.Years(table)),
		Latest: profitability.LatestYear(table),
	})
}

// GetReport serves the summary and rows for ?year=YYYY, the latest year when
// omitted, or every year with ?year=all. Unavailable sources produce an empty
// report carrying the error message.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	table, err := h.svc.Table(ctx)
	if err != nil {
		if !isLoadError(err) {
			h.writeError(w, r, err)
			return
		}
		logger.Warn().Err(err).Msg("sources unavailable, serving empty report")
		response := adapters.MapReportDomainToApi(h.svc.BuildReport(nil, nil))
		response.Error = err.Error()
		h.writeJSON(w, r, http.StatusOK, response)
		return
	}

	year, err := selectYear(r, table)
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}

	h.writeJSON(w, r, http.StatusOK, adapters.MapReportDomainToApi(h.svc.BuildReport(table, year)))
}

func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	table, err := h.svc.Table(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	year, err := selectYear(r, table)
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}

	field := r.URL.Query().Get("field")
	if field == "" {
		field = string(profitability.SeriesRevenue)
	}

	points, err := profitability.Series(profitability.FilterByYear(table, year), profitability.SeriesField(field))
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}

	h.writeJSON(w, r, http.StatusOK, adapters.MapSeriesDomainToApi(field, year, points))
}

// Export streams the selected rows as an XLSX download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	table, err := h.svc.Table(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	year, err := selectYear(r, table)
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, api.Error{Error: err.Error()})
		return
	}

	data, err := h.exporter.Bytes(workbook.Sheet{
		Name: h.exportSheet,
		Rows: profitability.FilterByYear(table, year),
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to build export")
		h.writeJSON(w, r, http.StatusInternalServerError, api.Error{Error: "failed to build export"})
		return
	}

	w.Header().Set("Content-Type", workbook.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", workbook.ExportFileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error().Err(err).Msg("failed to write export")
	}
}

// selectYear reads ?year=. Absent means the most recent year in the table.
func selectYear(r *http.Request, table domain.DerivedTable) (*int, error) {
	raw := r.URL.Query().Get("year")
	switch raw {
	case "":
		return profitability.LatestYear(table), nil
	case allYears:
		return nil, nil
	}

	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid year %q", raw)
	}
	return &year, nil
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	var verr *domain.DataValidationError
	switch {
	case errors.As(err, &verr):
		h.writeJSON(w, r, http.StatusUnprocessableEntity, api.Error{Error: err.Error()})
	case isLoadError(err):
		h.writeJSON(w, r, http.StatusServiceUnavailable, api.Error{Error: err.Error()})
	default:
		logger.Error().Err(err).Msg("request failed")
		h.writeJSON(w, r, http.StatusInternalServerError, api.Error{Error: "internal error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	logger := zerolog.Ctx(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("failed to encode response")
	}
}

func isLoadError(err error) bool {
	var loadErr *domain.LoadError
	return errors.As(err, &loadErr)
}

func nonNil(years []int) []int {
	if years == nil {
		return []int{}
	}
	return years
}
