package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/de-tools/profit-atlas/pkg/models/api"
	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/de-tools/profit-atlas/pkg/services/profitability"
	"github.com/de-tools/profit-atlas/pkg/store/workbook"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
	builder *profitability.Service
}

func (m *mockService) Table(ctx context.Context) (domain.DerivedTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.DerivedTable), args.Error(1)
}

func (m *mockService) BuildReport(table domain.DerivedTable, year *int) *domain.Report {
	return m.builder.BuildReport(table, year)
}

func newMockService() *mockService {
	return &mockService{builder: profitability.NewService(nil, profitability.DefaultSummaryOptions())}
}

func fixtureTable(t *testing.T) domain.DerivedTable {
	t.Helper()
	reconciled, err := profitability.Reconcile(
		[]domain.SourceRow{
			{Key: domain.PeriodKey{Year: 2023, Month: 1}, Value: 100000, Attributes: map[string]string{domain.AttributeCovenant: "Amil"}},
			{Key: domain.PeriodKey{Year: 2024, Month: 1}, Value: 0},
			{Key: domain.PeriodKey{Year: 2024, Month: 2}, Value: 200},
		},
		[]domain.SourceRow{
			{Key: domain.PeriodKey{Year: 2023, Month: 1}, Value: 40000},
			{Key: domain.PeriodKey{Year: 2024, Month: 1}, Value: 500},
		},
		nil,
	)
	require.NoError(t, err)
	return profitability.Derive(reconciled)
}

func setupRouter(svc Service) http.Handler {
	h := NewHandler(svc, workbook.NewExporter(domain.DefaultAttributes), "")
	r := chi.NewRouter()
	r.Get("/years", h.ListYears)
	r.Get("/report", h.GetReport)
	r.Get("/report/series", h.GetSeries)
	r.Get("/report/export", h.Export)
	return r
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetReport(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		expectedYear *int
		expectedRows int
	}{
		{"defaults to latest year", "/report", intPtr(2024), 2},
		{"explicit year", "/report?year=2023", intPtr(2023), 1},
		{"all years", "/report?year=all", nil, 3},
		{"absent year", "/report?year=1999", intPtr(1999), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMockService()
			svc.On("Table", mock.Anything).Return(fixtureTable(t), nil)

			rec := get(t, setupRouter(svc), tt.path)
			require.Equal(t, http.StatusOK, rec.Code)

			var body api.Report
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedYear, body.Year)
			assert.Len(t, body.Rows, tt.expectedRows)
			assert.Equal(t, []int{2024, 2023}, body.Years)
			assert.EqualValues(t, tt.expectedRows, body.Summary["row_count"])
		})
	}
}

func TestGetReport_UndefinedMarginsAreNull(t *testing.T) {
	svc := newMockService()
	svc.On("Table", mock.Anything).Return(fixtureTable(t), nil)

	rec := get(t, setupRouter(svc), "/report?year=2024")
	require.Equal(t, http.StatusOK, rec.Code)

	var body api.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rows, 2)
	assert.Nil(t, body.Rows[0].GrossMarginPct)
	require.NotNil(t, body.Rows[1].GrossMarginPct)
	assert.InDelta(t, 100.0, *body.Rows[1].GrossMarginPct, 1e-9)
	assert.InDelta(t, 100.0, body.Summary["mean_gross_margin"], 1e-9)
}

func TestGetReport_LoadErrorServesEmptyState(t *testing.T) {
	svc := newMockService()
	svc.On("Table", mock.Anything).Return(nil, &domain.LoadError{Source: "df_receitas", Err: errors.New("sheet not found")})

	rec := get(t, setupRouter(svc), "/report")
	require.Equal(t, http.StatusOK, rec.Code)

	var body api.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Rows)
	assert.Contains(t, body.Error, "df_receitas")
	assert.EqualValues(t, 0, body.Summary["row_count"])
	assert.Nil(t, body.Summary["mean_ticket"])
}

func TestGetReport_Errors(t *testing.T) {
	t.Run("bad year", func(t *testing.T) {
		svc := newMockService()
		svc.On("Table", mock.Anything).Return(fixtureTable(t), nil)
		rec := get(t, setupRouter(svc), "/report?year=twenty")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation", func(t *testing.T) {
		svc := newMockService()
		svc.On("Table", mock.Anything).Return(nil, &domain.DataValidationError{Source: domain.MetricRevenue, Reason: "month must be between 1 and 12"})
		rec := get(t, setupRouter(svc), "/report")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("unexpected", func(t *testing.T) {
		svc := newMockService()
		svc.On("Table", mock.Anything).Return(nil, errors.New("boom"))
		rec := get(t, setupRouter(svc), "/report")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestListYears(t *testing.T) {
	svc := newMockService()
	svc.On("Table", mock.Anything).Return(fixtureTable(t), nil)

	rec := get(t, setupRouter(svc), "/years")
	require.Equal(t, http.StatusOK, rec.Code)

	var body api.Years
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []int{2024, 2023}, body.Years)
	assert.Equal(t, 2024, *body.Latest)
}

func TestGetSeries(t *testing.T) {
	svc := newMockService()
	svc.On("Table", mock.Anything).Return(fixtureTable(t), nil)
	router := setupRouter(svc)

	rec := get(t, router, "/report/series?year=all&field=net_margin_pct")
	require.Equal(t, http.StatusOK, rec.Code)

	var body api.Series
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Points, 3)
	assert.InDelta(t, 60.0, *body.Points[0].Value, 1e-9)
	assert.Nil(t, body.Points[1].Value)

	rec = get(t, router, "/report/series?field=occupancy")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	svc := newMockService()
	svc.On("Table", mock.Anything).Return(fixtureTable(t), nil)

	rec := get(t, setupRouter(svc), "/report/export?year=2023")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, workbook.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), workbook.ExportFileName)

	rows, err := workbook.ReadTable(bytes.NewReader(rec.Body.Bytes()), workbook.DefaultExportSheet)
	require.NoError(t, err)
	assert.Equal(t, profitability.FilterByYear(fixtureTable(t), intPtr(2023)), rows)
}

func intPtr(v int) *int {
	return &v
}
