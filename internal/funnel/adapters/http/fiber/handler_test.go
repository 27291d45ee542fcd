package fiber_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	httpadapter "funnel-forecast-service/internal/funnel/adapters/http/fiber"
	funnel "funnel-forecast-service/internal/funnel/core/domain"
	"funnel-forecast-service/internal/funnel/core/usecase"
	"funnel-forecast-service/internal/opportunities/adapters/spreadsheet"
	"funnel-forecast-service/internal/opportunities/core/domain"
)

// Fake usecase implementing the interface that handler depends on.
type fakeForecastUseCase struct {
	ExecuteFn  func(ctx context.Context, in usecase.ForecastInput) (*funnel.Forecast, error)
	ForecastFn func(ctx context.Context, rows []domain.Opportunity, in usecase.ForecastInput) (*funnel.Forecast, error)
	lastInput  usecase.ForecastInput
	lastRows   []domain.Opportunity
	called     bool
}

func (f *fakeForecastUseCase) Execute(ctx context.Context, in usecase.ForecastInput) (*funnel.Forecast, error) {
	f.called = true
	f.lastInput = in
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, in)
	}
	return nil, nil
}

func (f *fakeForecastUseCase) Forecast(ctx context.Context, rows []domain.Opportunity, in usecase.ForecastInput) (*funnel.Forecast, error) {
	f.called = true
	f.lastInput = in
	f.lastRows = rows
	if f.ForecastFn != nil {
		return f.ForecastFn(ctx, rows, in)
	}
	return nil, nil
}

type fakeParser struct {
	rows     []domain.Opportunity
	err      error
	filename string
}

func (f *fakeParser) ParseUpload(fh *multipart.FileHeader) ([]domain.Opportunity, error) {
	f.filename = fh.Filename
	return f.rows, f.err
}

func setupApp(t *testing.T, uc httpadapter.ForecastUseCase, parser httpadapter.UploadParser) *fiber.App {
	t.Helper()
	app := fiber.New()
	h := httpadapter.NewForecastHandler(uc, parser, zap.NewNop(), nil)
	app.Post("/forecast", h.ForecastUpload)
	app.Get("/forecast", h.ForecastStored)
	return app
}

func uploadRequest(t *testing.T, fields map[string]string, withFile bool) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if withFile {
		part, err := w.CreateFormFile("file", "opportunites.xlsx")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write([]byte("fake workbook"))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/forecast", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode body %s: %v", body, err)
	}
	return v
}

func d(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func scenarioForecast(in usecase.ForecastInput) *funnel.Forecast {
	return &funnel.Forecast{
		ServiceType:    in.ServiceType,
		From:           d("2024-01-01"),
		To:             d("2024-03-31"),
		TargetRevenue:  decimal.NewFromInt(1200),
		ProjectionFrom: in.ProjectionFrom,
		ProjectionTo:   in.ProjectionTo,
		FilteredRows:   10,
		Historical: funnel.FunnelMetrics{
			TotalOpportunities: 10,
			TotalOffers:        6,
			TotalWon:           3,
			TotalRevenue:       decimal.NewFromInt(600),
			AverageDealSize:    decimal.NewFromInt(200),
			WinRate:            decimal.RequireFromString("0.5"),
			OfferRate:          decimal.RequireFromString("0.6"),
		},
		Projected: funnel.ProjectedMetrics{
			Clients:       decimal.RequireFromString("6.9"),
			Offers:        decimal.RequireFromString("12"),
			Opportunities: decimal.RequireFromString("20.999"),
		},
	}
}

// ------------------------------------------------------------
// SUCCESS: upload
// ------------------------------------------------------------

func TestForecastUpload_Success(t *testing.T) {
	rows := []domain.Opportunity{{ID: "O1", Date: d("2024-01-05"), ServiceType: "Audit", Stage: domain.StageWon}}
	parser := &fakeParser{rows: rows}
	uc := &fakeForecastUseCase{
		ForecastFn: func(ctx context.Context, got []domain.Opportunity, in usecase.ForecastInput) (*funnel.Forecast, error) {
			if len(got) != 1 {
				t.Fatalf("expected parsed rows to reach usecase, got %d", len(got))
			}
			if in.ServiceType != "Audit" {
				t.Fatalf("expected service_type=Audit, got %s", in.ServiceType)
			}
			if in.From == nil || !in.From.Equal(d("2024-01-01")) {
				t.Fatalf("unexpected from: %v", in.From)
			}
			if in.To != nil {
				t.Fatalf("expected to=nil, got %v", in.To)
			}
			if in.TargetRevenue == nil || !in.TargetRevenue.Equal(decimal.NewFromInt(1200)) {
				t.Fatalf("unexpected target: %v", in.TargetRevenue)
			}
			return scenarioForecast(in), nil
		},
	}

	app := setupApp(t, uc, parser)

	req := uploadRequest(t, map[string]string{
		"service_type":    "Audit",
		"from":            "2024-01-01",
		"target_revenue":  "1200",
		"projection_from": "2025-01-01",
		"projection_to":   "2025-06-30",
	}, true)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if parser.filename != "opportunites.xlsx" {
		t.Fatalf("expected parser to receive upload, got %q", parser.filename)
	}

	body := decode[map[string]any](t, resp)
	hist := body["historical"].(map[string]any)
	if hist["total_opportunities"].(float64) != 10 || hist["total_revenue"] != "600" {
		t.Fatalf("unexpected historical block: %v", hist)
	}
	if hist["win_rate_percent"] != "50.00" || hist["offer_rate_percent"] != "60.00" {
		t.Fatalf("unexpected percentages: %v", hist)
	}

	proj := body["projection"].(map[string]any)
	// counts truncate toward zero, exact values are kept alongside
	if proj["clients_count"].(float64) != 6 || proj["opportunities_count"].(float64) != 20 {
		t.Fatalf("unexpected truncated counts: %v", proj)
	}
	if proj["clients"] != "6.9" || proj["opportunities"] != "20.999" {
		t.Fatalf("unexpected exact values: %v", proj)
	}
	if proj["period_from"] != "2025-01-01" || proj["period_to"] != "2025-06-30" {
		t.Fatalf("expected projection period echo, got %v", proj)
	}
}

// ------------------------------------------------------------
// ERRORS: upload
// ------------------------------------------------------------

func TestForecastUpload_MissingFile(t *testing.T) {
	uc := &fakeForecastUseCase{}
	app := setupApp(t, uc, &fakeParser{})

	resp, err := app.Test(uploadRequest(t, map[string]string{"service_type": "Audit"}, false), -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if uc.called {
		t.Fatalf("usecase must not be called without a file")
	}
}

func TestForecastUpload_InvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"bad from", map[string]string{"service_type": "Audit", "from": "01/02/2024"}},
		{"bad to", map[string]string{"service_type": "Audit", "to": "tomorrow"}},
		{"bad target", map[string]string{"service_type": "Audit", "target_revenue": "lots"}},
		{"bad projection", map[string]string{"service_type": "Audit", "projection_to": "2025-13-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeForecastUseCase{}
			app := setupApp(t, uc, &fakeParser{})

			resp, err := app.Test(uploadRequest(t, tt.fields, true), -1)
			if err != nil {
				t.Fatalf("app.Test error: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			body := decode[httpadapter.ErrorResponse](t, resp)
			if body.Error != "invalid_parameter" {
				t.Fatalf("expected invalid_parameter, got %+v", body)
			}
			if uc.called {
				t.Fatalf("usecase must not be called")
			}
		})
	}
}

func TestForecastUpload_InvalidTable(t *testing.T) {
	parser := &fakeParser{err: errors.Join(errors.New("row 4"), spreadsheet.ErrInvalidDate)}
	uc := &fakeForecastUseCase{}
	app := setupApp(t, uc, parser)

	resp, err := app.Test(uploadRequest(t, map[string]string{"service_type": "Audit"}, true), -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if body := decode[httpadapter.ErrorResponse](t, resp); body.Error != "invalid_table" {
		t.Fatalf("expected invalid_table, got %+v", body)
	}
	if uc.called {
		t.Fatalf("usecase must not be called on invalid table")
	}
}

func TestForecastUpload_ParserIOError(t *testing.T) {
	app := setupApp(t, &fakeForecastUseCase{}, &fakeParser{err: errors.New("unexpected EOF")})

	resp, err := app.Test(uploadRequest(t, map[string]string{"service_type": "Audit"}, true), -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestForecastUpload_UsecaseValidationError(t *testing.T) {
	uc := &fakeForecastUseCase{
		ForecastFn: func(ctx context.Context, rows []domain.Opportunity, in usecase.ForecastInput) (*funnel.Forecast, error) {
			return nil, usecase.ErrInvalidServiceType
		},
	}
	app := setupApp(t, uc, &fakeParser{})

	resp, err := app.Test(uploadRequest(t, map[string]string{}, true), -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decode[httpadapter.ErrorResponse](t, resp); body.Error != "invalid_query" {
		t.Fatalf("expected invalid_query, got %+v", body)
	}
}

func TestForecastUpload_HugeTargetRejected(t *testing.T) {
	rows := []domain.Opportunity{
		{ID: "O1", Date: d("2024-01-05"), ServiceType: "Audit", Stage: domain.StageWon, Revenue: decimal.NewFromInt(300)},
		{ID: "O2", Date: d("2024-01-06"), ServiceType: "Audit", Stage: domain.StageWon, Revenue: decimal.NewFromInt(300)},
		{ID: "O3", Date: d("2024-01-07"), ServiceType: "Audit", Stage: domain.StageLost},
		{ID: "O4", Date: d("2024-01-08"), ServiceType: "Audit", Stage: "Qualification"},
	}
	app := setupApp(t, usecase.NewForecastUseCase(nil), &fakeParser{rows: rows})

	req := uploadRequest(t, map[string]string{"service_type": "Audit", "target_revenue": "1e22"}, true)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decode[httpadapter.ErrorResponse](t, resp); body.Error != "invalid_query" {
		t.Fatalf("expected invalid_query, got %+v", body)
	}
}

// ------------------------------------------------------------
// STORED SOURCE
// ------------------------------------------------------------

func TestForecastStored_Success(t *testing.T) {
	uc := &fakeForecastUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.ForecastInput) (*funnel.Forecast, error) {
			if in.ServiceType != "Audit" {
				t.Fatalf("expected service_type=Audit, got %s", in.ServiceType)
			}
			if in.From == nil || in.To == nil {
				t.Fatalf("expected from and to to be parsed")
			}
			return scenarioForecast(in), nil
		},
	}
	app := setupApp(t, uc, &fakeParser{})

	params := url.Values{}
	params.Set("service_type", "Audit")
	params.Set("from", "2024-01-01")
	params.Set("to", "2024-03-31")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/forecast?"+params.Encode(), nil), -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decode[httpadapter.ForecastResponse](t, resp)
	if body.From != "2024-01-01" || body.To != "2024-03-31" || body.FilteredRows != 10 {
		t.Fatalf("unexpected response: %+v", body)
	}
	if body.Projection.OffersCount != 12 {
		t.Fatalf("expected 12 offers, got %d", body.Projection.OffersCount)
	}
	if body.Projection.PeriodFrom != "" {
		t.Fatalf("expected no projection period, got %q", body.Projection.PeriodFrom)
	}
}

func TestForecastStored_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid range", usecase.ErrInvalidTimeRange, http.StatusBadRequest, "invalid_query"},
		{"negative target", usecase.ErrInvalidTarget, http.StatusBadRequest, "invalid_query"},
		{"target too large", usecase.ErrTargetOutOfRange, http.StatusBadRequest, "invalid_query"},
		{"no source", usecase.ErrSourceUnavailable, http.StatusServiceUnavailable, "source_unavailable"},
		{"db failure", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeForecastUseCase{
				ExecuteFn: func(ctx context.Context, in usecase.ForecastInput) (*funnel.Forecast, error) {
					return nil, tt.err
				},
			}
			app := setupApp(t, uc, &fakeParser{})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/forecast?service_type=Audit", nil), -1)
			if err != nil {
				t.Fatalf("app.Test error: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if body := decode[httpadapter.ErrorResponse](t, resp); body.Error != tt.wantCode {
				t.Fatalf("expected %s, got %+v", tt.wantCode, body)
			}
		})
	}
}
