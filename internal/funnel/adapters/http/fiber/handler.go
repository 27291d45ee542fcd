package fiber

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	funnel "funnel-forecast-service/internal/funnel/core/domain"
	"funnel-forecast-service/internal/funnel/core/usecase"
	"funnel-forecast-service/internal/opportunities/adapters/spreadsheet"
	"funnel-forecast-service/internal/opportunities/core/domain"
	"funnel-forecast-service/internal/platform/observability"
)

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

type ForecastUseCase interface {
	Execute(ctx context.Context, in usecase.ForecastInput) (*funnel.Forecast, error)
	Forecast(ctx context.Context, rows []domain.Opportunity, in usecase.ForecastInput) (*funnel.Forecast, error)
}

type UploadParser interface {
	ParseUpload(fh *multipart.FileHeader) ([]domain.Opportunity, error)
}

type ForecastHandler struct {
	uc      ForecastUseCase
	parser  UploadParser
	log     *zap.Logger
	metrics *observability.Metrics
}

func NewForecastHandler(uc ForecastUseCase, parser UploadParser, log *zap.Logger, metrics *observability.Metrics) *ForecastHandler {
	return &ForecastHandler{uc: uc, parser: parser, log: log, metrics: metrics}
}

// ForecastUpload godoc
// @Summary Forecast from an uploaded spreadsheet
// @Description Filters the uploaded opportunities by service type and period, computes the historical funnel and projects the counts needed for the target revenue
// @Tags Forecast
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Opportunities workbook (.xlsx, .xls or .csv)"
// @Param service_type formData string true "Service type"
// @Param from formData string false "Period start (YYYY-MM-DD), defaults to the earliest date"
// @Param to formData string false "Period end (YYYY-MM-DD), defaults to the latest date"
// @Param target_revenue formData string false "Revenue to reach, defaults to the historical revenue"
// @Param projection_from formData string false "Projection period start (YYYY-MM-DD)"
// @Param projection_to formData string false "Projection period end (YYYY-MM-DD)"
// @Success 200 {object} ForecastResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /forecast [post]
func (h *ForecastHandler) ForecastUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "file_required",
			Message: "multipart field 'file' is required",
		})
	}

	in, err := parseInput(func(k string) string { return c.FormValue(k) })
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_parameter",
			Message: err.Error(),
		})
	}

	rows, err := h.parser.ParseUpload(fh)
	if err != nil {
		if spreadsheet.IsInputError(err) {
			return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
				Error:   "invalid_table",
				Message: err.Error(),
			})
		}
		h.log.Error("parse upload failed", zap.String("file", fh.Filename), zap.String("rid", observability.RID(c)), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
	h.metrics.ObserveIngest(len(rows))

	res, err := h.uc.Forecast(c.UserContext(), rows, in)
	if err != nil {
		return h.writeError(c, err)
	}

	h.metrics.ObserveForecast("upload")
	return c.Status(http.StatusOK).JSON(toResponse(res))
}

// ForecastStored godoc
// @Summary Forecast from the opportunities table
// @Description Same computation as POST /forecast, reading opportunities from PostgreSQL
// @Tags Forecast
// @Produce json
// @Param service_type query string true "Service type"
// @Param from query string false "Period start (YYYY-MM-DD)"
// @Param to query string false "Period end (YYYY-MM-DD)"
// @Param target_revenue query string false "Revenue to reach, defaults to the historical revenue"
// @Param projection_from query string false "Projection period start (YYYY-MM-DD)"
// @Param projection_to query string false "Projection period end (YYYY-MM-DD)"
// @Success 200 {object} ForecastResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /forecast [get]
func (h *ForecastHandler) ForecastStored(c *fiber.Ctx) error {
	in, err := parseInput(func(k string) string { return c.Query(k) })
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_parameter",
			Message: err.Error(),
		})
	}

	res, err := h.uc.Execute(c.UserContext(), in)
	if err != nil {
		return h.writeError(c, err)
	}

	h.metrics.ObserveForecast("postgres")
	return c.Status(http.StatusOK).JSON(toResponse(res))
}

func (h *ForecastHandler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidServiceType),
		errors.Is(err, usecase.ErrInvalidTimeRange),
		errors.Is(err, usecase.ErrInvalidTarget),
		errors.Is(err, usecase.ErrTargetOutOfRange),
		errors.Is(err, usecase.ErrInvalidProjectionPeriod):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrSourceUnavailable):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "source_unavailable",
			Message: err.Error(),
		})
	default:
		h.log.Error("forecast failed", zap.String("rid", observability.RID(c)), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

// parseInput reads the request parameters through get, which hides whether
// they come from the query string or a multipart form.
func parseInput(get func(string) string) (usecase.ForecastInput, error) {
	in := usecase.ForecastInput{ServiceType: get("service_type")}

	var err error
	if in.From, err = optionalDate(get, "from"); err != nil {
		return in, err
	}
	if in.To, err = optionalDate(get, "to"); err != nil {
		return in, err
	}
	if in.ProjectionFrom, err = optionalDate(get, "projection_from"); err != nil {
		return in, err
	}
	if in.ProjectionTo, err = optionalDate(get, "projection_to"); err != nil {
		return in, err
	}

	if v := get("target_revenue"); v != "" {
		target, err := decimal.NewFromString(v)
		if err != nil {
			return in, fmt.Errorf("invalid 'target_revenue' parameter: %q", v)
		}
		in.TargetRevenue = &target
	}
	return in, nil
}

func optionalDate(get func(string) string, key string) (*time.Time, error) {
	v := get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("invalid '%s' parameter: expected YYYY-MM-DD, got %q", key, v)
	}
	return &t, nil
}

func toResponse(f *funnel.Forecast) ForecastResponse {
	h := f.Historical
	p := f.Projected

	resp := ForecastResponse{
		ServiceType:  f.ServiceType,
		From:         formatDate(f.From),
		To:           formatDate(f.To),
		FilteredRows: f.FilteredRows,
		Historical: HistoricalResponse{
			TotalOpportunities: h.TotalOpportunities,
			TotalOffers:        h.TotalOffers,
			TotalWon:           h.TotalWon,
			TotalRevenue:       h.TotalRevenue,
			AverageDealSize:    h.AverageDealSize,
			WinRate:            h.WinRate,
			OfferRate:          h.OfferRate,
			WinRatePercent:     h.WinRate.Mul(hundred).StringFixed(2),
			OfferRatePercent:   h.OfferRate.Mul(hundred).StringFixed(2),
		},
		Projection: ProjectionResponse{
			TargetRevenue: f.TargetRevenue,
			Clients:       p.Clients,
			Offers:        p.Offers,
			Opportunities: p.Opportunities,
			// integer conversion truncates toward zero
			ClientsCount:       p.Clients.IntPart(),
			OffersCount:        p.Offers.IntPart(),
			OpportunitiesCount: p.Opportunities.IntPart(),
		},
	}
	if f.ProjectionFrom != nil {
		resp.Projection.PeriodFrom = formatDate(*f.ProjectionFrom)
	}
	if f.ProjectionTo != nil {
		resp.Projection.PeriodTo = formatDate(*f.ProjectionTo)
	}
	return resp
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
