package fiber

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"funnel-forecast-service/internal/opportunities/adapters/spreadsheet"
	"funnel-forecast-service/internal/opportunities/core/domain"
	"funnel-forecast-service/internal/opportunities/core/usecase"
	"funnel-forecast-service/internal/platform/observability"
)

const dateLayout = "2006-01-02"

type PreviewUseCase interface {
	Execute(ctx context.Context, rows []domain.Opportunity, limit int) (*domain.TableOverview, error)
}

type UploadParser interface {
	ParseUpload(fh *multipart.FileHeader) ([]domain.Opportunity, error)
}

type OpportunityHandler struct {
	uc      PreviewUseCase
	parser  UploadParser
	log     *zap.Logger
	metrics *observability.Metrics
}

func NewOpportunityHandler(uc PreviewUseCase, parser UploadParser, log *zap.Logger, metrics *observability.Metrics) *OpportunityHandler {
	return &OpportunityHandler{uc: uc, parser: parser, log: log, metrics: metrics}
}

// Preview godoc
// @Summary Preview an opportunities spreadsheet
// @Description Parses the upload and returns its row count, service types, date bounds and first rows
// @Tags Opportunities
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Opportunities workbook (.xlsx, .xls or .csv)"
// @Param limit formData int false "Number of rows to return"
// @Success 200 {object} PreviewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /opportunities/preview [post]
func (h *OpportunityHandler) Preview(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "file_required",
			Message: "multipart field 'file' is required",
		})
	}

	limit := 0
	if v := c.FormValue("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_parameter",
				Message: "invalid 'limit' parameter",
			})
		}
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

	res, err := h.uc.Execute(c.UserContext(), rows, limit)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidPreviewLimit):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_parameter",
				Message: err.Error(),
			})
		default:
			h.log.Error("preview failed", zap.String("rid", observability.RID(c)), zap.Error(err))
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	resp := PreviewResponse{
		RowCount:     res.RowCount,
		ServiceTypes: res.ServiceTypes,
		Head:         make([]OpportunityResponse, 0, len(res.Head)),
	}
	if res.RowCount > 0 {
		resp.MinDate = res.MinDate.Format(dateLayout)
		resp.MaxDate = res.MaxDate.Format(dateLayout)
	}

	for _, o := range res.Head {
		resp.Head = append(resp.Head, OpportunityResponse{
			ID:          o.ID,
			Date:        o.Date.Format(dateLayout),
			ServiceType: o.ServiceType,
			Stage:       o.Stage,
			Revenue:     o.Revenue,
		})
	}

	return c.Status(http.StatusOK).JSON(resp)
}
