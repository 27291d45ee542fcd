package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	funnel "funnel-forecast-service/internal/funnel/core/domain"
	"funnel-forecast-service/internal/funnel/core/engine"
	"funnel-forecast-service/internal/opportunities/core/domain"
	"funnel-forecast-service/internal/opportunities/core/ports"
)

var (
	ErrInvalidServiceType      = errors.New("service_type is required")
	ErrInvalidTimeRange        = errors.New("invalid time range")
	ErrInvalidTarget           = errors.New("target revenue cannot be negative")
	ErrInvalidProjectionPeriod = errors.New("invalid projection period")
	ErrTargetOutOfRange        = errors.New("target revenue projects counts beyond the int64 range")
	ErrSourceUnavailable       = errors.New("opportunity source not configured")
)

type ForecastInput struct {
	ServiceType string
	From        *time.Time // nil -> earliest date of the table
	To          *time.Time // nil -> latest date of the table

	TargetRevenue *decimal.Decimal // nil -> historical revenue

	// Display only; never used in the arithmetic.
	ProjectionFrom *time.Time
	ProjectionTo   *time.Time
}

type ForecastUseCase struct {
	reader ports.OpportunityReaderPort
}

// NewForecastUseCase accepts a nil reader; Execute then fails with ErrSourceUnavailable
// while Forecast on uploaded rows keeps working.
func NewForecastUseCase(reader ports.OpportunityReaderPort) *ForecastUseCase {
	return &ForecastUseCase{reader: reader}
}

// Execute loads the rows of in.ServiceType from the configured reader and forecasts on them.
func (uc *ForecastUseCase) Execute(ctx context.Context, in ForecastInput) (*funnel.Forecast, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if uc.reader == nil {
		return nil, ErrSourceUnavailable
	}

	rows, err := uc.reader.ListOpportunities(ctx, ports.OpportunityQuery{
		ServiceType: in.ServiceType,
		From:        in.From,
		To:          in.To,
	})
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}

	return uc.Forecast(ctx, rows, in)
}

// Forecast filters rows, computes the historical funnel and projects it onto the target.
func (uc *ForecastUseCase) Forecast(_ context.Context, rows []domain.Opportunity, in ForecastInput) (*funnel.Forecast, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	from, to := resolveRange(rows, in)

	slice := engine.Filter(rows, in.ServiceType, from, to)
	historical := engine.ComputeMetrics(slice)

	target := historical.TotalRevenue
	if in.TargetRevenue != nil {
		target = *in.TargetRevenue
	}

	projected := engine.Project(historical, target)
	if !fitsCount(projected) {
		return nil, ErrTargetOutOfRange
	}

	return &funnel.Forecast{
		ServiceType:    in.ServiceType,
		From:           from,
		To:             to,
		TargetRevenue:  target,
		ProjectionFrom: in.ProjectionFrom,
		ProjectionTo:   in.ProjectionTo,
		FilteredRows:   len(slice),
		Historical:     historical,
		Projected:      projected,
	}, nil
}

func validateInput(in ForecastInput) error {
	if in.ServiceType == "" {
		return ErrInvalidServiceType
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return ErrInvalidTimeRange
	}
	if in.TargetRevenue != nil && in.TargetRevenue.IsNegative() {
		return ErrInvalidTarget
	}
	if in.ProjectionFrom != nil && in.ProjectionTo != nil && in.ProjectionFrom.After(*in.ProjectionTo) {
		return ErrInvalidProjectionPeriod
	}
	return nil
}

var maxCount = decimal.NewFromInt(math.MaxInt64)

// fitsCount reports whether every projected value truncates into an int64 count.
func fitsCount(p funnel.ProjectedMetrics) bool {
	for _, v := range []decimal.Decimal{p.Clients, p.Offers, p.Opportunities} {
		if v.GreaterThan(maxCount) {
			return false
		}
	}
	return true
}

// resolveRange fills missing bounds with the table's own date bounds.
func resolveRange(rows []domain.Opportunity, in ForecastInput) (time.Time, time.Time) {
	from, to, _ := domain.DateBounds(rows)
	if in.From != nil {
		from = *in.From
	}
	if in.To != nil {
		to = *in.To
	}
	return from, to
}
