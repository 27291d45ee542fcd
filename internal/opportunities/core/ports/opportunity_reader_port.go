package ports

import (
	"context"
	"time"

	"funnel-forecast-service/internal/opportunities/core/domain"
)

type OpportunityQuery struct {
	ServiceType string
	From        *time.Time // optional, inclusive
	To          *time.Time // optional, inclusive
}

type OpportunityReaderPort interface {
	ListOpportunities(ctx context.Context, q OpportunityQuery) ([]domain.Opportunity, error)
}
