package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FunnelMetrics holds the historical counts and conversion rates of a slice.
type FunnelMetrics struct {
	TotalOpportunities int64
	TotalOffers        int64
	TotalWon           int64
	TotalRevenue       decimal.Decimal
	AverageDealSize    decimal.Decimal
	WinRate            decimal.Decimal // won / offers
	OfferRate          decimal.Decimal // offers / opportunities
}

// ProjectedMetrics are exact values; callers decide how to round for display.
type ProjectedMetrics struct {
	Clients       decimal.Decimal
	Offers        decimal.Decimal
	Opportunities decimal.Decimal
}

type Forecast struct {
	ServiceType    string
	From           time.Time
	To             time.Time
	TargetRevenue  decimal.Decimal
	ProjectionFrom *time.Time
	ProjectionTo   *time.Time

	FilteredRows int
	Historical   FunnelMetrics
	Projected    ProjectedMetrics
}
