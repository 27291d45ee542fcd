package fiber

import "github.com/shopspring/decimal"

type HistoricalResponse struct {
	TotalOpportunities int64           `json:"total_opportunities"`
	TotalOffers        int64           `json:"total_offers"`
	TotalWon           int64           `json:"total_won"`
	TotalRevenue       decimal.Decimal `json:"total_revenue" swaggertype:"string" example:"600"`
	AverageDealSize    decimal.Decimal `json:"average_deal_size" swaggertype:"string" example:"200"`
	WinRate            decimal.Decimal `json:"win_rate" swaggertype:"string" example:"0.5"`
	OfferRate          decimal.Decimal `json:"offer_rate" swaggertype:"string" example:"0.6"`
	WinRatePercent     string          `json:"win_rate_percent" example:"50.00"`
	OfferRatePercent   string          `json:"offer_rate_percent" example:"60.00"`
}

// ProjectionResponse carries the exact projected values and their
// truncated-toward-zero counterparts used for display.
type ProjectionResponse struct {
	TargetRevenue      decimal.Decimal `json:"target_revenue" swaggertype:"string" example:"1200"`
	PeriodFrom         string          `json:"period_from,omitempty" example:"2025-01-01"`
	PeriodTo           string          `json:"period_to,omitempty" example:"2025-12-31"`
	Clients            decimal.Decimal `json:"clients" swaggertype:"string" example:"6"`
	Offers             decimal.Decimal `json:"offers" swaggertype:"string" example:"12"`
	Opportunities      decimal.Decimal `json:"opportunities" swaggertype:"string" example:"20"`
	ClientsCount       int64           `json:"clients_count" example:"6"`
	OffersCount        int64           `json:"offers_count" example:"12"`
	OpportunitiesCount int64           `json:"opportunities_count" example:"20"`
}

type ForecastResponse struct {
	ServiceType  string             `json:"service_type" example:"Audit"`
	From         string             `json:"from" example:"2024-01-01"`
	To           string             `json:"to" example:"2024-12-31"`
	FilteredRows int                `json:"filtered_rows" example:"42"`
	Historical   HistoricalResponse `json:"historical"`
	Projection   ProjectionResponse `json:"projection"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message" example:"invalid time range"`
}
