package engine

import (
	"github.com/shopspring/decimal"

	funnel "funnel-forecast-service/internal/funnel/core/domain"
	"funnel-forecast-service/internal/opportunities/core/domain"
)

// ComputeMetrics aggregates a filtered slice in a single pass.
// Counts are distinct opportunity ids; revenue is summed over every Won row.
func ComputeMetrics(slice []domain.Opportunity) funnel.FunnelMetrics {
	all := make(map[string]struct{})
	offers := make(map[string]struct{})
	won := make(map[string]struct{})
	revenue := decimal.Zero

	for _, r := range slice {
		all[r.ID] = struct{}{}
		if !r.IsOffer() {
			continue
		}
		offers[r.ID] = struct{}{}
		if r.IsWon() {
			won[r.ID] = struct{}{}
			revenue = revenue.Add(r.Revenue)
		}
	}

	m := funnel.FunnelMetrics{
		TotalOpportunities: int64(len(all)),
		TotalOffers:        int64(len(offers)),
		TotalWon:           int64(len(won)),
		TotalRevenue:       revenue,
	}
	m.AverageDealSize = safeDiv(revenue, decimal.NewFromInt(m.TotalWon))
	m.WinRate = safeDiv(decimal.NewFromInt(m.TotalWon), decimal.NewFromInt(m.TotalOffers))
	m.OfferRate = safeDiv(decimal.NewFromInt(m.TotalOffers), decimal.NewFromInt(m.TotalOpportunities))
	return m
}

func safeDiv(a, b decimal.Decimal) decimal.Decimal {
	if !b.IsPositive() {
		return decimal.Zero
	}
	return a.Div(b)
}
