package engine

import (
	"github.com/shopspring/decimal"

	funnel "funnel-forecast-service/internal/funnel/core/domain"
)

// Project inverts the historical conversion chain against target:
// clients = target/avg, offers = clients/win_rate, opportunities = offers/offer_rate.
//
// m must come from ComputeMetrics: the quotients are taken from its counts and
// TotalRevenue, so hand-built metrics whose rates disagree with those counts
// do not follow the formulas above.
//
// Each step is gated on its rate being positive; a zero gate zeroes that step
// and everything after it. The quotients are evaluated from the underlying
// counts (target*won/revenue and so on) so that a whole-number projection
// stays whole instead of landing one ulp below it.
func Project(m funnel.FunnelMetrics, target decimal.Decimal) funnel.ProjectedMetrics {
	var p funnel.ProjectedMetrics
	p.Clients = decimal.Zero
	p.Offers = decimal.Zero
	p.Opportunities = decimal.Zero

	if !m.AverageDealSize.IsPositive() || !m.TotalRevenue.IsPositive() {
		return p
	}
	p.Clients = target.Mul(decimal.NewFromInt(m.TotalWon)).Div(m.TotalRevenue)

	if !m.WinRate.IsPositive() {
		return p
	}
	p.Offers = target.Mul(decimal.NewFromInt(m.TotalOffers)).Div(m.TotalRevenue)

	if !m.OfferRate.IsPositive() {
		return p
	}
	p.Opportunities = target.Mul(decimal.NewFromInt(m.TotalOpportunities)).Div(m.TotalRevenue)
	return p
}
