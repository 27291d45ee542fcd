package engine

import (
	"time"

	"funnel-forecast-service/internal/opportunities/core/domain"
)

// Filter keeps the rows of serviceType whose date lies in [from, to].
// The input slice is not modified.
func Filter(rows []domain.Opportunity, serviceType string, from, to time.Time) []domain.Opportunity {
	out := make([]domain.Opportunity, 0)
	for _, r := range rows {
		if r.ServiceType != serviceType {
			continue
		}
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}
