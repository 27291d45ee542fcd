package domain

import "time"

type TableOverview struct {
	RowCount     int
	ServiceTypes []string // first-seen order
	MinDate      time.Time
	MaxDate      time.Time
	Head         []Opportunity
}

// DateBounds returns the earliest and latest dates in rows. ok is false for an empty table.
func DateBounds(rows []Opportunity) (first, last time.Time, ok bool) {
	for i, r := range rows {
		if i == 0 || r.Date.Before(first) {
			first = r.Date
		}
		if i == 0 || r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last, len(rows) > 0
}

// ServiceTypes lists the distinct service types in first-seen order.
func ServiceTypes(rows []Opportunity) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range rows {
		if _, ok := seen[r.ServiceType]; ok {
			continue
		}
		seen[r.ServiceType] = struct{}{}
		out = append(out, r.ServiceType)
	}
	return out
}
