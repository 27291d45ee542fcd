package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"funnel-forecast-service/internal/opportunities/core/domain"
	"funnel-forecast-service/internal/opportunities/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

// OpportunityRepository reads opportunity rows from the opportunities table.
// It never writes.
type OpportunityRepository struct {
	db          DB
	stageLabels map[string]string // stored label -> canonical stage
}

func NewOpportunityRepository(db DB, stageLabels map[string]string) *OpportunityRepository {
	return &OpportunityRepository{db: db, stageLabels: stageLabels}
}

var _ ports.OpportunityReaderPort = (*OpportunityRepository)(nil)

const selectOpportunitiesSQL = `
SELECT
    opportunity_id,
    opportunity_date,
    service_type,
    COALESCE(stage, '') AS stage,
    COALESCE(revenue, 0)::text AS revenue
FROM opportunities
WHERE `

func (r *OpportunityRepository) ListOpportunities(ctx context.Context, q ports.OpportunityQuery) ([]domain.Opportunity, error) {
	where := "service_type = $1"
	args := []any{q.ServiceType}
	argIndex := 2

	if q.From != nil {
		where += fmt.Sprintf(" AND opportunity_date >= $%d", argIndex)
		args = append(args, q.From.UTC())
		argIndex++
	}
	if q.To != nil {
		where += fmt.Sprintf(" AND opportunity_date <= $%d", argIndex)
		args = append(args, q.To.UTC())
		argIndex++
	}

	rows, err := r.db.QueryContext(ctx, selectOpportunitiesSQL+where+"\nORDER BY opportunity_date", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Opportunity, 0)
	for rows.Next() {
		var (
			o       domain.Opportunity
			date    time.Time
			revenue string
		)
		if err := rows.Scan(&o.ID, &date, &o.ServiceType, &o.Stage, &revenue); err != nil {
			return nil, err
		}

		o.Date = date.UTC()
		if canonical, ok := r.stageLabels[o.Stage]; ok {
			o.Stage = canonical
		}
		o.Revenue, err = decimal.NewFromString(revenue)
		if err != nil {
			return nil, fmt.Errorf("opportunity %s: invalid revenue %q: %w", o.ID, revenue, err)
		}
		out = append(out, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
