package usecase

import (
	"context"
	"errors"

	"funnel-forecast-service/internal/opportunities/core/domain"
)

var ErrInvalidPreviewLimit = errors.New("invalid preview limit")

const DefaultPreviewRows = 5

type PreviewUseCase struct {
	headRows int
}

func NewPreviewUseCase(headRows int) *PreviewUseCase {
	if headRows <= 0 {
		headRows = DefaultPreviewRows
	}
	return &PreviewUseCase{headRows: headRows}
}

// Execute summarises an uploaded table: row count, selectable service types,
// date bounds and the first rows. limit <= 0 uses the configured head size.
func (uc *PreviewUseCase) Execute(_ context.Context, rows []domain.Opportunity, limit int) (*domain.TableOverview, error) {
	if limit < 0 {
		return nil, ErrInvalidPreviewLimit
	}
	if limit == 0 {
		limit = uc.headRows
	}
	if limit > len(rows) {
		limit = len(rows)
	}

	first, last, _ := domain.DateBounds(rows)

	head := make([]domain.Opportunity, limit)
	copy(head, rows[:limit])

	return &domain.TableOverview{
		RowCount:     len(rows),
		ServiceTypes: domain.ServiceTypes(rows),
		MinDate:      first,
		MaxDate:      last,
		Head:         head,
	}, nil
}
