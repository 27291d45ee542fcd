package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canonical pipeline stages. Source labels are mapped onto these at ingestion;
// any other label is kept verbatim.
const (
	StageWon      = "Won"
	StageLost     = "Lost"
	StageProposal = "Proposal"
)

type Opportunity struct {
	ID          string
	Date        time.Time
	ServiceType string
	Stage       string
	Revenue     decimal.Decimal // only meaningful when Stage == StageWon
}

// IsOffer reports whether the stage is one of the decision stages.
func (o Opportunity) IsOffer() bool {
	switch o.Stage {
	case StageWon, StageLost, StageProposal:
		return true
	}
	return false
}

func (o Opportunity) IsWon() bool {
	return o.Stage == StageWon
}
