package fiber

import "github.com/shopspring/decimal"

type OpportunityResponse struct {
	ID          string          `json:"opportunity_id" example:"OPP-0042"`
	Date        string          `json:"date" example:"2024-03-15"`
	ServiceType string          `json:"service_type" example:"Audit"`
	Stage       string          `json:"stage" example:"Won"`
	Revenue     decimal.Decimal `json:"revenue" swaggertype:"string" example:"1500.00"`
}

type PreviewResponse struct {
	RowCount     int                   `json:"row_count" example:"128"`
	ServiceTypes []string              `json:"service_types"`
	MinDate      string                `json:"min_date,omitempty" example:"2023-01-02"`
	MaxDate      string                `json:"max_date,omitempty" example:"2024-12-20"`
	Head         []OpportunityResponse `json:"head"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_table"`
	Message string `json:"message" example:"row 3: invalid date \"32/01/2024\""`
}
