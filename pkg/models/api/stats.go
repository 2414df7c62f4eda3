package api

import "time"

// StatRecord is the JSON shape of one stats row. Nullable numerics encode as null.
type StatRecord struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Label         string    `json:"label"`
	Count         *int64    `json:"count"`
	Headcount     *float64  `json:"headcount"`
	PayFund       *float64  `json:"pay_fund"`
	AvgSalary     *float64  `json:"avg_salary"`
	TaxAmount     *float64  `json:"tax_amount"`
	WeightPercent *float64  `json:"weight_percent"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type StatCode struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// StatTotals is the aggregate over all stored rows.
type StatTotals struct {
	Records   int64    `json:"total_records"`
	Taxpayers int64    `json:"total_taxpayers"`
	TaxAmount float64  `json:"total_tax"`
	AvgWeight *float64 `json:"avg_weight"`
}

type DetailsRequest struct {
	IDs []string `json:"ids"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
