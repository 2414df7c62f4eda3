package domain

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// ReportRow is one statistical record (one economic-activity code) as consumed by the report engine.
// Numeric fields are nullable: a value that could not be parsed to a finite number is stored as invalid
// and rendered as a placeholder.
type ReportRow struct {
	ID            string
	Code          string
	Label         string
	Count         sql.NullInt64
	Headcount     decimal.NullDecimal
	PayFund       decimal.NullDecimal
	AvgSalary     decimal.NullDecimal
	TaxAmount     decimal.NullDecimal
	WeightPercent decimal.NullDecimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StatFilter narrows a stats listing. Empty strings and nil bounds are ignored. Text matches either
// the code or the label; Code and Label match their own column. Bounds are inclusive.
type StatFilter struct {
	Text         string
	Code         string
	Label        string
	HeadcountMin *float64
	HeadcountMax *float64
	TaxMin       *float64
	TaxMax       *float64
	WeightMin    *float64
	WeightMax    *float64
	PayFundMin   *float64
	PayFundMax   *float64
	AvgSalaryMin *float64
	AvgSalaryMax *float64
}

func (f StatFilter) IsEmpty() bool {
	return f.Text == "" && f.Code == "" && f.Label == "" &&
		f.HeadcountMin == nil && f.HeadcountMax == nil &&
		f.TaxMin == nil && f.TaxMax == nil &&
		f.WeightMin == nil && f.WeightMax == nil &&
		f.PayFundMin == nil && f.PayFundMax == nil &&
		f.AvgSalaryMin == nil && f.AvgSalaryMax == nil
}

// StatCode is one distinct activity code with its label.
type StatCode struct {
	Code  string
	Label string
}

// StatTotals aggregates the whole stats table.
type StatTotals struct {
	Records   int64
	Taxpayers int64
	TaxAmount decimal.Decimal
	AvgWeight decimal.NullDecimal
}

// ImportResult summarizes one spreadsheet import.
type ImportResult struct {
	Source   string
	Total    int
	Imported int
	Skipped  int
}
