package store

import (
	"database/sql"
	"time"
)

// StatRecord mirrors one row of the stat_records table.
type StatRecord struct {
	ID            string
	Code          string
	Label         string
	Count         sql.NullInt64
	Headcount     sql.NullFloat64
	PayFund       sql.NullFloat64
	AvgSalary     sql.NullFloat64
	TaxAmount     sql.NullFloat64
	WeightPercent sql.NullFloat64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type StatQuery struct {
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

type StatCode struct {
	Code  string
	Label string
}

// StatTotals is the aggregate row over stat_records. Sums are null on an empty table.
type StatTotals struct {
	Records   int64
	Taxpayers sql.NullInt64
	TaxAmount sql.NullFloat64
	AvgWeight sql.NullFloat64
}
