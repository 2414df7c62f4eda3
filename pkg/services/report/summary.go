package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/de-tools/statreport/pkg/models/domain"
)

// Summary holds the aggregates printed under the table. Values keep full precision; rounding happens
// only when they are formatted.
type Summary struct {
	Rows      int
	Count     int64
	Headcount decimal.Decimal
	PayFund   decimal.Decimal
	TaxAmount decimal.Decimal
	AvgSalary decimal.Decimal
}

// ComputeSummary sums every numeric field over rows, skipping values that are missing.
// AvgSalary is PayFund / Headcount, or zero when there is no headcount.
func ComputeSummary(rows []domain.ReportRow) Summary {
	s := Summary{Rows: len(rows)}
	for _, row := range rows {
		if row.Count.Valid {
			s.Count += row.Count.Int64
		}
		s.Headcount = s.Headcount.Add(valueOrZero(row.Headcount))
		s.PayFund = s.PayFund.Add(valueOrZero(row.PayFund))
		s.TaxAmount = s.TaxAmount.Add(valueOrZero(row.TaxAmount))
	}
	if s.Headcount.IsPositive() {
		s.AvgSalary = s.PayFund.DivRound(s.Headcount, 8)
	}
	return s
}

func valueOrZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}

// lines renders the summary as one "label: value" line per aggregate.
func (s Summary) lines(labels Labels, nf numberFormat) []string {
	return []string{
		fmt.Sprintf("%s: %s", labels.SummaryFields[ColumnCount], nf.rounded(decimal.NewFromInt(s.Count))),
		fmt.Sprintf("%s: %s", labels.SummaryFields[ColumnHeadcount], nf.rounded(s.Headcount)),
		fmt.Sprintf("%s: %s", labels.SummaryFields[ColumnPayFund], nf.money(s.PayFund)),
		fmt.Sprintf("%s: %s", labels.SummaryFields[ColumnAvgSalary], nf.money(s.AvgSalary)),
		fmt.Sprintf("%s: %s", labels.SummaryFields[ColumnTaxAmount], nf.money(s.TaxAmount)),
	}
}

func (s Summary) text(labels Labels, nf numberFormat) string {
	return strings.Join(s.lines(labels, nf), "\n")
}
