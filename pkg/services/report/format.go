package report

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/de-tools/statreport/pkg/models/domain"
)

// Placeholder is printed in place of a numeric value that is missing or not a finite number.
const Placeholder = "-"

type numberFormat struct {
	printer  *message.Printer
	currency string
}

func newNumberFormat(labels Labels) numberFormat {
	return numberFormat{
		printer:  message.NewPrinter(labels.Language),
		currency: labels.Currency,
	}
}

// grouped prints d with locale digit grouping and at most two fraction digits.
func (f numberFormat) grouped(d decimal.Decimal) string {
	if d.IsInteger() {
		return f.printer.Sprintf("%d", d.IntPart())
	}
	return f.printer.Sprintf("%v", number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(2)))
}

// rounded prints d rounded to a whole unit with locale digit grouping.
func (f numberFormat) rounded(d decimal.Decimal) string {
	return f.printer.Sprintf("%d", d.Round(0).IntPart())
}

func (f numberFormat) money(d decimal.Decimal) string {
	if f.currency == "" {
		return f.rounded(d)
	}
	return f.rounded(d) + " " + f.currency
}

func (f numberFormat) apply(format Formatter, d decimal.Decimal) string {
	switch format {
	case FormatThousands:
		return f.grouped(d)
	case FormatCurrency:
		return f.money(d)
	default:
		return d.String()
	}
}

// fieldValue returns the raw text of a text column or the numeric value of a numeric column.
func fieldValue(row domain.ReportRow, key ColumnKey) (text string, value decimal.NullDecimal, numeric bool) {
	switch key {
	case ColumnCode:
		return row.Code, decimal.NullDecimal{}, false
	case ColumnLabel:
		return row.Label, decimal.NullDecimal{}, false
	case ColumnCount:
		return "", decimal.NullDecimal{Decimal: decimal.NewFromInt(row.Count.Int64), Valid: row.Count.Valid}, true
	case ColumnHeadcount:
		return "", row.Headcount, true
	case ColumnPayFund:
		return "", row.PayFund, true
	case ColumnAvgSalary:
		return "", row.AvgSalary, true
	case ColumnTaxAmount:
		return "", row.TaxAmount, true
	case ColumnWeightPercent:
		return "", row.WeightPercent, true
	default:
		return "", decimal.NullDecimal{}, false
	}
}

// formatCell renders one cell. ok is false when a numeric value was missing and the placeholder was used.
func (f numberFormat) formatCell(row domain.ReportRow, col ColumnSpec) (string, bool) {
	text, value, numeric := fieldValue(row, col.Key)
	if !numeric {
		return text, true
	}
	if !value.Valid {
		return Placeholder, false
	}
	return f.apply(col.Format, value.Decimal), true
}
