package report

import (
	"errors"
	"fmt"
)

type ColumnKey string

const (
	ColumnCode          ColumnKey = "code"
	ColumnLabel         ColumnKey = "label"
	ColumnCount         ColumnKey = "count"
	ColumnHeadcount     ColumnKey = "headcount"
	ColumnPayFund       ColumnKey = "pay_fund"
	ColumnAvgSalary     ColumnKey = "avg_salary"
	ColumnTaxAmount     ColumnKey = "tax_amount"
	ColumnWeightPercent ColumnKey = "weight_percent"
)

type Formatter int

const (
	FormatIdentity Formatter = iota
	FormatThousands
	FormatCurrency
)

// ColumnSpec describes one table column. Width is in layout units.
type ColumnSpec struct {
	Key    ColumnKey
	Header string
	Width  float64
	Align  Align
	Format Formatter
}

var ErrColumnsOverflow = errors.New("table columns exceed usable page width")

// DefaultColumns is the summary table shape: activity code, wrapped label and four numeric columns.
func DefaultColumns(labels Labels) []ColumnSpec {
	return []ColumnSpec{
		{Key: ColumnCode, Header: labels.Columns[ColumnCode], Width: 65, Align: AlignLeft, Format: FormatIdentity},
		{Key: ColumnLabel, Header: labels.Columns[ColumnLabel], Width: 135, Align: AlignLeft, Format: FormatIdentity},
		{Key: ColumnCount, Header: labels.Columns[ColumnCount], Width: 40, Align: AlignRight, Format: FormatThousands},
		{Key: ColumnHeadcount, Header: labels.Columns[ColumnHeadcount], Width: 45, Align: AlignRight, Format: FormatThousands},
		{Key: ColumnPayFund, Header: labels.Columns[ColumnPayFund], Width: 85, Align: AlignRight, Format: FormatCurrency},
		{Key: ColumnAvgSalary, Header: labels.Columns[ColumnAvgSalary], Width: 85, Align: AlignRight, Format: FormatCurrency},
	}
}

// LayoutColumns returns the left x of every column: startX plus the widths and gaps of all columns before it.
func LayoutColumns(columns []ColumnSpec, startX, gap float64) map[ColumnKey]float64 {
	positions := make(map[ColumnKey]float64, len(columns))
	x := startX
	for _, col := range columns {
		positions[col.Key] = x
		x += col.Width + gap
	}
	return positions
}

// tableRight is the x coordinate where the last column ends.
func tableRight(columns []ColumnSpec, startX, gap float64) float64 {
	if len(columns) == 0 {
		return startX
	}
	last := columns[len(columns)-1]
	return LayoutColumns(columns, startX, gap)[last.Key] + last.Width
}

func validateColumns(columns []ColumnSpec, startX, gap, rightEdge float64) error {
	if len(columns) == 0 {
		return errors.New("at least one column is required")
	}
	seen := make(map[ColumnKey]struct{}, len(columns))
	for _, col := range columns {
		if col.Width <= 0 {
			return fmt.Errorf("column %q: width must be positive", col.Key)
		}
		if _, dup := seen[col.Key]; dup {
			return fmt.Errorf("column %q: duplicate key", col.Key)
		}
		seen[col.Key] = struct{}{}
	}
	if right := tableRight(columns, startX, gap); right > rightEdge {
		return fmt.Errorf("%w: table ends at %.2f, usable width ends at %.2f", ErrColumnsOverflow, right, rightEdge)
	}
	return nil
}
