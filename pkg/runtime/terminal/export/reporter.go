package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/de-tools/statreport/pkg/models/domain"
	"github.com/de-tools/statreport/pkg/services/report"
)

const placeholder = "-"

type TableConfig struct {
	CodeWidth   int
	LabelWidth  int
	NumberWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		CodeWidth:   10,
		LabelWidth:  40,
		NumberWidth: 16,
	}
}

// Reporter prints stats rows as a fixed-width text table followed by their totals.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type tableData struct {
	Rows    []domain.ReportRow
	Summary report.Summary
}

const tableTemplate = `{{separator}}
{{header}}
{{separator}}
{{range .Rows}}{{formatRow .}}
{{end}}{{separator}}
Records: {{.Summary.Rows}}  Taxpayers: {{.Summary.Count}}  Headcount: {{fixed .Summary.Headcount}}  Pay fund: {{fixed .Summary.PayFund}}  Tax: {{fixed .Summary.TaxAmount}}
`

func (c *Reporter) Handle(rows []domain.ReportRow) error {
	numbers := func(values ...string) string {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = fmt.Sprintf(" %*s ", c.config.NumberWidth, v)
		}
		return strings.Join(parts, "|")
	}

	funcMap := template.FuncMap{
		"header": func() string {
			return fmt.Sprintf("| %-*s | %-*s |%s|",
				c.config.CodeWidth, "Code",
				c.config.LabelWidth, "Label",
				numbers("Taxpayers", "Headcount", "Pay fund", "Avg salary", "Tax", "Weight %"))
		},
		"formatRow": func(row domain.ReportRow) string {
			count := placeholder
			if row.Count.Valid {
				count = fmt.Sprintf("%d", row.Count.Int64)
			}
			return fmt.Sprintf("| %-*s | %-*s |%s|",
				c.config.CodeWidth, truncate(row.Code, c.config.CodeWidth),
				c.config.LabelWidth, truncate(row.Label, c.config.LabelWidth),
				numbers(count,
					nullable(row.Headcount), nullable(row.PayFund), nullable(row.AvgSalary),
					nullable(row.TaxAmount), nullable(row.WeightPercent)))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s",
				strings.Repeat("-", c.config.CodeWidth+2),
				strings.Repeat("-", c.config.LabelWidth+2),
				strings.Repeat(strings.Repeat("-", c.config.NumberWidth+2)+"+", 6))
		},
		"fixed": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
	}

	t, err := template.New("stats").Funcs(funcMap).Parse(tableTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, tableData{
		Rows:    rows,
		Summary: report.ComputeSummary(rows),
	})
}

// Codes prints one "code  label" line per code.
func (c *Reporter) Codes(codes []domain.StatCode) error {
	for _, code := range codes {
		if _, err := fmt.Fprintf(c.writer, "%-*s  %s\n", c.config.CodeWidth, code.Code, code.Label); err != nil {
			return err
		}
	}
	return nil
}

func (c *Reporter) Totals(totals domain.StatTotals) error {
	_, err := fmt.Fprintf(c.writer, "Records: %d  Taxpayers: %d  Tax: %s  Avg weight %%: %s\n",
		totals.Records, totals.Taxpayers, totals.TaxAmount.StringFixed(2), nullable(totals.AvgWeight))
	return err
}

func nullable(v decimal.NullDecimal) string {
	if !v.Valid {
		return placeholder
	}
	return v.Decimal.StringFixed(2)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
