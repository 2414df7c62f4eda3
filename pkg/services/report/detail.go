package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/statreport/pkg/models/domain"
)

// Detail pages are a two-column label/value list.
const (
	detailStartX      = 70
	detailLabelWidth  = 250
	detailValueWidth  = 240
	detailValueOffset = 260
	detailRowHeight   = 20
	detailLabelChars  = 40
)

type detailField struct {
	label string
	value string
}

// GenerateDetail renders one page per record with every field of the record. Pages follow the order
// of rows.
func (e *Engine) GenerateDetail(ctx context.Context, rows []domain.ReportRow) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}
	if err := e.begin(); err != nil {
		return nil, err
	}

	steps := make([]step, 0, len(rows))
	for i, row := range rows {
		steps = append(steps, step{phaseDetail, func() {
			if i > 0 {
				e.newPage()
			}
			e.drawDetail(ctx, row)
		}})
	}

	return e.run(ctx, steps)
}

func (e *Engine) drawDetail(ctx context.Context, row domain.ReportRow) {
	l := e.layout

	e.paragraph(fmt.Sprintf(e.labels.DetailTitle, row.Label), l.TitleSize, StyleBold, AlignCenter)
	e.paragraph(fmt.Sprintf(e.labels.GeneratedAt, e.now().Format(e.labels.TimeLayout)), l.FooterSize, StyleRegular, AlignRight)

	for _, field := range e.detailFields(ctx, row) {
		lines := e.fitLines(Wrap(field.value, detailLabelChars), detailValueWidth, l.SectionSize, StyleRegular)
		height := max(float64(len(lines))*l.LineHeight+8, detailRowHeight)

		e.sink.Text(detailStartX, e.cursor.Y, field.label, TextOptions{
			Width:      detailLabelWidth,
			Align:      AlignLeft,
			Size:       l.SectionSize,
			Style:      StyleBold,
			LineHeight: l.LineHeight,
		})
		e.sink.Text(detailStartX+detailValueOffset, e.cursor.Y, strings.Join(lines, "\n"), TextOptions{
			Width:      detailValueWidth,
			Align:      AlignLeft,
			Size:       l.SectionSize,
			LineHeight: l.LineHeight,
		})
		e.cursor.advance(height)
	}

	e.cursor.advance(l.RuleGap)
	e.sink.Line(l.MarginLeft, e.cursor.Y, e.pageWidth-l.MarginLeft+5, e.cursor.Y, 1)
}

func (e *Engine) detailFields(ctx context.Context, row domain.ReportRow) []detailField {
	keys := []ColumnKey{
		ColumnCode, ColumnLabel, ColumnCount, ColumnHeadcount,
		ColumnPayFund, ColumnAvgSalary, ColumnTaxAmount, ColumnWeightPercent,
	}
	formats := map[ColumnKey]Formatter{
		ColumnCount:     FormatThousands,
		ColumnHeadcount: FormatThousands,
		ColumnPayFund:   FormatCurrency,
		ColumnAvgSalary: FormatCurrency,
		ColumnTaxAmount: FormatCurrency,
	}

	fields := make([]detailField, 0, len(keys)+2)
	for _, key := range keys {
		text, ok := e.nf.formatCell(row, ColumnSpec{Key: key, Format: formats[key]})
		if !ok {
			zerolog.Ctx(ctx).Warn().
				Str("code", row.Code).
				Str("column", string(key)).
				Msg("numeric value is missing or not a finite number")
		}
		if key == ColumnWeightPercent && ok {
			text = e.nf.grouped(row.WeightPercent.Decimal) + "%"
		}
		fields = append(fields, detailField{label: e.labels.DetailFields[key], value: text})
	}

	fields = append(fields,
		detailField{label: e.labels.CreatedAt, value: e.timestamp(row.CreatedAt)},
		detailField{label: e.labels.UpdatedAt, value: e.timestamp(row.UpdatedAt)},
	)
	return fields
}

func (e *Engine) timestamp(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format(e.labels.TimeLayout)
}
