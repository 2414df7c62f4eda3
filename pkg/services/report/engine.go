package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/statreport/pkg/models/domain"
)

var (
	ErrEngineUsed = errors.New("report engine has already produced a document")
	ErrNoRecords  = errors.New("no records to render")
)

// Options configures an Engine. Zero values fall back to DefaultLayout, EnglishLabels,
// DefaultColumns and time.Now.
type Options struct {
	Layout  Layout
	Labels  Labels
	Columns []ColumnSpec
	Now     func() time.Time
}

type GenerateOptions struct {
	// FilterDescription is printed under the timestamp when not empty.
	FilterDescription string
}

// Engine lays out exactly one document on its sink. It keeps mutable page state and must not be
// shared between requests; build a new Engine (and a new Sink) per document.
type Engine struct {
	sink   Sink
	charts ChartRenderer

	layout     Layout
	labels     Labels
	columns    []ColumnSpec
	positions  map[ColumnKey]float64
	right      float64
	labelWidth float64
	nf         numberFormat
	now        func() time.Time

	pageWidth  float64
	pageHeight float64
	cursor     PageCursor
	used       bool
}

// NewEngine validates the table shape against the sink's page size. A column set wider than the
// usable page width is rejected here, before anything is drawn.
func NewEngine(sink Sink, charts ChartRenderer, opts Options) (*Engine, error) {
	if sink == nil {
		return nil, errors.New("document sink is nil")
	}
	if opts.Layout == (Layout{}) {
		opts.Layout = DefaultLayout()
	}
	if opts.Labels.Title == "" {
		opts.Labels = EnglishLabels()
	}
	if opts.Columns == nil {
		opts.Columns = DefaultColumns(opts.Labels)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Layout.MaxLineChars < 4 {
		return nil, fmt.Errorf("max line chars must be at least 4, got %d", opts.Layout.MaxLineChars)
	}

	pageWidth, pageHeight := sink.PageSize()
	l := opts.Layout
	if err := validateColumns(opts.Columns, l.TableStartX, l.ColumnGap, pageWidth-l.MarginRight); err != nil {
		return nil, err
	}

	var labelWidth float64
	for _, col := range opts.Columns {
		if col.Key == ColumnLabel {
			labelWidth = col.Width
		}
	}

	return &Engine{
		sink:       sink,
		charts:     charts,
		layout:     l,
		labels:     opts.Labels,
		columns:    opts.Columns,
		positions:  LayoutColumns(opts.Columns, l.TableStartX, l.ColumnGap),
		right:      tableRight(opts.Columns, l.TableStartX, l.ColumnGap),
		labelWidth: labelWidth,
		nf:         newNumberFormat(opts.Labels),
		now:        opts.Now,
		pageWidth:  pageWidth,
		pageHeight: pageHeight,
	}, nil
}

type phase int

const (
	phaseTitle phase = iota
	phaseMetadata
	phaseFilterNote
	phaseNoData
	phaseCharts
	phaseTable
	phaseSummary
	phaseDetail
	phaseFooter
)

var phaseNames = [...]string{"title", "metadata", "filter note", "no data", "charts", "table", "summary", "detail", "footer"}

func (p phase) String() string {
	return phaseNames[p]
}

type step struct {
	phase phase
	draw  func()
}

// Generate renders the summary report: title, timestamp, optional filter note, one chart section per
// statistic, the full table, the aggregate summary and page footers. With no rows the charts and the
// table are replaced by a single notice.
func (e *Engine) Generate(ctx context.Context, rows []domain.ReportRow, opts GenerateOptions) ([]byte, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}

	var sections []chartSection
	if len(rows) > 0 {
		if e.charts == nil {
			return nil, errors.New("chart renderer is nil")
		}
		var err error
		sections, err = e.renderCharts(ctx, rows)
		if err != nil {
			return nil, err
		}
	}

	steps := []step{
		{phaseTitle, func() { e.paragraph(e.labels.Title, e.layout.TitleSize, StyleBold, AlignCenter) }},
		{phaseMetadata, e.drawTimestamp},
		{phaseFilterNote, func() { e.drawFilterNote(opts.FilterDescription) }},
	}
	if len(rows) == 0 {
		steps = append(steps, step{phaseNoData, func() {
			e.paragraph(e.labels.NoData, e.layout.TextSize, StyleRegular, AlignCenter)
		}})
	} else {
		steps = append(steps,
			step{phaseCharts, func() { e.drawChartSections(sections) }},
			step{phaseTable, func() { e.drawTable(ctx, rows) }},
			step{phaseSummary, func() { e.drawSummary(ComputeSummary(rows)) }},
		)
	}

	return e.run(ctx, steps)
}

func (e *Engine) begin() error {
	if e.used {
		return ErrEngineUsed
	}
	e.used = true
	return nil
}

// run opens the first page, executes the content steps in order, stamps the footers once the page count is final and
// flushes the sink. The first sink failure aborts the render.
func (e *Engine) run(ctx context.Context, steps []step) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	e.sink.NewPage()
	e.cursor = PageCursor{Y: e.layout.MarginTop, Page: 1, Pages: 1}

	steps = append(steps, step{phaseFooter, e.stampFooters})
	for _, s := range steps {
		s.draw()
		if err := e.sink.Err(); err != nil {
			return nil, fmt.Errorf("render %s: %w", s.phase, err)
		}
	}

	data, err := e.sink.Finalize()
	if err != nil {
		return nil, fmt.Errorf("finalize document: %w", err)
	}

	logger.Debug().
		Int("pages", e.cursor.Pages).
		Int("bytes", len(data)).
		Msg("report rendered")

	return data, nil
}

func (e *Engine) newPage() {
	e.sink.NewPage()
	e.cursor.breakPage(e.layout.MarginTop)
}

// ensureSpace starts a new page when a block of height h would run into the footer area. A block
// taller than a whole page is drawn where it is.
func (e *Engine) ensureSpace(h float64) {
	if e.cursor.Y > e.layout.MarginTop && e.cursor.Y+h > e.layout.bottomLimit(e.pageHeight) {
		e.newPage()
	}
}

func (e *Engine) contentWidth() float64 {
	return e.pageWidth - e.layout.MarginLeft - e.layout.MarginRight
}

// paragraph places a full-width text block at the cursor and moves the cursor below it.
func (e *Engine) paragraph(content string, size float64, style FontStyle, align Align) {
	e.block(e.layout.MarginLeft, e.contentWidth(), content, size, style, align)
	e.cursor.advance(size)
}

// block places text pre-wrapped to the approximate capacity of width and advances the cursor by the
// resulting number of lines.
func (e *Engine) block(x, width float64, content string, size float64, style FontStyle, align Align) {
	lines := e.blockLines(width, content, size, style)
	if len(lines) == 0 {
		return
	}

	lineHeight := size * 1.2
	e.sink.Text(x, e.cursor.Y, strings.Join(lines, "\n"), TextOptions{
		Width:      width,
		Align:      align,
		Size:       size,
		Style:      style,
		LineHeight: lineHeight,
	})
	e.cursor.advance(float64(len(lines)) * lineHeight)
}

func (e *Engine) blockLines(width float64, content string, size float64, style FontStyle) []string {
	capacity := max(4, int(math.Floor(width/(size*0.5))))

	var lines []string
	for _, para := range strings.Split(content, "\n") {
		lines = append(lines, Wrap(para, capacity)...)
	}
	return e.fitLines(lines, width, size, style)
}

// blockHeight is the cursor advance of block for the same arguments.
func (e *Engine) blockHeight(width float64, content string, size float64, style FontStyle) float64 {
	return float64(len(e.blockLines(width, content, size, style))) * size * 1.2
}

// fitLines splits lines further when the sink measures them wider than width, so the row height
// computed here matches what the sink draws.
func (e *Engine) fitLines(lines []string, width, size float64, style FontStyle) []string {
	m, ok := e.sink.(TextMeasurer)
	if !ok || width <= 0 {
		return lines
	}
	measure := func(s string) float64 {
		return m.TextWidth(s, size, style)
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, FitWidth(line, width, measure)...)
	}
	return out
}

func (e *Engine) drawTimestamp() {
	stamp := fmt.Sprintf(e.labels.GeneratedAt, e.now().Format(e.labels.TimeLayout))
	e.paragraph(stamp, e.layout.TextSize, StyleRegular, AlignRight)
}

func (e *Engine) drawFilterNote(description string) {
	if strings.TrimSpace(description) == "" {
		return
	}
	e.paragraph(fmt.Sprintf(e.labels.FilterNote, description), e.layout.TextSize, StyleItalic, AlignLeft)
}

// drawChartSections places the bar and pie chart of every statistic. Every section after the first
// starts on a fresh page.
func (e *Engine) drawChartSections(sections []chartSection) {
	l := e.layout
	for i, section := range sections {
		heading := e.labels.ChartHeadings[section.stat]
		if i > 0 {
			e.newPage()
		} else {
			e.ensureSpace(e.blockHeight(e.contentWidth(), heading, l.HeadingSize, StyleBold) + l.HeadingSize + l.ChartHeight)
		}
		e.paragraph(heading, l.HeadingSize, StyleBold, AlignCenter)

		x := (e.pageWidth - l.ChartWidth) / 2
		e.sink.Image(section.bar, Box{X: x, Y: e.cursor.Y, Width: l.ChartWidth, Height: l.ChartHeight})
		e.cursor.advance(l.ChartHeight + l.ChartGap)
		e.ensureSpace(l.ChartHeight)
		e.sink.Image(section.pie, Box{X: x, Y: e.cursor.Y, Width: l.ChartWidth, Height: l.ChartHeight})
		e.cursor.advance(l.ChartHeight + l.ChartGap)
	}
}

// drawTable starts the table on a new page and paginates rows, repeating the header row at the top
// of every continuation page.
func (e *Engine) drawTable(ctx context.Context, rows []domain.ReportRow) {
	e.newPage()
	e.paragraph(fmt.Sprintf(e.labels.TotalRecords, len(rows)), e.layout.TextSize, StyleRegular, AlignLeft)
	e.drawTableHeader()

	for i, row := range rows {
		lines := e.fitLines(Wrap(row.Label, e.layout.MaxLineChars), e.labelWidth, e.layout.TextSize, StyleRegular)
		footprint := e.layout.rowFootprint(len(lines))
		if e.layout.needsBreak(e.cursor.Y, footprint, e.pageHeight, i == len(rows)-1) {
			e.newPage()
			e.drawTableHeader()
		}
		e.drawRow(ctx, row, lines, footprint)
	}

	e.sink.Line(e.layout.TableStartX, e.cursor.Y, e.right, e.cursor.Y, 1)
}

func (e *Engine) drawTableHeader() {
	l := e.layout
	y := e.cursor.Y
	for _, col := range e.columns {
		e.sink.Text(e.positions[col.Key], y, col.Header, TextOptions{
			Width:      col.Width,
			Align:      col.Align,
			Size:       l.TextSize,
			Style:      StyleBold,
			LineHeight: l.LineHeight,
		})
	}
	y += l.LineHeight + l.HeaderPadding
	e.sink.Line(l.TableStartX, y, e.right, y, 0.5)
	e.cursor.Y = y + l.HeaderPadding
}

// drawRow places one table row at the cursor, followed by a thin separator rule.
func (e *Engine) drawRow(ctx context.Context, row domain.ReportRow, labelLines []string, footprint float64) {
	l := e.layout
	y := e.cursor.Y

	for _, col := range e.columns {
		text, ok := e.nf.formatCell(row, col)
		if !ok {
			zerolog.Ctx(ctx).Warn().
				Str("code", row.Code).
				Str("column", string(col.Key)).
				Msg("numeric value is missing or not a finite number")
		}
		if col.Key == ColumnLabel {
			text = strings.Join(labelLines, "\n")
		}
		e.sink.Text(e.positions[col.Key], y, text, TextOptions{
			Width:      col.Width,
			Align:      col.Align,
			Size:       l.TextSize,
			LineHeight: l.LineHeight,
		})
	}

	e.sink.Line(l.TableStartX, y+footprint, e.right, y+footprint, 0.25)
	e.cursor.advance(footprint + l.RuleGap)
}

// summaryGap separates the summary block from the end of the table.
const summaryGap = 10

// drawSummary keeps the whole summary block on one page, moving it to a new page when the table
// ends too close to the footer.
func (e *Engine) drawSummary(summary Summary) {
	l := e.layout
	width := e.right - l.TableStartX
	text := summary.text(e.labels, e.nf)

	height := summaryGap + e.blockHeight(width, e.labels.SummaryHeading, l.SectionSize, StyleBold) +
		l.RuleGap + e.blockHeight(width, text, l.TextSize, StyleRegular)
	e.ensureSpace(height)

	e.cursor.advance(summaryGap)
	e.block(l.TableStartX, width, e.labels.SummaryHeading, l.SectionSize, StyleBold, AlignLeft)
	e.cursor.advance(l.RuleGap)
	e.block(l.TableStartX, width, text, l.TextSize, StyleRegular, AlignLeft)
}

// stampFooters writes "page i of n" on every page. It runs after all content so n is final.
func (e *Engine) stampFooters() {
	total := e.sink.PageCount()
	for i := 1; i <= total; i++ {
		e.sink.SetPage(i)
		e.sink.Text(0, e.pageHeight-e.layout.FooterOffset, fmt.Sprintf(e.labels.PageFooter, i, total), TextOptions{
			Width:      e.pageWidth,
			Align:      AlignCenter,
			Size:       e.layout.FooterSize,
			LineHeight: e.layout.FooterSize * 1.2,
		})
	}
}
