package report

import "math"

// Layout holds every fixed measurement of the report, in points.
type Layout struct {
	MarginTop    float64
	MarginLeft   float64
	MarginRight  float64
	TableStartX  float64
	ColumnGap    float64
	MaxLineChars int

	LineHeight      float64
	MinRowHeight    float64
	RowBottomMargin float64
	RuleGap         float64
	HeaderPadding   float64
	FooterReserve   float64
	SafetyMargin    float64
	FooterOffset    float64

	TitleSize   float64
	HeadingSize float64
	SectionSize float64
	TextSize    float64
	FooterSize  float64

	ChartWidth  float64
	ChartHeight float64
	ChartGap    float64
	ChartTopN   int
	ChartLabel  int
}

func DefaultLayout() Layout {
	return Layout{
		MarginTop:    50,
		MarginLeft:   50,
		MarginRight:  40,
		TableStartX:  40,
		ColumnGap:    5,
		MaxLineChars: 20,

		LineHeight:      12,
		MinRowHeight:    18,
		RowBottomMargin: 8,
		RuleGap:         5,
		HeaderPadding:   5,
		FooterReserve:   50,
		SafetyMargin:    20,
		FooterOffset:    30,

		TitleSize:   16,
		HeadingSize: 14,
		SectionSize: 12,
		TextSize:    10,
		FooterSize:  8,

		ChartWidth:  500,
		ChartHeight: 250,
		ChartGap:    12,
		ChartTopN:   10,
		ChartLabel:  30,
	}
}

// EstimateRowHeight is the drawn height of a row whose label wraps to lines lines.
// Every line after the first adds two units of padding; the result never drops below minHeight.
func EstimateRowHeight(lines int, lineHeight, minHeight float64) float64 {
	extraPadding := float64(max(0, lines-1)) * 2
	return math.Max(lineHeight*float64(lines)+extraPadding, minHeight)
}

// rowFootprint is the vertical space reserved for a row before its separator rule.
func (l Layout) rowFootprint(lines int) float64 {
	return EstimateRowHeight(lines, l.LineHeight, l.MinRowHeight) + l.RowBottomMargin
}

// PageCursor is the engine's vertical write position.
type PageCursor struct {
	Y     float64
	Page  int
	Pages int
}

func (c *PageCursor) advance(dy float64) {
	c.Y += dy
}

func (c *PageCursor) breakPage(top float64) {
	c.Page++
	c.Pages++
	c.Y = top
}

// needsBreak reports whether a row of the given footprint must move to a new page. The last row of
// the table never forces a break; it is allowed to run past the bottom limit instead of producing a
// page that holds nothing but it.
func (l Layout) needsBreak(cursorY, footprint, pageHeight float64, isLast bool) bool {
	if isLast {
		return false
	}
	return cursorY+footprint > l.bottomLimit(pageHeight)
}

// bottomLimit is the lowest y content may reach above the footer.
func (l Layout) bottomLimit(pageHeight float64) float64 {
	return pageHeight - l.FooterReserve - l.SafetyMargin
}
