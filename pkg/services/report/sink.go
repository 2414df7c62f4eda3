package report

import (
	"context"

	"github.com/de-tools/statreport/pkg/models/domain"
)

type Align string

const (
	AlignLeft   Align = "L"
	AlignRight  Align = "R"
	AlignCenter Align = "C"
)

type FontStyle string

const (
	StyleRegular FontStyle = ""
	StyleBold    FontStyle = "B"
	StyleItalic  FontStyle = "I"
)

// TextOptions controls a single text placement. Width 0 means "up to the right page margin".
// Content may contain '\n'; each line advances by LineHeight.
type TextOptions struct {
	Width      float64
	Align      Align
	Size       float64
	Style      FontStyle
	LineHeight float64
}

// Box is a placement rectangle in layout units (points), origin at the top-left corner of the page.
type Box struct {
	X, Y, Width, Height float64
}

// Sink is a stateful, append-only document writer. Writes never fail individually: the first failure
// is retained and reported by Err, and every later call becomes a no-op.
type Sink interface {
	NewPage()
	// SetPage moves the write position to an already produced page (1-based).
	SetPage(n int)
	// PageCount is only meaningful once all content pages have been produced.
	PageCount() int
	PageSize() (width, height float64)
	Text(x, y float64, content string, opts TextOptions)
	Line(x1, y1, x2, y2, thickness float64)
	// Image places an encoded raster scaled to fit inside box, centered horizontally.
	Image(data []byte, box Box)
	Err() error
	Finalize() ([]byte, error)
}

// TextMeasurer is implemented by sinks that re-flow text by glyph width. TextWidth returns the cell
// width needed to place content on a single line.
type TextMeasurer interface {
	TextWidth(content string, size float64, style FontStyle) float64
}

// ChartRenderer turns a labelled series into an encoded image.
type ChartRenderer interface {
	Render(ctx context.Context, kind domain.ChartKind, series []domain.ChartPoint, title string) ([]byte, error)
}
