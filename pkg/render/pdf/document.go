package pdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/unicode/norm"

	"github.com/de-tools/statreport/pkg/services/report"
)

const fontFamily = "report"

// Fonts are TrueType font files. Without a regular font the document falls back to the core Helvetica
// font, which only covers cp1252.
type Fonts struct {
	Regular string `mapstructure:"regular"`
	Bold    string `mapstructure:"bold"`
	Italic  string `mapstructure:"italic"`
}

type Config struct {
	Title  string
	Author string
	Fonts  Fonts
}

// Document is a report.Sink backed by an A4 portrait fpdf document measured in points. Errors are
// sticky: the first failure is kept by fpdf and every later call is ignored.
type Document struct {
	pdf       *fpdf.Fpdf
	family    string
	styles    map[report.FontStyle]bool
	translate func(string) string
	images    int
}

var (
	_ report.Sink         = (*Document)(nil)
	_ report.TextMeasurer = (*Document)(nil)
)

func New(cfg Config) (*Document, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(cfg.Title, true)
	pdf.SetAuthor(cfg.Author, true)
	pdf.SetCreator("statreport", true)

	d := &Document{
		pdf:    pdf,
		styles: map[report.FontStyle]bool{report.StyleRegular: true},
	}

	if cfg.Fonts.Regular == "" {
		d.family = "Helvetica"
		d.styles[report.StyleBold] = true
		d.styles[report.StyleItalic] = true
		d.translate = pdf.UnicodeTranslatorFromDescriptor("")
		return d, nil
	}

	d.family = fontFamily
	d.translate = func(s string) string { return s }
	fonts := []struct {
		style report.FontStyle
		path  string
	}{
		{report.StyleRegular, cfg.Fonts.Regular},
		{report.StyleBold, cfg.Fonts.Bold},
		{report.StyleItalic, cfg.Fonts.Italic},
	}
	for _, font := range fonts {
		if font.path == "" {
			continue
		}
		data, err := os.ReadFile(font.path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", font.path, err)
		}
		pdf.AddUTF8FontFromBytes(fontFamily, string(font.style), data)
		d.styles[font.style] = true
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	return d, nil
}

func (d *Document) NewPage() {
	d.pdf.AddPage()
}

func (d *Document) SetPage(n int) {
	d.pdf.SetPage(n)
}

func (d *Document) PageCount() int {
	return d.pdf.PageCount()
}

func (d *Document) PageSize() (float64, float64) {
	return d.pdf.GetPageSize()
}

func (d *Document) Text(x, y float64, content string, opts report.TextOptions) {
	if d.pdf.Err() {
		return
	}

	d.setFont(opts.Style, opts.Size)

	width := opts.Width
	if width <= 0 {
		pageWidth, _ := d.pdf.GetPageSize()
		_, _, right, _ := d.pdf.GetMargins()
		width = pageWidth - right - x
	}
	lineHeight := opts.LineHeight
	if lineHeight <= 0 {
		lineHeight = opts.Size * 1.2
	}
	align := string(opts.Align)
	if align == "" {
		align = string(report.AlignLeft)
	}

	d.pdf.SetXY(x, y)
	d.pdf.MultiCell(width, lineHeight, d.translate(Normalize(content)), "", align, false)
}

// TextWidth is the cell width MultiCell needs to keep content on one line, cell margins included.
func (d *Document) TextWidth(content string, size float64, style report.FontStyle) float64 {
	if d.pdf.Err() {
		return 0
	}
	d.setFont(style, size)
	return d.pdf.GetStringWidth(d.translate(Normalize(content))) + 2*d.pdf.GetCellMargin()
}

func (d *Document) setFont(style report.FontStyle, size float64) {
	if !d.styles[style] {
		style = report.StyleRegular
	}
	d.pdf.SetFont(d.family, string(style), size)
}

func (d *Document) Line(x1, y1, x2, y2, thickness float64) {
	d.pdf.SetLineWidth(thickness)
	d.pdf.Line(x1, y1, x2, y2)
}

// Image scales the picture to fit box, keeping its aspect ratio, and centers it horizontally in box.
func (d *Document) Image(data []byte, box report.Box) {
	if d.pdf.Err() {
		return
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		d.pdf.SetErrorf("decode image: %s", err)
		return
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		d.pdf.SetErrorf("image has no pixels")
		return
	}

	d.images++
	name := fmt.Sprintf("image-%d", d.images)
	opts := fpdf.ImageOptions{ImageType: strings.ToUpper(format)}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))

	w, h := FitBox(float64(cfg.Width), float64(cfg.Height), box.Width, box.Height)
	d.pdf.ImageOptions(name, box.X+(box.Width-w)/2, box.Y, w, h, false, opts, 0, "")
}

func (d *Document) Err() error {
	return d.pdf.Error()
}

func (d *Document) Finalize() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FitBox scales w x h down or up to the largest size that fits inside boxW x boxH.
func FitBox(w, h, boxW, boxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := min(boxW/w, boxH/h)
	return w * scale, h * scale
}

// Normalize makes text safe to embed: invalid UTF-8 is dropped, compatibility characters are folded
// (NFKC), control characters other than newlines are removed and surrounding space is trimmed.
func Normalize(s string) string {
	s = norm.NFKC.String(strings.ToValidUTF8(s, ""))
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, s)
	return strings.TrimSpace(s)
}
