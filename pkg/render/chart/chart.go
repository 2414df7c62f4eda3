package chart

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/de-tools/statreport/pkg/models/domain"
	"github.com/de-tools/statreport/pkg/services/report"
)

var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

type Config struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	// FontPath is a TrueType font. Empty means the built-in 7x13 bitmap face, which has no Cyrillic.
	FontPath string  `mapstructure:"font"`
	FontSize float64 `mapstructure:"font_size"`
}

func DefaultConfig() Config {
	return Config{Width: 1000, Height: 500, FontSize: 14}
}

// Renderer draws bar and pie charts into PNG images. It is safe for concurrent use; every call
// draws on its own canvas.
type Renderer struct {
	cfg Config
}

var _ report.ChartRenderer = (*Renderer)(nil)

func NewRenderer(cfg Config) (*Renderer, error) {
	defaults := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = defaults.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = defaults.Height
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = defaults.FontSize
	}
	if cfg.FontPath != "" {
		if _, err := gg.LoadFontFace(cfg.FontPath, cfg.FontSize); err != nil {
			return nil, fmt.Errorf("load chart font: %w", err)
		}
	}
	return &Renderer{cfg: cfg}, nil
}

// face returns a fresh font face. Truetype faces cache glyphs and must not be shared between goroutines.
func (r *Renderer) face(size float64) (font.Face, error) {
	if r.cfg.FontPath == "" {
		return basicfont.Face7x13, nil
	}
	return gg.LoadFontFace(r.cfg.FontPath, size)
}

func (r *Renderer) Render(ctx context.Context, kind domain.ChartKind, series []domain.ChartPoint, title string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dc := gg.NewContext(r.cfg.Width, r.cfg.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	titleFace, err := r.face(r.cfg.FontSize * 1.2)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(titleFace)
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(title, float64(r.cfg.Width)/2, 24, 0.5, 0.5)

	face, err := r.face(r.cfg.FontSize)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	switch kind {
	case domain.ChartBar:
		r.drawBars(dc, series)
	case domain.ChartPie:
		r.drawPie(dc, series)
	default:
		return nil, fmt.Errorf("unsupported chart kind %q", kind)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawBars(dc *gg.Context, series []domain.ChartPoint) {
	w, h := float64(r.cfg.Width), float64(r.cfg.Height)
	left, right, top, bottom := 90.0, w-20, 50.0, h-140

	maxValue := 0.0
	for _, p := range series {
		maxValue = math.Max(maxValue, p.Value)
	}
	scale := niceCeiling(maxValue)

	// grid and axis labels
	dc.SetLineWidth(1)
	for i := 0; i <= 4; i++ {
		y := bottom - (bottom-top)*float64(i)/4
		dc.SetRGB(0.85, 0.85, 0.85)
		dc.DrawLine(left, y, right, y)
		dc.Stroke()
		dc.SetRGB(0.3, 0.3, 0.3)
		dc.DrawStringAnchored(formatValue(scale*float64(i)/4), left-8, y, 1, 0.5)
	}

	if len(series) == 0 {
		return
	}

	slot := (right - left) / float64(len(series))
	barWidth := slot * 0.7
	for i, p := range series {
		x := left + slot*float64(i) + (slot-barWidth)/2
		barHeight := 0.0
		if scale > 0 && p.Value > 0 {
			barHeight = (bottom - top) * p.Value / scale
		}
		dc.SetHexColor(palette[i%len(palette)])
		dc.DrawRectangle(x, bottom-barHeight, barWidth, barHeight)
		dc.Fill()

		dc.Push()
		dc.SetRGB(0.2, 0.2, 0.2)
		cx := x + barWidth/2
		dc.RotateAbout(gg.Radians(-35), cx, bottom+10)
		dc.DrawStringAnchored(p.Label, cx, bottom+10, 1, 0.5)
		dc.Pop()
	}
}

func (r *Renderer) drawPie(dc *gg.Context, series []domain.ChartPoint) {
	w, h := float64(r.cfg.Width), float64(r.cfg.Height)
	cx, cy := w*0.3, h/2+20
	radius := math.Min(w*0.25, h/2-50)

	total := 0.0
	for _, p := range series {
		if p.Value > 0 {
			total += p.Value
		}
	}

	dc.SetLineWidth(1)
	if total == 0 {
		dc.SetRGB(0.85, 0.85, 0.85)
		dc.DrawCircle(cx, cy, radius)
		dc.Stroke()
	}

	angle := -math.Pi / 2
	legendX, legendY := w*0.6, 70.0
	for i, p := range series {
		share := 0.0
		if total > 0 && p.Value > 0 {
			share = p.Value / total
		}
		color := palette[i%len(palette)]

		if share > 0 {
			next := angle + share*2*math.Pi
			dc.SetHexColor(color)
			dc.MoveTo(cx, cy)
			dc.DrawArc(cx, cy, radius, angle, next)
			dc.ClosePath()
			dc.Fill()
			angle = next
		}

		y := legendY + float64(i)*26
		dc.SetHexColor(color)
		dc.DrawRectangle(legendX, y-7, 14, 14)
		dc.Fill()
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.DrawStringAnchored(fmt.Sprintf("%s (%.1f%%)", p.Label, share*100), legendX+22, y, 0, 0.5)
	}
}

// niceCeiling rounds v up to 1, 2 or 5 times a power of ten so axis labels stay readable.
func niceCeiling(v float64) float64 {
	if v <= 0 {
		return 0
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if v <= m*exp {
			return m * exp
		}
	}
	return 10 * exp
}

func formatValue(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
