package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/de-tools/statreport/pkg/models/domain"
)

const (
	a4Width  = 595.28
	a4Height = 841.89
)

type textCall struct {
	page    int
	x, y    float64
	content string
	opts    TextOptions
}

type imageCall struct {
	page int
	data string
	box  Box
}

type lineCall struct {
	page           int
	x1, y1, x2, y2 float64
	thickness      float64
}

// recordingSink keeps every call in memory. failAt > 0 makes the n-th write fail.
type recordingSink struct {
	pages   int
	current int
	texts   []textCall
	images  []imageCall
	lines   []lineCall
	writes  int
	failAt  int
	err     error
}

func (s *recordingSink) write() bool {
	if s.err != nil {
		return false
	}
	s.writes++
	if s.failAt > 0 && s.writes >= s.failAt {
		s.err = errors.New("disk full")
		return false
	}
	return true
}

func (s *recordingSink) NewPage() {
	if !s.write() {
		return
	}
	s.pages++
	s.current = s.pages
}

func (s *recordingSink) SetPage(n int) {
	s.current = n
}

func (s *recordingSink) PageCount() int {
	return s.pages
}

func (s *recordingSink) PageSize() (float64, float64) {
	return a4Width, a4Height
}

func (s *recordingSink) Text(x, y float64, content string, opts TextOptions) {
	if !s.write() {
		return
	}
	s.texts = append(s.texts, textCall{page: s.current, x: x, y: y, content: content, opts: opts})
}

func (s *recordingSink) Line(x1, y1, x2, y2, thickness float64) {
	if !s.write() {
		return
	}
	s.lines = append(s.lines, lineCall{page: s.current, x1: x1, y1: y1, x2: x2, y2: y2, thickness: thickness})
}

func (s *recordingSink) Image(data []byte, box Box) {
	if !s.write() {
		return
	}
	s.images = append(s.images, imageCall{page: s.current, data: string(data), box: box})
}

func (s *recordingSink) Err() error {
	return s.err
}

func (s *recordingSink) Finalize() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte(fmt.Sprintf("%%PDF pages=%d", s.pages)), nil
}

func (s *recordingSink) textsContaining(sub string) []textCall {
	var found []textCall
	for _, t := range s.texts {
		if strings.Contains(t.content, sub) {
			found = append(found, t)
		}
	}
	return found
}

func (s *recordingSink) textsAt(x float64) []textCall {
	var found []textCall
	for _, t := range s.texts {
		if t.x == x {
			found = append(found, t)
		}
	}
	return found
}

// measuringSink reports every rune as runeWidth points wide.
type measuringSink struct {
	recordingSink
	runeWidth float64
}

func (s *measuringSink) TextWidth(content string, _ float64, _ FontStyle) float64 {
	return float64(len([]rune(content))) * s.runeWidth
}

type chartCall struct {
	kind  domain.ChartKind
	title string
	n     int
}

type fakeCharts struct {
	mu    sync.Mutex
	calls []chartCall
	err   error
}

func (f *fakeCharts) Render(_ context.Context, kind domain.ChartKind, series []domain.ChartPoint, title string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, chartCall{kind: kind, title: title, n: len(series)})
	if f.err != nil {
		return nil, f.err
	}
	return []byte(string(kind) + "|" + title), nil
}
