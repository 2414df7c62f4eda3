package document

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/statreport/pkg/models/domain"
	"github.com/de-tools/statreport/pkg/services/report"
	"github.com/de-tools/statreport/pkg/services/stats"
	"github.com/de-tools/statreport/pkg/store/archive"
)

const ContentTypePDF = "application/pdf"

var ErrNoIDs = errors.New("at least one record id is required")

// SinkFactory opens a fresh document sink. Every document gets its own sink and engine.
type SinkFactory func() (report.Sink, error)

type Service interface {
	// Summary renders the full report over the rows matching filter. The filter criteria are
	// printed under the title.
	Summary(ctx context.Context, filter domain.StatFilter) (*domain.Document, error)
	// ByCode renders the full report over the rows stored under exactly code.
	ByCode(ctx context.Context, code string) (*domain.Document, error)
	Detail(ctx context.Context, id string) (*domain.Document, error)
	Details(ctx context.Context, ids []string) (*domain.Document, error)
}

type Dependencies struct {
	Stats   stats.Service
	NewSink SinkFactory
	Charts  report.ChartRenderer
	Archive archive.Archive
}

type Options struct {
	Layout report.Layout
	Labels report.Labels
	Now    func() time.Time
}

type service struct {
	deps Dependencies
	opts Options
}

func NewService(deps Dependencies, opts Options) Service {
	if deps.Archive == nil {
		deps.Archive = archive.Nop{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{deps: deps, opts: opts}
}

func (s *service) Summary(ctx context.Context, filter domain.StatFilter) (*domain.Document, error) {
	rows, err := s.deps.Stats.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}

	description := report.DescribeFilter(filter, s.labels().Filter)
	data, err := s.renderSummary(ctx, rows, description)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("summary-%s.pdf", s.opts.Now().Format("20060102-150405"))
	return s.publish(ctx, name, data), nil
}

func (s *service) ByCode(ctx context.Context, code string) (*domain.Document, error) {
	rows, err := s.deps.Stats.ByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf(s.labels().Filter.ExactCode, rows[0].Code)
	data, err := s.renderSummary(ctx, rows, description)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("code-%s-%s.pdf", fileSafe(rows[0].Code), s.opts.Now().Format("20060102-150405"))
	return s.publish(ctx, name, data), nil
}

func (s *service) renderSummary(ctx context.Context, rows []domain.ReportRow, description string) ([]byte, error) {
	engine, err := s.newEngine()
	if err != nil {
		return nil, err
	}
	data, err := engine.Generate(ctx, rows, report.GenerateOptions{FilterDescription: description})
	if err != nil {
		return nil, fmt.Errorf("generate summary report: %w", err)
	}
	return data, nil
}

func (s *service) Detail(ctx context.Context, id string) (*domain.Document, error) {
	row, err := s.deps.Stats.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.renderDetails(ctx, []domain.ReportRow{row})
	if err != nil {
		return nil, err
	}
	return s.publish(ctx, fmt.Sprintf("stat-%s.pdf", fileSafe(row.Code)), data), nil
}

func (s *service) Details(ctx context.Context, ids []string) (*domain.Document, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}
	rows, err := s.deps.Stats.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	data, err := s.renderDetails(ctx, rows)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("details-%d-%s.pdf", len(rows), s.opts.Now().Format("20060102-150405"))
	return s.publish(ctx, name, data), nil
}

func (s *service) renderDetails(ctx context.Context, rows []domain.ReportRow) ([]byte, error) {
	engine, err := s.newEngine()
	if err != nil {
		return nil, err
	}
	data, err := engine.GenerateDetail(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("generate detail report: %w", err)
	}
	return data, nil
}

func (s *service) labels() report.Labels {
	if s.opts.Labels.Title == "" {
		return report.EnglishLabels()
	}
	return s.opts.Labels
}

func (s *service) newEngine() (*report.Engine, error) {
	sink, err := s.deps.NewSink()
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	return report.NewEngine(sink, s.deps.Charts, report.Options{
		Layout: s.opts.Layout,
		Labels: s.opts.Labels,
		Now:    s.opts.Now,
	})
}

// publish archives the finished document. The document is returned even when archiving fails.
func (s *service) publish(ctx context.Context, name string, data []byte) *domain.Document {
	logger := zerolog.Ctx(ctx)

	location, err := s.deps.Archive.Put(ctx, name, ContentTypePDF, data)
	if err != nil {
		logger.Warn().Err(err).Str("document", name).Msg("failed to archive document")
	} else if location != "" {
		logger.Info().Str("document", name).Str("location", location).Msg("document archived")
	}

	return &domain.Document{
		Name:        name,
		ContentType: ContentTypePDF,
		Data:        data,
	}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func fileSafe(s string) string {
	s = unsafeChars.ReplaceAllString(s, "_")
	if s == "" {
		return "record"
	}
	return s
}
