package commands

import (
	"context"

	"github.com/de-tools/statreport/pkg/models/domain"
	"github.com/de-tools/statreport/pkg/services/document"
	"github.com/de-tools/statreport/pkg/services/stats"
)

type FileImporter interface {
	ImportFile(ctx context.Context, path string) (domain.ImportResult, error)
}

// Services are the application services a command may use.
type Services struct {
	Stats     stats.Service
	Documents document.Service
	Importer  FileImporter
	Close     func() error
}

// Opener returns the services, connecting on first use.
type Opener func(ctx context.Context) (*Services, error)

type ResultReporter interface {
	ImportResult(result domain.ImportResult) error
	DocumentWritten(doc *domain.Document, path string) error
}

type TableReporter interface {
	Handle(rows []domain.ReportRow) error
	Codes(codes []domain.StatCode) error
	Totals(totals domain.StatTotals) error
}
