package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/de-tools/statreport/pkg/importer"
	"github.com/de-tools/statreport/pkg/render/chart"
	"github.com/de-tools/statreport/pkg/render/pdf"
	"github.com/de-tools/statreport/pkg/services/config"
	"github.com/de-tools/statreport/pkg/services/document"
	"github.com/de-tools/statreport/pkg/services/report"
	"github.com/de-tools/statreport/pkg/services/stats"
	"github.com/de-tools/statreport/pkg/store/archive"
	"github.com/de-tools/statreport/pkg/store/sqlutil"
	statsstore "github.com/de-tools/statreport/pkg/store/stats"
)

// App holds the services shared by the web server and the command line tool.
type App struct {
	Stats     stats.Service
	Documents document.Service
	Importer  *importer.Importer

	db *sql.DB
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)

	db, err := sqlutil.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}

	app, err := build(ctx, cfg, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info().
		Str("driver", cfg.Store.Driver).
		Str("path", cfg.Store.Path).
		Str("locale", string(cfg.Locale())).
		Bool("archive", cfg.Archive.Enabled).
		Msg("application initialized")
	return app, nil
}

func build(ctx context.Context, cfg *config.Config, db *sql.DB) (*App, error) {
	store, err := statsstore.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats store: %w", err)
	}

	labels, err := config.LoadLabels(cfg.Report.LabelsFile, cfg.Locale())
	if err != nil {
		return nil, err
	}

	charts, err := chart.NewRenderer(cfg.Report.Chart)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart renderer: %w", err)
	}

	arch, err := archive.New(ctx, cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}

	layout := report.DefaultLayout()
	layout.MaxLineChars = cfg.Report.MaxLineChars

	statsService := stats.NewService(store)
	docConfig := pdf.Config{
		Title:  labels.Title,
		Author: "statreport",
		Fonts:  cfg.Report.Fonts,
	}

	documents := document.NewService(document.Dependencies{
		Stats: statsService,
		NewSink: func() (report.Sink, error) {
			doc, err := pdf.New(docConfig)
			if err != nil {
				return nil, err
			}
			return doc, nil
		},
		Charts:  charts,
		Archive: arch,
	}, document.Options{
		Layout: layout,
		Labels: labels,
	})

	return &App{
		Stats:     statsService,
		Documents: documents,
		Importer:  importer.New(store),
		db:        db,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}
