package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	statshandlers "github.com/de-tools/statreport/pkg/handlers/stats"
	reportmiddleware "github.com/de-tools/statreport/pkg/server/middleware"
	"github.com/de-tools/statreport/pkg/services/document"
	"github.com/de-tools/statreport/pkg/services/stats"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Stats     stats.Service
	Documents document.Service
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(&logger, config.Dependencies)

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

// ConfigureRouter mounts the stats and report endpoints under /api/v1.
func ConfigureRouter(logger *zerolog.Logger, deps Dependencies) *chi.Mux {
	statsHandler := statshandlers.NewHandler(deps.Stats, deps.Documents)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(reportmiddleware.Logger(logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/stats", statsHandler.ListStats)
		r.Get("/stats/search/{query}", statsHandler.SearchStats)
		r.Get("/stats/codes", statsHandler.ListCodes)
		r.Get("/stats/totals", statsHandler.Totals)
		r.Get("/stats/code/{code}", statsHandler.StatsByCode)
		r.Get("/stats/{id}", statsHandler.GetStat)

		r.Get("/reports/summary.pdf", statsHandler.SummaryReport)
		// Codes contain dots, so this route carries no .pdf suffix.
		r.Get("/reports/code/{code}", statsHandler.CodeReport)
		r.Get("/reports/stats/{id}.pdf", statsHandler.StatReport)
		r.Post("/reports/details.pdf", statsHandler.DetailsReport)
	})

	return router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-shutdown:
		w.logger.Info().Str("signal", sig.String()).Msg("shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
