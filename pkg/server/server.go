package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/gi-tools/growth-atlas/pkg/handlers/analytics"
	"github.com/gi-tools/growth-atlas/pkg/services/analytics"

	growthatlasmiddleware "github.com/gi-tools/growth-atlas/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Analytics *analytics.Service
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	handler := handlers.NewHandler(config.Dependencies.Analytics)

	router := chi.NewRouter()

	router.Use(growthatlasmiddleware.RequestID)
	router.Use(growthatlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/properties", handler.ListProfiles)
		r.Get("/catalog", handler.GetCatalog)
		r.Post("/reports/query", handler.RunQuery)
		r.Post("/reports/summary", handler.GetSummary)
		r.Post("/reports/comparison", handler.GetComparison)
		r.Post("/reports/funnel", handler.GetFunnel)
		r.Post("/reports/top", handler.GetTop)
		r.Post("/reports/export", handler.Export)
	})

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
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
