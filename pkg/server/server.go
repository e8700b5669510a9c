package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/de-tools/traffic-atlas/pkg/handlers/sites"
	trafficatlasmiddleware "github.com/de-tools/traffic-atlas/pkg/server/middleware"
	"github.com/de-tools/traffic-atlas/pkg/services/site"
)

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Sites  site.Explorer
	Logger zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	sitesHandler := sites.NewHandler(config.Dependencies.Sites)

	router := chi.NewRouter()

	router.Use(trafficatlasmiddleware.Logger(&config.Dependencies.Logger))
	router.Use(middleware.Recoverer)
	router.Use(trafficatlasmiddleware.Metrics)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/sites", sitesHandler.ListSites)
		r.Get("/sites/{site}/pageviews", sitesHandler.GetPageViews)
		r.Get("/sites/{site}/referrers", sitesHandler.GetReferrers)
		r.Get("/sites/{site}/browsers", sitesHandler.GetBrowsers)
		r.Get("/sites/{site}/pages", sitesHandler.GetPages)
		r.Get("/sites/{site}/summary", sitesHandler.GetSummary)
	})

	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebAPI{
		router:          router,
		logger:          &logger,
		shutdownTimeout: timeout,
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
