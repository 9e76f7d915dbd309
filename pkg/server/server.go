package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticshandlers "github.com/de-tools/sales-atlas/pkg/handlers/analytics"
	ledgerhandlers "github.com/de-tools/sales-atlas/pkg/handlers/ledger"
	reporthandlers "github.com/de-tools/sales-atlas/pkg/handlers/reports"
	atlasmiddleware "github.com/de-tools/sales-atlas/pkg/server/middleware"
	"github.com/de-tools/sales-atlas/pkg/services/ledger"
	"github.com/de-tools/sales-atlas/pkg/services/reporting"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Reports reporting.Service
	Ledger  ledger.Service
	Logger  zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	analyticsHandler := analyticshandlers.NewHandler(deps.Reports)
	reportHandler := reporthandlers.NewHandler(deps.Reports, deps.Ledger)
	ledgerHandler := ledgerhandlers.NewHandler(deps.Ledger)

	router := chi.NewRouter()

	router.Use(atlasmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/forecast/{businessID}", analyticsHandler.GetForecast)
			r.Get("/sales/{businessID}", analyticsHandler.GetNetSales)
			r.Get("/top-items/{businessID}", analyticsHandler.GetTopItems)
			r.Get("/product/{businessID}/{productID}", analyticsHandler.GetProductAnalytics)
			r.Get("/inventory/{businessID}", analyticsHandler.GetInventory)
		})
		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary/{businessID}", reportHandler.GetSummary)
			r.Get("/download/{businessID}", reportHandler.Download)
		})
		r.Post("/transactions", ledgerHandler.CreateTransaction)
		r.Get("/transactions/{businessID}", ledgerHandler.ListTransactions)
		r.Post("/inventory", ledgerHandler.AddInventory)
		r.Get("/inventory/{businessID}", ledgerHandler.ListInventory)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
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
