package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/summitsurfaces/showroom-api/internal/api/router"
	"github.com/summitsurfaces/showroom-api/internal/availability"
	"github.com/summitsurfaces/showroom-api/internal/booking"
	appconfig "github.com/summitsurfaces/showroom-api/internal/config"
	"github.com/summitsurfaces/showroom-api/internal/crm"
	"github.com/summitsurfaces/showroom-api/internal/leads"
	"github.com/summitsurfaces/showroom-api/internal/observability/metrics"
	"github.com/summitsurfaces/showroom-api/pkg/logging"
)

// buildHandler wires the CRM client, services, and handlers into the HTTP
// router. Split out of main so the wiring is testable.
func buildHandler(cfg *appconfig.Config, logger *logging.Logger, reg *prometheus.Registry) http.Handler {
	crmClient := crm.NewClient(crm.Config{
		APIKey:          cfg.CRMAPIKey,
		BaseURL:         cfg.CRMBaseURL,
		LocationID:      cfg.CRMLocationID,
		PipelineID:      cfg.CRMPipelineID,
		PipelineStageID: cfg.CRMPipelineStageID,
	}, logger)
	crmClient.SetTimeout(cfg.CRMTimeout)

	bookingMetrics := metrics.NewBookingMetrics(reg)

	availabilityHandler := availability.NewHandler(availability.HandlerConfig{
		Source:       crmClient,
		APIKey:       cfg.CRMAPIKey,
		Timezone:     cfg.BusinessTimezone,
		SlotDuration: cfg.DefaultSlotDuration,
		Metrics:      bookingMetrics,
		Logger:       logger,
	})
	bookingService := booking.NewService(crmClient, cfg.BusinessTimezone, bookingMetrics, logger)
	bookingHandler := booking.NewHandler(bookingService, cfg.CRMAPIKey, logger)
	leadsService := leads.NewService(crmClient, bookingMetrics, logger)
	leadsHandler := leads.NewHandler(leadsService, cfg.CRMAPIKey, logger)

	return router.New(&router.Config{
		Logger:              logger,
		AvailabilityHandler: availabilityHandler,
		BookingHandler:      bookingHandler,
		LeadsHandler:        leadsHandler,
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		FormRateLimit:       2,
		FormRateBurst:       10,
	})
}

func main() {
	// Load .env for local development; in deployed environments the
	// variables come from the runtime.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting showroom-api server",
		"env", cfg.Env,
		"port", cfg.Port,
		"timezone", cfg.BusinessTimezone,
	)
	if cfg.CRMAPIKey == "" {
		logger.Warn("CRM_API_KEY is not set, CRM-backed endpoints will return 500")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      buildHandler(cfg, logger, reg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
