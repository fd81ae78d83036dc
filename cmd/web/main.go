package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lucasmonteiro/agendei/internal/api/router"
	"github.com/lucasmonteiro/agendei/internal/app/bootstrap"
	"github.com/lucasmonteiro/agendei/internal/appointments"
	"github.com/lucasmonteiro/agendei/internal/booking"
	appconfig "github.com/lucasmonteiro/agendei/internal/config"
	"github.com/lucasmonteiro/agendei/internal/events"
	"github.com/lucasmonteiro/agendei/internal/http/handlers"
	httpmiddleware "github.com/lucasmonteiro/agendei/internal/http/middleware"
	"github.com/lucasmonteiro/agendei/internal/observability/metrics"
	"github.com/lucasmonteiro/agendei/internal/session"
	"github.com/lucasmonteiro/agendei/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting agendei web server",
		"env", cfg.Env,
		"port", cfg.Port,
		"backend", cfg.APIBaseURL,
	)

	ctx := context.Background()

	// Appointments backend client.
	apiClient, err := appointments.NewClient(appointments.Config{
		BaseURL: cfg.APIBaseURL,
		HTTPClient: &http.Client{
			Timeout: cfg.APITimeout,
		},
	})
	if err != nil {
		logger.Error("failed to build appointments client", "error", err)
		os.Exit(1)
	}

	// Session persistence: Redis when configured, in-memory otherwise.
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}
	store := bootstrap.BuildSessionStore(redisClient, cfg, logger)

	// Observability.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	schedulingMetrics := metrics.NewSchedulingMetrics(registry)

	// Change notifications for open pages.
	hub := events.NewHub(logger)

	sessions := session.NewManager(store, booking.Deps{
		API:      apiClient,
		Notifier: hub,
		Metrics:  schedulingMetrics,
		Logger:   logger,
	}, logger)

	pageHandler, err := handlers.NewPageHandler(sessions, logger)
	if err != nil {
		logger.Error("failed to build page handler", "error", err)
		os.Exit(1)
	}

	r := router.New(&router.Config{
		Logger:             logger,
		Page:               pageHandler,
		Booking:            handlers.NewBookingHandler(sessions, logger),
		Agenda:             handlers.NewAgendaHandler(sessions, logger),
		Health:             handlers.NewHealthHandler(apiClient, logger),
		EventsHandler:      hub.Handler(),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		SessionMiddleware:  httpmiddleware.Session(cfg.SessionTTL),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MutationRate:       5,
		MutationBurst:      20,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
