package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cpaptracker-service/internal/app"
	"cpaptracker-service/internal/infrastructure/config"
	"cpaptracker-service/internal/infrastructure/scheduler"
	httpapi "cpaptracker-service/internal/interface/http"
	"cpaptracker-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting CPAP Tracker Service", "version", cfg.AppVersion, "storage", cfg.Storage)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize service", "error", err)
	}

	// Daily reminder sweep
	sweepScheduler := scheduler.NewDailyScheduler(func(ctx context.Context, today time.Time) error {
		_, err := a.Sweep.RunReminderSweep(ctx, today)
		return err
	}, scheduler.Options{
		InitialDelay: cfg.SweepInitialDelay,
		Interval:     cfg.SweepInterval,
		RetryDelay:   cfg.SweepRetryDelay,
		MaxRetries:   3,
		Location:     cfg.Location,
	}, log)
	go sweepScheduler.Start(ctx)

	// Set up HTTP server for the API and metrics
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := httpapi.NewHandler(a.Tracker, a.Sweep, a.Exporter, a.History, cfg.HorizonDays, cfg.Location, log)
	router := httpapi.NewRouter(handler, promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}), log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig.String())

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop the scheduler

	a.Close(shutdownCtx)

	log.Info("CPAP Tracker Service stopped")
}
