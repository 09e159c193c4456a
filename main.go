package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/nholm/arrowsync/internal/config"
	"github.com/nholm/arrowsync/internal/database"
	"github.com/nholm/arrowsync/internal/gateway"
	server "github.com/nholm/arrowsync/internal/http"
	"github.com/nholm/arrowsync/internal/identity"
	"github.com/nholm/arrowsync/internal/metrics"
	"github.com/nholm/arrowsync/internal/notifier"
	"github.com/nholm/arrowsync/internal/notifier/slack"
	"github.com/nholm/arrowsync/internal/scoring"
	"github.com/nholm/arrowsync/internal/session"
	"github.com/nholm/arrowsync/internal/storage"
	"github.com/nholm/arrowsync/internal/syncqueue"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	kvStore := storage.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	gatewayClient := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey)

	var notif notifier.Notifier
	if cfg.Slack.Token != "" && cfg.Slack.ChannelID != "" {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Info("Slack is not configured, decided matches will not be announced")
	}

	clock := clockwork.NewRealClock()
	queue := syncqueue.New(syncqueue.NewStore(db), scoring.NewDeliverer(gatewayClient), clock, metricsSvc)
	resolver := identity.New(kvStore, gatewayClient)
	sessions := session.NewManager(kvStore)
	scoringSvc := scoring.New(resolver, gatewayClient, queue, sessions, notif, metricsSvc, clock, cfg.DryRun)

	// Pick up where the last run left off. A restore needs the tournament
	// server, so a failure here is survivable: the queue keeps its items
	// and the operator can restore once connectivity is back.
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if _, err := scoringSvc.Restore(bootCtx); err != nil {
		if errors.Is(err, scoring.ErrNoSession) {
			log.Info("No previous session to restore")
		} else {
			log.Warn("Could not restore previous session", "error", err)
		}
	}
	bootCancel()

	// Retry pending submissions in the background so a reconnect drains
	// the queue without waiting for the next keypad entry.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := queue.Pending(); err == nil && n > 0 {
				queue.Flush(context.Background())
			}
		}
	}()

	s := server.NewServer(
		scoringSvc,
		metricsSvc,
		metricsHandler,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
