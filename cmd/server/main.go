package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"talk-it/history"
	"talk-it/moderation"
	"talk-it/room"
	"talk-it/runtime/workers"
	"talk-it/security"
	"talk-it/session"
	"talk-it/transport"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component explicitly and centralizes error reporting, so
// deferred cleanup executes before the process exits and the initialization
// path stays testable.
func run() error {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// Core components, leaf-first.
	limiter, err := security.NewRateLimiter(log, config.MessageQuotaPerMinute, config.ConnectQuotaPerMinute)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	blockList := security.NewBlockList(log)

	msgValidator, err := moderation.NewValidator(config.MinMessageLength, config.MaxMessageLength)
	if err != nil {
		return fmt.Errorf("message validator: %w", err)
	}

	store, err := history.NewStore(history.DefaultCapacity)
	if err != nil {
		return fmt.Errorf("message store: %w", err)
	}

	registry := session.NewRegistry(log)
	coordinator := room.NewCoordinator(log, registry, store, msgValidator)

	// Background tasks under supervision.
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewCleanupWorker(log, limiter, config.CleanupInterval))
	sup.Add(workers.NewTelemetryWorker(log, registry, store, limiter, config.TelemetryInterval))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// Transport.
	handler := transport.NewHandler(log, limiter, blockList, registry, coordinator)
	mux := http.NewServeMux()
	mux.Handle(config.WebSocketPath, handler)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: mux}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting server", "address", address, "path", config.WebSocketPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("Server shutdown incomplete", "error", err)
	}

	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")

	return nil
}
