package adapters

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// ServeConfig holds configuration for running a webhook server
type ServeConfig struct {
	// Addr is the address to listen on (default: ":8080", or PORT env)
	Addr string

	// Prefix is the path the webhook route is mounted under (default: "/webhooks")
	Prefix string

	// ShutdownTimeout is the timeout for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration
}

// DefaultServeConfig returns a serve configuration with sensible defaults
func DefaultServeConfig() *ServeConfig {
	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	return &ServeConfig{
		Addr:            addr,
		Prefix:          "/webhooks",
		ShutdownTimeout: 30 * time.Second,
	}
}

// Serve mounts the adapter's webhook route, starts the server and blocks
// until an interrupt or SIGTERM arrives, then shuts down gracefully
func Serve(adapter Adapter, config *ServeConfig) error {
	if config == nil {
		config = DefaultServeConfig()
	}

	adapter.Mount(config.Prefix)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting %s webhook server on %s", adapter.Name(), config.Addr)
		if err := adapter.Start(config.Addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for an interrupt signal or a startup failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Println("Shutting down webhook server...")

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := adapter.Stop(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Webhook server shutdown complete")
	return nil
}
