// Package main implements the HTTP server for managing store products and sales.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "net/http/pprof"

	"github.com/pviana/store-manager/internal/app"
	"github.com/pviana/store-manager/internal/config"
	"github.com/pviana/store-manager/pkg/bootstrap"
	"github.com/pviana/store-manager/pkg/config/configloader"
	natsinfra "github.com/pviana/store-manager/pkg/nats"
	"github.com/pviana/store-manager/pkg/telemetry"
	"golang.org/x/sync/errgroup"
)

const serviceName = "store"

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run initializes the application, connects the database and NATS, and starts
// the HTTP and pprof servers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	db, err := bootstrap.NewMongoDatabase(ctx, cfg.Database.URL, cfg.Database.Name, cfg.Database.Timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect from the database", "error", err)
		}
	}()
	logger.Info("Successfully connected to the database!")

	nc, err := natsinfra.NewClient(serviceName, cfg.NATS.Url, cfg.NATS.Timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer nc.Close()
	js, err := natsinfra.NewJetStreamContext(nc)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}
	publisher := natsinfra.NewNatsPublisher(js)
	logger.Info("Successfully connected to NATS!")

	if cfg.Telemetry.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, serviceName, cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to set up tracer provider: %w", err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("Failed to shut down tracer provider", "error", err)
			}
		}()
	}

	deps := app.SetupDependencies(db, publisher, logger)
	httpServer := app.SetupHttpServer(deps, cfg)
	pprofServer := &http.Server{
		Addr: cfg.PProf.Addr,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}
