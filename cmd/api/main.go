// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/grocery-storefront/internal/config"
	"github.com/your-org/grocery-storefront/internal/infrastructure/memstore"
	"github.com/your-org/grocery-storefront/internal/interfaces/http"
	"github.com/your-org/grocery-storefront/internal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr := logger.New(cfg)
	logr.WithField("environment", cfg.App.Environment).Infof("Starting %s v%s reference backend", cfg.App.Name, cfg.App.Version)

	store := memstore.New(cfg)
	if cfg.IsDevelopment() {
		store.Seed()
		logr.Info("Seeded demo catalog")
	}

	if cfg.Admin.Phone != "" {
		admin, err := store.SeedAdmin(cfg.Admin.Name, cfg.Admin.Phone, cfg.Admin.PasswordHash)
		if err != nil {
			logr.WithError(err).Fatal("Failed to seed admin account")
		}
		logr.WithField("user_id", admin.ID).Info("Seeded admin account")
	}

	server := http.NewServer(cfg, store, logr)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logr.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logr.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	logr.Info("Server shutdown completed")
}
