package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/river-banking-ledger/internal/api_gateway"
	"github.com/river-banking-ledger/internal/api_gateway/service"
	"github.com/river-banking-ledger/internal/bootstrap"
	"github.com/river-banking-ledger/internal/config"
	"github.com/river-banking-ledger/internal/logger"
	"github.com/river-banking-ledger/internal/platform/messaging/producers"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg, "api_gateway")

	ledger, err := bootstrap.OpenLedger(appCtx, log, cfg)
	if err != nil {
		log.Error("Failed to initialize ledger", "error", err)
		os.Exit(1)
	}

	// Publishes asynchronous commands to the processor
	commandProducer, err := producers.NewCommandProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize command producer", "error", err)
		_ = ledger.Close(appCtx)
		os.Exit(1)
	}

	server := api_gateway.NewServer(log, cfg, api_gateway.Services{
		Accounts:     service.NewAccountService(log, ledger.Engine),
		Transactions: service.NewTransactionService(log, ledger.Engine),
		Commands:     service.NewCommandService(log, commandProducer),
		Health:       ledger,
	})
	log.Info("REST server initialized", "storage_driver", cfg.Storage.Driver)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case serverErr = <-errChan:
		log.Error("Server error occurred", "error", serverErr)
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop taking requests before closing what they depend on
	var shutdownErr error
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		shutdownErr = err
	}

	if err := commandProducer.Close(); err != nil {
		log.Error("Error closing command producer", "error", err)
		shutdownErr = err
	}

	if err := ledger.Close(shutdownCtx); err != nil {
		log.Error("Error closing ledger connections", "error", err)
		shutdownErr = err
	}

	if serverErr != nil || shutdownErr != nil {
		log.Error("Server shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Server shutdown completed successfully")
}
