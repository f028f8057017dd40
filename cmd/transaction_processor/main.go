package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/river-banking-ledger/internal/bootstrap"
	"github.com/river-banking-ledger/internal/config"
	"github.com/river-banking-ledger/internal/logger"
	"github.com/river-banking-ledger/internal/platform/messaging/consumers"
	"github.com/river-banking-ledger/internal/platform/messaging/producers"
	"github.com/river-banking-ledger/internal/transaction_processor/components"
	"github.com/river-banking-ledger/internal/transaction_processor/consumer"
	"github.com/river-banking-ledger/internal/transaction_processor/service"
)

const shutdownTimeout = 30 * time.Second

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("transaction_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg, "transaction_processor")

	log.Info("Starting Transaction Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"storage_driver", cfg.Storage.Driver,
	)

	ledger, err := bootstrap.OpenLedger(appCtx, log, cfg)
	if err != nil {
		log.Error("Failed to initialize ledger", "error", err)
		os.Exit(1)
	}
	fail := func(msg string, err error) {
		log.Error(msg, "error", err)
		_ = ledger.Close(context.Background())
		os.Exit(1)
	}

	// Command de-duplication always needs Redis, locks or not
	redisClient, err := ledger.Redis(appCtx)
	if err != nil {
		fail("Failed to initialize Redis", err)
	}

	resultProducer, err := producers.NewResultProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		fail("Failed to initialize result producer", err)
	}

	// dlqProducer is nil when no DLQ topic is configured; its methods are nil-safe
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		fail("Failed to initialize DLQ Kafka producer", err)
	}

	processingService := components.CreateProcessingService(
		ledger.Engine,
		redisClient,
		resultProducer,
		dlqProducer,
		log,
		cfg,
	)

	commandEventHandler := consumer.NewCommandEventHandler(log, processingService, dlqProducer)

	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka, cfg.WorkerPool.Size)
	if err := kafkaConsumer.Subscribe(appCtx, commandEventHandler.HandleMessage); err != nil {
		fail("Failed to subscribe to command topic", err)
	}
	log.Info("Consuming ledger commands",
		"topic", cfg.Kafka.CommandTopic,
		"group", cfg.Kafka.ConsumerGroup,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit
	log.Info("Shutdown signal received")

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Canceling appCtx only stops fetching. A command already fetched runs on a
	// detached context and is committed before its loop returns.
	stopped := make(chan struct{})
	go func() {
		kafkaConsumer.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
		log.Info("Kafka consumer stopped")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	if wpService, ok := processingService.(*service.WorkerPoolProcessingService); ok {
		wpService.Shutdown()
	}

	var shutdownErr error
	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
		shutdownErr = err
	}
	if err := resultProducer.Close(); err != nil {
		log.Error("Error closing result producer", "error", err)
		shutdownErr = err
	}
	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
		shutdownErr = err
	}
	if err := ledger.Close(shutdownCtx); err != nil {
		log.Error("Error closing ledger connections", "error", err)
		shutdownErr = err
	}

	if shutdownErr != nil {
		log.Error("Transaction Processor shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Transaction Processor shutdown completed successfully")
}
