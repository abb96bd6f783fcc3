// Command httpd runs the review/counterfeit classification service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veritrust/classifier/internal/api"
	"github.com/veritrust/classifier/internal/classifier"
	"github.com/veritrust/classifier/internal/config"
	"github.com/veritrust/classifier/internal/counterfeit"
	"github.com/veritrust/classifier/internal/llmclient"
	"github.com/veritrust/classifier/internal/logging"
	"github.com/veritrust/classifier/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting classification service",
		logging.String("name", cfg.Service.Name),
		logging.String("version", cfg.Service.Version),
		logging.Int("port", cfg.Service.Port),
	)

	tp := telemetry.NewProvider()

	reviews := classifier.NewReviewClassifier(
		llmclient.New(cfg.LLM, logger),
		logger,
		tp,
	)
	intake := classifier.NewIntakeClassifier(
		counterfeit.NewRunner(cfg.Counterfeit, logger),
		logger,
		tp,
	)

	handler := api.NewHandler(reviews, intake, logger, cfg.Service.Version)
	server := api.NewServer(handler, tp.Handler(), api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, logger)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", logging.Error(err))
		os.Exit(1)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", logging.Error(err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	}
}
