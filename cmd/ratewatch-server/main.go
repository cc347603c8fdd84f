package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkarneyeu/ratewatch/internal/clients/nbrb"
	"github.com/mkarneyeu/ratewatch/internal/common"
	"github.com/mkarneyeu/ratewatch/internal/server"
	"github.com/mkarneyeu/ratewatch/internal/services/rates"
	"github.com/mkarneyeu/ratewatch/internal/services/report"
	"github.com/mkarneyeu/ratewatch/internal/storage/userdb"
)

func main() {
	configPath := os.Getenv("RATEWATCH_CONFIG")

	var paths []string
	if configPath != "" {
		paths = append(paths, configPath)
	}
	config, err := common.LoadConfig(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger(config.Logging.Level)
	common.PrintBanner(config, logger)

	users, err := userdb.New(config.Database.DSN(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("User store initialization failed")
	}
	defer users.Close()

	client := nbrb.NewClient(
		nbrb.WithBaseURL(config.NBRB.BaseURL),
		nbrb.WithTimeout(config.NBRB.GetTimeout()),
		nbrb.WithRateLimit(config.NBRB.RateLimit),
		nbrb.WithLogger(logger),
	)

	ratesSvc := rates.NewService(client, config.Instruments,
		config.NBRB.MaxChunkDays, config.NBRB.LookbackDays, logger)
	reportSvc := report.NewService(logger)

	srv := server.NewServer(config, logger, users, ratesSvc, reportSvc)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	logger.Info().
		Str("url", fmt.Sprintf("http://localhost:%d", config.Server.Port)).
		Int("instruments", len(config.Instruments)).
		Msg("Server ready")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	common.PrintShutdownBanner(logger)
}
