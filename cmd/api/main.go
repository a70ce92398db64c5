package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coinbridge/coinbridge/internal/config"
	"github.com/coinbridge/coinbridge/internal/infra"
	"github.com/coinbridge/coinbridge/internal/logging"
	"github.com/coinbridge/coinbridge/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()

	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cache, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("connect redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warn("close redis", "error", err)
		}
	}()

	srv, err := server.New(cfg, db, cache, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	// Surface transfers that died between debit and credit: each open
	// journal entry means a sender may be debited with no credited
	// destination and needs operator reconciliation.
	if pending, err := srv.Transfers().PendingCompensations(ctx); err != nil {
		logger.Warn("scan pending transfer journal", "error", err)
	} else {
		for _, entry := range pending {
			logger.Error("pending transfer compensation requires reconciliation",
				"transfer_id", entry.ID,
				"sender_id", entry.SenderID,
				"recipient_id", entry.RecipientID,
				"amount", entry.Amount.String(),
				"prior_balance", entry.PriorBalance.String(),
				"opened_at", entry.OpenedAt,
			)
		}
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
