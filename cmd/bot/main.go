package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrarafathossain10-collab/moneystepearn10/internal/config"
	"github.com/mrarafathossain10-collab/moneystepearn10/internal/dedup"
	"github.com/mrarafathossain10-collab/moneystepearn10/internal/gateway"
	"github.com/mrarafathossain10-collab/moneystepearn10/internal/journal"
	"github.com/mrarafathossain10-collab/moneystepearn10/internal/logging"
	"github.com/mrarafathossain10-collab/moneystepearn10/internal/processor"
	"github.com/mrarafathossain10-collab/moneystepearn10/internal/server"
	"github.com/mrarafathossain10-collab/moneystepearn10/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	if cfg.BotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	logFile, err := logging.Setup(cfg.ErrorLog)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logFile.Close()

	ledger, err := store.Open(cfg.UsersFile)
	if err != nil {
		if !errors.Is(err, store.ErrStoreCorrupt) {
			log.Fatalf("ledger: %v", err)
		}
		// Explicit data loss: the old file was unreadable, start over empty.
		slog.Error("ledger corrupt, starting from an empty store", "path", cfg.UsersFile, "error", err)
	}

	jr, err := journal.Open(cfg.JournalDB)
	if err != nil {
		log.Fatalf("journal: %v", err)
	}

	gw, err := gateway.New(cfg.BotToken)
	if err != nil {
		log.Fatalf("gateway: %v", err)
	}

	var dd server.Deduper
	if cfg.RedisAddr != "" {
		d, err := dedup.Connect(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		dd = d
	}

	proc := processor.New(ledger)
	handler := server.NewHandler(proc, gw, jr, dd)
	srv := server.NewServer(cfg.ListenAddr, server.NewRouter(handler))

	if cfg.WebhookURL != "" {
		regCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		if err := gw.RegisterWebhook(regCtx, cfg.WebhookURL); err != nil {
			slog.Error("webhook registration failed", "url", cfg.WebhookURL, "error", err)
		} else {
			slog.Info("webhook registered", "url", cfg.WebhookURL)
		}
		cancel()
	}

	errCh := make(chan error, 1)
	go func() {
		serr := srv.ListenAndServe()
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}
		errCh <- nil
	}()

	slog.Info("bot started", "addr", cfg.ListenAddr)

	select {
	case <-ctx.Done():
	case serr := <-errCh:
		if serr != nil {
			log.Fatalf("server: %v", serr)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	slog.Info("shutdown complete")
}
