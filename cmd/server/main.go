package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/authflow/internal/config"
	"github.com/hongminglow/authflow/internal/logging"
	"github.com/hongminglow/authflow/internal/server"
	"github.com/hongminglow/authflow/internal/storage"
	"github.com/hongminglow/authflow/internal/storage/memory"
	"github.com/hongminglow/authflow/internal/storage/postgres"
	"github.com/hongminglow/authflow/internal/storage/sqlite"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Debug("no .env file found; relying on existing environment")
	}

	ctx := context.Background()
	userStore, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("init database", "error", err)
		os.Exit(1)
	}
	defer userStore.Close()

	srv := server.New(cfg, userStore, logger)

	go func() {
		logger.Info("authflow backend listening", "addr", cfg.HTTPAddress(), "frontend", cfg.FrontendURL)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

// openStore picks a backend from the DATABASE_URL shape: postgres URLs use pgx, "memory" keeps
// users in process, anything else is a SQLite file path.
func openStore(ctx context.Context, databaseURL string) (storage.UserStore, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgres.NewUserStore(ctx, databaseURL)
	case databaseURL == "memory":
		return memory.NewUserStore(), nil
	default:
		return sqlite.NewUserStore(ctx, databaseURL)
	}
}
