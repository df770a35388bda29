package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hongminglow/authflow/internal/client/api"
	"github.com/hongminglow/authflow/internal/client/cli"
	"github.com/hongminglow/authflow/internal/client/tokenstore"
	"github.com/hongminglow/authflow/internal/config"
	"github.com/hongminglow/authflow/internal/logging"
	"github.com/hongminglow/authflow/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadClient()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, err := tokenstore.OpenSQLite(ctx, cfg.SessionDB)
	if err != nil {
		logger.Error("open session store", "path", cfg.SessionDB, "error", err)
		os.Exit(1)
	}
	defer tokens.Close()

	backend := api.New(cfg.BackendURL, &http.Client{Timeout: cfg.RequestTimeout})
	ctrl := session.New(backend, tokens,
		session.WithNavigator(cli.Navigator(os.Stdout)),
		session.WithLogger(logger),
	)

	if err := cli.New(ctrl, os.Stdin, os.Stdout).Run(ctx, os.Args[1:]); err != nil {
		logger.Debug("command failed", "error", err)
		code := 1
		if errors.Is(err, cli.ErrUsage) {
			code = 2
		}
		tokens.Close()
		os.Exit(code)
	}
}
