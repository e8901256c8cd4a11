package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leca/dt-restcountries/internal/config"
	"github.com/leca/dt-restcountries/internal/schema"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogFormat, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newCommand(cfg, os.Stdout, logger)
	if err := cmd.Run(ctx, os.Args); err != nil {
		os.Exit(exitCode(logger, err))
	}
}

// exitCode maps a command error to the process exit status: 1 when a case
// failed, 2 for setup problems such as an unreadable schema.
func exitCode(logger *slog.Logger, err error) int {
	if errors.Is(err, errCasesFailed) {
		return 1
	}
	var le *schema.LoadError
	if errors.As(err, &le) {
		logger.Error("schema could not be loaded", "source", le.Source, "error", le.Err)
		return 2
	}
	logger.Error("countrycheck failed", "error", err)
	return 2
}
