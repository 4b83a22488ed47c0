package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/kasa/internal/cli"
	"github.com/dmitrijs2005/kasa/internal/config"
	"github.com/dmitrijs2005/kasa/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to start", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
