package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server"
	"github.com/dmitrijs2005/smartnotes/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, err.Error())
		os.Exit(1)
	}

	runErr := app.Run(ctx)

	if err := app.Close(); err != nil {
		logger.Error(ctx, "close storage", "error", err)
	}
	if runErr != nil {
		os.Exit(1)
	}

}
