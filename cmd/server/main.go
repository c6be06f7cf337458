package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/promptmanager/internal/buildinfo"
	"github.com/dmitrijs2005/promptmanager/internal/logging"
	"github.com/dmitrijs2005/promptmanager/internal/server"
	"github.com/dmitrijs2005/promptmanager/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	runErr := app.Run(ctx)
	if err := app.Close(); err != nil {
		logger.Error(ctx, "close failed", "error", err)
	}
	if runErr != nil {
		logger.Error(ctx, "server stopped", "error", runErr)
		os.Exit(1)
	}
}
