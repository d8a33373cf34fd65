package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/echovault/internal/client/cli"
	"github.com/dmitrijs2005/echovault/internal/client/config"
	"github.com/dmitrijs2005/echovault/internal/common"
	"github.com/dmitrijs2005/echovault/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if runID, err := common.MakeRandHexString(4); err == nil {
		logger = logger.With("run_id", runID)
	}

	app, closeApp, err := cli.NewFromConfig(ctx, cfg, os.Stdin, os.Stdout, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer closeApp()

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "echovault stopped", "error", err)
	}

}
