package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/linkdrop/internal/buildinfo"
	"github.com/dmitrijs2005/linkdrop/internal/client/cli"
	"github.com/dmitrijs2005/linkdrop/internal/client/config"
	"github.com/dmitrijs2005/linkdrop/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	// SIGINT is left to the REPL: it cancels a running submission
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, "text")
	app, err := cli.NewApp(cfg, logger, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx, os.Stdin)

}
