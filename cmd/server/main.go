package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/youruser/mockupapp/internal/api"
	"github.com/youruser/mockupapp/internal/config"
	"github.com/youruser/mockupapp/internal/mockup"
	"github.com/youruser/mockupapp/internal/util"
)

func main() {
	logger := util.Default()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	logger.SetLevel(util.ParseLevel(cfg.Log.Level))

	svc, closeSink, err := mockup.FromConfig(cfg, logger, nil)
	if err != nil {
		logger.Fatal("build service", "err", err)
	}
	defer closeSink()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := api.Serve(ctx, cfg, svc, logger); err != nil {
		logger.Error("server stopped", "err", err)
	}
}
