package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aneeqdev/employee-directory/internal/bootstrap"
	"github.com/aneeqdev/employee-directory/internal/config"
	"github.com/aneeqdev/employee-directory/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize gateway: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(ctx, config.DefaultEnvConfig.APP_PORT); err != nil {
		logger.ErrorLog(ctx, "Gateway stopped: %v", err)
		os.Exit(1)
	}
}
