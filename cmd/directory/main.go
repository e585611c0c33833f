package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aneeqdev/employee-directory/internal/client"
	"github.com/aneeqdev/employee-directory/internal/config"
	"github.com/aneeqdev/employee-directory/internal/logger"
	"github.com/spf13/afero"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadEnvConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load env config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.DefaultEnvConfig
	// stdout carries the table, so logs only go to the log file
	log := logger.New(io.Discard, cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)

	api, err := client.New(cfg.API_BASE_URL, client.WithTimeout(cfg.HTTP_TIMEOUT), client.WithLogger(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create client: %v\n", err)
		os.Exit(1)
	}

	cli := &CLI{
		API:        api,
		Fs:         afero.NewOsFs(),
		Out:        os.Stdout,
		Err:        os.Stderr,
		Log:        log,
		PageSize:   cfg.PAGE_SIZE,
		LayoutPath: cfg.EXPORT_LAYOUT_PATH,
	}
	os.Exit(cli.Run(ctx, os.Args[1:]))
}
