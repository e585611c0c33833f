package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aneeqdev/employee-directory/internal/client"
	"github.com/aneeqdev/employee-directory/internal/config"
	"github.com/aneeqdev/employee-directory/internal/logger"
	"github.com/aneeqdev/employee-directory/internal/seeder"
	"github.com/aneeqdev/employee-directory/pkg/dataflow"
	"github.com/spf13/pflag"
)

type options struct {
	action  string
	preset  string
	count   int
	seed    int64
	workers int
	retries int
	baseURL string
	yes     bool
}

func main() {
	opt := options{}
	pflag.StringVar(&opt.action, "action", "seed", "Action to perform: seed, clear")
	pflag.StringVar(&opt.preset, "preset", string(seeder.PresetSmall), "Data preset: small, medium, large")
	pflag.IntVar(&opt.count, "count", 0, "Number of employees to create (overrides preset)")
	pflag.Int64Var(&opt.seed, "seed", time.Now().UnixNano(), "Random seed for generated data")
	pflag.IntVar(&opt.workers, "workers", 4, "Concurrent requests")
	pflag.IntVar(&opt.retries, "retries", 2, "Retries per failed request")
	pflag.StringVar(&opt.baseURL, "api", "", "API base URL (defaults to API_BASE_URL)")
	pflag.BoolVar(&opt.yes, "yes", false, "Do not ask for confirmation before clearing")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opt); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Println("\n✅ Done!")
}

func run(ctx context.Context, opt options) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig
	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)

	if opt.baseURL == "" {
		opt.baseURL = cfg.API_BASE_URL
	}
	api, err := client.New(opt.baseURL, client.WithTimeout(cfg.HTTP_TIMEOUT), client.WithLogger(logger.Global()))
	if err != nil {
		return err
	}

	s := seeder.New(api,
		seeder.WithWorkers(opt.workers),
		seeder.WithRetry(opt.retries, dataflow.ExponentialBackoff(200*time.Millisecond, 2*time.Second)),
		seeder.WithLogger(logger.Global()),
	)

	fmt.Println("🚀 Employee Directory Seeder")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("📡 API: %s\n", opt.baseURL)

	switch opt.action {
	case "seed":
		return performSeed(ctx, s, opt)
	case "clear":
		return performClear(ctx, s, opt.yes)
	default:
		pflag.PrintDefaults()
		return fmt.Errorf("unknown action: %s", opt.action)
	}
}

func performSeed(ctx context.Context, s *seeder.Seeder, opt options) error {
	n := opt.count
	if n > 0 {
		fmt.Printf("📊 Using custom count: %d employees\n", n)
	} else {
		var err error
		if n, err = seeder.Preset(opt.preset).Count(); err != nil {
			return err
		}
		fmt.Printf("📊 Using preset: %s (%d employees)\n", opt.preset, n)
	}

	res, err := s.Seed(ctx, s.Generate(n, opt.seed))
	fmt.Printf("Created %d, failed %d\n", res.Succeeded, res.Failed)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	if res.Failed > 0 {
		return fmt.Errorf("%d employees could not be created", res.Failed)
	}
	return nil
}

func performClear(ctx context.Context, s *seeder.Seeder, yes bool) error {
	if !yes {
		fmt.Printf("⚠️  This will delete every employee with an @%s email!\n", seeder.EmailDomain)
		fmt.Print("Continue? (yes/no): ")

		response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(response) != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	res, err := s.Clear(ctx)
	fmt.Printf("Removed %d, failed %d\n", res.Succeeded, res.Failed)
	if err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	return nil
}
