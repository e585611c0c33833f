package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aneeqdev/employee-directory/internal/config"
	"github.com/aneeqdev/employee-directory/internal/gateway"
	"github.com/aneeqdev/employee-directory/internal/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// App is the gateway process: the same-origin proxy plus health and metrics.
type App struct {
	Echo    *echo.Echo
	Metrics *gateway.Metrics
	Limiter *gateway.MemoryLimiter

	// Transport overrides the upstream round tripper; nil uses the default.
	Transport http.RoundTripper

	log zerolog.Logger
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &App{
		Echo:    e,
		Metrics: gateway.NewMetrics(),
		log:     zerolog.Nop(),
	}
}

// Initialize loads configuration, sets up logging and wires the routes.
func (a *App) Initialize(ctx context.Context) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}

	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH, config.DefaultEnvConfig.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	return a.Setup(logger.Global(), config.DefaultEnvConfig.BACKEND_URL,
		config.DefaultEnvConfig.RATE_LIMIT_PER_MINUTE, config.DefaultEnvConfig.RATE_LIMIT_BURST)
}

// Setup wires middlewares and routes without touching the environment.
func (a *App) Setup(log zerolog.Logger, backendURL string, perMinute, burst int) error {
	a.log = log
	a.Limiter = gateway.NewMemoryLimiter(perMinute, burst)

	proxy, err := gateway.NewProxy(backendURL, a.Transport)
	if err != nil {
		return fmt.Errorf("failed to initialize proxy: %w", err)
	}

	a.RegisterMiddlewares()
	a.RegisterRoutes(proxy)
	a.log.Info().Str("backend", backendURL).Msg("Gateway initialized")
	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.HTTPErrorHandler = gateway.ErrorHandler(a.log)
	a.Echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	a.Echo.Use(gateway.RequestLogger(a.log))
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(gateway.SecurityHeaders()...)
}

func (a *App) RegisterRoutes(proxy []echo.MiddlewareFunc) {
	a.Echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	a.Echo.GET("/metrics", a.Metrics.Handler())

	chain := append([]echo.MiddlewareFunc{a.Metrics.Middleware(), gateway.RateLimit(a.Limiter)}, proxy...)
	a.Echo.Group(gateway.ProxyPrefix, chain...)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context, port string) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", port).Msg("Gateway listening")
		errCh <- a.Echo.Start(":" + port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.log.Info().Msg("Shutting down gateway")
		return a.Echo.Shutdown(context.Background())
	}
}
