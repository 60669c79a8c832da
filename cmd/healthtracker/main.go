package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/api"
	"github.com/dinraj910/Health-Tracker-App/internal/cache"
	"github.com/dinraj910/Health-Tracker-App/internal/cli"
	"github.com/dinraj910/Health-Tracker-App/internal/config"
	"github.com/dinraj910/Health-Tracker-App/internal/db"
	"github.com/dinraj910/Health-Tracker-App/internal/logging"
	"github.com/dinraj910/Health-Tracker-App/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceName = "healthtracker"

func main() {
	configPath := flag.String("config", os.Getenv("HEALTHTRACKER_CONFIG"), "path to a YAML config file")
	flag.Parse()

	var err error
	switch flag.Arg(0) {
	case "", "serve":
		err = run(*configPath)
	case "reset-password":
		err = resetPassword(*configPath, flag.Arg(1))
	default:
		err = fmt.Errorf("unknown command %q (want serve or reset-password <email>)", flag.Arg(0))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, serviceName)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	location := cfg.Location()
	time.Local = location

	database, err := db.OpenSQLite(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	analyticsMetrics, err := metrics.NewAnalytics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	summaryCache := cache.New(cache.Options{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
		TTL:      cfg.Cache.DashboardTTL,
	}, logger)
	defer func() { _ = summaryCache.Close() }()

	handler, err := api.NewHandler(database, handlerConfig(cfg, logger, analyticsMetrics, summaryCache))
	if err != nil {
		return fmt.Errorf("init handler: %w", err)
	}

	app := newApp(handler, logger)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("health tracker listening",
		zap.String("address", cfg.ListenAddress()),
		zap.String("db", cfg.Database.Path),
		zap.String("tz", location.String()),
		zap.Bool("cache", summaryCache.Enabled()),
	)
	if err := app.Listen(cfg.ListenAddress()); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func resetPassword(configPath string, email string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	database, err := db.OpenSQLite(cfg.Database.Path, zap.NewNop())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	return cli.RunResetPasswordCommand(context.Background(), database, email, os.Stdout)
}

func handlerConfig(cfg *config.Config, logger *zap.Logger, analyticsMetrics *metrics.Analytics, summaryCache *cache.SummaryCache) api.HandlerConfig {
	return api.HandlerConfig{
		SecretKey:      cfg.Auth.SecretKey,
		TokenTTL:       cfg.Auth.TokenTTL,
		CookieSecure:   cfg.Server.CookieSecure,
		RequestTimeout: cfg.Server.RequestTimeout,
		Location:       cfg.Location(),
		Analytics: api.AnalyticsLimits{
			StreakCap:            cfg.Analytics.StreakCap,
			DefaultAdherenceDays: cfg.Analytics.DefaultAdherenceDays,
			DefaultTrendDays:     cfg.Analytics.DefaultTrendDays,
			MaxWindowDays:        cfg.Analytics.MaxWindowDays,
			RateLimitRPS:         cfg.Analytics.RateLimitRPS,
			RateLimitBurst:       cfg.Analytics.RateLimitBurst,
		},
		Logger:  logger,
		Metrics: analyticsMetrics,
		Cache:   summaryCache,
	}
}

func newApp(handler *api.Handler, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Health Tracker",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(api.RequestLogger(logger))
	app.Use(compress.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	api.RegisterRoutes(app, handler)
	return app
}
