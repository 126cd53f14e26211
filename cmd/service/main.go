package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/workouts/internal"
	"github.com/2beens/workouts/internal/config"
	"github.com/2beens/workouts/internal/logging"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// secrets are never kept in the TOML config
type secrets struct {
	sentryDSN        string
	redisPassword    string
	honeycombEnabled bool
}

func secretsFromEnv() secrets {
	return secrets{
		sentryDSN:        os.Getenv("SENTRY_DSN"),
		redisPassword:    os.Getenv("WORKOUTS_REDIS_PASS"),
		honeycombEnabled: os.Getenv("HONEYCOMB_ENABLED") == "true",
	}
}

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Errorf("load .env file: %s", err)
	}

	if err := run(*env, *configPath, secretsFromEnv()); err != nil {
		log.Fatalf("workouts service: %s", err)
	}
}

func run(env, configPath string, sec secrets) error {
	log.Infof("workouts service starting in [%s] environment", env)

	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sec.sentryDSN,
		SentryServerName: "workouts-service",
	}); err != nil {
		log.Errorf("logging setup: %s", err)
	}

	log.Debugf("port: %d, weekly goal: %d minutes, logs: [%s]", cfg.Port, cfg.WeeklyGoalMinutes, cfg.LogsPath)
	if cfg.RedisHost != "" && sec.redisPassword == "" {
		log.Warnln("rate limiting redis configured without a password, set WORKOUTS_REDIS_PASS")
	}
	if sec.honeycombEnabled && os.Getenv("HONEYCOMB_API_KEY") == "" {
		log.Warnln("honeycomb tracing enabled but HONEYCOMB_API_KEY is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := internal.NewServer(ctx, internal.NewServerParams{
		Config:                  cfg,
		RedisPassword:           sec.redisPassword,
		HoneycombTracingEnabled: sec.honeycombEnabled,
	})
	if err != nil {
		return fmt.Errorf("new server: %w", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	<-ctx.Done()
	log.Warnln("shutdown signal received")
	server.GracefulShutdown()

	return nil
}
