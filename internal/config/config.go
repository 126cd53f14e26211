package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/2beens/workouts/pkg"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPort              = 3000
	DefaultWeeklyGoalMinutes = 150
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// postgres; DatabaseURL wins over the separate fields when set
	DatabaseURL    string `toml:"database_url"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresUser   string `toml:"postgres_user"`
	PostgresDBName string `toml:"postgres_db_name"`
	AutoMigrate    bool   `toml:"auto_migrate"`
	// redis, only used for rate limiting mutations; empty host disables it
	RedisHost       string `toml:"redis_host"`
	RedisPort       string `toml:"redis_port"`
	RateLimitPerMin int    `toml:"rate_limit_per_min"`
	// workouts
	WeeklyGoalMinutes int `toml:"weekly_goal_minutes"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Default is used when no config file is present.
func Default() *Config {
	return &Config{
		Environment:           "development",
		Host:                  "",
		Port:                  DefaultPort,
		LogLevel:              "debug",
		LogToStdout:           true,
		PrometheusMetricsHost: "localhost",
		PrometheusMetricsPort: "2112",
		PostgresHost:          "localhost",
		PostgresPort:          "5432",
		PostgresUser:          "postgres",
		PostgresDBName:        "workouts",
		WeeklyGoalMinutes:     DefaultWeeklyGoalMinutes,
	}
}

// Load reads the env section of the TOML file at path (defaults if the file is missing),
// then applies the environment variable overrides.
func Load(env, path string) (*Config, error) {
	cfg, err := loadFile(env, path)
	if err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}
	if cfg.WeeklyGoalMinutes <= 0 {
		cfg.WeeklyGoalMinutes = DefaultWeeklyGoalMinutes
	}
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}

	return cfg, nil
}

func loadFile(env, path string) (*Config, error) {
	exists, err := pkg.PathExists(path, false)
	if err != nil {
		return nil, fmt.Errorf("check config file: %w", err)
	}
	if !exists {
		return Default(), nil
	}

	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] not found in %s", env, path)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT [%s]: %w", port, err)
		}
		cfg.Port = p
	}

	if goal := os.Getenv("WEEKLY_GOAL_MINUTES"); goal != "" {
		g, err := strconv.Atoi(goal)
		if err != nil {
			return fmt.Errorf("invalid WEEKLY_GOAL_MINUTES [%s]: %w", goal, err)
		}
		cfg.WeeklyGoalMinutes = g
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	return nil
}
