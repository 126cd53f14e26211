package main

import (
	"context"
	"fmt"

	"github.com/2beens/workouts/internal/config"
	"github.com/2beens/workouts/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	env        string
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "workoutsctl",
		Short:         "Maintenance commands for the workouts database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			log.SetLevel(log.WarnLevel)
			if level, err := log.ParseLevel(opts.logLevel); err == nil {
				log.SetLevel(level)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(
		newMigrateCmd(opts),
		newExportCmd(opts),
		newWeekCmd(opts),
	)

	return rootCmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.Load(o.env, o.configPath)
}

func (o *rootOptions) openPool(ctx context.Context) (*pgxpool.Pool, *config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DatabaseURL: cfg.DatabaseURL,
		DBHost:      cfg.PostgresHost,
		DBPort:      cfg.PostgresPort,
		DBUser:      cfg.PostgresUser,
		DBName:      cfg.PostgresDBName,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, cfg, nil
}
