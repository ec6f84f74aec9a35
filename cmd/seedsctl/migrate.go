package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Seeds/internal/config"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

// databaseFlags resolve the connection settings shared by commands that
// talk to PostgreSQL. The flag wins over SEEDS_DATABASE_URL.
type databaseFlags struct {
	url        string
	configPath string
}

func (f *databaseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "database-url", "", "PostgreSQL URL (default $SEEDS_DATABASE_URL)")
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to config file")
}

func (f *databaseFlags) load() (*config.Config, error) {
	if err := config.LoadDotEnv(""); err != nil {
		return nil, err
	}
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.url != "" {
		cfg.Database.URL = f.url
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("no database URL: pass --database-url or set SEEDS_DATABASE_URL")
	}
	return cfg, nil
}

func newMigrateCmd() *cobra.Command {
	var db databaseFlags

	cmd := &cobra.Command{
		Use:     "migrate",
		Short:   "Apply the embedded schema migrations",
		GroupID: "system",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := db.load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			s, err := store.NewPostgresStore(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer s.Close()

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			return s.Migrate(ctx, logger)
		},
	}
	db.register(cmd)
	return cmd
}
