package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"bloglist-backend/internal/config"
	"bloglist-backend/internal/infrastructure/database"
	"bloglist-backend/internal/infrastructure/sqlstore"
	"bloglist-backend/pkg/logger"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(migrateUpCmd(), migrateStatusCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if cfg.Store.Driver == config.DriverSQLite {
				// Open applies the schema.
				db, err := sqlstore.Open(cfg.Store.SQLitePath)
				if err != nil {
					return err
				}
				defer db.Close()

				v, err := sqlstore.SchemaVersion(db)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sqlite schema at version %d\n", v)
				return nil
			}

			db, err := connectPostgres(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if cfg.Store.Driver == config.DriverSQLite {
				db, err := sqlstore.Open(cfg.Store.SQLitePath)
				if err != nil {
					return err
				}
				defer db.Close()

				v, err := sqlstore.SchemaVersion(db)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sqlite schema version %d of %d\n", v, sqlstore.LatestVersion())
				return nil
			}

			db, err := connectPostgres(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			return db.MigrationStatus(ctx)
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.App.Environment)
	return cfg, nil
}

func connectPostgres(ctx context.Context, cfg *config.Config) (*database.PostgresDB, error) {
	db := database.NewPostgresDB(cfg.DBConfig())
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return db, nil
}
