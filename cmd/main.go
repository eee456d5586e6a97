package main

import (
	"context"
	"fmt"
	"os"

	"clinic-scheduler/cmd/bootstrap"
	"clinic-scheduler/config"
	"clinic-scheduler/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:          "clinic",
		Short:        "Clinic appointment scheduling service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to the .env configuration file")

	load := func() (*config.Config, *logrus.Logger, error) {
		cfg, err := config.LoadConfig(envFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		log := bootstrap.NewLogger(cfg.App)
		log.Info("Configuration loaded successfully")
		return cfg, log, nil
	}

	root.AddCommand(serveCmd(load), migrateCmd(load))
	return root
}

type loader func() (*config.Config, *logrus.Logger, error)

func serveCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}

			app, err := bootstrap.New(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			return app.Run(cmd.Context())
		},
	}
}

func migrateCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	withMigrator := func(fn func(m *database.Migrator, log *logrus.Logger) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			m, err := database.NewMigrator(cfg.DB.URL(), log)
			if err != nil {
				return err
			}
			defer m.Close()
			return fn(m, log)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: withMigrator(func(m *database.Migrator, _ *logrus.Logger) error {
				return m.Up()
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: withMigrator(func(m *database.Migrator, _ *logrus.Logger) error {
				return m.Down()
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: withMigrator(func(m *database.Migrator, log *logrus.Logger) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Printf("version=%d dirty=%t\n", version, dirty)
				return nil
			}),
		},
	)

	return cmd
}
