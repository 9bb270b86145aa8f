package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/divizend/dreaming/db"
	"github.com/divizend/dreaming/internal/config"
	"github.com/divizend/dreaming/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfg         *config.Config
	port        string
	databaseURL string

	rootCmd = &cobra.Command{
		Use:          "dreaming",
		Short:        "Collaborative budgeting server for dreaming.now",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				slog.Debug("No .env file loaded", "error", err)
			}

			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}

			if port != "" {
				cfg.Port = port
			}
			if databaseURL != "" {
				cfg.DatabaseURL = databaseURL
			}

			logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE:  runMigrate,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "database DSN, overrides DATABASE_URL (prefix with sqlite: for SQLite)")
	serveCmd.Flags().StringVar(&port, "port", "", "listen port, overrides PORT")

	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// connect opens the configured database and brings the schema up to date.
func connect() error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	if err := db.ConnectDatabase(cfg.DatabaseURL, logging.GormLevel(cfg.LogLevel)); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	return nil
}
