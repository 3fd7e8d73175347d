// Package cmd provides the cardledger CLI commands.
package cmd

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cardledger/cardledger/internal/config"
	"github.com/cardledger/cardledger/internal/database"
	"github.com/cardledger/cardledger/internal/normalize"
)

var (
	envFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "cardledger",
	Short: "Ingest and classify credit-card statement exports",
	Long: `cardledger ingests raw credit-card statement CSV exports, normalizes
and deduplicates them, classifies each transaction through the stored
rule set, and persists everything to Postgres.

Example:
  cardledger ingest --file chase_2025.csv --format chase --account "Chase Card"
  cardledger reclassify --from 2025-01-01
  cardledger stats --year 2025`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)

		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				slog.Warn("could not load env file", "path", envFile, "error", err)
			}
		} else {
			_ = godotenv.Load()
		}
	},
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(reclassifyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(migrateCmd)
}

// openDatabase loads config and connects. Callers own closing the handle.
func openDatabase() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, nil, err
	}

	return cfg, db, nil
}

// loadFormats builds the export format registry, including any extra
// formats configured via FORMATS_PATH.
func loadFormats(cfg *config.Config) (*normalize.Registry, error) {
	formats := normalize.NewRegistry()

	if cfg.FormatsPath != "" {
		if err := formats.LoadFile(cfg.FormatsPath); err != nil {
			return nil, err
		}
	}

	return formats, nil
}

func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		os.Exit(1)
	}
}
