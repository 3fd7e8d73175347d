package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardledger/cardledger/internal/config"
	"github.com/cardledger/cardledger/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		exitOnError(err, "failed to load config")

		err = database.Migrate(cfg.ConnectionString(), cfg.MigrationsPath)
		exitOnError(err, "migration failed")

		fmt.Println("database schema is up to date")
	},
}
