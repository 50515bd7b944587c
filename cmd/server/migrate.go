package main

import (
	"github.com/Vivek290100/CodeMaster/internal/platform/config"
	"github.com/Vivek290100/CodeMaster/internal/platform/database"
	"github.com/Vivek290100/CodeMaster/internal/platform/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the PostgreSQL tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log, err := logger.New(cfg.Env, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := database.Connect(cmd.Context(), cfg.DBConnStr, log)
		if err != nil {
			return err
		}
		defer database.Close(db, log)

		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		log.Info("database schema applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
