package main

import (
	"ctchen222/Todo-List/internal/config"
	"ctchen222/Todo-List/internal/db"
	"ctchen222/Todo-List/internal/logger"
	"log/slog"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema and exit",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.Env)

	conn, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.InitializeDB(ctx, conn); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Schema is up to date", "database", cfg.Database.URL)
	return nil
}
