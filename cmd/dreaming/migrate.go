package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func runMigrate(cmd *cobra.Command, args []string) error {
	if err := connect(); err != nil {
		return err
	}

	slog.Info("Database schema is up to date")
	return nil
}
