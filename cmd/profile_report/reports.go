package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/profile-report/internal/db"
	"github.com/jonathan/profile-report/internal/observability"
	"github.com/spf13/cobra"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List archived reports",
	RunE:  runReports,
}

var (
	reportsLimit int
	reportsJSON  string
)

func init() {
	reportsCmd.Flags().IntVarP(&reportsLimit, "limit", "n", db.DefaultListLimit, "Maximum reports to list")
	reportsCmd.Flags().StringVar(&reportsJSON, "json", "", "Also write the listing as JSON to this file")
	rootCmd.AddCommand(reportsCmd)
}

func runReports(cmd *cobra.Command, _ []string) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	list, err := database.ListReports(ctx, reportsLimit)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintReportList(list)
	if reportsJSON != "" {
		return writeJSON(reportsJSON, list)
	}
	return nil
}
