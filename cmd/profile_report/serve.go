package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/profile-report/internal/analysis"
	"github.com/jonathan/profile-report/internal/db"
	"github.com/jonathan/profile-report/internal/export"
	"github.com/jonathan/profile-report/internal/logging"
	"github.com/jonathan/profile-report/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the report HTTP server",
	Long:  `Start an HTTP server that accepts analysis results or profile uploads, serves the rendered reports and exports them to PDF. Reports are archived in PostgreSQL when DATABASE_URL is set.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to config port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	port := cfg.Port
	if servePort != 0 {
		port = servePort
	}

	srvCfg := server.Config{
		Port:     port,
		Analyzer: analysis.NewClient(cfg.APIBaseURL),
		Exporter: export.New(&export.ChromeRasterizer{
			ExecPath: cfg.ChromePath,
			Timeout:  time.Duration(cfg.ChromeTimeout) * time.Second,
		}, nil),
	}
	if cfg.Scale > 0 {
		srvCfg.Exporter.Scale = cfg.Scale
	}

	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		if err := database.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to prepare database: %w", err)
		}
		srvCfg.Archive = database
	} else {
		logging.L().Warn("DATABASE_URL not set; reports live only in memory")
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
