// Package main provides the profile_report CLI and HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/profile-report/internal/config"
	"github.com/jonathan/profile-report/internal/logging"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	verbose    bool

	// cfg is resolved once per invocation before any subcommand runs
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "profile_report",
	Short: "LinkedIn profile analysis reports",
	Long:  "Uploads LinkedIn profile PDFs to the analysis service, renders the feedback as a scored report and exports it to a paginated letter-size PDF.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		if verbose {
			loaded.Verbose = true
			loaded.LogLevel = "debug"
		}
		cfg = loaded
		return logging.Init(cfg.LogLevel, cfg.LogFile)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
