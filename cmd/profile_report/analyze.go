package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jonathan/profile-report/internal/analysis"
	"github.com/jonathan/profile-report/internal/logging"
	"github.com/jonathan/profile-report/internal/observability"
	"github.com/jonathan/profile-report/internal/rendering"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <profile.pdf>",
	Short: "Upload a LinkedIn profile PDF for analysis",
	Long:  "Sends the PDF to the analysis service, prints the scored feedback and optionally saves the result, the HTML report and a PDF export.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeOut    string
	analyzeHTML   string
	analyzeExport bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the analysis response JSON to this file")
	analyzeCmd.Flags().StringVar(&analyzeHTML, "html", "", "Write the rendered HTML report to this file")
	analyzeCmd.Flags().BoolVar(&analyzeExport, "export", false, "Also export the report to PDF in the configured output directory")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client := analysis.NewClient(cfg.APIBaseURL)
	logging.L().WithField("api", cfg.APIBaseURL).Debug("uploading profile")

	resp, err := client.UploadFile(ctx, args[0])
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintReport(resp.Suggestions, resp.Meta)

	if analyzeOut != "" {
		if err := writeJSON(analyzeOut, resp); err != nil {
			return err
		}
	}

	if analyzeHTML == "" && !analyzeExport {
		return nil
	}

	report, err := rendering.Render(uuid.New(), *resp.Suggestions, resp.Meta)
	if err != nil {
		return err
	}

	if analyzeHTML != "" {
		out, err := report.HTML()
		if err != nil {
			return err
		}
		if err := os.WriteFile(analyzeHTML, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", analyzeHTML, err)
		}
	}

	if analyzeExport {
		exp := newExporter(cfg.OutputDir)
		if err := exp.Export(ctx, report.Root(), cfg.Filename); err != nil {
			return err
		}
		return printExported(printer, filepath.Join(cfg.OutputDir, cfg.Filename))
	}
	return nil
}
