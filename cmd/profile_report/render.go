package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/profile-report/internal/observability"
	"github.com/jonathan/profile-report/internal/rendering"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a saved analysis result as an HTML report",
	Long:  "Reads an analysis result (service JSON, bare JSON, or the service's plain-text feedback) and writes the HTML report.",
	RunE:  runRender,
}

var (
	renderIn    string
	renderOut   string
	renderQuiet bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderIn, "in", "i", "", "Path to the analysis result (required)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Path to the HTML output (required)")
	renderCmd.Flags().BoolVarP(&renderQuiet, "quiet", "q", false, "Do not print the report summary")

	_ = renderCmd.MarkFlagRequired("in")
	_ = renderCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, _ []string) error {
	result, meta, err := readResult(renderIn)
	if err != nil {
		return err
	}

	report, err := rendering.Render(uuid.New(), *result, meta)
	if err != nil {
		return err
	}

	out, err := report.HTML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(renderOut, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", renderOut, err)
	}

	if !renderQuiet {
		observability.NewPrinter(os.Stdout).PrintReport(result, meta)
	}
	return nil
}
