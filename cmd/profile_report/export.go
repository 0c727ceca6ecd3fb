package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/profile-report/internal/export"
	"github.com/jonathan/profile-report/internal/logging"
	"github.com/jonathan/profile-report/internal/observability"
	"github.com/jonathan/profile-report/internal/rendering"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var exportCmd = &cobra.Command{
	Use:   "export <result> [result...]",
	Short: "Export analysis results to letter-size PDFs",
	Long: `Renders each analysis result and exports it through a headless browser into a paginated PDF.

A single input is written under --filename (default linkedin_report.pdf); several inputs are
named after their source files, and inputs that would share a name are rejected. Requires Chrome or Chromium (set CHROME_PATH if not on PATH).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

var (
	exportOutDir      string
	exportFilename    string
	exportScale       float64
	exportConcurrency int
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutDir, "out-dir", "d", "", "Output directory (defaults to config output_dir)")
	exportCmd.Flags().StringVarP(&exportFilename, "filename", "f", "", "Output filename for a single input")
	exportCmd.Flags().Float64Var(&exportScale, "scale", 0, "Capture scale factor (1-4)")
	exportCmd.Flags().IntVarP(&exportConcurrency, "concurrency", "c", 2, "Maximum concurrent browser captures")
	rootCmd.AddCommand(exportCmd)
}

// exportName picks the PDF filename for input.
func exportName(input string, single bool) string {
	if single {
		if exportFilename != "" {
			return exportFilename
		}
		return cfg.Filename
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
}

// exportNames maps each input to its PDF filename. Two inputs that would
// write the same file are rejected before any export starts.
func exportNames(inputs []string) ([]string, error) {
	single := len(inputs) == 1
	if !single && exportFilename != "" {
		return nil, fmt.Errorf("--filename only applies to a single input, got %d", len(inputs))
	}

	names := make([]string, len(inputs))
	owner := make(map[string]string, len(inputs))
	for i, input := range inputs {
		name := exportName(input, single)
		if prev, ok := owner[name]; ok {
			return nil, fmt.Errorf("%s and %s would both be exported as %s", prev, input, name)
		}
		owner[name] = input
		names[i] = name
	}
	return names, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	outDir := exportOutDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	if exportScale != 0 {
		cfg.Scale = exportScale
	}
	if exportConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}
	names, err := exportNames(args)
	if err != nil {
		return err
	}

	exp := newExporter(outDir)
	printer := observability.NewPrinter(os.Stdout)
	var printMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)

	for i, input := range args {
		name := names[i]
		g.Go(func() error {
			log := logging.L().WithFields(logrus.Fields{"input": input, "file": name})

			result, meta, err := readResult(input)
			if err != nil {
				return err
			}
			report, err := rendering.Render(uuid.New(), *result, meta)
			if err != nil {
				return err
			}

			log.Info("exporting report")
			if err := exp.Export(ctx, report.Root(), name); err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}

			printMu.Lock()
			defer printMu.Unlock()
			return printExported(printer, filepath.Join(outDir, name))
		})
	}
	return g.Wait()
}

// printExported reports the page count and size of the PDF at path.
func printExported(printer *observability.Printer, path string) error {
	pdf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read exported PDF: %w", err)
	}
	pages, err := export.PageCount(pdf)
	if err != nil {
		return err
	}
	printer.PrintExport(path, pages, len(pdf))
	return nil
}
