package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jonathan/profile-report/internal/analysis"
	"github.com/jonathan/profile-report/internal/export"
	"github.com/jonathan/profile-report/internal/logging"
	"github.com/jonathan/profile-report/internal/schemas"
	"github.com/jonathan/profile-report/internal/types"
)

// readResult loads an analysis result from path. JSON files may hold the
// service envelope or a bare result; anything else is parsed as the
// service's plain-text feedback.
func readResult(path string) (*types.AnalysisResult, *types.ProfileMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "{") {
		result := analysis.ParseResponse(string(data))
		return &result, nil, nil
	}

	var envelope types.UploadResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if envelope.Error != "" {
		return nil, nil, fmt.Errorf("%s holds an analysis error: %s", path, envelope.Error)
	}
	if envelope.Suggestions != nil {
		warnSchema(path, schemas.AnalysisResponse, data)
		return envelope.Suggestions, envelope.Meta, nil
	}

	warnSchema(path, schemas.AnalysisResult, data)
	var result types.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &result, nil, nil
}

// warnSchema logs a schema mismatch. Fields of an unexpected shape decode as
// absent content, matching the analysis client.
func warnSchema(path, schema string, data []byte) {
	if err := schemas.Validate(schema, data); err != nil {
		logging.L().WithError(err).WithField("input", path).Warn("analysis result does not match schema")
	}
}

// writeJSON writes v to path, indented.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// newExporter builds a Chrome-backed exporter writing into outDir.
func newExporter(outDir string) *export.Exporter {
	r := &export.ChromeRasterizer{
		ExecPath: cfg.ChromePath,
		Timeout:  time.Duration(cfg.ChromeTimeout) * time.Second,
	}
	exp := export.New(r, &export.FileSink{Dir: outDir})
	if cfg.Scale > 0 {
		exp.Scale = cfg.Scale
	}
	return exp
}
