package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/profile-report/internal/analysis"
	"github.com/jonathan/profile-report/internal/db"
	"github.com/jonathan/profile-report/internal/export"
	"github.com/jonathan/profile-report/internal/rendering"
	"github.com/jonathan/profile-report/internal/types"
)

// maxJSONBody bounds POST /reports payloads
const maxJSONBody = 1 << 20

// ReportCreated is the response body for report creation
type ReportCreated struct {
	ID        uuid.UUID          `json:"id"`
	Score     int                `json:"score"`
	Meta      *types.ProfileMeta `json:"meta,omitempty"`
	ViewURL   string             `json:"view_url"`
	ExportURL string             `json:"export_url"`
}

// ReportResult is the JSON form of a stored report
type ReportResult struct {
	ID          uuid.UUID             `json:"id"`
	Suggestions *types.AnalysisResult `json:"suggestions"`
	Meta        *types.ProfileMeta    `json:"meta,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

// handleCreateReport accepts a bare AnalysisResult or the service envelope.
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	req, err := decodeCreateRequest(body)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	s.createReport(w, r, req.Suggestions, req.Meta)
}

func decodeCreateRequest(body []byte) (*types.CreateReportRequest, error) {
	var req types.CreateReportRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}

	// bare result: no envelope
	if req.Suggestions == nil {
		var result types.AnalysisResult
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, &ErrValidation{Field: "body", Message: "invalid analysis result"}
		}
		req.Suggestions = &result
	}

	if err := req.Validate(); err != nil {
		return nil, &ErrValidation{Field: "suggestions", Message: err.Error()}
	}
	return &req, nil
}

// handleUploadReport forwards the uploaded PDF to the analysis service and
// renders the result.
func (s *Server) handleUploadReport(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "analysis service not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, analysis.MaxUploadSize+maxJSONBody)
	file, header, err := r.FormFile(analysis.UploadField)
	if err != nil {
		s.failRequest(w, r, &ErrValidation{Field: analysis.UploadField, Message: "No file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.failRequest(w, r, &ErrValidation{Field: analysis.UploadField, Message: "failed to read upload"})
		return
	}

	resp, err := s.analyzer.Upload(r.Context(), header.Filename, data)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	s.createReport(w, r, resp.Suggestions, resp.Meta)
}

func (s *Server) createReport(w http.ResponseWriter, r *http.Request, result *types.AnalysisResult, meta *types.ProfileMeta) {
	if result == nil {
		result = &types.AnalysisResult{}
	}

	report, err := rendering.Render(uuid.New(), *result, meta)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}
	s.reports.put(report)

	if s.archive != nil {
		rec := &db.Report{ID: report.ID, Result: report.Result, Meta: meta, CreatedAt: report.CreatedAt}
		if err := s.archive.SaveReport(r.Context(), rec); err != nil {
			requestLogger(r).WithError(err).WithField("report_id", report.ID).Warn("failed to archive report")
		}
	}

	requestLogger(r).WithField("report_id", report.ID).Info("report created")
	s.jsonResponse(w, http.StatusCreated, ReportCreated{
		ID:        report.ID,
		Score:     report.Result.OverallScore,
		Meta:      meta,
		ViewURL:   "/reports/" + report.ID.String(),
		ExportURL: "/reports/" + report.ID.String() + "/export",
	})
}

// handleListReports lists archived reports, or live ones without an archive.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.failRequest(w, r, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
		limit = n
	}

	if s.archive != nil {
		list, err := s.archive.ListReports(r.Context(), limit)
		if err != nil {
			s.failRequest(w, r, err)
			return
		}
		if list == nil {
			list = []types.ReportSummary{}
		}
		s.jsonResponse(w, http.StatusOK, list)
		return
	}

	list := s.reports.summaries()
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	s.jsonResponse(w, http.StatusOK, list)
}

// handleGetReport serves the live HTML view.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.lookup(r.Context(), r.PathValue("id"))
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	out, err := report.HTML()
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, out)
}

// handleGauge serves the radial gauge as PNG. ?scale= selects the pixel density.
func (s *Server) handleGauge(w http.ResponseWriter, r *http.Request) {
	report, err := s.lookup(r.Context(), r.PathValue("id"))
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	scale := 1.0
	if v := r.URL.Query().Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 1 || f > 4 {
			s.failRequest(w, r, &ErrValidation{Field: "scale", Message: "must be between 1 and 4"})
			return
		}
		scale = f
	}

	png, err := report.Gauge(scale)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// handleResult returns the analysis result behind a report.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	report, err := s.lookup(r.Context(), r.PathValue("id"))
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	result := report.Result
	s.jsonResponse(w, http.StatusOK, ReportResult{
		ID:          report.ID,
		Suggestions: &result,
		Meta:        report.Meta,
		CreatedAt:   report.CreatedAt,
	})
}

// handleExport renders the report to PDF and streams it as an attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	report, err := s.lookup(r.Context(), r.PathValue("id"))
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	opts := types.DefaultExportOptions()
	if name := r.URL.Query().Get("filename"); name != "" {
		opts.Filename = name
	}
	if err := opts.Validate(); err != nil {
		s.failRequest(w, r, &ErrValidation{Field: "filename", Message: err.Error()})
		return
	}

	// the sink only writes once the PDF is complete, so failures can still
	// be reported as JSON
	sink := &export.WriterSink{W: w}
	err = s.exporter.ExportLocked(r.Context(), report.Root(), opts.Filename, sink, report.ExportLock())
	if err != nil {
		var e *export.Error
		if errors.As(err, &e) && e.Stage == export.StageDeliver {
			requestLogger(r).WithError(err).Warn("client went away during PDF delivery")
			return
		}
		s.failRequest(w, r, err)
		return
	}

	if s.archive != nil {
		if err := s.archive.MarkExported(r.Context(), report.ID, opts.Filename); err != nil {
			requestLogger(r).WithError(err).WithField("report_id", report.ID).Warn("failed to record export")
		}
	}
}

// lookup finds a live report, falling back to re-rendering an archived one.
func (s *Server) lookup(ctx context.Context, rawID string) (*rendering.Report, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, &ErrValidation{Field: "id", Message: "invalid report ID"}
	}

	if report, ok := s.reports.get(id); ok {
		return report, nil
	}
	if s.archive == nil {
		return nil, &ErrReportNotFound{ID: id}
	}

	rec, err := s.archive.GetReport(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	if rec == nil {
		return nil, &ErrReportNotFound{ID: id}
	}

	report, err := rendering.Render(rec.ID, rec.Result, rec.Meta)
	if err != nil {
		return nil, err
	}
	report.CreatedAt = rec.CreatedAt
	return s.reports.putIfAbsent(report), nil
}
