package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/profile-report/internal/logging"
	"github.com/jonathan/profile-report/internal/schemas"
	"github.com/jonathan/profile-report/internal/types"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// DefaultTimeout is the default analysis request timeout.
const DefaultTimeout = 2 * time.Minute

// UploadField is the multipart field carrying the PDF
const UploadField = "pdf"

// MaxUploadSize bounds the PDF accepted for upload (10 MiB)
const MaxUploadSize = 10 << 20

// ErrNotPDF is returned when the upload is not a readable PDF
var ErrNotPDF = errors.New("file is not a valid PDF")

// Client calls the analysis service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the service rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// UploadFile reads a PDF from disk and uploads it.
func (c *Client) UploadFile(ctx context.Context, path string) (*types.UploadResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return c.Upload(ctx, filepath.Base(path), data)
}

// Upload sends one PDF to {base}/upload and returns the decoded response.
// Missing suggestion keys come back as empty sections.
func (c *Client) Upload(ctx context.Context, filename string, pdf []byte) (*types.UploadResponse, error) {
	endpoint, err := c.endpoint("upload")
	if err != nil {
		return nil, err
	}

	if err := CheckPDF(pdf); err != nil {
		return nil, &Error{URL: endpoint, Message: "refusing to upload", Cause: err}
	}

	body, contentType, err := multipartBody(filename, pdf)
	if err != nil {
		return nil, &Error{URL: endpoint, Message: "failed to build request body", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, &Error{URL: endpoint, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	log := logging.L().WithField("url", endpoint)
	log.WithField("bytes", len(pdf)).Info("uploading profile for analysis")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &Error{URL: endpoint, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: endpoint, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	var decoded types.UploadResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := "analysis service returned an error"
		if decodeErr == nil && decoded.Error != "" {
			msg = decoded.Error
		}
		return nil, &Error{URL: endpoint, StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, &Error{URL: endpoint, StatusCode: resp.StatusCode, Message: "failed to decode response", Cause: decodeErr}
	}
	if decoded.Error != "" {
		return nil, &Error{URL: endpoint, StatusCode: resp.StatusCode, Message: decoded.Error}
	}

	if err := schemas.Validate(schemas.AnalysisResponse, raw); err != nil {
		log.WithError(err).Warn("analysis response does not match schema, treating unknown fields as absent")
	}

	if decoded.Suggestions == nil {
		decoded.Suggestions = &types.AnalysisResult{}
	}

	log.WithField("overall_score", decoded.Suggestions.OverallScore).Info("analysis received")
	return &decoded, nil
}

func (c *Client) endpoint(path string) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", &Error{URL: c.BaseURL, Message: "invalid analysis service URL", Cause: err}
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + path, nil
}

// CheckPDF verifies data is a readable, non-empty PDF within MaxUploadSize.
func CheckPDF(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty file", ErrNotPDF)
	}
	if len(data) > MaxUploadSize {
		return fmt.Errorf("%w: file exceeds %d bytes", ErrNotPDF, MaxUploadSize)
	}
	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	if pages == 0 {
		return fmt.Errorf("%w: no pages", ErrNotPDF)
	}
	return nil
}

func multipartBody(filename string, pdf []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(UploadField, filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(pdf); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
