package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// Sink receives a finished PDF. Deliver is only called with complete bytes.
type Sink interface {
	Deliver(ctx context.Context, filename string, pdf []byte) error
}

// FileSink writes PDFs into Dir. The file appears atomically: bytes go to a
// temp file in the same directory which is renamed on success.
type FileSink struct {
	Dir string
}

// Deliver writes pdf to Dir/filename.
func (s *FileSink) Deliver(ctx context.Context, filename string, pdf []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(pdf); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close pdf: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(dir, filename)); err != nil {
		return fmt.Errorf("failed to move pdf into place: %w", err)
	}
	return nil
}

// Path returns where Deliver writes filename.
func (s *FileSink) Path(filename string) string {
	return filepath.Join(s.Dir, filename)
}

// WriterSink streams PDFs to an io.Writer. When the writer is an
// http.ResponseWriter the download headers are set first.
type WriterSink struct {
	W io.Writer
}

// Deliver writes pdf to the underlying writer.
func (s *WriterSink) Deliver(ctx context.Context, filename string, pdf []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if rw, ok := s.W.(http.ResponseWriter); ok {
		h := rw.Header()
		h.Set("Content-Type", "application/pdf")
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		h.Set("Content-Length", strconv.Itoa(len(pdf)))
	}

	if _, err := s.W.Write(pdf); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
