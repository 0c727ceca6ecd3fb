package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"sync"
	"time"

	"github.com/jonathan/profile-report/internal/logging"
	"github.com/jonathan/profile-report/internal/snapshot"
	"github.com/jonathan/profile-report/internal/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

// Exporter runs the snapshot, capture, paginate, assemble and deliver pipeline.
type Exporter struct {
	Rasterizer Rasterizer
	Sink       Sink
	Scale      float64
	Layout     Layout

	inFlight sync.Map // *html.Node -> struct{}
}

// New creates an Exporter with the default scale and letter layout.
func New(r Rasterizer, sink Sink) *Exporter {
	return &Exporter{
		Rasterizer: r,
		Sink:       sink,
		Scale:      types.DefaultExportScale,
		Layout:     Letter,
	}
}

// Export renders root to filename through the configured Sink.
func (e *Exporter) Export(ctx context.Context, root *html.Node, filename string) error {
	return e.ExportTo(ctx, root, filename, e.Sink)
}

// ExportTo renders root to filename through sink. The subtree's inline styles
// are neutralized for the capture and restored before ExportTo returns,
// whether or not the export succeeds.
func (e *Exporter) ExportTo(ctx context.Context, root *html.Node, filename string, sink Sink) error {
	return e.ExportLocked(ctx, root, filename, sink, nil)
}

// ExportLocked is ExportTo holding lock for the duration of the export. The
// in-flight check runs before the lock is taken, so a second export of the
// same root fails fast instead of queueing behind the first.
func (e *Exporter) ExportLocked(ctx context.Context, root *html.Node, filename string, sink Sink, lock sync.Locker) error {
	if root == nil {
		return &Error{Stage: StageValidate, Cause: ErrNoRoot}
	}
	if sink == nil {
		return &Error{Stage: StageValidate, Cause: fmt.Errorf("no sink configured")}
	}

	opts := types.ExportOptions{Filename: filename, Scale: e.scale()}
	if opts.Filename == "" {
		opts.Filename = types.DefaultExportFilename
	}
	if verr := opts.Validate(); verr != nil {
		return &Error{Stage: StageValidate, Cause: verr}
	}

	if _, busy := e.inFlight.LoadOrStore(root, struct{}{}); busy {
		return ErrExportInProgress
	}
	defer e.inFlight.Delete(root)

	if lock != nil {
		lock.Lock()
		defer lock.Unlock()
	}

	log := logging.L().WithFields(logrus.Fields{
		"filename": opts.Filename,
		"scale":    opts.Scale,
	})
	start := time.Now()

	snap := snapshot.Begin(root)
	defer snap.End()
	log.WithField("nodes", snap.Len()).Debug("styles neutralized for export")

	pdf, err := e.produce(ctx, root, opts.Scale)
	if err != nil {
		log.WithError(err).Warn("export failed")
		return err
	}

	if err := sink.Deliver(ctx, opts.Filename, pdf); err != nil {
		log.WithError(err).Warn("export delivery failed")
		return stageError(StageDeliver, err)
	}

	log.WithFields(logrus.Fields{
		"bytes":    len(pdf),
		"duration": time.Since(start).String(),
	}).Info("report exported")
	return nil
}

// produce builds the PDF bytes while the snapshot is held.
func (e *Exporter) produce(ctx context.Context, root *html.Node, scale float64) ([]byte, error) {
	layout := e.layout()

	doc, err := standaloneDocument(root, layout.ViewportWidth())
	if err != nil {
		return nil, stageError(StageSerialize, err)
	}

	raw, err := e.capture(ctx, doc, CaptureOptions{Width: layout.ViewportWidth(), Scale: scale})
	if err != nil {
		return nil, stageError(StageCapture, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, stageError(StageCapture, err)
	}

	raster, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, stageError(StageCapture, fmt.Errorf("failed to decode raster: %w", err))
	}

	pages, err := Paginate(raster, layout)
	if err != nil {
		return nil, stageError(StagePaginate, err)
	}
	encoded, err := encodePages(pages)
	if err != nil {
		return nil, stageError(StagePaginate, err)
	}

	pdf, err := BuildPDF(encoded, layout)
	if err != nil {
		return nil, stageError(StageAssemble, err)
	}
	return pdf, nil
}

// capture calls the rasterizer and turns a panic into an error.
func (e *Exporter) capture(ctx context.Context, doc string, opts CaptureOptions) (out []byte, err error) {
	if e.Rasterizer == nil {
		return nil, fmt.Errorf("no rasterizer configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rasterizer panicked: %v", r)
		}
	}()
	return e.Rasterizer.Capture(ctx, doc, opts)
}

func (e *Exporter) scale() float64 {
	if e.Scale <= 0 {
		return types.DefaultExportScale
	}
	return e.Scale
}

func (e *Exporter) layout() Layout {
	if e.Layout.PageWidth <= 0 || e.Layout.PageHeight <= 0 {
		return Letter
	}
	return e.Layout
}
