package export

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/jonathan/profile-report/internal/logging"
	"github.com/sirupsen/logrus"
)

// CaptureOptions controls a single rasterization
type CaptureOptions struct {
	// Width is the CSS viewport width in pixels
	Width int
	// Scale is the device scale factor
	Scale float64
}

// Rasterizer renders a standalone HTML document into one PNG image.
type Rasterizer interface {
	Capture(ctx context.Context, document string, opts CaptureOptions) ([]byte, error)
}

// RasterizerFunc adapts a function to the Rasterizer interface
type RasterizerFunc func(ctx context.Context, document string, opts CaptureOptions) ([]byte, error)

// Capture calls f.
func (f RasterizerFunc) Capture(ctx context.Context, document string, opts CaptureOptions) ([]byte, error) {
	return f(ctx, document, opts)
}

// ChromeRasterizer captures documents with headless Chrome.
// Requires Chrome/Chromium to be installed on the system.
type ChromeRasterizer struct {
	// ExecPath overrides the browser binary; empty means autodetect
	ExecPath string
	Timeout  time.Duration
}

// DefaultChromeTimeout bounds a single capture
const DefaultChromeTimeout = 60 * time.Second

// Capture loads document into a blank tab sized to opts and takes a
// full-page lossless screenshot.
func (c *ChromeRasterizer) Capture(ctx context.Context, document string, opts CaptureOptions) ([]byte, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultChromeTimeout
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if c.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	logging.L().WithFields(logrus.Fields{
		"width": opts.Width,
		"scale": opts.Scale,
		"bytes": len(document),
	}).Debug("capturing report in headless browser")

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(opts.Width), 1, chromedp.EmulateScale(opts.Scale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, document).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// quality 100 selects PNG
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("browser capture failed: %w", err)
	}

	return buf, nil
}
