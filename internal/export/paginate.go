package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// ErrEmptyRaster is returned when the capture produced no pixels
var ErrEmptyRaster = errors.New("captured raster is empty")

// Paginate slices a full-length raster into page images whose aspect ratio
// matches the layout's content box. The last page is padded with white.
func Paginate(raster image.Image, layout Layout) ([]image.Image, error) {
	bounds := raster.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrEmptyRaster
	}

	pageW := bounds.Dx()
	pageH := int(math.Round(float64(pageW) * layout.PageAspect()))
	if pageH <= 0 {
		return nil, fmt.Errorf("invalid page height for layout %+v", layout)
	}

	count := (bounds.Dy() + pageH - 1) / pageH
	pages := make([]image.Image, 0, count)

	for i := 0; i < count; i++ {
		dc := gg.NewContext(pageW, pageH)
		dc.SetColor(color.White)
		dc.Clear()
		// pixels above the slice land at negative y and are clipped
		dc.DrawImage(raster, -bounds.Min.X, -bounds.Min.Y-i*pageH)
		pages = append(pages, dc.Image())
	}

	return pages, nil
}

// encodePages serializes page images as PNG.
func encodePages(pages []image.Image) ([][]byte, error) {
	out := make([][]byte, 0, len(pages))
	for i, p := range pages {
		dc := gg.NewContextForImage(p)
		var buf bytes.Buffer
		if err := dc.EncodePNG(&buf); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}
		out = append(out, buf.Bytes())
	}
	return out, nil
}
