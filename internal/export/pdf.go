package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ErrNoPages is returned when BuildPDF receives nothing to import
var ErrNoPages = errors.New("no pages to assemble")

// importDescription builds the pdfcpu import description for layout. Page images are
// centered and scaled relative to the paper so the margin stays blank.
func importDescription(layout Layout) string {
	return fmt.Sprintf("dim:%.2f %.2f, pos:c, sc:%.4f rel", layout.PageWidth, layout.PageHeight, layout.FitScale())
}

// BuildPDF assembles one PDF page per PNG image.
func BuildPDF(pages [][]byte, layout Layout) ([]byte, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	imp, err := api.Import(importDescription(layout), types.INCHES)
	if err != nil {
		return nil, fmt.Errorf("invalid import description: %w", err)
	}

	readers := make([]io.Reader, 0, len(pages))
	for _, p := range pages {
		readers = append(readers, bytes.NewReader(p))
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, imp, conf); err != nil {
		return nil, fmt.Errorf("failed to import page images: %w", err)
	}

	return out.Bytes(), nil
}

// PageCount reports the number of pages in a PDF.
func PageCount(pdf []byte) (int, error) {
	return api.PageCount(bytes.NewReader(pdf), nil)
}
