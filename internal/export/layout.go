package export

// CSSPixelsPerInch is the CSS reference resolution
const CSSPixelsPerInch = 96

// Layout describes the printed page geometry in inches
type Layout struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
}

// Letter is US-letter portrait with half-inch margins.
var Letter = Layout{PageWidth: 8.5, PageHeight: 11, Margin: 0.5}

// ContentWidth is the printable width in inches.
func (l Layout) ContentWidth() float64 {
	return l.PageWidth - 2*l.Margin
}

// ContentHeight is the printable height in inches.
func (l Layout) ContentHeight() float64 {
	return l.PageHeight - 2*l.Margin
}

// ViewportWidth is the CSS width the report is laid out at so one raster
// column maps onto the printable width.
func (l Layout) ViewportWidth() int {
	return int(l.ContentWidth() * CSSPixelsPerInch)
}

// PageAspect is content height over content width.
func (l Layout) PageAspect() float64 {
	return l.ContentHeight() / l.ContentWidth()
}

// FitScale is the relative import scale that lands a content-sized image
// inside the margins. Page images are narrower than the paper, so the import
// fits them by height.
func (l Layout) FitScale() float64 {
	return l.ContentHeight() / l.PageHeight
}
