package score

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/gofont/gobold"
)

// Gauge geometry at scale 1, matching the on-screen chart.
const (
	gaugeSize   = 200
	innerRadius = 60
	outerRadius = 80
	labelSize   = 20
)

// RemainderColor fills the unfilled part of the ring
var RemainderColor = colorful.Color{R: 0xe0 / 255.0, G: 0xe0 / 255.0, B: 0xe0 / 255.0}

// LabelColor is the color of the centered score label
var LabelColor = colorful.Color{R: 0x11 / 255.0, G: 0x11 / 255.0, B: 0x11 / 255.0}

var labelFont *truetype.Font

func init() {
	f, err := truetype.Parse(gobold.TTF)
	if err != nil {
		panic(fmt.Sprintf("failed to parse gauge font: %v", err))
	}
	labelFont = f
}

// GaugeOptions controls the output resolution of the gauge
type GaugeOptions struct {
	// Scale multiplies every dimension; 0 means 1.
	Scale float64
}

// RenderGauge draws the radial score gauge: a ring whose filled arc is
// Fraction(score) of the circle starting at 12 o'clock and running clockwise,
// filled with pair, with the score label centered.
func RenderGauge(score int, pair GradientPair, opts GaugeOptions) image.Image {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	size := int(math.Round(gaugeSize * scale))
	dc := gg.NewContext(size, size)

	cx, cy := float64(size)/2, float64(size)/2
	inner, outer := innerRadius*scale, outerRadius*scale

	start := -math.Pi / 2
	frac := Fraction(score)
	split := start + 2*math.Pi*frac
	end := start + 2*math.Pi

	if frac > 0 {
		grad := gg.NewLinearGradient(cx-outer, cy, cx+outer, cy)
		grad.AddColorStop(0, pair.Start)
		grad.AddColorStop(1, pair.End)
		ringSegment(dc, cx, cy, inner, outer, start, split)
		dc.SetFillStyle(grad)
		dc.Fill()
	}

	if frac < 1 {
		ringSegment(dc, cx, cy, inner, outer, split, end)
		dc.SetColor(RemainderColor)
		dc.Fill()
	}

	dc.SetFontFace(truetype.NewFace(labelFont, &truetype.Options{Size: labelSize * scale}))
	dc.SetColor(LabelColor)
	dc.DrawStringAnchored(Label(score), cx, cy, 0.5, 0.35)

	return dc.Image()
}

// Label is the text shown in the middle of the gauge.
func Label(score int) string {
	return fmt.Sprintf("%d%%", score)
}

// ringSegment traces the annulus sector between angles a0 and a1.
func ringSegment(dc *gg.Context, cx, cy, inner, outer, a0, a1 float64) {
	dc.NewSubPath()
	dc.DrawArc(cx, cy, outer, a0, a1)
	dc.DrawArc(cx, cy, inner, a1, a0)
	dc.ClosePath()
}

// EncodePNG serializes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode gauge: %w", err)
	}
	return buf.Bytes(), nil
}
