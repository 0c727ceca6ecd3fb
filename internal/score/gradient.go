// Package score maps an overall profile score to colors and draws the radial score gauge.
package score

import (
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// MaxScore is the upper bound of the score scale
	MaxScore = 100
	// lowCeiling is the highest score rendered with the red pair
	lowCeiling = 40
	// midCeiling is the highest score rendered with the amber pair
	midCeiling = 75
)

// GradientPair is the start and end color of the gauge fill
type GradientPair struct {
	Start colorful.Color
	End   colorful.Color
}

// Equal reports whether both colors match after hex quantization.
func (p GradientPair) Equal(other GradientPair) bool {
	return p.Start.Hex() == other.Start.Hex() && p.End.Hex() == other.End.Hex()
}

// Hex returns the pair as CSS hex strings.
func (p GradientPair) Hex() (start, end string) {
	return p.Start.Hex(), p.End.Hex()
}

// At blends the pair at t in [0,1] in Lab space.
func (p GradientPair) At(t float64) colorful.Color {
	return p.Start.BlendLab(p.End, t).Clamped()
}

var (
	redPair   = mustPair("#f44336", "#ff5722")
	amberPair = mustPair("#ff9800", "#ffc107")
	greenPair = mustPair("#4caf50", "#8bc34a")
)

func mustPair(start, end string) GradientPair {
	s, err := colorful.Hex(start)
	if err != nil {
		panic(err)
	}
	e, err := colorful.Hex(end)
	if err != nil {
		panic(err)
	}
	return GradientPair{Start: s, End: e}
}

// GradientFor returns the color pair for score. It is total over int:
// anything at or below 40 is red, 41 through 75 amber, 76 and up green.
func GradientFor(score int) GradientPair {
	switch {
	case score <= lowCeiling:
		return redPair
	case score <= midCeiling:
		return amberPair
	default:
		return greenPair
	}
}

// Clamp bounds score to [0, MaxScore].
func Clamp(score int) int {
	return max(0, min(MaxScore, score))
}

// ProgressWidth returns the progress bar width as a percentage of its track.
func ProgressWidth(score int) int {
	return Clamp(score)
}

// Fraction returns the filled share of the gauge in [0,1].
func Fraction(score int) float64 {
	return float64(Clamp(score)) / MaxScore
}
