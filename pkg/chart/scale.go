package chart

import (
	"math"

	"github.com/mikesmitty/psychro-chart/pkg/psychro"
)

const (
	canvasWidth       = 1400.0
	canvasHeight      = 800.0
	marginLeftPct     = 0.02
	marginRightPct    = 0.12
	marginVerticalPct = 0.08
)

// Scale ties the chart to a canvas. Canvas y grows downward, so
// PixelsPerPsia is negative.
type Scale struct {
	PixelsPerDegree float64 `json:"pixelsPerDegree"`
	PixelsPerPsia   float64 `json:"pixelsPerPsia"`
}

// NewScale maps d onto a width x height canvas, leaving room on the right
// for the humidity ratio axis.
func NewScale(d psychro.Domain, width, height float64) Scale {
	x0 := marginLeftPct * width
	x1 := width - marginRightPct*width
	y0 := height - marginVerticalPct*height
	y1 := marginVerticalPct * height
	return Scale{
		PixelsPerDegree: (x1 - x0) / (d.MaxTemp - d.MinTemp),
		PixelsPerPsia:   (y1 - y0) / d.MaxVaporPressure(),
	}
}

func DefaultScale(d psychro.Domain) Scale {
	return NewScale(d, canvasWidth, canvasHeight)
}

// Angle turns a slope in psia/°F into a rotation in degrees on the canvas.
func (s Scale) Angle(slope float64) float64 {
	return math.Atan(slope*s.PixelsPerPsia/s.PixelsPerDegree) * 180 / math.Pi
}
