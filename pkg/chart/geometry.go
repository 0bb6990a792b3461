package chart

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/mikesmitty/psychro-chart/pkg/psychro"
	"github.com/mikesmitty/psychro-chart/pkg/rootfind"
)

const (
	borderBisectTolerance = 1e-6
	multipleTolerance     = 1e-9
	gridScale             = 1e9
)

// geometry is everything about a domain the families share. It is read
// only once built, so one value serves every generator goroutine.
type geometry struct {
	d     psychro.Domain
	scale Scale

	p      float64
	maxPv  float64
	maxW   float64
	cutoff float64

	// Enthalpy scale border, a straight line from (MinTemp, bottomLeftPv)
	// to (upperLeft, maxPv).
	upperLeft    float64
	bottomLeftPv float64
	borderSlope  float64
	// Enthalpies at the two ends of the border.
	firstH  float64
	secondH float64
	// borderGuess maps an enthalpy between firstH and secondH to a first
	// guess of where it crosses the border.
	borderGuess interp.PiecewiseLinear
}

func newGeometry(d psychro.Domain, scale Scale) (*geometry, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	g := &geometry{
		d:     d,
		scale: scale,
		p:     d.Pressure,
		maxPv: d.MaxVaporPressure(),
		maxW:  d.MaxHumidityRatio,
	}

	var err error
	if g.cutoff, err = d.TempAtCutoff(); err != nil {
		return nil, fmt.Errorf("saturation cutoff: %w", err)
	}
	if g.upperLeft, err = d.UpperLeftBorderTemp(); err != nil {
		return nil, fmt.Errorf("enthalpy border: %w", err)
	}
	g.bottomLeftPv = d.BottomLeftBorderPv()

	// Narrow windows can squeeze the border flat. Keep it a proper line
	// between the left edge and the saturation cutoff.
	minSat, err := g.psat(d.MinTemp)
	if err != nil {
		return nil, err
	}
	if g.upperLeft <= d.MinTemp {
		g.upperLeft = (d.MinTemp + g.cutoff) / 2
	}
	if g.bottomLeftPv >= g.maxPv {
		g.bottomLeftPv = (minSat + g.maxPv) / 2
	}
	g.borderSlope = (g.maxPv - g.bottomLeftPv) / (g.upperLeft - d.MinTemp)

	blW, err := psychro.HumidityRatio(g.bottomLeftPv, g.p)
	if err != nil {
		return nil, err
	}
	if g.firstH, err = psychro.Enthalpy(d.MinTemp, blW); err != nil {
		return nil, err
	}
	if g.secondH, err = psychro.Enthalpy(g.upperLeft, g.maxW); err != nil {
		return nil, err
	}
	if err := g.borderGuess.Fit([]float64{g.firstH, g.secondH}, []float64{d.MinTemp, g.upperLeft}); err != nil {
		return nil, fmt.Errorf("enthalpy border: %w", err)
	}
	return g, nil
}

func (g *geometry) psat(t float64) (float64, error) {
	return psychro.SaturationPressure(t)
}

// clip keeps a sample on the chart: 0 <= pv <= min(maxPv, Psat(t)).
func (g *geometry) clip(t, pv float64) (Point, error) {
	ps, err := g.psat(t)
	if err != nil {
		return Point{}, err
	}
	return Point{Temp: t, Pv: clampRange(pv, 0, math.Min(g.maxPv, ps))}, nil
}

// clipScale only holds a sample between the bottom and top edges. Enthalpy
// ticks live in the strip left of saturation, so they are not clipped to it.
func (g *geometry) clipScale(t, pv float64) Point {
	return Point{Temp: t, Pv: clampRange(pv, 0, g.maxPv)}
}

// inside reports whether a label anchor sits strictly within the chart.
func (g *geometry) inside(pt Point) bool {
	return pt.Temp > g.d.MinTemp && pt.Temp < g.d.MaxTemp && pt.Pv < g.maxPv
}

func (g *geometry) borderPv(t float64) float64 {
	return g.bottomLeftPv + g.borderSlope*(t-g.d.MinTemp)
}

// vaporPressureOf converts ω, treating tiny negatives from the closed forms
// as bone dry.
func (g *geometry) vaporPressureOf(w float64) (float64, error) {
	return psychro.VaporPressure(math.Max(w, 0), g.p)
}

// enthalpyPv is the vapor pressure on enthalpy line h at t, NaN where the
// line has left the physical range.
func (g *geometry) enthalpyPv(h, t float64) float64 {
	w, err := psychro.HumidityRatioFromEnthalpyTemp(h, t)
	if err != nil {
		return math.NaN()
	}
	pv, err := psychro.VaporPressure(w, g.p)
	if err != nil {
		return math.NaN()
	}
	return pv
}

// enthalpySlope is dpv/dT along enthalpy line h at t.
func (g *geometry) enthalpySlope(h, t float64) (float64, error) {
	w, err := psychro.HumidityRatioFromEnthalpyTemp(h, t)
	if err != nil {
		return 0, err
	}
	dwdt, err := psychro.HumidityRatioSlopeAtEnthalpy(h, t)
	if err != nil {
		return 0, err
	}
	dpvdw, err := psychro.DPvDW(math.Max(w, 0), g.p)
	if err != nil {
		return 0, err
	}
	return dpvdw * dwdt, nil
}

// tempAtBorder finds where enthalpy line h crosses the straight border line.
// Newton from the linear guess first; when that fails and the crossing is
// bracketed by the border ends, bisection.
func (g *geometry) tempAtBorder(h float64) (float64, error) {
	f := func(t float64) float64 {
		return g.borderPv(t) - g.enthalpyPv(h, t)
	}
	df := func(t float64) float64 {
		s, err := g.enthalpySlope(h, t)
		if err != nil {
			return math.NaN()
		}
		return g.borderSlope - s
	}

	res, err := rootfind.Newton(f, df, g.borderGuess.Predict(h), rootfind.WithOp("tempAtBorder"))
	if err == nil {
		return res.X, nil
	}
	var cerr *rootfind.ConvergenceError
	if !errors.As(err, &cerr) || h < g.firstH || h >= g.secondH {
		return 0, err
	}
	res, err = rootfind.Bisect(f, g.d.MinTemp, g.upperLeft,
		rootfind.WithOp("tempAtBorder"),
		rootfind.WithTolerance(borderBisectTolerance),
	)
	if err != nil {
		return 0, bracketToDomain("tempAtBorder", err)
	}
	return res.X, nil
}

// bracketToDomain reports a bracket that does not hold the root as a domain
// error: the line never crosses the border inside the chart.
func bracketToDomain(op string, err error) error {
	var berr *rootfind.BracketError
	if errors.As(err, &berr) {
		return &psychro.DomainError{Op: op, Msg: berr.Error()}
	}
	return err
}

func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// span samples [lo, hi]: lo, every multiple of step strictly inside, then hi.
// A step <= 0 gives just the two ends.
func span(lo, hi, step float64) []float64 {
	switch {
	case hi < lo:
		return nil
	case hi == lo:
		return []float64{lo}
	case step <= 0:
		return []float64{lo, hi}
	}
	out := make([]float64, 0, int((hi-lo)/step)+2)
	out = append(out, lo)
	base := math.Ceil(lo/step) * step
	n := 0
	if base == lo {
		n = 1
	}
	for v := base + float64(n)*step; v < hi; v = base + float64(n)*step {
		out = append(out, v)
		n++
	}
	return append(out, hi)
}

// isMultiple reports whether v is a whole multiple of m.
func isMultiple(v, m float64) bool {
	q := v / m
	return math.Abs(q-math.Round(q)) < multipleTolerance
}

// roundTo removes float noise from k*step grid values.
func roundTo(v float64) float64 {
	return math.Round(v*gridScale) / gridScale
}
