// Package chart generates the line work of a psychrometric chart: every
// iso-line family sampled in (dry bulb, vapor pressure) space, clipped to
// the chart window, with label anchors and label angles.
package chart

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mikesmitty/psychro-chart/pkg/psychro"
)

type Family string

const (
	FamilyDryBulb          Family = "tdb"
	FamilyRelativeHumidity Family = "rh"
	FamilyHumidityRatio    Family = "w"
	FamilyWetBulb          Family = "twb"
	FamilySpecificVolume   Family = "v"
	FamilyEnthalpy         Family = "h"
)

var AllFamilies = []Family{
	FamilyDryBulb,
	FamilyRelativeHumidity,
	FamilyHumidityRatio,
	FamilyWetBulb,
	FamilySpecificVolume,
	FamilyEnthalpy,
}

var familyNames = map[Family]string{
	FamilyDryBulb:          "dry bulb temperature",
	FamilyRelativeHumidity: "relative humidity",
	FamilyHumidityRatio:    "humidity ratio",
	FamilyWetBulb:          "wet bulb temperature",
	FamilySpecificVolume:   "specific volume",
	FamilyEnthalpy:         "enthalpy",
}

func ParseFamily(s string) (Family, error) {
	f := Family(s)
	if _, ok := familyNames[f]; !ok {
		return "", fmt.Errorf("unknown iso-line family %q", s)
	}
	return f, nil
}

// Title is the display name, e.g. "Wet Bulb Temperature".
func (f Family) Title() string {
	name, ok := familyNames[f]
	if !ok {
		return string(f)
	}
	return cases.Title(language.English).String(name)
}

type Weight int

const (
	WeightMinor Weight = iota
	WeightMedium
	WeightMajor
)

type Point struct {
	Temp float64 `json:"temp"`
	Pv   float64 `json:"pv"`
}

// Label is where a line's value is printed and how far it is rotated, in
// degrees on the canvas. Visible is false when the anchor falls off the chart.
type Label struct {
	Point
	Angle   float64 `json:"angle"`
	Text    string  `json:"text"`
	Visible bool    `json:"visible"`
}

type IsoLine struct {
	Family Family  `json:"family"`
	Value  float64 `json:"value"`
	Name   string  `json:"name"`
	Points []Point `json:"points"`
	Label  Label   `json:"label"`
	Weight Weight  `json:"weight"`
}

// Chart is one complete regeneration for a domain.
type Chart struct {
	Domain psychro.Domain `json:"domain"`
	Scale  Scale          `json:"scale"`
	// Boundary is the closed chart outline: bottom edge, left edge, the
	// saturation curve up to the top edge and across to the right.
	Boundary   []Point `json:"boundary"`
	Saturation []Point `json:"saturation"`
	// EnthalpyBorder fences off the enthalpy scale strip left of saturation.
	EnthalpyBorder      []Point              `json:"enthalpyBorder"`
	EnthalpyBorderAngle float64              `json:"enthalpyBorderAngle"`
	Lines               map[Family][]IsoLine `json:"lines"`
}

type Options struct {
	Scale    Scale
	Families []Family

	// RelativeHumidities in percent.
	RelativeHumidities  []float64
	DryBulbStep         float64
	HumidityRatioStep   float64
	WetBulbStep         float64
	SpecificVolumeStep  float64
	EnthalpyStep        float64
	EnthalpySampleStep  float64
	SaturationTempStep  float64
	RelativeHumidityDT  float64
	WetBulbSampleStep   float64
	WetBulbLabelRH      float64
	SpecificVolumeLabel float64
}

func DefaultOptions(d psychro.Domain) Options {
	return Options{
		Scale:               DefaultScale(d),
		Families:            AllFamilies,
		RelativeHumidities:  []float64{10, 20, 30, 40, 50, 60, 70, 80, 90},
		DryBulbStep:         1,
		HumidityRatioStep:   0.001,
		WetBulbStep:         1,
		SpecificVolumeStep:  0.1,
		EnthalpyStep:        0.2,
		EnthalpySampleStep:  1,
		SaturationTempStep:  0.1,
		RelativeHumidityDT:  0.5,
		WetBulbSampleStep:   3,
		WetBulbLabelRH:      0.55,
		SpecificVolumeLabel: 0.35,
	}
}

// withDefaults fills zero fields from DefaultOptions. RelativeHumidities
// is only filled when nil so an empty slice asks for no lines.
func (o Options) withDefaults(d psychro.Domain) Options {
	def := DefaultOptions(d)
	if o.Scale.PixelsPerDegree == 0 || o.Scale.PixelsPerPsia == 0 {
		o.Scale = def.Scale
	}
	if o.RelativeHumidities == nil {
		o.RelativeHumidities = def.RelativeHumidities
	}
	fill := func(v *float64, dv float64) {
		if *v <= 0 {
			*v = dv
		}
	}
	fill(&o.DryBulbStep, def.DryBulbStep)
	fill(&o.HumidityRatioStep, def.HumidityRatioStep)
	fill(&o.WetBulbStep, def.WetBulbStep)
	fill(&o.SpecificVolumeStep, def.SpecificVolumeStep)
	fill(&o.EnthalpyStep, def.EnthalpyStep)
	fill(&o.EnthalpySampleStep, def.EnthalpySampleStep)
	fill(&o.SaturationTempStep, def.SaturationTempStep)
	fill(&o.RelativeHumidityDT, def.RelativeHumidityDT)
	fill(&o.WetBulbSampleStep, def.WetBulbSampleStep)
	fill(&o.WetBulbLabelRH, def.WetBulbLabelRH)
	fill(&o.SpecificVolumeLabel, def.SpecificVolumeLabel)
	return o
}

type generator func(*geometry, Options) ([]IsoLine, error)

var generators = map[Family]generator{
	FamilyDryBulb:          dryBulbLines,
	FamilyRelativeHumidity: relativeHumidityLines,
	FamilyHumidityRatio:    humidityRatioLines,
	FamilyWetBulb:          wetBulbLines,
	FamilySpecificVolume:   specificVolumeLines,
	FamilyEnthalpy:         enthalpyLines,
}

// Generate builds every requested family for d concurrently. The chart is
// returned only once all of them succeed; any failure discards the rest.
func Generate(ctx context.Context, d psychro.Domain, opts Options) (*Chart, error) {
	start := time.Now()
	opts = opts.withDefaults(d)
	g, err := newGeometry(d, opts.Scale)
	if err != nil {
		return nil, err
	}

	families := opts.Families
	if len(families) == 0 {
		families = AllFamilies
	}
	for _, f := range families {
		if _, ok := generators[f]; !ok {
			return nil, fmt.Errorf("unknown iso-line family %q", f)
		}
	}
	results := make([][]IsoLine, len(families))
	var edge outline

	eg, ctx := errgroup.WithContext(ctx)
	for i, f := range families {
		gen := generators[f]
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lines, err := gen(g, opts)
			if err != nil {
				return fmt.Errorf("%s lines: %w", f, err)
			}
			results[i] = lines
			slog.Debug("generated iso-lines", "module", "chart", "family", f, "count", len(lines))
			return nil
		})
	}
	eg.Go(func() error {
		var err error
		edge, err = g.outline(opts.SaturationTempStep)
		if err != nil {
			return fmt.Errorf("chart outline: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	c := &Chart{
		Domain:              d,
		Scale:               opts.Scale,
		Boundary:            edge.boundary,
		Saturation:          edge.saturation,
		EnthalpyBorder:      edge.enthalpyBorder,
		EnthalpyBorderAngle: edge.enthalpyBorderAngle,
		Lines:               make(map[Family][]IsoLine, len(families)),
	}
	for i, f := range families {
		c.Lines[f] = results[i]
	}
	slog.Debug("chart generated", "module", "chart", "families", len(families), "elapsed", time.Since(start))
	return c, nil
}

// RelativeHumidityLines returns one line per opts.RelativeHumidities value.
func RelativeHumidityLines(d psychro.Domain, opts Options) ([]IsoLine, error) {
	return generateOne(d, opts, relativeHumidityLines)
}

func HumidityRatioLines(d psychro.Domain, opts Options) ([]IsoLine, error) {
	return generateOne(d, opts, humidityRatioLines)
}

func WetBulbLines(d psychro.Domain, opts Options) ([]IsoLine, error) {
	return generateOne(d, opts, wetBulbLines)
}

func SpecificVolumeLines(d psychro.Domain, opts Options) ([]IsoLine, error) {
	return generateOne(d, opts, specificVolumeLines)
}

func EnthalpyLines(d psychro.Domain, opts Options) ([]IsoLine, error) {
	return generateOne(d, opts, enthalpyLines)
}

func DryBulbLines(d psychro.Domain, opts Options) ([]IsoLine, error) {
	return generateOne(d, opts, dryBulbLines)
}

func generateOne(d psychro.Domain, opts Options, gen generator) ([]IsoLine, error) {
	opts = opts.withDefaults(d)
	g, err := newGeometry(d, opts.Scale)
	if err != nil {
		return nil, err
	}
	return gen(g, opts)
}
