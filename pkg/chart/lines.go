package chart

import (
	"errors"
	"fmt"
	"math"

	"github.com/mikesmitty/psychro-chart/pkg/psychro"
)

const (
	dryBulbMajorEvery       = 5.0
	humidityRatioLabelEvery = 2
	wetBulbMajorEvery       = 5.0
	volumeMajorEvery        = 0.5
	enthalpyMajorEvery      = 5.0
	enthalpyLabelOffsetTemp = 0.75
	enthalpyLabelOffsetPv   = 0.005
	rhLabelStartFraction    = 0.6
	rhLabelSpreadFraction   = 0.15
)

func dryBulbLines(g *geometry, opts Options) ([]IsoLine, error) {
	temps := span(g.d.MinTemp, g.d.MaxTemp, opts.DryBulbStep)
	lines := make([]IsoLine, 0, len(temps))
	for _, t := range temps {
		top, err := g.clip(t, g.maxPv)
		if err != nil {
			return nil, err
		}
		major := isMultiple(t, dryBulbMajorEvery)
		line := IsoLine{
			Family: FamilyDryBulb,
			Value:  t,
			Name:   fmt.Sprintf("Tdb %g °F", t),
			Points: []Point{{Temp: t}, top},
			Label: Label{
				Point:   Point{Temp: t},
				Text:    fmt.Sprintf("%g", t),
				Visible: major,
			},
			Weight: WeightMinor,
		}
		if major {
			line.Weight = WeightMajor
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func relativeHumidityLines(g *geometry, opts Options) ([]IsoLine, error) {
	width := g.d.MaxTemp - g.d.MinTemp
	labelStart := math.Round(g.d.MinTemp + rhLabelStartFraction*width)
	labelStep := math.Round(width * rhLabelSpreadFraction / 9)

	lines := make([]IsoLine, 0, len(opts.RelativeHumidities))
	for i, pct := range opts.RelativeHumidities {
		if math.IsNaN(pct) || pct <= 0 || pct > 100 {
			return nil, fmt.Errorf("relative humidity %g%% outside (0, 100]", pct)
		}
		rh := pct / 100

		end := g.d.MaxTemp
		top, err := psychro.VaporPressureFromTempRH(end, rh)
		if err != nil {
			return nil, err
		}
		if top >= g.maxPv {
			if end, err = psychro.TempFromRHVaporPressure(rh, g.maxPv); err != nil {
				return nil, err
			}
		}

		temps := span(g.d.MinTemp, end, opts.RelativeHumidityDT)
		pts := make([]Point, 0, len(temps))
		for _, t := range temps {
			pv, err := psychro.VaporPressureFromTempRH(t, rh)
			if err != nil {
				return nil, err
			}
			pt, err := g.clip(t, pv)
			if err != nil {
				return nil, err
			}
			pts = append(pts, pt)
		}

		labelT := labelStart - float64(i)*labelStep
		labelPv, err := psychro.VaporPressureFromTempRH(labelT, rh)
		if err != nil {
			return nil, err
		}
		slope, err := psychro.DPvDT(rh, labelT)
		if err != nil {
			return nil, err
		}

		lines = append(lines, IsoLine{
			Family: FamilyRelativeHumidity,
			Value:  pct,
			Name:   fmt.Sprintf("RH %g%%", pct),
			Points: pts,
			Label: Label{
				Point:   Point{Temp: labelT, Pv: labelPv},
				Angle:   g.scale.Angle(slope),
				Text:    fmt.Sprintf("%g%%", pct),
				Visible: g.inside(Point{Temp: labelT, Pv: labelPv}),
			},
			Weight: WeightMajor,
		})
	}
	return lines, nil
}

// humidityRatioLines are horizontal: from the left edge (or saturation,
// whichever is further right) to the right edge. Every other line carries a
// tick on the right hand axis.
func humidityRatioLines(g *geometry, opts Options) ([]IsoLine, error) {
	minSat, err := g.psat(g.d.MinTemp)
	if err != nil {
		return nil, err
	}

	var lines []IsoLine
	for k := 1; ; k++ {
		w := roundTo(float64(k) * opts.HumidityRatioStep)
		if w >= g.maxW {
			break
		}
		pv, err := psychro.VaporPressure(w, g.p)
		if err != nil {
			return nil, err
		}
		start := g.d.MinTemp
		if pv >= minSat {
			if start, err = psychro.TempFromRHVaporPressure(1, pv); err != nil {
				return nil, err
			}
		}
		if start > g.d.MaxTemp {
			break
		}

		left, err := g.clip(start, pv)
		if err != nil {
			return nil, err
		}
		right, err := g.clip(g.d.MaxTemp, pv)
		if err != nil {
			return nil, err
		}

		labelled := k%humidityRatioLabelEvery == 0
		line := IsoLine{
			Family: FamilyHumidityRatio,
			Value:  w,
			Name:   fmt.Sprintf("ω %.3f", w),
			Points: []Point{left, right},
			Label: Label{
				Point:   right,
				Text:    fmt.Sprintf("%.3f", w),
				Visible: labelled,
			},
			Weight: WeightMinor,
		}
		if labelled {
			line.Weight = WeightMajor
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// wetBulbLines runs each whole degree wet bulb from where it enters the
// chart to where it leaves. The entry is the left edge, saturation or the
// top edge and the exit is the bottom or right edge.
func wetBulbLines(g *geometry, opts Options) ([]IsoLine, error) {
	minWb, err := psychro.WetBulb(g.d.MinTemp, 0, g.p)
	if err != nil {
		return nil, err
	}
	topW, err := psychro.SaturationHumidityRatio(g.d.MaxTemp, g.p)
	if err != nil {
		return nil, err
	}
	maxWb, err := psychro.WetBulb(g.d.MaxTemp, math.Min(g.maxW, topW), g.p)
	if err != nil {
		return nil, err
	}
	bottomRight, err := psychro.WetBulb(g.d.MaxTemp, 0, g.p)
	if err != nil {
		return nil, err
	}

	step := opts.WetBulbStep
	var lines []IsoLine
	for k := math.Ceil(minWb / step); k*step <= math.Floor(maxWb); k++ {
		twb := roundTo(k * step)

		// Entry and exit are independent: a low ceiling puts the cutoff
		// below bottomRight, so a line can enter through the top edge and
		// still leave through the bottom.
		var lo float64
		switch {
		case twb < g.d.MinTemp:
			lo = g.d.MinTemp
		case twb < g.cutoff:
			lo = twb
		default:
			if lo, err = psychro.TempFromWetBulbHumidityRatio(twb, g.maxW, g.p); err != nil {
				return nil, err
			}
		}
		hi := g.d.MaxTemp
		if twb < bottomRight {
			if hi, err = psychro.TempFromWetBulbHumidityRatio(twb, 0, g.p); err != nil {
				return nil, err
			}
			hi = math.Min(hi, g.d.MaxTemp)
		}
		if hi < lo {
			continue
		}

		temps := span(lo, hi, opts.WetBulbSampleStep)
		pts := make([]Point, 0, len(temps))
		for _, t := range temps {
			w, err := psychro.HumidityRatioFromWetBulbDryBulb(twb, t, g.p)
			if err != nil {
				return nil, err
			}
			pv, err := g.vaporPressureOf(w)
			if err != nil {
				return nil, err
			}
			pt, err := g.clip(t, pv)
			if err != nil {
				return nil, err
			}
			pts = append(pts, pt)
		}

		label, err := g.wetBulbLabel(twb, opts.WetBulbLabelRH)
		if err != nil {
			return nil, err
		}
		major := isMultiple(twb, wetBulbMajorEvery)
		label.Visible = label.Visible && major

		line := IsoLine{
			Family: FamilyWetBulb,
			Value:  twb,
			Name:   fmt.Sprintf("Twb %g °F", twb),
			Points: pts,
			Label:  label,
			Weight: WeightMinor,
		}
		if major {
			line.Weight = WeightMajor
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// wetBulbLabel anchors the label where the line crosses rh. A line that
// never reaches rh gets a hidden label rather than failing the chart.
func (g *geometry) wetBulbLabel(twb, rh float64) (Label, error) {
	label := Label{Text: fmt.Sprintf("%g", twb)}
	t, pv, err := psychro.TempPvFromWetBulbRH(twb, rh, g.p)
	var derr *psychro.DomainError
	if errors.As(err, &derr) {
		return label, nil
	}
	if err != nil {
		return Label{}, err
	}
	label.Point = Point{Temp: t, Pv: pv}

	w, err := psychro.HumidityRatioFromWetBulbDryBulb(twb, t, g.p)
	if err != nil {
		return Label{}, err
	}
	dwdt, err := psychro.HumidityRatioSlopeAtWetBulb(twb, t, g.p)
	if err != nil {
		return Label{}, err
	}
	dpvdw, err := psychro.DPvDW(math.Max(w, 0), g.p)
	if err != nil {
		return Label{}, err
	}
	label.Angle = g.scale.Angle(dpvdw * dwdt)
	label.Visible = g.inside(label.Point)
	return label, nil
}

// specificVolumeLines are straight in (T, pv), so each is its two ends. The
// cutoff volumes at the top left corner and the saturation cutoff split the
// lines into those entering through the left edge, through saturation and
// through the top edge.
func specificVolumeLines(g *geometry, opts Options) ([]IsoLine, error) {
	minV, err := psychro.SpecificVolume(g.d.MinTemp, 0, g.p)
	if err != nil {
		return nil, err
	}
	maxV, err := psychro.SpecificVolume(g.d.MaxTemp, g.maxW, g.p)
	if err != nil {
		return nil, err
	}
	minSatW, err := psychro.SaturationHumidityRatio(g.d.MinTemp, g.p)
	if err != nil {
		return nil, err
	}
	leftCutoff, err := psychro.SpecificVolume(g.d.MinTemp, minSatW, g.p)
	if err != nil {
		return nil, err
	}
	topCutoff, err := psychro.SpecificVolume(g.cutoff, g.maxW, g.p)
	if err != nil {
		return nil, err
	}

	step := opts.SpecificVolumeStep
	var lines []IsoLine
	for k := math.Ceil(minV / step); k <= math.Floor(maxV/step); k++ {
		v := roundTo(k * step)
		dry, err := psychro.TempFromSpecificVolumeHumidityRatio(v, 0, g.p)
		if err != nil {
			return nil, err
		}

		var lo float64
		switch {
		case v < leftCutoff:
			lo = g.d.MinTemp
		case v < topCutoff:
			lo, _, err = psychro.TempPvFromSpecificVolumeRH(v, 1, g.p)
		default:
			lo, err = psychro.TempFromSpecificVolumeHumidityRatio(v, g.maxW, g.p)
		}
		if err != nil {
			return nil, err
		}
		lo = math.Max(lo, g.d.MinTemp)
		hi := math.Min(dry, g.d.MaxTemp)
		if hi < lo {
			continue
		}

		pts := make([]Point, 0, 2)
		for _, t := range span(lo, hi, 0) {
			w, err := psychro.HumidityRatioFromSpecificVolumeTemp(v, t, g.p)
			if err != nil {
				return nil, err
			}
			pv, err := g.vaporPressureOf(w)
			if err != nil {
				return nil, err
			}
			pt, err := g.clip(t, pv)
			if err != nil {
				return nil, err
			}
			pts = append(pts, pt)
		}

		major := isMultiple(v, volumeMajorEvery)
		label := Label{
			Text:  fmt.Sprintf("%.1f", v),
			Angle: g.scale.Angle(-psychro.DryAirGasConstant / v / 144),
		}
		t, pv, err := psychro.TempPvFromSpecificVolumeRH(v, opts.SpecificVolumeLabel, g.p)
		if err == nil {
			label.Point = Point{Temp: t, Pv: pv}
			label.Visible = major && g.inside(label.Point)
		}

		line := IsoLine{
			Family: FamilySpecificVolume,
			Value:  v,
			Name:   fmt.Sprintf("v %.1f ft³/lb", v),
			Points: pts,
			Label:  label,
			Weight: WeightMinor,
		}
		if major {
			line.Weight = WeightMajor
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// enthalpyLines draws whole Btu lines across the chart and fractional ticks
// between the scale border and saturation. Below the border's left end a
// line starts at the left edge, along the border it starts on the border and
// above it on the top edge.
func enthalpyLines(g *geometry, opts Options) ([]IsoLine, error) {
	minH, err := psychro.Enthalpy(g.d.MinTemp, 0)
	if err != nil {
		return nil, err
	}
	maxH, err := psychro.Enthalpy(g.d.MaxTemp, g.maxW)
	if err != nil {
		return nil, err
	}
	minSatW, err := psychro.SaturationHumidityRatio(g.d.MinTemp, g.p)
	if err != nil {
		return nil, err
	}
	satSplit, err := psychro.Enthalpy(g.d.MinTemp, minSatW)
	if err != nil {
		return nil, err
	}

	step := opts.EnthalpyStep
	var lines []IsoLine
	for k := math.Ceil(math.Ceil(minH) / step); k*step <= maxH; k++ {
		h := roundTo(k * step)
		whole := isMultiple(h, 1)
		if h < satSplit && !whole {
			continue
		}

		var hi float64
		if whole {
			hi, err = psychro.TempFromEnthalpyVaporPressure(h, 0, g.p)
		} else {
			hi, err = psychro.SatTempAtEnthalpy(h, g.p)
		}
		if err != nil {
			return nil, err
		}
		hi = math.Min(hi, g.d.MaxTemp)

		var lo float64
		switch {
		case h < g.firstH:
			lo = g.d.MinTemp
		case h < g.secondH:
			lo, err = g.tempAtBorder(h)
		default:
			lo, err = psychro.TempFromEnthalpyVaporPressure(h, g.maxPv, g.p)
		}
		if err != nil {
			return nil, err
		}
		if hi < lo {
			continue
		}

		temps := span(lo, hi, opts.EnthalpySampleStep)
		pts := make([]Point, 0, len(temps))
		for _, t := range temps {
			w, err := psychro.HumidityRatioFromEnthalpyTemp(h, t)
			if err != nil {
				return nil, err
			}
			pv, err := g.vaporPressureOf(w)
			if err != nil {
				return nil, err
			}
			pts = append(pts, g.clipScale(t, pv))
		}

		label, err := g.enthalpyLabel(h)
		if err != nil {
			return nil, err
		}

		line := IsoLine{
			Family: FamilyEnthalpy,
			Value:  h,
			Name:   fmt.Sprintf("h %g Btu/lb", h),
			Points: pts,
			Label:  label,
			Weight: WeightMinor,
		}
		switch {
		case isMultiple(h, enthalpyMajorEvery):
			line.Weight = WeightMajor
		case whole:
			line.Weight = WeightMedium
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// enthalpyLabel sits just outside the scale border. Only every fifth Btu
// below the border's top end is shown.
func (g *geometry) enthalpyLabel(h float64) (Label, error) {
	label := Label{Text: fmt.Sprintf("%g", h)}
	if !isMultiple(h, enthalpyMajorEvery) || h >= g.secondH {
		return label, nil
	}
	t, err := g.tempAtBorder(h)
	if err != nil {
		return label, nil
	}
	slope, err := g.enthalpySlope(h, t)
	if err != nil {
		return Label{}, err
	}
	label.Point = Point{
		Temp: t - enthalpyLabelOffsetTemp,
		Pv:   g.enthalpyPv(h, t) + enthalpyLabelOffsetPv,
	}
	label.Angle = g.scale.Angle(slope)
	label.Visible = label.Point.Temp > g.d.MinTemp && t < g.d.MaxTemp
	return label, nil
}
