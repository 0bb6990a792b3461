package chart

import "math"

type outline struct {
	boundary            []Point
	saturation          []Point
	enthalpyBorder      []Point
	enthalpyBorderAngle float64
}

// outline traces the saturation curve up to where it leaves the chart and
// closes the chart outline around it.
func (g *geometry) outline(step float64) (outline, error) {
	end := math.Min(g.cutoff, g.d.MaxTemp)
	temps := span(g.d.MinTemp, end, step)
	sat := make([]Point, 0, len(temps))
	for _, t := range temps {
		pt, err := g.clip(t, g.maxPv)
		if err != nil {
			return outline{}, err
		}
		sat = append(sat, pt)
	}

	boundary := make([]Point, 0, len(sat)+5)
	boundary = append(boundary,
		Point{Temp: g.d.MaxTemp},
		Point{Temp: g.d.MinTemp},
	)
	boundary = append(boundary, sat...)
	if g.cutoff < g.d.MaxTemp {
		boundary = append(boundary,
			Point{Temp: g.cutoff, Pv: g.maxPv},
			Point{Temp: g.d.MaxTemp, Pv: g.maxPv},
		)
	}
	boundary = append(boundary, Point{Temp: g.d.MaxTemp})

	minSat, err := g.psat(g.d.MinTemp)
	if err != nil {
		return outline{}, err
	}
	border := []Point{
		{Temp: g.d.MinTemp, Pv: minSat},
		{Temp: g.d.MinTemp, Pv: g.bottomLeftPv},
		{Temp: g.upperLeft, Pv: g.maxPv},
		{Temp: g.cutoff, Pv: g.maxPv},
	}

	return outline{
		boundary:            boundary,
		saturation:          sat,
		enthalpyBorder:      border,
		enthalpyBorderAngle: g.scale.Angle(g.borderSlope),
	}, nil
}
