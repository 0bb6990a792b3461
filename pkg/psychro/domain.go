package psychro

import "math"

// Supported chart ranges.
const (
	MinChartTemp        = 10.0
	MaxChartTemp        = 180.0
	MinChartPressure    = 10.0
	MaxChartPressure    = 20.0
	MaxChartHumidRatio  = 0.07
	borderOffsetPercent = 0.05
)

// Domain is the chart window: dry bulb range, total pressure and the
// humidity ratio at the top edge. Everything else about the window is
// derived from these four numbers.
type Domain struct {
	MinTemp          float64 `json:"minTemp" mapstructure:"min-temp"`
	MaxTemp          float64 `json:"maxTemp" mapstructure:"max-temp"`
	Pressure         float64 `json:"pressure" mapstructure:"pressure"`
	MaxHumidityRatio float64 `json:"maxHumidityRatio" mapstructure:"max-humidity-ratio"`
}

// DefaultDomain is 32-120 °F at sea level up to ω = 0.03.
func DefaultDomain() Domain {
	return Domain{
		MinTemp:          32,
		MaxTemp:          120,
		Pressure:         StandardPressure,
		MaxHumidityRatio: 0.03,
	}
}

// Validate rejects windows the engine cannot chart. Invalid domains are a
// caller error and are never repaired here.
func (d Domain) Validate() error {
	const op = "Domain"
	if !finite(d.MinTemp, d.MaxTemp, d.Pressure, d.MaxHumidityRatio) {
		return domainErr(op, "non-finite value in %+v", d)
	}
	if d.MinTemp < MinChartTemp {
		return domainErr(op, "minimum temperature %g °F is below %g °F", d.MinTemp, MinChartTemp)
	}
	if d.MaxTemp > MaxChartTemp {
		return domainErr(op, "maximum temperature %g °F is above %g °F", d.MaxTemp, MaxChartTemp)
	}
	if d.MaxTemp <= d.MinTemp {
		return domainErr(op, "maximum temperature %g °F must be above minimum %g °F", d.MaxTemp, d.MinTemp)
	}
	if d.Pressure <= MinChartPressure || d.Pressure >= MaxChartPressure {
		return domainErr(op, "pressure %g psia must be between %g and %g", d.Pressure, MinChartPressure, MaxChartPressure)
	}
	if d.MaxHumidityRatio <= 0 || d.MaxHumidityRatio >= MaxChartHumidRatio {
		return domainErr(op, "maximum humidity ratio %g must be between 0 and %g", d.MaxHumidityRatio, MaxChartHumidRatio)
	}
	if satPress(d.MinTemp) >= d.MaxVaporPressure() {
		return domainErr(op, "saturation at %g °F is already above the top of the chart (ω=%g)", d.MinTemp, d.MaxHumidityRatio)
	}
	return nil
}

// MaxVaporPressure is the vapor pressure at the top edge of the chart.
func (d Domain) MaxVaporPressure() float64 {
	return vaporPressure(d.MaxHumidityRatio, d.Pressure)
}

// TempAtCutoff is where the saturation curve leaves through the top edge.
func (d Domain) TempAtCutoff() (float64, error) {
	return TempFromRHVaporPressure(1, d.MaxVaporPressure())
}

// UpperLeftBorderTemp is the top end of the enthalpy scale border.
func (d Domain) UpperLeftBorderTemp() (float64, error) {
	cut, err := d.TempAtCutoff()
	if err != nil {
		return 0, err
	}
	return cut - borderOffsetPercent*(d.MaxTemp-d.MinTemp), nil
}

// BottomLeftBorderPv is the lower end of the enthalpy scale border on the
// left edge.
func (d Domain) BottomLeftBorderPv() float64 {
	return satPress(d.MinTemp) + borderOffsetPercent*d.MaxVaporPressure()
}

// Contains reports whether (temp, pv) is inside the chart and at or below
// saturation, within tol.
func (d Domain) Contains(temp, pv, tol float64) bool {
	if temp < d.MinTemp-tol || temp > d.MaxTemp+tol {
		return false
	}
	if pv < -tol || pv > d.MaxVaporPressure()+tol {
		return false
	}
	return pv <= satPress(temp)+tol
}

// PressureFromAltitude converts feet above sea level to psia.
func PressureFromAltitude(ft float64) float64 {
	return StandardPressure * math.Pow(1-6.8754e-6*ft, 5.2559)
}

// AltitudeFromPressure is the inverse of PressureFromAltitude.
func AltitudeFromPressure(p float64) float64 {
	return (1 - math.Pow(p/StandardPressure, 1/5.2559)) / 6.8754e-6
}
