// Package psychro implements moist air properties in IP units: °F, psia,
// lb water per lb dry air, Btu/lb dry air and ft³/lb dry air.
package psychro

import "math"

// ASHRAE saturation pressure over liquid water, IP units (°R, psia). One
// fit is used across the whole chart so there is no step at 32 °F.
const (
	c8  = -1.0440397e4
	c9  = -1.129465e1
	c10 = -2.7022355e-2
	c11 = 1.289036e-5
	c12 = -2.4780681e-9
	c13 = 6.5459673
)

const (
	RankineOffset = 459.67
	// StandardPressure is sea level total pressure in psia.
	StandardPressure = 14.696
)

// SaturationPressure returns the saturation vapor pressure (psia) at temp °F.
func SaturationPressure(temp float64) (float64, error) {
	if err := checkTemp("SaturationPressure", temp); err != nil {
		return 0, err
	}
	return satPress(temp), nil
}

func satPress(temp float64) float64 {
	t := temp + RankineOffset
	return math.Exp(c8/t + c9 + c10*t + c11*t*t + c12*t*t*t + c13*math.Log(t))
}

// DPvDT is the slope of vapor pressure against dry bulb temperature
// (psia/°F) along a line of constant relative humidity rh (0-1).
func DPvDT(rh, temp float64) (float64, error) {
	if err := checkRH("DPvDT", rh); err != nil {
		return 0, err
	}
	if err := checkTemp("DPvDT", temp); err != nil {
		return 0, err
	}
	return dPvdT(rh, temp), nil
}

func dPvdT(rh, temp float64) float64 {
	t := temp + RankineOffset
	dlnp := -c8/(t*t) + c10 + 2*c11*t + 3*c12*t*t + c13/t
	return rh * satPress(temp) * dlnp
}
