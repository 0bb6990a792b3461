package airstate

import (
	"fmt"
	"math"

	"github.com/mikesmitty/psychro-chart/pkg/psychro"
)

const (
	// Humidity ratio overshoot tolerated before a clamp kicks in. Matches the
	// wet bulb solver residual so a clamped state clamps to itself.
	humidityRatioSlack = 1e-6
	tempRounding       = 0.01
	ratioRounding      = 1e-6
	absoluteZero       = -psychro.RankineOffset
)

// Clamp pulls next back inside the chart and recomputes every derived
// property from its dry bulb and driver value. prev is the last valid state
// and decides which input gave way: when the dry bulb changed the dry bulb is
// moved back toward the driver, otherwise the driver is limited. A nil prev
// means a fresh state, which limits the driver.
func Clamp(d psychro.Domain, driver Driver, next Properties, prev *Properties) (Properties, error) {
	value := next.DriverValue(driver)
	if math.IsNaN(next.DryBulb) || math.IsInf(next.DryBulb, 0) || math.IsNaN(value) || math.IsInf(value, 0) {
		return Properties{}, &psychro.DomainError{
			Op:  "Clamp",
			Msg: fmt.Sprintf("non-finite input (dry bulb %g, %s %g)", next.DryBulb, driver, value),
		}
	}

	tdb := clampRange(next.DryBulb, d.MinTemp, d.MaxTemp)
	tempEdited := prev != nil && tdb != prev.DryBulb

	switch driver {
	case DriverHumidityRatio:
		tdb, w, err := clampHumidityRatio(d, tdb, value, tempEdited)
		if err != nil {
			return Properties{}, err
		}
		return derive(d, tdb, w, nil)
	case DriverRelativeHumidity:
		tdb, rh, err := clampRelativeHumidity(d, tdb, value, tempEdited)
		if err != nil {
			return Properties{}, err
		}
		pv, err := psychro.VaporPressureFromTempRH(tdb, rh/100)
		if err != nil {
			return Properties{}, err
		}
		w, err := psychro.HumidityRatio(pv, d.Pressure)
		if err != nil {
			return Properties{}, err
		}
		props, err := derive(d, tdb, w, nil)
		if err != nil {
			return Properties{}, err
		}
		props.RelativeHumidity = rh
		return props, nil
	case DriverWetBulb:
		tdb, twb, w, err := clampWetBulb(d, tdb, value, tempEdited)
		if err != nil {
			return Properties{}, err
		}
		return derive(d, tdb, w, &twb)
	}
	return Properties{}, fmt.Errorf("unknown driver %s", driver)
}

func clampHumidityRatio(d psychro.Domain, tdb, w float64, tempEdited bool) (float64, float64, error) {
	w = clampRange(w, 0, d.MaxHumidityRatio)
	ws, err := psychro.SaturationHumidityRatio(tdb, d.Pressure)
	if err != nil {
		return 0, 0, err
	}
	if w <= ws {
		return tdb, w, nil
	}

	if tempEdited {
		pv, err := psychro.VaporPressure(w, d.Pressure)
		if err != nil {
			return 0, 0, err
		}
		sat, err := psychro.TempFromRHVaporPressure(1, pv)
		if err != nil {
			return 0, 0, err
		}
		tdb = math.Min(ceilTo(sat, tempRounding), d.MaxTemp)
		if ws, err = psychro.SaturationHumidityRatio(tdb, d.Pressure); err != nil {
			return 0, 0, err
		}
	}
	if w > ws {
		w = floorTo(ws, ratioRounding)
	}
	return tdb, w, nil
}

// clampRelativeHumidity works in percent.
func clampRelativeHumidity(d psychro.Domain, tdb, rh float64, tempEdited bool) (float64, float64, error) {
	rh = clampRange(rh, 0, 100)
	over := func() (bool, error) {
		pv, err := psychro.VaporPressureFromTempRH(tdb, rh/100)
		if err != nil {
			return false, err
		}
		w, err := psychro.HumidityRatio(pv, d.Pressure)
		if err != nil {
			return false, err
		}
		return w > d.MaxHumidityRatio+humidityRatioSlack, nil
	}

	tooWet, err := over()
	if err != nil || !tooWet {
		return tdb, rh, err
	}
	if tempEdited {
		t, err := psychro.TempFromRHVaporPressure(rh/100, d.MaxVaporPressure())
		if err != nil {
			return 0, 0, err
		}
		tdb = math.Max(floorTo(t, tempRounding), d.MinTemp)
		if tooWet, err = over(); err != nil || !tooWet {
			return tdb, rh, err
		}
	}
	ps, err := psychro.SaturationPressure(tdb)
	if err != nil {
		return 0, 0, err
	}
	return tdb, 100 * d.MaxVaporPressure() / ps, nil
}

func clampWetBulb(d psychro.Domain, tdb, twb float64, tempEdited bool) (float64, float64, float64, error) {
	p := d.Pressure
	twb = math.Max(twb, 0)
	if twb > tdb {
		if tempEdited {
			tdb = math.Min(twb, d.MaxTemp)
		}
		twb = math.Min(twb, tdb)
	}
	w, err := psychro.HumidityRatioFromWetBulbDryBulb(twb, tdb, p)
	if err != nil {
		return 0, 0, 0, err
	}

	// Fixes the dry bulb first when that was the edit, then the wet bulb if
	// the point is still off the chart.
	fix := func(limit float64) error {
		if tempEdited {
			t, err := psychro.TempFromWetBulbHumidityRatio(twb, limit, p)
			if err != nil {
				return err
			}
			tdb = clampRange(t, d.MinTemp, d.MaxTemp)
			twb = math.Min(twb, tdb)
			if w, err = psychro.HumidityRatioFromWetBulbDryBulb(twb, tdb, p); err != nil {
				return err
			}
			if w >= -humidityRatioSlack && w <= d.MaxHumidityRatio+humidityRatioSlack {
				return nil
			}
		}
		if twb, err = psychro.WetBulb(tdb, limit, p); err != nil {
			return err
		}
		w, err = psychro.HumidityRatioFromWetBulbDryBulb(twb, tdb, p)
		return err
	}

	if w < -humidityRatioSlack {
		if err := fix(0); err != nil {
			return 0, 0, 0, err
		}
	}
	if w > d.MaxHumidityRatio+humidityRatioSlack {
		if err := fix(d.MaxHumidityRatio); err != nil {
			return 0, 0, 0, err
		}
	}
	return tdb, twb, clampRange(w, 0, d.MaxHumidityRatio), nil
}

// derive fills in every property from the dry bulb and humidity ratio. When
// twb is set it is kept as the wet bulb instead of solving for it.
func derive(d psychro.Domain, tdb, w float64, twb *float64) (Properties, error) {
	p := d.Pressure
	props := Properties{DryBulb: tdb, HumidityRatio: w}

	pv, err := psychro.VaporPressure(w, p)
	if err != nil {
		return Properties{}, err
	}
	props.VaporPressure = pv

	rh, err := psychro.RelativeHumidity(tdb, pv)
	if err != nil {
		return Properties{}, err
	}
	props.RelativeHumidity = math.Min(100*rh, 100)

	if twb != nil {
		props.WetBulb = *twb
	} else if props.WetBulb, err = psychro.WetBulb(tdb, w, p); err != nil {
		return Properties{}, err
	}

	props.DewPoint = absoluteZero
	if pv > 0 {
		if props.DewPoint, err = psychro.DewPoint(pv); err != nil {
			return Properties{}, err
		}
	}

	if props.Enthalpy, err = psychro.Enthalpy(tdb, w); err != nil {
		return Properties{}, err
	}
	if props.SpecificVolume, err = psychro.SpecificVolume(tdb, w, p); err != nil {
		return Properties{}, err
	}

	props.DewPoint = math.Min(props.DewPoint, props.WetBulb)
	props.WetBulb = math.Min(props.WetBulb, props.DryBulb)
	return props, nil
}

func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func ceilTo(v, step float64) float64 {
	return math.Ceil(v/step) * step
}

func floorTo(v, step float64) float64 {
	return math.Floor(v/step) * step
}
