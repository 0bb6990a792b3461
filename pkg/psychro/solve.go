package psychro

import (
	"math"

	"github.com/mikesmitty/psychro-chart/pkg/rootfind"
)

const (
	wetBulbTolerance  = 1e-6
	rhTempTolerance   = 1e-5
	satEnthalpyTol    = 5e-5
	satEnthalpyMaxIt  = 500
	wetBulbRHTol      = 1e-5
	newtonInitialTemp = 80.0
	solveTempLow      = 0.0
	solveTempHigh     = 200.0
	freezing          = 32.0
)

// HumidityRatioFromWetBulbDryBulb returns ω on the wet bulb line twb at dry
// bulb tdb. The result goes negative once tdb is hotter than bone dry air
// with that wet bulb can be.
func HumidityRatioFromWetBulbDryBulb(twb, tdb, p float64) (float64, error) {
	const op = "HumidityRatioFromWetBulbDryBulb"
	if err := checkTemp(op, twb); err != nil {
		return 0, err
	}
	if err := checkTemp(op, tdb); err != nil {
		return 0, err
	}
	if err := checkPressure(op, p); err != nil {
		return 0, err
	}
	if satPress(twb) >= p {
		return 0, domainErr(op, "wet bulb %g °F is at or above boiling for %g psia", twb, p)
	}
	return wFromWetBulb(twb, tdb, p), nil
}

func wFromWetBulb(twb, tdb, p float64) float64 {
	ws := satHumidityRatio(twb, p)
	return ((1093-0.556*twb)*ws - 0.24*(tdb-twb)) / (1093 + 0.444*tdb - twb)
}

// TempFromWetBulbHumidityRatio inverts HumidityRatioFromWetBulbDryBulb for
// the dry bulb temperature.
func TempFromWetBulbHumidityRatio(twb, w, p float64) (float64, error) {
	const op = "TempFromWetBulbHumidityRatio"
	if err := checkTemp(op, twb); err != nil {
		return 0, err
	}
	if err := checkPressure(op, p); err != nil {
		return 0, err
	}
	if !finite(w) || w < 0 {
		return 0, domainErr(op, "humidity ratio %g must be non-negative", w)
	}
	if satPress(twb) >= p {
		return 0, domainErr(op, "wet bulb %g °F is at or above boiling for %g psia", twb, p)
	}
	return tempFromWetBulbW(twb, w, p), nil
}

func tempFromWetBulbW(twb, w, p float64) float64 {
	ws := satHumidityRatio(twb, p)
	return ((1093-0.556*twb)*ws + 0.24*twb - w*(1093-twb)) / (0.444*w + 0.24)
}

// WetBulb solves the psychrometric wet bulb equation for the wet bulb
// temperature of air at tdb °F and humidity ratio w. Bisection over [0, tdb].
func WetBulb(tdb, w, p float64) (float64, error) {
	const op = "WetBulb"
	if err := checkTemp(op, tdb); err != nil {
		return 0, err
	}
	if err := checkPressure(op, p); err != nil {
		return 0, err
	}
	if !finite(w) || w < 0 {
		return 0, domainErr(op, "humidity ratio %g must be non-negative", w)
	}
	if tdb <= solveTempLow {
		return 0, domainErr(op, "dry bulb %g °F is below the solver range (above %g °F)", tdb, solveTempLow)
	}
	if satPress(tdb) >= p {
		return 0, domainErr(op, "dry bulb %g °F is at or above boiling for %g psia", tdb, p)
	}

	f := func(twb float64) float64 {
		return wFromWetBulb(twb, tdb, p) - w
	}
	top := f(tdb)
	if math.Abs(top) < wetBulbTolerance {
		return tdb, nil
	}
	if top < 0 {
		return 0, domainErr(op, "humidity ratio %g exceeds saturation (%g) at %g °F", w, top+w, tdb)
	}
	if f(solveTempLow) > 0 {
		return 0, domainErr(op, "wet bulb for %g °F, ω=%g is below %g °F", tdb, w, solveTempLow)
	}

	res, err := rootfind.Bisect(f, solveTempLow, tdb,
		rootfind.WithOp(op),
		rootfind.WithTolerance(wetBulbTolerance),
	)
	if err != nil {
		return 0, err
	}
	return res.X, nil
}

// TempFromRHVaporPressure returns the dry bulb at which vapor pressure pv is
// rh (0-1] of saturation. With rh = 1 this is the dew point of pv.
func TempFromRHVaporPressure(rh, pv float64) (float64, error) {
	const op = "TempFromRHVaporPressure"
	if !finite(rh) || rh <= 0 || rh > 1 {
		return 0, domainErr(op, "relative humidity %g must be in (0, 1]", rh)
	}
	if !finite(pv) || pv <= 0 {
		return 0, domainErr(op, "vapor pressure %g psia must be positive", pv)
	}
	goal := pv / rh
	res, err := rootfind.Newton(
		func(t float64) float64 { return satPress(t) - goal },
		func(t float64) float64 { return dPvdT(1, t) },
		newtonInitialTemp,
		rootfind.WithOp(op),
		rootfind.WithTolerance(rhTempTolerance),
	)
	if err != nil {
		return 0, err
	}
	return res.X, nil
}

// DewPoint returns the dew point (°F) of vapor pressure pv from the ASHRAE
// fit in ln(pv). The low range fit takes over below freezing.
func DewPoint(pv float64) (float64, error) {
	if !finite(pv) || pv <= 0 {
		return 0, domainErr("DewPoint", "vapor pressure %g psia must be positive", pv)
	}
	a := math.Log(pv)
	td := 100.45 + 33.193*a + 2.319*a*a + 0.17074*a*a*a + 1.2063*math.Pow(pv, 0.1984)
	if td < freezing {
		td = 90.12 + 26.142*a + 0.8927*a*a
	}
	return td, nil
}

// SatTempAtEnthalpy is the temperature where the constant enthalpy line h
// meets the saturation curve.
func SatTempAtEnthalpy(h, p float64) (float64, error) {
	const op = "SatTempAtEnthalpy"
	if !finite(h) {
		return 0, domainErr(op, "enthalpy %g is not finite", h)
	}
	if err := checkPressure(op, p); err != nil {
		return 0, err
	}
	hi, err := solveCeiling(op, p, 1)
	if err != nil {
		return 0, err
	}
	f := func(t float64) float64 {
		return satHumidityRatio(t, p) - humidityRatioFromEnthalpy(h, t)
	}
	if f(solveTempLow) > 0 || f(hi) < 0 {
		return 0, domainErr(op, "saturation at enthalpy %g falls outside %g-%g °F", h, solveTempLow, hi)
	}
	res, err := rootfind.Bisect(f, solveTempLow, hi,
		rootfind.WithOp(op),
		rootfind.WithTolerance(satEnthalpyTol),
		rootfind.WithMaxIterations(satEnthalpyMaxIt),
	)
	if err != nil {
		return 0, err
	}
	return res.X, nil
}

// TempPvFromSpecificVolumeRH finds the point on the constant volume line v
// where relative humidity is rh. Returns dry bulb and vapor pressure.
func TempPvFromSpecificVolumeRH(v, rh, p float64) (float64, float64, error) {
	const op = "TempPvFromSpecificVolumeRH"
	if err := checkRH(op, rh); err != nil {
		return 0, 0, err
	}
	if err := checkPressure(op, p); err != nil {
		return 0, 0, err
	}
	if !finite(v) || v <= 0 {
		return 0, 0, domainErr(op, "specific volume %g must be positive", v)
	}
	slope := DryAirGasConstant / (v * 144)
	res, err := rootfind.Newton(
		func(t float64) float64 {
			return rh*satPress(t) - (p - slope*(t+RankineOffset))
		},
		func(t float64) float64 { return dPvdT(rh, t) + slope },
		newtonInitialTemp,
		rootfind.WithOp(op),
	)
	if err != nil {
		return 0, 0, err
	}
	return res.X, rh * satPress(res.X), nil
}

// WetBulbPvFromSpecificVolumeRH returns the wet bulb and vapor pressure of
// the state on volume line v at relative humidity rh.
func WetBulbPvFromSpecificVolumeRH(v, rh, p float64) (float64, float64, error) {
	temp, pv, err := TempPvFromSpecificVolumeRH(v, rh, p)
	if err != nil {
		return 0, 0, err
	}
	w, err := HumidityRatio(pv, p)
	if err != nil {
		return 0, 0, err
	}
	twb, err := WetBulb(temp, w, p)
	if err != nil {
		return 0, 0, err
	}
	return twb, pv, nil
}

// TempPvFromWetBulbRH finds the point on wet bulb line twb where relative
// humidity is rh. Returns dry bulb and vapor pressure.
func TempPvFromWetBulbRH(twb, rh, p float64) (float64, float64, error) {
	const op = "TempPvFromWetBulbRH"
	if err := checkRH(op, rh); err != nil {
		return 0, 0, err
	}
	if err := checkTemp(op, twb); err != nil {
		return 0, 0, err
	}
	if err := checkPressure(op, p); err != nil {
		return 0, 0, err
	}
	if satPress(twb) >= p {
		return 0, 0, domainErr(op, "wet bulb %g °F is at or above boiling for %g psia", twb, p)
	}
	hi, err := solveCeiling(op, p, rh)
	if err != nil {
		return 0, 0, err
	}
	f := func(t float64) float64 {
		return wFromWetBulb(twb, t, p) - humidityRatio(rh*satPress(t), p)
	}
	flo, fhi := f(solveTempLow), f(hi)
	if math.Signbit(flo) == math.Signbit(fhi) && math.Abs(flo) >= wetBulbRHTol && math.Abs(fhi) >= wetBulbRHTol {
		return 0, 0, domainErr(op, "wet bulb %g °F never reaches %g%% RH between %g and %g °F", twb, rh*100, solveTempLow, hi)
	}
	res, err := rootfind.Bisect(f, solveTempLow, hi,
		rootfind.WithOp(op),
		rootfind.WithTolerance(wetBulbRHTol),
	)
	if err != nil {
		return 0, 0, err
	}
	return res.X, rh * satPress(res.X), nil
}

// solveCeiling is the upper bracket for the temperature searches: 200 °F,
// or just under the point where rh*Psat reaches the total pressure.
func solveCeiling(op string, p, rh float64) (float64, error) {
	if rh == 0 || rh*satPress(solveTempHigh) < p {
		return solveTempHigh, nil
	}
	t, err := TempFromRHVaporPressure(rh, 0.99*p)
	if err != nil {
		return 0, err
	}
	if t <= solveTempLow {
		return 0, domainErr(op, "total pressure %g psia is too low", p)
	}
	return t, nil
}

// HumidityRatioSlopeAtWetBulb is dω/dT along the constant wet bulb line twb,
// evaluated at dry bulb tdb.
func HumidityRatioSlopeAtWetBulb(twb, tdb, p float64) (float64, error) {
	const op = "HumidityRatioSlopeAtWetBulb"
	if err := checkTemp(op, twb); err != nil {
		return 0, err
	}
	if err := checkTemp(op, tdb); err != nil {
		return 0, err
	}
	if err := checkPressure(op, p); err != nil {
		return 0, err
	}
	ws := satHumidityRatio(twb, p)
	high := (1093-0.556*twb)*ws - 0.24*(tdb-twb)
	low := 1093 + 0.444*tdb - twb
	return (low*-0.24 - high*0.444) / (low * low), nil
}
