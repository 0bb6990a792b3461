package psychro

const (
	// Ratio of the molecular masses of water vapor and dry air.
	molRatio = 0.621945
	// Rda/144, ft³·psia/(lb·°R).
	volumeCoeff = 0.370486
	// 1/molRatio
	volumeMoistCoeff = 1.607858
	// DryAirGasConstant in ft·lbf/(lb·°R).
	DryAirGasConstant = 53.35

	// Humidity ratios below this are treated as bone dry.
	humidityRatioEpsilon = 1e-6

	cpAir       = 0.24
	cpVapor     = 0.445
	hfgEnthalpy = 1061.0
)

// HumidityRatio returns ω (lb/lb) for vapor pressure pv in total pressure p.
// Valid for 0 <= pv < p.
func HumidityRatio(pv, p float64) (float64, error) {
	const op = "HumidityRatio"
	if err := checkPressure(op, p); err != nil {
		return 0, err
	}
	if !finite(pv) || pv < 0 {
		return 0, domainErr(op, "vapor pressure %g psia must be non-negative", pv)
	}
	if pv >= p {
		return 0, domainErr(op, "vapor pressure %g psia must be below total pressure %g psia", pv, p)
	}
	return humidityRatio(pv, p), nil
}

func humidityRatio(pv, p float64) float64 {
	return molRatio * pv / (p - pv)
}

// VaporPressure is the inverse of HumidityRatio. Humidity ratios within
// 1e-6 of zero return 0.
func VaporPressure(w, p float64) (float64, error) {
	const op = "VaporPressure"
	if err := checkPressure(op, p); err != nil {
		return 0, err
	}
	if !finite(w) || w <= -humidityRatioEpsilon {
		return 0, domainErr(op, "humidity ratio %g must be non-negative", w)
	}
	return vaporPressure(w, p), nil
}

func vaporPressure(w, p float64) float64 {
	if w < humidityRatioEpsilon {
		return 0
	}
	return p / (1 + molRatio/w)
}

// VaporPressureFromTempRH returns pv for dry bulb temp °F at rh (0-1).
func VaporPressureFromTempRH(temp, rh float64) (float64, error) {
	const op = "VaporPressureFromTempRH"
	if err := checkRH(op, rh); err != nil {
		return 0, err
	}
	if err := checkTemp(op, temp); err != nil {
		return 0, err
	}
	return rh * satPress(temp), nil
}

// RelativeHumidity returns pv / Psat(temp) as a fraction.
func RelativeHumidity(temp, pv float64) (float64, error) {
	const op = "RelativeHumidity"
	if err := checkTemp(op, temp); err != nil {
		return 0, err
	}
	if !finite(pv) || pv < 0 {
		return 0, domainErr(op, "vapor pressure %g psia must be non-negative", pv)
	}
	return pv / satPress(temp), nil
}

// SaturationHumidityRatio is ω at saturation for temp °F. Fails once the
// saturation pressure reaches the total pressure (boiling).
func SaturationHumidityRatio(temp, p float64) (float64, error) {
	const op = "SaturationHumidityRatio"
	if err := checkTemp(op, temp); err != nil {
		return 0, err
	}
	if err := checkPressure(op, p); err != nil {
		return 0, err
	}
	ps := satPress(temp)
	if ps >= p {
		return 0, domainErr(op, "saturation pressure %g psia at %g °F reaches total pressure %g psia", ps, temp, p)
	}
	return humidityRatio(ps, p), nil
}

func satHumidityRatio(temp, p float64) float64 {
	return humidityRatio(satPress(temp), p)
}

// Enthalpy in Btu/lb dry air.
func Enthalpy(temp, w float64) (float64, error) {
	const op = "Enthalpy"
	if !finite(temp, w) {
		return 0, domainErr(op, "non-finite input (temp %g, ω %g)", temp, w)
	}
	if w < 0 {
		return 0, domainErr(op, "humidity ratio %g must be non-negative", w)
	}
	return enthalpy(temp, w), nil
}

func enthalpy(temp, w float64) float64 {
	return cpAir*temp + w*(hfgEnthalpy+cpVapor*temp)
}

// HumidityRatioFromEnthalpyTemp solves Enthalpy for ω. The result is negative
// when h is below the dry air enthalpy at temp; callers decide what that means.
func HumidityRatioFromEnthalpyTemp(h, temp float64) (float64, error) {
	const op = "HumidityRatioFromEnthalpyTemp"
	if !finite(h) {
		return 0, domainErr(op, "enthalpy %g is not finite", h)
	}
	if err := checkTemp(op, temp); err != nil {
		return 0, err
	}
	return humidityRatioFromEnthalpy(h, temp), nil
}

func humidityRatioFromEnthalpy(h, temp float64) float64 {
	return (h - cpAir*temp) / (hfgEnthalpy + cpVapor*temp)
}

// VaporPressureFromEnthalpyTemp returns pv on the constant enthalpy line h
// at temp °F.
func VaporPressureFromEnthalpyTemp(h, temp, p float64) (float64, error) {
	w, err := HumidityRatioFromEnthalpyTemp(h, temp)
	if err != nil {
		return 0, err
	}
	return VaporPressure(w, p)
}

// TempFromEnthalpyVaporPressure returns the dry bulb where the constant
// enthalpy line h crosses vapor pressure pv.
func TempFromEnthalpyVaporPressure(h, pv, p float64) (float64, error) {
	w, err := HumidityRatio(pv, p)
	if err != nil {
		return 0, err
	}
	if !finite(h) {
		return 0, domainErr("TempFromEnthalpyVaporPressure", "enthalpy %g is not finite", h)
	}
	return tempFromEnthalpyW(h, w), nil
}

func tempFromEnthalpyW(h, w float64) float64 {
	return (h - w*hfgEnthalpy) / (cpAir + w*cpVapor)
}

// SpecificVolume in ft³/lb dry air.
func SpecificVolume(temp, w, p float64) (float64, error) {
	const op = "SpecificVolume"
	if err := checkTemp(op, temp); err != nil {
		return 0, err
	}
	if err := checkPressure(op, p); err != nil {
		return 0, err
	}
	if !finite(w) || w < 0 {
		return 0, domainErr(op, "humidity ratio %g must be non-negative", w)
	}
	return specificVolume(temp, w, p), nil
}

func specificVolume(temp, w, p float64) float64 {
	return volumeCoeff * (temp + RankineOffset) * (1 + volumeMoistCoeff*w) / p
}

// HumidityRatioFromSpecificVolumeTemp solves SpecificVolume for ω. A negative
// result means v is below the dry air volume at temp.
func HumidityRatioFromSpecificVolumeTemp(v, temp, p float64) (float64, error) {
	const op = "HumidityRatioFromSpecificVolumeTemp"
	if err := checkTemp(op, temp); err != nil {
		return 0, err
	}
	if err := checkPressure(op, p); err != nil {
		return 0, err
	}
	if !finite(v) || v <= 0 {
		return 0, domainErr(op, "specific volume %g must be positive", v)
	}
	return humidityRatioFromVolume(v, temp, p), nil
}

func humidityRatioFromVolume(v, temp, p float64) float64 {
	return (p*v/(volumeCoeff*(temp+RankineOffset)) - 1) / volumeMoistCoeff
}

// TempFromSpecificVolumeHumidityRatio returns the dry bulb with volume v at ω.
func TempFromSpecificVolumeHumidityRatio(v, w, p float64) (float64, error) {
	const op = "TempFromSpecificVolumeHumidityRatio"
	if err := checkPressure(op, p); err != nil {
		return 0, err
	}
	if !finite(v) || v <= 0 {
		return 0, domainErr(op, "specific volume %g must be positive", v)
	}
	if !finite(w) || w < 0 {
		return 0, domainErr(op, "humidity ratio %g must be non-negative", w)
	}
	return tempFromVolumeW(v, w, p), nil
}

func tempFromVolumeW(v, w, p float64) float64 {
	return v*p/(volumeCoeff*(1+volumeMoistCoeff*w)) - RankineOffset
}

// DPvDW is the slope of vapor pressure against humidity ratio (psia per
// lb/lb) at w.
func DPvDW(w, p float64) (float64, error) {
	const op = "DPvDW"
	if err := checkPressure(op, p); err != nil {
		return 0, err
	}
	if !finite(w) || w < 0 {
		return 0, domainErr(op, "humidity ratio %g must be non-negative", w)
	}
	return p * molRatio / ((molRatio + w) * (molRatio + w)), nil
}

// HumidityRatioSlopeAtEnthalpy is dω/dT along the constant enthalpy line h.
func HumidityRatioSlopeAtEnthalpy(h, temp float64) (float64, error) {
	const op = "HumidityRatioSlopeAtEnthalpy"
	if !finite(h) {
		return 0, domainErr(op, "enthalpy %g is not finite", h)
	}
	if err := checkTemp(op, temp); err != nil {
		return 0, err
	}
	den := hfgEnthalpy + cpVapor*temp
	return (-cpAir*hfgEnthalpy - cpVapor*h) / (den * den), nil
}
