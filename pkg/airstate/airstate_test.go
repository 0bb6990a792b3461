package airstate

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikesmitty/psychro-chart/pkg/psychro"
)

func checkOnChart(t *testing.T, d psychro.Domain, p Properties) {
	t.Helper()
	assert.GreaterOrEqual(t, p.DryBulb, d.MinTemp)
	assert.LessOrEqual(t, p.DryBulb, d.MaxTemp)
	assert.GreaterOrEqual(t, p.HumidityRatio, 0.0)
	assert.LessOrEqual(t, p.HumidityRatio, d.MaxHumidityRatio)
	ws, err := psychro.SaturationHumidityRatio(p.DryBulb, d.Pressure)
	require.NoError(t, err)
	assert.LessOrEqual(t, p.HumidityRatio, ws+1e-6)
	assert.GreaterOrEqual(t, p.RelativeHumidity, 0.0)
	assert.LessOrEqual(t, p.RelativeHumidity, 100.0)
	assert.LessOrEqual(t, p.DewPoint, p.WetBulb)
	assert.LessOrEqual(t, p.WetBulb, p.DryBulb)
	assert.Less(t, p.VaporPressure, d.Pressure)
}

func TestNewFromRelativeHumidity(t *testing.T) {
	d := psychro.DefaultDomain()
	s, err := New(d, 75, DriverRelativeHumidity, 50)
	require.NoError(t, err)

	p := s.Properties()
	assert.Equal(t, 75.0, p.DryBulb)
	assert.Equal(t, 50.0, p.RelativeHumidity)
	assert.InDelta(t, 0.2161, p.VaporPressure, 0.002)
	assert.InDelta(t, 0.00929, p.HumidityRatio, 1e-4)
	assert.InDelta(t, 62.5, p.WetBulb, 0.2)
	assert.InDelta(t, 55.2, p.DewPoint, 0.2)
	assert.InDelta(t, 28.1, p.Enthalpy, 0.2)
	assert.InDelta(t, 13.68, p.SpecificVolume, 0.02)
	checkOnChart(t, d, p)
}

func TestNewFromHumidityRatio(t *testing.T) {
	d := psychro.DefaultDomain()
	s, err := New(d, 95, DriverHumidityRatio, 0.015)
	require.NoError(t, err)

	p := s.Properties()
	assert.Equal(t, 0.015, p.HumidityRatio)
	assert.InDelta(t, 42.4, p.RelativeHumidity, 0.5)
	assert.InDelta(t, 14.35, p.SpecificVolume, 0.05)
	checkOnChart(t, d, p)
}

func TestNewFromWetBulb(t *testing.T) {
	d := psychro.DefaultDomain()
	s, err := New(d, 75, DriverWetBulb, 62.55)
	require.NoError(t, err)

	p := s.Properties()
	assert.Equal(t, 62.55, p.WetBulb)
	assert.InDelta(t, 50, p.RelativeHumidity, 0.5)
	checkOnChart(t, d, p)
}

func TestDriverEditAboveSaturationClampsDriver(t *testing.T) {
	d := psychro.DefaultDomain()
	s, err := New(d, 60, DriverHumidityRatio, 0.005)
	require.NoError(t, err)

	require.NoError(t, s.SetDriverValue(0.02))
	p := s.Properties()
	ws, err := psychro.SaturationHumidityRatio(60, d.Pressure)
	require.NoError(t, err)
	assert.Equal(t, 60.0, p.DryBulb)
	assert.InDelta(t, ws, p.HumidityRatio, 1e-6)
	assert.InDelta(t, 100, p.RelativeHumidity, 0.01)
	checkOnChart(t, d, p)
}

func TestDryBulbEditBelowSaturationRaisesDryBulb(t *testing.T) {
	d := psychro.DefaultDomain()
	s, err := New(d, 80, DriverHumidityRatio, 0.012)
	require.NoError(t, err)

	require.NoError(t, s.SetDryBulb(50))
	p := s.Properties()
	assert.Equal(t, 0.012, p.HumidityRatio)
	assert.Greater(t, p.DryBulb, 50.0)

	pv, err := psychro.VaporPressure(0.012, d.Pressure)
	require.NoError(t, err)
	sat, err := psychro.TempFromRHVaporPressure(1, pv)
	require.NoError(t, err)
	assert.InDelta(t, sat, p.DryBulb, 0.011)
	checkOnChart(t, d, p)
}

func TestRelativeHumidityAboveChartTop(t *testing.T) {
	d := psychro.DefaultDomain()

	// Driver edit limits the relative humidity.
	s, err := New(d, 110, DriverRelativeHumidity, 20)
	require.NoError(t, err)
	require.NoError(t, s.SetDriverValue(90))
	p := s.Properties()
	assert.Equal(t, 110.0, p.DryBulb)
	assert.InDelta(t, d.MaxHumidityRatio, p.HumidityRatio, 1e-6)
	assert.Less(t, p.RelativeHumidity, 90.0)
	checkOnChart(t, d, p)

	// Dry bulb edit slides down the RH line to the chart top instead.
	s, err = New(d, 80, DriverRelativeHumidity, 90)
	require.NoError(t, err)
	require.NoError(t, s.SetDryBulb(115))
	p = s.Properties()
	assert.Equal(t, 90.0, p.RelativeHumidity)
	assert.Less(t, p.DryBulb, 115.0)
	assert.InDelta(t, d.MaxHumidityRatio, p.HumidityRatio, 2e-4)
	checkOnChart(t, d, p)
}

func TestWetBulbClamps(t *testing.T) {
	d := psychro.DefaultDomain()

	s, err := New(d, 70, DriverWetBulb, 60)
	require.NoError(t, err)

	require.NoError(t, s.SetDriverValue(75))
	p := s.Properties()
	assert.Equal(t, 70.0, p.DryBulb)
	assert.Equal(t, 70.0, p.WetBulb)
	checkOnChart(t, d, p)

	require.NoError(t, s.SetDriverValue(20))
	p = s.Properties()
	assert.InDelta(t, 0, p.HumidityRatio, 1e-6)
	assert.Greater(t, p.WetBulb, 20.0)
	checkOnChart(t, d, p)

	s, err = New(d, 70, DriverWetBulb, 60)
	require.NoError(t, err)
	require.NoError(t, s.SetDryBulb(55))
	p = s.Properties()
	assert.Equal(t, 60.0, p.WetBulb)
	assert.Equal(t, 60.0, p.DryBulb)
	checkOnChart(t, d, p)
}

func TestDryBulbClampedToChart(t *testing.T) {
	d := psychro.DefaultDomain()
	s, err := New(d, 200, DriverRelativeHumidity, 10)
	require.NoError(t, err)
	assert.Equal(t, d.MaxTemp, s.Properties().DryBulb)

	require.NoError(t, s.SetDryBulb(-20))
	assert.Equal(t, d.MinTemp, s.Properties().DryBulb)
}

func TestClampIsIdempotent(t *testing.T) {
	d := psychro.DefaultDomain()
	inputs := []struct {
		driver Driver
		tdb    float64
		value  float64
	}{
		{DriverHumidityRatio, 75, 0.009},
		{DriverHumidityRatio, 40, 0.05},
		{DriverHumidityRatio, 150, -1},
		{DriverRelativeHumidity, 75, 50},
		{DriverRelativeHumidity, 118, 95},
		{DriverRelativeHumidity, 33, 140},
		{DriverWetBulb, 75, 62},
		{DriverWetBulb, 100, 99},
		{DriverWetBulb, 119, 10},
		{DriverWetBulb, 50, 70},
	}
	for _, in := range inputs {
		first, err := Clamp(d, in.driver, Properties{DryBulb: in.tdb}.withDriverValue(in.driver, in.value), nil)
		require.NoError(t, err, "%s %g %g", in.driver, in.tdb, in.value)
		checkOnChart(t, d, first)

		again, err := Clamp(d, in.driver, first, &first)
		require.NoError(t, err)
		assert.Equal(t, first, again, "%s %g %g", in.driver, in.tdb, in.value)
	}
}

func TestSaturatedState(t *testing.T) {
	d := psychro.DefaultDomain()
	s, err := New(d, 70, DriverRelativeHumidity, 100)
	require.NoError(t, err)
	p := s.Properties()
	assert.InDelta(t, 70, p.WetBulb, 0.02)
	assert.InDelta(t, 70, p.DewPoint, 0.1)
}

func TestBoneDryDewPoint(t *testing.T) {
	s, err := New(psychro.DefaultDomain(), 70, DriverHumidityRatio, 0)
	require.NoError(t, err)
	p := s.Properties()
	assert.Zero(t, p.VaporPressure)
	assert.Equal(t, -psychro.RankineOffset, p.DewPoint)
	assert.Zero(t, p.RelativeHumidity)
}

func TestNewRandom(t *testing.T) {
	d := psychro.DefaultDomain()
	rng := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		s, err := NewRandom(d, DriverRelativeHumidity, rng)
		require.NoError(t, err)
		p := s.Properties()
		assert.Equal(t, DriverRelativeHumidity, s.Driver())
		assert.Equal(t, float64(int(p.DryBulb)), p.DryBulb)
		assert.Less(t, p.DryBulb, d.MaxTemp)
		checkOnChart(t, d, p)
	}
}

func TestSetDriverKeepsPoint(t *testing.T) {
	s, err := New(psychro.DefaultDomain(), 75, DriverRelativeHumidity, 50)
	require.NoError(t, err)
	before := s.Properties()
	s.SetDriver(DriverWetBulb)
	assert.Equal(t, before, s.Properties())

	require.NoError(t, s.SetDryBulb(80))
	after := s.Properties()
	assert.Equal(t, before.WetBulb, after.WetBulb)
	assert.Less(t, after.RelativeHumidity, before.RelativeHumidity)
}

func TestInvalidInput(t *testing.T) {
	var derr *psychro.DomainError

	bad := psychro.DefaultDomain()
	bad.MaxTemp = bad.MinTemp
	_, err := New(bad, 70, DriverRelativeHumidity, 50)
	assert.ErrorAs(t, err, &derr)

	s, err := New(psychro.DefaultDomain(), 70, DriverRelativeHumidity, 50)
	require.NoError(t, err)
	before := s.Properties()
	assert.ErrorAs(t, s.SetDriverValue(math.NaN()), &derr)
	assert.Equal(t, before, s.Properties())
}

func TestParseDriver(t *testing.T) {
	for _, d := range []Driver{DriverHumidityRatio, DriverRelativeHumidity, DriverWetBulb} {
		got, err := ParseDriver(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	_, err := ParseDriver("enthalpy")
	assert.Error(t, err)
}
