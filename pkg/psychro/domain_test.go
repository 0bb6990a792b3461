package psychro

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDomain(t *testing.T) {
	d := DefaultDomain()
	require.NoError(t, d.Validate())

	assert.InDelta(t, 0.6763, d.MaxVaporPressure(), 1e-3)

	cut, err := d.TempAtCutoff()
	require.NoError(t, err)
	assert.InDelta(t, 88.95, cut, 0.05)

	ul, err := d.UpperLeftBorderTemp()
	require.NoError(t, err)
	assert.InDelta(t, cut-0.05*88, ul, 1e-9)

	assert.InDelta(t, satPress(32)+0.05*d.MaxVaporPressure(), d.BottomLeftBorderPv(), 1e-12)
}

func TestDomainValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Domain)
	}{
		{"min below range", func(d *Domain) { d.MinTemp = 5 }},
		{"max above range", func(d *Domain) { d.MaxTemp = 190 }},
		{"inverted", func(d *Domain) { d.MinTemp, d.MaxTemp = 100, 60 }},
		{"equal", func(d *Domain) { d.MaxTemp = d.MinTemp }},
		{"low pressure", func(d *Domain) { d.Pressure = 10 }},
		{"high pressure", func(d *Domain) { d.Pressure = 20 }},
		{"zero humidity ratio", func(d *Domain) { d.MaxHumidityRatio = 0 }},
		{"humidity ratio too big", func(d *Domain) { d.MaxHumidityRatio = 0.08 }},
		{"nan", func(d *Domain) { d.Pressure = math.NaN() }},
		{"saturated at min temp", func(d *Domain) { d.MinTemp, d.MaxHumidityRatio = 90, 0.01 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DefaultDomain()
			tt.mod(&d)
			var derr *DomainError
			assert.ErrorAs(t, d.Validate(), &derr)
		})
	}
}

func TestDomainContains(t *testing.T) {
	d := DefaultDomain()
	assert.True(t, d.Contains(75, 0.2, 0))
	assert.True(t, d.Contains(32, 0, 0))
	assert.False(t, d.Contains(31, 0.01, 0))
	assert.False(t, d.Contains(121, 0.01, 0))
	assert.False(t, d.Contains(60, satPress(60)+0.01, 0))
	assert.False(t, d.Contains(110, d.MaxVaporPressure()+0.01, 0))
	assert.True(t, d.Contains(60, satPress(60)+0.001, 0.01))
}

func TestAltitudePressure(t *testing.T) {
	assert.InDelta(t, StandardPressure, PressureFromAltitude(0), 1e-12)
	assert.InDelta(t, 12.23, PressureFromAltitude(5000), 0.02)
	assert.InDelta(t, 5000, AltitudeFromPressure(PressureFromAltitude(5000)), 1e-6)
}
