package env

import (
	"math"
	"time"

	"github.com/mikesmitty/psychro-chart/pkg/airstate"
	"github.com/mikesmitty/psychro-chart/pkg/psychro"
)

// Reading is a raw sensor report: dry bulb in °F and relative humidity in
// percent.
type Reading struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Time        time.Time `json:"time,omitzero"`
}

// Env is a reading with every property of the air state it describes.
type Env struct {
	Reading
	airstate.Properties
	// Clamped is set when the reading fell off the chart and the properties
	// describe the nearest state on it.
	Clamped bool `json:"clamped"`
}

func New(domain psychro.Domain, r Reading) (Env, error) {
	s, err := airstate.New(domain, r.Temperature, airstate.DriverRelativeHumidity, r.Humidity)
	if err != nil {
		return Env{}, err
	}
	props := s.Properties()
	return Env{
		Reading:    r,
		Properties: props,
		Clamped: math.Abs(props.DryBulb-r.Temperature) > clampTolerance ||
			math.Abs(props.RelativeHumidity-r.Humidity) > clampTolerance,
	}, nil
}

const clampTolerance = 1e-6
