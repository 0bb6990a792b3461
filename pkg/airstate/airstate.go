// Package airstate holds one point on the chart: a dry bulb temperature,
// one independent driver property and everything derived from the pair.
package airstate

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/mikesmitty/psychro-chart/pkg/psychro"
)

type Driver int

const (
	DriverHumidityRatio Driver = iota
	DriverRelativeHumidity
	DriverWetBulb
)

func (d Driver) String() string {
	switch d {
	case DriverHumidityRatio:
		return "w"
	case DriverRelativeHumidity:
		return "rh"
	case DriverWetBulb:
		return "twb"
	}
	return fmt.Sprintf("Driver(%d)", int(d))
}

func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(s) {
	case "w", "humidity-ratio", "omega":
		return DriverHumidityRatio, nil
	case "rh", "relative-humidity":
		return DriverRelativeHumidity, nil
	case "twb", "wb", "wet-bulb":
		return DriverWetBulb, nil
	}
	return 0, fmt.Errorf("unknown driver %q", s)
}

// Properties is a full property set. RelativeHumidity is in percent.
type Properties struct {
	DryBulb          float64 `json:"dryBulb"`
	HumidityRatio    float64 `json:"humidityRatio"`
	VaporPressure    float64 `json:"vaporPressure"`
	RelativeHumidity float64 `json:"relativeHumidity"`
	WetBulb          float64 `json:"wetBulb"`
	DewPoint         float64 `json:"dewPoint"`
	Enthalpy         float64 `json:"enthalpy"`
	SpecificVolume   float64 `json:"specificVolume"`
}

// DriverValue returns the property d selects.
func (p Properties) DriverValue(d Driver) float64 {
	switch d {
	case DriverRelativeHumidity:
		return p.RelativeHumidity
	case DriverWetBulb:
		return p.WetBulb
	}
	return p.HumidityRatio
}

func (p Properties) withDriverValue(d Driver, v float64) Properties {
	switch d {
	case DriverRelativeHumidity:
		p.RelativeHumidity = v
	case DriverWetBulb:
		p.WetBulb = v
	default:
		p.HumidityRatio = v
	}
	return p
}

// State is not safe for concurrent use.
type State struct {
	domain psychro.Domain
	driver Driver
	props  Properties
}

// New builds a state at dry bulb tdb with the driver set to value. The
// inputs are clamped into the chart the same way later edits are.
func New(domain psychro.Domain, tdb float64, driver Driver, value float64) (*State, error) {
	if err := domain.Validate(); err != nil {
		return nil, err
	}
	next := Properties{DryBulb: tdb}.withDriverValue(driver, value)
	props, err := Clamp(domain, driver, next, nil)
	if err != nil {
		return nil, err
	}
	return &State{domain: domain, driver: driver, props: props}, nil
}

// NewRandom picks a whole degree dry bulb in [MinTemp, MaxTemp) and a
// humidity ratio below saturation and the chart top, rounded to 0.001.
func NewRandom(domain psychro.Domain, driver Driver, rng *rand.Rand) (*State, error) {
	if err := domain.Validate(); err != nil {
		return nil, err
	}
	lo := math.Ceil(domain.MinTemp)
	n := int(math.Ceil(domain.MaxTemp) - lo)
	tdb := lo
	if n > 0 {
		tdb += float64(rng.IntN(n))
	}
	ws, err := psychro.SaturationHumidityRatio(tdb, domain.Pressure)
	if err != nil {
		return nil, err
	}
	w := math.Floor(rng.Float64()*math.Min(ws, domain.MaxHumidityRatio)*1000) / 1000

	s, err := New(domain, tdb, DriverHumidityRatio, w)
	if err != nil {
		return nil, err
	}
	s.SetDriver(driver)
	return s, nil
}

func (s *State) Domain() psychro.Domain {
	return s.domain
}

func (s *State) Driver() Driver {
	return s.driver
}

func (s *State) Properties() Properties {
	return s.props
}

// SetDriver changes which property is held fixed on later edits. The current
// point does not move.
func (s *State) SetDriver(d Driver) {
	s.driver = d
}

// SetDryBulb moves the dry bulb and recomputes. On error the state is left
// unchanged.
func (s *State) SetDryBulb(tdb float64) error {
	next := s.props
	next.DryBulb = tdb
	return s.apply(next)
}

// SetDriverValue edits the driver property and recomputes.
func (s *State) SetDriverValue(v float64) error {
	return s.apply(s.props.withDriverValue(s.driver, v))
}

// SetDomain moves the state onto a new chart, clamping it if needed.
func (s *State) SetDomain(domain psychro.Domain) error {
	if err := domain.Validate(); err != nil {
		return err
	}
	props, err := Clamp(domain, s.driver, s.props, nil)
	if err != nil {
		return err
	}
	s.domain = domain
	s.props = props
	return nil
}

func (s *State) apply(next Properties) error {
	prev := s.props
	props, err := Clamp(s.domain, s.driver, next, &prev)
	if err != nil {
		return err
	}
	s.props = props
	return nil
}
