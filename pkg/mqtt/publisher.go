package mqtt

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/mikesmitty/psychro-chart/pkg/dewpoint"
	"github.com/mikesmitty/psychro-chart/pkg/env"
)

type envSensors struct {
	dryBulb, relativeHumidity, humidityRatio, vaporPressure string
	wetBulb, dewPoint, enthalpy, specificVolume             string
}

func (c *Client) registerEnvSensors() envSensors {
	return envSensors{
		dryBulb:          c.RegisterHassSensor(c.NewHassSensor("Dry Bulb", HassSensorTemperature)),
		relativeHumidity: c.RegisterHassSensor(c.NewHassSensor("Relative Humidity", HassSensorHumidity)),
		humidityRatio:    c.RegisterHassSensor(c.NewHassSensor("Humidity Ratio", HassSensorHumidityRatio)),
		vaporPressure:    c.RegisterHassSensor(c.NewHassSensor("Vapor Pressure", HassSensorPressure)),
		wetBulb:          c.RegisterHassSensor(c.NewHassSensor("Wet Bulb", HassSensorTemperature)),
		dewPoint:         c.RegisterHassSensor(c.NewHassSensor("Dew Point", HassSensorTemperature)),
		enthalpy:         c.RegisterHassSensor(c.NewHassSensor("Enthalpy", HassSensorEnthalpy)),
		specificVolume:   c.RegisterHassSensor(c.NewHassSensor("Specific Volume", HassSensorSpecificVolume)),
	}
}

// GetPublisher registers a sensor per air state property and publishes each
// sampled Env and dew point trend until both channels close or ctx is done.
func (c *Client) GetPublisher(ctx context.Context, envChan <-chan env.Env, trendChan <-chan dewpoint.Trend) func() error {
	sensors := c.registerEnvSensors()
	trendSensor := c.RegisterHassSensor(c.NewHassSensor("Dew Point Trend", HassSensorTemperatureRate))

	envSample := NewSample(c.sampleRate)
	trendSample := NewSample(c.sampleRate)

	return func() error {
		for envChan != nil || trendChan != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case e, ok := <-envChan:
				if !ok {
					envChan = nil
					continue
				}
				if !envSample.Ready() || !c.Publishing() {
					continue
				}
				slog.Debug("mqtt publishing", "module", "mqtt", "field", "env", "dryBulb", e.DryBulb, "clamped", e.Clamped)
				c.publishEnv(sensors, e)
			case tr, ok := <-trendChan:
				if !ok {
					trendChan = nil
					continue
				}
				if !trendSample.Ready() || !c.Publishing() {
					continue
				}
				slog.Debug("mqtt publishing", "module", "mqtt", "field", "trend", "value", tr.PerHour)
				c.HassPublishSensor(trendSensor, strconv.FormatFloat(tr.PerHour, 'f', 3, 64))
			}
		}
		return nil
	}
}

func (c *Client) publishEnv(s envSensors, e env.Env) {
	c.HassPublishSensor(s.dryBulb, strconv.FormatFloat(e.DryBulb, 'f', 2, 64))
	c.HassPublishSensor(s.relativeHumidity, strconv.FormatFloat(e.RelativeHumidity, 'f', 2, 64))
	c.HassPublishSensor(s.humidityRatio, strconv.FormatFloat(e.HumidityRatio, 'f', 5, 64))
	c.HassPublishSensor(s.vaporPressure, strconv.FormatFloat(e.VaporPressure, 'f', 5, 64))
	c.HassPublishSensor(s.wetBulb, strconv.FormatFloat(e.WetBulb, 'f', 2, 64))
	c.HassPublishSensor(s.dewPoint, strconv.FormatFloat(e.DewPoint, 'f', 2, 64))
	c.HassPublishSensor(s.enthalpy, strconv.FormatFloat(e.Enthalpy, 'f', 3, 64))
	c.HassPublishSensor(s.specificVolume, strconv.FormatFloat(e.SpecificVolume, 'f', 3, 64))
}
