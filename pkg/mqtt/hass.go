package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	HassSensorGeneric HassSensorType = iota
	HassSensorTemperature
	HassSensorHumidity
	HassSensorPressure
	HassSensorHumidityRatio
	HassSensorEnthalpy
	HassSensorSpecificVolume
	HassSensorTemperatureRate
)

const hassStatusTopic = "homeassistant/status"

type HassSensorType int

type HassSensor struct {
	configTopic       string
	Name              string     `json:"name"`
	UniqueID          string     `json:"unique_id"`
	Device            HassDevice `json:"device,omitempty"`
	DeviceClass       string     `json:"device_class,omitempty"`
	StateClass        string     `json:"state_class,omitempty"`
	StateTopic        string     `json:"state_topic"`
	AvailabilityTopic string     `json:"availability_topic,omitempty"`
	UnitOfMeasurement string     `json:"unit_of_measurement,omitempty"`
	Icon              string     `json:"icon,omitempty"`
}

type HassDevice struct {
	Name        string   `json:"name,omitempty"`
	Identifiers []string `json:"identifiers,omitempty"`
	Model       string   `json:"model,omitempty"`
}

// HomeAssistant announces the sensors now and again whenever Home Assistant
// comes back online.
func (c *Client) HomeAssistant() error {
	c.HassAnnounceAll()
	return c.Subscribe(hassStatusTopic, func(client paho.Client, msg paho.Message) {
		payload := string(msg.Payload())
		slog.Info("homeassistant status watcher", "module", "mqtt", "status", payload)
		if payload == payloadOnline {
			c.HassAnnounceAll()
		}
	})
}

func (c *Client) HassAnnounceAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	slog.Info("announcing homeassistant sensors", "module", "mqtt", "count", len(c.hassSensors))
	for _, sensor := range c.hassSensors {
		c.HassAnnounceSensor(sensor)
	}
}

func (c *Client) NewHassSensor(name string, sensorType HassSensorType) HassSensor {
	var deviceClass, unit, icon string
	switch sensorType {
	case HassSensorTemperature:
		deviceClass = "temperature"
		unit = "°F"
	case HassSensorHumidity:
		deviceClass = "humidity"
		unit = "%"
	case HassSensorPressure:
		deviceClass = "pressure"
		unit = "psi"
	case HassSensorHumidityRatio:
		unit = "lb/lb"
		icon = "mdi:water-percent"
	case HassSensorEnthalpy:
		unit = "Btu/lb"
		icon = "mdi:fire"
	case HassSensorSpecificVolume:
		unit = "ft³/lb"
		icon = "mdi:cube-outline"
	case HassSensorTemperatureRate:
		unit = "°F/h"
		icon = "mdi:trending-up"
	}
	return HassSensor{
		Name: name,
		Device: HassDevice{
			Name:  cases.Title(language.English).String(c.clientID),
			Model: "psychro-chart",
		},
		StateClass:        "measurement",
		StateTopic:        c.topicPrefix + "/sensor/" + slugify(name),
		AvailabilityTopic: c.availabilityTopic,
		DeviceClass:       deviceClass,
		UnitOfMeasurement: unit,
		Icon:              icon,
	}
}

func (c *Client) RegisterHassSensor(sensor HassSensor) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sensor.UniqueID == "" {
		sensor.UniqueID = slugify(sensor.Device.Name + "_" + sensor.Name)
	}
	if len(sensor.Device.Identifiers) == 0 {
		sensor.Device.Identifiers = []string{slugify(sensor.Device.Name)}
	}
	sensor.configTopic = "homeassistant/sensor/" + sensor.UniqueID + "/config"
	c.hassSensors[sensor.UniqueID] = sensor
	return sensor.UniqueID
}

func (c *Client) HassAnnounceSensor(sensor HassSensor) {
	payload, err := json.Marshal(sensor)
	if err != nil {
		slog.Error("json marshal error", "error", err, "module", "mqtt", "sensor", sensor.Name)
		return
	}
	c.publishRetained(sensor.configTopic, string(payload))
}

func (c *Client) HassPublishSensor(uniqueID, state string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	sensor, ok := c.hassSensors[uniqueID]
	if !ok {
		return fmt.Errorf("sensor not found: %s", uniqueID)
	}
	c.Publish(sensor.StateTopic, state)
	return nil
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}
