package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/mikesmitty/psychro-chart/pkg/env"
)

const readingBuffer = 16

// ReadingChannel subscribes to topic and decodes each message as a JSON
// reading. Malformed messages are logged and dropped, as are readings that
// arrive while the channel is full.
func (c *Client) ReadingChannel(topic string) (<-chan env.Reading, error) {
	ch := make(chan env.Reading, readingBuffer)
	err := c.Subscribe(topic, func(client paho.Client, msg paho.Message) {
		r, err := parseReading(msg.Payload())
		if err != nil {
			slog.Warn("bad reading", "module", "mqtt", "topic", msg.Topic(), "error", err)
			return
		}
		if r.Time.IsZero() {
			r.Time = time.Now()
		}
		select {
		case ch <- r:
		default:
			slog.Warn("reading channel full, dropping reading", "module", "mqtt", "topic", msg.Topic())
		}
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func parseReading(payload []byte) (env.Reading, error) {
	var raw struct {
		Temperature *float64  `json:"temperature"`
		Humidity    *float64  `json:"humidity"`
		Time        time.Time `json:"time"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return env.Reading{}, fmt.Errorf("decoding reading: %w", err)
	}
	if raw.Temperature == nil || raw.Humidity == nil {
		return env.Reading{}, errors.New("reading needs both temperature and humidity")
	}
	return env.Reading{
		Temperature: *raw.Temperature,
		Humidity:    *raw.Humidity,
		Time:        raw.Time,
	}, nil
}
