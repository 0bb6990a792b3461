package mqtt

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const switchStateInterval = 5 * time.Second

// SwitchFn exposes an on/off switch: commands on <prefix>/switch/<name>/command
// call onFn or offFn and stateFn is reported on .../state every few seconds.
func (c *Client) SwitchFn(ctx context.Context, name string, onFn func(), offFn func(), stateFn func() bool) func() error {
	topicPrefix := fmt.Sprintf("%s/switch/%s/", c.topicPrefix, name)
	commandTopic := topicPrefix + "command"
	stateTopic := topicPrefix + "state"

	return func() error {
		t := time.NewTicker(switchStateInterval)
		defer t.Stop()

		for !c.client.IsConnected() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
			}
		}

		slog.Debug("subscribing to mqtt switch", "module", "mqtt", "switch", name, "topic", commandTopic)
		err := c.Subscribe(commandTopic, func(client paho.Client, msg paho.Message) {
			slog.Debug("mqtt switch command received", "module", "mqtt", "switch", name, "command", string(msg.Payload()))
			if bytes.Equal(msg.Payload(), []byte("ON")) {
				onFn()
			} else {
				offFn()
			}
			c.Publish(stateTopic, switchState(stateFn()))
		})
		if err != nil {
			return fmt.Errorf("switch %s: %w", name, err)
		}

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
				if !c.client.IsConnected() {
					slog.Error("mqtt client not connected", "module", "mqtt", "switch", name)
					continue
				}
				c.Publish(stateTopic, switchState(stateFn()))
			}
		}
	}
}

func switchState(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
