package mqtt

import (
	"crypto/md5"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	publishTimeout = 5 * time.Second
	payloadOnline  = "online"
	payloadOffline = "offline"
)

type Client struct {
	client            paho.Client
	clientID          string
	topicPrefix       string
	availabilityTopic string
	qos               byte
	retained          bool
	sampleRate        int
	publishing        atomic.Bool
	hassSensors       map[string]HassSensor
	mu                sync.Mutex
}

func NewClient(broker *url.URL, sampleRate int) *Client {
	hostname, _ := os.Hostname()
	hostname = strings.Split(hostname, ".")[0]
	clientID := hostname
	if clientID == "" {
		now := time.Now().UnixNano()
		clientID = fmt.Sprintf("psychro-chart-%x", md5.Sum([]byte(strconv.FormatInt(now, 10))))
	}
	c := newClient(nil, clientID, "psychro-chart/"+clientID, sampleRate)

	slog.Info("connecting to mqtt", "module", "mqtt", "url", broker, "clientid", clientID)
	opts := paho.NewClientOptions().
		AddBroker(broker.String()).
		SetClientID(clientID).
		SetConnectRetry(true).
		SetConnectTimeout(30*time.Second).
		SetWill(c.availabilityTopic, payloadOffline, c.qos, true)
	c.client = paho.NewClient(opts)
	return c
}

func newClient(pc paho.Client, clientID, topicPrefix string, sampleRate int) *Client {
	c := &Client{
		client:            pc,
		clientID:          clientID,
		topicPrefix:       topicPrefix,
		availabilityTopic: topicPrefix + "/availability",
		qos:               1,
		sampleRate:        sampleRate,
		hassSensors:       make(map[string]HassSensor),
	}
	c.publishing.Store(true)
	return c
}

func (c *Client) Connect() error {
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		slog.Error("mqtt connection failed", "module", "mqtt", "error", token.Error())
		return token.Error()
	}
	return nil
}

func (c *Client) Disconnect() {
	c.publishRetained(c.availabilityTopic, payloadOffline)
	c.client.Disconnect(250)
}

func (c *Client) Subscribe(topic string, handler paho.MessageHandler) error {
	if token := c.client.Subscribe(topic, c.qos, handler); token.Wait() && token.Error() != nil {
		slog.Error("mqtt subscription failed", "module", "mqtt", "topic", topic, "error", token.Error())
		return token.Error()
	}
	return nil
}

// SetAvailable marks every sensor online. Home Assistant shows them
// unavailable after SetUnavailable or when the connection drops.
func (c *Client) SetAvailable() error {
	c.publishRetained(c.availabilityTopic, payloadOnline)
	return nil
}

func (c *Client) SetUnavailable() error {
	c.publishRetained(c.availabilityTopic, payloadOffline)
	return nil
}

// EnablePublishing and DisablePublishing gate the sensor state updates.
func (c *Client) EnablePublishing() {
	c.publishing.Store(true)
}

func (c *Client) DisablePublishing() {
	c.publishing.Store(false)
}

func (c *Client) Publishing() bool {
	return c.publishing.Load()
}

func (c *Client) Publish(topic string, msg string) {
	c.publish(topic, msg, c.retained)
}

func (c *Client) publishRetained(topic string, msg string) {
	c.publish(topic, msg, true)
}

func (c *Client) publish(topic, msg string, retained bool) {
	t := c.client.Publish(topic, c.qos, retained, msg)
	go func() {
		_ = t.WaitTimeout(publishTimeout)
		if t.Error() != nil {
			slog.Error("mqtt message publish failed", "module", "mqtt", "topic", topic, "error", t.Error())
		}
	}()
}
