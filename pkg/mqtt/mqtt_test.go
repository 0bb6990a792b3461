package mqtt

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikesmitty/psychro-chart/pkg/dewpoint"
	"github.com/mikesmitty/psychro-chart/pkg/env"
	"github.com/mikesmitty/psychro-chart/pkg/psychro"
)

type doneToken struct{}

func (doneToken) Wait() bool { return true }
func (doneToken) WaitTimeout(time.Duration) bool { return true }
func (doneToken) Done() <-chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}
func (doneToken) Error() error { return nil }

type published struct {
	topic    string
	retained bool
	payload  string
}

// fakeClient records publishes and keeps subscription handlers so tests can
// deliver messages. Anything else panics through the nil embedded Client.
type fakeClient struct {
	paho.Client
	mu       sync.Mutex
	messages []published
	handlers map[string]paho.MessageHandler
}

func newFakeClient() *fakeClient {
	return &fakeClient{handlers: make(map[string]paho.MessageHandler)}
}

func (f *fakeClient) IsConnected() bool { return true }

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, published{topic: topic, retained: retained, payload: payload.(string)})
	return doneToken{}
}

func (f *fakeClient) Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[topic] = callback
	return doneToken{}
}

func (f *fakeClient) deliver(topic, payload string) {
	f.mu.Lock()
	h := f.handlers[topic]
	f.mu.Unlock()
	h(f, fakeMessage{topic: topic, payload: []byte(payload)})
}

func (f *fakeClient) last(topic string) (published, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].topic == topic {
			return f.messages[i], true
		}
	}
	return published{}, false
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (fakeMessage) Duplicate() bool { return false }
func (fakeMessage) Qos() byte { return 1 }
func (fakeMessage) Retained() bool { return false }
func (m fakeMessage) Topic() string { return m.topic }
func (fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte { return m.payload }
func (fakeMessage) Ack() {}

func TestNewHassSensor(t *testing.T) {
	c := newClient(newFakeClient(), "attic pi", "psychro-chart/attic", 1)
	s := c.NewHassSensor("Dew Point", HassSensorTemperature)
	assert.Equal(t, "Attic Pi", s.Device.Name)
	assert.Equal(t, "temperature", s.DeviceClass)
	assert.Equal(t, "°F", s.UnitOfMeasurement)
	assert.Equal(t, "psychro-chart/attic/sensor/dew_point", s.StateTopic)
	assert.Equal(t, "psychro-chart/attic/availability", s.AvailabilityTopic)

	id := c.RegisterHassSensor(s)
	assert.Equal(t, "attic_pi_dew_point", id)
	assert.Error(t, c.HassPublishSensor("missing", "1"))
}

func TestHassAnnounce(t *testing.T) {
	fc := newFakeClient()
	c := newClient(fc, "attic", "psychro-chart/attic", 1)
	id := c.RegisterHassSensor(c.NewHassSensor("Enthalpy", HassSensorEnthalpy))
	require.NoError(t, c.HomeAssistant())

	msg, ok := fc.last("homeassistant/sensor/" + id + "/config")
	require.True(t, ok)
	assert.True(t, msg.retained)
	var cfg map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg.payload), &cfg))
	assert.Equal(t, "Btu/lb", cfg["unit_of_measurement"])
	assert.Equal(t, id, cfg["unique_id"])

	fc.mu.Lock()
	n := len(fc.messages)
	fc.mu.Unlock()
	fc.deliver(hassStatusTopic, "online")
	fc.mu.Lock()
	assert.Len(t, fc.messages, 2*n)
	fc.mu.Unlock()
}

func TestParseReading(t *testing.T) {
	r, err := parseReading([]byte(`{"temperature": 72.5, "humidity": 41}`))
	require.NoError(t, err)
	assert.Equal(t, 72.5, r.Temperature)
	assert.Equal(t, 41.0, r.Humidity)
	assert.True(t, r.Time.IsZero())

	_, err = parseReading([]byte(`{"temperature": 72.5}`))
	assert.Error(t, err)
	_, err = parseReading([]byte(`not json`))
	assert.Error(t, err)
}

func TestReadingChannel(t *testing.T) {
	fc := newFakeClient()
	c := newClient(fc, "attic", "psychro-chart/attic", 1)
	ch, err := c.ReadingChannel("sensors/attic")
	require.NoError(t, err)

	fc.deliver("sensors/attic", `{"temperature": 70, "humidity": 30}`)
	fc.deliver("sensors/attic", `{"temperature": 70}`)
	r := <-ch
	assert.Equal(t, 70.0, r.Temperature)
	assert.False(t, r.Time.IsZero())
	assert.Empty(t, ch)
}

func TestPublisher(t *testing.T) {
	fc := newFakeClient()
	c := newClient(fc, "attic", "psychro-chart/attic", 2)
	envCh := make(chan env.Env, 4)
	trendCh := make(chan dewpoint.Trend, 2)

	e, err := env.New(psychro.DefaultDomain(), env.Reading{Temperature: 75, Humidity: 50})
	require.NoError(t, err)
	envCh <- e
	envCh <- e
	trendCh <- dewpoint.Trend{PerHour: 1.25}
	trendCh <- dewpoint.Trend{PerHour: -0.5}
	close(envCh)
	close(trendCh)

	require.NoError(t, c.GetPublisher(context.Background(), envCh, trendCh)())

	msg, ok := fc.last("psychro-chart/attic/sensor/dry_bulb")
	require.True(t, ok)
	assert.Equal(t, "75.00", msg.payload)
	msg, ok = fc.last("psychro-chart/attic/sensor/relative_humidity")
	require.True(t, ok)
	assert.Equal(t, "50.00", msg.payload)
	msg, ok = fc.last("psychro-chart/attic/sensor/dew_point_trend")
	require.True(t, ok)
	assert.Equal(t, "-0.500", msg.payload)
}

func TestPublisherDisabled(t *testing.T) {
	fc := newFakeClient()
	c := newClient(fc, "attic", "psychro-chart/attic", 1)
	c.DisablePublishing()
	envCh := make(chan env.Env, 1)
	e, err := env.New(psychro.DefaultDomain(), env.Reading{Temperature: 75, Humidity: 50})
	require.NoError(t, err)
	envCh <- e
	close(envCh)

	require.NoError(t, c.GetPublisher(context.Background(), envCh, nil)())
	_, ok := fc.last("psychro-chart/attic/sensor/dry_bulb")
	assert.False(t, ok)
}

func TestAvailability(t *testing.T) {
	fc := newFakeClient()
	c := newClient(fc, "attic", "psychro-chart/attic", 1)
	require.NoError(t, c.SetUnavailable())
	msg, _ := fc.last(c.availabilityTopic)
	assert.Equal(t, "offline", msg.payload)
	assert.True(t, msg.retained)
	require.NoError(t, c.SetAvailable())
	msg, _ = fc.last(c.availabilityTopic)
	assert.Equal(t, "online", msg.payload)
}

func TestSwitch(t *testing.T) {
	fc := newFakeClient()
	c := newClient(fc, "attic", "psychro-chart/attic", 1)
	ctx, cancel := context.WithCancel(context.Background())

	run := c.SwitchFn(ctx, "publish", c.EnablePublishing, c.DisablePublishing, c.Publishing)
	done := make(chan error, 1)
	go func() { done <- run() }()

	command := "psychro-chart/attic/switch/publish/command"
	require.Eventually(t, func() bool {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		_, ok := fc.handlers[command]
		return ok
	}, time.Second, 5*time.Millisecond)

	fc.deliver(command, "OFF")
	assert.False(t, c.Publishing())
	msg, ok := fc.last("psychro-chart/attic/switch/publish/state")
	require.True(t, ok)
	assert.Equal(t, "OFF", msg.payload)

	fc.deliver(command, "ON")
	assert.True(t, c.Publishing())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestSample(t *testing.T) {
	s := NewSample(3)
	got := []bool{s.Ready(), s.Ready(), s.Ready(), s.Ready()}
	assert.Equal(t, []bool{false, false, true, false}, got)
	assert.True(t, NewSample(0).Ready())
}
