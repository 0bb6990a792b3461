package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mikesmitty/psychro-chart/pkg/dewpoint"
	"github.com/mikesmitty/psychro-chart/pkg/env"
	"github.com/mikesmitty/psychro-chart/pkg/mqtt"
	"github.com/mikesmitty/psychro-chart/pkg/psychro"
	"github.com/mikesmitty/psychro-chart/pkg/router"
	"github.com/mikesmitty/psychro-chart/pkg/watchdog"
)

const publishSwitch = "publish"

var errShutdown = errors.New("shutdown requested")

type Config struct {
	Domain          psychro.Domain
	Broker          *url.URL
	ReadingTopic    string
	SampleInterval  int
	SmoothingWindow int
	TrendWindow     int
	WatchdogTimeout time.Duration
}

func (c Config) Validate() error {
	if err := c.Domain.Validate(); err != nil {
		return err
	}
	switch {
	case c.Broker == nil || c.Broker.Host == "":
		return errors.New("mqtt broker url is required")
	case c.ReadingTopic == "":
		return errors.New("reading topic is required")
	case c.SmoothingWindow < 1:
		return fmt.Errorf("smoothing window %d must be at least 1", c.SmoothingWindow)
	case c.TrendWindow < 2:
		return fmt.Errorf("trend window %d must be at least 2", c.TrendWindow)
	case c.WatchdogTimeout <= 0:
		return fmt.Errorf("watchdog timeout %s must be positive", c.WatchdogTimeout)
	}
	return nil
}

// sink is where the pipeline ends up. *mqtt.Client is the real one.
type sink interface {
	HomeAssistant() error
	GetPublisher(ctx context.Context, envChan <-chan env.Env, trendChan <-chan dewpoint.Trend) func() error
	SwitchFn(ctx context.Context, name string, onFn func(), offFn func(), stateFn func() bool) func() error
	SetAvailable() error
	SetUnavailable() error
	EnablePublishing()
	DisablePublishing()
	Publishing() bool
}

// Run connects to the broker and publishes the air state of every reading
// until ctx is done or the process is signalled.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	mc := mqtt.NewClient(cfg.Broker, cfg.SampleInterval)
	if err := mc.Connect(); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	defer mc.Disconnect()

	readings, err := mc.ReadingChannel(cfg.ReadingTopic)
	if err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	return run(ctx, cfg, mc, readings)
}

func run(parent context.Context, cfg Config, s sink, readings <-chan env.Reading) error {
	if err := s.HomeAssistant(); err != nil {
		return fmt.Errorf("homeassistant: %w", err)
	}
	if err := s.SetAvailable(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(parent)

	readingFan := router.NewFan("reading", readings)
	envIn := readingFan.MustSubscribe("env")
	watchdogIn := readingFan.MustSubscribe("watchdog")
	g.Go(func() error { return readingFan.Run(ctx) })

	envCh, envFn := env.NewChannel(ctx, cfg.Domain, envIn, cfg.SmoothingWindow)
	slog.Debug("starting env", "module", "monitor", "window", cfg.SmoothingWindow)
	g.Go(envFn)
	envFan := router.NewFan("env", envCh)
	publishIn := envFan.MustSubscribe("mqtt")
	trendIn := envFan.MustSubscribe("dewpoint")
	g.Go(func() error { return envFan.Run(ctx) })

	trendCh, trendFn := dewpoint.NewTrend(ctx, trendIn, cfg.TrendWindow)
	slog.Debug("starting dewpoint trend", "module", "monitor", "window", cfg.TrendWindow)
	g.Go(trendFn)

	g.Go(s.GetPublisher(ctx, publishIn, trendCh))
	g.Go(s.SwitchFn(ctx, publishSwitch, s.EnablePublishing, s.DisablePublishing, s.Publishing))
	g.Go(watchdog.New(ctx, cfg.WatchdogTimeout, s.SetUnavailable, s.SetAvailable, watchdogIn))

	chanSignal := make(chan os.Signal, 1)
	signal.Notify(chanSignal, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)
	defer signal.Stop(chanSignal)
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-chanSignal:
			slog.Info("shutting down...", "module", "monitor", "signal", sig)
			return errShutdown
		}
	})

	slog.Debug("waiting for goroutines to finish", "module", "monitor")
	err := g.Wait()
	switch {
	case errors.Is(err, errShutdown):
		return nil
	case parent.Err() != nil && errors.Is(err, parent.Err()):
		return nil
	}
	return err
}
