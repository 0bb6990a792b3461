package env

import (
	"context"
	"log/slog"

	"github.com/mikesmitty/psychro-chart/pkg/psychro"
	"github.com/mikesmitty/psychro-chart/pkg/swma"
)

// NewChannel smooths each reading channel over window samples and turns the
// result into an Env. Readings the engine rejects are logged and skipped.
func NewChannel(ctx context.Context, domain psychro.Domain, readings <-chan Reading, window int) (<-chan Env, func() error) {
	c := make(chan Env, 1)
	temp := swma.NewSlidingWindow(window)
	humidity := swma.NewSlidingWindow(window)
	return c, func() error {
		defer close(c)
		for {
			var r Reading
			var ok bool
			select {
			case <-ctx.Done():
				return ctx.Err()
			case r, ok = <-readings:
				if !ok {
					return nil
				}
			}

			smoothed := Reading{
				Temperature: temp.Add(r.Temperature),
				Humidity:    humidity.Add(r.Humidity),
				Time:        r.Time,
			}
			e, err := New(domain, smoothed)
			if err != nil {
				slog.Warn("dropping reading", "module", "env", "temperature", r.Temperature, "humidity", r.Humidity, "error", err)
				temp.Reset()
				humidity.Reset()
				continue
			}
			slog.Debug("env", "module", "env", "dryBulb", e.DryBulb, "dewPoint", e.DewPoint, "clamped", e.Clamped)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case c <- e:
			}
		}
	}
}
