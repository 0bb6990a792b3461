package dewpoint

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/mikesmitty/psychro-chart/pkg/env"
	"github.com/mikesmitty/psychro-chart/pkg/stats"
)

// Trend is the dew point drift fitted over the recent readings.
type Trend struct {
	DewPoint float64   `json:"dewPoint"`
	PerHour  float64   `json:"perHour"`
	Spread   float64   `json:"spread"`
	Time     time.Time `json:"time"`
}

// NewTrend fits the dew point of the last window readings against time.
// Nothing is sent until the window has filled.
func NewTrend(ctx context.Context, envChan <-chan env.Env, window int) (<-chan Trend, func() error) {
	c := make(chan Trend, 1)
	s := stats.NewStats(window)
	return c, func() error {
		defer close(c)
		for {
			var e env.Env
			var ok bool
			select {
			case <-ctx.Done():
				return ctx.Err()
			case e, ok = <-envChan:
				if !ok {
					return nil
				}
			}

			ts := e.Time
			if ts.IsZero() {
				ts = time.Now()
			}
			s.Add(ts, e.DewPoint)
			if !s.Full() {
				continue
			}
			tr := Trend{
				DewPoint: e.DewPoint,
				PerHour:  s.SlopePerHour(),
				Spread:   s.QuantileSpread(0.9),
				Time:     ts,
			}
			if math.IsNaN(tr.PerHour) {
				continue
			}
			slog.Debug("dewpoint trend", "module", "dewpoint", "perHour", tr.PerHour, "spread", tr.Spread)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case c <- tr:
			}
		}
	}
}
