package watchdog

import (
	"context"
	"log/slog"
	"time"
)

// New watches input and calls timeout once when nothing arrives for a full
// interval, then resume on the first value after that.
func New[T any](ctx context.Context, interval time.Duration, timeout, resume func() error, input <-chan T) func() error {
	return func() error {
		t := time.NewTicker(interval)
		defer t.Stop()
		awake := true
		tripped := false
		slog.Debug("watchdog started", "module", "watchdog", "timeout", interval)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case _, ok := <-input:
				if !ok {
					return nil
				}
				awake = true
				if tripped {
					tripped = false
					slog.Info("watchdog resumed", "module", "watchdog")
					if err := resume(); err != nil {
						return err
					}
				}
			case <-t.C:
				if !awake && !tripped {
					tripped = true
					slog.Error("watchdog timeout, no readings", "module", "watchdog", "timeout", interval)
					if err := timeout(); err != nil {
						return err
					}
				}
				awake = false
			}
		}
	}
}
