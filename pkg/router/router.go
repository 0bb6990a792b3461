package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Fan copies every value from one input channel to each subscriber. A slow
// subscriber holds up the others, so subscribers should keep draining until
// they unsubscribe.
type Fan[T any] struct {
	debug   bool
	name    string
	mu      sync.Mutex
	input   <-chan T
	outputs map[string]chan T
}

func NewFan[T any](name string, input <-chan T) *Fan[T] {
	return &Fan[T]{
		name:    name,
		input:   input,
		outputs: make(map[string]chan T),
	}
}

func (f *Fan[T]) SetDebug(debug bool) {
	f.debug = debug
}

func (f *Fan[T]) Subscribe(client string) (<-chan T, error) {
	if f.debug {
		slog.Debug("subscribing to fan", "module", "router", "fan", f.name, "client", client)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.outputs[client]; ok {
		return nil, fmt.Errorf("fan %s: client %s already subscribed", f.name, client)
	}
	c := make(chan T, 1)
	f.outputs[client] = c
	return c, nil
}

// MustSubscribe is Subscribe for wiring done once at startup.
func (f *Fan[T]) MustSubscribe(client string) <-chan T {
	c, err := f.Subscribe(client)
	if err != nil {
		panic(err)
	}
	return c
}

func (f *Fan[T]) Unsubscribe(client string) error {
	if f.debug {
		slog.Debug("unsubscribing from fan", "module", "router", "fan", f.name, "client", client)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.outputs[client]
	if !ok {
		return fmt.Errorf("fan %s: client %s not subscribed", f.name, client)
	}
	close(c)
	delete(f.outputs, client)
	return nil
}

// Run forwards values until the input closes or ctx is done. Every
// subscriber channel is closed on the way out.
func (f *Fan[T]) Run(ctx context.Context) error {
	defer f.closeAll()
	for {
		var v T
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok = <-f.input:
			if !ok {
				return nil
			}
		}
		if f.debug {
			slog.Debug("fan received value", "module", "router", "fan", f.name, "value", v)
		}
		if err := f.send(ctx, v); err != nil {
			return err
		}
	}
}

func (f *Fan[T]) send(ctx context.Context, v T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, ch := range f.outputs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- v:
		}
		if f.debug {
			slog.Debug("fan sent value", "module", "router", "subscriber", k, "fan", f.name)
		}
	}
	return nil
}

func (f *Fan[T]) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, ch := range f.outputs {
		close(ch)
		delete(f.outputs, k)
	}
}
