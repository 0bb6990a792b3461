package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanCopiesToEverySubscriber(t *testing.T) {
	in := make(chan int)
	f := NewFan("test", in)
	f.SetDebug(true)
	a := f.MustSubscribe("a")
	b := f.MustSubscribe("b")

	done := make(chan error, 1)
	go func() { done <- f.Run(context.Background()) }()

	for i := range 3 {
		in <- i
		assert.Equal(t, i, <-a)
		assert.Equal(t, i, <-b)
	}
	close(in)
	require.NoError(t, <-done)

	_, ok := <-a
	assert.False(t, ok)
	_, ok = <-b
	assert.False(t, ok)
}

func TestFanSubscriptionErrors(t *testing.T) {
	f := NewFan("test", make(chan int))
	_, err := f.Subscribe("a")
	require.NoError(t, err)
	_, err = f.Subscribe("a")
	assert.Error(t, err)
	assert.Panics(t, func() { f.MustSubscribe("a") })

	require.NoError(t, f.Unsubscribe("a"))
	assert.Error(t, f.Unsubscribe("a"))
}

func TestFanStopsOnCancel(t *testing.T) {
	in := make(chan int, 1)
	f := NewFan("test", in)
	f.MustSubscribe("stalled")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()
	in <- 1
	in <- 2
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
