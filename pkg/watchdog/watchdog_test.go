package watchdog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatchdogTripsAndResumes(t *testing.T) {
	var timeouts, resumes atomic.Int32
	in := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	run := New(ctx, 10*time.Millisecond,
		func() error { timeouts.Add(1); return nil },
		func() error { resumes.Add(1); return nil },
		in,
	)
	done := make(chan error, 1)
	go func() { done <- run() }()

	assert.Eventually(t, func() bool { return timeouts.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), timeouts.Load())

	in <- struct{}{}
	assert.Eventually(t, func() bool { return resumes.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchdogReturnsCallbackError(t *testing.T) {
	boom := errors.New("boom")
	run := New(context.Background(), 5*time.Millisecond,
		func() error { return boom },
		func() error { return nil },
		make(chan int),
	)
	assert.ErrorIs(t, run(), boom)
}

func TestWatchdogStopsWhenInputCloses(t *testing.T) {
	in := make(chan int)
	close(in)
	run := New(context.Background(), time.Hour, nil, nil, in)
	assert.NoError(t, run())
}
