package delivery

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRunsJobs(t *testing.T) {
	d := NewDispatcher(8)
	d.Start(context.Background(), 2)

	var ran atomic.Int64
	for i := 0; i < 5; i++ {
		require.NoError(t, d.Enqueue(Job{
			Name: "send",
			Run: func(context.Context) error {
				ran.Add(1)
				return nil
			},
		}))
	}

	d.Stop(time.Second)
	assert.Equal(t, int64(5), ran.Load())
}

func TestDispatcherFailureDoesNotStopWorkers(t *testing.T) {
	d := NewDispatcher(8)
	d.Start(context.Background(), 1)

	var ran atomic.Int64
	require.NoError(t, d.Enqueue(Job{Name: "bad", Run: func(context.Context) error {
		return errors.New("slack is down")
	}}))
	require.NoError(t, d.Enqueue(Job{Name: "good", Run: func(context.Context) error {
		ran.Add(1)
		return nil
	}}))

	d.Stop(time.Second)
	assert.Equal(t, int64(1), ran.Load())
}

func TestDispatcherRejectsAfterStop(t *testing.T) {
	d := NewDispatcher(1)
	d.Start(context.Background(), 1)
	d.Stop(time.Second)

	err := d.Enqueue(Job{Name: "late", Run: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrStopped)
}

func TestDispatcherRequiresRun(t *testing.T) {
	d := NewDispatcher(1)
	assert.Error(t, d.Enqueue(Job{Name: "empty"}))
}
