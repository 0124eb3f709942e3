package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starydv7/puzzle/internal/jobs"
	"github.com/starydv7/puzzle/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerQueue_RetriesUntilSuccess(t *testing.T) {
	p := worker.NewPool(1, 4)
	p.Start(context.Background())
	defer p.Stop()
	q := jobs.NewWorkerQueue(p, 5, time.Millisecond)

	var calls atomic.Int32
	done := make(chan struct{})
	err := q.EnqueueRetry("save_progress", func(context.Context) error {
		if calls.Add(1) < 3 {
			return errors.New("disk busy")
		}
		close(done)
		return nil
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("operation never succeeded")
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestWorkerQueue_StoppedPool(t *testing.T) {
	p := worker.NewPool(1, 1)
	p.Stop()
	q := jobs.NewWorkerQueue(p, 3, time.Millisecond)

	err := q.EnqueueRetry("x", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, worker.ErrPoolStopped)
}

func TestRetryJob_StopsAtMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	job := jobs.NewRetryJob("update_streak", func(context.Context) error {
		calls.Add(1)
		return errors.New("still broken")
	}, 3, time.Millisecond)

	err := job.Run(context.Background())
	assert.EqualError(t, err, "still broken")
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "retry_update_streak", job.Name())
}

func TestRetryJob_PermanentErrorStopsImmediately(t *testing.T) {
	var calls atomic.Int32
	job := jobs.NewRetryJob("decode", func(context.Context) error {
		calls.Add(1)
		return jobs.Permanent(errors.New("corrupt record"))
	}, 5, time.Millisecond)

	err := job.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetryJob_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := jobs.NewRetryJob("never", func(context.Context) error {
		return errors.New("fail")
	}, 10, time.Hour)

	err := job.Run(ctx)
	assert.Error(t, err)
}
