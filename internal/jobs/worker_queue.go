package jobs

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/worker"
)

// WorkerQueue implements RetryQueue on a worker pool. Each job retries its
// operation with exponential backoff.
type WorkerQueue struct {
	pool         *worker.Pool
	maxAttempts  int
	initialDelay time.Duration
}

// NewWorkerQueue creates a RetryQueue that submits to pool.
func NewWorkerQueue(pool *worker.Pool, maxAttempts int, initialDelay time.Duration) *WorkerQueue {
	return &WorkerQueue{
		pool:         pool,
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
	}
}

func (q *WorkerQueue) EnqueueRetry(name string, op Operation) error {
	return q.pool.Submit(NewRetryJob(name, op, q.maxAttempts, q.initialDelay))
}

// RetryJob runs op until it succeeds, returns a permanent error, or the
// attempt budget is spent.
type RetryJob struct {
	name         string
	op           Operation
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
}

func NewRetryJob(name string, op Operation, maxAttempts int, initialDelay time.Duration) *RetryJob {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryJob{
		name:         name,
		op:           op,
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		maxDelay:     30 * time.Second,
	}
}

func (j *RetryJob) Name() string { return "retry_" + j.name }

func (j *RetryJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = j.initialDelay
	b.MaxInterval = j.maxDelay

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		log.Debug("attempt %d/%d", attempt, j.maxAttempts)
		return struct{}{}, j.op(ctx)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(j.maxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn("attempt %d failed, retrying in %v: %v", attempt, next, err)
		}),
	)
	if err != nil {
		log.Error("giving up after %d attempts: %v", attempt, err)
		return err
	}
	return nil
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
