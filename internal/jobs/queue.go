package jobs

import "context"

// Operation is a side effect that can safely be re-run.
type Operation func(ctx context.Context) error

// RetryQueue re-runs failed side effects in the background.
type RetryQueue interface {
	EnqueueRetry(name string, op Operation) error
}
