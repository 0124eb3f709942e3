package mocks

import (
	"github.com/starydv7/puzzle/internal/jobs"
	"github.com/stretchr/testify/mock"
)

// MockRetryQueue is a mock implementation of jobs.RetryQueue
type MockRetryQueue struct {
	mock.Mock
}

func (m *MockRetryQueue) EnqueueRetry(name string, op jobs.Operation) error {
	args := m.Called(name, op)
	return args.Error(0)
}
