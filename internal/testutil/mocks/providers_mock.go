package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStreakProvider is a mock implementation of achievement.StreakProvider
type MockStreakProvider struct {
	mock.Mock
}

func (m *MockStreakProvider) CurrentStreak(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockStoryProgressProvider is a mock implementation of achievement.StoryProgressProvider
type MockStoryProgressProvider struct {
	mock.Mock
}

func (m *MockStoryProgressProvider) IsChapterCompleted(ctx context.Context, chapterID string) (bool, error) {
	args := m.Called(ctx, chapterID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoryProgressProvider) ChapterIDs() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}
