package services_test

import (
	"context"
	"testing"

	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/services"
	"github.com/starydv7/puzzle/internal/snake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnakeService_RecordGameResult(t *testing.T) {
	f := newFixture(t)
	svc := services.NewSnakeService(f.kv, snake.SharedRand)
	ctx := context.Background()

	_, err := svc.RecordGameResult(ctx, services.SnakeResult{Level: 1, Difficulty: "EASY", Score: 300, Collected: 20, Completed: true})
	require.NoError(t, err)
	_, err = svc.RecordGameResult(ctx, services.SnakeResult{Level: 1, Difficulty: "EASY", Score: 120, Collected: 4})
	require.NoError(t, err)
	_, err = svc.RecordGameResult(ctx, services.SnakeResult{Level: 2, Difficulty: "EASY", Score: 500, Collected: 20, Completed: true})
	require.NoError(t, err)
	p, err := svc.RecordGameResult(ctx, services.SnakeResult{Level: 1, Difficulty: "EASY", Score: 350, Collected: 20, Completed: true})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, p.CompletedLevels)
	assert.Equal(t, 350, p.HighScores["1-EASY"])
	assert.Equal(t, 500, p.HighScores["2-EASY"])
	assert.Equal(t, 64, p.TotalNumbersCollected)
	assert.Equal(t, 4, p.TotalGamesPlayed)
	assert.Equal(t, 2, p.CurrentStreak, "the loss reset the win streak")
	assert.Equal(t, 2, p.BestStreak)
	assert.Contains(t, p.Achievements, services.SnakeBadgeFirstTen)

	high, err := svc.HighScore(ctx, 1, "EASY")
	require.NoError(t, err)
	assert.Equal(t, 350, high)

	high, err = svc.HighScore(ctx, 1, "HARD")
	require.NoError(t, err)
	assert.Equal(t, 0, high)
}

func TestSnakeService_LevelUnlock(t *testing.T) {
	f := newFixture(t)
	svc := services.NewSnakeService(f.kv, snake.SharedRand)
	ctx := context.Background()

	unlocked := func(level int) bool {
		ok, err := svc.IsLevelUnlocked(ctx, level)
		require.NoError(t, err)
		return ok
	}
	assert.True(t, unlocked(1))
	assert.False(t, unlocked(2))

	_, err := svc.RecordGameResult(ctx, services.SnakeResult{Level: 1, Difficulty: "HARD", Completed: true})
	require.NoError(t, err)
	assert.True(t, unlocked(2))
	assert.False(t, unlocked(3))

	_, err = svc.StartRun(ctx, 3, "EASY")
	assert.Equal(t, errors.ErrCodeConflict, errors.Code(err))

	require.NoError(t, svc.Reset(ctx))
	assert.False(t, unlocked(2))
}

func TestSnakeService_StartRunValidates(t *testing.T) {
	f := newFixture(t)
	svc := services.NewSnakeService(f.kv, snake.SharedRand)

	_, err := svc.StartRun(context.Background(), 1, "IMPOSSIBLE")
	assert.Equal(t, errors.ErrCodeValidation, errors.Code(err))

	_, err = svc.StartRun(context.Background(), 11, "EASY")
	assert.Equal(t, errors.ErrCodeValidation, errors.Code(err))
}

func TestSnakeService_RunLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := services.NewSnakeService(f.kv, snake.SharedRand)
	defer svc.Shutdown()
	ctx := context.Background()

	r, err := svc.StartRun(ctx, 1, "EASY")
	require.NoError(t, err)

	same, err := svc.Run(ctx, r.ID)
	require.NoError(t, err)
	assert.Same(t, r, same)

	st, err := svc.Turn(ctx, r.ID, snake.Up)
	require.NoError(t, err)
	assert.Equal(t, "UP", st.Heading)

	require.NoError(t, svc.StopRun(ctx, r.ID))
	select {
	case <-r.Done():
	default:
		t.Fatal("runner still ticking after StopRun")
	}

	_, err = svc.Run(ctx, r.ID)
	assert.Equal(t, errors.ErrCodeNotFound, errors.Code(err))
	assert.Equal(t, errors.ErrCodeNotFound, errors.Code(svc.StopRun(ctx, r.ID)))
}
