package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/starydv7/puzzle/internal/achievement"
	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/puzzle"
	"github.com/starydv7/puzzle/internal/repository"
	"github.com/starydv7/puzzle/internal/services"
	"github.com/starydv7/puzzle/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type playFixture struct {
	*fixture
	play     services.PlayService
	progress services.ProgressService
	daily    services.DailyChallengeService
	retry    *mocks.MockRetryQueue
}

func newPlayFixture(t *testing.T, kv repository.KVStore) *playFixture {
	f := newFixture(t)
	if kv == nil {
		kv = f.kv
	}
	progress := services.NewProgressService(kv, f.catalog)
	streak := services.NewStreakService(kv, f.calendar)
	story := services.NewStoryService(f.catalog, progress)
	daily := services.NewDailyChallengeService(kv, f.engine, f.calendar)
	retry := new(mocks.MockRetryQueue)

	play := services.NewPlayService(services.PlayDeps{
		Engine:       f.engine,
		Progress:     progress,
		Streak:       streak,
		Adaptive:     services.NewAdaptiveService(kv, f.catalog, progress, f.calendar),
		Daily:        daily,
		Achievements: services.NewAchievementService(kv, progress, achievement.NewEvaluator(streak, story)),
		Retry:        retry,
		Now:          f.clock.Now,
	})
	return &playFixture{fixture: f, play: play, progress: progress, daily: daily, retry: retry}
}

// answerIndex finds the correct option in a session view by text.
func (pf *playFixture) answerIndex(t *testing.T, snap puzzle.Snapshot) int {
	t.Helper()
	p, ok := pf.catalog.Puzzle(snap.Tier, snap.Puzzle.ID)
	require.True(t, ok)
	for i, o := range snap.Puzzle.Options {
		if o == p.CorrectOption() {
			return i
		}
	}
	t.Fatalf("correct option missing from %v", snap.Puzzle.Options)
	return -1
}

func TestPlay_CorrectFirstTryFast(t *testing.T) {
	pf := newPlayFixture(t, nil)
	ctx := context.Background()

	snap, err := pf.play.StartSession(ctx, models.TierBeginner, "b1", false)
	require.NoError(t, err)
	assert.Equal(t, -1, snap.Puzzle.Correct, "answer hidden while playing")
	assert.Empty(t, snap.Puzzle.Explanation)

	pf.clock.Advance(4 * time.Second)
	_, err = pf.play.Select(ctx, snap.ID, pf.answerIndex(t, snap))
	require.NoError(t, err)

	out, err := pf.play.SubmitAnswer(ctx, snap.ID)
	require.NoError(t, err)
	assert.True(t, out.IsCorrect)
	assert.Equal(t, 3, out.Stars)
	assert.Equal(t, 4, out.ElapsedSeconds)
	assert.Empty(t, out.Failures)
	require.NotNil(t, out.Streak)
	assert.Equal(t, 1, out.Streak.CurrentStreak)
	assert.False(t, out.StreakMilestone)
	assert.Equal(t, []string{"first_puzzle"}, ids(out.NewAchievements))

	stars, err := pf.progress.GetPuzzleStars(ctx, models.TierBeginner, "b1")
	require.NoError(t, err)
	assert.Equal(t, 3, stars)

	_, err = pf.play.GetSession(ctx, snap.ID)
	assert.Equal(t, errors.ErrCodeNotFound, errors.Code(err), "finished sessions are released")
	pf.retry.AssertNotCalled(t, "EnqueueRetry", mock.Anything, mock.Anything)
}

func TestPlay_WrongThenRight(t *testing.T) {
	pf := newPlayFixture(t, nil)
	ctx := context.Background()

	snap, err := pf.play.StartSession(ctx, models.TierIntermediate, "i2", false)
	require.NoError(t, err)
	correct := pf.answerIndex(t, snap)
	wrong := (correct + 1) % len(snap.Puzzle.Options)

	_, err = pf.play.SubmitAnswer(ctx, snap.ID)
	assert.Equal(t, errors.ErrCodeBadRequest, errors.Code(err), "no selection yet")

	_, err = pf.play.Select(ctx, snap.ID, wrong)
	require.NoError(t, err)
	out, err := pf.play.SubmitAnswer(ctx, snap.ID)
	require.NoError(t, err)
	assert.False(t, out.IsCorrect)
	assert.Equal(t, 0, out.Stars)

	after, err := pf.play.GetSession(ctx, snap.ID)
	require.NoError(t, err)
	assert.Nil(t, after.Selected, "selection cleared after a wrong answer")
	assert.Equal(t, 1, after.Attempts)

	hint, err := pf.play.Hint(ctx, snap.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, hint)
	_, err = pf.play.Hint(ctx, snap.ID)
	assert.Equal(t, errors.ErrCodeConflict, errors.Code(err))

	_, err = pf.play.Select(ctx, snap.ID, correct)
	require.NoError(t, err)
	out, err = pf.play.SubmitAnswer(ctx, snap.ID)
	require.NoError(t, err)
	assert.True(t, out.IsCorrect)
	assert.Equal(t, 2, out.Attempt)
	assert.Equal(t, 1, out.Stars)
	assert.NotEmpty(t, out.Explanation)
}

func TestPlay_DailyChallengeCompletes(t *testing.T) {
	pf := newPlayFixture(t, nil)
	ctx := context.Background()

	dc, err := pf.daily.Get(ctx)
	require.NoError(t, err)

	snap, err := pf.play.StartSession(ctx, dc.Tier, dc.Puzzle.ID, true)
	require.NoError(t, err)
	_, err = pf.play.Select(ctx, snap.ID, pf.answerIndex(t, snap))
	require.NoError(t, err)
	_, err = pf.play.SubmitAnswer(ctx, snap.ID)
	require.NoError(t, err)

	done, err := pf.daily.IsCompleted(ctx)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestPlay_DailyFlagRequiresTodaysPuzzle(t *testing.T) {
	pf := newPlayFixture(t, nil)
	ctx := context.Background()

	dc, err := pf.daily.Get(ctx)
	require.NoError(t, err)

	other := "b1"
	if dc.Tier == models.TierBeginner && dc.Puzzle.ID == other {
		other = "b2"
	}
	_, err = pf.play.StartSession(ctx, models.TierBeginner, other, true)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.Code(err))

	done, err := pf.daily.IsCompleted(ctx)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestPlay_FailedSaveIsQueuedAndOthersStillRun(t *testing.T) {
	f := newFixture(t)
	pf := newPlayFixture(t, &flakyKV{KVStore: f.kv, failKey: repository.KeyProgress})
	pf.retry.On("EnqueueRetry", services.OpSaveProgress, mock.Anything).Return(nil)
	ctx := context.Background()

	snap, err := pf.play.StartSession(ctx, models.TierBeginner, "b2", false)
	require.NoError(t, err)
	_, err = pf.play.Select(ctx, snap.ID, pf.answerIndex(t, snap))
	require.NoError(t, err)

	out, err := pf.play.SubmitAnswer(ctx, snap.ID)
	require.NoError(t, err)
	assert.True(t, out.IsCorrect)
	assert.Equal(t, 3, out.Stars, "stars shown optimistically")
	require.Len(t, out.Failures, 1)
	assert.Equal(t, services.OpSaveProgress, out.Failures[0].Operation)
	assert.True(t, out.Failures[0].Queued)
	assert.Equal(t, "Unable to save data. Please check your device storage.", out.Failures[0].Message)

	require.NotNil(t, out.Streak)
	assert.Equal(t, 1, out.Streak.CurrentStreak, "streak still recorded")
	pf.retry.AssertExpectations(t)
}

func TestPlay_UnknownPuzzle(t *testing.T) {
	pf := newPlayFixture(t, nil)

	_, err := pf.play.StartSession(context.Background(), models.TierBeginner, "zz", false)
	assert.Equal(t, errors.ErrCodeNotFound, errors.Code(err))

	_, err = pf.play.StartSession(context.Background(), models.Tier("expert"), "b1", false)
	assert.Equal(t, errors.ErrCodeValidation, errors.Code(err))
}
