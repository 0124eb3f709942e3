package services_test

import (
	"context"
	"testing"

	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/repository"
	"github.com/starydv7/puzzle/internal/services"
	"github.com/starydv7/puzzle/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProgressService_DefaultsToEmpty(t *testing.T) {
	f := newFixture(t)
	svc := services.NewProgressService(f.kv, f.catalog)

	p, err := svc.GetProgress(context.Background())
	require.NoError(t, err)
	for _, tier := range models.Tiers {
		require.Contains(t, p, tier)
		assert.Empty(t, p[tier].Completed)
		assert.Empty(t, p[tier].Stars)
		assert.Equal(t, 0, p[tier].CurrentLevel)
	}
}

func TestProgressService_SaveIsIdempotentAndKeepsBestStars(t *testing.T) {
	f := newFixture(t)
	svc := services.NewProgressService(f.kv, f.catalog)
	ctx := context.Background()

	require.NoError(t, svc.SaveProgress(ctx, models.TierBeginner, "b1", 2))
	require.NoError(t, svc.SaveProgress(ctx, models.TierBeginner, "b1", 1))
	require.NoError(t, svc.SaveProgress(ctx, models.TierBeginner, "b1", 3))
	require.NoError(t, svc.SaveProgress(ctx, models.TierBeginner, "b3", 1))

	p, err := svc.GetProgress(ctx)
	require.NoError(t, err)
	tp := p[models.TierBeginner]
	assert.Equal(t, []string{"b1", "b3"}, tp.Completed)
	assert.Equal(t, 3, tp.Stars["b1"])
	assert.Equal(t, 2, tp.CurrentLevel)

	stars, err := svc.GetPuzzleStars(ctx, models.TierBeginner, "b1")
	require.NoError(t, err)
	assert.Equal(t, 3, stars)

	total, err := svc.GetTotalStarsForTier(ctx, models.TierBeginner)
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	assert.Empty(t, p[models.TierIntermediate].Completed, "other tiers untouched")
}

func TestProgressService_SaveValidates(t *testing.T) {
	f := newFixture(t)
	svc := services.NewProgressService(f.kv, f.catalog)

	err := svc.SaveProgress(context.Background(), models.Tier("expert"), "x1", 1)
	assert.Equal(t, errors.ErrCodeValidation, errors.Code(err))

	err = svc.SaveProgress(context.Background(), models.TierBeginner, "b1", 4)
	assert.Equal(t, errors.ErrCodeValidation, errors.Code(err))
}

func TestProgressService_PuzzleUnlockIsCountBased(t *testing.T) {
	f := newFixture(t)
	svc := services.NewProgressService(f.kv, f.catalog)
	ctx := context.Background()

	unlocked, err := svc.IsPuzzleUnlocked(ctx, models.TierBeginner, 0)
	require.NoError(t, err)
	assert.True(t, unlocked)

	unlocked, err = svc.IsPuzzleUnlocked(ctx, models.TierBeginner, 1)
	require.NoError(t, err)
	assert.False(t, unlocked)

	// Completing any two puzzles opens index 2, even out of order.
	require.NoError(t, svc.SaveProgress(ctx, models.TierBeginner, "b5", 1))
	require.NoError(t, svc.SaveProgress(ctx, models.TierBeginner, "b7", 1))

	unlocked, err = svc.IsPuzzleUnlocked(ctx, models.TierBeginner, 2)
	require.NoError(t, err)
	assert.True(t, unlocked)

	unlocked, err = svc.IsPuzzleUnlocked(ctx, models.TierBeginner, 3)
	require.NoError(t, err)
	assert.False(t, unlocked)
}

func TestProgressService_TierUnlock(t *testing.T) {
	f := newFixture(t)
	svc := services.NewProgressService(f.kv, f.catalog)
	ctx := context.Background()

	check := func(tier models.Tier) bool {
		ok, err := svc.IsTierUnlocked(ctx, tier)
		require.NoError(t, err)
		return ok
	}

	assert.True(t, check(models.TierBeginner))
	assert.False(t, check(models.TierIntermediate))

	for _, id := range []string{"b1", "b2", "b3", "b4"} {
		require.NoError(t, svc.SaveProgress(ctx, models.TierBeginner, id, 1))
	}
	assert.False(t, check(models.TierIntermediate))

	require.NoError(t, svc.SaveProgress(ctx, models.TierBeginner, "b5", 1))
	assert.True(t, check(models.TierIntermediate))
	assert.False(t, check(models.TierAdvanced))

	for _, id := range []string{"i1", "i2", "i3", "i4", "i5"} {
		require.NoError(t, svc.SaveProgress(ctx, models.TierIntermediate, id, 1))
	}
	assert.True(t, check(models.TierAdvanced))
}

func TestProgressService_ResetLeavesOtherStoresAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := services.NewProgressService(f.kv, f.catalog)
	streak := services.NewStreakService(f.kv, f.calendar)

	require.NoError(t, svc.SaveProgress(ctx, models.TierBeginner, "b1", 3))
	_, err := streak.RecordPlay(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.ResetProgress(ctx))

	p, err := svc.GetProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, p.TotalCompleted())

	current, err := streak.CurrentStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, current)
}

func TestProgressService_StorageFailure(t *testing.T) {
	kv := new(mocks.MockKVStore)
	kv.On("Get", mock.Anything, repository.KeyProgress).Return(nil, false, errDiskFull)

	f := newFixture(t)
	svc := services.NewProgressService(kv, f.catalog)

	_, err := svc.GetProgress(context.Background())
	assert.True(t, errors.IsStorage(err))

	err = svc.SaveProgress(context.Background(), models.TierBeginner, "b1", 1)
	assert.True(t, errors.IsStorage(err))
	kv.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}
