package services_test

import (
	"context"
	"testing"

	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryService_ChapterUnlockChain(t *testing.T) {
	f := newFixture(t)
	progress := services.NewProgressService(f.kv, f.catalog)
	story := services.NewStoryService(f.catalog, progress)
	ctx := context.Background()

	unlocked := func(id string) bool {
		ok, err := story.IsChapterUnlocked(ctx, id)
		require.NoError(t, err)
		return ok
	}

	assert.True(t, unlocked("chapter1"))
	assert.False(t, unlocked("chapter2"))

	for _, id := range []string{"b1", "b2", "b3"} {
		require.NoError(t, progress.SaveProgress(ctx, models.TierBeginner, id, 2))
	}
	cp, err := story.ChapterProgress(ctx, "chapter1")
	require.NoError(t, err)
	assert.Equal(t, models.ChapterProgress{Completed: 3, Total: 4, Percentage: 75}, cp)
	assert.False(t, unlocked("chapter2"))

	require.NoError(t, progress.SaveProgress(ctx, models.TierBeginner, "b4", 2))
	done, err := story.IsChapterCompleted(ctx, "chapter1")
	require.NoError(t, err)
	assert.True(t, done)
	assert.True(t, unlocked("chapter2"))
	assert.False(t, unlocked("chapter3"), "needs all eight beginner puzzles")

	for _, id := range []string{"b5", "b6", "b7", "b8"} {
		require.NoError(t, progress.SaveProgress(ctx, models.TierBeginner, id, 1))
	}
	assert.True(t, unlocked("chapter3"))
}

func TestStoryService_ListChapters(t *testing.T) {
	f := newFixture(t)
	story := services.NewStoryService(f.catalog, services.NewProgressService(f.kv, f.catalog))

	views, err := story.ListChapters(context.Background())
	require.NoError(t, err)
	require.Len(t, views, len(f.catalog.Chapters()))
	assert.True(t, views[0].Unlocked)
	assert.NotEmpty(t, views[0].Colors.Primary)
	assert.Equal(t, []string{"chapter1", "chapter2", "chapter3", "chapter4"}, story.ChapterIDs())
}

func TestStoryService_UnknownChapter(t *testing.T) {
	f := newFixture(t)
	story := services.NewStoryService(f.catalog, services.NewProgressService(f.kv, f.catalog))

	_, err := story.IsChapterCompleted(context.Background(), "chapter99")
	assert.Equal(t, errors.ErrCodeNotFound, errors.Code(err))
}
