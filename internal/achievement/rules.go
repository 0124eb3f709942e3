package achievement

import (
	"context"

	"github.com/starydv7/puzzle/internal/models"
)

// StreakProvider reports the learner's current daily streak.
type StreakProvider interface {
	CurrentStreak(ctx context.Context) (int, error)
}

// StoryProgressProvider reports story chapter completion.
type StoryProgressProvider interface {
	IsChapterCompleted(ctx context.Context, chapterID string) (bool, error)
	ChapterIDs() []string
}

// Input is what every predicate sees.
type Input struct {
	Progress models.Progress
	Streak   StreakProvider
	Story    StoryProgressProvider
}

// Predicate decides whether an achievement is currently earned.
type Predicate func(ctx context.Context, in Input) (bool, error)

// Rule pairs an achievement with its predicate.
type Rule struct {
	models.Achievement
	Check Predicate
}

// Rules is every achievement in display order.
var Rules = []Rule{
	{
		Achievement: models.Achievement{ID: "first_puzzle", Name: "First Steps", Description: "Complete your first puzzle", Emoji: "👶"},
		Check:       totalCompleted(1),
	},
	{
		Achievement: models.Achievement{ID: "beginner_master", Name: "Beginner Master", Description: "Complete all beginner puzzles", Emoji: "🌟"},
		Check:       tierCompleted(models.TierBeginner, 8),
	},
	{
		Achievement: models.Achievement{ID: "perfect_score", Name: "Perfect Score", Description: "Get 3 stars on 5 puzzles", Emoji: "⭐"},
		Check: func(_ context.Context, in Input) (bool, error) {
			return in.Progress.PerfectCount() >= 5, nil
		},
	},
	{
		Achievement: models.Achievement{ID: "puzzle_explorer", Name: "Puzzle Explorer", Description: "Complete 20 puzzles", Emoji: "🗺️"},
		Check:       totalCompleted(20),
	},
	{
		Achievement: models.Achievement{ID: "intermediate_champion", Name: "Intermediate Champion", Description: "Complete all intermediate puzzles", Emoji: "🏆"},
		Check:       tierCompleted(models.TierIntermediate, 8),
	},
	{
		Achievement: models.Achievement{ID: "advanced_genius", Name: "Advanced Genius", Description: "Complete all advanced puzzles", Emoji: "🧠"},
		Check:       tierCompleted(models.TierAdvanced, 8),
	},
	{
		Achievement: models.Achievement{ID: "puzzle_master", Name: "Puzzle Master", Description: "Complete 50 puzzles", Emoji: "👑"},
		Check:       totalCompleted(50),
	},
	{
		Achievement: models.Achievement{ID: "streak_master", Name: "Daily Player", Description: "Play 7 days in a row", Emoji: "🔥"},
		Check:       streakAtLeast(7),
	},
	{
		Achievement: models.Achievement{ID: "streak_week", Name: "Week Warrior", Description: "Play 3 days in a row", Emoji: "💪"},
		Check:       streakAtLeast(3),
	},
	{
		Achievement: models.Achievement{ID: "streak_month", Name: "Monthly Master", Description: "Play 30 days in a row", Emoji: "👑"},
		Check:       streakAtLeast(30),
	},
	{
		Achievement: models.Achievement{ID: "story_explorer", Name: "Story Explorer", Description: "Complete your first story chapter", Emoji: "📖"},
		Check: func(ctx context.Context, in Input) (bool, error) {
			if in.Story == nil {
				return false, nil
			}
			return in.Story.IsChapterCompleted(ctx, "chapter1")
		},
	},
	{
		Achievement: models.Achievement{ID: "story_master", Name: "Story Master", Description: "Complete all story chapters", Emoji: "📚"},
		Check: func(ctx context.Context, in Input) (bool, error) {
			if in.Story == nil {
				return false, nil
			}
			ids := in.Story.ChapterIDs()
			if len(ids) == 0 {
				return false, nil
			}
			for _, id := range ids {
				done, err := in.Story.IsChapterCompleted(ctx, id)
				if err != nil || !done {
					return false, err
				}
			}
			return true, nil
		},
	},
}

func totalCompleted(n int) Predicate {
	return func(_ context.Context, in Input) (bool, error) {
		return in.Progress.TotalCompleted() >= n, nil
	}
}

func tierCompleted(tier models.Tier, n int) Predicate {
	return func(_ context.Context, in Input) (bool, error) {
		return in.Progress.CompletedCount(tier) >= n, nil
	}
}

func streakAtLeast(n int) Predicate {
	return func(ctx context.Context, in Input) (bool, error) {
		if in.Streak == nil {
			return false, nil
		}
		current, err := in.Streak.CurrentStreak(ctx)
		if err != nil {
			return false, err
		}
		return current >= n, nil
	}
}

// Definitions lists every achievement without predicates.
func Definitions() []models.Achievement {
	out := make([]models.Achievement, len(Rules))
	for i, r := range Rules {
		out[i] = r.Achievement
	}
	return out
}

// Lookup returns the definition with id.
func Lookup(id string) (models.Achievement, bool) {
	for _, r := range Rules {
		if r.ID == id {
			return r.Achievement, true
		}
	}
	return models.Achievement{}, false
}
