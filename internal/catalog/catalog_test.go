package catalog_test

import (
	"testing"

	"github.com/starydv7/puzzle/internal/catalog"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedCatalogIsValid(t *testing.T) {
	c, err := catalog.Load()
	require.NoError(t, err)

	for _, tier := range models.Tiers {
		assert.Equal(t, 8, c.Size(tier), tier)
		for _, p := range c.Puzzles(tier) {
			assert.NotEmpty(t, p.CorrectOption(), p.ID)
		}
	}
	assert.Equal(t, 1, c.Version())
	assert.NotEmpty(t, c.Chapters())
	assert.NotEmpty(t, c.BunnyLevels(models.BunnyModeShare))
	assert.Len(t, c.BunnyRewards(), 5)
}

func TestPuzzleLookup(t *testing.T) {
	c := catalog.MustLoad()

	p, ok := c.Puzzle(models.TierBeginner, "b1")
	require.True(t, ok)
	assert.Equal(t, "b1", p.ID)

	_, ok = c.Puzzle(models.TierBeginner, "i1")
	assert.False(t, ok, "lookup is scoped to the tier")

	_, ok = c.Puzzle(models.TierAdvanced, "zz")
	assert.False(t, ok)

	tier, ok := c.TierOf("i3")
	require.True(t, ok)
	assert.Equal(t, models.TierIntermediate, tier)
	assert.Equal(t, 2, c.Index(models.TierIntermediate, "i3"))
	assert.Equal(t, -1, c.Index(models.TierIntermediate, "b1"))
}

func TestPuzzle_ReturnsCopy(t *testing.T) {
	c := catalog.MustLoad()
	p, _ := c.Puzzle(models.TierBeginner, "b1")
	p.Question = "changed"

	again, _ := c.Puzzle(models.TierBeginner, "b1")
	assert.NotEqual(t, "changed", again.Question)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		puzzles  map[models.Tier][]models.Puzzle
		chapters []models.Chapter
		errPart  string
	}{
		{
			name: "correct out of range",
			puzzles: map[models.Tier][]models.Puzzle{
				models.TierBeginner: {{ID: "x", Options: []string{"a", "b"}, Correct: 2}},
			},
			errPart: "out of range",
		},
		{
			name: "duplicate id across tiers",
			puzzles: map[models.Tier][]models.Puzzle{
				models.TierBeginner:     {{ID: "x", Options: []string{"a"}}},
				models.TierIntermediate: {{ID: "x", Options: []string{"a"}}},
			},
			errPart: "appears in both",
		},
		{
			name: "unknown tier",
			puzzles: map[models.Tier][]models.Puzzle{
				"expert": {{ID: "x", Options: []string{"a"}}},
			},
			errPart: "unknown tier",
		},
		{
			name: "chapter references missing puzzle",
			puzzles: map[models.Tier][]models.Puzzle{
				models.TierBeginner: {{ID: "x", Options: []string{"a"}}},
			},
			chapters: []models.Chapter{{ID: "chapter1", Puzzles: []string{"y"}}},
			errPart:  "unknown puzzle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.New(tt.puzzles, tt.chapters)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestTheme_FallsBackToForest(t *testing.T) {
	c := catalog.MustLoad()
	assert.Equal(t, c.Theme("forest"), c.Theme("volcano"))
	assert.NotEqual(t, c.Theme("forest"), c.Theme("ocean"))
}

func TestBunnyMessages_FallsBackToHappy(t *testing.T) {
	c := catalog.MustLoad()
	assert.Equal(t, c.BunnyMessages("happy"), c.BunnyMessages("grumpy"))
}
