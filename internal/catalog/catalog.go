package catalog

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/starydv7/puzzle/internal/models"
)

//go:embed data/*.json
var dataFS embed.FS

type puzzleFile struct {
	Version      int             `json:"version"`
	Beginner     []models.Puzzle `json:"beginner"`
	Intermediate []models.Puzzle `json:"intermediate"`
	Advanced     []models.Puzzle `json:"advanced"`
}

type storyFile struct {
	Chapters []models.Chapter             `json:"chapters"`
	Themes   map[string]models.ThemeColors `json:"themes"`
}

type bunnyFile struct {
	Levels   map[string][]models.BunnyLevel `json:"levels"`
	Rewards  []models.BunnyReward           `json:"rewards"`
	Messages map[string][]string            `json:"messages"`
}

// Catalog is the read-only puzzle, story and bunny content. It is safe for
// concurrent use once built.
type Catalog struct {
	version  int
	puzzles  map[models.Tier][]models.Puzzle
	tierOf   map[string]models.Tier
	chapters []models.Chapter
	themes   map[string]models.ThemeColors
	bunny    bunnyFile
}

// Load parses the embedded content files.
func Load() (*Catalog, error) {
	var pf puzzleFile
	if err := readJSON("data/puzzles.json", &pf); err != nil {
		return nil, err
	}
	var sf storyFile
	if err := readJSON("data/story.json", &sf); err != nil {
		return nil, err
	}
	var bf bunnyFile
	if err := readJSON("data/bunny.json", &bf); err != nil {
		return nil, err
	}

	c, err := New(map[models.Tier][]models.Puzzle{
		models.TierBeginner:     pf.Beginner,
		models.TierIntermediate: pf.Intermediate,
		models.TierAdvanced:     pf.Advanced,
	}, sf.Chapters)
	if err != nil {
		return nil, err
	}
	c.version = pf.Version
	c.themes = sf.Themes
	c.bunny = bf
	return c, nil
}

// MustLoad is Load for program start-up; a malformed catalog panics.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog from in-memory content and validates it. Puzzle ids
// must be unique across tiers and every Correct index must point at an
// option.
func New(puzzles map[models.Tier][]models.Puzzle, chapters []models.Chapter) (*Catalog, error) {
	c := &Catalog{
		puzzles:  make(map[models.Tier][]models.Puzzle, len(models.Tiers)),
		tierOf:   make(map[string]models.Tier),
		chapters: chapters,
		themes:   map[string]models.ThemeColors{},
	}
	for tier, list := range puzzles {
		if !tier.Valid() {
			return nil, fmt.Errorf("catalog: unknown tier %q", tier)
		}
		for _, p := range list {
			if p.ID == "" {
				return nil, fmt.Errorf("catalog: puzzle without id in tier %s", tier)
			}
			if p.Correct < 0 || p.Correct >= len(p.Options) {
				return nil, fmt.Errorf("catalog: puzzle %s: correct index %d out of range [0,%d)", p.ID, p.Correct, len(p.Options))
			}
			if prev, dup := c.tierOf[p.ID]; dup {
				return nil, fmt.Errorf("catalog: puzzle %s appears in both %s and %s", p.ID, prev, tier)
			}
			c.tierOf[p.ID] = tier
		}
		c.puzzles[tier] = list
	}
	for _, ch := range chapters {
		for _, id := range ch.Puzzles {
			if _, ok := c.tierOf[id]; !ok {
				return nil, fmt.Errorf("catalog: chapter %s references unknown puzzle %s", ch.ID, id)
			}
		}
	}
	return c, nil
}

func readJSON(name string, v any) error {
	b, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", name, err)
	}
	return nil
}

func (c *Catalog) Version() int { return c.version }

// Puzzles returns the tier's puzzles in catalog order. Callers must not
// modify the returned slice.
func (c *Catalog) Puzzles(tier models.Tier) []models.Puzzle {
	return c.puzzles[tier]
}

// Size is the number of puzzles in tier.
func (c *Catalog) Size(tier models.Tier) int {
	return len(c.puzzles[tier])
}

// Puzzle looks a puzzle up by tier and id.
func (c *Catalog) Puzzle(tier models.Tier, id string) (*models.Puzzle, bool) {
	for i := range c.puzzles[tier] {
		if c.puzzles[tier][i].ID == id {
			p := c.puzzles[tier][i]
			return &p, true
		}
	}
	return nil, false
}

// Index returns the position of id within tier, or -1.
func (c *Catalog) Index(tier models.Tier, id string) int {
	for i, p := range c.puzzles[tier] {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// TierOf returns the tier a puzzle id belongs to.
func (c *Catalog) TierOf(id string) (models.Tier, bool) {
	t, ok := c.tierOf[id]
	return t, ok
}

func (c *Catalog) Chapters() []models.Chapter {
	return c.chapters
}

func (c *Catalog) Chapter(id string) (*models.Chapter, bool) {
	for i := range c.chapters {
		if c.chapters[i].ID == id {
			ch := c.chapters[i]
			return &ch, true
		}
	}
	return nil, false
}

// Theme returns the colors for a story theme, falling back to forest.
func (c *Catalog) Theme(name string) models.ThemeColors {
	if t, ok := c.themes[name]; ok {
		return t
	}
	return c.themes["forest"]
}

func (c *Catalog) BunnyLevels(mode string) []models.BunnyLevel {
	return c.bunny.Levels[mode]
}

func (c *Catalog) BunnyLevel(mode string, id int) (*models.BunnyLevel, bool) {
	for _, l := range c.bunny.Levels[mode] {
		if l.ID == id {
			l := l
			return &l, true
		}
	}
	return nil, false
}

func (c *Catalog) BunnyRewards() []models.BunnyReward {
	return c.bunny.Rewards
}

// BunnyMessages returns the mascot lines of the given kind, falling back to happy.
func (c *Catalog) BunnyMessages(kind string) []string {
	if m, ok := c.bunny.Messages[kind]; ok && len(m) > 0 {
		return m
	}
	return c.bunny.Messages["happy"]
}
