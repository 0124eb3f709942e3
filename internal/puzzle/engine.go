package puzzle

import (
	"sync"

	"github.com/starydv7/puzzle/internal/catalog"
	"github.com/starydv7/puzzle/internal/models"
)

// Rand is the randomness source used for shuffling. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Engine loads and shuffles catalog puzzles.
type Engine struct {
	catalog *catalog.Catalog

	mu  sync.Mutex
	rng Rand
}

func NewEngine(c *catalog.Catalog, rng Rand) *Engine {
	return &Engine{catalog: c, rng: rng}
}

// Catalog exposes the content the engine serves.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// LoadPuzzle returns the catalog puzzle with id in tier. ok is false for an
// unknown tier or id.
func (e *Engine) LoadPuzzle(tier models.Tier, id string) (*models.Puzzle, bool) {
	return e.catalog.Puzzle(tier, id)
}

// Shuffle returns a view of p with its options permuted by the engine's
// random source.
func (e *Engine) Shuffle(tier models.Tier, p models.Puzzle) models.ShuffledPuzzle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Shuffle(tier, p, e.rng)
}

// RandomIntN draws from the engine's random source.
func (e *Engine) RandomIntN(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.IntN(n)
}

// Shuffle permutes a copy of p.Options with Fisher-Yates and re-points
// Correct at the first shuffled option whose text equals the original
// correct option. The source puzzle is not modified.
func Shuffle(tier models.Tier, p models.Puzzle, rng Rand) models.ShuffledPuzzle {
	correctText := p.CorrectOption()

	options := make([]string, len(p.Options))
	copy(options, p.Options)
	for i := len(options) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		options[i], options[j] = options[j], options[i]
	}

	view := models.ShuffledPuzzle{Puzzle: p, Tier: tier}
	view.Options = options
	view.Correct = -1
	for i, o := range options {
		if o == correctText {
			view.Correct = i
			break
		}
	}
	return view
}

// CheckAnswer reports whether selected is the view's correct index.
func CheckAnswer(view models.ShuffledPuzzle, selected int) bool {
	return selected == view.Correct
}

// ScoreAttempt converts a submission into 0..3 stars. A first-try answer
// under ten seconds earns three stars.
func ScoreAttempt(isCorrect bool, attempt int, elapsedSeconds int) int {
	switch {
	case !isCorrect:
		return 0
	case attempt == 1 && elapsedSeconds < 10:
		return 3
	case attempt == 1:
		return 2
	default:
		return 1
	}
}
