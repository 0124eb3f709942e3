package achievement

import (
	"context"
	"fmt"

	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
)

// Evaluator re-runs every rule against the current state. It keeps no
// record of what was unlocked before.
type Evaluator struct {
	rules  []Rule
	streak StreakProvider
	story  StoryProgressProvider
}

func NewEvaluator(streak StreakProvider, story StoryProgressProvider) *Evaluator {
	return &Evaluator{rules: Rules, streak: streak, story: story}
}

// WithRules returns a copy of e using rules instead of the defaults.
func (e *Evaluator) WithRules(rules []Rule) *Evaluator {
	cp := *e
	cp.rules = rules
	return &cp
}

// Evaluate returns every achievement whose predicate currently holds, in
// rule order. A predicate that errors or panics counts as not earned and
// does not affect the others.
func (e *Evaluator) Evaluate(ctx context.Context, progress models.Progress) []models.Achievement {
	log := logger.FromContext(ctx)
	in := Input{Progress: progress.Normalize(), Streak: e.streak, Story: e.story}

	unlocked := []models.Achievement{}
	for _, r := range e.rules {
		ok, err := check(ctx, r, in)
		if err != nil {
			log.Warn("achievement %s check failed: %v", r.ID, err)
			continue
		}
		if ok {
			unlocked = append(unlocked, r.Achievement)
		}
	}
	log.Debug("evaluated %d achievements, %d unlocked", len(e.rules), len(unlocked))
	return unlocked
}

func check(ctx context.Context, r Rule, in Input) (ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ok, err = false, fmt.Errorf("panic: %v", rec)
		}
	}()
	return r.Check(ctx, in)
}
