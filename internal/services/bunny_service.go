package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/starydv7/puzzle/internal/bunny"
	"github.com/starydv7/puzzle/internal/catalog"
	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/repository"
)

const (
	bunnyHappinessStep = 5
	bunnyHappinessMax  = 100
	helpsPerHouseLevel = 10
)

// BunnyCompletion is a finished bunny level as reported by the client.
type BunnyCompletion struct {
	Mode     string  `json:"mode"`
	LevelID  int     `json:"levelId"`
	Seconds  float64 `json:"time"`
	Attempts int     `json:"attempts"`
	Reward   string  `json:"reward"`
}

// BunnyLevelView is a catalog level with the learner's standing in it.
type BunnyLevelView struct {
	models.BunnyLevel
	Unlocked  bool            `json:"unlocked"`
	Completed bool            `json:"completed"`
	BestScore int             `json:"bestScore"`
	Scenario  *bunny.Scenario `json:"scenario,omitempty"`
}

// BunnyService keeps durable progress for the bunny helper game
type BunnyService interface {
	Levels(ctx context.Context, mode string) ([]BunnyLevelView, error)
	RecordLevelCompletion(ctx context.Context, c BunnyCompletion) (models.BunnyProgress, int, error)
	IsLevelUnlocked(ctx context.Context, mode string, levelID int) (bool, error)
	Progress(ctx context.Context) (models.BunnyProgress, error)
	Reset(ctx context.Context) error
}

type bunnyService struct {
	kv      repository.KVStore
	catalog *catalog.Catalog
}

// NewBunnyService creates a new BunnyService
func NewBunnyService(kv repository.KVStore, c *catalog.Catalog) BunnyService {
	return &bunnyService{kv: kv, catalog: c}
}

func (s *bunnyService) Progress(ctx context.Context) (models.BunnyProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting bunny progress")

	p := models.NewBunnyProgress()
	if _, err := load(ctx, s.kv, repository.KeyBunnyProgress, &p); err != nil {
		log.Error("failed to read bunny progress: %v", err)
		return models.NewBunnyProgress(), err
	}
	if p.CompletedLevels == nil {
		p.CompletedLevels = map[string][]int{}
	}
	if p.Scores == nil {
		p.Scores = map[string]int{}
	}
	return p, nil
}

func (s *bunnyService) Levels(ctx context.Context, mode string) ([]BunnyLevelView, error) {
	if !bunny.ValidMode(mode) {
		return nil, errors.NewValidationError("mode", "unknown bunny mode "+mode)
	}
	p, err := s.Progress(ctx)
	if err != nil {
		return nil, err
	}

	levels := s.catalog.BunnyLevels(mode)
	views := make([]BunnyLevelView, 0, len(levels))
	for _, l := range levels {
		v := BunnyLevelView{
			BunnyLevel: l,
			Unlocked:   l.ID == 1 || p.HasCompleted(mode, l.ID-1),
			Completed:  p.HasCompleted(mode, l.ID),
			BestScore:  p.Scores[bunnyScoreKey(mode, l.ID)],
		}
		if mode == models.BunnyModeFix {
			sc := bunny.MistakeScenario(l)
			v.Scenario = &sc
		}
		views = append(views, v)
	}
	return views, nil
}

func bunnyScoreKey(mode string, levelID int) string {
	return fmt.Sprintf("%s-%d", mode, levelID)
}

// RecordLevelCompletion scores the level and folds it into progress. It
// returns the updated progress and the score earned.
func (s *bunnyService) RecordLevelCompletion(ctx context.Context, c BunnyCompletion) (models.BunnyProgress, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording bunny level: mode=%s level=%d reward=%s", c.Mode, c.LevelID, c.Reward)

	if !bunny.ValidMode(c.Mode) {
		return models.BunnyProgress{}, 0, errors.NewValidationError("mode", "unknown bunny mode "+c.Mode)
	}
	level, ok := s.catalog.BunnyLevel(c.Mode, c.LevelID)
	if !ok {
		return models.BunnyProgress{}, 0, errors.NewNotFoundError("bunny level", bunnyScoreKey(c.Mode, c.LevelID))
	}

	p, err := s.Progress(ctx)
	if err != nil {
		return p, 0, err
	}

	score := bunny.Score(level.Difficulty, c.Seconds, c.Attempts)
	if !bunny.AddReward(&p.Rewards, c.Reward) {
		return p, 0, errors.NewValidationError("reward", "unknown reward "+c.Reward)
	}
	if !p.HasCompleted(c.Mode, c.LevelID) {
		p.CompletedLevels[c.Mode] = append(p.CompletedLevels[c.Mode], c.LevelID)
		slices.Sort(p.CompletedLevels[c.Mode])
	}
	key := bunnyScoreKey(c.Mode, c.LevelID)
	p.Scores[key] = max(p.Scores[key], score)
	p.BunnyHappiness = min(bunnyHappinessMax, p.BunnyHappiness+bunnyHappinessStep)
	p.TotalHelps++
	p.HouseLevel = p.TotalHelps/helpsPerHouseLevel + 1

	if err := save(ctx, s.kv, repository.KeyBunnyProgress, p); err != nil {
		log.Error("failed to save bunny progress: %v", err)
		return p, score, err
	}
	log.Info("bunny level completed: mode=%s level=%d score=%d", c.Mode, c.LevelID, score)
	return p, score, nil
}

func (s *bunnyService) IsLevelUnlocked(ctx context.Context, mode string, levelID int) (bool, error) {
	if levelID == 1 {
		return true, nil
	}
	p, err := s.Progress(ctx)
	if err != nil {
		return false, err
	}
	return p.HasCompleted(mode, levelID-1), nil
}

func (s *bunnyService) Reset(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("resetting bunny progress")
	return remove(ctx, s.kv, repository.KeyBunnyProgress)
}
