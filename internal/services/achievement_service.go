package services

import (
	"context"

	"github.com/starydv7/puzzle/internal/achievement"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/repository"
)

// AchievementService evaluates achievements against stored progress
type AchievementService interface {
	// Unlocked recomputes every currently earned achievement.
	Unlocked(ctx context.Context) ([]models.Achievement, error)
	// CheckNew returns earned achievements not announced before and
	// records them as announced.
	CheckNew(ctx context.Context) ([]models.Achievement, error)
}

type achievementService struct {
	kv        repository.KVStore
	progress  ProgressService
	evaluator *achievement.Evaluator
}

// NewAchievementService creates a new AchievementService
func NewAchievementService(kv repository.KVStore, progress ProgressService, evaluator *achievement.Evaluator) AchievementService {
	return &achievementService{kv: kv, progress: progress, evaluator: evaluator}
}

func (s *achievementService) Unlocked(ctx context.Context) ([]models.Achievement, error) {
	log := logger.FromContext(ctx)
	log.Debug("evaluating achievements")

	p, err := s.progress.GetProgress(ctx)
	if err != nil {
		return nil, err
	}
	return s.evaluator.Evaluate(ctx, p), nil
}

func (s *achievementService) CheckNew(ctx context.Context) ([]models.Achievement, error) {
	log := logger.FromContext(ctx)
	log.Debug("checking for new achievements")

	unlocked, err := s.Unlocked(ctx)
	if err != nil {
		return nil, err
	}

	var notified []string
	if _, err := load(ctx, s.kv, repository.KeyAchievementsNotified, &notified); err != nil {
		log.Error("failed to read notified achievements: %v", err)
		return nil, err
	}
	seen := make(map[string]bool, len(notified))
	for _, id := range notified {
		seen[id] = true
	}

	fresh := []models.Achievement{}
	for _, a := range unlocked {
		if !seen[a.ID] {
			fresh = append(fresh, a)
			notified = append(notified, a.ID)
		}
	}
	if len(fresh) == 0 {
		return fresh, nil
	}

	if err := save(ctx, s.kv, repository.KeyAchievementsNotified, notified); err != nil {
		log.Error("failed to record notified achievements: %v", err)
		return fresh, err
	}
	log.Info("%d new achievements unlocked", len(fresh))
	return fresh, nil
}
