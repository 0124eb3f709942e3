package services

import (
	"context"

	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/puzzle"
	"github.com/starydv7/puzzle/internal/repository"
)

// DailyChallengeService picks and tracks one puzzle per calendar day
type DailyChallengeService interface {
	Get(ctx context.Context) (*models.DailyChallenge, error)
	Complete(ctx context.Context) (bool, error)
	IsCompleted(ctx context.Context) (bool, error)
}

type dailyChallengeService struct {
	kv       repository.KVStore
	engine   *puzzle.Engine
	calendar Calendar
}

// NewDailyChallengeService creates a new DailyChallengeService
func NewDailyChallengeService(kv repository.KVStore, engine *puzzle.Engine, calendar Calendar) DailyChallengeService {
	return &dailyChallengeService{kv: kv, engine: engine, calendar: calendar}
}

// today returns the stored challenge if it is for today.
func (s *dailyChallengeService) today(ctx context.Context) (*models.DailyChallenge, error) {
	var dc models.DailyChallenge
	found, err := load(ctx, s.kv, repository.KeyDailyChallenge, &dc)
	if err != nil {
		return nil, err
	}
	if !found || dc.Date != s.calendar.DateKey() {
		return nil, nil
	}
	return &dc, nil
}

func (s *dailyChallengeService) Get(ctx context.Context) (*models.DailyChallenge, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting daily challenge")

	dc, err := s.today(ctx)
	if err != nil {
		log.Error("failed to read daily challenge: %v", err)
		return nil, err
	}
	if dc != nil {
		return dc, nil
	}

	c := s.engine.Catalog()
	tier := models.Tiers[s.engine.RandomIntN(len(models.Tiers))]
	list := c.Puzzles(tier)
	if len(list) == 0 {
		return nil, errors.NewNotFoundError("puzzles for tier", tier)
	}
	dc = &models.DailyChallenge{
		Date:   s.calendar.DateKey(),
		Puzzle: list[s.engine.RandomIntN(len(list))],
		Tier:   tier,
	}

	if err := save(ctx, s.kv, repository.KeyDailyChallenge, dc); err != nil {
		log.Error("failed to save daily challenge: %v", err)
		return nil, err
	}
	log.Info("new daily challenge: date=%s tier=%s puzzle=%s", dc.Date, dc.Tier, dc.Puzzle.ID)
	return dc, nil
}

func (s *dailyChallengeService) Complete(ctx context.Context) (bool, error) {
	log := logger.FromContext(ctx)
	log.Debug("completing daily challenge")

	dc, err := s.today(ctx)
	if err != nil {
		log.Error("failed to read daily challenge: %v", err)
		return false, err
	}
	if dc == nil {
		return false, nil
	}
	dc.Completed = true
	if err := save(ctx, s.kv, repository.KeyDailyChallenge, dc); err != nil {
		log.Error("failed to save daily challenge: %v", err)
		return false, err
	}
	return true, nil
}

func (s *dailyChallengeService) IsCompleted(ctx context.Context) (bool, error) {
	dc, err := s.today(ctx)
	if err != nil || dc == nil {
		return false, err
	}
	return dc.Completed, nil
}
