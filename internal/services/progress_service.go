package services

import (
	"context"

	"github.com/starydv7/puzzle/internal/catalog"
	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/repository"
)

// tierUnlockThreshold is how many puzzles of the previous tier unlock a tier.
const tierUnlockThreshold = 5

// ProgressService handles per-tier puzzle completion and stars
type ProgressService interface {
	GetProgress(ctx context.Context) (models.Progress, error)
	SaveProgress(ctx context.Context, tier models.Tier, puzzleID string, stars int) error
	GetPuzzleStars(ctx context.Context, tier models.Tier, puzzleID string) (int, error)
	GetTotalStarsForTier(ctx context.Context, tier models.Tier) (int, error)
	IsPuzzleUnlocked(ctx context.Context, tier models.Tier, index int) (bool, error)
	IsTierUnlocked(ctx context.Context, tier models.Tier) (bool, error)
	ResetProgress(ctx context.Context) error
}

type progressService struct {
	kv      repository.KVStore
	catalog *catalog.Catalog
}

// NewProgressService creates a new ProgressService
func NewProgressService(kv repository.KVStore, c *catalog.Catalog) ProgressService {
	return &progressService{kv: kv, catalog: c}
}

func (s *progressService) GetProgress(ctx context.Context) (models.Progress, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting progress")

	var p models.Progress
	if _, err := load(ctx, s.kv, repository.KeyProgress, &p); err != nil {
		log.Error("failed to read progress: %v", err)
		return nil, err
	}
	return p.Normalize(), nil
}

func (s *progressService) SaveProgress(ctx context.Context, tier models.Tier, puzzleID string, stars int) error {
	log := logger.FromContext(ctx)
	log.Debug("saving progress: tier=%s puzzle=%s stars=%d", tier, puzzleID, stars)

	if !tier.Valid() {
		return errors.NewValidationError("tier", "unknown tier "+string(tier))
	}
	if stars < 0 || stars > 3 {
		return errors.NewValidationError("stars", "must be between 0 and 3")
	}

	p, err := s.GetProgress(ctx)
	if err != nil {
		return err
	}

	tp := p.Tier(tier)
	if !tp.IsCompleted(puzzleID) {
		tp.Completed = append(tp.Completed, puzzleID)
	}
	tp.Stars[puzzleID] = max(tp.Stars[puzzleID], stars)
	tp.CurrentLevel = min(len(tp.Completed), s.catalog.Size(tier))
	p[tier] = tp

	if err := save(ctx, s.kv, repository.KeyProgress, p); err != nil {
		log.Error("failed to save progress: %v", err)
		return err
	}
	return nil
}

func (s *progressService) GetPuzzleStars(ctx context.Context, tier models.Tier, puzzleID string) (int, error) {
	p, err := s.GetProgress(ctx)
	if err != nil {
		return 0, err
	}
	return p.Tier(tier).Stars[puzzleID], nil
}

func (s *progressService) GetTotalStarsForTier(ctx context.Context, tier models.Tier) (int, error) {
	p, err := s.GetProgress(ctx)
	if err != nil {
		return 0, err
	}
	return p.Tier(tier).TotalStars(), nil
}

// IsPuzzleUnlocked unlocks by count: the puzzle at index is playable once
// index puzzles of the tier are completed, whichever ones they are.
func (s *progressService) IsPuzzleUnlocked(ctx context.Context, tier models.Tier, index int) (bool, error) {
	if index <= 0 {
		return true, nil
	}
	p, err := s.GetProgress(ctx)
	if err != nil {
		return false, err
	}
	return p.PuzzleUnlocked(tier, index), nil
}

func (s *progressService) IsTierUnlocked(ctx context.Context, tier models.Tier) (bool, error) {
	prev, ok := tier.Prev()
	if !ok {
		return tier.Valid(), nil
	}
	p, err := s.GetProgress(ctx)
	if err != nil {
		return false, err
	}
	return p.CompletedCount(prev) >= tierUnlockThreshold, nil
}

func (s *progressService) ResetProgress(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("resetting puzzle progress")

	if err := remove(ctx, s.kv, repository.KeyProgress); err != nil {
		log.Error("failed to reset progress: %v", err)
		return err
	}
	return nil
}
