package services

import (
	"context"
	"math"
	"sort"

	"github.com/starydv7/puzzle/internal/catalog"
	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/repository"
)

// adjustmentWindow is how many of a tier's most recent entries drive the
// difficulty adjustment.
const adjustmentWindow = 10

const (
	reasonHarder   = "You're ready for a bigger challenge!"
	reasonEasier   = "Let's practice with something a bit easier!"
	reasonContinue = "Continue your journey!"
)

// AdaptiveService records puzzle performance and recommends difficulty
type AdaptiveService interface {
	RecordPerformance(ctx context.Context, puzzleID string, metrics models.PerformanceMetrics) error
	CalculateDifficultyAdjustment(ctx context.Context, tier models.Tier) models.Adjustment
	GetRecommendedPuzzle(ctx context.Context, tier models.Tier) (*models.Recommendation, error)
	GetPerformanceSummary(ctx context.Context, tier models.Tier) (models.PerformanceSummary, error)
}

type adaptiveService struct {
	kv       repository.KVStore
	catalog  *catalog.Catalog
	progress ProgressService
	calendar Calendar
}

// NewAdaptiveService creates a new AdaptiveService
func NewAdaptiveService(kv repository.KVStore, c *catalog.Catalog, progress ProgressService, calendar Calendar) AdaptiveService {
	return &adaptiveService{kv: kv, catalog: c, progress: progress, calendar: calendar}
}

func (s *adaptiveService) history(ctx context.Context) (models.PerformanceHistory, error) {
	h := models.PerformanceHistory{}
	if _, err := load(ctx, s.kv, repository.KeyPerformanceHistory, &h); err != nil {
		return nil, err
	}
	if h == nil {
		h = models.PerformanceHistory{}
	}
	return h, nil
}

// RecordPerformance overwrites the entry for puzzleID.
func (s *adaptiveService) RecordPerformance(ctx context.Context, puzzleID string, metrics models.PerformanceMetrics) error {
	log := logger.FromContext(ctx)
	log.Debug("recording performance: puzzle=%s attempts=%d time=%.1f", puzzleID, metrics.Attempts, metrics.Time)

	if puzzleID == "" {
		return errors.NewValidationError("puzzle_id", "cannot be empty")
	}

	h, err := s.history(ctx)
	if err != nil {
		log.Error("failed to read performance history: %v", err)
		return err
	}
	attempts := metrics.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	h[puzzleID] = models.PerformanceEntry{
		PuzzleID:   puzzleID,
		Attempts:   attempts,
		Time:       max(0, metrics.Time),
		HintsUsed:  max(0, metrics.HintsUsed),
		Success:    metrics.Success,
		RecordedAt: s.calendar.now(),
	}

	if err := save(ctx, s.kv, repository.KeyPerformanceHistory, h); err != nil {
		log.Error("failed to save performance history: %v", err)
		return err
	}
	return nil
}

// tierEntries returns the entries for puzzles of tier, oldest first. Entries
// recorded at the same instant are ordered by puzzle id.
func (s *adaptiveService) tierEntries(h models.PerformanceHistory, tier models.Tier) []models.PerformanceEntry {
	entries := make([]models.PerformanceEntry, 0, len(h))
	for id, e := range h {
		if t, ok := s.catalog.TierOf(id); ok && t == tier {
			e.PuzzleID = id
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.RecordedAt.Equal(b.RecordedAt) {
			return a.RecordedAt.Before(b.RecordedAt)
		}
		return a.PuzzleID < b.PuzzleID
	})
	return entries
}

type averages struct {
	successRate float64
	time        float64
	attempts    float64
	hints       float64
}

func average(entries []models.PerformanceEntry) averages {
	var a averages
	if len(entries) == 0 {
		return a
	}
	for _, e := range entries {
		if e.Success {
			a.successRate++
		}
		a.time += e.Time
		a.attempts += float64(max(1, e.Attempts))
		a.hints += float64(e.HintsUsed)
	}
	n := float64(len(entries))
	a.successRate /= n
	a.time /= n
	a.attempts /= n
	a.hints /= n
	return a
}

// CalculateDifficultyAdjustment judges the tier's most recent entries. Any
// failure to read history means maintain.
func (s *adaptiveService) CalculateDifficultyAdjustment(ctx context.Context, tier models.Tier) models.Adjustment {
	log := logger.FromContext(ctx)
	log.Debug("calculating difficulty adjustment: tier=%s", tier)

	h, err := s.history(ctx)
	if err != nil {
		log.Warn("failed to read performance history, maintaining difficulty: %v", err)
		return models.AdjustMaintain
	}
	entries := s.tierEntries(h, tier)
	if len(entries) == 0 {
		return models.AdjustMaintain
	}
	if len(entries) > adjustmentWindow {
		entries = entries[len(entries)-adjustmentWindow:]
	}

	a := average(entries)
	switch {
	case a.successRate > 0.85 && a.time < 20 && a.attempts <= 1.2 && a.hints < 0.3:
		return models.AdjustIncrease
	case a.successRate < 0.5 || a.time > 90 || a.attempts > 2.5 || a.hints > 1.5:
		return models.AdjustDecrease
	}
	return models.AdjustMaintain
}

// GetRecommendedPuzzle returns nil when every puzzle of tier is completed.
func (s *adaptiveService) GetRecommendedPuzzle(ctx context.Context, tier models.Tier) (*models.Recommendation, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting recommended puzzle: tier=%s", tier)

	if !tier.Valid() {
		return nil, errors.NewValidationError("tier", "unknown tier "+string(tier))
	}

	adjustment := s.CalculateDifficultyAdjustment(ctx, tier)
	p, err := s.progress.GetProgress(ctx)
	if err != nil {
		return nil, err
	}

	current, ok := s.firstUncompleted(p, tier)
	if !ok {
		return nil, nil
	}

	switch adjustment {
	case models.AdjustIncrease:
		if next, ok := tier.Next(); ok {
			if pz, ok := s.firstUncompleted(p, next); ok {
				return &models.Recommendation{Tier: next, Puzzle: pz, Reason: reasonHarder}, nil
			}
		}
	case models.AdjustDecrease:
		if prev, ok := tier.Prev(); ok {
			if pz, ok := s.firstUncompleted(p, prev); ok {
				return &models.Recommendation{Tier: prev, Puzzle: pz, Reason: reasonEasier}, nil
			}
		}
	}
	return &models.Recommendation{Tier: tier, Puzzle: current, Reason: reasonContinue}, nil
}

func (s *adaptiveService) firstUncompleted(p models.Progress, tier models.Tier) (models.Puzzle, bool) {
	tp := p.Tier(tier)
	for _, pz := range s.catalog.Puzzles(tier) {
		if !tp.IsCompleted(pz.ID) {
			return pz, true
		}
	}
	return models.Puzzle{}, false
}

func (s *adaptiveService) GetPerformanceSummary(ctx context.Context, tier models.Tier) (models.PerformanceSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting performance summary: tier=%s", tier)

	summary := models.PerformanceSummary{SkillLevel: models.TierBeginner}
	h, err := s.history(ctx)
	if err != nil {
		log.Error("failed to read performance history: %v", err)
		return summary, err
	}
	entries := s.tierEntries(h, tier)
	if len(entries) == 0 {
		return summary, nil
	}

	a := average(entries)
	summary.TotalPuzzles = len(entries)
	summary.SuccessRate = int(math.Round(a.successRate * 100))
	summary.AvgTime = int(math.Round(a.time))
	summary.AvgAttempts = math.Round(a.attempts*10) / 10
	switch {
	case a.successRate > 0.8 && a.time < 30 && a.attempts < 1.5:
		summary.SkillLevel = models.TierAdvanced
	case a.successRate > 0.6 && a.time < 60 && a.attempts < 2:
		summary.SkillLevel = models.TierIntermediate
	}
	return summary, nil
}
