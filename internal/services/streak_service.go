package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/repository"
)

// StreakMilestones are the streak lengths worth celebrating.
var StreakMilestones = []int{3, 7, 14, 30, 60, 100}

// StreakService tracks consecutive days of play
type StreakService interface {
	// Preview returns the state a play today would produce, without writing.
	Preview(ctx context.Context) (models.StreakState, error)
	// RecordPlay commits today's play. Repeated calls on one day are no-ops.
	RecordPlay(ctx context.Context) (models.StreakState, error)
	// CurrentStreak is the stored streak, or 0 once a day has been missed.
	CurrentStreak(ctx context.Context) (int, error)
}

type streakService struct {
	kv       repository.KVStore
	calendar Calendar
}

// NewStreakService creates a new StreakService
func NewStreakService(kv repository.KVStore, calendar Calendar) StreakService {
	return &streakService{kv: kv, calendar: calendar}
}

func (s *streakService) read(ctx context.Context) (*models.StreakState, error) {
	var st models.StreakState
	found, err := load(ctx, s.kv, repository.KeyStreak, &st)
	if err != nil || !found {
		return nil, err
	}
	return &st, nil
}

func (s *streakService) Preview(ctx context.Context) (models.StreakState, error) {
	log := logger.FromContext(ctx)
	log.Debug("previewing streak")

	stored, err := s.read(ctx)
	if err != nil {
		log.Warn("failed to read streak, reporting an empty one: %v", err)
		return models.StreakState{}, nil
	}
	return s.advance(stored), nil
}

func (s *streakService) RecordPlay(ctx context.Context) (models.StreakState, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording play for streak")

	stored, err := s.read(ctx)
	if err != nil {
		log.Error("failed to read streak: %v", err)
		return models.StreakState{}, err
	}

	next := s.advance(stored)
	if stored != nil && stored.LastPlayDate != nil && s.calendar.DaysBetween(*stored.LastPlayDate, s.calendar.Today()) <= 0 {
		return next, nil
	}
	if err := save(ctx, s.kv, repository.KeyStreak, next); err != nil {
		log.Error("failed to save streak: %v", err)
		return next, err
	}
	log.Debug("streak updated: current=%d longest=%d", next.CurrentStreak, next.LongestStreak)
	return next, nil
}

func (s *streakService) CurrentStreak(ctx context.Context) (int, error) {
	stored, err := s.read(ctx)
	if err != nil || stored == nil || stored.LastPlayDate == nil {
		return 0, err
	}
	if s.calendar.DaysBetween(*stored.LastPlayDate, s.calendar.Today()) > 1 {
		return 0, nil
	}
	return stored.CurrentStreak, nil
}

// advance applies one play today to stored, which may be nil.
func (s *streakService) advance(stored *models.StreakState) models.StreakState {
	today := s.calendar.Today()
	if stored == nil || stored.LastPlayDate == nil {
		return models.StreakState{CurrentStreak: 1, LongestStreak: 1, LastPlayDate: &today, TotalDays: 1}
	}

	next := *stored
	switch diff := s.calendar.DaysBetween(*stored.LastPlayDate, today); {
	case diff <= 0:
		return next
	case diff == 1:
		next.CurrentStreak++
		next.LongestStreak = max(next.LongestStreak, next.CurrentStreak)
	default:
		next.CurrentStreak = 1
		next.LongestStreak = max(next.LongestStreak, 1)
	}
	next.LastPlayDate = &today
	next.TotalDays++
	return next
}

// IsStreakMilestone reports whether streak is one of StreakMilestones.
func IsStreakMilestone(streak int) bool {
	return slices.Contains(StreakMilestones, streak)
}

// StreakMessage is the encouragement shown next to the streak counter.
func StreakMessage(streak int) string {
	switch {
	case streak >= 7:
		return fmt.Sprintf("🔥 Amazing! %d day streak! You're on fire!", streak)
	case streak >= 3:
		return fmt.Sprintf("🌟 Great! %d day streak! Keep it up!", streak)
	case streak >= 1:
		return fmt.Sprintf("💪 Day %d! You're building a streak!", streak)
	}
	return "Start your streak today!"
}
