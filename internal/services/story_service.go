package services

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/starydv7/puzzle/internal/catalog"
	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
)

// ChapterView is a chapter together with the learner's standing in it.
type ChapterView struct {
	models.Chapter
	Colors   models.ThemeColors     `json:"colors"`
	Unlocked bool                   `json:"unlocked"`
	Progress models.ChapterProgress `json:"progress"`
}

// StoryService answers story-mode questions from puzzle progress
type StoryService interface {
	ListChapters(ctx context.Context) ([]ChapterView, error)
	IsChapterUnlocked(ctx context.Context, chapterID string) (bool, error)
	IsChapterCompleted(ctx context.Context, chapterID string) (bool, error)
	ChapterProgress(ctx context.Context, chapterID string) (models.ChapterProgress, error)
	ChapterIDs() []string
}

type storyService struct {
	catalog  *catalog.Catalog
	progress ProgressService
}

// NewStoryService creates a new StoryService
func NewStoryService(c *catalog.Catalog, progress ProgressService) StoryService {
	return &storyService{catalog: c, progress: progress}
}

func (s *storyService) ChapterIDs() []string {
	chapters := s.catalog.Chapters()
	ids := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		ids = append(ids, ch.ID)
	}
	return ids
}

func (s *storyService) ListChapters(ctx context.Context) ([]ChapterView, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing story chapters")

	p, err := s.progress.GetProgress(ctx)
	if err != nil {
		return nil, err
	}
	chapters := s.catalog.Chapters()
	views := make([]ChapterView, 0, len(chapters))
	for _, ch := range chapters {
		views = append(views, ChapterView{
			Chapter:  ch,
			Colors:   s.catalog.Theme(ch.Theme),
			Unlocked: s.unlocked(ch, p),
			Progress: s.chapterProgress(ch, p),
		})
	}
	return views, nil
}

func (s *storyService) IsChapterUnlocked(ctx context.Context, chapterID string) (bool, error) {
	ch, ok := s.catalog.Chapter(chapterID)
	if !ok {
		return false, errors.NewNotFoundError("chapter", chapterID)
	}
	p, err := s.progress.GetProgress(ctx)
	if err != nil {
		return false, err
	}
	return s.unlocked(*ch, p), nil
}

func (s *storyService) IsChapterCompleted(ctx context.Context, chapterID string) (bool, error) {
	ch, ok := s.catalog.Chapter(chapterID)
	if !ok {
		return false, errors.NewNotFoundError("chapter", chapterID)
	}
	p, err := s.progress.GetProgress(ctx)
	if err != nil {
		return false, err
	}
	return s.completed(*ch, p), nil
}

func (s *storyService) ChapterProgress(ctx context.Context, chapterID string) (models.ChapterProgress, error) {
	ch, ok := s.catalog.Chapter(chapterID)
	if !ok {
		return models.ChapterProgress{}, errors.NewNotFoundError("chapter", chapterID)
	}
	p, err := s.progress.GetProgress(ctx)
	if err != nil {
		return models.ChapterProgress{}, err
	}
	return s.chapterProgress(*ch, p), nil
}

// unlocked evaluates the chapter's unlock condition: "none",
// "complete_<chapterID>" or "complete_<tier>_<count>". Anything else stays
// locked.
func (s *storyService) unlocked(ch models.Chapter, p models.Progress) bool {
	cond := ch.UnlockCondition
	if cond == "" || cond == "none" {
		return true
	}
	rest, ok := strings.CutPrefix(cond, "complete_")
	if !ok {
		return false
	}
	if prev, ok := s.catalog.Chapter(rest); ok {
		return s.completed(*prev, p)
	}
	tierName, countStr, ok := strings.Cut(rest, "_")
	if !ok {
		return false
	}
	tier, ok := models.ParseTier(tierName)
	if !ok {
		return false
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return false
	}
	return p.CompletedCount(tier) >= count
}

func (s *storyService) completed(ch models.Chapter, p models.Progress) bool {
	for _, id := range ch.Puzzles {
		if !s.puzzleCompleted(id, p) {
			return false
		}
	}
	return true
}

func (s *storyService) puzzleCompleted(id string, p models.Progress) bool {
	tier, ok := s.catalog.TierOf(id)
	return ok && p.Tier(tier).IsCompleted(id)
}

func (s *storyService) chapterProgress(ch models.Chapter, p models.Progress) models.ChapterProgress {
	cp := models.ChapterProgress{Total: len(ch.Puzzles)}
	for _, id := range ch.Puzzles {
		if s.puzzleCompleted(id, p) {
			cp.Completed++
		}
	}
	if cp.Total > 0 {
		cp.Percentage = int(math.Round(float64(cp.Completed) / float64(cp.Total) * 100))
	}
	return cp
}
