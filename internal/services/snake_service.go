package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/repository"
	"github.com/starydv7/puzzle/internal/snake"
)

// finishedRunTTL is how long a finished run stays readable.
const finishedRunTTL = 10 * time.Minute

// Snake badges stored in SnakeProgress.Achievements.
const (
	SnakeBadgeFirstTen      = "first_10"
	SnakeBadgeCountBy10     = "count_by_10_master"
	snakeFirstTenThreshold  = 10
	snakeCountBy10FirstStep = 9
)

// SnakeResult is the outcome of one finished run.
type SnakeResult struct {
	Level      int
	Difficulty string
	Score      int
	Collected  int
	Completed  bool
}

// SnakeService runs counting-snake games and keeps their durable progress
type SnakeService interface {
	StartRun(ctx context.Context, level int, difficulty string) (*snake.Runner, error)
	Run(ctx context.Context, id string) (*snake.Runner, error)
	Turn(ctx context.Context, id string, dir snake.Direction) (snake.State, error)
	StopRun(ctx context.Context, id string) error
	Shutdown()

	RecordGameResult(ctx context.Context, r SnakeResult) (models.SnakeProgress, error)
	IsLevelUnlocked(ctx context.Context, level int) (bool, error)
	HighScore(ctx context.Context, level int, difficulty string) (int, error)
	Progress(ctx context.Context) (models.SnakeProgress, error)
	Reset(ctx context.Context) error
}

type runEntry struct {
	runner     *snake.Runner
	finishedAt time.Time
}

type snakeService struct {
	kv   repository.KVStore
	rng  snake.Rand
	now  func() time.Time
	rmu  sync.Mutex
	runs map[string]*runEntry
}

// NewSnakeService creates a new SnakeService. rng places numbers on the
// grid and must be safe for use from several runner goroutines.
func NewSnakeService(kv repository.KVStore, rng snake.Rand) SnakeService {
	return &snakeService{kv: kv, rng: rng, now: time.Now, runs: map[string]*runEntry{}}
}

// StartRun starts a ticking run. The run outlives the request; it ends when
// the game does, on StopRun, or on Shutdown.
func (s *snakeService) StartRun(ctx context.Context, level int, difficulty string) (*snake.Runner, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting snake run: level=%d difficulty=%s", level, difficulty)

	d, ok := snake.ParseDifficulty(difficulty)
	if !ok {
		return nil, errors.NewValidationError("difficulty", "must be EASY, MEDIUM or HARD")
	}
	if level < 1 || level > snake.MaxLevel {
		return nil, errors.NewValidationError("level", fmt.Sprintf("must be between 1 and %d", snake.MaxLevel))
	}
	unlocked, err := s.IsLevelUnlocked(ctx, level)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return nil, errors.NewConflictError(fmt.Sprintf("snake level %d is locked", level))
	}

	id := uuid.NewString()
	cfg := snake.LevelConfig(level, d)
	game := snake.NewGame(cfg, s.rng, s.now)

	runCtx := logger.NewContext(context.WithoutCancel(ctx), log.WithField("run_id", id))
	runner := snake.NewRunner(id, game, func(st snake.State) {
		s.finished(runCtx, id, cfg, st)
	})

	s.rmu.Lock()
	s.pruneLocked()
	s.runs[id] = &runEntry{runner: runner}
	s.rmu.Unlock()

	runner.Start(runCtx)
	log.Info("snake run started: id=%s level=%d difficulty=%s", id, level, d.Key)
	return runner, nil
}

func (s *snakeService) finished(ctx context.Context, id string, cfg snake.Level, st snake.State) {
	s.rmu.Lock()
	if e, ok := s.runs[id]; ok {
		e.finishedAt = s.now()
	}
	s.rmu.Unlock()

	_, err := s.RecordGameResult(ctx, SnakeResult{
		Level:      cfg.Level,
		Difficulty: cfg.Difficulty.Key,
		Score:      st.Score,
		Collected:  st.Collected,
		Completed:  st.Status == snake.Won.String(),
	})
	if err != nil {
		logger.FromContext(ctx).Error("failed to record snake result: %v", err)
	}
}

// pruneLocked forgets runs that finished more than finishedRunTTL ago.
// Caller holds s.rmu.
func (s *snakeService) pruneLocked() {
	cutoff := s.now().Add(-finishedRunTTL)
	for id, e := range s.runs {
		if !e.finishedAt.IsZero() && e.finishedAt.Before(cutoff) {
			delete(s.runs, id)
		}
	}
}

func (s *snakeService) Run(ctx context.Context, id string) (*snake.Runner, error) {
	s.rmu.Lock()
	defer s.rmu.Unlock()
	e, ok := s.runs[id]
	if !ok {
		return nil, errors.NewNotFoundError("snake run", id)
	}
	return e.runner, nil
}

func (s *snakeService) Turn(ctx context.Context, id string, dir snake.Direction) (snake.State, error) {
	r, err := s.Run(ctx, id)
	if err != nil {
		return snake.State{}, err
	}
	if !r.Turn(dir) {
		logger.FromContext(ctx).Debug("turn ignored: run=%s dir=%s", id, dir)
	}
	return r.Snapshot(), nil
}

// StopRun halts and forgets a run. A stopped unfinished run records no
// result.
func (s *snakeService) StopRun(ctx context.Context, id string) error {
	s.rmu.Lock()
	e, ok := s.runs[id]
	delete(s.runs, id)
	s.rmu.Unlock()
	if !ok {
		return errors.NewNotFoundError("snake run", id)
	}
	e.runner.Stop()
	logger.FromContext(ctx).Debug("snake run stopped: id=%s", id)
	return nil
}

// Shutdown stops every run and waits for their goroutines.
func (s *snakeService) Shutdown() {
	s.rmu.Lock()
	runs := s.runs
	s.runs = map[string]*runEntry{}
	s.rmu.Unlock()
	for _, e := range runs {
		e.runner.Stop()
	}
}

func (s *snakeService) Progress(ctx context.Context) (models.SnakeProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting snake progress")

	p := models.NewSnakeProgress()
	if _, err := load(ctx, s.kv, repository.KeySnakeProgress, &p); err != nil {
		log.Error("failed to read snake progress: %v", err)
		return models.NewSnakeProgress(), err
	}
	if p.HighScores == nil {
		p.HighScores = map[string]int{}
	}
	if p.CompletedLevels == nil {
		p.CompletedLevels = []int{}
	}
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	return p, nil
}

func snakeScoreKey(level int, difficulty string) string {
	return fmt.Sprintf("%d-%s", level, difficulty)
}

func (s *snakeService) RecordGameResult(ctx context.Context, r SnakeResult) (models.SnakeProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording snake result: level=%d difficulty=%s score=%d completed=%t", r.Level, r.Difficulty, r.Score, r.Completed)

	p, err := s.Progress(ctx)
	if err != nil {
		return p, err
	}

	p.TotalGamesPlayed++
	p.TotalNumbersCollected += r.Collected
	key := snakeScoreKey(r.Level, r.Difficulty)
	p.HighScores[key] = max(p.HighScores[key], r.Score)
	if r.Completed {
		if !p.HasCompleted(r.Level) {
			p.CompletedLevels = append(p.CompletedLevels, r.Level)
			slices.Sort(p.CompletedLevels)
		}
		p.CurrentStreak++
		p.BestStreak = max(p.BestStreak, p.CurrentStreak)
	} else {
		p.CurrentStreak = 0
	}
	awardSnakeBadges(&p)

	if err := save(ctx, s.kv, repository.KeySnakeProgress, p); err != nil {
		log.Error("failed to save snake progress: %v", err)
		return p, err
	}
	return p, nil
}

func awardSnakeBadges(p *models.SnakeProgress) {
	award := func(id string) {
		if !slices.Contains(p.Achievements, id) {
			p.Achievements = append(p.Achievements, id)
		}
	}
	if p.TotalNumbersCollected >= snakeFirstTenThreshold {
		award(SnakeBadgeFirstTen)
	}
	if p.HasCompleted(snakeCountBy10FirstStep) && p.HasCompleted(snakeCountBy10FirstStep+1) {
		award(SnakeBadgeCountBy10)
	}
}

// IsLevelUnlocked opens level 1 always and every other level once the one
// before it is completed.
func (s *snakeService) IsLevelUnlocked(ctx context.Context, level int) (bool, error) {
	if level <= 1 {
		return level == 1, nil
	}
	p, err := s.Progress(ctx)
	if err != nil {
		return false, err
	}
	return p.HasCompleted(level - 1), nil
}

func (s *snakeService) HighScore(ctx context.Context, level int, difficulty string) (int, error) {
	p, err := s.Progress(ctx)
	if err != nil {
		return 0, err
	}
	return p.HighScores[snakeScoreKey(level, difficulty)], nil
}

func (s *snakeService) Reset(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("resetting snake progress")
	return remove(ctx, s.kv, repository.KeySnakeProgress)
}
