package services

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/jobs"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/models"
	"github.com/starydv7/puzzle/internal/puzzle"
)

// sessionTTL is how long an unfinished session is kept before it is pruned.
const sessionTTL = time.Hour

// Side effect names, used in outcome failures and retry job names.
const (
	OpSaveProgress      = "save_progress"
	OpRecordStreak      = "record_streak"
	OpRecordPerformance = "record_performance"
	OpCompleteDaily     = "complete_daily_challenge"
	OpCheckAchievements = "check_achievements"
)

// PlayService runs puzzle sessions and the persistence that follows a
// correct answer
type PlayService interface {
	StartSession(ctx context.Context, tier models.Tier, puzzleID string, daily bool) (puzzle.Snapshot, error)
	GetSession(ctx context.Context, id string) (puzzle.Snapshot, error)
	Select(ctx context.Context, id string, index int) (puzzle.Snapshot, error)
	Hint(ctx context.Context, id string) (string, error)
	SubmitAnswer(ctx context.Context, id string) (*models.SubmitOutcome, error)
}

type sessionEntry struct {
	session *puzzle.Session
	created time.Time
}

type playService struct {
	engine       *puzzle.Engine
	progress     ProgressService
	streak       StreakService
	adaptive     AdaptiveService
	daily        DailyChallengeService
	achievements AchievementService
	retry        jobs.RetryQueue
	now          func() time.Time

	mu       sync.Mutex
	sessions map[string]sessionEntry
}

// PlayDeps groups the collaborators of a PlayService.
type PlayDeps struct {
	Engine       *puzzle.Engine
	Progress     ProgressService
	Streak       StreakService
	Adaptive     AdaptiveService
	Daily        DailyChallengeService
	Achievements AchievementService
	Retry        jobs.RetryQueue
	Now          func() time.Time
}

// NewPlayService creates a new PlayService
func NewPlayService(deps PlayDeps) PlayService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &playService{
		engine:       deps.Engine,
		progress:     deps.Progress,
		streak:       deps.Streak,
		adaptive:     deps.Adaptive,
		daily:        deps.Daily,
		achievements: deps.Achievements,
		retry:        deps.Retry,
		now:          now,
		sessions:     map[string]sessionEntry{},
	}
}

func (s *playService) StartSession(ctx context.Context, tier models.Tier, puzzleID string, daily bool) (puzzle.Snapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: tier=%s puzzle=%s daily=%t", tier, puzzleID, daily)

	if !tier.Valid() {
		return puzzle.Snapshot{}, errors.NewValidationError("tier", "unknown tier "+string(tier))
	}
	p, ok := s.engine.LoadPuzzle(tier, puzzleID)
	if !ok {
		return puzzle.Snapshot{}, errors.NewNotFoundError("puzzle", puzzleID)
	}
	if daily {
		challenge, err := s.daily.Get(ctx)
		if err != nil {
			return puzzle.Snapshot{}, err
		}
		if challenge.Tier != tier || challenge.Puzzle.ID != puzzleID {
			return puzzle.Snapshot{}, errors.NewValidationError("puzzleId", "is not today's daily challenge")
		}
	}

	sess := puzzle.NewSession(uuid.NewString(), tier, daily, s.now)
	if err := sess.Begin(s.engine.Shuffle(tier, *p)); err != nil {
		return puzzle.Snapshot{}, errors.NewInternalError(err)
	}

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[sess.ID] = sessionEntry{session: sess, created: s.now()}
	s.mu.Unlock()

	log.Info("session started: id=%s tier=%s puzzle=%s", sess.ID, tier, puzzleID)
	return sess.Snapshot(), nil
}

// pruneLocked drops sessions older than sessionTTL. Caller holds s.mu.
func (s *playService) pruneLocked() {
	cutoff := s.now().Add(-sessionTTL)
	for id, e := range s.sessions {
		if e.created.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func (s *playService) lookup(id string) (*puzzle.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	return e.session, nil
}

func (s *playService) GetSession(ctx context.Context, id string) (puzzle.Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return puzzle.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *playService) Select(ctx context.Context, id string, index int) (puzzle.Snapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("selecting option: session=%s index=%d", id, index)

	sess, err := s.lookup(id)
	if err != nil {
		return puzzle.Snapshot{}, err
	}
	if err := sess.Select(index); err != nil {
		return puzzle.Snapshot{}, sessionError(err)
	}
	return sess.Snapshot(), nil
}

func (s *playService) Hint(ctx context.Context, id string) (string, error) {
	log := logger.FromContext(ctx)
	log.Debug("using hint: session=%s", id)

	sess, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	hint, err := sess.UseHint()
	if err != nil {
		return "", sessionError(err)
	}
	return hint, nil
}

// SubmitAnswer checks the selection. A correct answer ends the session and
// triggers every persistence step independently: a failed step is reported
// in the outcome and queued for retry without holding up the others.
func (s *playService) SubmitAnswer(ctx context.Context, id string) (*models.SubmitOutcome, error) {
	log := logger.FromContext(ctx).WithField("session_id", id)
	log.Debug("submitting answer")

	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	res, err := sess.Submit()
	if err != nil {
		return nil, sessionError(err)
	}

	out := &models.SubmitOutcome{
		SessionID:      id,
		IsCorrect:      res.IsCorrect,
		Attempt:        res.Attempt,
		ElapsedSeconds: res.ElapsedSeconds,
		Stars:          res.Stars,
	}
	if !res.IsCorrect {
		log.Debug("incorrect answer: attempt=%d", res.Attempt)
		return out, nil
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	out.Explanation = sess.Explanation()
	tier, puzzleID := sess.Tier, sess.PuzzleID()
	log.Info("puzzle solved: tier=%s puzzle=%s attempt=%d stars=%d", tier, puzzleID, res.Attempt, res.Stars)

	s.sideEffect(ctx, out, OpSaveProgress, func(ctx context.Context) error {
		return s.progress.SaveProgress(ctx, tier, puzzleID, res.Stars)
	})

	before, err := s.streak.CurrentStreak(ctx)
	if err != nil {
		before = 0
	}
	streak, err := s.streak.RecordPlay(ctx)
	if err != nil {
		s.failed(ctx, out, OpRecordStreak, err, func(ctx context.Context) error {
			_, err := s.streak.RecordPlay(ctx)
			return err
		})
		streak, _ = s.streak.Preview(ctx)
	}
	out.Streak = &streak
	out.StreakMilestone = streak.CurrentStreak != before && IsStreakMilestone(streak.CurrentStreak)

	metrics := models.PerformanceMetrics{
		Attempts:  res.Attempt,
		Time:      float64(res.ElapsedSeconds),
		HintsUsed: res.HintsUsed,
		Success:   true,
	}
	s.sideEffect(ctx, out, OpRecordPerformance, func(ctx context.Context) error {
		return s.adaptive.RecordPerformance(ctx, puzzleID, metrics)
	})

	if sess.IsDailyChallenge {
		s.sideEffect(ctx, out, OpCompleteDaily, func(ctx context.Context) error {
			_, err := s.daily.Complete(ctx)
			return err
		})
	}

	fresh, err := s.achievements.CheckNew(ctx)
	if err != nil {
		log.Warn("failed to check achievements: %v", err)
		out.Failures = append(out.Failures, models.SideEffectFailure{
			Operation: OpCheckAchievements,
			Message:   errors.UserMessage(err),
		})
	}
	out.NewAchievements = fresh
	return out, nil
}

// sideEffect runs op once with the request context. On failure it records
// the failure in out and hands op to the retry queue.
func (s *playService) sideEffect(ctx context.Context, out *models.SubmitOutcome, name string, op jobs.Operation) {
	if err := op(ctx); err != nil {
		s.failed(ctx, out, name, err, op)
	}
}

// failed records a failed step in out. Storage failures are queued for
// retry with op.
func (s *playService) failed(ctx context.Context, out *models.SubmitOutcome, name string, err error, op jobs.Operation) {
	log := logger.FromContext(ctx)
	log.Warn("%s failed: %v", name, err)

	failure := models.SideEffectFailure{Operation: name, Message: errors.UserMessage(err)}
	if s.retry != nil && errors.IsStorage(err) {
		if qerr := s.retry.EnqueueRetry(name, op); qerr != nil {
			log.Error("failed to queue retry for %s: %v", name, qerr)
		} else {
			failure.Queued = true
		}
	}
	out.Failures = append(out.Failures, failure)
}

func sessionError(err error) error {
	switch {
	case stderrors.Is(err, puzzle.ErrNoSelection):
		return errors.NewBadRequestError("select an option before submitting")
	case stderrors.Is(err, puzzle.ErrInvalidOption):
		return errors.NewValidationError("index", "option index out of range")
	case stderrors.Is(err, puzzle.ErrSessionTerminal):
		return errors.NewConflictError("session already finished")
	case stderrors.Is(err, puzzle.ErrHintUsed):
		return errors.NewConflictError("hint already used")
	case stderrors.Is(err, puzzle.ErrNotReady):
		return errors.NewConflictError("session not ready")
	}
	return errors.NewInternalError(err)
}
