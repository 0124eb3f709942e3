package puzzle

import (
	"errors"
	"sync"
	"time"

	"github.com/starydv7/puzzle/internal/models"
)

var (
	ErrNoSelection     = errors.New("puzzle: no option selected")
	ErrSessionTerminal = errors.New("puzzle: session already finished")
	ErrNotReady        = errors.New("puzzle: session not ready")
	ErrInvalidOption   = errors.New("puzzle: option index out of range")
	ErrHintUsed        = errors.New("puzzle: hint already used")
)

// DefaultHint is shown when a puzzle has no explanation.
const DefaultHint = "Look for patterns in the sequence!"

type State int

const (
	StateLoading State = iota
	StateReady
	StateSelected
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSelected:
		return "selected"
	case StateTerminal:
		return "terminal"
	}
	return "unknown"
}

// Result is what a single submission produced.
type Result struct {
	IsCorrect      bool
	Attempt        int
	ElapsedSeconds int
	Stars          int
	HintsUsed      int
}

// Session is one learner's attempt at one puzzle. A wrong submission
// returns the session to Ready with the selection cleared; a correct one
// ends it.
type Session struct {
	ID               string
	Tier             models.Tier
	IsDailyChallenge bool

	mu        sync.Mutex
	view      models.ShuffledPuzzle
	state     State
	selected  int
	attempts  int
	hintsUsed int
	startedAt time.Time
	now       func() time.Time
}

// NewSession returns a session in the Loading state.
func NewSession(id string, tier models.Tier, daily bool, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{ID: id, Tier: tier, IsDailyChallenge: daily, selected: -1, now: now}
}

// Begin attaches the shuffled puzzle and starts the clock.
func (s *Session) Begin(view models.ShuffledPuzzle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoading {
		return ErrNotReady
	}
	s.view = view
	s.state = StateReady
	s.startedAt = s.now()
	return nil
}

// Select records the chosen option. Changing the selection before
// submitting is allowed.
func (s *Session) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateTerminal:
		return ErrSessionTerminal
	case StateLoading:
		return ErrNotReady
	}
	if index < 0 || index >= len(s.view.Options) {
		return ErrInvalidOption
	}
	s.selected = index
	s.state = StateSelected
	return nil
}

// UseHint spends the session's single hint and returns its text.
func (s *Session) UseHint() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateTerminal:
		return "", ErrSessionTerminal
	case StateLoading:
		return "", ErrNotReady
	}
	if s.hintsUsed > 0 {
		return "", ErrHintUsed
	}
	s.hintsUsed = 1
	if s.view.Explanation != "" {
		return s.view.Explanation, nil
	}
	return DefaultHint, nil
}

// Submit checks the current selection.
func (s *Session) Submit() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateTerminal:
		return Result{}, ErrSessionTerminal
	case StateLoading:
		return Result{}, ErrNotReady
	case StateReady:
		return Result{}, ErrNoSelection
	}

	s.attempts++
	elapsed := int(s.now().Sub(s.startedAt) / time.Second)
	correct := CheckAnswer(s.view, s.selected)
	res := Result{
		IsCorrect:      correct,
		Attempt:        s.attempts,
		ElapsedSeconds: elapsed,
		Stars:          ScoreAttempt(correct, s.attempts, elapsed),
		HintsUsed:      s.hintsUsed,
	}
	if correct {
		s.state = StateTerminal
	} else {
		s.selected = -1
		s.state = StateReady
	}
	return res, nil
}

// Snapshot is a read-only copy of a session for presentation.
type Snapshot struct {
	ID               string                `json:"id"`
	Tier             models.Tier           `json:"tier"`
	IsDailyChallenge bool                  `json:"isDailyChallenge"`
	State            string                `json:"state"`
	Puzzle           models.ShuffledPuzzle `json:"puzzle"`
	Selected         *int                  `json:"selected,omitempty"`
	Attempts         int                   `json:"attempts"`
	HintUsed         bool                  `json:"hintUsed"`
}

// Snapshot copies the session state. The correct index is hidden until the
// session is finished.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:               s.ID,
		Tier:             s.Tier,
		IsDailyChallenge: s.IsDailyChallenge,
		State:            s.state.String(),
		Puzzle:           s.view,
		Attempts:         s.attempts,
		HintUsed:         s.hintsUsed > 0,
	}
	snap.Puzzle.Options = append([]string(nil), s.view.Options...)
	if s.state != StateTerminal {
		snap.Puzzle.Correct = -1
		snap.Puzzle.Explanation = ""
	}
	if s.selected >= 0 {
		sel := s.selected
		snap.Selected = &sel
	}
	return snap
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PuzzleID is the id of the catalog puzzle being played.
func (s *Session) PuzzleID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.ID
}

// Explanation returns the puzzle explanation for the result screen.
func (s *Session) Explanation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Explanation
}
