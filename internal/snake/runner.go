package snake

import (
	"context"
	"sync"
	"time"

	"github.com/starydv7/puzzle/internal/logger"
)

// Runner drives a Game on a ticker in its own goroutine. Once Stop returns
// no further tick touches the game.
type Runner struct {
	ID string

	mu       sync.Mutex
	game     *Game
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	started  bool
	finished bool
	subs     map[int]chan State
	nextSub  int
	onFinish func(State)
}

// NewRunner wraps game. onFinish, if set, is called once from the runner
// goroutine when the game reaches a terminal status.
func NewRunner(id string, game *Game, onFinish func(State)) *Runner {
	return &Runner{
		ID:       id,
		game:     game,
		interval: game.cfg.Difficulty.Interval(),
		done:     make(chan struct{}),
		subs:     map[int]chan State{},
		onFinish: onFinish,
	}
}

// Start begins ticking. It is a no-op on a runner that was already started.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	go r.loop(ctx, cancel)
}

func (r *Runner) loop(ctx context.Context, cancel context.CancelFunc) {
	defer close(r.done)
	defer cancel()
	log := logger.FromContext(ctx).WithField("run_id", r.ID)
	log.Debug("snake run started: interval=%v", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("snake run stopped")
			r.closeSubscribers()
			return
		case <-ticker.C:
			state, terminal := r.step()
			if !terminal {
				continue
			}
			log.Info("snake run finished: status=%s collected=%d score=%d", state.Status, state.Collected, state.Score)
			if r.onFinish != nil {
				r.onFinish(state)
			}
			r.closeSubscribers()
			return
		}
	}
}

func (r *Runner) step() (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := r.game.Tick()
	state := r.game.State()
	if status.Terminal() {
		r.deliverFinal(state)
	} else {
		r.broadcast(state)
	}
	return state, status.Terminal()
}

// broadcast sends to every subscriber without blocking; slow readers miss
// intermediate frames. Caller holds r.mu.
func (r *Runner) broadcast(state State) {
	for _, ch := range r.subs {
		select {
		case ch <- state:
		default:
		}
	}
}

// deliverFinal queues the terminal frame on every subscriber, dropping the
// oldest unread frame when a buffer is full. Caller holds r.mu; the runner
// goroutine is the only sender, so the retried send cannot block.
func (r *Runner) deliverFinal(state State) {
	for _, ch := range r.subs {
		select {
		case ch <- state:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}

func (r *Runner) closeSubscribers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = true
	for id, ch := range r.subs {
		close(ch)
		delete(r.subs, id)
	}
}

// Subscribe returns a channel of frames and a function that unsubscribes.
// The channel is closed when the run ends.
func (r *Runner) Subscribe() (<-chan State, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan State, 8)
	if r.finished {
		close(ch)
		return ch, func() {}
	}

	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	ch <- r.game.State()
	return ch, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if c, ok := r.subs[id]; ok {
			close(c)
			delete(r.subs, id)
		}
	}
}

// Turn forwards a heading change to the game.
func (r *Runner) Turn(d Direction) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Turn(d)
}

// Snapshot returns the current game state.
func (r *Runner) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.State()
}

// Stop halts ticking and waits for the runner goroutine to exit.
func (r *Runner) Stop() {
	r.mu.Lock()
	started := r.started
	cancel := r.cancel
	r.mu.Unlock()

	if !started {
		return
	}
	cancel()
	<-r.done
}

// Done is closed when the runner goroutine has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}
