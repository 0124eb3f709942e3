package snake_test

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starydv7/puzzle/internal/snake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fast = snake.Difficulty{Key: "FAST", SpeedMs: 1, GridSize: 20, StartLength: 3, Multiplier: 1}

func newRunner(d snake.Difficulty, onFinish func(snake.State)) *snake.Runner {
	g := snake.NewGame(snake.LevelConfig(1, d), rand.New(rand.NewPCG(2, 4)), nil)
	return snake.NewRunner("run-1", g, onFinish)
}

func TestRunner_FinishesOnItsOwn(t *testing.T) {
	var calls atomic.Int32
	final := make(chan snake.State, 1)
	r := newRunner(fast, func(s snake.State) {
		calls.Add(1)
		final <- s
	})

	frames, unsubscribe := r.Subscribe()
	defer unsubscribe()
	r.Start(context.Background())

	select {
	case <-r.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("runner never finished")
	}

	st := <-final
	assert.Equal(t, "lost", st.Status, "heading right without turning ends the run")
	assert.Equal(t, int32(1), calls.Load())

	var last snake.State
	for f := range frames {
		last = f
	}
	assert.Equal(t, "lost", last.Status, "subscribers see the final frame before the channel closes")

	r.Stop()
}

func TestRunner_StopHaltsTicks(t *testing.T) {
	slow := fast
	slow.SpeedMs = int(time.Hour / time.Millisecond)
	r := newRunner(slow, func(snake.State) { t.Error("stopped run must not finish") })

	before := r.Snapshot()
	r.Start(context.Background())
	r.Stop()

	select {
	case <-r.Done():
	default:
		t.Fatal("Stop returned before the goroutine exited")
	}
	assert.Equal(t, before.Snake, r.Snapshot().Snake)
}

func TestRunner_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	slow := fast
	slow.SpeedMs = 60_000
	r := newRunner(slow, nil)
	r.Start(ctx)
	cancel()

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("runner ignored context cancellation")
	}
}

func TestRunner_StopBeforeStart(t *testing.T) {
	r := newRunner(fast, nil)
	r.Stop()
}

func TestRunner_SubscribeAfterFinish(t *testing.T) {
	r := newRunner(fast, nil)
	r.Start(context.Background())
	<-r.Done()

	frames, unsubscribe := r.Subscribe()
	defer unsubscribe()
	_, open := <-frames
	assert.False(t, open)
}

func TestRunner_TurnForwards(t *testing.T) {
	slow := fast
	slow.SpeedMs = 60_000
	r := newRunner(slow, nil)
	require.True(t, r.Turn(snake.Up))
	assert.False(t, r.Turn(snake.Left))
	assert.Equal(t, "UP", r.Snapshot().Heading)
}
