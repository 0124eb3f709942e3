package services_test

import (
	"context"
	stderrors "errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/starydv7/puzzle/internal/catalog"
	"github.com/starydv7/puzzle/internal/puzzle"
	"github.com/starydv7/puzzle/internal/repository"
	"github.com/starydv7/puzzle/internal/repository/sqlite"
	"github.com/starydv7/puzzle/internal/services"
	"github.com/starydv7/puzzle/internal/testutil"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	kv       repository.KVStore
	catalog  *catalog.Catalog
	engine   *puzzle.Engine
	clock    *fakeClock
	calendar services.Calendar
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, db) })

	c := catalog.MustLoad()
	clock := newFakeClock(time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC))
	return &fixture{
		kv:       sqlite.NewKVStore(db),
		catalog:  c,
		engine:   puzzle.NewEngine(c, rand.New(rand.NewPCG(1, 2))),
		clock:    clock,
		calendar: services.Calendar{Now: clock.Now, Location: time.UTC},
	}
}

var errDiskFull = stderrors.New("disk full")

// flakyKV fails writes to one key and passes everything else through.
type flakyKV struct {
	repository.KVStore
	failKey string
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	if key == f.failKey {
		return errDiskFull
	}
	return f.KVStore.Set(ctx, key, value)
}
