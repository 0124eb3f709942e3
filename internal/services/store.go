package services

import (
	"context"
	"time"

	"github.com/starydv7/puzzle/internal/errors"
	"github.com/starydv7/puzzle/internal/repository"
)

// load decodes the document at key into v, converting store failures into
// storage AppErrors.
func load(ctx context.Context, kv repository.KVStore, key string, v any) (bool, error) {
	found, err := repository.GetJSON(ctx, kv, key, v)
	if err != nil {
		return false, errors.NewStorageError("read "+key, err)
	}
	return found, nil
}

func save(ctx context.Context, kv repository.KVStore, key string, v any) error {
	if err := repository.SetJSON(ctx, kv, key, v); err != nil {
		return errors.NewStorageError("write "+key, err)
	}
	return nil
}

func remove(ctx context.Context, kv repository.KVStore, key string) error {
	if err := kv.Remove(ctx, key); err != nil {
		return errors.NewStorageError("remove "+key, err)
	}
	return nil
}

// Calendar resolves "today" in the learner's time zone.
type Calendar struct {
	Now      func() time.Time
	Location *time.Location
}

// NewCalendar returns a calendar on the wall clock. A nil location means
// time.Local.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{Now: time.Now, Location: loc}
}

func (c Calendar) now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	if c.Now == nil {
		return time.Now().In(loc)
	}
	return c.Now().In(loc)
}

// Today is local midnight of the current day.
func (c Calendar) Today() time.Time {
	y, m, d := c.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.now().Location())
}

// DateKey formats today as 2006-01-02.
func (c Calendar) DateKey() string {
	return c.now().Format(time.DateOnly)
}

// DaysBetween counts calendar days from a to b in the calendar's zone,
// ignoring the time of day and DST shifts.
func (c Calendar) DaysBetween(a, b time.Time) int {
	loc := c.now().Location()
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
