package repository

import (
	"context"
	"encoding/json"
	"fmt"
)

// Storage keys. Each holds one whole JSON document that is overwritten on
// every write.
const (
	KeyProgress             = "@puzzle_game_progress"
	KeySettings             = "@puzzle_game_settings"
	KeyStreak               = "@puzzle_streak"
	KeyDailyChallenge       = "@daily_challenge"
	KeyPerformanceHistory   = "@performance_history"
	KeyAchievementsNotified = "@achievements_notified"
	KeySnakeProgress        = "@snake_game_progress"
	KeyBunnyProgress        = "@bunny_game_progress"
)

// KVStore is the durable string-keyed store every service persists through.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// GetJSON decodes the document at key into v. found is false, and v is left
// untouched, when the key has never been written.
func GetJSON(ctx context.Context, kv KVStore, key string, v any) (found bool, err error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and overwrites the document at key.
func SetJSON(ctx context.Context, kv KVStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, raw)
}
