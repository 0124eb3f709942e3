package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/starydv7/puzzle/internal/logger"
	"github.com/starydv7/puzzle/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type kvStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewKVStore creates a KVStore backed by the kv_store table.
func NewKVStore(db *sql.DB) repository.KVStore {
	return &kvStore{db: db, now: time.Now}
}

func (r *kvStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("reading key: %s", key)

	query, args, err := sqlBuilder.
		Select("value").
		From("kv_store").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, false, err
	}

	var value string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("key not found: %s", key)
		return nil, false, nil
	}
	if err != nil {
		log.Error("failed to read key %s: %v", key, err)
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (r *kvStore) Set(ctx context.Context, key string, value []byte) error {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("writing key: %s (%d bytes)", key, len(value))

	query, args, err := sqlBuilder.
		Insert("kv_store").
		Columns("key", "value", "updated_at").
		Values(key, string(value), r.now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to write key %s: %v", key, err)
		return err
	}
	return nil
}

func (r *kvStore) Remove(ctx context.Context, key string) error {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("removing key: %s", key)

	query, args, err := sqlBuilder.
		Delete("kv_store").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to remove key %s: %v", key, err)
		return err
	}
	return nil
}

func (r *kvStore) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
