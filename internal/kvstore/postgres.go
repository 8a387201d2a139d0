package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rnimart-be/internal/logger"

	"go.uber.org/zap"
)

type postgresStore struct {
	db *sql.DB
}

// NewPostgres stores values in the kv_store table created by cmd/migrate.
func NewPostgres(db *sql.DB) Store {
	return &postgresStore{db: db}
}

func (p *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM kv_store WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())`,
		key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to read key", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("kvstore: get %q: %w", key, err)
	}
	return value, nil
}

func (p *postgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at, expires_at)
		VALUES ($1, $2, NOW(), NULL)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW(), expires_at = NULL
	`, key, string(value))
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to write key", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("kvstore: set %q: %w", key, err)
	}
	return nil
}

// SetTTL purges expired rows before writing, so short-lived keys do not pile up.
func (p *postgresStore) SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	log := logger.FromCtx(ctx)

	if _, err := p.db.ExecContext(ctx, `DELETE FROM kv_store WHERE expires_at <= NOW()`); err != nil {
		log.Error("db: failed to purge expired keys", zap.Error(err))
		return fmt.Errorf("kvstore: purge expired: %w", err)
	}
	if ttl <= 0 {
		return p.Delete(ctx, key)
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at, expires_at)
		VALUES ($1, $2, NOW(), NOW() + $3::bigint * INTERVAL '1 millisecond')
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW(), expires_at = EXCLUDED.expires_at
	`, key, string(value), ttl.Milliseconds())
	if err != nil {
		log.Error("db: failed to write key", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("kvstore: set %q: %w", key, err)
	}
	return nil
}

func (p *postgresStore) Delete(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		logger.FromCtx(ctx).Error("db: failed to delete key", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("kvstore: delete %q: %w", key, err)
	}
	return nil
}
