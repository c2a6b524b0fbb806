package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gogo_hotel/internal/adapters/observability"
)

// Store is the durable "remember me" key-value store backed by the session_kv table.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// New returns a Store whose rows expire after ttl; ttl <= 0 keeps rows forever.
func New(db *sql.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl, now: time.Now}
}

func (s *Store) expiresAt() any {
	if s.ttl <= 0 {
		return nil
	}
	return s.now().UTC().Add(s.ttl)
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, getSQL, key, s.now().UTC()).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		observability.ObserveStore("mysql", "miss")
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session_kv get: %w", err)
	}
	observability.ObserveStore("mysql", "hit")
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	observability.ObserveStore("mysql", "set")
	if _, err := s.db.ExecContext(ctx, upsertSQL, key, value, s.expiresAt()); err != nil {
		return fmt.Errorf("session_kv set: %w", err)
	}
	return nil
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	observability.ObserveStore("mysql", "del")
	marks := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		args = append(args, k)
	}
	if _, err := s.db.ExecContext(ctx, deletePrefix+"("+marks+")", args...); err != nil {
		return fmt.Errorf("session_kv del: %w", err)
	}
	return nil
}

// PurgeExpired removes rows past their expiry and reports how many went.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, purgeExpiredSQL, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("session_kv purge: %w", err)
	}
	return res.RowsAffected()
}
