package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// KV is the persistence medium: string keys, string values.
type KV interface {
	// Get reports ok=false for a missing key.
	Get(key string) (value string, ok bool, err error)
	Put(key, value string) error
	Delete(key string) error
	// Apply runs ops atomically, in order.
	Apply(ops ...Op) error
}

// Op is one write inside Apply.
type Op struct {
	Key    string
	Value  string
	Delete bool
}

func PutOp(key, value string) Op { return Op{Key: key, Value: value} }

func DeleteOp(key string) Op { return Op{Key: key, Delete: true} }

var _ KV = (*Store)(nil)

func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Put(key, value string) error {
	return s.Apply(PutOp(key, value))
}

func (s *Store) Delete(key string) error {
	return s.Apply(DeleteOp(key))
}

func (s *Store) Apply(ops ...Op) error {
	if len(ops) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, op := range ops {
		if op.Delete {
			if _, err := tx.Exec(`DELETE FROM kv WHERE key = ?`, op.Key); err != nil {
				return fmt.Errorf("delete %q: %w", op.Key, err)
			}
			continue
		}
		_, err := tx.Exec(
			`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			op.Key, op.Value, now,
		)
		if err != nil {
			return fmt.Errorf("put %q: %w", op.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Keys lists stored keys with the given prefix, sorted.
func (s *Store) Keys(prefix string) ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM kv WHERE substr(key, 1, ?) = ? ORDER BY key`, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, rows.Err()
}
