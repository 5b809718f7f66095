package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Get reads a value from the kv table. ok is false when the key is absent.
func (s *Store) Get(namespace, key string) (value string, ok bool, err error) {
	err = s.db.QueryRow(
		"SELECT value FROM kv WHERE namespace = ? AND key = ?",
		namespace, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %s/%s: %w", namespace, key, err)
	}
	return value, true, nil
}

// Set writes a value, replacing any previous one.
func (s *Store) Set(namespace, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Delete removes a key. Missing keys are not an error.
func (s *Store) Delete(namespace, key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE namespace = ? AND key = ?", namespace, key); err != nil {
		return fmt.Errorf("storage: cannot delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Keys lists the keys stored under namespace in sorted order.
func (s *Store) Keys(namespace string) ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM kv WHERE namespace = ? ORDER BY key", namespace)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list %s: %w", namespace, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("storage: cannot scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// namespacedKV scopes the kv table to one namespace.
type namespacedKV struct {
	store     *Store
	namespace string
}

// KV returns a core.KVStore whose keys live under namespace. Each game
// variant or SSH user gets its own namespace.
func (s *Store) KV(namespace string) core.KVStore {
	return namespacedKV{store: s, namespace: namespace}
}

func (n namespacedKV) Get(key string) (string, bool, error) {
	return n.store.Get(n.namespace, key)
}

func (n namespacedKV) Set(key, value string) error {
	return n.store.Set(n.namespace, key, value)
}
