package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore uses mercuriale.local_storage, created by migrations/mercuriale.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(key string) (string, bool, error) {
	query := `SELECT item_value FROM mercuriale.local_storage WHERE item_key = $1`

	var value string
	err := s.db.QueryRow(query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(key, value string) error {
	query := `
		INSERT INTO mercuriale.local_storage (item_key, item_value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (item_key) DO UPDATE SET item_value = EXCLUDED.item_value, updated_at = NOW()`

	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query := `DELETE FROM mercuriale.local_storage WHERE item_key = ANY($1)`

	if _, err := s.db.Exec(query, pq.Array(keys)); err != nil {
		return fmt.Errorf("failed to delete %v: %w", keys, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
