package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vovakirdan/lightcycle/internal/core"
)

// ErrCorruptProgress is returned when a stored progress payload cannot be
// decoded.
var ErrCorruptProgress = errors.New("storage: corrupt progress payload")

// LoadProgress returns the progress stored under key. A missing key yields
// a zero Progress and found=false.
func (s *Store) LoadProgress(key string) (p core.Progress, found bool, err error) {
	var payload string
	err = s.db.QueryRow("SELECT payload FROM progress WHERE key = ?", key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Progress{}, false, nil
	}
	if err != nil {
		return core.Progress{}, false, fmt.Errorf("storage: cannot load progress: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return core.Progress{}, true, fmt.Errorf("%w: %w", ErrCorruptProgress, err)
	}
	return p, true, nil
}

// SaveProgress writes the progress payload under key, replacing any
// previous value.
func (s *Store) SaveProgress(key string, p core.Progress) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("storage: cannot encode progress: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO progress (key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		key, string(payload),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save progress: %w", err)
	}
	return nil
}

// ClearProgress deletes the progress stored under key.
func (s *Store) ClearProgress(key string) error {
	if _, err := s.db.Exec("DELETE FROM progress WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot clear progress: %w", err)
	}
	return nil
}
