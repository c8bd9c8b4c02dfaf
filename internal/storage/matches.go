package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatchRecord is one finished session.
type MatchRecord struct {
	ID       string
	GameID   string
	Mode     string
	Level    int
	Player   string
	Opponent string
	// Winner is "player1", "player2", or empty for a draw.
	Winner     string
	Turns      int
	ScoreDelta int
	CreatedAt  time.Time
}

// SaveMatch records a finished session. An empty ID is replaced with a new
// UUID; the stored ID is returned.
func (s *Store) SaveMatch(m MatchRecord) (string, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	_, err := s.db.Exec(
		`INSERT INTO matches
		 (id, game_id, mode, level, player, opponent, winner, turns, score_delta)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.GameID,
		m.Mode,
		m.Level,
		m.Player,
		m.Opponent,
		m.Winner,
		m.Turns,
		m.ScoreDelta,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save match: %w", err)
	}
	return m.ID, nil
}

// MatchByID retrieves a match by its ID. Returns nil if not found.
func (s *Store) MatchByID(id string) (*MatchRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, game_id, mode, level, player, opponent, winner, turns, score_delta, created_at
		 FROM matches
		 WHERE id = ?`,
		id,
	)

	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &m, nil
}

// RecentMatches retrieves the most recent matches, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, mode, level, player, opponent, winner, turns, score_delta, created_at
		 FROM matches
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var matches []MatchRecord
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return matches, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (MatchRecord, error) {
	var m MatchRecord
	var createdAt any
	err := row.Scan(
		&m.ID, &m.GameID, &m.Mode, &m.Level, &m.Player, &m.Opponent,
		&m.Winner, &m.Turns, &m.ScoreDelta, &createdAt,
	)
	if err != nil {
		return MatchRecord{}, err
	}
	m.CreatedAt = parseTime(createdAt)
	return m, nil
}
