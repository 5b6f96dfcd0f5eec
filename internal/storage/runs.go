package storage

import (
	"fmt"
	"time"
)

// Run is the record of one Ghost Maze round.
type Run struct {
	ID        int64
	GameID    string
	LevelID   string
	Score     int
	Pellets   int
	Fruits    int
	Captures  int
	Deaths    int
	Duration  time.Duration
	CreatedAt time.Time
}

// SaveRun records a finished round. Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	id, err := s.insert(
		`INSERT INTO runs (game_id, level_id, score, pellets, fruits, captures, deaths, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.LevelID, r.Score, r.Pellets, r.Fruits, r.Captures, r.Deaths, r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}
	return id, nil
}

// RecentRuns retrieves the most recent rounds for a game, newest first.
func (s *Store) RecentRuns(gameID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.query(
		`SELECT id, game_id, level_id, score, pellets, fruits, captures, deaths, duration_ms, created_at
		 FROM runs
		 WHERE game_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.GameID,
			&r.LevelID,
			&r.Score,
			&r.Pellets,
			&r.Fruits,
			&r.Captures,
			&r.Deaths,
			&durationMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}
