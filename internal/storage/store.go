package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/rotation"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a Store backed by db. The schema must already be migrated.
func New(db *sql.DB) Store {
	return &store{
		db:  db,
		now: func() int64 { return time.Now().Unix() },
	}
}

func (s *store) Load() (*rotation.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var blob []byte
	err := s.db.QueryRow(`SELECT snapshot FROM facility_state WHERE id = 1`).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var state rotation.State
	if err := msgpack.Unmarshal(blob, &state); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	state.Normalize()
	return &state, nil
}

func (s *store) Save(state *rotation.State) error {
	blob, err := msgpack.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`
		INSERT INTO facility_state (id, snapshot, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		blob, s.now())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	log.Debug("Saved facility snapshot", "bytes", len(blob))
	return nil
}

func (s *store) ArchiveGame(record rotation.GameRecord) error {
	playersJSON, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`
		INSERT INTO game_records (court_id, players_json, duration, game_mode, team1_score, team2_score, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.CourtID, string(playersJSON), record.Duration, string(record.GameMode),
		nullInt(record.Team1Score), nullInt(record.Team2Score), record.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("failed to archive game on court %d: %w", record.CourtID, err)
	}
	return nil
}

// RecentGames returns archived games newest first.
func (s *store) RecentGames(limit int) ([]rotation.GameRecord, error) {
	if limit <= 0 {
		limit = rotation.HistoryLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT court_id, players_json, duration, game_mode, team1_score, team2_score, played_at
		FROM game_records ORDER BY played_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game records: %w", err)
	}
	defer rows.Close()

	var records []rotation.GameRecord
	for rows.Next() {
		var (
			r            rotation.GameRecord
			playersJSON  string
			mode         string
			team1, team2 sql.NullInt64
			playedAt     int64
		)
		if err := rows.Scan(&r.CourtID, &playersJSON, &r.Duration, &mode, &team1, &team2, &playedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(playersJSON), &r.Players); err != nil {
			log.Warn("Skipping game record with unreadable players", "court", r.CourtID, "error", err)
			continue
		}
		r.GameMode = rotation.GameMode(mode)
		r.Team1Score = fromNullInt(team1)
		r.Team2Score = fromNullInt(team2)
		r.Timestamp = time.Unix(playedAt, 0).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *store) CountGames() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM game_records`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Clear drops the snapshot and the archive.
func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM facility_state`); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`DELETE FROM game_records`); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func fromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
