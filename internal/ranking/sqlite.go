package ranking

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/senko/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and
// initializes the schema. Parent directories are created if they do not
// exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS rankings (
		profile_id TEXT NOT NULL,
		posting_id TEXT NOT NULL,
		match_score REAL NOT NULL,
		rank INTEGER NOT NULL DEFAULT 0,
		shortlisted BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(profile_id, posting_id)
	);

	CREATE INDEX IF NOT EXISTS idx_rankings_posting ON rankings(posting_id, match_score DESC);
	CREATE INDEX IF NOT EXISTS idx_rankings_profile ON rankings(profile_id);

	CREATE TABLE IF NOT EXISTS ranking_versions (
		posting_id TEXT PRIMARY KEY,
		version INTEGER NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Upsert writes the record and bumps the posting's ranking version in one
// transaction.
func (s *SQLiteStore) Upsert(ctx context.Context, rec *models.ScoreRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rec.CreatedAt = time.Now()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO rankings (profile_id, posting_id, match_score, rank, shortlisted, created_at)
		 VALUES (?, ?, ?, 0, ?, ?)
		 ON CONFLICT(profile_id, posting_id) DO UPDATE SET
			match_score = excluded.match_score,
			rank = 0,
			shortlisted = excluded.shortlisted,
			created_at = excluded.created_at`,
		rec.ProfileID, rec.PostingID, rec.Score, rec.Shortlisted, rec.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert ranking: %w", err)
	}

	var version int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO ranking_versions (posting_id, version) VALUES (?, 1)
		 ON CONFLICT(posting_id) DO UPDATE SET version = version + 1
		 RETURNING version`,
		rec.PostingID,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to bump ranking version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return version, nil
}

// RecomputeRanks assigns dense ranks 1..N for the posting's records unless
// a newer upsert has bumped the version past the one the caller observed.
func (s *SQLiteStore) RecomputeRanks(ctx context.Context, postingID string, version int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var current int64
	err = tx.QueryRowContext(ctx,
		`SELECT version FROM ranking_versions WHERE posting_id = ?`, postingID,
	).Scan(&current)
	if err == sql.ErrNoRows {
		return ErrStaleRecompute
	}
	if err != nil {
		return err
	}
	if current != version {
		return ErrStaleRecompute
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT profile_id FROM rankings
		 WHERE posting_id = ?
		 ORDER BY match_score DESC, profile_id ASC`,
		postingID,
	)
	if err != nil {
		return err
	}

	var profileIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		profileIDs = append(profileIDs, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE rankings SET rank = ? WHERE profile_id = ? AND posting_id = ?`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, id := range profileIDs {
		if _, err := stmt.ExecContext(ctx, i+1, id, postingID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get returns the record for the pair, or nil if absent.
func (s *SQLiteStore) Get(ctx context.Context, profileID, postingID string) (*models.ScoreRecord, error) {
	rec := &models.ScoreRecord{}
	err := s.db.QueryRowContext(ctx,
		`SELECT profile_id, posting_id, match_score, rank, shortlisted, created_at
		 FROM rankings WHERE profile_id = ? AND posting_id = ?`,
		profileID, postingID,
	).Scan(&rec.ProfileID, &rec.PostingID, &rec.Score, &rec.Rank, &rec.Shortlisted, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CandidatesForPosting returns ranked records at or above minScore.
func (s *SQLiteStore) CandidatesForPosting(ctx context.Context, postingID string, minScore float64) ([]*models.ScoreRecord, error) {
	return s.queryRecords(ctx,
		`SELECT profile_id, posting_id, match_score, rank, shortlisted, created_at
		 FROM rankings WHERE posting_id = ? AND match_score >= ?
		 ORDER BY rank ASC`,
		postingID, minScore,
	)
}

// Shortlisted returns the posting's shortlisted records ordered by rank.
func (s *SQLiteStore) Shortlisted(ctx context.Context, postingID string) ([]*models.ScoreRecord, error) {
	return s.queryRecords(ctx,
		`SELECT profile_id, posting_id, match_score, rank, shortlisted, created_at
		 FROM rankings WHERE posting_id = ? AND shortlisted = 1
		 ORDER BY rank ASC`,
		postingID,
	)
}

// MatchesForProfile returns all of the profile's records by descending
// score.
func (s *SQLiteStore) MatchesForProfile(ctx context.Context, profileID string) ([]*models.ScoreRecord, error) {
	return s.queryRecords(ctx,
		`SELECT profile_id, posting_id, match_score, rank, shortlisted, created_at
		 FROM rankings WHERE profile_id = ?
		 ORDER BY match_score DESC, posting_id ASC`,
		profileID,
	)
}

// DeleteForPosting removes the posting's records and version stamp in one
// transaction.
func (s *SQLiteStore) DeleteForPosting(ctx context.Context, postingID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rankings WHERE posting_id = ?`, postingID); err != nil {
		return fmt.Errorf("failed to delete rankings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ranking_versions WHERE posting_id = ?`, postingID); err != nil {
		return fmt.Errorf("failed to delete ranking version: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) queryRecords(ctx context.Context, query string, args ...any) ([]*models.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*models.ScoreRecord
	for rows.Next() {
		rec := &models.ScoreRecord{}
		if err := rows.Scan(&rec.ProfileID, &rec.PostingID, &rec.Score, &rec.Rank, &rec.Shortlisted, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
