package records

import (
	"context"
	"database/sql"
	"encoding/json"
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
	CREATE TABLE IF NOT EXISTS postings (
		posting_id TEXT PRIMARY KEY,
		title TEXT,
		company TEXT,
		experience TEXT,
		qualification TEXT,
		skills TEXT,
		description TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_postings_created_at ON postings(created_at);

	CREATE TABLE IF NOT EXISTS profiles (
		profile_id TEXT PRIMARY KEY,
		name TEXT,
		email TEXT,
		phone TEXT,
		skills TEXT,
		experience TEXT,
		education TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_profiles_created_at ON profiles(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// CreatePosting inserts a posting. Array fields are stored as JSON text.
func (s *SQLiteStore) CreatePosting(ctx context.Context, posting *models.Posting) error {
	skillsJSON, err := json.Marshal(posting.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}

	posting.CreatedAt = time.Now()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO postings (posting_id, title, company, experience, qualification, skills, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		posting.ID, posting.Title, posting.Company, posting.Experience,
		posting.Qualification, string(skillsJSON), posting.Description, posting.CreatedAt,
	)
	return err
}

// GetPosting returns a posting by ID.
func (s *SQLiteStore) GetPosting(ctx context.Context, id string) (*models.Posting, error) {
	var posting models.Posting
	var skillsJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT posting_id, title, company, experience, qualification, skills, description, created_at
		 FROM postings WHERE posting_id = ?`, id,
	).Scan(&posting.ID, &posting.Title, &posting.Company, &posting.Experience,
		&posting.Qualification, &skillsJSON, &posting.Description, &posting.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: posting %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if skillsJSON != "" {
		if err := json.Unmarshal([]byte(skillsJSON), &posting.Skills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
		}
	}
	return &posting, nil
}

// ListPostings returns postings with offset and limit.
func (s *SQLiteStore) ListPostings(ctx context.Context, offset, limit int) ([]*models.Posting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT posting_id, title, company, experience, qualification, skills, description, created_at
		 FROM postings ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postings []*models.Posting
	for rows.Next() {
		var posting models.Posting
		var skillsJSON string
		if err := rows.Scan(&posting.ID, &posting.Title, &posting.Company, &posting.Experience,
			&posting.Qualification, &skillsJSON, &posting.Description, &posting.CreatedAt); err != nil {
			return nil, err
		}
		if skillsJSON != "" {
			_ = json.Unmarshal([]byte(skillsJSON), &posting.Skills)
		}
		postings = append(postings, &posting)
	}
	return postings, rows.Err()
}

// DeletePosting removes a posting by ID.
func (s *SQLiteStore) DeletePosting(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM postings WHERE posting_id = ?`, id)
	return err
}

// CountPostings returns the total number of postings.
func (s *SQLiteStore) CountPostings(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM postings`).Scan(&count)
	return count, err
}

// CreateProfile inserts a profile. Array fields are stored as JSON text.
func (s *SQLiteStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	skillsJSON, err := json.Marshal(profile.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	experienceJSON, err := json.Marshal(profile.Experience)
	if err != nil {
		return fmt.Errorf("failed to marshal experience: %w", err)
	}
	educationJSON, err := json.Marshal(profile.Education)
	if err != nil {
		return fmt.Errorf("failed to marshal education: %w", err)
	}

	profile.CreatedAt = time.Now()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (profile_id, name, email, phone, skills, experience, education, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.ID, profile.Name, profile.Email, profile.Phone,
		string(skillsJSON), string(experienceJSON), string(educationJSON), profile.CreatedAt,
	)
	return err
}

// GetProfile returns a profile by ID.
func (s *SQLiteStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	var skillsJSON, experienceJSON, educationJSON string

	err := s.db.QueryRowContext(ctx,
		`SELECT profile_id, name, email, phone, skills, experience, education, created_at
		 FROM profiles WHERE profile_id = ?`, id,
	).Scan(&profile.ID, &profile.Name, &profile.Email, &profile.Phone,
		&skillsJSON, &experienceJSON, &educationJSON, &profile.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: profile %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := unmarshalProfileFields(&profile, skillsJSON, experienceJSON, educationJSON); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListProfiles returns profiles with offset and limit.
func (s *SQLiteStore) ListProfiles(ctx context.Context, offset, limit int) ([]*models.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT profile_id, name, email, phone, skills, experience, education, created_at
		 FROM profiles ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		var profile models.Profile
		var skillsJSON, experienceJSON, educationJSON string
		if err := rows.Scan(&profile.ID, &profile.Name, &profile.Email, &profile.Phone,
			&skillsJSON, &experienceJSON, &educationJSON, &profile.CreatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalProfileFields(&profile, skillsJSON, experienceJSON, educationJSON); err != nil {
			return nil, err
		}
		profiles = append(profiles, &profile)
	}
	return profiles, rows.Err()
}

func unmarshalProfileFields(profile *models.Profile, skillsJSON, experienceJSON, educationJSON string) error {
	if skillsJSON != "" {
		if err := json.Unmarshal([]byte(skillsJSON), &profile.Skills); err != nil {
			return fmt.Errorf("failed to unmarshal skills: %w", err)
		}
	}
	if experienceJSON != "" {
		if err := json.Unmarshal([]byte(experienceJSON), &profile.Experience); err != nil {
			return fmt.Errorf("failed to unmarshal experience: %w", err)
		}
	}
	if educationJSON != "" {
		if err := json.Unmarshal([]byte(educationJSON), &profile.Education); err != nil {
			return fmt.Errorf("failed to unmarshal education: %w", err)
		}
	}
	return nil
}

// DeleteProfile removes a profile by ID.
func (s *SQLiteStore) DeleteProfile(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE profile_id = ?`, id)
	return err
}

// CountProfiles returns the total number of profiles.
func (s *SQLiteStore) CountProfiles(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
