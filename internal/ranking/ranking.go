// Package ranking persists match scores and maintains dense per-posting
// ranks over them.
package ranking

import (
	"context"
	"errors"

	"github.com/hyperjump/senko/internal/models"
)

// ErrStaleRecompute is returned when a rank recompute was based on a
// ranking version that newer writes have already superseded. The caller
// discards the attempt; the newer write triggers its own recompute.
var ErrStaleRecompute = errors.New("ranking version superseded")

// Store persists score records and serves the ranking query surface.
type Store interface {
	// Upsert writes the record for its (profile, posting) pair, replacing
	// any prior record, and returns the new ranking version for the
	// posting. Ranks are not adjusted; call RecomputeRanks with the
	// returned version.
	Upsert(ctx context.Context, rec *models.ScoreRecord) (int64, error)

	// RecomputeRanks reassigns dense ranks (1 = best) for every record of
	// the posting, ordered by descending score with ties broken by
	// ascending profile ID. If the posting's ranking version no longer
	// equals version, nothing is written and ErrStaleRecompute is
	// returned.
	RecomputeRanks(ctx context.Context, postingID string, version int64) error

	// Get returns the record for the pair, or nil if none exists.
	Get(ctx context.Context, profileID, postingID string) (*models.ScoreRecord, error)

	// CandidatesForPosting returns records for the posting with score at
	// or above minScore, ordered by rank.
	CandidatesForPosting(ctx context.Context, postingID string, minScore float64) ([]*models.ScoreRecord, error)

	// Shortlisted returns the shortlisted records for the posting,
	// ordered by rank.
	Shortlisted(ctx context.Context, postingID string) ([]*models.ScoreRecord, error)

	// MatchesForProfile returns all records for the profile ordered by
	// descending score.
	MatchesForProfile(ctx context.Context, profileID string) ([]*models.ScoreRecord, error)

	// DeleteForPosting removes every record and the ranking version for
	// the posting. Deleting a posting with no records is a no-op.
	DeleteForPosting(ctx context.Context, postingID string) error

	Close() error
}
