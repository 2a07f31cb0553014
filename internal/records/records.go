// Package records provides SQLite persistence for structured postings and
// profiles.
package records

import (
	"context"
	"errors"

	"github.com/hyperjump/senko/internal/models"
)

// ErrNotFound is returned when the requested posting or profile does not
// exist.
var ErrNotFound = errors.New("entity not found")

// Store persists structured postings and profiles.
type Store interface {
	CreatePosting(ctx context.Context, posting *models.Posting) error
	GetPosting(ctx context.Context, id string) (*models.Posting, error)
	ListPostings(ctx context.Context, offset, limit int) ([]*models.Posting, error)
	DeletePosting(ctx context.Context, id string) error
	CountPostings(ctx context.Context) (int64, error)

	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	ListProfiles(ctx context.Context, offset, limit int) ([]*models.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
	CountProfiles(ctx context.Context) (int64, error)

	Close() error
}
