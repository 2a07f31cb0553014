// Package keyword provides BM25 keyword search over postings.
package keyword

import (
	"context"

	"github.com/hyperjump/senko/internal/models"
)

// Result is a single keyword search hit.
type Result struct {
	ID    string
	Score float64
}

// Index defines keyword search operations over postings.
type Index interface {
	IndexPosting(ctx context.Context, posting *models.Posting) error
	Search(ctx context.Context, query string, limit int) ([]*Result, error)
	Delete(ctx context.Context, id string) error
	DocCount() (uint64, error)
	Close() error
}
