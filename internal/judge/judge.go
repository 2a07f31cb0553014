// Package judge scores a posting/profile pair with an external LLM,
// producing a weighted breakdown on a 0-100 scale.
package judge

import (
	"context"
	"errors"

	"github.com/hyperjump/senko/internal/models"
)

// ErrExternalCall marks a recoverable judge failure. Callers degrade to
// semantic-only scoring when they see it.
var ErrExternalCall = errors.New("judge call failed")

// Breakdown holds the per-category scores returned by the judge. All
// values are clamped to [0, 100].
type Breakdown struct {
	Skills     float64 `json:"skills_score"`
	Experience float64 `json:"experience_score"`
	Education  float64 `json:"education_score"`
	Additional float64 `json:"additional_score"`
	Overall    float64 `json:"overall_score"`
}

// Judge evaluates how well a profile fits a posting.
type Judge interface {
	Evaluate(ctx context.Context, posting *models.Posting, profile *models.Profile) (*Breakdown, error)
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
