// Package scorer blends semantic similarity with the LLM judge into the
// persisted match score.
package scorer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/senko/internal/judge"
	"github.com/hyperjump/senko/internal/models"
	"github.com/hyperjump/senko/internal/ranking"
	"github.com/hyperjump/senko/pkg/utils"
)

const (
	weightSemantic = 0.6
	weightJudge    = 0.4

	// DefaultThreshold is the percentage score at or above which a
	// candidate is shortlisted.
	DefaultThreshold = 80.0
)

type semanticProvider interface {
	DirectSimilarity(ctx context.Context, a, b string) (float64, error)
}

type rankingStore interface {
	Upsert(ctx context.Context, rec *models.ScoreRecord) (int64, error)
	RecomputeRanks(ctx context.Context, postingID string, version int64) error
}

// Result is the outcome of scoring one (posting, profile) pair. Record is
// the persisted score; the remaining fields expose how it was derived.
type Result struct {
	Record    *models.ScoreRecord `json:"record"`
	Semantic  float64             `json:"semantic_similarity"`
	Breakdown *judge.Breakdown    `json:"judge_breakdown"`
	// Degraded is true when the judge failed and the score was computed
	// from semantic similarity alone.
	Degraded bool `json:"degraded,omitempty"`
}

// Scorer computes hybrid match scores and persists them.
type Scorer struct {
	semantic  semanticProvider
	judge     judge.Judge
	rankings  rankingStore
	threshold float64
	logger    *zap.Logger
}

// NewScorer creates a Scorer. A threshold of 0 or less selects
// DefaultThreshold.
func NewScorer(semantic semanticProvider, j judge.Judge, rankings rankingStore, threshold float64, logger *zap.Logger) *Scorer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Scorer{
		semantic:  semantic,
		judge:     j,
		rankings:  rankings,
		threshold: threshold,
		logger:    logger,
	}
}

// Threshold returns the shortlist threshold in use.
func (s *Scorer) Threshold() float64 {
	return s.threshold
}

// ScorePair scores the pair and persists the result. Semantic similarity
// failure is fatal; a judge failure degrades the pair to semantic-only
// with a judge contribution of zero. Ranks are reassigned after the
// write; read them back through the ranking query surface.
func (s *Scorer) ScorePair(ctx context.Context, posting *models.Posting, profile *models.Profile) (*Result, error) {
	if posting == nil || profile == nil {
		return nil, fmt.Errorf("posting and profile are required")
	}

	semantic, err := s.semantic.DirectSimilarity(ctx, posting.CanonicalText(), profile.CanonicalText())
	if err != nil {
		return nil, fmt.Errorf("semantic similarity: %w", err)
	}
	semantic = utils.Clamp01(semantic)

	breakdown, err := s.judge.Evaluate(ctx, posting, profile)
	degraded := false
	if err != nil {
		if !errors.Is(err, judge.ErrExternalCall) {
			return nil, err
		}
		s.logger.Warn("judge unavailable, scoring on semantic similarity only",
			zap.String("posting_id", posting.ID),
			zap.String("profile_id", profile.ID),
			zap.Error(err),
		)
		breakdown = &judge.Breakdown{}
		degraded = true
	}

	combined := weightSemantic*semantic + weightJudge*(breakdown.Overall/100.0)
	score := utils.Round1(combined * 100.0)

	rec := &models.ScoreRecord{
		ProfileID:   profile.ID,
		PostingID:   posting.ID,
		Score:       score,
		Shortlisted: score >= s.threshold,
	}

	version, err := s.rankings.Upsert(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("persist score: %w", err)
	}
	if err := s.rankings.RecomputeRanks(ctx, posting.ID, version); err != nil {
		if !errors.Is(err, ranking.ErrStaleRecompute) {
			return nil, fmt.Errorf("recompute ranks: %w", err)
		}
		s.logger.Debug("rank recompute superseded by newer write",
			zap.String("posting_id", posting.ID),
			zap.Int64("version", version),
		)
	}

	s.logger.Debug("scored pair",
		zap.String("posting_id", posting.ID),
		zap.String("profile_id", profile.ID),
		zap.Float64("semantic", semantic),
		zap.Float64("judge_overall", breakdown.Overall),
		zap.Float64("score", score),
		zap.Bool("shortlisted", rec.Shortlisted),
	)

	return &Result{
		Record:    rec,
		Semantic:  semantic,
		Breakdown: breakdown,
		Degraded:  degraded,
	}, nil
}
