package scorer

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/senko/internal/judge"
	"github.com/hyperjump/senko/internal/models"
	"github.com/hyperjump/senko/internal/ranking"
)

type stubSemantic struct {
	similarity float64
	err        error
}

func (s *stubSemantic) DirectSimilarity(_ context.Context, _, _ string) (float64, error) {
	return s.similarity, s.err
}

type stubJudge struct {
	breakdown *judge.Breakdown
	err       error
}

func (s *stubJudge) Evaluate(_ context.Context, _ *models.Posting, _ *models.Profile) (*judge.Breakdown, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.breakdown, nil
}

type memoryRankings struct {
	records      map[string]*models.ScoreRecord
	version      int64
	recomputed   int
	recomputeErr error
}

func newMemoryRankings() *memoryRankings {
	return &memoryRankings{records: make(map[string]*models.ScoreRecord)}
}

func (m *memoryRankings) Upsert(_ context.Context, rec *models.ScoreRecord) (int64, error) {
	m.records[rec.ProfileID+"/"+rec.PostingID] = rec
	m.version++
	return m.version, nil
}

func (m *memoryRankings) RecomputeRanks(_ context.Context, _ string, _ int64) error {
	if m.recomputeErr != nil {
		return m.recomputeErr
	}
	m.recomputed++
	return nil
}

func newTestScorer(semantic *stubSemantic, j *stubJudge, rankings *memoryRankings) *Scorer {
	return NewScorer(semantic, j, rankings, 0, zap.NewNop())
}

func TestScorePairCombinedFormula(t *testing.T) {
	rankings := newMemoryRankings()
	s := newTestScorer(
		&stubSemantic{similarity: 0.75},
		&stubJudge{breakdown: &judge.Breakdown{Overall: 90}},
		rankings,
	)

	res, err := s.ScorePair(context.Background(),
		&models.Posting{ID: "job-1", Title: "Engineer"},
		&models.Profile{ID: "cand-1", Name: "Jordan"},
	)
	if err != nil {
		t.Fatal(err)
	}

	if res.Record.Score != 81.0 {
		t.Fatalf("expected score 81.0 for semantic 0.75 and judge 90, got %v", res.Record.Score)
	}
	if !res.Record.Shortlisted {
		t.Error("expected 81.0 to be shortlisted at default threshold")
	}
	if res.Degraded {
		t.Error("expected non-degraded result")
	}
	if rankings.recomputed != 1 {
		t.Errorf("expected one rank recompute, got %d", rankings.recomputed)
	}
	if _, ok := rankings.records["cand-1/job-1"]; !ok {
		t.Error("expected record persisted")
	}
}

func TestScorePairMonotonicInSemantic(t *testing.T) {
	var prev float64 = -1
	for _, sim := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
		s := newTestScorer(
			&stubSemantic{similarity: sim},
			&stubJudge{breakdown: &judge.Breakdown{Overall: 50}},
			newMemoryRankings(),
		)
		res, err := s.ScorePair(context.Background(),
			&models.Posting{ID: "job-1"}, &models.Profile{ID: "cand-1"},
		)
		if err != nil {
			t.Fatal(err)
		}
		if res.Record.Score <= prev {
			t.Fatalf("expected score to increase with similarity, got %v after %v", res.Record.Score, prev)
		}
		prev = res.Record.Score
	}
}

func TestScorePairMonotonicInJudge(t *testing.T) {
	var prev float64 = -1
	for _, overall := range []float64{0, 25, 50, 75, 100} {
		s := newTestScorer(
			&stubSemantic{similarity: 0.5},
			&stubJudge{breakdown: &judge.Breakdown{Overall: overall}},
			newMemoryRankings(),
		)
		res, err := s.ScorePair(context.Background(),
			&models.Posting{ID: "job-1"}, &models.Profile{ID: "cand-1"},
		)
		if err != nil {
			t.Fatal(err)
		}
		if res.Record.Score <= prev {
			t.Fatalf("expected score to increase with judge overall, got %v after %v", res.Record.Score, prev)
		}
		prev = res.Record.Score
	}
}

func TestScorePairJudgeFailureDegrades(t *testing.T) {
	rankings := newMemoryRankings()
	s := newTestScorer(
		&stubSemantic{similarity: 0.9},
		&stubJudge{err: judge.ErrExternalCall},
		rankings,
	)

	res, err := s.ScorePair(context.Background(),
		&models.Posting{ID: "job-1"}, &models.Profile{ID: "cand-1"},
	)
	if err != nil {
		t.Fatal(err)
	}

	if !res.Degraded {
		t.Error("expected degraded result")
	}
	if res.Record.Score != 54.0 {
		t.Fatalf("expected semantic-only score 54.0, got %v", res.Record.Score)
	}
	if res.Record.Shortlisted {
		t.Error("expected 54.0 below default threshold")
	}
	if _, ok := rankings.records["cand-1/job-1"]; !ok {
		t.Error("expected degraded result still persisted")
	}
}

func TestScorePairEmbeddingFailureIsFatal(t *testing.T) {
	rankings := newMemoryRankings()
	s := newTestScorer(
		&stubSemantic{err: errors.New("embedder down")},
		&stubJudge{breakdown: &judge.Breakdown{Overall: 90}},
		rankings,
	)

	if _, err := s.ScorePair(context.Background(),
		&models.Posting{ID: "job-1"}, &models.Profile{ID: "cand-1"},
	); err == nil {
		t.Fatal("expected error when similarity fails")
	}
	if len(rankings.records) != 0 {
		t.Error("expected nothing persisted on fatal failure")
	}
}

func TestScorePairStaleRecomputeIgnored(t *testing.T) {
	rankings := newMemoryRankings()
	rankings.recomputeErr = ranking.ErrStaleRecompute
	s := newTestScorer(
		&stubSemantic{similarity: 0.5},
		&stubJudge{breakdown: &judge.Breakdown{Overall: 50}},
		rankings,
	)

	res, err := s.ScorePair(context.Background(),
		&models.Posting{ID: "job-1"}, &models.Profile{ID: "cand-1"},
	)
	if err != nil {
		t.Fatalf("stale recompute should not fail the pair: %v", err)
	}
	if res.Record.Score != 50.0 {
		t.Fatalf("expected score 50.0, got %v", res.Record.Score)
	}
}

func TestScorePairCustomThreshold(t *testing.T) {
	s := NewScorer(
		&stubSemantic{similarity: 0.75},
		&stubJudge{breakdown: &judge.Breakdown{Overall: 90}},
		newMemoryRankings(),
		85.0,
		zap.NewNop(),
	)

	res, err := s.ScorePair(context.Background(),
		&models.Posting{ID: "job-1"}, &models.Profile{ID: "cand-1"},
	)
	if err != nil {
		t.Fatal(err)
	}
	if res.Record.Shortlisted {
		t.Error("expected 81.0 below custom threshold 85.0")
	}
}

func TestScorePairSemanticClamped(t *testing.T) {
	s := newTestScorer(
		&stubSemantic{similarity: 1.5},
		&stubJudge{breakdown: &judge.Breakdown{Overall: 100}},
		newMemoryRankings(),
	)

	res, err := s.ScorePair(context.Background(),
		&models.Posting{ID: "job-1"}, &models.Profile{ID: "cand-1"},
	)
	if err != nil {
		t.Fatal(err)
	}
	if res.Record.Score != 100.0 {
		t.Fatalf("expected clamped maximum 100.0, got %v", res.Record.Score)
	}
}
