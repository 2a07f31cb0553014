// Package integration provides end-to-end tests (requires real storage and indices).
package integration

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/senko/internal/embedding"
	"github.com/hyperjump/senko/internal/extract"
	"github.com/hyperjump/senko/internal/judge"
	"github.com/hyperjump/senko/internal/keyword"
	"github.com/hyperjump/senko/internal/matcher"
	"github.com/hyperjump/senko/internal/models"
	"github.com/hyperjump/senko/internal/ranking"
	"github.com/hyperjump/senko/internal/records"
	"github.com/hyperjump/senko/internal/scorer"
	"github.com/hyperjump/senko/internal/similarity"
)

type staticJudge struct {
	overall float64
}

func (j staticJudge) Evaluate(_ context.Context, _ *models.Posting, _ *models.Profile) (*judge.Breakdown, error) {
	return &judge.Breakdown{Overall: j.overall}, nil
}

type noParser struct{}

func (noParser) ParsePosting(_ context.Context, _ string) (*models.PostingInput, error) {
	return &models.PostingInput{}, nil
}

func (noParser) ParseProfile(_ context.Context, _ string) (*models.ProfileInput, error) {
	return &models.ProfileInput{}, nil
}

func TestIntegration_MatchingFlow(t *testing.T) {
	dir := t.TempDir()
	logger := zap.NewNop()
	embedder := embedding.NewMockEmbedder(16)
	defer embedder.Close()

	recordStore, err := records.NewSQLiteStore(filepath.Join(dir, "records.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer recordStore.Close()

	rankings, err := ranking.NewSQLiteStore(filepath.Join(dir, "rankings.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer rankings.Close()

	postingEngine, err := similarity.NewEngine("postings",
		filepath.Join(dir, "postings.vec"), filepath.Join(dir, "postings.cat"), embedder, logger)
	if err != nil {
		t.Fatal(err)
	}
	defer postingEngine.Close()

	profileEngine, err := similarity.NewEngine("profiles",
		filepath.Join(dir, "profiles.vec"), filepath.Join(dir, "profiles.cat"), embedder, logger)
	if err != nil {
		t.Fatal(err)
	}
	defer profileEngine.Close()

	kwIndex, err := keyword.NewBleveIndex(filepath.Join(dir, "bleve"))
	if err != nil {
		t.Fatal(err)
	}
	defer kwIndex.Close()

	s := scorer.NewScorer(postingEngine, staticJudge{overall: 90}, rankings, 0, logger)
	m := matcher.New(recordStore, postingEngine, profileEngine, kwIndex,
		noParser{}, extract.NewExtractor(), s, rankings, matcher.Options{Concurrency: 2}, logger)

	ctx := context.Background()

	posting, err := m.IngestPosting(ctx, &models.PostingInput{
		Title:       "Backend Engineer",
		Company:     "Acme",
		Skills:      []string{"Go", "PostgreSQL"},
		Description: "Build and operate Go services.",
	})
	if err != nil {
		t.Fatal(err)
	}

	profileIDs := make([]string, 0, 3)
	for _, name := range []string{"Asha", "Bram", "Chen"} {
		profile, err := m.IngestProfile(ctx, &models.ProfileInput{
			Name:   name,
			Skills: []string{"Go", "Docker"},
		})
		if err != nil {
			t.Fatal(err)
		}
		profileIDs = append(profileIDs, profile.ID)
	}

	result, err := m.ScorePair(ctx, profileIDs[0], posting.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.Record.Score <= 0 {
		t.Errorf("expected positive score, got %f", result.Record.Score)
	}

	candidates, err := m.CandidatesForPosting(ctx, posting.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	for i, c := range candidates {
		if c.Rank != i+1 {
			t.Errorf("candidate %d has rank %d, want %d", i, c.Rank, i+1)
		}
		if i > 0 && candidates[i-1].Score < c.Score {
			t.Errorf("candidates out of order at %d", i)
		}
	}

	matches, err := m.MatchesForProfile(ctx, profileIDs[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].PostingID != posting.ID {
		t.Fatalf("expected a single match for the posting, got %+v", matches)
	}

	hits, err := m.SearchPostings(ctx, "postgresql", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].ID != posting.ID {
		t.Fatalf("keyword search did not find the posting: %+v", hits)
	}
}
