// Package matcher orchestrates ingestion, candidate retrieval, and hybrid
// scoring across the posting and profile collections.
package matcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/senko/internal/extract"
	"github.com/hyperjump/senko/internal/intake"
	"github.com/hyperjump/senko/internal/keyword"
	"github.com/hyperjump/senko/internal/models"
	"github.com/hyperjump/senko/internal/ranking"
	"github.com/hyperjump/senko/internal/records"
	"github.com/hyperjump/senko/internal/scorer"
	"github.com/hyperjump/senko/internal/similarity"
)

const (
	// defaultCandidatePool is how many profiles the vector index
	// pre-selects per posting before hybrid scoring.
	defaultCandidatePool = 20
	// defaultJobPool is how many postings are pre-selected per profile.
	defaultJobPool = 10
	// defaultConcurrency bounds parallel pair scoring.
	defaultConcurrency = 4
)

type structuredParser interface {
	ParsePosting(ctx context.Context, raw string) (*models.PostingInput, error)
	ParseProfile(ctx context.Context, raw string) (*models.ProfileInput, error)
}

// Options tune retrieval pool sizes and scoring concurrency. Zero values
// select defaults.
type Options struct {
	CandidatePool int
	JobPool       int
	Concurrency   int
}

// Matcher wires the record store, both similarity engines, the keyword
// index, and the hybrid scorer into the matching workflows.
type Matcher struct {
	records       records.Store
	postings      *similarity.Engine
	profiles      *similarity.Engine
	keywordIndex  keyword.Index
	parser        structuredParser
	extractor     *extract.Extractor
	scorer        *scorer.Scorer
	rankings      ranking.Store
	logger        *zap.Logger
	candidatePool int
	jobPool       int
	concurrency   int
}

func New(
	recordStore records.Store,
	postingEngine, profileEngine *similarity.Engine,
	keywordIndex keyword.Index,
	p structuredParser,
	extractor *extract.Extractor,
	s *scorer.Scorer,
	rankings ranking.Store,
	opts Options,
	logger *zap.Logger,
) *Matcher {
	if opts.CandidatePool <= 0 {
		opts.CandidatePool = defaultCandidatePool
	}
	if opts.JobPool <= 0 {
		opts.JobPool = defaultJobPool
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Matcher{
		records:       recordStore,
		postings:      postingEngine,
		profiles:      profileEngine,
		keywordIndex:  keywordIndex,
		parser:        p,
		extractor:     extractor,
		scorer:        s,
		rankings:      rankings,
		logger:        logger,
		candidatePool: opts.CandidatePool,
		jobPool:       opts.JobPool,
		concurrency:   opts.Concurrency,
	}
}

// IngestPosting stores a posting and indexes it in the vector and keyword
// indexes. When the input carries raw text, structured fields are
// extracted first. A missing ID is assigned.
func (m *Matcher) IngestPosting(ctx context.Context, input *models.PostingInput) (*models.Posting, error) {
	if input == nil {
		return nil, fmt.Errorf("posting input is required")
	}

	if input.Raw != "" {
		parsed, err := m.parser.ParsePosting(ctx, input.Raw)
		if err != nil {
			return nil, fmt.Errorf("extract posting fields: %w", err)
		}
		parsed.ID = input.ID
		input = parsed
	}

	posting := &models.Posting{
		ID:            input.ID,
		Title:         input.Title,
		Company:       input.Company,
		Experience:    input.Experience,
		Qualification: input.Qualification,
		Skills:        input.Skills,
		Description:   input.Description,
	}
	if posting.ID == "" {
		posting.ID = uuid.NewString()
	}

	if err := m.records.CreatePosting(ctx, posting); err != nil {
		return nil, fmt.Errorf("store posting: %w", err)
	}
	if _, err := m.postings.Insert(ctx, posting.ID, posting.CanonicalText(), posting.Attributes()); err != nil {
		return nil, fmt.Errorf("index posting vector: %w", err)
	}
	if err := m.keywordIndex.IndexPosting(ctx, posting); err != nil {
		return nil, fmt.Errorf("index posting keywords: %w", err)
	}

	m.logger.Info("ingested posting",
		zap.String("posting_id", posting.ID),
		zap.String("title", posting.Title),
	)
	return posting, nil
}

// IngestProfile stores a profile and indexes it in the profile collection.
// When the input carries raw resume text, structured fields are extracted
// first. A missing ID is assigned.
func (m *Matcher) IngestProfile(ctx context.Context, input *models.ProfileInput) (*models.Profile, error) {
	if input == nil {
		return nil, fmt.Errorf("profile input is required")
	}

	if input.Raw != "" {
		parsed, err := m.parser.ParseProfile(ctx, input.Raw)
		if err != nil {
			return nil, fmt.Errorf("extract profile fields: %w", err)
		}
		parsed.ID = input.ID
		input = parsed
	}

	profile := &models.Profile{
		ID:         input.ID,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Skills:     input.Skills,
		Experience: input.Experience,
		Education:  input.Education,
	}
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}

	if err := m.records.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("store profile: %w", err)
	}
	if _, err := m.profiles.Insert(ctx, profile.ID, profile.CanonicalText(), profile.Attributes()); err != nil {
		return nil, fmt.Errorf("index profile vector: %w", err)
	}

	m.logger.Info("ingested profile",
		zap.String("profile_id", profile.ID),
		zap.String("name", profile.Name),
	)
	return profile, nil
}

// IngestProfileFile extracts text from a resume file and ingests it under
// a stable path-derived ID. Re-importing the same file, including the
// intake sync on startup, returns the existing profile instead of minting
// a duplicate.
func (m *Matcher) IngestProfileFile(ctx context.Context, path string) (*models.Profile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve resume path: %w", err)
	}
	id := intake.FileID(abs)
	if m.profiles.Has(id) {
		return m.records.GetProfile(ctx, id)
	}
	text, err := m.extractor.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("extract resume text: %w", err)
	}
	return m.IngestProfile(ctx, &models.ProfileInput{ID: id, Raw: text})
}

// ScorePair scores one stored (profile, posting) pair and persists the
// result.
func (m *Matcher) ScorePair(ctx context.Context, profileID, postingID string) (*scorer.Result, error) {
	posting, err := m.records.GetPosting(ctx, postingID)
	if err != nil {
		return nil, err
	}
	profile, err := m.records.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return m.scorer.ScorePair(ctx, posting, profile)
}

// CandidatesForPosting pre-selects profiles by vector similarity, scores
// each pair, and returns ranked candidates with score at or above
// minScore.
func (m *Matcher) CandidatesForPosting(ctx context.Context, postingID string, minScore float64) ([]*models.CandidateMatch, error) {
	posting, err := m.records.GetPosting(ctx, postingID)
	if err != nil {
		return nil, err
	}

	hits, err := m.profiles.Search(ctx, posting.CanonicalText(), m.candidatePool)
	if err != nil {
		return nil, fmt.Errorf("candidate pre-selection: %w", err)
	}

	if err := m.scorePool(ctx, posting, hits); err != nil {
		return nil, err
	}

	recs, err := m.rankings.CandidatesForPosting(ctx, postingID, minScore)
	if err != nil {
		return nil, err
	}

	matches := make([]*models.CandidateMatch, 0, len(recs))
	for _, rec := range recs {
		match := &models.CandidateMatch{
			ProfileID:   rec.ProfileID,
			Score:       rec.Score,
			Rank:        rec.Rank,
			Shortlisted: rec.Shortlisted,
		}
		if profile, err := m.records.GetProfile(ctx, rec.ProfileID); err == nil {
			match.Name = profile.Name
			match.Email = profile.Email
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// scorePool scores the posting against each pre-selected profile with
// bounded concurrency. Pairs that already have a persisted record are
// skipped, so repeated candidate queries do not re-invoke the judge.
// Profiles that vanished between pre-selection and scoring are skipped.
func (m *Matcher) scorePool(ctx context.Context, posting *models.Posting, hits []similarity.Hit) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for _, hit := range hits {
		profileID := hit.ExternalID
		g.Go(func() error {
			if rec, err := m.rankings.Get(ctx, profileID, posting.ID); err != nil {
				return fmt.Errorf("check existing score for profile %s: %w", profileID, err)
			} else if rec != nil {
				return nil
			}
			profile, err := m.records.GetProfile(ctx, profileID)
			if err != nil {
				m.logger.Warn("pre-selected profile missing from record store",
					zap.String("profile_id", profileID),
					zap.Error(err),
				)
				return nil
			}
			if _, err := m.scorer.ScorePair(ctx, posting, profile); err != nil {
				return fmt.Errorf("score profile %s: %w", profileID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// MatchesForProfile pre-selects postings by vector similarity, scores each
// pair that has no persisted record yet, and returns the profile's matches
// ordered by descending score.
func (m *Matcher) MatchesForProfile(ctx context.Context, profileID string) ([]*models.JobMatch, error) {
	profile, err := m.records.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	hits, err := m.postings.Search(ctx, profile.CanonicalText(), m.jobPool)
	if err != nil {
		return nil, fmt.Errorf("posting pre-selection: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for _, hit := range hits {
		postingID := hit.ExternalID
		g.Go(func() error {
			if rec, err := m.rankings.Get(gctx, profileID, postingID); err != nil {
				return fmt.Errorf("check existing score for posting %s: %w", postingID, err)
			} else if rec != nil {
				return nil
			}
			posting, err := m.records.GetPosting(gctx, postingID)
			if err != nil {
				m.logger.Warn("pre-selected posting missing from record store",
					zap.String("posting_id", postingID),
					zap.Error(err),
				)
				return nil
			}
			if _, err := m.scorer.ScorePair(gctx, posting, profile); err != nil {
				return fmt.Errorf("score posting %s: %w", postingID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recs, err := m.rankings.MatchesForProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	matches := make([]*models.JobMatch, 0, len(recs))
	for _, rec := range recs {
		match := &models.JobMatch{
			PostingID:   rec.PostingID,
			Score:       rec.Score,
			Rank:        rec.Rank,
			Shortlisted: rec.Shortlisted,
		}
		if posting, err := m.records.GetPosting(ctx, rec.PostingID); err == nil {
			match.Title = posting.Title
			match.Company = posting.Company
		}
		matches = append(matches, match)
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches, nil
}

// RemovePosting deletes the posting's record, keyword entry, and score
// rows. The vector index entry remains (the index is append-only); query
// paths already skip vectors whose record is gone.
func (m *Matcher) RemovePosting(ctx context.Context, postingID string) error {
	if _, err := m.records.GetPosting(ctx, postingID); err != nil {
		return err
	}
	if err := m.records.DeletePosting(ctx, postingID); err != nil {
		return fmt.Errorf("delete posting record: %w", err)
	}
	if err := m.keywordIndex.Delete(ctx, postingID); err != nil {
		return fmt.Errorf("delete posting keywords: %w", err)
	}
	if err := m.rankings.DeleteForPosting(ctx, postingID); err != nil {
		return fmt.Errorf("delete posting rankings: %w", err)
	}
	m.logger.Info("removed posting", zap.String("posting_id", postingID))
	return nil
}

// Shortlist returns the posting's shortlisted candidates ordered by rank.
func (m *Matcher) Shortlist(ctx context.Context, postingID string) ([]*models.CandidateMatch, error) {
	if _, err := m.records.GetPosting(ctx, postingID); err != nil {
		return nil, err
	}

	recs, err := m.rankings.Shortlisted(ctx, postingID)
	if err != nil {
		return nil, err
	}

	matches := make([]*models.CandidateMatch, 0, len(recs))
	for _, rec := range recs {
		match := &models.CandidateMatch{
			ProfileID:   rec.ProfileID,
			Score:       rec.Score,
			Rank:        rec.Rank,
			Shortlisted: rec.Shortlisted,
		}
		if profile, err := m.records.GetProfile(ctx, rec.ProfileID); err == nil {
			match.Name = profile.Name
			match.Email = profile.Email
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// SearchPostings runs a keyword query over the posting index and returns
// the matching postings.
func (m *Matcher) SearchPostings(ctx context.Context, query string, limit int) ([]*models.Posting, error) {
	if limit <= 0 {
		limit = 10
	}
	results, err := m.keywordIndex.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	postings := make([]*models.Posting, 0, len(results))
	for _, res := range results {
		posting, err := m.records.GetPosting(ctx, res.ID)
		if err != nil {
			m.logger.Warn("indexed posting missing from record store",
				zap.String("posting_id", res.ID),
				zap.Error(err),
			)
			continue
		}
		postings = append(postings, posting)
	}
	return postings, nil
}

// Status summarizes collection sizes for the status endpoint.
type Status struct {
	Postings        int64 `json:"postings"`
	Profiles        int64 `json:"profiles"`
	PostingVectors  int   `json:"posting_vectors"`
	ProfileVectors  int   `json:"profile_vectors"`
	IndexedKeywords uint64 `json:"indexed_keywords"`
}

// Status reports collection sizes.
func (m *Matcher) Status(ctx context.Context) (*Status, error) {
	postings, err := m.records.CountPostings(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := m.records.CountProfiles(ctx)
	if err != nil {
		return nil, err
	}
	keywords, err := m.keywordIndex.DocCount()
	if err != nil {
		return nil, err
	}
	return &Status{
		Postings:        postings,
		Profiles:        profiles,
		PostingVectors:  m.postings.Size(),
		ProfileVectors:  m.profiles.Size(),
		IndexedKeywords: keywords,
	}, nil
}
