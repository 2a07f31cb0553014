package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/senko/internal/config"
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

type stubParser struct{}

func (stubParser) ParsePosting(_ context.Context, _ string) (*models.PostingInput, error) {
	return nil, fmt.Errorf("extraction not configured")
}

func (stubParser) ParseProfile(_ context.Context, _ string) (*models.ProfileInput, error) {
	return nil, fmt.Errorf("extraction not configured")
}

type stubJudge struct{}

func (stubJudge) Evaluate(_ context.Context, _ *models.Posting, _ *models.Profile) (*judge.Breakdown, error) {
	return &judge.Breakdown{Overall: 90}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	logger := zap.NewNop()
	embedder := embedding.NewMockEmbedder(32)

	recordStore, err := records.NewSQLiteStore(filepath.Join(dir, "records.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { recordStore.Close() })

	postingEngine, err := similarity.NewEngine("postings",
		filepath.Join(dir, "postings.vec"), filepath.Join(dir, "postings.cat"), embedder, logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { postingEngine.Close() })

	profileEngine, err := similarity.NewEngine("profiles",
		filepath.Join(dir, "profiles.vec"), filepath.Join(dir, "profiles.cat"), embedder, logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { profileEngine.Close() })

	keywordIndex, err := keyword.NewBleveIndex(filepath.Join(dir, "bleve"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { keywordIndex.Close() })

	rankings, err := ranking.NewSQLiteStore(filepath.Join(dir, "rankings.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { rankings.Close() })

	s := scorer.NewScorer(postingEngine, stubJudge{}, rankings, 0, logger)
	m := matcher.New(recordStore, postingEngine, profileEngine, keywordIndex,
		stubParser{}, extract.NewExtractor(), s, rankings, matcher.Options{Concurrency: 1}, logger)

	return NewServer(m, recordStore, &config.ServerConfig{Host: "localhost", Port: 8080}, logger)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHandleCreateAndGetPosting(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/v1/postings", models.PostingInput{
		Title:   "Backend Engineer",
		Company: "Acme",
		Skills:  []string{"Go"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var posting models.Posting
	if err := json.NewDecoder(w.Body).Decode(&posting); err != nil {
		t.Fatal(err)
	}
	if posting.ID == "" {
		t.Fatal("expected posting ID in response")
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/postings/"+posting.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/postings/does-not-exist", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing posting status = %d", w.Code)
	}
}

func TestHandleDeletePosting(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/v1/postings", models.PostingInput{Title: "Backend Engineer"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	var posting models.Posting
	if err := json.NewDecoder(w.Body).Decode(&posting); err != nil {
		t.Fatal(err)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/v1/postings/"+posting.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/postings/"+posting.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted posting status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/v1/postings/does-not-exist", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete of unknown posting status = %d", w.Code)
	}
}

func TestHandleScoreAndCandidates(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/v1/postings", models.PostingInput{Title: "Backend Engineer"})
	var posting models.Posting
	if err := json.NewDecoder(w.Body).Decode(&posting); err != nil {
		t.Fatal(err)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/profiles", models.ProfileInput{Name: "Jordan", Skills: []string{"Go"}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create profile status = %d", w.Code)
	}
	var profile models.Profile
	if err := json.NewDecoder(w.Body).Decode(&profile); err != nil {
		t.Fatal(err)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/score", scoreRequest{
		ProfileID: profile.ID, PostingID: posting.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("score status = %d, body %s", w.Code, w.Body.String())
	}
	var result scorer.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Record == nil || result.Record.Score <= 0 {
		t.Fatalf("expected scored record, got %+v", result)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/postings/"+posting.ID+"/candidates", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("candidates status = %d", w.Code)
	}
	var matches []*models.CandidateMatch
	if err := json.NewDecoder(w.Body).Decode(&matches); err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].ProfileID != profile.ID {
		t.Fatalf("expected one candidate, got %+v", matches)
	}
	if matches[0].Rank != 1 {
		t.Errorf("expected rank 1, got %d", matches[0].Rank)
	}
}

func TestHandleScoreValidation(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/v1/score", scoreRequest{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty score request status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/score", scoreRequest{
		ProfileID: "ghost", PostingID: "ghost",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown pair status = %d", w.Code)
	}
}

func TestHandleSearchPostings(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	doJSON(t, router, http.MethodPost, "/api/v1/postings", models.PostingInput{Title: "Site Reliability Engineer"})
	doJSON(t, router, http.MethodPost, "/api/v1/postings", models.PostingInput{Title: "Product Designer"})

	w := doJSON(t, router, http.MethodPost, "/api/v1/postings/search", searchRequest{Query: "reliability"})
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}
	var postings []*models.Posting
	if err := json.NewDecoder(w.Body).Decode(&postings); err != nil {
		t.Fatal(err)
	}
	if len(postings) != 1 || postings[0].Title != "Site Reliability Engineer" {
		t.Fatalf("got %+v", postings)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/postings/search", searchRequest{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty query status = %d", w.Code)
	}
}

func TestHandleHealthAndStatus(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}

	doJSON(t, router, http.MethodPost, "/api/v1/profiles", models.ProfileInput{Name: "Jordan"})

	w = doJSON(t, router, http.MethodGet, "/api/v1/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d", w.Code)
	}
	var status matcher.Status
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Profiles != 1 {
		t.Errorf("expected 1 profile in status, got %+v", status)
	}
}

func TestHandleListProfiles(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	for i := 0; i < 3; i++ {
		doJSON(t, router, http.MethodPost, "/api/v1/profiles", models.ProfileInput{
			Name: fmt.Sprintf("Candidate %d", i),
		})
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/profiles?limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var profiles []*models.Profile
	if err := json.NewDecoder(w.Body).Decode(&profiles); err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected limit applied, got %d profiles", len(profiles))
	}
}
