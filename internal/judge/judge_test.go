package judge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/senko/internal/models"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testPair() (*models.Posting, *models.Profile) {
	posting := &models.Posting{
		ID:      "job-1",
		Title:   "Backend Engineer",
		Company: "Acme",
		Skills:  []string{"Go", "SQL"},
	}
	profile := &models.Profile{
		ID:     "cand-1",
		Name:   "Jordan Smith",
		Skills: []string{"Go", "Python"},
	}
	return posting, profile
}

func TestGeminiJudgeEvaluate(t *testing.T) {
	stub := &stubGenerator{response: `{"skills_score": 85.0, "experience_score": 70, "education_score": "90", "additional_score": 50.5, "overall_score": 78.5}`}
	j := NewGeminiJudge(stub, zap.NewNop())

	posting, profile := testPair()
	b, err := j.Evaluate(context.Background(), posting, profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b.Skills != 85.0 {
		t.Fatalf("expected skills 85.0, got %v", b.Skills)
	}
	if b.Experience != 70.0 {
		t.Fatalf("expected experience 70.0, got %v", b.Experience)
	}
	if b.Education != 90.0 {
		t.Fatalf("expected education coerced from string, got %v", b.Education)
	}
	if b.Overall != 78.5 {
		t.Fatalf("expected overall 78.5, got %v", b.Overall)
	}

	if !strings.Contains(stub.lastPrompt, "Backend Engineer") {
		t.Fatalf("expected posting text in prompt")
	}
	if !strings.Contains(stub.lastPrompt, "Jordan Smith") {
		t.Fatalf("expected profile text in prompt")
	}
}

func TestGeminiJudgeEvaluateFencedResponse(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"skills_score\": 40, \"overall_score\": 55}\n```"}
	j := NewGeminiJudge(stub, zap.NewNop())

	posting, profile := testPair()
	b, err := j.Evaluate(context.Background(), posting, profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Overall != 55.0 {
		t.Fatalf("expected overall 55.0, got %v", b.Overall)
	}
	if b.Experience != 0 {
		t.Fatalf("expected missing category to default to 0, got %v", b.Experience)
	}
}

func TestGeminiJudgeEvaluateClampsScores(t *testing.T) {
	stub := &stubGenerator{response: `{"skills_score": 150, "experience_score": -20, "overall_score": 101}`}
	j := NewGeminiJudge(stub, zap.NewNop())

	posting, profile := testPair()
	b, err := j.Evaluate(context.Background(), posting, profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Skills != 100 {
		t.Fatalf("expected skills clamped to 100, got %v", b.Skills)
	}
	if b.Experience != 0 {
		t.Fatalf("expected experience clamped to 0, got %v", b.Experience)
	}
	if b.Overall != 100 {
		t.Fatalf("expected overall clamped to 100, got %v", b.Overall)
	}
}

func TestGeminiJudgeEvaluateGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("deadline exceeded")}
	j := NewGeminiJudge(stub, zap.NewNop())

	posting, profile := testPair()
	_, err := j.Evaluate(context.Background(), posting, profile)
	if !errors.Is(err, ErrExternalCall) {
		t.Fatalf("expected ErrExternalCall, got %v", err)
	}
}

func TestGeminiJudgeEvaluateMalformedResponse(t *testing.T) {
	stub := &stubGenerator{response: "I cannot evaluate this candidate."}
	j := NewGeminiJudge(stub, zap.NewNop())

	posting, profile := testPair()
	_, err := j.Evaluate(context.Background(), posting, profile)
	if !errors.Is(err, ErrExternalCall) {
		t.Fatalf("expected ErrExternalCall, got %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced no language", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"backticks", "`{\"a\": 1}`", `{"a": 1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSON(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
