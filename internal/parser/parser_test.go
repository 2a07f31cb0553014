package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
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

func TestParsePosting(t *testing.T) {
	stub := &stubGenerator{response: `{
		"title": "Backend Engineer",
		"company": "Acme",
		"experience": "3+ years",
		"qualification": "BSc",
		"skills": ["Go", "SQL"],
		"description": "Build backend services."
	}`}
	p := NewParser(stub, zap.NewNop())

	input, err := p.ParsePosting(context.Background(), "We are hiring a backend engineer...")
	if err != nil {
		t.Fatal(err)
	}
	if input.Title != "Backend Engineer" || input.Company != "Acme" {
		t.Errorf("got %+v", input)
	}
	if len(input.Skills) != 2 {
		t.Errorf("expected 2 skills, got %v", input.Skills)
	}
	if !strings.Contains(stub.lastPrompt, "We are hiring a backend engineer") {
		t.Error("expected raw text in prompt")
	}
}

func TestParseProfile(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + `{
		"name": "Jordan Smith",
		"email": "jordan@example.com",
		"skills": ["Go"],
		"experience": [{"company": "Initech", "position": "Engineer", "dates": "2020-2023", "responsibilities": ["Built APIs"]}],
		"education": [{"institution": "State University", "degree": "BSc", "dates": "2016-2020"}]
	}` + "\n```"}
	p := NewParser(stub, zap.NewNop())

	input, err := p.ParseProfile(context.Background(), "Jordan Smith, software engineer...")
	if err != nil {
		t.Fatal(err)
	}
	if input.Name != "Jordan Smith" {
		t.Errorf("got %+v", input)
	}
	if len(input.Experience) != 1 || input.Experience[0].Company != "Initech" {
		t.Errorf("expected experience parsed, got %v", input.Experience)
	}
	if len(input.Education) != 1 || input.Education[0].Degree != "BSc" {
		t.Errorf("expected education parsed, got %v", input.Education)
	}
}

func TestParseEmptyInput(t *testing.T) {
	p := NewParser(&stubGenerator{}, zap.NewNop())

	if _, err := p.ParsePosting(context.Background(), "  "); err == nil {
		t.Error("expected error for empty posting text")
	}
	if _, err := p.ParseProfile(context.Background(), ""); err == nil {
		t.Error("expected error for empty resume text")
	}
}

func TestParseGeneratorError(t *testing.T) {
	p := NewParser(&stubGenerator{err: errors.New("unavailable")}, zap.NewNop())

	if _, err := p.ParsePosting(context.Background(), "text"); err == nil {
		t.Error("expected generator error to propagate")
	}
}

func TestParseMalformedResponse(t *testing.T) {
	p := NewParser(&stubGenerator{response: "not json"}, zap.NewNop())

	if _, err := p.ParseProfile(context.Background(), "text"); err == nil {
		t.Error("expected error for malformed response")
	}
}
