package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/hyperjump/senko/internal/models"
	"github.com/hyperjump/senko/pkg/utils"
)

//go:embed prompt.md
var promptTemplate string

const maxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiJudge evaluates pairs with the Gemini API through a shared
// content generator.
type GeminiJudge struct {
	generator contentGenerator
	logger    *zap.Logger
}

func NewGeminiJudge(generator contentGenerator, logger *zap.Logger) *GeminiJudge {
	return &GeminiJudge{generator: generator, logger: logger}
}

// Evaluate builds the matching prompt from the canonical texts and parses
// the model's JSON reply. Any transport or parse failure is wrapped in
// ErrExternalCall so callers can degrade instead of aborting.
func (j *GeminiJudge) Evaluate(ctx context.Context, posting *models.Posting, profile *models.Profile) (*Breakdown, error) {
	if posting == nil {
		return nil, fmt.Errorf("posting is required")
	}
	if profile == nil {
		return nil, fmt.Errorf("profile is required")
	}

	prompt := buildPrompt(posting.CanonicalText(), profile.CanonicalText())

	j.logger.Debug("judge request",
		zap.String("posting_id", posting.ID),
		zap.String("profile_id", profile.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := j.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalCall, err)
	}

	j.logger.Debug("judge response",
		zap.String("posting_id", posting.ID),
		zap.String("profile_id", profile.ID),
		zap.String("response_preview", utils.Truncate(raw, maxLogLength)),
	)

	breakdown, err := parseBreakdown(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalCall, err)
	}
	return breakdown, nil
}

func buildPrompt(postingText, profileText string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job Posting:\n{{POSTING}}\n\nCandidate Profile:\n{{PROFILE}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{POSTING}}", postingText)
	prompt = strings.ReplaceAll(prompt, "{{PROFILE}}", profileText)
	return prompt
}

func parseBreakdown(raw string) (*Breakdown, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse judge response: %w", err)
	}

	b := &Breakdown{
		Skills:     clamp100(coerceFloat(data["skills_score"])),
		Experience: clamp100(coerceFloat(data["experience_score"])),
		Education:  clamp100(coerceFloat(data["education_score"])),
		Additional: clamp100(coerceFloat(data["additional_score"])),
		Overall:    clamp100(coerceFloat(data["overall_score"])),
	}
	return b, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) {
			return 0
		}
		return f
	default:
		return 0
	}
}
