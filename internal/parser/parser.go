// Package parser extracts structured postings and profiles from raw text
// with an LLM.
package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/hyperjump/senko/internal/models"
	"github.com/hyperjump/senko/pkg/utils"
)

//go:embed posting_prompt.md
var postingPrompt string

//go:embed profile_prompt.md
var profilePrompt string

const maxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Parser turns raw posting and resume text into structured records.
type Parser struct {
	generator contentGenerator
	logger    *zap.Logger
}

func NewParser(generator contentGenerator, logger *zap.Logger) *Parser {
	return &Parser{generator: generator, logger: logger}
}

// ParsePosting extracts structured posting fields from raw text.
func (p *Parser) ParsePosting(ctx context.Context, raw string) (*models.PostingInput, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("posting text must not be empty")
	}

	out, err := p.generate(ctx, postingPrompt, raw)
	if err != nil {
		return nil, fmt.Errorf("parse posting: %w", err)
	}

	var input models.PostingInput
	if err := json.Unmarshal([]byte(extractJSON(out)), &input); err != nil {
		return nil, fmt.Errorf("parse posting response: %w", err)
	}
	return &input, nil
}

// ParseProfile extracts structured profile fields from raw resume text.
func (p *Parser) ParseProfile(ctx context.Context, raw string) (*models.ProfileInput, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("resume text must not be empty")
	}

	out, err := p.generate(ctx, profilePrompt, raw)
	if err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}

	var input models.ProfileInput
	if err := json.Unmarshal([]byte(extractJSON(out)), &input); err != nil {
		return nil, fmt.Errorf("parse profile response: %w", err)
	}
	return &input, nil
}

func (p *Parser) generate(ctx context.Context, template, text string) (string, error) {
	prompt := strings.ReplaceAll(template, "{{TEXT}}", text)
	out, err := p.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}
	p.logger.Debug("extraction response",
		zap.String("response_preview", utils.Truncate(out, maxLogLength)),
	)
	return out, nil
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
