// Package models defines core data structures for postings, profiles, and match scores.
package models

import (
	"strings"
	"time"

	"github.com/hyperjump/senko/pkg/utils"
)

// Posting is a structured job posting.
type Posting struct {
	ID            string    `json:"id" db:"posting_id"`
	Title         string    `json:"title" db:"title"`
	Company       string    `json:"company" db:"company"`
	Experience    string    `json:"experience" db:"experience"`
	Qualification string    `json:"qualification" db:"qualification"`
	Skills        []string  `json:"skills" db:"skills"`
	Description   string    `json:"description" db:"description"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// PostingInput is the input for ingesting a posting. When Raw is set, structured
// fields are extracted from it; otherwise the structured fields are used as-is.
type PostingInput struct {
	ID            string   `json:"id,omitempty"`
	Raw           string   `json:"raw,omitempty"`
	Title         string   `json:"title,omitempty"`
	Company       string   `json:"company,omitempty"`
	Experience    string   `json:"experience,omitempty"`
	Qualification string   `json:"qualification,omitempty"`
	Skills        []string `json:"skills,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// CanonicalText renders the posting as the deterministic, whitespace-normalized
// text used for embedding and judge evaluation. Field order is fixed: title,
// company, experience, qualification, skills, description. Identical postings
// always render to identical bytes, which keeps their embeddings identical.
func (p *Posting) CanonicalText() string {
	var b strings.Builder
	b.WriteString("Job Title: ")
	b.WriteString(p.Title)
	b.WriteString("\nCompany: ")
	b.WriteString(p.Company)
	b.WriteString("\nExperience Required: ")
	b.WriteString(p.Experience)
	b.WriteString("\nQualification: ")
	b.WriteString(p.Qualification)
	b.WriteString("\nSkills: ")
	b.WriteString(strings.Join(p.Skills, ", "))
	b.WriteString("\nDescription: ")
	b.WriteString(p.Description)
	return utils.NormalizeWhitespace(b.String())
}

// Attributes returns the denormalized attribute bag stored next to the
// posting's vector. Display-only; never used for scoring.
func (p *Posting) Attributes() map[string]interface{} {
	return map[string]interface{}{
		"title":   p.Title,
		"company": p.Company,
		"skills":  p.Skills,
	}
}
