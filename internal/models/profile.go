package models

import (
	"strings"
	"time"

	"github.com/hyperjump/senko/pkg/utils"
)

// Experience is one employment entry on a profile.
type Experience struct {
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	Dates            string   `json:"dates"`
	Responsibilities []string `json:"responsibilities,omitempty"`
}

// Education is one education entry on a profile.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Dates       string `json:"dates"`
}

// Profile is a structured candidate profile.
type Profile struct {
	ID         string       `json:"id" db:"profile_id"`
	Name       string       `json:"name" db:"name"`
	Email      string       `json:"email" db:"email"`
	Phone      string       `json:"phone,omitempty" db:"phone"`
	Skills     []string     `json:"skills" db:"skills"`
	Experience []Experience `json:"experience" db:"experience"`
	Education  []Education  `json:"education" db:"education"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
}

// ProfileInput is the input for ingesting a profile. When Raw is set, structured
// fields are extracted from it; otherwise the structured fields are used as-is.
type ProfileInput struct {
	ID         string       `json:"id,omitempty"`
	Raw        string       `json:"raw,omitempty"`
	Name       string       `json:"name,omitempty"`
	Email      string       `json:"email,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	Skills     []string     `json:"skills,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Education  []Education  `json:"education,omitempty"`
}

// CanonicalText renders the profile as the deterministic, whitespace-normalized
// text used for embedding and judge evaluation. Field order is fixed: name,
// skills, experience, education.
func (p *Profile) CanonicalText() string {
	var b strings.Builder
	b.WriteString("Name: ")
	b.WriteString(p.Name)
	b.WriteString("\nSkills: ")
	b.WriteString(strings.Join(p.Skills, ", "))
	b.WriteString("\nExperience: ")
	for _, exp := range p.Experience {
		b.WriteString(exp.Company)
		b.WriteString(", ")
		b.WriteString(exp.Position)
		b.WriteString(", ")
		b.WriteString(exp.Dates)
		b.WriteString("\n")
	}
	b.WriteString("Education: ")
	for _, edu := range p.Education {
		b.WriteString(edu.Institution)
		b.WriteString(", ")
		b.WriteString(edu.Degree)
		b.WriteString(", ")
		b.WriteString(edu.Dates)
		b.WriteString("\n")
	}
	return utils.NormalizeWhitespace(b.String())
}

// Attributes returns the denormalized attribute bag stored next to the
// profile's vector. Display-only; never used for scoring.
func (p *Profile) Attributes() map[string]interface{} {
	return map[string]interface{}{
		"name":   p.Name,
		"email":  p.Email,
		"skills": p.Skills,
	}
}
