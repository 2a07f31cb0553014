package models

import "time"

// ScoreRecord is the persisted match result for one (profile, posting) pair.
// Unique per pair; a later write replaces the prior one in place. Rank is 0
// until the first recompute for the posting assigns dense ranks (1 = best).
type ScoreRecord struct {
	ProfileID   string    `json:"profile_id" db:"profile_id"`
	PostingID   string    `json:"posting_id" db:"posting_id"`
	Score       float64   `json:"score" db:"match_score"`
	Rank        int       `json:"rank,omitempty" db:"rank"`
	Shortlisted bool      `json:"shortlisted" db:"shortlisted"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CandidateMatch is a ranked candidate for a posting, as returned by the
// ranking query surface (record plus display attributes).
type CandidateMatch struct {
	ProfileID   string  `json:"profile_id"`
	Name        string  `json:"name,omitempty"`
	Email       string  `json:"email,omitempty"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"`
	Shortlisted bool    `json:"shortlisted"`
}

// JobMatch is a ranked posting match for a profile across all postings.
type JobMatch struct {
	PostingID   string  `json:"posting_id"`
	Title       string  `json:"title,omitempty"`
	Company     string  `json:"company,omitempty"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"`
	Shortlisted bool    `json:"shortlisted"`
}
