package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/senko/internal/models"
	"github.com/hyperjump/senko/internal/records"
)

func (s *Server) handleCreatePosting(w http.ResponseWriter, r *http.Request) {
	var input models.PostingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	posting, err := s.matcher.IngestPosting(r.Context(), &input)
	if err != nil {
		s.logger.Error("posting ingest failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, posting)
}

func (s *Server) handleListPostings(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	postings, err := s.records.ListPostings(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list postings failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if postings == nil {
		postings = []*models.Posting{}
	}
	s.respondJSON(w, http.StatusOK, postings)
}

func (s *Server) handleGetPosting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	posting, err := s.records.GetPosting(r.Context(), id)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "posting not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, posting)
}

func (s *Server) handleDeletePosting(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.matcher.RemovePosting(r.Context(), id); err != nil {
		if errors.Is(err, records.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "posting not found")
			return
		}
		s.logger.Error("delete posting failed", zap.String("posting_id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	minScore := 0.0
	if v := r.URL.Query().Get("min_score"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid min_score")
			return
		}
		minScore = parsed
	}

	matches, err := s.matcher.CandidatesForPosting(r.Context(), id, minScore)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "posting not found")
			return
		}
		s.logger.Error("candidate search failed", zap.String("posting_id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if matches == nil {
		matches = []*models.CandidateMatch{}
	}
	s.respondJSON(w, http.StatusOK, matches)
}

func (s *Server) handleShortlist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	matches, err := s.matcher.Shortlist(r.Context(), id)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "posting not found")
			return
		}
		s.logger.Error("shortlist failed", zap.String("posting_id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if matches == nil {
		matches = []*models.CandidateMatch{}
	}
	s.respondJSON(w, http.StatusOK, matches)
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) handleSearchPostings(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	postings, err := s.matcher.SearchPostings(r.Context(), req.Query, req.Limit)
	if err != nil {
		s.logger.Error("posting search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if postings == nil {
		postings = []*models.Posting{}
	}
	s.respondJSON(w, http.StatusOK, postings)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var input models.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	profile, err := s.matcher.IngestProfile(r.Context(), &input)
	if err != nil {
		s.logger.Error("profile ingest failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	profiles, err := s.records.ListProfiles(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list profiles failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}
	s.respondJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	profile, err := s.records.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	matches, err := s.matcher.MatchesForProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		s.logger.Error("match search failed", zap.String("profile_id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if matches == nil {
		matches = []*models.JobMatch{}
	}
	s.respondJSON(w, http.StatusOK, matches)
}

type scoreRequest struct {
	ProfileID string `json:"profile_id"`
	PostingID string `json:"posting_id"`
}

func (s *Server) handleScorePair(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProfileID == "" || req.PostingID == "" {
		s.respondError(w, http.StatusBadRequest, "profile_id and posting_id are required")
		return
	}
	result, err := s.matcher.ScorePair(r.Context(), req.ProfileID, req.PostingID)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("score pair failed",
			zap.String("profile_id", req.ProfileID),
			zap.String("posting_id", req.PostingID),
			zap.Error(err),
		)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.matcher.Status(r.Context())
	if err != nil {
		s.logger.Error("status failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, status)
}

func pagination(r *http.Request) (offset, limit int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return offset, limit
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
