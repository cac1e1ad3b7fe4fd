package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// maxProfileBodyBytes bounds a profile creation body.
const maxProfileBodyBytes = 1 << 20

// handleListJobProfiles lists default profiles followed by user profiles
func (s *Server) handleListJobProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.List(r.Context())
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	if profiles == nil {
		profiles = []types.JobProfile{}
	}
	s.jsonResponse(w, http.StatusOK, profiles)
}

// handleGetJobProfile retrieves a job profile by its ID
func (s *Server) handleGetJobProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleCreateJobProfile creates a user profile
func (s *Server) handleCreateJobProfile(w http.ResponseWriter, r *http.Request) {
	var req types.CreateJobProfileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProfileBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.failWith(w, r, ErrBadJSON)
		return
	}

	profile, err := s.store.Create(r.Context(), req)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, profile)
}

// handleDeleteJobProfile deletes a user profile; default profiles are read-only
func (s *Server) handleDeleteJobProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.failWith(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
