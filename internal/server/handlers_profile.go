package server

import (
	"net/http"

	"github.com/jonathan/health-tracker/internal/db"
	"github.com/jonathan/health-tracker/internal/types"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	user, err := s.userService.GetUser(r.Context(), userID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, user)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	profile, err := s.store.GetProfile(r.Context(), userID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if profile == nil {
		s.handleError(w, r, &ErrProfileMissing{})
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handlePutProfile creates or replaces the caller's biometrics.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req types.ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.handleError(w, r, validationError(err))
		return
	}

	profile, err := s.store.UpsertProfile(r.Context(), &db.Profile{
		UserID:        userID,
		CurrentWeight: req.CurrentWeight,
		Height:        req.Height,
		Age:           req.Age,
		Gender:        req.Gender,
		ActivityLevel: req.ActivityLevel,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}
