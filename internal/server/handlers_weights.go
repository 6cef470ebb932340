package server

import (
	"net/http"

	"github.com/jonathan/health-tracker/internal/db"
	"github.com/jonathan/health-tracker/internal/types"
)

func (s *Server) handleListWeights(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	entries, err := s.store.ListWeightEntries(r.Context(), userID, limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"weights": entries,
		"count":   len(entries),
	})
}

// handleCreateWeight records a weigh-in. The store moves the profile's
// current weight along with it.
func (s *Server) handleCreateWeight(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req types.WeightRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, validationError(err))
		return
	}

	entry := &db.WeightEntry{UserID: userID, Weight: req.Weight, Note: req.Note}
	if req.RecordedAt != nil {
		entry.RecordedAt = *req.RecordedAt
	}
	created, err := s.store.CreateWeightEntry(r.Context(), entry)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteWeight(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	deleted, err := s.store.DeleteWeightEntry(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if !deleted {
		s.handleError(w, r, &ErrNotFound{Resource: "weight entry"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
