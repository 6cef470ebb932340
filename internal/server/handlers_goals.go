package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/health-tracker/internal/db"
	"github.com/jonathan/health-tracker/internal/types"
)

func goalFromRequest(userID uuid.UUID, req *types.GoalRequest) *db.Goal {
	return &db.Goal{
		UserID:             userID,
		GoalWeight:         req.GoalWeight,
		TargetDate:         req.TargetDate,
		WeeklyWeightChange: req.WeeklyWeightChange,
		DailyCalories:      req.DailyCalories,
		Active:             req.IsActive(),
	}
}

func (s *Server) decodeGoalRequest(w http.ResponseWriter, r *http.Request) (*types.GoalRequest, error) {
	var req types.GoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}
	return &req, nil
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	goals, err := s.store.ListGoals(r.Context(), userID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"goals": goals,
		"count": len(goals),
	})
}

// handleCreateGoal stores a goal. New goals are active unless "active" is
// false, and an active goal deactivates the previous one.
func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	req, err := s.decodeGoalRequest(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	goal, err := s.store.CreateGoal(r.Context(), goalFromRequest(userID, req))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, goal)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	goal, err := s.store.GetGoal(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if goal == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "goal"})
		return
	}
	s.jsonResponse(w, http.StatusOK, goal)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	req, err := s.decodeGoalRequest(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	g := goalFromRequest(userID, req)
	g.ID = id
	goal, err := s.store.UpdateGoal(r.Context(), g)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if goal == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "goal"})
		return
	}
	s.jsonResponse(w, http.StatusOK, goal)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	deleted, err := s.store.DeleteGoal(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if !deleted {
		s.handleError(w, r, &ErrNotFound{Resource: "goal"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
