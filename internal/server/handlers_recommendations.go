package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/health-tracker/internal/db"
	"github.com/jonathan/health-tracker/internal/nutrition"
	"github.com/jonathan/health-tracker/internal/types"
)

// recommend runs the recommender for a stored profile and optional goal.
func (s *Server) recommend(profile *db.Profile, goal *db.Goal) (*types.RecommendationResponse, error) {
	bio := profile.Biometrics()
	result, err := s.recommender.Recommend(bio, goal.NutritionGoal(), s.now())
	if err != nil {
		return nil, err
	}
	resp := &types.RecommendationResponse{
		RecommendationResult: *result,
		Biometrics:           bio,
		ComputedAt:           s.now().UTC(),
	}
	if goal != nil {
		resp.GoalID = goal.ID.String()
	}
	return resp, nil
}

func (s *Server) loadProfileAndGoal(ctx context.Context, userID uuid.UUID) (*db.Profile, *db.Goal, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		return nil, nil, &ErrProfileMissing{}
	}
	goal, err := s.store.GetActiveGoal(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return profile, goal, nil
}

// handleRecommendation computes targets from the stored profile and the
// active goal, if any.
func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	profile, goal, err := s.loadProfileAndGoal(r.Context(), userID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	resp, err := s.recommend(profile, goal)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handlePreviewRecommendation computes targets for ad hoc inputs.
func (s *Server) handlePreviewRecommendation(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	var req types.PreviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, validationError(err))
		return
	}

	bio := req.Profile.Biometrics()
	var goal *nutrition.GoalInput
	if req.Goal != nil {
		goal = req.Goal.NutritionGoal()
	}
	result, err := s.recommender.Recommend(bio, goal, s.now())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.RecommendationResponse{
		RecommendationResult: *result,
		Biometrics:           bio,
		ComputedAt:           s.now().UTC(),
	})
}
