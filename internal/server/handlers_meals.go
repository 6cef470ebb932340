package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/health-tracker/internal/analysis"
	"github.com/jonathan/health-tracker/internal/db"
	"github.com/jonathan/health-tracker/internal/nutrition"
	"github.com/jonathan/health-tracker/internal/types"
)

const dateLayout = "2006-01-02"

// parseTimeParam accepts RFC 3339 or a bare date (midnight UTC).
func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Time{}, &ErrValidation{Field: name, Message: "must be RFC 3339 or YYYY-MM-DD"}
}

func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var filter db.MealFilter
	var err error
	if filter.From, err = parseTimeParam(r, "from"); err != nil {
		s.handleError(w, r, err)
		return
	}
	if filter.To, err = parseTimeParam(r, "to"); err != nil {
		s.handleError(w, r, err)
		return
	}
	if filter.Limit, err = queryLimit(r); err != nil {
		s.handleError(w, r, err)
		return
	}

	meals, err := s.store.ListMeals(r.Context(), userID, filter)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"meals": meals,
		"count": len(meals),
	})
}

// mealFromRequest builds a meal, estimating nutrition from the description
// when the caller gave no calories.
func (s *Server) mealFromRequest(ctx context.Context, userID uuid.UUID, req *types.MealRequest) (*db.Meal, error) {
	m := &db.Meal{
		UserID:      userID,
		MealType:    req.MealType,
		Description: strings.TrimSpace(req.Description),
		Source:      db.SourceManual,
	}
	if req.EatenAt != nil {
		m.EatenAt = *req.EatenAt
	}

	if req.HasNutrition() {
		m.Calories = *req.Calories
		m.Protein = derefInt(req.Protein)
		m.Carbs = derefInt(req.Carbs)
		m.Fat = derefInt(req.Fat)
		return m, nil
	}

	result := s.analyzer.AnalyzeText(ctx, m.Description)
	if err := checkEstimate(*req, result.Estimate); err != nil {
		return nil, err
	}
	m.Calories = result.Estimate.Calories
	m.Protein = result.Estimate.Protein
	m.Carbs = result.Estimate.Carbs
	m.Fat = result.Estimate.Fat
	m.Source = string(result.Source)
	return m, nil
}

// checkEstimate applies the MealRequest limits to estimated nutrition.
func checkEstimate(req types.MealRequest, est nutrition.NutritionEstimate) error {
	req.Calories, req.Protein, req.Carbs, req.Fat = &est.Calories, &est.Protein, &est.Carbs, &est.Fat
	if err := req.Validate(); err != nil {
		ve := validationError(err)
		ve.Message = "estimated value out of range (" + ve.Message + "); enter nutrition manually"
		return ve
	}
	return nil
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func (s *Server) decodeMealRequest(w http.ResponseWriter, r *http.Request) (*types.MealRequest, error) {
	var req types.MealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, validationError(err)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, &ErrValidation{Field: "Description", Message: "required"}
	}
	return &req, nil
}

func (s *Server) handleCreateMeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	req, err := s.decodeMealRequest(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	m, err := s.mealFromRequest(r.Context(), userID, req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	meal, err := s.store.CreateMeal(r.Context(), m)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, meal)
}

func (s *Server) handleGetMeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	meal, err := s.store.GetMeal(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if meal == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "meal"})
		return
	}
	s.jsonResponse(w, http.StatusOK, meal)
}

// handleUpdateMeal replaces a meal. Omitting eaten_at keeps the stored time.
func (s *Server) handleUpdateMeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	req, err := s.decodeMealRequest(w, r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	m, err := s.mealFromRequest(r.Context(), userID, req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	m.ID = id
	meal, err := s.store.UpdateMeal(r.Context(), m)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if meal == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "meal"})
		return
	}
	s.jsonResponse(w, http.StatusOK, meal)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	deleted, err := s.store.DeleteMeal(r.Context(), userID, id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if !deleted {
		s.handleError(w, r, &ErrNotFound{Resource: "meal"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func estimateResponse(result analysis.Result) types.EstimateResponse {
	return types.EstimateResponse{
		NutritionEstimate: result.Estimate,
		Source:            string(result.Source),
		Tier:              result.Tier,
		Fallback:          result.Fallback,
	}
}

// handleEstimateMeal estimates a description without saving anything.
func (s *Server) handleEstimateMeal(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	var req types.EstimateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, validationError(err))
		return
	}

	result := s.analyzer.AnalyzeText(r.Context(), req.Description)
	s.jsonResponse(w, http.StatusOK, estimateResponse(result))
}

// handleAnalyzeImage estimates a meal photo sent as multipart field "image".
// Optional fields: "description" (used when no image backend answers),
// "save" ("true" logs the meal) and "meal_type".
func (s *Server) handleAnalyzeImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.handleError(w, r, &ErrValidation{Field: "image", Message: "expected a multipart upload within the size limit"})
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "image", Message: "required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "image", Message: "could not be read"})
		return
	}
	if len(data) == 0 {
		s.handleError(w, r, &ErrValidation{Field: "image", Message: "is empty"})
		return
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		s.handleError(w, r, &ErrValidation{Field: "image", Message: "unsupported content type " + contentType})
		return
	}

	description := strings.TrimSpace(r.FormValue("description"))
	img := analysis.Image{Format: strings.TrimPrefix(contentType, "image/"), Data: data}
	result := s.analyzer.AnalyzeImage(r.Context(), img, description)
	resp := estimateResponse(result)

	if r.FormValue("save") != "true" {
		s.jsonResponse(w, http.StatusOK, resp)
		return
	}

	mealType := strings.ToLower(strings.TrimSpace(r.FormValue("meal_type")))
	switch mealType {
	case "", "breakfast", "lunch", "dinner", "snack":
	default:
		s.handleError(w, r, &ErrValidation{Field: "meal_type", Message: "oneof"})
		return
	}
	mealDescription := result.Estimate.Description
	if mealDescription == "" {
		mealDescription = "meal photo"
	}
	if err := checkEstimate(types.MealRequest{Description: mealDescription, MealType: mealType}, result.Estimate); err != nil {
		s.handleError(w, r, err)
		return
	}
	meal, err := s.store.CreateMeal(r.Context(), &db.Meal{
		UserID:      userID,
		MealType:    mealType,
		Description: mealDescription,
		Calories:    result.Estimate.Calories,
		Protein:     result.Estimate.Protein,
		Carbs:       result.Estimate.Carbs,
		Fat:         result.Estimate.Fat,
		Source:      string(result.Source),
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	resp.MealID = meal.ID.String()
	s.jsonResponse(w, http.StatusCreated, resp)
}
