package server

import (
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/health-tracker/internal/db"
	"github.com/jonathan/health-tracker/internal/nutrition"
	"github.com/jonathan/health-tracker/internal/types"
)

// dayBounds resolves the date and tz query parameters into [start, end).
// The date defaults to today in the requested zone, which defaults to UTC.
func (s *Server) dayBounds(r *http.Request) (time.Time, time.Time, error) {
	loc := time.UTC
	if tz := r.URL.Query().Get("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return time.Time{}, time.Time{}, &ErrValidation{Field: "tz", Message: "unknown time zone"}
		}
		loc = l
	}

	var start time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return time.Time{}, time.Time{}, &ErrValidation{Field: "date", Message: "must be YYYY-MM-DD"}
		}
		start = d
	} else {
		now := s.now().In(loc)
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	}
	return start, start.AddDate(0, 0, 1), nil
}

func sumMeals(meals []db.Meal) types.DailyTotals {
	totals := types.DailyTotals{Meals: len(meals)}
	for _, m := range meals {
		totals.Calories += m.Calories
		totals.Protein += m.Protein
		totals.Carbs += m.Carbs
		totals.Fat += m.Fat
	}
	return totals
}

// handleDashboard compares one day's meals with the calorie target. A goal
// with daily_calories set overrides the computed target.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	start, end, err := s.dayBounds(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var (
		meals   []db.Meal
		latest  *db.WeightEntry
		profile *db.Profile
		goal    *db.Goal
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		meals, err = s.store.ListMeals(ctx, userID, db.MealFilter{From: start, To: end})
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = s.store.LatestWeightEntry(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = s.store.GetProfile(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		goal, err = s.store.GetActiveGoal(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.handleError(w, r, err)
		return
	}

	resp := types.DashboardResponse{
		Date:     start.Format(dateLayout),
		Consumed: sumMeals(meals),
	}
	switch {
	case latest != nil:
		resp.LatestWeight = &latest.Weight
	case profile != nil:
		resp.LatestWeight = &profile.CurrentWeight
	}

	var target *int
	var macros *nutrition.Macronutrients
	if profile != nil {
		rec, err := s.recommend(profile, goal)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		target = &rec.RecommendedCalories
		macros = &rec.Macronutrients
	}
	if goal != nil && goal.DailyCalories != nil {
		calories := *goal.DailyCalories
		split := s.recommender.Macros(calories)
		target = &calories
		macros = &split
	}

	if target == nil {
		resp.Hint = (&ErrProfileMissing{}).Hint()
	} else {
		remaining := *target - resp.Consumed.Calories
		resp.TargetCalories = target
		resp.TargetMacros = macros
		resp.RemainingCalories = &remaining
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
