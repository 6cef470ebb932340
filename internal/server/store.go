package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/health-tracker/internal/db"
)

// DBClient is the user storage the auth flow needs.
type DBClient interface {
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, name, email string) (uuid.UUID, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
}

// Store is everything the handlers persist. *db.DB implements it. Lookups
// return nil, nil when nothing matches the ID for that user.
type Store interface {
	DBClient

	Ping(ctx context.Context) error

	UpsertProfile(ctx context.Context, p *db.Profile) (*db.Profile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*db.Profile, error)

	CreateMeal(ctx context.Context, m *db.Meal) (*db.Meal, error)
	GetMeal(ctx context.Context, userID, id uuid.UUID) (*db.Meal, error)
	ListMeals(ctx context.Context, userID uuid.UUID, filter db.MealFilter) ([]db.Meal, error)
	UpdateMeal(ctx context.Context, m *db.Meal) (*db.Meal, error)
	DeleteMeal(ctx context.Context, userID, id uuid.UUID) (bool, error)

	CreateWeightEntry(ctx context.Context, w *db.WeightEntry) (*db.WeightEntry, error)
	ListWeightEntries(ctx context.Context, userID uuid.UUID, limit int) ([]db.WeightEntry, error)
	LatestWeightEntry(ctx context.Context, userID uuid.UUID) (*db.WeightEntry, error)
	DeleteWeightEntry(ctx context.Context, userID, id uuid.UUID) (bool, error)

	CreateGoal(ctx context.Context, g *db.Goal) (*db.Goal, error)
	GetGoal(ctx context.Context, userID, id uuid.UUID) (*db.Goal, error)
	GetActiveGoal(ctx context.Context, userID uuid.UUID) (*db.Goal, error)
	ListGoals(ctx context.Context, userID uuid.UUID) ([]db.Goal, error)
	UpdateGoal(ctx context.Context, g *db.Goal) (*db.Goal, error)
	DeleteGoal(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

var _ Store = (*db.DB)(nil)
