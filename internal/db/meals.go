package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const mealColumns = `id, user_id, meal_type, description, calories, protein, carbs, fat, source, eaten_at, created_at`

func scanMeal(row pgx.Row) (*Meal, error) {
	var m Meal
	err := row.Scan(&m.ID, &m.UserID, &m.MealType, &m.Description,
		&m.Calories, &m.Protein, &m.Carbs, &m.Fat, &m.Source, &m.EatenAt, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMeal inserts a meal. A zero EatenAt means now.
func (db *DB) CreateMeal(ctx context.Context, m *Meal) (*Meal, error) {
	if m.Source == "" {
		m.Source = SourceManual
	}
	out, err := scanMeal(db.pool.QueryRow(ctx,
		`INSERT INTO meals (user_id, meal_type, description, calories, protein, carbs, fat, source, eaten_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
		 RETURNING `+mealColumns,
		m.UserID, m.MealType, m.Description, m.Calories, m.Protein, m.Carbs, m.Fat, m.Source, nullTime(m.EatenAt),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}
	return out, nil
}

// GetMeal retrieves one of the user's meals
func (db *DB) GetMeal(ctx context.Context, userID, id uuid.UUID) (*Meal, error) {
	m, err := scanMeal(db.pool.QueryRow(ctx,
		`SELECT `+mealColumns+` FROM meals WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	return m, nil
}

// ListMeals returns the user's meals, newest first
func (db *DB) ListMeals(ctx context.Context, userID uuid.UUID, filter MealFilter) ([]Meal, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + mealColumns + ` FROM meals WHERE user_id = $1`)
	args := []any{userID}

	if !filter.From.IsZero() {
		args = append(args, filter.From)
		fmt.Fprintf(&sb, " AND eaten_at >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		fmt.Fprintf(&sb, " AND eaten_at < $%d", len(args))
	}
	sb.WriteString(" ORDER BY eaten_at DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := db.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	meals := []Meal{}
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

// UpdateMeal overwrites a meal the user owns. It returns nil, nil when the
// meal does not exist for that user.
func (db *DB) UpdateMeal(ctx context.Context, m *Meal) (*Meal, error) {
	out, err := scanMeal(db.pool.QueryRow(ctx,
		`UPDATE meals SET meal_type = $3, description = $4, calories = $5, protein = $6,
		   carbs = $7, fat = $8, source = $9, eaten_at = COALESCE($10, eaten_at)
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+mealColumns,
		m.ID, m.UserID, m.MealType, m.Description, m.Calories, m.Protein, m.Carbs, m.Fat, m.Source, nullTime(m.EatenAt),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update meal: %w", err)
	}
	return out, nil
}

// DeleteMeal deletes one of the user's meals and reports whether it existed
func (db *DB) DeleteMeal(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM meals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete meal: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
