package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const goalColumns = `id, user_id, goal_weight, target_date, weekly_weight_change, daily_calories, active, created_at`

func scanGoal(row pgx.Row) (*Goal, error) {
	var g Goal
	err := row.Scan(&g.ID, &g.UserID, &g.GoalWeight, &g.TargetDate,
		&g.WeeklyWeightChange, &g.DailyCalories, &g.Active, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGoal inserts a goal. An active goal deactivates the user's others.
func (db *DB) CreateGoal(ctx context.Context, g *Goal) (*Goal, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if g.Active {
		if err := deactivateGoals(ctx, tx, g.UserID, uuid.Nil); err != nil {
			return nil, err
		}
	}

	out, err := scanGoal(tx.QueryRow(ctx,
		`INSERT INTO goals (user_id, goal_weight, target_date, weekly_weight_change, daily_calories, active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+goalColumns,
		g.UserID, g.GoalWeight, g.TargetDate, g.WeeklyWeightChange, g.DailyCalories, g.Active,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit goal: %w", err)
	}
	return out, nil
}

// GetGoal retrieves one of the user's goals
func (db *DB) GetGoal(ctx context.Context, userID, id uuid.UUID) (*Goal, error) {
	g, err := scanGoal(db.pool.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

// GetActiveGoal retrieves the user's active goal, if any
func (db *DB) GetActiveGoal(ctx context.Context, userID uuid.UUID) (*Goal, error) {
	g, err := scanGoal(db.pool.QueryRow(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 AND active`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active goal: %w", err)
	}
	return g, nil
}

// ListGoals returns the user's goals, newest first
func (db *DB) ListGoals(ctx context.Context, userID uuid.UUID) ([]Goal, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := []Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// UpdateGoal overwrites a goal the user owns. Activating it deactivates the
// others. Returns nil, nil when the goal does not exist for that user.
func (db *DB) UpdateGoal(ctx context.Context, g *Goal) (*Goal, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if g.Active {
		if err := deactivateGoals(ctx, tx, g.UserID, g.ID); err != nil {
			return nil, err
		}
	}

	out, err := scanGoal(tx.QueryRow(ctx,
		`UPDATE goals SET goal_weight = $3, target_date = $4, weekly_weight_change = $5,
		   daily_calories = $6, active = $7
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+goalColumns,
		g.ID, g.UserID, g.GoalWeight, g.TargetDate, g.WeeklyWeightChange, g.DailyCalories, g.Active,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit goal: %w", err)
	}
	return out, nil
}

// DeleteGoal deletes one of the user's goals
func (db *DB) DeleteGoal(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete goal: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func deactivateGoals(ctx context.Context, tx pgx.Tx, userID, except uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE goals SET active = FALSE WHERE user_id = $1 AND active AND id <> $2`,
		userID, except,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate goals: %w", err)
	}
	return nil
}
