package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UpsertProfile creates or replaces the user's profile
func (db *DB) UpsertProfile(ctx context.Context, p *Profile) (*Profile, error) {
	var out Profile
	err := db.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id, current_weight, height, age, gender, activity_level)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET
		   current_weight = EXCLUDED.current_weight,
		   height = EXCLUDED.height,
		   age = EXCLUDED.age,
		   gender = EXCLUDED.gender,
		   activity_level = EXCLUDED.activity_level,
		   updated_at = NOW()
		 RETURNING user_id, current_weight, height, age, gender, activity_level, updated_at`,
		p.UserID, p.CurrentWeight, p.Height, p.Age, p.Gender, p.ActivityLevel,
	).Scan(&out.UserID, &out.CurrentWeight, &out.Height, &out.Age, &out.Gender, &out.ActivityLevel, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return &out, nil
}

// GetProfile retrieves the user's profile
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	err := db.pool.QueryRow(ctx,
		`SELECT user_id, current_weight, height, age, gender, activity_level, updated_at
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.CurrentWeight, &p.Height, &p.Age, &p.Gender, &p.ActivityLevel, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}
