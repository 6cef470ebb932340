package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const weightColumns = `id, user_id, weight, note, recorded_at`

func scanWeight(row pgx.Row) (*WeightEntry, error) {
	var w WeightEntry
	if err := row.Scan(&w.ID, &w.UserID, &w.Weight, &w.Note, &w.RecordedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateWeightEntry records a weigh-in. When it is the user's latest entry,
// the profile's current weight is updated in the same transaction.
func (db *DB) CreateWeightEntry(ctx context.Context, w *WeightEntry) (*WeightEntry, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out, err := scanWeight(tx.QueryRow(ctx,
		`INSERT INTO weight_entries (user_id, weight, note, recorded_at)
		 VALUES ($1, $2, $3, COALESCE($4, NOW()))
		 RETURNING `+weightColumns,
		w.UserID, w.Weight, w.Note, nullTime(w.RecordedAt),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create weight entry: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE profiles SET current_weight = $2, updated_at = NOW()
		 WHERE user_id = $1
		   AND NOT EXISTS (
		     SELECT 1 FROM weight_entries
		     WHERE user_id = $1 AND recorded_at > $3
		   )`,
		out.UserID, out.Weight, out.RecordedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update current weight: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit weight entry: %w", err)
	}
	return out, nil
}

// ListWeightEntries returns the user's weigh-ins, newest first
func (db *DB) ListWeightEntries(ctx context.Context, userID uuid.UUID, limit int) ([]WeightEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+weightColumns+` FROM weight_entries
		 WHERE user_id = $1 ORDER BY recorded_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list weight entries: %w", err)
	}
	defer rows.Close()

	entries := []WeightEntry{}
	for rows.Next() {
		w, err := scanWeight(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weight entry: %w", err)
		}
		entries = append(entries, *w)
	}
	return entries, rows.Err()
}

// LatestWeightEntry returns the user's most recent weigh-in
func (db *DB) LatestWeightEntry(ctx context.Context, userID uuid.UUID) (*WeightEntry, error) {
	w, err := scanWeight(db.pool.QueryRow(ctx,
		`SELECT `+weightColumns+` FROM weight_entries
		 WHERE user_id = $1 ORDER BY recorded_at DESC LIMIT 1`,
		userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest weight entry: %w", err)
	}
	return w, nil
}

// DeleteWeightEntry deletes one of the user's weigh-ins
func (db *DB) DeleteWeightEntry(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM weight_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete weight entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
