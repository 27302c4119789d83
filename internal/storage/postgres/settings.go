package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
)

func (p *PostgresStorage) GetSettings(ctx context.Context, ownerUserID string) (storage.Settings, bool, error) {
	query := `
		SELECT owner_user_id, active_slots, track_macros,
		       goal_calories, goal_protein_g, goal_carbs_g, goal_fats_g,
		       created_at, updated_at
		FROM user_settings
		WHERE owner_user_id = $1
	`

	var s storage.Settings
	err := p.pool.QueryRow(ctx, query, ownerUserID).Scan(
		&s.OwnerUserID,
		&s.ActiveSlots,
		&s.TrackMacros,
		&s.DailyGoals.Calories,
		&s.DailyGoals.Protein,
		&s.DailyGoals.Carbs,
		&s.DailyGoals.Fats,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Settings{}, false, nil
	}
	if err != nil {
		return storage.Settings{}, false, unavailable("get settings", err)
	}

	if s.ActiveSlots == nil {
		s.ActiveSlots = []string{}
	}

	return s, true, nil
}

func (p *PostgresStorage) UpsertSettings(ctx context.Context, ownerUserID string, in storage.Settings) (storage.Settings, error) {
	slots := in.ActiveSlots
	if slots == nil {
		slots = []string{}
	}

	query := `
		INSERT INTO user_settings (owner_user_id, active_slots, track_macros,
		                           goal_calories, goal_protein_g, goal_carbs_g, goal_fats_g,
		                           created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (owner_user_id)
		DO UPDATE SET active_slots   = EXCLUDED.active_slots,
		              track_macros   = EXCLUDED.track_macros,
		              goal_calories  = EXCLUDED.goal_calories,
		              goal_protein_g = EXCLUDED.goal_protein_g,
		              goal_carbs_g   = EXCLUDED.goal_carbs_g,
		              goal_fats_g    = EXCLUDED.goal_fats_g,
		              updated_at     = now()
		RETURNING owner_user_id, active_slots, track_macros,
		          goal_calories, goal_protein_g, goal_carbs_g, goal_fats_g,
		          created_at, updated_at
	`

	var s storage.Settings
	err := p.pool.QueryRow(ctx, query,
		ownerUserID,
		slots,
		in.TrackMacros,
		in.DailyGoals.Calories,
		in.DailyGoals.Protein,
		in.DailyGoals.Carbs,
		in.DailyGoals.Fats,
	).Scan(
		&s.OwnerUserID,
		&s.ActiveSlots,
		&s.TrackMacros,
		&s.DailyGoals.Calories,
		&s.DailyGoals.Protein,
		&s.DailyGoals.Carbs,
		&s.DailyGoals.Fats,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return storage.Settings{}, unavailable("upsert settings", err)
	}

	if s.ActiveSlots == nil {
		s.ActiveSlots = []string{}
	}

	return s, nil
}
