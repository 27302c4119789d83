package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
)

func (p *PostgresStorage) ListPlans(ctx context.Context, ownerUserID, weekKey string) ([]storage.MealPlan, error) {
	query := `
		SELECT id, owner_user_id, week_key, day_of_week, meal_slot, meal_id, created_at
		FROM meal_plans
		WHERE owner_user_id = $1 AND week_key = $2
		ORDER BY created_at ASC
	`

	rows, err := p.pool.Query(ctx, query, ownerUserID, weekKey)
	if err != nil {
		return nil, unavailable("list plans", err)
	}
	defer rows.Close()

	plans := []storage.MealPlan{}
	for rows.Next() {
		var plan storage.MealPlan
		err := rows.Scan(
			&plan.ID,
			&plan.OwnerUserID,
			&plan.WeekKey,
			&plan.DayOfWeek,
			&plan.MealSlot,
			&plan.MealID,
			&plan.CreatedAt,
		)
		if err != nil {
			return nil, unavailable("scan plan", err)
		}
		plans = append(plans, plan)
	}
	if rows.Err() != nil {
		return nil, unavailable("iterate plans", rows.Err())
	}

	return plans, nil
}

func (p *PostgresStorage) AssignMeal(ctx context.Context, ownerUserID string, a storage.AssignmentUpsert) (storage.MealPlan, error) {
	// One assignment per (owner, week, day, slot); a conflict swaps the
	// meal and keeps the existing row id.
	query := `
		INSERT INTO meal_plans (id, owner_user_id, week_key, day_of_week, meal_slot, meal_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (owner_user_id, week_key, day_of_week, meal_slot)
		DO UPDATE SET meal_id = EXCLUDED.meal_id
		RETURNING id, owner_user_id, week_key, day_of_week, meal_slot, meal_id, created_at
	`

	var plan storage.MealPlan
	err := p.pool.QueryRow(ctx, query,
		uuid.New().String(),
		ownerUserID,
		a.WeekKey,
		a.DayOfWeek,
		a.MealSlot,
		a.MealID,
		time.Now().UTC(),
	).Scan(
		&plan.ID,
		&plan.OwnerUserID,
		&plan.WeekKey,
		&plan.DayOfWeek,
		&plan.MealSlot,
		&plan.MealID,
		&plan.CreatedAt,
	)
	if err != nil {
		return storage.MealPlan{}, unavailable("assign meal", err)
	}

	return plan, nil
}

func (p *PostgresStorage) ClearAssignment(ctx context.Context, ownerUserID, id string) error {
	query := `DELETE FROM meal_plans WHERE id = $1 AND owner_user_id = $2`

	// Zero rows affected is fine: clearing an empty slot is a no-op.
	if _, err := p.pool.Exec(ctx, query, id, ownerUserID); err != nil {
		return unavailable("clear assignment", err)
	}

	return nil
}
