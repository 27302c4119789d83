package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
)

const mealColumns = `id, owner_user_id, name, description, tags,
       protein_g, carbs_g, fats_g, calories, created_at`

func scanMeal(row pgx.Row) (storage.Meal, error) {
	var meal storage.Meal
	err := row.Scan(
		&meal.ID,
		&meal.OwnerUserID,
		&meal.Name,
		&meal.Description,
		&meal.Tags,
		&meal.Macros.Protein,
		&meal.Macros.Carbs,
		&meal.Macros.Fats,
		&meal.Macros.Calories,
		&meal.CreatedAt,
	)
	if meal.Tags == nil {
		meal.Tags = []string{}
	}
	return meal, err
}

func (p *PostgresStorage) ListMeals(ctx context.Context, ownerUserID string) ([]storage.Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := p.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, unavailable("list meals", err)
	}
	defer rows.Close()

	meals := []storage.Meal{}
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, unavailable("scan meal", err)
		}
		meals = append(meals, meal)
	}
	if rows.Err() != nil {
		return nil, unavailable("iterate meals", rows.Err())
	}

	return meals, nil
}

func (p *PostgresStorage) GetMeal(ctx context.Context, ownerUserID, id string) (storage.Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE id = $1 AND owner_user_id = $2
	`

	meal, err := scanMeal(p.pool.QueryRow(ctx, query, id, ownerUserID))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Meal{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Meal{}, unavailable("get meal", err)
	}

	return meal, nil
}

func (p *PostgresStorage) CreateMeal(ctx context.Context, ownerUserID string, req storage.MealUpsert) (storage.Meal, error) {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		INSERT INTO meals (id, owner_user_id, name, description, tags,
		                   protein_g, carbs_g, fats_g, calories, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + mealColumns

	meal, err := scanMeal(p.pool.QueryRow(ctx, query,
		uuid.New().String(),
		ownerUserID,
		req.Name,
		req.Description,
		tags,
		req.Macros.Protein,
		req.Macros.Carbs,
		req.Macros.Fats,
		req.Macros.Calories,
		time.Now().UTC(),
	))
	if err != nil {
		return storage.Meal{}, unavailable("create meal", err)
	}

	return meal, nil
}

func (p *PostgresStorage) UpdateMeal(ctx context.Context, ownerUserID, id string, patch storage.MealPatch) (storage.Meal, error) {
	// COALESCE keeps the stored value for fields the patch leaves nil.
	query := `
		UPDATE meals
		SET name        = COALESCE($3, name),
		    description = COALESCE($4, description),
		    tags        = COALESCE($5, tags),
		    protein_g   = COALESCE($6, protein_g),
		    carbs_g     = COALESCE($7, carbs_g),
		    fats_g      = COALESCE($8, fats_g),
		    calories    = COALESCE($9, calories)
		WHERE id = $1 AND owner_user_id = $2
		RETURNING ` + mealColumns

	var tags *[]string
	if patch.Tags != nil {
		t := *patch.Tags
		if t == nil {
			t = []string{}
		}
		tags = &t
	}

	var protein, carbs, fats, calories *float64
	if patch.Macros != nil {
		protein = &patch.Macros.Protein
		carbs = &patch.Macros.Carbs
		fats = &patch.Macros.Fats
		calories = &patch.Macros.Calories
	}

	meal, err := scanMeal(p.pool.QueryRow(ctx, query,
		id,
		ownerUserID,
		patch.Name,
		patch.Description,
		tags,
		protein,
		carbs,
		fats,
		calories,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Meal{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Meal{}, unavailable("update meal", err)
	}

	return meal, nil
}

func (p *PostgresStorage) DeleteMeal(ctx context.Context, ownerUserID, id string) error {
	query := `DELETE FROM meals WHERE id = $1 AND owner_user_id = $2`

	result, err := p.pool.Exec(ctx, query, id, ownerUserID)
	if err != nil {
		return unavailable("delete meal", err)
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}
