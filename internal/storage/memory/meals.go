package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kaylahuffman7/Plated-v2/internal/events"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
)

func (m *MemoryStorage) ListMeals(ctx context.Context, ownerUserID string) ([]storage.Meal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meals := make([]storage.Meal, 0)
	for _, meal := range m.meals {
		if meal.OwnerUserID == ownerUserID {
			meals = append(meals, *meal)
		}
	}
	return meals, nil
}

func (m *MemoryStorage) GetMeal(ctx context.Context, ownerUserID, id string) (storage.Meal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meal, ok := m.meals[id]
	if !ok || meal.OwnerUserID != ownerUserID {
		return storage.Meal{}, storage.ErrNotFound
	}
	return *meal, nil
}

func (m *MemoryStorage) CreateMeal(ctx context.Context, ownerUserID string, u storage.MealUpsert) (storage.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tags := u.Tags
	if tags == nil {
		tags = []string{}
	}

	meal := &storage.Meal{
		ID:          uuid.New().String(),
		OwnerUserID: ownerUserID,
		Name:        u.Name,
		Description: u.Description,
		Tags:        tags,
		Macros:      u.Macros,
		CreatedAt:   time.Now().UTC(),
	}
	m.meals[meal.ID] = meal

	m.persistMealsLocked()
	m.publish(events.MealCreated, ownerUserID, meal.ID)

	return *meal, nil
}

func (m *MemoryStorage) UpdateMeal(ctx context.Context, ownerUserID, id string, p storage.MealPatch) (storage.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	meal, ok := m.meals[id]
	if !ok || meal.OwnerUserID != ownerUserID {
		return storage.Meal{}, storage.ErrNotFound
	}

	if p.Name != nil {
		meal.Name = *p.Name
	}
	if p.Description != nil {
		meal.Description = *p.Description
	}
	if p.Tags != nil {
		tags := *p.Tags
		if tags == nil {
			tags = []string{}
		}
		meal.Tags = tags
	}
	if p.Macros != nil {
		meal.Macros = *p.Macros
	}

	m.persistMealsLocked()
	m.publish(events.MealUpdated, ownerUserID, meal.ID)

	return *meal, nil
}

func (m *MemoryStorage) DeleteMeal(ctx context.Context, ownerUserID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	meal, ok := m.meals[id]
	if !ok || meal.OwnerUserID != ownerUserID {
		return storage.ErrNotFound
	}

	// Assignments referencing this meal are left alone; the aggregator
	// treats them as contributing zero.
	delete(m.meals, id)

	m.persistMealsLocked()
	m.publish(events.MealDeleted, ownerUserID, id)

	return nil
}
