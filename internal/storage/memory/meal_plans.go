package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kaylahuffman7/Plated-v2/internal/events"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
)

func tupleKey(ownerUserID, weekKey, dayOfWeek, mealSlot string) string {
	return fmt.Sprintf("%s:%s:%s:%s", ownerUserID, weekKey, dayOfWeek, mealSlot)
}

func (m *MemoryStorage) ListPlans(ctx context.Context, ownerUserID, weekKey string) ([]storage.MealPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plans := make([]storage.MealPlan, 0)
	for _, plan := range m.plans {
		if plan.OwnerUserID == ownerUserID && plan.WeekKey == weekKey {
			plans = append(plans, *plan)
		}
	}
	return plans, nil
}

func (m *MemoryStorage) AssignMeal(ctx context.Context, ownerUserID string, a storage.AssignmentUpsert) (storage.MealPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := tupleKey(ownerUserID, a.WeekKey, a.DayOfWeek, a.MealSlot)

	if id, ok := m.planByTuple[key]; ok {
		// Slot already filled for this day: keep the assignment, swap the meal.
		plan := m.plans[id]
		plan.MealID = a.MealID

		m.persistPlansLocked()
		m.publish(events.AssignmentUpdated, ownerUserID, plan.ID)

		return *plan, nil
	}

	plan := &storage.MealPlan{
		ID:          uuid.New().String(),
		OwnerUserID: ownerUserID,
		WeekKey:     a.WeekKey,
		DayOfWeek:   a.DayOfWeek,
		MealSlot:    a.MealSlot,
		MealID:      a.MealID,
		CreatedAt:   time.Now().UTC(),
	}
	m.plans[plan.ID] = plan
	m.planByTuple[key] = plan.ID

	m.persistPlansLocked()
	m.publish(events.AssignmentCreated, ownerUserID, plan.ID)

	return *plan, nil
}

func (m *MemoryStorage) ClearAssignment(ctx context.Context, ownerUserID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	plan, ok := m.plans[id]
	if !ok || plan.OwnerUserID != ownerUserID {
		// Clearing an empty or unknown slot is a no-op.
		return nil
	}

	delete(m.plans, id)
	delete(m.planByTuple, tupleKey(plan.OwnerUserID, plan.WeekKey, plan.DayOfWeek, plan.MealSlot))

	m.persistPlansLocked()
	m.publish(events.AssignmentDeleted, ownerUserID, id)

	return nil
}
