package memory

import (
	"fmt"
	"log"

	"github.com/kaylahuffman7/Plated-v2/internal/storage"
)

// Snapshot keys in the local store. One document per collection,
// mirroring the shape the data had before any server existed.
const (
	snapshotMealsKey    = "meals"
	snapshotPlansKey    = "plans"
	snapshotSettingsKey = "settings"
)

// loadSnapshot restores collections from the local store.
func (m *MemoryStorage) loadSnapshot() error {
	var meals []storage.Meal
	if _, err := m.local.Load(snapshotMealsKey, &meals); err != nil {
		return fmt.Errorf("load meals: %w", err)
	}
	for i := range meals {
		meal := meals[i]
		if meal.Tags == nil {
			meal.Tags = []string{}
		}
		m.meals[meal.ID] = &meal
	}

	var plans []storage.MealPlan
	if _, err := m.local.Load(snapshotPlansKey, &plans); err != nil {
		return fmt.Errorf("load plans: %w", err)
	}
	for i := range plans {
		plan := plans[i]
		m.plans[plan.ID] = &plan
		m.planByTuple[tupleKey(plan.OwnerUserID, plan.WeekKey, plan.DayOfWeek, plan.MealSlot)] = plan.ID
	}

	var settings []storage.Settings
	if _, err := m.local.Load(snapshotSettingsKey, &settings); err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	for i := range settings {
		s := settings[i]
		m.settings[s.OwnerUserID] = &s
	}

	return nil
}

// persistMealsLocked rewrites the meals snapshot. Callers hold m.mu.
func (m *MemoryStorage) persistMealsLocked() {
	if m.local == nil {
		return
	}
	out := make([]storage.Meal, 0, len(m.meals))
	for _, meal := range m.meals {
		out = append(out, *meal)
	}
	if err := m.local.Save(snapshotMealsKey, out); err != nil {
		log.Printf("WARN memory: persist meals failed: %v", err)
	}
}

func (m *MemoryStorage) persistPlansLocked() {
	if m.local == nil {
		return
	}
	out := make([]storage.MealPlan, 0, len(m.plans))
	for _, plan := range m.plans {
		out = append(out, *plan)
	}
	if err := m.local.Save(snapshotPlansKey, out); err != nil {
		log.Printf("WARN memory: persist plans failed: %v", err)
	}
}

func (m *MemoryStorage) persistSettingsLocked() {
	if m.local == nil {
		return
	}
	out := make([]storage.Settings, 0, len(m.settings))
	for _, s := range m.settings {
		out = append(out, *s)
	}
	if err := m.local.Save(snapshotSettingsKey, out); err != nil {
		log.Printf("WARN memory: persist settings failed: %v", err)
	}
}
