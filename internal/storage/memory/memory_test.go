package memory

import (
	"context"
	"testing"
	"time"

	"github.com/kaylahuffman7/Plated-v2/internal/events"
	"github.com/kaylahuffman7/Plated-v2/internal/localstore"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
)

func TestAssignMeal_UpsertKeepsID(t *testing.T) {
	m := New()
	ctx := context.Background()

	first, err := m.AssignMeal(ctx, "user1", storage.AssignmentUpsert{
		WeekKey: "2026-08-24", DayOfWeek: "monday", MealSlot: "lunch", MealID: "meal-5",
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	second, err := m.AssignMeal(ctx, "user1", storage.AssignmentUpsert{
		WeekKey: "2026-08-24", DayOfWeek: "monday", MealSlot: "lunch", MealID: "meal-7",
	})
	if err != nil {
		t.Fatalf("re-assign: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("upsert created a new assignment: %s != %s", second.ID, first.ID)
	}
	if second.MealID != "meal-7" {
		t.Errorf("meal not replaced, got %s", second.MealID)
	}

	plans, err := m.ListPlans(ctx, "user1", "2026-08-24")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(plans) != 1 {
		t.Errorf("expected exactly one assignment for the slot, got %d", len(plans))
	}
}

func TestAssignMeal_DistinctSlotsCoexist(t *testing.T) {
	m := New()
	ctx := context.Background()

	tuples := []storage.AssignmentUpsert{
		{WeekKey: "2026-08-24", DayOfWeek: "monday", MealSlot: "lunch", MealID: "m1"},
		{WeekKey: "2026-08-24", DayOfWeek: "monday", MealSlot: "dinner", MealID: "m2"},
		{WeekKey: "2026-08-24", DayOfWeek: "tuesday", MealSlot: "lunch", MealID: "m3"},
		{WeekKey: "2026-08-31", DayOfWeek: "monday", MealSlot: "lunch", MealID: "m4"},
	}
	for _, a := range tuples {
		if _, err := m.AssignMeal(ctx, "user1", a); err != nil {
			t.Fatalf("assign %+v: %v", a, err)
		}
	}

	plans, _ := m.ListPlans(ctx, "user1", "2026-08-24")
	if len(plans) != 3 {
		t.Errorf("expected 3 assignments in first week, got %d", len(plans))
	}
	plans, _ = m.ListPlans(ctx, "user1", "2026-08-31")
	if len(plans) != 1 {
		t.Errorf("expected 1 assignment in second week, got %d", len(plans))
	}
}

func TestClearAssignment_Idempotent(t *testing.T) {
	m := New()
	ctx := context.Background()

	plan, err := m.AssignMeal(ctx, "user1", storage.AssignmentUpsert{
		WeekKey: "2026-08-24", DayOfWeek: "friday", MealSlot: "dinner", MealID: "m1",
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := m.ClearAssignment(ctx, "user1", plan.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := m.ClearAssignment(ctx, "user1", plan.ID); err != nil {
		t.Errorf("second clear should be a no-op, got %v", err)
	}
	if err := m.ClearAssignment(ctx, "user1", "never-existed"); err != nil {
		t.Errorf("clearing unknown id should be a no-op, got %v", err)
	}

	plans, _ := m.ListPlans(ctx, "user1", "2026-08-24")
	if len(plans) != 0 {
		t.Errorf("expected empty week after clear, got %d", len(plans))
	}

	// The freed slot accepts a fresh assignment with a new id.
	again, err := m.AssignMeal(ctx, "user1", storage.AssignmentUpsert{
		WeekKey: "2026-08-24", DayOfWeek: "friday", MealSlot: "dinner", MealID: "m2",
	})
	if err != nil {
		t.Fatalf("re-assign: %v", err)
	}
	if again.ID == plan.ID {
		t.Error("cleared slot should produce a new assignment id")
	}
}

func TestClearAssignment_OwnershipProtection(t *testing.T) {
	m := New()
	ctx := context.Background()

	plan, _ := m.AssignMeal(ctx, "user1", storage.AssignmentUpsert{
		WeekKey: "2026-08-24", DayOfWeek: "monday", MealSlot: "lunch", MealID: "m1",
	})

	// Another user's clear must not touch it (and reports no error,
	// same as clearing an empty slot).
	if err := m.ClearAssignment(ctx, "user2", plan.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}

	plans, _ := m.ListPlans(ctx, "user1", "2026-08-24")
	if len(plans) != 1 {
		t.Error("assignment deleted by foreign user")
	}
}

func TestMealCRUDAndOwnership(t *testing.T) {
	m := New()
	ctx := context.Background()

	meal, err := m.CreateMeal(ctx, "user1", storage.MealUpsert{Name: "Oatmeal", Tags: []string{"breakfast"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if meal.ID == "" || meal.CreatedAt.IsZero() {
		t.Error("create should set id and created_at")
	}

	name := "Oatmeal with Berries"
	updated, err := m.UpdateMeal(ctx, "user1", meal.ID, storage.MealPatch{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name {
		t.Errorf("name not updated: %s", updated.Name)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "breakfast" {
		t.Errorf("untouched fields changed: %+v", updated.Tags)
	}

	if _, err := m.GetMeal(ctx, "user2", meal.ID); err != storage.ErrNotFound {
		t.Errorf("foreign get should be ErrNotFound, got %v", err)
	}
	if _, err := m.UpdateMeal(ctx, "user1", "missing", storage.MealPatch{Name: &name}); err != storage.ErrNotFound {
		t.Errorf("updating missing meal should be ErrNotFound, got %v", err)
	}

	if err := m.DeleteMeal(ctx, "user1", meal.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.DeleteMeal(ctx, "user1", meal.ID); err != storage.ErrNotFound {
		t.Errorf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestMutationsPublishEvents(t *testing.T) {
	bus := events.NewBus()
	ch, cancel := bus.Subscribe(16)
	defer cancel()

	m := New(WithEventBus(bus))
	ctx := context.Background()

	meal, _ := m.CreateMeal(ctx, "user1", storage.MealUpsert{Name: "Toast"})
	plan, _ := m.AssignMeal(ctx, "user1", storage.AssignmentUpsert{
		WeekKey: "2026-08-24", DayOfWeek: "monday", MealSlot: "breakfast", MealID: meal.ID,
	})
	m.AssignMeal(ctx, "user1", storage.AssignmentUpsert{
		WeekKey: "2026-08-24", DayOfWeek: "monday", MealSlot: "breakfast", MealID: meal.ID,
	})
	m.ClearAssignment(ctx, "user1", plan.ID)
	m.UpsertSettings(ctx, "user1", storage.Settings{ActiveSlots: []string{"breakfast"}})

	want := []events.Kind{
		events.MealCreated,
		events.AssignmentCreated,
		events.AssignmentUpdated,
		events.AssignmentDeleted,
		events.SettingsUpdated,
	}
	for _, kind := range want {
		select {
		case evt := <-ch:
			if evt.Kind != kind {
				t.Errorf("expected event %s, got %s", kind, evt.Kind)
			}
		case <-time.After(time.Second):
			t.Fatalf("missing event %s", kind)
		}
	}
}

func TestSnapshotSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	local, err := localstore.Open(dir)
	if err != nil {
		t.Fatalf("open localstore: %v", err)
	}

	first := New(WithLocalStore(local))
	meal, _ := first.CreateMeal(ctx, "user1", storage.MealUpsert{Name: "Oatmeal", Macros: storage.Macros{Calories: 320}})
	first.AssignMeal(ctx, "user1", storage.AssignmentUpsert{
		WeekKey: "2026-08-24", DayOfWeek: "monday", MealSlot: "breakfast", MealID: meal.ID,
	})
	first.UpsertSettings(ctx, "user1", storage.Settings{
		ActiveSlots: []string{"breakfast", "lunch"},
		TrackMacros: true,
		DailyGoals:  storage.DailyGoals{Calories: 2000},
	})

	reopened, err := localstore.Open(dir)
	if err != nil {
		t.Fatalf("reopen localstore: %v", err)
	}
	second := New(WithLocalStore(reopened))

	meals, _ := second.ListMeals(ctx, "user1")
	if len(meals) != 1 || meals[0].Name != "Oatmeal" {
		t.Errorf("meals not restored: %+v", meals)
	}
	plans, _ := second.ListPlans(ctx, "user1", "2026-08-24")
	if len(plans) != 1 {
		t.Errorf("plans not restored: %+v", plans)
	}
	settings, found, _ := second.GetSettings(ctx, "user1")
	if !found || !settings.TrackMacros || settings.DailyGoals.Calories != 2000 {
		t.Errorf("settings not restored: %+v (found=%t)", settings, found)
	}

	// The tuple index must be rebuilt: upserting the restored slot
	// keeps the restored id.
	again, _ := second.AssignMeal(ctx, "user1", storage.AssignmentUpsert{
		WeekKey: "2026-08-24", DayOfWeek: "monday", MealSlot: "breakfast", MealID: "other",
	})
	if again.ID != plans[0].ID {
		t.Error("tuple index not rebuilt from snapshot")
	}
}

func TestSeedDemoData(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.SeedDemoData("demo-user")

	meals, _ := m.ListMeals(ctx, "demo-user")
	if len(meals) != 16 {
		t.Errorf("expected 16 demo meals, got %d", len(meals))
	}

	// Seeding again must not duplicate.
	m.SeedDemoData("demo-user")
	meals, _ = m.ListMeals(ctx, "demo-user")
	if len(meals) != 16 {
		t.Errorf("seed is not idempotent: %d meals", len(meals))
	}
}
