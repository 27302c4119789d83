package memory

import (
	"time"

	"github.com/kaylahuffman7/Plated-v2/internal/storage"
	"github.com/kaylahuffman7/Plated-v2/internal/week"
)

// SeedDemoData fills an empty catalog with the demo meal library and a
// few assignments for the current week, so the planner is usable the
// moment it starts. Seeding a non-empty storage is a no-op.
func (m *MemoryStorage) SeedDemoData(ownerUserID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.meals) > 0 {
		return
	}

	now := time.Now().UTC()
	weekKey := week.CurrentKey()

	for _, meal := range demoMeals(ownerUserID, now) {
		stored := meal
		m.meals[meal.ID] = &stored
	}
	for _, plan := range demoPlans(ownerUserID, weekKey, now) {
		stored := plan
		m.plans[plan.ID] = &stored
		m.planByTuple[tupleKey(plan.OwnerUserID, plan.WeekKey, plan.DayOfWeek, plan.MealSlot)] = plan.ID
	}

	m.persistMealsLocked()
	m.persistPlansLocked()
}

func demoMeals(owner string, now time.Time) []storage.Meal {
	mk := func(id, name, desc string, tags []string, protein, carbs, fats, calories float64) storage.Meal {
		return storage.Meal{
			ID:          id,
			OwnerUserID: owner,
			Name:        name,
			Description: desc,
			Tags:        tags,
			Macros:      storage.Macros{Protein: protein, Carbs: carbs, Fats: fats, Calories: calories},
			CreatedAt:   now,
		}
	}

	return []storage.Meal{
		// Breakfast
		mk("meal-1", "Oatmeal with Berries", "Steel cut oats with mixed berries and honey", []string{"breakfast"}, 12, 54, 8, 320),
		mk("meal-2", "Scrambled Eggs & Toast", "3 eggs with whole wheat toast", []string{"breakfast"}, 24, 32, 18, 380),
		mk("meal-3", "Greek Yogurt Parfait", "Greek yogurt with granola and fruit", []string{"breakfast", "snack"}, 20, 45, 12, 350),
		mk("meal-4", "Protein Smoothie Bowl", "Banana, protein powder, almond milk, topped with granola", []string{"breakfast", "snack"}, 32, 48, 14, 420),

		// Lunch
		mk("meal-5", "Grilled Chicken Salad", "Mixed greens with grilled chicken, avocado, and balsamic", []string{"lunch", "dinner"}, 35, 18, 22, 400),
		mk("meal-6", "Turkey & Avocado Wrap", "Whole wheat wrap with turkey, avocado, lettuce, tomato", []string{"lunch"}, 28, 42, 16, 420),
		mk("meal-7", "Quinoa Buddha Bowl", "Quinoa with roasted veggies, chickpeas, tahini", []string{"lunch", "dinner"}, 18, 58, 20, 480),
		mk("meal-8", "Tuna Poke Bowl", "Sushi rice with raw tuna, edamame, seaweed, cucumber", []string{"lunch", "dinner"}, 32, 52, 12, 440),

		// Dinner
		mk("meal-9", "Grilled Salmon & Veggies", "Atlantic salmon with roasted broccoli and sweet potato", []string{"dinner"}, 38, 35, 24, 520),
		mk("meal-10", "Chicken Stir Fry", "Chicken breast with mixed vegetables and brown rice", []string{"dinner"}, 42, 48, 14, 480),
		mk("meal-11", "Spaghetti Bolognese", "Whole wheat pasta with lean ground beef sauce", []string{"dinner"}, 36, 62, 18, 540),
		mk("meal-12", "Shrimp Tacos", "Grilled shrimp tacos with cabbage slaw and lime", []string{"dinner"}, 30, 44, 16, 440),

		// Snacks
		mk("meal-13", "Protein Bar", "Quest protein bar - chocolate chip", []string{"snack"}, 20, 22, 8, 200),
		mk("meal-14", "Apple & Almond Butter", "Sliced apple with 2 tbsp almond butter", []string{"snack"}, 5, 28, 16, 270),
		mk("meal-15", "Trail Mix", "Mixed nuts, dried fruit, dark chocolate", []string{"snack"}, 8, 32, 18, 320),
		mk("meal-16", "Protein Shake", "Whey protein with almond milk", []string{"snack"}, 25, 8, 4, 160),
	}
}

func demoPlans(owner, weekKey string, now time.Time) []storage.MealPlan {
	mk := func(id, day, slot, mealID string) storage.MealPlan {
		return storage.MealPlan{
			ID:          id,
			OwnerUserID: owner,
			WeekKey:     weekKey,
			DayOfWeek:   day,
			MealSlot:    slot,
			MealID:      mealID,
			CreatedAt:   now,
		}
	}

	return []storage.MealPlan{
		mk("plan-1", "monday", "breakfast", "meal-1"),
		mk("plan-2", "monday", "lunch", "meal-5"),
		mk("plan-3", "monday", "dinner", "meal-9"),
		mk("plan-4", "monday", "snack1", "meal-13"),

		mk("plan-5", "tuesday", "breakfast", "meal-2"),
		mk("plan-6", "tuesday", "lunch", "meal-6"),
		mk("plan-7", "tuesday", "dinner", "meal-10"),
		mk("plan-8", "tuesday", "snack2", "meal-14"),

		mk("plan-9", "wednesday", "breakfast", "meal-3"),
		mk("plan-10", "wednesday", "lunch", "meal-7"),
		mk("plan-11", "wednesday", "dinner", "meal-11"),
	}
}
