// Package macros aggregates nutritional totals for a day of meal
// assignments and turns them into goal progress.
package macros

import (
	"math"

	"github.com/kaylahuffman7/Plated-v2/internal/storage"
)

// Progress tiers returned by Tier.
const (
	TierLow  = "low"  // under 50% of the goal
	TierMid  = "mid"  // 50% to under 80%
	TierHigh = "high" // 80% and above
)

// DailyTotals sums the macro profiles of the meals referenced by the
// given assignments. Assignments pointing at meals missing from the
// catalog contribute zero; the function never fails.
func DailyTotals(assignments []storage.MealPlan, catalog map[string]storage.Meal) storage.Macros {
	var totals storage.Macros
	for _, a := range assignments {
		meal, ok := catalog[a.MealID]
		if !ok {
			continue
		}
		totals.Protein += meal.Macros.Protein
		totals.Carbs += meal.Macros.Carbs
		totals.Fats += meal.Macros.Fats
		totals.Calories += meal.Macros.Calories
	}
	return totals
}

// HasMacros reports whether the totals represent any tracked intake.
// A day summing to zero calories reads as "nothing logged" even if
// assignments exist — zero-calorie meals are indistinguishable from
// missing macro profiles here.
func HasMacros(totals storage.Macros) bool {
	return totals.Calories > 0
}

// Percent returns the progress toward a goal as a whole percentage,
// clamped to 100. A zero or negative goal reports 0 rather than
// dividing by zero.
func Percent(current, goal float64) int {
	if goal <= 0 {
		return 0
	}
	pct := int(math.Round(current / goal * 100))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// Tier buckets a percentage into the display tier.
func Tier(percent int) string {
	switch {
	case percent < 50:
		return TierLow
	case percent < 80:
		return TierMid
	default:
		return TierHigh
	}
}
