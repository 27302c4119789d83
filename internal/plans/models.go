package plans

import (
	"fmt"
	"time"

	"github.com/kaylahuffman7/Plated-v2/internal/settings"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
	"github.com/kaylahuffman7/Plated-v2/internal/week"
)

// PlanDTO represents one slot assignment in a week.
type PlanDTO struct {
	ID        string    `json:"id"`
	WeekKey   string    `json:"week_key"`
	DayOfWeek string    `json:"day_of_week"`
	MealSlot  string    `json:"meal_slot"`
	MealID    string    `json:"meal_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ListPlansResponse is the response for GET /v1/plans.
type ListPlansResponse struct {
	WeekKey string    `json:"week_key"`
	Items   []PlanDTO `json:"items"`
}

// AssignRequest is the request body for POST /v1/plans/assign. An empty
// week_key targets the current week.
type AssignRequest struct {
	WeekKey   string `json:"week_key,omitempty"`
	DayOfWeek string `json:"day_of_week"`
	MealSlot  string `json:"meal_slot"`
	MealID    string `json:"meal_id"`
}

// Validate validates the assign request.
func (r *AssignRequest) Validate() error {
	if r.WeekKey != "" {
		if _, err := week.ParseKey(r.WeekKey); err != nil {
			return fmt.Errorf("week_key must be a Monday date: %v", err)
		}
	}

	if _, ok := week.DayIndex(r.DayOfWeek); !ok {
		return fmt.Errorf("unknown day_of_week: %s", r.DayOfWeek)
	}

	if slotRank(r.MealSlot) < 0 {
		return fmt.Errorf("unknown meal_slot: %s", r.MealSlot)
	}

	if r.MealID == "" {
		return fmt.Errorf("meal_id is required")
	}

	return nil
}

// MacroProgressDTO is one macro's progress toward its daily goal.
type MacroProgressDTO struct {
	Name    string  `json:"name"`
	Current float64 `json:"current"`
	Goal    float64 `json:"goal"`
	Percent int     `json:"percent"`
	Tier    string  `json:"tier"`
}

// DayAssignmentDTO is an assignment resolved against the catalog. Meal
// is nil when the referenced meal no longer exists.
type DayAssignmentDTO struct {
	ID       string      `json:"id"`
	MealSlot string      `json:"meal_slot"`
	MealID   string      `json:"meal_id"`
	Meal     *DayMealDTO `json:"meal,omitempty"`
}

// DayMealDTO is the catalog view embedded in a day summary.
type DayMealDTO struct {
	Name     string  `json:"name"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Calories float64 `json:"calories"`
}

// TotalsDTO is the summed macros of a day.
type TotalsDTO struct {
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Calories float64 `json:"calories"`
}

// DaySummaryDTO is the response for GET /v1/plans/day.
type DaySummaryDTO struct {
	WeekKey     string             `json:"week_key"`
	DayOfWeek   string             `json:"day_of_week"`
	Assignments []DayAssignmentDTO `json:"assignments"`
	Totals      TotalsDTO          `json:"totals"`
	HasMacros   bool               `json:"has_macros"`
	TrackMacros bool               `json:"track_macros"`
	Progress    []MacroProgressDTO `json:"progress"`
}

// slotRank returns the canonical position of a slot, -1 for unknown.
func slotRank(slot string) int {
	for i, s := range settings.CanonicalSlots {
		if s == slot {
			return i
		}
	}
	return -1
}

func toDTO(plan storage.MealPlan) PlanDTO {
	return PlanDTO{
		ID:        plan.ID,
		WeekKey:   plan.WeekKey,
		DayOfWeek: plan.DayOfWeek,
		MealSlot:  plan.MealSlot,
		MealID:    plan.MealID,
		CreatedAt: plan.CreatedAt,
	}
}
