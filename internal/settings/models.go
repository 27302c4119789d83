package settings

import (
	"fmt"
	"time"
)

// CanonicalSlots is the fixed slot order of a planner day.
var CanonicalSlots = []string{"breakfast", "snack1", "lunch", "snack2", "dinner", "snack3"}

// DefaultActiveSlots is what a user gets before saving anything.
var DefaultActiveSlots = []string{"breakfast", "snack1", "lunch", "snack2", "dinner"}

// DefaultGoals mirrors the planner's out-of-the-box daily targets.
var DefaultGoals = GoalsDTO{Calories: 2000, Protein: 150, Carbs: 250, Fats: 65}

// GoalsDTO represents daily macro targets.
type GoalsDTO struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// SettingsDTO represents per-user planner settings.
type SettingsDTO struct {
	ActiveSlots []string  `json:"active_slots"`
	TrackMacros bool      `json:"track_macros"`
	DailyGoals  GoalsDTO  `json:"daily_goals"`
	IsDefault   bool      `json:"is_default"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// SaveSettingsRequest is the request body for PUT /v1/settings.
type SaveSettingsRequest struct {
	ActiveSlots []string `json:"active_slots"`
	TrackMacros bool     `json:"track_macros"`
	DailyGoals  GoalsDTO `json:"daily_goals"`
}

// ToggleSlotRequest is the request body for POST /v1/settings/toggle-slot.
type ToggleSlotRequest struct {
	Slot string `json:"slot"`
}

func isCanonicalSlot(slot string) bool {
	for _, s := range CanonicalSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Validate validates the save request.
func (r *SaveSettingsRequest) Validate() error {
	if len(r.ActiveSlots) == 0 {
		return fmt.Errorf("at least one active slot is required")
	}

	seen := map[string]bool{}
	for _, slot := range r.ActiveSlots {
		if !isCanonicalSlot(slot) {
			return fmt.Errorf("unknown slot: %s", slot)
		}
		if seen[slot] {
			return fmt.Errorf("duplicate slot: %s", slot)
		}
		seen[slot] = true
	}

	if r.DailyGoals.Calories < 0 {
		return fmt.Errorf("calories goal must not be negative")
	}
	if r.DailyGoals.Protein < 0 {
		return fmt.Errorf("protein goal must not be negative")
	}
	if r.DailyGoals.Carbs < 0 {
		return fmt.Errorf("carbs goal must not be negative")
	}
	if r.DailyGoals.Fats < 0 {
		return fmt.Errorf("fats goal must not be negative")
	}

	return nil
}

// Validate validates the toggle request.
func (r *ToggleSlotRequest) Validate() error {
	if r.Slot == "" {
		return fmt.Errorf("slot is required")
	}
	if !isCanonicalSlot(r.Slot) {
		return fmt.Errorf("unknown slot: %s", r.Slot)
	}
	return nil
}

// SortSlots returns the slots ordered by their canonical day position.
func SortSlots(slots []string) []string {
	out := make([]string, 0, len(slots))
	for _, canonical := range CanonicalSlots {
		for _, s := range slots {
			if s == canonical {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// ToggleSlot flips the presence of slot in the active set, preserving
// canonical order.
func ToggleSlot(active []string, slot string) []string {
	out := make([]string, 0, len(active)+1)
	removed := false
	for _, s := range active {
		if s == slot {
			removed = true
			continue
		}
		out = append(out, s)
	}
	if removed {
		return out
	}
	return SortSlots(append(out, slot))
}
