package meals

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kaylahuffman7/Plated-v2/internal/storage"
)

// MacrosDTO carries per-meal macros. Unmarshalling is lenient: values
// that are not numbers (strings, null, objects) coerce to zero so a
// sloppy client cannot wedge the catalog.
type MacrosDTO struct {
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Calories float64 `json:"calories"`
}

func (m *MacrosDTO) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*m = MacrosDTO{}
		return nil
	}

	m.Protein = coerceNumber(raw["protein"])
	m.Carbs = coerceNumber(raw["carbs"])
	m.Fats = coerceNumber(raw["fats"])
	m.Calories = coerceNumber(raw["calories"])
	return nil
}

func coerceNumber(data json.RawMessage) float64 {
	if len(data) == 0 {
		return 0
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0
	}
	return v
}

// MealDTO represents a catalog meal.
type MealDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Macros      MacrosDTO `json:"macros"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListMealsResponse is the response for GET /v1/meals.
type ListMealsResponse struct {
	Items []MealDTO `json:"items"`
	Total int       `json:"total"`
}

// CreateMealRequest is the request body for POST /v1/meals.
type CreateMealRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Macros      MacrosDTO `json:"macros"`
}

// UpdateMealRequest is the request body for PATCH /v1/meals/{id}.
// Absent fields leave the stored values untouched.
type UpdateMealRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Tags        *[]string  `json:"tags,omitempty"`
	Macros      *MacrosDTO `json:"macros,omitempty"`
}

func validateMacros(m MacrosDTO) error {
	if m.Protein < 0 || m.Carbs < 0 || m.Fats < 0 || m.Calories < 0 {
		return fmt.Errorf("macros must not be negative")
	}
	return nil
}

// Validate validates the create request.
func (r *CreateMealRequest) Validate() error {
	if len(r.Name) < 1 || len(r.Name) > 120 {
		return fmt.Errorf("name must be between 1 and 120 characters")
	}
	if err := validateMacros(r.Macros); err != nil {
		return err
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return nil
}

// Validate validates the patch request.
func (r *UpdateMealRequest) Validate() error {
	if r.Name != nil && (len(*r.Name) < 1 || len(*r.Name) > 120) {
		return fmt.Errorf("name must be between 1 and 120 characters")
	}
	if r.Macros != nil {
		if err := validateMacros(*r.Macros); err != nil {
			return err
		}
	}
	return nil
}

func toDTO(meal storage.Meal) MealDTO {
	tags := meal.Tags
	if tags == nil {
		tags = []string{}
	}
	return MealDTO{
		ID:          meal.ID,
		Name:        meal.Name,
		Description: meal.Description,
		Tags:        tags,
		Macros: MacrosDTO{
			Protein:  meal.Macros.Protein,
			Carbs:    meal.Macros.Carbs,
			Fats:     meal.Macros.Fats,
			Calories: meal.Macros.Calories,
		},
		CreatedAt: meal.CreatedAt,
	}
}
