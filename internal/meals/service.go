package meals

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kaylahuffman7/Plated-v2/internal/storage"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Service handles meal catalog business logic.
type Service struct {
	storage  storage.MealsStorage
	collator *collate.Collator
}

// NewService creates a new meals service.
func NewService(st storage.MealsStorage) *Service {
	return &Service{
		storage:  st,
		collator: collate.New(language.English, collate.IgnoreCase),
	}
}

// SearchQuery narrows a catalog listing. An empty query matches all.
type SearchQuery struct {
	Text string // substring match on name or description
	Slot string // planner slot; snack1..snack3 all map to the snack tag
}

// slotTag maps a planner slot to the catalog tag meals carry.
func slotTag(slot string) string {
	if strings.HasPrefix(slot, "snack") {
		return "snack"
	}
	return slot
}

// Search lists the user's meals filtered by q and sorted by name using
// locale-aware collation, ties broken by id for a stable order.
func (s *Service) Search(ctx context.Context, ownerUserID string, q SearchQuery) ([]MealDTO, error) {
	stored, err := s.storage.ListMeals(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	tag := ""
	if q.Slot != "" {
		tag = slotTag(q.Slot)
	}

	items := make([]MealDTO, 0, len(stored))
	for _, meal := range stored {
		if text != "" &&
			!strings.Contains(strings.ToLower(meal.Name), text) &&
			!strings.Contains(strings.ToLower(meal.Description), text) {
			continue
		}
		if tag != "" && !matchesTag(meal.Tags, tag) {
			continue
		}
		items = append(items, toDTO(meal))
	}

	sort.Slice(items, func(i, j int) bool {
		if c := s.collator.CompareString(items[i].Name, items[j].Name); c != 0 {
			return c < 0
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}

// matchesTag reports whether the meal fits a slot tag. Meals with no
// tags fit anywhere.
func matchesTag(tags []string, tag string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Get returns one meal by id.
func (s *Service) Get(ctx context.Context, ownerUserID, id string) (MealDTO, error) {
	meal, err := s.storage.GetMeal(ctx, ownerUserID, id)
	if err != nil {
		return MealDTO{}, err
	}
	return toDTO(meal), nil
}

// Add creates a catalog meal.
func (s *Service) Add(ctx context.Context, ownerUserID string, req CreateMealRequest) (MealDTO, error) {
	if err := req.Validate(); err != nil {
		return MealDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	meal, err := s.storage.CreateMeal(ctx, ownerUserID, storage.MealUpsert{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Tags:        req.Tags,
		Macros: storage.Macros{
			Protein:  req.Macros.Protein,
			Carbs:    req.Macros.Carbs,
			Fats:     req.Macros.Fats,
			Calories: req.Macros.Calories,
		},
	})
	if err != nil {
		return MealDTO{}, err
	}

	return toDTO(meal), nil
}

// Update applies a partial update to a catalog meal.
func (s *Service) Update(ctx context.Context, ownerUserID, id string, req UpdateMealRequest) (MealDTO, error) {
	if err := req.Validate(); err != nil {
		return MealDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	patch := storage.MealPatch{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if req.Macros != nil {
		patch.Macros = &storage.Macros{
			Protein:  req.Macros.Protein,
			Carbs:    req.Macros.Carbs,
			Fats:     req.Macros.Fats,
			Calories: req.Macros.Calories,
		}
	}

	meal, err := s.storage.UpdateMeal(ctx, ownerUserID, id, patch)
	if err != nil {
		return MealDTO{}, err
	}

	return toDTO(meal), nil
}

// Remove deletes a catalog meal. Assignments referencing it are left in
// place and simply stop contributing to totals.
func (s *Service) Remove(ctx context.Context, ownerUserID, id string) error {
	return s.storage.DeleteMeal(ctx, ownerUserID, id)
}
