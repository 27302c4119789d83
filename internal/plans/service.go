package plans

import (
	"context"
	"fmt"
	"sort"

	"github.com/kaylahuffman7/Plated-v2/internal/macros"
	"github.com/kaylahuffman7/Plated-v2/internal/settings"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
	"github.com/kaylahuffman7/Plated-v2/internal/week"
)

// Service handles weekly plan business logic.
type Service struct {
	plans    storage.MealPlansStorage
	meals    storage.MealsStorage
	settings *settings.Service
}

// NewService creates a new plans service.
func NewService(plans storage.MealPlansStorage, meals storage.MealsStorage, settingsService *settings.Service) *Service {
	return &Service{plans: plans, meals: meals, settings: settingsService}
}

// resolveWeekKey defaults an empty key to the current week and rejects
// keys that are not a Monday date.
func resolveWeekKey(weekKey string) (string, error) {
	if weekKey == "" {
		return week.CurrentKey(), nil
	}
	if _, err := week.ParseKey(weekKey); err != nil {
		return "", fmt.Errorf("validation failed: %w", fmt.Errorf("week_key must be a Monday date: %v", err))
	}
	return weekKey, nil
}

// ListWeek returns the assignments of one week ordered by day, then by
// canonical slot rank.
func (s *Service) ListWeek(ctx context.Context, ownerUserID, weekKey string) (ListPlansResponse, error) {
	key, err := resolveWeekKey(weekKey)
	if err != nil {
		return ListPlansResponse{}, err
	}

	stored, err := s.plans.ListPlans(ctx, ownerUserID, key)
	if err != nil {
		return ListPlansResponse{}, err
	}

	items := make([]PlanDTO, 0, len(stored))
	for _, plan := range stored {
		items = append(items, toDTO(plan))
	}
	sort.Slice(items, func(i, j int) bool {
		di, _ := week.DayIndex(items[i].DayOfWeek)
		dj, _ := week.DayIndex(items[j].DayOfWeek)
		if di != dj {
			return di < dj
		}
		return slotRank(items[i].MealSlot) < slotRank(items[j].MealSlot)
	})

	return ListPlansResponse{WeekKey: key, Items: items}, nil
}

// Assign places a meal into a (week, day, slot) cell. Re-assigning an
// occupied cell swaps the meal and keeps the assignment id.
func (s *Service) Assign(ctx context.Context, ownerUserID string, req AssignRequest) (PlanDTO, error) {
	if err := req.Validate(); err != nil {
		return PlanDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	key, err := resolveWeekKey(req.WeekKey)
	if err != nil {
		return PlanDTO{}, err
	}

	// The meal must exist in the caller's catalog at assignment time;
	// it may be deleted later and dangle.
	if _, err := s.meals.GetMeal(ctx, ownerUserID, req.MealID); err != nil {
		return PlanDTO{}, err
	}

	plan, err := s.plans.AssignMeal(ctx, ownerUserID, storage.AssignmentUpsert{
		WeekKey:   key,
		DayOfWeek: req.DayOfWeek,
		MealSlot:  req.MealSlot,
		MealID:    req.MealID,
	})
	if err != nil {
		return PlanDTO{}, err
	}

	return toDTO(plan), nil
}

// Clear removes an assignment by id. Unknown ids are a no-op.
func (s *Service) Clear(ctx context.Context, ownerUserID, id string) error {
	return s.plans.ClearAssignment(ctx, ownerUserID, id)
}

// DaySummary joins one day's assignments against the catalog and the
// user's daily goals.
func (s *Service) DaySummary(ctx context.Context, ownerUserID, weekKey, day string) (DaySummaryDTO, error) {
	if _, ok := week.DayIndex(day); !ok {
		return DaySummaryDTO{}, fmt.Errorf("validation failed: %w", fmt.Errorf("unknown day: %s", day))
	}

	key, err := resolveWeekKey(weekKey)
	if err != nil {
		return DaySummaryDTO{}, err
	}

	stored, err := s.plans.ListPlans(ctx, ownerUserID, key)
	if err != nil {
		return DaySummaryDTO{}, err
	}

	dayPlans := make([]storage.MealPlan, 0)
	for _, plan := range stored {
		if plan.DayOfWeek == day {
			dayPlans = append(dayPlans, plan)
		}
	}
	sort.Slice(dayPlans, func(i, j int) bool {
		return slotRank(dayPlans[i].MealSlot) < slotRank(dayPlans[j].MealSlot)
	})

	allMeals, err := s.meals.ListMeals(ctx, ownerUserID)
	if err != nil {
		return DaySummaryDTO{}, err
	}
	catalog := make(map[string]storage.Meal, len(allMeals))
	for _, meal := range allMeals {
		catalog[meal.ID] = meal
	}

	cfg, err := s.settings.GetOrDefault(ctx, ownerUserID)
	if err != nil {
		return DaySummaryDTO{}, err
	}

	assignments := make([]DayAssignmentDTO, 0, len(dayPlans))
	for _, plan := range dayPlans {
		dto := DayAssignmentDTO{ID: plan.ID, MealSlot: plan.MealSlot, MealID: plan.MealID}
		if meal, ok := catalog[plan.MealID]; ok {
			dto.Meal = &DayMealDTO{
				Name:     meal.Name,
				Protein:  meal.Macros.Protein,
				Carbs:    meal.Macros.Carbs,
				Fats:     meal.Macros.Fats,
				Calories: meal.Macros.Calories,
			}
		}
		assignments = append(assignments, dto)
	}

	totals := macros.DailyTotals(dayPlans, catalog)

	progress := []MacroProgressDTO{
		macroProgress("calories", totals.Calories, cfg.DailyGoals.Calories),
		macroProgress("protein", totals.Protein, cfg.DailyGoals.Protein),
		macroProgress("carbs", totals.Carbs, cfg.DailyGoals.Carbs),
		macroProgress("fats", totals.Fats, cfg.DailyGoals.Fats),
	}

	return DaySummaryDTO{
		WeekKey:     key,
		DayOfWeek:   day,
		Assignments: assignments,
		Totals: TotalsDTO{
			Protein:  totals.Protein,
			Carbs:    totals.Carbs,
			Fats:     totals.Fats,
			Calories: totals.Calories,
		},
		HasMacros:   macros.HasMacros(totals),
		TrackMacros: cfg.TrackMacros,
		Progress:    progress,
	}, nil
}

func macroProgress(name string, current, goal float64) MacroProgressDTO {
	percent := macros.Percent(current, goal)
	return MacroProgressDTO{
		Name:    name,
		Current: current,
		Goal:    goal,
		Percent: percent,
		Tier:    macros.Tier(percent),
	}
}
