package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned when the backing store cannot be reached.
	// Adapters wrap the underlying cause; callers check with errors.Is.
	ErrUnavailable = errors.New("storage backend unavailable")
)

// Macros holds the nutritional profile of a meal. Zero values mean
// "not provided" — a meal with all-zero macros is still a valid meal.
type Macros struct {
	Protein  float64
	Carbs    float64
	Fats     float64
	Calories float64
}

// Meal is a reusable catalog entry owned by a single user.
type Meal struct {
	ID          string
	OwnerUserID string
	Name        string
	Description string
	Tags        []string
	Macros      Macros
	CreatedAt   time.Time
}

// MealUpsert carries the fields for creating a meal.
type MealUpsert struct {
	Name        string
	Description string
	Tags        []string
	Macros      Macros
}

// MealPatch carries a partial update; nil fields are left unchanged.
type MealPatch struct {
	Name        *string
	Description *string
	Tags        *[]string
	Macros      *Macros
}

// MealPlan is one meal assignment in a weekly plan. At most one row
// exists per (owner_user_id, week_key, day_of_week, meal_slot).
type MealPlan struct {
	ID          string
	OwnerUserID string
	WeekKey     string // YYYY-MM-DD, Monday of the week
	DayOfWeek   string // monday..sunday
	MealSlot    string // breakfast, snack1, lunch, snack2, dinner, snack3
	MealID      string // may reference a deleted meal
	CreatedAt   time.Time
}

// AssignmentUpsert carries the tuple and meal for an assignment upsert.
type AssignmentUpsert struct {
	WeekKey   string
	DayOfWeek string
	MealSlot  string
	MealID    string
}

// DailyGoals are the per-day macro targets used for progress tracking.
type DailyGoals struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fats     float64
}

// Settings — persisted per-user planner configuration.
type Settings struct {
	OwnerUserID string
	ActiveSlots []string
	TrackMacros bool
	DailyGoals  DailyGoals
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExportMeta — metadata of a generated weekly export.
type ExportMeta struct {
	ID          string
	OwnerUserID string
	WeekKey     string
	Format      string // "csv" or "pdf"
	ObjectKey   *string
	SizeBytes   int64
	Status      string // "ready" or "failed"
	Error       *string
	CreatedAt   time.Time
	Data        []byte // inline bytes when blob mode is local (ObjectKey nil)
}

// MealsStorage manages the per-user meal catalog.
type MealsStorage interface {
	// ListMeals returns all meals owned by the user.
	ListMeals(ctx context.Context, ownerUserID string) ([]Meal, error)

	// GetMeal returns a meal by id. ErrNotFound if absent or owned by someone else.
	GetMeal(ctx context.Context, ownerUserID, id string) (Meal, error)

	// CreateMeal stores a new meal with a fresh id and creation time.
	CreateMeal(ctx context.Context, ownerUserID string, m MealUpsert) (Meal, error)

	// UpdateMeal merges the patch into an existing meal. ErrNotFound if absent.
	UpdateMeal(ctx context.Context, ownerUserID, id string, p MealPatch) (Meal, error)

	// DeleteMeal removes a meal. Assignments referencing it are left in place.
	DeleteMeal(ctx context.Context, ownerUserID, id string) error
}

// MealPlansStorage manages weekly meal assignments.
type MealPlansStorage interface {
	// ListPlans returns all assignments for a week.
	ListPlans(ctx context.Context, ownerUserID, weekKey string) ([]MealPlan, error)

	// AssignMeal upserts by (week_key, day_of_week, meal_slot). An existing
	// assignment keeps its id and creation time; only the meal changes.
	AssignMeal(ctx context.Context, ownerUserID string, a AssignmentUpsert) (MealPlan, error)

	// ClearAssignment deletes an assignment by id. Deleting a missing id is a no-op.
	ClearAssignment(ctx context.Context, ownerUserID, id string) error
}

// SettingsStorage manages per-user planner settings.
type SettingsStorage interface {
	// GetSettings returns settings by owner_user_id. bool=false means not found.
	GetSettings(ctx context.Context, ownerUserID string) (Settings, bool, error)

	// UpsertSettings creates or updates settings for owner_user_id.
	UpsertSettings(ctx context.Context, ownerUserID string, s Settings) (Settings, error)
}

// ExportsStorage manages weekly export metadata.
type ExportsStorage interface {
	// CreateExport stores export metadata (plus inline data in memory mode).
	CreateExport(ctx context.Context, e *ExportMeta) error

	// GetExport returns an export by id. ErrNotFound if absent or foreign.
	GetExport(ctx context.Context, ownerUserID, id string) (*ExportMeta, error)
}

// Storage is the full persistence contract. One implementation is
// selected at startup and injected everywhere; nothing inspects
// payloads to decide where they go.
type Storage interface {
	MealsStorage
	MealPlansStorage
	SettingsStorage
	ExportsStorage

	// Close releases the underlying connection (no-op for memory).
	Close() error
}
