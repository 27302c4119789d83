package settings

import (
	"context"
	"fmt"

	"github.com/kaylahuffman7/Plated-v2/internal/storage"
)

// Service handles planner settings business logic.
type Service struct {
	storage storage.SettingsStorage
}

// NewService creates a new settings service.
func NewService(storage storage.SettingsStorage) *Service {
	return &Service{storage: storage}
}

// GetOrDefault returns the user's saved settings, or the defaults when
// nothing has been saved yet.
func (s *Service) GetOrDefault(ctx context.Context, ownerUserID string) (SettingsDTO, error) {
	stored, found, err := s.storage.GetSettings(ctx, ownerUserID)
	if err != nil {
		return SettingsDTO{}, err
	}

	if !found {
		return SettingsDTO{
			ActiveSlots: append([]string{}, DefaultActiveSlots...),
			TrackMacros: false,
			DailyGoals:  DefaultGoals,
			IsDefault:   true,
		}, nil
	}

	return toDTO(stored), nil
}

// Save validates and persists the full settings document.
func (s *Service) Save(ctx context.Context, ownerUserID string, req SaveSettingsRequest) (SettingsDTO, error) {
	if err := req.Validate(); err != nil {
		return SettingsDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	stored, err := s.storage.UpsertSettings(ctx, ownerUserID, storage.Settings{
		ActiveSlots: SortSlots(req.ActiveSlots),
		TrackMacros: req.TrackMacros,
		DailyGoals: storage.DailyGoals{
			Calories: req.DailyGoals.Calories,
			Protein:  req.DailyGoals.Protein,
			Carbs:    req.DailyGoals.Carbs,
			Fats:     req.DailyGoals.Fats,
		},
	})
	if err != nil {
		return SettingsDTO{}, err
	}

	return toDTO(stored), nil
}

// Toggle flips a single slot on or off against the current settings and
// returns the result as a preview. Nothing is persisted; the client
// saves the previewed document with Save if it wants to keep it.
// Turning off the last active slot is rejected.
func (s *Service) Toggle(ctx context.Context, ownerUserID string, req ToggleSlotRequest) (SettingsDTO, error) {
	if err := req.Validate(); err != nil {
		return SettingsDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	current, err := s.GetOrDefault(ctx, ownerUserID)
	if err != nil {
		return SettingsDTO{}, err
	}

	next := ToggleSlot(current.ActiveSlots, req.Slot)
	if len(next) == 0 {
		return SettingsDTO{}, fmt.Errorf("validation failed: %w", fmt.Errorf("cannot disable the last active slot"))
	}

	current.ActiveSlots = next
	return current, nil
}

func toDTO(s storage.Settings) SettingsDTO {
	slots := s.ActiveSlots
	if slots == nil {
		slots = []string{}
	}
	return SettingsDTO{
		ActiveSlots: slots,
		TrackMacros: s.TrackMacros,
		DailyGoals: GoalsDTO{
			Calories: s.DailyGoals.Calories,
			Protein:  s.DailyGoals.Protein,
			Carbs:    s.DailyGoals.Carbs,
			Fats:     s.DailyGoals.Fats,
		},
		UpdatedAt: s.UpdatedAt,
	}
}
