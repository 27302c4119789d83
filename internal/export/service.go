package export

import (
	"context"
	"fmt"

	"github.com/kaylahuffman7/Plated-v2/internal/blob"
	"github.com/kaylahuffman7/Plated-v2/internal/settings"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
	"github.com/kaylahuffman7/Plated-v2/internal/week"
)

// Service generates weekly plan exports and stores them either in the
// blob store (S3 mode) or inline in storage (local mode).
type Service struct {
	plans      storage.MealPlansStorage
	meals      storage.MealsStorage
	exports    storage.ExportsStorage
	settings   *settings.Service
	blobStore  blob.Store // nil in local mode
	presignTTL int
}

// NewService creates a new export service. blobStore may be nil.
func NewService(
	plans storage.MealPlansStorage,
	meals storage.MealsStorage,
	exports storage.ExportsStorage,
	settingsService *settings.Service,
	blobStore blob.Store,
	presignTTLSeconds int,
) *Service {
	return &Service{
		plans:      plans,
		meals:      meals,
		exports:    exports,
		settings:   settingsService,
		blobStore:  blobStore,
		presignTTL: presignTTLSeconds,
	}
}

// Generate renders one week's plan and stores the artifact.
func (s *Service) Generate(ctx context.Context, ownerUserID string, req ExportRequest) (ExportDTO, error) {
	if err := req.Validate(); err != nil {
		return ExportDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	weekKey := req.WeekKey
	if weekKey == "" {
		weekKey = week.CurrentKey()
	}

	plans, err := s.plans.ListPlans(ctx, ownerUserID, weekKey)
	if err != nil {
		return ExportDTO{}, err
	}

	allMeals, err := s.meals.ListMeals(ctx, ownerUserID)
	if err != nil {
		return ExportDTO{}, err
	}
	catalog := make(map[string]storage.Meal, len(allMeals))
	for _, meal := range allMeals {
		catalog[meal.ID] = meal
	}

	cfg, err := s.settings.GetOrDefault(ctx, ownerUserID)
	if err != nil {
		return ExportDTO{}, err
	}

	grid := buildGrid(weekKey, cfg.ActiveSlots, plans, catalog)

	var data []byte
	if req.Format == FormatPDF {
		data, err = renderPDF(grid)
	} else {
		data, err = renderCSV(grid)
	}
	if err != nil {
		return ExportDTO{}, fmt.Errorf("failed to generate %s export: %w", req.Format, err)
	}

	meta := storage.ExportMeta{
		OwnerUserID: ownerUserID,
		WeekKey:     weekKey,
		Format:      req.Format,
		SizeBytes:   int64(len(data)),
		Status:      StatusReady,
	}

	if s.blobStore != nil {
		key := fmt.Sprintf("exports/%s/%s.%s", ownerUserID, weekKey, req.Format)
		if _, err := s.blobStore.PutObject(ctx, key, data, contentType(req.Format)); err != nil {
			return ExportDTO{}, fmt.Errorf("failed to store export: %w", err)
		}
		meta.ObjectKey = &key
	} else {
		meta.Data = data
	}

	if err := s.exports.CreateExport(ctx, &meta); err != nil {
		return ExportDTO{}, err
	}

	dto := ExportDTO{
		ID:        meta.ID,
		WeekKey:   meta.WeekKey,
		Format:    meta.Format,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		CreatedAt: meta.CreatedAt,
	}

	if s.blobStore != nil && meta.ObjectKey != nil {
		url, err := s.blobStore.PresignGet(ctx, *meta.ObjectKey, s.presignTTL)
		if err == nil {
			dto.DownloadURL = url
		}
	}

	return dto, nil
}

// Fetch returns a stored export's bytes with its content type and a
// suggested file name.
func (s *Service) Fetch(ctx context.Context, ownerUserID, id string) ([]byte, string, string, error) {
	meta, err := s.exports.GetExport(ctx, ownerUserID, id)
	if err != nil {
		return nil, "", "", err
	}

	data := meta.Data
	if meta.ObjectKey != nil {
		if s.blobStore == nil {
			return nil, "", "", fmt.Errorf("%w: export stored in object storage but no blob store configured", storage.ErrUnavailable)
		}
		data, err = s.blobStore.GetObject(ctx, *meta.ObjectKey)
		if err != nil {
			return nil, "", "", fmt.Errorf("%w: fetch export: %v", storage.ErrUnavailable, err)
		}
	}

	return data, contentType(meta.Format), fileName(meta.WeekKey, meta.Format), nil
}
