package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/kaylahuffman7/Plated-v2/internal/storage"
	"github.com/kaylahuffman7/Plated-v2/internal/userctx"
)

type mockSettingsStorage struct {
	getFunc    func(ctx context.Context, ownerUserID string) (storage.Settings, bool, error)
	upsertFunc func(ctx context.Context, ownerUserID string, s storage.Settings) (storage.Settings, error)
}

func (m *mockSettingsStorage) GetSettings(ctx context.Context, ownerUserID string) (storage.Settings, bool, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, ownerUserID)
	}
	return storage.Settings{}, false, nil
}

func (m *mockSettingsStorage) UpsertSettings(ctx context.Context, ownerUserID string, s storage.Settings) (storage.Settings, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, ownerUserID, s)
	}
	s.OwnerUserID = ownerUserID
	return s, nil
}

func newRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(userctx.WithUserID(req.Context(), "user1"))
}

func TestHandleGet_DefaultsWhenUnsaved(t *testing.T) {
	handler := NewHandler(NewService(&mockSettingsStorage{}))

	rec := httptest.NewRecorder()
	handler.HandleGet(rec, newRequest(http.MethodGet, "/v1/settings", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var dto SettingsDTO
	if err := json.NewDecoder(rec.Body).Decode(&dto); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !dto.IsDefault {
		t.Error("expected is_default for an unsaved user")
	}
	if !reflect.DeepEqual(dto.ActiveSlots, DefaultActiveSlots) {
		t.Errorf("unexpected default slots: %v", dto.ActiveSlots)
	}
	if dto.DailyGoals.Calories != 2000 || dto.DailyGoals.Protein != 150 {
		t.Errorf("unexpected default goals: %+v", dto.DailyGoals)
	}
	if dto.TrackMacros {
		t.Error("macro tracking should default off until the user opts in")
	}
}

func TestHandleSave_SortsSlots(t *testing.T) {
	var saved storage.Settings
	store := &mockSettingsStorage{
		upsertFunc: func(ctx context.Context, ownerUserID string, s storage.Settings) (storage.Settings, error) {
			saved = s
			return s, nil
		},
	}
	handler := NewHandler(NewService(store))

	body := `{"active_slots":["dinner","breakfast","snack2"],"track_macros":true,"daily_goals":{"calories":1800,"protein":120,"carbs":200,"fats":60}}`
	rec := httptest.NewRecorder()
	handler.HandleSave(rec, newRequest(http.MethodPut, "/v1/settings", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !reflect.DeepEqual(saved.ActiveSlots, []string{"breakfast", "snack2", "dinner"}) {
		t.Errorf("slots not canonically ordered: %v", saved.ActiveSlots)
	}
	if saved.DailyGoals.Calories != 1800 {
		t.Errorf("goals not persisted: %+v", saved.DailyGoals)
	}
}

func TestHandleSave_Validation(t *testing.T) {
	handler := NewHandler(NewService(&mockSettingsStorage{}))

	cases := []struct {
		name string
		body string
	}{
		{"empty slots", `{"active_slots":[],"daily_goals":{"calories":2000}}`},
		{"unknown slot", `{"active_slots":["brunch"],"daily_goals":{"calories":2000}}`},
		{"duplicate slot", `{"active_slots":["lunch","lunch"],"daily_goals":{"calories":2000}}`},
		{"negative goal", `{"active_slots":["lunch"],"daily_goals":{"calories":-10}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.HandleSave(rec, newRequest(http.MethodPut, "/v1/settings", tc.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleToggleSlot_PreviewOnly(t *testing.T) {
	upserts := 0
	store := &mockSettingsStorage{
		getFunc: func(ctx context.Context, ownerUserID string) (storage.Settings, bool, error) {
			return storage.Settings{
				ActiveSlots: []string{"breakfast", "lunch", "dinner"},
				TrackMacros: true,
				DailyGoals:  storage.DailyGoals{Calories: 2000, Protein: 150, Carbs: 250, Fats: 65},
			}, true, nil
		},
		upsertFunc: func(ctx context.Context, ownerUserID string, s storage.Settings) (storage.Settings, error) {
			upserts++
			return s, nil
		},
	}
	handler := NewHandler(NewService(store))

	// Turning snack3 on lands it in canonical position.
	rec := httptest.NewRecorder()
	handler.HandleToggleSlot(rec, newRequest(http.MethodPost, "/v1/settings/toggle-slot", `{"slot":"snack3"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var dto SettingsDTO
	if err := json.NewDecoder(rec.Body).Decode(&dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(dto.ActiveSlots, []string{"breakfast", "lunch", "dinner", "snack3"}) {
		t.Errorf("unexpected slots after enable: %v", dto.ActiveSlots)
	}

	// Toggling an active slot removes it from the preview.
	rec = httptest.NewRecorder()
	handler.HandleToggleSlot(rec, newRequest(http.MethodPost, "/v1/settings/toggle-slot", `{"slot":"lunch"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	dto = SettingsDTO{}
	json.NewDecoder(rec.Body).Decode(&dto)
	if !reflect.DeepEqual(dto.ActiveSlots, []string{"breakfast", "dinner"}) {
		t.Errorf("unexpected slots after disable: %v", dto.ActiveSlots)
	}

	// Toggle is a preview: the stored document is never written.
	if upserts != 0 {
		t.Errorf("toggle persisted %d times, expected none", upserts)
	}
}

func TestHandleToggleSlot_LastSlotRejected(t *testing.T) {
	store := &mockSettingsStorage{
		getFunc: func(ctx context.Context, ownerUserID string) (storage.Settings, bool, error) {
			return storage.Settings{ActiveSlots: []string{"lunch"}, TrackMacros: true}, true, nil
		},
	}
	handler := NewHandler(NewService(store))

	rec := httptest.NewRecorder()
	handler.HandleToggleSlot(rec, newRequest(http.MethodPost, "/v1/settings/toggle-slot", `{"slot":"lunch"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("disabling the last slot should be 400, got %d", rec.Code)
	}
}

func TestHandleGet_BackendUnavailable(t *testing.T) {
	store := &mockSettingsStorage{
		getFunc: func(ctx context.Context, ownerUserID string) (storage.Settings, bool, error) {
			return storage.Settings{}, false, storage.ErrUnavailable
		},
	}
	handler := NewHandler(NewService(store))

	rec := httptest.NewRecorder()
	handler.HandleGet(rec, newRequest(http.MethodGet, "/v1/settings", ""))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}
