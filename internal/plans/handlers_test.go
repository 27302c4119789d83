package plans

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kaylahuffman7/Plated-v2/internal/settings"
	"github.com/kaylahuffman7/Plated-v2/internal/storage"
	"github.com/kaylahuffman7/Plated-v2/internal/storage/memory"
	"github.com/kaylahuffman7/Plated-v2/internal/userctx"
)

// The plans handler is exercised against the in-memory storage so the
// tuple upsert and join semantics are the real ones.

func newHandler() (*Handler, *memory.MemoryStorage) {
	store := memory.New()
	service := NewService(store, store, settings.NewService(store))
	return NewHandler(service), store
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

func mustCreateMeal(t *testing.T, store *memory.MemoryStorage, name string, calories float64) storage.Meal {
	t.Helper()
	meal, err := store.CreateMeal(context.Background(), "user1", storage.MealUpsert{
		Name:   name,
		Macros: storage.Macros{Calories: calories},
	})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	return meal
}

func TestHandleAssign_UpsertKeepsID(t *testing.T) {
	handler, store := newHandler()
	first := mustCreateMeal(t, store, "Oatmeal", 320)
	second := mustCreateMeal(t, store, "Eggs", 380)

	body := fmt.Sprintf(`{"week_key":"2026-08-24","day_of_week":"monday","meal_slot":"breakfast","meal_id":"%s"}`, first.ID)
	rec := httptest.NewRecorder()
	handler.HandleAssign(rec, newRequest(http.MethodPost, "/v1/plans/assign", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var created PlanDTO
	json.NewDecoder(rec.Body).Decode(&created)

	body = fmt.Sprintf(`{"week_key":"2026-08-24","day_of_week":"monday","meal_slot":"breakfast","meal_id":"%s"}`, second.ID)
	rec = httptest.NewRecorder()
	handler.HandleAssign(rec, newRequest(http.MethodPost, "/v1/plans/assign", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated PlanDTO
	json.NewDecoder(rec.Body).Decode(&updated)

	if updated.ID != created.ID {
		t.Errorf("re-assignment changed the id: %s != %s", updated.ID, created.ID)
	}
	if updated.MealID != second.ID {
		t.Errorf("meal not swapped: %s", updated.MealID)
	}
}

func TestHandleAssign_Validation(t *testing.T) {
	handler, store := newHandler()
	meal := mustCreateMeal(t, store, "Oatmeal", 320)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"bad week key", `{"week_key":"2026-08-26","day_of_week":"monday","meal_slot":"lunch","meal_id":"` + meal.ID + `"}`, http.StatusBadRequest},
		{"unknown day", `{"day_of_week":"someday","meal_slot":"lunch","meal_id":"` + meal.ID + `"}`, http.StatusBadRequest},
		{"unknown slot", `{"day_of_week":"monday","meal_slot":"brunch","meal_id":"` + meal.ID + `"}`, http.StatusBadRequest},
		{"missing meal id", `{"day_of_week":"monday","meal_slot":"lunch"}`, http.StatusBadRequest},
		{"unknown meal", `{"day_of_week":"monday","meal_slot":"lunch","meal_id":"ghost"}`, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.HandleAssign(rec, newRequest(http.MethodPost, "/v1/plans/assign", tc.body))
			if rec.Code != tc.code {
				t.Errorf("expected %d, got %d: %s", tc.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleList_OrderedByDayThenSlot(t *testing.T) {
	handler, store := newHandler()
	meal := mustCreateMeal(t, store, "Oatmeal", 320)

	for _, cell := range []struct{ day, slot string }{
		{"tuesday", "lunch"},
		{"monday", "dinner"},
		{"monday", "breakfast"},
		{"monday", "snack1"},
	} {
		body := fmt.Sprintf(`{"week_key":"2026-08-24","day_of_week":"%s","meal_slot":"%s","meal_id":"%s"}`, cell.day, cell.slot, meal.ID)
		rec := httptest.NewRecorder()
		handler.HandleAssign(rec, newRequest(http.MethodPost, "/v1/plans/assign", body))
		if rec.Code != http.StatusOK {
			t.Fatalf("assign %s/%s: %d", cell.day, cell.slot, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.HandleList(rec, newRequest(http.MethodGet, "/v1/plans?week_key=2026-08-24", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ListPlansResponse
	json.NewDecoder(rec.Body).Decode(&resp)

	want := []struct{ day, slot string }{
		{"monday", "breakfast"},
		{"monday", "snack1"},
		{"monday", "dinner"},
		{"tuesday", "lunch"},
	}
	if len(resp.Items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(resp.Items))
	}
	for i, w := range want {
		if resp.Items[i].DayOfWeek != w.day || resp.Items[i].MealSlot != w.slot {
			t.Errorf("position %d: expected %s/%s, got %s/%s",
				i, w.day, w.slot, resp.Items[i].DayOfWeek, resp.Items[i].MealSlot)
		}
	}
}

func TestHandleClear_Idempotent(t *testing.T) {
	handler, store := newHandler()
	meal := mustCreateMeal(t, store, "Oatmeal", 320)

	body := fmt.Sprintf(`{"week_key":"2026-08-24","day_of_week":"monday","meal_slot":"lunch","meal_id":"%s"}`, meal.ID)
	rec := httptest.NewRecorder()
	handler.HandleAssign(rec, newRequest(http.MethodPost, "/v1/plans/assign", body))
	var plan PlanDTO
	json.NewDecoder(rec.Body).Decode(&plan)

	for i := 0; i < 2; i++ {
		req := newRequest(http.MethodDelete, "/v1/plans/"+plan.ID, "")
		req.SetPathValue("id", plan.ID)
		rec = httptest.NewRecorder()
		handler.HandleClear(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("clear attempt %d: expected 204, got %d", i+1, rec.Code)
		}
	}
}

func TestHandleDaySummary_EndToEnd(t *testing.T) {
	handler, store := newHandler()

	// Two meals totalling 820 kcal against the default 2000 goal.
	salad := mustCreateMeal(t, store, "Grilled Chicken Salad", 400)
	bowl := mustCreateMeal(t, store, "Smoothie Bowl", 420)

	for _, a := range []struct{ slot, id string }{
		{"lunch", salad.ID},
		{"breakfast", bowl.ID},
	} {
		body := fmt.Sprintf(`{"week_key":"2026-08-24","day_of_week":"monday","meal_slot":"%s","meal_id":"%s"}`, a.slot, a.id)
		rec := httptest.NewRecorder()
		handler.HandleAssign(rec, newRequest(http.MethodPost, "/v1/plans/assign", body))
		if rec.Code != http.StatusOK {
			t.Fatalf("assign: %d", rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.HandleDaySummary(rec, newRequest(http.MethodGet, "/v1/plans/day?day=monday&week_key=2026-08-24", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var dto DaySummaryDTO
	if err := json.NewDecoder(rec.Body).Decode(&dto); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if dto.Totals.Calories != 820 {
		t.Errorf("expected 820 kcal, got %v", dto.Totals.Calories)
	}
	if !dto.HasMacros {
		t.Error("820 kcal should report has_macros")
	}
	if len(dto.Assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(dto.Assignments))
	}
	// Breakfast sorts before lunch.
	if dto.Assignments[0].MealSlot != "breakfast" || dto.Assignments[1].MealSlot != "lunch" {
		t.Errorf("assignments not in slot order: %+v", dto.Assignments)
	}

	if dto.Progress[0].Name != "calories" {
		t.Fatalf("expected calories progress first, got %s", dto.Progress[0].Name)
	}
	if dto.Progress[0].Percent != 41 {
		t.Errorf("expected 41%%, got %d", dto.Progress[0].Percent)
	}
	if dto.Progress[0].Tier != "low" {
		t.Errorf("expected low tier, got %s", dto.Progress[0].Tier)
	}
}

func TestHandleDaySummary_DanglingRefContributesZero(t *testing.T) {
	handler, store := newHandler()
	ctx := context.Background()

	meal := mustCreateMeal(t, store, "Oatmeal", 320)
	keeper := mustCreateMeal(t, store, "Eggs", 380)

	for _, a := range []struct{ slot, id string }{
		{"breakfast", meal.ID},
		{"lunch", keeper.ID},
	} {
		body := fmt.Sprintf(`{"week_key":"2026-08-24","day_of_week":"monday","meal_slot":"%s","meal_id":"%s"}`, a.slot, a.id)
		rec := httptest.NewRecorder()
		handler.HandleAssign(rec, newRequest(http.MethodPost, "/v1/plans/assign", body))
		if rec.Code != http.StatusOK {
			t.Fatalf("assign: %d", rec.Code)
		}
	}

	// Deleting the meal leaves the assignment dangling.
	if err := store.DeleteMeal(ctx, "user1", meal.ID); err != nil {
		t.Fatalf("delete meal: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.HandleDaySummary(rec, newRequest(http.MethodGet, "/v1/plans/day?day=monday&week_key=2026-08-24", ""))

	var dto DaySummaryDTO
	json.NewDecoder(rec.Body).Decode(&dto)

	if dto.Totals.Calories != 380 {
		t.Errorf("dangling ref should contribute zero: got %v kcal", dto.Totals.Calories)
	}
	if len(dto.Assignments) != 2 {
		t.Fatalf("dangling assignment should still be listed, got %d", len(dto.Assignments))
	}
	if dto.Assignments[0].Meal != nil {
		t.Error("dangling assignment should have no resolved meal")
	}
	if dto.Assignments[1].Meal == nil || dto.Assignments[1].Meal.Name != "Eggs" {
		t.Errorf("resolved meal missing: %+v", dto.Assignments[1])
	}
}

func TestHandleDaySummary_UnknownDay(t *testing.T) {
	handler, _ := newHandler()

	rec := httptest.NewRecorder()
	handler.HandleDaySummary(rec, newRequest(http.MethodGet, "/v1/plans/day?day=someday", ""))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
