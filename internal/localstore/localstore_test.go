package localstore

import (
	"os"
	"path/filepath"
	"testing"
)

type doc struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Kcal  float64 `json:"kcal"`
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	in := doc{Name: "Oatmeal", Count: 3, Kcal: 320}
	if err := store.Save("meals", in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out doc
	found, err := store.Load("meals", &out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatal("expected key to exist after save")
	}
	if out != in {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestLoadMissingKey(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	var out doc
	found, err := store.Load("plans", &out)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Error("expected missing key to report found=false")
	}
}

func TestSaveOverwrites(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := store.Save("settings", doc{Name: "v1"}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.Save("settings", doc{Name: "v2"}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	var out doc
	if _, err := store.Load("settings", &out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.Name != "v2" {
		t.Errorf("expected latest value, got %q", out.Name)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := store.Save("meals", doc{Name: "x"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete("meals"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete("meals"); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}

	var out doc
	if found, _ := store.Load("meals", &out); found {
		t.Error("key still present after delete")
	}
}

func TestInvalidKeyRejected(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := store.Save("../escape", doc{}); err == nil {
		t.Error("path-like key accepted")
	}
	if err := store.Save("", doc{}); err == nil {
		t.Error("empty key accepted")
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	if _, err := Open(dir); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("data directory not created: %v", err)
	}
}
