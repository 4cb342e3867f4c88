package offline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreLoadMissingFile(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "board.json"))
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}

	items, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty board, got %d items", len(items))
	}
}

func TestStoreSaveAndLoad(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "board.json"))
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}

	if err := store.Save(DemoItems()); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	items, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(items) != len(DemoItems()) {
		t.Fatalf("expected %d items, got %d", len(DemoItems()), len(items))
	}
	if items[0].Title != "poster-08: monsoon sale" {
		t.Errorf("unexpected first item title %q", items[0].Title)
	}
	if items[0].Client == nil || items[0].Client.FirstName != "Nova" {
		t.Errorf("client not round-tripped: %+v", items[0].Client)
	}
}

func TestStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	if _, err := store.Load(); err == nil {
		t.Error("expected error for corrupt snapshot")
	}
}

func TestStoreUpdateColumn(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "board.json"))
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	if err := store.Save(DemoItems()); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if err := store.UpdateColumn("1", "content_writing"); err != nil {
		t.Fatalf("UpdateColumn() failed: %v", err)
	}

	items, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	for _, item := range items {
		if item.ID == 1 && item.Column != "content_writing" {
			t.Errorf("expected column content_writing, got %q", item.Column)
		}
		if item.ID == 2 && item.Column != "content_writing" {
			t.Errorf("other items should be untouched, item 2 column %q", item.Column)
		}
	}
}

func TestStoreUpdateScheduled(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "board.json"))
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	if err := store.Save(DemoItems()); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if err := store.UpdateScheduled("5", "scheduled", "2026-09-06T17:00:00Z"); err != nil {
		t.Fatalf("UpdateScheduled() failed: %v", err)
	}

	items, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	for _, item := range items {
		if item.ID == 5 {
			if item.Column != "scheduled" {
				t.Errorf("expected column scheduled, got %q", item.Column)
			}
			if item.ScheduledAt != "2026-09-06T17:00:00Z" {
				t.Errorf("expected scheduled_at set, got %q", item.ScheduledAt)
			}
		}
	}
}

func TestStoreUpdateUnknownItem(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "board.json"))
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	if err := store.Save(DemoItems()); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if err := store.UpdateColumn("999", "ready"); err == nil {
		t.Error("expected error for unknown item")
	}
}

func TestNewStoreEmptyPath(t *testing.T) {
	if _, err := NewStore(""); err == nil {
		t.Error("expected error for empty path")
	}
}
