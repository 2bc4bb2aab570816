package storage

import (
	"bytes"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store := NewStorageAt(filepath.Join(t.TempDir(), "history.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store := newTestStore(t)

	payload := []byte(`{"interactions":[]}`)
	if err := store.SaveState(KeyInteractions, payload); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	got, err := store.LoadState(KeyInteractions)
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("expected %s, got %s", payload, got)
	}
}

func TestLoadMissingKey(t *testing.T) {
	store := newTestStore(t)

	got, err := store.LoadState("never-written")
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for a missing key, got %s", got)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveState(KeyPreferences, []byte("first")); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}
	if err := store.SaveState(KeyPreferences, []byte("second")); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	got, err := store.LoadState(KeyPreferences)
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("expected the later write, got %s", got)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store := NewStorageAt(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.SaveState(KeyInteractions, []byte("durable")); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := NewStorageAt(dbPath)
	if err := reopened.Init(); err != nil {
		t.Fatalf("reopen Init failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.LoadState(KeyInteractions)
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if string(got) != "durable" {
		t.Errorf("expected durable, got %s", got)
	}
}

func TestDisabledStoreNoOps(t *testing.T) {
	store := &SQLiteStorage{enabled: false}

	if err := store.Init(); err != nil {
		t.Errorf("disabled Init should succeed, got %v", err)
	}
	if err := store.SaveState(KeyInteractions, []byte("x")); err != nil {
		t.Errorf("disabled SaveState should succeed, got %v", err)
	}
	got, err := store.LoadState(KeyInteractions)
	if err != nil || got != nil {
		t.Errorf("disabled LoadState should return (nil, nil), got (%v, %v)", got, err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("disabled Close should succeed, got %v", err)
	}
}
