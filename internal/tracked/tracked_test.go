package tracked

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/mistvale/beastmaster/internal/database"
)

func newTestStore(t *testing.T, max int) *Store {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db, max)
}

func TestTryTrack(t *testing.T) {
	store := newTestStore(t, 20)

	added, err := store.TryTrack(1, 100, "Wolf")
	if err != nil {
		t.Fatalf("TryTrack: %v", err)
	}
	if !added {
		t.Error("first TryTrack returned added=false")
	}

	// Same entry again is a no-op, not an error.
	added, err = store.TryTrack(1, 100, "Wolf")
	if err != nil {
		t.Fatalf("repeat TryTrack: %v", err)
	}
	if added {
		t.Error("repeat TryTrack returned added=true")
	}

	count, err := store.Count(1)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("Count = %d, want 1", count)
	}
}

func TestTryTrackCapacity(t *testing.T) {
	store := newTestStore(t, 2)

	for _, entry := range []uint32{100, 200} {
		if _, err := store.TryTrack(1, entry, "Pet"); err != nil {
			t.Fatalf("TryTrack(%d): %v", entry, err)
		}
	}

	if _, err := store.TryTrack(1, 300, "Pet"); !errors.Is(err, ErrCapacityReached) {
		t.Errorf("TryTrack over capacity: got %v, want ErrCapacityReached", err)
	}

	// An already-tracked entry is still a no-op at capacity.
	added, err := store.TryTrack(1, 100, "Pet")
	if err != nil {
		t.Fatalf("TryTrack existing at capacity: %v", err)
	}
	if added {
		t.Error("TryTrack existing at capacity returned added=true")
	}

	// Another owner has their own allowance.
	if _, err := store.TryTrack(2, 300, "Pet"); err != nil {
		t.Errorf("TryTrack for second owner: %v", err)
	}
}

func TestTrackingDisabled(t *testing.T) {
	store := newTestStore(t, 0)
	if store.Enabled() {
		t.Error("Enabled() = true with max 0")
	}
	added, err := store.TryTrack(1, 100, "Wolf")
	if err != nil {
		t.Fatalf("TryTrack: %v", err)
	}
	if added {
		t.Error("TryTrack recorded a pet while tracking is disabled")
	}
}

func TestColdCacheReads(t *testing.T) {
	store := newTestStore(t, 20)
	if _, err := store.TryTrack(1, 100, "Wolf"); err != nil {
		t.Fatalf("TryTrack: %v", err)
	}
	if _, err := store.TryTrack(1, 200, "Bear"); err != nil {
		t.Fatalf("TryTrack: %v", err)
	}

	// A second store over the same database starts with cold caches;
	// the read paths must answer from the rows, not the cache.
	cold := NewStore(store.db, 20)

	count, err := cold.Count(1)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}

	entries, err := cold.TamedEntries(1)
	if err != nil {
		t.Fatalf("TamedEntries: %v", err)
	}
	if !entries[100] || !entries[200] || len(entries) != 2 {
		t.Errorf("TamedEntries = %v, want {100, 200}", entries)
	}

	name, err := cold.Name(1, 200)
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name != "Bear" {
		t.Errorf("Name = %q, want %q", name, "Bear")
	}
	if _, err := cold.Name(1, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Name of untracked entry: got %v, want ErrNotFound", err)
	}
}

func TestRename(t *testing.T) {
	store := newTestStore(t, 20)
	if _, err := store.TryTrack(1, 100, "Wolf"); err != nil {
		t.Fatalf("TryTrack: %v", err)
	}

	if err := store.Rename(1, 100, "Fang"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	name, err := store.Name(1, 100)
	if err != nil {
		t.Fatalf("Name: %v", err)
	}
	if name != "Fang" {
		t.Errorf("name after rename = %q, want %q", name, "Fang")
	}

	if err := store.Rename(1, 999, "Ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Rename of untracked entry: got %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t, 20)
	for _, entry := range []uint32{100, 200} {
		if _, err := store.TryTrack(1, entry, "Pet"); err != nil {
			t.Fatalf("TryTrack(%d): %v", entry, err)
		}
	}

	if err := store.Delete(1, 100); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	pets, err := store.List(1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pets) != 1 || pets[0].Entry != 200 {
		t.Errorf("List after delete = %+v, want single entry 200", pets)
	}

	// Deleted entry frees its capacity slot.
	entries, err := store.TamedEntries(1)
	if err != nil {
		t.Fatalf("TamedEntries: %v", err)
	}
	if entries[100] || !entries[200] {
		t.Errorf("TamedEntries after delete = %v", entries)
	}

	if err := store.Delete(1, 100); err != nil {
		t.Errorf("repeat Delete: %v", err)
	}
}

func TestListScopedToOwner(t *testing.T) {
	store := newTestStore(t, 20)
	if _, err := store.TryTrack(1, 100, "Wolf"); err != nil {
		t.Fatalf("TryTrack owner 1: %v", err)
	}
	if _, err := store.TryTrack(2, 200, "Bear"); err != nil {
		t.Fatalf("TryTrack owner 2: %v", err)
	}

	pets, err := store.List(1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pets) != 1 || pets[0].Entry != 100 {
		t.Errorf("owner 1 list = %+v, want single entry 100", pets)
	}
}

func TestInvalidateOwner(t *testing.T) {
	store := newTestStore(t, 20)
	if _, err := store.TryTrack(1, 100, "Wolf"); err != nil {
		t.Fatalf("TryTrack: %v", err)
	}
	if _, err := store.List(1); err != nil {
		t.Fatalf("List: %v", err)
	}

	// Write behind the store's back; the cache is now stale.
	if err := store.db.DeleteTamedPet(1, 100); err != nil {
		t.Fatalf("DeleteTamedPet: %v", err)
	}
	store.InvalidateOwner(1)

	pets, err := store.List(1)
	if err != nil {
		t.Fatalf("List after invalidate: %v", err)
	}
	if len(pets) != 0 {
		t.Errorf("List after invalidate = %+v, want empty", pets)
	}
}
