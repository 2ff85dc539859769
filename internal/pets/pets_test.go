package pets

import (
	"path/filepath"
	"testing"

	"github.com/mistvale/beastmaster/internal/database"
	"github.com/mistvale/beastmaster/internal/gossip"
)

func openTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seed(t *testing.T, db *database.Database, rows []database.TameRow) {
	t.Helper()
	for _, row := range rows {
		if err := db.InsertTame(row); err != nil {
			t.Fatalf("InsertTame(%d): %v", row.Entry, err)
		}
	}
}

func TestLoadPartition(t *testing.T) {
	db := openTestDB(t)
	seed(t, db, []database.TameRow{
		{Entry: 100, Name: "Wolf", Family: 1, Rarity: RarityNormal},
		{Entry: 200, Name: "Devilsaur", Family: 39, Rarity: RarityExotic},
		{Entry: 300, Name: "Broken Tooth", Family: 4, Rarity: RarityNormal},
		{Entry: 400, Name: "King Krush", Family: 39, Rarity: RarityExotic},
	})

	store := NewStore()
	rare := map[uint32]bool{300: true}
	rareExotic := map[uint32]bool{400: true}
	if err := store.Load(db, rare, rareExotic); err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := map[gossip.Category][]uint32{
		gossip.CategoryNormal:     {100},
		gossip.CategoryExotic:     {200},
		gossip.CategoryRare:       {300},
		gossip.CategoryRareExotic: {400},
	}
	for cat, entries := range want {
		bucket := store.Bucket(cat)
		if len(bucket) != len(entries) {
			t.Fatalf("bucket %s: got %d entries, want %d", cat, len(bucket), len(entries))
		}
		for i, entry := range entries {
			if bucket[i].Entry != entry {
				t.Errorf("bucket %s[%d] = %d, want %d", cat, i, bucket[i].Entry, entry)
			}
		}
	}
	if store.Count() != 4 {
		t.Errorf("Count() = %d, want 4", store.Count())
	}
}

func TestLoadOverridePrecedence(t *testing.T) {
	db := openTestDB(t)
	// Exotic by column, but listed in the rare override set.
	seed(t, db, []database.TameRow{
		{Entry: 500, Name: "Loque'nahak", Family: 37, Rarity: RarityExotic},
	})

	store := NewStore()
	rare := map[uint32]bool{500: true}
	rareExotic := map[uint32]bool{500: true}
	if err := store.Load(db, rare, rareExotic); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Rare wins over rare-exotic, and both win over the rarity column.
	if got := store.BucketSize(gossip.CategoryRare); got != 1 {
		t.Errorf("rare bucket size = %d, want 1", got)
	}
	if got := store.BucketSize(gossip.CategoryExotic); got != 0 {
		t.Errorf("exotic bucket size = %d, want 0", got)
	}
	if got := store.BucketSize(gossip.CategoryRareExotic); got != 0 {
		t.Errorf("rare-exotic bucket size = %d, want 0", got)
	}
}

func TestLoadIconSelection(t *testing.T) {
	db := openTestDB(t)
	seed(t, db, []database.TameRow{
		{Entry: 600, Name: "Cat", Family: 2, Rarity: RarityNormal},
		{Entry: 700, Name: "Chimaera", Family: 38, Rarity: RarityExotic},
	})

	store := NewStore()
	if err := store.Load(db, nil, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if info, ok := store.FindByEntry(600); !ok || info.Icon != gossip.IconTrainer {
		t.Errorf("entry 600: got %+v ok=%v, want trainer icon", info, ok)
	}
	if info, ok := store.FindByEntry(700); !ok || info.Icon != gossip.IconVendor {
		t.Errorf("entry 700: got %+v ok=%v, want vendor icon", info, ok)
	}
}

func TestLoadSkipsEntriesBeyondAdoptRange(t *testing.T) {
	db := openTestDB(t)
	seed(t, db, []database.TameRow{
		{Entry: 100, Name: "Wolf", Family: 1, Rarity: RarityNormal},
		{Entry: gossip.MaxAdoptEntry, Name: "Edge", Family: 1, Rarity: RarityNormal},
		{Entry: gossip.MaxAdoptEntry + 1, Name: "Overflow", Family: 1, Rarity: RarityNormal},
	})

	store := NewStore()
	if err := store.Load(db, nil, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, ok := store.FindByEntry(gossip.MaxAdoptEntry + 1); ok {
		t.Error("entry beyond the adopt range survived the load")
	}
	if _, ok := store.FindByEntry(gossip.MaxAdoptEntry); !ok {
		t.Error("entry at the adopt-range bound was skipped")
	}
	if got := store.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
}

func TestEmptyCatalog(t *testing.T) {
	db := openTestDB(t)
	store := NewStore()
	if err := store.Load(db, nil, nil); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !store.Empty() {
		t.Error("Empty() = false on empty catalog")
	}
	if _, ok := store.FindByEntry(1); ok {
		t.Error("FindByEntry on empty catalog returned ok")
	}
	if bucket := store.Bucket(gossip.CategoryNormal); len(bucket) != 0 {
		t.Errorf("Bucket returned %d entries on empty catalog", len(bucket))
	}
}

func TestReloadReplaces(t *testing.T) {
	db := openTestDB(t)
	seed(t, db, []database.TameRow{
		{Entry: 100, Name: "Wolf", Family: 1, Rarity: RarityNormal},
	})

	store := NewStore()
	if err := store.Load(db, nil, nil); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if store.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", store.Count())
	}

	seed(t, db, []database.TameRow{
		{Entry: 200, Name: "Bear", Family: 4, Rarity: RarityNormal},
	})
	// Entry 100 switches buckets on reload once the override set names it.
	if err := store.Load(db, map[uint32]bool{100: true}, nil); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if store.Count() != 2 {
		t.Errorf("Count() after reload = %d, want 2", store.Count())
	}
	if got := store.BucketSize(gossip.CategoryRare); got != 1 {
		t.Errorf("rare bucket size after reload = %d, want 1", got)
	}
	if got := store.BucketSize(gossip.CategoryNormal); got != 1 {
		t.Errorf("normal bucket size after reload = %d, want 1", got)
	}
}
