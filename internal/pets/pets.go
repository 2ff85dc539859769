// Package pets holds the in-memory catalog of adoptable creatures,
// partitioned into the four browsing buckets.
package pets

import (
	"sync"

	"github.com/mistvale/beastmaster/internal/database"
	"github.com/mistvale/beastmaster/internal/gossip"
	"github.com/mistvale/beastmaster/internal/logger"
)

// PetInfo is one catalog entry. Immutable after load; the whole catalog
// is replaced wholesale on reload.
type PetInfo struct {
	Entry    uint32
	Name     string
	Family   uint32
	Rarity   string
	Category gossip.Category
	Icon     gossip.Icon
}

// Rarity values stored in the catalog table.
const (
	RarityNormal = "normal"
	RarityExotic = "exotic"
)

// trainerIconFamilies are the creature families rendered with the trainer
// icon; everything else gets the vendor icon.
var trainerIconFamilies = map[uint32]bool{
	1: true, 2: true, 3: true, 4: true, 7: true, 8: true, 9: true,
	10: true, 15: true, 20: true, 21: true, 24: true, 25: true,
	27: true, 30: true, 31: true, 34: true,
}

// Store holds the loaded catalog. Reads take a shared lock; Load holds the
// write lock for the whole rebuild so readers never observe a partial
// catalog.
type Store struct {
	mu      sync.RWMutex
	all     []PetInfo
	byEntry map[uint32]PetInfo
	buckets map[gossip.Category][]PetInfo
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{
		byEntry: make(map[uint32]PetInfo),
		buckets: make(map[gossip.Category][]PetInfo),
	}
}

// Load reads the catalog from the database and atomically replaces the
// in-memory state. The curated override sets take precedence over the
// intrinsic rarity column. A failed query leaves the catalog empty;
// subsequent menu opens degrade to a "no pets available" message.
// Entries too large to encode an adopt action are skipped.
func (s *Store) Load(db *database.Database, rare, rareExotic map[uint32]bool) error {
	rows, err := db.QueryTames()
	if err != nil {
		logger.Error("Could not load pet catalog", "error", err)
		s.replace(nil, nil, nil)
		return err
	}

	all := make([]PetInfo, 0, len(rows))
	byEntry := make(map[uint32]PetInfo, len(rows))
	buckets := make(map[gossip.Category][]PetInfo)

	for _, row := range rows {
		if row.Entry > gossip.MaxAdoptEntry {
			logger.Warning("Skipping pet entry with no adopt-code headroom",
				"entry", row.Entry, "max", gossip.MaxAdoptEntry)
			continue
		}
		info := PetInfo{
			Entry:  row.Entry,
			Name:   row.Name,
			Family: row.Family,
			Rarity: row.Rarity,
			Icon:   gossip.IconVendor,
		}
		if trainerIconFamilies[row.Family] {
			info.Icon = gossip.IconTrainer
		}
		info.Category = categorize(info, rare, rareExotic)

		all = append(all, info)
		byEntry[info.Entry] = info
		buckets[info.Category] = append(buckets[info.Category], info)
	}

	s.replace(all, byEntry, buckets)

	logger.Info("Pet catalog loaded",
		"total", len(all),
		"normal", len(buckets[gossip.CategoryNormal]),
		"exotic", len(buckets[gossip.CategoryExotic]),
		"rare", len(buckets[gossip.CategoryRare]),
		"rare_exotic", len(buckets[gossip.CategoryRareExotic]))

	if len(all) == 0 {
		logger.Error("No pets loaded; check the beastmaster_tames table")
	}

	s.checkActionHeadroom()
	return nil
}

// categorize picks exactly one bucket for an entry. Override sets win over
// the rarity column, with rare before rare-exotic.
func categorize(info PetInfo, rare, rareExotic map[uint32]bool) gossip.Category {
	switch {
	case rare[info.Entry]:
		return gossip.CategoryRare
	case rareExotic[info.Entry]:
		return gossip.CategoryRareExotic
	case info.Rarity == RarityExotic:
		return gossip.CategoryExotic
	default:
		return gossip.CategoryNormal
	}
}

// replace swaps in a fully built catalog under the write lock.
func (s *Store) replace(all []PetInfo, byEntry map[uint32]PetInfo, buckets map[gossip.Category][]PetInfo) {
	if byEntry == nil {
		byEntry = make(map[uint32]PetInfo)
	}
	if buckets == nil {
		buckets = make(map[gossip.Category][]PetInfo)
	}
	s.mu.Lock()
	s.all = all
	s.byEntry = byEntry
	s.buckets = buckets
	s.mu.Unlock()
}

// checkActionHeadroom warns when a bucket needs more pages than its
// action-code window holds. Page arithmetic past the window would bleed
// into the next range.
func (s *Store) checkActionHeadroom() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, cat := range gossip.Categories {
		if pages := gossip.MaxPage(len(s.buckets[cat]), gossip.PageSize); pages > gossip.BrowsePageWindow {
			logger.Warning("Bucket exceeds its action-code page window",
				"category", cat.String(), "pages", pages, "window", gossip.BrowsePageWindow)
		}
	}
}

// FindByEntry looks up a catalog entry.
func (s *Store) FindByEntry(entry uint32) (PetInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.byEntry[entry]
	return info, ok
}

// Bucket returns a copy of one category's entries, in load order.
func (s *Store) Bucket(cat gossip.Category) []PetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket := make([]PetInfo, len(s.buckets[cat]))
	copy(bucket, s.buckets[cat])
	return bucket
}

// BucketSize returns the number of entries in one category.
func (s *Store) BucketSize(cat gossip.Category) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets[cat])
}

// Count returns the total number of loaded entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.all)
}

// Empty reports whether the catalog has no entries.
func (s *Store) Empty() bool {
	return s.Count() == 0
}
