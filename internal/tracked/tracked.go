// Package tracked records which pets each player has adopted, backed by
// the database with a per-owner in-memory cache.
package tracked

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mistvale/beastmaster/internal/database"
	"github.com/mistvale/beastmaster/internal/logger"
)

// Store errors
var (
	ErrCapacityReached = errors.New("tracked pet limit reached")
	ErrNotFound        = database.ErrTamedPetNotFound
)

// Pet is one tracked-pet record.
type Pet struct {
	Entry     uint32
	Name      string
	DateTamed time.Time
}

// Store wraps the tamed-pet tables with a cache keyed by owner. All
// mutations go through the database first; the owner's cache is dropped
// on success and rebuilt lazily on the next read.
type Store struct {
	db  *database.Database
	max int // per-owner record limit, 0 disables tracking

	mu     sync.Mutex
	owners map[int64]*ownerCache
}

type ownerCache struct {
	mu      sync.Mutex
	loaded  bool
	pets    []Pet
	entries map[uint32]bool
}

// NewStore creates a tracked-pet store with the given per-owner limit.
func NewStore(db *database.Database, maxPerOwner int) *Store {
	return &Store{
		db:     db,
		max:    maxPerOwner,
		owners: make(map[int64]*ownerCache),
	}
}

// Enabled reports whether tracking is active at all.
func (s *Store) Enabled() bool {
	return s.max > 0
}

// owner returns the cache for one owner, creating it if needed. The
// returned cache is locked per owner so two players never serialize on
// each other's database reads.
func (s *Store) owner(ownerID int64) *ownerCache {
	s.mu.Lock()
	defer s.mu.Unlock()
	cache, ok := s.owners[ownerID]
	if !ok {
		cache = &ownerCache{}
		s.owners[ownerID] = cache
	}
	return cache
}

// load populates the cache from the database. Caller holds cache.mu.
func (s *Store) load(ownerID int64, cache *ownerCache) error {
	if cache.loaded {
		return nil
	}
	rows, err := s.db.ListTamedPets(ownerID)
	if err != nil {
		return fmt.Errorf("loading tracked pets for owner %d: %w", ownerID, err)
	}
	cache.pets = make([]Pet, 0, len(rows))
	cache.entries = make(map[uint32]bool, len(rows))
	for _, row := range rows {
		cache.pets = append(cache.pets, Pet{
			Entry:     row.Entry,
			Name:      row.Name,
			DateTamed: row.DateTamed,
		})
		cache.entries[row.Entry] = true
	}
	cache.loaded = true
	return nil
}

// TryTrack records an adoption. It returns true when a new record was
// written, false when the entry was already tracked, and
// ErrCapacityReached when the owner is at the limit.
func (s *Store) TryTrack(ownerID int64, entry uint32, name string) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}

	cache := s.owner(ownerID)
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if err := s.load(ownerID, cache); err != nil {
		return false, err
	}
	if cache.entries[entry] {
		return false, nil
	}
	if len(cache.pets) >= s.max {
		return false, ErrCapacityReached
	}

	added, err := s.db.InsertTamedPet(ownerID, entry, name)
	if err != nil {
		return false, fmt.Errorf("tracking pet %d for owner %d: %w", entry, ownerID, err)
	}
	cache.loaded = false
	return added, nil
}

// List returns the owner's tracked pets, newest first.
func (s *Store) List(ownerID int64) ([]Pet, error) {
	cache := s.owner(ownerID)
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if err := s.load(ownerID, cache); err != nil {
		return nil, err
	}
	pets := make([]Pet, len(cache.pets))
	copy(pets, cache.pets)
	return pets, nil
}

// Count returns how many pets the owner has tracked. A cold cache is
// answered straight from the database without materializing the list.
func (s *Store) Count(ownerID int64) (int, error) {
	cache := s.owner(ownerID)
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if !cache.loaded {
		return s.db.CountTamedPets(ownerID)
	}
	return len(cache.pets), nil
}

// TamedEntries returns the set of catalog entries the owner has tracked.
// A cold cache is answered straight from the database; only the entry
// column is needed to mark browse pages.
func (s *Store) TamedEntries(ownerID int64) (map[uint32]bool, error) {
	cache := s.owner(ownerID)
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if !cache.loaded {
		return s.db.ListTamedEntries(ownerID)
	}
	entries := make(map[uint32]bool, len(cache.entries))
	for entry := range cache.entries {
		entries[entry] = true
	}
	return entries, nil
}

// Name returns the stored custom name of a tracked pet, or ErrNotFound.
// A cold cache is answered straight from the database.
func (s *Store) Name(ownerID int64, entry uint32) (string, error) {
	cache := s.owner(ownerID)
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if !cache.loaded {
		return s.db.GetTamedPetName(ownerID, entry)
	}
	for _, pet := range cache.pets {
		if pet.Entry == entry {
			return pet.Name, nil
		}
	}
	return "", ErrNotFound
}

// Rename updates the stored name of a tracked pet. Name validation is the
// caller's responsibility.
func (s *Store) Rename(ownerID int64, entry uint32, name string) error {
	cache := s.owner(ownerID)
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if err := s.db.RenameTamedPet(ownerID, entry, name); err != nil {
		return err
	}
	cache.loaded = false
	return nil
}

// Delete removes a tracked record. Deleting a record that is not present
// is not an error.
func (s *Store) Delete(ownerID int64, entry uint32) error {
	cache := s.owner(ownerID)
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if err := s.db.DeleteTamedPet(ownerID, entry); err != nil {
		return fmt.Errorf("deleting tracked pet %d for owner %d: %w", entry, ownerID, err)
	}
	cache.loaded = false
	return nil
}

// InvalidateOwner drops the owner's cache, forcing a database reload on
// the next read. Used when the record set changes outside the store.
func (s *Store) InvalidateOwner(ownerID int64) {
	s.mu.Lock()
	cache, ok := s.owners[ownerID]
	s.mu.Unlock()
	if !ok {
		return
	}
	cache.mu.Lock()
	cache.loaded = false
	cache.mu.Unlock()
	logger.Debug("Tracked-pet cache invalidated", "owner", ownerID)
}
