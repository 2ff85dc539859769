package beastmaster

import (
	"sync"
	"time"
)

// session is the transient per-player protocol state: the slot map for
// the currently rendered tracked-pets page, the pending-rename flag and
// the summon-command cooldown stamp. Dropped on disconnect.
type session struct {
	mu sync.Mutex

	// slotMap maps page-local indices on the open tracked-pets page to
	// creature entries. Overwritten on every render of that menu.
	slotMap     map[int]uint32
	trackedPage int

	renameArmed bool
	renameEntry uint32

	lastNpcSummon time.Time
}

type sessionTable struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

func newSessionTable() *sessionTable {
	return &sessionTable{sessions: make(map[int64]*session)}
}

// get returns the session for a player, creating it on first use.
func (t *sessionTable) get(playerID int64) *session {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[playerID]
	if !ok {
		s = &session{}
		t.sessions[playerID] = s
	}
	return s
}

// drop discards a player's session.
func (t *sessionTable) drop(playerID int64) {
	t.mu.Lock()
	delete(t.sessions, playerID)
	t.mu.Unlock()
}

// setSlotMap records the slot map for a freshly rendered tracked page.
func (s *session) setSlotMap(page int, slots map[int]uint32) {
	s.mu.Lock()
	s.trackedPage = page
	s.slotMap = slots
	s.mu.Unlock()
}

// slotEntry resolves a page-local slot against the current slot map.
func (s *session) slotEntry(slot int) (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slotMap == nil {
		return 0, false
	}
	entry, ok := s.slotMap[slot]
	return entry, ok
}

// currentTrackedPage returns the last rendered tracked-menu page.
func (s *session) currentTrackedPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trackedPage < 1 {
		return 1
	}
	return s.trackedPage
}

// armRename points the pending-rename flag at an entry. A second arm
// simply retargets it.
func (s *session) armRename(entry uint32) {
	s.mu.Lock()
	s.renameArmed = true
	s.renameEntry = entry
	s.mu.Unlock()
}

// pendingRename returns the armed rename target, if any.
func (s *session) pendingRename() (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renameEntry, s.renameArmed
}

// clearRename disarms the pending rename.
func (s *session) clearRename() {
	s.mu.Lock()
	s.renameArmed = false
	s.renameEntry = 0
	s.mu.Unlock()
}

// clearRenameFor disarms the pending rename only if it targets entry.
func (s *session) clearRenameFor(entry uint32) {
	s.mu.Lock()
	if s.renameArmed && s.renameEntry == entry {
		s.renameArmed = false
		s.renameEntry = 0
	}
	s.mu.Unlock()
}

// npcSummonRemaining returns the time left on the summon cooldown; when
// none remains the stamp is refreshed and zero is returned.
func (s *session) npcSummonRemaining(cooldown time.Duration, now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.lastNpcSummon.IsZero() {
		if remaining := cooldown - now.Sub(s.lastNpcSummon); remaining > 0 {
			return remaining
		}
	}
	s.lastNpcSummon = now
	return 0
}
