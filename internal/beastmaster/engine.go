// Package beastmaster is the menu engine: it renders the pet catalog and
// tracked-pet menus, decodes incoming action codes, and applies the
// adoption and rename rules.
package beastmaster

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mistvale/beastmaster/internal/config"
	"github.com/mistvale/beastmaster/internal/database"
	"github.com/mistvale/beastmaster/internal/gossip"
	"github.com/mistvale/beastmaster/internal/logger"
	"github.com/mistvale/beastmaster/internal/petname"
	"github.com/mistvale/beastmaster/internal/pets"
	"github.com/mistvale/beastmaster/internal/tracked"
)

// Engine holds the module's runtime state and serves every player
// interaction. Construct one with New and share it; all methods are safe
// for concurrent use across players.
type Engine struct {
	db       *database.Database
	sender   Sender
	catalog  *pets.Store
	sessions *sessionTable

	mu      sync.RWMutex
	cfg     *config.Config
	tracked *tracked.Store
	names   *petname.Filter
}

// New builds an engine over the given database and session layer and
// performs the initial catalog load.
func New(cfg *config.Config, db *database.Database, sender Sender) *Engine {
	e := &Engine{
		db:       db,
		sender:   sender,
		catalog:  pets.NewStore(),
		sessions: newSessionTable(),
	}
	e.applyConfig(cfg)
	if err := e.catalog.Load(db, cfg.RarePetEntries(), cfg.RareExoticPetEntries()); err != nil {
		logger.Error("Initial catalog load failed", "error", err)
	}
	return e
}

// applyConfig installs a config snapshot and the stores derived from it.
func (e *Engine) applyConfig(cfg *config.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
	e.tracked = tracked.NewStore(e.db, effectiveTrackedCap(cfg))
	e.names = petname.NewFilter(cfg.ProfanityListPath, cfg.ProfanityFilter)
}

// effectiveTrackedCap converts the config into the store's per-owner
// limit. The slot-code address space bounds it from above.
func effectiveTrackedCap(cfg *config.Config) int {
	if !cfg.TrackTamedPets {
		return 0
	}
	limit := int(cfg.MaxTrackedPets)
	if limit <= 0 || limit > int(gossip.TrackedCapacity) {
		limit = int(gossip.TrackedCapacity)
	}
	return limit
}

// Reload swaps in a new config and reloads the catalog. Used by the
// privileged reload command.
func (e *Engine) Reload(cfg *config.Config) error {
	e.applyConfig(cfg)
	logger.Audit("Beastmaster configuration reloaded")
	return e.catalog.Load(e.db, cfg.RarePetEntries(), cfg.RareExoticPetEntries())
}

func (e *Engine) config() *config.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

func (e *Engine) trackedStore() *tracked.Store {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tracked
}

func (e *Engine) nameFilter() *petname.Filter {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.names
}

// Catalog exposes the catalog store for command and tooling surfaces.
func (e *Engine) Catalog() *pets.Store {
	return e.catalog
}

// Config returns the current configuration snapshot.
func (e *Engine) Config() *config.Config {
	return e.config()
}

// EndSession drops a player's transient state on disconnect. The tracked
// cache is invalidated too, so a reconnect rereads records the host may
// have changed while the player was away.
func (e *Engine) EndSession(playerID int64) {
	e.sessions.drop(playerID)
	e.trackedStore().InvalidateOwner(playerID)
}

// TryNpcSummon checks and refreshes the summon-command cooldown for a
// player. A zero return means the summon may proceed.
func (e *Engine) TryNpcSummon(playerID int64) time.Duration {
	cooldown := time.Duration(e.config().SummonCooldown) * time.Second
	if cooldown <= 0 {
		return 0
	}
	return e.sessions.get(playerID).npcSummonRemaining(cooldown, time.Now())
}

// ShowMainMenu runs the eligibility checks and renders the main menu.
// The first failing check whispers a refusal and no menu is shown.
func (e *Engine) ShowMainMenu(p Player) {
	cfg := e.config()
	if !cfg.Enabled {
		return
	}

	if e.catalog.Empty() {
		// One lazy reload in case the initial load ran before the
		// catalog table was seeded.
		e.catalog.Load(e.db, cfg.RarePetEntries(), cfg.RareExoticPetEntries())
	}
	if e.catalog.Empty() {
		p.Whisper("No pets available. Contact an administrator.")
		e.sender.CloseMenu(p)
		return
	}

	if cfg.HunterOnly && p.Class() != config.ClassHunter {
		p.Whisper("I am sorry, but pets are for hunters only.")
		e.sender.CloseMenu(p)
		return
	}
	if !cfg.HunterOnly && !cfg.ClassAllowed(p.Class()) {
		p.Whisper("Your class is not allowed to adopt pets.")
		e.sender.CloseMenu(p)
		return
	}
	if !cfg.RaceAllowed(p.Race()) {
		p.Whisper("Your race is not allowed to adopt pets.")
		e.sender.CloseMenu(p)
		return
	}
	if cfg.MinLevel != 0 && p.Level() < cfg.MinLevel {
		p.Whisper(fmt.Sprintf("Sorry %s, but you must reach level %d before adopting a pet.", p.Name(), cfg.MinLevel))
		e.sender.CloseMenu(p)
		return
	}
	if cfg.MaxLevel != 0 && p.Level() > cfg.MaxLevel {
		p.Whisper(fmt.Sprintf("Sorry %s, but you must be level %d or lower to adopt a pet.", p.Name(), cfg.MaxLevel))
		e.sender.CloseMenu(p)
		return
	}

	menu := gossip.Menu{TextID: gossip.MenuTextHello}
	menu.AddItem(gossip.IconBattle, "Browse Pets", gossip.BrowseAction(gossip.CategoryNormal, 1))
	menu.AddItem(gossip.IconBattle, "Browse Rare Pets", gossip.BrowseAction(gossip.CategoryRare, 1))

	if e.exoticAccess(cfg, p) {
		menu.AddItem(gossip.IconBattle, "Browse Exotic Pets", gossip.BrowseAction(gossip.CategoryExotic, 1))
		menu.AddItem(gossip.IconBattle, "Browse Rare Exotic Pets", gossip.BrowseAction(gossip.CategoryRareExotic, 1))
	}

	if p.Class() != config.ClassHunter && p.HasSpell(SpellCallPet) {
		menu.AddItem(gossip.IconBattle, "Unlearn Hunter Abilities", gossip.ActionRemoveSkills)
	}
	if cfg.TrackTamedPets {
		menu.AddItem(gossip.IconChat, "My Tamed Pets", gossip.TrackedMenuAction(1))
	}
	if p.Class() == config.ClassHunter {
		menu.AddItem(gossip.IconTaxi, "Visit Stable", gossip.ActionStable)
	}
	menu.AddItem(gossip.IconMoneyBag, "Buy Pet Food", gossip.ActionVendor)

	e.sender.SendMenu(p, menu)
	e.sender.PlaySound(p, SoundBeastmasterHowl)
}

// exoticAccess resolves the interaction of the exotic-pet flags into one
// answer for this player. Adoption re-checks the talent; this only
// controls menu visibility and browsing. Hunters face the extra talent
// requirement: the Beast Mastery spell alone (taught on first exotic
// browse) is not enough when the talent is required.
func (e *Engine) exoticAccess(cfg *config.Config, p Player) bool {
	if !cfg.AllowExotic && !p.HasSpell(SpellBeastMastery) && !p.HasTalent(SpellBeastMastery) {
		return false
	}
	if p.Class() != config.ClassHunter {
		return true
	}
	return !cfg.HunterBeastMasteryRequired || p.HasTalent(SpellBeastMastery)
}

// HandleSelect routes one decoded action code. ActionNone marks
// placeholder rows and is ignored; other codes outside every range close
// the menu.
func (e *Engine) HandleSelect(p Player, code uint32) {
	if !e.config().Enabled {
		return
	}

	intent := gossip.Decode(code)
	switch intent.Kind {
	case gossip.KindNone:
		if code == gossip.ActionNone {
			return
		}
		e.sender.CloseMenu(p)
	case gossip.KindMainMenu:
		e.ShowMainMenu(p)
	case gossip.KindBrowse:
		e.showBrowsePage(p, intent.Category, intent.Page)
	case gossip.KindAdopt:
		e.adopt(p, intent.Entry)
	case gossip.KindTrackedMenu:
		e.showTrackedMenu(p, intent.Page)
	case gossip.KindTrackedSummon:
		e.trackedSummon(p, intent.Slot)
	case gossip.KindTrackedRename:
		e.trackedRename(p, intent.Slot)
	case gossip.KindTrackedDelete:
		e.trackedDelete(p, intent.Slot)
	case gossip.KindRemoveSkills:
		e.removeSkills(p)
	case gossip.KindStable:
		e.sender.ShowStable(p)
	case gossip.KindVendor:
		e.sender.ShowVendor(p)
	default:
		e.sender.CloseMenu(p)
	}
}

// showBrowsePage renders one page of a catalog bucket. Opening an exotic
// bucket teaches Beast Mastery on first browse; adoption re-checks it.
func (e *Engine) showBrowsePage(p Player, cat gossip.Category, page int) {
	if cat.IsExotic() && !p.HasSpell(SpellBeastMastery) && !p.HasTalent(SpellBeastMastery) {
		p.LearnSpell(SpellBeastMastery)
		p.Whisper(fmt.Sprintf("I have taught you the art of Beast Mastery, %s.", p.Name()))
	}

	bucket := e.catalog.Bucket(cat)
	maxPage := gossip.MaxPage(len(bucket), gossip.PageSize)
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	menu := gossip.Menu{TextID: gossip.MenuTextBrowse}
	menu.AddItem(gossip.IconTalk, "Back..", gossip.ActionMainMenu)
	if page > 1 {
		menu.AddItem(gossip.IconInteract, "Previous..", gossip.BrowseAction(cat, page-1))
	}
	if page < maxPage {
		menu.AddItem(gossip.IconInteract, "Next..", gossip.BrowseAction(cat, page+1))
	}

	tamed := e.tamedEntries(p)
	start := (page - 1) * gossip.PageSize
	end := start + gossip.PageSize
	if end > len(bucket) {
		end = len(bucket)
	}
	for _, info := range bucket[start:end] {
		if tamed[info.Entry] {
			menu.AddItem(gossip.IconChat, info.Name+" (Already Tamed)", gossip.ActionNone)
			continue
		}
		menu.AddItem(info.Icon, info.Name, gossip.AdoptAction(info.Entry))
	}

	e.sender.SendMenu(p, menu)
}

// tamedEntries returns the player's tamed-entry set, empty when tracking
// is off or the store read fails.
func (e *Engine) tamedEntries(p Player) map[uint32]bool {
	store := e.trackedStore()
	if !store.Enabled() {
		return nil
	}
	entries, err := store.TamedEntries(p.ID())
	if err != nil {
		logger.Error("Could not read tamed entries", "player", p.ID(), "error", err)
		return nil
	}
	return entries
}

// adopt runs the adoption gates and instantiates the pet.
func (e *Engine) adopt(p Player, entry uint32) {
	cfg := e.config()
	info, found := e.catalog.FindByEntry(entry)
	if !found {
		p.Whisper("That pet is no longer available.")
		e.sender.CloseMenu(p)
		return
	}

	if p.HasLivePet() {
		p.Whisper("First you must abandon or stable your current pet!")
		e.sender.CloseMenu(p)
		return
	}

	if info.Category.IsExotic() {
		if p.Class() != config.ClassHunter && !cfg.AllowExotic {
			p.Whisper("Only hunters can adopt exotic pets.")
			e.sender.CloseMenu(p)
			return
		}
		if p.Class() == config.ClassHunter && cfg.HunterBeastMasteryRequired &&
			!p.HasTalent(SpellBeastMastery) {
			p.Whisper("You need the Beast Mastery talent to adopt exotic pets.")
			e.sender.CloseMenu(p)
			return
		}
	}

	store := e.trackedStore()
	tamed := store.Enabled()
	if tamed {
		entries, err := store.TamedEntries(p.ID())
		if err == nil && !entries[entry] {
			if count, err := store.Count(p.ID()); err == nil && count >= effectiveTrackedCap(cfg) {
				p.Whisper("You have reached the maximum number of tracked pets.")
				e.sender.CloseMenu(p)
				return
			}
		}
	}

	pet, err := p.SummonPet(entry, p.Class() == config.ClassHunter)
	if err != nil {
		logger.Error("Pet summon failed", "player", p.ID(), "entry", entry, "error", err)
		p.Whisper("First you must abandon or stable your current pet!")
		e.sender.CloseMenu(p)
		return
	}
	pet.SetHappiness(MaxPetHappiness)

	if tamed {
		if _, err := store.TryTrack(p.ID(), entry, pet.Name()); err != nil &&
			!errors.Is(err, tracked.ErrCapacityReached) {
			logger.Error("Could not track adoption", "player", p.ID(), "entry", entry, "error", err)
		}
	}

	if p.Class() != config.ClassHunter && !p.HasSpell(SpellCallPet) {
		for _, spell := range HunterSpells {
			if !p.HasSpell(spell) {
				p.LearnSpell(spell)
			}
		}
	}

	logger.Audit("Pet adopted", "player", p.ID(), "entry", entry, "name", info.Name)
	p.Whisper(fmt.Sprintf("A fine choice %s! Take good care of your %s and you will never face your enemies alone.", p.Name(), pet.Name()))
	e.sender.CloseMenu(p)
}

// removeSkills strips the granted hunter abilities from a non-hunter.
func (e *Engine) removeSkills(p Player) {
	for _, spell := range HunterSpells {
		p.UnlearnSpell(spell)
	}
	p.UnlearnSpell(SpellBeastMastery)
	logger.Audit("Hunter abilities unlearned", "player", p.ID())
	e.sender.CloseMenu(p)
}

// showTrackedMenu renders one page of the tracked-pets menu, clamping
// the page into range and rebuilding the player's slot map.
func (e *Engine) showTrackedMenu(p Player, page int) {
	store := e.trackedStore()
	if !store.Enabled() {
		e.sender.CloseMenu(p)
		return
	}

	list, err := store.List(p.ID())
	if err != nil {
		logger.Error("Could not list tracked pets", "player", p.ID(), "error", err)
		list = nil
	}

	maxPage := gossip.MaxPage(len(list), gossip.TrackedPageSize)
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	menu := gossip.Menu{TextID: gossip.MenuTextBrowse}
	menu.AddItem(gossip.IconTalk, "Back..", gossip.ActionMainMenu)
	if page > 1 {
		menu.AddItem(gossip.IconInteract, "Previous..", gossip.TrackedMenuAction(page-1))
	}
	if page < maxPage {
		menu.AddItem(gossip.IconInteract, "Next..", gossip.TrackedMenuAction(page+1))
	}

	slots := make(map[int]uint32)
	start := (page - 1) * gossip.TrackedPageSize
	end := start + gossip.TrackedPageSize
	if end > len(list) {
		end = len(list)
	}
	for i, rec := range list[start:end] {
		label := rec.Name
		if info, ok := e.catalog.FindByEntry(rec.Entry); ok {
			label = fmt.Sprintf("%s [%s, %s]", rec.Name, info.Name, info.Rarity)
		}
		slots[i] = rec.Entry
		menu.AddItem(gossip.IconTaxi, "Summon: "+label, gossip.TrackedSummonBase+uint32(i))
		menu.AddItem(gossip.IconTrainer, "Rename: "+label, gossip.TrackedRenameBase+uint32(i))
		menu.AddItem(gossip.IconBattle, "Delete: "+label, gossip.TrackedDeleteBase+uint32(i))
	}
	e.sessions.get(p.ID()).setSlotMap(page, slots)

	e.sender.SendMenu(p, menu)
}

// trackedSummon re-summons a tracked pet by its page-local slot.
func (e *Engine) trackedSummon(p Player, slot int) {
	entry, ok := e.sessions.get(p.ID()).slotEntry(slot)
	if !ok {
		e.showTrackedMenu(p, e.sessions.get(p.ID()).currentTrackedPage())
		return
	}

	if p.HasLivePet() {
		p.Whisper("First you must abandon or stable your current pet!")
		e.sender.CloseMenu(p)
		return
	}

	pet, err := p.SummonPet(entry, false)
	if err != nil {
		logger.Error("Tracked summon failed", "player", p.ID(), "entry", entry, "error", err)
		p.Whisper("Failed to summon pet.")
		e.sender.CloseMenu(p)
		return
	}
	if name, err := e.trackedStore().Name(p.ID(), entry); err == nil && name != "" {
		pet.SetName(name)
	}
	pet.SetHappiness(MaxPetHappiness)
	p.Whisper("Your tracked pet has been summoned!")
	e.sender.CloseMenu(p)
}

// trackedRename arms the rename flag and moves the player to chat input.
func (e *Engine) trackedRename(p Player, slot int) {
	sess := e.sessions.get(p.ID())
	entry, ok := sess.slotEntry(slot)
	if !ok {
		e.showTrackedMenu(p, sess.currentTrackedPage())
		return
	}

	sess.armRename(entry)
	p.Whisper("To rename your pet, type: .petname rename <newname> in chat. To cancel, type: .petname cancel")
	e.sender.CloseMenu(p)
}

// trackedDelete removes a tracked record and re-renders the menu on the
// nearest valid page. A pending rename for the same entry is disarmed.
func (e *Engine) trackedDelete(p Player, slot int) {
	sess := e.sessions.get(p.ID())
	entry, ok := sess.slotEntry(slot)
	if !ok {
		e.showTrackedMenu(p, sess.currentTrackedPage())
		return
	}

	if err := e.trackedStore().Delete(p.ID(), entry); err != nil {
		logger.Error("Tracked delete failed", "player", p.ID(), "entry", entry, "error", err)
		p.Whisper("Could not delete tracked pet.")
		e.sender.CloseMenu(p)
		return
	}
	sess.clearRenameFor(entry)

	logger.Audit("Tracked pet deleted", "player", p.ID(), "entry", entry)
	p.Whisper(fmt.Sprintf("Tracked pet deleted (entry %d).", entry))
	e.showTrackedMenu(p, sess.currentTrackedPage())
}

// ConfirmRename applies a pending rename from chat input. Validation
// failures leave the flag armed so the player can retry; success and a
// vanished record both disarm it.
func (e *Engine) ConfirmRename(p Player, rawName string) {
	sess := e.sessions.get(p.ID())
	entry, armed := sess.pendingRename()
	if !armed {
		p.Whisper("You have no pet rename pending. Use the beastmaster menu first.")
		return
	}

	name := strings.TrimSpace(rawName)
	if result := e.nameFilter().Check(name); !result.Allowed {
		p.Whisper(result.Reason + " Try another name, or type: .petname cancel")
		return
	}

	if err := e.trackedStore().Rename(p.ID(), entry, name); err != nil {
		if errors.Is(err, tracked.ErrNotFound) {
			p.Whisper("That pet is no longer tracked.")
			sess.clearRename()
			return
		}
		logger.Error("Tracked rename failed", "player", p.ID(), "entry", entry, "error", err)
		p.Whisper("Could not rename your pet. Try again later.")
		return
	}

	sess.clearRename()
	logger.Audit("Tracked pet renamed", "player", p.ID(), "entry", entry, "name", name)
	p.Whisper(fmt.Sprintf("Your pet has been renamed to %s.", name))
}

// CancelRename aborts a pending rename.
func (e *Engine) CancelRename(p Player) {
	sess := e.sessions.get(p.ID())
	if _, armed := sess.pendingRename(); !armed {
		p.Whisper("You have no pet rename pending.")
		return
	}
	sess.clearRename()
	p.Whisper("Pet rename cancelled.")
}

// PlayerUpdate is the per-player tick hook; it re-maxes pet happiness
// when the keep-happy option is on.
func (e *Engine) PlayerUpdate(p Player) {
	if !e.config().KeepPetHappy {
		return
	}
	if pet := p.LivePet(); pet != nil {
		pet.SetHappiness(MaxPetHappiness)
	}
}
