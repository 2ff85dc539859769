package beastmaster

import "github.com/mistvale/beastmaster/internal/gossip"

// Spell and stat identifiers from the host game's data.
const (
	SpellCallPet         uint32 = 883
	SpellTameBeast       uint32 = 13481
	SpellBeastMastery    uint32 = 53270
	MaxPetHappiness      uint32 = 1048000
	SoundBeastmasterHowl uint32 = 9036
)

// HunterSpells are the pet-control abilities granted to non-hunters on
// their first adoption and removed by the unlearn menu option.
var HunterSpells = []uint32{883, 982, 2641, 6991, 48990, 1002, 1462, 6197}

// Player is the slice of the host's character model the engine consumes.
type Player interface {
	ID() int64
	Name() string
	Class() uint8
	Race() uint8
	Level() uint32

	HasSpell(spell uint32) bool
	HasTalent(spell uint32) bool
	LearnSpell(spell uint32)
	UnlearnSpell(spell uint32)

	// HasLivePet reports whether the player currently controls a pet.
	HasLivePet() bool
	// LivePet returns the current pet, or nil.
	LivePet() PetHandle
	// SummonPet instantiates a pet from a creature entry. Hunters tame;
	// everyone else gets a called companion.
	SummonPet(entry uint32, tame bool) (PetHandle, error)

	Whisper(message string)
}

// PetHandle is a live pet instance.
type PetHandle interface {
	Name() string
	SetName(name string)
	SetHappiness(value uint32)
}

// Sender delivers rendered menus and host-side windows to the client.
type Sender interface {
	SendMenu(p Player, menu gossip.Menu)
	CloseMenu(p Player)
	ShowVendor(p Player)
	ShowStable(p Player)
	PlaySound(p Player, soundID uint32)
}
