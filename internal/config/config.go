package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ClassHunter is the class identifier for hunters, the only class with
// native pet handling.
const ClassHunter = 3

// Config holds the full beastmaster module configuration.
type Config struct {
	// Enabled turns the whole module on or off.
	Enabled bool `yaml:"enabled"`

	// NpcEntry is the creature template entry used when summoning the
	// beastmaster NPC via chat command.
	NpcEntry uint32 `yaml:"npc_entry"`

	// HunterOnly restricts adoption to hunters. Takes precedence over
	// AllowedClasses when both are set.
	HunterOnly bool `yaml:"hunter_only"`

	// AllowExotic grants exotic pet access to everyone, bypassing the
	// beast mastery talent requirement.
	AllowExotic bool `yaml:"allow_exotic"`

	// HunterBeastMasteryRequired requires hunters to hold the beast
	// mastery talent before adopting exotic pets.
	HunterBeastMasteryRequired bool `yaml:"hunter_beast_mastery_required"`

	// KeepPetHappy re-maxes hunter pet happiness on every player tick.
	KeepPetHappy bool `yaml:"keep_pet_happy"`

	// MinLevel is the minimum player level for adoption (0 = disabled).
	MinLevel uint32 `yaml:"min_level"`

	// MaxLevel is the maximum player level for adoption (0 = disabled).
	MaxLevel uint32 `yaml:"max_level"`

	// TrackTamedPets enables the persistent tracked-pet list.
	TrackTamedPets bool `yaml:"track_tamed_pets"`

	// MaxTrackedPets caps tracked pets per player (0 = unlimited).
	MaxTrackedPets uint32 `yaml:"max_tracked_pets"`

	// AllowedRaces is a comma separated list of race IDs. Empty or "0"
	// means no race restriction.
	AllowedRaces string `yaml:"allowed_races"`

	// AllowedClasses is a comma separated list of class IDs. Empty or
	// "0" means no class restriction. Ignored when HunterOnly is set.
	AllowedClasses string `yaml:"allowed_classes"`

	// RarePets and RareExoticPets are comma separated creature entry
	// lists that override the intrinsic rarity column.
	RarePets       string `yaml:"rare_pets"`
	RareExoticPets string `yaml:"rare_exotic_pets"`

	// SummonCooldown is the per-player cooldown in seconds for the
	// beastmaster summon command.
	SummonCooldown uint32 `yaml:"summon_cooldown"`

	// ProfanityFilter enables the pet name profanity check.
	ProfanityFilter bool `yaml:"profanity_filter"`

	// ProfanityListPath is the plain-text word list, one word per line.
	ProfanityListPath string `yaml:"profanity_list_path"`

	// ShowLoginNotice announces the beastmaster commands at login.
	ShowLoginNotice bool `yaml:"show_login_notice"`

	// LoginMessage overrides the default login notice when non-empty.
	LoginMessage string `yaml:"login_message"`

	// Parsed ID sets, populated by Normalize.
	allowedRaceSet   map[uint8]bool
	allowedClassSet  map[uint8]bool
	rarePetSet       map[uint32]bool
	rareExoticPetSet map[uint32]bool
}

// DefaultConfig returns a Config matching the module's stock behavior.
func DefaultConfig() *Config {
	cfg := &Config{
		Enabled:                    true,
		NpcEntry:                   601026,
		HunterOnly:                 true,
		AllowExotic:                false,
		HunterBeastMasteryRequired: true,
		KeepPetHappy:               false,
		MinLevel:                   10,
		MaxLevel:                   0,
		TrackTamedPets:             false,
		MaxTrackedPets:             20,
		AllowedRaces:               "0",
		AllowedClasses:             "0",
		SummonCooldown:             120,
		ProfanityFilter:            true,
		ProfanityListPath:          "data/profanity.txt",
		ShowLoginNotice:            true,
	}
	cfg.Normalize()
	return cfg
}

// LoadConfig loads the beastmaster configuration from a YAML file.
// If the file doesn't exist, returns the default config.
func LoadConfig(path string) (*Config, []string, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil, nil
		}
		return config, nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), nil, err
	}

	warnings := config.Normalize()
	return config, warnings, nil
}

// Normalize parses the list fields and corrects inconsistent settings in
// place. Returned warnings describe every correction; none is fatal.
func (c *Config) Normalize() []string {
	var warnings []string

	c.allowedRaceSet = parseIDSet(c.AllowedRaces)
	c.allowedClassSet = parseIDSet(c.AllowedClasses)
	c.rarePetSet = parseEntrySet(c.RarePets)
	c.rareExoticPetSet = parseEntrySet(c.RareExoticPets)

	if c.HunterOnly && len(c.allowedClassSet) > 0 &&
		(len(c.allowedClassSet) != 1 || !c.allowedClassSet[ClassHunter]) {
		warnings = append(warnings,
			"hunter_only is set but allowed_classes contains non-hunter classes; hunter_only takes precedence")
	}

	if c.MaxLevel != 0 && c.MinLevel != 0 && c.MaxLevel < c.MinLevel {
		warnings = append(warnings, fmt.Sprintf(
			"max_level (%d) is lower than min_level (%d); swapping values",
			c.MaxLevel, c.MinLevel))
		c.MinLevel, c.MaxLevel = c.MaxLevel, c.MinLevel
	}

	if c.TrackTamedPets && c.MaxTrackedPets > 1000 {
		warnings = append(warnings, fmt.Sprintf(
			"max_tracked_pets=%d is very high and may impact performance", c.MaxTrackedPets))
	}

	if c.AllowExotic && c.HunterBeastMasteryRequired {
		warnings = append(warnings,
			"allow_exotic grants non-hunters exotic pets regardless of hunter_beast_mastery_required")
	}

	return warnings
}

// ClassAllowed reports whether the class passes the configured class
// restrictions. HunterOnly takes precedence over the allowed-class set.
func (c *Config) ClassAllowed(class uint8) bool {
	if c.HunterOnly {
		return class == ClassHunter
	}
	if len(c.allowedClassSet) == 0 {
		return true
	}
	return c.allowedClassSet[class]
}

// RaceAllowed reports whether the race passes the configured race
// restrictions. An empty set allows every race.
func (c *Config) RaceAllowed(race uint8) bool {
	if len(c.allowedRaceSet) == 0 {
		return true
	}
	return c.allowedRaceSet[race]
}

// RarePetEntries returns the curated rare override set.
func (c *Config) RarePetEntries() map[uint32]bool {
	return c.rarePetSet
}

// RareExoticPetEntries returns the curated rare-exotic override set.
func (c *Config) RareExoticPetEntries() map[uint32]bool {
	return c.rareExoticPetSet
}

// parseIDSet parses a comma separated list of small numeric IDs.
// Zero and unparseable entries are skipped.
func parseIDSet(csv string) map[uint8]bool {
	set := make(map[uint8]bool)
	for _, item := range strings.Split(csv, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, err := strconv.ParseUint(item, 10, 8)
		if err != nil || id == 0 {
			continue
		}
		set[uint8(id)] = true
	}
	return set
}

// parseEntrySet parses a comma separated list of creature entries.
func parseEntrySet(csv string) map[uint32]bool {
	set := make(map[uint32]bool)
	for _, item := range strings.Split(csv, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		entry, err := strconv.ParseUint(item, 10, 32)
		if err != nil || entry == 0 {
			continue
		}
		set[uint32(entry)] = true
	}
	return set
}
