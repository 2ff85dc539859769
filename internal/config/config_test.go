package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Enabled {
		t.Error("Default config should be enabled")
	}
	if !cfg.HunterOnly {
		t.Error("Default config should be hunter-only")
	}
	if cfg.MinLevel != 10 {
		t.Errorf("Expected default min_level 10, got %d", cfg.MinLevel)
	}
	if cfg.MaxTrackedPets != 20 {
		t.Errorf("Expected default max_tracked_pets 20, got %d", cfg.MaxTrackedPets)
	}
	if cfg.SummonCooldown != 120 {
		t.Errorf("Expected default summon_cooldown 120, got %d", cfg.SummonCooldown)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, warnings, err := LoadConfig("/nonexistent/beastmaster.yaml")
	if err != nil {
		t.Fatalf("LoadConfig should not error on missing file: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings for defaults, got %v", warnings)
	}
	if !cfg.HunterOnly {
		t.Error("Missing file should yield default config")
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "beastmaster.yaml")

	content := `enabled: true
hunter_only: false
allow_exotic: true
min_level: 5
track_tamed_pets: true
max_tracked_pets: 3
allowed_classes: "1,2,3"
rare_pets: "1234,5678"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, _, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.HunterOnly {
		t.Error("hunter_only should be false")
	}
	if !cfg.AllowExotic {
		t.Error("allow_exotic should be true")
	}
	if cfg.MinLevel != 5 {
		t.Errorf("Expected min_level 5, got %d", cfg.MinLevel)
	}
	if cfg.MaxTrackedPets != 3 {
		t.Errorf("Expected max_tracked_pets 3, got %d", cfg.MaxTrackedPets)
	}
	if !cfg.ClassAllowed(2) {
		t.Error("Class 2 should be allowed")
	}
	if cfg.ClassAllowed(4) {
		t.Error("Class 4 should not be allowed")
	}
	if !cfg.RarePetEntries()[1234] || !cfg.RarePetEntries()[5678] {
		t.Error("rare_pets entries not parsed")
	}
}

func TestNormalize_LevelSwap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinLevel = 40
	cfg.MaxLevel = 10

	warnings := cfg.Normalize()

	if cfg.MinLevel != 10 || cfg.MaxLevel != 40 {
		t.Errorf("Expected swapped levels 10/40, got %d/%d", cfg.MinLevel, cfg.MaxLevel)
	}
	if len(warnings) == 0 {
		t.Error("Expected a warning about swapped levels")
	}
}

func TestNormalize_MaxLevelZeroDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinLevel = 40
	cfg.MaxLevel = 0

	cfg.Normalize()

	if cfg.MinLevel != 40 || cfg.MaxLevel != 0 {
		t.Error("MaxLevel=0 should not trigger the level swap")
	}
}

func TestNormalize_HunterOnlyPrecedence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HunterOnly = true
	cfg.AllowedClasses = "1,2"

	warnings := cfg.Normalize()

	found := false
	for _, w := range warnings {
		if w != "" {
			found = true
		}
	}
	if !found {
		t.Error("Expected a warning for hunter_only vs allowed_classes conflict")
	}

	// HunterOnly wins: only hunters allowed despite the list
	if cfg.ClassAllowed(1) {
		t.Error("Non-hunter should be rejected when hunter_only is set")
	}
	if !cfg.ClassAllowed(ClassHunter) {
		t.Error("Hunter should be allowed when hunter_only is set")
	}
}

func TestClassAllowed_NoRestrictions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HunterOnly = false
	cfg.AllowedClasses = "0"
	cfg.Normalize()

	for class := uint8(1); class <= 11; class++ {
		if !cfg.ClassAllowed(class) {
			t.Errorf("Class %d should be allowed with no restrictions", class)
		}
	}
}

func TestRaceAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowedRaces = "1,4,8"
	cfg.Normalize()

	tests := []struct {
		race    uint8
		allowed bool
	}{
		{1, true},
		{4, true},
		{8, true},
		{2, false},
		{11, false},
	}

	for _, tc := range tests {
		if got := cfg.RaceAllowed(tc.race); got != tc.allowed {
			t.Errorf("RaceAllowed(%d) = %v, want %v", tc.race, got, tc.allowed)
		}
	}
}

func TestParseIDSet_SkipsGarbage(t *testing.T) {
	set := parseIDSet("1, 2, zero, 0, , 300, 7")

	// 300 overflows uint8 and is skipped, 0 is skipped
	if !set[1] || !set[2] || !set[7] {
		t.Error("Valid IDs should be parsed")
	}
	if set[0] {
		t.Error("Zero should be skipped")
	}
	if len(set) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(set))
	}
}
