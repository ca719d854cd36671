package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if !cfg.Enabled || !cfg.DungeonsOnly || !cfg.PlayerChangeNotify || !cfg.Announce {
		t.Errorf("expected module toggles on by default: %+v", cfg)
	}
	if cfg.DebugLevel != 2 {
		t.Errorf("DebugLevel = %d, want 2", cfg.DebugLevel)
	}
	if !cfg.Level.Scaling || cfg.Level.HigherOffset != 3 || cfg.Level.LowerOffset != 0 {
		t.Errorf("unexpected level defaults: %+v", cfg.Level)
	}
	if cfg.Inflection.Normal != 0.5 || cfg.Inflection.Raid25MHeroic != 0.5 || cfg.Inflection.BossMult != 1.0 {
		t.Errorf("unexpected inflection defaults: %+v", cfg.Inflection)
	}
	if cfg.MinHPModifier != 0.1 || cfg.MinManaModifier != 0.1 || cfg.MinDamageModifier != 0.1 {
		t.Errorf("unexpected floors: %v %v %v", cfg.MinHPModifier, cfg.MinManaModifier, cfg.MinDamageModifier)
	}
	if cfg.Reward.RaidToken != 49426 || cfg.Reward.DungeonToken != 47241 {
		t.Errorf("unexpected reward tokens: %+v", cfg.Reward)
	}
	if cfg.Immunities.Enabled || cfg.Immunities.MaxPlayers != 3 {
		t.Errorf("unexpected immunity defaults: %+v", cfg.Immunities)
	}
	for _, name := range MechanicNames {
		if !cfg.Immunities.MechanicEnabled(name) {
			t.Errorf("mechanic %s should default to enabled", name)
		}
	}
	if cfg.Forced.Len() != 0 {
		t.Errorf("expected empty forced registry, got %d", cfg.Forced.Len())
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/autobalance.yaml")
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil || !cfg.Enabled {
		t.Fatal("expected default config for missing file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autobalance.yaml")
	if err := os.WriteFile(path, []byte("autobalance: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err == nil {
		t.Error("expected parse error")
	}
	if cfg == nil || cfg.Inflection.Normal != 0.5 {
		t.Error("expected defaults alongside the parse error")
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autobalance.yaml")
	content := `
autobalance:
  enable: true
  debug_level: 7
  dungeons_only: false
  player_count_difficulty_offset: 1
  level:
    scaling: false
    higher_offset: 5
  inflection:
    normal: 0.6
    raid: 0.4
    raid_25m_heroic: 0.3
    boss_mult: 1.2
  rate:
    global: 1.5
    damage: not-a-number
  min_modifier:
    health: 0.2
  forced_ids:
    10: "12345, 6789"
    25: [111, 222]
  disabled_ids: "999"
  immunities:
    enable: true
    mechanics:
      fear: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DebugLevel != 1 {
		t.Errorf("DebugLevel = %d, want out-of-range value clamped to 1", cfg.DebugLevel)
	}
	if cfg.DungeonsOnly {
		t.Error("DungeonsOnly should be false")
	}
	if cfg.PlayerCountOffset != 1 {
		t.Errorf("PlayerCountOffset = %d, want 1", cfg.PlayerCountOffset)
	}
	if cfg.Level.Scaling || cfg.Level.HigherOffset != 5 {
		t.Errorf("unexpected level config: %+v", cfg.Level)
	}

	in := cfg.Inflection
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"normal", in.Normal, 0.6},
		{"heroic inherits normal", in.Heroic, 0.6},
		{"raid", in.Raid, 0.4},
		{"raid 10m inherits raid", in.Raid10M, 0.4},
		{"raid 25m inherits raid", in.Raid25M, 0.4},
		{"raid heroic inherits raid", in.RaidHeroic, 0.4},
		{"raid 10m heroic inherits raid 10m", in.Raid10MHeroic, 0.4},
		{"raid 25m heroic", in.Raid25MHeroic, 0.3},
		{"boss mult", in.BossMult, 1.2},
		{"global rate", cfg.Rate.Global, 1.5},
		{"malformed damage rate falls back", cfg.Rate.Damage, 1.0},
		{"health floor", cfg.MinHPModifier, 0.2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	for entry, want := range map[uint32]int{12345: 10, 6789: 10, 111: 25, 222: 25, 999: 0} {
		got, ok := cfg.Forced.Lookup(entry)
		if !ok || int(got) != want {
			t.Errorf("Forced.Lookup(%d) = (%d, %v), want %d", entry, got, ok, want)
		}
	}

	if !cfg.Immunities.Enabled {
		t.Error("immunities should be enabled")
	}
	if cfg.Immunities.MechanicEnabled("fear") {
		t.Error("fear immunity should be disabled")
	}
	if !cfg.Immunities.MechanicEnabled("stun") {
		t.Error("stun immunity should stay enabled")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("AUTOBALANCE_RATE_GLOBAL", "2.5")
	t.Setenv("AUTOBALANCE_LEVEL_LOWER_OFFSET", "4")

	src, err := ParseYAML([]byte("rate:\n  global: 1.5\n"))
	if err != nil {
		t.Fatal(err)
	}
	cfg := FromSource(src)
	if cfg.Rate.Global != 2.5 {
		t.Errorf("Rate.Global = %v, want env override 2.5", cfg.Rate.Global)
	}
	if cfg.Level.LowerOffset != 4 {
		t.Errorf("Level.LowerOffset = %d, want 4", cfg.Level.LowerOffset)
	}
}

func TestValidDebugLevel(t *testing.T) {
	tests := []struct{ in, want int }{
		{-1, 1}, {0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 1},
	}
	for _, tt := range tests {
		if got := ValidDebugLevel(tt.in); got != tt.want {
			t.Errorf("ValidDebugLevel(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEffectivePlayerCount(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.EffectivePlayerCount(3); got != 3 {
		t.Errorf("EffectivePlayerCount(3) = %d, want 3", got)
	}
	if got := cfg.WithPlayerCountOffset(2).EffectivePlayerCount(3); got != 5 {
		t.Errorf("offset +2: got %d, want 5", got)
	}
	if got := cfg.WithPlayerCountOffset(-5).EffectivePlayerCount(3); got != 0 {
		t.Errorf("offset -5: got %d, want 0", got)
	}
}

func TestStoreReloadAndOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autobalance.yaml")
	if err := os.WriteFile(path, []byte("player_count_difficulty_offset: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	first := store.Current()
	if first.PlayerCountOffset != 1 {
		t.Fatalf("PlayerCountOffset = %d, want 1", first.PlayerCountOffset)
	}

	updated := store.SetPlayerCountOffset(3)
	if updated.PlayerCountOffset != 3 || store.Current().PlayerCountOffset != 3 {
		t.Error("SetPlayerCountOffset did not publish the new offset")
	}
	if first.PlayerCountOffset != 1 {
		t.Error("published snapshot was mutated")
	}

	if err := os.WriteFile(path, []byte("disabled_ids: \"42\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	snap, err := store.Reload()
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if snap.PlayerCountOffset != 0 {
		t.Errorf("offset after reload = %d, want 0 from file", snap.PlayerCountOffset)
	}
	if o, ok := store.Current().Forced.Lookup(42); !ok || !o.Disabled() {
		t.Error("reload should rebuild the forced registry")
	}

	if err := os.WriteFile(path, []byte("enable: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Reload(); err == nil {
		t.Error("expected reload error for bad YAML")
	}
	if _, ok := store.Current().Forced.Lookup(42); !ok {
		t.Error("failed reload should keep the previous snapshot")
	}
}
