// Package config holds the tunables of the scaling module. A Snapshot is
// immutable once built; changes produce a new Snapshot.
package config

import (
	"os"
	"strconv"

	"github.com/lawnchairsociety/autobalance/internal/forced"
)

// MechanicNames lists the crowd-control mechanics that can be granted as
// immunities, in spell id order.
var MechanicNames = []string{
	"charm", "fear", "silence", "sleep", "stun", "freeze", "knockout",
	"polymorph", "horror", "daze", "sapped", "knock_back", "power_drain",
}

// Snapshot is the full set of tunables. Never mutate a Snapshot after it
// has been published; use the With* methods.
type Snapshot struct {
	Enabled            bool
	DebugLevel         int
	Announce           bool
	DungeonsOnly       bool
	PlayerChangeNotify bool

	// PlayerCountOffset is added to the tracked player count before scaling.
	PlayerCountOffset int

	Level      LevelConfig
	Inflection InflectionConfig
	Rate       RateConfig

	MinHPModifier     float64
	MinManaModifier   float64
	MinDamageModifier float64

	Forced *forced.Registry

	Reward             RewardConfig
	DungeonScaleDownXP bool
	Immunities         ImmunityConfig
}

// LevelConfig controls level scaling.
type LevelConfig struct {
	Scaling      bool
	HigherOffset int
	LowerOffset  int
	// UseDBValues trusts template stats when the creature's level is inside
	// the template's own level range.
	UseDBValues  bool
	EndGameBoost bool
}

// InflectionConfig holds the population fraction at which the scaling curve
// reaches one half, per instance type.
type InflectionConfig struct {
	Normal        float64
	Raid          float64
	Raid10M       float64
	Raid25M       float64
	Heroic        float64
	RaidHeroic    float64
	Raid10MHeroic float64
	Raid25MHeroic float64
	BossMult      float64
}

// RateConfig holds flat multipliers.
type RateConfig struct {
	Global float64
	Health float64
	Mana   float64
	Armor  float64
	Damage float64
}

// RewardConfig controls token grants on end-game encounter kills.
type RewardConfig struct {
	Enabled      bool
	RaidToken    uint32
	DungeonToken uint32
	MinPlayers   uint32
}

// ImmunityConfig controls crowd-control immunities for small groups.
type ImmunityConfig struct {
	Enabled    bool
	Pet        bool
	MaxPlayers uint32
	Mechanics  map[string]bool
}

// MechanicEnabled reports whether a named mechanic is toggled on.
func (c ImmunityConfig) MechanicEnabled(name string) bool {
	return c.Mechanics[name]
}

// FromSource reads every tunable, using the stock defaults for missing or
// malformed values.
func FromSource(src Source) *Snapshot {
	s := &Snapshot{
		Enabled:            src.Bool("enable", true),
		DebugLevel:         ValidDebugLevel(src.Int("debug_level", 2)),
		Announce:           src.Bool("announce", true),
		DungeonsOnly:       src.Bool("dungeons_only", true),
		PlayerChangeNotify: src.Bool("player_change_notify", true),
		PlayerCountOffset:  src.Int("player_count_difficulty_offset", 0),
		Level: LevelConfig{
			Scaling:      src.Bool("level.scaling", true),
			HigherOffset: nonNegative(src.Int("level.higher_offset", 3)),
			LowerOffset:  nonNegative(src.Int("level.lower_offset", 0)),
			UseDBValues:  src.Bool("level.use_db_values_when_exists", true),
			EndGameBoost: src.Bool("level.end_game_boost", true),
		},
		Rate: RateConfig{
			Global: src.Float("rate.global", 1.0),
			Health: src.Float("rate.health", 1.0),
			Mana:   src.Float("rate.mana", 1.0),
			Armor:  src.Float("rate.armor", 1.0),
			Damage: src.Float("rate.damage", 1.0),
		},
		MinHPModifier:      src.Float("min_modifier.health", 0.1),
		MinManaModifier:    src.Float("min_modifier.mana", 0.1),
		MinDamageModifier:  src.Float("min_modifier.damage", 0.1),
		DungeonScaleDownXP: src.Bool("dungeon_scale_down_xp", false),
		Reward: RewardConfig{
			Enabled:      src.Bool("reward.enable", true),
			RaidToken:    uint32(nonNegative(src.Int("reward.raid_token", 49426))),
			DungeonToken: uint32(nonNegative(src.Int("reward.dungeon_token", 47241))),
			MinPlayers:   uint32(nonNegative(src.Int("reward.min_players", 1))),
		},
		Immunities: ImmunityConfig{
			Enabled:    src.Bool("immunities.enable", false),
			Pet:        src.Bool("immunities.pet", false),
			MaxPlayers: uint32(nonNegative(src.Int("immunities.max_players", 3))),
			Mechanics:  make(map[string]bool, len(MechanicNames)),
		},
	}

	// Each inflection point defaults to its more general parent.
	in := &s.Inflection
	in.Normal = src.Float("inflection.normal", 0.5)
	in.Raid = src.Float("inflection.raid", in.Normal)
	in.Raid25M = src.Float("inflection.raid_25m", in.Raid)
	in.Raid10M = src.Float("inflection.raid_10m", in.Raid)
	in.Heroic = src.Float("inflection.heroic", in.Normal)
	in.RaidHeroic = src.Float("inflection.raid_heroic", in.Raid)
	in.Raid25MHeroic = src.Float("inflection.raid_25m_heroic", in.Raid25M)
	in.Raid10MHeroic = src.Float("inflection.raid_10m_heroic", in.Raid10M)
	in.BossMult = src.Float("inflection.boss_mult", 1.0)

	for _, name := range MechanicNames {
		s.Immunities.Mechanics[name] = src.Bool("immunities.mechanics."+name, true)
	}

	lists := make(map[int]string, len(forced.Sizes))
	for _, size := range forced.Sizes {
		lists[size] = src.String("forced_ids."+strconv.Itoa(size), "")
	}
	s.Forced = forced.Parse(lists, src.String("disabled_ids", ""))

	return s
}

// DefaultConfig returns a Snapshot with the stock defaults.
func DefaultConfig() *Snapshot {
	return FromSource(&MapSource{values: map[string]string{}})
}

// LoadConfig loads a Snapshot from a YAML file.
// If the file doesn't exist, returns the default config. If it can't be
// read or parsed, returns the default config and the error.
func LoadConfig(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FromSource(NewMapSource(nil)), nil
		}
		return DefaultConfig(), err
	}

	src, err := ParseYAML(data)
	if err != nil {
		return DefaultConfig(), err
	}
	return FromSource(src), nil
}

// WithPlayerCountOffset returns a copy with a different offset.
func (s *Snapshot) WithPlayerCountOffset(offset int) *Snapshot {
	c := *s
	c.PlayerCountOffset = offset
	return &c
}

// EffectivePlayerCount applies the global offset to a tracked count.
// The result never goes below zero.
func (s *Snapshot) EffectivePlayerCount(count uint32) uint32 {
	n := int64(count) + int64(s.PlayerCountOffset)
	if n < 0 {
		return 0
	}
	return uint32(n)
}

// ValidDebugLevel clamps an out-of-range debug level (valid: 0..3) to 1.
func ValidDebugLevel(level int) int {
	if level < 0 || level > 3 {
		return 1
	}
	return level
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
