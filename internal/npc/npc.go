// Package npc holds creature template data and per-level base stats used by
// the scaling engine.
package npc

import "math"

// Rank is the creature rank from the template.
type Rank uint8

const (
	RankNormal Rank = iota
	RankElite
	RankRareElite
	RankWorldBoss
	RankRare
)

// UnitClass selects which base-stat column a creature uses.
type UnitClass uint8

const (
	ClassWarrior UnitClass = 1
	ClassPaladin UnitClass = 2
	ClassRogue   UnitClass = 4
	ClassMage    UnitClass = 8
)

// Expansion brackets used by the base-stat tables.
const (
	ExpansionClassic = 0
	ExpansionTBC     = 1
	ExpansionWotLK   = 2
)

// Template is the static definition a creature is spawned from.
type Template struct {
	Entry     uint32
	Name      string
	MinLevel  uint8
	MaxLevel  uint8
	Rank      Rank
	UnitClass UnitClass
	Expansion uint8
	ModHealth float64
	ModMana   float64
	ModArmor  float64
}

// IsWorldBoss reports whether the template is ranked as a world boss.
// World bosses are kept a few levels above the party.
func (t *Template) IsWorldBoss() bool {
	return t.Rank == RankWorldBoss
}

// InLevelRange reports whether level lies within the template's own
// min/max level range.
func (t *Template) InLevelRange(level uint8) bool {
	return level >= t.MinLevel && level <= t.MaxLevel
}

func (t *Template) expansion() int {
	if t.Expansion > ExpansionWotLK {
		return ExpansionWotLK
	}
	return int(t.Expansion)
}

// BaseStats holds the class base values for one level.
type BaseStats struct {
	Level      uint8
	BaseHealth [3]float64
	BaseMana   float64
	BaseArmor  float64
	BaseDamage [3]float64
}

// GenerateHealth returns the template health at this level.
func (s BaseStats) GenerateHealth(t *Template) float64 {
	return math.Ceil(s.BaseHealth[t.expansion()] * t.ModHealth)
}

// GenerateMana returns the template mana at this level. Creatures without
// a mana pool get 0.
func (s BaseStats) GenerateMana(t *Template) float64 {
	if s.BaseMana == 0 {
		return 0
	}
	return math.Ceil(s.BaseMana * t.ModMana)
}

// GenerateArmor returns the template armor at this level.
func (s BaseStats) GenerateArmor(t *Template) float64 {
	return math.Ceil(s.BaseArmor * t.ModArmor)
}

// GenerateBaseDamage returns the base damage for the template's expansion.
func (s BaseStats) GenerateBaseDamage(t *Template) float64 {
	return s.BaseDamage[t.expansion()]
}
