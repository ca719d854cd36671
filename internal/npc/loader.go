package npc

import (
	"fmt"
	"os"
	"strings"

	"github.com/lawnchairsociety/autobalance/internal/logger"
	"gopkg.in/yaml.v3"
)

// TemplateDefinition represents a creature template in YAML format
type TemplateDefinition struct {
	Name      string  `yaml:"name"`
	MinLevel  int     `yaml:"min_level"`
	MaxLevel  int     `yaml:"max_level"`
	Rank      string  `yaml:"rank"`      // normal, elite, rare_elite, world_boss, rare
	Class     string  `yaml:"class"`     // warrior, paladin, rogue, mage
	Expansion int     `yaml:"expansion"` // 0 classic, 1 tbc, 2 wotlk
	ModHealth float64 `yaml:"mod_health"`
	ModMana   float64 `yaml:"mod_mana"`
	ModArmor  float64 `yaml:"mod_armor"`
}

// TemplatesConfig represents the structure of the templates.yaml file
type TemplatesConfig struct {
	Templates map[uint32]TemplateDefinition `yaml:"templates"`
}

// StatsDefinition is one level row of a base-stat table in YAML format
type StatsDefinition struct {
	Level  int       `yaml:"level"`
	Health []float64 `yaml:"health"` // one value per expansion
	Mana   float64   `yaml:"mana"`
	Armor  float64   `yaml:"armor"`
	Damage []float64 `yaml:"damage"` // one value per expansion
}

// StatsConfig represents the structure of the base_stats.yaml file
type StatsConfig struct {
	BaseStats map[string][]StatsDefinition `yaml:"base_stats"`
}

// Templates is a lookup of templates by entry.
type Templates map[uint32]*Template

// Get returns the template for an entry, or nil.
func (ts Templates) Get(entry uint32) *Template {
	return ts[entry]
}

// LoadTemplatesFromYAML loads creature templates from a YAML file
func LoadTemplatesFromYAML(filename string) (Templates, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}

	var config TemplatesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse templates YAML: %w", err)
	}

	templates := make(Templates, len(config.Templates))
	for entry, def := range config.Templates {
		templates[entry] = CreateTemplateFromDefinition(entry, def)
	}
	return templates, nil
}

// CreateTemplateFromDefinition converts a YAML definition into a Template,
// correcting values the engine cannot work with.
func CreateTemplateFromDefinition(entry uint32, def TemplateDefinition) *Template {
	minLevel := clampLevel(def.MinLevel)
	maxLevel := clampLevel(def.MaxLevel)
	if maxLevel < minLevel {
		logger.Warning("Template auto-correction applied",
			"entry", entry,
			"issue", "max_level < min_level",
			"action", "swap levels")
		minLevel, maxLevel = maxLevel, minLevel
	}

	t := &Template{
		Entry:     entry,
		Name:      def.Name,
		MinLevel:  minLevel,
		MaxLevel:  maxLevel,
		Rank:      StringToRank(def.Rank),
		UnitClass: StringToClass(def.Class),
		ModHealth: def.ModHealth,
		ModMana:   def.ModMana,
		ModArmor:  def.ModArmor,
	}
	if def.Expansion >= 0 && def.Expansion <= ExpansionWotLK {
		t.Expansion = uint8(def.Expansion)
	}
	if t.ModHealth <= 0 {
		t.ModHealth = 1
	}
	if t.ModMana <= 0 {
		t.ModMana = 1
	}
	if t.ModArmor <= 0 {
		t.ModArmor = 1
	}
	return t
}

// LoadStatsFromYAML loads the per-class base-stat table from a YAML file
func LoadStatsFromYAML(filename string) (*StatsTable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read base stats file: %w", err)
	}

	var config StatsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse base stats YAML: %w", err)
	}

	table := NewStatsTable()
	for className, rows := range config.BaseStats {
		class := StringToClass(className)
		for _, row := range rows {
			if row.Level < 1 || row.Level > 255 {
				logger.Warning("Skipping base stats row", "class", className, "level", row.Level)
				continue
			}
			s := BaseStats{
				Level:     uint8(row.Level),
				BaseMana:  row.Mana,
				BaseArmor: row.Armor,
			}
			fillExpansions(&s.BaseHealth, row.Health)
			fillExpansions(&s.BaseDamage, row.Damage)
			table.Add(class, s)
		}
	}
	return table, nil
}

// fillExpansions copies up to three values; missing later expansions repeat
// the last value given.
func fillExpansions(dst *[3]float64, src []float64) {
	for i := range dst {
		switch {
		case i < len(src):
			dst[i] = src[i]
		case len(src) > 0:
			dst[i] = src[len(src)-1]
		}
	}
}

func clampLevel(level int) uint8 {
	if level < 1 {
		return 1
	}
	if level > 255 {
		return 255
	}
	return uint8(level)
}

// StringToRank converts a string to a Rank
func StringToRank(s string) Rank {
	switch strings.ToLower(s) {
	case "elite":
		return RankElite
	case "rare_elite", "rareelite":
		return RankRareElite
	case "world_boss", "worldboss", "boss":
		return RankWorldBoss
	case "rare":
		return RankRare
	default:
		return RankNormal
	}
}

// StringToClass converts a string to a UnitClass
func StringToClass(s string) UnitClass {
	switch strings.ToLower(s) {
	case "paladin":
		return ClassPaladin
	case "rogue":
		return ClassRogue
	case "mage":
		return ClassMage
	default:
		return ClassWarrior
	}
}
