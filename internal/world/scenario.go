package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/autobalance/internal/host"
	"github.com/lawnchairsociety/autobalance/internal/logger"
	"github.com/lawnchairsociety/autobalance/internal/npc"
)

// ScenarioFile is the YAML layout of a scenario.
type ScenarioFile struct {
	Instances []InstanceDefinition `yaml:"instances" validate:"dive"`
	Players   []PlayerDefinition   `yaml:"players" validate:"dive"`
}

// InstanceDefinition describes one instance and its spawns.
type InstanceDefinition struct {
	Map        uint32               `yaml:"map"`
	Instance   uint32               `yaml:"instance"`
	Name       string               `yaml:"name" validate:"required"`
	Type       string               `yaml:"type" validate:"instancetype"`
	Heroic     bool                 `yaml:"heroic"`
	Difficulty uint8                `yaml:"difficulty" validate:"lte=3"`
	MaxPlayers uint32               `yaml:"max_players" validate:"lte=40"`
	Areas      map[uint32][2]uint8  `yaml:"areas"`
	Creatures  []CreatureDefinition `yaml:"creatures" validate:"dive"`
}

// CreatureDefinition describes a group of identical spawns.
type CreatureDefinition struct {
	Entry   uint32 `yaml:"entry" validate:"required"`
	Count   int    `yaml:"count" validate:"gte=0,lte=200"`
	Area    uint32 `yaml:"area"`
	Boss    bool   `yaml:"boss"`
	Vehicle bool   `yaml:"vehicle"`
}

// PlayerDefinition describes a character and where it starts.
type PlayerDefinition struct {
	Name     string `yaml:"name" validate:"required"`
	Level    uint8  `yaml:"level" validate:"lte=100"`
	GM       bool   `yaml:"gm"`
	Map      uint32 `yaml:"map"`
	Instance uint32 `yaml:"instance"`
	Pet      uint32 `yaml:"pet"`
}

// LoadScenario reads a scenario file and seeds the world with it.
// Instances are created first, then players enter, then creatures spawn so
// they see the final population.
func (w *World) LoadScenario(path string, templates npc.Templates) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read scenario file: %w", err)
	}

	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse scenario file: %w", err)
	}

	return w.ApplyScenario(file, templates)
}

// ApplyScenario seeds the world from an already-parsed scenario.
func (w *World) ApplyScenario(file ScenarioFile, templates npc.Templates) error {
	if err := ValidateScenario(file); err != nil {
		return err
	}

	for _, def := range file.Instances {
		typ, ok := ParseInstanceType(def.Type)
		if !ok {
			return fmt.Errorf("instance %d:%d: unknown type %q", def.Map, def.Instance, def.Type)
		}
		maxPlayers := def.MaxPlayers
		if maxPlayers == 0 {
			maxPlayers = 5
		}
		areas := make(map[uint32]AreaRange, len(def.Areas))
		for id, r := range def.Areas {
			if r[0] > r[1] {
				logger.Warning("Scenario area has min level above max, swapping",
					"instance", fmt.Sprintf("%d:%d", def.Map, def.Instance), "area", id)
				r[0], r[1] = r[1], r[0]
			}
			areas[id] = AreaRange{Min: r[0], Max: r[1]}
		}
		_, err := w.CreateInstance(InstanceDef{
			Key:        host.InstanceKey{MapID: def.Map, InstanceID: def.Instance},
			Name:       def.Name,
			Type:       typ,
			Heroic:     def.Heroic,
			Difficulty: def.Difficulty,
			MaxPlayers: maxPlayers,
			Areas:      areas,
		})
		if err != nil {
			return err
		}
	}

	for _, def := range file.Players {
		level := def.Level
		if level == 0 {
			level = 1
		}
		p := w.AddPlayer(def.Name, level, def.GM)
		key := host.InstanceKey{MapID: def.Map, InstanceID: def.Instance}
		inst, ok := w.Instance(key)
		if !ok {
			logger.Warning("Scenario player starts in an unknown instance", "player", def.Name, "instance", key.String())
			continue
		}
		w.Enter(p, inst)
		if def.Pet != 0 {
			tpl := templates.Get(def.Pet)
			if tpl == nil {
				return fmt.Errorf("player %s: unknown pet template %d", def.Name, def.Pet)
			}
			if _, err := w.SummonPet(p, tpl, true); err != nil {
				return err
			}
		}
	}

	for _, def := range file.Instances {
		inst, _ := w.Instance(host.InstanceKey{MapID: def.Map, InstanceID: def.Instance})
		for _, cd := range def.Creatures {
			tpl := templates.Get(cd.Entry)
			if tpl == nil {
				return fmt.Errorf("instance %s: unknown creature template %d", inst.Key(), cd.Entry)
			}
			count := cd.Count
			if count <= 0 {
				count = 1
			}
			for n := 0; n < count; n++ {
				w.Spawn(inst, tpl, SpawnOptions{
					AreaID: cd.Area,
					Flags:  CreatureFlags{DungeonBoss: cd.Boss, Vehicle: cd.Vehicle},
				})
			}
		}
	}

	logger.Info("Scenario loaded",
		"instances", len(file.Instances),
		"players", len(file.Players))
	return nil
}
