package world

import (
	"sync"

	"github.com/lawnchairsociety/autobalance/internal/host"
)

// InstanceType classifies a map.
type InstanceType uint8

const (
	TypeWorld InstanceType = iota
	TypeDungeon
	TypeRaid
	TypeBattleground
)

// ParseInstanceType converts a scenario string to an InstanceType.
func ParseInstanceType(s string) (InstanceType, bool) {
	switch s {
	case "world", "":
		return TypeWorld, true
	case "dungeon":
		return TypeDungeon, true
	case "raid":
		return TypeRaid, true
	case "battleground", "bg":
		return TypeBattleground, true
	default:
		return TypeWorld, false
	}
}

// AreaRange is the recommended level range of an area.
type AreaRange struct {
	Min uint8
	Max uint8
}

// InstanceDef describes an instance to create.
type InstanceDef struct {
	Key        host.InstanceKey
	Name       string
	Type       InstanceType
	Heroic     bool
	Difficulty uint8
	MaxPlayers uint32
	Areas      map[uint32]AreaRange
}

// Instance is one live copy of a map. It implements host.Map.
type Instance struct {
	def       InstanceDef
	players   []*Player
	creatures []*Creature
	mu        sync.RWMutex
}

func newInstance(def InstanceDef) *Instance {
	if def.Areas == nil {
		def.Areas = make(map[uint32]AreaRange)
	}
	return &Instance{
		def:       def,
		players:   make([]*Player, 0),
		creatures: make([]*Creature, 0),
	}
}

func (i *Instance) Key() host.InstanceKey {
	return i.def.Key
}

func (i *Instance) Name() string {
	return i.def.Name
}

func (i *Instance) Type() InstanceType {
	return i.def.Type
}

// IsDungeon is true for 5-player dungeons and raids alike.
func (i *Instance) IsDungeon() bool {
	return i.def.Type == TypeDungeon || i.def.Type == TypeRaid
}

func (i *Instance) IsRaid() bool {
	return i.def.Type == TypeRaid
}

func (i *Instance) IsBattleground() bool {
	return i.def.Type == TypeBattleground
}

func (i *Instance) IsHeroic() bool {
	return i.def.Heroic
}

func (i *Instance) Difficulty() uint8 {
	return i.def.Difficulty
}

func (i *Instance) MaxPlayers() uint32 {
	return i.def.MaxPlayers
}

// AreaLevel returns the level range of an area, zero when unknown.
func (i *Instance) AreaLevel(areaID uint32) (uint8, uint8) {
	r := i.def.Areas[areaID]
	return r.Min, r.Max
}

// Players returns a copy of the players in this instance.
func (i *Instance) Players() []host.Player {
	i.mu.RLock()
	defer i.mu.RUnlock()
	players := make([]host.Player, len(i.players))
	for n, p := range i.players {
		players[n] = p
	}
	return players
}

// PlayersCountExceptGMs counts the players that are not game masters.
func (i *Instance) PlayersCountExceptGMs() uint32 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	var n uint32
	for _, p := range i.players {
		if !p.IsGameMaster() {
			n++
		}
	}
	return n
}

// Creatures returns a copy of the creatures in this instance.
func (i *Instance) Creatures() []*Creature {
	i.mu.RLock()
	defer i.mu.RUnlock()
	creatures := make([]*Creature, len(i.creatures))
	copy(creatures, i.creatures)
	return creatures
}

func (i *Instance) addPlayer(p *Player) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.players = append(i.players, p)
}

func (i *Instance) removePlayer(p *Player) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for n, other := range i.players {
		if other == p {
			i.players = append(i.players[:n], i.players[n+1:]...)
			return
		}
	}
}

func (i *Instance) addCreature(c *Creature) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.creatures = append(i.creatures, c)
}

func (i *Instance) removeCreature(c *Creature) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for n, other := range i.creatures {
		if other == c {
			i.creatures = append(i.creatures[:n], i.creatures[n+1:]...)
			return
		}
	}
}
