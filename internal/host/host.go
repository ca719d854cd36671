// Package host declares what the scaling core needs from the game engine.
// The engine owns every instance, player and creature; the core only holds
// these handles for the duration of one call.
package host

import (
	"fmt"

	"github.com/lawnchairsociety/autobalance/internal/npc"
)

// InstanceKey identifies one live copy of a map.
type InstanceKey struct {
	MapID      uint32
	InstanceID uint32
}

func (k InstanceKey) String() string {
	return fmt.Sprintf("%d:%d", k.MapID, k.InstanceID)
}

// PowerType is the resource pool a creature uses.
type PowerType uint8

const (
	PowerMana PowerType = iota
	PowerRage
	PowerFocus
	PowerEnergy
)

// EncounterCredit is how an encounter step was completed.
type EncounterCredit uint8

const (
	CreditKillCreature EncounterCredit = iota
	CreditCastSpell
)

// Map is a world map or a dungeon/raid/battleground instance.
type Map interface {
	Key() InstanceKey
	Name() string
	IsDungeon() bool // true for both 5-player dungeons and raids
	IsRaid() bool
	IsBattleground() bool
	IsHeroic() bool
	Difficulty() uint8
	// MaxPlayers is the instance's natural party size.
	MaxPlayers() uint32
	Players() []Player
	// PlayersCountExceptGMs counts players that are not game masters.
	PlayersCountExceptGMs() uint32
	// AreaLevel returns the recommended level range for an area of the map,
	// zero when unknown.
	AreaLevel(areaID uint32) (minLevel, maxLevel uint8)
}

// Unit is anything that can deal or take damage.
type Unit interface {
	GUID() uint64
	IsPlayer() bool
	IsInWorld() bool
	Map() Map
}

// Player is a connected character.
type Player interface {
	Unit
	Name() string
	Level() uint8
	IsGameMaster() bool
	IsInCombat() bool
	// Pet returns the player's active pet, or nil.
	Pet() Creature
}

// Creature is a non-player unit.
type Creature interface {
	Unit
	Entry() uint32
	Template() *npc.Template
	Level() uint8
	IsAlive() bool
	AreaID() uint32

	IsPet() bool
	IsHunterPet() bool
	IsSummon() bool
	IsVehicle() bool
	IsControlledByPlayer() bool
	IsDungeonBoss() bool

	Health() uint32
	MaxHealth() uint32
	Mana() uint32
	MaxMana() uint32
	PowerType() PowerType
}

// MutableCreature is the mutation sink for computed scaling results.
type MutableCreature interface {
	Creature
	SetLevel(level uint8)
	SetArmor(armor uint32)
	SetMaxHealth(health uint32)
	SetHealth(health uint32)
	SetMaxMana(mana uint32)
	SetMana(mana uint32)
	SetPowerType(p PowerType)
	UpdateAllStats()
}

// Notifier delivers human-readable system messages to a player.
type Notifier interface {
	SendSysMessage(p Player, msg string)
}

// ItemSink grants items to players.
type ItemSink interface {
	AddItem(p Player, item uint32, count uint32) bool
}

// ImmunitySink grants or strips an immunity spell on a unit.
type ImmunitySink interface {
	SetImmunity(u Unit, spellID uint32, apply bool)
}

// StatsProvider returns class base stats for a level.
type StatsProvider interface {
	Lookup(level uint8, class npc.UnitClass) npc.BaseStats
}

// IsPlayerMinion reports whether c is a pet, summon or vehicle controlled by
// a player. Those are never rescaled.
func IsPlayerMinion(c Creature) bool {
	return (c.IsHunterPet() || c.IsPet() || c.IsSummon() || c.IsVehicle()) && c.IsControlledByPlayer()
}

// NopNotifier drops every message.
type NopNotifier struct{}

// SendSysMessage implements Notifier.
func (NopNotifier) SendSysMessage(Player, string) {}
