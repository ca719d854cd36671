package world

import (
	"sync"

	"github.com/lawnchairsociety/autobalance/internal/host"
	"github.com/lawnchairsociety/autobalance/internal/npc"
)

// CreatureFlags marks special creature kinds.
type CreatureFlags struct {
	Pet                bool
	HunterPet          bool
	Summon             bool
	Vehicle            bool
	ControlledByPlayer bool
	DungeonBoss        bool
}

// Creature is a live NPC. It implements host.MutableCreature.
type Creature struct {
	guid  uint64
	flags CreatureFlags
	owner *Player

	mu         sync.RWMutex
	inst       *Instance
	tpl        *npc.Template
	level      uint8
	alive      bool
	areaID     uint32
	health     uint32
	maxHealth  uint32
	mana       uint32
	maxMana    uint32
	armor      uint32
	power      host.PowerType
	statsDirty bool
	recalcs    uint32
	immunities map[uint32]bool
}

func newCreature(guid uint64, tpl *npc.Template, inst *Instance, areaID uint32, flags CreatureFlags, stats host.StatsProvider) *Creature {
	c := &Creature{
		guid:       guid,
		flags:      flags,
		inst:       inst,
		tpl:        tpl,
		level:      tpl.MaxLevel,
		alive:      true,
		areaID:     areaID,
		immunities: make(map[uint32]bool),
	}
	c.resetStats(stats)
	return c
}

// resetStats fills health, mana and armor from the template at the
// creature's current level.
func (c *Creature) resetStats(stats host.StatsProvider) {
	if stats == nil {
		c.maxHealth, c.health = 1, 1
		return
	}
	base := stats.Lookup(c.level, c.tpl.UnitClass)
	c.maxHealth = uint32(base.GenerateHealth(c.tpl))
	if c.maxHealth == 0 {
		c.maxHealth = 1
	}
	c.health = c.maxHealth
	c.maxMana = uint32(base.GenerateMana(c.tpl))
	c.mana = c.maxMana
	c.armor = uint32(base.GenerateArmor(c.tpl))
	if c.maxMana > 0 {
		c.power = host.PowerMana
	} else {
		c.power = host.PowerRage
	}
}

func (c *Creature) GUID() uint64 {
	return c.guid
}

func (c *Creature) IsPlayer() bool {
	return false
}

func (c *Creature) IsInWorld() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inst != nil
}

// Map returns the creature's instance, or nil if it has none.
func (c *Creature) Map() host.Map {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.inst == nil {
		return nil
	}
	return c.inst
}

// Instance returns the concrete instance the creature lives in.
func (c *Creature) Instance() *Instance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inst
}

func (c *Creature) setInstance(inst *Instance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inst = inst
}

// Owner returns the controlling player of a pet, or nil.
func (c *Creature) Owner() *Player {
	return c.owner
}

func (c *Creature) Entry() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tpl.Entry
}

func (c *Creature) Template() *npc.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tpl
}

// UpdateEntry swaps the creature's template, as scripted encounters do when
// a creature changes form.
func (c *Creature) UpdateEntry(tpl *npc.Template, stats host.StatsProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tpl = tpl
	c.level = tpl.MaxLevel
	c.resetStats(stats)
}

func (c *Creature) Level() uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.level
}

func (c *Creature) IsAlive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.alive
}

func (c *Creature) AreaID() uint32 {
	return c.areaID
}

func (c *Creature) IsPet() bool {
	return c.flags.Pet
}

func (c *Creature) IsHunterPet() bool {
	return c.flags.HunterPet
}

func (c *Creature) IsSummon() bool {
	return c.flags.Summon
}

func (c *Creature) IsVehicle() bool {
	return c.flags.Vehicle
}

func (c *Creature) IsControlledByPlayer() bool {
	return c.flags.ControlledByPlayer
}

func (c *Creature) IsDungeonBoss() bool {
	return c.flags.DungeonBoss
}

func (c *Creature) Health() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.health
}

func (c *Creature) MaxHealth() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxHealth
}

func (c *Creature) Mana() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mana
}

func (c *Creature) MaxMana() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxMana
}

func (c *Creature) Armor() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.armor
}

func (c *Creature) PowerType() host.PowerType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.power
}

func (c *Creature) SetLevel(level uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level = level
}

func (c *Creature) SetArmor(armor uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.armor = armor
}

func (c *Creature) SetMaxHealth(health uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxHealth = health
	if c.health > health {
		c.health = health
	}
}

func (c *Creature) SetHealth(health uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if health > c.maxHealth {
		health = c.maxHealth
	}
	c.health = health
}

func (c *Creature) SetMaxMana(mana uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxMana = mana
	if c.mana > mana {
		c.mana = mana
	}
}

func (c *Creature) SetMana(mana uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if mana > c.maxMana {
		mana = c.maxMana
	}
	c.mana = mana
}

func (c *Creature) SetPowerType(p host.PowerType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.power = p
}

// UpdateAllStats marks derived stats for recalculation on the next tick.
func (c *Creature) UpdateAllStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statsDirty = true
}

// StatsDirty reports and clears the pending recalculation flag.
func (c *Creature) StatsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	dirty := c.statsDirty
	c.statsDirty = false
	return dirty
}

// recalcStats settles derived stats after a batch of setter calls. Only
// mana users keep a mana pool.
func (c *Creature) recalcStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.power != host.PowerMana {
		c.maxMana = 0
		c.mana = 0
	}
	if c.health > c.maxHealth {
		c.health = c.maxHealth
	}
	c.recalcs++
}

// StatRecalcs counts the stat recalculations the world has run.
func (c *Creature) StatRecalcs() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.recalcs
}

// HasImmunity reports whether an immunity spell is active on the creature.
func (c *Creature) HasImmunity(spellID uint32) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.immunities[spellID]
}

func (c *Creature) setImmunity(spellID uint32, apply bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if apply {
		c.immunities[spellID] = true
	} else {
		delete(c.immunities, spellID)
	}
}

// takeDamage lowers health and reports whether the creature died.
func (c *Creature) takeDamage(amount uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.alive {
		return false
	}
	if amount >= c.health {
		c.health = 0
		c.alive = false
		return true
	}
	c.health -= amount
	return false
}

// heal raises health up to the maximum.
func (c *Creature) heal(amount uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.alive {
		return
	}
	if c.maxHealth-c.health < amount {
		c.health = c.maxHealth
		return
	}
	c.health += amount
}
