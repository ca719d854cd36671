// Package world is an in-memory game host. It owns instances, players and
// creatures and forwards their events to a Hooks implementation.
package world

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/lawnchairsociety/autobalance/internal/host"
	"github.com/lawnchairsociety/autobalance/internal/logger"
	"github.com/lawnchairsociety/autobalance/internal/npc"
)

// Hooks receives world events. Calls are made without any world lock held.
type Hooks interface {
	OnLogin(p host.Player)
	OnPlayerEnter(m host.Map, p host.Player)
	OnPlayerLeave(m host.Map, p host.Player)
	OnPlayerLevelChanged(p host.Player, oldLevel uint8)
	OnGuardianInit(owner host.Player, pet host.Creature)
	OnCreatureSelectLevel(c host.MutableCreature)
	OnCreatureUpdate(c host.MutableCreature)
	OnCreatureRemoved(c host.Creature)
	OnInstanceDestroyed(key host.InstanceKey)
	ModifyDamage(attacker, victim host.Unit, amount uint32) uint32
	OnGiveXP(p host.Player, amount uint32, victim host.Unit) uint32
	OnEncounterCredit(m host.Map, credit host.EncounterCredit, source host.Unit, updated bool)
}

// NopHooks ignores every event.
type NopHooks struct{}

func (NopHooks) OnLogin(host.Player)                        {}
func (NopHooks) OnPlayerEnter(host.Map, host.Player)        {}
func (NopHooks) OnPlayerLeave(host.Map, host.Player)        {}
func (NopHooks) OnPlayerLevelChanged(host.Player, uint8)    {}
func (NopHooks) OnGuardianInit(host.Player, host.Creature)  {}
func (NopHooks) OnCreatureSelectLevel(host.MutableCreature) {}
func (NopHooks) OnCreatureUpdate(host.MutableCreature)      {}
func (NopHooks) OnCreatureRemoved(host.Creature)            {}
func (NopHooks) OnInstanceDestroyed(host.InstanceKey)       {}

func (NopHooks) ModifyDamage(_, _ host.Unit, amount uint32) uint32 {
	return amount
}

func (NopHooks) OnGiveXP(_ host.Player, amount uint32, _ host.Unit) uint32 {
	return amount
}

func (NopHooks) OnEncounterCredit(host.Map, host.EncounterCredit, host.Unit, bool) {}

// World holds every live instance, player and creature.
type World struct {
	instances map[host.InstanceKey]*Instance
	players   map[uint64]*Player
	creatures map[uint64]*Creature
	mu        sync.RWMutex

	hooks    atomic.Value // Hooks
	stats    host.StatsProvider
	nextGUID atomic.Uint64
}

// New creates an empty world. stats is used to roll template stats on spawn.
func New(stats host.StatsProvider) *World {
	w := &World{
		instances: make(map[host.InstanceKey]*Instance),
		players:   make(map[uint64]*Player),
		creatures: make(map[uint64]*Creature),
		stats:     stats,
	}
	w.hooks.Store(hooksBox{NopHooks{}})
	return w
}

// hooksBox keeps the atomic.Value's concrete type stable.
type hooksBox struct{ Hooks }

// SetHooks installs the event receiver.
func (w *World) SetHooks(h Hooks) {
	if h == nil {
		h = NopHooks{}
	}
	w.hooks.Store(hooksBox{h})
}

func (w *World) h() Hooks {
	return w.hooks.Load().(hooksBox).Hooks
}

func (w *World) guid() uint64 {
	return w.nextGUID.Add(1)
}

// CreateInstance adds an instance. It fails if the key is already live.
func (w *World) CreateInstance(def InstanceDef) (*Instance, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.instances[def.Key]; exists {
		return nil, fmt.Errorf("instance %s already exists", def.Key)
	}
	inst := newInstance(def)
	w.instances[def.Key] = inst
	logger.Debug("Instance created", "instance", def.Key.String(), "name", def.Name)
	return inst, nil
}

// Instance finds a live instance.
func (w *World) Instance(key host.InstanceKey) (*Instance, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	inst, ok := w.instances[key]
	return inst, ok
}

// Instances lists live instances in key order.
func (w *World) Instances() []*Instance {
	w.mu.RLock()
	list := make([]*Instance, 0, len(w.instances))
	for _, inst := range w.instances {
		list = append(list, inst)
	}
	w.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].Key(), list[j].Key()
		if a.MapID != b.MapID {
			return a.MapID < b.MapID
		}
		return a.InstanceID < b.InstanceID
	})
	return list
}

// DestroyInstance removes players and creatures from an instance, then
// drops it.
func (w *World) DestroyInstance(key host.InstanceKey) error {
	inst, ok := w.Instance(key)
	if !ok {
		return fmt.Errorf("instance %s not found", key)
	}
	for _, p := range inst.Players() {
		w.Leave(p.(*Player))
	}
	for _, c := range inst.Creatures() {
		w.Despawn(c)
	}

	w.mu.Lock()
	delete(w.instances, key)
	w.mu.Unlock()

	w.h().OnInstanceDestroyed(key)
	return nil
}

// LookupMap finds a live instance as a host.Map.
func (w *World) LookupMap(key host.InstanceKey) (host.Map, bool) {
	inst, ok := w.Instance(key)
	if !ok {
		return nil, false
	}
	return inst, true
}

// AddPlayer logs a new character in. The player starts outside any
// instance.
func (w *World) AddPlayer(name string, level uint8, gm bool) *Player {
	p := newPlayer(w.guid(), name, level, gm)
	w.mu.Lock()
	w.players[p.guid] = p
	w.mu.Unlock()

	w.h().OnLogin(p)
	return p
}

// Player finds a player by GUID.
func (w *World) Player(guid uint64) (*Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.players[guid]
	return p, ok
}

// FindPlayer finds a player by case-insensitive name.
func (w *World) FindPlayer(name string) (*Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, p := range w.players {
		if strings.EqualFold(p.name, name) {
			return p, true
		}
	}
	return nil, false
}

// Enter moves a player (and their pet) into an instance, leaving the
// current one first.
func (w *World) Enter(p *Player, inst *Instance) {
	if p.Instance() != nil {
		w.Leave(p)
	}
	inst.addPlayer(p)
	p.setInstance(inst)
	if pet := p.petCreature(); pet != nil {
		pet.setInstance(inst)
	}
	w.h().OnPlayerEnter(inst, p)
}

// Leave takes a player out of their instance. The leave hook runs while the
// player is still listed, so counts include them.
func (w *World) Leave(p *Player) {
	inst := p.Instance()
	if inst == nil {
		return
	}
	w.h().OnPlayerLeave(inst, p)
	inst.removePlayer(p)
	p.setInstance(nil)
	if pet := p.petCreature(); pet != nil {
		pet.setInstance(nil)
	}
}

// SetPlayerLevel changes a player's level and fires the level hook.
func (w *World) SetPlayerLevel(p *Player, level uint8) {
	old := p.Level()
	if old == level {
		return
	}
	p.setLevel(level)
	w.h().OnPlayerLevelChanged(p, old)
}

// SpawnOptions configures a spawned creature.
type SpawnOptions struct {
	AreaID uint32
	Flags  CreatureFlags
}

// Spawn creates a creature in an instance and lets the hooks pick its level.
func (w *World) Spawn(inst *Instance, tpl *npc.Template, opts SpawnOptions) *Creature {
	c := newCreature(w.guid(), tpl, inst, opts.AreaID, opts.Flags, w.stats)
	w.mu.Lock()
	w.creatures[c.guid] = c
	w.mu.Unlock()
	inst.addCreature(c)

	w.h().OnCreatureSelectLevel(c)
	return c
}

// SummonPet gives a player a controlled pet in their current instance.
func (w *World) SummonPet(owner *Player, tpl *npc.Template, hunter bool) (*Creature, error) {
	inst := owner.Instance()
	if inst == nil {
		return nil, fmt.Errorf("player %s is not in an instance", owner.name)
	}
	if old := owner.petCreature(); old != nil {
		w.Despawn(old)
	}
	flags := CreatureFlags{Pet: true, HunterPet: hunter, ControlledByPlayer: true}
	c := newCreature(w.guid(), tpl, inst, 0, flags, w.stats)
	c.owner = owner
	w.mu.Lock()
	w.creatures[c.guid] = c
	w.mu.Unlock()
	owner.setPet(c)

	w.h().OnGuardianInit(owner, c)
	return c, nil
}

// Creature finds a creature by GUID.
func (w *World) Creature(guid uint64) (*Creature, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.creatures[guid]
	return c, ok
}

// LookupCreature finds a creature as a host.Creature.
func (w *World) LookupCreature(guid uint64) (host.Creature, bool) {
	c, ok := w.Creature(guid)
	if !ok {
		return nil, false
	}
	return c, true
}

// Despawn removes a creature from the world.
func (w *World) Despawn(c *Creature) {
	w.mu.Lock()
	delete(w.creatures, c.guid)
	w.mu.Unlock()
	if inst := c.Instance(); inst != nil {
		inst.removeCreature(c)
	}
	if c.owner != nil {
		c.owner.setPet(nil)
	}
	c.setInstance(nil)
	w.h().OnCreatureRemoved(c)
}

// Update runs one creature update tick over every instance. Dead
// creatures get the hook too so entry changes are seen before respawn.
func (w *World) Update() {
	for _, inst := range w.Instances() {
		for _, c := range inst.Creatures() {
			w.h().OnCreatureUpdate(c)
			if c.StatsDirty() {
				c.recalcStats()
			}
		}
	}
}

// Attack makes a creature hit a player's pet or another creature, or a
// player hit a creature. The hooks may change the amount. Returns the
// amount dealt.
func (w *World) Attack(attacker host.Unit, victim *Creature, amount uint32) uint32 {
	amount = w.h().ModifyDamage(attacker, victim, amount)
	if !victim.takeDamage(amount) {
		return amount
	}

	logger.Debug("Creature killed", "guid", victim.guid, "entry", victim.Entry())
	inst := victim.Instance()
	if inst == nil {
		return amount
	}
	if victim.IsDungeonBoss() {
		w.h().OnEncounterCredit(inst, host.CreditKillCreature, victim, true)
	}
	if p, ok := attacker.(*Player); ok {
		w.GiveXP(p, xpForKill(victim), victim)
	}
	return amount
}

// HitPlayer makes a creature hit a player. The hooks may change the amount.
// Players don't die in the sandbox; the damage is only tallied.
func (w *World) HitPlayer(attacker *Creature, victim *Player, amount uint32) uint32 {
	amount = w.h().ModifyDamage(attacker, victim, amount)
	victim.addDamageTaken(amount)
	return amount
}

// Heal makes a unit heal a creature. The hooks may change the amount.
func (w *World) Heal(healer host.Unit, target *Creature, amount uint32) uint32 {
	amount = w.h().ModifyDamage(healer, target, amount)
	target.heal(amount)
	return amount
}

// GiveXP grants experience after the hooks adjust it.
func (w *World) GiveXP(p *Player, amount uint32, victim host.Unit) uint32 {
	amount = w.h().OnGiveXP(p, amount, victim)
	p.addXP(amount)
	return amount
}

// xpForKill is a flat per-level kill reward.
func xpForKill(c *Creature) uint32 {
	return uint32(c.Level())*5 + 45
}

// SendSysMessage implements host.Notifier.
func (w *World) SendSysMessage(p host.Player, msg string) {
	if wp, ok := p.(*Player); ok {
		wp.addMessage(msg)
	}
}

// AddItem implements host.ItemSink.
func (w *World) AddItem(p host.Player, item uint32, count uint32) bool {
	wp, ok := p.(*Player)
	if !ok || count == 0 {
		return false
	}
	wp.addItem(item, count)
	return true
}

// SetImmunity implements host.ImmunitySink.
func (w *World) SetImmunity(u host.Unit, spellID uint32, apply bool) {
	switch v := u.(type) {
	case *Player:
		v.setImmunity(spellID, apply)
	case *Creature:
		v.setImmunity(spellID, apply)
	}
}
