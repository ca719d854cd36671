package world

import (
	"sync"

	"github.com/lawnchairsociety/autobalance/internal/host"
)

// Player is a connected character. It implements host.Player.
type Player struct {
	guid uint64
	name string

	mu         sync.RWMutex
	level      uint8
	gm         bool
	inCombat   bool
	inst       *Instance
	pet        *Creature
	xp         uint64
	damage     uint64
	messages   []string
	items      map[uint32]uint32
	immunities map[uint32]bool
}

func newPlayer(guid uint64, name string, level uint8, gm bool) *Player {
	return &Player{
		guid:       guid,
		name:       name,
		level:      level,
		gm:         gm,
		messages:   make([]string, 0),
		items:      make(map[uint32]uint32),
		immunities: make(map[uint32]bool),
	}
}

func (p *Player) GUID() uint64 {
	return p.guid
}

func (p *Player) IsPlayer() bool {
	return true
}

func (p *Player) IsInWorld() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.inst != nil
}

// Map returns the player's current instance, or nil.
func (p *Player) Map() host.Map {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.inst == nil {
		return nil
	}
	return p.inst
}

// Instance returns the concrete instance the player is in, or nil.
func (p *Player) Instance() *Instance {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.inst
}

func (p *Player) Name() string {
	return p.name
}

func (p *Player) Level() uint8 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

func (p *Player) IsGameMaster() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gm
}

// SetGameMaster toggles GM mode.
func (p *Player) SetGameMaster(gm bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gm = gm
}

func (p *Player) IsInCombat() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.inCombat
}

// SetInCombat toggles the combat flag.
func (p *Player) SetInCombat(inCombat bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inCombat = inCombat
}

// Pet returns the player's active pet, or nil.
func (p *Player) Pet() host.Creature {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.pet == nil {
		return nil
	}
	return p.pet
}

// XP returns the experience the player has gained this session.
func (p *Player) XP() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.xp
}

// Messages returns a copy of the system messages the player received.
func (p *Player) Messages() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	msgs := make([]string, len(p.messages))
	copy(msgs, p.messages)
	return msgs
}

// ItemCount returns how many of an item the player holds.
func (p *Player) ItemCount(item uint32) uint32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.items[item]
}

// HasImmunity reports whether an immunity spell is active on the player.
func (p *Player) HasImmunity(spellID uint32) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.immunities[spellID]
}

// DamageTaken returns the damage the player has absorbed this session.
func (p *Player) DamageTaken() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.damage
}

func (p *Player) addDamageTaken(amount uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.damage += uint64(amount)
}

func (p *Player) petCreature() *Creature {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pet
}

func (p *Player) setInstance(inst *Instance) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inst = inst
}

func (p *Player) setLevel(level uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
}

func (p *Player) setPet(c *Creature) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pet = c
}

func (p *Player) addXP(amount uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.xp += uint64(amount)
}

func (p *Player) addMessage(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *Player) addItem(item, count uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items[item] += count
}

func (p *Player) setImmunity(spellID uint32, apply bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if apply {
		p.immunities[spellID] = true
	} else {
		delete(p.immunities, spellID)
	}
}
