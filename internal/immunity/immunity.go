// Package immunity grants crowd-control immunities to players (and
// optionally their pets) while a dungeon holds only a few players.
package immunity

import (
	"github.com/lawnchairsociety/autobalance/internal/config"
	"github.com/lawnchairsociety/autobalance/internal/host"
	"github.com/lawnchairsociety/autobalance/internal/logger"
	"github.com/lawnchairsociety/autobalance/internal/text"
)

// BaseSpellID is the immunity spell of the first mechanic. Each mechanic
// in config.MechanicNames gets the next id in order.
const BaseSpellID uint32 = 90000

// SpellID returns the immunity spell for a mechanic name.
func SpellID(mechanic string) (uint32, bool) {
	for i, name := range config.MechanicNames {
		if name == mechanic {
			return BaseSpellID + uint32(i), true
		}
	}
	return 0, false
}

// Spells lists the spell ids of every enabled mechanic, in id order.
func Spells(cfg config.ImmunityConfig) []uint32 {
	ids := make([]uint32, 0, len(config.MechanicNames))
	for i, name := range config.MechanicNames {
		if cfg.MechanicEnabled(name) {
			ids = append(ids, BaseSpellID+uint32(i))
		}
	}
	return ids
}

// Manager applies and removes immunities through the host.
type Manager struct {
	sink     host.ImmunitySink
	notifier host.Notifier
	text     *text.Text
}

// New creates a Manager. A nil notifier drops notices; nil txt uses the
// built-in messages.
func New(sink host.ImmunitySink, notifier host.Notifier, txt *text.Text) *Manager {
	if notifier == nil {
		notifier = host.NopNotifier{}
	}
	if txt == nil {
		txt = text.Default()
	}
	return &Manager{sink: sink, notifier: notifier, text: txt}
}

func (m *Manager) set(cfg *config.Snapshot, u host.Unit, apply bool) {
	for _, id := range Spells(cfg.Immunities) {
		m.sink.SetImmunity(u, id, apply)
	}
}

func (m *Manager) notify(cfg *config.Snapshot, p host.Player, pet, applied bool) {
	if cfg.PlayerChangeNotify {
		m.notifier.SendSysMessage(p, m.text.Immunities(pet, applied))
	}
}

// OnEnter runs after p entered mp and the tracker settled on count. At or
// below the threshold the newcomer is protected; above it everyone present
// loses their immunities. Entering anything but a dungeon clears them.
func (m *Manager) OnEnter(cfg *config.Snapshot, mp host.Map, p host.Player, count uint32) {
	if !cfg.Immunities.Enabled {
		return
	}

	if !mp.IsDungeon() {
		if p != nil {
			m.set(cfg, p, false)
		}
		return
	}

	if count <= cfg.Immunities.MaxPlayers {
		if p != nil {
			m.set(cfg, p, true)
			m.notify(cfg, p, false, true)
			logger.Debug("Immunities applied", "player", p.Name(), "instance", mp.Key().String())
		}
		return
	}

	for _, other := range mp.Players() {
		m.set(cfg, other, false)
		m.notify(cfg, other, false, false)
		if !cfg.Immunities.Pet {
			continue
		}
		if pet := other.Pet(); pet != nil {
			m.set(cfg, pet, false)
			m.notify(cfg, other, true, false)
		}
	}
	logger.Debug("Immunities removed", "instance", mp.Key().String(), "players", count)
}

// OnLeave runs after leaver left mp. When the remaining group is at or
// below the threshold, everyone else (and their pets) is protected.
func (m *Manager) OnLeave(cfg *config.Snapshot, mp host.Map, leaver host.Player, count uint32) {
	if !cfg.Immunities.Enabled || !mp.IsDungeon() || count > cfg.Immunities.MaxPlayers {
		return
	}

	for _, other := range mp.Players() {
		if leaver != nil && other.GUID() == leaver.GUID() {
			continue
		}
		m.set(cfg, other, true)
		m.notify(cfg, other, false, true)
		if !cfg.Immunities.Pet {
			continue
		}
		if pet := other.Pet(); pet != nil {
			m.set(cfg, pet, true)
			m.notify(cfg, other, true, true)
		}
	}
}

// OnGuardianInit protects or exposes a freshly initialized pet from the
// instance's live non-GM count.
func (m *Manager) OnGuardianInit(cfg *config.Snapshot, owner host.Player, pet host.Creature) {
	if !cfg.Immunities.Enabled || !cfg.Immunities.Pet || pet == nil || !pet.IsPet() {
		return
	}
	mp := pet.Map()
	if mp == nil {
		return
	}

	if mp.IsDungeon() && mp.PlayersCountExceptGMs() <= cfg.Immunities.MaxPlayers {
		m.set(cfg, pet, true)
		if owner != nil {
			m.notify(cfg, owner, true, true)
		}
		return
	}

	m.set(cfg, pet, false)
	if owner != nil && mp.IsDungeon() {
		m.notify(cfg, owner, true, false)
	}
}
