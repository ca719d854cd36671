// Package autobalance wires the scaling core to a game host. Each host
// event reads the current config snapshot once and passes it down.
package autobalance

import (
	"github.com/lawnchairsociety/autobalance/internal/config"
	"github.com/lawnchairsociety/autobalance/internal/damage"
	"github.com/lawnchairsociety/autobalance/internal/host"
	"github.com/lawnchairsociety/autobalance/internal/immunity"
	"github.com/lawnchairsociety/autobalance/internal/leveling"
	"github.com/lawnchairsociety/autobalance/internal/logger"
	"github.com/lawnchairsociety/autobalance/internal/metrics"
	"github.com/lawnchairsociety/autobalance/internal/reward"
	"github.com/lawnchairsociety/autobalance/internal/scaling"
	"github.com/lawnchairsociety/autobalance/internal/text"
	"github.com/lawnchairsociety/autobalance/internal/tracker"
)

// Sinks is everything the module asks the host to do.
type Sinks interface {
	host.Notifier
	host.ItemSink
	host.ImmunitySink
}

// Module receives host events and drives the tracker, the scaling engine
// and the supplementary features.
type Module struct {
	store      *config.Store
	text       *text.Text
	notifier   host.Notifier
	tracker    *tracker.Tracker
	engine     *scaling.Engine
	damage     *damage.Filter
	immunities *immunity.Manager
	rewards    *reward.Granter
}

// New builds a Module. ledger may be nil; txt nil uses the built-in
// messages.
func New(store *config.Store, stats host.StatsProvider, sinks Sinks, txt *text.Text, ledger reward.Ledger, observers ...scaling.Observer) *Module {
	if txt == nil {
		txt = text.Default()
	}
	t := tracker.New(sinks, txt)
	engine := scaling.NewEngine(stats, t, scaling.NewStateTable(), observers...)

	m := &Module{
		store:      store,
		text:       txt,
		notifier:   sinks,
		tracker:    t,
		engine:     engine,
		damage:     damage.New(engine.State()),
		immunities: immunity.New(sinks, sinks, txt),
		rewards:    reward.New(sinks, sinks, txt, ledger),
	}
	m.OnConfigLoad(store.Current())
	return m
}

// Config returns the published snapshot.
func (m *Module) Config() *config.Snapshot {
	return m.store.Current()
}

// Store returns the config store.
func (m *Module) Store() *config.Store {
	return m.store
}

// Tracker returns the population tracker.
func (m *Module) Tracker() *tracker.Tracker {
	return m.tracker
}

// Engine returns the scaling engine.
func (m *Module) Engine() *scaling.Engine {
	return m.engine
}

// OnConfigLoad applies the side effects of a new snapshot.
func (m *Module) OnConfigLoad(cfg *config.Snapshot) {
	logger.SetDebugLevel(cfg.DebugLevel)
	logger.Info("AutoBalance config loaded",
		"enabled", cfg.Enabled,
		"dungeons_only", cfg.DungeonsOnly,
		"level_scaling", cfg.Level.Scaling,
		"offset", cfg.PlayerCountOffset,
		"forced_ids", cfg.Forced.Len())
}

// Reload re-reads the config file. On error the previous snapshot stays.
// Creatures pick up the new values on their next update.
func (m *Module) Reload() error {
	cfg, err := m.store.Reload()
	if err != nil {
		metrics.ConfigReloads.WithLabelValues(metrics.ResultError).Inc()
		logger.Error("Config reload failed, keeping previous settings", "path", m.store.Path(), "error", err)
		return err
	}
	metrics.ConfigReloads.WithLabelValues(metrics.ResultOK).Inc()
	m.OnConfigLoad(cfg)
	return nil
}

// SetPlayerCountOffset publishes a new global difficulty offset.
func (m *Module) SetPlayerCountOffset(offset int) {
	m.store.SetPlayerCountOffset(offset)
	logger.Info("Player difficulty offset changed", "offset", offset)
}

// OnLogin sends the announcement.
func (m *Module) OnLogin(p host.Player) {
	cfg := m.store.Current()
	if cfg.Enabled && cfg.Announce {
		m.notifier.SendSysMessage(p, m.text.Announce())
	}
}

// OnPlayerEnter updates the population and the newcomer's immunities.
func (m *Module) OnPlayerEnter(mp host.Map, p host.Player) {
	cfg := m.store.Current()
	res := m.tracker.OnPlayerEnter(cfg, mp, p)
	if !res.Handled {
		return
	}
	metrics.TrackerEvents.WithLabelValues(metrics.EventEnter).Inc()
	metrics.TrackedInstances.Set(float64(len(m.tracker.Keys())))

	if cfg.Immunities.Enabled {
		metrics.ImmunityChanges.WithLabelValues(metrics.KindEnter).Inc()
		m.immunities.OnEnter(cfg, mp, p, res.Info.PlayerCount)
	}
}

// OnPlayerLeave updates the population. Runs while the leaving player is
// still listed in the map.
func (m *Module) OnPlayerLeave(mp host.Map, p host.Player) {
	cfg := m.store.Current()
	res := m.tracker.OnPlayerLeave(cfg, mp, p)
	if !res.Handled {
		return
	}
	metrics.TrackerEvents.WithLabelValues(metrics.EventLeave).Inc()
	if res.CountPreserved {
		metrics.TrackerEvents.WithLabelValues(metrics.EventCountPreserved).Inc()
	}
	if res.Vacated {
		metrics.TrackerEvents.WithLabelValues(metrics.EventVacated).Inc()
		return
	}

	if cfg.Immunities.Enabled {
		metrics.ImmunityChanges.WithLabelValues(metrics.KindLeave).Inc()
		m.immunities.OnLeave(cfg, mp, p, res.Info.PlayerCount)
	}
}

// OnPlayerLevelChanged raises the observed level of the player's map.
func (m *Module) OnPlayerLevelChanged(p host.Player, _ uint8) {
	mp := p.Map()
	if mp == nil {
		return
	}
	m.tracker.OnPlayerLevelChange(m.store.Current(), mp, p, p.Level())
	metrics.TrackerEvents.WithLabelValues(metrics.EventLevelChange).Inc()
}

// OnGuardianInit sets a new pet's immunities.
func (m *Module) OnGuardianInit(owner host.Player, pet host.Creature) {
	cfg := m.store.Current()
	if cfg.Immunities.Enabled && cfg.Immunities.Pet {
		metrics.ImmunityChanges.WithLabelValues(metrics.KindPet).Inc()
	}
	m.immunities.OnGuardianInit(cfg, owner, pet)
}

// OnCreatureSelectLevel scales a creature as it spawns, choosing its level
// from scratch.
func (m *Module) OnCreatureSelectLevel(c host.MutableCreature) {
	m.scale(c, true)
}

// OnCreatureUpdate rescales a creature if the population or level moved.
func (m *Module) OnCreatureUpdate(c host.MutableCreature) {
	m.scale(c, false)
}

func (m *Module) scale(c host.MutableCreature, resetLevel bool) scaling.Result {
	r := m.engine.Recompute(m.store.Current(), c, resetLevel)
	scaling.Apply(c, r)
	metrics.ObserveRecompute(r.Outcome.String(), string(r.Reason))
	metrics.TrackedCreatures.Set(float64(m.engine.State().Len()))
	return r
}

// Rescale runs one pass over c outside the normal update cycle.
func (m *Module) Rescale(c host.MutableCreature) scaling.Result {
	return m.scale(c, false)
}

// OnCreatureRemoved drops the creature's scaling record.
func (m *Module) OnCreatureRemoved(c host.Creature) {
	m.engine.State().Forget(c.GUID())
	metrics.TrackedCreatures.Set(float64(m.engine.State().Len()))
}

// OnInstanceDestroyed drops the instance's population record.
func (m *Module) OnInstanceDestroyed(key host.InstanceKey) {
	m.tracker.Forget(key)
	metrics.TrackedInstances.Set(float64(len(m.tracker.Keys())))
}

// ModifyDamage scales damage and healing done by a scaled creature.
func (m *Module) ModifyDamage(attacker, victim host.Unit, amount uint32) uint32 {
	out := m.damage.AdjustDamage(m.store.Current(), attacker, victim, amount)
	if out != amount {
		metrics.DamageAdjusted.Inc()
	}
	return out
}

// OnGiveXP scales kill experience in dungeons down for small groups.
func (m *Module) OnGiveXP(p host.Player, amount uint32, victim host.Unit) uint32 {
	out := leveling.AdjustKillXP(m.store.Current(), p, amount, victim)
	if out != amount {
		metrics.XPScaled.Inc()
	}
	return out
}

// OnEncounterCredit hands out end-game tokens for a boss kill.
func (m *Module) OnEncounterCredit(mp host.Map, credit host.EncounterCredit, source host.Unit, updated bool) {
	cfg := m.store.Current()
	mapLevel := m.tracker.Info(mp.Key()).MaxObservedLevel
	res, err := m.rewards.OnEncounterCredit(cfg, mp, credit, source, updated, mapLevel)
	if err != nil {
		metrics.LedgerErrors.Inc()
		logger.Error("Failed to record encounter reward", "instance", mp.Key().String(), "error", err)
	}
	if res.Skipped != "" {
		metrics.RewardSkips.WithLabelValues(res.Skipped).Inc()
		logger.Debug("Encounter reward skipped", "instance", mp.Key().String(), "reason", res.Skipped)
		return
	}
	metrics.RewardGrants.Add(float64(len(res.Grants)))
}
