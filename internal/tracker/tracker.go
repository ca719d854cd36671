// Package tracker keeps the per-instance population and level record that
// the scaling engine reads.
package tracker

import (
	"sort"
	"sync"

	"github.com/lawnchairsociety/autobalance/internal/config"
	"github.com/lawnchairsociety/autobalance/internal/host"
	"github.com/lawnchairsociety/autobalance/internal/logger"
	"github.com/lawnchairsociety/autobalance/internal/text"
)

// ZoneInstanceInfo is the tracked state of one instance.
type ZoneInstanceInfo struct {
	// PlayerCount is the number of non-GM players the instance is scaled for.
	PlayerCount uint32
	// MaxObservedLevel is the highest non-GM player level seen since the
	// instance was last empty.
	MaxObservedLevel uint8
}

type record struct {
	mu   sync.Mutex
	info ZoneInstanceInfo
}

// EnterResult describes the effect of a player entering an instance.
type EnterResult struct {
	Info    ZoneInstanceInfo
	Handled bool
}

// LeaveResult describes the effect of a player leaving an instance.
type LeaveResult struct {
	Info    ZoneInstanceInfo
	Handled bool
	// CountPreserved is set when someone in the instance was fighting, so
	// the count was left as is.
	CountPreserved bool
	// Vacated is set when no players remain.
	Vacated bool
}

// Tracker owns every ZoneInstanceInfo. It is safe for concurrent use;
// events for different instances don't contend.
type Tracker struct {
	mu       sync.RWMutex
	zones    map[host.InstanceKey]*record
	notifier host.Notifier
	text     *text.Text
}

// New creates a tracker. A nil notifier drops notices; nil txt uses the
// built-in messages.
func New(notifier host.Notifier, txt *text.Text) *Tracker {
	if notifier == nil {
		notifier = host.NopNotifier{}
	}
	if txt == nil {
		txt = text.Default()
	}
	return &Tracker{
		zones:    make(map[host.InstanceKey]*record),
		notifier: notifier,
		text:     txt,
	}
}

func (t *Tracker) record(key host.InstanceKey) *record {
	t.mu.RLock()
	r, ok := t.zones[key]
	t.mu.RUnlock()
	if ok {
		return r
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok = t.zones[key]; !ok {
		r = &record{}
		t.zones[key] = r
	}
	return r
}

// Info returns the tracked state of an instance, creating it on first use.
func (t *Tracker) Info(key host.InstanceKey) ZoneInstanceInfo {
	r := t.record(key)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info
}

// Snapshot returns the tracked state of the instance m.
func (t *Tracker) Snapshot(m host.Map) ZoneInstanceInfo {
	return t.Info(m.Key())
}

// Forget drops the record of a destroyed instance.
func (t *Tracker) Forget(key host.InstanceKey) {
	t.mu.Lock()
	delete(t.zones, key)
	t.mu.Unlock()
}

// Keys lists every tracked instance in map, then instance order.
func (t *Tracker) Keys() []host.InstanceKey {
	t.mu.RLock()
	keys := make([]host.InstanceKey, 0, len(t.zones))
	for k := range t.zones {
		keys = append(keys, k)
	}
	t.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].MapID != keys[j].MapID {
			return keys[i].MapID < keys[j].MapID
		}
		return keys[i].InstanceID < keys[j].InstanceID
	})
	return keys
}

// OnPlayerEnter refreshes the count from the host and raises the observed
// level. A nil player means a mass sync over everyone present.
func (t *Tracker) OnPlayerEnter(cfg *config.Snapshot, m host.Map, p host.Player) EnterResult {
	if !cfg.Enabled || (p != nil && p.IsGameMaster()) {
		return EnterResult{}
	}

	r := t.record(m.Key())
	r.mu.Lock()
	if p != nil {
		raiseLevel(&r.info, p.Level())
	} else {
		for _, other := range m.Players() {
			if !other.IsGameMaster() {
				raiseLevel(&r.info, other.Level())
			}
		}
	}
	r.info.PlayerCount = m.PlayersCountExceptGMs()
	info := r.info
	r.mu.Unlock()

	logger.Debug("Player entered instance",
		"instance", m.Key().String(),
		"players", info.PlayerCount,
		"max_level", info.MaxObservedLevel)

	if cfg.PlayerChangeNotify && m.IsDungeon() && p != nil {
		msg := t.text.PlayerEntered(p.Name(), m.Name(), cfg.EffectivePlayerCount(info.PlayerCount), cfg.PlayerCountOffset)
		t.broadcast(m, msg)
	}

	return EnterResult{Info: info, Handled: true}
}

// OnPlayerLeave lowers the count by one unless anyone in the instance,
// the leaving player included, is in combat. In that case the count is kept
// and every player is told to re-enter once the fight is over.
func (t *Tracker) OnPlayerLeave(cfg *config.Snapshot, m host.Map, p host.Player) LeaveResult {
	if !cfg.Enabled || (p != nil && p.IsGameMaster()) {
		return LeaveResult{}
	}

	res := LeaveResult{Handled: true}
	players := m.Players()

	r := t.record(m.Key())
	r.mu.Lock()
	if m.IsDungeon() {
		for _, other := range players {
			if other.IsInCombat() {
				res.CountPreserved = true
				break
			}
		}
		if !res.CountPreserved {
			if n := m.PlayersCountExceptGMs(); n > 0 {
				r.info.PlayerCount = n - 1
			} else {
				r.info.PlayerCount = 0
			}
		}
	}
	if r.info.PlayerCount == 0 {
		r.info.MaxObservedLevel = 0
		res.Vacated = true
	}
	res.Info = r.info
	r.mu.Unlock()

	if res.CountPreserved && p != nil {
		logger.Info("Player left during combat, keeping player count",
			"instance", m.Key().String(),
			"player", p.Name(),
			"players", res.Info.PlayerCount)
		t.broadcast(m, t.text.PlayerLeftInCombat(p.Name(), m.Name()))
	}

	if res.Vacated {
		logger.Debug("Instance vacated", "instance", m.Key().String())
		return res
	}

	if cfg.PlayerChangeNotify && m.IsDungeon() && p != nil {
		t.broadcast(m, t.text.PlayerLeft(p.Name(), m.Name(), res.Info.PlayerCount, cfg.PlayerCountOffset))
	}

	return res
}

// OnPlayerLevelChange raises the observed level. It never lowers it.
func (t *Tracker) OnPlayerLevelChange(cfg *config.Snapshot, m host.Map, p host.Player, newLevel uint8) {
	if !cfg.Enabled || !cfg.Level.Scaling || p == nil {
		return
	}

	r := t.record(m.Key())
	r.mu.Lock()
	raiseLevel(&r.info, newLevel)
	r.mu.Unlock()
}

// Recheck resyncs an instance from the host: the count becomes the host's
// non-GM count and the level the highest non-GM level present.
func (t *Tracker) Recheck(m host.Map) ZoneInstanceInfo {
	var level uint8
	for _, p := range m.Players() {
		if !p.IsGameMaster() && p.Level() > level {
			level = p.Level()
		}
	}

	r := t.record(m.Key())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.info.PlayerCount = m.PlayersCountExceptGMs()
	if r.info.PlayerCount == 0 {
		r.info.MaxObservedLevel = 0
	} else if level > 0 {
		r.info.MaxObservedLevel = level
	}
	return r.info
}

func (t *Tracker) broadcast(m host.Map, msg string) {
	for _, p := range m.Players() {
		t.notifier.SendSysMessage(p, msg)
	}
}

func raiseLevel(info *ZoneInstanceInfo, level uint8) {
	if level > info.MaxObservedLevel {
		info.MaxObservedLevel = level
	}
}
