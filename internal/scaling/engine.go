// Package scaling decides when a creature needs rescaling and computes its
// new level, health, mana, armor and damage multiplier from the instance
// population.
package scaling

import (
	"math"

	"github.com/lawnchairsociety/autobalance/internal/config"
	"github.com/lawnchairsociety/autobalance/internal/host"
	"github.com/lawnchairsociety/autobalance/internal/logger"
	"github.com/lawnchairsociety/autobalance/internal/tracker"
)

// worldBossLevelBonus keeps world bosses a few levels above the group.
const worldBossLevelBonus = 3

// Outcome is the kind of Result a recomputation produced.
type Outcome uint8

const (
	// NoOp means nothing needs to change.
	NoOp Outcome = iota
	// Vetoed means an Observer stopped the pass. A level change made
	// before the veto still applies.
	Vetoed
	// Scaled means new stats were computed.
	Scaled
)

func (o Outcome) String() string {
	switch o {
	case NoOp:
		return "noop"
	case Vetoed:
		return "vetoed"
	case Scaled:
		return "scaled"
	default:
		return "unknown"
	}
}

// Reason names the check that ended a pass early.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonDisabled       Reason = "disabled"
	ReasonNoMap          Reason = "no_map"
	ReasonNotDungeon     Reason = "not_dungeon"
	ReasonPlayerMinion   Reason = "player_minion"
	ReasonNoLevel        Reason = "no_tracked_level"
	ReasonForcedDisabled Reason = "forced_disabled"
	ReasonDead           Reason = "dead"
	ReasonUpToDate       Reason = "up_to_date"
	ReasonEmpty          Reason = "no_players"
	ReasonVetoModify     Reason = "veto_before_modify"
	ReasonVetoMultiplier Reason = "veto_after_multiplier"
	ReasonVetoStats      Reason = "veto_before_update_stats"
)

// Stats are the absolute values to apply to a creature.
type Stats struct {
	MaxHealth        uint32
	Health           uint32
	MaxMana          uint32
	Mana             uint32
	Armor            uint32
	DamageMultiplier float64
	PowerType        host.PowerType
}

// Result is the outcome of one Recompute call.
type Result struct {
	Outcome Outcome
	Reason  Reason
	// LevelChanged is set when the creature should be moved to Level.
	LevelChanged bool
	Level        uint8
	// Stats is only meaningful when Outcome is Scaled.
	Stats Stats
	// Info is the creature's record after the pass.
	Info CreatureScalingInfo
}

// ZoneSource gives the tracked state of an instance.
type ZoneSource interface {
	Info(key host.InstanceKey) tracker.ZoneInstanceInfo
}

// Engine computes creature scaling. It is safe for concurrent use.
type Engine struct {
	stats     host.StatsProvider
	zones     ZoneSource
	state     *StateTable
	observers []Observer
}

// NewEngine wires an engine to its data sources.
func NewEngine(stats host.StatsProvider, zones ZoneSource, state *StateTable, observers ...Observer) *Engine {
	if state == nil {
		state = NewStateTable()
	}
	return &Engine{
		stats:     stats,
		zones:     zones,
		state:     state,
		observers: observers,
	}
}

// State returns the engine's per-creature table.
func (e *Engine) State() *StateTable {
	return e.state
}

// AddObserver appends an observer. Not safe to call while recomputations
// are running.
func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

func noop(r Reason, info CreatureScalingInfo) Result {
	return Result{Outcome: NoOp, Reason: r, Info: info}
}

// Recompute decides whether c needs rescaling and, if so, computes the new
// values and records them. resetLevel forces the level to be chosen again,
// as on spawn. The creature itself is not touched; pass the Result to Apply.
func (e *Engine) Recompute(cfg *config.Snapshot, c host.Creature, resetLevel bool) Result {
	if !cfg.Enabled {
		return noop(ReasonDisabled, NewCreatureScalingInfo())
	}
	m := c.Map()
	if m == nil {
		return noop(ReasonNoMap, NewCreatureScalingInfo())
	}
	if cfg.DungeonsOnly && !m.IsDungeon() && !m.IsBattleground() {
		return noop(ReasonNotDungeon, NewCreatureScalingInfo())
	}
	if host.IsPlayerMinion(c) {
		return noop(ReasonPlayerMinion, NewCreatureScalingInfo())
	}

	zone := e.zones.Info(m.Key())
	if zone.MaxObservedLevel == 0 {
		return noop(ReasonNoLevel, NewCreatureScalingInfo())
	}

	tpl := c.Template()
	maxPlayers := m.MaxPlayers()
	if o, ok := cfg.Forced.Lookup(tpl.Entry); ok {
		if o.Disabled() {
			return noop(ReasonForcedDisabled, NewCreatureScalingInfo())
		}
		maxPlayers = uint32(o)
	}

	rec := e.state.entry(c.GUID())
	rec.mu.Lock()
	defer rec.mu.Unlock()
	info := &rec.info

	if (info.LastKnownEntry != 0 && info.LastKnownEntry != c.Entry()) || resetLevel {
		info.SelectedLevel = 0
	}

	if !c.IsAlive() {
		return noop(ReasonDead, *info)
	}

	current := cfg.EffectivePlayerCount(zone.PlayerCount)
	higher, lower := cfg.Level.HigherOffset, cfg.Level.LowerOffset
	var bonus uint8
	if tpl.IsWorldBoss() {
		bonus = worldBossLevelBonus
	}

	originalLevel := tpl.MaxLevel
	mapLevel := zone.MaxObservedLevel
	areaMin, areaMax := m.AreaLevel(c.AreaID())
	// Critters and spell-created helpers in real content keep their level.
	skipLevel := originalLevel <= 1 && areaMin >= 5
	levelScaling := cfg.Level.Scaling && m.IsDungeon() && !skipLevel

	if info.SelectedLevel > 0 {
		if levelScaling {
			// The bonus only counts when the last pass lifted the level.
			want := mapLevel + bonus
			if levelInBand(mapLevel, originalLevel, higher, lower) {
				want = info.SelectedLevel
			}
			if levelInBand(want, c.Level(), higher, lower) &&
				levelInBand(info.SelectedLevel, c.Level(), higher, lower) &&
				info.ScaledForPlayerCount == current {
				return noop(ReasonUpToDate, *info)
			}
		} else if info.ScaledForPlayerCount == current {
			return noop(ReasonUpToDate, *info)
		}
	}

	info.ScaledForPlayerCount = current
	if current == 0 {
		return noop(ReasonEmpty, *info)
	}

	if !beforeModify(e.observers, c, &info.ScaledForPlayerCount) {
		return Result{Outcome: Vetoed, Reason: ReasonVetoModify, Info: *info}
	}
	current = info.ScaledForPlayerCount

	var res Result
	if levelScaling && !levelInBand(mapLevel, originalLevel, higher, lower) {
		if mapLevel != info.SelectedLevel || info.SelectedLevel != c.Level() {
			info.SelectedLevel = mapLevel + bonus
			res.LevelChanged = true
			res.Level = info.SelectedLevel
		}
	} else {
		info.SelectedLevel = c.Level()
	}

	info.LastKnownEntry = c.Entry()

	level := c.Level()
	if res.LevelChanged {
		level = res.Level
	}
	useDBStats := cfg.Level.UseDBValues && tpl.InLevelRange(level)
	interpolate := !useDBStats && cfg.Level.Scaling && !skipLevel

	origStats := e.stats.Lookup(originalLevel, tpl.UnitClass)
	newStats := e.stats.Lookup(info.SelectedLevel, tpl.UnitClass)

	baseHealth := origStats.GenerateHealth(tpl)
	baseMana := origStats.GenerateMana(tpl)

	multiplier := 1.0
	if current < maxPlayers {
		point := InflectionPoint(cfg.Inflection, m.IsHeroic(), m.IsRaid(), m.MaxPlayers(), c.IsDungeonBoss())
		multiplier = PopulationMultiplier(current, maxPlayers, point)
	}

	if !afterDefaultMultiplier(e.observers, c, &multiplier) {
		res.Outcome, res.Reason, res.Info = Vetoed, ReasonVetoMultiplier, *info
		return res
	}

	rate := cfg.Rate
	bracket := expansionBracket(mapLevel)

	hpStatsRate := 1.0
	if interpolate && baseHealth > 0 {
		newHealth := newStats.BaseHealth[bracket]
		if bracket == 2 && cfg.Level.EndGameBoost {
			newHealth *= endGameBoost(info.SelectedLevel, originalLevel)
		}
		newHealth *= tpl.ModHealth
		newHealth -= areaReduction(newHealth, originalLevel, areaMin, areaMax)
		hpStatsRate = newHealth / baseHealth
	}
	healthMult := atLeast(rate.Health*multiplier*rate.Global*hpStatsRate, cfg.MinHPModifier)

	manaStatsRate := 1.0
	if interpolate && baseMana > 0 {
		manaStatsRate = newStats.GenerateMana(tpl) / baseMana
	}
	manaMult := atLeast(manaStatsRate*rate.Mana*multiplier*rate.Global, cfg.MinManaModifier)

	damageMult := multiplier * rate.Global * rate.Damage
	if interpolate {
		origDamage := origStats.GenerateBaseDamage(tpl)
		newDamage := newStats.BaseDamage[bracket]
		if bracket == 2 && cfg.Level.EndGameBoost && !m.IsRaid() {
			newDamage *= endGameBoost(info.SelectedLevel, originalLevel)
		}
		if origDamage > 0 {
			damageMult *= newDamage / origDamage
		}
	}
	damageMult = atLeast(damageMult, cfg.MinDamageModifier)

	armorMult := rate.Global * rate.Armor
	armorStats := newStats
	if useDBStats || !cfg.Level.Scaling || skipLevel {
		armorStats = origStats
	}

	info.HealthMultiplier = healthMult
	info.ManaMultiplier = manaMult
	info.ArmorMultiplier = armorMult

	stats := Stats{
		MaxHealth:        roundUint32(baseHealth*healthMult + 1),
		MaxMana:          roundUint32(baseMana * manaMult),
		Armor:            roundUint32(armorMult * armorStats.GenerateArmor(tpl)),
		DamageMultiplier: damageMult,
		PowerType:        c.PowerType(),
	}

	if !beforeUpdateStats(e.observers, c, &stats) {
		res.Outcome, res.Reason, res.Info = Vetoed, ReasonVetoStats, *info
		return res
	}

	stats.DamageMultiplier = atLeast(stats.DamageMultiplier, cfg.MinDamageModifier)
	info.DamageMultiplier = stats.DamageMultiplier
	stats.Health = prorate(stats.MaxHealth, c.MaxHealth(), c.Health())
	stats.Mana = prorate(stats.MaxMana, c.MaxMana(), c.Mana())

	res.Outcome = Scaled
	res.Stats = stats
	res.Info = *info

	logger.Debug("Creature scaled",
		"guid", c.GUID(),
		"entry", tpl.Entry,
		"instance", m.Key().String(),
		"players", current,
		"max_players", maxPlayers,
		"level", info.SelectedLevel,
		"health", stats.MaxHealth,
		"damage_mult", stats.DamageMultiplier)

	return res
}

// areaReduction lowers the interpolated health of creatures that sit below
// the top of their area's level range, by at most 30%.
func areaReduction(health float64, original, areaMin, areaMax uint8) float64 {
	if original < areaMin || original >= areaMax {
		return 0
	}
	reduction := health / float64(areaMax-areaMin) * (float64(areaMax-original) * 0.3)
	if reduction > 0 && reduction < health {
		return reduction
	}
	return 0
}

// prorate keeps cur/prevMax when the maximum changes to newMax.
func prorate(newMax, prevMax, cur uint32) uint32 {
	if cur == 0 || prevMax == 0 {
		return 0
	}
	return uint32(float64(newMax) / float64(prevMax) * float64(cur))
}

func roundUint32(v float64) uint32 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(math.Round(v))
}

