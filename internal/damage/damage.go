// Package damage rescales damage and healing dealt by creatures using the
// multiplier the scaling engine last stored for them.
package damage

import (
	"math"

	"github.com/lawnchairsociety/autobalance/internal/config"
	"github.com/lawnchairsociety/autobalance/internal/host"
)

// MultiplierSource returns a creature's stored damage multiplier.
type MultiplierSource interface {
	DamageMultiplier(guid uint64) float64
}

// Filter adjusts damage amounts. It never recomputes scaling.
type Filter struct {
	source MultiplierSource
}

// New creates a filter reading multipliers from source.
func New(source MultiplierSource) *Filter {
	return &Filter{source: source}
}

// AdjustDamage returns amount scaled by the attacker's damage multiplier,
// or amount unchanged when the attacker is not a scaled creature.
func (f *Filter) AdjustDamage(cfg *config.Snapshot, attacker, victim host.Unit, amount uint32) uint32 {
	if !cfg.Enabled || attacker == nil || attacker.IsPlayer() || !attacker.IsInWorld() {
		return amount
	}

	mult := f.source.DamageMultiplier(attacker.GUID())
	if mult == 1 {
		return amount
	}

	if cfg.DungeonsOnly && !sameContent(attacker, victim) {
		return amount
	}

	if c, ok := attacker.(host.Creature); ok && host.IsPlayerMinion(c) {
		return amount
	}

	scaled := float64(amount) * mult
	if scaled >= math.MaxUint32 {
		return math.MaxUint32
	}
	if scaled <= 0 {
		return 0
	}
	return uint32(scaled)
}

// sameContent reports whether both units are in a dungeon, or both in a
// battleground.
func sameContent(a, b host.Unit) bool {
	if b == nil {
		return false
	}
	am, bm := a.Map(), b.Map()
	if am == nil || bm == nil {
		return false
	}
	return (am.IsDungeon() && bm.IsDungeon()) || (am.IsBattleground() && bm.IsBattleground())
}
