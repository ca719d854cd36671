package scaling

import "github.com/lawnchairsociety/autobalance/internal/host"

// Observer can inspect and adjust a recomputation at three points. Each
// method returns false to stop the current pass. Everything the engine
// already did in that pass (player count, selected level) stays in place.
//
// Observers run while the creature's record is locked and must not call
// back into the Engine or StateTable for the same creature.
type Observer interface {
	// BeforeModify runs once the pass is known to be needed. playerCount
	// may be changed; the new value is recorded.
	BeforeModify(c host.Creature, playerCount *uint32) bool
	// AfterDefaultMultiplier may replace the population multiplier.
	AfterDefaultMultiplier(c host.Creature, multiplier *float64) bool
	// BeforeUpdateStats may change the final values before they are stored.
	BeforeUpdateStats(c host.Creature, stats *Stats) bool
}

// NopObserver continues at every point. Embed it to implement only some
// methods.
type NopObserver struct{}

func (NopObserver) BeforeModify(host.Creature, *uint32) bool            { return true }
func (NopObserver) AfterDefaultMultiplier(host.Creature, *float64) bool { return true }
func (NopObserver) BeforeUpdateStats(host.Creature, *Stats) bool        { return true }

// Every observer is called even after one has said stop.
func beforeModify(obs []Observer, c host.Creature, count *uint32) bool {
	ok := true
	for _, o := range obs {
		if !o.BeforeModify(c, count) {
			ok = false
		}
	}
	return ok
}

func afterDefaultMultiplier(obs []Observer, c host.Creature, m *float64) bool {
	ok := true
	for _, o := range obs {
		if !o.AfterDefaultMultiplier(c, m) {
			ok = false
		}
	}
	return ok
}

func beforeUpdateStats(obs []Observer, c host.Creature, s *Stats) bool {
	ok := true
	for _, o := range obs {
		if !o.BeforeUpdateStats(c, s) {
			ok = false
		}
	}
	return ok
}
