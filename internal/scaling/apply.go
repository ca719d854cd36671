package scaling

import "github.com/lawnchairsociety/autobalance/internal/host"

// Apply pushes a Result onto a live creature. A level change is applied for
// Scaled and Vetoed results alike; stats only for Scaled ones.
func Apply(mc host.MutableCreature, r Result) {
	if r.LevelChanged {
		mc.SetLevel(r.Level)
	}
	if r.Outcome != Scaled {
		return
	}

	s := r.Stats
	mc.SetArmor(s.Armor)
	mc.SetMaxHealth(s.MaxHealth)
	mc.SetMaxMana(s.MaxMana)
	mc.SetHealth(s.Health)
	if s.PowerType == host.PowerMana {
		mc.SetMana(s.Mana)
	} else {
		mc.SetPowerType(s.PowerType)
	}
	mc.UpdateAllStats()
}
