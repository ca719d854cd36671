// Package leveling adjusts the experience players earn inside instances.
package leveling

import (
	"github.com/lawnchairsociety/autobalance/internal/config"
	"github.com/lawnchairsociety/autobalance/internal/host"
)

// MaxPlayerLevel is the level cap. Encounter rewards only go to players at
// the cap.
const MaxPlayerLevel = 80

// ScaleXP returns amount scaled by current/maxPlayers, so a small group
// earns per kill what each member of a full party would.
func ScaleXP(amount, current, maxPlayers uint32) uint32 {
	if maxPlayers == 0 || current >= maxPlayers {
		return amount
	}
	return uint32(float64(amount) * float64(current) / float64(maxPlayers))
}

// AdjustKillXP applies ScaleXP to experience from a kill inside a dungeon
// when the scale-down is enabled. Quest and exploration XP (no victim)
// pass through.
func AdjustKillXP(cfg *config.Snapshot, p host.Player, amount uint32, victim host.Unit) uint32 {
	if victim == nil || !cfg.DungeonScaleDownXP || p == nil {
		return amount
	}
	m := p.Map()
	if m == nil || !m.IsDungeon() {
		return amount
	}
	return ScaleXP(amount, m.PlayersCountExceptGMs(), m.MaxPlayers())
}
