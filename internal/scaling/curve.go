package scaling

import (
	"math"

	"github.com/lawnchairsociety/autobalance/internal/config"
)

// PopulationMultiplier maps a population onto the 0..1 scaling curve.
// inflection is the fraction of maxPlayers at which the curve reaches one half.
// A full (or overfull) instance always gets exactly 1.
func PopulationMultiplier(current, maxPlayers uint32, inflection float64) float64 {
	if current >= maxPlayers {
		return 1.0
	}
	center := float64(maxPlayers) * inflection
	steepness := float64(maxPlayers) / 5 * 1.5
	return (math.Tanh((float64(current)-center)/steepness) + 1) / 2
}

// InflectionPoint picks the configured inflection fraction for an
// instance. Raids are split by their own party size (10, 25, other); boss
// encounters are further multiplied by the boss factor.
func InflectionPoint(cfg config.InflectionConfig, heroic, raid bool, instanceMax uint32, boss bool) float64 {
	var point float64
	switch {
	case raid && heroic:
		switch instanceMax {
		case 10:
			point = cfg.Raid10MHeroic
		case 25:
			point = cfg.Raid25MHeroic
		default:
			point = cfg.RaidHeroic
		}
	case raid:
		switch instanceMax {
		case 10:
			point = cfg.Raid10M
		case 25:
			point = cfg.Raid25M
		default:
			point = cfg.Raid
		}
	case heroic:
		point = cfg.Heroic
	default:
		point = cfg.Normal
	}
	if boss {
		point *= cfg.BossMult
	}
	return point
}

// levelInBand reports whether target lies within [selected-lower,
// selected+higher]. A zero selected level is never in band.
func levelInBand(selected, target uint8, higher, lower int) bool {
	if selected == 0 {
		return false
	}
	s, t := int(selected), int(target)
	return (t >= s && t <= s+higher) || (t <= s && t >= s-lower)
}

// expansionBracket picks the base stat column for an instance level.
func expansionBracket(level uint8) int {
	switch {
	case level <= 60:
		return 0
	case level <= 70:
		return 1
	default:
		return 2
	}
}

// endGameBoost is the extra factor for creatures lifted from pre-75 content
// into level 75+.
func endGameBoost(selected, original uint8) float64 {
	if selected >= 75 && original < 75 {
		return float64(selected-70) * 0.3
	}
	return 1
}

// atLeast clamps v to a lower bound.
func atLeast(v, bound float64) float64 {
	if v < bound {
		return bound
	}
	return v
}
