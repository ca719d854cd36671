package scaling

import (
	"math"
	"testing"

	"github.com/lawnchairsociety/autobalance/internal/config"
)

func TestPopulationMultiplierMonotonic(t *testing.T) {
	for _, maxPlayers := range []uint32{2, 5, 10, 25, 40} {
		for _, point := range []float64{0.3, 0.5, 0.8} {
			prev := -1.0
			for cur := uint32(0); cur <= maxPlayers+2; cur++ {
				m := PopulationMultiplier(cur, maxPlayers, point)
				if m < prev {
					t.Errorf("max=%d point=%v: multiplier dropped from %v to %v at %d", maxPlayers, point, prev, m, cur)
				}
				if m < 0 || m > 1 {
					t.Errorf("max=%d point=%v cur=%d: multiplier %v outside [0,1]", maxPlayers, point, cur, m)
				}
				if cur >= maxPlayers && m != 1.0 {
					t.Errorf("max=%d cur=%d: multiplier = %v, want exactly 1", maxPlayers, cur, m)
				}
				prev = m
			}
		}
	}
}

func TestPopulationMultiplierValues(t *testing.T) {
	tests := []struct {
		name       string
		current    uint32
		maxPlayers uint32
		point      float64
		want       float64
	}{
		{"full dungeon", 5, 5, 0.5, 1.0},
		{"overfull dungeon", 7, 5, 0.5, 1.0},
		{"solo dungeon", 1, 5, 0.5, (math.Tanh((1-2.5)/1.5) + 1) / 2},
		{"at inflection", 5, 10, 0.5, 0.5},
		{"empty 25 raid", 0, 25, 0.5, (math.Tanh(-12.5/7.5) + 1) / 2},
		{"zero max", 0, 0, 0.5, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PopulationMultiplier(tt.current, tt.maxPlayers, tt.point)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PopulationMultiplier(%d, %d, %v) = %v, want %v", tt.current, tt.maxPlayers, tt.point, got, tt.want)
			}
		})
	}

	// Solo in a 5-player dungeon sits near 0.119 on the curve.
	if got := PopulationMultiplier(1, 5, 0.5); math.Abs(got-0.1192) > 1e-4 {
		t.Errorf("solo dungeon multiplier = %v, want ~0.1192", got)
	}
}

func TestInflectionPoint(t *testing.T) {
	cfg := config.InflectionConfig{
		Normal:        0.1,
		Heroic:        0.2,
		Raid:          0.3,
		Raid10M:       0.4,
		Raid25M:       0.5,
		RaidHeroic:    0.6,
		Raid10MHeroic: 0.7,
		Raid25MHeroic: 0.8,
		BossMult:      2,
	}
	tests := []struct {
		name        string
		heroic      bool
		raid        bool
		instanceMax uint32
		boss        bool
		want        float64
	}{
		{"normal dungeon", false, false, 5, false, 0.1},
		{"heroic dungeon", true, false, 5, false, 0.2},
		{"raid 40", false, true, 40, false, 0.3},
		{"raid 10", false, true, 10, false, 0.4},
		{"raid 25", false, true, 25, false, 0.5},
		{"heroic raid 40", true, true, 40, false, 0.6},
		{"heroic raid 10", true, true, 10, false, 0.7},
		{"heroic raid 25", true, true, 25, false, 0.8},
		{"dungeon boss", false, false, 5, true, 0.2},
		{"heroic raid 25 boss", true, true, 25, true, 1.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InflectionPoint(cfg, tt.heroic, tt.raid, tt.instanceMax, tt.boss)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("InflectionPoint() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevelInBand(t *testing.T) {
	tests := []struct {
		selected, target uint8
		higher, lower    int
		want             bool
	}{
		{80, 80, 3, 0, true},
		{80, 83, 3, 0, true},
		{80, 84, 3, 0, false},
		{80, 79, 3, 0, false},
		{80, 78, 3, 2, true},
		{80, 77, 3, 2, false},
		{0, 0, 3, 0, false},
		{0, 2, 3, 0, false},
	}
	for _, tt := range tests {
		if got := levelInBand(tt.selected, tt.target, tt.higher, tt.lower); got != tt.want {
			t.Errorf("levelInBand(%d, %d, +%d, -%d) = %v, want %v", tt.selected, tt.target, tt.higher, tt.lower, got, tt.want)
		}
	}
}

func TestExpansionBracket(t *testing.T) {
	tests := []struct {
		level uint8
		want  int
	}{
		{1, 0}, {60, 0}, {61, 1}, {70, 1}, {71, 2}, {80, 2},
	}
	for _, tt := range tests {
		if got := expansionBracket(tt.level); got != tt.want {
			t.Errorf("expansionBracket(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestEndGameBoost(t *testing.T) {
	if got := endGameBoost(80, 60); math.Abs(got-3) > 1e-9 {
		t.Errorf("endGameBoost(80, 60) = %v, want 3", got)
	}
	if got := endGameBoost(74, 60); got != 1 {
		t.Errorf("endGameBoost(74, 60) = %v, want 1", got)
	}
	if got := endGameBoost(80, 75); got != 1 {
		t.Errorf("endGameBoost(80, 75) = %v, want 1", got)
	}
}

func TestAreaReduction(t *testing.T) {
	tests := []struct {
		name                       string
		original, areaMin, areaMax uint8
		want                       float64
	}{
		{"bottom of range", 70, 70, 80, 300},
		{"middle of range", 75, 70, 80, 150},
		{"top of range", 80, 70, 80, 0},
		{"below range", 60, 70, 80, 0},
		{"unknown area", 60, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := areaReduction(1000, tt.original, tt.areaMin, tt.areaMax)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("areaReduction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProrate(t *testing.T) {
	tests := []struct {
		newMax, prevMax, cur, want uint32
	}{
		{2000, 1000, 500, 1000},
		{1000, 1000, 1000, 1000},
		{333, 1000, 500, 166},
		{1000, 0, 500, 0},
		{1000, 500, 0, 0},
	}
	for _, tt := range tests {
		if got := prorate(tt.newMax, tt.prevMax, tt.cur); got != tt.want {
			t.Errorf("prorate(%d, %d, %d) = %d, want %d", tt.newMax, tt.prevMax, tt.cur, got, tt.want)
		}
	}
}
