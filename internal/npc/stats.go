package npc

import "sort"

// defaultStats is returned when a class has no table at all.
var defaultStats = BaseStats{
	BaseHealth: [3]float64{1, 1, 1},
	BaseMana:   1,
	BaseArmor:  1,
	BaseDamage: [3]float64{1, 1, 1},
}

// StatsTable maps class and level to base stats.
type StatsTable struct {
	byClass map[UnitClass][]BaseStats // sorted by level
}

// NewStatsTable creates an empty table.
func NewStatsTable() *StatsTable {
	return &StatsTable{byClass: make(map[UnitClass][]BaseStats)}
}

// Add inserts or replaces the stats for a class/level pair.
func (t *StatsTable) Add(class UnitClass, s BaseStats) {
	rows := t.byClass[class]
	i := sort.Search(len(rows), func(i int) bool { return rows[i].Level >= s.Level })
	if i < len(rows) && rows[i].Level == s.Level {
		rows[i] = s
		return
	}
	rows = append(rows, BaseStats{})
	copy(rows[i+1:], rows[i:])
	rows[i] = s
	t.byClass[class] = rows
}

// Lookup returns the stats for a level. Missing levels fall back to the
// closest lower level, then to the lowest known level.
func (t *StatsTable) Lookup(level uint8, class UnitClass) BaseStats {
	rows := t.byClass[class]
	if len(rows) == 0 {
		rows = t.byClass[ClassWarrior]
	}
	if len(rows) == 0 {
		s := defaultStats
		s.Level = level
		return s
	}
	i := sort.Search(len(rows), func(i int) bool { return rows[i].Level > level })
	if i == 0 {
		return rows[0]
	}
	return rows[i-1]
}

// Len returns the number of rows across all classes.
func (t *StatsTable) Len() int {
	n := 0
	for _, rows := range t.byClass {
		n += len(rows)
	}
	return n
}
