package scaling

import "sync"

// CreatureScalingInfo is what the engine last applied to one creature.
type CreatureScalingInfo struct {
	// ScaledForPlayerCount is the effective population the multipliers
	// were computed for.
	ScaledForPlayerCount uint32
	// SelectedLevel is the level the engine settled on; 0 forces a full
	// recomputation on the next pass.
	SelectedLevel uint8
	// LastKnownEntry detects template swaps.
	LastKnownEntry uint32

	HealthMultiplier float64
	ManaMultiplier   float64
	ArmorMultiplier  float64
	DamageMultiplier float64
}

// NewCreatureScalingInfo returns an unscaled record.
func NewCreatureScalingInfo() CreatureScalingInfo {
	return CreatureScalingInfo{
		HealthMultiplier: 1,
		ManaMultiplier:   1,
		ArmorMultiplier:  1,
		DamageMultiplier: 1,
	}
}

type stateEntry struct {
	mu   sync.Mutex
	info CreatureScalingInfo
}

// StateTable holds a CreatureScalingInfo per creature GUID. Records are
// created on first touch and dropped with Forget.
type StateTable struct {
	mu      sync.RWMutex
	entries map[uint64]*stateEntry
}

// NewStateTable creates an empty table.
func NewStateTable() *StateTable {
	return &StateTable{entries: make(map[uint64]*stateEntry)}
}

func (t *StateTable) entry(guid uint64) *stateEntry {
	t.mu.RLock()
	e, ok := t.entries[guid]
	t.mu.RUnlock()
	if ok {
		return e
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok = t.entries[guid]; !ok {
		e = &stateEntry{info: NewCreatureScalingInfo()}
		t.entries[guid] = e
	}
	return e
}

// Get returns a copy of a creature's record. ok is false when the creature
// has never been touched; the returned record is then the unscaled default.
func (t *StateTable) Get(guid uint64) (CreatureScalingInfo, bool) {
	t.mu.RLock()
	e, ok := t.entries[guid]
	t.mu.RUnlock()
	if !ok {
		return NewCreatureScalingInfo(), false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.info, true
}

// DamageMultiplier returns the stored damage multiplier, 1 for creatures
// that were never scaled.
func (t *StateTable) DamageMultiplier(guid uint64) float64 {
	info, _ := t.Get(guid)
	return info.DamageMultiplier
}

// Forget drops a creature's record.
func (t *StateTable) Forget(guid uint64) {
	t.mu.Lock()
	delete(t.entries, guid)
	t.mu.Unlock()
}

// Len returns the number of tracked creatures.
func (t *StateTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
