// Package forced maps creature template entries to an override party size.
package forced

import (
	"strconv"
	"strings"
)

// Sizes lists the forced party sizes in load order. Entries named by a later
// list replace earlier ones; the disabled list is always loaded last.
var Sizes = []int{40, 25, 10, 5, 2}

// Override is the forced party size for one template.
type Override int

// Disabled reports whether scaling is switched off for the template.
func (o Override) Disabled() bool {
	return o == 0
}

// Registry is read-only after construction.
type Registry struct {
	entries map[uint32]Override
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[uint32]Override)}
}

// Parse builds a registry from comma-delimited id lists keyed by forced
// size, plus the disabled list.
func Parse(lists map[int]string, disabled string) *Registry {
	r := New()
	for _, size := range Sizes {
		r.Load(lists[size], size)
	}
	r.Load(disabled, 0)
	return r
}

// Load adds every id in a comma-delimited list with the given party size.
// Entries that are not non-negative integers are skipped. Returns the number
// of ids added.
func (r *Registry) Load(ids string, size int) int {
	n := 0
	for _, field := range strings.Split(ids, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			continue
		}
		r.entries[uint32(id)] = Override(size)
		n++
	}
	return n
}

// Lookup returns the override for a template entry. ok is false when the
// entry is not listed, which is distinct from an override of 0 (disabled).
func (r *Registry) Lookup(entry uint32) (o Override, ok bool) {
	if r == nil {
		return 0, false
	}
	o, ok = r.entries[entry]
	return o, ok
}

// Len returns the number of listed templates.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}
