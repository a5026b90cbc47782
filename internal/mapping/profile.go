package mapping

import (
	"fmt"
	"sort"
	"sync"
)

// Profile is a complete mapping configuration: one FieldRule per target
// field plus passthrough strictness. Revisions of the source tool disagreed
// on details like which column holds the date of birth and whether empty
// unmapped cells survive; rather than guess a single correct behavior, each
// variant is a selectable profile.
type Profile struct {
	Key   string // unique identifier: "standard"
	Label string // display name: "Standard"

	Rules []FieldRule

	// StrictExtras drops unmapped cells whose value is empty after
	// trimming; permissive profiles keep them verbatim.
	StrictExtras bool
}

// Rule returns the profile's rule for a field, if one is configured.
func (p Profile) Rule(field Field) (FieldRule, bool) {
	for _, r := range p.Rules {
		if r.Field == field {
			return r, true
		}
	}
	return FieldRule{}, false
}

var (
	registry   = make(map[string]Profile)
	registryMu sync.RWMutex
)

// Register adds a profile to the registry.
// Panics if a profile with the same key is already registered.
func Register(p Profile) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[p.Key]; exists {
		panic(fmt.Sprintf("profile already registered: %s", p.Key))
	}
	registry[p.Key] = p
}

// Get returns a profile by key.
// Returns false if not found.
func Get(key string) (Profile, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	p, ok := registry[key]
	return p, ok
}

// All returns all registered profiles sorted by key for consistent ordering.
func All() []Profile {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Profile, 0, len(registry))
	for _, p := range registry {
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

// Keys returns all registered profile keys, sorted.
func Keys() []string {
	all := All()
	keys := make([]string, len(all))
	for i, p := range all {
		keys[i] = p.Key
	}
	return keys
}

// Count returns the number of registered profiles.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered profiles.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Profile)
}
