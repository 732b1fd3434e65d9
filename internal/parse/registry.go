package parse

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]Unit)
	registryMu sync.RWMutex
)

// Register adds a unit to the registry.
// Panics if a unit with the same name is already registered.
func Register(u Unit) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[u.Name]; exists {
		panic(fmt.Sprintf("unit already registered: %s", u.Name))
	}

	registry[u.Name] = u
}

// Get returns a unit by name.
// Returns false if not found.
func Get(name string) (Unit, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	u, ok := registry[name]
	return u, ok
}

// All returns all registered units.
// Sorted by group then by name for consistent ordering.
func All() []Unit {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Unit, 0, len(registry))
	for _, u := range registry {
		result = append(result, u)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Group != result[j].Group {
			return result[i].Group < result[j].Group
		}
		return result[i].Name < result[j].Name
	})

	return result
}

// ByGroup returns all units for a specific group.
// Sorted by name for consistent ordering.
func ByGroup(group string) []Unit {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var result []Unit
	for _, u := range registry {
		if u.Group == group {
			result = append(result, u)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Groups returns all unique group names.
// Sorted alphabetically.
func Groups() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, u := range registry {
		seen[u.Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}

// Count returns the number of registered units.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
