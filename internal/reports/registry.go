package reports

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

var (
	registry = make(map[string]Report)
	mu       sync.RWMutex
)

// Register adds a report to the registry.
func Register(r Report) {
	mu.Lock()
	defer mu.Unlock()
	registry[r.Name()] = r
}

// Get retrieves a report by name.
func Get(name string) (Report, error) {
	mu.RLock()
	defer mu.RUnlock()

	r, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown report: %s", name)
	}
	return r, nil
}

// List returns all registered report names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// All returns all registered reports, sorted by name.
func All() []Report {
	mu.RLock()
	defer mu.RUnlock()

	all := make([]Report, 0, len(registry))
	for _, r := range registry {
		all = append(all, r)
	}
	slices.SortFunc(all, func(a, b Report) int {
		return cmp.Compare(a.Name(), b.Name())
	})
	return all
}
