package environment

import (
	"fmt"
	"sort"
)

// Constructor builds a registered environment from a random seed
type Constructor func(seed uint64) (Environment, error)

// registry maps environment names to their constructors. Registration
// happens during package initialization only, so no locking is needed.
var registry = map[string]Constructor{}

// Register associates an environment name with a constructor so that
// the environment can be built by name with Make. Register panics if
// the name is already taken.
func Register(name string, c Constructor) {
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("register: environment %v already registered",
			name))
	}
	registry[name] = c
}

// Make builds the environment registered under name, seeded with
// seed.
func Make(name string, seed uint64) (Environment, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("make: no environment registered "+
			"under name %v, registered environments: %v", name,
			Registered())
	}
	return c(seed)
}

// Registered returns the names of all registered environments in
// lexicographic order.
func Registered() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
