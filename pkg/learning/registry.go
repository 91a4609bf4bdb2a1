package learning

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/nvimsul/pkg/domain"
	"github.com/aretw0/nvimsul/pkg/ports"
)

// Registry manages the available learning drivers.
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]ports.Driver
}

// NewRegistry creates a registry holding the built-in explore driver.
// KV and L_star are left to external learners.
func NewRegistry(opts ...ExplorerOption) *Registry {
	r := &Registry{
		drivers: make(map[string]ports.Driver),
	}
	r.Register(domain.AlgorithmExplore, NewExplorer(opts...))
	return r
}

// Register adds a driver to the registry.
// If a driver with the same name exists, it is overwritten.
func (r *Registry) Register(name string, d ports.Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[name] = d
}

// Resolve looks up a driver by algorithm name.
func (r *Registry) Resolve(name string) (ports.Driver, error) {
	r.mu.RLock()
	d, ok := r.drivers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", domain.ErrDriverNotRegistered, name, r.Names())
	}
	return d, nil
}

// Names returns the registered algorithm names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.drivers))
	for n := range r.drivers {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
