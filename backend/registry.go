package backend

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// Common backend errors.
var (
	// ErrNotRegistered is returned when a requested backend name is unknown.
	ErrNotRegistered = errors.New("backend: not registered")

	// ErrNoAdapter is returned when a backend exposes no usable adapter.
	ErrNoAdapter = errors.New("backend: no adapter available")
)

// Factory produces the adapter a backend exposes. A factory that cannot
// produce one returns a zero ExposedAdapter.
type Factory func() hal.ExposedAdapter

// registry holds the registered backends.
// Priority order for Default: noop is the only built-in backend.
var registry = gpucontext.NewRegistry[hal.ExposedAdapter](gpucontext.WithPriority(Noop))

// Register registers an adapter factory under name.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registry.Register(name, factory)
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registry.Unregister(name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	names := registry.Available()
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	return registry.Has(name)
}

// Get returns the adapter exposed by the named backend.
func Get(name string) (hal.ExposedAdapter, error) {
	if !registry.Has(name) {
		return hal.ExposedAdapter{}, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	exposed := registry.Get(name)
	if exposed.Adapter == nil {
		return hal.ExposedAdapter{}, fmt.Errorf("%w: %q", ErrNoAdapter, name)
	}
	return exposed, nil
}

// Default returns the adapter of the highest-priority registered backend
// together with its name.
func Default() (string, hal.ExposedAdapter, error) {
	name := registry.BestName()
	if name == "" {
		return "", hal.ExposedAdapter{}, ErrNoAdapter
	}
	exposed, err := Get(name)
	return name, exposed, err
}
