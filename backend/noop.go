package backend

import (
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/gpuquery/internal/capability"
)

// Noop is the name of the headless backend built on hal/noop.
const Noop = "noop"

func init() {
	Register(Noop, noopAdapter)
}

// noopAdapter enumerates the hal/noop instance. The noop backend executes
// nothing, so every query capability is reported as supported: validation
// runs in full and submission is a counter bump.
func noopAdapter() hal.ExposedAdapter {
	inst, err := noop.API{}.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		return hal.ExposedAdapter{}
	}
	adapters := inst.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return hal.ExposedAdapter{}
	}
	exposed := adapters[0]
	exposed.Features |= capability.QueryFeatures
	return exposed
}
