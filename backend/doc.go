// Package backend provides a registry of named GPU adapters.
//
// Each backend contributes a factory that returns a gogpu/wgpu
// hal.ExposedAdapter: the adapter handle, its metadata and the optional
// features it supports. Devices are opened from that adapter and submit
// validated command buffers to its queue.
//
// # Backend Registration
//
// The noop backend (gogpu/wgpu/hal/noop) is registered on import and is the
// default. Other backends register from init functions:
//
//	backend.Register("vulkan", func() hal.ExposedAdapter { ... })
//
// # Backend Selection
//
// Use Default to get the best available adapter, or Get to request a
// specific backend by name:
//
//	name, exposed, err := backend.Default()
//	exposed, err := backend.Get("noop")
package backend
