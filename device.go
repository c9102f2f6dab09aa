package gpuquery

import (
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/hal"
	"github.com/google/uuid"

	"github.com/gogpu/gpuquery/internal/capability"
)

// Device owns query sets, command encoders and the default queue.
//
// All calls on a device and the objects it created must come from one
// goroutine at a time. Different devices are independent.
type Device struct {
	id      uuid.UUID
	label   string
	adapter *Adapter
	caps    capability.Set

	maxQueryCount uint32

	raw   hal.Device
	queue *Queue

	onError ErrorCallback
	scopes  *core.ErrorScopeManager

	// nextQuerySet is the index of the next query set id. Indices are never
	// reused, so every id lives in epoch 1.
	nextQuerySet core.Index

	// mu guards the state that garbage-collection cleanups also touch:
	// QuerySet.pending, QuerySet.destroyed writes and backend releases.
	mu sync.Mutex
}

func newDevice(a *Adapter, caps capability.Set, open hal.OpenDevice, o deviceOptions) *Device {
	d := &Device{
		id:            uuid.New(),
		label:         o.label,
		adapter:       a,
		caps:          caps,
		maxQueryCount: o.maxQueryCount,
		raw:           open.Device,
		onError:       o.onError,
		scopes:        core.NewErrorScopeManager(),
	}
	d.queue = &Queue{device: d, raw: open.Queue}

	Logger().Info("gpuquery: device created",
		"device", d.id,
		"label", d.label,
		"adapter", a.info.Name,
		"capabilities", caps.Tags())
	return d
}

// ID returns the device's unique identity.
func (d *Device) ID() uuid.UUID {
	return d.id
}

// Label returns the device's debug label.
func (d *Device) Label() string {
	return d.label
}

// Adapter returns the adapter the device was created from.
func (d *Device) Adapter() *Adapter {
	return d.adapter
}

// HasCapability reports whether tag was enabled at device creation.
func (d *Device) HasCapability(tag string) bool {
	return d.caps.Has(tag)
}

// Capabilities returns the enabled capability tags, sorted.
func (d *Device) Capabilities() []string {
	return d.caps.Tags()
}

// Features returns the enabled capabilities as gputypes feature flags.
func (d *Device) Features() gputypes.Features {
	return d.caps.Features()
}

// MaxQueryCount returns the largest query set count the device accepts.
func (d *Device) MaxQueryCount() uint32 {
	return d.maxQueryCount
}

// Queue returns the device's default queue.
func (d *Device) Queue() *Queue {
	return d.queue
}

// allocQuerySetID returns a fresh query set identity.
func (d *Device) allocQuerySetID() core.RawID {
	index := d.nextQuerySet
	d.nextQuerySet++
	return core.Zip(index, 1)
}
