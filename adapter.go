package gpuquery

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpuquery/backend"
	"github.com/gogpu/gpuquery/internal/capability"
)

// Adapter is a physical GPU from which devices are created.
type Adapter struct {
	raw       hal.Adapter
	info      gpucontext.AdapterInfo
	supported gputypes.Features
	limits    gputypes.Limits
}

// RequestAdapter returns the adapter exposed by the named backend.
// An empty name selects the default backend.
func RequestAdapter(name string) (*Adapter, error) {
	var (
		exposed hal.ExposedAdapter
		err     error
	)
	if name == "" {
		_, exposed, err = backend.Default()
	} else {
		exposed, err = backend.Get(name)
	}
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	a := NewAdapter(exposed.Adapter, adapterInfo(exposed.Info), exposed.Features)
	a.limits = exposed.Capabilities.Limits
	return a, nil
}

// NewAdapter wraps a backend adapter that supports the given features.
func NewAdapter(raw hal.Adapter, info gpucontext.AdapterInfo, supported gputypes.Features) *Adapter {
	return &Adapter{
		raw:       raw,
		info:      info,
		supported: supported,
		limits:    gputypes.DefaultLimits(),
	}
}

// adapterInfo converts backend metadata into the gpucontext description.
func adapterInfo(info gputypes.AdapterInfo) gpucontext.AdapterInfo {
	t := gpucontext.AdapterTypeUnknown
	switch info.DeviceType {
	case gputypes.DeviceTypeDiscreteGPU:
		t = gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		t = gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		t = gpucontext.AdapterTypeSoftware
	}
	return gpucontext.AdapterInfo{Name: info.Name, Type: t}
}

// Info returns the adapter description.
func (a *Adapter) Info() gpucontext.AdapterInfo {
	return a.info
}

// SupportsCapability reports whether devices from this adapter may enable tag.
func (a *Adapter) SupportsCapability(tag string) bool {
	return capability.NewSet(a.supported).Has(tag)
}

// CreateDevice opens a device with the given capability tags enabled.
// Unknown tags and tags the adapter does not support are rejected.
func (a *Adapter) CreateDevice(capabilities []string, opts ...DeviceOption) (*Device, error) {
	if a == nil || a.raw == nil {
		return nil, ErrNilAdapter
	}

	features, err := capability.Parse(capabilities)
	if err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}
	if !a.supported.ContainsAll(features) {
		missing := capability.NewSet(features &^ a.supported)
		return nil, fmt.Errorf("create device: %w: %v", ErrUnsupportedCapability, missing)
	}

	open, err := a.raw.Open(features, a.limits)
	if err != nil {
		return nil, fmt.Errorf("create device: open backend: %w", err)
	}

	o := defaultDeviceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newDevice(a, capability.NewSet(features), open, o), nil
}
