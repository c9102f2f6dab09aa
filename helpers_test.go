package gpuquery

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/gpuquery/internal/capability"
)

var errBackend = errors.New("backend failure")

// newTestAdapter returns a noop-backed adapter that supports every query
// capability.
func newTestAdapter() *Adapter {
	return NewAdapter(&noop.Adapter{}, gpucontext.AdapterInfo{Name: "test"}, capability.QueryFeatures)
}

// newTestDevice returns a device with no optional capabilities.
func newTestDevice(t *testing.T, opts ...DeviceOption) *Device {
	t.Helper()
	dev, err := newTestAdapter().CreateDevice(nil, opts...)
	if err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}
	return dev
}

// newCapableDevice returns a device with both query capabilities enabled.
func newCapableDevice(t *testing.T, opts ...DeviceOption) *Device {
	t.Helper()
	dev, err := newTestAdapter().CreateDevice(capability.Known(), opts...)
	if err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}
	return dev
}

// newTimestampSet creates a timestamp query set or fails the test.
func newTimestampSet(t *testing.T, dev *Device, count uint32) *QuerySet {
	t.Helper()
	qs, err := dev.CreateQuerySet(&QuerySetDescriptor{Type: QueryTypeTimestamp, Count: count})
	if err != nil {
		t.Fatalf("CreateQuerySet: %v", err)
	}
	return qs
}

// errorRecorder collects the codes delivered to a device error callback.
type errorRecorder struct {
	codes []ErrorCode
}

func (r *errorRecorder) callback() DeviceOption {
	return WithErrorCallback(func(code ErrorCode, _ string) {
		r.codes = append(r.codes, code)
	})
}

// fakeAdapter opens fakeDevice backends.
type fakeAdapter struct {
	noop.Adapter
	dev   *fakeDevice
	queue hal.Queue
}

func (a *fakeAdapter) Open(_ gputypes.Features, _ gputypes.Limits) (hal.OpenDevice, error) {
	q := a.queue
	if q == nil {
		q = &noop.Queue{}
	}
	return hal.OpenDevice{Device: a.dev, Queue: q}, nil
}

// fakeDevice is a noop device that allocates query sets and counts
// releases. Releases may come from cleanup goroutines.
type fakeDevice struct {
	noop.Device

	failEncoder bool

	created   atomic.Int32
	destroyed atomic.Int32
	freed     atomic.Int32
}

type fakeQuerySet struct {
	noop.Resource
}

func (d *fakeDevice) CreateQuerySet(_ *hal.QuerySetDescriptor) (hal.QuerySet, error) {
	d.created.Add(1)
	return &fakeQuerySet{}, nil
}

func (d *fakeDevice) DestroyQuerySet(_ hal.QuerySet) {
	d.destroyed.Add(1)
}

func (d *fakeDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	if d.failEncoder {
		return nil, errBackend
	}
	return d.Device.CreateCommandEncoder(desc)
}

func (d *fakeDevice) FreeCommandBuffer(_ hal.CommandBuffer) {
	d.freed.Add(1)
}

// failingQueue rejects every submission.
type failingQueue struct {
	noop.Queue
}

func (q *failingQueue) Submit(_ []hal.CommandBuffer) (uint64, error) {
	return 0, errBackend
}

// newFakeDevice returns a fully capable device over a fakeDevice backend.
func newFakeDevice(t *testing.T, fake *fakeDevice, queue hal.Queue, opts ...DeviceOption) *Device {
	t.Helper()
	a := NewAdapter(&fakeAdapter{dev: fake, queue: queue}, gpucontext.AdapterInfo{Name: "fake"}, capability.QueryFeatures)
	dev, err := a.CreateDevice(capability.Known(), opts...)
	if err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}
	return dev
}
