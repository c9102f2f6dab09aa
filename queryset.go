package gpuquery

import (
	"runtime"
	"slices"

	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpuquery/internal/capability"
)

// QuerySet is a fixed-size array of query slots of one QueryType.
//
// Type, Count and PipelineStatistics never change after creation.
// Destroy marks the set unusable. The backend storage is released once no
// pending command buffer references the set.
type QuerySet struct {
	device     *Device
	id         core.RawID
	label      string
	typ        QueryType
	count      uint32
	statistics []PipelineStatisticName

	// Guarded by device.mu.
	destroyed bool
	pending   int
	backend   *backendQuerySet
}

// backendQuerySet is the hal storage behind a QuerySet. It is shared with
// the set's cleanup so it can be released after the set is collected.
type backendQuerySet struct {
	raw      hal.QuerySet
	released bool
}

// CreateQuerySet validates desc against the device and creates a query set.
//
// On failure it returns nil and an *Error, and the same error is delivered
// through the device's error channel. Checks run in a fixed order and the
// first failure wins.
func (d *Device) CreateQuerySet(desc *QuerySetDescriptor) (*QuerySet, error) {
	if verr := validateQuerySetDescriptor(desc, d.caps, d.maxQueryCount); verr != nil {
		d.report(verr)
		return nil, verr
	}

	qs := &QuerySet{
		device:     d,
		id:         d.allocQuerySetID(),
		label:      desc.Label,
		typ:        desc.Type,
		count:      desc.Count,
		statistics: slices.Clone(desc.PipelineStatistics),
		backend:    &backendQuerySet{raw: d.createBackendQuerySet(desc)},
	}
	if qs.backend.raw != nil {
		runtime.AddCleanup(qs, d.releaseBackend, qs.backend)
	}

	Logger().Debug("gpuquery: query set created",
		"device", d.id,
		"id", uint64(qs.id),
		"label", qs.label,
		"type", qs.typ.String(),
		"count", qs.count)
	return qs, nil
}

func validateQuerySetDescriptor(desc *QuerySetDescriptor, caps capability.Set, maxCount uint32) *Error {
	if desc == nil {
		return newError(InvalidObject, "query set descriptor is nil")
	}
	if !desc.Type.IsValid() {
		return newError(InvalidEnum, "query type %s is not recognized", desc.Type)
	}

	switch desc.Type {
	case QueryTypePipelineStatistics:
		if !caps.Has(capability.PipelineStatisticsQuery) {
			return newError(MissingCapability,
				"%s query sets require the %s capability", desc.Type, capability.PipelineStatisticsQuery)
		}
		if len(desc.PipelineStatistics) == 0 {
			return newError(EmptyStatistics, "pipeline statistics query set has no statistics")
		}
		var seen [ComputeShaderInvocations + 1]bool
		for _, s := range desc.PipelineStatistics {
			if !s.IsValid() {
				return newError(InvalidEnum, "pipeline statistic %s is not recognized", s)
			}
			if seen[s] {
				return newError(DuplicateStatistic, "pipeline statistic %s is listed more than once", s)
			}
			seen[s] = true
		}
	case QueryTypeTimestamp:
		if !caps.Has(capability.TimestampQuery) {
			return newError(MissingCapability,
				"%s query sets require the %s capability", desc.Type, capability.TimestampQuery)
		}
		if len(desc.PipelineStatistics) != 0 {
			return newError(ExtraneousStatistics, "%s query set lists pipeline statistics", desc.Type)
		}
	default:
		if len(desc.PipelineStatistics) != 0 {
			return newError(ExtraneousStatistics, "%s query set lists pipeline statistics", desc.Type)
		}
	}

	if desc.Count > maxCount {
		return newError(QueryCountExceedsLimit, "query count %d exceeds the limit of %d", desc.Count, maxCount)
	}
	return nil
}

// createBackendQuerySet allocates hal storage for the set. Pipeline
// statistics have no hal query type. A backend refusal is not a validation
// failure; the set stays valid and only lacks storage.
func (d *Device) createBackendQuerySet(desc *QuerySetDescriptor) hal.QuerySet {
	if d.raw == nil || desc.Count == 0 {
		return nil
	}

	var typ hal.QueryType
	switch desc.Type {
	case QueryTypeOcclusion:
		typ = hal.QueryTypeOcclusion
	case QueryTypeTimestamp:
		typ = hal.QueryTypeTimestamp
	default:
		return nil
	}

	raw, err := d.raw.CreateQuerySet(&hal.QuerySetDescriptor{
		Label: desc.Label,
		Type:  typ,
		Count: desc.Count,
	})
	if err != nil {
		Logger().Debug("gpuquery: backend query set unavailable",
			"device", d.id,
			"type", desc.Type.String(),
			"err", err)
		return nil
	}
	return raw
}

// releaseBackend hands the set's storage back to hal, once.
func (d *Device) releaseBackend(b *backendQuerySet) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.releaseBackendLocked(b)
}

func (d *Device) releaseBackendLocked(b *backendQuerySet) {
	if b == nil || b.raw == nil || b.released {
		return
	}
	b.released = true
	d.raw.DestroyQuerySet(b.raw)
	Logger().Debug("gpuquery: backend query set released", "device", d.id)
}

// Type returns the kind of queries in the set.
func (qs *QuerySet) Type() QueryType {
	return qs.typ
}

// Count returns the number of query slots.
func (qs *QuerySet) Count() uint32 {
	return qs.count
}

// Label returns the debug label given at creation.
func (qs *QuerySet) Label() string {
	return qs.label
}

// ID returns the set's identity within its device.
func (qs *QuerySet) ID() core.RawID {
	return qs.id
}

// Device returns the device that created the set.
func (qs *QuerySet) Device() *Device {
	return qs.device
}

// PipelineStatistics returns the counters the set measures, in creation
// order. It is empty unless Type is QueryTypePipelineStatistics.
func (qs *QuerySet) PipelineStatistics() []PipelineStatisticName {
	return slices.Clone(qs.statistics)
}

// Destroyed reports whether Destroy has been called.
func (qs *QuerySet) Destroyed() bool {
	qs.device.mu.Lock()
	defer qs.device.mu.Unlock()
	return qs.destroyed
}

// Destroy marks the set destroyed. It is idempotent and never reports an
// error. Encoded commands that still reference the set fail at submit.
func (qs *QuerySet) Destroy() {
	if qs == nil {
		return
	}
	d := qs.device
	d.mu.Lock()
	defer d.mu.Unlock()

	if qs.destroyed {
		return
	}
	qs.destroyed = true
	if qs.pending == 0 {
		d.releaseBackendLocked(qs.backend)
	}
}
