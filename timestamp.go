package gpuquery

import (
	"weak"

	"github.com/gogpu/wgpu/core"
)

// validateTimestampWrite runs the checks every recorder applies to
// WriteTimestamp. The first failing check wins. Capability is not checked
// here; it was settled when the set was created.
func validateTimestampWrite(dev *Device, qs *QuerySet, index uint32) *Error {
	switch {
	case qs == nil:
		return newError(InvalidObject, "WriteTimestamp: query set is nil")
	case qs.device != dev:
		return newError(CrossDeviceUse,
			"WriteTimestamp: query set %q belongs to device %s, not %s", qs.label, qs.device.id, dev.id)
	case qs.typ != QueryTypeTimestamp:
		return newError(WrongQueryType,
			"WriteTimestamp: query set %q has type %s, want %s", qs.label, qs.typ, QueryTypeTimestamp)
	case index >= qs.count:
		return newError(IndexOutOfRange,
			"WriteTimestamp: query index %d out of range for query set %q with count %d", index, qs.label, qs.count)
	case qs.destroyed:
		return newError(UseAfterDestroy, "WriteTimestamp: query set %q is destroyed", qs.label)
	}
	return nil
}

// queryRef is a command's back-reference to a query set. It does not keep
// the set alive; a collected set reads as destroyed.
type queryRef struct {
	id  core.RawID
	set weak.Pointer[QuerySet]
}

// get returns the referenced set, or nil once it has been collected.
func (r queryRef) get() *QuerySet {
	return r.set.Value()
}

// queryRefs is the distinct list of sets referenced by one recording.
type queryRefs struct {
	refs []queryRef

	// released is set once the pending counts taken for refs are dropped.
	// Guarded by device.mu.
	released bool
}

func (r *queryRefs) add(qs *QuerySet) {
	for _, ref := range r.refs {
		if ref.id == qs.id {
			return
		}
	}
	r.refs = append(r.refs, queryRef{id: qs.id, set: weak.Make(qs)})
}

func (r *queryRefs) len() int {
	return len(r.refs)
}

// retainRefs marks every live referenced set as pending on a command buffer.
func (d *Device) retainRefs(r *queryRefs) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, ref := range r.refs {
		if qs := ref.get(); qs != nil {
			qs.pending++
		}
	}
}

// releaseRefs drops the pending counts taken by retainRefs, once. Sets
// destroyed in the meantime hand their backend storage back.
func (d *Device) releaseRefs(r *queryRefs) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	for _, ref := range r.refs {
		qs := ref.get()
		if qs == nil {
			continue
		}
		qs.pending--
		if qs.destroyed && qs.pending == 0 {
			d.releaseBackendLocked(qs.backend)
		}
	}
}
