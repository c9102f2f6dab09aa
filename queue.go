package gpuquery

import (
	"github.com/gogpu/wgpu/hal"
)

// Queue submits command buffers to the device's backend.
type Queue struct {
	device *Device
	raw    hal.Queue

	lastSubmission uint64

	// inFlight holds backend buffers until the backend reports their
	// submission complete.
	inFlight []inFlightSubmission
}

type inFlightSubmission struct {
	index   uint64
	buffers []hal.CommandBuffer
}

// Device returns the queue's device.
func (q *Queue) Device() *Device {
	return q.device
}

// LastSubmissionIndex returns the backend index of the most recent
// successful submission, or 0 if nothing was submitted.
func (q *Queue) LastSubmissionIndex() uint64 {
	return q.lastSubmission
}

// Submit validates cbs and hands them to the backend.
//
// If any buffer fails validation nothing is enqueued, and the error is
// returned and delivered through the device's error channel. Submitted
// buffers are consumed either way; resubmitting one is an error.
func (q *Queue) Submit(cbs ...*CommandBuffer) error {
	d := q.device
	if verr := q.validate(cbs); verr != nil {
		q.consume(cbs, true)
		d.report(verr)
		return verr
	}

	raws := make([]hal.CommandBuffer, 0, len(cbs))
	for _, cb := range cbs {
		if cb.raw != nil {
			raws = append(raws, cb.raw)
		}
	}
	q.consume(cbs, false)

	if q.raw == nil || len(raws) == 0 {
		return nil
	}
	index, err := q.raw.Submit(raws)
	if err != nil {
		for _, raw := range raws {
			d.raw.FreeCommandBuffer(raw)
		}
		verr := newError(Internal, "backend submit: %v", err)
		d.report(verr)
		return verr
	}
	q.lastSubmission = index
	q.inFlight = append(q.inFlight, inFlightSubmission{index: index, buffers: raws})
	q.reclaim()

	Logger().Debug("gpuquery: submitted",
		"device", d.id,
		"buffers", len(cbs),
		"index", index)
	return nil
}

// validate applies the submit-time checks to each buffer in order and
// returns the first failure.
func (q *Queue) validate(cbs []*CommandBuffer) *Error {
	seen := make(map[*CommandBuffer]struct{}, len(cbs))
	for i, cb := range cbs {
		switch {
		case cb == nil:
			return newError(InvalidObject, "Submit: command buffer %d is nil", i)
		case cb.device != q.device:
			return newError(CrossDeviceUse,
				"Submit: command buffer %q belongs to device %s, not %s", cb.label, cb.device.id, q.device.id)
		case cb.submitted:
			return newError(CommandBufferReused, "Submit: command buffer %q was already submitted", cb.label)
		}
		if _, dup := seen[cb]; dup {
			return newError(CommandBufferReused, "Submit: command buffer %q appears twice", cb.label)
		}
		seen[cb] = struct{}{}

		for _, ref := range cb.refs.refs {
			qs := ref.get()
			switch {
			case qs == nil:
				return newError(UseAfterDestroyAtSubmit,
					"Submit: command buffer %q references a released query set", cb.label)
			case qs.device != q.device:
				return newError(CrossDeviceUse,
					"Submit: command buffer %q references query set %q of device %s", cb.label, qs.label, qs.device.id)
			case qs.Destroyed():
				return newError(UseAfterDestroyAtSubmit,
					"Submit: command buffer %q references destroyed query set %q", cb.label, qs.label)
			}
		}
	}
	return nil
}

// consume marks this device's buffers submitted and drops their pending
// query set references. Backend buffers of a rejected submission are freed.
func (q *Queue) consume(cbs []*CommandBuffer, rejected bool) {
	d := q.device
	for _, cb := range cbs {
		if cb == nil || cb.device != d || cb.submitted {
			continue
		}
		cb.submitted = true
		d.releaseRefs(cb.refs)
		if rejected && cb.raw != nil && d.raw != nil {
			d.raw.FreeCommandBuffer(cb.raw)
		}
	}
}

// reclaim frees backend buffers of submissions the backend has completed.
func (q *Queue) reclaim() {
	done := q.raw.PollCompleted()
	n := 0
	for _, s := range q.inFlight {
		if s.index > done {
			q.inFlight[n] = s
			n++
			continue
		}
		for _, raw := range s.buffers {
			q.device.raw.FreeCommandBuffer(raw)
		}
	}
	clear(q.inFlight[n:])
	q.inFlight = q.inFlight[:n]
}
