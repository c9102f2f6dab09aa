package gpuquery

import (
	"runtime"

	"github.com/gogpu/wgpu/hal"
)

// CommandBuffer is a finished recording awaiting submission.
//
// It references the query sets it writes to weakly: holding a command
// buffer does not keep a set alive, and a set destroyed or collected before
// submission makes the submission fail. A command buffer can be submitted
// once.
type CommandBuffer struct {
	device    *Device
	label     string
	raw       hal.CommandBuffer
	refs      *queryRefs
	submitted bool
}

func (d *Device) newCommandBuffer(label string, raw hal.CommandBuffer, refs []queryRef) *CommandBuffer {
	cb := &CommandBuffer{
		device: d,
		label:  label,
		raw:    raw,
		refs:   &queryRefs{refs: refs},
	}
	d.retainRefs(cb.refs)
	runtime.AddCleanup(cb, d.releaseRefs, cb.refs)
	return cb
}

// Label returns the label of the encoder that produced the buffer.
func (cb *CommandBuffer) Label() string {
	return cb.label
}

// Submitted reports whether the buffer has been handed to a queue.
func (cb *CommandBuffer) Submitted() bool {
	return cb.submitted
}

// QuerySetCount returns the number of distinct query sets the buffer
// references.
func (cb *CommandBuffer) QuerySetCount() int {
	return cb.refs.len()
}
