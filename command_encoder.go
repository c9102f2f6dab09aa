package gpuquery

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// EncoderState is the state of a CommandEncoder.
type EncoderState int

const (
	// EncoderStateOpen means the encoder accepts commands.
	EncoderStateOpen EncoderState = iota

	// EncoderStateLocked means a pass is open; commands go to the pass.
	EncoderStateLocked

	// EncoderStateEnded means Finish has been called.
	EncoderStateEnded
)

// String returns the string representation of EncoderState.
func (s EncoderState) String() string {
	switch s {
	case EncoderStateOpen:
		return "Open"
	case EncoderStateLocked:
		return "Locked"
	case EncoderStateEnded:
		return "Ended"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// CommandEncoder records commands and produces a CommandBuffer on Finish.
//
// Record calls return nothing. The first validation failure is latched and
// returned by Finish; later calls, valid or not, never replace it.
//
// State machine:
//
//	Open   -> (BeginComputePass/BeginRenderPass) -> Locked
//	Locked -> (pass EndPass)                     -> Open
//	Open   -> Finish()                           -> Ended
//
// CommandEncoder is NOT safe for concurrent use.
type CommandEncoder struct {
	device *Device
	label  string

	// raw is nil when the backend could not open an encoding; an Internal
	// error is latched in that case.
	raw hal.CommandEncoder

	state EncoderState
	err   *Error
	refs  queryRefs

	timestampWrites int

	activeCompute *ComputePassEncoder
	activeRender  *RenderPassEncoder
}

// CreateCommandEncoder returns a new encoder in the Open state.
func (d *Device) CreateCommandEncoder(label string) *CommandEncoder {
	e := &CommandEncoder{device: d, label: label}
	if d.raw == nil {
		return e
	}

	raw, err := d.raw.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		e.latch(newError(Internal, "create command encoder %q: %v", label, err))
		return e
	}
	if err := raw.BeginEncoding(label); err != nil {
		e.latch(newError(Internal, "begin encoding %q: %v", label, err))
		return e
	}
	e.raw = raw
	return e
}

// Label returns the encoder's debug label.
func (e *CommandEncoder) Label() string {
	return e.label
}

// State returns the current encoder state.
func (e *CommandEncoder) State() EncoderState {
	return e.state
}

// Err returns the latched error, or nil.
func (e *CommandEncoder) Err() error {
	if e.err == nil {
		return nil
	}
	return e.err
}

// latch records err as the encoder's error unless one is already held.
// Once the encoder has ended there is no Finish left to carry it, so the
// error goes to the device directly.
func (e *CommandEncoder) latch(err *Error) {
	if e.state == EncoderStateEnded {
		e.device.report(err)
		return
	}
	if e.err == nil {
		e.err = err
		Logger().Debug("gpuquery: encoder error latched",
			"encoder", e.label,
			"code", err.Code.String())
	}
}

// checkOpen reports whether the encoder itself accepts a command named op.
func (e *CommandEncoder) checkOpen(op string) bool {
	switch e.state {
	case EncoderStateEnded:
		e.device.report(newError(UseAfterEnd, "%s on finished command encoder %q", op, e.label))
		return false
	case EncoderStateLocked:
		e.latch(newError(EncoderLocked, "%s on command encoder %q while a pass is open", op, e.label))
		return false
	}
	return true
}

// WriteTimestamp records a timestamp write into slot index of qs.
func (e *CommandEncoder) WriteTimestamp(qs *QuerySet, index uint32) {
	if !e.checkOpen("WriteTimestamp") {
		return
	}
	e.writeTimestamp(qs, index)
}

// writeTimestamp validates one write and records its query set reference.
func (e *CommandEncoder) writeTimestamp(qs *QuerySet, index uint32) {
	if verr := validateTimestampWrite(e.device, qs, index); verr != nil {
		e.latch(verr)
		return
	}
	e.refs.add(qs)
	e.timestampWrites++
}

// BeginComputePass opens a compute pass and locks the encoder until the
// pass ends. If the encoder cannot start a pass the returned pass is inert:
// its calls are ignored, since the failure was already recorded.
func (e *CommandEncoder) BeginComputePass(label string) *ComputePassEncoder {
	p := &ComputePassEncoder{passEncoder: passEncoder{encoder: e, label: label}}
	if !e.checkOpen("BeginComputePass") {
		p.inert = true
		p.state = PassStateEnded
		return p
	}
	if e.raw != nil {
		p.raw = e.raw.BeginComputePass(&hal.ComputePassDescriptor{Label: label})
	}
	e.state = EncoderStateLocked
	e.activeCompute = p
	return p
}

// BeginRenderPass opens a render pass and locks the encoder until the pass
// ends. A nil desc latches InvalidObject and returns an inert pass.
func (e *CommandEncoder) BeginRenderPass(desc *RenderPassDescriptor) *RenderPassEncoder {
	p := &RenderPassEncoder{}
	p.encoder = e
	if !e.checkOpen("BeginRenderPass") {
		p.inert = true
		p.state = PassStateEnded
		return p
	}
	if desc == nil {
		e.latch(newError(InvalidObject, "BeginRenderPass: descriptor is nil"))
		p.inert = true
		p.state = PassStateEnded
		return p
	}
	p.label = desc.Label
	if e.raw != nil {
		p.raw = e.raw.BeginRenderPass(desc.toHAL())
	}
	e.state = EncoderStateLocked
	e.activeRender = p
	return p
}

// unlock returns the encoder to Open after its active pass ends.
func (e *CommandEncoder) unlock() {
	e.activeCompute = nil
	e.activeRender = nil
	if e.state == EncoderStateLocked {
		e.state = EncoderStateOpen
	}
}

// closeActivePass ends a pass left open at Finish so the backend recording
// stays balanced before it is discarded.
func (e *CommandEncoder) closeActivePass() {
	if p := e.activeCompute; p != nil {
		p.state = PassStateEnded
		if p.raw != nil {
			p.raw.End()
		}
	}
	if p := e.activeRender; p != nil {
		p.state = PassStateEnded
		if p.raw != nil {
			p.raw.End()
		}
	}
	e.unlock()
}

// Finish ends recording. It returns the latched error if any call failed,
// otherwise a CommandBuffer ready for submission. A failure is also
// delivered through the device's error channel.
func (e *CommandEncoder) Finish() (*CommandBuffer, error) {
	if e.state == EncoderStateEnded {
		verr := newError(UseAfterEnd, "Finish on finished command encoder %q", e.label)
		e.device.report(verr)
		return nil, verr
	}
	if e.state == EncoderStateLocked {
		e.latch(newError(UnendedPass, "Finish on command encoder %q with an open pass", e.label))
		e.closeActivePass()
	}

	if e.err != nil {
		e.state = EncoderStateEnded
		if e.raw != nil {
			e.raw.DiscardEncoding()
		}
		e.device.report(e.err)
		return nil, e.err
	}
	e.state = EncoderStateEnded

	var raw hal.CommandBuffer
	if e.raw != nil {
		cb, err := e.raw.EndEncoding()
		if err != nil {
			verr := newError(Internal, "end encoding %q: %v", e.label, err)
			e.device.report(verr)
			return nil, verr
		}
		raw = cb
	}

	Logger().Debug("gpuquery: command encoder finished",
		"encoder", e.label,
		"timestamp_writes", e.timestampWrites,
		"query_sets", e.refs.len())
	return e.device.newCommandBuffer(e.label, raw, e.refs.refs), nil
}
