package gpuquery

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// RenderPassColorAttachment describes how a color target is loaded and stored.
type RenderPassColorAttachment struct {
	LoadOp     gputypes.LoadOp
	StoreOp    gputypes.StoreOp
	ClearValue gputypes.Color
}

// RenderPassDescriptor describes a render pass to begin.
type RenderPassDescriptor struct {
	Label            string
	ColorAttachments []RenderPassColorAttachment
}

func (d *RenderPassDescriptor) toHAL() *hal.RenderPassDescriptor {
	desc := &hal.RenderPassDescriptor{Label: d.Label}
	for _, a := range d.ColorAttachments {
		desc.ColorAttachments = append(desc.ColorAttachments, hal.RenderPassColorAttachment{
			LoadOp:     a.LoadOp,
			StoreOp:    a.StoreOp,
			ClearValue: a.ClearValue,
		})
	}
	return desc
}

// RenderPassEncoder records commands within a render pass.
//
// State machine:
//
//	Open -> EndPass() -> Ended
//
// RenderPassEncoder is NOT safe for concurrent use.
type RenderPassEncoder struct {
	passEncoder
	raw hal.RenderPassEncoder
}

// WriteTimestamp records a timestamp write into slot index of qs.
func (p *RenderPassEncoder) WriteTimestamp(qs *QuerySet, index uint32) {
	p.writeTimestamp("render", qs, index)
}

// EndPass ends the pass and unlocks the parent command encoder.
func (p *RenderPassEncoder) EndPass() {
	if p.end("render") && p.raw != nil {
		p.raw.End()
	}
}
