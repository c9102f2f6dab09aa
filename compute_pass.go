package gpuquery

import "github.com/gogpu/wgpu/hal"

// ComputePassEncoder records commands within a compute pass.
//
// State machine:
//
//	Open -> EndPass() -> Ended
//
// ComputePassEncoder is NOT safe for concurrent use. The pass must be ended
// before the parent command encoder can record again.
type ComputePassEncoder struct {
	passEncoder
	raw hal.ComputePassEncoder
}

// WriteTimestamp records a timestamp write into slot index of qs.
func (p *ComputePassEncoder) WriteTimestamp(qs *QuerySet, index uint32) {
	p.writeTimestamp("compute", qs, index)
}

// EndPass ends the pass and unlocks the parent command encoder.
func (p *ComputePassEncoder) EndPass() {
	if p.end("compute") && p.raw != nil {
		p.raw.End()
	}
}
