package gpuquery

import "fmt"

// PassState is the state of a compute or render pass encoder.
type PassState int

const (
	// PassStateOpen means the pass accepts commands.
	PassStateOpen PassState = iota

	// PassStateEnded means EndPass has been called.
	PassStateEnded
)

// String returns the string representation of PassState.
func (s PassState) String() string {
	switch s {
	case PassStateOpen:
		return "Open"
	case PassStateEnded:
		return "Ended"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// passEncoder is the state shared by compute and render passes. Errors are
// latched into the parent command encoder.
type passEncoder struct {
	encoder *CommandEncoder
	label   string
	state   PassState

	// inert passes came from a Begin call that failed; their calls are
	// dropped because the failure is already recorded.
	inert bool
}

// Label returns the pass's debug label.
func (p *passEncoder) Label() string {
	return p.label
}

// State returns the current pass state.
func (p *passEncoder) State() PassState {
	return p.state
}

// checkOpen reports whether the pass accepts a call named op.
func (p *passEncoder) checkOpen(kind, op string) bool {
	if p.inert {
		return false
	}
	if p.state == PassStateEnded {
		p.encoder.latch(newError(PassAlreadyEnded, "%s on ended %s pass %q", op, kind, p.label))
		return false
	}
	return true
}

func (p *passEncoder) writeTimestamp(kind string, qs *QuerySet, index uint32) {
	if !p.checkOpen(kind, "WriteTimestamp") {
		return
	}
	p.encoder.writeTimestamp(qs, index)
}

// end moves the pass to Ended and unlocks the parent. It reports whether
// the backend pass should be closed.
func (p *passEncoder) end(kind string) bool {
	if !p.checkOpen(kind, "EndPass") {
		return false
	}
	p.state = PassStateEnded
	p.encoder.unlock()
	return true
}
