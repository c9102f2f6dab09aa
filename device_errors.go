package gpuquery

import (
	"github.com/gogpu/wgpu/core"
)

// SetErrorCallback replaces the uncaptured error callback. Pass nil to
// route uncaptured errors to the logger only.
func (d *Device) SetErrorCallback(fn ErrorCallback) {
	d.onError = fn
}

// PushErrorScope pushes an error scope onto the device's scope stack.
//
// The scope captures the first error matching filter until it is popped.
// Validation failures use core.ErrorFilterValidation; backend failures
// after validation use core.ErrorFilterInternal.
func (d *Device) PushErrorScope(filter core.ErrorFilter) {
	d.scopes.PushErrorScope(filter)
}

// PopErrorScope pops the most recent scope and returns the error it
// captured, or nil. It fails when no scope is pushed.
func (d *Device) PopErrorScope() (*core.GPUError, error) {
	return d.scopes.PopErrorScope()
}

// report delivers err to the topmost matching error scope, else to the
// error callback, else to the logger. It returns before the caller's entry
// point does, so delivery follows program order.
func (d *Device) report(err *Error) {
	filter := core.ErrorFilterValidation
	if err.Code == Internal {
		filter = core.ErrorFilterInternal
	}

	log := Logger()
	log.Debug("gpuquery: validation error",
		"device", d.id,
		"code", err.Code.String(),
		"message", err.Message)

	if d.scopes.ReportError(filter, err.Error()) {
		return
	}
	if d.onError != nil {
		d.onError(err.Code, err.Message)
		return
	}
	log.Warn("gpuquery: uncaptured error",
		"device", d.id,
		"code", err.Code.String(),
		"message", err.Message)
}
