package gpuquery

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a validation failure. Codes are stable identifiers:
// tests and tools match on them, never on messages.
//
// ErrorCode implements error so a code can be the target of errors.Is:
//
//	if errors.Is(err, gpuquery.IndexOutOfRange) { ... }
type ErrorCode uint8

const (
	// InvalidEnum is a numeric value outside the recognized variant set.
	InvalidEnum ErrorCode = iota + 1

	// MissingCapability means the device lacks a capability the descriptor needs.
	MissingCapability

	// ExtraneousStatistics is a non-empty statistics list on a type that forbids it.
	ExtraneousStatistics

	// EmptyStatistics is an empty statistics list on a PipelineStatistics set.
	EmptyStatistics

	// DuplicateStatistic is a statistics list naming the same counter twice.
	DuplicateStatistic

	// CrossDeviceUse is an object used with a device other than its owner.
	CrossDeviceUse

	// WrongQueryType is a query set whose type does not fit the operation.
	WrongQueryType

	// IndexOutOfRange is a query index at or past the set's count.
	IndexOutOfRange

	// UseAfterDestroy is a destroyed query set recorded into an encoder.
	UseAfterDestroy

	// UseAfterDestroyAtSubmit is a query set destroyed between record and submit.
	UseAfterDestroyAtSubmit

	// UseAfterEnd is a record or finish call on a finished command encoder.
	UseAfterEnd

	// PassAlreadyEnded is a call on a pass encoder after EndPass.
	PassAlreadyEnded

	// InvalidObject is a nil handle, such as the result of a failed creation.
	InvalidObject

	// QueryCountExceedsLimit is a query set count above the device limit.
	QueryCountExceedsLimit

	// EncoderLocked is a command encoder call made while a pass is open.
	EncoderLocked

	// UnendedPass is Finish called while a pass is still open.
	UnendedPass

	// CommandBufferReused is a command buffer submitted more than once.
	CommandBufferReused

	// Internal is a backend failure after validation passed.
	Internal
)

var codeNames = [...]string{
	InvalidEnum:             "InvalidEnum",
	MissingCapability:       "MissingCapability",
	ExtraneousStatistics:    "ExtraneousStatistics",
	EmptyStatistics:         "EmptyStatistics",
	DuplicateStatistic:      "DuplicateStatistic",
	CrossDeviceUse:          "CrossDeviceUse",
	WrongQueryType:          "WrongQueryType",
	IndexOutOfRange:         "IndexOutOfRange",
	UseAfterDestroy:         "UseAfterDestroy",
	UseAfterDestroyAtSubmit: "UseAfterDestroyAtSubmit",
	UseAfterEnd:             "UseAfterEnd",
	PassAlreadyEnded:        "PassAlreadyEnded",
	InvalidObject:           "InvalidObject",
	QueryCountExceedsLimit:  "QueryCountExceedsLimit",
	EncoderLocked:           "EncoderLocked",
	UnendedPass:             "UnendedPass",
	CommandBufferReused:     "CommandBufferReused",
	Internal:                "Internal",
}

// String returns the stable identifier of the code.
func (c ErrorCode) String() string {
	if int(c) < len(codeNames) && codeNames[c] != "" {
		return codeNames[c]
	}
	return fmt.Sprintf("ErrorCode(%d)", uint8(c))
}

// Error implements error.
func (c ErrorCode) Error() string {
	return "gpuquery: " + c.String()
}

// ErrorCodes returns every defined code in declaration order.
func ErrorCodes() []ErrorCode {
	codes := make([]ErrorCode, 0, len(codeNames)-1)
	for c := InvalidEnum; c <= Internal; c++ {
		codes = append(codes, c)
	}
	return codes
}

// ParseErrorCode returns the code with the given identifier.
func ParseErrorCode(name string) (ErrorCode, bool) {
	for _, c := range ErrorCodes() {
		if codeNames[c] == name {
			return c, true
		}
	}
	return 0, false
}

// Error is a validation failure reported by a device.
type Error struct {
	Code    ErrorCode
	Message string
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements error.
func (e *Error) Error() string {
	return "gpuquery: " + e.Code.String() + ": " + e.Message
}

// Is reports whether target is this error's code.
func (e *Error) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.Code
}

// CodeOf returns the validation code carried by err, or 0 when err is not
// a validation error.
func CodeOf(err error) ErrorCode {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Code
	}
	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}
	return 0
}

// Non-validation errors.
var (
	// ErrNilAdapter is returned when a device is requested from a nil adapter.
	ErrNilAdapter = errors.New("gpuquery: adapter is nil")

	// ErrUnsupportedCapability is returned when a device requests a capability
	// its adapter does not support.
	ErrUnsupportedCapability = errors.New("gpuquery: capability not supported by adapter")
)
