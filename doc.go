// Package gpuquery validates the use of WebGPU query sets.
//
// # Overview
//
// gpuquery decides whether a client's use of occlusion, pipeline statistics
// and timestamp query sets is well formed, and rejects malformed use before
// any command reaches the GPU backend. Backends come from gogpu/wgpu's HAL;
// the headless noop backend is always available.
//
// # Quick Start
//
//	adapter, err := gpuquery.RequestAdapter("")
//	if err != nil {
//		log.Fatal(err)
//	}
//	dev, err := adapter.CreateDevice([]string{"timestamp_query"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	qs, _ := dev.CreateQuerySet(&gpuquery.QuerySetDescriptor{
//		Type:  gpuquery.QueryTypeTimestamp,
//		Count: 2,
//	})
//
//	enc := dev.CreateCommandEncoder("frame")
//	enc.WriteTimestamp(qs, 0)
//	enc.WriteTimestamp(qs, 1)
//	cb, err := enc.Finish()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := dev.Queue().Submit(cb); err != nil {
//		log.Fatal(err)
//	}
//
// # Validation Points
//
// Errors are detected at four points:
//   - CreateQuerySet checks the descriptor against the device capabilities.
//   - WriteTimestamp on an encoder or pass latches the first failure.
//   - Finish returns the latched failure instead of a command buffer.
//   - Submit rejects buffers whose query sets were destroyed since recording.
//
// # Error Delivery
//
// Every validation error is an *Error carrying an ErrorCode. Besides being
// returned where the API has a return path, it is delivered to the
// innermost matching error scope (Device.PushErrorScope), else to the
// device's ErrorCallback, else logged at Warn level. Match codes with
// errors.Is:
//
//	if errors.Is(err, gpuquery.IndexOutOfRange) {
//		...
//	}
//
// # Concurrency
//
// Calls on one device and the objects it created must be serialized by the
// caller. Different devices are independent.
package gpuquery

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
