package gpuquery

// DeviceOption configures a Device during creation.
// Use functional options to customize Device behavior.
//
// Example:
//
//	// Default device: errors go to error scopes or the logger
//	dev, err := adapter.CreateDevice(nil)
//
//	// Receive every uncaptured validation error
//	dev, err := adapter.CreateDevice([]string{"timestamp_query"},
//	    gpuquery.WithErrorCallback(func(code gpuquery.ErrorCode, msg string) {
//	        log.Printf("%s: %s", code, msg)
//	    }))
type DeviceOption func(*deviceOptions)

// deviceOptions holds optional configuration for Device creation.
type deviceOptions struct {
	label         string
	onError       ErrorCallback
	maxQueryCount uint32
}

// defaultDeviceOptions returns the default device options.
func defaultDeviceOptions() deviceOptions {
	return deviceOptions{
		maxQueryCount: MaxQueryCount,
	}
}

// ErrorCallback receives validation errors that no error scope captured.
type ErrorCallback func(code ErrorCode, message string)

// WithErrorCallback sets the device's uncaptured error callback.
func WithErrorCallback(fn ErrorCallback) DeviceOption {
	return func(o *deviceOptions) {
		o.onError = fn
	}
}

// WithMaxQueryCount sets the largest query set count the device accepts.
// Zero keeps the default (MaxQueryCount).
func WithMaxQueryCount(n uint32) DeviceOption {
	return func(o *deviceOptions) {
		if n > 0 {
			o.maxQueryCount = n
		}
	}
}

// WithLabel sets the device's debug label.
func WithLabel(label string) DeviceOption {
	return func(o *deviceOptions) {
		o.label = label
	}
}
