// Package serialmon owns the serial line monitor.
//
// Ownership boundary:
// - device acquisition and release (exactly once per run)
//
// - readline with read-timeout semantics
//
// - line decoding and console output
//
// Lifecycle order:
// - init -> open -> closed
//
// - closed is terminal; a Monitor runs once.
//
// Errors form a closed set: *DecodeError (per line, the loop continues),
// ErrInterrupted (farewell, stop) and *DeviceError (stop).
package serialmon
