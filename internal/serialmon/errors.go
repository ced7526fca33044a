package serialmon

import (
	"errors"
	"fmt"
)

var (
	ErrInterrupted   = errors.New("serialmon: interrupted")
	ErrAlreadyRan    = errors.New("serialmon: monitor already ran")
	ErrInvalidConfig = errors.New("serialmon: invalid config")
)

// DeviceOp names the device operation that failed.
type DeviceOp string

const (
	OpOpen DeviceOp = "open"
	OpRead DeviceOp = "read"
)

// DeviceError reports a failure to acquire or read the serial device.
type DeviceError struct {
	Op     DeviceOp
	Device string
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("serialmon: %s %s: %v", e.Op, e.Device, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// DecodeError carries a line the decoder could not turn into text.
type DecodeError struct {
	Raw []byte
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("serialmon: decode %d bytes: %v", len(e.Raw), e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
