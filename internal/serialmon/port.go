package serialmon

import (
	"time"

	"go.bug.st/serial"
)

// Port is the part of a serial device the monitor reads from.
// Read returns (0, nil) when the read timeout expires without data.
type Port interface {
	Read(p []byte) (int, error)
	Close() error
}

// Opener acquires a Port configured for baud and read timeout.
type Opener interface {
	Open(device string, baud int, timeout time.Duration) (Port, error)
}

type OpenerFunc func(device string, baud int, timeout time.Duration) (Port, error)

func (f OpenerFunc) Open(device string, baud int, timeout time.Duration) (Port, error) {
	return f(device, baud, timeout)
}

// SystemOpener opens OS serial devices (COMx, /dev/tty*) as 8N1.
type SystemOpener struct{}

func (SystemOpener) Open(device string, baud int, timeout time.Duration) (Port, error) {
	p, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(timeout); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

// ListPorts enumerates the serial devices visible to the OS.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
