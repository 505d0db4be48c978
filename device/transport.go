package device

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.bug.st/serial"
)

//go:generate go tool mockgen -source=transport.go -destination=mock_transport.go -package=device

// Transport represents an established, bidirectional byte stream to the
// host, typically a USB CDC serial channel.
//
// Every Read delivers one chunk of host input to the interpreter and every
// Write carries one chunk of interpreter output, so a Write maps to one
// output opportunity of the underlying channel.
type Transport interface {
	io.ReadWriteCloser
}

// Dialer opens a Transport.
//
// Dialer abstracts how the channel is created (a serial port, the local
// terminal, or a test double) and is used during device construction only.
type Dialer interface {
	// Dial creates and returns a connected Transport. It may block and
	// should respect cancellation of ctx.
	Dial(ctx context.Context) (Transport, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context) (Transport, error)

func (f DialerFunc) Dial(ctx context.Context) (Transport, error) {
	return f(ctx)
}

// SerialDialer opens the channel on a serial port using go.bug.st/serial.
// A USB CDC ACM gadget shows up as such a port (/dev/ttyACM0, /dev/ttyGS0,
// COM3).
type SerialDialer struct {
	PortName string
	// BaudRate is used when Mode is nil. USB CDC ignores it.
	BaudRate int
	// Mode overrides the whole line setting. Nil means 8N1 at BaudRate.
	Mode *serial.Mode
}

func (d SerialDialer) Dial(ctx context.Context) (Transport, error) {
	if ctx == nil {
		return nil, errors.New("device: context is nil")
	}
	if d.PortName == "" {
		return nil, errors.New("device: serial port name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := d.Mode
	if mode == nil {
		baud := d.BaudRate
		if baud == 0 {
			baud = 115200
		}
		mode = &serial.Mode{
			BaudRate: baud,
			Parity:   serial.NoParity,
			DataBits: 8,
			StopBits: serial.OneStopBit,
		}
	}

	port, err := serial.Open(d.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("device: open %s: %w", d.PortName, err)
	}
	return port, nil
}

// StdioDialer serves the interpreter over a plain reader and writer, such
// as a terminal in raw mode.
type StdioDialer struct {
	In  io.Reader
	Out io.Writer
}

func (d StdioDialer) Dial(ctx context.Context) (Transport, error) {
	if d.In == nil || d.Out == nil {
		return nil, errors.New("device: stdio dialer needs both In and Out")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return stdioTransport{Reader: d.In, Writer: d.Out}, nil
}

type stdioTransport struct {
	io.Reader
	io.Writer
}

// Close closes the reader if it can be closed. The writer is left open;
// it usually is the process's stdout.
func (t stdioTransport) Close() error {
	if c, ok := t.Reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
