package host

import (
	"errors"

	"github.com/kankiry/stm32-usb-cli/shell"
	"github.com/kankiry/stm32-usb-cli/wire"
)

var (
	// ErrNoTransport is returned when a Client is configured without a
	// Transport.
	ErrNoTransport = errors.New("no transport configured")

	// ErrInvalidLine is returned by Exec when the command line contains a
	// line ending. The device would run it as several commands.
	ErrInvalidLine = errors.New("command line contains a line ending")

	// ErrClosed is returned when the Client is used after Close.
	ErrClosed = errors.New("client closed")
)

// ErrorFor maps a canonical device message back to the interpreter error it
// reports. It returns nil for any other text.
func ErrorFor(msg string) error {
	switch msg {
	case wire.MsgCmdOverflow:
		return shell.ErrOverflow
	case wire.MsgCmdNotFound:
		return shell.ErrCommandNotFound
	case wire.MsgArgInvalid:
		return shell.ErrInvalidArgument
	case wire.MsgUnexpected:
		return shell.ErrUnexpectedState
	}
	return nil
}
