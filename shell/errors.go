package shell

import (
	"errors"

	"github.com/kankiry/stm32-usb-cli/wire"
)

var (
	// ErrOverflow is recorded when an input line reaches the line buffer
	// capacity before a terminator arrives.
	//
	// It is fatal to the current line only. The interpreter reports it with
	// the canonical overflow message and re-prompts.
	ErrOverflow = errors.New("command buffer overflow")

	// ErrUnexpectedState is used when the output state machine finds itself
	// in a configuration it does not model, or when a handler fails with an
	// error other than ErrInvalidArgument.
	ErrUnexpectedState = errors.New("unexpected interpreter state")

	// ErrCommandNotFound is reported when no registry entry matches the
	// command name.
	ErrCommandNotFound = errors.New("command not found")

	// ErrInvalidArgument is returned by handlers that reject their argument
	// text. Whatever the handler wrote is replaced by the canonical message.
	ErrInvalidArgument = errors.New("argument invalid")

	// ErrNoRegistry is returned when a Config is built without a Registry.
	ErrNoRegistry = errors.New("no command registry configured")

	// ErrInvalidCapacity is returned when the line capacity is not large
	// enough to hold at least one character and the terminator.
	ErrInvalidCapacity = errors.New("invalid line capacity")

	// ErrResponseCapacity is returned when the response capacity cannot hold
	// the longest canonical message plus its terminator slot.
	ErrResponseCapacity = errors.New("response capacity too small")

	// ErrInvalidTerminator is returned when the terminator is empty or
	// contains bytes the line assembler would drop.
	ErrInvalidTerminator = errors.New("invalid line terminator")
)

// Message returns the canonical message reported for err. Errors that are
// not one of the interpreter's kinds map to the unexpected-problem message.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrOverflow):
		return wire.MsgCmdOverflow
	case errors.Is(err, ErrCommandNotFound):
		return wire.MsgCmdNotFound
	case errors.Is(err, ErrInvalidArgument):
		return wire.MsgArgInvalid
	default:
		return wire.MsgUnexpected
	}
}
