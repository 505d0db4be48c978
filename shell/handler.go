package shell

import (
	"io"
)

//go:generate go tool mockgen -source=handler.go -destination=mock_shell.go -package=shell

// Handler executes one command.
//
// args is the argument text after the command name with leading spaces
// removed; it is empty when the line held only the name. Output written to
// w becomes the response. Returning an error wrapping ErrInvalidArgument
// replaces the output with the canonical argument message; any other error
// is reported as an unexpected problem.
type Handler interface {
	Exec(args string, w io.Writer) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(args string, w io.Writer) error

// Exec calls f(args, w).
func (f HandlerFunc) Exec(args string, w io.Writer) error {
	return f(args, w)
}

// Registry resolves command names to handlers. Lookup is exact and case
// sensitive. The dispatcher only reads from it.
type Registry interface {
	Lookup(name string) (Handler, bool)
}
