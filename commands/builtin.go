package commands

import (
	"io"
	"strings"

	"github.com/kankiry/stm32-usb-cli/shell"
	"github.com/kankiry/stm32-usb-cli/wire"
)

const (
	NameGetLog = "GET_LOG"
	NameHelp   = "HELP"
)

// GetLog writes the log snapshot, the lowercase alphabet. It takes no
// arguments.
var GetLog = shell.HandlerFunc(func(args string, w io.Writer) error {
	if args != "" {
		return shell.ErrInvalidArgument
	}
	for c := byte('a'); c <= 'z'; c++ {
		if _, err := w.Write([]byte{c}); err != nil {
			return err
		}
	}
	return nil
})

// Help lists the commands of r, one per line, in registration order.
func Help(r *Registry, newline string) shell.Handler {
	return shell.HandlerFunc(func(args string, w io.Writer) error {
		if args != "" {
			return shell.ErrInvalidArgument
		}
		_, err := io.WriteString(w, strings.Join(r.Names(), newline))
		return err
	})
}

// Default returns a registry holding the built-in commands.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(NameGetLog, GetLog)
	r.MustRegister(NameHelp, Help(r, wire.CRLF))
	return r
}
