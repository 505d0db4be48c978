package shell

import (
	"errors"
	"io"
	"strings"

	"github.com/kankiry/stm32-usb-cli/wire"
)

// notFound stands in for commands missing from the registry.
var notFound = HandlerFunc(func(_ string, w io.Writer) error {
	_, err := io.WriteString(w, wire.MsgCmdNotFound)
	return err
})

// dispatch runs one completed line and leaves its output as the pending
// response. Only the ASCII space is trimmed; other whitespace belongs to
// the command.
func (s *Session) dispatch(line string) {
	s.resp.Reset()
	defer func() {
		s.pending = s.resp.Bytes()
	}()

	cmd := strings.Trim(line, " ")
	if cmd == "" {
		return
	}

	name, args, _ := strings.Cut(cmd, " ")
	args = strings.TrimLeft(args, " ")

	handler, ok := s.config.Registry.Lookup(name)
	if !ok {
		s.logger.Debug("Command not found", "command", name)
		handler = notFound
	}

	err := handler.Exec(args, s.resp)
	switch {
	case err == nil:
		if s.resp.Truncated() {
			s.logger.Warn("Response truncated", "command", name, "capacity", s.resp.Cap())
		}
	case errors.Is(err, ErrInvalidArgument):
		s.logger.Debug("Command rejected arguments", "command", name, "args", args)
		s.resp.set(wire.MsgArgInvalid)
	default:
		s.logger.Error("Command failed", "command", name, "error", err)
		s.resp.set(wire.MsgUnexpected)
		return
	}

	s.logger.Debug("Command executed", "command", name, "response_length", s.resp.Len())
}
