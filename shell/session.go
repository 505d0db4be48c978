package shell

import (
	"bytes"
	"fmt"
	"iter"
	"log/slog"

	"github.com/kankiry/stm32-usb-cli/wire"
)

// Session is one command line interpreter instance.
//
// Input is pushed with Feed (or Write) as it arrives from the transport and
// output is pulled with Poll, one chunk per call. A full cycle is the echo
// of the input line, a newline, the command response, a newline and the
// prompt. While a cycle's output is draining the session is busy and drops
// new input, so the output of two commands never interleaves.
//
// A Session is not safe for concurrent use. The caller that owns the
// transport must serialize Feed and Poll.
type Session struct {
	config Config
	logger *slog.Logger

	// line holds the input line; len(line) is the write index.
	line []byte
	// read is the echo cursor into line.
	read int
	// lineEnd is the terminator offset of a completed line.
	lineEnd int
	// lineDone marks a completed line whose echo has not finished.
	lineDone bool

	state State
	// queued is the state entered after the pending newline.
	queued State
	busy   bool
	// fault overlays every other state until Poll reports it.
	fault error

	resp *Response
	// pending is what the next response phase emits.
	pending []byte
}

// New creates a session in the bootstrap state.
func New(config Config) (*Session, error) {
	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Session{
		config: config,
		logger: logger,
		line:   make([]byte, 0, config.LineCapacity),
		resp:   newResponse(config.ResponseCapacity),
		state:  StateBootstrap,
	}, nil
}

// Feed buffers input bytes and runs the command once the line terminator
// arrives. It reports whether the input was taken; input is ignored while
// the session is busy and when p is empty.
//
// Overflow is not reported here. It surfaces as the overflow message on the
// following polls.
func (s *Session) Feed(p []byte) bool {
	if s.busy || len(p) == 0 {
		return false
	}

	if err := s.assemble(p); err != nil {
		s.logger.Warn("Input line dropped", "error", err)
		s.busy = true
		s.fault = err
		return true
	}

	end := bytes.Index(s.line, []byte(s.config.Terminator))
	if end < 0 {
		return true
	}

	s.lineEnd = end
	s.dispatch(string(s.line[:end]))
	s.busy = true
	s.lineDone = true
	s.state = StateEchoing
	return true
}

// Write implements io.Writer on top of Feed. It always consumes all of p.
func (s *Session) Write(p []byte) (int, error) {
	s.Feed(p)
	return len(p), nil
}

// assemble appends the valid bytes of p to the line buffer.
func (s *Session) assemble(p []byte) error {
	for _, c := range p {
		if !wire.IsValid(c) {
			continue
		}
		s.line = append(s.line, c)
		if len(s.line) >= s.config.LineCapacity {
			return fmt.Errorf("%w: line reached %d bytes", ErrOverflow, s.config.LineCapacity)
		}
	}
	return nil
}

// Poll returns the next output chunk, if any. Each call performs at most
// one state transition and emits at most one chunk; the order of checks is
// fault, echo, newline, response, prompt.
func (s *Session) Poll() ([]byte, bool) {
	if s.fault != nil {
		s.pending = []byte(Message(s.fault))
		s.fault = nil
		s.lineDone = false
		s.state, s.queued = StateNewlinePending, StateResponsePending
		return nil, false
	}

	switch s.state {
	case StateEchoing:
		return s.echo()

	case StateNewlinePending:
		s.state = s.queued
		return []byte(s.config.Newline), true

	case StateResponsePending:
		chunk := bytes.Clone(s.pending)
		s.state, s.queued = StateNewlinePending, StatePromptPending
		return chunk, true

	case StatePromptPending, StateBootstrap:
		s.reset()
		s.busy = false
		s.state = StateEchoing
		return []byte(s.config.Prompt), true

	default:
		s.logger.Error("Output state machine recovered", "state", s.state, "error", ErrUnexpectedState)
		s.pending = []byte(wire.MsgUnexpected)
		s.busy = true
		s.state, s.queued = StateNewlinePending, StateResponsePending
		return nil, false
	}
}

// echo emits the input not yet echoed. A completed line ends the echo
// phase even if nothing is left to emit; a blank response skips straight
// to the prompt.
func (s *Session) echo() ([]byte, bool) {
	end := len(s.line)
	if s.lineDone {
		end = s.lineEnd
	}

	var chunk []byte
	if s.read < end {
		chunk = bytes.Clone(s.line[s.read:end])
		s.read = end
	}

	if s.lineDone {
		s.lineDone = false
		s.state, s.queued = StateNewlinePending, StateResponsePending
		if len(s.pending) == 0 {
			s.queued = StatePromptPending
		}
	}

	return chunk, chunk != nil
}

// reset clears the line assembler and the response for the next cycle.
func (s *Session) reset() {
	clear(s.line[:cap(s.line)])
	s.line = s.line[:0]
	s.read = 0
	s.lineEnd = 0
	s.lineDone = false
	s.resp.Reset()
	s.pending = nil
}

// Pending reports whether a Poll would emit output or change state. It is
// false only while the session waits for input with everything echoed.
func (s *Session) Pending() bool {
	if s.fault != nil {
		return true
	}
	if s.state == StateEchoing {
		return s.lineDone || s.read < len(s.line)
	}
	return true
}

// Output polls until nothing is pending and yields each emitted chunk.
// Ranging over it once after every Feed drains the session.
func (s *Session) Output() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for s.Pending() {
			chunk, ok := s.Poll()
			if !ok {
				continue
			}
			if !yield(chunk) {
				return
			}
		}
	}
}

func (s *Session) State() State {
	return s.state
}

// Busy reports whether input is currently ignored.
func (s *Session) Busy() bool {
	return s.busy
}

// Buffered returns the number of bytes in the line buffer.
func (s *Session) Buffered() int {
	return len(s.line)
}
