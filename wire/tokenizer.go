package wire

import (
	"bufio"
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// IsValid reports whether an input byte may enter the line buffer: CR, LF
// or printable ASCII. Everything else is dropped by the interpreter.
func IsValid(c byte) bool {
	return c == '\r' || c == '\n' || (' ' <= c && c <= '~')
}

// Terminator resolves a terminator name ("crlf", "cr", "lf", any case) or
// one of those sequences itself into the bytes the interpreter searches for.
func Terminator(name string) (string, error) {
	switch strings.ToLower(name) {
	case "crlf", CRLF:
		return CRLF, nil
	case "cr", CR:
		return CR, nil
	case "lf", LF:
		return LF, nil
	}
	return "", fmt.Errorf("unknown terminator %q", name)
}

// Splitter tokenizes interpreter output on the host side. It uses the
// signature of bufio.SplitFunc so it can be used directly with a
// bufio.Scanner.
//
// Output is split on CRLF. The prompt is never followed by a line ending,
// so it is recognized as a token of its own whenever it starts the
// remaining data; the echo of the next command follows it directly.
func Splitter(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	// 1. Match prompt
	if bytes.HasPrefix(data, []byte(Prompt)) {
		return len(Prompt), data[0:len(Prompt)], nil
	}

	// 2. Match line ending
	if i := bytes.Index(data, []byte(CRLF)); i >= 0 {
		return i + len(CRLF), data[0:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ bufio.SplitFunc = Splitter

// Classify identifies the nature of an output token
func Classify(token string) OutputType {
	if token == Prompt {
		return TypePrompt
	}
	if slices.Contains(Messages, token) {
		return TypeError
	}
	return TypeData
}
