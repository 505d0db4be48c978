package wire_test

import (
	"bufio"
	"strings"
	"testing"

	"github.com/kankiry/stm32-usb-cli/wire"
)

func TestSplitter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Bootstrap prompt only",
			input:    "> ",
			expected: []string{"> "},
		},
		{
			name:     "Full command cycle",
			input:    "> GET_LOG\r\nabcdefghijklmnopqrstuvwxyz\r\n> ",
			expected: []string{"> ", "GET_LOG", "abcdefghijklmnopqrstuvwxyz", "> "},
		},
		{
			name:     "Empty line skips response",
			input:    "> \r\n> ",
			expected: []string{"> ", "", "> "},
		},
		{
			name:     "Unknown command",
			input:    "FOO\r\nError : Command not found.\r\n> ",
			expected: []string{"FOO", "Error : Command not found.", "> "},
		},
		{
			name:     "Overflow after partial echo",
			input:    "0123456789\r\nError : Command buffer overflow.\r\n> ",
			expected: []string{"0123456789", "Error : Command buffer overflow.", "> "},
		},
		{
			name:     "Multi line response",
			input:    "HELP\r\nGET_LOG\r\nHELP\r\n> ",
			expected: []string{"HELP", "GET_LOG", "HELP", "> "},
		},
		// EOF scenarios
		{
			name:     "Echo cut off at EOF",
			input:    "> GET_",
			expected: []string{"> ", "GET_"},
		},
		{
			name:     "Partial prompt at EOF",
			input:    "abc\r\n>",
			expected: []string{"abc", ">"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tokens []string
			scanner := bufio.NewScanner(strings.NewReader(tt.input))
			scanner.Split(wire.Splitter)

			for scanner.Scan() {
				tokens = append(tokens, scanner.Text())
			}

			if err := scanner.Err(); err != nil {
				t.Fatalf("Scanner error: %v", err)
			}

			if len(tokens) != len(tt.expected) {
				t.Fatalf("Expected %d tokens, got %d.\nExpected: %q\nGot: %q",
					len(tt.expected), len(tokens), tt.expected, tokens)
			}

			for i, expected := range tt.expected {
				if tokens[i] != expected {
					t.Errorf("Token %d: expected %q, got %q", i, expected, tokens[i])
				}
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected wire.OutputType
	}{
		{name: "Prompt", input: "> ", expected: wire.TypePrompt},
		{name: "Overflow", input: wire.MsgCmdOverflow, expected: wire.TypeError},
		{name: "Unexpected", input: wire.MsgUnexpected, expected: wire.TypeError},
		{name: "Not found", input: wire.MsgCmdNotFound, expected: wire.TypeError},
		{name: "Argument invalid", input: wire.MsgArgInvalid, expected: wire.TypeError},
		{name: "Echo", input: "GET_LOG", expected: wire.TypeData},
		{name: "Response", input: "abcdefghijklmnopqrstuvwxyz", expected: wire.TypeData},
		{name: "Error lookalike", input: "Error : something else", expected: wire.TypeData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := wire.Classify(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %v, got %v for input %q", tt.expected, result, tt.input)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	for c := 0; c < 256; c++ {
		want := c == '\r' || c == '\n' || (c >= 0x20 && c <= 0x7e)
		if got := wire.IsValid(byte(c)); got != want {
			t.Errorf("IsValid(%#02x) = %v, want %v", c, got, want)
		}
	}
}

func TestTerminator(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{in: "crlf", want: "\r\n"},
		{in: "CR", want: "\r"},
		{in: "lf", want: "\n"},
		{in: "\r\n", want: "\r\n"},
		{in: "tab", err: true},
	}
	for _, tt := range tests {
		got, err := wire.Terminator(tt.in)
		if tt.err {
			if err == nil {
				t.Errorf("Terminator(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Terminator(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestLongestMessage(t *testing.T) {
	if got := wire.LongestMessage(); got != len(wire.MsgUnexpected) {
		t.Errorf("LongestMessage() = %d, want %d", got, len(wire.MsgUnexpected))
	}
}
