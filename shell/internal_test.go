package shell

import (
	"slices"
	"strings"
	"testing"

	"github.com/kankiry/stm32-usb-cli/wire"
)

type emptyRegistry struct{}

func (emptyRegistry) Lookup(string) (Handler, bool) { return nil, false }

func TestUnexpectedStateRecovery(t *testing.T) {
	s, err := New(Config{Registry: emptyRegistry{}})
	if err != nil {
		t.Fatalf("unexpected error from New(): %v", err)
	}
	s.state = State(42)

	chunk, ok := s.Poll()
	if ok || chunk != nil {
		t.Fatalf("expected recovery poll without output, got %q", chunk)
	}
	if !s.busy {
		t.Error("recovery should mark the session busy")
	}

	var got []string
	for c := range s.Output() {
		got = append(got, string(c))
	}
	want := []string{wire.CRLF, wire.MsgUnexpected, wire.CRLF, wire.Prompt}
	if !slices.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
	if s.busy || s.state != StateEchoing {
		t.Errorf("expected ready session, got state=%v busy=%v", s.state, s.busy)
	}
}

func TestIndexInvariant(t *testing.T) {
	s, err := New(Config{Registry: emptyRegistry{}, LineCapacity: 16})
	if err != nil {
		t.Fatalf("unexpected error from New(): %v", err)
	}

	inputs := []string{"ab", "", "c d", "\r", "\n", "efghijklmnopqrstu", "x\r\n"}
	for _, in := range inputs {
		s.Feed([]byte(in))
		for range 8 {
			s.Poll()
			if s.read < 0 || s.read > len(s.line) || len(s.line) > s.config.LineCapacity {
				t.Fatalf("index invariant broken after %q: read=%d write=%d cap=%d",
					in, s.read, len(s.line), s.config.LineCapacity)
			}
		}
	}
}

func TestResponse(t *testing.T) {
	r := newResponse(8)

	n, err := r.WriteString("abcd")
	if n != 4 || err != nil {
		t.Fatalf("WriteString() = %d, %v", n, err)
	}
	n, err = r.Write([]byte("efghij"))
	if n != 6 || err != nil {
		t.Errorf("Write() = %d, %v; expected 6, nil", n, err)
	}
	if got := string(r.Bytes()); got != "abcdefg" {
		t.Errorf("expected content bounded to capacity-1, got %q", got)
	}
	if !r.Truncated() {
		t.Error("expected Truncated() after overrun")
	}

	r.Reset()
	if r.Len() != 0 || r.Truncated() {
		t.Errorf("expected empty response after Reset, got %q", r.Bytes())
	}
	if strings.Trim(string(r.buf[:cap(r.buf)]), "\x00") != "" {
		t.Error("Reset should zero the storage")
	}

	r.set("1234")
	if got := string(r.Bytes()); got != "1234" {
		t.Errorf("expected %q, got %q", "1234", got)
	}
}
