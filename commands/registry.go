package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kankiry/stm32-usb-cli/shell"
)

// Sentinel errors for command registration.
var (
	ErrEmptyName     = errors.New("command name is empty")
	ErrInvalidName   = errors.New("command name must be printable ASCII without spaces")
	ErrAlreadyExists = errors.New("command already registered")
	ErrNilHandler    = errors.New("command handler is nil")
)

type entry struct {
	name    string
	handler shell.Handler
}

// Registry is an ordered command table. Names are unique; registering a
// name twice fails instead of shadowing the earlier entry.
//
// Registration is expected to finish before the registry is handed to a
// session; lookups do not lock.
type Registry struct {
	entries []entry
	index   map[string]int
}

var _ shell.Registry = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a command. Returns ErrAlreadyExists if the name is taken.
func (r *Registry) Register(name string, h shell.Handler) error {
	if err := validateName(name); err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("%w: %s", ErrNilHandler, name)
	}
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}

	r.index[name] = len(r.entries)
	r.entries = append(r.entries, entry{name: name, handler: h})
	return nil
}

// MustRegister is Register for static tables; it panics on error.
func (r *Registry) MustRegister(name string, h shell.Handler) {
	if err := r.Register(name, h); err != nil {
		panic(fmt.Sprintf("commands.MustRegister(%q): %v", name, err))
	}
}

// Lookup implements shell.Registry.
func (r *Registry) Lookup(name string) (shell.Handler, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.entries[i].handler, true
}

// Names returns the command names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

func (r *Registry) Len() int {
	return len(r.entries)
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if strings.ContainsFunc(name, func(c rune) bool { return c <= ' ' || c > '~' }) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
