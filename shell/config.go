package shell

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kankiry/stm32-usb-cli/wire"
)

const (
	DefaultLineCapacity     = 64
	DefaultResponseCapacity = 256
)

type Config struct {
	// Registry resolves command names. Required.
	Registry Registry
	// LineCapacity is the size of the input line buffer, terminator included.
	LineCapacity int
	// ResponseCapacity is the size of the response buffer, terminator slot
	// included.
	ResponseCapacity int
	// Terminator ends an input line.
	Terminator string
	// Newline is emitted between the echo, the response and the prompt.
	Newline string
	// Prompt is emitted when the interpreter is ready for input.
	Prompt string
	// Logger defaults to a discarding logger when nil.
	Logger *slog.Logger
}

func (c *Config) setDefaults() {
	if c.LineCapacity == 0 {
		c.LineCapacity = DefaultLineCapacity
	}
	if c.ResponseCapacity == 0 {
		c.ResponseCapacity = DefaultResponseCapacity
	}
	if c.Terminator == "" {
		c.Terminator = wire.CRLF
	}
	if c.Newline == "" {
		c.Newline = wire.CRLF
	}
	if c.Prompt == "" {
		c.Prompt = wire.Prompt
	}
}

func (c *Config) validate() error {
	if c.Registry == nil {
		return ErrNoRegistry
	}
	if c.LineCapacity <= len(c.Terminator) {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, c.LineCapacity)
	}
	if c.ResponseCapacity <= wire.LongestMessage() {
		return fmt.Errorf("%w: %d, need more than %d", ErrResponseCapacity, c.ResponseCapacity, wire.LongestMessage())
	}
	if strings.IndexFunc(c.Terminator, func(r rune) bool { return r > '~' || !wire.IsValid(byte(r)) }) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidTerminator, c.Terminator)
	}
	return nil
}

// ConfigBuilder assembles a Config step by step.
type ConfigBuilder struct {
	config Config
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithRegistry(r Registry) *ConfigBuilder {
	b.config.Registry = r
	return b
}

func (b *ConfigBuilder) WithLineCapacity(n int) *ConfigBuilder {
	b.config.LineCapacity = n
	return b
}

func (b *ConfigBuilder) WithResponseCapacity(n int) *ConfigBuilder {
	b.config.ResponseCapacity = n
	return b
}

func (b *ConfigBuilder) WithTerminator(t string) *ConfigBuilder {
	b.config.Terminator = t
	return b
}

func (b *ConfigBuilder) WithNewline(nl string) *ConfigBuilder {
	b.config.Newline = nl
	return b
}

func (b *ConfigBuilder) WithPrompt(p string) *ConfigBuilder {
	b.config.Prompt = p
	return b
}

func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.config.Logger = l
	return b
}

// Build applies defaults and validates the result.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	c.setDefaults()
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
