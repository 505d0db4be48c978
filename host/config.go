package host

import (
	"log/slog"
	"time"

	"github.com/kankiry/stm32-usb-cli/device"
	"github.com/kankiry/stm32-usb-cli/wire"
)

type Config struct {
	// Transport is the channel to the device. The Client takes ownership.
	Transport device.Transport
	// Terminator ends every line sent to the device.
	Terminator string
	// Timeout bounds an Exec or Sync whose context has no deadline.
	// Zero disables it.
	Timeout time.Duration
	Logger  *slog.Logger
}

func (c *Config) setDefaults() {
	if c.Terminator == "" {
		c.Terminator = wire.CRLF
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}

func (c *Config) validate() error {
	if c.Transport == nil {
		return ErrNoTransport
	}
	return nil
}

type ConfigBuilder struct {
	config Config
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithTransport(t device.Transport) *ConfigBuilder {
	b.config.Transport = t
	return b
}

func (b *ConfigBuilder) WithTerminator(t string) *ConfigBuilder {
	b.config.Terminator = t
	return b
}

func (b *ConfigBuilder) WithTimeout(d time.Duration) *ConfigBuilder {
	b.config.Timeout = d
	return b
}

func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.config.Logger = l
	return b
}

func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	c.setDefaults()
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
