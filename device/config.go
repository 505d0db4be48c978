package device

import (
	"log/slog"
	"time"

	"github.com/kankiry/stm32-usb-cli/shell"
)

// Config holds what a Device needs to serve one interpreter session.
type Config struct {
	Dialer Dialer
	// Shell configures the interpreter session.
	Shell shell.Config
	// PollInterval is the time between two output opportunities while the
	// session has output pending. An idle session is not polled.
	PollInterval time.Duration
	// ReadSize is the largest input chunk read from the transport at once.
	ReadSize int
	Logger   *slog.Logger
}

func (c *Config) setDefaults() {
	if c.PollInterval == 0 {
		// One full-speed USB frame.
		c.PollInterval = time.Millisecond
	}
	if c.ReadSize == 0 {
		// One full-speed USB bulk packet.
		c.ReadSize = 64
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}

func (c *Config) validate() error {
	if c.Dialer == nil {
		return ErrNoDialer
	}
	return nil
}

type ConfigBuilder struct {
	config Config
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.Dialer = d
	return b
}

func (b *ConfigBuilder) WithShell(c shell.Config) *ConfigBuilder {
	b.config.Shell = c
	return b
}

func (b *ConfigBuilder) WithPollInterval(d time.Duration) *ConfigBuilder {
	b.config.PollInterval = d
	return b
}

func (b *ConfigBuilder) WithReadSize(n int) *ConfigBuilder {
	b.config.ReadSize = n
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
