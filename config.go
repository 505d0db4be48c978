package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	// SerialPort is the path to the USB serial channel (e.g. "/dev/ttyACM0")
	SerialPort string
	// BaudRate is the baud rate of the serial line (e.g. 115200)
	BaudRate int
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
	// CommandsFile is an optional TOML or YAML table of canned commands
	CommandsFile string
	// LineCapacity is the size of the interpreter's input line buffer
	LineCapacity int
	// ResponseCapacity is the size of the interpreter's response buffer
	ResponseCapacity int
	// Prompt is printed when the interpreter is ready for a command
	Prompt string
	// Terminator ends a command line: "crlf", "cr" or "lf"
	Terminator string
	// PollInterval is the time between two output chunks
	PollInterval time.Duration
}

// Configuration keys shared by the config file and the flags.
const (
	keySerialPort       = "serial-port"
	keyBaudRate         = "baud-rate"
	keyLogLevel         = "log-level"
	keyCommandsFile     = "commands"
	keyLineCapacity     = "line-capacity"
	keyResponseCapacity = "response-capacity"
	keyPrompt           = "prompt"
	keyTerminator       = "terminator"
	keyPollInterval     = "poll-interval"
)

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.SerialPort = "/dev/ttyACM0"
		c.BaudRate = 115200
		c.LogLevel = "info"
		c.LineCapacity = 64
		c.ResponseCapacity = 256
		c.Prompt = "> "
		c.Terminator = "crlf"
		c.PollInterval = time.Millisecond
		return nil
	}
}

// WithFile loads configuration from a TOML, YAML or JSON file. An empty
// path leaves the config untouched.
func WithFile(path string) ConfigOption {
	return func(c *Config) error {
		if path == "" {
			return nil
		}

		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}

		if v.IsSet(keySerialPort) {
			c.SerialPort = v.GetString(keySerialPort)
		}
		if v.IsSet(keyBaudRate) {
			c.BaudRate = v.GetInt(keyBaudRate)
		}
		if v.IsSet(keyLogLevel) {
			c.LogLevel = v.GetString(keyLogLevel)
		}
		if v.IsSet(keyCommandsFile) {
			c.CommandsFile = v.GetString(keyCommandsFile)
		}
		if v.IsSet(keyLineCapacity) {
			c.LineCapacity = v.GetInt(keyLineCapacity)
		}
		if v.IsSet(keyResponseCapacity) {
			c.ResponseCapacity = v.GetInt(keyResponseCapacity)
		}
		if v.IsSet(keyPrompt) {
			c.Prompt = v.GetString(keyPrompt)
		}
		if v.IsSet(keyTerminator) {
			c.Terminator = v.GetString(keyTerminator)
		}
		if v.IsSet(keyPollInterval) {
			c.PollInterval = v.GetDuration(keyPollInterval)
		}
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.BaudRate = b
			}
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if file := os.Getenv("COMMANDS_FILE"); file != "" {
			c.CommandsFile = file
		}

		if n := os.Getenv("LINE_CAPACITY"); n != "" {
			if v, err := strconv.Atoi(n); err == nil {
				c.LineCapacity = v
			}
		}

		if n := os.Getenv("RESPONSE_CAPACITY"); n != "" {
			if v, err := strconv.Atoi(n); err == nil {
				c.ResponseCapacity = v
			}
		}

		if prompt := os.Getenv("PROMPT"); prompt != "" {
			c.Prompt = prompt
		}

		if term := os.Getenv("TERMINATOR"); term != "" {
			c.Terminator = term
		}

		if interval := os.Getenv("POLL_INTERVAL"); interval != "" {
			if d, err := time.ParseDuration(interval); err == nil {
				c.PollInterval = d
			}
		}

		return nil
	}
}

// WithFlags loads configuration from the command-line flags that were set
func WithFlags(fSet *pflag.FlagSet) ConfigOption {
	return func(c *Config) error {
		fSet.Visit(func(f *pflag.Flag) {
			switch f.Name {
			case keySerialPort:
				c.SerialPort = f.Value.String()
			case keyBaudRate:
				if b, err := strconv.Atoi(f.Value.String()); err == nil {
					c.BaudRate = b
				}
			case keyLogLevel:
				c.LogLevel = f.Value.String()
			case keyCommandsFile:
				c.CommandsFile = f.Value.String()
			case keyLineCapacity:
				if n, err := strconv.Atoi(f.Value.String()); err == nil {
					c.LineCapacity = n
				}
			case keyResponseCapacity:
				if n, err := strconv.Atoi(f.Value.String()); err == nil {
					c.ResponseCapacity = n
				}
			case keyPrompt:
				c.Prompt = f.Value.String()
			case keyTerminator:
				c.Terminator = f.Value.String()
			case keyPollInterval:
				if d, err := time.ParseDuration(f.Value.String()); err == nil {
					c.PollInterval = d
				}
			}
		})
		return nil
	}
}
