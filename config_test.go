package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kankiry/stm32-usb-cli/shell"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(WithDefaults())
	require.NoError(t, err)

	assert.Equal(t, &Config{
		SerialPort:       "/dev/ttyACM0",
		BaudRate:         115200,
		LogLevel:         "info",
		LineCapacity:     64,
		ResponseCapacity: 256,
		Prompt:           "> ",
		Terminator:       "crlf",
		PollInterval:     time.Millisecond,
	}, config)
}

func TestWithEnv(t *testing.T) {
	t.Setenv("SERIAL_PORT", "/dev/ttyGS0")
	t.Setenv("BAUD_RATE", "not-a-number")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("COMMANDS_FILE", "/etc/usbcli/commands.toml")
	t.Setenv("LINE_CAPACITY", "128")
	t.Setenv("RESPONSE_CAPACITY", "512")
	t.Setenv("PROMPT", "$ ")
	t.Setenv("TERMINATOR", "cr")
	t.Setenv("POLL_INTERVAL", "5ms")

	config, err := LoadConfig(WithDefaults(), WithEnv())
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyGS0", config.SerialPort)
	assert.Equal(t, 115200, config.BaudRate, "invalid numbers are ignored")
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "/etc/usbcli/commands.toml", config.CommandsFile)
	assert.Equal(t, 128, config.LineCapacity)
	assert.Equal(t, 512, config.ResponseCapacity)
	assert.Equal(t, "$ ", config.Prompt)
	assert.Equal(t, "cr", config.Terminator)
	assert.Equal(t, 5*time.Millisecond, config.PollInterval)
}

func TestWithFile(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
	}{
		{
			name: "config.toml",
			content: `
serial-port = "/dev/ttyGS1"
line-capacity = 32
poll-interval = "2ms"
`,
		},
		{
			name: "config.yaml",
			content: `
serial-port: /dev/ttyGS1
line-capacity: 32
poll-interval: 2ms
`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			config, err := LoadConfig(WithDefaults(), WithFile(writeFile(t, tc.name, tc.content)))
			require.NoError(t, err)

			assert.Equal(t, "/dev/ttyGS1", config.SerialPort)
			assert.Equal(t, 32, config.LineCapacity)
			assert.Equal(t, 2*time.Millisecond, config.PollInterval)
			assert.Equal(t, 115200, config.BaudRate, "unset keys keep their value")
		})
	}

	t.Run("empty path", func(t *testing.T) {
		config, err := LoadConfig(WithDefaults(), WithFile(""))
		require.NoError(t, err)
		assert.Equal(t, "/dev/ttyACM0", config.SerialPort)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(WithDefaults(), WithFile(filepath.Join(t.TempDir(), "absent.toml")))
		assert.ErrorContains(t, err, "read config file")
	})
}

func TestWithFlags(t *testing.T) {
	t.Setenv("SERIAL_PORT", "/dev/from-env")
	t.Setenv("LOG_LEVEL", "warn")

	fSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fSet.String(keySerialPort, "/dev/ttyACM0", "")
	fSet.String(keyLogLevel, "info", "")
	fSet.Int(keyLineCapacity, 64, "")
	fSet.Duration(keyPollInterval, time.Millisecond, "")
	require.NoError(t, fSet.Parse([]string{"--serial-port=/dev/from-flag", "--line-capacity=16", "--poll-interval=3ms"}))

	config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(fSet))
	require.NoError(t, err)

	assert.Equal(t, "/dev/from-flag", config.SerialPort, "flags win over the environment")
	assert.Equal(t, "warn", config.LogLevel, "unset flags leave the environment value")
	assert.Equal(t, 16, config.LineCapacity)
	assert.Equal(t, 3*time.Millisecond, config.PollInterval)
}

func TestNewShellConfig(t *testing.T) {
	base := func() *Config {
		config, err := LoadConfig(WithDefaults())
		require.NoError(t, err)
		return config
	}

	t.Run("defaults", func(t *testing.T) {
		config, err := newShellConfig(base())
		require.NoError(t, err)
		assert.Equal(t, "\r\n", config.Terminator)
		assert.Equal(t, 64, config.LineCapacity)
		assert.NotNil(t, config.Registry)
	})

	t.Run("named terminator", func(t *testing.T) {
		c := base()
		c.Terminator = "CR"
		config, err := newShellConfig(c)
		require.NoError(t, err)
		assert.Equal(t, "\r", config.Terminator)
	})

	t.Run("unknown terminator", func(t *testing.T) {
		c := base()
		c.Terminator = "tab"
		_, err := newShellConfig(c)
		assert.ErrorIs(t, err, shell.ErrInvalidTerminator)
	})

	t.Run("line capacity too small", func(t *testing.T) {
		c := base()
		c.LineCapacity = 2
		_, err := newShellConfig(c)
		assert.ErrorIs(t, err, shell.ErrInvalidCapacity)
	})

	t.Run("commands file", func(t *testing.T) {
		c := base()
		c.CommandsFile = writeFile(t, "commands.toml", "[[commands]]\nname = \"VERSION\"\nresponse = \"1.0\"\n")
		config, err := newShellConfig(c)
		require.NoError(t, err)
		_, ok := config.Registry.Lookup("VERSION")
		assert.True(t, ok)
	})
}
