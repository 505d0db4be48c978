package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kankiry/stm32-usb-cli/commands"
	"github.com/kankiry/stm32-usb-cli/shell"
	"github.com/kankiry/stm32-usb-cli/wire"
)

func newLogger(level string, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// newRegistry returns the built-in commands plus the canned commands of
// config.CommandsFile, if any.
func newRegistry(config *Config) (*commands.Registry, error) {
	registry := commands.Default()
	if config.CommandsFile == "" {
		return registry, nil
	}

	table, err := commands.LoadTable(config.CommandsFile)
	if err != nil {
		return nil, err
	}
	if err := registry.RegisterTable(table); err != nil {
		return nil, fmt.Errorf("register %s: %w", config.CommandsFile, err)
	}
	return registry, nil
}

// newShellConfig builds the interpreter configuration served by serve and
// sim. The logger is left to the device, which tags it with the session id.
func newShellConfig(config *Config) (shell.Config, error) {
	registry, err := newRegistry(config)
	if err != nil {
		return shell.Config{}, err
	}

	terminator, err := wire.Terminator(config.Terminator)
	if err != nil {
		return shell.Config{}, fmt.Errorf("%w: %w", shell.ErrInvalidTerminator, err)
	}

	return shell.NewConfigBuilder().
		WithRegistry(registry).
		WithLineCapacity(config.LineCapacity).
		WithResponseCapacity(config.ResponseCapacity).
		WithTerminator(terminator).
		WithPrompt(config.Prompt).
		Build()
}
