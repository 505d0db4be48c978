package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kankiry/stm32-usb-cli/device"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the interpreter on a serial port",
		Long: "serve opens the serial port of a USB CDC gadget (for example /dev/ttyGS0) and runs the " +
			"interpreter on it until the host goes away or the process is interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(config.LogLevel, cmd.ErrOrStderr())

			return runDevice(cmd.Context(), config, device.SerialDialer{
				PortName: config.SerialPort,
				BaudRate: config.BaudRate,
			}, logger)
		},
	}
}

// runDevice serves one interpreter session over the dialed transport. A host
// that goes away and a shutdown signal both end the session cleanly.
func runDevice(ctx context.Context, config *Config, dialer device.Dialer, logger *slog.Logger) error {
	shellConfig, err := newShellConfig(config)
	if err != nil {
		return err
	}

	deviceConfig, err := device.NewConfigBuilder().
		WithDialer(dialer).
		WithShell(shellConfig).
		WithPollInterval(config.PollInterval).
		WithLogger(logger).
		Build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := device.New(ctx, deviceConfig)
	if err != nil {
		logger.Error("Failed to open device", "error", err)
		return err
	}
	defer d.Close()

	logger.Info("Starting interpreter", "session", d.ID())

	err = d.Loop(ctx)
	switch {
	case errors.Is(err, io.EOF):
		logger.Info("Host disconnected")
		return nil
	case errors.Is(err, context.Canceled):
		logger.Info("Received shutdown signal")
		return nil
	}
	return err
}
