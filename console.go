package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kankiry/stm32-usb-cli/device"
	"github.com/kankiry/stm32-usb-cli/host"
	"github.com/kankiry/stm32-usb-cli/shell"
	"github.com/kankiry/stm32-usb-cli/wire"
)

func newConsoleCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "console [command...]",
		Short: "Talk to an interpreter over a serial port",
		Long: "console is the host side: it opens the serial port of a device running the interpreter, " +
			"sends command lines and prints the responses. With arguments it runs each one in turn " +
			"and exits; without, it reads command lines from the terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(config.LogLevel, cmd.ErrOrStderr())

			terminator, err := wire.Terminator(config.Terminator)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			transport, err := device.SerialDialer{
				PortName: config.SerialPort,
				BaudRate: config.BaudRate,
			}.Dial(ctx)
			if err != nil {
				return err
			}

			clientConfig, err := host.NewConfigBuilder().
				WithTransport(transport).
				WithTerminator(terminator).
				WithTimeout(timeout).
				WithLogger(logger).
				Build()
			if err != nil {
				transport.Close()
				return err
			}
			client, err := host.New(clientConfig)
			if err != nil {
				transport.Close()
				return err
			}
			defer client.Close()

			if err := client.Sync(ctx); err != nil {
				return fmt.Errorf("sync with device: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				for _, line := range args {
					if err := execLine(ctx, client, line, out); err != nil {
						return err
					}
				}
				return nil
			}

			editor := newLineEditor(cmd.InOrStdin(), out)
			defer editor.Close()
			return runConsole(ctx, client, editor, out)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Time allowed for one command cycle")
	return cmd
}

// lineSource yields command lines typed by the user.
type lineSource interface {
	GetLine(prompt string) (string, error)
}

// runConsole runs lines until the input ends. Errors the interpreter
// reports for a command are shown and the console carries on; channel
// failures end it.
func runConsole(ctx context.Context, client *host.Client, lines lineSource, out io.Writer) error {
	for {
		line, err := lines.GetLine(wire.Prompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := execLine(ctx, client, line, out); err != nil && !reported(err) {
			return err
		}
	}
}

// execLine runs one line and prints its response.
func execLine(ctx context.Context, client *host.Client, line string, out io.Writer) error {
	reply, err := client.Exec(ctx, line)
	for _, l := range reply.Lines {
		fmt.Fprintln(out, l)
	}
	return err
}

// reported tells whether err is a canonical message the interpreter sent
// back, already printed as the response.
func reported(err error) bool {
	return errors.Is(err, shell.ErrCommandNotFound) ||
		errors.Is(err, shell.ErrInvalidArgument) ||
		errors.Is(err, shell.ErrOverflow) ||
		errors.Is(err, shell.ErrUnexpectedState)
}
