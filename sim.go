package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kankiry/stm32-usb-cli/device"
)

func newSimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sim",
		Short: "Run the interpreter on the local terminal",
		Long: "sim runs the interpreter on this terminal as if it were the host's serial console. " +
			"The terminal is put in raw mode, so every keystroke reaches the interpreter as typed; " +
			"the Enter key sends CR, which is why the terminator defaults to cr here. " +
			"Ctrl-C or Ctrl-D ends the session.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := loadConfig(cmd, withSimDefaults())
			if err != nil {
				return err
			}
			logger := newLogger(config.LogLevel, cmd.ErrOrStderr())

			in := cmd.InOrStdin()
			if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				state, err := term.MakeRaw(int(f.Fd()))
				if err != nil {
					return fmt.Errorf("raw mode: %w", err)
				}
				defer term.Restore(int(f.Fd()), state)
			}

			return runDevice(cmd.Context(), config, device.StdioDialer{
				In:  &interruptReader{r: in},
				Out: cmd.OutOrStdout(),
			}, logger)
		},
	}
}

func withSimDefaults() ConfigOption {
	return func(c *Config) error {
		c.Terminator = "cr"
		return nil
	}
}

// interruptReader ends the input at Ctrl-C or Ctrl-D. A terminal in raw
// mode passes both through as plain bytes.
type interruptReader struct {
	r    io.Reader
	done bool
}

func (ir *interruptReader) Read(p []byte) (int, error) {
	if ir.done {
		return 0, io.EOF
	}
	n, err := ir.r.Read(p)
	if i := bytes.IndexAny(p[:n], "\x03\x04"); i >= 0 {
		ir.done = true
		return i, io.EOF
	}
	return n, err
}
