package main

import (
	"time"

	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "usbcli",
		Short: "Line oriented command interpreter for USB serial channels",
		Long: "usbcli runs the command line interpreter of a USB CDC device: it echoes what the host types, " +
			"runs the command when the line ends, prints the response and a fresh prompt. " +
			"It can serve the interpreter on a serial port, simulate it on the local terminal, " +
			"or act as the host talking to one.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (TOML, YAML or JSON)")
	flags.String(keySerialPort, "/dev/ttyACM0", "Serial port of the USB channel")
	flags.Int(keyBaudRate, 115200, "Baud rate for serial communication")
	flags.String(keyLogLevel, "info", "Log level (debug, info, warn, error)")
	flags.String(keyCommandsFile, "", "TOML or YAML table of canned commands")
	flags.Int(keyLineCapacity, 64, "Input line buffer size in bytes, terminator included")
	flags.Int(keyResponseCapacity, 256, "Response buffer size in bytes")
	flags.String(keyPrompt, "> ", "Prompt printed when the interpreter is ready")
	flags.String(keyTerminator, "crlf", "Line terminator: crlf, cr or lf")
	flags.Duration(keyPollInterval, time.Millisecond, "Time between two output chunks")

	rootCmd.AddCommand(
		newServeCmd(),
		newSimCmd(),
		newConsoleCmd(),
		newCommandsCmd(),
	)

	return rootCmd
}

// loadConfig layers defaults, the per-command defaults, the config file,
// the environment and the flags set on cmd, in that order.
func loadConfig(cmd *cobra.Command, defaults ...ConfigOption) (*Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	opts := append([]ConfigOption{WithDefaults()}, defaults...)
	opts = append(opts, WithFile(path), WithEnv(), WithFlags(cmd.Flags()))
	return LoadConfig(opts...)
}
