package host

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kankiry/stm32-usb-cli/device"
	"github.com/kankiry/stm32-usb-cli/wire"
)

// Client drives an interpreter from the host side of the channel: it sends
// one command line at a time and collects the output of its cycle.
type Client struct {
	mu         sync.Mutex
	transport  device.Transport
	scanner    *bufio.Scanner
	terminator string
	timeout    time.Duration
	logger     *slog.Logger
	closed     bool
}

// Reply is the device output of one command cycle.
type Reply struct {
	// Echo is the command line as the device echoed it.
	Echo string
	// Lines holds the response split on line endings. It is empty when
	// the command produced no output.
	Lines []string
}

// Text returns the response lines joined with "\n".
func (r Reply) Text() string {
	return strings.Join(r.Lines, "\n")
}

func New(config Config) (*Client, error) {
	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(config.Transport)
	scanner.Split(wire.Splitter)

	return &Client{
		transport:  config.Transport,
		scanner:    scanner,
		terminator: config.Terminator,
		timeout:    config.Timeout,
		logger:     config.Logger.With("component", "host"),
	}, nil
}

// Sync brings the client in step with the device. It sends an empty line
// and consumes output up to the prompt that closes that line's cycle. Any
// prompt not preceded by output, such as the one printed at start-up, is
// skipped.
//
// Exec assumes every earlier cycle has been consumed, so call Sync once
// after connecting to a device that is already running.
func (c *Client) Sync(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if _, err := io.WriteString(c.transport, c.terminator); err != nil {
		return fmt.Errorf("write terminator: %w", err)
	}

	seen := 0
	for {
		token, err := c.next(ctx)
		if err != nil {
			return err
		}
		if wire.Classify(token) != wire.TypePrompt {
			seen++
			continue
		}
		if seen > 0 {
			c.logger.Debug("Synchronized with device", "tokens", seen)
			return nil
		}
	}
}

// Exec runs one command line and returns its echo and response.
//
// A response made of exactly one canonical message is returned as the
// matching interpreter error (shell.ErrCommandNotFound,
// shell.ErrInvalidArgument, shell.ErrOverflow or shell.ErrUnexpectedState)
// along with the reply.
func (c *Client) Exec(ctx context.Context, line string) (Reply, error) {
	if strings.ContainsAny(line, "\r\n") {
		return Reply{}, ErrInvalidLine
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Reply{}, ErrClosed
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}

	if _, err := io.WriteString(c.transport, line+c.terminator); err != nil {
		return Reply{}, fmt.Errorf("write command %q: %w", line, err)
	}

	var reply Reply
	echoed := false
	for {
		token, err := c.next(ctx)
		if err != nil {
			return reply, err
		}

		kind := wire.Classify(token)
		if !echoed {
			// A prompt before the echo belongs to an earlier cycle.
			if kind == wire.TypePrompt {
				continue
			}
			// A terminator split across reads leaves its first byte in
			// the echo.
			reply.Echo = strings.TrimRight(token, wire.CR)
			echoed = true
			continue
		}

		if kind == wire.TypePrompt {
			break
		}
		reply.Lines = append(reply.Lines, token)
	}

	c.logger.Debug("Command completed", "line", line, "lines", len(reply.Lines))

	if len(reply.Lines) == 1 {
		if err := ErrorFor(reply.Lines[0]); err != nil {
			return reply, fmt.Errorf("exec %q: %w", line, err)
		}
	}
	return reply, nil
}

// Close closes the transport.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	return c.transport.Close()
}

func (c *Client) next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", fmt.Errorf("read error: %w", err)
		}
		return "", io.EOF
	}
	return c.scanner.Text(), nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}
