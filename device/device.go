package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kankiry/stm32-usb-cli/shell"
)

// Device serves one interpreter session over a Transport. It plays the part
// of the firmware's USB class driver: host input is fed to the session as
// it arrives and the session output is polled once per output opportunity.
type Device struct {
	// transport is the channel to the host
	transport Transport
	// session is owned by the goroutine running Loop
	session *shell.Session
	logger  *slog.Logger
	// id tags the log records of this connection
	id string

	pollInterval time.Duration
	readSize     int

	mu          sync.Mutex
	closed      bool
	loopRunning bool

	closeOnce sync.Once
	closeErr  error

	// loopCtx is cancelled by Close to stop a running Loop
	loopCtx    context.Context
	loopCancel context.CancelFunc
}

// New creates the interpreter session and opens the transport.
//
// Returns an error if the configuration is invalid or the dialer fails.
func New(ctx context.Context, config Config) (*Device, error) {
	config.setDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	id := uuid.Must(uuid.NewV7()).String()
	logger := config.Logger.With("session", id)
	if config.Shell.Logger == nil {
		config.Shell.Logger = logger.With("component", "shell")
	}

	session, err := shell.New(config.Shell)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	transport, err := config.Dialer.Dial(ctx)
	if err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, ErrNotInitialized
	}

	d := &Device{
		transport:    transport,
		session:      session,
		logger:       logger.With("component", "device"),
		id:           id,
		pollInterval: config.PollInterval,
		readSize:     config.ReadSize,
	}
	d.loopCtx, d.loopCancel = context.WithCancel(context.Background())

	return d, nil
}

// ID returns the identifier used in this device's log records.
func (d *Device) ID() string {
	return d.id
}

// Loop serves the session until ctx is cancelled, the device is closed, or
// the transport fails. It returns io.EOF when the host input ends, once the
// output of the last line has been written.
//
// Loop is the only goroutine that touches the session:
//
//  1. A reader goroutine forwards every transport Read as one input chunk
//  2. Each chunk is fed to the session immediately
//  3. While output is pending, the session is polled once per PollInterval
//     and each chunk it returns is written to the transport
//
// When Loop returns the transport is closed.
func (d *Device) Loop(ctx context.Context) error {
	d.mu.Lock()
	switch {
	case d.transport == nil:
		d.mu.Unlock()
		return ErrNotInitialized
	case d.closed:
		d.mu.Unlock()
		return ErrAlreadyClosed
	case d.loopRunning:
		d.mu.Unlock()
		return ErrLoopRunning
	}
	d.loopRunning = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.loopRunning = false
		d.mu.Unlock()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(d.loopCtx, cancel)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// The reader is not part of the group: a Read blocked on a terminal
	// may outlive the loop and must not hold up its return.
	chunks := make(chan []byte, 16)
	readErrs := make(chan error, 1)
	go d.read(gctx, chunks, readErrs)

	g.Go(func() error {
		return d.pump(gctx, chunks, readErrs)
	})
	g.Go(func() error {
		<-gctx.Done()
		if err := d.closeTransport(); err != nil {
			d.logger.Warn("Failed to close transport", "error", err)
		}
		return nil
	})

	d.logger.Info("Serving interpreter")
	err := g.Wait()
	d.logger.Info("Interpreter stopped", "reason", err)
	return err
}

func (d *Device) read(ctx context.Context, chunks chan<- []byte, errs chan<- error) {
	defer close(chunks)

	buf := make([]byte, d.readSize)
	for {
		n, err := d.transport.Read(buf)
		if n > 0 {
			select {
			case chunks <- bytes.Clone(buf[:n]):
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errs <- err
			return
		}
	}
}

func (d *Device) pump(ctx context.Context, chunks <-chan []byte, readErrs <-chan error) error {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	// eof is set once the host input has ended; the output still owed
	// for the last line is drained before returning it.
	var eof bool

	for {
		// Poll only while the session has something to say; an idle
		// session waits for input.
		var tick <-chan time.Time
		if d.session.Pending() {
			tick = ticker.C
		} else if eof {
			return io.EOF
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case chunk, ok := <-chunks:
			if !ok {
				select {
				case err := <-readErrs:
					if !errors.Is(err, io.EOF) {
						return fmt.Errorf("read error: %w", err)
					}
				default:
				}
				eof = true
				chunks = nil
				continue
			}
			if !d.session.Feed(chunk) {
				d.logger.Debug("Input ignored while busy", "bytes", len(chunk))
			}

		case <-tick:
			out, ok := d.session.Poll()
			if !ok {
				continue
			}
			if _, err := d.transport.Write(out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}
}

// Close stops a running Loop and closes the transport. After Close the
// device cannot be reused.
func (d *Device) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrAlreadyClosed
	}
	d.closed = true
	d.mu.Unlock()

	if d.loopCancel != nil {
		d.loopCancel()
	}
	return d.closeTransport()
}

func (d *Device) closeTransport() error {
	d.closeOnce.Do(func() {
		if d.transport != nil {
			d.closeErr = d.transport.Close()
		}
	})
	return d.closeErr
}
