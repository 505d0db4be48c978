package device

import "errors"

var (
	// ErrNoDialer is returned when a Device is constructed without a Dialer.
	//
	// This indicates a configuration error. A Dialer is required in order to
	// open the host-facing channel.
	ErrNoDialer = errors.New("no dialer configured")

	// ErrNotInitialized is returned when the Dialer produced no Transport,
	// or when an operation is attempted on a Device that was not created
	// via New.
	ErrNotInitialized = errors.New("device not initialized")

	// ErrAlreadyClosed is returned when Close is called on a Device that has
	// already been closed, or when Loop is started after Close.
	ErrAlreadyClosed = errors.New("device already closed")

	// ErrLoopRunning is returned when Loop is called while another Loop is
	// still serving the same Device.
	//
	// The interpreter session has a single owner; two loops would feed and
	// poll it concurrently.
	ErrLoopRunning = errors.New("device loop already running")
)
