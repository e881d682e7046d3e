package gtp

import (
	"errors"
	"fmt"
)

// Standard errors returned by the GTP client.
var (
	// ErrNotStarted indicates a command was submitted before a ready
	// engine process exists. The caller may retry after Start succeeds.
	ErrNotStarted = errors.New("gtp client not started")

	// ErrAlreadyStarted indicates the client is already running.
	ErrAlreadyStarted = errors.New("gtp client already started")

	// ErrShutdown indicates the client has been shut down while requests
	// were outstanding.
	ErrShutdown = errors.New("gtp client shut down")
)

// SpawnError indicates the engine process could not be started.
// It is fatal for this client instance until a new Start succeeds.
type SpawnError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn engine %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying spawn error.
func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitError indicates the engine process terminated unexpectedly.
// Every pending and queued request is failed with this error; the
// client does not restart the engine on its own.
type ExitError struct {
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("engine exited unexpectedly with code %d", e.Code)
}

// EngineError indicates the engine rejected a command with a
// "?"-prefixed response, for example an illegal move. It is recoverable;
// the caller decides how to react.
type EngineError struct {
	Message string
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("engine rejected command: %s", e.Message)
}

// ProtocolError indicates a response frame that is neither a success
// nor a failure frame. It carries the raw frame for diagnostics and
// signals a desync risk between engine and client.
type ProtocolError struct {
	Frame string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected response frame: %q", e.Frame)
}
