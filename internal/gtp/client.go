package gtp

import (
	"bufio"
	"context"
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/goban/internal/process"
)

// Status represents the client's lifecycle state.
type Status int

const (
	// StatusStopped indicates no engine process is running.
	StatusStopped Status = iota
	// StatusStarting indicates the engine is spawning or warming up.
	StatusStarting
	// StatusReady indicates the engine accepts commands.
	StatusReady
	// StatusShuttingDown indicates the client is shutting down.
	StatusShuttingDown
)

// String returns a human-readable status string.
func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusStarting:
		return "starting"
	case StatusReady:
		return "ready"
	case StatusShuttingDown:
		return "shutting down"
	default:
		return "unknown"
	}
}

// Default timings for engine lifecycle management.
const (
	// DefaultWarmupDelay is how long to wait after spawn before the
	// engine is considered ready. Engines load large model files and
	// cannot accept commands immediately; readiness is time-based, not
	// inferred from output.
	DefaultWarmupDelay = 2 * time.Second

	// DefaultQuitGrace bounds the graceful-shutdown attempt before the
	// engine process is forcibly terminated.
	DefaultQuitGrace = 800 * time.Millisecond

	// DefaultMode is the protocol mode flag passed as the engine's
	// first argument.
	DefaultMode = "gtp"
)

// Client manages a single GTP engine subprocess: it owns the process
// handle, serializes command submissions through a Transport, and
// recovers from unexpected process exit by failing all outstanding work.
//
// Each Client owns exactly one engine connection with isolated state;
// multiple clients may run concurrently for multiple boards. Client is
// safe for concurrent use.
type Client struct {
	exePath    string
	configPath string
	modelPath  string
	mode       string
	warmup     time.Duration
	quitGrace  time.Duration
	logger     *zap.Logger

	mu        sync.Mutex
	status    Status
	child     *process.Child
	transport *Transport
	cancel    context.CancelFunc
	lastSeq   int64
}

// Option configures the client.
type Option func(*Client)

// WithWarmupDelay overrides the fixed warm-up delay after spawn.
func WithWarmupDelay(d time.Duration) Option {
	return func(c *Client) {
		c.warmup = d
	}
}

// WithQuitGrace overrides the graceful-shutdown window for Quit.
func WithQuitGrace(d time.Duration) Option {
	return func(c *Client) {
		c.quitGrace = d
	}
}

// WithMode overrides the protocol mode flag (first engine argument).
func WithMode(mode string) Option {
	return func(c *Client) {
		c.mode = mode
	}
}

// WithLogger sets the logger for engine diagnostics. Engine stderr is
// forwarded here; it is never parsed for protocol meaning.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the engine at exePath. The engine is
// spawned with arguments "<mode> -config <configPath> -model <modelPath>"
// when Start is called.
func NewClient(exePath, configPath, modelPath string, opts ...Option) *Client {
	c := &Client{
		exePath:    exePath,
		configPath: configPath,
		modelPath:  modelPath,
		mode:       DefaultMode,
		warmup:     DefaultWarmupDelay,
		quitGrace:  DefaultQuitGrace,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start spawns the engine process with fully piped stdio and waits out
// the warm-up delay before reporting ready.
//
// A spawn failure returns a SpawnError. If the engine dies during
// warm-up an ExitError is returned. Cancelling ctx during warm-up kills
// the process and returns ctx.Err().
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.status != StatusStopped {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.status = StatusStarting
	c.mu.Unlock()

	cmd := exec.Command(c.exePath, c.mode, "-config", c.configPath, "-model", c.modelPath)

	child, err := process.Start(cmd)
	if err != nil {
		c.mu.Lock()
		c.status = StatusStopped
		c.mu.Unlock()
		return &SpawnError{Path: c.exePath, Err: err}
	}

	c.logger.Info("engine spawned",
		zap.String("path", c.exePath),
		zap.Int("pid", child.PID()),
		zap.Duration("warmup", c.warmup))

	transport := NewTransport(child.Stdout, child.Stdin, WithSequenceStart(c.lastSeq))
	readCtx, cancel := context.WithCancel(context.Background())
	transport.Start(readCtx)

	go c.forwardStderr(child)
	go c.watchExit(child, transport)

	c.mu.Lock()
	c.child = child
	c.transport = transport
	c.cancel = cancel
	c.mu.Unlock()

	// The engine needs warm-up time to load its model before it can
	// accept commands. Readiness is not inferred from output.
	select {
	case <-ctx.Done():
		c.teardown(child, transport, ctx.Err())
		return ctx.Err()
	case <-child.Done():
		// watchExit already drained the transport and reset state.
		return &ExitError{Code: child.ExitCode()}
	case <-time.After(c.warmup):
	}

	c.mu.Lock()
	// The engine may have exited between the warm-up timer firing and
	// this point; watchExit wins in that case.
	if c.child != child {
		c.mu.Unlock()
		return &ExitError{Code: child.ExitCode()}
	}
	c.status = StatusReady
	c.mu.Unlock()

	c.logger.Info("engine ready", zap.Int("pid", child.PID()))
	return nil
}

// Send submits a raw command line and blocks until the engine responds.
// It returns the response payload on success, an EngineError on a
// "?"-rejection, a ProtocolError on a malformed frame, or an ExitError
// if the engine dies first. Send before a successful Start fails
// immediately with ErrNotStarted; nothing is queued.
func (c *Client) Send(ctx context.Context, command string) (string, error) {
	c.mu.Lock()
	if c.status != StatusReady {
		c.mu.Unlock()
		return "", ErrNotStarted
	}
	transport := c.transport
	c.mu.Unlock()

	return transport.Send(ctx, command)
}

// Status returns the current client status.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// IsReady returns true if the engine accepts commands.
func (c *Client) IsReady() bool {
	return c.Status() == StatusReady
}

// Quit performs a best-effort graceful shutdown: it submits the
// protocol's quit command, waits at most the grace window, then
// forcibly terminates the process regardless of the outcome and
// releases the handle. Quit is idempotent and a no-op when no engine
// is running.
func (c *Client) Quit() error {
	c.mu.Lock()
	if c.status != StatusReady {
		c.mu.Unlock()
		return nil
	}
	c.status = StatusShuttingDown
	child := c.child
	transport := c.transport
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.quitGrace)
	defer cancel()

	if _, err := transport.Send(ctx, "quit"); err != nil {
		c.logger.Debug("graceful quit did not complete", zap.Error(err))
	}

	c.teardown(child, transport, ErrShutdown)
	c.logger.Info("engine stopped", zap.Int("exit_code", child.ExitCode()))
	return nil
}

// teardown drains the transport, kills the process if still alive, and
// resets the client to stopped.
func (c *Client) teardown(child *process.Child, transport *Transport, cause error) {
	transport.CloseWith(cause)

	if child.IsRunning() {
		_ = child.Kill()
	}
	<-child.Done()
	_ = child.Close()

	c.mu.Lock()
	if c.child == child {
		c.lastSeq = transport.LastSequence()
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		c.child = nil
		c.transport = nil
		c.status = StatusStopped
	}
	c.mu.Unlock()
}

// watchExit observes the engine process and, on unexpected exit (any
// exit code, including 0), fails the in-flight request and every queued
// request with an ExitError. The wait queue is cleared and the client
// returns to stopped; restart is the caller's responsibility.
func (c *Client) watchExit(child *process.Child, transport *Transport) {
	<-child.Done()

	code := child.ExitCode()
	transport.CloseWith(&ExitError{Code: code})

	c.mu.Lock()
	owned := c.child == child
	wasShuttingDown := c.status == StatusShuttingDown
	if owned {
		c.lastSeq = transport.LastSequence()
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		c.child = nil
		c.transport = nil
		c.status = StatusStopped
	}
	c.mu.Unlock()

	if owned && !wasShuttingDown {
		c.logger.Warn("engine exited unexpectedly",
			zap.Int("pid", child.PID()),
			zap.Int("exit_code", code),
			zap.Duration("runtime", child.Runtime()))
	}
}

// forwardStderr copies engine stderr to the diagnostic log line by line.
func (c *Client) forwardStderr(child *process.Child) {
	scanner := bufio.NewScanner(child.Stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		c.logger.Debug("engine stderr",
			zap.Int("pid", child.PID()),
			zap.String("line", scanner.Text()))
	}
}
