package process

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// State represents the lifecycle state of a child process.
type State int

const (
	// StateRunning indicates the process is currently running.
	StateRunning State = iota
	// StateExited indicates the process has exited normally or with an error.
	StateExited
	// StateKilled indicates the process was killed by a signal.
	StateKilled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateKilled:
		return "killed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Child is a single owned child process with fully piped standard I/O.
//
// Child wraps an exec.Cmd with exit tracking and stream access. The
// process is started by Start and observed until it exits; no restart
// is attempted. Child is safe for concurrent use.
type Child struct {
	// Cmd is the underlying exec.Cmd.
	Cmd *exec.Cmd

	// Stdin provides exclusive write access to the process's stdin.
	Stdin io.WriteCloser

	// Stdout provides read access to the process's stdout.
	Stdout io.ReadCloser

	// Stderr provides read access to the process's stderr.
	Stderr io.ReadCloser

	// Started is the time the process was started.
	Started time.Time

	// done is closed when the process exits.
	done chan struct{}

	// state tracks the current process state.
	state atomic.Int32

	// exitCode stores the exit code after the process exits.
	exitCode atomic.Int32

	// exitErr stores any error from Wait().
	exitErr error

	// mu protects exitErr.
	mu sync.RWMutex
}

// ErrNotRunning is returned by operations that require a live process.
var ErrNotRunning = errors.New("process not running")

// Start launches cmd with stdin, stdout, and stderr piped and begins
// tracking its lifecycle. None of the standard streams are inherited.
//
// The returned Child owns the process handle. If the process cannot be
// spawned the created pipes are closed and the spawn error is returned.
func Start(cmd *exec.Cmd) (*Child, error) {
	c := &Child{
		Cmd:  cmd,
		done: make(chan struct{}),
	}
	c.exitCode.Store(-1) // -1 indicates not exited

	var pipes []io.Closer
	closeAll := func() {
		for _, p := range pipes {
			_ = p.Close()
		}
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}
	pipes = append(pipes, stdin)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	pipes = append(pipes, stdout)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("create stderr pipe: %w", err)
	}
	pipes = append(pipes, stderr)

	if err := cmd.Start(); err != nil {
		closeAll()
		return nil, err
	}

	c.Stdin = stdin
	c.Stdout = stdout
	c.Stderr = stderr
	c.Started = time.Now()
	c.state.Store(int32(StateRunning))

	go c.waitLoop()

	return c, nil
}

// waitLoop waits for the process to exit and records the outcome.
func (c *Child) waitLoop() {
	err := c.Cmd.Wait()

	c.mu.Lock()
	c.exitErr = err
	c.mu.Unlock()

	exitCode := 0
	state := StateExited

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
				state = StateKilled
			}
		} else {
			exitCode = -1
		}
	}

	c.exitCode.Store(int32(exitCode))
	c.state.Store(int32(state))
	close(c.done)
}

// State returns the current process state.
func (c *Child) State() State {
	return State(c.state.Load())
}

// ExitCode returns the process exit code, or -1 if it has not exited.
func (c *Child) ExitCode() int {
	return int(c.exitCode.Load())
}

// ExitError returns any error from waiting on the process.
func (c *Child) ExitError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.exitErr
}

// Done returns a channel that is closed when the process exits.
func (c *Child) Done() <-chan struct{} {
	return c.done
}

// IsRunning returns true if the process is currently running.
func (c *Child) IsRunning() bool {
	return c.State() == StateRunning
}

// PID returns the operating system process ID, or -1 if unavailable.
func (c *Child) PID() int {
	if c.Cmd.Process == nil {
		return -1
	}
	return c.Cmd.Process.Pid
}

// Signal sends a signal to the process.
// Returns ErrNotRunning if the process has already exited.
func (c *Child) Signal(sig os.Signal) error {
	if !c.IsRunning() {
		return ErrNotRunning
	}
	if c.Cmd.Process == nil {
		return ErrNotRunning
	}
	return c.Cmd.Process.Signal(sig)
}

// Kill sends SIGKILL to the process.
func (c *Child) Kill() error {
	return c.Signal(syscall.SIGKILL)
}

// Terminate sends SIGTERM to the process.
func (c *Child) Terminate() error {
	return c.Signal(syscall.SIGTERM)
}

// Close closes the process's I/O pipes. It does not kill the process.
func (c *Child) Close() error {
	var errs []error
	if c.Stdin != nil {
		if err := c.Stdin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close stdin: %w", err))
		}
	}
	if c.Stdout != nil {
		if err := c.Stdout.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close stdout: %w", err))
		}
	}
	if c.Stderr != nil {
		if err := c.Stderr.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close stderr: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Runtime returns how long the process has been running, or the total
// runtime if it has exited.
func (c *Child) Runtime() time.Duration {
	if c.Started.IsZero() {
		return 0
	}
	return time.Since(c.Started)
}
