package gtp

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Transport serializes concurrent command submissions into the engine's
// single in-order request/response stream.
//
// GTP responses carry no request identifier strong enough for safe
// pipelining (the numeric echo is best-effort), so the transport keeps
// at most one request on the wire at a time. Remaining submissions wait
// in a FIFO queue; a request's position in the queue strictly determines
// its position in the output stream.
//
// The wait queue, the in-flight slot, and the receive buffer are guarded
// by a single mutex so that each submission, output chunk, and shutdown
// is handled atomically with respect to the others.
type Transport struct {
	writer io.Writer
	reader io.Reader

	mu       sync.Mutex
	seq      int64
	inflight *request
	queue    []*request
	frames   framer
	closeErr error

	closed atomic.Bool
	done   chan struct{}
}

// request is one submitted command awaiting its response.
type request struct {
	seq  int64
	text string
	ch   chan response
}

// response resolves a request to success-with-payload or failure.
type response struct {
	payload string
	err     error
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithSequenceStart sets the sequence counter so identifiers continue
// from a previous engine session instead of restarting at 1. Sequence
// identifiers are unique per client instance and never reused.
func WithSequenceStart(n int64) TransportOption {
	return func(t *Transport) {
		t.seq = n
	}
}

// NewTransport creates a transport reading engine output from r and
// writing command lines to w. The transport is the only writer to w;
// no other code path may write to the engine's input stream.
func NewTransport(r io.Reader, w io.Writer, opts ...TransportOption) *Transport {
	t := &Transport{
		reader: r,
		writer: w,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins reading engine output. The read loop exits when ctx is
// cancelled, the transport is closed, or the output stream ends.
func (t *Transport) Start(ctx context.Context) {
	go t.readLoop(ctx)
}

// Send submits a command and blocks until its response arrives, the
// context is cancelled, or the transport is closed.
//
// Submissions resolve strictly in submission order. There is no
// per-command timeout: engine think time is unbounded and legitimate.
// Cancelling ctx stops the wait but cannot recall the command; it still
// occupies its slot in the stream and its eventual response is consumed.
func (t *Transport) Send(ctx context.Context, command string) (string, error) {
	if t.closed.Load() {
		return "", t.closeError()
	}

	req := &request{
		text: command,
		ch:   make(chan response, 1),
	}

	t.mu.Lock()
	t.seq++
	req.seq = t.seq
	t.queue = append(t.queue, req)
	t.dispatchLocked()
	t.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-t.done:
		// Prefer a response that raced the shutdown.
		select {
		case resp := <-req.ch:
			return resp.payload, resp.err
		default:
		}
		return "", t.closeError()
	case resp := <-req.ch:
		return resp.payload, resp.err
	}
}

// dispatchLocked puts the head of the wait queue on the wire if no
// request is currently in flight. A write failure fails that request
// and the next queued request is tried. Must hold mu.
func (t *Transport) dispatchLocked() {
	for t.inflight == nil && len(t.queue) > 0 {
		req := t.queue[0]
		t.queue = t.queue[1:]
		t.inflight = req

		line := fmt.Sprintf("%d %s\n", req.seq, req.text)
		if _, err := io.WriteString(t.writer, line); err != nil {
			t.inflight = nil
			req.ch <- response{err: fmt.Errorf("write command: %w", err)}
			continue
		}
	}
}

// readLoop pulls raw output chunks and feeds them to the framer.
func (t *Transport) readLoop(ctx context.Context) {
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		default:
		}

		n, err := t.reader.Read(buf)
		if n > 0 {
			t.consume(buf[:n])
		}
		if err != nil {
			// EOF or broken pipe. Process-exit handling drains any
			// outstanding requests; nothing more to read here.
			return
		}
	}
}

// consume appends a chunk to the receive buffer and dispatches every
// complete frame it yields, oldest first. A frame with no in-flight
// request is unsolicited startup noise and is dropped.
func (t *Transport) consume(p []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, frame := range t.frames.feed(p) {
		req := t.inflight
		if req == nil {
			continue
		}
		t.inflight = nil

		payload, err := classify(frame)
		req.ch <- response{payload: payload, err: err}

		t.dispatchLocked()
	}
}

// Close shuts the transport down, failing all outstanding requests with
// ErrShutdown. It is safe to call more than once.
func (t *Transport) Close() error {
	return t.CloseWith(nil)
}

// CloseWith shuts the transport down, failing the in-flight request and
// every queued request with cause (ErrShutdown if nil). Subsequent
// Sends fail with the same cause. No outcome is left unresolved.
func (t *Transport) CloseWith(cause error) error {
	if t.closed.Swap(true) {
		return nil
	}
	if cause == nil {
		cause = ErrShutdown
	}

	t.mu.Lock()
	t.closeErr = cause
	if t.inflight != nil {
		t.inflight.ch <- response{err: cause}
		t.inflight = nil
	}
	for _, req := range t.queue {
		req.ch <- response{err: cause}
	}
	t.queue = nil
	t.mu.Unlock()

	close(t.done)
	return nil
}

// closeError returns the error outstanding requests were failed with.
func (t *Transport) closeError() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closeErr == nil {
		return ErrShutdown
	}
	return t.closeErr
}

// Pending returns the number of unresolved requests, counting both the
// in-flight request and the wait queue.
func (t *Transport) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.queue)
	if t.inflight != nil {
		n++
	}
	return n
}

// LastSequence returns the most recently allocated sequence identifier.
func (t *Transport) LastSequence() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seq
}

// IsClosed returns true if the transport has been closed.
func (t *Transport) IsClosed() bool {
	return t.closed.Load()
}
