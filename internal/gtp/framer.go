package gtp

import (
	"bytes"
	"strings"
)

// frameDelimiter separates response frames on the wire: a GTP response
// is one or more lines terminated by a blank line.
const frameDelimiter = "\n\n"

// framer accumulates raw engine output and splits it into complete
// response frames. Output may arrive in arbitrary chunks: a frame can be
// split across many reads (including mid-delimiter) and a single read
// can carry several frames. The framer buffers until at least one full
// frame is available and extracts frames strictly in arrival order.
type framer struct {
	buf bytes.Buffer
}

// feed appends a chunk of raw output and returns every complete frame
// now available, trimmed of surrounding whitespace, in order. Extracted
// frames (including their trailing delimiter) are removed from the
// front of the buffer.
func (f *framer) feed(p []byte) []string {
	f.buf.Write(p)

	var frames []string
	for {
		i := bytes.Index(f.buf.Bytes(), []byte(frameDelimiter))
		if i < 0 {
			return frames
		}
		frame := string(f.buf.Next(i + len(frameDelimiter)))
		frames = append(frames, strings.TrimSpace(frame))
	}
}

// pending returns the number of buffered bytes not yet forming a
// complete frame.
func (f *framer) pending() int {
	return f.buf.Len()
}

// classify interprets a single trimmed response frame.
//
// A leading "=" marks success and a leading "?" marks an engine
// rejection; both may be followed by a numeric echo of the request
// sequence identifier, which is advisory and stripped. Any other
// leading byte is a protocol violation.
func classify(frame string) (string, error) {
	if frame == "" {
		return "", &ProtocolError{Frame: frame}
	}

	switch frame[0] {
	case '=':
		return stripEcho(frame[1:]), nil
	case '?':
		msg := stripEcho(frame[1:])
		if msg == "" {
			msg = "engine error"
		}
		return "", &EngineError{Message: msg}
	default:
		return "", &ProtocolError{Frame: frame}
	}
}

// stripEcho removes an optional numeric sequence echo immediately
// following the status byte, then trims surrounding whitespace.
func stripEcho(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return strings.TrimSpace(s[i:])
}
