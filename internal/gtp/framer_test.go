package gtp

import (
	"errors"
	"reflect"
	"testing"
)

func TestFramer_SingleFrame(t *testing.T) {
	var f framer
	frames := f.feed([]byte("= ok\n\n"))
	if !reflect.DeepEqual(frames, []string{"= ok"}) {
		t.Errorf("expected [\"= ok\"], got %v", frames)
	}
	if f.pending() != 0 {
		t.Errorf("expected empty buffer, got %d bytes pending", f.pending())
	}
}

func TestFramer_SplitAcrossChunks(t *testing.T) {
	var f framer

	chunks := [][]byte{[]byte("= A1"), []byte("9"), []byte("\n"), []byte("\n")}
	var frames []string
	for _, chunk := range chunks {
		frames = append(frames, f.feed(chunk)...)
	}

	if !reflect.DeepEqual(frames, []string{"= A19"}) {
		t.Errorf("expected [\"= A19\"], got %v", frames)
	}
}

func TestFramer_SplitMidDelimiter(t *testing.T) {
	var f framer

	if frames := f.feed([]byte("=2 pass\n")); frames != nil {
		t.Errorf("expected no frames after half delimiter, got %v", frames)
	}
	frames := f.feed([]byte("\n"))
	if !reflect.DeepEqual(frames, []string{"=2 pass"}) {
		t.Errorf("expected [\"=2 pass\"], got %v", frames)
	}
}

func TestFramer_MultipleFramesOneChunk(t *testing.T) {
	var f framer

	frames := f.feed([]byte("=\n\n=\n\n=\n\n"))
	want := []string{"=", "=", "="}
	if !reflect.DeepEqual(frames, want) {
		t.Errorf("expected %v, got %v", want, frames)
	}
}

func TestFramer_MultiLinePayload(t *testing.T) {
	var f framer

	frames := f.feed([]byte("= line one\nline two\n\n"))
	if !reflect.DeepEqual(frames, []string{"= line one\nline two"}) {
		t.Errorf("unexpected frames: %v", frames)
	}
}

func TestFramer_PartialRemainsBuffered(t *testing.T) {
	var f framer

	frames := f.feed([]byte("= first\n\n= part"))
	if !reflect.DeepEqual(frames, []string{"= first"}) {
		t.Errorf("expected one frame, got %v", frames)
	}
	if f.pending() == 0 {
		t.Error("expected partial frame to remain buffered")
	}

	frames = f.feed([]byte("ial\n\n"))
	if !reflect.DeepEqual(frames, []string{"= partial"}) {
		t.Errorf("expected [\"= partial\"], got %v", frames)
	}
}

func TestClassify_Success(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  string
	}{
		{"bare ack", "=", ""},
		{"payload", "= ok", "ok"},
		{"numeric echo stripped", "=3 pass", "pass"},
		{"echo no space", "=12", ""},
		{"numeric payload without echo", "= 9", "9"},
		{"multi-line payload", "= first\nsecond", "first\nsecond"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classify(tt.frame)
			if err != nil {
				t.Fatalf("classify(%q) returned error: %v", tt.frame, err)
			}
			if got != tt.want {
				t.Errorf("classify(%q) = %q, want %q", tt.frame, got, tt.want)
			}
		})
	}
}

func TestClassify_Failure(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		wantMsg string
	}{
		{"rejection", "?invalid vertex", "invalid vertex"},
		{"rejection with echo", "?5 illegal move", "illegal move"},
		{"empty message uses default", "?", "engine error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classify(tt.frame)
			var engErr *EngineError
			if !errors.As(err, &engErr) {
				t.Fatalf("classify(%q) = %v, want EngineError", tt.frame, err)
			}
			if engErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", engErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestClassify_ProtocolViolation(t *testing.T) {
	for _, frame := range []string{"garbage", "!weird", ""} {
		_, err := classify(frame)
		var protoErr *ProtocolError
		if !errors.As(err, &protoErr) {
			t.Errorf("classify(%q) = %v, want ProtocolError", frame, err)
			continue
		}
		if protoErr.Frame != frame {
			t.Errorf("ProtocolError.Frame = %q, want %q", protoErr.Frame, frame)
		}
	}
}
