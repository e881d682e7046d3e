package board

import (
	"strings"
	"testing"
)

// sampleDump mirrors a GNU Go style showboard payload for a 9x9 game,
// with star points, the right-hand row labels, and trailing capture
// annotations on two rows.
const sampleDump = `   A B C D E F G H J
 9 . . . . . . . . . 9
 8 . . . . . . . . . 8
 7 . . + . . . + . . 7     WHITE (O) has captured 1 stones
 6 . . . . . . . . . 6     BLACK (X) has captured 0 stones
 5 . . . . X . . . . 5
 4 . . . X O . . . . 4
 3 . . + . O . + . . 3
 2 . . . . . . . . . 2
 1 . . . . . . . . . 1
   A B C D E F G H J`

func TestParse(t *testing.T) {
	b, err := Parse(sampleDump)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if b.Size() != 9 {
		t.Fatalf("Size() = %d, want 9", b.Size())
	}

	tests := []struct {
		vertex string
		want   Color
	}{
		{"E5", Black},
		{"D4", Black},
		{"E4", White},
		{"E3", White},
		{"A1", Empty},
		{"C7", Empty}, // star point rendered as +
		{"J9", Empty},
	}
	for _, tt := range tests {
		col, row, err := ParseVertex(tt.vertex, b.Size())
		if err != nil {
			t.Fatalf("bad test vertex %q: %v", tt.vertex, err)
		}
		if got := b.At(col, row); got != tt.want {
			t.Errorf("At(%s) = %v, want %v", tt.vertex, got, tt.want)
		}
	}

	if n := b.Count(Black); n != 2 {
		t.Errorf("Count(Black) = %d, want 2", n)
	}
	if n := b.Count(White); n != 2 {
		t.Errorf("Count(White) = %d, want 2", n)
	}
}

func TestParse_NoRightLabels(t *testing.T) {
	dump := strings.Join([]string{
		"  A B C",
		"3 . X .",
		"2 . . O",
		"1 . . .",
	}, "\n")

	b, err := Parse(dump)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if b.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", b.Size())
	}
	if b.At(1, 3) != Black {
		t.Error("expected black stone at B3")
	}
	if b.At(2, 2) != White {
		t.Error("expected white stone at C2")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		dump string
	}{
		{"empty", ""},
		{"no rows", "   A B C\nsome banner text"},
		{"missing row", " 3 . . . 3\n 1 . . . 1"},
		{"ragged row", " 2 . . 2\n 1 . 1"},
		{"unknown point", " 2 . ? 2\n 1 . . 1"},
		{"duplicate row", " 1 . 1\n 1 . 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.dump); err == nil {
				t.Errorf("Parse succeeded, want error")
			}
		})
	}
}

func TestBoard_Rows(t *testing.T) {
	b := New(3)
	b.Set(0, 3, Black) // A3
	b.Set(2, 1, White) // C1

	rows := b.Rows()
	want := []string{"X..", "...", "..O"}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("Rows()[%d] = %q, want %q", i, rows[i], want[i])
		}
	}
}

func TestBoard_StringRoundTrip(t *testing.T) {
	b := New(5)
	b.Set(2, 3, Black)
	b.Set(4, 5, White)

	parsed, err := Parse(b.String())
	if err != nil {
		t.Fatalf("Parse(String()) failed: %v", err)
	}
	if parsed.At(2, 3) != Black || parsed.At(4, 5) != White {
		t.Error("round trip through String/Parse lost stones")
	}
	if parsed.Size() != 5 {
		t.Errorf("round trip size = %d, want 5", parsed.Size())
	}
}
