package board

import "testing"

func TestVertex(t *testing.T) {
	tests := []struct {
		col, row int
		want     string
	}{
		{0, 1, "A1"},
		{3, 4, "D4"},
		{7, 10, "H10"},
		{8, 9, "J9"}, // I is skipped
		{18, 19, "T19"},
	}

	for _, tt := range tests {
		if got := Vertex(tt.col, tt.row); got != tt.want {
			t.Errorf("Vertex(%d, %d) = %q, want %q", tt.col, tt.row, got, tt.want)
		}
	}
}

func TestParseVertex(t *testing.T) {
	tests := []struct {
		in       string
		size     int
		col, row int
	}{
		{"A1", 19, 0, 1},
		{"d4", 19, 3, 4},
		{"J9", 9, 8, 9},
		{"T19", 19, 18, 19},
		{" q16 ", 19, 15, 16},
	}

	for _, tt := range tests {
		col, row, err := ParseVertex(tt.in, tt.size)
		if err != nil {
			t.Errorf("ParseVertex(%q, %d) returned error: %v", tt.in, tt.size, err)
			continue
		}
		if col != tt.col || row != tt.row {
			t.Errorf("ParseVertex(%q, %d) = (%d, %d), want (%d, %d)",
				tt.in, tt.size, col, row, tt.col, tt.row)
		}
	}
}

func TestParseVertex_Invalid(t *testing.T) {
	tests := []struct {
		in   string
		size int
	}{
		{"", 19},
		{"A", 19},
		{"I5", 19},    // I is not a valid column letter
		{"Z9", 19},    // column beyond board
		{"A0", 19},    // row below range
		{"A20", 19},   // row above range
		{"K10", 9},    // valid on 19x19, not on 9x9
		{"pass", 19},  // not a vertex
		{"4D", 19},    // transposed
		{"DD", 19},    // no row number
	}

	for _, tt := range tests {
		if _, _, err := ParseVertex(tt.in, tt.size); err == nil {
			t.Errorf("ParseVertex(%q, %d) succeeded, want error", tt.in, tt.size)
		}
	}
}

func TestVertexRoundTrip(t *testing.T) {
	const size = 19
	for col := 0; col < size; col++ {
		for row := 1; row <= size; row++ {
			v := Vertex(col, row)
			gotCol, gotRow, err := ParseVertex(v, size)
			if err != nil {
				t.Fatalf("ParseVertex(%q) failed: %v", v, err)
			}
			if gotCol != col || gotRow != row {
				t.Fatalf("round trip %q = (%d, %d), want (%d, %d)", v, gotCol, gotRow, col, row)
			}
		}
	}
}
