package board

import (
	"fmt"
	"strconv"
	"strings"
)

// columnLetters are the column labels in vertex notation. The letter I
// is skipped by convention to avoid confusion with the digit 1.
const columnLetters = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

// MaxSize is the largest board dimension expressible in vertex notation.
const MaxSize = len(columnLetters)

// ColumnLetter returns the letter label for a 0-based column.
func ColumnLetter(col int) byte {
	return columnLetters[col]
}

// Vertex formats a point as a vertex string, e.g. column 3, row 4 on
// any board is "D4".
func Vertex(col, row int) string {
	return fmt.Sprintf("%c%d", columnLetters[col], row)
}

// ParseVertex parses a vertex string such as "D4" or "Q16" into a
// 0-based column and 1-based row, validated against the board size.
// The literals "pass" and "resign" are not vertices and are rejected.
func ParseVertex(s string, size int) (col, row int, err error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if len(v) < 2 {
		return 0, 0, fmt.Errorf("invalid vertex %q", s)
	}

	col = strings.IndexByte(columnLetters, v[0])
	if col < 0 || col >= size {
		return 0, 0, fmt.Errorf("invalid vertex %q: bad column", s)
	}

	row, aerr := strconv.Atoi(v[1:])
	if aerr != nil {
		return 0, 0, fmt.Errorf("invalid vertex %q: bad row", s)
	}
	if row < 1 || row > size {
		return 0, 0, fmt.Errorf("invalid vertex %q: row out of range", s)
	}

	return col, row, nil
}
