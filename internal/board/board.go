package board

import (
	"fmt"
	"strings"
)

// Color is the content of a single board point.
type Color byte

// Point contents.
const (
	Empty Color = iota
	Black
	White
)

// String returns the dump character for the color.
func (c Color) String() string {
	switch c {
	case Black:
		return "X"
	case White:
		return "O"
	default:
		return "."
	}
}

// Board is a square go board position.
//
// Columns are addressed 0-based from the left ("A" column). Rows are
// addressed 1-based from the bottom, matching vertex notation where
// row 1 is the bottom edge.
type Board struct {
	size int
	grid []Color
}

// New creates an empty size x size board.
func New(size int) *Board {
	return &Board{
		size: size,
		grid: make([]Color, size*size),
	}
}

// Size returns the board dimension.
func (b *Board) Size() int {
	return b.size
}

// At returns the content of the point at column col (0-based) and row
// (1-based from the bottom).
func (b *Board) At(col, row int) Color {
	return b.grid[(row-1)*b.size+col]
}

// Set places color at the given point.
func (b *Board) Set(col, row int, color Color) {
	b.grid[(row-1)*b.size+col] = color
}

// Count returns the number of points holding color.
func (b *Board) Count(color Color) int {
	n := 0
	for _, c := range b.grid {
		if c == color {
			n++
		}
	}
	return n
}

// Rows returns the position as strings of ".XO" characters, top row
// first. Useful for serialization and tests.
func (b *Board) Rows() []string {
	rows := make([]string, 0, b.size)
	for row := b.size; row >= 1; row-- {
		var sb strings.Builder
		for col := 0; col < b.size; col++ {
			sb.WriteString(b.At(col, row).String())
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// String renders the position with row numbers and column letters.
func (b *Board) String() string {
	var sb strings.Builder
	for row := b.size; row >= 1; row-- {
		fmt.Fprintf(&sb, "%2d", row)
		for col := 0; col < b.size; col++ {
			sb.WriteByte(' ')
			sb.WriteString(b.At(col, row).String())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  ")
	for col := 0; col < b.size; col++ {
		sb.WriteByte(' ')
		sb.WriteByte(columnLetters[col])
	}
	sb.WriteByte('\n')
	return sb.String()
}
