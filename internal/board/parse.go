package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads a textual board dump as produced by a GTP engine's
// showboard command and returns the position.
//
// Board rows carry a right-aligned row number, then one character per
// column at a fixed stride: "X" for black, "O" for white, "." (or "+"
// on star points) for empty. Rows usually repeat the row number on the
// right edge and may carry trailing annotations such as capture counts;
// both are ignored. Lines without a leading row number (the column
// header, capture summaries, blank lines) are skipped.
func Parse(dump string) (*Board, error) {
	rows := make(map[int][]Color)
	maxRow := 0

	for _, line := range strings.Split(dump, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		i := 0
		for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
			i++
		}
		if i == 0 {
			continue
		}
		num, _ := strconv.Atoi(trimmed[:i])

		cells, err := parseRowCells(strings.Fields(trimmed[i:]), num)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", num, err)
		}

		if _, dup := rows[num]; dup {
			return nil, fmt.Errorf("duplicate row %d in board dump", num)
		}
		rows[num] = cells
		if num > maxRow {
			maxRow = num
		}
	}

	if maxRow == 0 {
		return nil, fmt.Errorf("no board rows found in dump")
	}
	if maxRow > MaxSize {
		return nil, fmt.Errorf("board size %d exceeds maximum %d", maxRow, MaxSize)
	}

	b := New(maxRow)
	for row := 1; row <= maxRow; row++ {
		cells, ok := rows[row]
		if !ok {
			return nil, fmt.Errorf("missing row %d in board dump", row)
		}
		if len(cells) != maxRow {
			return nil, fmt.Errorf("row %d has %d columns, want %d", row, len(cells), maxRow)
		}
		for col, color := range cells {
			b.Set(col, row, color)
		}
	}

	return b, nil
}

// parseRowCells converts the tokens after a row number into point
// contents, stopping at the repeated row label or the first annotation.
func parseRowCells(fields []string, rowNum int) ([]Color, error) {
	label := strconv.Itoa(rowNum)

	var cells []Color
	for _, f := range fields {
		if f == label {
			break
		}
		if len(f) != 1 {
			break
		}
		switch f[0] {
		case 'X':
			cells = append(cells, Black)
		case 'O':
			cells = append(cells, White)
		case '.', '+':
			cells = append(cells, Empty)
		default:
			return nil, fmt.Errorf("unrecognized point %q", f)
		}
	}

	if len(cells) == 0 {
		return nil, fmt.Errorf("no point columns")
	}
	return cells, nil
}
