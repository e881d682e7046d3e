// Package tui renders an interactive board in the terminal.
//
// The human plays one color against the engine: arrow keys or hjkl
// move the cursor, enter places a stone, p passes, r resigns, q quits.
// After each human move the engine replies with its own.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/goban/internal/board"
	"github.com/dshills/goban/internal/game"
	"github.com/dshills/goban/internal/gtp"
)

// UI drives a single game session in the terminal.
type UI struct {
	screen tcell.Screen
	game   *game.Game
	human  gtp.Color
	logger *zap.Logger

	cursorCol int // 0-based
	cursorRow int // 1-based from the bottom
	position  *board.Board
	message   string
}

// New creates a UI for g. The human plays color; when the opponent
// holds the first turn the engine opens before input is read.
func New(g *game.Game, human gtp.Color, logger *zap.Logger) (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	mid := g.Size() / 2
	return &UI{
		screen:    screen,
		game:      g,
		human:     human,
		logger:    logger,
		cursorCol: mid,
		cursorRow: mid + 1,
	}, nil
}

// Run owns the terminal until the game ends or the human quits.
func (u *UI) Run(ctx context.Context) error {
	if err := u.screen.Init(); err != nil {
		return err
	}
	defer u.screen.Fini()

	if err := u.refresh(ctx); err != nil {
		return err
	}

	// In handicap games the engine holds the first turn.
	if u.game.ToMove() != u.human {
		if err := u.engineTurn(ctx); err != nil {
			return err
		}
	}

	for {
		u.draw()

		ev := u.screen.PollEvent()
		key, ok := ev.(*tcell.EventKey)
		if !ok {
			if _, resized := ev.(*tcell.EventResize); resized {
				u.screen.Sync()
			}
			continue
		}

		done, err := u.handleKey(ctx, key)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (u *UI) handleKey(ctx context.Context, key *tcell.EventKey) (bool, error) {
	size := u.game.Size()

	switch {
	case key.Key() == tcell.KeyEscape || key.Rune() == 'q':
		return true, nil

	case key.Key() == tcell.KeyLeft || key.Rune() == 'h':
		if u.cursorCol > 0 {
			u.cursorCol--
		}
	case key.Key() == tcell.KeyRight || key.Rune() == 'l':
		if u.cursorCol < size-1 {
			u.cursorCol++
		}
	case key.Key() == tcell.KeyUp || key.Rune() == 'k':
		if u.cursorRow < size {
			u.cursorRow++
		}
	case key.Key() == tcell.KeyDown || key.Rune() == 'j':
		if u.cursorRow > 1 {
			u.cursorRow--
		}

	case key.Key() == tcell.KeyEnter:
		return u.humanMove(ctx, board.Vertex(u.cursorCol, u.cursorRow))
	case key.Rune() == 'p':
		return u.humanMove(ctx, "pass")
	case key.Rune() == 'r':
		u.game.Resign()
		u.message = u.game.Result()
	}

	return false, nil
}

// humanMove plays the human's move and, if the game continues, lets
// the engine answer. Engine rejections stay on screen as a message
// rather than ending the session.
func (u *UI) humanMove(ctx context.Context, vertex string) (bool, error) {
	if u.game.Over() {
		u.message = u.game.Result()
		return false, nil
	}
	if u.game.ToMove() != u.human {
		return false, nil
	}

	if err := u.game.Play(ctx, vertex); err != nil {
		var engErr *gtp.EngineError
		if errors.As(err, &engErr) {
			u.message = engErr.Message
			return false, nil
		}
		return false, err
	}

	if err := u.engineTurn(ctx); err != nil {
		return false, err
	}
	return u.game.Over(), u.refresh(ctx)
}

func (u *UI) engineTurn(ctx context.Context) error {
	move, err := u.game.GenMove(ctx)
	if err != nil {
		return err
	}
	u.message = fmt.Sprintf("engine: %s", move)
	if u.game.Over() {
		u.message = u.game.Result()
	}
	u.logger.Debug("engine move", zap.String("move", move.String()))
	return nil
}

func (u *UI) refresh(ctx context.Context) error {
	b, err := u.game.Board(ctx)
	if err != nil {
		return err
	}
	u.position = b
	return nil
}

func (u *UI) draw() {
	u.screen.Clear()
	size := u.game.Size()
	base := tcell.StyleDefault

	// Column letters across the top, rows top-down with the row number
	// on the left. Points are spaced every other column for a squarer
	// board.
	for col := 0; col < size; col++ {
		u.setText(4+col*2, 0, string(board.ColumnLetter(col)), base)
	}
	for row := size; row >= 1; row-- {
		y := 1 + size - row
		u.setText(0, y, fmt.Sprintf("%2d", row), base)
		for col := 0; col < size; col++ {
			ch := '.'
			style := base
			if u.position != nil {
				switch u.position.At(col, row) {
				case board.Black:
					ch = 'X'
					style = base.Bold(true)
				case board.White:
					ch = 'O'
				}
			}
			if col == u.cursorCol && row == u.cursorRow {
				style = style.Reverse(true)
			}
			u.screen.SetContent(4+col*2, y, ch, nil, style)
		}
	}

	statusY := size + 2
	turn := fmt.Sprintf("%s to move (you are %s)", u.game.ToMove(), u.human)
	if u.game.Over() {
		turn = u.game.Result()
	}
	u.setText(0, statusY, turn, base)
	if u.message != "" {
		u.setText(0, statusY+1, u.message, base.Dim(true))
	}
	u.setText(0, statusY+2, "arrows/hjkl move  enter place  p pass  r resign  q quit", base.Dim(true))

	u.screen.Show()
}

func (u *UI) setText(x, y int, text string, style tcell.Style) {
	for i, r := range text {
		u.screen.SetContent(x+i, y, r, nil, style)
	}
}
