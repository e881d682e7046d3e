package gtp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Color identifies a player in commands like play and genmove.
type Color string

// Player colors.
const (
	Black Color = "black"
	White Color = "white"
)

// Opponent returns the other color.
func (c Color) Opponent() Color {
	if c == Black {
		return White
	}
	return Black
}

// Move is the result of a genmove request: either a board vertex, a
// pass, or a resignation.
type Move struct {
	Vertex string
	Pass   bool
	Resign bool
}

// String returns the move in GTP vertex notation.
func (m Move) String() string {
	switch {
	case m.Resign:
		return "resign"
	case m.Pass:
		return "pass"
	default:
		return m.Vertex
	}
}

// BoardSize sets the board dimension to n x n.
func (c *Client) BoardSize(ctx context.Context, n int) error {
	_, err := c.Send(ctx, fmt.Sprintf("boardsize %d", n))
	return err
}

// ClearBoard resets the position.
func (c *Client) ClearBoard(ctx context.Context) error {
	_, err := c.Send(ctx, "clear_board")
	return err
}

// Komi sets the compensation value for the white player.
func (c *Client) Komi(ctx context.Context, komi float64) error {
	_, err := c.Send(ctx, "komi "+strconv.FormatFloat(komi, 'f', -1, 64))
	return err
}

// FixedHandicap places n handicap stones and returns their vertices.
func (c *Client) FixedHandicap(ctx context.Context, n int) ([]string, error) {
	payload, err := c.Send(ctx, fmt.Sprintf("fixed_handicap %d", n))
	if err != nil {
		return nil, err
	}
	return strings.Fields(payload), nil
}

// Play registers a move at the given vertex, or "pass".
func (c *Client) Play(ctx context.Context, color Color, vertex string) error {
	_, err := c.Send(ctx, fmt.Sprintf("play %s %s", color, vertex))
	return err
}

// GenMove asks the engine to generate and play a move for color.
func (c *Client) GenMove(ctx context.Context, color Color) (Move, error) {
	payload, err := c.Send(ctx, fmt.Sprintf("genmove %s", color))
	if err != nil {
		return Move{}, err
	}
	return parseMove(payload), nil
}

// ShowBoard requests a textual board dump. The payload is returned
// unmodified so callers can parse the engine's exact output.
func (c *Client) ShowBoard(ctx context.Context) (string, error) {
	return c.Send(ctx, "showboard")
}

// parseMove interprets a genmove payload.
func parseMove(payload string) Move {
	switch {
	case strings.EqualFold(payload, "pass"):
		return Move{Pass: true}
	case strings.EqualFold(payload, "resign"):
		return Move{Resign: true}
	default:
		return Move{Vertex: payload}
	}
}
