// Package game layers go game sessions on top of the engine client.
//
// A Game owns one engine client and tracks whose turn it is, the move
// history, and the final result. The Manager keeps a registry of
// concurrent games, each backed by its own engine process.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/goban/internal/board"
	"github.com/dshills/goban/internal/gtp"
)

// Sentinel errors for game state checks.
var (
	// ErrGameOver is returned when a move is submitted to a finished game.
	ErrGameOver = errors.New("game is over")
	// ErrNotFound is returned by the Manager for unknown game ids.
	ErrNotFound = errors.New("game not found")
	// ErrTooManyGames is returned when the Manager is at capacity.
	ErrTooManyGames = errors.New("too many concurrent games")
)

// Settings configures a new game. A nil Komi selects the conventional
// value: 0.5 for handicap games, 6.5 otherwise.
type Settings struct {
	BoardSize int
	Komi      *float64
	Handicap  int
}

// MoveRecord is one entry in the game's move history.
type MoveRecord struct {
	Number int       `json:"number"`
	Color  gtp.Color `json:"color"`
	Move   string    `json:"move"`
}

// Game is a single go game session backed by a dedicated engine.
// Methods are safe for concurrent use; commands are serialized by the
// underlying client.
type Game struct {
	client *gtp.Client

	size     int
	komi     float64
	handicap int
	stones   []string // handicap placements reported by the engine

	mu     sync.Mutex
	moves  []MoveRecord
	toMove gtp.Color
	result string
}

// New sets up a game on an already started client: board size, a clean
// position, handicap placement, then komi. The client is not shut down
// on setup failure; that stays with the caller.
func New(ctx context.Context, client *gtp.Client, s Settings) (*Game, error) {
	g := &Game{
		client:   client,
		size:     s.BoardSize,
		handicap: s.Handicap,
		komi:     effectiveKomi(s),
		toMove:   gtp.Black,
	}

	if err := client.BoardSize(ctx, g.size); err != nil {
		return nil, fmt.Errorf("boardsize: %w", err)
	}
	if err := client.ClearBoard(ctx); err != nil {
		return nil, fmt.Errorf("clear_board: %w", err)
	}
	if g.handicap >= 2 {
		stones, err := client.FixedHandicap(ctx, g.handicap)
		if err != nil {
			return nil, fmt.Errorf("fixed_handicap: %w", err)
		}
		g.stones = stones
		// Black's handicap stones stand in for the first move.
		g.toMove = gtp.White
	}
	if err := client.Komi(ctx, g.komi); err != nil {
		return nil, fmt.Errorf("komi: %w", err)
	}

	return g, nil
}

func effectiveKomi(s Settings) float64 {
	if s.Komi != nil {
		return *s.Komi
	}
	if s.Handicap >= 2 {
		return 0.5
	}
	return 6.5
}

// Size returns the board dimension.
func (g *Game) Size() int { return g.size }

// Komi returns the komi in effect.
func (g *Game) Komi() float64 { return g.komi }

// Handicap returns the number of handicap stones.
func (g *Game) Handicap() int { return g.handicap }

// HandicapStones returns the vertices the engine placed for the
// handicap, in engine order.
func (g *Game) HandicapStones() []string {
	return append([]string(nil), g.stones...)
}

// ToMove returns the color whose turn it is.
func (g *Game) ToMove() gtp.Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.toMove
}

// Moves returns a copy of the move history.
func (g *Game) Moves() []MoveRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]MoveRecord(nil), g.moves...)
}

// Result returns the game result, or "" while the game is in progress.
func (g *Game) Result() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result
}

// Over reports whether the game has ended.
func (g *Game) Over() bool {
	return g.Result() != ""
}

// Play submits a move for the side to move. The vertex is validated
// locally before it reaches the engine; "pass" is accepted. Illegal
// moves rejected by the engine surface as an EngineError and leave the
// game state unchanged.
func (g *Game) Play(ctx context.Context, vertex string) error {
	v := strings.ToLower(strings.TrimSpace(vertex))
	if v != "pass" {
		var err error
		if _, _, err = board.ParseVertex(vertex, g.size); err != nil {
			return err
		}
		v = strings.ToUpper(v)
	}

	g.mu.Lock()
	if g.result != "" {
		g.mu.Unlock()
		return ErrGameOver
	}
	color := g.toMove
	g.mu.Unlock()

	if err := g.client.Play(ctx, color, v); err != nil {
		return err
	}

	g.record(color, v)
	return nil
}

// Pass submits a pass for the side to move.
func (g *Game) Pass(ctx context.Context) error {
	return g.Play(ctx, "pass")
}

// GenMove asks the engine to choose and play a move for the side to
// move. A resignation ends the game.
func (g *Game) GenMove(ctx context.Context) (gtp.Move, error) {
	g.mu.Lock()
	if g.result != "" {
		g.mu.Unlock()
		return gtp.Move{}, ErrGameOver
	}
	color := g.toMove
	g.mu.Unlock()

	move, err := g.client.GenMove(ctx, color)
	if err != nil {
		return gtp.Move{}, err
	}

	g.record(color, move.String())
	if move.Resign {
		g.finish(fmt.Sprintf("%s wins by resignation", color.Opponent()))
	}
	return move, nil
}

// Resign ends the game with a win for the opponent of the side to move.
func (g *Game) Resign() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.result != "" {
		return
	}
	g.moves = append(g.moves, MoveRecord{
		Number: len(g.moves) + 1,
		Color:  g.toMove,
		Move:   "resign",
	})
	g.result = fmt.Sprintf("%s wins by resignation", g.toMove.Opponent())
}

// Board fetches the current position from the engine.
func (g *Game) Board(ctx context.Context) (*board.Board, error) {
	dump, err := g.client.ShowBoard(ctx)
	if err != nil {
		return nil, err
	}
	return board.Parse(dump)
}

// Status returns the engine client status.
func (g *Game) Status() gtp.Status {
	return g.client.Status()
}

// Close shuts down the game's engine.
func (g *Game) Close() error {
	return g.client.Quit()
}

func (g *Game) record(color gtp.Color, move string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.moves = append(g.moves, MoveRecord{
		Number: len(g.moves) + 1,
		Color:  color,
		Move:   move,
	})
	g.toMove = color.Opponent()
}

func (g *Game) finish(result string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.result == "" {
		g.result = result
	}
}
