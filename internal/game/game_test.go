package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/dshills/goban/internal/board"
	"github.com/dshills/goban/internal/gtp"
)

// fiveEngine is a stub engine for 5x5 games: it accepts the setup and
// play commands a session issues, generates C3 for black and a pass
// for white, and dumps a fixed position for showboard.
const fiveEngine = `while read seq cmd rest; do
  case "$cmd${rest:+ }$rest" in
    "boardsize 5"|"clear_board"|"komi 6.5"|"komi 0.5"|"komi 7.5"|play*|"quit")
      printf '=%s\n\n' "$seq";;
    "fixed_handicap 2")
      printf '=%s C3 D4\n\n' "$seq";;
    "genmove black")
      printf '=%s C3\n\n' "$seq";;
    "genmove white")
      printf '=%s pass\n\n' "$seq";;
    "showboard")
      printf '=%s\n' "$seq"
      printf ' 5 . . . . .\n'
      printf ' 4 . . . O .\n'
      printf ' 3 . . X . .\n'
      printf ' 2 . . . . .\n'
      printf ' 1 . . . . .\n'
      printf '   A B C D E\n'
      printf '\n';;
    *)
      printf '?%s unexpected: %s %s\n\n' "$seq" "$cmd" "$rest";;
  esac
done`

func writeEngineScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write engine script: %v", err)
	}
	return path
}

func startTestClient(t *testing.T, body string) *gtp.Client {
	t.Helper()
	c := gtp.NewClient(writeEngineScript(t, body), "engine.cfg", "model.bin",
		gtp.WithWarmupDelay(10*time.Millisecond),
		gtp.WithQuitGrace(100*time.Millisecond))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Quit() })
	return c
}

func TestGame_SetupAndPlay(t *testing.T) {
	c := startTestClient(t, fiveEngine)
	ctx := context.Background()

	g, err := New(ctx, c, Settings{BoardSize: 5})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if g.Size() != 5 {
		t.Errorf("Size() = %d, want 5", g.Size())
	}
	if g.Komi() != 6.5 {
		t.Errorf("Komi() = %v, want 6.5", g.Komi())
	}
	if g.ToMove() != gtp.Black {
		t.Errorf("ToMove() = %v, want black", g.ToMove())
	}

	if err := g.Play(ctx, "c3"); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if g.ToMove() != gtp.White {
		t.Errorf("ToMove() after play = %v, want white", g.ToMove())
	}

	move, err := g.GenMove(ctx)
	if err != nil {
		t.Fatalf("GenMove failed: %v", err)
	}
	if !move.Pass {
		t.Errorf("GenMove = %+v, want pass", move)
	}

	moves := g.Moves()
	want := []MoveRecord{
		{Number: 1, Color: gtp.Black, Move: "C3"},
		{Number: 2, Color: gtp.White, Move: "pass"},
	}
	if !reflect.DeepEqual(moves, want) {
		t.Errorf("Moves() = %+v, want %+v", moves, want)
	}
	if g.Over() {
		t.Error("game unexpectedly over")
	}
}

func TestGame_HandicapSetup(t *testing.T) {
	c := startTestClient(t, fiveEngine)
	ctx := context.Background()

	g, err := New(ctx, c, Settings{BoardSize: 5, Handicap: 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if g.Komi() != 0.5 {
		t.Errorf("Komi() = %v, want 0.5 for handicap game", g.Komi())
	}
	if g.ToMove() != gtp.White {
		t.Errorf("ToMove() = %v, want white after handicap placement", g.ToMove())
	}
	if want := []string{"C3", "D4"}; !reflect.DeepEqual(g.HandicapStones(), want) {
		t.Errorf("HandicapStones() = %v, want %v", g.HandicapStones(), want)
	}
}

func TestGame_ExplicitKomi(t *testing.T) {
	c := startTestClient(t, fiveEngine)
	komi := 7.5

	g, err := New(context.Background(), c, Settings{BoardSize: 5, Komi: &komi})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if g.Komi() != 7.5 {
		t.Errorf("Komi() = %v, want 7.5", g.Komi())
	}
}

func TestGame_Board(t *testing.T) {
	c := startTestClient(t, fiveEngine)
	ctx := context.Background()

	g, err := New(ctx, c, Settings{BoardSize: 5})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	b, err := g.Board(ctx)
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}
	if b.Size() != 5 {
		t.Fatalf("board size = %d, want 5", b.Size())
	}
	if b.At(2, 3) != board.Black {
		t.Errorf("expected black stone at C3")
	}
	if b.At(3, 4) != board.White {
		t.Errorf("expected white stone at D4")
	}
}

func TestGame_PlayInvalidVertex(t *testing.T) {
	c := startTestClient(t, fiveEngine)
	ctx := context.Background()

	g, err := New(ctx, c, Settings{BoardSize: 5})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := g.Play(ctx, "Z9"); err == nil {
		t.Fatal("Play(Z9) succeeded on 5x5 board")
	}
	if len(g.Moves()) != 0 {
		t.Errorf("invalid move was recorded: %+v", g.Moves())
	}
	if g.ToMove() != gtp.Black {
		t.Errorf("turn advanced after invalid move")
	}
}

func TestGame_Resign(t *testing.T) {
	c := startTestClient(t, fiveEngine)
	ctx := context.Background()

	g, err := New(ctx, c, Settings{BoardSize: 5})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	g.Resign()
	if !g.Over() {
		t.Fatal("game not over after resign")
	}
	if g.Result() != "white wins by resignation" {
		t.Errorf("Result() = %q", g.Result())
	}

	if err := g.Play(ctx, "C3"); !errors.Is(err, ErrGameOver) {
		t.Errorf("Play after resign = %v, want ErrGameOver", err)
	}
	if _, err := g.GenMove(ctx); !errors.Is(err, ErrGameOver) {
		t.Errorf("GenMove after resign = %v, want ErrGameOver", err)
	}
}

func TestGame_EngineResignEndsGame(t *testing.T) {
	c := startTestClient(t, `while read seq cmd rest; do
  case "$cmd" in
    genmove) printf '=%s resign\n\n' "$seq";;
    *) printf '=%s\n\n' "$seq";;
  esac
done`)
	ctx := context.Background()

	g, err := New(ctx, c, Settings{BoardSize: 5})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	move, err := g.GenMove(ctx)
	if err != nil {
		t.Fatalf("GenMove failed: %v", err)
	}
	if !move.Resign {
		t.Fatalf("GenMove = %+v, want resign", move)
	}
	if g.Result() != "white wins by resignation" {
		t.Errorf("Result() = %q", g.Result())
	}
}

func TestGame_EngineRejectionKeepsState(t *testing.T) {
	c := startTestClient(t, `while read seq cmd rest; do
  case "$cmd" in
    play) printf '?%s illegal move\n\n' "$seq";;
    *) printf '=%s\n\n' "$seq";;
  esac
done`)
	ctx := context.Background()

	g, err := New(ctx, c, Settings{BoardSize: 5})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	err = g.Play(ctx, "C3")
	var engErr *gtp.EngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("Play = %v, want EngineError", err)
	}
	if len(g.Moves()) != 0 || g.ToMove() != gtp.Black {
		t.Error("rejected move changed game state")
	}
}
