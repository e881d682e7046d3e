package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/goban/internal/game"
	"github.com/dshills/goban/internal/gtp"
	"github.com/dshills/goban/internal/tui"
)

var (
	playSize     int
	playKomi     float64
	playHandicap int
	playWhite    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an interactive game in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func init() {
	playCmd.Flags().IntVar(&playSize, "size", 0, "board size (default from config)")
	playCmd.Flags().Float64Var(&playKomi, "komi", 0, "komi (default 6.5, or 0.5 with handicap)")
	playCmd.Flags().IntVar(&playHandicap, "handicap", 0, "handicap stones")
	playCmd.Flags().BoolVar(&playWhite, "white", false, "play white instead of black")
}

func runPlay(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings := game.Settings{
		BoardSize: cfg.Game.BoardSize,
		Handicap:  cfg.Game.Handicap,
	}
	if playSize != 0 {
		settings.BoardSize = playSize
	}
	if playHandicap != 0 {
		settings.Handicap = playHandicap
	}
	if cmd.Flags().Changed("komi") {
		settings.Komi = &playKomi
	}

	client := engineFactory(cfg.Engine, logger)()
	if err := client.Start(ctx); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	defer func() { _ = client.Quit() }()

	g, err := game.New(ctx, client, settings)
	if err != nil {
		return fmt.Errorf("set up game: %w", err)
	}

	human := gtp.Black
	if playWhite {
		human = gtp.White
	}

	ui, err := tui.New(g, human, logger)
	if err != nil {
		return err
	}
	if err := ui.Run(ctx); err != nil {
		return err
	}

	if result := g.Result(); result != "" {
		fmt.Println(result)
	}
	return nil
}
