package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/goban/internal/config"
	"github.com/dshills/goban/internal/game"
	"github.com/dshills/goban/internal/gtp"
	"github.com/dshills/goban/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// engineFactory builds the per-game engine client from configuration.
func engineFactory(engine config.EngineConfig, logger *zap.Logger) game.Factory {
	return func() *gtp.Client {
		return gtp.NewClient(engine.Path, engine.ConfigPath, engine.ModelPath,
			gtp.WithMode(engine.Mode),
			gtp.WithWarmupDelay(engine.Warmup()),
			gtp.WithQuitGrace(engine.QuitGrace()),
			gtp.WithLogger(logger))
	}
}

func runServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := game.NewManager(
		engineFactory(cfg.Engine, logger),
		game.WithMaxGames(cfg.Server.MaxGames),
		game.WithLogger(logger))
	defer manager.Shutdown()

	srv := server.New(manager, cfg.Game, logger)

	// With a config file present, pick up edits to the game defaults
	// without a restart. Engine and server settings still need one.
	if cfgFile != "" {
		watcher, err := config.NewWatcher(cfgFile, logger)
		if err != nil {
			logger.Warn("config watch unavailable", zap.Error(err))
		} else {
			defer watcher.Close()
			go func() {
				for updated := range watcher.Updates() {
					srv.SetDefaults(updated.Game)
				}
			}()
		}
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
