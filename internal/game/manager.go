package game

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/goban/internal/gtp"
)

// Factory builds a fresh engine client for a new game. Each game gets
// its own client so engine processes stay isolated per board.
type Factory func() *gtp.Client

// Manager tracks running games by id and enforces a concurrency cap.
// All methods are safe for concurrent use.
type Manager struct {
	factory  Factory
	maxGames int
	logger   *zap.Logger

	mu    sync.Mutex
	games map[string]*Game
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithMaxGames caps the number of concurrent games. Zero or negative
// means unlimited.
func WithMaxGames(n int) ManagerOption {
	return func(m *Manager) {
		m.maxGames = n
	}
}

// WithLogger sets the manager's logger.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a manager that builds engine clients with factory.
func NewManager(factory Factory, opts ...ManagerOption) *Manager {
	m := &Manager{
		factory: factory,
		logger:  zap.NewNop(),
		games:   make(map[string]*Game),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new engine process, sets up a game with the given
// settings, and registers it under a fresh id. The engine is shut down
// if any setup step fails.
func (m *Manager) Create(ctx context.Context, s Settings) (string, *Game, error) {
	m.mu.Lock()
	if m.maxGames > 0 && len(m.games) >= m.maxGames {
		m.mu.Unlock()
		return "", nil, ErrTooManyGames
	}
	m.mu.Unlock()

	client := m.factory()
	if err := client.Start(ctx); err != nil {
		return "", nil, err
	}

	g, err := New(ctx, client, s)
	if err != nil {
		_ = client.Quit()
		return "", nil, err
	}

	id := uuid.NewString()

	m.mu.Lock()
	// Re-check the cap: another Create may have won the race while the
	// engine was warming up.
	if m.maxGames > 0 && len(m.games) >= m.maxGames {
		m.mu.Unlock()
		_ = client.Quit()
		return "", nil, ErrTooManyGames
	}
	m.games[id] = g
	m.mu.Unlock()

	m.logger.Info("game created",
		zap.String("game_id", id),
		zap.Int("board_size", g.Size()),
		zap.Float64("komi", g.Komi()),
		zap.Int("handicap", g.Handicap()))
	return id, g, nil
}

// Get returns the game registered under id.
func (m *Manager) Get(id string) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return g, nil
}

// List returns the registered game ids in sorted order.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close shuts down the game registered under id and removes it.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	g, ok := m.games[id]
	if ok {
		delete(m.games, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}

	err := g.Close()
	m.logger.Info("game closed", zap.String("game_id", id))
	return err
}

// Shutdown closes every registered game. Engines are shut down
// concurrently since each quit may wait out its grace window.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	games := make([]*Game, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, g)
	}
	m.games = make(map[string]*Game)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, g := range games {
		wg.Add(1)
		go func(g *Game) {
			defer wg.Done()
			_ = g.Close()
		}(g)
	}
	wg.Wait()

	m.logger.Info("all games shut down", zap.Int("count", len(games)))
}
