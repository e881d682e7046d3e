// Package server exposes game sessions over a JSON HTTP API.
//
// Routes are mounted under /api/games. Each game is backed by its own
// engine process owned by the game manager; the server only translates
// between HTTP and game operations.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/goban/internal/config"
	"github.com/dshills/goban/internal/game"
	"github.com/dshills/goban/internal/gtp"
)

// Server handles the HTTP API.
type Server struct {
	manager *game.Manager
	logger  *zap.Logger
	mux     *http.ServeMux

	mu       sync.RWMutex
	defaults config.GameConfig
}

// New creates a server around manager. defaults fill in fields omitted
// from game creation requests.
func New(manager *game.Manager, defaults config.GameConfig, logger *zap.Logger) *Server {
	s := &Server{
		manager:  manager,
		defaults: defaults,
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/games", s.handleCreate)
	s.mux.HandleFunc("GET /api/games", s.handleList)
	s.mux.HandleFunc("GET /api/games/{id}", s.handleGet)
	s.mux.HandleFunc("DELETE /api/games/{id}", s.handleDelete)
	s.mux.HandleFunc("POST /api/games/{id}/moves", s.handlePlay)
	s.mux.HandleFunc("POST /api/games/{id}/genmove", s.handleGenMove)
	s.mux.HandleFunc("POST /api/games/{id}/resign", s.handleResign)
	s.mux.HandleFunc("GET /api/games/{id}/board", s.handleBoard)

	return s
}

// SetDefaults swaps the defaults applied to new games. Used when the
// configuration file is reloaded; running games are unaffected.
func (s *Server) SetDefaults(defaults config.GameConfig) {
	s.mu.Lock()
	s.defaults = defaults
	s.mu.Unlock()
}

// ServeHTTP implements http.Handler with request logging.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.logger.Info("http request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("duration", time.Since(start)))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type createRequest struct {
	BoardSize int      `json:"board_size"`
	Komi      *float64 `json:"komi"`
	Handicap  *int     `json:"handicap"`
}

type gameInfo struct {
	ID             string            `json:"id"`
	BoardSize      int               `json:"board_size"`
	Komi           float64           `json:"komi"`
	Handicap       int               `json:"handicap"`
	HandicapStones []string          `json:"handicap_stones,omitempty"`
	ToMove         gtp.Color         `json:"to_move"`
	Moves          []game.MoveRecord `json:"moves"`
	Result         string            `json:"result,omitempty"`
	Engine         string            `json:"engine_status"`
}

func (s *Server) info(id string, g *game.Game) gameInfo {
	return gameInfo{
		ID:             id,
		BoardSize:      g.Size(),
		Komi:           g.Komi(),
		Handicap:       g.Handicap(),
		HandicapStones: g.HandicapStones(),
		ToMove:         g.ToMove(),
		Moves:          g.Moves(),
		Result:         g.Result(),
		Engine:         g.Status().String(),
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.RLock()
	defaults := s.defaults
	s.mu.RUnlock()

	settings := game.Settings{
		BoardSize: defaults.BoardSize,
		Handicap:  defaults.Handicap,
		Komi:      req.Komi,
	}
	if req.BoardSize != 0 {
		settings.BoardSize = req.BoardSize
	}
	if req.Handicap != nil {
		settings.Handicap = *req.Handicap
	}
	if settings.BoardSize < 2 || settings.BoardSize > 25 {
		writeError(w, http.StatusBadRequest, "board_size out of range 2..25")
		return
	}
	if settings.Handicap < 0 {
		writeError(w, http.StatusBadRequest, "handicap must not be negative")
		return
	}

	id, g, err := s.manager.Create(r.Context(), settings)
	if err != nil {
		s.writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, s.info(id, g))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids := s.manager.List()
	games := make([]gameInfo, 0, len(ids))
	for _, id := range ids {
		g, err := s.manager.Get(id)
		if err != nil {
			continue
		}
		games = append(games, s.info(id, g))
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": games})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g, err := s.manager.Get(id)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.info(id, g))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Close(r.PathValue("id")); err != nil {
		s.writeGameError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type playRequest struct {
	Vertex string `json:"vertex"`
	Pass   bool   `json:"pass"`
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g, err := s.manager.Get(id)
	if err != nil {
		s.writeGameError(w, err)
		return
	}

	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch {
	case req.Pass:
		err = g.Pass(r.Context())
	case req.Vertex != "":
		err = g.Play(r.Context(), req.Vertex)
	default:
		writeError(w, http.StatusBadRequest, "vertex or pass required")
		return
	}
	if err != nil {
		s.writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.info(id, g))
}

func (s *Server) handleGenMove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g, err := s.manager.Get(id)
	if err != nil {
		s.writeGameError(w, err)
		return
	}

	move, err := g.GenMove(r.Context())
	if err != nil {
		s.writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"move": move.String(),
		"game": s.info(id, g),
	})
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g, err := s.manager.Get(id)
	if err != nil {
		s.writeGameError(w, err)
		return
	}

	g.Resign()
	writeJSON(w, http.StatusOK, s.info(id, g))
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g, err := s.manager.Get(id)
	if err != nil {
		s.writeGameError(w, err)
		return
	}

	b, err := g.Board(r.Context())
	if err != nil {
		s.writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"size":    b.Size(),
		"rows":    b.Rows(),
		"to_move": g.ToMove(),
	})
}

// writeGameError maps domain errors onto HTTP statuses.
func (s *Server) writeGameError(w http.ResponseWriter, err error) {
	var engErr *gtp.EngineError
	var exitErr *gtp.ExitError
	var spawnErr *gtp.SpawnError

	switch {
	case errors.Is(err, game.ErrNotFound):
		writeError(w, http.StatusNotFound, "game not found")
	case errors.Is(err, game.ErrTooManyGames):
		writeError(w, http.StatusServiceUnavailable, "too many concurrent games")
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, "game is over")
	case errors.As(err, &engErr):
		writeError(w, http.StatusUnprocessableEntity, engErr.Message)
	case errors.As(err, &exitErr), errors.Is(err, gtp.ErrNotStarted):
		s.logger.Error("engine unavailable", zap.Error(err))
		writeError(w, http.StatusBadGateway, "engine unavailable")
	case errors.As(err, &spawnErr):
		s.logger.Error("engine spawn failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "engine failed to start")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
