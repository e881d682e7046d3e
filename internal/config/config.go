// Package config loads and validates goban configuration.
//
// Configuration comes from three layers, later layers overriding
// earlier ones: built-in defaults, an optional TOML or YAML file, and
// GOBAN_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Game    GameConfig    `toml:"game" yaml:"game"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// EngineConfig describes how to launch the engine process.
type EngineConfig struct {
	Path            string `toml:"path" yaml:"path"`
	ConfigPath      string `toml:"config_path" yaml:"config_path"`
	ModelPath       string `toml:"model_path" yaml:"model_path"`
	Mode            string `toml:"mode" yaml:"mode"`
	WarmupMillis    int    `toml:"warmup_millis" yaml:"warmup_millis"`
	QuitGraceMillis int    `toml:"quit_grace_millis" yaml:"quit_grace_millis"`
}

// Warmup returns the warm-up delay as a duration.
func (e EngineConfig) Warmup() time.Duration {
	return time.Duration(e.WarmupMillis) * time.Millisecond
}

// QuitGrace returns the quit grace period as a duration.
func (e EngineConfig) QuitGrace() time.Duration {
	return time.Duration(e.QuitGraceMillis) * time.Millisecond
}

// ServerConfig describes the HTTP API listener.
type ServerConfig struct {
	Addr     string `toml:"addr" yaml:"addr"`
	MaxGames int    `toml:"max_games" yaml:"max_games"`
}

// GameConfig holds defaults for new game sessions.
type GameConfig struct {
	BoardSize int     `toml:"board_size" yaml:"board_size"`
	Komi      float64 `toml:"komi" yaml:"komi"`
	Handicap  int     `toml:"handicap" yaml:"handicap"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Path:            "katago",
			Mode:            "gtp",
			WarmupMillis:    2000,
			QuitGraceMillis: 800,
		},
		Server: ServerConfig{
			Addr:     "localhost:8642",
			MaxGames: 4,
		},
		Game: GameConfig{
			BoardSize: 19,
			Komi:      6.5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds a configuration from defaults, the file at path, and
// environment overrides. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

// applyEnv overrides fields from GOBAN_* environment variables.
func applyEnv(cfg *Config) {
	envString("GOBAN_ENGINE_PATH", &cfg.Engine.Path)
	envString("GOBAN_ENGINE_CONFIG", &cfg.Engine.ConfigPath)
	envString("GOBAN_ENGINE_MODEL", &cfg.Engine.ModelPath)
	envString("GOBAN_ENGINE_MODE", &cfg.Engine.Mode)
	envInt("GOBAN_ENGINE_WARMUP_MS", &cfg.Engine.WarmupMillis)
	envInt("GOBAN_ENGINE_QUIT_GRACE_MS", &cfg.Engine.QuitGraceMillis)
	envString("GOBAN_SERVER_ADDR", &cfg.Server.Addr)
	envInt("GOBAN_SERVER_MAX_GAMES", &cfg.Server.MaxGames)
	envInt("GOBAN_GAME_BOARD_SIZE", &cfg.Game.BoardSize)
	envInt("GOBAN_GAME_HANDICAP", &cfg.Game.Handicap)
	envString("GOBAN_LOG_LEVEL", &cfg.Logging.Level)

	if v, ok := os.LookupEnv("GOBAN_GAME_KOMI"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Game.Komi = f
		}
	}
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate checks the configuration for values that would fail later
// in confusing ways.
func (c *Config) Validate() error {
	if c.Engine.Path == "" {
		return fmt.Errorf("engine.path must be set")
	}
	if c.Engine.WarmupMillis < 0 {
		return fmt.Errorf("engine.warmup_millis must not be negative")
	}
	if c.Engine.QuitGraceMillis < 0 {
		return fmt.Errorf("engine.quit_grace_millis must not be negative")
	}
	if c.Server.MaxGames < 1 {
		return fmt.Errorf("server.max_games must be at least 1")
	}
	if c.Game.BoardSize < 2 || c.Game.BoardSize > 25 {
		return fmt.Errorf("game.board_size %d out of range 2..25", c.Game.BoardSize)
	}
	if c.Game.Handicap < 0 {
		return fmt.Errorf("game.handicap must not be negative")
	}
	return nil
}
