package config

import (
	"fmt"
	"time"

	"bingoreloaded/internal/card"
	"bingoreloaded/internal/game"
	"bingoreloaded/internal/team"
)

// This file defines the configuration structures used by viper_config.go
// The actual loading is handled by viper in viper_config.go

// ServerConfig represents the server configuration
type ServerConfig struct {
	Server  ServerSettings  `yaml:"server"`
	Game    GameConfig      `yaml:"game"`
	Teams   []team.Template `yaml:"teams"`
	Storage StorageConfig   `yaml:"storage"`
}

// ServerSettings contains server-wide settings
type ServerSettings struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"` // 0 for SSE support
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"`

	// Rate limiting (using golang.org/x/time/rate)
	RateLimit      float64       `yaml:"rateLimit"`      // requests per second
	RateLimitBurst int           `yaml:"rateLimitBurst"` // burst size
	RateLimitIdle  time.Duration `yaml:"rateLimitIdle"`  // forget clients idle this long

	MaxRequestSize    int64  `yaml:"maxRequestSize"`
	MaxSSEConnections int    `yaml:"maxSSEConnections"`
	LogLevel          string `yaml:"logLevel"`
}

// GameConfig holds the settings new sessions start with and the session
// timings.
type GameConfig struct {
	Mode              string   `yaml:"mode"`
	Size              int      `yaml:"size"`
	Card              string   `yaml:"card"`
	Kit               string   `yaml:"kit"`
	Effects           []string `yaml:"effects"`
	EnableCountdown   bool     `yaml:"enableCountdown"`
	CountdownMinutes  int      `yaml:"countdownMinutes"`
	MaxTeamSize       int      `yaml:"maxTeamSize"`
	Teleport          string   `yaml:"teleport"`
	HotswapGoal       int      `yaml:"hotswapGoal"`
	HotswapExpiration int      `yaml:"hotswapExpiration"`
	HotswapRecovery   int      `yaml:"hotswapRecovery"`
	StartingSeconds   int      `yaml:"startingSeconds"`
	DeathmatchSeconds int      `yaml:"deathmatchSeconds"`
}

// StorageConfig locates the statistics and preset database. An empty path
// disables persistence.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *ServerConfig {
	defaults := game.DefaultSettings()
	return &ServerConfig{
		Server: ServerSettings{
			Port:            "", // Must be set via env
			Host:            "", // Must be set via env
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    0, // SSE streams stay open
			IdleTimeout:     0,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,

			RateLimit:      10,
			RateLimitBurst: 20,
			RateLimitIdle:  10 * time.Minute,

			MaxRequestSize:    1048576, // 1MB
			MaxSSEConnections: 1000,
			LogLevel:          "info",
		},
		Game: GameConfig{
			Mode:              string(defaults.Mode),
			Size:              int(defaults.Size),
			Card:              defaults.Card,
			Kit:               string(defaults.Kit),
			Effects:           defaults.Effects.Names(),
			EnableCountdown:   defaults.EnableCountdown,
			CountdownMinutes:  defaults.CountdownMinutes,
			MaxTeamSize:       defaults.MaxTeamSize,
			Teleport:          string(defaults.Teleport),
			HotswapGoal:       defaults.HotswapGoal,
			HotswapExpiration: defaults.HotswapExpiration,
			HotswapRecovery:   defaults.HotswapRecovery,
			StartingSeconds:   game.DefaultStartingSeconds,
			DeathmatchSeconds: game.DefaultDeathmatchSeconds,
		},
		Teams:   team.DefaultTemplates(),
		Storage: StorageConfig{Path: "data/bingo.db"},
	}
}

// Settings converts the game section into session settings.
func (g GameConfig) Settings() (game.Settings, error) {
	s := game.DefaultSettings()

	mode, err := card.ParseMode(g.Mode)
	if err != nil {
		return s, err
	}
	kit, err := game.ParseKit(g.Kit)
	if err != nil {
		return s, err
	}
	teleport, err := game.ParseTeleport(g.Teleport)
	if err != nil {
		return s, err
	}
	effects := game.EffectsNone
	for _, name := range g.Effects {
		e, err := game.ParseEffect(name)
		if err != nil {
			return s, err
		}
		effects |= e
	}

	s = game.NewSettingsBuilder(s).
		Mode(mode).
		Size(card.Size(g.Size)).
		Card(g.Card).
		Kit(kit).
		Effects(effects).
		EnableCountdown(g.EnableCountdown).
		CountdownMinutes(g.CountdownMinutes).
		MaxTeamSize(g.MaxTeamSize).
		Teleport(teleport).
		Hotswap(g.HotswapGoal, g.HotswapExpiration, g.HotswapRecovery).
		View()
	return s, s.Validate()
}

// Validate checks if the configuration is valid
func (c *ServerConfig) Validate() error {
	// Required fields
	if c.Server.Port == "" {
		return fmt.Errorf("PORT environment variable must be set")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("HOST environment variable must be set")
	}
	if c.Server.RateLimit <= 0 || c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("rateLimit and rateLimitBurst must be positive")
	}

	if _, err := c.Game.Settings(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if c.Game.StartingSeconds < 1 {
		return fmt.Errorf("game: startingSeconds must be at least 1")
	}
	if c.Game.DeathmatchSeconds < 1 {
		return fmt.Errorf("game: deathmatchSeconds must be at least 1")
	}

	if len(c.Teams) == 0 {
		return fmt.Errorf("at least one team must be defined")
	}
	if _, err := team.NewManager(c.Teams, c.Game.MaxTeamSize); err != nil {
		return fmt.Errorf("teams: %w", err)
	}

	return nil
}
