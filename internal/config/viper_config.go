package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration using Viper
// Priority order: Environment variables > Config file > Defaults
func LoadConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()

	// Set config file details
	v.SetConfigName("server")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/bingoreloaded")
	}

	// Enable environment variable binding
	v.SetEnvPrefix("BINGO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// These allow both BINGO_SERVER_PORT and PORT to work
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("server.loglevel", "LOG_LEVEL")
	v.BindEnv("server.ratelimit", "RATE_LIMIT")
	v.BindEnv("server.ratelimitburst", "RATE_LIMIT_BURST")
	v.BindEnv("server.maxrequestsize", "MAX_REQUEST_SIZE")
	v.BindEnv("server.maxsseconnections", "MAX_SSE_CONNECTIONS")
	v.BindEnv("storage.path", "BINGO_DB_PATH")

	defaults := DefaultConfig()

	v.SetDefault("server.readtimeout", defaults.Server.ReadTimeout)
	v.SetDefault("server.writetimeout", defaults.Server.WriteTimeout)
	v.SetDefault("server.idletimeout", defaults.Server.IdleTimeout)
	v.SetDefault("server.shutdowntimeout", defaults.Server.ShutdownTimeout)
	v.SetDefault("server.requesttimeout", defaults.Server.RequestTimeout)
	v.SetDefault("server.ratelimit", defaults.Server.RateLimit)
	v.SetDefault("server.ratelimitburst", defaults.Server.RateLimitBurst)
	v.SetDefault("server.ratelimitidle", defaults.Server.RateLimitIdle)
	v.SetDefault("server.maxrequestsize", defaults.Server.MaxRequestSize)
	v.SetDefault("server.maxsseconnections", defaults.Server.MaxSSEConnections)
	v.SetDefault("server.loglevel", defaults.Server.LogLevel)

	v.SetDefault("game.mode", defaults.Game.Mode)
	v.SetDefault("game.size", defaults.Game.Size)
	v.SetDefault("game.card", defaults.Game.Card)
	v.SetDefault("game.kit", defaults.Game.Kit)
	v.SetDefault("game.effects", defaults.Game.Effects)
	v.SetDefault("game.enablecountdown", defaults.Game.EnableCountdown)
	v.SetDefault("game.countdownminutes", defaults.Game.CountdownMinutes)
	v.SetDefault("game.maxteamsize", defaults.Game.MaxTeamSize)
	v.SetDefault("game.teleport", defaults.Game.Teleport)
	v.SetDefault("game.hotswapgoal", defaults.Game.HotswapGoal)
	v.SetDefault("game.hotswapexpiration", defaults.Game.HotswapExpiration)
	v.SetDefault("game.hotswaprecovery", defaults.Game.HotswapRecovery)
	v.SetDefault("game.startingseconds", defaults.Game.StartingSeconds)
	v.SetDefault("game.deathmatchseconds", defaults.Game.DeathmatchSeconds)

	v.SetDefault("storage.path", defaults.Storage.Path)

	// The config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Teams are a list, so they cannot be defaulted key by key
	if len(cfg.Teams) == 0 {
		cfg.Teams = defaults.Teams
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
