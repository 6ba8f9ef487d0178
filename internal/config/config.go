// Package config loads engine configuration from
// ~/.matchcenter/config.yaml and MATCHCENTER_* environment variables,
// falling back to defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Live   LiveConfig   `mapstructure:"live"`
	Chat   ChatConfig   `mapstructure:"chat"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig contains endpoint settings
type ServerConfig struct {
	APIBaseURL string `mapstructure:"api_base_url"`
	SocketURL  string `mapstructure:"socket_url"`
}

// LiveConfig tunes the match synchronizers
type LiveConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MinuteTick   time.Duration `mapstructure:"minute_tick"`
}

// ChatConfig tunes the chat session timers
type ChatConfig struct {
	DebounceWindow    time.Duration `mapstructure:"debounce_window"`
	IdleWindow        time.Duration `mapstructure:"idle_window"`
	RateLimitCooldown time.Duration `mapstructure:"rate_limit_cooldown"`
}

// LogConfig controls logrus output
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			APIBaseURL: "http://localhost:8080/api",
			SocketURL:  "ws://localhost:8080/ws",
		},
		Live: LiveConfig{
			PollInterval: 60 * time.Second,
			MinuteTick:   time.Minute,
		},
		Chat: ChatConfig{
			DebounceWindow:    400 * time.Millisecond,
			IdleWindow:        3 * time.Second,
			RateLimitCooldown: 5 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
	}
}

// Dir returns the config/data directory, creating it if needed
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".matchcenter")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// Load reads configuration from the config directory and environment.
// A missing config file is not an error; defaults apply.
func Load() (*Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix("MATCHCENTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.api_base_url", def.Server.APIBaseURL)
	v.SetDefault("server.socket_url", def.Server.SocketURL)
	v.SetDefault("live.poll_interval", def.Live.PollInterval)
	v.SetDefault("live.minute_tick", def.Live.MinuteTick)
	v.SetDefault("chat.debounce_window", def.Chat.DebounceWindow)
	v.SetDefault("chat.idle_window", def.Chat.IdleWindow)
	v.SetDefault("chat.rate_limit_cooldown", def.Chat.RateLimitCooldown)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// SettingsPath returns the location of the sqlite preferences store
func SettingsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.db"), nil
}
