package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Channels   ChannelsConfig   `json:"channels"`
	Components ComponentsConfig `json:"components"`
	Gateway    GatewayConfig    `json:"gateway"`
	Logging    LoggingConfig    `json:"logging"`
	mu         sync.RWMutex
}

type ChannelsConfig struct {
	Discord  DiscordConfig  `json:"discord"`
	Telegram TelegramConfig `json:"telegram"`
}

type DiscordConfig struct {
	Enabled bool   `json:"enabled" env:"TUNGSTEN_CHANNELS_DISCORD_ENABLED"`
	Token   string `json:"token" env:"TUNGSTEN_CHANNELS_DISCORD_TOKEN"`
}

type TelegramConfig struct {
	Enabled bool   `json:"enabled" env:"TUNGSTEN_CHANNELS_TELEGRAM_ENABLED"`
	Token   string `json:"token" env:"TUNGSTEN_CHANNELS_TELEGRAM_TOKEN"`
}

// ComponentsConfig holds the session defaults used by the demo command.
type ComponentsConfig struct {
	TimeoutSec       int      `json:"timeout_sec" env:"TUNGSTEN_COMPONENTS_TIMEOUT_SEC"`
	ClickLimit       int      `json:"click_limit" env:"TUNGSTEN_COMPONENTS_CLICK_LIMIT"`
	AllowFrom        []string `json:"allow_from" env:"TUNGSTEN_COMPONENTS_ALLOW_FROM"`
	TimeoutNotice    string   `json:"timeout_notice" env:"TUNGSTEN_COMPONENTS_TIMEOUT_NOTICE"`
	NotAllowedNotice string   `json:"not_allowed_notice" env:"TUNGSTEN_COMPONENTS_NOT_ALLOWED_NOTICE"`
	EditsPerSecond   float64  `json:"edits_per_second" env:"TUNGSTEN_COMPONENTS_EDITS_PER_SECOND"`
}

type GatewayConfig struct {
	Host string `json:"host" env:"TUNGSTEN_GATEWAY_HOST"`
	Port int    `json:"port" env:"TUNGSTEN_GATEWAY_PORT"`
}

type LoggingConfig struct {
	Enabled       bool   `json:"enabled" env:"TUNGSTEN_LOGGING_ENABLED"`
	Dir           string `json:"dir" env:"TUNGSTEN_LOGGING_DIR"`
	Filename      string `json:"filename" env:"TUNGSTEN_LOGGING_FILENAME"`
	MaxSizeMB     int    `json:"max_size_mb" env:"TUNGSTEN_LOGGING_MAX_SIZE_MB"`
	RetentionDays int    `json:"retention_days" env:"TUNGSTEN_LOGGING_RETENTION_DAYS"`
}

var (
	isDebug bool
	muDebug sync.RWMutex
)

func SetDebugMode(debug bool) {
	muDebug.Lock()
	defer muDebug.Unlock()
	isDebug = debug
}

func IsDebugMode() bool {
	muDebug.RLock()
	defer muDebug.RUnlock()
	return isDebug
}

func GetConfigDir() string {
	if IsDebugMode() {
		return ".tungsten"
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tungsten")
}

func DefaultConfig() *Config {
	configDir := GetConfigDir()
	return &Config{
		Channels: ChannelsConfig{
			Discord: DiscordConfig{
				Enabled: false,
				Token:   "",
			},
			Telegram: TelegramConfig{
				Enabled: false,
				Token:   "",
			},
		},
		Components: ComponentsConfig{
			TimeoutSec:       60,
			ClickLimit:       0,
			AllowFrom:        []string{},
			TimeoutNotice:    "Interaction Timed Out.",
			NotAllowedNotice: "You're not allowed to interact with this component.",
			EditsPerSecond:   5,
		},
		Gateway: GatewayConfig{
			Host: "127.0.0.1",
			Port: 18791,
		},
		Logging: LoggingConfig{
			Enabled:       true,
			Dir:           filepath.Join(configDir, "logs"),
			Filename:      "tungsten.log",
			MaxSizeMB:     20,
			RetentionDays: 3,
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := unmarshalConfigStrict(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseConfig decodes data over the defaults without the environment overlay.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := unmarshalConfigStrict(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func unmarshalConfigStrict(data []byte, cfg *Config) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			return fmt.Errorf("invalid config: trailing JSON content")
		}
		return err
	}
	return nil
}

func SaveConfig(path string, cfg *Config) error {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SessionTimeout is components.timeout_sec as a duration.
func (c *Config) SessionTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.Components.TimeoutSec) * time.Second
}

func (c *Config) GatewayAddr() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fmt.Sprintf("%s:%d", c.Gateway.Host, c.Gateway.Port)
}

func (c *Config) LogFilePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dir := expandHome(c.Logging.Dir)
	filename := c.Logging.Filename
	if filename == "" {
		filename = "tungsten.log"
	}
	return filepath.Join(dir, filename)
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
