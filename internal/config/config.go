// Package config handles user configuration for projassist.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override, e.g. PROJASSIST_GATEWAY_URL
const EnvPrefix = "PROJASSIST_"

// MarkdownConfig configures glamour rendering of built-in help text
type MarkdownConfig struct {
	Style       string `json:"style" env:"STYLE"`               // "dark", "light", or path to JSON theme
	EnableEmoji bool   `json:"enable_emoji" env:"ENABLE_EMOJI"` // Convert :emoji: to unicode
}

// Config represents the user configuration
type Config struct {
	// GatewayURL is where the chat client posts questions
	GatewayURL string `json:"gateway_url" env:"GATEWAY_URL"`
	// BackendURL is the assistant service the gateway forwards to
	BackendURL string `json:"backend_url" env:"BACKEND_URL"`
	ListenAddr string `json:"listen_addr" env:"LISTEN_ADDR"`
	// RequestTimeout is the HTTP timeout in seconds for a single turn.
	RequestTimeout int `json:"request_timeout" env:"REQUEST_TIMEOUT"`

	TUITheme        string `json:"tui_theme,omitempty" env:"TUI_THEME"`
	SmoothScroll    bool   `json:"smooth_scroll" env:"SMOOTH_SCROLL"`
	CopyToClipboard bool   `json:"copy_to_clipboard" env:"COPY_TO_CLIPBOARD"`

	// Verbose enables detailed logging; the chat UI logs to LogFile
	Verbose bool   `json:"verbose" env:"VERBOSE"`
	LogFile string `json:"log_file,omitempty" env:"LOG_FILE"`

	Markdown MarkdownConfig `json:"markdown" envPrefix:"MARKDOWN_"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:       "dark",
		EnableEmoji: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		GatewayURL:      "http://localhost:3000/api/ask",
		BackendURL:      "http://localhost:8000/ask",
		ListenAddr:      ":3000",
		RequestTimeout:  300,
		TUITheme:        "tokyonight",
		SmoothScroll:    true,
		CopyToClipboard: false,
		Verbose:         false,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns RequestTimeout as a duration, falling back to the default
// when the configured value is not positive.
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return time.Duration(DefaultConfig().RequestTimeout) * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".projassist"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk and applies environment
// overrides. A missing file yields the defaults.
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}

	cfg, err := LoadConfigFile(configPath)
	if err != nil {
		return cfg, err
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadConfigFile reads a JSON config file on top of the defaults
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv loads an optional .env file from the working directory and then
// overrides cfg with any PROJASSIST_* variables that are set.
func ApplyEnv(cfg *Config) error {
	_ = godotenv.Load()

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
