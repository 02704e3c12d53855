package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const appName = "clipslot"

type Config struct {
	LogLevel        string        `json:"log_level" env:"LOG_LEVEL"`
	HoldThresholdMs int           `json:"hold_threshold_ms" env:"HOLD_THRESHOLD_MS"`
	EmptyTitle      string        `json:"empty_title" env:"EMPTY_TITLE"`
	HoldTitle       string        `json:"hold_title" env:"HOLD_TITLE"`
	Icons           IconConfig    `json:"icons"`
	Inject          InjectConfig  `json:"inject"`
	Journal         JournalConfig `json:"journal"`
	Tray            TrayConfig    `json:"tray"`
}

// IconConfig names the locked variants shown as an image override. The
// unlocked images come from the action's states in the plugin manifest.
type IconConfig struct {
	EmptyLocked  string `json:"empty_locked" env:"ICON_EMPTY_LOCKED"`
	FilledLocked string `json:"filled_locked" env:"ICON_FILLED_LOCKED"`
}

type InjectConfig struct {
	PasteDelayMs int `json:"paste_delay_ms" env:"PASTE_DELAY_MS"` // settle time between clipboard write and keystroke
}

type JournalConfig struct {
	Enabled bool   `json:"enabled" env:"JOURNAL_ENABLED"`
	Path    string `json:"path" env:"JOURNAL_PATH"` // defaults to DataPath()/journal.db
}

type TrayConfig struct {
	Enabled bool `json:"enabled" env:"TRAY_ENABLED"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		HoldThresholdMs: 1000,
		EmptyTitle:      "Empty",
		HoldTitle:       "Release to Clear",
		Icons: IconConfig{
			EmptyLocked:  "imgs/actions/slot/empty-locked",
			FilledLocked: "imgs/actions/slot/filled-locked",
		},
		Inject: InjectConfig{
			PasteDelayMs: 50,
		},
		Journal: JournalConfig{
			Enabled: true,
		},
		Tray: TrayConfig{
			Enabled: false,
		},
	}
}

// Load reads the config from disk, then applies CLIPSLOT_* environment
// overrides (a .env file in the working directory is honoured).
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom is Load with an explicit file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	_ = godotenv.Load()
	if err := env.Parse(cfg, env.Options{Prefix: "CLIPSLOT_"}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the controller cannot work with.
func (c *Config) Validate() error {
	if c.HoldThresholdMs <= 0 {
		return fmt.Errorf("hold_threshold_ms must be positive, got %d", c.HoldThresholdMs)
	}
	if c.Inject.PasteDelayMs < 0 {
		return fmt.Errorf("inject.paste_delay_ms must not be negative, got %d", c.Inject.PasteDelayMs)
	}
	if c.EmptyTitle == "" {
		return errors.New("empty_title must not be empty")
	}
	if c.HoldTitle == "" {
		return errors.New("hold_title must not be empty")
	}
	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) HoldThreshold() time.Duration {
	return time.Duration(c.HoldThresholdMs) * time.Millisecond
}

func (c *Config) PasteDelay() time.Duration {
	return time.Duration(c.Inject.PasteDelayMs) * time.Millisecond
}

// JournalPath returns the configured journal location or the default one.
func (c *Config) JournalPath() string {
	if c.Journal.Path != "" {
		return c.Journal.Path
	}
	return filepath.Join(DataPath(), "journal.db")
}

// Path returns the platform-specific config file path
func Path() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, appName, "config.json")
}

// DataPath returns the platform-specific data directory path
func DataPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.local/share"
		}
	}

	return filepath.Join(base, appName)
}
