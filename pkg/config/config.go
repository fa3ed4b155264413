// Package config loads application settings from a TOML file, falling back
// to defaults when no file exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the complete application configuration.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Canvas   CanvasConfig   `toml:"canvas"`
	Generate GenerateConfig `toml:"generate"`
}

// WindowConfig sets the application window.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// CanvasConfig sets the board surface and drawing sessions.
type CanvasConfig struct {
	// DrawingWidth/DrawingHeight are the fixed resolution of a drawing
	// element's editing surface.
	DrawingWidth  int    `toml:"drawing_width"`
	DrawingHeight int    `toml:"drawing_height"`
	Background    string `toml:"background"`
	// Palette lists the note fill colors offered by the UI.
	Palette []string `toml:"palette"`
}

// GenerateConfig points at the generative-image service.
type GenerateConfig struct {
	Endpoint string `toml:"endpoint"`
	// APIKeyEnv names the environment variable holding the API key, so the
	// key itself never lives in the config file.
	APIKeyEnv   string `toml:"api_key_env"`
	StyleSuffix string `toml:"style_suffix"`
	TimeoutSec  int    `toml:"timeout_sec"`
}

// APIKey resolves the configured key from the environment.
func (g GenerateConfig) APIKey() string {
	if g.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(g.APIKeyEnv)
}

// Timeout returns the configured timeout as a duration.
func (g GenerateConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSec) * time.Second
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Slate",
			Width:  1280,
			Height: 800,
		},
		Canvas: CanvasConfig{
			DrawingWidth:  1024,
			DrawingHeight: 768,
			Background:    "#ffffff",
			Palette:       []string{"#ffd966", "#f4b6c2", "#b6d7a8", "#9fc5e8", "#d9d2e9"},
		},
		Generate: GenerateConfig{
			APIKeyEnv:  "SLATE_API_KEY",
			TimeoutSec: 60,
		},
	}
}

// Path returns the default config file location under the user config dir.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "slate.toml"
	}
	return filepath.Join(dir, "slate", "config.toml")
}

// Load reads configuration from path, with unset fields taking defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}
