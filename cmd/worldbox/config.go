package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the game configuration, loaded from a TOML file over defaults.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	World     WorldConfig     `toml:"world"`
	Save      SaveConfig      `toml:"save"`
	Generator GeneratorConfig `toml:"generator"`
	Logging   LoggingConfig   `toml:"logging"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type WorldConfig struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	CullMargin float64 `toml:"cull_margin"`
	Prewarm    int     `toml:"prewarm"`
}

type SaveConfig struct {
	Dir  string `toml:"dir"`
	Slot string `toml:"slot"`
}

type GeneratorConfig struct {
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Size           int    `toml:"size"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LoggingConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

func defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "worldbox",
			Width:  1280,
			Height: 720,
		},
		World: WorldConfig{
			Width:      4000,
			Height:     3000,
			CullMargin: 64,
			Prewarm:    8,
		},
		Save: SaveConfig{
			Dir:  "saves",
			Slot: "world",
		},
		Generator: GeneratorConfig{
			BaseURL:        "https://image.pollinations.ai",
			Model:          "flux",
			Size:           64,
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// loadConfig reads path over the defaults. A missing file is fine: defaults
// apply unchanged.
func loadConfig(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
