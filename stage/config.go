package stage

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/multierr"
)

type Config struct {
	Game    GameConfig    `toml:"game"`
	Audio   AudioConfig   `toml:"audio"`
	Logging LoggingConfig `toml:"logging"`
	Debug   DebugConfig   `toml:"debug"`
}

type GameConfig struct {
	Title        string `toml:"title"`
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	TPS          int    `toml:"tps"`           // ticks per second, one entity frame per tick
	InitialScene int    `toml:"initial_scene"` // scene id activated by Run
	Resizable    bool   `toml:"resizable"`
}

type AudioConfig struct {
	Enabled    bool          `toml:"enabled"`
	SampleRate int           `toml:"sample_rate"`
	Buffer     time.Duration `toml:"buffer"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console or json
}

type DebugConfig struct {
	Enabled   bool       `toml:"enabled"`    // overlay visible at start
	ToggleKey ebiten.Key `toml:"toggle_key"` // key name as understood by ebiten, e.g. "F1"
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML data over the defaults and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	return &Config{
		Game: GameConfig{
			Title:        "sprout",
			Width:        640,
			Height:       480,
			TPS:          60,
			InitialScene: 0,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Buffer:     100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Debug: DebugConfig{
			Enabled:   false,
			ToggleKey: ebiten.KeyF1,
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Game.Width <= 0 || c.Game.Height <= 0 {
		errs = append(errs, fmt.Errorf("game size %dx%d must be positive", c.Game.Width, c.Game.Height))
	}
	if c.Game.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps %d must be positive", c.Game.TPS))
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio sample rate %d must be positive", c.Audio.SampleRate))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Logging.Format))
	}
	return multierr.Combine(errs...)
}
