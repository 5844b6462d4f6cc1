// Package config loads isoscene run settings from a YAML, TOML or JSON file
// with ISOSCENE_* environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/phanxgames/isoscene"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every overridable key, e.g. ISOSCENE_TILE_SIZE.
const EnvPrefix = "ISOSCENE"

// Config is the flat on-disk layout. Zero fields keep their defaults, so a
// file only needs the keys it changes.
type Config struct {
	Title     string `mapstructure:"title"`
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	TPS       int    `mapstructure:"tps"`
	TileSize  int    `mapstructure:"tile_size"`
	Resizable bool   `mapstructure:"resizable"`
	ShowFPS   bool   `mapstructure:"show_fps"`
	Debug     bool   `mapstructure:"debug"`
	// BackgroundRGBA is the clear color as 0..1 components. Three values
	// imply opaque alpha.
	BackgroundRGBA []float64 `mapstructure:"background"`
	AssetRoot      string    `mapstructure:"asset_root"`
	SoundRoot      string    `mapstructure:"sound_root"`
	Mute           bool      `mapstructure:"mute"`
	// SheetList replaces isoscene.DefaultSheets when non-empty.
	SheetList []Sheet `mapstructure:"sheets"`
}

// Sheet is one entry of the sheets list.
type Sheet struct {
	Path       string  `mapstructure:"path"`
	Code       int     `mapstructure:"code"`
	CellWidth  int     `mapstructure:"cell_width"`
	CellHeight int     `mapstructure:"cell_height"`
	Scale      float64 `mapstructure:"scale"`
	OffsetX    int     `mapstructure:"offset_x"`
	OffsetY    int     `mapstructure:"offset_y"`
	RenderType string  `mapstructure:"type"`
	IsoBias    float64 `mapstructure:"iso_bias"`
}

// envKeys are the scalar keys bound to environment variables.
var envKeys = []string{
	"title", "width", "height", "tps", "tile_size", "resizable", "show_fps",
	"debug", "asset_root", "sound_root", "mute",
}

// Default returns the stock settings.
func Default() Config {
	return Config{
		Title:     "isoscene",
		Width:     isoscene.DefaultWidth,
		Height:    isoscene.DefaultHeight,
		TPS:       isoscene.DefaultTPS,
		TileSize:  isoscene.DefaultTileSize,
		AssetRoot: "assets",
		SoundRoot: "assets/sounds",
	}
}

// Load reads path and merges it over Default. An empty path loads only the
// environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return Config{}, fmt.Errorf("config: bind %s: %w", k, err)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var loaded Config
	if err := v.Unmarshal(&loaded); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg := Default()
	if err := copier.CopyWithOption(&cfg, &loaded, copier.Option{IgnoreEmpty: true}); err != nil {
		return Config{}, fmt.Errorf("config: merge: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if n := len(c.BackgroundRGBA); n != 0 && n != 3 && n != 4 {
		return fmt.Errorf("config: background needs 3 or 4 components, got %d", n)
	}
	for i, s := range c.SheetList {
		if s.Path == "" {
			return fmt.Errorf("config: sheet %d has no path", i)
		}
		if s.RenderType != "" {
			if _, err := isoscene.ParseRenderType(s.RenderType); err != nil {
				return fmt.Errorf("config: sheet %d: %w", i, err)
			}
		}
	}
	return nil
}

// Background converts BackgroundRGBA to a color. Unset is black.
func (c Config) Background() isoscene.Color {
	switch len(c.BackgroundRGBA) {
	case 3:
		b := c.BackgroundRGBA
		return isoscene.Color{R: b[0], G: b[1], B: b[2], A: 1}
	case 4:
		b := c.BackgroundRGBA
		return isoscene.Color{R: b[0], G: b[1], B: b[2], A: b[3]}
	}
	return isoscene.ColorBlack
}

// RunConfig returns the window settings for isoscene.Run.
func (c Config) RunConfig() (isoscene.RunConfig, error) {
	var rc isoscene.RunConfig
	if err := copier.Copy(&rc, &c); err != nil {
		return rc, fmt.Errorf("config: run settings: %w", err)
	}
	rc.Background = c.Background()
	return rc, nil
}

// SceneConfig returns the scene settings for isoscene.NewScene. Host, events
// and the sheet registry are left for the caller.
func (c Config) SceneConfig() (isoscene.SceneConfig, error) {
	var sc isoscene.SceneConfig
	if err := copier.Copy(&sc, &c); err != nil {
		return sc, fmt.Errorf("config: scene settings: %w", err)
	}
	return sc, nil
}

// SheetSpecs returns the configured sheets, or isoscene.DefaultSheets when
// none are listed.
func (c Config) SheetSpecs() ([]isoscene.SheetSpec, error) {
	if len(c.SheetList) == 0 {
		return isoscene.DefaultSheets, nil
	}
	specs := make([]isoscene.SheetSpec, len(c.SheetList))
	for i, s := range c.SheetList {
		if err := copier.Copy(&specs[i], &s); err != nil {
			return nil, fmt.Errorf("config: sheet %d: %w", i, err)
		}
		if s.RenderType != "" {
			rt, err := isoscene.ParseRenderType(s.RenderType)
			if err != nil {
				return nil, fmt.Errorf("config: sheet %d: %w", i, err)
			}
			specs[i].Type = rt
		}
	}
	return specs, nil
}
