// Package config resolves viewer settings from defaults, an optional config
// file and MAPVIEW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/plus3/mapview/tilemap"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

const EnvPrefix = "MAPVIEW"

type Config struct {
	Assets       AssetsConfig `mapstructure:"assets"`
	Window       WindowConfig `mapstructure:"window"`
	Camera       CameraConfig `mapstructure:"camera"`
	Map          MapConfig    `mapstructure:"map"`
	Render       RenderConfig `mapstructure:"render"`
	Log          LogConfig    `mapstructure:"log"`
	DebugDisplay bool         `mapstructure:"debug_display"`
}

type AssetsConfig struct {
	// Dir is an asset root laid out as tiles/, markers/ and icons/.
	Dir string `mapstructure:"dir"`
	// Bundle, when set, takes precedence over Dir.
	Bundle  string `mapstructure:"bundle"`
	Workers int    `mapstructure:"workers"`
}

type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

type CameraConfig struct {
	Scale    float64 `mapstructure:"scale"`
	MinScale float64 `mapstructure:"min_scale"`
	// MaxScale of zero means no upper limit.
	MaxScale float64 `mapstructure:"max_scale"`
	// Bound is the half extent of the square the viewport must stay in.
	// Zero leaves the camera unbounded.
	Bound        float64 `mapstructure:"bound"`
	ZoomToCursor bool    `mapstructure:"zoom_to_cursor"`
}

type MapConfig struct {
	Initial string `mapstructure:"initial"`
}

type RenderConfig struct {
	TextureBudgetMB int `mapstructure:"texture_budget_mb"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Default mirrors the stock viewer: a 12000 unit map seen from scale 20 with
// the camera allowed to wander four map radii from the origin.
func Default() Config {
	return Config{
		Assets: AssetsConfig{
			Dir:     "assets",
			Workers: 4,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "mapview",
		},
		Camera: CameraConfig{
			Scale:        20,
			MinScale:     0.3,
			MaxScale:     40,
			Bound:        tilemap.MapSize / 2 * 4,
			ZoomToCursor: true,
		},
		Map:    MapConfig{Initial: tilemap.DefaultMapType.String()},
		Render: RenderConfig{TextureBudgetMB: 512},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}

// Load resolves the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("assets.dir", d.Assets.Dir)
	v.SetDefault("assets.bundle", d.Assets.Bundle)
	v.SetDefault("assets.workers", d.Assets.Workers)
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("camera.scale", d.Camera.Scale)
	v.SetDefault("camera.min_scale", d.Camera.MinScale)
	v.SetDefault("camera.max_scale", d.Camera.MaxScale)
	v.SetDefault("camera.bound", d.Camera.Bound)
	v.SetDefault("camera.zoom_to_cursor", d.Camera.ZoomToCursor)
	v.SetDefault("map.initial", d.Map.Initial)
	v.SetDefault("render.texture_budget_mb", d.Render.TextureBudgetMB)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("debug_display", d.DebugDisplay)
}

// Validate reports every problem at once, each wrapping ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	cam := c.Camera
	if !(cam.MinScale > 0) || math.IsInf(cam.MinScale, 0) {
		invalid("camera.min_scale must be positive, got %v", cam.MinScale)
	}
	if cam.MaxScale < 0 || (cam.MaxScale > 0 && cam.MaxScale < cam.MinScale) {
		invalid("camera.max_scale %v must be zero or >= camera.min_scale %v", cam.MaxScale, cam.MinScale)
	}
	if cam.Scale < cam.MinScale || (cam.MaxScale > 0 && cam.Scale > cam.MaxScale) {
		invalid("camera.scale %v outside [%v, %v]", cam.Scale, cam.MinScale, cam.MaxScale)
	}
	if cam.Bound < 0 {
		invalid("camera.bound must not be negative, got %v", cam.Bound)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		invalid("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Assets.Workers <= 0 {
		invalid("assets.workers must be positive, got %d", c.Assets.Workers)
	}
	if c.Assets.Dir == "" && c.Assets.Bundle == "" {
		invalid("one of assets.dir or assets.bundle is required")
	}
	if c.Render.TextureBudgetMB <= 0 {
		invalid("render.texture_budget_mb must be positive, got %d", c.Render.TextureBudgetMB)
	}
	if _, err := tilemap.ParseMapType(c.Map.Initial); err != nil {
		invalid("map.initial: %v", err)
	}
	return errors.Join(errs...)
}

// MapType returns the validated initial map type.
func (c Config) MapType() tilemap.MapType {
	mt, err := tilemap.ParseMapType(c.Map.Initial)
	if err != nil {
		return tilemap.DefaultMapType
	}
	return mt
}

// CameraState builds the initial camera from the camera section.
func (c Config) CameraState() tilemap.CameraState {
	cam := tilemap.DefaultCamera()
	cam.Scale = c.Camera.Scale
	cam.MinScale = c.Camera.MinScale
	cam.MaxScale = math.Inf(1)
	if c.Camera.MaxScale > 0 {
		cam.MaxScale = c.Camera.MaxScale
	}
	cam.Bounds = tilemap.Unbounded()
	if c.Camera.Bound > 0 {
		cam.Bounds = tilemap.SquareBounds(c.Camera.Bound)
	}
	cam.ZoomToCursor = c.Camera.ZoomToCursor
	return cam
}
