package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/mapview/tilemap"
)

func TestDefaultsValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cam := cfg.CameraState()
	assert.Equal(t, tilemap.DefaultCamera(), cam)
	assert.Equal(t, tilemap.Surface, cfg.MapType())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("MAPVIEW_CAMERA_SCALE", "5")
	t.Setenv("MAPVIEW_MAP_INITIAL", "depths")
	t.Setenv("MAPVIEW_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.Camera.Scale)
	assert.Equal(t, tilemap.Depths, cfg.MapType())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
assets:
  bundle: world.bundle
camera:
  scale: 10
  max_scale: 0
  bound: 0
debug_display: true
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "world.bundle", cfg.Assets.Bundle)
	assert.True(t, cfg.DebugDisplay)
	assert.Equal(t, 1280, cfg.Window.Width, "unset keys keep defaults")

	cam := cfg.CameraState()
	assert.True(t, math.IsInf(cam.MaxScale, 1))
	assert.False(t, cam.Bounds.HasX())
	assert.False(t, cam.Bounds.HasY())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Camera.MinScale = 0
	cfg.Window.Width = 0
	cfg.Map.Initial = "moon"
	cfg.Render.TextureBudgetMB = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	for _, key := range []string{"camera.min_scale", "window size", "map.initial", "render.texture_budget_mb"} {
		assert.Contains(t, err.Error(), key)
	}

	t.Setenv("MAPVIEW_CAMERA_SCALE", "100")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalid)
}
