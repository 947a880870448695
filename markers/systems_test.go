package markers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/ecs"
	"github.com/plus3/mapview/tilemap"
)

type iconLoader struct {
	calls map[string]int
}

func (l *iconLoader) Load(path string) *assets.Handle {
	l.calls[path]++
	return assets.NewHandle(path)
}

type markerWorld struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	icons     *iconLoader
	camera    *tilemap.CameraState
	input     *tilemap.InputState
	mapType   *tilemap.CurrentMapType
	displayed *DisplayedSet
	focused   *Focused
	markers   *ecs.Query[markerView]
}

func newMarkerWorld(t *testing.T, cam tilemap.CameraState) *markerWorld {
	t.Helper()
	registry := ecs.NewComponentRegistry()
	tilemap.RegisterComponents(registry)
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	w := &markerWorld{
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		icons:     &iconLoader{calls: map[string]int{}},
	}
	tilemap.InstallState(storage, cam, tilemap.Surface, tilemap.NewTileCache(w.icons, nil))
	InstallState(storage)
	tilemap.RegisterPipeline(w.scheduler, nil)
	RegisterSystems(w.scheduler, testCatalog(t), w.icons, nil)

	require.True(t, storage.ReadSingleton(&w.camera))
	require.True(t, storage.ReadSingleton(&w.input))
	require.True(t, storage.ReadSingleton(&w.mapType))
	require.True(t, storage.ReadSingleton(&w.displayed))
	require.True(t, storage.ReadSingleton(&w.focused))
	w.input.WindowSize = tilemap.Vec2{X: 800, Y: 600}
	w.markers = ecs.NewQuery[markerView](storage)
	return w
}

func (w *markerWorld) visible() map[string]bool {
	w.markers.Execute()
	out := map[string]bool{}
	for m := range w.markers.Values() {
		out[m.Label] = m.Visible
	}
	return out
}

func TestSpawnAndFilter(t *testing.T) {
	w := newMarkerWorld(t, tilemap.DefaultCamera())

	w.scheduler.Once(0.016)
	assert.Equal(t, []string{"Shrine", "Tower"}, w.displayed.Names(), "materials start hidden")
	assert.Equal(t, 1, w.icons.calls["icons/shrine.png"])
	assert.Equal(t, 1, w.icons.calls[LocationIconPath])
	assert.Equal(t, 1, w.icons.calls[MaterialIconPath])

	w.scheduler.Once(0.016)
	assert.Equal(t, map[string]bool{
		"Shrine":          true,
		"Shrine - Hidden": true,
		"Tower":           false,
		"Ore":             false,
	}, w.visible())

	for m := range w.markers.Values() {
		assert.Equal(t, MaxMarkerScale, m.Scale, "scale 20 clamps to the maximum")
	}

	w.displayed.Toggle("Shrine")
	w.displayed.AddAll([]string{"Ore"})
	w.scheduler.Once(0.016)
	got := w.visible()
	assert.False(t, got["Shrine"])
	assert.True(t, got["Ore"])
}

func TestLevelWindow(t *testing.T) {
	cam := tilemap.DefaultCamera()
	// Level 3 sits inside the Tower window.
	cam.Scale = 4.5
	w := newMarkerWorld(t, cam)
	require.Equal(t, tilemap.Level(3), cam.Level())

	w.scheduler.Once(0.016)
	w.scheduler.Once(0.016)
	assert.True(t, w.visible()["Tower"])

	w.camera.Scale = 1
	w.scheduler.Once(0.016)
	assert.False(t, w.visible()["Tower"], "level 6 is past the window")
}

func TestFocusCollectsLabelsUnderCursor(t *testing.T) {
	cam := tilemap.DefaultCamera()
	cam.Scale = 1
	w := newMarkerWorld(t, cam)
	w.input.CursorAvailable = true
	w.input.Cursor = tilemap.Vec2{X: 600, Y: 200}

	w.scheduler.Once(0.016)
	assert.Empty(t, w.focused.Labels)

	w.scheduler.Once(0.016)
	assert.Equal(t, []string{"Shrine"}, w.focused.Labels)

	w.input.Cursor = tilemap.Vec2{X: 410, Y: 350}
	w.scheduler.Once(0.016)
	label, ok := w.focused.First()
	require.True(t, ok)
	assert.Equal(t, "Shrine - Hidden", label)

	w.input.PointerCaptured = true
	w.scheduler.Once(0.016)
	assert.Empty(t, w.focused.Labels)
}

func TestMapSwitchSpawnsOnceAndResetsFilter(t *testing.T) {
	w := newMarkerWorld(t, tilemap.DefaultCamera())
	w.scheduler.Once(0.016)
	w.scheduler.Once(0.016)
	assert.True(t, w.visible()["Shrine"])

	w.mapType.Type = tilemap.Sky
	w.scheduler.Once(0.016)
	assert.Zero(t, w.displayed.Len())
	assert.False(t, w.visible()["Shrine"], "surface markers hide on another map")

	w.mapType.Type = tilemap.Surface
	w.displayed.Reset([]string{"Shrine"})
	w.scheduler.Once(0.016)
	assert.Len(t, w.visible(), 4, "surface markers are not spawned twice")
	assert.True(t, w.visible()["Shrine"])
	assert.Equal(t, 1, w.icons.calls["icons/shrine.png"])
}
