package tilemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/mapview/ecs"
)

type testWorld struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	loader    *countingLoader
	cache     *TileCache
	camera    *CameraState
	input     *InputState
	level     *CurrentLevel
	mapType   *CurrentMapType
}

func newTestWorld(t *testing.T, cam CameraState, window Vec2) *testWorld {
	t.Helper()
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	w := &testWorld{
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		loader:    newCountingLoader(),
	}
	w.cache = NewTileCache(w.loader, nil)
	InstallState(storage, cam, Surface, w.cache)

	require.True(t, storage.ReadSingleton(&w.camera))
	require.True(t, storage.ReadSingleton(&w.input))
	require.True(t, storage.ReadSingleton(&w.level))
	require.True(t, storage.ReadSingleton(&w.mapType))
	w.input.WindowSize = window
	return w
}

func (w *testWorld) visibility(key TileKey) bool {
	entry, ok := w.cache.Lookup(key)
	if !ok || !entry.Entity.Valid() {
		return false
	}
	return ecs.ReadComponent[Visibility](w.storage, entry.Entity).Visible
}

func TestStreamingRequestsSingleTileInsideViewport(t *testing.T) {
	cam := unboundedCamera()
	cam.Position = Vec2{-1500, 1500}
	cam.Scale = 10
	w := newTestWorld(t, cam, Vec2{100, 100})
	w.scheduler.RegisterStage(ecs.StageStreaming, &StreamingSystem{})

	// Coarser tiles already known from earlier frames.
	cmds := ecs.NewCommands()
	for _, key := range LevelKeys(Surface, 1) {
		RequestTile(cmds, w.cache, key)
	}
	RequestTile(cmds, w.cache, TileKey{MapType: Sky})
	cmds.Flush(w.storage)
	before := w.loader.total()

	w.level.Level = 2
	w.scheduler.Once(0.016)

	target := TileKey{MapType: Surface, Level: 2, X: 1, Y: 1}
	assert.Equal(t, before+2, w.loader.total(), "surface root plus one level-2 tile")
	assert.Equal(t, 1, w.loader.calls[target.Path()])
	assert.Equal(t, [MaxLevel + 1]int{2, 4, 1}, w.cache.LevelCounts())

	w.scheduler.Once(0.016)
	assert.True(t, w.visibility(target))
	assert.True(t, w.visibility(TileKey{MapType: Surface}))
	for _, key := range LevelKeys(Surface, 1) {
		assert.True(t, w.visibility(key), "coarser tile %s", key)
	}
	assert.False(t, w.visibility(TileKey{MapType: Sky}), "other map type")
	assert.Equal(t, before+2, w.loader.total(), "no duplicate requests")
}

func TestStreamingHidesOutOfRangeTiles(t *testing.T) {
	cam := unboundedCamera()
	cam.Scale = 10
	cam.Position = Vec2{-1500, 1500}
	w := newTestWorld(t, cam, Vec2{100, 100})
	w.scheduler.RegisterStage(ecs.StageStreaming, &StreamingSystem{})
	w.level.Level = 2

	w.scheduler.Once(0.016)
	w.camera.Position = Vec2{4500, -4500}
	w.scheduler.Once(0.016)
	w.scheduler.Once(0.016)

	assert.False(t, w.visibility(TileKey{MapType: Surface, Level: 2, X: 1, Y: 1}))
	assert.True(t, w.visibility(TileKey{MapType: Surface, Level: 2, X: 3, Y: 3}))
}

func TestPipelineUsesSameFrameLevel(t *testing.T) {
	w := newTestWorld(t, DefaultCamera(), Vec2{1280, 720})
	RegisterPipeline(w.scheduler, nil)
	require.Equal(t, Level(0), w.level.Level)

	w.input.Scroll = []ScrollEvent{{Amount: 950}}
	w.scheduler.Once(0.016)

	assert.InDelta(t, 1.0, w.camera.Scale, 1e-9)
	assert.Equal(t, Level(6), w.level.Level)
	assert.True(t, w.level.Changed)
	assert.Equal(t, [MaxLevel + 1]int{1, 0, 0, 0, 0, 0, 32}, w.cache.LevelCounts())

	w.input.Scroll = nil
	w.scheduler.Once(0.016)
	assert.False(t, w.level.Changed)
}

func TestPipelineSkipsUntilWindowReady(t *testing.T) {
	w := newTestWorld(t, DefaultCamera(), Vec2{})
	RegisterPipeline(w.scheduler, nil)

	w.input.Scroll = []ScrollEvent{{Amount: 500}}
	w.scheduler.Once(0.016)
	assert.Equal(t, 20.0, w.camera.Scale)
	assert.Equal(t, 0, w.cache.Len())
}

func TestPipelineIgnoresCapturedPointer(t *testing.T) {
	w := newTestWorld(t, DefaultCamera(), Vec2{1280, 720})
	RegisterPipeline(w.scheduler, nil)

	w.input.PointerCaptured = true
	w.input.CursorAvailable = true
	w.input.GrabHeld = true
	w.input.Scroll = []ScrollEvent{{Amount: 3, Unit: ScrollLine}}
	w.scheduler.Once(0.016)
	w.input.Cursor = Vec2{300, 300}
	w.scheduler.Once(0.016)

	assert.Equal(t, 20.0, w.camera.Scale)
	assert.Equal(t, Vec2{}, w.camera.Position)
}

func TestPipelineDragPans(t *testing.T) {
	w := newTestWorld(t, DefaultCamera(), Vec2{1280, 720})
	RegisterPipeline(w.scheduler, nil)

	w.input.CursorAvailable = true
	w.input.Cursor = Vec2{100, 100}
	w.scheduler.Once(0.016)

	w.input.GrabHeld = true
	w.input.Cursor = Vec2{110, 95}
	w.scheduler.Once(0.016)
	assert.Equal(t, Vec2{-200, -100}, w.camera.Position)

	// Leaving the window drops the drag origin.
	w.input.CursorAvailable = false
	w.scheduler.Once(0.016)
	w.input.CursorAvailable = true
	w.input.Cursor = Vec2{600, 600}
	w.scheduler.Once(0.016)
	assert.Equal(t, Vec2{-200, -100}, w.camera.Position)
}

func TestPipelineFitsGrownWindow(t *testing.T) {
	w := newTestWorld(t, DefaultCamera(), Vec2{1280, 720})
	RegisterPipeline(w.scheduler, nil)
	w.scheduler.Once(0.016)
	require.Equal(t, 20.0, w.camera.Scale)

	w.input.WindowSize = Vec2{2560, 1440}
	w.scheduler.Once(0.016)
	assert.InDelta(t, 18.75, w.camera.Scale, 1e-9)
	view := w.camera.Viewport(w.input.WindowSize)
	assert.GreaterOrEqual(t, view.Min.X, w.camera.Bounds.MinX-1e-6)
	assert.LessOrEqual(t, view.Max.X, w.camera.Bounds.MaxX+1e-6)
}

func TestMapSwitchSeedsRootAndHidesOldLayer(t *testing.T) {
	w := newTestWorld(t, DefaultCamera(), Vec2{1280, 720})
	RegisterPipeline(w.scheduler, nil)

	w.scheduler.Once(0.016)
	w.mapType.Type = Depths
	w.scheduler.Once(0.016)
	w.scheduler.Once(0.016)

	assert.True(t, w.cache.Contains(TileKey{MapType: Depths}))
	assert.True(t, w.visibility(TileKey{MapType: Depths}))
	assert.False(t, w.visibility(TileKey{MapType: Surface}))
}
