package tilemap

import (
	"github.com/sirupsen/logrus"

	"github.com/plus3/mapview/ecs"
	"github.com/plus3/mapview/internal/logging"
)

// CameraSystem turns the tick's input into pan and zoom.
type CameraSystem struct {
	Camera ecs.Singleton[CameraState]
	Input  ecs.Singleton[InputState]

	lastCursor Vec2
	hasLast    bool
}

func (s *CameraSystem) Execute(frame *ecs.UpdateFrame) {
	cam, input := s.Camera.Get(), s.Input.Get()
	if cam == nil || input == nil || !input.WindowReady() {
		return
	}

	// Forget the drag origin whenever the cursor is not ours, so the first
	// tick back never jumps.
	if input.PointerCaptured || !input.CursorAvailable {
		s.hasLast = false
	}
	// A window that grew since the last tick may show past the bounds.
	cam.Fit(input.WindowSize)
	if input.PointerCaptured {
		return
	}

	if input.CursorAvailable {
		if input.GrabHeld && s.hasLast {
			cam.Pan(s.lastCursor, input.Cursor, input.WindowSize)
		}
		s.lastCursor = input.Cursor
		s.hasLast = true
	}

	if delta := ScrollDelta(input.Scroll); delta != 0 {
		cam.Zoom(delta, input.Cursor, input.CursorAvailable, input.WindowSize)
	}
}

// LevelSystem derives CurrentLevel from the camera scale of the same frame.
type LevelSystem struct {
	Camera ecs.Singleton[CameraState]
	Level  ecs.Singleton[CurrentLevel]

	logger logrus.FieldLogger
}

func NewLevelSystem(logger logrus.FieldLogger) *LevelSystem {
	return &LevelSystem{logger: logging.OrDiscard(logger)}
}

func (s *LevelSystem) Execute(frame *ecs.UpdateFrame) {
	cam, current := s.Camera.Get(), s.Level.Get()
	if cam == nil || current == nil {
		return
	}

	level := cam.Level()
	current.Changed = level != current.Level
	if current.Changed {
		s.logger.WithFields(logrus.Fields{"from": current.Level, "to": level, "scale": cam.Scale}).Debug("level changed")
		current.Level = level
	}
}

type tileView struct {
	*Tile
	*Visibility
}

// StreamingSystem culls known tiles and requests the visible ones.
type StreamingSystem struct {
	Camera  ecs.Singleton[CameraState]
	Input   ecs.Singleton[InputState]
	Level   ecs.Singleton[CurrentLevel]
	MapType ecs.Singleton[CurrentMapType]
	Cache   ecs.Singleton[TileCache]
	Tiles   ecs.Query[tileView]

	seeded      bool
	lastMapType MapType
}

func (s *StreamingSystem) Execute(frame *ecs.UpdateFrame) {
	cam, input, level := s.Camera.Get(), s.Input.Get(), s.Level.Get()
	mapType, cache := s.MapType.Get(), s.Cache.Get()
	if cam == nil || input == nil || level == nil || mapType == nil || cache == nil || !input.WindowReady() {
		return
	}

	if !s.seeded || mapType.Type != s.lastMapType {
		SeedRootTiles(frame.Commands, cache, mapType.Type)
		s.seeded = true
		s.lastMapType = mapType.Type
	}

	xs, ys := VisibleRanges(level.Level, cam.Position, cam.HalfExtent(input.WindowSize))

	for tile := range s.Tiles.Values() {
		tile.Visible = TileVisible(tile.Key, mapType.Type, level.Level, xs, ys)
	}

	for x := xs.Min; x <= xs.Max; x++ {
		for y := ys.Min; y <= ys.Max; y++ {
			RequestTile(frame.Commands, cache, TileKey{MapType: mapType.Type, Level: level.Level, X: x, Y: y})
		}
	}
}

// RequestTile asks the cache for key and, the first time, queues the
// placeholder entity. Returns whether a new request was issued.
func RequestTile(cmds *ecs.Commands, cache *TileCache, key TileKey) bool {
	entry, created := cache.Request(key)
	if !created {
		return false
	}

	sprite := NewTileSprite(key, entry.Asset)
	cmds.SpawnThen(func(id ecs.EntityId) {
		entry.Entity = id
	}, &Tile{Key: key}, &sprite, &Visibility{Visible: true})
	return true
}

// SeedRootTiles requests every level-0 tile of a map type so a backdrop is
// always available.
func SeedRootTiles(cmds *ecs.Commands, cache *TileCache, mapType MapType) int {
	issued := 0
	for _, key := range LevelKeys(mapType, MinLevel) {
		if RequestTile(cmds, cache, key) {
			issued++
		}
	}
	return issued
}

// RegisterPipeline wires camera, level and streaming into their stages.
func RegisterPipeline(scheduler *ecs.Scheduler, logger logrus.FieldLogger) {
	scheduler.RegisterStage(ecs.StageCamera, &CameraSystem{})
	scheduler.RegisterStage(ecs.StageLevel, NewLevelSystem(logger))
	scheduler.RegisterStage(ecs.StageStreaming, &StreamingSystem{})
}
