package tilemap

import (
	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/ecs"
)

// Tile tags a placeholder entity with its key.
type Tile struct {
	Key TileKey
}

// TileSprite places a tile image in the world.
type TileSprite struct {
	Origin Vec2
	Size   float64
	// Z orders tiles: finer levels draw above coarser ones.
	Z     float64
	Asset *assets.Handle
}

// Visibility is shared by every drawable entity.
type Visibility struct {
	Visible bool
}

// CurrentLevel holds the level derived from this frame's camera scale.
type CurrentLevel struct {
	Level Level
	// Changed is true only on frames where Level moved.
	Changed bool
}

// CurrentMapType is the layer on display.
type CurrentMapType struct {
	Type MapType
}

func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Tile](registry)
	ecs.RegisterComponent[TileSprite](registry)
	ecs.RegisterComponent[Visibility](registry)
}

// InstallState adds the pipeline singletons to storage.
func InstallState(storage *ecs.Storage, camera CameraState, mapType MapType, cache *TileCache) {
	storage.AddSingleton(&camera)
	storage.AddSingleton(&InputState{})
	storage.AddSingleton(&CurrentLevel{Level: LevelFromScale(camera.Scale)})
	storage.AddSingleton(&CurrentMapType{Type: mapType})
	storage.AddSingleton(cache)
}

// NewTileSprite positions the placeholder for key.
func NewTileSprite(key TileKey, asset *assets.Handle) TileSprite {
	return TileSprite{
		Origin: key.Level.TileOrigin(key.X, key.Y),
		Size:   key.Level.TileSize(),
		Z:      float64(key.Level) * 10,
		Asset:  asset,
	}
}
