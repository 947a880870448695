package tilemap

import (
	"math"
	"strconv"
)

const (
	// MapSize is the side of the square world, centred on the origin.
	MapSize = 12000.0

	MinLevel Level = 0
	MaxLevel Level = 6

	// Magnification converts ln(scale) into level steps.
	Magnification = 2.0
)

// Level is a discrete detail tier. Level n splits the world into 2^n tiles
// per axis; higher is finer.
type Level uint32

// LevelFromScale maps a camera scale (world units per pixel) to a level.
// Larger scales give coarser levels. A non-positive or non-finite scale is a
// caller bug and panics.
func LevelFromScale(scale float64) Level {
	if !(scale > 0) || math.IsInf(scale, 0) {
		panic("tilemap: LevelFromScale called with invalid scale " + strconv.FormatFloat(scale, 'g', -1, 64))
	}

	raw := math.Round(math.Log(scale) * Magnification)
	raw = math.Max(raw, float64(MinLevel))
	raw = math.Min(raw, float64(MaxLevel))
	return MaxLevel - Level(raw)
}

func (l Level) Valid() bool {
	return l <= MaxLevel
}

func (l Level) TilesPerAxis() uint32 {
	return 1 << l
}

// TileSize is the side of one tile in world units.
func (l Level) TileSize() float64 {
	return MapSize / float64(l.TilesPerAxis())
}

// Index converts a world coordinate into a tile index on one axis, clamped
// to the grid. The same conversion serves placement and culling.
func (l Level) Index(pos float64) uint32 {
	n := l.TilesPerAxis()
	idx := math.Floor((pos + MapSize/2) / MapSize * float64(n))
	switch {
	case math.IsNaN(idx) || idx < 0:
		return 0
	case idx > float64(n-1):
		return n - 1
	}
	return uint32(idx)
}

// TileOrigin is the top-left world corner of tile (x, y). X indices grow to
// the right and Y indices grow downwards, so world Y shrinks as y grows.
func (l Level) TileOrigin(x, y uint32) Vec2 {
	half := float64(l.TilesPerAxis()) / 2
	size := l.TileSize()
	return Vec2{
		X: (float64(x) - half) * size,
		Y: (half - float64(y)) * size,
	}
}

func (l Level) TileCenter(x, y uint32) Vec2 {
	size := l.TileSize()
	return l.TileOrigin(x, y).Add(Vec2{size / 2, -size / 2})
}

func (l Level) String() string {
	return strconv.FormatUint(uint64(l), 10)
}
