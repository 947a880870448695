package tilemap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromScaleConcrete(t *testing.T) {
	tests := []struct {
		scale float64
		level Level
	}{
		{1.0, 6},
		{math.Exp(3), 0},
		{40, 0},
		{0.3, 6},
		{math.Exp(1), 4},
		{math.Exp(0.74), 5},
		{math.Exp(0.76), 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelFromScale(tt.scale), "scale %v", tt.scale)
	}

	assert.Equal(t, uint32(64), Level(6).TilesPerAxis())
	assert.Equal(t, 187.5, Level(6).TileSize())
	assert.Equal(t, uint32(1), Level(0).TilesPerAxis())
	assert.Equal(t, MapSize, Level(0).TileSize())
}

func TestLevelFromScaleMonotonic(t *testing.T) {
	prev := LevelFromScale(0.01)
	for scale := 0.01; scale < 500; scale *= 1.01 {
		level := LevelFromScale(scale)
		assert.LessOrEqual(t, level, prev, "scale %v", scale)
		assert.True(t, level.Valid())
		prev = level
	}
}

func TestLevelFromScaleRejectsInvalid(t *testing.T) {
	for _, scale := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.Panics(t, func() { LevelFromScale(scale) }, "scale %v", scale)
	}
}

func TestIndexBounds(t *testing.T) {
	for level := MinLevel; level <= MaxLevel; level++ {
		n := level.TilesPerAxis()
		assert.Equal(t, uint32(0), level.Index(-MapSize/2))
		assert.Equal(t, n-1, level.Index(MapSize/2-1e-9))
		assert.Equal(t, uint32(0), level.Index(-1e12))
		assert.Equal(t, n-1, level.Index(1e12))
		assert.Equal(t, uint32(0), level.Index(math.NaN()))

		for pos := -MapSize; pos <= MapSize; pos += 97.3 {
			assert.Less(t, level.Index(pos), n)
		}
	}

	assert.Equal(t, uint32(1), Level(2).Index(-3000))
	assert.Equal(t, uint32(0), Level(2).Index(-3000.0001))
	assert.Equal(t, uint32(2), Level(2).Index(0))
}

func TestTileOriginInvertsIndex(t *testing.T) {
	assert.Equal(t, Vec2{-6000, 6000}, Level(0).TileOrigin(0, 0))
	assert.Equal(t, Vec2{0, 0}, Level(0).TileCenter(0, 0))
	assert.Equal(t, Vec2{-3000, 3000}, Level(2).TileOrigin(1, 1))

	for level := MinLevel; level <= MaxLevel; level++ {
		n := level.TilesPerAxis()
		for x := uint32(0); x < n; x++ {
			for y := uint32(0); y < n; y++ {
				c := level.TileCenter(x, y)
				assert.Equal(t, x, level.Index(c.X))
				assert.Equal(t, y, level.Index(-c.Y))
			}
		}
	}
}
