package tilemap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/hilbert"
)

var ErrInvalidTilePath = errors.New("invalid tile path")

// TileKey identifies one tile image. Keys are compared structurally.
type TileKey struct {
	MapType MapType
	Level   Level
	X, Y    uint32
}

func (k TileKey) Valid() bool {
	if !k.MapType.Valid() || !k.Level.Valid() {
		return false
	}
	n := k.Level.TilesPerAxis()
	return k.X < n && k.Y < n
}

// Path is the asset path of the tile image.
func (k TileKey) Path() string {
	return fmt.Sprintf("tiles/%s/%d/%d_%d.jpg", k.MapType, k.Level, k.X, k.Y)
}

func (k TileKey) String() string {
	return fmt.Sprintf("%s/%d/%d_%d", k.MapType, k.Level, k.X, k.Y)
}

var curves [MaxLevel + 1]*hilbert.Hilbert

func init() {
	for l := MinLevel; l <= MaxLevel; l++ {
		h, err := hilbert.NewHilbert(int(l.TilesPerAxis()))
		if err != nil {
			panic(err)
		}
		curves[l] = h
	}
}

// Code packs a valid key into a dense integer: levels are laid out coarse to
// fine, tiles within a level follow the Hilbert curve, and the map type is
// the lowest base-3 digit. Neighbouring tiles get nearby codes.
func (k TileKey) Code() uint64 {
	d, err := curves[k.Level].MapInverse(int(k.X), int(k.Y))
	if err != nil {
		panic(fmt.Sprintf("tilemap: code for invalid key %s: %v", k, err))
	}
	levelOffset := (uint64(1)<<(2*uint64(k.Level)) - 1) / 3
	return (levelOffset+uint64(d))*3 + uint64(k.MapType)
}

// ParseTilePath is the inverse of TileKey.Path.
func ParseTilePath(path string) (TileKey, error) {
	parts := strings.Split(path, "/")
	if len(parts) != 4 || parts[0] != "tiles" {
		return TileKey{}, fmt.Errorf("%w: %q", ErrInvalidTilePath, path)
	}

	mapType, err := ParseMapType(parts[1])
	if err != nil {
		return TileKey{}, fmt.Errorf("%w: %q: %w", ErrInvalidTilePath, path, err)
	}

	level, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return TileKey{}, fmt.Errorf("%w: %q: level: %w", ErrInvalidTilePath, path, err)
	}

	name, ok := strings.CutSuffix(parts[3], ".jpg")
	if !ok {
		return TileKey{}, fmt.Errorf("%w: %q: want .jpg", ErrInvalidTilePath, path)
	}
	xs, ys, ok := strings.Cut(name, "_")
	if !ok {
		return TileKey{}, fmt.Errorf("%w: %q: want {x}_{y}", ErrInvalidTilePath, path)
	}
	x, errX := strconv.ParseUint(xs, 10, 32)
	y, errY := strconv.ParseUint(ys, 10, 32)
	if err := errors.Join(errX, errY); err != nil {
		return TileKey{}, fmt.Errorf("%w: %q: %w", ErrInvalidTilePath, path, err)
	}

	key := TileKey{MapType: mapType, Level: Level(level), X: uint32(x), Y: uint32(y)}
	if !key.Valid() {
		return TileKey{}, fmt.Errorf("%w: %q: index out of range", ErrInvalidTilePath, path)
	}
	return key, nil
}

// LevelKeys lists every key of one level in row-major order.
func LevelKeys(mapType MapType, level Level) []TileKey {
	n := level.TilesPerAxis()
	keys := make([]TileKey, 0, n*n)
	for y := uint32(0); y < n; y++ {
		for x := uint32(0); x < n; x++ {
			keys = append(keys, TileKey{MapType: mapType, Level: level, X: x, Y: y})
		}
	}
	return keys
}
