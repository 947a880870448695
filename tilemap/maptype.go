package tilemap

import (
	"errors"
	"fmt"
)

var ErrUnknownMapType = errors.New("unknown map type")

// MapType selects one of the three map layers. Only one is shown at a time.
type MapType uint8

const (
	Sky MapType = iota
	Surface
	Depths
)

const DefaultMapType = Surface

var AllMapTypes = []MapType{Sky, Surface, Depths}

func (m MapType) String() string {
	switch m {
	case Sky:
		return "sky"
	case Surface:
		return "surface"
	case Depths:
		return "depths"
	}
	return fmt.Sprintf("MapType(%d)", uint8(m))
}

func (m MapType) Valid() bool {
	return m <= Depths
}

func ParseMapType(s string) (MapType, error) {
	switch s {
	case "sky":
		return Sky, nil
	case "surface":
		return Surface, nil
	case "depths":
		return Depths, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMapType, s)
}
