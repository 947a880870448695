package render

import (
	"cmp"
	"slices"

	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/markers"
	"github.com/plus3/mapview/tilemap"
)

// Sprite is one image placed in window pixels.
type Sprite struct {
	Asset *assets.Handle
	Dst   tilemap.Rect
	Z     float64
}

// Dot stands in for a marker whose icon is not available.
type Dot struct {
	Center tilemap.Vec2
	Radius float64
	Kind   markers.Kind
}

const minDotRadius = 4

// TileSprites places every visible, loaded tile that overlaps the window,
// coarse levels first.
func TileSprites(tiles []*tilemap.TileSprite, cam *tilemap.CameraState, window tilemap.Vec2) []Sprite {
	screen := tilemap.Rect{Max: window}
	out := make([]Sprite, 0, len(tiles))
	for _, t := range tiles {
		if t.Asset == nil || !t.Asset.Ready() {
			continue
		}
		topLeft := cam.WorldToScreen(t.Origin, window)
		dst := tilemap.Rect{Min: topLeft, Max: topLeft.Add(tilemap.Vec2{X: t.Size, Y: t.Size}.Scale(1 / cam.Scale))}
		if !overlaps(dst, screen) {
			continue
		}
		out = append(out, Sprite{Asset: t.Asset, Dst: dst, Z: t.Z})
	}
	slices.SortStableFunc(out, func(a, b Sprite) int {
		return cmp.Compare(a.Z, b.Z)
	})
	return out
}

// MarkerSprites places visible markers. Markers without a usable icon come
// back as dots.
func MarkerSprites(list []*markers.Marker, cam *tilemap.CameraState, window tilemap.Vec2) ([]Sprite, []Dot) {
	screen := tilemap.Rect{Max: window}
	var sprites []Sprite
	var dots []Dot
	for _, m := range list {
		dst := m.ScreenRect(cam, window)
		if m.Icon != nil && m.Icon.Ready() && dst.Size().X > 0 {
			if overlaps(dst, screen) {
				sprites = append(sprites, Sprite{Asset: m.Icon, Dst: dst})
			}
			continue
		}
		center := cam.WorldToScreen(m.Position, window)
		if !screen.Contains(center) {
			continue
		}
		dots = append(dots, Dot{
			Center: center,
			Radius: max(dst.Size().X/2, minDotRadius),
			Kind:   m.Kind,
		})
	}
	return sprites, dots
}

func overlaps(a, b tilemap.Rect) bool {
	return a.Min.X < b.Max.X && a.Max.X > b.Min.X && a.Min.Y < b.Max.Y && a.Max.Y > b.Min.Y
}
