package markers

import (
	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/ecs"
	"github.com/plus3/mapview/tilemap"
)

const (
	// IconBaseScale is the icon sprite scale relative to its marker.
	IconBaseScale = 0.1

	MinMarkerScale = 2.0
	MaxMarkerScale = 200.0
)

type Kind uint8

const (
	KindLocation Kind = iota
	KindMaterial
)

func (k Kind) String() string {
	if k == KindMaterial {
		return "material"
	}
	return "location"
}

// Marker is one point of interest. Visibility is carried alongside it as
// a tilemap.Visibility component.
type Marker struct {
	// Group is the location or material name that filters this marker.
	Group   string
	Label   string
	Kind    Kind
	MapType tilemap.MapType

	MinLevel tilemap.Level
	MaxLevel tilemap.Level

	Position tilemap.Vec2
	Icon     *assets.Handle
	// IconSize is the declared icon size in pixels, zero when the
	// catalog does not say.
	IconSize tilemap.Vec2
	Scale    float64
}

// ShownAt reports whether the marker's level window includes level.
func (m *Marker) ShownAt(level tilemap.Level) bool {
	return level >= m.MinLevel && level <= m.MaxLevel
}

// IconPixels is the declared size, falling back to the loaded image.
func (m *Marker) IconPixels() tilemap.Vec2 {
	if m.IconSize.X > 0 && m.IconSize.Y > 0 {
		return m.IconSize
	}
	if m.Icon != nil && m.Icon.Ready() {
		b := m.Icon.Image().Bounds()
		return tilemap.Vec2{X: float64(b.Dx()), Y: float64(b.Dy())}
	}
	return tilemap.Vec2{}
}

// WorldSize is the on-map extent of the icon.
func (m *Marker) WorldSize() tilemap.Vec2 {
	return m.IconPixels().Scale(IconBaseScale * m.Scale)
}

// ScreenRect is the icon's window-space rectangle for the given camera.
func (m *Marker) ScreenRect(cam *tilemap.CameraState, window tilemap.Vec2) tilemap.Rect {
	center := cam.WorldToScreen(m.Position, window)
	half := m.WorldSize().Scale(0.5 / cam.Scale)
	return tilemap.Rect{Min: center.Sub(half), Max: center.Add(half)}
}

// MarkerScale keeps icons a constant on-screen size over a band of zoom
// levels.
func MarkerScale(cameraScale float64) float64 {
	return min(max(cameraScale*10, MinMarkerScale), MaxMarkerScale)
}

func iconSize(icon *LocationIcon) tilemap.Vec2 {
	if icon == nil {
		return tilemap.Vec2{}
	}
	return tilemap.Vec2{X: float64(icon.Width), Y: float64(icon.Height)}
}

func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Marker](registry)
	ecs.RegisterComponent[tilemap.Visibility](registry)
}

// InstallState adds the filter and focus singletons.
func InstallState(storage *ecs.Storage) {
	storage.AddSingleton(&DisplayedSet{})
	storage.AddSingleton(&Focused{})
}
