package markers

import (
	"github.com/sirupsen/logrus"

	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/ecs"
	"github.com/plus3/mapview/internal/logging"
	"github.com/plus3/mapview/tilemap"
)

type markerView struct {
	*Marker
	*tilemap.Visibility
}

// SpawnSystem creates the marker entities of a map type the first time it
// is displayed, and resets the filter to that map's locations.
type SpawnSystem struct {
	MapType   ecs.Singleton[tilemap.CurrentMapType]
	Displayed ecs.Singleton[DisplayedSet]

	catalog *Catalog
	icons   tilemap.Loader
	logger  logrus.FieldLogger
	spawned [3]bool
}

func NewSpawnSystem(catalog *Catalog, icons tilemap.Loader, logger logrus.FieldLogger) *SpawnSystem {
	return &SpawnSystem{catalog: catalog, icons: icons, logger: logging.OrDiscard(logger)}
}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	mapType, displayed := s.MapType.Get(), s.Displayed.Get()
	if mapType == nil || displayed == nil || !mapType.Type.Valid() || s.spawned[mapType.Type] {
		return
	}
	mt := mapType.Type
	s.spawned[mt] = true

	displayed.Reset(s.catalog.LocationNames(mt))
	count := SpawnMarkers(frame.Commands, s.catalog, s.icons, mt)
	s.logger.WithFields(logrus.Fields{"map": mt, "markers": count}).Info("markers spawned")
}

// SpawnMarkers queues one entity per location and material marker of mt.
func SpawnMarkers(cmds *ecs.Commands, catalog *Catalog, icons tilemap.Loader, mt tilemap.MapType) int {
	count := 0
	for _, loc := range catalog.Locations(mt) {
		for _, layer := range loc.Layers {
			icon := icons.Load(layer.IconPath())
			for _, m := range layer.Markers {
				label := loc.Name
				if m.Name != nil && *m.Name != loc.Name {
					label = loc.Name + " - " + *m.Name
				}
				cmds.Spawn(&Marker{
					Group:    loc.Name,
					Label:    label,
					Kind:     KindLocation,
					MapType:  mt,
					MinLevel: tilemap.Level(layer.MinZoom),
					MaxLevel: tilemap.Level(layer.MaxZoom),
					Position: m.Position(),
					Icon:     icon,
					IconSize: iconSize(layer.Icon),
					Scale:    MinMarkerScale,
				}, &tilemap.Visibility{})
				count++
			}
		}
	}

	var star *assets.Handle
	for _, mat := range catalog.Materials(mt) {
		if star == nil {
			star = icons.Load(MaterialIconPath)
		}
		for _, c := range mat.Coords {
			cmds.Spawn(&Marker{
				Group:    mat.Name,
				Label:    mat.Name,
				Kind:     KindMaterial,
				MapType:  mt,
				MinLevel: tilemap.MinLevel,
				MaxLevel: tilemap.MaxLevel,
				Position: tilemap.Vec2{X: c[1], Y: c[0]},
				Icon:     star,
				Scale:    MinMarkerScale,
			}, &tilemap.Visibility{})
			count++
		}
	}
	return count
}

// VisibilitySystem shows markers that pass the filter, the level window
// and the map type.
type VisibilitySystem struct {
	Markers   ecs.Query[markerView]
	Displayed ecs.Singleton[DisplayedSet]
	Level     ecs.Singleton[tilemap.CurrentLevel]
	MapType   ecs.Singleton[tilemap.CurrentMapType]
}

func (s *VisibilitySystem) Execute(frame *ecs.UpdateFrame) {
	displayed, level, mapType := s.Displayed.Get(), s.Level.Get(), s.MapType.Get()
	if displayed == nil || level == nil || mapType == nil {
		return
	}
	for m := range s.Markers.Values() {
		m.Visible = m.MapType == mapType.Type && m.ShownAt(level.Level) && displayed.Contains(m.Group)
	}
}

// ScaleSystem follows the camera scale with MarkerScale.
type ScaleSystem struct {
	Markers ecs.Query[markerView]
	Camera  ecs.Singleton[tilemap.CameraState]

	lastScale float64
	lastCount int
}

func (s *ScaleSystem) Execute(frame *ecs.UpdateFrame) {
	cam := s.Camera.Get()
	if cam == nil {
		return
	}
	count := s.Markers.Count()
	if cam.Scale == s.lastScale && count == s.lastCount {
		return
	}
	s.lastScale, s.lastCount = cam.Scale, count

	scale := MarkerScale(cam.Scale)
	for m := range s.Markers.Values() {
		m.Scale = scale
	}
}

// FocusSystem collects the labels of visible markers under the cursor.
type FocusSystem struct {
	Markers ecs.Query[markerView]
	Camera  ecs.Singleton[tilemap.CameraState]
	Input   ecs.Singleton[tilemap.InputState]
	Focused ecs.Singleton[Focused]
}

func (s *FocusSystem) Execute(frame *ecs.UpdateFrame) {
	cam, input, focused := s.Camera.Get(), s.Input.Get(), s.Focused.Get()
	if focused == nil {
		return
	}
	focused.Labels = focused.Labels[:0]
	if cam == nil || input == nil || !input.WindowReady() || !input.CursorAvailable || input.PointerCaptured {
		return
	}
	for m := range s.Markers.Values() {
		if !m.Visible {
			continue
		}
		if m.ScreenRect(cam, input.WindowSize).Contains(input.Cursor) {
			focused.Labels = append(focused.Labels, m.Label)
		}
	}
}

// RegisterSystems adds the marker systems after tile streaming.
func RegisterSystems(scheduler *ecs.Scheduler, catalog *Catalog, icons tilemap.Loader, logger logrus.FieldLogger) {
	scheduler.RegisterStage(ecs.StageVisuals, NewSpawnSystem(catalog, icons, logger))
	scheduler.RegisterStage(ecs.StageVisuals, &VisibilitySystem{})
	scheduler.RegisterStage(ecs.StageVisuals, &ScaleSystem{})
	scheduler.RegisterStage(ecs.StageOverlay, &FocusSystem{})
}
