package viewer

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/ecs/debugui"
	"github.com/plus3/mapview/internal/app"
	"github.com/plus3/mapview/tilemap"
)

type debugSources struct {
	loader   func() assets.Stats
	textures func() float64
	perf     *debugui.PerformanceWindow
}

// spawnWindows adds one ImguiItem per window. Render functions run as
// deferred commands at the end of each frame.
func spawnWindows(w *app.World, debug *debugSources) {
	w.Storage.Spawn(debugui.ImguiItem{Render: func() { levelsWindow(w) }})
	w.Storage.Spawn(debugui.ImguiItem{Render: func() { locationsWindow(w) }})
	w.Storage.Spawn(debugui.ImguiItem{Render: func() { materialsWindow(w) }})
	w.Storage.Spawn(debugui.ImguiItem{Render: func() { focusTooltip(w) }})
	if debug != nil {
		w.Storage.Spawn(debugui.ImguiItem{Render: func() { debugWindow(w, debug) }})
		w.Storage.Spawn(debugui.ImguiItem{Render: debug.perf.Render})
	}
}

func levelsWindow(w *app.World) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	if imgui.BeginV("Levels", nil, imgui.WindowFlagsAlwaysAutoResize) {
		current := w.MapType()
		for _, mt := range tilemap.AllMapTypes {
			if imgui.RadioButtonBool(mt.String(), mt == current) {
				w.SwitchMap(mt)
			}
		}
	}
	imgui.End()
}

func locationsWindow(w *app.World) {
	mt := w.MapType()
	names := w.Catalog.LocationNames(mt)
	displayed := w.Displayed()

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 120), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(240, 320), imgui.CondOnce)
	if imgui.BeginV("Locations", nil, imgui.WindowFlagsNone) {
		if imgui.Button("Show all") {
			displayed.AddAll(names)
		}
		imgui.SameLine()
		if imgui.Button("Hide all") {
			displayed.RemoveAll(names)
		}
		imgui.Separator()
		for _, name := range names {
			checked := displayed.Contains(name)
			if imgui.Checkbox(name+"##location", &checked) {
				displayed.Toggle(name)
			}
		}
	}
	imgui.End()
}

func materialsWindow(w *app.World) {
	mt := w.MapType()
	names := w.Catalog.MaterialNames(mt)
	displayed := w.Displayed()

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 450), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(240, 240), imgui.CondOnce)
	if imgui.BeginV("Materials", nil, imgui.WindowFlagsNone) {
		if imgui.Button("Hide all") {
			displayed.RemoveAll(names)
		}
		imgui.Separator()
		for _, name := range names {
			checked := displayed.Contains(name)
			if imgui.Checkbox(name+"##material", &checked) {
				displayed.Toggle(name)
			}
		}
	}
	imgui.End()
}

func focusTooltip(w *app.World) {
	label, ok := w.Focused().First()
	if !ok {
		return
	}
	if imgui.BeginTooltip() {
		imgui.Text(label)
		imgui.EndTooltip()
	}
}

func debugWindow(w *app.World, debug *debugSources) {
	imgui.SetNextWindowPosV(imgui.NewVec2(260, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	if imgui.BeginV("Debug", nil, imgui.WindowFlagsAlwaysAutoResize) {
		cam := w.Camera()
		level := w.Level()
		imgui.Text(fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
		imgui.Text(fmt.Sprintf("Camera: (%.1f, %.1f) scale %.3f", cam.Position.X, cam.Position.Y, cam.Scale))
		imgui.Text(fmt.Sprintf("Level: %d  Map: %s", level.Level, w.MapType()))
		imgui.Separator()

		imgui.Text(fmt.Sprintf("Tiles requested: %d", w.Cache.Len()))
		counts := w.Cache.LevelCounts()
		for lvl, n := range counts {
			if n > 0 {
				imgui.BulletText(fmt.Sprintf("level %d: %d", lvl, n))
			}
		}

		stats := debug.loader()
		imgui.Text(fmt.Sprintf("Assets: %d ready, %d pending, %d failed", stats.Ready, stats.Pending, stats.Failed))
		imgui.Text(fmt.Sprintf("Texture hit ratio: %.2f", debug.textures()))
		imgui.Text(fmt.Sprintf("Markers displayed: %d groups", w.Displayed().Len()))
	}
	imgui.End()
}
