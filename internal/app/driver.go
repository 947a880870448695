package app

import (
	"math"

	"github.com/plus3/mapview/ecs"
	"github.com/plus3/mapview/tilemap"
)

// SyntheticDriver feeds scripted input for headless runs. The cursor
// circles the window centre, drags for half of every period and scrolls
// in and out over a longer cycle.
type SyntheticDriver struct {
	Input ecs.Singleton[tilemap.InputState]

	Window tilemap.Vec2
	// Period is the number of frames in one drag cycle.
	Period uint64
}

func (d *SyntheticDriver) Execute(frame *ecs.UpdateFrame) {
	input := d.Input.Get()
	if input == nil {
		return
	}
	period := max(d.Period, 2)
	phase := float64(frame.Frame%period) / float64(period)
	angle := 2 * math.Pi * phase

	input.WindowSize = d.Window
	radius := math.Min(d.Window.X, d.Window.Y) / 4
	input.Cursor = tilemap.Vec2{
		X: d.Window.X/2 + radius*math.Cos(angle),
		Y: d.Window.Y/2 + radius*math.Sin(angle),
	}
	input.CursorAvailable = true
	input.PointerCaptured = false
	input.GrabHeld = phase < 0.5

	input.Scroll = input.Scroll[:0]
	zoomCycle := float64(frame.Frame%(period*8)) / float64(period*8)
	input.Scroll = append(input.Scroll, tilemap.ScrollEvent{
		Amount: 40 * math.Sin(2*math.Pi*zoomCycle),
		Unit:   tilemap.ScrollPixel,
	})
}
