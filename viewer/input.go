package viewer

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/mapview/ecs"
	"github.com/plus3/mapview/ecs/debugui"
	"github.com/plus3/mapview/tilemap"
)

// Device is the slice of ebiten's polling API the viewer reads each tick.
type Device interface {
	CursorPosition() (x, y int)
	Wheel() (x, y float64)
	GrabHeld() bool
}

type ebitenDevice struct{}

func (ebitenDevice) CursorPosition() (int, int) { return ebiten.CursorPosition() }
func (ebitenDevice) Wheel() (float64, float64)  { return ebiten.Wheel() }

func (ebitenDevice) GrabHeld() bool {
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) ||
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
}

// InputSystem copies this tick's device state into tilemap.InputState.
// WindowSize is owned by Game.Layout and left alone here.
type InputSystem struct {
	Input ecs.Singleton[tilemap.InputState]
	Imgui ecs.Singleton[debugui.ImguiInputState]

	device Device
}

func NewInputSystem(device Device) *InputSystem {
	return &InputSystem{device: device}
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	input := s.Input.Get()
	if input == nil {
		return
	}

	x, y := s.device.CursorPosition()
	input.Cursor = tilemap.Vec2{X: float64(x), Y: float64(y)}
	input.CursorAvailable = tilemap.Rect{Max: input.WindowSize}.Contains(input.Cursor)
	input.GrabHeld = s.device.GrabHeld()

	input.Scroll = input.Scroll[:0]
	if _, dy := s.device.Wheel(); dy != 0 {
		input.Scroll = append(input.Scroll, tilemap.ScrollEvent{Amount: dy, Unit: tilemap.ScrollLine})
	}

	input.PointerCaptured = false
	if imgui := s.Imgui.Get(); imgui != nil {
		input.PointerCaptured = imgui.WantCaptureMouse
	}
}
