package tilemap

// PixelsPerLine converts line-based wheel events into pixels.
const PixelsPerLine = 100.0

type ScrollUnit uint8

const (
	ScrollPixel ScrollUnit = iota
	ScrollLine
)

// ScrollEvent is one wheel notification. Positive Amount zooms in.
type ScrollEvent struct {
	Amount float64
	Unit   ScrollUnit
}

// ScrollDelta sums a tick's wheel events in pixels.
func ScrollDelta(events []ScrollEvent) float64 {
	total := 0.0
	for _, ev := range events {
		switch ev.Unit {
		case ScrollLine:
			total += ev.Amount * PixelsPerLine
		default:
			total += ev.Amount
		}
	}
	return total
}

// InputState is the raw input of the current tick. The viewer (or a
// synthetic driver) rewrites it before the camera stage runs.
type InputState struct {
	// WindowSize is zero until the window has been laid out.
	WindowSize      Vec2
	Cursor          Vec2
	CursorAvailable bool
	GrabHeld        bool
	Scroll          []ScrollEvent
	// PointerCaptured is set while the overlay UI owns the mouse.
	PointerCaptured bool
}

func (s *InputState) WindowReady() bool {
	return s.WindowSize.X > 0 && s.WindowSize.Y > 0
}
