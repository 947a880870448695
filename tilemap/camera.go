package tilemap

import "math"

// ZoomSensitivity scales accumulated wheel pixels into a relative zoom.
const ZoomSensitivity = 0.001

// CameraState is the single owner of the view transform. Scale is world
// units per screen pixel; smaller means more zoomed in.
type CameraState struct {
	Position Vec2
	Scale    float64
	Bounds   Bounds
	MinScale float64
	// MaxScale is +Inf when zoom out is unlimited.
	MaxScale     float64
	ZoomToCursor bool
}

// DefaultCamera starts zoomed out over the whole map with the camera free
// to move four map radii from the origin.
func DefaultCamera() CameraState {
	return CameraState{
		Scale:        20,
		Bounds:       SquareBounds(MapSize / 2 * 4),
		MinScale:     0.3,
		MaxScale:     40,
		ZoomToCursor: true,
	}
}

// HalfExtent is half the visible world size for a window in pixels.
func (c *CameraState) HalfExtent(window Vec2) Vec2 {
	return window.Scale(c.Scale / 2)
}

// Viewport is the visible world rectangle.
func (c *CameraState) Viewport(window Vec2) Rect {
	half := c.HalfExtent(window)
	return Rect{Min: c.Position.Sub(half), Max: c.Position.Add(half)}
}

// Clamp keeps the viewport edges, not just the centre, inside the bounds.
// Each axis clamps against the minimum first and then the maximum, so an
// over-constrained axis ends at the max-side position.
func (c *CameraState) Clamp(window Vec2) {
	half := c.HalfExtent(window)
	c.Position.X = math.Max(c.Position.X, c.Bounds.MinX+half.X)
	c.Position.X = math.Min(c.Position.X, c.Bounds.MaxX-half.X)
	c.Position.Y = math.Max(c.Position.Y, c.Bounds.MinY+half.Y)
	c.Position.Y = math.Min(c.Position.Y, c.Bounds.MaxY-half.Y)
}

// Fit shrinks the scale until the viewport fits every fully bounded axis
// of a window, then clamps. Reports whether the scale changed.
func (c *CameraState) Fit(window Vec2) bool {
	old := c.Scale
	c.Scale = c.capScale(old, window)
	c.Clamp(window)
	return c.Scale != old
}

// Pan drags the map by the cursor movement from prev to cur, both in screen
// pixels with y growing downwards.
func (c *CameraState) Pan(prev, cur, window Vec2) {
	delta := Vec2{cur.X - prev.X, -(cur.Y - prev.Y)}
	c.Position = c.Position.Sub(delta.Scale(c.Scale))
	c.Fit(window)
}

// Zoom applies delta accumulated wheel pixels; positive zooms in. With
// zoom-to-cursor and a cursor, the world point under the cursor stays put.
// Reports whether the scale changed.
func (c *CameraState) Zoom(delta float64, cursor Vec2, hasCursor bool, window Vec2) bool {
	if delta == 0 {
		return false
	}

	old := c.Scale
	scale := math.Max(old*(1-delta*ZoomSensitivity), c.MinScale)
	scale = c.capScale(math.Min(scale, c.MaxScale), window)
	c.Scale = scale

	if c.ZoomToCursor && hasCursor {
		norm := c.normalizedCursor(cursor, window)
		halfWindow := window.Scale(0.5)
		anchor := c.Position.Add(norm.Mul(halfWindow).Scale(old))
		c.Position = anchor.Sub(norm.Mul(halfWindow).Scale(scale))
	}

	c.Clamp(window)
	return scale != old
}

// capScale limits scale so the viewport fits inside each fully bounded axis.
func (c *CameraState) capScale(scale float64, window Vec2) float64 {
	maxSafe := c.MaxSafeScale(window)
	if c.Bounds.HasX() {
		scale = math.Min(scale, maxSafe.X)
	}
	if c.Bounds.HasY() {
		scale = math.Min(scale, maxSafe.Y)
	}
	return scale
}

// MaxSafeScale is the per-axis scale at which the viewport exactly spans
// the bounds, +Inf on an unbounded axis.
func (c *CameraState) MaxSafeScale(window Vec2) Vec2 {
	size := c.Bounds.Size()
	return Vec2{size.X / window.X, size.Y / window.Y}
}

// normalizedCursor maps the window to [-1, 1] with +y up.
func (c *CameraState) normalizedCursor(cursor, window Vec2) Vec2 {
	return Vec2{
		X: cursor.X/window.X*2 - 1,
		Y: -(cursor.Y/window.Y*2 - 1),
	}
}

// Level derives the detail level for the current scale.
func (c *CameraState) Level() Level {
	return LevelFromScale(c.Scale)
}

// WorldToScreen maps a world point to window pixels (y down).
func (c *CameraState) WorldToScreen(world, window Vec2) Vec2 {
	return Vec2{
		X: (world.X-c.Position.X)/c.Scale + window.X/2,
		Y: (c.Position.Y-world.Y)/c.Scale + window.Y/2,
	}
}

// ScreenToWorld is the inverse of WorldToScreen.
func (c *CameraState) ScreenToWorld(screen, window Vec2) Vec2 {
	return Vec2{
		X: c.Position.X + (screen.X-window.X/2)*c.Scale,
		Y: c.Position.Y - (screen.Y-window.Y/2)*c.Scale,
	}
}
