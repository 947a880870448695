package tilemap

import "math"

// Vec2 is a point or extent in world units (or pixels where noted).
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(o Vec2) Vec2      { return Vec2{v.X * o.X, v.Y * o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Rect is an axis-aligned rectangle, Min inclusive and Max exclusive.
type Rect struct {
	Min, Max Vec2
}

func (r Rect) Size() Vec2 {
	return r.Max.Sub(r.Min)
}

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Bounds limits camera travel. A missing side is ±Inf.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

func Unbounded() Bounds {
	return Bounds{
		MinX: math.Inf(-1), MaxX: math.Inf(1),
		MinY: math.Inf(-1), MaxY: math.Inf(1),
	}
}

// SquareBounds returns ±half on both axes.
func SquareBounds(half float64) Bounds {
	return Bounds{MinX: -half, MaxX: half, MinY: -half, MaxY: half}
}

// HasX reports whether both horizontal sides are set.
func (b Bounds) HasX() bool {
	return !math.IsInf(b.MinX, 0) && !math.IsInf(b.MaxX, 0)
}

// HasY reports whether both vertical sides are set.
func (b Bounds) HasY() bool {
	return !math.IsInf(b.MinY, 0) && !math.IsInf(b.MaxY, 0)
}

// Size is +Inf on an axis that is not fully bounded.
func (b Bounds) Size() Vec2 {
	size := Vec2{math.Inf(1), math.Inf(1)}
	if b.HasX() {
		size.X = b.MaxX - b.MinX
	}
	if b.HasY() {
		size.Y = b.MaxY - b.MinY
	}
	return size
}

func (b Bounds) Rect() Rect {
	return Rect{Min: Vec2{b.MinX, b.MinY}, Max: Vec2{b.MaxX, b.MaxY}}
}
