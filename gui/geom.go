package gui

import "github.com/chewxy/math32"

// Pos2 is a point in logical GUI points (not physical pixels).
type Pos2 struct {
	X, Y float32
}

// Vec2 is a 2D offset.
type Vec2 struct {
	X, Y float32
}

func (p Pos2) Add(v Vec2) Pos2 { return Pos2{p.X + v.X, p.Y + v.Y} }
func (p Pos2) Sub(o Pos2) Vec2 { return Vec2{p.X - o.X, p.Y - o.Y} }

// Rect is an axis-aligned rectangle. Min is the top-left corner.
type Rect struct {
	Min Pos2
	Max Pos2
}

func RectMinSize(min Pos2, size Vec2) Rect {
	return Rect{Min: min, Max: Pos2{min.X + size.X, min.Y + size.Y}}
}

func (r Rect) W() float32 { return r.Max.X - r.Min.X }
func (r Rect) H() float32 { return r.Max.Y - r.Min.Y }

func (r Rect) Contains(p Pos2) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Min: Pos2{math32.Max(r.Min.X, o.Min.X), math32.Max(r.Min.Y, o.Min.Y)},
		Max: Pos2{math32.Min(r.Max.X, o.Max.X), math32.Min(r.Max.Y, o.Max.Y)},
	}
	if out.Max.X < out.Min.X {
		out.Max.X = out.Min.X
	}
	if out.Max.Y < out.Min.Y {
		out.Max.Y = out.Min.Y
	}
	return out
}

func (r Rect) IsEmpty() bool { return r.W() <= 0 || r.H() <= 0 }

// Expand grows the rectangle by `by` on every side; a negative value insets.
func (r Rect) Expand(by float32) Rect {
	return Rect{
		Min: Pos2{r.Min.X - by, r.Min.Y - by},
		Max: Pos2{r.Max.X + by, r.Max.Y + by},
	}
}

func clamp32(v, lo, hi float32) float32 {
	return math32.Min(math32.Max(v, lo), hi)
}
