package termdraw

// Rect is an axis-aligned rectangle in pixel space, defined by its top-left
// corner, width, and height.
type Rect struct {
	X, Y, W, H float32
}

// XYWH is a convenience function to create a Rect.
func XYWH(x, y, w, h float32) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float32 { return r.X + r.W }

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float32 { return r.Y + r.H }

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy float32) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.MaxX() && y >= r.Y && y < r.MaxY()
}

// Intersects reports whether the two rectangles overlap with positive area.
func (r Rect) Intersects(s Rect) bool {
	return !r.Intersect(s).Empty()
}

// Intersect returns the intersection of two rectangles.
// If the rectangles do not overlap, the zero Rect is returned.
func (r Rect) Intersect(s Rect) Rect {
	x0 := maxf32(r.X, s.X)
	y0 := maxf32(r.Y, s.Y)
	x1 := minf32(r.MaxX(), s.MaxX())
	y1 := minf32(r.MaxY(), s.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// TextureRect is a rectangle in normalized texture coordinates, addressing a
// region of the shared glyph/sprite atlas. Left/Top is the texel sampled at
// a quad's top-left vertex.
type TextureRect struct {
	Left, Top, Right, Bottom float32
}

// Width returns the horizontal texture-coordinate extent.
func (t TextureRect) Width() float32 { return t.Right - t.Left }

// Height returns the vertical texture-coordinate extent.
func (t TextureRect) Height() float32 { return t.Bottom - t.Top }

func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
