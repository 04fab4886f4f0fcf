package frame

import (
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/termdraw"
)

// CellMetrics is the terminal cell geometry in 26.6 fixed point, as reported
// by the font subsystem. Describers use it to place panes and cells on the
// pixel grid without accumulating float rounding error across columns.
type CellMetrics struct {
	Width  fixed.Int26_6
	Height fixed.Int26_6
}

// CellMetricsFromPixels builds metrics from pixel sizes.
func CellMetricsFromPixels(w, h float64) CellMetrics {
	return CellMetrics{
		Width:  fixed.Int26_6(w*64 + 0.5),
		Height: fixed.Int26_6(h*64 + 0.5),
	}
}

// PixelWidth returns the cell width in pixels.
func (m CellMetrics) PixelWidth() float32 {
	return float32(m.Width) / 64
}

// PixelHeight returns the cell height in pixels.
func (m CellMetrics) PixelHeight() float32 {
	return float32(m.Height) / 64
}

// CellRect returns the pixel rectangle covering a block of cells starting
// at (col, row) and spanning cols x rows. Edges are computed in fixed point
// so adjacent blocks share edges exactly.
func (m CellMetrics) CellRect(col, row, cols, rows int) termdraw.Rect {
	x0 := m.Width * fixed.Int26_6(col)
	y0 := m.Height * fixed.Int26_6(row)
	x1 := m.Width * fixed.Int26_6(col+cols)
	y1 := m.Height * fixed.Int26_6(row+rows)
	return termdraw.Rect{
		X: float32(x0) / 64,
		Y: float32(y0) / 64,
		W: float32(x1-x0) / 64,
		H: float32(y1-y0) / 64,
	}
}
