package termdraw

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// LinearRGBA represents a premultiplied linear-light color with red, green,
// blue, and alpha components. Each component is in the range [0, 1].
// This is the color format written into GPU vertex attributes.
type LinearRGBA struct {
	R, G, B, A float32
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) LinearRGBA {
	return LinearRGBA{R: r, G: g, B: b, A: 1.0}
}

// RGBA creates a color from RGBA components.
func RGBA(r, g, b, a float32) LinearRGBA {
	return LinearRGBA{R: r, G: g, B: b, A: a}
}

// Color converts LinearRGBA to the standard color.Color interface.
func (c LinearRGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// MulAlpha returns the color with all components scaled by a.
// For premultiplied colors this dims and fades simultaneously.
func (c LinearRGBA) MulAlpha(a float32) LinearRGBA {
	return LinearRGBA{R: c.R * a, G: c.G * a, B: c.B * a, A: c.A * a}
}

// Lerp performs linear interpolation between two colors.
// t=0 returns c, t=1 returns d, intermediate values interpolate.
func (c LinearRGBA) Lerp(d LinearRGBA, t float32) LinearRGBA {
	return LinearRGBA{
		R: c.R + (d.R-c.R)*t,
		G: c.G + (d.G-c.G)*t,
		B: c.B + (d.B-c.B)*t,
		A: c.A + (d.A-c.A)*t,
	}
}

// Array returns the color as a [4]float32 in RGBA order, the layout used by
// vertex attributes and shader uniforms.
func (c LinearRGBA) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// HSBTransform adjusts a color in hue/saturation/brightness space.
// Hue is an additive rotation in degrees; Saturation and Brightness are
// multipliers. The zero-rotation, unit-multiplier transform is the identity.
//
// Terminal themes use this to dim inactive panes and tint foreground text
// without recomputing the palette.
type HSBTransform struct {
	Hue        float32
	Saturation float32
	Brightness float32
}

// IdentityHSB returns the transform that leaves colors unchanged.
func IdentityHSB() HSBTransform {
	return HSBTransform{Hue: 0, Saturation: 1, Brightness: 1}
}

// IsIdentity reports whether the transform leaves colors unchanged.
func (t HSBTransform) IsIdentity() bool {
	return t.Hue == 0 && t.Saturation == 1 && t.Brightness == 1
}

// Array returns the transform as a [3]float32 in hue/saturation/brightness
// order, the layout used by vertex attributes.
func (t HSBTransform) Array() [3]float32 {
	return [3]float32{t.Hue, t.Saturation, t.Brightness}
}

// Apply returns the color adjusted by the transform. Alpha is preserved.
func (t HSBTransform) Apply(c LinearRGBA) LinearRGBA {
	if t.IsIdentity() {
		return c
	}
	h, s, v := colorful.Color{
		R: float64(clamp01(c.R)),
		G: float64(clamp01(c.G)),
		B: float64(clamp01(c.B)),
	}.Hsv()
	h += float64(t.Hue)
	for h < 0 {
		h += 360
	}
	for h >= 360 {
		h -= 360
	}
	s = clampf(s*float64(t.Saturation), 0, 1)
	v = clampf(v*float64(t.Brightness), 0, 1)
	out := colorful.Hsv(h, s, v)
	return LinearRGBA{R: float32(out.R), G: float32(out.G), B: float32(out.B), A: c.A}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
