// Package command defines the drawing command IR consumed by the render
// pipeline. Commands form a tree via Batch and are pure data: they never
// reference GPU handles, so frame describers can build, cache, and compare
// them without touching the device.
package command

import (
	"github.com/gogpu/termdraw"
)

// QuadMode selects the shader-side treatment of a textured quad: whether the
// texture is sampled for color, alpha-only coverage, or ignored entirely.
type QuadMode uint8

const (
	// ModeSolidColor ignores the texture and fills with the foreground color.
	ModeSolidColor QuadMode = iota
	// ModeGlyph samples alpha-only glyph coverage tinted by the foreground.
	ModeGlyph
	// ModeColorEmoji samples full color from the atlas.
	ModeColorEmoji
	// ModeBackgroundImage samples full color and applies the HSB transform.
	ModeBackgroundImage
	// ModeGrayscale samples luminance tinted by the foreground color.
	ModeGrayscale
)

// String returns the mode name for logging.
func (m QuadMode) String() string {
	switch m {
	case ModeSolidColor:
		return "solid"
	case ModeGlyph:
		return "glyph"
	case ModeColorEmoji:
		return "emoji"
	case ModeBackgroundImage:
		return "bgimage"
	case ModeGrayscale:
		return "grayscale"
	default:
		return "unknown"
	}
}

// Command is one drawing instruction. The set of implementations is closed:
// Clear, FillRect, DrawQuad, SetClip, BeginPostProcess, Batch, and Nop.
type Command interface {
	isCommand()
}

// Clear requests that the render target be cleared to the given color before
// any quads are drawn. It is a control marker consumed by the draw pass; no
// quad is emitted.
type Clear struct {
	Color termdraw.LinearRGBA
}

// FillRect fills a rectangle with a solid color on the given layer.
// Layer is the sub-slot index within the compositing layer (0..2);
// Depth is the compositing depth, drawn in increasing order.
type FillRect struct {
	Layer     int
	Depth     int
	Rect      termdraw.Rect
	Color     termdraw.LinearRGBA
	Transform *termdraw.HSBTransform
}

// AltColor is an optional secondary color blended with a quad's foreground
// color by Mix (0 = foreground only, 1 = alt only).
type AltColor struct {
	Color termdraw.LinearRGBA
	Mix   float32
}

// DrawQuad draws a textured quad (a glyph cell, cursor, or image tile) on
// the given layer and depth.
type DrawQuad struct {
	Layer     int
	Depth     int
	Rect      termdraw.Rect
	Texture   termdraw.TextureRect
	FG        termdraw.LinearRGBA
	Alt       *AltColor
	Transform *termdraw.HSBTransform
	Mode      QuadMode
}

// SetClip changes the active clip rectangle for subsequent commands in the
// same list. A nil Rect removes the clip.
type SetClip struct {
	Rect *termdraw.Rect
}

// BeginPostProcess marks the point where the accumulated output should be
// handed to the post-processing stage. No quad is emitted.
type BeginPostProcess struct{}

// Batch groups an ordered list of commands into one tree node.
// Traversals flatten batches; a batch has no identity of its own.
type Batch struct {
	Commands []Command
}

// Nop does nothing. Clipping replaces fully clipped-out commands with Nop so
// list positions stay stable.
type Nop struct{}

func (Clear) isCommand()            {}
func (FillRect) isCommand()         {}
func (DrawQuad) isCommand()         {}
func (SetClip) isCommand()          {}
func (BeginPostProcess) isCommand() {}
func (Batch) isCommand()            {}
func (Nop) isCommand()              {}
