package command

import "github.com/gogpu/termdraw"

// ClipToRect returns cmd restricted to the clip rectangle.
//
// FillRect geometry is intersected with clip; DrawQuad geometry is
// intersected and its texture coordinates are linearly reprojected onto the
// clipped sub-rectangle, so the visible part of the glyph keeps sampling the
// same texels. Commands that do not intersect clip become Nop. Batches whose
// children all become Nop collapse to Nop. Control markers pass through
// unchanged.
func ClipToRect(cmd Command, clip termdraw.Rect) Command {
	switch c := cmd.(type) {
	case FillRect:
		clipped := c.Rect.Intersect(clip)
		if clipped.Empty() {
			return Nop{}
		}
		c.Rect = clipped
		return c
	case DrawQuad:
		clipped := c.Rect.Intersect(clip)
		if clipped.Empty() {
			return Nop{}
		}
		c.Texture = reprojectTexture(c.Rect, clipped, c.Texture)
		c.Rect = clipped
		return c
	case Batch:
		out := make([]Command, len(c.Commands))
		live := false
		for i, child := range c.Commands {
			out[i] = ClipToRect(child, clip)
			if _, nop := out[i].(Nop); !nop {
				live = true
			}
		}
		if !live {
			return Nop{}
		}
		return Batch{Commands: out}
	default:
		return cmd
	}
}

// ClipList applies ClipToRect to every command in the list.
func ClipList(cmds []Command, clip termdraw.Rect) []Command {
	out := make([]Command, len(cmds))
	for i, cmd := range cmds {
		out[i] = ClipToRect(cmd, clip)
	}
	return out
}

// reprojectTexture maps the texture region of a quad covering full onto the
// sub-rectangle clipped, preserving the linear texel-to-pixel mapping.
func reprojectTexture(full, clipped termdraw.Rect, tex termdraw.TextureRect) termdraw.TextureRect {
	if full.W <= 0 || full.H <= 0 {
		return tex
	}
	sx := tex.Width() / full.W
	sy := tex.Height() / full.H
	return termdraw.TextureRect{
		Left:   tex.Left + (clipped.X-full.X)*sx,
		Top:    tex.Top + (clipped.Y-full.Y)*sy,
		Right:  tex.Left + (clipped.MaxX()-full.X)*sx,
		Bottom: tex.Top + (clipped.MaxY()-full.Y)*sy,
	}
}
