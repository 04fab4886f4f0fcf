package command

import "github.com/gogpu/termdraw"

// Fold traverses a command list left-to-right, calling f for every leaf
// command with an accumulator. Batch nodes are flattened: their children are
// visited in order and the batch itself is never passed to f.
func Fold[T any](cmds []Command, init T, f func(T, Command) T) T {
	acc := init
	for _, cmd := range cmds {
		if b, ok := cmd.(Batch); ok {
			acc = Fold(b.Commands, acc, f)
			continue
		}
		acc = f(acc, cmd)
	}
	return acc
}

// Count returns the number of leaf commands, excluding Nop.
func Count(cmds []Command) int {
	return Fold(cmds, 0, func(n int, cmd Command) int {
		if _, ok := cmd.(Nop); ok {
			return n
		}
		return n + 1
	})
}

// QuadCount returns the number of leaves that emit a quad when executed
// (FillRect and DrawQuad).
func QuadCount(cmds []Command) int {
	return Fold(cmds, 0, func(n int, cmd Command) int {
		switch cmd.(type) {
		case FillRect, DrawQuad:
			return n + 1
		default:
			return n
		}
	})
}

// MapColors returns a copy of cmd with every color-bearing leaf rewritten
// through f. Structure is preserved: batches stay batches, non-color leaves
// are returned unchanged.
func MapColors(cmd Command, f func(termdraw.LinearRGBA) termdraw.LinearRGBA) Command {
	switch c := cmd.(type) {
	case Clear:
		c.Color = f(c.Color)
		return c
	case FillRect:
		c.Color = f(c.Color)
		return c
	case DrawQuad:
		c.FG = f(c.FG)
		if c.Alt != nil {
			alt := *c.Alt
			alt.Color = f(alt.Color)
			c.Alt = &alt
		}
		return c
	case Batch:
		out := make([]Command, len(c.Commands))
		for i, child := range c.Commands {
			out[i] = MapColors(child, f)
		}
		return Batch{Commands: out}
	default:
		return cmd
	}
}

// MapColorsList applies MapColors to every command in the list.
func MapColorsList(cmds []Command, f func(termdraw.LinearRGBA) termdraw.LinearRGBA) []Command {
	out := make([]Command, len(cmds))
	for i, cmd := range cmds {
		out[i] = MapColors(cmd, f)
	}
	return out
}
