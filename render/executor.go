package render

import (
	"fmt"
	"math"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/arena"
	"github.com/gogpu/termdraw/command"
	"github.com/gogpu/termdraw/gpu"
)

// ExecutionHistory accumulates observability data while a command list is
// executed: quad counts by kind and an overdraw estimate based on exact
// position repeats.
type ExecutionHistory struct {
	quadsEmitted int
	fillCount    int
	drawCount    int
	overdraw     int

	// positions holds the float bit patterns of every quad position seen,
	// so an exact repeat is detected without float comparison pitfalls.
	positions map[[4]uint32]struct{}
}

func newExecutionHistory() *ExecutionHistory {
	return &ExecutionHistory{positions: make(map[[4]uint32]struct{})}
}

// notePosition records a quad position and counts a repeat as overdraw.
func (h *ExecutionHistory) notePosition(left, top, right, bottom float32) {
	key := [4]uint32{
		math.Float32bits(left),
		math.Float32bits(top),
		math.Float32bits(right),
		math.Float32bits(bottom),
	}
	if _, seen := h.positions[key]; seen {
		h.overdraw++
		return
	}
	h.positions[key] = struct{}{}
}

// Stats returns the accumulated counters as section stats.
func (h *ExecutionHistory) Stats() ExecutionStats {
	return ExecutionStats{
		QuadsEmitted: h.quadsEmitted,
		FillCount:    h.fillCount,
		DrawCount:    h.drawCount,
		Overdraw:     h.overdraw,
	}
}

// executor walks command lists and writes quads into the arena. One
// executor lives for one frame pass; it lazily opens a quad allocator per
// (depth, slot) on first use and closes them all when the pass ends.
type executor struct {
	arena   *arena.Arena
	sprites gpu.Sprites
	width   float32
	height  float32

	allocators map[[2]int]*arena.QuadAllocator
	clip       *termdraw.Rect

	clearColor  *termdraw.LinearRGBA
	postProcess bool
}

func newExecutor(a *arena.Arena, sprites gpu.Sprites, width, height uint32) *executor {
	if sprites == nil {
		sprites = gpu.StaticSprites{}
	}
	return &executor{
		arena:      a,
		sprites:    sprites,
		width:      float32(width),
		height:     float32(height),
		allocators: make(map[[2]int]*arena.QuadAllocator),
	}
}

// run executes one section's command list and returns its history.
// The clip set by SetClip persists only within the list.
func (e *executor) run(cmds []command.Command) (*ExecutionHistory, error) {
	hist := newExecutionHistory()
	e.clip = nil
	if err := e.walk(cmds, hist); err != nil {
		return nil, err
	}
	return hist, nil
}

func (e *executor) walk(cmds []command.Command, hist *ExecutionHistory) error {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case command.Nop:
			// nothing
		case command.Clear:
			color := c.Color
			e.clearColor = &color
		case command.SetClip:
			e.clip = c.Rect
		case command.BeginPostProcess:
			e.postProcess = true
		case command.Batch:
			if err := e.walk(c.Commands, hist); err != nil {
				return err
			}
		case command.FillRect:
			if err := e.fillRect(c, hist); err != nil {
				return err
			}
		case command.DrawQuad:
			if err := e.drawQuad(c, hist); err != nil {
				return err
			}
		default:
			return fmt.Errorf("render: unknown command %T", cmd)
		}
	}
	return nil
}

func (e *executor) fillRect(c command.FillRect, hist *ExecutionHistory) error {
	if e.clip != nil {
		clipped := command.ClipToRect(c, *e.clip)
		fc, ok := clipped.(command.FillRect)
		if !ok {
			return nil
		}
		c = fc
	}
	q, err := e.allocate(c.Depth, c.Layer)
	if err != nil {
		return err
	}
	e.writePosition(q, c.Rect, hist)
	q.SetTexture(e.sprites.FilledBox())
	q.SetFG(c.Color)
	q.SetAlt(termdraw.LinearRGBA{}, 0)
	q.SetHSB(c.Transform)
	q.SetMode(float32(command.ModeSolidColor))
	hist.quadsEmitted++
	hist.fillCount++
	return nil
}

func (e *executor) drawQuad(c command.DrawQuad, hist *ExecutionHistory) error {
	if e.clip != nil {
		clipped := command.ClipToRect(c, *e.clip)
		dc, ok := clipped.(command.DrawQuad)
		if !ok {
			return nil
		}
		c = dc
	}
	q, err := e.allocate(c.Depth, c.Layer)
	if err != nil {
		return err
	}
	e.writePosition(q, c.Rect, hist)
	q.SetTexture(c.Texture)
	q.SetFG(c.FG)
	if c.Alt != nil {
		q.SetAlt(c.Alt.Color, c.Alt.Mix)
	} else {
		q.SetAlt(termdraw.LinearRGBA{}, 0)
	}
	q.SetHSB(c.Transform)
	q.SetMode(float32(c.Mode))
	hist.quadsEmitted++
	hist.drawCount++
	return nil
}

// writePosition writes corner positions offset so the viewport center is
// the origin, matching the projection uniform.
func (e *executor) writePosition(q arena.Quad, r termdraw.Rect, hist *ExecutionHistory) {
	left := r.X - e.width/2
	top := r.Y - e.height/2
	right := r.MaxX() - e.width/2
	bottom := r.MaxY() - e.height/2
	q.SetPosition(left, top, right, bottom)
	hist.notePosition(left, top, right, bottom)
}

func (e *executor) allocate(depth, slot int) (arena.Quad, error) {
	key := [2]int{depth, slot}
	alloc, ok := e.allocators[key]
	if !ok {
		var err error
		alloc, err = e.arena.Map(depth, slot)
		if err != nil {
			return arena.Quad{}, err
		}
		e.allocators[key] = alloc
	}
	return alloc.Allocate(), nil
}

// close flushes every open allocator. The first error wins but all
// allocators are closed regardless.
func (e *executor) close() error {
	var firstErr error
	for _, alloc := range e.allocators {
		if err := alloc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	e.allocators = nil
	return firstErr
}
