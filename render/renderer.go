package render

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/arena"
	"github.com/gogpu/termdraw/command"
	"github.com/gogpu/termdraw/frame"
	"github.com/gogpu/termdraw/gpu"
)

// Common renderer errors.
var (
	// ErrTooManyPasses is returned when a frame still overflows the arena
	// after the maximum number of grow-and-retry passes.
	ErrTooManyPasses = errors.New("render: too many paint passes")

	// ErrRendererClosed is returned by operations on a closed renderer.
	ErrRendererClosed = errors.New("render: renderer is closed")
)

// DefaultMaxPaintPasses bounds the overflow grow-and-retry loop. Each pass
// grows every overflowed slot, so in practice one retry suffices.
const DefaultMaxPaintPasses = 10

// Config contains renderer configuration.
type Config struct {
	// Width and Height are the viewport dimensions in pixels.
	Width  uint32
	Height uint32

	// MaxPaintPasses bounds the overflow retry loop. Zero means
	// DefaultMaxPaintPasses.
	MaxPaintPasses int

	// Sprites resolves texture atlas regions for built-in shapes. Nil
	// selects the static defaults.
	Sprites gpu.Sprites
}

func (c *Config) applyDefaults() {
	if c.MaxPaintPasses <= 0 {
		c.MaxPaintPasses = DefaultMaxPaintPasses
	}
	if c.Sprites == nil {
		c.Sprites = gpu.StaticSprites{}
	}
}

// RendererStats contains cumulative renderer statistics for monitoring.
type RendererStats struct {
	// FramesPainted is the number of completed frames.
	FramesPainted uint64
	// PaintRetries is the number of passes restarted after arena overflow.
	PaintRetries uint64
	// PaneSections and SkippedPaneSections count pane sections across all
	// frames; background and chrome sections are excluded.
	PaneSections        uint64
	SkippedPaneSections uint64
	// SkipRate is SkippedPaneSections / PaneSections, 0.0 to 1.0.
	SkipRate float64
	// MaxSkipStreak is the longest run of consecutive skipped pane
	// sections observed.
	MaxSkipStreak int
}

// Renderer is the incremental frame pipeline: it resolves pane descriptions
// through the cache, builds a sectioned plan against the quad arena, issues
// the draw pass, and records continuity state so unchanged panes replay
// their previous frame's buffers.
//
// A Renderer is driven from a single render goroutine; only Stats, Cache
// statistics, and the histograms are safe to read concurrently.
type Renderer struct {
	device  gpu.Device
	cfg     Config
	arena   *arena.Arena
	store   *ContinuityStore
	cache   *frame.PaneCache
	builder *Builder
	ctx     FrameContext
	closed  bool

	framesPainted atomic.Uint64
	paintRetries  atomic.Uint64
	paneSections  atomic.Uint64
	paneSkips     atomic.Uint64

	// QuadsPerFrame, OverdrawRate, and PaneSkipRate record per-frame
	// distributions for monitoring.
	QuadsPerFrame *Histogram
	OverdrawRate  *Histogram
	PaneSkipRate  *Histogram
}

// New creates a renderer over the given device.
func New(device gpu.Device, cfg Config) (*Renderer, error) {
	cfg.applyDefaults()
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("render: invalid viewport %dx%d", cfg.Width, cfg.Height)
	}

	a, err := arena.New(device)
	if err != nil {
		return nil, fmt.Errorf("render: create arena: %w", err)
	}

	store := NewContinuityStore()
	r := &Renderer{
		device:  device,
		cfg:     cfg,
		arena:   a,
		store:   store,
		cache:   frame.NewPaneCache(),
		builder: NewBuilder(a, cfg.Sprites, store),

		QuadsPerFrame: NewHistogram(64, 256, 1024, 4096, 16384),
		OverdrawRate:  NewHistogram(0, 0.01, 0.05, 0.1, 0.25, 0.5),
		PaneSkipRate:  NewHistogram(0, 0.25, 0.5, 0.75, 0.9),
	}

	termdraw.Logger().Info("render: renderer created",
		"width", cfg.Width, "height", cfg.Height,
		"maxPasses", cfg.MaxPaintPasses)
	return r, nil
}

// Resize updates the viewport dimensions. All continuity state and cached
// pane descriptions are invalidated; the next frame executes fully.
func (r *Renderer) Resize(width, height uint32) error {
	if r.closed {
		return ErrRendererClosed
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("render: invalid viewport %dx%d", width, height)
	}
	r.cfg.Width = width
	r.cfg.Height = height
	r.store.Invalidate()
	r.cache.InvalidateAll()
	return nil
}

// Cache returns the pane description cache.
func (r *Renderer) Cache() *frame.PaneCache {
	return r.cache
}

// Context returns a copy of the accumulated frame context.
func (r *Renderer) Context() FrameContext {
	ctx := r.ctx
	ctx.Outcomes = append([]SectionOutcome(nil), r.ctx.Outcomes...)
	return ctx
}

// DescribeFrame assembles a frame description from live panes, resolving
// each through the cache. Panes appear in the given order; the pane whose ID
// equals activeID is marked active.
func (r *Renderer) DescribeFrame(background []command.Command, panes []frame.Pane, activeID int, chrome frame.Chrome, gen frame.Generations) (*frame.Frame, error) {
	if r.closed {
		return nil, ErrRendererClosed
	}
	f := &frame.Frame{
		Background: background,
		Panes:      make([]frame.PaneEntry, 0, len(panes)),
		Chrome:     chrome,
	}
	for _, p := range panes {
		pe, err := r.cache.Describe(p, p.ID() == activeID, gen)
		if err != nil {
			return nil, err
		}
		f.Panes = append(f.Panes, pe)
	}
	return f, nil
}

// Paint renders one frame into the render pass and returns the executed
// plan.
//
// When any arena slot overflows, the pass is abandoned: the affected slots
// grow to the next capacity tile, continuity state is invalidated since
// growth destroyed its buffers, and the whole frame is rebuilt. The frame
// that overflowed is never shown; only a complete pass is drawn.
func (r *Renderer) Paint(f *frame.Frame, pass gpu.RenderPass) (*RenderPlan, error) {
	if r.closed {
		return nil, ErrRendererClosed
	}

	for attempt := 0; attempt < r.cfg.MaxPaintPasses; attempt++ {
		plan, err := r.builder.Build(f, r.cfg.Width, r.cfg.Height)
		if err != nil {
			return nil, err
		}

		if r.arena.NeedMoreQuads() {
			r.paintRetries.Add(1)
			termdraw.Logger().Debug("render: arena overflow, growing and retrying",
				"attempt", attempt)
			if err := r.arena.Grow(); err != nil {
				return nil, fmt.Errorf("render: grow arena: %w", err)
			}
			r.store.Invalidate()
			continue
		}

		if err := DrawPlan(pass, plan, r.arena); err != nil {
			return nil, err
		}
		r.finishFrame(plan)
		return plan, nil
	}
	return nil, fmt.Errorf("%w: frame still overflows after %d passes",
		ErrTooManyPasses, r.cfg.MaxPaintPasses)
}

// finishFrame records continuity state and rolls per-frame statistics.
// Recording must precede rotation so stored refs point at the instances
// that were just written.
func (r *Renderer) finishFrame(plan *RenderPlan) {
	r.store.Record(r.arena, plan)
	r.arena.AdvanceRotation()
	r.framesPainted.Add(1)

	quads := 0
	overdrawn := 0
	for i := range plan.Sections {
		sec := &plan.Sections[i]
		quads += sec.Range.QuadCount()
		if sec.Stats != nil {
			overdrawn += sec.Stats.Overdraw
		}
		if sec.PaneID < 0 {
			continue
		}
		r.ctx.Advance(sec)
		r.paneSections.Add(1)
		if sec.Outcome == OutcomeSkipped {
			r.paneSkips.Add(1)
		}
	}

	r.QuadsPerFrame.Observe(float64(quads))
	if quads > 0 {
		r.OverdrawRate.Observe(float64(overdrawn) / float64(quads))
	}
	if n := plan.PaneSectionCount(); n > 0 {
		r.PaneSkipRate.Observe(float64(plan.SkippedPaneSectionCount()) / float64(n))
	}

	termdraw.Logger().Debug("render: frame painted",
		"sections", len(plan.Sections),
		"quads", quads,
		"skipped", plan.SkippedPaneSectionCount())
}

// Stats returns cumulative renderer statistics.
func (r *Renderer) Stats() RendererStats {
	sections := r.paneSections.Load()
	skips := r.paneSkips.Load()
	var rate float64
	if sections > 0 {
		rate = float64(skips) / float64(sections)
	}
	return RendererStats{
		FramesPainted:       r.framesPainted.Load(),
		PaintRetries:        r.paintRetries.Load(),
		PaneSections:        sections,
		SkippedPaneSections: skips,
		SkipRate:            rate,
		MaxSkipStreak:       r.ctx.MaxSkipStreak,
	}
}

// Close releases the arena's GPU resources. Safe to call multiple times.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.store.Invalidate()
	return r.arena.Close()
}
