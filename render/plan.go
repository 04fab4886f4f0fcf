package render

import (
	"math"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/arena"
	"github.com/gogpu/termdraw/frame"
)

// ScissorRect is a GPU scissor rectangle in unsigned viewport coordinates.
type ScissorRect struct {
	X, Y, Width, Height uint32
}

// ScissorFromBounds clamps a pixel rectangle to the viewport and converts it
// to scissor coordinates. Negative origins saturate to zero; extents clamp
// to the viewport edge. An off-screen rectangle yields a zero-area scissor.
func ScissorFromBounds(b termdraw.Rect, viewportW, viewportH uint32) ScissorRect {
	x0 := clampu(b.X, viewportW)
	y0 := clampu(b.Y, viewportH)
	x1 := clampu(b.MaxX(), viewportW)
	y1 := clampu(b.MaxY(), viewportH)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return ScissorRect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Conversion of a float past the uint32 range, or of NaN, is
// implementation-specific, so both are clamped before converting.
func clampu(v float32, max uint32) uint32 {
	if math.IsNaN(float64(v)) || v <= 0 {
		return 0
	}
	if v >= float32(max) {
		return max
	}
	return uint32(v)
}

// Empty reports whether the scissor covers no pixels.
func (s ScissorRect) Empty() bool {
	return s.Width == 0 || s.Height == 0
}

// QuadRange brackets one section's arena output with the quad-count
// snapshots taken before and after its execution. Ranges are
// self-describing: the absolute start and end count per (depth, slot), so a
// range stays meaningful regardless of what preceding sections did on later
// frames.
type QuadRange struct {
	Start arena.Snapshot
	End   arena.Snapshot
}

// Delta returns the absolute start and end quad counts the section wrote in
// (depth, slot).
func (r QuadRange) Delta(depth, slot int) (start, end int) {
	return r.Start.Count(depth, slot), r.End.Count(depth, slot)
}

// QuadCount returns the total quads the range covers across all layers and
// slots.
func (r QuadRange) QuadCount() int {
	total := 0
	for _, e := range r.End {
		total += e.QuadCount - r.Start.Count(e.Depth, e.Slot)
	}
	return total
}

// Empty reports whether the range covers no quads.
func (r QuadRange) Empty() bool {
	return r.QuadCount() == 0
}

// SectionOutcome records how a section was produced this frame.
type SectionOutcome uint8

const (
	// OutcomeExecuted means the section's commands were walked and its
	// quads written fresh.
	OutcomeExecuted SectionOutcome = iota
	// OutcomeSkipped means the section reused the previous frame's
	// resident GPU data.
	OutcomeSkipped
)

// String returns the outcome name for logging.
func (o SectionOutcome) String() string {
	if o == OutcomeSkipped {
		return "skipped"
	}
	return "executed"
}

// ExecutionStats summarizes one section's fresh execution.
type ExecutionStats struct {
	// QuadsEmitted is the number of quads allocated.
	QuadsEmitted int
	// FillCount and DrawCount split the quads by command kind.
	FillCount int
	DrawCount int
	// Overdraw counts quads whose exact pixel position repeated an
	// earlier quad in the same section, a cheap proxy for redundant
	// painting. Observability only.
	Overdraw int
}

// RenderSection is one logical, independently cacheable region of the
// frame's draw output: the background, one pane, or the chrome.
type RenderSection struct {
	// Scissor restricts the section's draws; nil means full viewport.
	Scissor *ScissorRect

	// Fingerprint is the section's content hash; zero for sections that
	// are never content-cached (background, chrome).
	Fingerprint uint64

	// Key is the pane's full cache key, covering content plus layout,
	// focus, and generation state. Zero for non-pane sections.
	Key frame.CacheKey

	// PaneID identifies the pane for pane sections, -1 otherwise.
	PaneID int

	// Range brackets the quads this section covers. For skipped sections
	// it is the previous frame's recorded range.
	Range QuadRange

	// Skippable reports that this frame treated the section as
	// replayable from the continuity store.
	Skippable bool

	// Outcome records whether the section executed or was skipped.
	Outcome SectionOutcome

	// Stats is present for freshly executed sections.
	Stats *ExecutionStats

	// replay holds the stored buffers a skipped section draws from.
	replay *StoredSection
}

// RenderPlan is the ordered section list for one frame, plus the viewport
// it was built for. Plans are built fresh every frame and discarded after
// the draw pass; only the continuity store survives.
type RenderPlan struct {
	Width, Height uint32
	Sections      []RenderSection

	// ClearColor is the background clear requested by a Clear command,
	// if any.
	ClearColor *termdraw.LinearRGBA

	// PostProcess reports that a BeginPostProcess marker was seen.
	PostProcess bool
}

// PaneSectionCount returns the number of pane sections in the plan.
func (p *RenderPlan) PaneSectionCount() int {
	n := 0
	for i := range p.Sections {
		if p.Sections[i].PaneID >= 0 {
			n++
		}
	}
	return n
}

// SkippedPaneSectionCount returns the number of pane sections that replayed
// prior-frame data.
func (p *RenderPlan) SkippedPaneSectionCount() int {
	n := 0
	for i := range p.Sections {
		if p.Sections[i].PaneID >= 0 && p.Sections[i].Outcome == OutcomeSkipped {
			n++
		}
	}
	return n
}

// QuadCount returns the total quads across all sections, fresh and
// replayed.
func (p *RenderPlan) QuadCount() int {
	total := 0
	for i := range p.Sections {
		total += p.Sections[i].Range.QuadCount()
	}
	return total
}
