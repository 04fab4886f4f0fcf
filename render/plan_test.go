package render

import (
	"math"
	"testing"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/arena"
)

func nan32() float32 {
	return float32(math.NaN())
}

func TestScissorFromBounds(t *testing.T) {
	tests := []struct {
		name   string
		bounds termdraw.Rect
		want   ScissorRect
	}{
		{"inside", termdraw.XYWH(10, 20, 30, 40), ScissorRect{10, 20, 30, 40}},
		{"negative origin", termdraw.XYWH(-10, -10, 50, 50), ScissorRect{0, 0, 40, 40}},
		{"past right edge", termdraw.XYWH(90, 90, 20, 20), ScissorRect{90, 90, 10, 10}},
		{"off screen right", termdraw.XYWH(150, 0, 10, 10), ScissorRect{100, 0, 0, 10}},
		{"off screen left", termdraw.XYWH(-50, -50, 20, 20), ScissorRect{0, 0, 0, 0}},
		{"full viewport", termdraw.XYWH(0, 0, 100, 100), ScissorRect{0, 0, 100, 100}},
		{"huge extent", termdraw.XYWH(0, 0, 4e9, 4e9), ScissorRect{0, 0, 100, 100}},
		{"negative extent", termdraw.XYWH(50, 50, -20, -20), ScissorRect{50, 50, 0, 0}},
		{"nan bounds", termdraw.Rect{X: nan32(), Y: nan32(), W: nan32(), H: nan32()}, ScissorRect{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScissorFromBounds(tt.bounds, 100, 100)
			if got != tt.want {
				t.Errorf("ScissorFromBounds(%v) = %+v, want %+v", tt.bounds, got, tt.want)
			}
		})
	}
}

func TestScissorRect_Empty(t *testing.T) {
	if (ScissorRect{0, 0, 10, 10}).Empty() {
		t.Error("non-degenerate scissor reported empty")
	}
	if !(ScissorRect{5, 5, 0, 10}).Empty() {
		t.Error("zero-width scissor not empty")
	}
	if !(ScissorRect{5, 5, 10, 0}).Empty() {
		t.Error("zero-height scissor not empty")
	}
}

func TestQuadRange(t *testing.T) {
	r := QuadRange{
		Start: arena.Snapshot{
			{Depth: 0, Slot: 0, QuadCount: 5},
			{Depth: 0, Slot: 1, QuadCount: 10},
		},
		End: arena.Snapshot{
			{Depth: 0, Slot: 0, QuadCount: 8},
			{Depth: 0, Slot: 1, QuadCount: 10},
			{Depth: 2, Slot: 0, QuadCount: 4},
		},
	}

	if start, end := r.Delta(0, 0); start != 5 || end != 8 {
		t.Errorf("Delta(0, 0) = %d, %d, want 5, 8", start, end)
	}
	if start, end := r.Delta(0, 1); start != 10 || end != 10 {
		t.Errorf("Delta(0, 1) = %d, %d, want 10, 10", start, end)
	}
	// Depth 2 did not exist at start; its start count is zero.
	if start, end := r.Delta(2, 0); start != 0 || end != 4 {
		t.Errorf("Delta(2, 0) = %d, %d, want 0, 4", start, end)
	}

	if got := r.QuadCount(); got != 7 {
		t.Errorf("QuadCount = %d, want 7", got)
	}
	if r.Empty() {
		t.Error("range with quads reported empty")
	}
	if !(QuadRange{}).Empty() {
		t.Error("zero range not empty")
	}
}

func TestSectionOutcome_String(t *testing.T) {
	if got := OutcomeExecuted.String(); got != "executed" {
		t.Errorf("OutcomeExecuted = %q", got)
	}
	if got := OutcomeSkipped.String(); got != "skipped" {
		t.Errorf("OutcomeSkipped = %q", got)
	}
}

func TestRenderPlan_Counters(t *testing.T) {
	rng := func(n int) QuadRange {
		return QuadRange{End: arena.Snapshot{{Depth: 0, Slot: 0, QuadCount: n}}}
	}
	plan := &RenderPlan{
		Sections: []RenderSection{
			{PaneID: -1, Outcome: OutcomeExecuted, Range: rng(2)},
			{PaneID: 1, Outcome: OutcomeExecuted, Range: rng(3)},
			{PaneID: 2, Outcome: OutcomeSkipped, Range: rng(4)},
			{PaneID: -1, Outcome: OutcomeExecuted, Range: rng(1)},
		},
	}
	if got := plan.PaneSectionCount(); got != 2 {
		t.Errorf("PaneSectionCount = %d, want 2", got)
	}
	if got := plan.SkippedPaneSectionCount(); got != 1 {
		t.Errorf("SkippedPaneSectionCount = %d, want 1", got)
	}
	if got := plan.QuadCount(); got != 10 {
		t.Errorf("QuadCount = %d, want 10", got)
	}
}
