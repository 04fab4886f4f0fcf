package render

import (
	"testing"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/arena"
	"github.com/gogpu/termdraw/frame"
	"github.com/gogpu/termdraw/gpu"
)

func TestDrawPlan_OrderAndScissors(t *testing.T) {
	fx := newBuilderFixture(t)

	f := &frame.Frame{
		Background: paneFill(0, termdraw.XYWH(0, 0, 100, 100)),
		Panes: []frame.PaneEntry{
			{PaneID: 1, Bounds: termdraw.XYWH(0, 0, 50, 100), Fingerprint: 1,
				Commands: paneFill(1, termdraw.XYWH(0, 0, 50, 100))},
		},
		Chrome: frame.Chrome{TabBar: paneFill(2, termdraw.XYWH(0, 0, 100, 20))},
	}
	plan, err := fx.builder.Build(f, 100, 100)
	if err != nil {
		t.Fatal(err)
	}

	pass := gpu.NewRecordingPass()
	if err := DrawPlan(pass, plan, fx.arena); err != nil {
		t.Fatal(err)
	}

	if got := pass.QuadsDrawn(); got != plan.QuadCount() {
		t.Errorf("QuadsDrawn = %d, plan has %d", got, plan.QuadCount())
	}
	if len(pass.Calls) != 3 {
		t.Fatalf("draw calls = %d, want 3", len(pass.Calls))
	}

	// Slot order: background (slot 0), pane (slot 1), chrome (slot 2).
	if pass.Calls[0].Scissor != nil {
		t.Error("background draw has a scissor")
	}
	if sc := pass.Calls[1].Scissor; sc == nil || *sc != ([4]uint32{0, 0, 50, 100}) {
		t.Errorf("pane draw scissor = %v", sc)
	}
	for i, c := range pass.Calls {
		if c.FirstQuad != 0 || c.QuadCount != 1 {
			t.Errorf("call %d range = %d+%d, want 0+1", i, c.FirstQuad, c.QuadCount)
		}
	}
}

func TestDrawPlan_SkippedSectionReadsStoredBuffer(t *testing.T) {
	fx := newBuilderFixture(t)
	f := onePaneFrame(1, 5, paneFill(1, termdraw.XYWH(0, 0, 10, 10)))

	plan := fx.cycle(t, f)
	firstPass := gpu.NewRecordingPass()
	// Replaying the first plan after the fact is fine for locating the
	// buffer the pane was written to.
	if err := DrawPlan(firstPass, plan, fx.arena); err != nil {
		t.Fatal(err)
	}

	second, err := fx.builder.Build(f, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if second.Sections[1].Outcome != OutcomeSkipped {
		t.Fatal("pane not skipped on second frame")
	}
	pass := gpu.NewRecordingPass()
	if err := DrawPlan(pass, second, fx.arena); err != nil {
		t.Fatal(err)
	}
	if len(pass.Calls) != 1 {
		t.Fatalf("draw calls = %d, want 1", len(pass.Calls))
	}

	// The skipped draw must read the rotated-out instance that still holds
	// the quads, not the instance active this frame.
	stored := pass.Calls[0].Buffer
	if ref, ok := fx.arena.ActiveRef(0, 1); ok && ref.Buffer == stored {
		t.Error("skipped draw read the active instance instead of the stored one")
	}
	sec, _ := fx.store.SectionForPane(1)
	if sb := sec.Buffers[[2]int{0, 1}]; sb.Ref.Buffer != stored {
		t.Error("skipped draw did not read the recorded buffer")
	}
}

func TestDrawPlan_SkipsEmptyScissor(t *testing.T) {
	fx := newBuilderFixture(t)

	// A pane scrolled fully off screen gets a zero-area scissor; its quads
	// are not drawn.
	f := onePaneFrame(1, 5, paneFill(1, termdraw.XYWH(0, 0, 10, 10)))
	f.Panes[0].Bounds = termdraw.XYWH(-200, 0, 100, 100)
	f.Panes[0].Commands = paneFill(1, termdraw.XYWH(-200, 0, 10, 10))

	plan, err := fx.builder.Build(f, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	pass := gpu.NewRecordingPass()
	if err := DrawPlan(pass, plan, fx.arena); err != nil {
		t.Fatal(err)
	}
	if len(pass.Calls) != 0 {
		t.Errorf("draws issued under an empty scissor: %+v", pass.Calls)
	}
}

func TestDrawPlan_MissingStoredBuffer(t *testing.T) {
	fx := newBuilderFixture(t)
	if _, err := fx.builder.Build(&frame.Frame{}, 100, 100); err != nil {
		t.Fatal(err)
	}

	plan := &RenderPlan{
		Width: 100, Height: 100,
		Sections: []RenderSection{{
			PaneID:  1,
			Outcome: OutcomeSkipped,
			Range: QuadRange{
				End: arena.Snapshot{{Depth: 0, Slot: 1, QuadCount: 2}},
			},
			replay: &StoredSection{Buffers: map[[2]int]StoredBuffer{}},
		}},
	}
	if err := DrawPlan(gpu.NewRecordingPass(), plan, fx.arena); err == nil {
		t.Error("DrawPlan succeeded with a missing stored buffer")
	}
}
