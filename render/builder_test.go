package render

import (
	"testing"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/arena"
	"github.com/gogpu/termdraw/command"
	"github.com/gogpu/termdraw/frame"
	"github.com/gogpu/termdraw/gpu"
)

type builderFixture struct {
	arena   *arena.Arena
	store   *ContinuityStore
	builder *Builder
}

func newBuilderFixture(t *testing.T) *builderFixture {
	t.Helper()
	dev := gpu.NewMemDevice()
	a, err := arena.New(dev)
	if err != nil {
		t.Fatalf("arena.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	store := NewContinuityStore()
	return &builderFixture{
		arena:   a,
		store:   store,
		builder: NewBuilder(a, nil, store),
	}
}

// cycle builds one frame and runs the record-then-rotate steps the renderer
// performs after drawing.
func (fx *builderFixture) cycle(t *testing.T, f *frame.Frame) *RenderPlan {
	t.Helper()
	plan, err := fx.builder.Build(f, 100, 100)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fx.store.Record(fx.arena, plan)
	fx.arena.AdvanceRotation()
	return plan
}

func TestBuilder_SectionOrder(t *testing.T) {
	fx := newBuilderFixture(t)

	f := &frame.Frame{
		Background: paneFill(0, termdraw.XYWH(0, 0, 100, 100)),
		Panes: []frame.PaneEntry{
			{PaneID: 1, Bounds: termdraw.XYWH(0, 0, 50, 100), Fingerprint: 11,
				Commands: paneFill(1, termdraw.XYWH(0, 0, 50, 100))},
			{PaneID: 2, Bounds: termdraw.XYWH(50, 0, 50, 100), Fingerprint: 22,
				Commands: paneFill(1, termdraw.XYWH(50, 0, 50, 100))},
		},
		Chrome: frame.Chrome{
			TabBar: paneFill(2, termdraw.XYWH(0, 0, 100, 20)),
		},
	}

	plan, err := fx.builder.Build(f, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Sections) != 4 {
		t.Fatalf("sections = %d, want 4", len(plan.Sections))
	}

	wantIDs := []int{-1, 1, 2, -1}
	for i, want := range wantIDs {
		if got := plan.Sections[i].PaneID; got != want {
			t.Errorf("section %d PaneID = %d, want %d", i, got, want)
		}
	}
	if plan.Sections[0].Scissor != nil {
		t.Error("background section has a scissor")
	}
	if plan.Sections[0].Fingerprint != 0 {
		t.Error("background section has a fingerprint")
	}
	if sc := plan.Sections[1].Scissor; sc == nil || *sc != (ScissorRect{0, 0, 50, 100}) {
		t.Errorf("pane 1 scissor = %+v", sc)
	}
	for i := range plan.Sections {
		sec := &plan.Sections[i]
		if sec.Outcome != OutcomeExecuted {
			t.Errorf("section %d not executed on first frame", i)
		}
		if sec.Stats == nil {
			t.Errorf("section %d missing stats", i)
		}
	}
	if plan.QuadCount() != 4 {
		t.Errorf("QuadCount = %d, want 4", plan.QuadCount())
	}
}

func TestBuilder_SkipsUnchangedPane(t *testing.T) {
	fx := newBuilderFixture(t)
	f := onePaneFrame(1, 77, paneFill(1, termdraw.XYWH(10, 10, 30, 30)))

	first := fx.cycle(t, f)
	if first.Sections[1].Outcome != OutcomeExecuted {
		t.Fatal("pane not executed on first frame")
	}

	second := fx.cycle(t, f)
	sec := &second.Sections[1]
	if sec.Outcome != OutcomeSkipped {
		t.Fatal("unchanged pane not skipped on second frame")
	}
	if !sec.Skippable {
		t.Error("skipped section not marked skippable")
	}
	if sec.Stats != nil {
		t.Error("skipped section carries execution stats")
	}
	// A skipped section reuses the recorded range verbatim.
	if got, want := sec.Range.QuadCount(), first.Sections[1].Range.QuadCount(); got != want {
		t.Errorf("skipped range covers %d quads, recorded %d", got, want)
	}
}

func TestBuilder_ExecutesOnFingerprintChange(t *testing.T) {
	fx := newBuilderFixture(t)

	fx.cycle(t, onePaneFrame(1, 77, paneFill(1, termdraw.XYWH(10, 10, 30, 30))))
	plan := fx.cycle(t, onePaneFrame(1, 78, paneFill(1, termdraw.XYWH(10, 10, 30, 40))))
	if plan.Sections[1].Outcome != OutcomeExecuted {
		t.Error("changed pane was skipped")
	}
}

func TestBuilder_BoundsChangeReexecutes(t *testing.T) {
	fx := newBuilderFixture(t)

	// Content in window coordinates, bounds acting as a reveal region: the
	// described commands and fingerprint are identical across frames.
	cmds := paneFill(1, termdraw.XYWH(0, 0, 100, 100))

	first := fx.cycle(t, boundedPaneFrame(1, 66, termdraw.XYWH(0, 0, 50, 100), cmds))
	if first.Sections[1].Outcome != OutcomeExecuted {
		t.Fatal("pane not executed on first frame")
	}

	// The stored quads were clipped to the old 50-wide bounds; replaying
	// them under the wider scissor would leave the revealed half empty.
	plan, err := fx.builder.Build(boundedPaneFrame(1, 66, termdraw.XYWH(0, 0, 100, 100), cmds), 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	sec := &plan.Sections[1]
	if sec.Outcome != OutcomeExecuted {
		t.Fatal("pane skipped after its bounds grew")
	}

	ref, _ := fx.arena.ActiveRef(0, 1)
	m, err := ref.Buffer.Map()
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	start, _ := sec.Range.Delta(0, 1)
	verts := m.Quad(start)
	// The re-executed fill covers the full 100x100 bounds; centered
	// coordinates put its corners at (-50, -50) and (50, 50).
	if verts[0].Position != ([2]float32{-50, -50}) {
		t.Errorf("top-left = %v, want (-50, -50)", verts[0].Position)
	}
	if verts[3].Position != ([2]float32{50, 50}) {
		t.Errorf("bottom-right = %v, want (50, 50)", verts[3].Position)
	}
}

func TestBuilder_ZeroFingerprintNeverSkips(t *testing.T) {
	fx := newBuilderFixture(t)
	f := onePaneFrame(1, 0, paneFill(1, termdraw.XYWH(10, 10, 30, 30)))

	fx.cycle(t, f)
	plan := fx.cycle(t, f)
	if plan.Sections[1].Outcome != OutcomeExecuted {
		t.Error("pane with zero fingerprint was skipped")
	}
}

func TestBuilder_RebuildsWhenLateSectionInvalidatesSkip(t *testing.T) {
	fx := newBuilderFixture(t)
	paneCmds := paneFill(1, termdraw.XYWH(0, 0, 10, 10))

	// Frame 1 writes the pane into slot 1 of the active buffer instance.
	fx.cycle(t, onePaneFrame(1, 5, paneCmds))

	// Frames 2 and 3 skip; the rotation walks the sibling instances.
	for i := 0; i < arena.BufferRotation-1; i++ {
		plan := fx.cycle(t, onePaneFrame(1, 5, paneCmds))
		if plan.Sections[1].Outcome != OutcomeSkipped {
			t.Fatalf("frame %d pane not skipped", i+2)
		}
	}

	// Frame 4 wraps back to the instance holding the pane's quads, and the
	// chrome now writes slot 1 too. The skip decision taken before chrome
	// ran is stale; the builder must detect it and re-execute the pane.
	f := onePaneFrame(1, 5, paneCmds)
	f.Chrome.Borders = paneFill(1, termdraw.XYWH(0, 90, 100, 10))
	plan := fx.cycle(t, f)
	if plan.Sections[1].Outcome != OutcomeExecuted {
		t.Error("pane stayed skipped although its stored instance was rewritten")
	}
}

func TestBuilder_ClipsPaneToBounds(t *testing.T) {
	fx := newBuilderFixture(t)

	f := onePaneFrame(1, 3, paneFill(0, termdraw.XYWH(40, 40, 20, 20)))
	f.Panes[0].Bounds = termdraw.XYWH(0, 0, 50, 50)

	plan, err := fx.builder.Build(f, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Sections[1].Stats.FillCount != 1 {
		t.Fatalf("FillCount = %d", plan.Sections[1].Stats.FillCount)
	}

	ref, _ := fx.arena.ActiveRef(0, 0)
	m, err := ref.Buffer.Map()
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	verts := m.Quad(0)
	// (40, 40, 20, 20) clipped to the 50x50 pane is (40, 40, 10, 10);
	// centered coordinates put its corners at (-10, -10) and (0, 0).
	if verts[0].Position != ([2]float32{-10, -10}) {
		t.Errorf("top-left = %v, want (-10, -10)", verts[0].Position)
	}
	if verts[3].Position != ([2]float32{0, 0}) {
		t.Errorf("bottom-right = %v, want (0, 0)", verts[3].Position)
	}
}

func TestBuilder_ControlState(t *testing.T) {
	fx := newBuilderFixture(t)

	f := &frame.Frame{
		Background: []command.Command{
			command.Clear{Color: termdraw.RGB(0, 0.5, 1)},
			command.BeginPostProcess{},
		},
	}
	plan, err := fx.builder.Build(f, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if plan.ClearColor == nil || *plan.ClearColor != termdraw.RGB(0, 0.5, 1) {
		t.Errorf("ClearColor = %v", plan.ClearColor)
	}
	if !plan.PostProcess {
		t.Error("PostProcess not propagated from command")
	}

	plan, err = fx.builder.Build(&frame.Frame{PostProcess: true}, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !plan.PostProcess {
		t.Error("PostProcess not propagated from frame flag")
	}
}
