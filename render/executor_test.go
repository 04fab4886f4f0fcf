package render

import (
	"testing"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/arena"
	"github.com/gogpu/termdraw/command"
	"github.com/gogpu/termdraw/gpu"
)

func newTestExecutor(t *testing.T) (*executor, *arena.Arena) {
	t.Helper()
	dev := gpu.NewMemDevice()
	a, err := arena.New(dev)
	if err != nil {
		t.Fatalf("arena.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return newExecutor(a, nil, 100, 100), a
}

func TestExecutor_FillAndDrawCounts(t *testing.T) {
	exec, a := newTestExecutor(t)

	hist, err := exec.run([]command.Command{
		command.FillRect{Layer: 1, Rect: termdraw.XYWH(0, 0, 10, 10), Color: termdraw.RGB(1, 0, 0)},
		command.FillRect{Layer: 1, Rect: termdraw.XYWH(20, 0, 10, 10), Color: termdraw.RGB(0, 1, 0)},
		command.DrawQuad{
			Layer:   1,
			Rect:    termdraw.XYWH(0, 20, 8, 16),
			Texture: termdraw.TextureRect{Right: 1, Bottom: 1},
			FG:      termdraw.RGB(1, 1, 1),
			Mode:    command.ModeGlyph,
		},
		command.Nop{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := exec.close(); err != nil {
		t.Fatal(err)
	}

	stats := hist.Stats()
	if stats.QuadsEmitted != 3 || stats.FillCount != 2 || stats.DrawCount != 1 {
		t.Errorf("stats = %+v, want 3 quads, 2 fills, 1 draw", stats)
	}
	if stats.Overdraw != 0 {
		t.Errorf("Overdraw = %d for distinct rects", stats.Overdraw)
	}
	if got := a.SnapshotCounts().Count(0, 1); got != 3 {
		t.Errorf("arena count = %d, want 3", got)
	}
}

func TestExecutor_CenteredPositions(t *testing.T) {
	exec, a := newTestExecutor(t)

	_, err := exec.run([]command.Command{
		command.FillRect{Rect: termdraw.XYWH(0, 0, 10, 10), Color: termdraw.RGB(1, 1, 1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := exec.close(); err != nil {
		t.Fatal(err)
	}

	ref, ok := a.ActiveRef(0, 0)
	if !ok {
		t.Fatal("no active buffer for depth 0 slot 0")
	}
	m, err := ref.Buffer.Map()
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	// The viewport center is the origin, so (0, 0)..(10, 10) in a 100x100
	// viewport becomes (-50, -50)..(-40, -40).
	verts := m.Quad(0)
	if verts[0].Position != ([2]float32{-50, -50}) {
		t.Errorf("top-left = %v, want (-50, -50)", verts[0].Position)
	}
	if verts[3].Position != ([2]float32{-40, -40}) {
		t.Errorf("bottom-right = %v, want (-40, -40)", verts[3].Position)
	}
	if verts[0].Mode != float32(command.ModeSolidColor) {
		t.Errorf("fill mode = %v", verts[0].Mode)
	}
}

func TestExecutor_OverdrawDetection(t *testing.T) {
	exec, _ := newTestExecutor(t)

	r := termdraw.XYWH(5, 5, 20, 20)
	hist, err := exec.run([]command.Command{
		command.FillRect{Rect: r, Color: termdraw.RGB(0, 0, 0)},
		command.FillRect{Rect: r, Color: termdraw.RGB(1, 1, 1)},
		command.FillRect{Rect: r, Color: termdraw.RGB(0.5, 0.5, 0.5)},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer exec.close()

	if got := hist.Stats().Overdraw; got != 2 {
		t.Errorf("Overdraw = %d, want 2 (two repeats of the same position)", got)
	}
}

func TestExecutor_Clip(t *testing.T) {
	exec, _ := newTestExecutor(t)

	clip := termdraw.XYWH(0, 0, 50, 50)
	hist, err := exec.run([]command.Command{
		command.SetClip{Rect: &clip},
		// Fully outside the clip: dropped.
		command.FillRect{Rect: termdraw.XYWH(60, 60, 10, 10), Color: termdraw.RGB(1, 0, 0)},
		// Straddles the clip edge: emitted clipped.
		command.FillRect{Rect: termdraw.XYWH(40, 40, 20, 20), Color: termdraw.RGB(0, 1, 0)},
		command.SetClip{Rect: nil},
		command.FillRect{Rect: termdraw.XYWH(60, 60, 10, 10), Color: termdraw.RGB(0, 0, 1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer exec.close()

	if got := hist.Stats().FillCount; got != 2 {
		t.Errorf("FillCount = %d, want 2 (clipped-out fill dropped)", got)
	}
}

func TestExecutor_ClipResetsBetweenRuns(t *testing.T) {
	exec, _ := newTestExecutor(t)

	clip := termdraw.XYWH(0, 0, 10, 10)
	if _, err := exec.run([]command.Command{command.SetClip{Rect: &clip}}); err != nil {
		t.Fatal(err)
	}

	// The next section must not inherit the previous section's clip.
	hist, err := exec.run([]command.Command{
		command.FillRect{Rect: termdraw.XYWH(50, 50, 10, 10), Color: termdraw.RGB(1, 1, 1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer exec.close()
	if got := hist.Stats().FillCount; got != 1 {
		t.Errorf("FillCount = %d, clip leaked across runs", got)
	}
}

func TestExecutor_ControlCommands(t *testing.T) {
	exec, _ := newTestExecutor(t)

	_, err := exec.run([]command.Command{
		command.Clear{Color: termdraw.RGB(0.1, 0.2, 0.3)},
		command.BeginPostProcess{},
		command.Batch{Commands: []command.Command{
			command.FillRect{Rect: termdraw.XYWH(0, 0, 5, 5), Color: termdraw.RGB(1, 1, 1)},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer exec.close()

	if exec.clearColor == nil || *exec.clearColor != termdraw.RGB(0.1, 0.2, 0.3) {
		t.Errorf("clearColor = %v", exec.clearColor)
	}
	if !exec.postProcess {
		t.Error("postProcess not set")
	}
}

func TestExecutor_AltColor(t *testing.T) {
	exec, a := newTestExecutor(t)

	_, err := exec.run([]command.Command{
		command.DrawQuad{
			Rect:    termdraw.XYWH(0, 0, 8, 16),
			Texture: termdraw.TextureRect{Right: 1, Bottom: 1},
			FG:      termdraw.RGB(1, 0, 0),
			Alt:     &command.AltColor{Color: termdraw.RGB(0, 0, 1), Mix: 0.25},
			Mode:    command.ModeGlyph,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := exec.close(); err != nil {
		t.Fatal(err)
	}

	ref, _ := a.ActiveRef(0, 0)
	m, err := ref.Buffer.Map()
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	v := m.Quad(0)[0]
	if v.Alt != ([4]float32{0, 0, 1, 1}) || v.Mix != 0.25 {
		t.Errorf("alt/mix = %v/%v", v.Alt, v.Mix)
	}
	if v.Mode != float32(command.ModeGlyph) {
		t.Errorf("mode = %v", v.Mode)
	}
}
