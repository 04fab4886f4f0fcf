package render

import (
	"fmt"

	"github.com/gogpu/termdraw/arena"
	"github.com/gogpu/termdraw/gpu"
)

// DrawPlan issues the plan's draw calls into the render pass.
//
// Draws are ordered by increasing layer depth, then slot, then section
// order, so painter's-algorithm compositing is deterministic regardless of
// which sections were skipped. Each section draws from the current frame's
// buffer when freshly executed, or from its stored prior-frame buffer when
// skipped, always bounded by the section's scissor. A section with no quads
// in a (depth, slot) simply contributes nothing there.
func DrawPlan(pass gpu.RenderPass, plan *RenderPlan, a *arena.Arena) error {
	for _, depth := range a.Depths() {
		for slot := 0; slot < arena.SlotsPerLayer; slot++ {
			if err := drawLayerSlot(pass, plan, a, depth, slot); err != nil {
				return err
			}
		}
	}
	return nil
}

func drawLayerSlot(pass gpu.RenderPass, plan *RenderPlan, a *arena.Arena, depth, slot int) error {
	layer, err := a.LayerForDepth(depth)
	if err != nil {
		return err
	}
	ib := layer.IndexBuffer()

	for i := range plan.Sections {
		sec := &plan.Sections[i]
		start, end := sec.Range.Delta(depth, slot)
		if end <= start {
			continue
		}
		if sec.Scissor != nil && sec.Scissor.Empty() {
			continue
		}

		var vb gpu.VertexBuffer
		if sec.Outcome == OutcomeSkipped {
			sb, ok := sec.replay.Buffers[[2]int{depth, slot}]
			if !ok {
				return fmt.Errorf("render: skipped section %d missing stored buffer for depth %d slot %d", i, depth, slot)
			}
			vb = sb.Ref.Buffer
		} else {
			ref, ok := a.ActiveRef(depth, slot)
			if !ok {
				return fmt.Errorf("render: section %d references unknown layer depth %d", i, depth)
			}
			vb = ref.Buffer
		}

		if sec.Scissor != nil {
			pass.SetScissor(sec.Scissor.X, sec.Scissor.Y, sec.Scissor.Width, sec.Scissor.Height)
		} else {
			pass.ClearScissor()
		}
		if err := pass.BindQuadBuffers(vb, ib); err != nil {
			return fmt.Errorf("render: bind depth %d slot %d: %w", depth, slot, err)
		}
		if err := pass.DrawQuads(start, end-start); err != nil {
			return fmt.Errorf("render: draw depth %d slot %d section %d: %w", depth, slot, i, err)
		}
	}
	return nil
}
