package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/arena"
	"github.com/gogpu/termdraw/command"
	"github.com/gogpu/termdraw/frame"
	"github.com/gogpu/termdraw/gpu"
)

// errPlanUnstable is returned if skip validation fails to converge, which
// would indicate a bookkeeping bug; every rebuild strictly shrinks the set
// of skip candidates.
var errPlanUnstable = errors.New("render: plan failed to stabilize")

// Builder turns one frame description into a RenderPlan, executing sections
// into the arena or marking them for replay from the continuity store.
type Builder struct {
	arena   *arena.Arena
	sprites gpu.Sprites
	store   *ContinuityStore
}

// NewBuilder creates a plan builder over the given arena and store.
func NewBuilder(a *arena.Arena, sprites gpu.Sprites, store *ContinuityStore) *Builder {
	return &Builder{arena: a, sprites: sprites, store: store}
}

// Build constructs the frame's plan: a background section, one section per
// visible pane, and a chrome section, in that order. Quad-count snapshots
// bracket every section so each range records exactly what it wrote.
//
// A pane section is skipped when its cache key matches the previous frame's
// record for that pane and the store still holds valid buffer data for the
// recorded range. The key covers layout, focus, and generation state on top
// of the content fingerprint: stored quads are statically clipped to the
// pane's bounds at execution time, so a bounds change must re-execute even
// when the described content is identical. Background and chrome are always
// executed fresh: they are cheap, and their full-viewport ranges anchor the
// plan.
//
// Skip decisions are re-validated after execution: a fresh section may have
// rewritten a rotated buffer instance that an earlier skip decision relied
// on. When that happens the whole pass is rebuilt with the affected panes
// forced to execute, so a plan is only returned when every skipped section's
// stored data is genuinely resident.
func (b *Builder) Build(f *frame.Frame, width, height uint32) (*RenderPlan, error) {
	forceExecute := make(map[int]bool)
	for attempt := 0; attempt <= len(f.Panes); attempt++ {
		b.arena.ClearQuadAllocation()
		plan, err := b.buildOnce(f, width, height, forceExecute)
		if err != nil {
			return nil, err
		}
		stable := true
		for i := range plan.Sections {
			sec := &plan.Sections[i]
			if sec.Outcome != OutcomeSkipped {
				continue
			}
			if !b.store.CanReplay(b.arena, *sec.replay) {
				forceExecute[sec.PaneID] = true
				stable = false
			}
		}
		if stable {
			return plan, nil
		}
		termdraw.Logger().Debug("render: rebuilding plan after skip invalidation",
			"forced", len(forceExecute))
	}
	return nil, errPlanUnstable
}

func (b *Builder) buildOnce(f *frame.Frame, width, height uint32, forceExecute map[int]bool) (*RenderPlan, error) {
	plan := &RenderPlan{Width: width, Height: height}
	exec := newExecutor(b.arena, b.sprites, width, height)

	err := b.buildSections(plan, exec, f, forceExecute)
	if cerr := exec.close(); cerr != nil && err == nil {
		err = fmt.Errorf("render: flush quads: %w", cerr)
	}
	if err != nil {
		return nil, err
	}
	plan.ClearColor = exec.clearColor
	plan.PostProcess = exec.postProcess || f.PostProcess
	return plan, nil
}

func (b *Builder) buildSections(plan *RenderPlan, exec *executor, f *frame.Frame, forceExecute map[int]bool) error {
	if err := b.executeSection(plan, exec, f.Background, nil, 0, -1); err != nil {
		return fmt.Errorf("render: background: %w", err)
	}

	for i := range f.Panes {
		pe := &f.Panes[i]
		if err := b.paneSection(plan, exec, pe, forceExecute[pe.PaneID]); err != nil {
			return fmt.Errorf("render: pane %d: %w", pe.PaneID, err)
		}
	}

	if err := b.executeSection(plan, exec, f.Chrome.Commands(), nil, 0, -1); err != nil {
		return fmt.Errorf("render: chrome: %w", err)
	}
	return nil
}

func (b *Builder) paneSection(plan *RenderPlan, exec *executor, pe *frame.PaneEntry, force bool) error {
	scissor := ScissorFromBounds(pe.Bounds, plan.Width, plan.Height)

	if !force {
		if prev, ok := b.store.SectionForPane(pe.PaneID); ok &&
			prev.Fingerprint != 0 &&
			prev.Fingerprint == pe.Fingerprint &&
			prev.Key == pe.Key &&
			b.store.CanReplay(b.arena, prev) {
			replay := prev
			plan.Sections = append(plan.Sections, RenderSection{
				Scissor:     &scissor,
				Fingerprint: pe.Fingerprint,
				Key:         pe.Key,
				PaneID:      pe.PaneID,
				Range:       prev.Range,
				Skippable:   true,
				Outcome:     OutcomeSkipped,
				replay:      &replay,
			})
			return nil
		}
	}

	cmds := pe.Commands
	if !pe.Bounds.Empty() {
		cmds = command.ClipList(cmds, pe.Bounds)
	}
	if err := b.executeSection(plan, exec, cmds, &scissor, pe.Fingerprint, pe.PaneID); err != nil {
		return err
	}
	plan.Sections[len(plan.Sections)-1].Key = pe.Key
	return nil
}

// executeSection runs cmds fresh, bracketing the execution with snapshots.
func (b *Builder) executeSection(plan *RenderPlan, exec *executor, cmds []command.Command, scissor *ScissorRect, fingerprint uint64, paneID int) error {
	start := b.arena.SnapshotCounts()
	hist, err := exec.run(cmds)
	if err != nil {
		return err
	}
	end := b.arena.SnapshotCounts()
	stats := hist.Stats()
	plan.Sections = append(plan.Sections, RenderSection{
		Scissor:     scissor,
		Fingerprint: fingerprint,
		PaneID:      paneID,
		Range:       QuadRange{Start: start, End: end},
		Skippable:   false,
		Outcome:     OutcomeExecuted,
		Stats:       &stats,
	})
	if stats.Overdraw > 0 {
		termdraw.Logger().Debug("render: overdraw in section",
			"pane", paneID, "overdraw", stats.Overdraw,
			"quads", stats.QuadsEmitted)
	}
	return nil
}
