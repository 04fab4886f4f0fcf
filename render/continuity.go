package render

import (
	"github.com/gogpu/termdraw"
	"github.com/gogpu/termdraw/arena"
	"github.com/gogpu/termdraw/frame"
)

// StoredBuffer is one buffer instance a recorded section's quads live in,
// with the quad count that was valid when recorded.
type StoredBuffer struct {
	Ref        arena.BufferRef
	ValidQuads int
}

// StoredSection is one section's continuity record: its fingerprint and
// cache key, its self-describing quad range, and the buffer instances that
// physically hold those quads.
type StoredSection struct {
	PaneID      int
	Fingerprint uint64
	Key         frame.CacheKey
	Range       QuadRange
	Buffers     map[[2]int]StoredBuffer
}

// ContinuityStore retains, across frames, the GPU buffers and per-section
// quad ranges of the previous frame. It is fully replaced every frame; a
// section whose content is unchanged replays its stored range at draw time
// instead of re-executing.
//
// The store holds references, not ownership: the arena owns every buffer,
// and RefValid detects instances that have since been rewritten or
// destroyed.
type ContinuityStore struct {
	sections []StoredSection
}

// NewContinuityStore creates an empty store.
func NewContinuityStore() *ContinuityStore {
	return &ContinuityStore{}
}

// SectionForPane returns the previous frame's record for a pane.
func (s *ContinuityStore) SectionForPane(paneID int) (StoredSection, bool) {
	for i := range s.sections {
		if s.sections[i].PaneID == paneID {
			return s.sections[i], true
		}
	}
	return StoredSection{}, false
}

// CanReplay reports whether every (depth, slot) the stored section's range
// touches is still backed by resident, unrewritten buffer data covering the
// range's end count. A false result silently degrades the section to full
// re-execution; it is never an error.
func (s *ContinuityStore) CanReplay(a *arena.Arena, sec StoredSection) bool {
	if sec.Range.Empty() {
		// An empty section replays trivially.
		return true
	}
	for _, e := range sec.Range.End {
		start := sec.Range.Start.Count(e.Depth, e.Slot)
		if e.QuadCount == start {
			continue
		}
		sb, ok := sec.Buffers[[2]int{e.Depth, e.Slot}]
		if !ok {
			return false
		}
		if !a.RefValid(sb.Ref) {
			termdraw.Logger().Warn("continuity: stale buffer, re-executing section",
				"pane", sec.PaneID, "depth", e.Depth, "slot", e.Slot)
			return false
		}
		if e.QuadCount > sb.ValidQuads {
			return false
		}
	}
	return true
}

// Record replaces the store's contents with this frame's sections. Freshly
// executed sections capture the arena's active buffer instances for every
// (depth, slot) they wrote; skipped sections carry their previous records
// forward unchanged, since their quads still live in the older instances.
//
// Must be called after the frame's draw pass and before the arena rotates
// its slots.
func (s *ContinuityStore) Record(a *arena.Arena, plan *RenderPlan) {
	sections := make([]StoredSection, 0, len(plan.Sections))
	for i := range plan.Sections {
		sec := &plan.Sections[i]
		stored := StoredSection{
			PaneID:      sec.PaneID,
			Fingerprint: sec.Fingerprint,
			Key:         sec.Key,
			Range:       sec.Range,
		}
		if sec.Outcome == OutcomeSkipped && sec.replay != nil {
			stored.Buffers = sec.replay.Buffers
		} else {
			stored.Buffers = make(map[[2]int]StoredBuffer)
			for _, e := range sec.Range.End {
				start := sec.Range.Start.Count(e.Depth, e.Slot)
				if e.QuadCount == start {
					continue
				}
				ref, ok := a.ActiveRef(e.Depth, e.Slot)
				if !ok {
					continue
				}
				stored.Buffers[[2]int{e.Depth, e.Slot}] = StoredBuffer{
					Ref:        ref,
					ValidQuads: e.QuadCount,
				}
			}
		}
		sections = append(sections, stored)
	}
	s.sections = sections
}

// Invalidate drops everything, forcing full execution on the next frame.
// Called after arena growth destroys buffers the store referenced.
func (s *ContinuityStore) Invalidate() {
	s.sections = nil
}

// SectionCount returns the number of recorded sections.
func (s *ContinuityStore) SectionCount() int {
	return len(s.sections)
}
