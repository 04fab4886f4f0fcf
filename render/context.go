package render

// FrameContext accumulates pane-section outcomes across the renderer's
// lifetime: how many sections were processed, how many replayed prior-frame
// data, and the current and longest consecutive skip streaks. It is purely
// observational and never affects drawing.
type FrameContext struct {
	// TotalQuads sums the quad counts of every advanced section.
	TotalQuads int
	// SectionsProcessed and SectionsSkipped count advanced sections.
	SectionsProcessed int
	SectionsSkipped   int
	// SkipStreak is the current run of consecutive skipped sections;
	// MaxSkipStreak is the longest run seen.
	SkipStreak    int
	MaxSkipStreak int
	// Outcomes is the full per-section outcome history in order.
	Outcomes []SectionOutcome
}

// Advance folds one section's outcome into the context.
func (c *FrameContext) Advance(sec *RenderSection) {
	c.SectionsProcessed++
	c.TotalQuads += sec.Range.QuadCount()
	c.Outcomes = append(c.Outcomes, sec.Outcome)
	if sec.Outcome == OutcomeSkipped {
		c.SectionsSkipped++
		c.SkipStreak++
		if c.SkipStreak > c.MaxSkipStreak {
			c.MaxSkipStreak = c.SkipStreak
		}
	} else {
		c.SkipStreak = 0
	}
}

// SkipRate returns the fraction of advanced sections that were skipped,
// 0.0 to 1.0.
func (c *FrameContext) SkipRate() float64 {
	if c.SectionsProcessed == 0 {
		return 0
	}
	return float64(c.SectionsSkipped) / float64(c.SectionsProcessed)
}
