// Package render implements the incremental frame pipeline: building a
// sectioned render plan from a frame description, executing command lists
// into the layer quad arena, replaying unchanged pane sections from
// prior-frame GPU buffers, and issuing the ordered draw pass.
//
// The entry point is Renderer: DescribeFrame resolves live panes through the
// description cache, Paint builds and draws one frame with overflow
// grow-and-retry, and Stats/Context expose skip-rate observability.
package render
