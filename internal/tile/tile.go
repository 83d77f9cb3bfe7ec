// Package tile implements the smallest layout unit: one window plus its
// border and animation state.
package tile

import (
	"time"

	"paneloom/internal/anim"
	"paneloom/internal/geom"
	"paneloom/internal/handle"
)

// UnmapSnapshot freezes a tile's last rendered geometry so a close
// animation can keep drawing it after the window handle has gone away.
// The transaction blocker (if any) gates teardown until the drift/fade
// finishes; the engine reads it only in the per-frame render query
// (Layout.RenderElements).
type UnmapSnapshot struct {
	Rect    geom.Rect
	Blocker *handle.TransactionBlocker
}

// ResizeEdgeData mirrors handle.ResizeEdge plus the pointer-anchored
// pre-resize geometry needed to keep the dragged edge under the pointer.
type ResizeEdgeData struct {
	Edges    handle.ResizeEdge
	OrigRect geom.Rect
}

// Tile wraps one window handle with its render-time state.
type Tile struct {
	Window handle.Window

	// Target is the tile's current slot geometry, as assigned by its
	// owning column/workspace.
	Target geom.Rect

	// RenderOffsetX/Y is an additional render-time offset layered on top
	// of Target — used for open/close/move animations and the
	// interactive-move rubberband, so the "real" slot assignment and the
	// "currently displayed at" position can diverge during a transition.
	renderOffsetX *anim.Spring
	renderOffsetY *anim.Spring

	BorderWidth float64
	BorderOff   bool

	// InteractiveMoveOffset is added on top of RenderOffset while this
	// tile is the subject of an interactive move in the Starting phase;
	// it is a plain value, not a spring, because the
	// rubber-band function in that phase already computes the eased
	// value every update.
	InteractiveMoveOffset geom.Point

	ResizeEdge *ResizeEdgeData

	CloseSnapshot *UnmapSnapshot
}

// New creates a tile at rest at target with no pending animation.
func New(w handle.Window, target geom.Rect, borderWidth float64) *Tile {
	return &Tile{
		Window:        w,
		Target:        target,
		renderOffsetX: anim.NewSpring(0, 0),
		renderOffsetY: anim.NewSpring(0, 0),
		BorderWidth:   borderWidth,
	}
}

// RenderOffset returns the current animated render offset.
func (t *Tile) RenderOffset() geom.Point {
	return geom.Point{X: t.renderOffsetX.Pos, Y: t.renderOffsetY.Pos}
}

// RenderRect is Target shifted by RenderOffset and the interactive-move
// offset — the position the tile should actually be drawn at this frame.
func (t *Tile) RenderRect() geom.Rect {
	off := t.RenderOffset()
	r := t.Target
	r.X += off.X + t.InteractiveMoveOffset.X
	r.Y += off.Y + t.InteractiveMoveOffset.Y
	return r
}

// AnimateMoveFrom starts a move animation: the tile is logically already
// at Target, but visually eases in from `from`.
func (t *Tile) AnimateMoveFrom(from geom.Rect) {
	t.renderOffsetX = anim.NewSpring(from.X-t.Target.X, 0)
	t.renderOffsetY = anim.NewSpring(from.Y-t.Target.Y, 0)
}

// SetTarget updates the slot geometry. If animate is false the tile snaps
// immediately (render offset zeroed); otherwise any existing render
// offset is preserved so motion continues smoothly onto the new target.
func (t *Tile) SetTarget(target geom.Rect, animate bool) {
	if !animate {
		t.Target = target
		t.renderOffsetX = anim.NewSpring(0, 0)
		t.renderOffsetY = anim.NewSpring(0, 0)
		return
	}
	// Preserve the absolute render position across the retarget: the
	// offset needed to keep drawing at the same screen position relative
	// to the new Target.
	prevAbsX := t.Target.X + t.renderOffsetX.Pos
	prevAbsY := t.Target.Y + t.renderOffsetY.Pos
	t.Target = target
	t.renderOffsetX.Pos = prevAbsX - target.X
	t.renderOffsetY.Pos = prevAbsY - target.Y
	t.renderOffsetX.Retarget(0)
	t.renderOffsetY.Retarget(0)
}

// Advance steps the tile's render-offset springs by dt. It returns true
// while an animation is still in flight; once both springs have settled
// their offsets snap exactly onto the target.
func (t *Tile) Advance(dt time.Duration) bool {
	t.renderOffsetX.Step(dt)
	t.renderOffsetY.Step(dt)
	if t.renderOffsetX.Settled() && t.renderOffsetY.Settled() {
		t.renderOffsetX.Pos, t.renderOffsetX.Velocity = t.renderOffsetX.Target, 0
		t.renderOffsetY.Pos, t.renderOffsetY.Velocity = t.renderOffsetY.Target, 0
		return false
	}
	return true
}

// EffectiveSize includes the border when it is enabled,
// "Border widths ... inflates effective tile size".
func (t *Tile) EffectiveSize() geom.Size {
	sz := t.Window.Size()
	if t.BorderOff {
		return sz
	}
	return geom.Size{W: sz.W + 2*t.BorderWidth, H: sz.H + 2*t.BorderWidth}
}

// BeginClose snapshots the tile's current render rect before the window
// is unmapped, registering the returned blocker as the close-animation
// gate.
func (t *Tile) BeginClose() *handle.TransactionBlocker {
	blocker := &handle.TransactionBlocker{}
	t.CloseSnapshot = &UnmapSnapshot{Rect: t.RenderRect(), Blocker: blocker}
	return blocker
}
