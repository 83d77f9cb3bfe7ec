package tile

import (
	"testing"
	"time"

	"paneloom/internal/geom"
	"paneloom/internal/handle/fake"
)

func TestNewTileRestsAtTarget(t *testing.T) {
	w := fake.NewWindow(1, 400, 300)
	target := geom.Rect{X: 10, Y: 20, W: 400, H: 300}
	tl := New(w, target, 2)
	if tl.RenderRect() != target {
		t.Fatalf("expected a freshly created tile to render at its target, got %v", tl.RenderRect())
	}
}

func TestSetTargetSnapsWithoutAnimation(t *testing.T) {
	w := fake.NewWindow(1, 400, 300)
	tl := New(w, geom.Rect{X: 0, Y: 0, W: 400, H: 300}, 0)
	tl.AnimateMoveFrom(geom.Rect{X: -400, Y: 0, W: 400, H: 300})
	tl.SetTarget(geom.Rect{X: 100, Y: 0, W: 400, H: 300}, false)
	if tl.RenderRect().X != 100 {
		t.Fatalf("expected snapped tile to render exactly at the new target, got %v", tl.RenderRect().X)
	}
}

func TestSetTargetAnimatedPreservesScreenPosition(t *testing.T) {
	w := fake.NewWindow(1, 400, 300)
	tl := New(w, geom.Rect{X: 0, Y: 0, W: 400, H: 300}, 0)
	before := tl.RenderRect()
	tl.SetTarget(geom.Rect{X: 500, Y: 0, W: 400, H: 300}, true)
	after := tl.RenderRect()
	if after.X != before.X {
		t.Fatalf("expected render position to stay put at the instant of an animated retarget, got %v want %v", after.X, before.X)
	}
}

func TestAdvanceSettlesEventually(t *testing.T) {
	w := fake.NewWindow(1, 400, 300)
	tl := New(w, geom.Rect{X: 0, Y: 0, W: 400, H: 300}, 0)
	tl.AnimateMoveFrom(geom.Rect{X: -400, Y: 0, W: 400, H: 300})
	moving := true
	for i := 0; i < 300 && moving; i++ {
		moving = tl.Advance(16 * time.Millisecond)
	}
	if moving {
		t.Fatalf("expected move-in animation to settle within 300 steps")
	}
	if tl.RenderRect().X != 0 {
		t.Fatalf("expected settled tile to render at its target X, got %v", tl.RenderRect().X)
	}
}

func TestEffectiveSizeIncludesBorder(t *testing.T) {
	w := fake.NewWindow(1, 400, 300)
	tl := New(w, geom.Rect{}, 5)
	sz := tl.EffectiveSize()
	if sz.W != 410 || sz.H != 310 {
		t.Fatalf("expected border to inflate effective size by 2*border, got %+v", sz)
	}
	tl.BorderOff = true
	sz = tl.EffectiveSize()
	if sz.W != 400 || sz.H != 300 {
		t.Fatalf("expected BorderOff to exclude the border, got %+v", sz)
	}
}

func TestBeginCloseSnapshotsRenderRect(t *testing.T) {
	w := fake.NewWindow(1, 400, 300)
	tl := New(w, geom.Rect{X: 10, Y: 10, W: 400, H: 300}, 0)
	blocker := tl.BeginClose()
	if tl.CloseSnapshot == nil {
		t.Fatalf("expected a close snapshot to be recorded")
	}
	if tl.CloseSnapshot.Rect != tl.RenderRect() {
		t.Fatalf("expected snapshot to match the tile's render rect at close time")
	}
	if !blocker.IsReady() {
		t.Fatalf("expected a fresh blocker with no pending holds to be ready")
	}
}
