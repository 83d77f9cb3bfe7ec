package invariant

import (
	"testing"

	"paneloom/internal/config"
	"paneloom/internal/geom"
	"paneloom/internal/handle/fake"
	"paneloom/internal/layout"
	"paneloom/internal/workspace"
)

func freshLayoutWithOutput(name string) (*layout.Layout, *fake.Output) {
	l := layout.New(config.Default(), nil)
	out := fake.NewOutput(name, 1920, 1080, 1)
	l.AddOutput(out)
	return l, out
}

func TestCheckCleanLayoutHasNoViolations(t *testing.T) {
	l, _ := freshLayoutWithOutput("eDP-1")
	if v := Check(l); len(v) != 0 {
		t.Fatalf("expected no violations on a freshly attached output, got %v", v)
	}
}

func TestCheckDetectsForeignOriginalOutputOnSecondary(t *testing.T) {
	l, _ := freshLayoutWithOutput("eDP-1")
	l.AddOutput(fake.NewOutput("HDMI-1", 1920, 1080, 1))
	second := l.Set.Monitors[1]
	second.Workspaces[0].OriginalOutput = "some-other-output"

	v := Check(l)
	found := false
	for _, item := range v {
		if item.Rule == "original_output_ownership" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected original_output_ownership violation, got %v", v)
	}
}

func TestSwitchWorkspaceActiveIsNoop(t *testing.T) {
	l, _ := freshLayoutWithOutput("eDP-1")
	m := l.Set.Monitors[0]
	before := m.ActiveIdx
	m.SwitchWorkspace(before)
	if m.Switch != 0 {
		t.Fatalf("switch_workspace(active_idx) must be a no-op")
	}
	if v := Check(l); len(v) != 0 {
		t.Fatalf("expected no violations after no-op switch, got %v", v)
	}
}

func TestToggleFullscreenTwiceRestoresViewOffset(t *testing.T) {
	l, _ := freshLayoutWithOutput("eDP-1")
	ws := l.Set.Monitors[0].ActiveWorkspace()
	w := fake.NewWindow(1, 400, 300)
	l.AddWindow(ws, w, workspace.InsertPosition{NewColumn: true, Index: 0})
	ws.ViewOffset = 42
	ws.ToggleFullscreen(geom.Size{W: 1920, H: 1080})
	ws.ToggleFullscreen(geom.Size{})
	if ws.ViewOffset != 42 {
		t.Fatalf("expected view-offset restored to 42 after toggling fullscreen twice, got %v", ws.ViewOffset)
	}
}

func TestCheckDetectsMovingTileIdentityCollision(t *testing.T) {
	l, _ := freshLayoutWithOutput("eDP-1")
	ws := l.Set.Monitors[0].ActiveWorkspace()
	w := fake.NewWindow(1, 400, 300)
	tl := l.AddWindow(ws, w, workspace.InsertPosition{NewColumn: true, Index: 0})
	l.InteractiveMoveBegin(ws, "eDP-1", tl, geom.Point{X: 0.5, Y: 0.5})
	l.InteractiveMoveUpdate(geom.Point{X: 300, Y: 0}, geom.Point{X: 300, Y: 0}, "eDP-1", tl)

	// A second window reusing the moving tile's identity: the duplicate
	// is only visible if the moving tile is counted alongside the tree.
	dup := fake.NewWindow(1, 400, 300)
	l.AddWindow(l.Set.Monitors[0].ActiveWorkspace(), dup, workspace.InsertPosition{NewColumn: true, Index: 0})

	found := false
	for _, item := range Check(l) {
		if item.Rule == "unique_window_identity" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unique_window_identity violation between the moving tile and a tree tile")
	}
}

func TestCheckMovingTileRoundedAtFractionalScale(t *testing.T) {
	l := layout.New(config.Default(), nil)
	l.AddOutput(fake.NewOutput("eDP-1", 1920, 1080, 1.5))
	ws := l.Set.Monitors[0].ActiveWorkspace()
	w := fake.NewWindow(1, 400, 300)
	tl := l.AddWindow(ws, w, workspace.InsertPosition{NewColumn: true, Index: 0})

	l.InteractiveMoveBegin(ws, "eDP-1", tl, geom.Point{X: 0.5, Y: 0.5})
	l.InteractiveMoveUpdate(geom.Point{X: 300, Y: 0}, geom.Point{X: 301.4, Y: 101.4}, "eDP-1", tl)

	if v := Check(l); len(v) != 0 {
		t.Fatalf("expected the moving tile's rounded target to satisfy invariant 7, got %v", v)
	}
}
