package layout

import (
	"testing"

	"paneloom/internal/config"
	"paneloom/internal/geom"
	"paneloom/internal/handle/fake"
	"paneloom/internal/workspace"
)

func TestAddOutputAdoptsParkedWorkspaces(t *testing.T) {
	l := New(config.Default(), nil)
	ws := workspace.New()
	ws.Name = "parked"
	ws.OriginalOutput = "eDP-1"
	l.Set.Parked = []*workspace.Workspace{ws}

	out := fake.NewOutput("eDP-1", 1920, 1080, 1)
	m := l.AddOutput(out)

	if l.Set.Kind != Normal {
		t.Fatalf("expected Normal MonitorSet after first attach")
	}
	if len(m.Workspaces) < 1 || m.Workspaces[0].Name != "parked" {
		t.Fatalf("expected parked workspace adopted, got %+v", m.Workspaces)
	}
}

func TestRemoveOutputParksWhenLastMonitor(t *testing.T) {
	l := New(config.Default(), nil)
	out := fake.NewOutput("eDP-1", 1920, 1080, 1)
	l.AddOutput(out)
	w := fake.NewWindow(1, 400, 300)
	ws := l.Set.Monitors[0].ActiveWorkspace()
	l.AddWindow(ws, w, workspace.InsertPosition{NewColumn: true, Index: 0})

	l.RemoveOutput("eDP-1")

	if l.Set.Kind != NoOutputs {
		t.Fatalf("expected NoOutputs after detaching the only monitor")
	}
	if len(l.Set.Parked) != 1 {
		t.Fatalf("expected the non-empty workspace parked, got %d", len(l.Set.Parked))
	}
}

func TestRemoveWindowAddWindowRoundTrip(t *testing.T) {
	l := New(config.Default(), nil)
	out := fake.NewOutput("eDP-1", 1920, 1080, 1)
	l.AddOutput(out)
	ws := l.Set.Monitors[0].ActiveWorkspace()
	w := fake.NewWindow(1, 400, 300)
	l.AddWindow(ws, w, workspace.InsertPosition{NewColumn: true, Index: 0})

	if got := l.FindByID(w.ID()); got == nil {
		t.Fatalf("expected to find added window")
	}
	removed := l.RemoveWindow(w.ID())
	if removed == nil {
		t.Fatalf("expected RemovedTile")
	}
	if got := l.FindByID(w.ID()); got != nil {
		t.Fatalf("expected window gone after removal")
	}
}

func TestInteractiveMoveStartingBelowThresholdDoesNotTransition(t *testing.T) {
	l := New(config.Default(), nil)
	out := fake.NewOutput("eDP-1", 1920, 1080, 1)
	l.AddOutput(out)
	ws := l.Set.Monitors[0].ActiveWorkspace()
	w := fake.NewWindow(1, 400, 300)
	tl := l.AddWindow(ws, w, workspace.InsertPosition{NewColumn: true, Index: 0})

	l.InteractiveMoveBegin(ws, "eDP-1", tl, geom.Point{X: 0.5, Y: 0.5})
	l.InteractiveMoveUpdate(geom.Point{X: 10, Y: 10}, geom.Point{X: 10, Y: 10}, "eDP-1", tl)

	if _, ok := l.Move.(*startingMove); !ok {
		t.Fatalf("expected move to remain Starting below threshold")
	}
}

func TestInteractiveMoveTransitionsToMovingAtThreshold(t *testing.T) {
	l := New(config.Default(), nil)
	out := fake.NewOutput("eDP-1", 1920, 1080, 1)
	l.AddOutput(out)
	ws := l.Set.Monitors[0].ActiveWorkspace()
	w := fake.NewWindow(1, 400, 300)
	tl := l.AddWindow(ws, w, workspace.InsertPosition{NewColumn: true, Index: 0})

	l.InteractiveMoveBegin(ws, "eDP-1", tl, geom.Point{X: 0.5, Y: 0.5})
	l.InteractiveMoveUpdate(geom.Point{X: 300, Y: 0}, geom.Point{X: 300, Y: 0}, "eDP-1", tl)

	if _, ok := l.Move.(*movingMove); !ok {
		t.Fatalf("expected move to transition to Moving at/above threshold")
	}
}

func TestInteractiveMoveTransitionExtractsTileFromItsWorkspace(t *testing.T) {
	l := New(config.Default(), nil)
	out := fake.NewOutput("eDP-1", 1920, 1080, 1)
	l.AddOutput(out)
	ws := l.Set.Monitors[0].ActiveWorkspace()
	w := fake.NewWindow(1, 400, 300)
	tl := l.AddWindow(ws, w, workspace.InsertPosition{NewColumn: true, Index: 0})

	l.InteractiveMoveBegin(ws, "eDP-1", tl, geom.Point{X: 0.5, Y: 0.5})
	l.InteractiveMoveUpdate(geom.Point{X: 300, Y: 0}, geom.Point{X: 300, Y: 0}, "eDP-1", tl)

	if len(ws.Columns) != 0 {
		t.Fatalf("expected the moving tile's column to be removed from its workspace, got %d columns", len(ws.Columns))
	}
	if got, _, ok := l.MovingTileAndOutput(); !ok || got != tl {
		t.Fatalf("expected MovingTileAndOutput to report the moving tile")
	}
}

func TestInteractiveMoveEndReinsertsAtPointerPosition(t *testing.T) {
	l := New(config.Default(), nil)
	out := fake.NewOutput("eDP-1", 1920, 1080, 1)
	l.AddOutput(out)
	ws := l.Set.Monitors[0].ActiveWorkspace()
	w := fake.NewWindow(1, 400, 300)
	tl := l.AddWindow(ws, w, workspace.InsertPosition{NewColumn: true, Index: 0})

	l.InteractiveMoveBegin(ws, "eDP-1", tl, geom.Point{X: 0.5, Y: 0.5})
	l.InteractiveMoveUpdate(geom.Point{X: 300, Y: 0}, geom.Point{X: 300, Y: 0}, "eDP-1", tl)
	if _, ok := l.Move.(*movingMove); !ok {
		t.Fatalf("setup: expected Moving state")
	}

	l.InteractiveMoveEnd(ws, geom.Point{X: 10, Y: 10})

	if l.Move != nil {
		t.Fatalf("expected move state cleared after InteractiveMoveEnd")
	}
	if len(ws.Columns) != 1 || len(ws.Columns[0].Tiles) != 1 {
		t.Fatalf("expected the tile reinserted into the target workspace, got %d columns", len(ws.Columns))
	}
	if ws.Columns[0].Tiles[0] != tl {
		t.Fatalf("expected the reinserted tile to be the one that was moving")
	}
}

func TestRemoveWindowOnMovingSubjectYieldsRemovedTileWithoutReinsert(t *testing.T) {
	l := New(config.Default(), nil)
	out := fake.NewOutput("eDP-1", 1920, 1080, 1)
	l.AddOutput(out)
	ws := l.Set.Monitors[0].ActiveWorkspace()
	w := fake.NewWindow(1, 400, 300)
	tl := l.AddWindow(ws, w, workspace.InsertPosition{NewColumn: true, Index: 0})
	l.InteractiveMoveBegin(ws, "eDP-1", tl, geom.Point{X: 0.5, Y: 0.5})
	l.InteractiveMoveUpdate(geom.Point{X: 300, Y: 0}, geom.Point{X: 300, Y: 0}, "eDP-1", tl)

	removed := l.RemoveWindow(w.ID())
	if removed == nil {
		t.Fatalf("expected RemovedTile for the moving subject")
	}
	if l.Move != nil {
		t.Fatalf("expected move state cleared after removing its subject")
	}
}

func TestFocusColumnLeftFallsBackToPreviousOutput(t *testing.T) {
	l := New(config.Default(), nil)
	l.AddOutput(fake.NewOutput("eDP-1", 1920, 1080, 1))
	l.AddOutput(fake.NewOutput("eDP-2", 1920, 1080, 1))
	l.FocusOutput("eDP-2")

	l.FocusColumnLeft()

	if l.Set.ActiveIdx != 0 {
		t.Fatalf("expected focus to fall back to the first output, got active idx %d", l.Set.ActiveIdx)
	}
}

func TestMoveColumnToOutputRelocatesActiveColumn(t *testing.T) {
	l := New(config.Default(), nil)
	l.AddOutput(fake.NewOutput("eDP-1", 1920, 1080, 1))
	l.AddOutput(fake.NewOutput("eDP-2", 1920, 1080, 1))
	srcWs := l.Set.Monitors[0].ActiveWorkspace()
	w := fake.NewWindow(1, 400, 300)
	l.AddWindow(srcWs, w, workspace.InsertPosition{NewColumn: true, Index: 0})

	l.MoveColumnToOutput("eDP-2")

	dstWs := l.Set.Monitors[1].ActiveWorkspace()
	if len(dstWs.Columns) != 1 {
		t.Fatalf("expected the column to land on eDP-2's active workspace, got %d columns", len(dstWs.Columns))
	}
	if dstWs.OriginalOutput != "eDP-2" {
		t.Fatalf("expected origin to be forgotten in favor of the new output, got %q", dstWs.OriginalOutput)
	}
}

func TestMoveColumnToWorkspaceDownRelocatesWithinMonitor(t *testing.T) {
	l := New(config.Default(), nil)
	l.AddOutput(fake.NewOutput("eDP-1", 1920, 1080, 1))
	m := l.Set.Monitors[0]
	ws0 := m.ActiveWorkspace()
	w := fake.NewWindow(1, 400, 300)
	l.AddWindow(ws0, w, workspace.InsertPosition{NewColumn: true, Index: 0})

	l.MoveColumnToWorkspaceDown()

	if len(m.Workspaces[0].Columns) != 0 {
		t.Fatalf("expected the source workspace to lose its column")
	}
	if len(m.Workspaces[1].Columns) != 1 {
		t.Fatalf("expected the column to land on the next workspace down")
	}
}
