package workspace

import (
	"testing"
	"time"

	"paneloom/internal/config"
	"paneloom/internal/geom"
	"paneloom/internal/handle/fake"
	"paneloom/internal/tile"
)

func newTestTile(id uint64) *tile.Tile {
	w := fake.NewWindow(id, 100, 100)
	return tile.New(w, geom.Rect{}, 0)
}

func TestAddTileNewColumn(t *testing.T) {
	w := New()
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, newTestTile(1), config.AutoHeight(), config.ProportionWidth(0.5))
	if len(w.Columns) != 1 {
		t.Fatalf("expected 1 column, got %d", len(w.Columns))
	}
	if w.ActiveColIdx != 0 {
		t.Fatalf("expected active col 0, got %d", w.ActiveColIdx)
	}
}

func TestRemoveTileEmptiesColumn(t *testing.T) {
	w := New()
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, newTestTile(1), config.AutoHeight(), config.ProportionWidth(0.5))
	removed := w.RemoveTile(0, 0)
	if removed == nil {
		t.Fatalf("expected removed tile")
	}
	if len(w.Columns) != 0 {
		t.Fatalf("expected column to be removed once empty, got %d columns", len(w.Columns))
	}
}

func TestConsumeLeftMergesColumns(t *testing.T) {
	w := New()
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, newTestTile(1), config.AutoHeight(), config.ProportionWidth(0.5))
	w.AddTile(InsertPosition{NewColumn: true, Index: 1}, newTestTile(2), config.AutoHeight(), config.ProportionWidth(0.5))
	if len(w.Columns) != 2 {
		t.Fatalf("setup: expected 2 columns, got %d", len(w.Columns))
	}
	w.ActiveColIdx = 1
	w.ConsumeLeft()
	if len(w.Columns) != 1 {
		t.Fatalf("expected 1 column after consume-left, got %d", len(w.Columns))
	}
	if len(w.Columns[0].Tiles) != 2 {
		t.Fatalf("expected 2 tiles merged into surviving column, got %d", len(w.Columns[0].Tiles))
	}
}

func TestExpelRightNoopOnSingleTileColumn(t *testing.T) {
	w := New()
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, newTestTile(1), config.AutoHeight(), config.ProportionWidth(0.5))
	w.ExpelRight()
	if len(w.Columns) != 1 {
		t.Fatalf("expel-right on single-tile column must be a no-op, got %d columns", len(w.Columns))
	}
}

func TestExpelRightCreatesNewColumn(t *testing.T) {
	w := New()
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, newTestTile(1), config.AutoHeight(), config.ProportionWidth(0.5))
	w.Columns[0].InsertTile(1, newTestTile(2), config.AutoHeight())
	w.Columns[0].ActiveTileIdx = 1
	w.ExpelRight()
	if len(w.Columns) != 2 {
		t.Fatalf("expected expel-right to create a new column, got %d", len(w.Columns))
	}
	if len(w.Columns[0].Tiles) != 1 || len(w.Columns[1].Tiles) != 1 {
		t.Fatalf("expected 1 tile per column after expel, got %d and %d", len(w.Columns[0].Tiles), len(w.Columns[1].Tiles))
	}
}

func TestFullscreenRestoresViewOffset(t *testing.T) {
	w := New()
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, newTestTile(1), config.AutoHeight(), config.ProportionWidth(0.5))
	w.ViewOffset = 123
	w.viewOffsetSpr.Pos = 123
	fsWindow := w.Columns[0].ActiveTile().Window.(*fake.Window)
	w.ToggleFullscreen(geom.Size{W: 1920, H: 1080})
	if !w.Columns[0].Fullscreen {
		t.Fatalf("expected column to be fullscreen")
	}
	if len(fsWindow.FullscreenReq) != 1 || fsWindow.FullscreenReq[0] != (geom.Size{W: 1920, H: 1080}) {
		t.Fatalf("expected RequestFullscreen(1920x1080), got %v", fsWindow.FullscreenReq)
	}
	w.ViewOffset = 999 // simulate drift while fullscreen
	w.ToggleFullscreen(geom.Size{})
	if w.Columns[0].Fullscreen {
		t.Fatalf("expected fullscreen to be cleared")
	}
	if w.ViewOffset != 123 {
		t.Fatalf("expected view-offset restored to 123, got %v", w.ViewOffset)
	}
	if len(fsWindow.FullscreenReq) != 1 {
		t.Fatalf("expected no additional RequestFullscreen call when leaving fullscreen, got %v", fsWindow.FullscreenReq)
	}
}

func TestInsertPositionAtDeadZoneRoutesInColumn(t *testing.T) {
	rects := []geom.Rect{{X: 0, Y: 0, W: 100, H: 100}}
	pos := InsertPositionAt(geom.Point{X: 50, Y: 50}, rects)
	if pos.NewColumn {
		t.Fatalf("expected center point to route InColumn, got NewColumn")
	}
	if pos.Column != 0 {
		t.Fatalf("expected column 0, got %d", pos.Column)
	}
}

func TestInsertPositionAtEdgeRoutesNewColumn(t *testing.T) {
	rects := []geom.Rect{{X: 0, Y: 0, W: 100, H: 100}}
	pos := InsertPositionAt(geom.Point{X: 5, Y: 50}, rects)
	if !pos.NewColumn {
		t.Fatalf("expected near-left-edge point to route NewColumn")
	}
	if pos.Index != 0 {
		t.Fatalf("expected new column at index 0, got %d", pos.Index)
	}
}

func TestFocusColumnLeftRightDoNotReorder(t *testing.T) {
	w := New()
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, newTestTile(1), config.AutoHeight(), config.ProportionWidth(0.5))
	w.AddTile(InsertPosition{NewColumn: true, Index: 1}, newTestTile(2), config.AutoHeight(), config.ProportionWidth(0.5))
	first := w.Columns[0]
	second := w.Columns[1]

	if !w.FocusColumnLeft() {
		t.Fatalf("expected focus-left to succeed from the rightmost column")
	}
	if w.ActiveColIdx != 0 {
		t.Fatalf("expected active column 0 after focus-left, got %d", w.ActiveColIdx)
	}
	if w.Columns[0] != first || w.Columns[1] != second {
		t.Fatalf("expected focus-left to leave column order untouched")
	}
	if w.FocusColumnLeft() {
		t.Fatalf("expected focus-left to report no movement at the leftmost column")
	}
}

func TestFocusColumnLeftOrLastWraps(t *testing.T) {
	w := New()
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, newTestTile(1), config.AutoHeight(), config.ProportionWidth(0.5))
	w.AddTile(InsertPosition{NewColumn: true, Index: 1}, newTestTile(2), config.AutoHeight(), config.ProportionWidth(0.5))
	w.ActiveColIdx = 0

	w.FocusColumnLeftOrLast()

	if w.ActiveColIdx != 1 {
		t.Fatalf("expected focus to wrap to the last column, got %d", w.ActiveColIdx)
	}
}

func TestFocusWindowUpDownWithinColumn(t *testing.T) {
	w := New()
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, newTestTile(1), config.AutoHeight(), config.ProportionWidth(0.5))
	w.Columns[0].InsertTile(1, newTestTile(2), config.AutoHeight())

	if !w.FocusWindowDown() {
		t.Fatalf("expected focus-down to succeed with a second tile present")
	}
	if w.Columns[0].ActiveTileIdx != 1 {
		t.Fatalf("expected active tile 1, got %d", w.Columns[0].ActiveTileIdx)
	}
	if w.FocusWindowDown() {
		t.Fatalf("expected focus-down to report no movement at the bottom tile")
	}
}

func TestCleanupEligibility(t *testing.T) {
	w := New()
	if !w.IsEligibleForCleanup(false, false) {
		t.Fatalf("expected empty unnamed non-active non-last workspace to be cleanup-eligible")
	}
	if w.IsEligibleForCleanup(true, false) {
		t.Fatalf("active workspace must never be cleaned up")
	}
	if w.IsEligibleForCleanup(false, true) {
		t.Fatalf("last workspace must never be cleaned up")
	}
	w.Name = "scratch"
	if w.IsEligibleForCleanup(false, false) {
		t.Fatalf("named workspace must never be cleaned up")
	}
}

func testGeometryContext() GeometryContext {
	return GeometryContext{
		WorkingArea:   geom.Rect{X: 0, Y: 0, W: 1920, H: 1080},
		OutputSize:    geom.Size{W: 1920, H: 1080},
		Gaps:          16,
		BorderWidth:   0,
		BorderOff:     true,
		WidthPresets:  []config.ColumnWidth{config.ProportionWidth(1.0 / 3.0), config.ProportionWidth(2.0 / 3.0)},
		HeightPresets: []config.PresetSize{config.ProportionHeight(0.5)},
		Scale:         1,
	}
}

func TestSetGeometryContextAssignsRealTileTargets(t *testing.T) {
	w := New()
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, newTestTile(1), config.AutoHeight(), config.ProportionWidth(0.5))
	w.Columns[0].InsertTile(1, newTestTile(2), config.AutoHeight())

	w.SetGeometryContext(testGeometryContext())

	col := w.Columns[0]
	if col.Tiles[0].Target.W == 0 || col.Tiles[0].Target.H == 0 {
		t.Fatalf("expected first tile to get a real non-zero target, got %+v", col.Tiles[0].Target)
	}
	if col.Tiles[1].Target.Y <= col.Tiles[0].Target.Y {
		t.Fatalf("expected second tile to be laid out below the first, got %+v and %+v", col.Tiles[0].Target, col.Tiles[1].Target)
	}
	win1 := col.Tiles[0].Window.(*fake.Window)
	if len(win1.SizeRequests) == 0 {
		t.Fatalf("expected relayout to request a window size")
	}
}

func TestRelayoutRespondsToColumnWidthToggle(t *testing.T) {
	w := New()
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, newTestTile(1), config.AutoHeight(), config.ProportionWidth(0.5))
	ctx := testGeometryContext()
	w.SetGeometryContext(ctx)
	before := w.Columns[0].Tiles[0].Target.W

	w.ToggleColumnWidth(ctx.WidthPresets)

	after := w.Columns[0].Tiles[0].Target.W
	if after == before {
		t.Fatalf("expected toggling column width to change the tile's resolved target width")
	}
}

func TestInsertPositionForPointResolvesRowWithinColumn(t *testing.T) {
	w := New()
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, newTestTile(1), config.AutoHeight(), config.ProportionWidth(0.5))
	w.Columns[0].InsertTile(1, newTestTile(2), config.AutoHeight())
	w.SetGeometryContext(testGeometryContext())

	bottomOfFirst := w.Columns[0].Tiles[0].Target.Bottom()
	pos := w.InsertPositionForPoint(geom.Point{X: w.Columns[0].Tiles[0].Target.Center().X, Y: bottomOfFirst + 5})
	if pos.NewColumn {
		t.Fatalf("expected the point within the column to route InColumn, got NewColumn")
	}
	if pos.Row != 1 {
		t.Fatalf("expected row 1 (below the first tile), got %d", pos.Row)
	}
}

func TestViewGestureCancelSpringsBackToStart(t *testing.T) {
	w := New()
	for i := uint64(1); i <= 4; i++ {
		w.AddTile(InsertPosition{NewColumn: true, Index: int(i) - 1}, newTestTile(i), config.AutoHeight(), config.ProportionWidth(0.5))
	}
	w.SetGeometryContext(testGeometryContext())
	w.ViewOffset = 200
	w.viewOffsetSpr.Pos = 200
	max := w.MaxViewOffset()

	w.BeginViewGesture(GestureTouchpad)
	w.UpdateViewGesture(500, 3.0, max)
	w.EndViewGesture(true, max)

	if w.Gesture != nil {
		t.Fatalf("expected gesture cleared on end")
	}
	for i := 0; i < 600; i++ {
		if !w.Advance(16 * time.Millisecond) {
			break
		}
	}
	if diff := w.ViewOffset - 200; diff > 1 || diff < -1 {
		t.Fatalf("expected cancelled gesture to spring back to 200, got %v", w.ViewOffset)
	}
}

func TestViewGestureRubberBandsPastEnd(t *testing.T) {
	w := New()
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, newTestTile(1), config.AutoHeight(), config.ProportionWidth(0.5))
	w.SetGeometryContext(testGeometryContext())
	max := w.MaxViewOffset()

	w.BeginViewGesture(GestureTouchscreen)
	w.UpdateViewGesture(-400, 0, max)

	if w.ViewOffset >= 0 {
		t.Fatalf("expected overscroll past the start to go negative, got %v", w.ViewOffset)
	}
	if w.ViewOffset <= -400 {
		t.Fatalf("expected the rubber band to resist the raw -400 drag, got %v", w.ViewOffset)
	}
}

func TestFocusLastScrollsOverflowingColumnIntoView(t *testing.T) {
	w := New()
	for i := uint64(1); i <= 4; i++ {
		w.AddTile(InsertPosition{NewColumn: true, Index: int(i) - 1}, newTestTile(i), config.AutoHeight(), config.ProportionWidth(0.5))
	}
	w.SetGeometryContext(testGeometryContext())
	w.ActiveColIdx = 0
	w.ViewOffset = 0
	w.viewOffsetSpr.Pos = 0
	w.viewOffsetSpr.Retarget(0)

	w.FocusColumnLast()

	for i := 0; i < 600; i++ {
		if !w.Advance(16 * time.Millisecond) {
			break
		}
	}
	if w.ViewOffset <= 0 {
		t.Fatalf("expected focusing the last of four half-width columns to scroll right, got offset %v", w.ViewOffset)
	}
}

func TestConsumeLeftDiscardsFullscreenSnapshotOfConsumedColumn(t *testing.T) {
	w := New()
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, newTestTile(1), config.AutoHeight(), config.ProportionWidth(0.5))
	w.AddTile(InsertPosition{NewColumn: true, Index: 1}, newTestTile(2), config.AutoHeight(), config.ProportionWidth(0.5))
	w.ActiveColIdx = 1
	w.FullscreenSnap = &FullscreenSnapshot{ViewOffset: 77, ActiveCol: 1}

	w.ConsumeLeft()

	if w.FullscreenSnap != nil {
		t.Fatalf("expected the snapshot discarded when its column was consumed")
	}
}

func TestExtractTileRemovesItFromItsColumn(t *testing.T) {
	w := New()
	tl := newTestTile(1)
	w.AddTile(InsertPosition{NewColumn: true, Index: 0}, tl, config.AutoHeight(), config.ProportionWidth(0.5))

	width, _, ok := w.ExtractTile(tl)
	if !ok {
		t.Fatalf("expected ExtractTile to find the tile")
	}
	if width != config.ProportionWidth(0.5) {
		t.Fatalf("expected the extracted column's width to be reported, got %+v", width)
	}
	if len(w.Columns) != 0 {
		t.Fatalf("expected the now-empty column to be removed, got %d columns", len(w.Columns))
	}
}
