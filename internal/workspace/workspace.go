// Package workspace implements a horizontally scrollable sequence of
// columns. A Workspace never reaches back
// into its owning Monitor; display-scale and similar context is passed
// in per call, matching the "no cyclic references" design note.
package workspace

import (
	"math"
	"time"

	"paneloom/internal/anim"
	"paneloom/internal/column"
	"paneloom/internal/config"
	"paneloom/internal/geom"
	"paneloom/internal/handle"
	"paneloom/internal/tile"
)

// ID is an opaque, monotonically increasing workspace identity that
// survives relocation across monitors.
type ID uint64

var nextID ID = 1

// NextID hands out a fresh workspace identity.
func NextID() ID {
	id := nextID
	nextID++
	return id
}

// FullscreenSnapshot preserves the view-offset (and which column was
// active) from immediately before a column went fullscreen, so leaving
// fullscreen restores the view exactly.
type FullscreenSnapshot struct {
	ViewOffset float64
	ActiveCol  int
}

// ResizeState records an in-progress interactive resize of the active
// tile's edges.
type ResizeState struct {
	Edges      handle.ResizeEdge
	StartPoint geom.Point
	OrigRect   geom.Rect
}

// GeometryContext is the value snapshot a Workspace needs to resolve real
// column/tile rects: the owning monitor's working area, gap/border
// tunables, and the width/height presets in effect. It is pushed in by
// the Monitor whenever placement or Options change, never fetched back
// through a pointer to the Monitor.
type GeometryContext struct {
	WorkingArea        geom.Rect
	OutputSize         geom.Size
	Gaps               float64
	BorderWidth        float64
	BorderOff          bool
	WidthPresets       []config.ColumnWidth
	HeightPresets      []config.PresetSize
	Scale              float64
	CenterPolicy       config.CenterFocusedColumn
	AlwaysCenterSingle bool
}

// GestureSource distinguishes touchpad from touchscreen view-offset
// gestures. The source is recorded on the gesture; both sources use the
// same rubber-band stiffness. The two must not be mixed mid-gesture.
type GestureSource int

const (
	GestureTouchpad GestureSource = iota
	GestureTouchscreen
)

// ViewGesture is an in-progress X-axis view-offset gesture.
type ViewGesture struct {
	Source   GestureSource
	Start    float64 // view-offset at gesture begin
	Delta    float64 // accumulated pointer delta
	Velocity float64
}

// InsertPosition is the result of an insert-position query
// (Workspace.InsertPositionAt / InsertPositionForPoint): either a brand
// new column at Index, or a specific row within an existing column.
type InsertPosition struct {
	NewColumn bool
	Index     int // valid when NewColumn
	Column    int // valid when !NewColumn
	Row       int // valid when !NewColumn
}

// InsertHint is the drop-target overlay shown while an interactive move
// hovers over this workspace: where the tile would land if released now.
type InsertHint struct {
	Pos  InsertPosition
	Rect geom.Rect
}

// Workspace is a horizontally scrollable sequence of columns.
type Workspace struct {
	WsID ID
	Name string // "" means unnamed

	// OriginalOutput is the output name this workspace considers home,
	// for return-on-reconnect. CurrentOutput is the output
	// it is hosted on right now; empty while parked with no displays
	// connected.
	OriginalOutput string
	CurrentOutput  string

	Columns      []*column.Column
	ActiveColIdx int

	ViewOffset     float64
	viewOffsetSpr  *anim.Spring
	Gesture        *ViewGesture
	Resize         *ResizeState
	FullscreenSnap *FullscreenSnapshot
	Hint           *InsertHint

	geomCtx GeometryContext
	hasGeom bool
}

// New creates an empty, unnamed workspace.
func New() *Workspace {
	return &Workspace{WsID: NextID(), viewOffsetSpr: anim.NewSpring(0, 0)}
}

// IsEmpty reports whether the workspace has no columns.
func (w *Workspace) IsEmpty() bool { return len(w.Columns) == 0 }

// IsEligibleForCleanup reports whether this workspace matches the
// cleanup predicate "unnamed, empty, and neither active nor last" — the
// caller (Monitor) supplies the active/last facts since those are
// properties of the workspace's position in its monitor's list.
func (w *Workspace) IsEligibleForCleanup(isActive, isLast bool) bool {
	return w.Name == "" && w.IsEmpty() && !isActive && !isLast
}

// ActiveColumn returns the currently active column, or nil if empty.
func (w *Workspace) ActiveColumn() *column.Column {
	if len(w.Columns) == 0 {
		return nil
	}
	return w.Columns[w.ActiveColIdx]
}

// SetGeometryContext installs a fresh geometry snapshot — pushed in by the
// owning Monitor whenever placement, output size, or Options change — and
// immediately re-lays out every tile against it.
func (w *Workspace) SetGeometryContext(ctx GeometryContext) {
	w.geomCtx = ctx
	w.hasGeom = true
	w.relayout()
}

// Relayout re-runs the layout pass against the current geometry context,
// for callers that mutate a column in place (e.g. flipping FullWidth on
// a column just inserted by an interactive move) without going through
// one of Workspace's own mutators.
func (w *Workspace) Relayout() { w.relayout() }

// relayout is where a workspace assigns tile.Target and requests window
// sizes (the interactive-move path in package layout sets the moving
// tile's Target and size request itself): column X positions accumulate left to right
// across gaps and the current view-offset, and each column's tile Y
// positions and heights come from column.ResolveHeights. It is a no-op
// until a geometry context has been pushed in, so a bare workspace.New()
// used directly in a unit test is unaffected.
func (w *Workspace) relayout() {
	if !w.hasGeom {
		return
	}
	ctx := w.geomCtx
	border := ctx.BorderWidth
	if ctx.BorderOff {
		border = 0
	}
	minBorders := 0.0
	if !ctx.BorderOff {
		minBorders = 2 * border
	}

	x := ctx.WorkingArea.X + ctx.Gaps - w.ViewOffset
	for _, col := range w.Columns {
		n := len(col.Tiles)
		colWidth := col.ResolveWidth(ctx.WorkingArea.W, ctx.WidthPresets, minBorders)
		windowWidth := geom.Clamp(colWidth-2*border, 1, math.MaxFloat64)

		if col.Fullscreen {
			full := geom.Rect{X: 0, Y: 0, W: ctx.OutputSize.W, H: ctx.OutputSize.H}
			for _, t := range col.Tiles {
				t.SetTarget(full, shouldAnimateRetarget(t.Target, full))
			}
			x += colWidth + ctx.Gaps
			continue
		}

		gapsAndBorders := ctx.Gaps * float64(n+1)
		if !ctx.BorderOff {
			gapsAndBorders += 2 * border * float64(n)
		}
		heights := col.ResolveHeights(ctx.WorkingArea.H, gapsAndBorders, ctx.HeightPresets, func(i int) (float64, float64) {
			mn := col.Tiles[i].Window.MinSize().H
			mx := col.Tiles[i].Window.MaxSize().H
			return mn, mx
		})

		y := ctx.WorkingArea.Y + ctx.Gaps
		for i, t := range col.Tiles {
			contentH := heights[i]
			slotH := contentH
			if !ctx.BorderOff {
				slotH += 2 * border
			}
			target := geom.Rect{X: x, Y: y, W: colWidth, H: slotH}
			animate := shouldAnimateRetarget(t.Target, target)
			t.SetTarget(target, animate)
			t.BorderWidth = border
			t.Window.RequestSize(geom.Size{W: windowWidth, H: contentH}, animate, nil)
			y += slotH + ctx.Gaps
		}
		x += colWidth + ctx.Gaps
	}
}

// resizeAnimationThreshold is the largest size delta, in logical pixels,
// applied without animation.
const resizeAnimationThreshold = 10.0

// shouldAnimateRetarget decides whether a relayout pass animates a tile
// onto its new target: a tile with no prior target snaps into place, and
// pure size changes at or under the resize threshold apply instantly.
func shouldAnimateRetarget(old, next geom.Rect) bool {
	if old.W == 0 && old.H == 0 {
		return false
	}
	if old.X == next.X && old.Y == next.Y &&
		math.Abs(next.W-old.W) <= resizeAnimationThreshold &&
		math.Abs(next.H-old.H) <= resizeAnimationThreshold {
		return false
	}
	return true
}

// columnContentX returns column i's left edge and resolved width in
// content space: the scroll coordinate system where offset 0 puts the
// first column at the working area's left gap, independent of the current
// view-offset.
func (w *Workspace) columnContentX(i int) (x, width float64) {
	ctx := w.geomCtx
	border := ctx.BorderWidth
	if ctx.BorderOff {
		border = 0
	}
	minBorders := 0.0
	if !ctx.BorderOff {
		minBorders = 2 * border
	}
	for j, col := range w.Columns {
		cw := col.ResolveWidth(ctx.WorkingArea.W, ctx.WidthPresets, minBorders)
		if j == i {
			return x, cw
		}
		x += cw + ctx.Gaps
	}
	return x, 0
}

// ContentWidth is the total scrollable extent of the workspace's columns,
// including the gaps between them.
func (w *Workspace) ContentWidth() float64 {
	if len(w.Columns) == 0 {
		return 0
	}
	lastX, lastW := w.columnContentX(len(w.Columns) - 1)
	return lastX + lastW
}

// MaxViewOffset is the largest resting view-offset: scrolled so the last
// column's right edge meets the working area's right edge. Zero when the
// content fits.
func (w *Workspace) MaxViewOffset() float64 {
	if !w.hasGeom {
		return 0
	}
	return math.Max(0, w.ContentWidth()-w.geomCtx.WorkingArea.W+2*w.geomCtx.Gaps)
}

// scrollActiveIntoView retargets the view-offset spring so the active
// column lands where the CenterFocusedColumn policy says it should
// .
func (w *Workspace) scrollActiveIntoView() {
	if !w.hasGeom || len(w.Columns) == 0 {
		return
	}
	x, width := w.columnContentX(w.ActiveColIdx)
	target := w.TargetViewOffset(w.geomCtx.WorkingArea.W, x, width,
		w.geomCtx.CenterPolicy, w.geomCtx.AlwaysCenterSingle)
	w.viewOffsetSpr.Retarget(target)
}

// SetInsertHint shows the drop-target overlay at pos; ClearInsertHint
// removes it.
func (w *Workspace) SetInsertHint(pos InsertPosition, rect geom.Rect) {
	w.Hint = &InsertHint{Pos: pos, Rect: rect}
}

func (w *Workspace) ClearInsertHint() { w.Hint = nil }

// columnRect returns the bounding rect of col's tiles as currently laid
// out: the union of every tile's Target.
func columnRect(col *column.Column) geom.Rect {
	if len(col.Tiles) == 0 {
		return geom.Rect{}
	}
	r := col.Tiles[0].Target
	for _, t := range col.Tiles[1:] {
		if t.Target.Y < r.Y {
			r.Y = t.Target.Y
		}
		bottom := math.Max(r.Bottom(), t.Target.Bottom())
		r.H = bottom - r.Y
	}
	return r
}

// InsertPositionForPoint resolves a pointer position (in the same
// coordinate space as the tiles' Target rects, i.e. already accounting for
// the workspace's own view-offset) into an InsertPosition using the
// workspace's real, current column layout.
func (w *Workspace) InsertPositionForPoint(p geom.Point) InsertPosition {
	rects := make([]geom.Rect, len(w.Columns))
	for i, col := range w.Columns {
		rects[i] = columnRect(col)
	}
	pos := InsertPositionAt(p, rects)
	if !pos.NewColumn {
		pos.Row = rowForY(w.Columns[pos.Column], p.Y)
	}
	return pos
}

// rowForY resolves a Y coordinate to a tile row within col: the row whose
// Target rect contains it, or the nearest end if p.Y falls outside every
// tile (e.g. in the gap above the first or below the last).
func rowForY(col *column.Column, y float64) int {
	for i, t := range col.Tiles {
		if y < t.Target.Bottom() {
			return i
		}
	}
	if len(col.Tiles) == 0 {
		return 0
	}
	return len(col.Tiles) - 1
}

// ExtractTile removes t from wherever it lives in the workspace, deleting
// the column too if that empties it — used for interactive-move's
// Starting-to-Moving ownership transfer, which hands the
// tile over to the Layout directly. Reports the column's width spec
// (so the tile can be reinserted with it) and whether t was found.
func (w *Workspace) ExtractTile(t *tile.Tile) (width config.ColumnWidth, fullWidth bool, ok bool) {
	for ci, col := range w.Columns {
		for ri, ct := range col.Tiles {
			if ct == t {
				width, fullWidth = col.Width, col.FullWidth
				w.RemoveTile(ci, ri)
				return width, fullWidth, true
			}
		}
	}
	return config.ColumnWidth{}, false, false
}

// AddColumn inserts col at idx (clamped) and makes it active.
func (w *Workspace) AddColumn(idx int, col *column.Column) {
	idx = geom.ClampInt(idx, 0, len(w.Columns))
	w.Columns = append(w.Columns, nil)
	copy(w.Columns[idx+1:], w.Columns[idx:])
	w.Columns[idx] = col
	w.ActiveColIdx = idx
	w.relayout()
	w.scrollActiveIntoView()
}

// RemoveColumnAt removes and returns the column at idx.
func (w *Workspace) RemoveColumnAt(idx int) *column.Column {
	if idx < 0 || idx >= len(w.Columns) {
		return nil
	}
	removed := w.Columns[idx]
	w.Columns = append(w.Columns[:idx], w.Columns[idx+1:]...)
	if w.ActiveColIdx >= len(w.Columns) {
		w.ActiveColIdx = len(w.Columns) - 1
	}
	if w.ActiveColIdx < 0 {
		w.ActiveColIdx = 0
	} else if idx < w.ActiveColIdx {
		w.ActiveColIdx--
	}
	w.relayout()
	return removed
}

// AddTile inserts t at pos, creating a new column there if pos.NewColumn.
func (w *Workspace) AddTile(pos InsertPosition, t *tile.Tile, h config.PresetSize, width config.ColumnWidth) {
	if pos.NewColumn {
		w.AddColumn(pos.Index, column.New(t, width))
		return
	}
	if pos.Column < 0 || pos.Column >= len(w.Columns) {
		w.AddColumn(len(w.Columns), column.New(t, width))
		return
	}
	w.Columns[pos.Column].InsertTile(pos.Row, t, h)
	w.ActiveColIdx = pos.Column
	w.relayout()
	w.scrollActiveIntoView()
}

// RemoveTile removes the tile at (colIdx, row); if that empties the
// column, the column itself is removed. Returns the removed tile.
func (w *Workspace) RemoveTile(colIdx, row int) *tile.Tile {
	if colIdx < 0 || colIdx >= len(w.Columns) {
		return nil
	}
	col := w.Columns[colIdx]
	removed := col.RemoveTileAt(row)
	if col.IsEmpty() {
		w.RemoveColumnAt(colIdx)
	} else {
		w.relayout()
	}
	return removed
}

// MoveColumnLeft/Right swap the active column with its neighbour.
func (w *Workspace) MoveColumnLeft() {
	i := w.ActiveColIdx
	if i <= 0 {
		return
	}
	w.Columns[i-1], w.Columns[i] = w.Columns[i], w.Columns[i-1]
	w.ActiveColIdx = i - 1
	w.relayout()
	w.scrollActiveIntoView()
}

func (w *Workspace) MoveColumnRight() {
	i := w.ActiveColIdx
	if i >= len(w.Columns)-1 {
		return
	}
	w.Columns[i+1], w.Columns[i] = w.Columns[i], w.Columns[i+1]
	w.ActiveColIdx = i + 1
	w.relayout()
	w.scrollActiveIntoView()
}

// MoveColumnToFirst/Last relocate the active column to an end.
func (w *Workspace) MoveColumnToFirst() {
	i := w.ActiveColIdx
	if i <= 0 || i >= len(w.Columns) {
		return
	}
	col := w.Columns[i]
	w.Columns = append(w.Columns[:i], w.Columns[i+1:]...)
	w.Columns = append([]*column.Column{col}, w.Columns...)
	w.ActiveColIdx = 0
	w.relayout()
	w.scrollActiveIntoView()
}

func (w *Workspace) MoveColumnToLast() {
	i := w.ActiveColIdx
	if i < 0 || i >= len(w.Columns)-1 {
		return
	}
	col := w.Columns[i]
	w.Columns = append(w.Columns[:i], w.Columns[i+1:]...)
	w.Columns = append(w.Columns, col)
	w.ActiveColIdx = len(w.Columns) - 1
	w.relayout()
	w.scrollActiveIntoView()
}

// FocusColumnLeft/Right move the active-column index without reordering
// columns, unlike MoveColumnLeft/Right. They report whether focus moved,
// so a caller can fall back to switching output/workspace when it did
// not.
func (w *Workspace) FocusColumnLeft() bool {
	if w.ActiveColIdx <= 0 {
		return false
	}
	w.ActiveColIdx--
	w.scrollActiveIntoView()
	return true
}

func (w *Workspace) FocusColumnRight() bool {
	if w.ActiveColIdx >= len(w.Columns)-1 {
		return false
	}
	w.ActiveColIdx++
	w.scrollActiveIntoView()
	return true
}

// FocusColumnLeftOrLast wraps focus to the last column when already at
// the first one.
func (w *Workspace) FocusColumnLeftOrLast() {
	if !w.FocusColumnLeft() && len(w.Columns) > 0 {
		w.ActiveColIdx = len(w.Columns) - 1
		w.scrollActiveIntoView()
	}
}

// FocusColumnRightOrFirst wraps focus to the first column when already
// at the last one.
func (w *Workspace) FocusColumnRightOrFirst() {
	if !w.FocusColumnRight() && len(w.Columns) > 0 {
		w.ActiveColIdx = 0
		w.scrollActiveIntoView()
	}
}

// FocusColumnFirst/Last jump focus directly to an end column.
func (w *Workspace) FocusColumnFirst() {
	if len(w.Columns) > 0 {
		w.ActiveColIdx = 0
		w.scrollActiveIntoView()
	}
}

func (w *Workspace) FocusColumnLast() {
	if len(w.Columns) > 0 {
		w.ActiveColIdx = len(w.Columns) - 1
		w.scrollActiveIntoView()
	}
}

// FocusWindowUp/Down move the active-tile index within the active
// column, reporting whether focus moved so a caller can fall back to a
// column move.
func (w *Workspace) FocusWindowUp() bool {
	col := w.ActiveColumn()
	if col == nil || col.ActiveTileIdx <= 0 {
		return false
	}
	col.ActiveTileIdx--
	return true
}

func (w *Workspace) FocusWindowDown() bool {
	col := w.ActiveColumn()
	if col == nil || col.ActiveTileIdx >= len(col.Tiles)-1 {
		return false
	}
	col.ActiveTileIdx++
	return true
}

// MoveTileUp/Down reorder tiles within the active column.
func (w *Workspace) MoveTileUp() {
	col := w.ActiveColumn()
	if col == nil {
		return
	}
	i := col.ActiveTileIdx
	if i <= 0 {
		return
	}
	col.Tiles[i-1], col.Tiles[i] = col.Tiles[i], col.Tiles[i-1]
	col.Heights[i-1], col.Heights[i] = col.Heights[i], col.Heights[i-1]
	col.ActiveTileIdx = i - 1
	w.relayout()
}

func (w *Workspace) MoveTileDown() {
	col := w.ActiveColumn()
	if col == nil {
		return
	}
	i := col.ActiveTileIdx
	if i >= len(col.Tiles)-1 {
		return
	}
	col.Tiles[i+1], col.Tiles[i] = col.Tiles[i], col.Tiles[i+1]
	col.Heights[i+1], col.Heights[i] = col.Heights[i], col.Heights[i+1]
	col.ActiveTileIdx = i + 1
	w.relayout()
}

// ConsumeLeft merges the active column into its left neighbour, placing
// its tiles below the neighbour's current tiles; the active column is
// removed. A no-op if there is no left neighbour.
func (w *Workspace) ConsumeLeft() {
	i := w.ActiveColIdx
	if i <= 0 {
		return
	}
	src := w.Columns[i]
	dst := w.Columns[i-1]
	for j, t := range src.Tiles {
		dst.InsertTile(len(dst.Tiles), t, src.Heights[j])
	}
	// Consuming the column that owns the fullscreen snapshot invalidates
	// the saved view state.
	if w.FullscreenSnap != nil {
		if w.FullscreenSnap.ActiveCol == i {
			w.FullscreenSnap = nil
		} else if w.FullscreenSnap.ActiveCol > i {
			w.FullscreenSnap.ActiveCol--
		}
	}
	w.RemoveColumnAt(i)
	w.ActiveColIdx = i - 1
	dst.ActiveTileIdx = len(dst.Tiles) - 1
}

// ExpelRight is the inverse: the active tile is popped out of its column
// into a brand new column immediately to the right. A no-op if the active
// column has only one tile (nothing to expel).
func (w *Workspace) ExpelRight() {
	col := w.ActiveColumn()
	if col == nil || len(col.Tiles) <= 1 {
		return
	}
	i := col.ActiveTileIdx
	t := col.RemoveTileAt(i)
	newCol := column.New(t, col.Width)
	w.AddColumn(w.ActiveColIdx+1, newCol)
}

// ToggleColumnWidth/SetColumnWidth proxy to the active column.
func (w *Workspace) ToggleColumnWidth(presets []config.ColumnWidth) {
	if col := w.ActiveColumn(); col != nil {
		col.TogglePresetWidth(presets)
		w.relayout()
	}
}

func (w *Workspace) SetColumnWidth(width config.ColumnWidth) {
	if col := w.ActiveColumn(); col != nil {
		col.SetWidth(width)
		w.relayout()
	}
}

// ToggleWindowHeight cycles the active tile's height spec through
// presets, wrapping; ResetWindowHeight returns it to auto.
func (w *Workspace) ToggleWindowHeight(presets []config.PresetSize) {
	col := w.ActiveColumn()
	if col == nil || len(presets) == 0 {
		return
	}
	i := col.ActiveTileIdx
	cur := 0
	if col.Heights[i].Kind == config.HeightPreset {
		cur = (col.Heights[i].Index + 1) % len(presets)
	}
	col.Heights[i] = config.PresetHeight(cur)
	w.relayout()
}

func (w *Workspace) SetWindowHeight(h config.PresetSize) {
	col := w.ActiveColumn()
	if col == nil {
		return
	}
	col.Heights[col.ActiveTileIdx] = h
	w.relayout()
}

func (w *Workspace) ResetWindowHeight() {
	col := w.ActiveColumn()
	if col == nil {
		return
	}
	col.Heights[col.ActiveTileIdx] = config.AutoHeight()
	w.relayout()
}

// ToggleFullscreen toggles fullscreen on the active column, snapshotting
// the view-offset and active-column index on entry and restoring the
// view-offset on exit. Entering fullscreen requests the active
// tile's window to fullscreenSize (the zero size means "client picks").
func (w *Workspace) ToggleFullscreen(fullscreenSize geom.Size) {
	col := w.ActiveColumn()
	if col == nil {
		return
	}
	if col.Fullscreen {
		col.Fullscreen = false
		if w.FullscreenSnap != nil {
			w.ViewOffset = w.FullscreenSnap.ViewOffset
			w.viewOffsetSpr.Retarget(w.ViewOffset)
			w.FullscreenSnap = nil
		}
		w.relayout()
		return
	}
	w.FullscreenSnap = &FullscreenSnapshot{ViewOffset: w.ViewOffset, ActiveCol: w.ActiveColIdx}
	col.Fullscreen = true
	if t := col.ActiveTile(); t != nil {
		t.Window.RequestFullscreen(fullscreenSize)
	}
	w.relayout()
}

// SetFullscreen forces fullscreen on/off on the active column.
func (w *Workspace) SetFullscreen(on bool, fullscreenSize geom.Size) {
	col := w.ActiveColumn()
	if col == nil || col.Fullscreen == on {
		return
	}
	w.ToggleFullscreen(fullscreenSize)
}

// BeginResize starts an interactive edge resize of the active tile.
func (w *Workspace) BeginResize(edges handle.ResizeEdge, pointer geom.Point, orig geom.Rect) {
	w.Resize = &ResizeState{Edges: edges, StartPoint: pointer, OrigRect: orig}
}

// UpdateResize reports the new rect for the tile under resize given the
// pointer's current position; the caller is responsible for applying it
// to the window handle.
func (w *Workspace) UpdateResize(pointer geom.Point) (geom.Rect, bool) {
	if w.Resize == nil {
		return geom.Rect{}, false
	}
	dx := pointer.X - w.Resize.StartPoint.X
	dy := pointer.Y - w.Resize.StartPoint.Y
	r := w.Resize.OrigRect
	if w.Resize.Edges&handle.EdgeLeft != 0 {
		r.X += dx
		r.W -= dx
	}
	if w.Resize.Edges&handle.EdgeRight != 0 {
		r.W += dx
	}
	if w.Resize.Edges&handle.EdgeTop != 0 {
		r.Y += dy
		r.H -= dy
	}
	if w.Resize.Edges&handle.EdgeBottom != 0 {
		r.H += dy
	}
	return r, true
}

// EndResize clears the in-progress resize.
func (w *Workspace) EndResize() { w.Resize = nil }

// BeginViewGesture starts an X-axis view-offset gesture.
func (w *Workspace) BeginViewGesture(src GestureSource) {
	w.Gesture = &ViewGesture{Source: src, Start: w.ViewOffset}
}

// UpdateViewGesture accumulates pointer delta and applies the rubber-band
// curve at the workspace's scroll extremes, updating
// ViewOffset immediately — gestures are not animated frame to frame; the
// spring only takes over once the gesture ends.
func (w *Workspace) UpdateViewGesture(delta, velocity, maxOffset float64) {
	if w.Gesture == nil {
		return
	}
	w.Gesture.Delta += delta
	w.Gesture.Velocity = velocity
	raw := w.Gesture.Start + w.Gesture.Delta
	if raw < 0 {
		w.ViewOffset = -anim.Band(-raw, 0.02, maxOffset*0.5)
	} else if raw > maxOffset {
		over := raw - maxOffset
		w.ViewOffset = maxOffset + anim.Band(over, 0.02, maxOffset*0.5)
	} else {
		w.ViewOffset = raw
	}
	w.relayout()
}

// EndViewGesture releases the gesture. Cancelled gestures spring back to
// the pre-gesture offset; otherwise the release velocity is projected via
// anim.VelocityDecay to pick the resting position, clamped into range.
func (w *Workspace) EndViewGesture(cancelled bool, maxOffset float64) {
	if w.Gesture == nil {
		return
	}
	var target float64
	if cancelled {
		target = geom.Clamp(w.Gesture.Start, 0, maxOffset)
	} else {
		projected := w.ViewOffset + anim.VelocityDecay(w.Gesture.Velocity, 0.3)
		target = geom.Clamp(projected, 0, maxOffset)
	}
	w.Gesture = nil
	w.viewOffsetSpr.Pos = w.ViewOffset
	w.viewOffsetSpr.Retarget(target)
}

// AnimateViewOffsetTo retargets the view-offset spring directly (used for
// non-gesture scroll-into-view commands).
func (w *Workspace) AnimateViewOffsetTo(target float64) {
	w.viewOffsetSpr.Retarget(target)
}

// Advance steps the view-offset spring and every tile's own animation,
// returning true while anything is still moving.
func (w *Workspace) Advance(dt time.Duration) bool {
	moving := false
	if w.Gesture == nil {
		w.viewOffsetSpr.Step(dt)
		w.ViewOffset = w.viewOffsetSpr.Pos
		if !w.viewOffsetSpr.Settled() {
			moving = true
		}
		w.relayout()
	}
	for _, col := range w.Columns {
		for _, t := range col.Tiles {
			if t.Advance(dt) {
				moving = true
			}
		}
	}
	return moving
}

// InsertPositionAt resolves a logical point (relative to the workspace's
// view, i.e. already shifted by ViewOffset) into an InsertPosition: the
// horizontal position selects the nearest column
// boundary; a central dead-zone fraction of each column's width routes
// into that column instead of splitting it.
//
// colRects gives each existing column's on-screen rect in the same
// coordinate space as p.
func InsertPositionAt(p geom.Point, colRects []geom.Rect) InsertPosition {
	const deadZoneFraction = 0.4 // central 40% of a column routes InColumn

	if len(colRects) == 0 {
		return InsertPosition{NewColumn: true, Index: 0}
	}
	for i, r := range colRects {
		if p.X < r.X {
			return InsertPosition{NewColumn: true, Index: i}
		}
		if p.X <= r.Right() {
			center := r.X + r.W/2
			half := r.W * deadZoneFraction / 2
			if p.X >= center-half && p.X <= center+half {
				return InsertPosition{NewColumn: false, Column: i, Row: 0}
			}
			if p.X < center {
				return InsertPosition{NewColumn: true, Index: i}
			}
			return InsertPosition{NewColumn: true, Index: i + 1}
		}
	}
	return InsertPosition{NewColumn: true, Index: len(colRects)}
}

// TargetViewOffset computes where the view-offset should animate to so
// the active column is visible, honoring the CenterFocusedColumn policy
// and always_center_single_column.
func (w *Workspace) TargetViewOffset(workingAreaWidth float64, colX, colWidth float64, policy config.CenterFocusedColumn, alwaysCenterSingle bool) float64 {
	center := colX + colWidth/2 - workingAreaWidth/2

	shouldCenter := false
	switch policy {
	case config.CenterAlways:
		shouldCenter = true
	case config.CenterOnOverflow:
		shouldCenter = colWidth > workingAreaWidth
	}
	if len(w.Columns) == 1 && alwaysCenterSingle {
		shouldCenter = true
	}
	if shouldCenter {
		return center
	}

	left := colX
	right := colX + colWidth
	view := w.ViewOffset
	if left < view {
		return left
	}
	if right > view+workingAreaWidth {
		return right - workingAreaWidth
	}
	return view
}
