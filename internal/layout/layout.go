// Package layout implements the top-level state machine: MonitorSet and
// Layout route every command, manage output attach/detach, and own the
// interactive-move state. Layout is not internally locked; the caller
// (the compositor's main thread) serializes access, matching the
// single-threaded cooperative scheduling model.
package layout

import (
	"log/slog"
	"strings"
	"time"

	"paneloom/internal/column"
	"paneloom/internal/config"
	"paneloom/internal/geom"
	"paneloom/internal/handle"
	"paneloom/internal/monitor"
	"paneloom/internal/tile"
	"paneloom/internal/workspace"
)

// interactiveMoveStartThresholdSq is the squared pointer displacement
// (in logical pixels) past which a Starting move becomes Moving.
const interactiveMoveStartThresholdSq = 256.0 * 256.0

// MonitorSetKind distinguishes the two MonitorSet variants.
type MonitorSetKind int

const (
	Normal MonitorSetKind = iota
	NoOutputs
)

// MonitorSet is a sum of Normal (monitors attached) and NoOutputs (every
// workspace parked, none attached to a display)
type MonitorSet struct {
	Kind       MonitorSetKind
	Monitors   []*monitor.Monitor
	PrimaryIdx int
	ActiveIdx  int

	Parked []*workspace.Workspace
}

// moveState is the tagged union backing interactive move: exactly one of
// *startingMove or *movingMove is active at a time, enforced by Layout
// only ever holding the interface value.
type moveState interface{ isMoveState() }

type startingMove struct {
	window         handle.WindowID
	ownerWorkspace workspace.ID
	ownerOutput    string
	pointerDelta   geom.Point
	pointerRatio   geom.Point
	windowSize     geom.Size
	windowLoc      geom.Point
}

func (*startingMove) isMoveState() {}

type movingMove struct {
	t            *tile.Tile
	output       string
	pointerPos   geom.Point
	width        config.ColumnWidth
	isFullWidth  bool
	pointerRatio geom.Point
	windowLoc    geom.Point
}

func (*movingMove) isMoveState() {}

// RemovedTile is returned by remove_window when a tile leaves the layout
// entirely (e.g. removed while it was the interactive-move subject).
type RemovedTile struct {
	Tile   *tile.Tile
	Output string
}

// Layout is the root of the engine.
type Layout struct {
	Set      MonitorSet
	IsActive bool
	Move     moveState
	Options  *config.Options

	log *slog.Logger

	// resizeWs/resizeID track the workspace and window of the in-progress
	// interactive resize, if any.
	resizeWs *workspace.Workspace
	resizeID handle.WindowID
}

// New creates an empty Layout with no outputs, everything parked. Soft
// declines are logged at Debug on log; nil discards them.
func New(opts *config.Options, log *slog.Logger) *Layout {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Layout{Set: MonitorSet{Kind: NoOutputs}, Options: opts, log: log}
}

// ---- Output group ----

// AddOutput attaches a new display: the first output adopts every parked
// workspace; later outputs collect the primary's workspaces whose
// original output matches the attaching display.
func (l *Layout) AddOutput(out handle.Output) *monitor.Monitor {
	scaled := l.Options.AdjustedForScale(out.Scale())

	if l.Set.Kind == NoOutputs || len(l.Set.Monitors) == 0 {
		m := monitor.New(out, scaled)
		// Parked workspaces keep their original-output id; only their
		// current output changes.
		m.Workspaces = append([]*workspace.Workspace(nil), l.Set.Parked...)
		l.Set.Parked = nil
		if len(m.Workspaces) == 0 {
			m.Workspaces = []*workspace.Workspace{workspace.New()}
		}
		m.EnsureTrailingEmptyWorkspace()
		m.SyncGeometry()
		l.Set.Kind = Normal
		l.Set.Monitors = []*monitor.Monitor{m}
		l.Set.PrimaryIdx = 0
		l.Set.ActiveIdx = 0
		return m
	}

	m := monitor.New(out, scaled)
	m.Workspaces = nil

	primary := l.Set.Monitors[l.Set.PrimaryIdx]
	var kept []*workspace.Workspace
	var collected []*workspace.Workspace
	switchInterrupted := false
	newActive := primary.ActiveIdx
	for i, ws := range primary.Workspaces {
		if ws.OriginalOutput == out.Name() {
			// Named workspaces survive even when empty; only unnamed empty
			// ones are destroyed rather than relocated.
			if !ws.IsEmpty() || ws.Name != "" {
				collected = append(collected, ws)
			}
			if i <= primary.ActiveIdx && newActive > 0 {
				newActive--
			}
			continue
		}
		kept = append(kept, ws)
	}
	if len(collected) > 0 && primary.Switch != monitor.SwitchIdle {
		primary.Switch = monitor.SwitchIdle
		switchInterrupted = true
	}
	primary.Workspaces = kept
	if len(primary.Workspaces) == 0 {
		primary.Workspaces = []*workspace.Workspace{workspace.New()}
	}
	primary.ActiveIdx = geom.ClampInt(newActive, 0, len(primary.Workspaces)-1)
	primary.EnsureTrailingEmptyWorkspace()
	if switchInterrupted {
		primary.CleanupWorkspaces()
	}
	primary.SyncGeometry()

	m.Workspaces = collected
	m.EnsureTrailingEmptyWorkspace()
	m.SyncGeometry()

	l.Set.Monitors = append(l.Set.Monitors, m)
	return m
}

// RemoveOutput detaches the named output. The last monitor parks its
// surviving workspaces; otherwise they merge into the primary, just
// before its trailing empty workspace.
func (l *Layout) RemoveOutput(name string) {
	idx := l.findMonitor(name)
	if idx < 0 {
		l.log.Debug("remove_output: unknown output", "output", name)
		return
	}
	m := l.Set.Monitors[idx]

	var surviving []*workspace.Workspace
	for _, ws := range m.Workspaces {
		if !ws.IsEmpty() || ws.Name != "" {
			surviving = append(surviving, ws)
		}
	}

	if len(l.Set.Monitors) == 1 {
		for _, ws := range surviving {
			ws.CurrentOutput = ""
		}
		l.Set.Parked = surviving
		l.Set.Monitors = nil
		l.Set.Kind = NoOutputs
		return
	}

	l.Set.Monitors = append(l.Set.Monitors[:idx], l.Set.Monitors[idx+1:]...)
	if l.Set.PrimaryIdx == idx {
		l.Set.PrimaryIdx = 0
	} else if l.Set.PrimaryIdx > idx {
		l.Set.PrimaryIdx--
	}
	if l.Set.ActiveIdx == idx {
		l.Set.ActiveIdx = l.Set.PrimaryIdx
	} else if l.Set.ActiveIdx > idx {
		l.Set.ActiveIdx--
	}

	primary := l.Set.Monitors[l.Set.PrimaryIdx]
	trailingWasActive := primary.ActiveIdx == len(primary.Workspaces)-1
	insertAt := len(primary.Workspaces) - 1
	primary.Workspaces = append(primary.Workspaces[:insertAt],
		append(append([]*workspace.Workspace{}, surviving...), primary.Workspaces[insertAt:]...)...)
	if trailingWasActive {
		primary.ActiveIdx = len(primary.Workspaces) - 1
	}
	primary.SyncGeometry()
}

// FocusOutput makes the named monitor active.
func (l *Layout) FocusOutput(name string) {
	idx := l.findMonitor(name)
	if idx < 0 {
		l.log.Debug("focus_output: unknown output", "output", name)
		return
	}
	l.Set.ActiveIdx = idx
	l.notifyFocus()
}

// ActiveMonitor returns the currently active monitor, or nil if NoOutputs.
func (l *Layout) ActiveMonitor() *monitor.Monitor {
	if l.Set.Kind != Normal || len(l.Set.Monitors) == 0 {
		return nil
	}
	return l.Set.Monitors[l.Set.ActiveIdx]
}

// Outputs lists every attached monitor.
func (l *Layout) Outputs() []*monitor.Monitor { return l.Set.Monitors }

// UpdateOutputSize re-derives the affected monitor's scale-adjusted
// Options after a resolution/scale change.
func (l *Layout) UpdateOutputSize(name string) {
	idx := l.findMonitor(name)
	if idx < 0 {
		return
	}
	m := l.Set.Monitors[idx]
	m.Options = l.Options.AdjustedForScale(m.Output.Scale())
	m.SyncGeometry()
}

// MoveWorkspaceToOutput relocates ws to the monitor named dst, updating
// its original-output id to dst.
func (l *Layout) MoveWorkspaceToOutput(ws *workspace.Workspace, dst string) {
	srcIdx := l.findMonitorOwning(ws)
	dstIdx := l.findMonitor(dst)
	if srcIdx < 0 || dstIdx < 0 || srcIdx == dstIdx {
		l.log.Debug("move_workspace_to_output: nothing to do", "workspace", uint64(ws.WsID), "output", dst)
		return
	}
	src := l.Set.Monitors[srcIdx]
	for i, w := range src.Workspaces {
		if w == ws {
			src.Workspaces = append(src.Workspaces[:i], src.Workspaces[i+1:]...)
			if src.ActiveIdx >= len(src.Workspaces) {
				src.ActiveIdx = len(src.Workspaces) - 1
			}
			break
		}
	}
	src.EnsureTrailingEmptyWorkspace()
	ws.OriginalOutput = dst
	target := l.Set.Monitors[dstIdx]
	insertAt := len(target.Workspaces) - 1
	target.Workspaces = append(target.Workspaces[:insertAt],
		append([]*workspace.Workspace{ws}, target.Workspaces[insertAt:]...)...)
	for _, col := range ws.Columns {
		notifyColumnOutputChange(col, src.Output, target.Output)
	}
	target.SyncGeometry()
	// Focus follows the workspace to its new output.
	target.ActiveIdx = insertAt
	l.Set.ActiveIdx = dstIdx
	l.notifyFocus()
}

// notifyColumnOutputChange emits the output_leave/output_enter pair on
// every window in col when its column crosses outputs.
func notifyColumnOutputChange(col *column.Column, from, to handle.Output) {
	for _, t := range col.Tiles {
		if from != nil {
			t.Window.OutputLeave(from)
		}
		if to != nil {
			t.Window.OutputEnter(to)
		}
	}
}

func (l *Layout) findMonitor(name string) int {
	for i, m := range l.Set.Monitors {
		if m.Output.Name() == name {
			return i
		}
	}
	return -1
}

// findWorkspaceByID locates a workspace (and its owning monitor) by its
// stable identity, which survives relocation across monitors — unlike a *workspace.Workspace pointer equality
// scan, this keeps working after the workspace has been moved elsewhere.
func (l *Layout) findWorkspaceByID(id workspace.ID) (*workspace.Workspace, *monitor.Monitor) {
	for _, m := range l.Set.Monitors {
		for _, ws := range m.Workspaces {
			if ws.WsID == id {
				return ws, m
			}
		}
	}
	return nil, nil
}

func (l *Layout) findMonitorOwning(ws *workspace.Workspace) int {
	for i, m := range l.Set.Monitors {
		for _, w := range m.Workspaces {
			if w == ws {
				return i
			}
		}
	}
	return -1
}

// ---- Window group ----

// AddWindow inserts a window at pos on the target workspace (a new column,
// or a row of an existing column), respecting the default column width
// when opts has one. Without one, a new column takes half the working-area
// width; the window's own preferred width is not used.
func (l *Layout) AddWindow(ws *workspace.Workspace, w handle.Window, pos workspace.InsertPosition) *tile.Tile {
	width := config.ProportionWidth(0.5)
	if l.Options.DefaultColumnWidth != nil {
		width = *l.Options.DefaultColumnWidth
	}
	t := tile.New(w, geom.Rect{}, l.borderWidth())
	ws.AddTile(pos, t, config.AutoHeight(), width)
	l.forgetOriginIfNonOriginalOutput(ws)
	if idx := l.findMonitorOwning(ws); idx >= 0 {
		m := l.Set.Monitors[idx]
		w.OutputEnter(m.Output)
		w.SetBounds(m.Output.LogicalSize())
		m.EnsureTrailingEmptyWorkspace()
	}
	l.notifyFocus()
	return t
}

// AddWindowAt is AddWindow with the insert position resolved from a
// pointer location on ws instead of a pre-built InsertPosition.
func (l *Layout) AddWindowAt(ws *workspace.Workspace, w handle.Window, p geom.Point) *tile.Tile {
	return l.AddWindow(ws, w, ws.InsertPositionForPoint(p))
}

func (l *Layout) borderWidth() float64 {
	if l.Options.BorderCfg.Off {
		return 0
	}
	return l.Options.BorderCfg.Width
}

func (l *Layout) forgetOriginIfNonOriginalOutput(ws *workspace.Workspace) {
	idx := l.findMonitorOwning(ws)
	if idx < 0 {
		return
	}
	m := l.Set.Monitors[idx]
	if ws.OriginalOutput != "" && ws.OriginalOutput != m.Output.Name() {
		ws.OriginalOutput = m.Output.Name()
	}
}

// RemoveWindow removes the window with the given id wherever it lives,
// including when it is the interactive-move subject.
func (l *Layout) RemoveWindow(id handle.WindowID) *RemovedTile {
	if mv, ok := l.Move.(*movingMove); ok && mv.t.Window.ID() == id {
		removed := &RemovedTile{Tile: mv.t, Output: mv.output}
		l.clearInsertHints()
		l.Move = nil
		return removed
	}
	for _, m := range l.Set.Monitors {
		for _, ws := range m.Workspaces {
			for ci, col := range ws.Columns {
				for ri, t := range col.Tiles {
					if t.Window.ID() == id {
						removed := ws.RemoveTile(ci, ri)
						removed.Window.OutputLeave(m.Output)
						m.CleanupWorkspaces()
						l.notifyFocus()
						return &RemovedTile{Tile: removed, Output: m.Output.Name()}
					}
				}
			}
		}
	}
	l.log.Debug("remove_window: window not in layout", "window", uint64(id))
	return nil
}

// FindByID locates a tile by window id across the whole layout.
func (l *Layout) FindByID(id handle.WindowID) *tile.Tile {
	if mv, ok := l.Move.(*movingMove); ok && mv.t.Window.ID() == id {
		return mv.t
	}
	for _, m := range l.Set.Monitors {
		for _, ws := range m.Workspaces {
			for _, col := range ws.Columns {
				for _, t := range col.Tiles {
					if t.Window.ID() == id {
						return t
					}
				}
			}
		}
	}
	return nil
}

// isMoveSubject covers both interactive-move phases, for commands the
// interlock rule declares no-ops while their target is being dragged.
func (l *Layout) isMoveSubject(id handle.WindowID) bool {
	switch mv := l.Move.(type) {
	case *startingMove:
		return mv.window == id
	case *movingMove:
		return mv.t.Window.ID() == id
	}
	return false
}

// Activate focuses the tile with the given id within its column/
// workspace/monitor, a no-op if it is the interactive-move subject.
func (l *Layout) Activate(id handle.WindowID) {
	if l.isMoveSubject(id) {
		l.log.Debug("activate: declined, window is being moved", "window", uint64(id))
		return
	}
	for mi, m := range l.Set.Monitors {
		for wi, ws := range m.Workspaces {
			for ci, col := range ws.Columns {
				for ri, t := range col.Tiles {
					if t.Window.ID() == id {
						col.ActiveTileIdx = ri
						ws.ActiveColIdx = ci
						m.ActiveIdx = wi
						l.Set.ActiveIdx = mi
						l.notifyFocus()
						return
					}
				}
			}
		}
	}
}

// AddWindowRightOf inserts w as a new column immediately to the right of
// the column holding rightOf, on whatever workspace that window lives —
// without moving focus to that workspace or monitor.
func (l *Layout) AddWindowRightOf(rightOf handle.WindowID, w handle.Window) *tile.Tile {
	for _, m := range l.Set.Monitors {
		for _, ws := range m.Workspaces {
			for ci, col := range ws.Columns {
				for _, existing := range col.Tiles {
					if existing.Window.ID() != rightOf {
						continue
					}
					width := config.ProportionWidth(0.5)
					if l.Options.DefaultColumnWidth != nil {
						width = *l.Options.DefaultColumnWidth
					}
					t := tile.New(w, geom.Rect{}, l.borderWidth())
					ws.AddColumn(ci+1, column.New(t, width))
					l.forgetOriginIfNonOriginalOutput(ws)
					w.OutputEnter(m.Output)
					w.SetBounds(m.Output.LogicalSize())
					m.EnsureTrailingEmptyWorkspace()
					return t
				}
			}
		}
	}
	return nil
}

// AddWindowOnOutput adds w to the named output's active workspace.
func (l *Layout) AddWindowOnOutput(name string, w handle.Window) *tile.Tile {
	idx := l.findMonitor(name)
	if idx < 0 {
		return nil
	}
	ws := l.Set.Monitors[idx].ActiveWorkspace()
	return l.AddWindow(ws, w, workspace.InsertPosition{NewColumn: true, Index: len(ws.Columns)})
}

// AddWindowToNamedWorkspace adds w to the workspace named wsName,
// creating it (on the active output) if it does not exist yet.
func (l *Layout) AddWindowToNamedWorkspace(wsName string, w handle.Window) *tile.Tile {
	ws := l.EnsureNamedWorkspace(wsName, "")
	if ws == nil {
		return nil
	}
	return l.AddWindow(ws, w, workspace.InsertPosition{NewColumn: true, Index: len(ws.Columns)})
}

// UpdateWindow reacts to the window with the given id having reconfigured
// its surface: its owning workspace re-lays out, unless the window's
// configure intent says the change is being throttled and resize
// throttling is enabled.
func (l *Layout) UpdateWindow(id handle.WindowID) {
	t := l.FindByID(id)
	if t == nil {
		return
	}
	if t.Window.ConfigureIntent() == handle.ConfigureThrottled && !l.Options.DisableResizeThrottling {
		return
	}
	if ws, _ := l.findWorkspaceOwningWindow(id); ws != nil {
		ws.Relayout()
	}
}

// BeginWindowClose snapshots the window's tile ahead of unmap and returns
// the transaction blocker gating its teardown, or nil when transactions
// are disabled.
func (l *Layout) BeginWindowClose(id handle.WindowID) *handle.TransactionBlocker {
	t := l.FindByID(id)
	if t == nil || l.isMoveSubject(id) {
		return nil
	}
	if l.Options.DisableTransactions {
		return nil
	}
	return t.BeginClose()
}

func (l *Layout) findWorkspaceOwningWindow(id handle.WindowID) (*workspace.Workspace, *monitor.Monitor) {
	for _, m := range l.Set.Monitors {
		for _, ws := range m.Workspaces {
			for _, col := range ws.Columns {
				for _, t := range col.Tiles {
					if t.Window.ID() == id {
						return ws, m
					}
				}
			}
		}
	}
	return nil, nil
}

// ---- Width / height / fullscreen group ----

// activeWorkspaceForWindowCommand resolves the active workspace, declining
// when its active tile is the interactive-move subject.
func (l *Layout) activeWorkspaceForWindowCommand() *workspace.Workspace {
	m := l.ActiveMonitor()
	if m == nil {
		return nil
	}
	ws := m.ActiveWorkspace()
	if col := ws.ActiveColumn(); col != nil {
		if t := col.ActiveTile(); t != nil && l.isMoveSubject(t.Window.ID()) {
			l.log.Debug("declined, active window is being moved", "window", uint64(t.Window.ID()))
			return nil
		}
	}
	return ws
}

// ToggleColumnWidth cycles the active column through the configured width
// presets.
func (l *Layout) ToggleColumnWidth() {
	if ws := l.activeWorkspaceForWindowCommand(); ws != nil {
		ws.ToggleColumnWidth(l.Options.PresetColumnWidths)
	}
}

// SetColumnWidth sets an explicit width on the active column.
func (l *Layout) SetColumnWidth(w config.ColumnWidth) {
	if ws := l.activeWorkspaceForWindowCommand(); ws != nil {
		ws.SetColumnWidth(w)
	}
}

// ToggleFullWidth flips the active column's full-width override.
func (l *Layout) ToggleFullWidth() {
	ws := l.activeWorkspaceForWindowCommand()
	if ws == nil {
		return
	}
	if col := ws.ActiveColumn(); col != nil {
		col.FullWidth = !col.FullWidth
		ws.Relayout()
	}
}

// ToggleWindowHeight cycles the active tile through the configured height
// presets.
func (l *Layout) ToggleWindowHeight() {
	if ws := l.activeWorkspaceForWindowCommand(); ws != nil {
		ws.ToggleWindowHeight(l.Options.PresetWindowHeights)
	}
}

// SetWindowHeight sets an explicit height spec on the active tile.
func (l *Layout) SetWindowHeight(h config.PresetSize) {
	if ws := l.activeWorkspaceForWindowCommand(); ws != nil {
		ws.SetWindowHeight(h)
	}
}

// ResetWindowHeight returns the active tile's height to auto.
func (l *Layout) ResetWindowHeight() {
	if ws := l.activeWorkspaceForWindowCommand(); ws != nil {
		ws.ResetWindowHeight()
	}
}

// ToggleFullscreen toggles fullscreen on the active column.
func (l *Layout) ToggleFullscreen() {
	ws := l.activeWorkspaceForWindowCommand()
	if ws == nil {
		return
	}
	m := l.ActiveMonitor()
	ws.ToggleFullscreen(m.Output.LogicalSize())
}

// SetFullscreen forces fullscreen on or off for the window with the given
// id, focusing it first; a no-op if the window is absent or being moved.
func (l *Layout) SetFullscreen(id handle.WindowID, on bool) {
	if l.isMoveSubject(id) {
		return
	}
	ws, m := l.findWorkspaceOwningWindow(id)
	if ws == nil {
		return
	}
	for ci, col := range ws.Columns {
		for ri, t := range col.Tiles {
			if t.Window.ID() == id {
				ws.ActiveColIdx = ci
				col.ActiveTileIdx = ri
			}
		}
	}
	ws.SetFullscreen(on, m.Output.LogicalSize())
}

// ---- Interactive resize group ----

// InteractiveResizeBegin starts an edge resize of the window with the
// given id, declining if it is being interactively moved or a resize is
// already in progress. Reports whether the resize started.
func (l *Layout) InteractiveResizeBegin(id handle.WindowID, edges handle.ResizeEdge, pointer geom.Point) bool {
	if l.isMoveSubject(id) || l.resizeWs != nil {
		l.log.Debug("interactive_resize_begin: declined", "window", uint64(id))
		return false
	}
	ws, _ := l.findWorkspaceOwningWindow(id)
	if ws == nil {
		l.log.Debug("interactive_resize_begin: window not in layout", "window", uint64(id))
		return false
	}
	t := l.FindByID(id)
	ws.BeginResize(edges, pointer, t.Target)
	l.resizeWs = ws
	l.resizeID = id
	return true
}

// InteractiveResizeUpdate applies the pointer's current position to the
// in-progress resize: the dragged edges move, the resulting size is
// clamped to the window's min/max hints, and the column width / tile
// height specs are updated so the layout re-resolves around it.
func (l *Layout) InteractiveResizeUpdate(pointer geom.Point) {
	ws := l.resizeWs
	if ws == nil {
		return
	}
	r, ok := ws.UpdateResize(pointer)
	if !ok {
		return
	}
	t := l.FindByID(l.resizeID)
	if t == nil {
		l.InteractiveResizeEnd()
		return
	}
	minSz, maxSz := t.Window.MinSize(), t.Window.MaxSize()
	w := geom.Clamp(r.W, minSz.W, maxSz.W)
	h := geom.Clamp(r.H, minSz.H, maxSz.H)

	edges := ws.Resize.Edges
	for _, col := range ws.Columns {
		for ri, ct := range col.Tiles {
			if ct != t {
				continue
			}
			if edges&(handle.EdgeLeft|handle.EdgeRight) != 0 {
				col.SetWidth(config.FixedWidth(w))
			}
			if edges&(handle.EdgeTop|handle.EdgeBottom) != 0 {
				col.Heights[ri] = config.FixedHeight(h)
			}
		}
	}
	ws.Relayout()
}

// InteractiveResizeEnd concludes the in-progress resize; a no-op when
// none is active.
func (l *Layout) InteractiveResizeEnd() {
	if l.resizeWs == nil {
		return
	}
	l.resizeWs.EndResize()
	l.resizeWs = nil
	l.resizeID = 0
}

// ---- Workspace switching group ----

// SwitchWorkspace animates the active monitor to workspace index i.
func (l *Layout) SwitchWorkspace(i int) {
	if m := l.ActiveMonitor(); m != nil {
		m.SwitchWorkspace(i)
		l.notifyFocus()
	}
}

// SwitchWorkspaceInstant jumps the active monitor to workspace index i
// with no animation.
func (l *Layout) SwitchWorkspaceInstant(i int) {
	if m := l.ActiveMonitor(); m != nil {
		m.SwitchWorkspaceInstant(i)
		l.notifyFocus()
	}
}

// SwitchWorkspacePrevious returns to the active monitor's previously
// active workspace.
func (l *Layout) SwitchWorkspacePrevious() {
	if m := l.ActiveMonitor(); m != nil {
		m.SwitchToPrevious()
		l.notifyFocus()
	}
}

// SwitchWorkspaceAutoBackForth switches to i, or back to where the last
// auto-back-forth switch came from when invoked twice on the same target.
func (l *Layout) SwitchWorkspaceAutoBackForth(i int) {
	if m := l.ActiveMonitor(); m != nil {
		m.SwitchAutoBackForth(i)
		l.notifyFocus()
	}
}

// SwitchWorkspaceByName focuses the workspace with the given
// case-insensitive name, wherever it lives, moving monitor focus along.
func (l *Layout) SwitchWorkspaceByName(name string) {
	ws, m := l.FindWorkspaceByName(name)
	if ws == nil {
		return
	}
	for mi, mon := range l.Set.Monitors {
		if mon == m {
			l.Set.ActiveIdx = mi
		}
	}
	for wi, w := range m.Workspaces {
		if w == ws {
			m.SwitchWorkspace(wi)
		}
	}
	l.notifyFocus()
}

// FindWorkspaceByName locates a workspace by case-insensitive name.
func (l *Layout) FindWorkspaceByName(name string) (*workspace.Workspace, *monitor.Monitor) {
	for _, m := range l.Set.Monitors {
		for _, ws := range m.Workspaces {
			if ws.Name != "" && strings.EqualFold(ws.Name, name) {
				return ws, m
			}
		}
	}
	for _, ws := range l.Set.Parked {
		if ws.Name != "" && strings.EqualFold(ws.Name, name) {
			return ws, nil
		}
	}
	return nil, nil
}

// EnsureNamedWorkspace returns the workspace with the given name,
// creating it if needed: the new workspace is inserted at position 0 of
// the named output (or the active output, or the primary), advancing the
// host's active index so focus does not shift.
func (l *Layout) EnsureNamedWorkspace(name, outputName string) *workspace.Workspace {
	if name == "" {
		return nil
	}
	if ws, _ := l.FindWorkspaceByName(name); ws != nil {
		return ws
	}
	ws := workspace.New()
	ws.Name = name

	if l.Set.Kind != Normal || len(l.Set.Monitors) == 0 {
		l.Set.Parked = append([]*workspace.Workspace{ws}, l.Set.Parked...)
		return ws
	}
	idx := l.findMonitor(outputName)
	if idx < 0 {
		idx = l.Set.ActiveIdx
	}
	if idx < 0 || idx >= len(l.Set.Monitors) {
		idx = l.Set.PrimaryIdx
	}
	m := l.Set.Monitors[idx]
	ws.OriginalOutput = m.Output.Name()
	m.Workspaces = append([]*workspace.Workspace{ws}, m.Workspaces...)
	m.ActiveIdx++
	m.SyncGeometry()
	return ws
}

// ---- Window-to-workspace moves ----

// MoveWindowToWorkspaceUp/Down relocate only the active tile (not its
// whole column) to the neighbouring workspace, following it with focus.
func (l *Layout) MoveWindowToWorkspaceUp() { l.moveWindowToWorkspaceRelative(-1) }

func (l *Layout) MoveWindowToWorkspaceDown() { l.moveWindowToWorkspaceRelative(1) }

func (l *Layout) moveWindowToWorkspaceRelative(dir int) {
	m := l.ActiveMonitor()
	if m == nil {
		return
	}
	l.moveActiveWindowToWorkspaceIndex(m, m.ActiveIdx+dir)
}

// MoveWindowToWorkspaceByIndex relocates the active tile to the given
// workspace index on the active monitor.
func (l *Layout) MoveWindowToWorkspaceByIndex(idx int) {
	if m := l.ActiveMonitor(); m != nil {
		l.moveActiveWindowToWorkspaceIndex(m, idx)
	}
}

func (l *Layout) moveActiveWindowToWorkspaceIndex(m *monitor.Monitor, target int) {
	if target < 0 || target >= len(m.Workspaces) || target == m.ActiveIdx {
		return
	}
	src := m.ActiveWorkspace()
	col := src.ActiveColumn()
	if col == nil {
		return
	}
	t := col.ActiveTile()
	if t == nil || l.isMoveSubject(t.Window.ID()) {
		return
	}
	width := col.Width
	src.RemoveTile(src.ActiveColIdx, col.ActiveTileIdx)
	dst := m.Workspaces[target]
	dst.AddTile(workspace.InsertPosition{NewColumn: true, Index: len(dst.Columns)}, t, config.AutoHeight(), width)
	l.forgetOriginIfNonOriginalOutput(dst)
	m.ActiveIdx = target
	m.EnsureTrailingEmptyWorkspace()
	m.CleanupWorkspaces()
	l.notifyFocus()
}

// MoveWindowToWorkspaceOnOutput relocates the active tile to the named
// output's workspace at idx, following it with monitor focus.
func (l *Layout) MoveWindowToWorkspaceOnOutput(name string, idx int) {
	dstIdx := l.findMonitor(name)
	srcM := l.ActiveMonitor()
	if dstIdx < 0 || srcM == nil {
		return
	}
	dstM := l.Set.Monitors[dstIdx]
	if dstM == srcM {
		l.moveActiveWindowToWorkspaceIndex(srcM, idx)
		return
	}
	if idx < 0 || idx >= len(dstM.Workspaces) {
		return
	}
	src := srcM.ActiveWorkspace()
	col := src.ActiveColumn()
	if col == nil {
		return
	}
	t := col.ActiveTile()
	if t == nil || l.isMoveSubject(t.Window.ID()) {
		return
	}
	width := col.Width
	src.RemoveTile(src.ActiveColIdx, col.ActiveTileIdx)
	srcM.CleanupWorkspaces()
	dst := dstM.Workspaces[idx]
	dst.AddTile(workspace.InsertPosition{NewColumn: true, Index: len(dst.Columns)}, t, config.AutoHeight(), width)
	t.Window.OutputLeave(srcM.Output)
	t.Window.OutputEnter(dstM.Output)
	l.forgetOriginIfNonOriginalOutput(dst)
	dstM.EnsureTrailingEmptyWorkspace()
	dstM.ActiveIdx = idx
	l.Set.ActiveIdx = dstIdx
	l.notifyFocus()
}

// ---- Gesture group ----

// WorkspaceSwitchGestureBegin starts the vertical workspace-switch
// gesture on the active monitor.
func (l *Layout) WorkspaceSwitchGestureBegin(src workspace.GestureSource) {
	if m := l.ActiveMonitor(); m != nil {
		m.BeginGesture(src)
	}
}

// WorkspaceSwitchGestureUpdate feeds the gesture a fractional-index delta
// and the finger's current velocity.
func (l *Layout) WorkspaceSwitchGestureUpdate(delta, velocity float64) {
	if m := l.ActiveMonitor(); m != nil {
		m.UpdateGesture(delta, velocity)
	}
}

// WorkspaceSwitchGestureEnd releases (or cancels) the gesture.
func (l *Layout) WorkspaceSwitchGestureEnd(cancelled bool) {
	if m := l.ActiveMonitor(); m != nil {
		m.EndGesture(cancelled)
		l.notifyFocus()
	}
}

// ViewOffsetGestureBegin starts the horizontal view-offset gesture on the
// active workspace.
func (l *Layout) ViewOffsetGestureBegin(src workspace.GestureSource) {
	if m := l.ActiveMonitor(); m != nil {
		m.ActiveWorkspace().BeginViewGesture(src)
	}
}

// ViewOffsetGestureUpdate feeds the gesture a pointer delta in logical
// pixels.
func (l *Layout) ViewOffsetGestureUpdate(delta, velocity float64) {
	m := l.ActiveMonitor()
	if m == nil {
		return
	}
	ws := m.ActiveWorkspace()
	ws.UpdateViewGesture(delta, velocity, ws.MaxViewOffset())
}

// ViewOffsetGestureEnd releases (or cancels) the gesture.
func (l *Layout) ViewOffsetGestureEnd(cancelled bool) {
	m := l.ActiveMonitor()
	if m == nil {
		return
	}
	ws := m.ActiveWorkspace()
	ws.EndViewGesture(cancelled, ws.MaxViewOffset())
}

// ---- Render query ----

// ElementKind tags one drawable primitive emitted by RenderElements.
type ElementKind int

const (
	ElementTile ElementKind = iota
	ElementFocusRing
	ElementInsertHint
	ElementCloseSnapshot
)

// RenderElement is one drawable primitive: what to render where, pulled
// by the compositor once per frame per output.
type RenderElement struct {
	Kind     ElementKind
	WindowID handle.WindowID
	Rect     geom.Rect
	Active   bool
}

// RenderElements walks the named output's active workspace bottom to top.
// For each tile it emits the focus ring (active tile only, beneath the
// tile), the tile at its animated render rect, then its close snapshot
// while still gated by its blocker. The insert hint follows when a drag
// hovers the workspace. The interactive-move tile renders last, on top,
// when it is on this output.
func (l *Layout) RenderElements(outputName string) []RenderElement {
	idx := l.findMonitor(outputName)
	if idx < 0 {
		return nil
	}
	m := l.Set.Monitors[idx]
	ws := m.ActiveWorkspace()

	var els []RenderElement
	for ci, col := range ws.Columns {
		for ti, t := range col.Tiles {
			active := ci == ws.ActiveColIdx && ti == col.ActiveTileIdx
			if active && !l.Options.FocusRingCfg.Off {
				ring := t.RenderRect()
				rw := m.Options.FocusRingCfg.Width
				ring.X -= rw
				ring.Y -= rw
				ring.W += 2 * rw
				ring.H += 2 * rw
				els = append(els, RenderElement{Kind: ElementFocusRing, WindowID: t.Window.ID(), Rect: ring, Active: true})
			}
			els = append(els, RenderElement{Kind: ElementTile, WindowID: t.Window.ID(), Rect: t.RenderRect(), Active: active})
			if t.CloseSnapshot != nil && !t.CloseSnapshot.Blocker.IsReady() {
				els = append(els, RenderElement{Kind: ElementCloseSnapshot, WindowID: t.Window.ID(), Rect: t.CloseSnapshot.Rect})
			}
		}
	}
	if ws.Hint != nil {
		els = append(els, RenderElement{Kind: ElementInsertHint, Rect: ws.Hint.Rect})
	}
	if mv, ok := l.Move.(*movingMove); ok && mv.output == outputName {
		els = append(els, RenderElement{Kind: ElementTile, WindowID: mv.t.Window.ID(), Rect: mv.t.RenderRect(), Active: true})
	}
	return els
}

// ---- Focus group ----

// FocusColumnLeft/Right move focus within the active workspace's column
// sequence. At an edge, they fall back to focusing the neighbouring
// output, if any "output-fallback variants".
func (l *Layout) FocusColumnLeft() {
	m := l.ActiveMonitor()
	if m == nil {
		return
	}
	if !m.ActiveWorkspace().FocusColumnLeft() {
		l.focusOutputRelative(-1)
	}
	l.notifyFocus()
}

func (l *Layout) FocusColumnRight() {
	m := l.ActiveMonitor()
	if m == nil {
		return
	}
	if !m.ActiveWorkspace().FocusColumnRight() {
		l.focusOutputRelative(1)
	}
	l.notifyFocus()
}

// FocusColumnLeftOrLast/RightOrFirst wrap within the workspace instead of
// falling back to another output.
func (l *Layout) FocusColumnLeftOrLast() {
	if m := l.ActiveMonitor(); m != nil {
		m.ActiveWorkspace().FocusColumnLeftOrLast()
		l.notifyFocus()
	}
}

func (l *Layout) FocusColumnRightOrFirst() {
	if m := l.ActiveMonitor(); m != nil {
		m.ActiveWorkspace().FocusColumnRightOrFirst()
		l.notifyFocus()
	}
}

func (l *Layout) FocusColumnFirst() {
	if m := l.ActiveMonitor(); m != nil {
		m.ActiveWorkspace().FocusColumnFirst()
		l.notifyFocus()
	}
}

func (l *Layout) FocusColumnLast() {
	if m := l.ActiveMonitor(); m != nil {
		m.ActiveWorkspace().FocusColumnLast()
		l.notifyFocus()
	}
}

// FocusWindowUp/Down try to move within the active column first, falling
// back to a column move.
func (l *Layout) FocusWindowUp() {
	m := l.ActiveMonitor()
	if m == nil {
		return
	}
	if !m.ActiveWorkspace().FocusWindowUp() {
		m.ActiveWorkspace().FocusColumnLeft()
	}
	l.notifyFocus()
}

func (l *Layout) FocusWindowDown() {
	m := l.ActiveMonitor()
	if m == nil {
		return
	}
	if !m.ActiveWorkspace().FocusWindowDown() {
		m.ActiveWorkspace().FocusColumnRight()
	}
	l.notifyFocus()
}

// FocusWorkspaceUp/Down try to move within the active column first,
// falling back to switching workspace.
func (l *Layout) FocusWorkspaceUp() {
	m := l.ActiveMonitor()
	if m == nil {
		return
	}
	m.FocusUp(m.ActiveWorkspace().FocusWindowUp())
	l.notifyFocus()
}

func (l *Layout) FocusWorkspaceDown() {
	m := l.ActiveMonitor()
	if m == nil {
		return
	}
	m.FocusDown(m.ActiveWorkspace().FocusWindowDown())
	l.notifyFocus()
}

func (l *Layout) focusOutputRelative(dir int) {
	if l.Set.Kind != Normal || len(l.Set.Monitors) < 2 {
		return
	}
	next := l.Set.ActiveIdx + dir
	if next < 0 || next >= len(l.Set.Monitors) {
		return
	}
	l.Set.ActiveIdx = next
}

// ---- Move group ----

// MoveColumnToOutput relocates the active column from the active
// workspace's monitor to the named output's active workspace.
func (l *Layout) MoveColumnToOutput(name string) {
	srcM := l.ActiveMonitor()
	dstIdx := l.findMonitor(name)
	if srcM == nil || dstIdx < 0 {
		return
	}
	dstM := l.Set.Monitors[dstIdx]
	if dstM == srcM {
		return
	}
	ws := srcM.ActiveWorkspace()
	col := ws.ActiveColumn()
	if col == nil {
		return
	}
	idx := ws.ActiveColIdx
	ws.RemoveColumnAt(idx)
	srcM.CleanupWorkspaces()
	dstWs := dstM.ActiveWorkspace()
	dstWs.AddColumn(len(dstWs.Columns), col)
	notifyColumnOutputChange(col, srcM.Output, dstM.Output)
	l.forgetOriginIfNonOriginalOutput(dstWs)
	dstM.EnsureTrailingEmptyWorkspace()
	l.Set.ActiveIdx = dstIdx
	l.notifyFocus()
}

// MoveColumnLeft/Right/First/Last reorder the active column within the
// active workspace.
func (l *Layout) MoveColumnLeft() {
	if ws := l.activeWorkspaceForWindowCommand(); ws != nil {
		ws.MoveColumnLeft()
	}
}

func (l *Layout) MoveColumnRight() {
	if ws := l.activeWorkspaceForWindowCommand(); ws != nil {
		ws.MoveColumnRight()
	}
}

func (l *Layout) MoveColumnToFirst() {
	if ws := l.activeWorkspaceForWindowCommand(); ws != nil {
		ws.MoveColumnToFirst()
	}
}

func (l *Layout) MoveColumnToLast() {
	if ws := l.activeWorkspaceForWindowCommand(); ws != nil {
		ws.MoveColumnToLast()
	}
}

// MoveTileUp/Down reorder the active tile within its column.
func (l *Layout) MoveTileUp() {
	if ws := l.activeWorkspaceForWindowCommand(); ws != nil {
		ws.MoveTileUp()
	}
}

func (l *Layout) MoveTileDown() {
	if ws := l.activeWorkspaceForWindowCommand(); ws != nil {
		ws.MoveTileDown()
	}
}

// ConsumeLeft merges the active column into its left neighbour;
// ExpelRight pops the active tile out into its own column.
func (l *Layout) ConsumeLeft() {
	if ws := l.activeWorkspaceForWindowCommand(); ws != nil {
		ws.ConsumeLeft()
		l.notifyFocus()
	}
}

func (l *Layout) ExpelRight() {
	if ws := l.activeWorkspaceForWindowCommand(); ws != nil {
		ws.ExpelRight()
		l.notifyFocus()
	}
}

// MoveColumnToWorkspaceUp/Down relocate the active column to the
// neighbouring workspace on the same monitor.
func (l *Layout) MoveColumnToWorkspaceUp() { l.moveColumnToWorkspaceRelative(-1) }

func (l *Layout) MoveColumnToWorkspaceDown() { l.moveColumnToWorkspaceRelative(1) }

func (l *Layout) moveColumnToWorkspaceRelative(dir int) {
	m := l.ActiveMonitor()
	if m == nil {
		return
	}
	target := m.ActiveIdx + dir
	l.moveActiveColumnToWorkspaceIndex(m, target)
}

// MoveColumnToWorkspaceByIndex relocates the active column to the
// given workspace index on the active monitor.
func (l *Layout) MoveColumnToWorkspaceByIndex(idx int) {
	if m := l.ActiveMonitor(); m != nil {
		l.moveActiveColumnToWorkspaceIndex(m, idx)
	}
}

func (l *Layout) moveActiveColumnToWorkspaceIndex(m *monitor.Monitor, target int) {
	if target < 0 || target >= len(m.Workspaces) || target == m.ActiveIdx {
		l.log.Debug("move_column_to_workspace: nothing to do", "target", target)
		return
	}
	src := m.ActiveWorkspace()
	col := src.ActiveColumn()
	if col == nil {
		return
	}
	idx := src.ActiveColIdx
	src.RemoveColumnAt(idx)
	dst := m.Workspaces[target]
	dst.AddColumn(len(dst.Columns), col)
	m.CleanupWorkspaces()
}

// MoveColumnToWorkspaceOnOutput relocates the active column to the named
// output's workspace at idx.
func (l *Layout) MoveColumnToWorkspaceOnOutput(name string, idx int) {
	dstIdx := l.findMonitor(name)
	srcM := l.ActiveMonitor()
	if dstIdx < 0 || srcM == nil {
		return
	}
	dstM := l.Set.Monitors[dstIdx]
	if idx < 0 || idx >= len(dstM.Workspaces) {
		return
	}
	src := srcM.ActiveWorkspace()
	col := src.ActiveColumn()
	if col == nil {
		return
	}
	colIdx := src.ActiveColIdx
	src.RemoveColumnAt(colIdx)
	srcM.CleanupWorkspaces()
	dst := dstM.Workspaces[idx]
	dst.AddColumn(len(dst.Columns), col)
	if dstM != srcM {
		notifyColumnOutputChange(col, srcM.Output, dstM.Output)
	}
	l.forgetOriginIfNonOriginalOutput(dst)
	dstM.EnsureTrailingEmptyWorkspace()
}

// MoveWorkspaceUp/Down swap the active workspace with its neighbour in
// the monitor's workspace list, keeping it active.
func (l *Layout) MoveWorkspaceUp() { l.moveWorkspaceRelative(-1) }

func (l *Layout) MoveWorkspaceDown() { l.moveWorkspaceRelative(1) }

func (l *Layout) moveWorkspaceRelative(dir int) {
	m := l.ActiveMonitor()
	if m == nil {
		return
	}
	i := m.ActiveIdx
	j := i + dir
	if j < 0 || j >= len(m.Workspaces) {
		return
	}
	m.Workspaces[i], m.Workspaces[j] = m.Workspaces[j], m.Workspaces[i]
	m.ActiveIdx = j
	m.CleanupWorkspaces()
}

// MoveActiveWorkspaceToOutput is MoveWorkspaceToOutput applied to the
// active monitor's active workspace.
func (l *Layout) MoveActiveWorkspaceToOutput(name string) {
	if m := l.ActiveMonitor(); m != nil {
		l.MoveWorkspaceToOutput(m.ActiveWorkspace(), name)
	}
}

// ---- Frame group ----

// AdvanceAnimations is the single entry point where animation progress
// changes ( ordering guarantee (c)).
func (l *Layout) AdvanceAnimations(dt time.Duration) bool {
	moving := false
	for _, m := range l.Set.Monitors {
		if m.Advance(dt) {
			moving = true
		}
	}
	return moving
}

// Refresh ends any active view-offset gesture on non-active workspaces,
// cancellation/timeout rule, and re-syncs the per-window
// focus flags.
func (l *Layout) Refresh(isActive bool) {
	l.IsActive = isActive
	for mi, m := range l.Set.Monitors {
		for wi, ws := range m.Workspaces {
			if mi == l.Set.ActiveIdx && wi == m.ActiveIdx {
				continue
			}
			if ws.Gesture != nil {
				ws.EndViewGesture(false, ws.MaxViewOffset())
			}
		}
	}
	l.notifyFocus()
}

// UpdateConfig replaces the shared Options snapshot atomically and
// re-derives every monitor's scale-adjusted copy.
func (l *Layout) UpdateConfig(opts *config.Options) {
	l.Options = opts
	for _, m := range l.Set.Monitors {
		m.Options = opts.AdjustedForScale(m.Output.Scale())
		m.SyncGeometry()
	}
}

// notifyFocus pushes the activated / active-in-column flags down to every
// window handle after a focus-affecting command.
func (l *Layout) notifyFocus() {
	var active *tile.Tile
	if m := l.ActiveMonitor(); m != nil {
		if col := m.ActiveWorkspace().ActiveColumn(); col != nil {
			active = col.ActiveTile()
		}
	}
	for _, m := range l.Set.Monitors {
		for _, ws := range m.Workspaces {
			for _, c := range ws.Columns {
				for i, t := range c.Tiles {
					t.Window.SetActiveInColumn(i == c.ActiveTileIdx)
					t.Window.SetActivated(t == active)
				}
			}
		}
	}
}

// ---- Interactive move ----

// InteractiveMoveBegin starts a Starting move on tile t, a no-op if a
// move is already in progress.
func (l *Layout) InteractiveMoveBegin(ws *workspace.Workspace, out string, t *tile.Tile, ratio geom.Point) {
	if l.Move != nil {
		l.log.Debug("interactive_move_begin: move already in progress", "window", uint64(t.Window.ID()))
		return
	}
	l.Move = &startingMove{
		window:         t.Window.ID(),
		ownerWorkspace: ws.WsID,
		ownerOutput:    out,
		pointerRatio:   ratio,
		windowSize:     t.Window.Size(),
		windowLoc:      t.Target.Pos(),
	}
}

// InteractiveMoveUpdate advances the move state with the pointer's
// accumulated delta since begin, transitioning Starting to Moving once
// squared displacement reaches the threshold. Once Moving,
// it recomputes and assigns the tile's Target every call from the
// pointer, its ratio within the window, and the tile's render offset,
// rounded to physical pixels at the current output's scale.
func (l *Layout) InteractiveMoveUpdate(delta geom.Point, pointerPos geom.Point, out string, t *tile.Tile) geom.Point {
	switch mv := l.Move.(type) {
	case *startingMove:
		mv.pointerDelta = delta
		distSq := delta.X*delta.X + delta.Y*delta.Y
		if distSq >= interactiveMoveStartThresholdSq {
			width := config.ProportionWidth(0.5)
			isFullWidth := false
			if ws, _ := l.findWorkspaceByID(mv.ownerWorkspace); ws != nil {
				if w, fw, ok := ws.ExtractTile(t); ok {
					width, isFullWidth = w, fw
				}
			}
			if t.Window.IsPendingFullscreen() {
				t.Window.RequestSize(geom.Size{}, false, nil)
			}
			t.InteractiveMoveOffset = geom.Point{}
			next := &movingMove{
				t:            t,
				output:       mv.ownerOutput,
				pointerPos:   pointerPos,
				width:        width,
				isFullWidth:  isFullWidth,
				pointerRatio: mv.pointerRatio,
				windowLoc:    mv.windowLoc,
			}
			l.Move = next
			l.crossOutput(next, out)
			l.applyMovingTarget(next)
			l.updateInsertHint(next)
			return geom.Point{}
		}
		band := rubberBandMove(distSq)
		offset := geom.Point{X: delta.X * band, Y: delta.Y * band}
		t.InteractiveMoveOffset = offset
		return offset
	case *movingMove:
		l.crossOutput(mv, out)
		mv.pointerPos = pointerPos
		l.applyMovingTarget(mv)
		l.updateInsertHint(mv)
		return geom.Point{}
	}
	return geom.Point{}
}

// crossOutput handles the moving tile crossing onto another output:
// output_leave then output_enter on the window, the tile's border width
// rederived at the destination's scale-adjusted Options, and monitor
// focus following the drag.
func (l *Layout) crossOutput(mv *movingMove, out string) {
	if mv.output == out {
		return
	}
	if oldIdx := l.findMonitor(mv.output); oldIdx >= 0 {
		mv.t.Window.OutputLeave(l.Set.Monitors[oldIdx].Output)
	}
	if newIdx := l.findMonitor(out); newIdx >= 0 {
		newMon := l.Set.Monitors[newIdx]
		mv.t.Window.OutputEnter(newMon.Output)
		bw := newMon.Options.BorderCfg.Width
		if newMon.Options.BorderCfg.Off {
			bw = 0
		}
		mv.t.BorderWidth = bw
		l.Set.ActiveIdx = newIdx
	}
	mv.output = out
}

// updateInsertHint shows the drop-target overlay on the workspace under
// the moving tile's pointer, clearing it everywhere else.
func (l *Layout) updateInsertHint(mv *movingMove) {
	for _, m := range l.Set.Monitors {
		for _, ws := range m.Workspaces {
			if m.Output.Name() == mv.output && ws == m.ActiveWorkspace() {
				pos := ws.InsertPositionForPoint(mv.pointerPos)
				ws.SetInsertHint(pos, geom.Rect{
					X: mv.t.Target.X, Y: mv.t.Target.Y,
					W: mv.t.Target.W, H: mv.t.Target.H,
				})
				continue
			}
			ws.ClearInsertHint()
		}
	}
}

// applyMovingTarget assigns the Moving tile's rendered position per
// : pointer_pos − pointer_ratio·window_size − window_loc +
// render_offset, rounded to physical pixels at the current output's
// fractional scale.
func (l *Layout) applyMovingTarget(mv *movingMove) {
	size := mv.t.Window.Size()
	offset := mv.t.RenderOffset()
	x := mv.pointerPos.X - mv.pointerRatio.X*size.W - mv.windowLoc.X + offset.X
	y := mv.pointerPos.Y - mv.pointerRatio.Y*size.H - mv.windowLoc.Y + offset.Y

	scale := 1.0
	if idx := l.findMonitor(mv.output); idx >= 0 {
		scale = l.Set.Monitors[idx].Output.Scale()
	}
	eff := mv.t.EffectiveSize()
	target := geom.Rect{
		X: geom.RoundToPhysical(x, scale),
		Y: geom.RoundToPhysical(y, scale),
		W: eff.W,
		H: eff.H,
	}
	mv.t.SetTarget(target, false)
}

// rubberBandMove applies stiffness 1.0, limit 0.5 to the normalized
// squared displacement of a not-yet-committed drag.
func rubberBandMove(distSq float64) float64 {
	x := distSq / interactiveMoveStartThresholdSq
	banded := x * (1 - 1/(1.0*x+1))
	if banded > 0.5 {
		banded = 0.5
	}
	return banded
}

// InteractiveMoveEnd concludes the move: a Starting move eases its offset
// back to zero (via Tile.AnimateMoveFrom); a Moving move's
// insert position is derived from pointerPos on targetWs and the tile is
// inserted there, easing its render-offset in from the release position
// .
func (l *Layout) InteractiveMoveEnd(targetWs *workspace.Workspace, pointerPos geom.Point) {
	switch mv := l.Move.(type) {
	case *startingMove:
		// Never crossed the threshold: the tile stays in its slot and the
		// rubber-banded offset eases back to zero.
		if t := l.FindByID(mv.window); t != nil {
			off := t.InteractiveMoveOffset
			t.InteractiveMoveOffset = geom.Point{}
			rest := t.Target
			rest.X += off.X
			rest.Y += off.Y
			t.AnimateMoveFrom(rest)
		}
		l.Move = nil
	case *movingMove:
		from := mv.t.Target
		pos := targetWs.InsertPositionForPoint(pointerPos)
		targetWs.AddTile(pos, mv.t, config.AutoHeight(), mv.width)
		if mv.isFullWidth {
			targetWs.Columns[targetWs.ActiveColIdx].FullWidth = true
			targetWs.Relayout()
		}
		l.forgetOriginIfNonOriginalOutput(targetWs)
		if idx := l.findMonitorOwning(targetWs); idx >= 0 {
			l.Set.Monitors[idx].EnsureTrailingEmptyWorkspace()
		}
		mv.t.AnimateMoveFrom(from)
		l.clearInsertHints()
		l.Move = nil
		l.notifyFocus()
	}
}

func (l *Layout) clearInsertHints() {
	for _, m := range l.Set.Monitors {
		for _, ws := range m.Workspaces {
			ws.ClearInsertHint()
		}
	}
}

// MovingTileAndOutput returns the tile currently owned directly by the
// Layout during an interactive move, and the output it is on, for
// invariant checks that need to verify its rounded position without
// reaching into layout's unexported move state.
func (l *Layout) MovingTileAndOutput() (*tile.Tile, string, bool) {
	mv, ok := l.Move.(*movingMove)
	if !ok {
		return nil, "", false
	}
	return mv.t, mv.output, true
}

// MoveTileIsActive reports whether an interactive move is in progress.
func (l *Layout) MoveTileIsActive() bool { return l.Move != nil }
