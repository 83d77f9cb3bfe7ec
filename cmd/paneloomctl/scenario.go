package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"paneloom/internal/config"
	"paneloom/internal/geom"
	"paneloom/internal/handle"
	"paneloom/internal/handle/fake"
	"paneloom/internal/layout"
	"paneloom/internal/monitor"
	"paneloom/internal/workspace"
)

// Scenario is the YAML-driven script paneloomctl replays against a fresh
// Layout: a set of outputs, and a sequence of commands to apply to them.
type Scenario struct {
	Outputs  []ScenarioOutput  `yaml:"outputs"`
	Commands []ScenarioCommand `yaml:"commands"`
}

type ScenarioOutput struct {
	Name   string  `yaml:"name"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// ScenarioCommand is a loosely-typed command step: Op names the engine
// command to run and Args supplies its parameters. Consumed in-process;
// there is deliberately no socket protocol behind it.
type ScenarioCommand struct {
	Op   string         `yaml:"op"`
	Args map[string]any `yaml:"args"`
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &s, nil
}

// Run replays the scenario against a fresh Layout seeded with opts, and
// returns the resulting Layout plus the fake windows it created (keyed by
// the "name" argument of the command that added each window).
func Run(s *Scenario, opts *config.Options) (*layout.Layout, map[string]*fake.Window) {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))
	l := layout.New(opts, log)
	windows := map[string]*fake.Window{}
	nextWindowID := uint64(1)

	for _, so := range s.Outputs {
		scale := so.Scale
		if scale <= 0 {
			scale = 1
		}
		l.AddOutput(fake.NewOutput(so.Name, so.Width, so.Height, scale))
	}

	for _, c := range s.Commands {
		applyCommand(l, &nextWindowID, windows, c)
	}
	return l, windows
}

func applyCommand(l *layout.Layout, nextID *uint64, windows map[string]*fake.Window, c ScenarioCommand) {
	switch c.Op {
	case "add_window":
		out := strArg(c.Args, "output")
		name := strArg(c.Args, "name")
		w := floatArg(c.Args, "width", 640)
		h := floatArg(c.Args, "height", 480)
		win := fake.NewWindow(*nextID, w, h)
		*nextID++
		if name != "" {
			windows[name] = win
		}
		m := findMonitor(l, out)
		if m == nil {
			return
		}
		ws := m.ActiveWorkspace()
		l.AddWindow(ws, win, workspace.InsertPosition{NewColumn: true, Index: len(ws.Columns)})
	case "add_window_at":
		out := strArg(c.Args, "output")
		name := strArg(c.Args, "name")
		w := floatArg(c.Args, "width", 640)
		h := floatArg(c.Args, "height", 480)
		win := fake.NewWindow(*nextID, w, h)
		*nextID++
		if name != "" {
			windows[name] = win
		}
		m := findMonitor(l, out)
		if m == nil {
			return
		}
		ws := m.ActiveWorkspace()
		p := geom.Point{X: floatArg(c.Args, "x", 0), Y: floatArg(c.Args, "y", 0)}
		l.AddWindowAt(ws, win, p)
	case "add_window_right_of":
		name := strArg(c.Args, "name")
		win := fake.NewWindow(*nextID, floatArg(c.Args, "width", 640), floatArg(c.Args, "height", 480))
		*nextID++
		if name != "" {
			windows[name] = win
		}
		if other, ok := windows[strArg(c.Args, "right_of")]; ok {
			l.AddWindowRightOf(other.ID(), win)
		}
	case "add_window_to_named_workspace":
		name := strArg(c.Args, "name")
		win := fake.NewWindow(*nextID, floatArg(c.Args, "width", 640), floatArg(c.Args, "height", 480))
		*nextID++
		if name != "" {
			windows[name] = win
		}
		l.AddWindowToNamedWorkspace(strArg(c.Args, "workspace"), win)
	case "remove_window":
		if win, ok := windows[strArg(c.Args, "name")]; ok {
			l.RemoveWindow(win.ID())
		}
	case "activate":
		if win, ok := windows[strArg(c.Args, "name")]; ok {
			l.Activate(win.ID())
		}
	case "add_output":
		scale := floatArg(c.Args, "scale", 1)
		l.AddOutput(fake.NewOutput(strArg(c.Args, "name"),
			floatArg(c.Args, "width", 1920), floatArg(c.Args, "height", 1080), scale))
	case "remove_output":
		l.RemoveOutput(strArg(c.Args, "name"))
	case "focus_output":
		l.FocusOutput(strArg(c.Args, "name"))
	case "ensure_named_workspace":
		l.EnsureNamedWorkspace(strArg(c.Args, "workspace"), strArg(c.Args, "output"))
	case "toggle_fullscreen":
		l.ToggleFullscreen()
	case "toggle_width":
		l.ToggleColumnWidth()
	case "toggle_full_width":
		l.ToggleFullWidth()
	case "set_width":
		l.SetColumnWidth(config.FixedWidth(floatArg(c.Args, "px", 640)))
	case "toggle_window_height":
		l.ToggleWindowHeight()
	case "set_window_height":
		l.SetWindowHeight(config.FixedHeight(floatArg(c.Args, "px", 480)))
	case "reset_window_height":
		l.ResetWindowHeight()
	case "consume_left":
		l.ConsumeLeft()
	case "expel_right":
		l.ExpelRight()
	case "switch_workspace":
		l.SwitchWorkspace(intArg(c.Args, "index", 0))
	case "switch_workspace_instant":
		l.SwitchWorkspaceInstant(intArg(c.Args, "index", 0))
	case "switch_workspace_previous":
		l.SwitchWorkspacePrevious()
	case "switch_workspace_auto_back_forth":
		l.SwitchWorkspaceAutoBackForth(intArg(c.Args, "index", 0))
	case "switch_workspace_by_name":
		l.SwitchWorkspaceByName(strArg(c.Args, "workspace"))
	case "workspace_switch_gesture_begin":
		l.WorkspaceSwitchGestureBegin(gestureSource(c.Args))
	case "workspace_switch_gesture_update":
		l.WorkspaceSwitchGestureUpdate(floatArg(c.Args, "delta", 0), floatArg(c.Args, "velocity", 0))
	case "workspace_switch_gesture_end":
		l.WorkspaceSwitchGestureEnd(boolArg(c.Args, "cancelled"))
	case "view_offset_gesture_begin":
		l.ViewOffsetGestureBegin(gestureSource(c.Args))
	case "view_offset_gesture_update":
		l.ViewOffsetGestureUpdate(floatArg(c.Args, "delta", 0), floatArg(c.Args, "velocity", 0))
	case "view_offset_gesture_end":
		l.ViewOffsetGestureEnd(boolArg(c.Args, "cancelled"))
	case "interactive_move_begin":
		win, ok := windows[strArg(c.Args, "name")]
		if !ok {
			return
		}
		t := l.FindByID(win.ID())
		ws, m := findOwner(l, win.ID())
		if t == nil || ws == nil {
			return
		}
		l.InteractiveMoveBegin(ws, m.Output.Name(), t,
			geom.Point{X: floatArg(c.Args, "rx", 0.5), Y: floatArg(c.Args, "ry", 0.5)})
	case "interactive_move_update":
		win, ok := windows[strArg(c.Args, "name")]
		if !ok {
			return
		}
		t := l.FindByID(win.ID())
		if t == nil {
			return
		}
		out := strArg(c.Args, "output")
		if out == "" {
			if m := l.ActiveMonitor(); m != nil {
				out = m.Output.Name()
			}
		}
		l.InteractiveMoveUpdate(
			geom.Point{X: floatArg(c.Args, "dx", 0), Y: floatArg(c.Args, "dy", 0)},
			geom.Point{X: floatArg(c.Args, "x", 0), Y: floatArg(c.Args, "y", 0)},
			out, t)
	case "interactive_move_end":
		var ws *workspace.Workspace
		if m := l.ActiveMonitor(); m != nil {
			ws = m.ActiveWorkspace()
		}
		l.InteractiveMoveEnd(ws, geom.Point{X: floatArg(c.Args, "x", 0), Y: floatArg(c.Args, "y", 0)})
	case "resize_begin":
		win, ok := windows[strArg(c.Args, "name")]
		if !ok {
			return
		}
		l.InteractiveResizeBegin(win.ID(), parseEdges(strArg(c.Args, "edges")),
			geom.Point{X: floatArg(c.Args, "x", 0), Y: floatArg(c.Args, "y", 0)})
	case "resize_update":
		l.InteractiveResizeUpdate(geom.Point{X: floatArg(c.Args, "x", 0), Y: floatArg(c.Args, "y", 0)})
	case "resize_end":
		l.InteractiveResizeEnd()
	case "advance":
		l.AdvanceAnimations(time.Duration(intArg(c.Args, "ms", 16)) * time.Millisecond)
	case "refresh":
		l.Refresh(boolArg(c.Args, "active"))
	case "focus_column_left":
		l.FocusColumnLeft()
	case "focus_column_right":
		l.FocusColumnRight()
	case "focus_column_first":
		l.FocusColumnFirst()
	case "focus_column_last":
		l.FocusColumnLast()
	case "focus_window_up":
		l.FocusWindowUp()
	case "focus_window_down":
		l.FocusWindowDown()
	case "focus_workspace_up":
		l.FocusWorkspaceUp()
	case "focus_workspace_down":
		l.FocusWorkspaceDown()
	case "move_column_left":
		l.MoveColumnLeft()
	case "move_column_right":
		l.MoveColumnRight()
	case "move_column_to_output":
		l.MoveColumnToOutput(strArg(c.Args, "output"))
	case "move_column_to_workspace_up":
		l.MoveColumnToWorkspaceUp()
	case "move_column_to_workspace_down":
		l.MoveColumnToWorkspaceDown()
	case "move_column_to_workspace":
		l.MoveColumnToWorkspaceByIndex(intArg(c.Args, "index", 0))
	case "move_workspace_up":
		l.MoveWorkspaceUp()
	case "move_workspace_down":
		l.MoveWorkspaceDown()
	case "move_workspace_to_output":
		l.MoveActiveWorkspaceToOutput(strArg(c.Args, "output"))
	case "move_column_first":
		l.MoveColumnToFirst()
	case "move_column_last":
		l.MoveColumnToLast()
	case "move_tile_up":
		l.MoveTileUp()
	case "move_tile_down":
		l.MoveTileDown()
	case "move_window_to_workspace_up":
		l.MoveWindowToWorkspaceUp()
	case "move_window_to_workspace_down":
		l.MoveWindowToWorkspaceDown()
	case "move_window_to_workspace":
		l.MoveWindowToWorkspaceByIndex(intArg(c.Args, "index", 0))
	case "move_window_to_workspace_on_output":
		l.MoveWindowToWorkspaceOnOutput(strArg(c.Args, "output"), intArg(c.Args, "index", 0))
	case "move_column_to_workspace_on_output":
		l.MoveColumnToWorkspaceOnOutput(strArg(c.Args, "output"), intArg(c.Args, "index", 0))
	}
}

// logLevel reads PANELOOM_LOG; "debug" surfaces the engine's soft-decline
// logging, anything else stays at Info.
func logLevel() slog.Level {
	if strings.EqualFold(os.Getenv("PANELOOM_LOG"), "debug") {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func findOwner(l *layout.Layout, id handle.WindowID) (*workspace.Workspace, *monitor.Monitor) {
	for _, m := range l.Outputs() {
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

func gestureSource(args map[string]any) workspace.GestureSource {
	if boolArg(args, "touchscreen") {
		return workspace.GestureTouchscreen
	}
	return workspace.GestureTouchpad
}

func parseEdges(s string) handle.ResizeEdge {
	var e handle.ResizeEdge
	for _, part := range strings.Split(s, "+") {
		switch part {
		case "top":
			e |= handle.EdgeTop
		case "bottom":
			e |= handle.EdgeBottom
		case "left":
			e |= handle.EdgeLeft
		case "right":
			e |= handle.EdgeRight
		}
	}
	return e
}

func boolArg(args map[string]any, key string) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return false
}

func findMonitor(l *layout.Layout, name string) *monitor.Monitor {
	for _, m := range l.Outputs() {
		if m.Output.Name() == name {
			return m
		}
	}
	return nil
}

func strArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func floatArg(args map[string]any, key string, def float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}
