// Package invariant checks the structural invariants a Layout must hold
// after every command. Check never
// panics and never mutates the layout; it is meant to run in tests and,
// optionally, as a cheap sanity pass after applying a command.
package invariant

import (
	"fmt"
	"strings"

	"paneloom/internal/geom"
	"paneloom/internal/layout"
)

// Violation describes one broken invariant.
type Violation struct {
	Rule    string
	Message string
}

func (v Violation) String() string { return fmt.Sprintf("%s: %s", v.Rule, v.Message) }

// Check runs every universal invariant against l and returns every
// violation found; an empty slice means the layout is structurally
// sound.
func Check(l *layout.Layout) []Violation {
	var v []Violation
	v = append(v, checkIndicesInRange(l)...)
	v = append(v, checkMonitorsNonEmptyTrailing(l)...)
	v = append(v, checkUniqueIdentity(l)...)
	v = append(v, checkNoStrayEmptyWorkspaces(l)...)
	v = append(v, checkOriginalOutputOwnership(l)...)
	v = append(v, checkCurrentOutput(l)...)
	v = append(v, checkOptionsPropagation(l)...)
	v = append(v, checkMovingTileRounded(l)...)
	v = append(v, checkMovingTileIdentityUnique(l)...)
	return v
}

func checkIndicesInRange(l *layout.Layout) []Violation {
	if l.Set.Kind != layout.Normal {
		return nil
	}
	var v []Violation
	n := len(l.Set.Monitors)
	if l.Set.PrimaryIdx < 0 || l.Set.PrimaryIdx >= n {
		v = append(v, Violation{"primary_idx_in_range", fmt.Sprintf("primary_idx %d out of range [0,%d)", l.Set.PrimaryIdx, n)})
	}
	if l.Set.ActiveIdx < 0 || l.Set.ActiveIdx >= n {
		v = append(v, Violation{"active_monitor_idx_in_range", fmt.Sprintf("active_monitor_idx %d out of range [0,%d)", l.Set.ActiveIdx, n)})
	}
	return v
}

func checkMonitorsNonEmptyTrailing(l *layout.Layout) []Violation {
	var v []Violation
	for _, m := range l.Set.Monitors {
		if len(m.Workspaces) == 0 {
			v = append(v, Violation{"monitor_nonempty", fmt.Sprintf("monitor %q has zero workspaces", m.Output.Name())})
			continue
		}
		last := m.Workspaces[len(m.Workspaces)-1]
		if last.Name != "" || !last.IsEmpty() {
			v = append(v, Violation{"trailing_workspace_unnamed_empty", fmt.Sprintf("monitor %q's last workspace is not unnamed+empty", m.Output.Name())})
		}
	}
	return v
}

func checkUniqueIdentity(l *layout.Layout) []Violation {
	var v []Violation
	seenID := map[uint64]bool{}
	seenName := map[string]bool{}
	for _, m := range l.Set.Monitors {
		for _, ws := range m.Workspaces {
			id := uint64(ws.WsID)
			if seenID[id] {
				v = append(v, Violation{"unique_workspace_id", fmt.Sprintf("duplicate workspace id %d", id)})
			}
			seenID[id] = true
			if ws.Name != "" {
				key := strings.ToLower(ws.Name)
				if seenName[key] {
					v = append(v, Violation{"unique_workspace_name", fmt.Sprintf("duplicate workspace name %q", ws.Name)})
				}
				seenName[key] = true
			}
		}
	}
	for _, ws := range l.Set.Parked {
		id := uint64(ws.WsID)
		if seenID[id] {
			v = append(v, Violation{"unique_workspace_id", fmt.Sprintf("duplicate parked workspace id %d", id)})
		}
		seenID[id] = true
	}
	return v
}

func checkNoStrayEmptyWorkspaces(l *layout.Layout) []Violation {
	var v []Violation
	for _, m := range l.Set.Monitors {
		if m.Switch != 0 { // SwitchIdle == 0
			continue
		}
		for i, ws := range m.Workspaces {
			isLast := i == len(m.Workspaces)-1
			isActive := i == m.ActiveIdx
			if ws.IsEligibleForCleanup(isActive, isLast) {
				v = append(v, Violation{"no_stray_empty_workspace", fmt.Sprintf("monitor %q workspace %d is unnamed, empty, and should have been cleaned up", m.Output.Name(), i)})
			}
		}
	}
	return v
}

func checkOriginalOutputOwnership(l *layout.Layout) []Violation {
	var v []Violation
	names := map[string]bool{}
	for _, m := range l.Set.Monitors {
		names[m.Output.Name()] = true
	}
	for mi, m := range l.Set.Monitors {
		isPrimary := mi == l.Set.PrimaryIdx
		for _, ws := range m.Workspaces {
			if ws.OriginalOutput == m.Output.Name() {
				continue
			}
			if isPrimary && !names[ws.OriginalOutput] {
				continue // foreign workspace parked on primary: allowed
			}
			v = append(v, Violation{"original_output_ownership", fmt.Sprintf("workspace %d on monitor %q has foreign original-output %q", ws.WsID, m.Output.Name(), ws.OriginalOutput)})
		}
	}
	return v
}

func checkCurrentOutput(l *layout.Layout) []Violation {
	var v []Violation
	for _, m := range l.Set.Monitors {
		for _, ws := range m.Workspaces {
			if ws.CurrentOutput != m.Output.Name() {
				v = append(v, Violation{"current_output", fmt.Sprintf("workspace %d on monitor %q has current-output %q", ws.WsID, m.Output.Name(), ws.CurrentOutput)})
			}
		}
	}
	for _, ws := range l.Set.Parked {
		if ws.CurrentOutput != "" {
			v = append(v, Violation{"current_output", fmt.Sprintf("parked workspace %d still has current-output %q", ws.WsID, ws.CurrentOutput)})
		}
	}
	return v
}

func checkOptionsPropagation(l *layout.Layout) []Violation {
	var v []Violation
	for _, m := range l.Set.Monitors {
		expected := l.Options.AdjustedForScale(m.Output.Scale())
		if !m.Options.Equal(expected) {
			v = append(v, Violation{"options_propagation", fmt.Sprintf("monitor %q Options do not match layout Options adjusted for its scale", m.Output.Name())})
		}
	}
	return v
}

func checkMovingTileRounded(l *layout.Layout) []Violation {
	t, out, ok := l.MovingTileAndOutput()
	if !ok {
		return nil
	}
	scale := 1.0
	for _, m := range l.Outputs() {
		if m.Output.Name() == out {
			scale = m.Output.Scale()
			break
		}
	}
	r := t.Target
	if !RoundedToPhysical(r.X, scale) || !RoundedToPhysical(r.Y, scale) {
		return []Violation{{"moving_tile_rounded", fmt.Sprintf("moving tile target %v is not rounded to physical pixels at scale %v", r, scale)}}
	}
	return nil
}

func checkMovingTileIdentityUnique(l *layout.Layout) []Violation {
	var v []Violation
	ids := map[uint64]int{}
	for _, m := range l.Set.Monitors {
		for _, ws := range m.Workspaces {
			for _, col := range ws.Columns {
				for _, t := range col.Tiles {
					ids[uint64(t.Window.ID())]++
				}
			}
		}
	}
	// The moving tile lives on the Layout, not in any workspace; it must
	// still be counted or a collision with a tree tile goes undetected.
	if t, _, ok := l.MovingTileAndOutput(); ok {
		ids[uint64(t.Window.ID())]++
	}
	for id, count := range ids {
		if count > 1 {
			v = append(v, Violation{"unique_window_identity", fmt.Sprintf("window id %d appears %d times", id, count)})
		}
	}
	return v
}

// RoundedToPhysical reports whether value is already an integral number
// of physical pixels at the given scale, used by tests exercising
// invariant 7 directly against a rendered rect.
func RoundedToPhysical(value, scale float64) bool {
	return geom.RoundToPhysical(value, scale) == value
}
