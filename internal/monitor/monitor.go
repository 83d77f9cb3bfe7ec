// Package monitor implements one display plus its ordered workspaces,
// including the workspace-switch state machine and the vertical view
// gesture.
package monitor

import (
	"math"
	"time"

	"paneloom/internal/anim"
	"paneloom/internal/config"
	"paneloom/internal/geom"
	"paneloom/internal/handle"
	"paneloom/internal/workspace"
)

// SwitchState is the workspace-switch state machine: Idle, Animating, or
// Gesturing.
type SwitchState int

const (
	SwitchIdle SwitchState = iota
	SwitchAnimating
	SwitchGesturing
)

// Monitor is a display plus its ordered, non-empty list of workspaces.
type Monitor struct {
	Output handle.Output

	Workspaces            []*workspace.Workspace
	ActiveIdx             int
	PreviousID            workspace.ID
	autoBackForthOrigin   int
	autoBackForthLastFrom int
	autoBackForthArmed    bool

	Switch        SwitchState
	switchFrom    float64
	switchTo      float64
	switchSpring  *anim.Spring
	gestureCur    float64
	gestureVel    float64
	gestureOrigin int
	gestureSrc    workspace.GestureSource

	Options *config.Options
}

// New creates a monitor on the given output with a single empty
// workspace, adopting opts as its starting Options (adjusted for the
// output's scale by the caller).
func New(out handle.Output, opts *config.Options) *Monitor {
	ws := workspace.New()
	ws.OriginalOutput = out.Name()
	m := &Monitor{
		Output:     out,
		Workspaces: []*workspace.Workspace{ws},
		Options:    opts,
	}
	m.SyncGeometry()
	return m
}

// ActiveWorkspace returns the currently active workspace.
func (m *Monitor) ActiveWorkspace() *workspace.Workspace {
	return m.Workspaces[m.ActiveIdx]
}

// SyncGeometry recomputes this monitor's GeometryContext from its Output
// and Options and pushes it to every workspace, which triggers each one
// to relayout immediately. Called whenever the output, its size, or the
// Options in effect change.
func (m *Monitor) SyncGeometry() {
	size := m.Output.LogicalSize()
	scale := m.Output.Scale()
	// Fractional struts must still land the working-area origin on a
	// physical pixel for this output's scale.
	left := geom.RoundToPhysical(m.Options.Struts.Left, scale)
	top := geom.RoundToPhysical(m.Options.Struts.Top, scale)
	area := geom.Rect{
		X: left,
		Y: top,
		W: size.W - left - geom.RoundToPhysical(m.Options.Struts.Right, scale),
		H: size.H - top - geom.RoundToPhysical(m.Options.Struts.Bottom, scale),
	}
	ctx := workspace.GeometryContext{
		WorkingArea:        area,
		OutputSize:         size,
		Gaps:               m.Options.Gaps,
		BorderWidth:        m.Options.BorderCfg.Width,
		BorderOff:          m.Options.BorderCfg.Off,
		WidthPresets:       m.Options.PresetColumnWidths,
		HeightPresets:      m.Options.PresetWindowHeights,
		Scale:              scale,
		CenterPolicy:       m.Options.CenterFocusedColumn,
		AlwaysCenterSingle: m.Options.AlwaysCenterSingleColumn,
	}
	for _, ws := range m.Workspaces {
		ws.CurrentOutput = m.Output.Name()
		ws.SetGeometryContext(ctx)
	}
}

// EnsureTrailingEmptyWorkspace appends an empty unnamed workspace if the
// last one is not already empty and unnamed.
func (m *Monitor) EnsureTrailingEmptyWorkspace() {
	if len(m.Workspaces) > 0 {
		last := m.Workspaces[len(m.Workspaces)-1]
		if last.Name == "" && last.IsEmpty() {
			return
		}
	}
	ws := workspace.New()
	ws.OriginalOutput = m.Output.Name()
	m.Workspaces = append(m.Workspaces, ws)
	m.SyncGeometry()
}

// CleanupWorkspaces removes every workspace that is unnamed, empty, and
// neither active nor last. A no-op while a switch is in progress.
func (m *Monitor) CleanupWorkspaces() {
	if m.Switch != SwitchIdle {
		return
	}
	m.cleanupBetween(0, len(m.Workspaces))
	m.EnsureTrailingEmptyWorkspace()
}

// cleanupBetween removes eligible workspaces in [lo, hi) and returns how
// many were removed, so a caller chaining multiple ranges over the same
// backing slice can shift later range bounds accordingly.
func (m *Monitor) cleanupBetween(lo, hi int) int {
	kept := make([]*workspace.Workspace, 0, len(m.Workspaces))
	newActive := m.ActiveIdx
	removed := 0
	for i, ws := range m.Workspaces {
		isLast := i == len(m.Workspaces)-1
		isActive := i == m.ActiveIdx
		if i >= lo && i < hi && ws.IsEligibleForCleanup(isActive, isLast) {
			if i < m.ActiveIdx {
				newActive--
			}
			removed++
			continue
		}
		kept = append(kept, ws)
	}
	m.Workspaces = kept
	m.ActiveIdx = geom.ClampInt(newActive, 0, len(m.Workspaces)-1)
	return removed
}

// SwitchWorkspace begins an animated transition to workspace index i,
// unless that is a no-op (already there/mid-switch to the same target).
func (m *Monitor) SwitchWorkspace(i int) {
	i = geom.ClampInt(i, 0, len(m.Workspaces)-1)
	if i == m.ActiveIdx && (m.Switch == SwitchIdle || m.Switch == SwitchAnimating) {
		return
	}
	m.PreviousID = m.Workspaces[m.ActiveIdx].WsID
	m.switchFrom = float64(m.ActiveIdx)
	m.switchTo = float64(i)
	m.switchSpring = anim.NewSpring(m.switchFrom, m.switchTo)
	m.Switch = SwitchAnimating
	m.ActiveIdx = i
}

// SwitchWorkspaceInstant jumps straight to workspace index i with no
// animation, then runs the cleanup rule.
func (m *Monitor) SwitchWorkspaceInstant(i int) {
	i = geom.ClampInt(i, 0, len(m.Workspaces)-1)
	if i == m.ActiveIdx {
		return
	}
	m.PreviousID = m.Workspaces[m.ActiveIdx].WsID
	m.Switch = SwitchIdle
	m.switchSpring = nil
	m.ActiveIdx = i
	m.CleanupWorkspaces()
}

// SwitchToPrevious switches to the workspace most recently active before
// the current one, if it still exists.
func (m *Monitor) SwitchToPrevious() {
	for i, ws := range m.Workspaces {
		if ws.WsID == m.PreviousID {
			m.SwitchWorkspace(i)
			return
		}
	}
}

// SwitchAutoBackForth switches to target, unless target was also the
// target of the immediately preceding SwitchAutoBackForth call, in which
// case it instead returns to the workspace that was active before that
// call.
func (m *Monitor) SwitchAutoBackForth(target int) {
	target = geom.ClampInt(target, 0, len(m.Workspaces)-1)
	if m.autoBackForthArmed && target == m.autoBackForthLastFrom {
		prev := m.ActiveIdx
		m.SwitchWorkspace(m.autoBackForthOrigin)
		m.autoBackForthLastFrom = prev
		return
	}
	m.autoBackForthOrigin = m.ActiveIdx
	m.autoBackForthLastFrom = target
	m.autoBackForthArmed = true
	m.SwitchWorkspace(target)
}

// BeginGesture starts a vertical workspace-switch gesture at the current
// fractional index. The source is fixed for the gesture's lifetime;
// mixing touchpad and touchscreen events mid-gesture is undefined.
func (m *Monitor) BeginGesture(src workspace.GestureSource) {
	m.Switch = SwitchGesturing
	m.gestureCur = float64(m.ActiveIdx)
	m.gestureVel = 0
	m.gestureOrigin = m.ActiveIdx
	m.gestureSrc = src
}

// UpdateGesture advances the gesture's fractional index by delta
// (normalized so one workspace height of drag moves it by 1.0),
// rubber-banded past the ends.
func (m *Monitor) UpdateGesture(delta, velocity float64) {
	if m.Switch != SwitchGesturing {
		return
	}
	raw := m.gestureCur + delta
	n := float64(len(m.Workspaces) - 1)
	switch {
	case raw < 0:
		m.gestureCur = -anim.Band(-raw, 0.02, 1.5)
	case raw > n:
		over := raw - n
		m.gestureCur = n + anim.Band(over, 0.02, 1.5)
	default:
		m.gestureCur = raw
	}
	m.gestureVel = velocity
}

// EndGesture snaps the gesture to the nearest workspace index, projected
// by its release velocity, clamps it into range, and transitions to
// Animating toward that index. A cancelled gesture snaps back to the
// workspace that was active when the gesture began.
func (m *Monitor) EndGesture(cancelled bool) {
	if m.Switch != SwitchGesturing {
		return
	}
	var target int
	if cancelled {
		target = m.gestureOrigin
	} else {
		projected := m.gestureCur + anim.VelocityDecay(m.gestureVel, 0.3)
		target = geom.ClampInt(int(math.Round(projected)), 0, len(m.Workspaces)-1)
	}
	m.switchFrom = m.gestureCur
	m.switchTo = float64(target)
	m.switchSpring = anim.NewSpring(m.switchFrom, m.switchTo)
	m.Switch = SwitchAnimating
	m.ActiveIdx = target
}

// Advance steps the workspace-switch animation and every workspace's own
// animation, returning true while anything is still moving. On an
// Animating-to-Idle transition, it runs the cleanup rule (trailing empty
// workspaces beyond both switch endpoints are discarded, except the
// single trailing one).
func (m *Monitor) Advance(dt time.Duration) bool {
	moving := false
	if m.Switch == SwitchAnimating {
		m.switchSpring.Step(dt)
		if m.switchSpring.Settled() {
			from, to := int(math.Round(m.switchFrom)), int(math.Round(m.switchTo))
			m.Switch = SwitchIdle
			lo, hi := from, to
			if lo > hi {
				lo, hi = hi, lo
			}
			removedBefore := m.cleanupBetween(0, lo)
			m.cleanupBetween(hi+1-removedBefore, len(m.Workspaces))
			m.EnsureTrailingEmptyWorkspace()
		} else {
			moving = true
		}
	}
	for _, ws := range m.Workspaces {
		if ws.Advance(dt) {
			moving = true
		}
	}
	return moving
}

// SwitchProgress returns the current (from, to, t) triple while
// Animating, or the current fractional index while Gesturing.
func (m *Monitor) SwitchProgress() (from, to, t float64) {
	switch m.Switch {
	case SwitchAnimating:
		if m.switchSpring == nil {
			return float64(m.ActiveIdx), float64(m.ActiveIdx), 1
		}
		span := m.switchTo - m.switchFrom
		if span == 0 {
			return m.switchFrom, m.switchTo, 1
		}
		return m.switchFrom, m.switchTo, (m.switchSpring.Pos - m.switchFrom) / span
	case SwitchGesturing:
		return m.gestureCur, m.gestureCur, 1
	default:
		return float64(m.ActiveIdx), float64(m.ActiveIdx), 1
	}
}

// FocusUp/FocusDown implement window-then-workspace fallback: move focus
// within the active workspace first (caller supplies that via moved==true
// once it has tried); if the workspace had nothing to move to, the
// monitor switches workspace instead.
func (m *Monitor) FocusUp(movedWithinWorkspace bool) {
	if movedWithinWorkspace {
		return
	}
	if m.ActiveIdx > 0 {
		m.SwitchWorkspace(m.ActiveIdx - 1)
	}
}

func (m *Monitor) FocusDown(movedWithinWorkspace bool) {
	if movedWithinWorkspace {
		return
	}
	if m.ActiveIdx < len(m.Workspaces)-1 {
		m.SwitchWorkspace(m.ActiveIdx + 1)
	}
}
