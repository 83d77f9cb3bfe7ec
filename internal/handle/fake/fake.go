// Package fake provides in-memory Window and Output implementations for
// exercising the layout engine without a real compositor. It records the
// size, fullscreen and output enter/leave requests in order so tests can
// assert on the sequence the engine issued; other mutators only update
// the window's current state.
package fake

import (
	"paneloom/internal/geom"
	"paneloom/internal/handle"
)

// Output is an in-memory handle.Output.
type Output struct {
	NameVal  string
	SizeVal  geom.Size
	ScaleVal float64
}

func NewOutput(name string, w, h, scale float64) *Output {
	if scale <= 0 {
		scale = 1
	}
	return &Output{NameVal: name, SizeVal: geom.Size{W: w, H: h}, ScaleVal: scale}
}

func (o *Output) Name() string           { return o.NameVal }
func (o *Output) LogicalSize() geom.Size { return o.SizeVal }
func (o *Output) Scale() float64         { return o.ScaleVal }

var _ handle.Output = (*Output)(nil)

// EnterLeaveEvent records one OutputEnter/OutputLeave call.
type EnterLeaveEvent struct {
	Output string
	Enter  bool
}

// Window is an in-memory handle.Window. A well-behaved fake client
// confirms every RequestSize/RequestFullscreen immediately, so tests that
// need to observe an unconfirmed in-flight request should inspect
// SizeRequests/FullscreenReq rather than Size()/IsFullscreen().
type Window struct {
	IDVal   handle.WindowID
	SizeVal geom.Size
	minSize geom.Size
	maxSize geom.Size

	bufferOffset geom.Point
	inputRegion  func(geom.Point) bool

	activated      bool
	activeInColumn bool
	bounds         geom.Size

	fullscreen        bool
	pendingFullscreen bool

	requestedSize    geom.Size
	hasRequestedSize bool
	lastAnimate      bool

	intent handle.ConfigureIntent

	SizeRequests  []geom.Size
	EnterLeave    []EnterLeaveEvent
	FullscreenReq []geom.Size
}

func NewWindow(id uint64, w, h float64) *Window {
	return &Window{
		IDVal:   handle.WindowID(id),
		SizeVal: geom.Size{W: w, H: h},
		minSize: geom.Size{W: 1, H: 1},
		maxSize: geom.Size{W: 1 << 20, H: 1 << 20},
	}
}

func (w *Window) ID() handle.WindowID      { return w.IDVal }
func (w *Window) Size() geom.Size          { return w.SizeVal }
func (w *Window) BufferOffset() geom.Point { return w.bufferOffset }

func (w *Window) IsInInputRegion(p geom.Point) bool {
	if w.inputRegion != nil {
		return w.inputRegion(p)
	}
	return p.X >= 0 && p.Y >= 0 && p.X < w.SizeVal.W && p.Y < w.SizeVal.H
}

// SetInputRegion overrides the default whole-window input region, used to
// exercise "is point in input region" edge cases.
func (w *Window) SetInputRegion(f func(geom.Point) bool) { w.inputRegion = f }

func (w *Window) RequestSize(size geom.Size, animate bool, _ *handle.Transaction) {
	w.requestedSize = size
	w.hasRequestedSize = true
	w.lastAnimate = animate
	w.SizeRequests = append(w.SizeRequests, size)
	w.SizeVal = size
}

func (w *Window) RequestFullscreen(size geom.Size) {
	w.pendingFullscreen = true
	w.fullscreen = true
	w.FullscreenReq = append(w.FullscreenReq, size)
	if size.W > 0 && size.H > 0 {
		w.SizeVal = size
	}
}

func (w *Window) MinSize() geom.Size { return w.minSize }
func (w *Window) MaxSize() geom.Size { return w.maxSize }

// SetMinMax configures the min/max size hints returned by MinSize/MaxSize.
func (w *Window) SetMinMax(min, max geom.Size) {
	w.minSize = min
	w.maxSize = max
}

func (w *Window) ConfigureIntent() handle.ConfigureIntent { return w.intent }

// SetConfigureIntent lets a test force a particular configure-intent
// response for the next query.
func (w *Window) SetConfigureIntent(i handle.ConfigureIntent) { w.intent = i }

func (w *Window) OutputEnter(o handle.Output) {
	w.EnterLeave = append(w.EnterLeave, EnterLeaveEvent{Output: o.Name(), Enter: true})
}
func (w *Window) OutputLeave(o handle.Output) {
	w.EnterLeave = append(w.EnterLeave, EnterLeaveEvent{Output: o.Name(), Enter: false})
}

func (w *Window) SetActivated(active bool)      { w.activated = active }
func (w *Window) SetActiveInColumn(active bool) { w.activeInColumn = active }
func (w *Window) SetBounds(size geom.Size)      { w.bounds = size }

func (w *Window) Activated() bool      { return w.activated }
func (w *Window) ActiveInColumn() bool { return w.activeInColumn }
func (w *Window) Bounds() geom.Size    { return w.bounds }

func (w *Window) IsFullscreen() bool        { return w.fullscreen }
func (w *Window) IsPendingFullscreen() bool { return w.pendingFullscreen }

// ClearFullscreen simulates the client confirming it has left fullscreen.
func (w *Window) ClearFullscreen() { w.fullscreen = false; w.pendingFullscreen = false }

func (w *Window) RequestedSize() (geom.Size, bool) { return w.requestedSize, w.hasRequestedSize }

var _ handle.Window = (*Window)(nil)
