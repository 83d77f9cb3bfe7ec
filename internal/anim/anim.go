// Package anim provides the pure step functions the layout levels use to
// animate: a critically-damped spring (view-offset, resize), the gesture
// rubber-band curve, and a velocity-decay projection for gesture-end
// nearest-target selection. Nothing here owns a clock; every function
// takes the elapsed time (or current/target values). Spring.Step, which
// advances animation progress, is driven only from
// Layout.AdvanceAnimations; command handlers create and retarget springs
// and evaluate Band and VelocityDecay during gestures.
package anim

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// DefaultAngularFrequency and DefaultDampingRatio parameterize the
// critically-damped springs used for view-offset and resize animation.
// Damping ratio 1.0 is critical damping: the spring approaches its target
// without overshoot, which is what "snap but don't bounce" calls for.
const (
	DefaultAngularFrequency = 18.0
	DefaultDampingRatio     = 1.0
)

// Spring wraps harmonica.Spring with the position/velocity pair it is
// driving, so callers don't have to thread two float64s through every
// call site by hand.
type Spring struct {
	s        harmonica.Spring
	dt       time.Duration
	Pos      float64
	Velocity float64
	Target   float64
}

// NewSpring creates a spring at rest at pos, targeting target.
func NewSpring(pos, target float64) *Spring {
	return &Spring{
		s:      harmonica.NewSpring(harmonica.FPS(60), DefaultAngularFrequency, DefaultDampingRatio),
		dt:     time.Second / 60,
		Pos:    pos,
		Target: target,
	}
}

// Retarget changes the spring's destination without resetting its current
// position or velocity, so an in-flight animation eases smoothly onto the
// new target instead of jumping.
func (s *Spring) Retarget(target float64) { s.Target = target }

// Step advances the spring by dt and returns the new position.
func (s *Spring) Step(dt time.Duration) float64 {
	if dt != s.dt && dt > 0 {
		s.s = harmonica.NewSpring(dt.Seconds(), DefaultAngularFrequency, DefaultDampingRatio)
		s.dt = dt
	}
	s.Pos, s.Velocity = s.s.Update(s.Pos, s.Velocity, s.Target)
	return s.Pos
}

// Settled reports whether the spring has effectively reached its target
// and stopped moving, so the caller can drop the animation and snap.
func (s *Spring) Settled() bool {
	const epsPos, epsVel = 0.01, 0.01
	return math.Abs(s.Target-s.Pos) < epsPos && math.Abs(s.Velocity) < epsVel
}

// Band implements the gesture rubber-band curve:
//
//	band(x) = x * (1 - 1/(stiffness*x + 1))
//
// applied to the signed overflow past an edge, so dragging past the end
// of a workspace or a gesture-threshold resists increasingly rather than
// scrolling linearly. Sign is preserved; the function is odd.
func Band(x, stiffness, limit float64) float64 {
	if x == 0 {
		return 0
	}
	sign := 1.0
	ax := x
	if x < 0 {
		sign = -1
		ax = -x
	}
	banded := ax * (1 - 1/(stiffness*ax+1))
	if limit > 0 && banded > limit {
		banded = limit
	}
	return sign * banded
}

// VelocityDecay returns the distance a gesture with the given initial
// velocity (units/sec) would travel if it decayed as
// 1 - exp(-t/tau) out to t = +inf: the classic "integrate an
// exponentially decaying velocity to get a total displacement" used to
// pick the nearest workspace/column projected from a gesture's release
// velocity.
//
//	displacement(t) = velocity * tau * (1 - exp(-t/tau))
//
// As t -> infinity this converges to velocity*tau, which is what callers
// use directly; Displacement is exposed for tests that want the partial
// value at a finite t.
func VelocityDecay(velocity, tau float64) float64 {
	return velocity * tau
}

// Displacement returns the gesture displacement after duration t given
// initial velocity and decay constant tau.
func Displacement(velocity, tau, t float64) float64 {
	if tau <= 0 {
		return 0
	}
	return velocity * tau * (1 - math.Exp(-t/tau))
}
