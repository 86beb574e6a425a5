// Package gesture resolves a swipe direction from motion accumulated while
// the trigger button is held.
package gesture

import (
	"math"

	"github.com/phinze/overmouse/internal/settings"
)

// Recognizer accumulates drag deltas for at most one session at a time.
// It is not safe for concurrent use; the hook path owns it.
type Recognizer struct {
	threshold float64
	active    bool
	sumX      float64
	sumY      float64
}

// New returns a Recognizer with the given threshold.
func New(threshold float64) *Recognizer {
	return &Recognizer{threshold: threshold}
}

// SetThreshold changes the minimum travel needed to resolve a direction.
func (r *Recognizer) SetThreshold(t float64) {
	r.threshold = t
}

// Begin starts a new session, discarding any previous one.
func (r *Recognizer) Begin() {
	r.active = true
	r.sumX, r.sumY = 0, 0
}

// Active reports whether a session is in progress.
func (r *Recognizer) Active() bool {
	return r.active
}

// Track adds a motion delta to the current session.
func (r *Recognizer) Track(dx, dy float64) {
	if !r.active {
		return
	}
	r.sumX += dx
	r.sumY += dy
}

// Travel returns the accumulated deltas of the current session.
func (r *Recognizer) Travel() (float64, float64) {
	return r.sumX, r.sumY
}

// End closes the session and returns the resolved direction, if any.
// Screen coordinates grow downward, so negative Y is up.
func (r *Recognizer) End() (settings.Direction, bool) {
	active, x, y := r.active, r.sumX, r.sumY
	r.Reset()
	if !active {
		return 0, false
	}
	return Resolve(x, y, r.threshold)
}

// Reset drops the current session without resolving it.
func (r *Recognizer) Reset() {
	r.active = false
	r.sumX, r.sumY = 0, 0
}

// Resolve maps accumulated travel to a direction. The vertical axis wins ties.
func Resolve(x, y, threshold float64) (settings.Direction, bool) {
	ax, ay := math.Abs(x), math.Abs(y)
	if math.Max(ax, ay) < threshold {
		return 0, false
	}
	if ay >= ax {
		if y < 0 {
			return settings.Up, true
		}
		return settings.Down, true
	}
	if x < 0 {
		return settings.Left, true
	}
	return settings.Right, true
}
