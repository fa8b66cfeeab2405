package decision

import "time"

// Hysteresis tracks how long the same label has continuously held the
// best-candidate slot. A label is confirmed only after it dominates without
// interruption for the required duration; any interruption fully resets the
// streak. There is no latched confirmed state, confirmation is recomputed on
// every observation.
//
// Invariant: streakStart is non-zero if and only if lastLabel is non-empty.
type Hysteresis struct {
	lastLabel   string
	streakStart time.Time
}

// Observe feeds the current frame's best-candidate label into the tracker and
// reports whether the label is confirmed at time now. ok is false when the
// frame produced no candidate, which resets the tracker.
func (h *Hysteresis) Observe(label string, ok bool, now time.Time, hold time.Duration) bool {
	if !ok {
		h.Reset()
		return false
	}

	if label == h.lastLabel {
		if h.streakStart.IsZero() {
			h.streakStart = now
		}
		return now.Sub(h.streakStart) >= hold
	}

	// New label, including the transition out of idle: a fresh streak can
	// never satisfy the duration requirement on its first observation.
	h.lastLabel = label
	h.streakStart = now
	return false
}

// Reset returns the tracker to idle.
func (h *Hysteresis) Reset() {
	h.lastLabel = ""
	h.streakStart = time.Time{}
}

// Tracking returns the label currently being accumulated, or "" when idle.
func (h *Hysteresis) Tracking() string {
	return h.lastLabel
}
