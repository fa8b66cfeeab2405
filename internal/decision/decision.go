// Package decision turns per-frame class probabilities into a stable,
// debounced danger/safe signal for the Jikimi hazard watcher.
package decision

// InstantThreshold is the probability a non-ground class must reach on a
// single frame to trigger the instantaneous danger rule.
const InstantThreshold = 0.90

// Prediction is one row of a frame's classification output.
type Prediction struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Candidate is the winning prediction of a frame, if any.
type Candidate struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// BestCandidate scans the frame's predictions left to right and returns the
// entry with the highest probability, provided it reaches the threshold.
// Ties go to the first-seen entry. The second return value is false when the
// input is empty or no entry clears the threshold.
func BestCandidate(preds []Prediction, threshold float64) (Candidate, bool) {
	if len(preds) == 0 {
		return Candidate{}, false
	}

	best := preds[0]
	for _, p := range preds[1:] {
		if p.Probability > best.Probability {
			best = p
		}
	}

	if best.Probability < threshold {
		return Candidate{}, false
	}

	return Candidate{Label: best.Label, Probability: best.Probability}, true
}

// InstantDanger reports whether any non-ground class is at or above
// InstantThreshold on this frame alone. It is independent of the
// best-candidate threshold and of hysteresis, and returns false on
// empty input.
func InstantDanger(preds []Prediction, catalog *Catalog) bool {
	for _, p := range preds {
		if p.Probability >= InstantThreshold && !catalog.IsGround(p.Label) {
			return true
		}
	}
	return false
}
