package decision

import (
	"sync"
	"time"
)

// Default tuning values.
const (
	DefaultThreshold = 0.85
	DefaultHold      = 1500 * time.Millisecond
)

// Pattern identifies which vibration pattern a frame's outcome calls for.
type Pattern int

const (
	// PatternNone means the actuator should be off.
	PatternNone Pattern = iota
	// PatternPulse is the repeating 1s-on/1s-off pattern driven by the
	// instantaneous rule. It always preempts PatternSteady.
	PatternPulse
	// PatternSteady is the single fire-and-forget pulse driven by a
	// hysteresis-confirmed label.
	PatternSteady
)

// String returns the pattern name for logs and API payloads.
func (p Pattern) String() string {
	switch p {
	case PatternPulse:
		return "pulse"
	case PatternSteady:
		return "steady"
	default:
		return "none"
	}
}

// Params holds the live-tunable decision parameters.
type Params struct {
	// Threshold is the best-candidate confidence threshold in [0,1].
	Threshold float64
	// Hold is how long a label must continuously hold the best-candidate
	// slot before it is confirmed.
	Hold time.Duration
}

// Clamp forces out-of-range values back into their valid domain. Parameter
// validation happens here, at the configuration boundary, never inside the
// per-frame logic.
func (p Params) Clamp() Params {
	if p.Threshold < 0 {
		p.Threshold = 0
	}
	if p.Threshold > 1 {
		p.Threshold = 1
	}
	if p.Hold < 0 {
		p.Hold = 0
	}
	return p
}

// DefaultParams returns the stock threshold and hold duration.
func DefaultParams() Params {
	return Params{Threshold: DefaultThreshold, Hold: DefaultHold}
}

// Outcome is the per-frame decision handed to the UI and the vibration
// controller.
type Outcome struct {
	// Danger is the combined display decision for the frame. It is
	// display-only: vibration follows Pattern, and the instant rule keeps
	// the pulse pattern running even on frames where a ground best
	// candidate forces Danger to false.
	Danger bool
	// ConfirmedLabel is the hysteresis-confirmed label, or "" when none.
	ConfirmedLabel string
	// Instant reports whether the instantaneous high-confidence rule fired.
	Instant bool
	// Best is the frame's best candidate; only meaningful when BestOK.
	Best   Candidate
	BestOK bool
	// Suppressed is set when a ground best candidate muted the danger
	// response for the frame.
	Suppressed bool
	// Pattern is the vibration pattern this frame's outcome calls for.
	Pattern Pattern
}

// Engine runs the full per-frame decision: instantaneous rule, best-candidate
// selection, hysteresis, and pattern choice. One Engine belongs to one
// detection session; it is not shared across sessions.
type Engine struct {
	catalog *Catalog

	mu         sync.Mutex
	params     Params
	hysteresis Hysteresis
}

// NewEngine creates an engine using the given catalog and clamped params.
// A nil catalog falls back to the default ground token set.
func NewEngine(catalog *Catalog, params Params) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Engine{
		catalog: catalog,
		params:  params.Clamp(),
	}
}

// Catalog returns the engine's label catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// SetParams applies new parameters, clamping them into range. Takes effect on
// the next frame.
func (e *Engine) SetParams(params Params) {
	e.mu.Lock()
	e.params = params.Clamp()
	e.mu.Unlock()
}

// Params returns the current parameters.
func (e *Engine) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// Reset clears the hysteresis tracker. Called on session stop so a new
// session never inherits a streak.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.hysteresis.Reset()
	e.mu.Unlock()
}

// Evaluate runs one decision cycle over a frame's predictions.
//
// Order per frame: instantaneous rule, best-candidate selection, hysteresis
// update, combined danger flag, pattern choice (pulse preempts steady), and
// ground suppression: a ground best candidate never produces a danger display
// and mutes the steady pattern. The pulse pattern only ever fires for a
// non-ground class, so suppression does not touch it.
func (e *Engine) Evaluate(preds []Prediction, now time.Time) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	instant := InstantDanger(preds, e.catalog)
	best, bestOK := BestCandidate(preds, e.params.Threshold)

	var label string
	if bestOK {
		label = best.Label
	}
	confirmed := e.hysteresis.Observe(label, bestOK, now, e.params.Hold)

	out := Outcome{
		Instant: instant,
		Best:    best,
		BestOK:  bestOK,
		Danger:  confirmed || instant || bestOK,
	}
	if confirmed {
		out.ConfirmedLabel = label
	}

	groundBest := bestOK && e.catalog.IsGround(best.Label)

	switch {
	case instant:
		out.Pattern = PatternPulse
	case confirmed && !groundBest:
		out.Pattern = PatternSteady
	default:
		out.Pattern = PatternNone
	}

	if groundBest {
		out.Danger = false
		out.Suppressed = true
	}

	return out
}
