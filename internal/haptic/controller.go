package haptic

import (
	"log"
	"sync"
	"time"

	"github.com/minsukim/jikimi/internal/decision"
)

// Controller is the single owner of the vibration actuator. The frame loop is
// the only source of "which pattern should run" decisions, delivered through
// Apply; the internal phase ticker is purely mechanical and never decides
// anything beyond toggling on/off. Only one pattern is ever active, and
// switching patterns cancels the previous timer and actuator state first.
type Controller struct {
	actuator Actuator

	mu      sync.Mutex
	pattern decision.Pattern
	phaseOn bool
	done    chan struct{}
}

// NewController creates a controller for the given actuator. A nil actuator
// falls back to NoopActuator.
func NewController(actuator Actuator) *Controller {
	if actuator == nil {
		actuator = NoopActuator{}
	}
	return &Controller{actuator: actuator}
}

// Apply switches the controller to the given pattern. Applying the pattern
// already running is a no-op: the pulse keeps its cadence and the steady
// pulse is not refired.
func (c *Controller) Apply(pattern decision.Pattern) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pattern == c.pattern {
		return
	}

	// From idle there is nothing to cancel, and a leading vibrate(0) would
	// cost a plugin invocation on the frame loop before the real pulse.
	if c.pattern != decision.PatternNone {
		c.cancelLocked()
	}
	c.pattern = pattern

	switch pattern {
	case decision.PatternPulse:
		c.phaseOn = true
		c.vibrate(PulseDuration)
		c.done = make(chan struct{})
		go c.runPulse(c.done)
	case decision.PatternSteady:
		// Fire and forget: one pulse on activation, no repeat.
		c.vibrate(SteadyPulse)
	}
}

// Pattern returns the pattern currently owning the actuator.
func (c *Controller) Pattern() decision.Pattern {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pattern
}

// Active reports whether any pattern is currently running.
func (c *Controller) Active() bool {
	return c.Pattern() != decision.PatternNone
}

// Stop synchronously cancels the running pattern and forces the actuator off.
// Safe to call repeatedly; a stopped controller stays usable for the next
// session.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	c.pattern = decision.PatternNone
}

// cancelLocked stops the pulse ticker goroutine if one is running and cancels
// any vibration in progress. Caller holds c.mu.
func (c *Controller) cancelLocked() {
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
	c.phaseOn = false
	c.vibrate(0)
}

// runPulse toggles the pulse phase on a fixed 1-second cadence until done is
// closed. All state changes go through the mutex the frame loop uses, so the
// ticker and Apply can never interleave destructively.
func (c *Controller) runPulse(done chan struct{}) {
	ticker := time.NewTicker(PulsePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.mu.Lock()
			// The pattern may have been switched between the tick
			// firing and the lock being acquired.
			if c.done != done {
				c.mu.Unlock()
				return
			}
			c.phaseOn = !c.phaseOn
			if c.phaseOn {
				c.vibrate(PulseDuration)
			} else {
				c.vibrate(0)
			}
			c.mu.Unlock()
		}
	}
}

// vibrate forwards to the actuator, logging failures. Actuator errors never
// affect decision state.
func (c *Controller) vibrate(d time.Duration) {
	if err := c.actuator.Vibrate(d); err != nil {
		log.Printf("haptic: vibrate(%v) failed: %v", d, err)
	}
}
