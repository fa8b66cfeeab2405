// Package haptic drives the platform vibration actuator with the pattern the
// decision engine selects for each frame.
package haptic

import "time"

// Pulse pattern timing: the repeating pattern runs 1s on, 1s off, driven by a
// 1-second phase ticker. The steady pattern is a single pulse of the same
// length, fired once on activation.
const (
	PulsePeriod   = time.Second
	PulseDuration = time.Second
	SteadyPulse   = time.Second
)

// Actuator is the platform vibration capability. Vibrate(0) cancels any
// vibration in progress.
type Actuator interface {
	Vibrate(d time.Duration) error
}

// NoopActuator discards vibration commands. Used when no vibration plugin is
// installed.
type NoopActuator struct{}

// Vibrate implements Actuator.
func (NoopActuator) Vibrate(time.Duration) error { return nil }
