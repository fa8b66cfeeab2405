package haptic

import (
	"errors"
	"testing"
	"time"

	"github.com/minsukim/jikimi/internal/decision"
)

func TestController_SteadyFiresSinglePulse(t *testing.T) {
	actuator := NewMockActuator()
	c := NewController(actuator)
	defer c.Stop()

	c.Apply(decision.PatternSteady)

	calls := actuator.Calls()
	if len(calls) != 1 || calls[0] != SteadyPulse {
		t.Fatalf("calls = %v, want single %v pulse", calls, SteadyPulse)
	}

	// Re-applying the same pattern must not refire.
	c.Apply(decision.PatternSteady)
	if got := len(actuator.Calls()); got != 1 {
		t.Errorf("re-apply recorded %d calls, want 1", got)
	}
}

func TestController_PulseFromIdleStartsOnPhase(t *testing.T) {
	actuator := NewMockActuator()
	c := NewController(actuator)
	defer c.Stop()

	c.Apply(decision.PatternPulse)

	// Activating from idle must not emit a cancel first; the on-pulse is
	// the only command.
	calls := actuator.Calls()
	if len(calls) != 1 || calls[0] != PulseDuration {
		t.Fatalf("calls = %v, want immediate %v on-pulse", calls, PulseDuration)
	}
}

func TestController_NoneCancelsSteady(t *testing.T) {
	actuator := NewMockActuator()
	c := NewController(actuator)
	defer c.Stop()

	c.Apply(decision.PatternSteady)
	c.Apply(decision.PatternNone)

	if actuator.Last() != 0 {
		t.Errorf("last command = %v, want cancel (0)", actuator.Last())
	}
	if c.Active() {
		t.Error("controller should be inactive after PatternNone")
	}
}

func TestController_PulsePreemptsSteady(t *testing.T) {
	actuator := NewMockActuator()
	c := NewController(actuator)
	defer c.Stop()

	c.Apply(decision.PatternSteady)
	c.Apply(decision.PatternPulse)

	if c.Pattern() != decision.PatternPulse {
		t.Fatalf("pattern = %v, want %v", c.Pattern(), decision.PatternPulse)
	}

	// Switching must cancel the steady pulse before starting the pulse
	// pattern: steady-on, cancel, pulse-on.
	calls := actuator.Calls()
	want := []time.Duration{SteadyPulse, 0, PulseDuration}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestController_PulseTogglesPhase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing-dependent test")
	}

	actuator := NewMockActuator()
	c := NewController(actuator)
	defer c.Stop()

	c.Apply(decision.PatternPulse)
	time.Sleep(PulsePeriod + PulsePeriod/2)

	// One immediate on-pulse plus at least one off-phase cancel from the
	// ticker within 1.5 periods.
	calls := actuator.Calls()
	if len(calls) < 2 {
		t.Fatalf("calls = %v, want at least the initial pulse and one toggle", calls)
	}
	if calls[0] != PulseDuration {
		t.Errorf("first call = %v, want %v", calls[0], PulseDuration)
	}
	if calls[1] != 0 {
		t.Errorf("second call = %v, want off-phase cancel", calls[1])
	}
}

func TestController_StopIsIdempotent(t *testing.T) {
	actuator := NewMockActuator()
	c := NewController(actuator)

	c.Apply(decision.PatternPulse)
	c.Stop()
	c.Stop()

	if c.Active() {
		t.Error("controller should be inactive after Stop")
	}
	if actuator.Last() != 0 {
		t.Errorf("last command = %v, want forced off", actuator.Last())
	}
}

func TestController_ActuatorErrorsDoNotStick(t *testing.T) {
	actuator := NewMockActuator()
	actuator.SetError(errors.New("motor unavailable"))
	c := NewController(actuator)
	defer c.Stop()

	// Errors are logged and dropped; the controller keeps its state.
	c.Apply(decision.PatternSteady)
	if c.Pattern() != decision.PatternSteady {
		t.Errorf("pattern = %v, want %v despite actuator error", c.Pattern(), decision.PatternSteady)
	}
}

func TestController_NilActuatorFallsBackToNoop(t *testing.T) {
	c := NewController(nil)
	defer c.Stop()

	c.Apply(decision.PatternSteady)
	if c.Pattern() != decision.PatternSteady {
		t.Error("controller with nil actuator should still track patterns")
	}
}
