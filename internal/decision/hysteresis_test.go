package decision

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func at(seconds float64) time.Time {
	return t0.Add(time.Duration(seconds * float64(time.Second)))
}

func TestHysteresis_ConfirmsAfterHold(t *testing.T) {
	var h Hysteresis
	hold := 1500 * time.Millisecond

	// Same label at t=0,1,2 with a 1.5s hold: first call starts the
	// streak, second has only 1s elapsed, third clears 1.5s.
	steps := []struct {
		t    time.Time
		want bool
	}{
		{at(0), false},
		{at(1), false},
		{at(2), true},
	}

	for i, step := range steps {
		if got := h.Observe("A", true, step.t, hold); got != step.want {
			t.Errorf("step %d: confirmed = %v, want %v", i, got, step.want)
		}
	}
}

func TestHysteresis_DifferentLabelRestartsStreak(t *testing.T) {
	var h Hysteresis
	hold := 1500 * time.Millisecond

	if h.Observe("A", true, at(0), hold) {
		t.Error("fresh streak must not confirm")
	}
	if h.Observe("B", true, at(1), hold) {
		t.Error("label change must restart the streak, not confirm")
	}
	if h.Tracking() != "B" {
		t.Errorf("Tracking() = %q, want %q", h.Tracking(), "B")
	}

	// B's streak started at t=1, so it confirms at t=2.5, not sooner.
	if h.Observe("B", true, at(2), hold) {
		t.Error("B at t=2 has only 1s elapsed, must not confirm")
	}
	if !h.Observe("B", true, at(2.5), hold) {
		t.Error("B at t=2.5 has 1.5s elapsed, must confirm")
	}
}

func TestHysteresis_NoCandidateResets(t *testing.T) {
	var h Hysteresis
	hold := time.Second

	h.Observe("A", true, at(0), hold)
	h.Observe("", false, at(0.5), hold)

	if h.Tracking() != "" {
		t.Errorf("tracker should be idle after a no-candidate frame, tracking %q", h.Tracking())
	}
	if !h.streakStart.IsZero() {
		t.Error("streakStart should be cleared with lastLabel")
	}

	// The old streak gives no partial credit.
	if h.Observe("A", true, at(1), hold) {
		t.Error("streak must restart from scratch after an interruption")
	}
	if !h.Observe("A", true, at(2), hold) {
		t.Error("restarted streak should confirm after the hold elapses")
	}
}

func TestHysteresis_ConfirmationNotLatched(t *testing.T) {
	var h Hysteresis
	hold := time.Second

	h.Observe("A", true, at(0), hold)
	if !h.Observe("A", true, at(1), hold) {
		t.Fatal("expected confirmation after hold")
	}

	// A single interruption drops confirmation immediately.
	if h.Observe("B", true, at(1.1), hold) {
		t.Error("confirmation must not survive a label change")
	}
}

func TestHysteresis_ZeroHoldConfirmsOnRepeat(t *testing.T) {
	var h Hysteresis

	// A fresh streak never confirms on its first observation, even with a
	// zero hold: the first call only restarts the streak.
	if h.Observe("A", true, at(0), 0) {
		t.Error("first observation must not confirm")
	}
	if !h.Observe("A", true, at(0.1), 0) {
		t.Error("zero hold must confirm once the label repeats")
	}
}
